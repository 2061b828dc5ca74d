package masterdata

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/bazario/bazario/internal/catalog"
)

// CacheInvalidator drops derived category caches after mutations.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// service implements Service interface
type service struct {
	repo   Repository
	cache  CacheInvalidator
	logger *slog.Logger
}

// NewService creates a new master data service. cache may be nil.
func NewService(repo Repository, cache CacheInvalidator, logger *slog.Logger) Service {
	return &service{repo: repo, cache: cache, logger: logger}
}

// invalidateCategories drops the cached category tree. Failures are
// logged, not propagated, so an unreachable cache never blocks writes.
func (s *service) invalidateCategories(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil && s.logger != nil {
		s.logger.Warn("invalidate category cache", slog.Any("error", err))
	}
}

// Category operations
func (s *service) ListCategories(ctx context.Context, filters ListFilters) ([]Category, int, error) {
	return s.repo.ListCategories(ctx, filters)
}

func (s *service) GetCategory(ctx context.Context, id int64) (Category, error) {
	if id <= 0 {
		return Category{}, errors.New("invalid category ID")
	}
	return s.repo.GetCategory(ctx, id)
}

func (s *service) CreateCategory(ctx context.Context, category Category) (Category, error) {
	if err := s.validateCategory(ctx, category); err != nil {
		return Category{}, err
	}
	category.Slug = slugFor(category.Name, category.Slug)
	created, err := s.repo.CreateCategory(ctx, category)
	if err != nil {
		return Category{}, err
	}
	s.invalidateCategories(ctx)
	return created, nil
}

func (s *service) UpdateCategory(ctx context.Context, id int64, category Category) error {
	if id <= 0 {
		return errors.New("invalid category ID")
	}
	if err := s.validateCategory(ctx, category); err != nil {
		return err
	}
	if !category.IsActive {
		used, err := s.repo.CategoryInUse(ctx, id)
		if err != nil {
			return err
		}
		if used {
			return ErrCategoryInUse
		}
	}
	category.Slug = slugFor(category.Name, category.Slug)
	if err := s.repo.UpdateCategory(ctx, id, category); err != nil {
		return err
	}
	s.invalidateCategories(ctx)
	return nil
}

func (s *service) DeleteCategory(ctx context.Context, id int64) error {
	if id <= 0 {
		return errors.New("invalid category ID")
	}
	used, err := s.repo.CategoryInUse(ctx, id)
	if err != nil {
		return err
	}
	if used {
		return ErrCategoryInUse
	}
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.invalidateCategories(ctx)
	return nil
}

// validateCategory checks the name and, for subcategories, that the
// parent exists and is itself a main category.
func (s *service) validateCategory(ctx context.Context, category Category) error {
	if strings.TrimSpace(category.Name) == "" {
		return errors.New("category name is required")
	}
	if category.ParentID == nil {
		return nil
	}
	parent, err := s.repo.GetCategory(ctx, *category.ParentID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return errors.New("parent category does not exist")
		}
		return err
	}
	if parent.ParentID != nil {
		return errors.New("parent must be a main category")
	}
	return nil
}

// Brand operations
func (s *service) ListBrands(ctx context.Context, filters ListFilters) ([]Brand, int, error) {
	return s.repo.ListBrands(ctx, filters)
}

func (s *service) GetBrand(ctx context.Context, id int64) (Brand, error) {
	if id <= 0 {
		return Brand{}, errors.New("invalid brand ID")
	}
	return s.repo.GetBrand(ctx, id)
}

func (s *service) CreateBrand(ctx context.Context, brand Brand) (Brand, error) {
	if strings.TrimSpace(brand.Name) == "" {
		return Brand{}, errors.New("brand name is required")
	}
	brand.Slug = slugFor(brand.Name, brand.Slug)
	return s.repo.CreateBrand(ctx, brand)
}

func (s *service) UpdateBrand(ctx context.Context, id int64, brand Brand) error {
	if id <= 0 {
		return errors.New("invalid brand ID")
	}
	if strings.TrimSpace(brand.Name) == "" {
		return errors.New("brand name is required")
	}
	brand.Slug = slugFor(brand.Name, brand.Slug)
	return s.repo.UpdateBrand(ctx, id, brand)
}

func (s *service) DeleteBrand(ctx context.Context, id int64) error {
	if id <= 0 {
		return errors.New("invalid brand ID")
	}
	used, err := s.repo.BrandInUse(ctx, id)
	if err != nil {
		return err
	}
	if used {
		return ErrBrandInUse
	}
	return s.repo.DeleteBrand(ctx, id)
}

// Banner operations
func (s *service) ListBanners(ctx context.Context, filters ListFilters) ([]Banner, int, error) {
	return s.repo.ListBanners(ctx, filters)
}

func (s *service) GetBanner(ctx context.Context, id int64) (Banner, error) {
	if id <= 0 {
		return Banner{}, errors.New("invalid banner ID")
	}
	return s.repo.GetBanner(ctx, id)
}

func (s *service) CreateBanner(ctx context.Context, banner Banner) (Banner, error) {
	if strings.TrimSpace(banner.Label) == "" {
		return Banner{}, errors.New("banner label is required")
	}
	return s.repo.CreateBanner(ctx, banner)
}

func (s *service) UpdateBanner(ctx context.Context, id int64, banner Banner) error {
	if id <= 0 {
		return errors.New("invalid banner ID")
	}
	if strings.TrimSpace(banner.Label) == "" {
		return errors.New("banner label is required")
	}
	return s.repo.UpdateBanner(ctx, id, banner)
}

func (s *service) DeleteBanner(ctx context.Context, id int64) error {
	if id <= 0 {
		return errors.New("invalid banner ID")
	}
	return s.repo.DeleteBanner(ctx, id)
}

func slugFor(name, slug string) string {
	if slug != "" {
		return slug
	}
	return catalog.Slugify(name)
}
