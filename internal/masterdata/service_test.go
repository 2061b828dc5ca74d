package masterdata

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	categories map[int64]Category
	brands     map[int64]Brand
	banners    map[int64]Banner
	inUse      map[int64]bool
	brandUse   map[int64]bool
	nextID     int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		categories: make(map[int64]Category),
		brands:     make(map[int64]Brand),
		banners:    make(map[int64]Banner),
		inUse:      make(map[int64]bool),
		brandUse:   make(map[int64]bool),
	}
}

func (r *memoryRepo) ListCategories(_ context.Context, _ ListFilters) ([]Category, int, error) {
	var out []Category
	for _, c := range r.categories {
		out = append(out, c)
	}
	return out, len(out), nil
}

func (r *memoryRepo) GetCategory(_ context.Context, id int64) (Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return Category{}, ErrNotFound
	}
	return c, nil
}

func (r *memoryRepo) CreateCategory(_ context.Context, c Category) (Category, error) {
	r.nextID++
	c.ID = r.nextID
	r.categories[c.ID] = c
	return c, nil
}

func (r *memoryRepo) UpdateCategory(_ context.Context, id int64, c Category) error {
	if _, ok := r.categories[id]; !ok {
		return ErrNotFound
	}
	c.ID = id
	r.categories[id] = c
	return nil
}

func (r *memoryRepo) DeleteCategory(_ context.Context, id int64) error {
	if _, ok := r.categories[id]; !ok {
		return ErrNotFound
	}
	delete(r.categories, id)
	return nil
}

func (r *memoryRepo) CategoryInUse(_ context.Context, id int64) (bool, error) {
	return r.inUse[id], nil
}

func (r *memoryRepo) ListBrands(_ context.Context, _ ListFilters) ([]Brand, int, error) {
	var out []Brand
	for _, b := range r.brands {
		out = append(out, b)
	}
	return out, len(out), nil
}

func (r *memoryRepo) GetBrand(_ context.Context, id int64) (Brand, error) {
	b, ok := r.brands[id]
	if !ok {
		return Brand{}, ErrNotFound
	}
	return b, nil
}

func (r *memoryRepo) CreateBrand(_ context.Context, b Brand) (Brand, error) {
	r.nextID++
	b.ID = r.nextID
	r.brands[b.ID] = b
	return b, nil
}

func (r *memoryRepo) UpdateBrand(_ context.Context, id int64, b Brand) error {
	if _, ok := r.brands[id]; !ok {
		return ErrNotFound
	}
	b.ID = id
	r.brands[id] = b
	return nil
}

func (r *memoryRepo) DeleteBrand(_ context.Context, id int64) error {
	if _, ok := r.brands[id]; !ok {
		return ErrNotFound
	}
	delete(r.brands, id)
	return nil
}

func (r *memoryRepo) BrandInUse(_ context.Context, id int64) (bool, error) {
	return r.brandUse[id], nil
}

func (r *memoryRepo) ListBanners(_ context.Context, _ ListFilters) ([]Banner, int, error) {
	var out []Banner
	for _, b := range r.banners {
		out = append(out, b)
	}
	return out, len(out), nil
}

func (r *memoryRepo) GetBanner(_ context.Context, id int64) (Banner, error) {
	b, ok := r.banners[id]
	if !ok {
		return Banner{}, ErrNotFound
	}
	return b, nil
}

func (r *memoryRepo) CreateBanner(_ context.Context, b Banner) (Banner, error) {
	r.nextID++
	b.ID = r.nextID
	r.banners[b.ID] = b
	return b, nil
}

func (r *memoryRepo) UpdateBanner(_ context.Context, id int64, b Banner) error {
	if _, ok := r.banners[id]; !ok {
		return ErrNotFound
	}
	b.ID = id
	r.banners[id] = b
	return nil
}

func (r *memoryRepo) DeleteBanner(_ context.Context, id int64) error {
	if _, ok := r.banners[id]; !ok {
		return ErrNotFound
	}
	delete(r.banners, id)
	return nil
}

type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) Invalidate(_ context.Context) error {
	c.calls++
	return nil
}

func testService() (Service, *memoryRepo, *countingInvalidator) {
	repo := newMemoryRepo()
	inv := &countingInvalidator{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, inv, logger), repo, inv
}

func TestCreateCategoryGeneratesSlugAndInvalidates(t *testing.T) {
	svc, _, inv := testService()

	created, err := svc.CreateCategory(context.Background(), Category{Name: "Home & Garden", IsActive: true})
	require.NoError(t, err)
	require.Equal(t, "home-garden", created.Slug)
	require.Equal(t, 1, inv.calls)
}

func TestCreateSubcategoryRequiresMainParent(t *testing.T) {
	svc, _, _ := testService()

	main, err := svc.CreateCategory(context.Background(), Category{Name: "Kitchen", IsActive: true})
	require.NoError(t, err)
	sub, err := svc.CreateCategory(context.Background(), Category{Name: "Mugs", ParentID: &main.ID, IsActive: true})
	require.NoError(t, err)

	// A subcategory cannot itself be a parent.
	_, err = svc.CreateCategory(context.Background(), Category{Name: "Espresso Mugs", ParentID: &sub.ID, IsActive: true})
	require.Error(t, err)

	missing := int64(999)
	_, err = svc.CreateCategory(context.Background(), Category{Name: "Orphan", ParentID: &missing, IsActive: true})
	require.Error(t, err)
}

func TestDeleteCategoryInUse(t *testing.T) {
	svc, repo, inv := testService()

	created, err := svc.CreateCategory(context.Background(), Category{Name: "Kitchen", IsActive: true})
	require.NoError(t, err)
	repo.inUse[created.ID] = true

	err = svc.DeleteCategory(context.Background(), created.ID)
	require.ErrorIs(t, err, ErrCategoryInUse)
	require.Contains(t, repo.categories, created.ID)
	require.Equal(t, 1, inv.calls) // only the create invalidated
}

func TestDeactivateCategoryInUse(t *testing.T) {
	svc, repo, _ := testService()

	created, err := svc.CreateCategory(context.Background(), Category{Name: "Kitchen", IsActive: true})
	require.NoError(t, err)
	repo.inUse[created.ID] = true

	created.IsActive = false
	err = svc.UpdateCategory(context.Background(), created.ID, created)
	require.ErrorIs(t, err, ErrCategoryInUse)
}

func TestDeleteBrandInUse(t *testing.T) {
	svc, repo, _ := testService()

	created, err := svc.CreateBrand(context.Background(), Brand{Name: "Acme", IsActive: true})
	require.NoError(t, err)
	repo.brandUse[created.ID] = true

	require.ErrorIs(t, svc.DeleteBrand(context.Background(), created.ID), ErrBrandInUse)
}

func TestBannerLabelRequired(t *testing.T) {
	svc, _, _ := testService()

	_, err := svc.CreateBanner(context.Background(), Banner{Label: "  "})
	require.Error(t, err)

	created, err := svc.CreateBanner(context.Background(), Banner{Label: "Summer Sale", Position: 1, IsActive: true})
	require.NoError(t, err)
	require.NotZero(t, created.ID)
}
