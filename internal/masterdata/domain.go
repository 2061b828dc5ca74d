package masterdata

import (
	"context"
	"errors"
	"time"
)

// ListFilters represents standard list page filters
type ListFilters struct {
	Page     int
	Limit    int
	Search   string
	SortBy   string
	SortDir  string
	IsActive *bool

	// Entity specific filters
	ParentID *int64
}

// Category represents a catalog category. A nil ParentID marks a main
// category, a non-nil one marks a subcategory of that parent.
type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	ParentID  *int64    `json:"parent_id"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Brand represents a product brand
type Brand struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	LogoURL   string    `json:"logo_url"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Banner represents a storefront promotional banner
type Banner struct {
	ID        int64     `json:"id"`
	Label     string    `json:"label"`
	ImageURL  string    `json:"image_url"`
	LinkURL   string    `json:"link_url"`
	Position  int       `json:"position"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var (
	// ErrNotFound is returned when a master data record does not exist.
	ErrNotFound = errors.New("masterdata: record not found")
	// ErrCategoryInUse is returned when a category still has products
	// or subcategories attached.
	ErrCategoryInUse = errors.New("masterdata: category has products or subcategories")
	// ErrBrandInUse is returned when a brand still has products attached.
	ErrBrandInUse = errors.New("masterdata: brand has products")
	// ErrDuplicateSlug is returned when a slug collides with an existing record.
	ErrDuplicateSlug = errors.New("masterdata: slug already exists")
)

// Repository interface for master data operations
type Repository interface {
	// Category operations
	ListCategories(ctx context.Context, filters ListFilters) ([]Category, int, error)
	GetCategory(ctx context.Context, id int64) (Category, error)
	CreateCategory(ctx context.Context, category Category) (Category, error)
	UpdateCategory(ctx context.Context, id int64, category Category) error
	DeleteCategory(ctx context.Context, id int64) error
	CategoryInUse(ctx context.Context, id int64) (bool, error)

	// Brand operations
	ListBrands(ctx context.Context, filters ListFilters) ([]Brand, int, error)
	GetBrand(ctx context.Context, id int64) (Brand, error)
	CreateBrand(ctx context.Context, brand Brand) (Brand, error)
	UpdateBrand(ctx context.Context, id int64, brand Brand) error
	DeleteBrand(ctx context.Context, id int64) error
	BrandInUse(ctx context.Context, id int64) (bool, error)

	// Banner operations
	ListBanners(ctx context.Context, filters ListFilters) ([]Banner, int, error)
	GetBanner(ctx context.Context, id int64) (Banner, error)
	CreateBanner(ctx context.Context, banner Banner) (Banner, error)
	UpdateBanner(ctx context.Context, id int64, banner Banner) error
	DeleteBanner(ctx context.Context, id int64) error
}

// Service interface for master data business logic
type Service interface {
	// Category operations
	ListCategories(ctx context.Context, filters ListFilters) ([]Category, int, error)
	GetCategory(ctx context.Context, id int64) (Category, error)
	CreateCategory(ctx context.Context, category Category) (Category, error)
	UpdateCategory(ctx context.Context, id int64, category Category) error
	DeleteCategory(ctx context.Context, id int64) error

	// Brand operations
	ListBrands(ctx context.Context, filters ListFilters) ([]Brand, int, error)
	GetBrand(ctx context.Context, id int64) (Brand, error)
	CreateBrand(ctx context.Context, brand Brand) (Brand, error)
	UpdateBrand(ctx context.Context, id int64, brand Brand) error
	DeleteBrand(ctx context.Context, id int64) error

	// Banner operations
	ListBanners(ctx context.Context, filters ListFilters) ([]Banner, int, error)
	GetBanner(ctx context.Context, id int64) (Banner, error)
	CreateBanner(ctx context.Context, banner Banner) (Banner, error)
	UpdateBanner(ctx context.Context, id int64, banner Banner) error
	DeleteBanner(ctx context.Context, id int64) error
}
