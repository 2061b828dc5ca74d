package catalog

import (
	"time"
)

// Category represents one node of the two-level category tree. A node
// with a nil ParentID is a main category; a node with a non-nil ParentID
// is a subcategory of that main category.
type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	ParentID  *int64    `json:"parent_id"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsMain reports whether the category is a top-level node.
func (c Category) IsMain() bool {
	return c.ParentID == nil
}

// Brand represents a product brand.
type Brand struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// Product is the persisted catalog entity.
type Product struct {
	ID            int64     `json:"id"`
	Slug          string    `json:"slug"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	ImageURL      string    `json:"image_url"`
	CategoryID    int64     `json:"category_id"`
	SubcategoryID *int64    `json:"subcategory_id"`
	BrandID       *int64    `json:"brand_id"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// OptionalFields are descriptive columns added by later migrations. The
// live schema may not carry them yet, so the writer treats them as a
// single droppable unit.
type OptionalFields struct {
	PurchaseType string `json:"purchase_type"`
	Condition    string `json:"condition"`
	StockQty     int    `json:"stock_qty"`
	BannerLabel  string `json:"banner_label"`
	BannerLink   string `json:"banner_link"`
}

// ProductFields is the flat field set handed to the schema-tolerant
// writer. ID is zero on create. Optional is nil when the optional
// column set was dropped by a degradation step (or never supplied).
type ProductFields struct {
	ID            int64
	Slug          string
	Name          string
	Description   string
	Price         float64
	ImageURL      string
	CategoryID    int64
	SubcategoryID *int64
	BrandID       *int64
	IsActive      bool
	Optional      *OptionalFields
}

// NoneLabel is the display value for an absent subcategory or brand.
const NoneLabel = "None"

// CategorizationNames holds resolved display names for confirmation and
// audit. Subcategory and Brand are NoneLabel when not set.
type CategorizationNames struct {
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	Brand       string `json:"brand"`
}

// CategorizationRefs is the raw categorization triple as persisted.
type CategorizationRefs struct {
	CategoryID    int64
	SubcategoryID *int64
	BrandID       *int64
}
