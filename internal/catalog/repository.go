package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CategoryRepository reads the unified category table.
type CategoryRepository interface {
	CategoryLister
	Get(ctx context.Context, id int64) (Category, bool, error)
}

type categoryRepository struct {
	db *pgxpool.Pool
}

// NewCategoryRepository constructs a CategoryRepository over pgx.
func NewCategoryRepository(db *pgxpool.Pool) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) ListActive(ctx context.Context) ([]Category, error) {
	const query = `SELECT id, name, slug, parent_id, is_active, created_at, updated_at
FROM categories WHERE is_active = TRUE ORDER BY parent_id NULLS FIRST, name`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.ParentID, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *categoryRepository) Get(ctx context.Context, id int64) (Category, bool, error) {
	const query = `SELECT id, name, slug, parent_id, is_active, created_at, updated_at
FROM categories WHERE id = $1 AND is_active = TRUE`
	var c Category
	err := r.db.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.Slug, &c.ParentID, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, false, nil
		}
		return Category{}, false, fmt.Errorf("get category %d: %w", id, err)
	}
	return c, true, nil
}

// BrandRepository reads brands.
type BrandRepository interface {
	BrandGetter
	ListActive(ctx context.Context) ([]Brand, error)
}

type brandRepository struct {
	db *pgxpool.Pool
}

// NewBrandRepository constructs a BrandRepository over pgx.
func NewBrandRepository(db *pgxpool.Pool) BrandRepository {
	return &brandRepository{db: db}
}

func (r *brandRepository) Get(ctx context.Context, id int64) (Brand, bool, error) {
	const query = `SELECT id, name, is_active, created_at FROM brands WHERE id = $1 AND is_active = TRUE`
	var b Brand
	err := r.db.QueryRow(ctx, query, id).Scan(&b.ID, &b.Name, &b.IsActive, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Brand{}, false, nil
		}
		return Brand{}, false, fmt.Errorf("get brand %d: %w", id, err)
	}
	return b, true, nil
}

func (r *brandRepository) ListActive(ctx context.Context) ([]Brand, error) {
	const query = `SELECT id, name, is_active, created_at FROM brands WHERE is_active = TRUE ORDER BY name`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	defer rows.Close()

	var brands []Brand
	for rows.Next() {
		var b Brand
		if err := rows.Scan(&b.ID, &b.Name, &b.IsActive, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan brand: %w", err)
		}
		brands = append(brands, b)
	}
	return brands, rows.Err()
}

// ProductRepository persists and reads products. Insert and Update
// surface raw store errors unwrapped so the schema-tolerant writer can
// classify them.
type ProductRepository interface {
	ProductStore
	SlugChecker
	Get(ctx context.Context, id int64) (Product, error)
	GetCategorization(ctx context.Context, id int64) (CategorizationRefs, error)
}

type productRepository struct {
	db *pgxpool.Pool
}

// NewProductRepository constructs a ProductRepository over pgx.
func NewProductRepository(db *pgxpool.Pool) ProductRepository {
	return &productRepository{db: db}
}

// baseColumns is the column set every deployment is guaranteed to have.
var baseColumns = []string{
	"slug", "name", "description", "price", "image_url",
	"category_id", "subcategory_id", "brand_id", "is_active",
}

// optionalColumns were added by later migrations and may be missing on
// deployments whose schema lags behind the application.
var optionalColumns = []string{
	"purchase_type", "condition", "stock_qty", "banner_label", "banner_link",
}

func productArgs(f ProductFields) []interface{} {
	args := []interface{}{
		f.Slug, f.Name, f.Description, f.Price, f.ImageURL,
		f.CategoryID, f.SubcategoryID, f.BrandID, f.IsActive,
	}
	if f.Optional != nil {
		args = append(args, f.Optional.PurchaseType, f.Optional.Condition,
			f.Optional.StockQty, f.Optional.BannerLabel, f.Optional.BannerLink)
	}
	return args
}

func (r *productRepository) Insert(ctx context.Context, f ProductFields) (int64, error) {
	cols := append([]string{}, baseColumns...)
	if f.Optional != nil {
		cols = append(cols, optionalColumns...)
	}
	cols = append(cols, "created_at", "updated_at")

	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = "$" + strconv.Itoa(i+1)
	}

	now := time.Now()
	args := append(productArgs(f), now, now)

	query := `INSERT INTO products (` + strings.Join(cols, ", ") + `) VALUES (` +
		strings.Join(placeholders, ", ") + `) RETURNING id`

	var id int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *productRepository) Update(ctx context.Context, f ProductFields) error {
	cols := append([]string{}, baseColumns...)
	if f.Optional != nil {
		cols = append(cols, optionalColumns...)
	}
	cols = append(cols, "updated_at")

	assignments := make([]string, len(cols))
	for i, col := range cols {
		assignments[i] = col + " = $" + strconv.Itoa(i+1)
	}

	args := append(productArgs(f), time.Now(), f.ID)
	query := `UPDATE products SET ` + strings.Join(assignments, ", ") +
		` WHERE id = $` + strconv.Itoa(len(args))

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *productRepository) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM products WHERE slug = $1 AND id <> $2)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, slug, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check slug exists: %w", err)
	}
	return exists, nil
}

func (r *productRepository) Get(ctx context.Context, id int64) (Product, error) {
	const query = `SELECT id, slug, name, description, price, image_url,
category_id, subcategory_id, brand_id, is_active, created_at, updated_at
FROM products WHERE id = $1`
	var p Product
	err := r.db.QueryRow(ctx, query, id).Scan(&p.ID, &p.Slug, &p.Name, &p.Description,
		&p.Price, &p.ImageURL, &p.CategoryID, &p.SubcategoryID, &p.BrandID,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, ErrProductNotFound
		}
		return Product{}, fmt.Errorf("get product %d: %w", id, err)
	}
	return p, nil
}

func (r *productRepository) GetCategorization(ctx context.Context, id int64) (CategorizationRefs, error) {
	const query = `SELECT category_id, subcategory_id, brand_id FROM products WHERE id = $1`
	var refs CategorizationRefs
	err := r.db.QueryRow(ctx, query, id).Scan(&refs.CategoryID, &refs.SubcategoryID, &refs.BrandID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CategorizationRefs{}, ErrProductNotFound
		}
		return CategorizationRefs{}, fmt.Errorf("get product categorization %d: %w", id, err)
	}
	return refs, nil
}
