package masterdata

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bazario/bazario/internal/platform/db"
)

// repo implements Repository interface
type repo struct {
	db *pgxpool.Pool
}

// NewRepository creates a new master data repository
func NewRepository(db *pgxpool.Pool) Repository {
	return &repo{db: db}
}

func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateSlug
	}
	return err
}

// listClause builds the WHERE tail shared by list queries.
func listClause(filters ListFilters, searchColumn string) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if filters.Search != "" {
		args = append(args, "%"+strings.ToLower(filters.Search)+"%")
		conds = append(conds, fmt.Sprintf("LOWER(%s) LIKE $%d", searchColumn, len(args)))
	}
	if filters.IsActive != nil {
		args = append(args, *filters.IsActive)
		conds = append(conds, fmt.Sprintf("is_active = $%d", len(args)))
	}
	if filters.ParentID != nil {
		args = append(args, *filters.ParentID)
		conds = append(conds, fmt.Sprintf("parent_id = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func limitOffset(filters ListFilters) (int, int) {
	limit := filters.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	page := filters.Page
	if page <= 0 {
		page = 1
	}
	return limit, (page - 1) * limit
}

// Category operations
func (r *repo) ListCategories(ctx context.Context, filters ListFilters) ([]Category, int, error) {
	where, args := listClause(filters, "name")

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM categories`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, offset := limitOffset(filters)
	query := `SELECT id, name, slug, parent_id, is_active, created_at, updated_at FROM categories` + where +
		fmt.Sprintf(" ORDER BY name LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	rows, err := r.db.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.ParentID, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		categories = append(categories, c)
	}
	return categories, total, rows.Err()
}

func (r *repo) GetCategory(ctx context.Context, id int64) (Category, error) {
	query := `SELECT id, name, slug, parent_id, is_active, created_at, updated_at FROM categories WHERE id = $1`
	var c Category
	err := r.db.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.Slug, &c.ParentID, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	return c, translateError(err)
}

func (r *repo) CreateCategory(ctx context.Context, category Category) (Category, error) {
	query := `INSERT INTO categories (name, slug, parent_id, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	now := time.Now()
	err := r.db.QueryRow(ctx, query, category.Name, category.Slug, category.ParentID, category.IsActive, now, now).Scan(&category.ID)
	if err != nil {
		return Category{}, translateError(err)
	}
	category.CreatedAt = now
	category.UpdatedAt = now
	return category, nil
}

func (r *repo) UpdateCategory(ctx context.Context, id int64, category Category) error {
	query := `UPDATE categories SET name = $1, slug = $2, parent_id = $3, is_active = $4, updated_at = $5 WHERE id = $6`
	tag, err := r.db.Exec(ctx, query, category.Name, category.Slug, category.ParentID, category.IsActive, time.Now(), id)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCategory re-checks usage inside the transaction so a product
// attached between the service guard and the delete cannot orphan.
func (r *repo) DeleteCategory(ctx context.Context, id int64) error {
	return db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		var used bool
		err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE category_id = $1 OR subcategory_id = $1)
			OR EXISTS(SELECT 1 FROM categories WHERE parent_id = $1)`, id).Scan(&used)
		if err != nil {
			return err
		}
		if used {
			return ErrCategoryInUse
		}
		tag, err := tx.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
		if err != nil {
			return translateError(err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// CategoryInUse reports whether any products or subcategories still
// reference the category.
func (r *repo) CategoryInUse(ctx context.Context, id int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM products WHERE category_id = $1 OR subcategory_id = $1)
	          OR EXISTS(SELECT 1 FROM categories WHERE parent_id = $1)`
	var used bool
	err := r.db.QueryRow(ctx, query, id).Scan(&used)
	return used, err
}

// Brand operations
func (r *repo) ListBrands(ctx context.Context, filters ListFilters) ([]Brand, int, error) {
	where, args := listClause(filters, "name")

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM brands`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, offset := limitOffset(filters)
	query := `SELECT id, name, slug, logo_url, is_active, created_at, updated_at FROM brands` + where +
		fmt.Sprintf(" ORDER BY name LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	rows, err := r.db.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var brands []Brand
	for rows.Next() {
		var b Brand
		if err := rows.Scan(&b.ID, &b.Name, &b.Slug, &b.LogoURL, &b.IsActive, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, 0, err
		}
		brands = append(brands, b)
	}
	return brands, total, rows.Err()
}

func (r *repo) GetBrand(ctx context.Context, id int64) (Brand, error) {
	query := `SELECT id, name, slug, logo_url, is_active, created_at, updated_at FROM brands WHERE id = $1`
	var b Brand
	err := r.db.QueryRow(ctx, query, id).Scan(&b.ID, &b.Name, &b.Slug, &b.LogoURL, &b.IsActive, &b.CreatedAt, &b.UpdatedAt)
	return b, translateError(err)
}

func (r *repo) CreateBrand(ctx context.Context, brand Brand) (Brand, error) {
	query := `INSERT INTO brands (name, slug, logo_url, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	now := time.Now()
	err := r.db.QueryRow(ctx, query, brand.Name, brand.Slug, brand.LogoURL, brand.IsActive, now, now).Scan(&brand.ID)
	if err != nil {
		return Brand{}, translateError(err)
	}
	brand.CreatedAt = now
	brand.UpdatedAt = now
	return brand, nil
}

func (r *repo) UpdateBrand(ctx context.Context, id int64, brand Brand) error {
	query := `UPDATE brands SET name = $1, slug = $2, logo_url = $3, is_active = $4, updated_at = $5 WHERE id = $6`
	tag, err := r.db.Exec(ctx, query, brand.Name, brand.Slug, brand.LogoURL, brand.IsActive, time.Now(), id)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repo) DeleteBrand(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM brands WHERE id = $1`, id)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repo) BrandInUse(ctx context.Context, id int64) (bool, error) {
	var used bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE brand_id = $1)`, id).Scan(&used)
	return used, err
}

// Banner operations
func (r *repo) ListBanners(ctx context.Context, filters ListFilters) ([]Banner, int, error) {
	where, args := listClause(filters, "label")

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM banners`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, offset := limitOffset(filters)
	query := `SELECT id, label, image_url, link_url, position, is_active, created_at, updated_at FROM banners` + where +
		fmt.Sprintf(" ORDER BY position, id LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	rows, err := r.db.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var banners []Banner
	for rows.Next() {
		var b Banner
		if err := rows.Scan(&b.ID, &b.Label, &b.ImageURL, &b.LinkURL, &b.Position, &b.IsActive, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, 0, err
		}
		banners = append(banners, b)
	}
	return banners, total, rows.Err()
}

func (r *repo) GetBanner(ctx context.Context, id int64) (Banner, error) {
	query := `SELECT id, label, image_url, link_url, position, is_active, created_at, updated_at FROM banners WHERE id = $1`
	var b Banner
	err := r.db.QueryRow(ctx, query, id).Scan(&b.ID, &b.Label, &b.ImageURL, &b.LinkURL, &b.Position, &b.IsActive, &b.CreatedAt, &b.UpdatedAt)
	return b, translateError(err)
}

func (r *repo) CreateBanner(ctx context.Context, banner Banner) (Banner, error) {
	query := `INSERT INTO banners (label, image_url, link_url, position, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	now := time.Now()
	err := r.db.QueryRow(ctx, query, banner.Label, banner.ImageURL, banner.LinkURL, banner.Position, banner.IsActive, now, now).Scan(&banner.ID)
	if err != nil {
		return Banner{}, translateError(err)
	}
	banner.CreatedAt = now
	banner.UpdatedAt = now
	return banner, nil
}

func (r *repo) UpdateBanner(ctx context.Context, id int64, banner Banner) error {
	query := `UPDATE banners SET label = $1, image_url = $2, link_url = $3, position = $4, is_active = $5, updated_at = $6 WHERE id = $7`
	tag, err := r.db.Exec(ctx, query, banner.Label, banner.ImageURL, banner.LinkURL, banner.Position, banner.IsActive, time.Now(), id)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repo) DeleteBanner(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM banners WHERE id = $1`, id)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
