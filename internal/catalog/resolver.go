package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SubcategoryResolver resolves a subcategory node by id. Implementations
// return found=false for an absent or inactive row.
type SubcategoryResolver interface {
	Resolve(ctx context.Context, id int64) (Category, bool, error)
}

// ResolverChain tries resolvers in priority order; the first hit wins
// and later sources are never consulted.
type ResolverChain []SubcategoryResolver

// Resolve walks the chain.
func (rc ResolverChain) Resolve(ctx context.Context, id int64) (Category, bool, error) {
	for _, r := range rc {
		c, ok, err := r.Resolve(ctx, id)
		if err != nil {
			return Category{}, false, err
		}
		if ok {
			return c, true, nil
		}
	}
	return Category{}, false, nil
}

// unifiedResolver reads subcategory nodes from the unified category
// table, identified by a non-null parent_id.
type unifiedResolver struct {
	db *pgxpool.Pool
}

func (r *unifiedResolver) Resolve(ctx context.Context, id int64) (Category, bool, error) {
	const query = `SELECT id, name, slug, parent_id, is_active, created_at, updated_at
FROM categories WHERE id = $1 AND parent_id IS NOT NULL AND is_active = TRUE`
	var c Category
	err := r.db.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.Slug, &c.ParentID, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, false, nil
		}
		return Category{}, false, fmt.Errorf("resolve subcategory %d: %w", id, err)
	}
	return c, true, nil
}

// legacyResolver reads the dedicated subcategory table kept from before
// the category tables were unified.
type legacyResolver struct {
	db *pgxpool.Pool
}

func (r *legacyResolver) Resolve(ctx context.Context, id int64) (Category, bool, error) {
	const query = `SELECT id, name, category_id, is_active, created_at
FROM subcategories WHERE id = $1 AND is_active = TRUE`
	var (
		c        Category
		parentID int64
	)
	err := r.db.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &parentID, &c.IsActive, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, false, nil
		}
		return Category{}, false, fmt.Errorf("resolve legacy subcategory %d: %w", id, err)
	}
	c.ParentID = &parentID
	return c, true, nil
}

// NewSubcategoryResolvers composes the unified and legacy sources in
// priority order.
func NewSubcategoryResolvers(db *pgxpool.Pool) ResolverChain {
	return ResolverChain{
		&unifiedResolver{db: db},
		&legacyResolver{db: db},
	}
}
