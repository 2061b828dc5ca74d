package catalog

import (
	"context"
	"fmt"
)

// CategoryGetter looks up a category node by id. The read-through
// CategoryCache satisfies this; found is false for absent or inactive
// nodes.
type CategoryGetter interface {
	Get(ctx context.Context, id int64) (Category, bool, error)
}

// BrandGetter looks up a brand by id. found is false for absent or
// inactive brands.
type BrandGetter interface {
	Get(ctx context.Context, id int64) (Brand, bool, error)
}

// CategorizationInput is the proposed categorization triple of a
// product edit.
type CategorizationInput struct {
	CategoryID    int64
	SubcategoryID *int64
	BrandID       *int64
}

// HierarchyValidator enforces that categorization references form a
// valid two-level tree before any write happens. Categorization errors
// are the most common admin mistake (a stale subcategory left selected
// after switching main category), so every rejection names the exact
// field and value at fault.
type HierarchyValidator struct {
	categories    CategoryGetter
	subcategories SubcategoryResolver
	brands        BrandGetter
}

// NewHierarchyValidator constructs the validator.
func NewHierarchyValidator(categories CategoryGetter, subcategories SubcategoryResolver, brands BrandGetter) *HierarchyValidator {
	return &HierarchyValidator{
		categories:    categories,
		subcategories: subcategories,
		brands:        brands,
	}
}

// ValidateCategorization checks the categorization subgraph and returns
// the resolved display names on success.
func (v *HierarchyValidator) ValidateCategorization(ctx context.Context, in CategorizationInput) (CategorizationNames, error) {
	names := CategorizationNames{Subcategory: NoneLabel, Brand: NoneLabel}

	main, ok, err := v.categories.Get(ctx, in.CategoryID)
	if err != nil {
		return CategorizationNames{}, fmt.Errorf("lookup category %d: %w", in.CategoryID, err)
	}
	if !ok || !main.IsActive {
		return CategorizationNames{}, invalidCategory(in.CategoryID)
	}
	if !main.IsMain() {
		return CategorizationNames{}, notAMainCategory(main)
	}
	names.Category = main.Name

	if in.SubcategoryID != nil {
		sub, ok, err := v.subcategories.Resolve(ctx, *in.SubcategoryID)
		if err != nil {
			return CategorizationNames{}, fmt.Errorf("lookup subcategory %d: %w", *in.SubcategoryID, err)
		}
		if !ok {
			return CategorizationNames{}, invalidSubcategory(*in.SubcategoryID)
		}
		if sub.ParentID == nil || *sub.ParentID != main.ID {
			return CategorizationNames{}, subcategoryMismatch(sub, main)
		}
		names.Subcategory = sub.Name
	}

	if in.BrandID != nil {
		brand, ok, err := v.brands.Get(ctx, *in.BrandID)
		if err != nil {
			return CategorizationNames{}, fmt.Errorf("lookup brand %d: %w", *in.BrandID, err)
		}
		if !ok || !brand.IsActive {
			return CategorizationNames{}, invalidBrand(*in.BrandID)
		}
		names.Brand = brand.Name
	}

	return names, nil
}

// Names resolves display names for a persisted categorization without
// validating it. Used for audit snapshots, where a reference that has
// since gone stale must still produce a readable label.
func (v *HierarchyValidator) Names(ctx context.Context, refs CategorizationRefs) CategorizationNames {
	names := CategorizationNames{
		Category:    fmt.Sprintf("category %d", refs.CategoryID),
		Subcategory: NoneLabel,
		Brand:       NoneLabel,
	}
	if c, ok, err := v.categories.Get(ctx, refs.CategoryID); err == nil && ok {
		names.Category = c.Name
	}
	if refs.SubcategoryID != nil {
		names.Subcategory = fmt.Sprintf("subcategory %d", *refs.SubcategoryID)
		if s, ok, err := v.subcategories.Resolve(ctx, *refs.SubcategoryID); err == nil && ok {
			names.Subcategory = s.Name
		}
	}
	if refs.BrandID != nil {
		names.Brand = fmt.Sprintf("brand %d", *refs.BrandID)
		if b, ok, err := v.brands.Get(ctx, *refs.BrandID); err == nil && ok {
			names.Brand = b.Name
		}
	}
	return names
}
