package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// ProductReader reads back persisted product state for the engine's
// pre-update snapshot and post-write confirmation.
type ProductReader interface {
	Get(ctx context.Context, id int64) (Product, error)
	GetCategorization(ctx context.Context, id int64) (CategorizationRefs, error)
}

// ProductInput is the flat field set an admin edit submits.
type ProductInput struct {
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

// Result is the outcome of a create or update. Warning is set when a
// degradation step silently dropped part of the submitted fields.
type Result struct {
	Product        ProductFields
	Categorization CategorizationNames
	Warning        string
}

// Engine orchestrates a single product create/update: hierarchy
// validation, slug resolution, schema-tolerant persistence and a
// post-write categorization audit. Validation failures never reach the
// writer; each store call commits independently, so the post-write
// re-read is what detects drift between validation and commit.
type Engine struct {
	validator *HierarchyValidator
	slugs     *SlugGenerator
	writer    *SchemaTolerantWriter
	products  ProductReader
	audit     AuditSink
	logger    *slog.Logger
	now       func() time.Time
}

// NewEngine wires the consistency engine. audit may be nil.
func NewEngine(
	validator *HierarchyValidator,
	slugs *SlugGenerator,
	writer *SchemaTolerantWriter,
	products ProductReader,
	audit AuditSink,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		validator: validator,
		slugs:     slugs,
		writer:    writer,
		products:  products,
		audit:     audit,
		logger:    logger,
		now:       time.Now,
	}
}

// CreateProduct validates categorization, derives a unique slug from
// the product name and persists the new product.
func (e *Engine) CreateProduct(ctx context.Context, in ProductInput) (Result, error) {
	names, err := e.validator.ValidateCategorization(ctx, categorizationOf(in))
	if err != nil {
		return Result{}, err
	}

	base := Slugify(in.Name)
	if base == "" {
		base = "product"
	}
	slug, err := e.slugs.GenerateUniqueSlug(ctx, base, 0)
	if err != nil {
		return Result{}, err
	}

	persisted, err := e.writer.PersistProduct(ctx, fieldsOf(0, slug, in))
	if err != nil {
		return Result{}, err
	}

	e.logger.Info("product created",
		slog.Int64("product_id", persisted.ID),
		slog.String("slug", persisted.Slug),
		slog.String("category", names.Category))

	return Result{
		Product:        persisted,
		Categorization: names,
		Warning:        degradationWarning(in, persisted),
	}, nil
}

// UpdateProduct runs the full consistency sequence on an existing
// product and emits a CategorizationChange record when the resolved
// categorization differs from the pre-write snapshot.
func (e *Engine) UpdateProduct(ctx context.Context, id int64, in ProductInput) (Result, error) {
	before, err := e.products.Get(ctx, id)
	if err != nil {
		return Result{}, err
	}
	beforeNames := e.validator.Names(ctx, CategorizationRefs{
		CategoryID:    before.CategoryID,
		SubcategoryID: before.SubcategoryID,
		BrandID:       before.BrandID,
	})

	names, err := e.validator.ValidateCategorization(ctx, categorizationOf(in))
	if err != nil {
		return Result{}, err
	}

	slug := before.Slug
	if in.Name != before.Name {
		base := Slugify(in.Name)
		if base == "" {
			base = "product"
		}
		slug, err = e.slugs.GenerateUniqueSlug(ctx, base, id)
		if err != nil {
			return Result{}, err
		}
	}

	persisted, err := e.writer.PersistProduct(ctx, fieldsOf(id, slug, in))
	if err != nil {
		return Result{}, err
	}

	afterNames := e.confirm(ctx, id, names)
	change := CategorizationChange{
		ProductID: id,
		Before:    beforeNames,
		After:     afterNames,
		At:        e.now(),
	}
	if change.Changed() && e.audit != nil {
		e.audit.CategorizationChanged(ctx, change)
	}

	return Result{
		Product:        persisted,
		Categorization: afterNames,
		Warning:        degradationWarning(in, persisted),
	}, nil
}

// confirm re-reads the persisted categorization and resolves its names.
// Failures here are logged, never surfaced: the write already succeeded.
func (e *Engine) confirm(ctx context.Context, id int64, fallback CategorizationNames) CategorizationNames {
	refs, err := e.products.GetCategorization(ctx, id)
	if err != nil {
		e.logger.Warn("post-write categorization read failed",
			slog.Int64("product_id", id), slog.Any("error", err))
		return fallback
	}
	return e.validator.Names(ctx, refs)
}

func categorizationOf(in ProductInput) CategorizationInput {
	return CategorizationInput{
		CategoryID:    in.CategoryID,
		SubcategoryID: in.SubcategoryID,
		BrandID:       in.BrandID,
	}
}

func fieldsOf(id int64, slug string, in ProductInput) ProductFields {
	return ProductFields{
		ID:            id,
		Slug:          slug,
		Name:          in.Name,
		Description:   in.Description,
		Price:         in.Price,
		ImageURL:      in.ImageURL,
		CategoryID:    in.CategoryID,
		SubcategoryID: in.SubcategoryID,
		BrandID:       in.BrandID,
		IsActive:      in.IsActive,
		Optional:      in.Optional,
	}
}

// degradationWarning describes what the writer dropped, if anything.
func degradationWarning(in ProductInput, persisted ProductFields) string {
	switch {
	case in.SubcategoryID != nil && persisted.SubcategoryID == nil:
		return fmt.Sprintf("subcategory %d was not set due to a database constraint issue", *in.SubcategoryID)
	case in.Optional != nil && persisted.Optional == nil:
		return "some descriptive fields were not saved; the catalog schema is awaiting a migration"
	default:
		return ""
	}
}
