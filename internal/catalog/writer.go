package catalog

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// ProductStore persists product field sets. Insert returns the
// store-assigned id. Both calls are expected to surface raw pgconn
// errors so the writer can classify them.
type ProductStore interface {
	Insert(ctx context.Context, fields ProductFields) (int64, error)
	Update(ctx context.Context, fields ProductFields) error
}

// WriteAttempt is one rung of the degradation ladder: a pure reduction
// from a failed field set to a smaller one. Reduce returns ok=false when
// the failure is not the kind this attempt handles.
type WriteAttempt struct {
	Name   string
	Reduce func(fields ProductFields, cause error) (ProductFields, bool)
}

// DefaultLadder returns the ordered degradation ladder: drop the
// optional column set on an unknown-column error, then drop a dangling
// subcategory reference on a foreign key violation. Each rung fires at
// most once per write.
func DefaultLadder() []WriteAttempt {
	return []WriteAttempt{
		{
			Name: "drop_optional_columns",
			Reduce: func(f ProductFields, cause error) (ProductFields, bool) {
				if !isUndefinedColumn(cause) || f.Optional == nil {
					return f, false
				}
				f.Optional = nil
				return f, true
			},
		},
		{
			Name: "drop_subcategory",
			Reduce: func(f ProductFields, cause error) (ProductFields, bool) {
				if !isSubcategoryFKViolation(cause) || f.SubcategoryID == nil {
					return f, false
				}
				f.SubcategoryID = nil
				return f, true
			},
		},
	}
}

// SchemaTolerantWriter persists a product with the richest known column
// set and degrades on recognized failure signatures. The live schema can
// be migrated asynchronously from the application, so an unknown column
// means a pending migration, not a bug; the writer tolerates it and
// leaves the migration to operators.
type SchemaTolerantWriter struct {
	store  ProductStore
	ladder []WriteAttempt
	logger *slog.Logger
}

// NewSchemaTolerantWriter constructs the writer with the default ladder.
func NewSchemaTolerantWriter(store ProductStore, logger *slog.Logger) *SchemaTolerantWriter {
	return &SchemaTolerantWriter{store: store, ladder: DefaultLadder(), logger: logger}
}

// PersistProduct writes fields, retrying once per ladder rung on a
// matching failure. On success it returns exactly the field set that was
// persisted so callers can warn about partially applied categorization.
func (w *SchemaTolerantWriter) PersistProduct(ctx context.Context, fields ProductFields) (ProductFields, error) {
	used := make(map[string]bool, len(w.ladder))
	current := fields

	for {
		err := w.write(ctx, &current)
		if err == nil {
			return current, nil
		}
		if isSlugUniqueViolation(err) {
			return ProductFields{}, ErrConflict
		}

		reduced, rung, ok := w.reduce(current, err, used)
		if !ok {
			op := "update"
			if fields.ID == 0 {
				op = "insert"
			}
			return ProductFields{}, &PersistenceError{Op: op, Err: err}
		}
		used[rung] = true
		w.logger.Warn("degraded product write",
			slog.String("step", rung),
			slog.String("slug", current.Slug),
			slog.Any("cause", err))
		current = reduced
	}
}

func (w *SchemaTolerantWriter) write(ctx context.Context, fields *ProductFields) error {
	if fields.ID == 0 {
		id, err := w.store.Insert(ctx, *fields)
		if err != nil {
			return err
		}
		fields.ID = id
		return nil
	}
	return w.store.Update(ctx, *fields)
}

// reduce finds the first unused rung that recognizes the failure.
func (w *SchemaTolerantWriter) reduce(fields ProductFields, cause error, used map[string]bool) (ProductFields, string, bool) {
	for _, attempt := range w.ladder {
		if used[attempt.Name] {
			continue
		}
		if reduced, ok := attempt.Reduce(fields, cause); ok {
			return reduced, attempt.Name, true
		}
	}
	return ProductFields{}, "", false
}

func pgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// isUndefinedColumn matches PostgreSQL 42703 (undefined_column).
func isUndefinedColumn(err error) bool {
	pgErr, ok := pgError(err)
	return ok && pgErr.Code == "42703"
}

// isSubcategoryFKViolation matches a 23503 (foreign_key_violation)
// attributable to the subcategory reference.
func isSubcategoryFKViolation(err error) bool {
	pgErr, ok := pgError(err)
	if !ok || pgErr.Code != "23503" {
		return false
	}
	return strings.Contains(pgErr.ConstraintName, "subcategory") ||
		strings.Contains(pgErr.Detail, "subcategory")
}

// isSlugUniqueViolation matches a 23505 (unique_violation) on the
// product slug index.
func isSlugUniqueViolation(err error) bool {
	pgErr, ok := pgError(err)
	if !ok || pgErr.Code != "23505" {
		return false
	}
	return strings.Contains(pgErr.ConstraintName, "slug")
}
