package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

// scriptedStore returns one queued error per write call, then succeeds,
// recording every field set it saw.
type scriptedStore struct {
	errs  []error
	seen  []ProductFields
	calls int
}

func (s *scriptedStore) next() error {
	if s.calls <= len(s.errs) {
		return s.errs[s.calls-1]
	}
	return nil
}

func (s *scriptedStore) Insert(_ context.Context, fields ProductFields) (int64, error) {
	s.calls++
	s.seen = append(s.seen, fields)
	if err := s.next(); err != nil {
		return 0, err
	}
	return 42, nil
}

func (s *scriptedStore) Update(_ context.Context, fields ProductFields) error {
	s.calls++
	s.seen = append(s.seen, fields)
	return s.next()
}

func undefinedColumnErr() error {
	return &pgconn.PgError{Code: "42703", Message: `column "purchase_type" of relation "products" does not exist`}
}

func subcategoryFKErr() error {
	return &pgconn.PgError{Code: "23503", ConstraintName: "products_subcategory_id_fkey"}
}

func slugUniqueErr() error {
	return &pgconn.PgError{Code: "23505", ConstraintName: "products_slug_key"}
}

func richFields() ProductFields {
	return ProductFields{
		Slug:          "red-mug",
		Name:          "Red Mug",
		CategoryID:    1,
		SubcategoryID: ptr(10),
		Optional:      &OptionalFields{PurchaseType: "direct", StockQty: 5},
	}
}

func testWriter(store ProductStore) *SchemaTolerantWriter {
	return NewSchemaTolerantWriter(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestPersistProductFirstAttemptSucceeds(t *testing.T) {
	store := &scriptedStore{}
	w := testWriter(store)

	persisted, err := w.PersistProduct(context.Background(), richFields())
	require.NoError(t, err)
	require.Equal(t, int64(42), persisted.ID)
	require.NotNil(t, persisted.Optional)
	require.NotNil(t, persisted.SubcategoryID)
	require.Equal(t, 1, store.calls)
}

func TestPersistProductDropsOptionalColumns(t *testing.T) {
	store := &scriptedStore{errs: []error{undefinedColumnErr()}}
	w := testWriter(store)

	persisted, err := w.PersistProduct(context.Background(), richFields())
	require.NoError(t, err)
	require.Nil(t, persisted.Optional)
	require.NotNil(t, persisted.SubcategoryID)
	require.Equal(t, 2, store.calls)
	require.Nil(t, store.seen[1].Optional)
}

func TestPersistProductDropsSubcategoryOnFKViolation(t *testing.T) {
	store := &scriptedStore{errs: []error{subcategoryFKErr()}}
	w := testWriter(store)

	persisted, err := w.PersistProduct(context.Background(), richFields())
	require.NoError(t, err)
	require.Nil(t, persisted.SubcategoryID)
	require.NotNil(t, persisted.Optional)
	require.Equal(t, 2, store.calls)
}

func TestPersistProductChainsBothReductions(t *testing.T) {
	store := &scriptedStore{errs: []error{undefinedColumnErr(), subcategoryFKErr()}}
	w := testWriter(store)

	persisted, err := w.PersistProduct(context.Background(), richFields())
	require.NoError(t, err)
	require.Nil(t, persisted.Optional)
	require.Nil(t, persisted.SubcategoryID)
	require.Equal(t, 3, store.calls)
}

func TestPersistProductEachRungFiresOnce(t *testing.T) {
	// A second undefined-column failure after the optional set is gone
	// has no applicable rung left and must surface as a fault.
	store := &scriptedStore{errs: []error{undefinedColumnErr(), undefinedColumnErr()}}
	w := testWriter(store)

	_, err := w.PersistProduct(context.Background(), richFields())
	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, "insert", pe.Op)
	require.Equal(t, 2, store.calls)
}

func TestPersistProductSlugRaceIsConflict(t *testing.T) {
	store := &scriptedStore{errs: []error{slugUniqueErr()}}
	w := testWriter(store)

	_, err := w.PersistProduct(context.Background(), richFields())
	require.ErrorIs(t, err, ErrConflict)
	require.Equal(t, 1, store.calls)
}

func TestPersistProductUnrecognizedErrorIsFatal(t *testing.T) {
	store := &scriptedStore{errs: []error{errors.New("connection reset")}}
	w := testWriter(store)

	fields := richFields()
	fields.ID = 7
	_, err := w.PersistProduct(context.Background(), fields)
	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, "update", pe.Op)
	require.Equal(t, 1, store.calls)
}

func TestPersistProductIrrelevantFKIsFatal(t *testing.T) {
	// A foreign key failure on a different constraint must not trigger
	// the subcategory reduction.
	store := &scriptedStore{errs: []error{&pgconn.PgError{Code: "23503", ConstraintName: "products_brand_id_fkey"}}}
	w := testWriter(store)

	_, err := w.PersistProduct(context.Background(), richFields())
	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, 1, store.calls)
}
