package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type memoryCategories struct {
	byID map[int64]Category
}

func (m *memoryCategories) Get(_ context.Context, id int64) (Category, bool, error) {
	c, ok := m.byID[id]
	if !ok || !c.IsActive {
		return Category{}, false, nil
	}
	return c, true, nil
}

func (m *memoryCategories) ListActive(_ context.Context) ([]Category, error) {
	var out []Category
	for _, c := range m.byID {
		if c.IsActive {
			out = append(out, c)
		}
	}
	return out, nil
}

type memorySubcategories struct {
	byID map[int64]Category
}

func (m *memorySubcategories) Resolve(_ context.Context, id int64) (Category, bool, error) {
	c, ok := m.byID[id]
	if !ok || !c.IsActive {
		return Category{}, false, nil
	}
	return c, true, nil
}

type memoryBrands struct {
	byID map[int64]Brand
}

func (m *memoryBrands) Get(_ context.Context, id int64) (Brand, bool, error) {
	b, ok := m.byID[id]
	if !ok || !b.IsActive {
		return Brand{}, false, nil
	}
	return b, true, nil
}

func (m *memoryBrands) ListActive(_ context.Context) ([]Brand, error) {
	var out []Brand
	for _, b := range m.byID {
		if b.IsActive {
			out = append(out, b)
		}
	}
	return out, nil
}

func ptr(v int64) *int64 { return &v }

func testHierarchy() (*HierarchyValidator, *memoryCategories, *memorySubcategories, *memoryBrands) {
	kitchen := Category{ID: 1, Name: "Kitchen", IsActive: true}
	fashion := Category{ID: 2, Name: "Fashion", IsActive: true}
	retired := Category{ID: 3, Name: "Retired", IsActive: false}
	mugs := Category{ID: 10, Name: "Mugs", ParentID: ptr(1), IsActive: true}
	shoes := Category{ID: 11, Name: "Shoes", ParentID: ptr(2), IsActive: true}

	categories := &memoryCategories{byID: map[int64]Category{
		1: kitchen, 2: fashion, 3: retired, 10: mugs, 11: shoes,
	}}
	subcategories := &memorySubcategories{byID: map[int64]Category{
		10: mugs, 11: shoes,
	}}
	brands := &memoryBrands{byID: map[int64]Brand{
		100: {ID: 100, Name: "Acme", IsActive: true},
		101: {ID: 101, Name: "Defunct", IsActive: false},
	}}
	return NewHierarchyValidator(categories, subcategories, brands), categories, subcategories, brands
}

func TestValidateCategorizationHappyPath(t *testing.T) {
	v, _, _, _ := testHierarchy()

	names, err := v.ValidateCategorization(context.Background(), CategorizationInput{
		CategoryID:    1,
		SubcategoryID: ptr(10),
		BrandID:       ptr(100),
	})
	require.NoError(t, err)
	require.Equal(t, CategorizationNames{Category: "Kitchen", Subcategory: "Mugs", Brand: "Acme"}, names)
}

func TestValidateCategorizationNoneLabels(t *testing.T) {
	v, _, _, _ := testHierarchy()

	names, err := v.ValidateCategorization(context.Background(), CategorizationInput{CategoryID: 1})
	require.NoError(t, err)
	require.Equal(t, CategorizationNames{Category: "Kitchen", Subcategory: NoneLabel, Brand: NoneLabel}, names)
}

func TestValidateCategorizationRejections(t *testing.T) {
	v, _, _, _ := testHierarchy()

	cases := []struct {
		name string
		in   CategorizationInput
		kind ErrorKind
	}{
		{"unknown category", CategorizationInput{CategoryID: 999}, KindInvalidCategory},
		{"inactive category", CategorizationInput{CategoryID: 3}, KindInvalidCategory},
		{"subcategory as main", CategorizationInput{CategoryID: 10}, KindNotAMainCategory},
		{"unknown subcategory", CategorizationInput{CategoryID: 1, SubcategoryID: ptr(999)}, KindInvalidSubcategory},
		{"subcategory of other main", CategorizationInput{CategoryID: 1, SubcategoryID: ptr(11)}, KindSubcategoryMismatch},
		{"unknown brand", CategorizationInput{CategoryID: 1, BrandID: ptr(999)}, KindInvalidBrand},
		{"inactive brand", CategorizationInput{CategoryID: 1, BrandID: ptr(101)}, KindInvalidBrand},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := v.ValidateCategorization(context.Background(), tc.in)
			require.Error(t, err)
			require.True(t, IsUserError(err))
			var ce *CategorizationError
			require.ErrorAs(t, err, &ce)
			require.Equal(t, tc.kind, ce.Kind)
		})
	}
}

func TestValidateCategorizationMismatchNamesBothSides(t *testing.T) {
	v, _, _, _ := testHierarchy()

	_, err := v.ValidateCategorization(context.Background(), CategorizationInput{
		CategoryID:    1,
		SubcategoryID: ptr(11),
	})
	var ce *CategorizationError
	require.ErrorAs(t, err, &ce)
	require.Contains(t, ce.Message, "Shoes")
	require.Contains(t, ce.Message, "Kitchen")
	require.Contains(t, ce.Suggestion, "Kitchen")
}

func TestNamesFallsBackForStaleRefs(t *testing.T) {
	v, _, _, _ := testHierarchy()

	names := v.Names(context.Background(), CategorizationRefs{
		CategoryID:    999,
		SubcategoryID: ptr(888),
		BrandID:       ptr(777),
	})
	require.Equal(t, "category 999", names.Category)
	require.Equal(t, "subcategory 888", names.Subcategory)
	require.Equal(t, "brand 777", names.Brand)
}
