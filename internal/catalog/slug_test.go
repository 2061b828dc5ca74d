package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type memorySlugIndex struct {
	owners map[string]int64
	nextID int64
}

func newMemorySlugIndex() *memorySlugIndex {
	return &memorySlugIndex{owners: make(map[string]int64)}
}

func (m *memorySlugIndex) add(slug string) int64 {
	m.nextID++
	m.owners[slug] = m.nextID
	return m.nextID
}

func (m *memorySlugIndex) SlugExists(_ context.Context, slug string, excludeID int64) (bool, error) {
	owner, ok := m.owners[slug]
	if !ok {
		return false, nil
	}
	return owner != excludeID, nil
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Red Mug", "red-mug"},
		{"diacritics", "Café Crème", "cafe-creme"},
		{"punctuation runs", "Red -- Mug!!", "red-mug"},
		{"leading and trailing", "  ~Red Mug~  ", "red-mug"},
		{"digits kept", "Mug 2.0", "mug-2-0"},
		{"uppercase", "RED MUG", "red-mug"},
		{"only symbols", "!!!", ""},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Slugify(tc.in))
		})
	}
}

func TestGenerateUniqueSlugFree(t *testing.T) {
	idx := newMemorySlugIndex()
	gen := NewSlugGenerator(idx)

	slug, err := gen.GenerateUniqueSlug(context.Background(), "red-mug", 0)
	require.NoError(t, err)
	require.Equal(t, "red-mug", slug)
}

func TestGenerateUniqueSlugSkipsTakenOrdinals(t *testing.T) {
	idx := newMemorySlugIndex()
	idx.add("shoes")
	idx.add("shoes-2")
	gen := NewSlugGenerator(idx)

	slug, err := gen.GenerateUniqueSlug(context.Background(), "shoes", 0)
	require.NoError(t, err)
	require.Equal(t, "shoes-3", slug)
}

func TestGenerateUniqueSlugExcludesSelf(t *testing.T) {
	idx := newMemorySlugIndex()
	id := idx.add("red-mug")
	gen := NewSlugGenerator(idx)

	// Renaming a product back to its own slug must not append a suffix.
	slug, err := gen.GenerateUniqueSlug(context.Background(), "red-mug", id)
	require.NoError(t, err)
	require.Equal(t, "red-mug", slug)
}

func TestGenerateUniqueSlugExhaustion(t *testing.T) {
	idx := newMemorySlugIndex()
	idx.add("mug")
	for n := 2; n <= maxSlugAttempts; n++ {
		idx.add(fmt.Sprintf("mug-%d", n))
	}
	gen := NewSlugGenerator(idx)

	_, err := gen.GenerateUniqueSlug(context.Background(), "mug", 0)
	require.ErrorIs(t, err, ErrSlugExhausted)
}
