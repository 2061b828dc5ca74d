package catalog

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// maxSlugAttempts bounds the ordinal suffix search so pathological
// concurrent creation cannot loop forever.
const maxSlugAttempts = 1000

// Slugify normalizes a display name into a URL-safe slug: diacritics
// stripped, lowercased, non-alphanumeric runs collapsed to a single
// hyphen, no leading or trailing hyphen.
func Slugify(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, name)
	if err != nil {
		stripped = name
	}

	var b strings.Builder
	b.Grow(len(stripped))
	pendingSep := false
	for _, r := range strings.ToLower(stripped) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}

// SlugChecker reports whether a slug is already taken by a product
// other than excludeID. Pass excludeID 0 on create.
type SlugChecker interface {
	SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error)
}

// SlugGenerator derives globally unique product slugs.
type SlugGenerator struct {
	products SlugChecker
}

// NewSlugGenerator constructs a SlugGenerator.
func NewSlugGenerator(products SlugChecker) *SlugGenerator {
	return &SlugGenerator{products: products}
}

// GenerateUniqueSlug returns baseSlug if free, otherwise the first free
// ordinal variant (base-2, base-3, ...). The result is unique at the
// instant of check only; the storage layer's unique constraint remains
// the authority at write time.
func (g *SlugGenerator) GenerateUniqueSlug(ctx context.Context, baseSlug string, excludeID int64) (string, error) {
	taken, err := g.products.SlugExists(ctx, baseSlug, excludeID)
	if err != nil {
		return "", fmt.Errorf("check slug %q: %w", baseSlug, err)
	}
	if !taken {
		return baseSlug, nil
	}

	// The bare slug is ordinal 1, so numbering starts at 2.
	for n := 2; n <= maxSlugAttempts; n++ {
		candidate := fmt.Sprintf("%s-%d", baseSlug, n)
		taken, err := g.products.SlugExists(ctx, candidate, excludeID)
		if err != nil {
			return "", fmt.Errorf("check slug %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: base %q", ErrSlugExhausted, baseSlug)
}
