package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrSlugExhausted indicates the bounded suffix search ran out of
	// attempts. Operational anomaly, reported as a server fault.
	ErrSlugExhausted = errors.New("catalog: slug suffix search exhausted")
	// ErrConflict indicates the final write lost a uniqueness race.
	// Callers should retry the whole operation.
	ErrConflict = errors.New("catalog: slug already taken")
	// ErrProductNotFound indicates the product id does not exist.
	ErrProductNotFound = errors.New("catalog: product not found")
)

// ErrorKind discriminates user-correctable categorization errors.
type ErrorKind string

const (
	KindInvalidCategory     ErrorKind = "invalid_category"
	KindNotAMainCategory    ErrorKind = "not_a_main_category"
	KindInvalidSubcategory  ErrorKind = "invalid_subcategory"
	KindSubcategoryMismatch ErrorKind = "subcategory_mismatch"
	KindInvalidBrand        ErrorKind = "invalid_brand"
)

// CategorizationError is a rejected categorization. It names the exact
// field and value at fault so the administrator can correct the form
// without guessing.
type CategorizationError struct {
	Kind       ErrorKind
	Message    string
	Suggestion string
}

func (e *CategorizationError) Error() string {
	return e.Message
}

func invalidCategory(id int64) *CategorizationError {
	return &CategorizationError{
		Kind:    KindInvalidCategory,
		Message: fmt.Sprintf("category %d does not exist or is inactive", id),
	}
}

func notAMainCategory(c Category) *CategorizationError {
	return &CategorizationError{
		Kind:    KindNotAMainCategory,
		Message: fmt.Sprintf("category %q (id %d) is a subcategory and cannot be used as a main category", c.Name, c.ID),
	}
}

func invalidSubcategory(id int64) *CategorizationError {
	return &CategorizationError{
		Kind:    KindInvalidSubcategory,
		Message: fmt.Sprintf("subcategory %d does not exist or is inactive", id),
	}
}

func subcategoryMismatch(sub, main Category) *CategorizationError {
	return &CategorizationError{
		Kind:       KindSubcategoryMismatch,
		Message:    fmt.Sprintf("subcategory %q (id %d) does not belong to category %q (id %d)", sub.Name, sub.ID, main.Name, main.ID),
		Suggestion: fmt.Sprintf("pick a subcategory of %q or clear the subcategory selection", main.Name),
	}
}

func invalidBrand(id int64) *CategorizationError {
	return &CategorizationError{
		Kind:    KindInvalidBrand,
		Message: fmt.Sprintf("brand %d does not exist or is inactive", id),
	}
}

// IsUserError reports whether err is a user-correctable categorization
// rejection rather than a system fault.
func IsUserError(err error) bool {
	var ce *CategorizationError
	return errors.As(err, &ce)
}

// PersistenceError wraps an unrecognized store failure left after the
// degradation ladder. Always a server fault.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("catalog: persist %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
