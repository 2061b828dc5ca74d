package catalog

import (
	"context"
	"time"
)

// CategorizationChange is a before/after snapshot of a product's
// categorization, emitted after a successful update for audit
// visibility. It is observational only and never blocks a write.
type CategorizationChange struct {
	ProductID int64               `json:"product_id"`
	Before    CategorizationNames `json:"before"`
	After     CategorizationNames `json:"after"`
	At        time.Time           `json:"at"`
}

// Changed reports whether any part of the triple differs.
func (c CategorizationChange) Changed() bool {
	return c.Before != c.After
}

// AuditSink receives categorization change records. Implementations
// must not fail the calling operation; errors are theirs to log.
type AuditSink interface {
	CategorizationChanged(ctx context.Context, change CategorizationChange)
}
