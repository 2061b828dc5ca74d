package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskCatalogCacheWarmup refreshes the cached category tree.
	TaskCatalogCacheWarmup = "catalog:cache_warmup"
	// TaskRetentionSweep prunes expired audit and idempotency records.
	TaskRetentionSweep = "catalog:retention_sweep"
)

// CacheWarmupPayload configures a category cache warmup run.
type CacheWarmupPayload struct {
	// Force drops the cached tree before reloading it.
	Force bool `json:"force"`
}

// NewCacheWarmupTask constructs an Asynq task.
func NewCacheWarmupTask(payload CacheWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCatalogCacheWarmup, data), nil
}

// RetentionPayload bounds the retention sweep.
type RetentionPayload struct {
	AuditRetentionHours       int `json:"audit_retention_hours"`
	IdempotencyRetentionHours int `json:"idempotency_retention_hours"`
}

// NewRetentionTask constructs an Asynq task.
func NewRetentionTask(payload RetentionPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRetentionSweep, data), nil
}
