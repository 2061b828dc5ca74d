package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/bazario/bazario/internal/catalog"
)

// CatalogWarmupJob pre-populates the cached category tree so that the
// first admin request after an invalidation does not pay the load cost.
type CatalogWarmupJob struct {
	Cache  *catalog.CategoryCache
	Logger *slog.Logger
	clock  func() time.Time
}

// NewCatalogWarmupJob wires dependencies for the warmup handler.
func NewCatalogWarmupJob(cache *catalog.CategoryCache, logger *slog.Logger) *CatalogWarmupJob {
	return &CatalogWarmupJob{
		Cache:  cache,
		Logger: logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes catalog cache warmup tasks.
func (j *CatalogWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Cache == nil {
		return errors.New("catalog warmup: handler not configured")
	}
	var payload CacheWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	logger := j.logger()
	start := j.now()
	logger.Info("starting catalog cache warmup", slog.Bool("force", payload.Force))

	jobCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	if payload.Force {
		if err := j.Cache.Invalidate(jobCtx); err != nil {
			logger.Error("invalidate category cache", slog.Any("error", err))
			return err
		}
	}
	categories, err := j.Cache.All(jobCtx)
	if err != nil {
		logger.Error("warm category cache", slog.Any("error", err))
		return err
	}

	logger.Info("completed catalog cache warmup",
		slog.Int("categories", len(categories)),
		slog.Duration("duration", time.Since(start)))
	return nil
}

func (j *CatalogWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskCatalogCacheWarmup))
	}
	return slog.Default().With(slog.String("job", TaskCatalogCacheWarmup))
}

func (j *CatalogWarmupJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
