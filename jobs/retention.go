package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/bazario/bazario/internal/shared"
)

// RetentionJob prunes expired audit logs and idempotency keys.
type RetentionJob struct {
	Audit       *shared.AuditLogger
	Idempotency *shared.IdempotencyStore
	Logger      *slog.Logger
}

// NewRetentionJob wires dependencies for the retention handler.
func NewRetentionJob(audit *shared.AuditLogger, idem *shared.IdempotencyStore, logger *slog.Logger) *RetentionJob {
	return &RetentionJob{Audit: audit, Idempotency: idem, Logger: logger}
}

// Handle processes retention sweep tasks.
func (j *RetentionJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil {
		return errors.New("retention sweep: handler not configured")
	}
	var payload RetentionPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	auditRetention := time.Duration(payload.AuditRetentionHours) * time.Hour
	if auditRetention <= 0 {
		auditRetention = 90 * 24 * time.Hour
	}
	idemRetention := time.Duration(payload.IdempotencyRetentionHours) * time.Hour
	if idemRetention <= 0 {
		idemRetention = 7 * 24 * time.Hour
	}

	logger := j.logger()
	logger.Info("starting retention sweep",
		slog.Duration("audit_retention", auditRetention),
		slog.Duration("idempotency_retention", idemRetention))

	jobCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := j.Audit.Cleanup(jobCtx, auditRetention); err != nil {
		logger.Error("prune audit logs", slog.Any("error", err))
		return err
	}
	if err := j.Idempotency.Cleanup(jobCtx, idemRetention); err != nil {
		logger.Error("prune idempotency keys", slog.Any("error", err))
		return err
	}

	logger.Info("completed retention sweep")
	return nil
}

func (j *RetentionJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskRetentionSweep))
	}
	return slog.Default().With(slog.String("job", TaskRetentionSweep))
}
