package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/shopledger/shopledger/internal/reports"
	"github.com/shopledger/shopledger/internal/shared"
)

// NewRenderReportHandler renders a queued sales report and stores the PDF
// for later download.
func NewRenderReportHandler(logger *slog.Logger, svc *reports.Service, store *ResultStore) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload RenderReportPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		var from, to *time.Time
		if payload.From != "" {
			parsed, err := time.Parse("2006-01-02", payload.From)
			if err != nil {
				return asynq.SkipRetry
			}
			from = &parsed
		}
		if payload.To != "" {
			parsed, err := time.Parse("2006-01-02", payload.To)
			if err != nil {
				return asynq.SkipRetry
			}
			to = &parsed
		}

		generated, err := svc.Generate(ctx, from, to)
		if err != nil {
			logger.Error("render report", "result_id", payload.ResultID, "error", err)
			return err
		}
		if err := store.Save(ctx, payload.ResultID, generated.Filename, generated.PDF); err != nil {
			return err
		}
		logger.Info("report rendered", "result_id", payload.ResultID, "filename", generated.Filename, "bytes", len(generated.PDF))
		return nil
	}
}

// NewAuditCleanupHandler prunes audit entries past the retention window.
func NewAuditCleanupHandler(logger *slog.Logger, audit *shared.AuditLogger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload AuditCleanupPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		days := payload.RetentionDays
		if days <= 0 {
			days = 90
		}
		if err := audit.Cleanup(ctx, time.Duration(days)*24*time.Hour); err != nil {
			logger.Error("audit cleanup", "error", err)
			return err
		}
		logger.Info("audit log pruned", "retention_days", days)
		return nil
	}
}
