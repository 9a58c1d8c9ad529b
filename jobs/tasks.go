package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeRenderReport renders a sales report PDF off the request path.
	TaskTypeRenderReport = "report:render"
	// TaskTypeAuditCleanup prunes old audit log entries.
	TaskTypeAuditCleanup = "audit:cleanup"
)

// RenderReportPayload describes one queued report render.
type RenderReportPayload struct {
	ResultID string `json:"result_id"`
	From     string `json:"from,omitempty"` // YYYY-MM-DD, empty means derive
	To       string `json:"to,omitempty"`
}

// NewRenderReportTask constructs an Asynq task.
func NewRenderReportTask(payload RenderReportPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeRenderReport, data), nil
}

// AuditCleanupPayload bounds the audit retention window.
type AuditCleanupPayload struct {
	RetentionDays int `json:"retention_days"`
}

// NewAuditCleanupTask constructs an Asynq task.
func NewAuditCleanupTask(payload AuditCleanupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeAuditCleanup, data), nil
}
