// internal/workers/tasks.go
package workers

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const (
	TypeLedgerBackup     = "ledger:backup"
	TypeReportArchive    = "report:archive"
	TypeCleanupTempFiles = "cleanup:temp_files"
)

// QueueDefault is the queue every ledger task runs on.
const QueueDefault = "default"

// stampLayout names backup and archive folders. It sorts lexically.
const stampLayout = "20060102T150405Z"

// BackupPayload is the payload of a ledger backup task.
type BackupPayload struct {
	// Reason is free text recorded in the worker log, e.g. "scheduled".
	Reason string `json:"reason,omitempty"`
}

// ArchivePayload is the payload of a report archive task.
type ArchivePayload struct {
	RequestedBy string `json:"requested_by,omitempty"`
	// RequestID ties the archive back to the HTTP request that asked for it.
	RequestID string `json:"request_id,omitempty"`
}

// NewBackupTask builds a backup task.
func NewBackupTask(p BackupPayload) (*asynq.Task, error) {
	return newTask(TypeLedgerBackup, p,
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(3),
		asynq.Retention(24*time.Hour))
}

// NewArchiveTask builds a report archive task.
func NewArchiveTask(p ArchivePayload) (*asynq.Task, error) {
	return newTask(TypeReportArchive, p,
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(3),
		asynq.Retention(24*time.Hour))
}

// NewCleanupTask builds a temp file cleanup task. Only one may be queued at
// a time.
func NewCleanupTask() *asynq.Task {
	return asynq.NewTask(TypeCleanupTempFiles, nil,
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(1),
		asynq.Unique(time.Hour))
}

func newTask(typ string, payload any, opts ...asynq.Option) (*asynq.Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", typ, err)
	}
	return asynq.NewTask(typ, b, opts...), nil
}

func decodePayload(t *asynq.Task, dest any) error {
	if len(t.Payload()) == 0 {
		return nil
	}
	if err := json.Unmarshal(t.Payload(), dest); err != nil {
		// A malformed payload will never succeed on retry.
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}
	return nil
}
