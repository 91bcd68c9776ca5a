// internal/workers/backup_processor.go
package workers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/voucher-ledger/internal/adapters/storage"
	"github.com/ammerola/voucher-ledger/internal/core/ports"
)

// BackupProcessor copies the persisted ledger blobs to object storage.
type BackupProcessor struct {
	store   ports.Store
	storage storage.StorageClient
	now     func() time.Time
	logger  *slog.Logger
}

// NewBackupProcessor creates a new backup processor
func NewBackupProcessor(store ports.Store, client storage.StorageClient, logger *slog.Logger) *BackupProcessor {
	return &BackupProcessor{
		store:   store,
		storage: client,
		now:     time.Now,
		logger:  logger.With(slog.String("processor", "backup")),
	}
}

// WithClock overrides the time source used to name backup folders.
func (p *BackupProcessor) WithClock(now func() time.Time) *BackupProcessor {
	p.now = now
	return p
}

// BackupFolder returns the folder a backup taken at t is written to.
func BackupFolder(t time.Time) string {
	return path.Join("backups", t.UTC().Format(stampLayout))
}

// ProcessBackup handles ledger:backup. Blobs are copied verbatim so a
// backup can be restored by writing them back under the same keys.
func (p *BackupProcessor) ProcessBackup(ctx context.Context, t *asynq.Task) error {
	var payload BackupPayload
	if err := decodePayload(t, &payload); err != nil {
		return err
	}

	folder := BackupFolder(p.now())
	p.logger.InfoContext(ctx, "backing up ledger",
		slog.String("folder", folder),
		slog.String("reason", payload.Reason))

	copied := 0
	for _, key := range ports.StoreKeys() {
		var raw json.RawMessage
		found, err := p.store.Load(ctx, key, &raw)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", key, err)
		}
		if !found {
			p.logger.DebugContext(ctx, "nothing stored, skipping", slog.String("key", key))
			continue
		}

		objectKey := path.Join(folder, key+".json")
		if _, err := p.storage.Upload(ctx, objectKey, bytes.NewReader(raw), "application/json"); err != nil {
			return fmt.Errorf("failed to upload %s: %w", objectKey, err)
		}
		copied++
	}

	p.logger.InfoContext(ctx, "ledger backup completed",
		slog.String("folder", folder),
		slog.Int("blobs", copied))

	return nil
}
