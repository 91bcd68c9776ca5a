// internal/workers/archive_processor.go
package workers

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/voucher-ledger/internal/adapters/storage"
	"github.com/ammerola/voucher-ledger/internal/core/ports"
	"github.com/ammerola/voucher-ledger/internal/core/services"
	"github.com/ammerola/voucher-ledger/internal/report"
)

// Archive object names inside a report folder.
const (
	ArchiveFullReport  = "laporan-lengkap.txt"
	ArchiveShortReport = "laporan-singkat.txt"
	ArchiveWorkbook    = "stok-voucher.xlsx"
)

// ArchiveProcessor renders the reports from the persisted ledger and
// uploads them to object storage.
type ArchiveProcessor struct {
	store   ports.Store
	storage storage.StorageClient
	opts    report.Options
	now     func() time.Time
	logger  *slog.Logger
}

// NewArchiveProcessor creates a new archive processor
func NewArchiveProcessor(store ports.Store, client storage.StorageClient, opts report.Options, logger *slog.Logger) *ArchiveProcessor {
	return &ArchiveProcessor{
		store:   store,
		storage: client,
		opts:    opts,
		now:     time.Now,
		logger:  logger.With(slog.String("processor", "archive")),
	}
}

// WithClock overrides the time source used for folder names and the print
// timestamp.
func (p *ArchiveProcessor) WithClock(now func() time.Time) *ArchiveProcessor {
	p.now = now
	return p
}

// ArchiveFolder returns the folder an archive made at t is written to.
func ArchiveFolder(t time.Time) string {
	return path.Join("reports", t.UTC().Format(stampLayout))
}

// ProcessArchive handles report:archive.
func (p *ArchiveProcessor) ProcessArchive(ctx context.Context, t *asynq.Task) error {
	var payload ArchivePayload
	if err := decodePayload(t, &payload); err != nil {
		return err
	}

	// A throwaway session applies the same fallbacks the API uses on start.
	// It is never mutated, so nothing is written back.
	session := services.NewInventoryService(p.store, p.logger)
	if err := session.Load(ctx); err != nil {
		return fmt.Errorf("failed to load ledger: %w", err)
	}
	snap := session.Snapshot(ctx)

	now := p.now()
	opts := p.opts
	opts.PrintedAt = now
	folder := ArchiveFolder(now)

	var xlsxBuf bytes.Buffer
	if err := report.WriteWorkbook(&xlsxBuf, snap); err != nil {
		return fmt.Errorf("failed to render workbook: %w", err)
	}

	objects := []struct {
		name string
		body []byte
	}{
		{ArchiveFullReport, []byte(report.RenderFull(snap, opts))},
		{ArchiveShortReport, []byte(report.RenderShort(snap, opts))},
		{ArchiveWorkbook, xlsxBuf.Bytes()},
	}

	locations := make([]string, 0, len(objects))
	for _, obj := range objects {
		key := path.Join(folder, obj.name)
		loc, err := p.storage.Upload(ctx, key, bytes.NewReader(obj.body), storage.ContentTypeFor(key))
		if err != nil {
			return fmt.Errorf("failed to upload %s: %w", key, err)
		}
		locations = append(locations, loc)
	}

	p.logger.InfoContext(ctx, "reports archived",
		slog.String("folder", folder),
		slog.String("requested_by", payload.RequestedBy),
		slog.String("request_id", payload.RequestID),
		slog.String("locations", strings.Join(locations, ",")))

	return nil
}
