// internal/workers/cleanup_processor.go
package workers

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/hibiken/asynq"
)

// spoolExtensions are the upload types the import handler spools to disk.
var spoolExtensions = []string{".xlsx", ".pdf"}

// CleanupProcessor removes import uploads left in the spool directory when
// a request died before it could delete its own file.
type CleanupProcessor struct {
	spoolDir string
	maxAge   time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

// NewCleanupProcessor creates a new cleanup processor. A non-positive
// maxAge means one day.
func NewCleanupProcessor(spoolDir string, maxAge time.Duration, logger *slog.Logger) *CleanupProcessor {
	if maxAge <= 0 {
		maxAge = 24 * time.Hour
	}
	return &CleanupProcessor{
		spoolDir: spoolDir,
		maxAge:   maxAge,
		now:      time.Now,
		logger:   logger.With(slog.String("processor", "cleanup")),
	}
}

// WithClock overrides the time source used to age files.
func (p *CleanupProcessor) WithClock(now func() time.Time) *CleanupProcessor {
	p.now = now
	return p
}

// CleanupTempFiles deletes spooled uploads older than maxAge. Other files
// in the directory are left alone.
func (p *CleanupProcessor) CleanupTempFiles(ctx context.Context, _ *asynq.Task) error {
	entries, err := os.ReadDir(p.spoolDir)
	if errors.Is(err, fs.ErrNotExist) {
		p.logger.DebugContext(ctx, "spool directory does not exist yet", slog.String("dir", p.spoolDir))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to list spool directory: %w", err)
	}

	cutoff := p.now().Add(-p.maxAge)
	var deleted, failed int

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !entry.Type().IsRegular() || !isSpooledUpload(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}

		path := filepath.Join(p.spoolDir, entry.Name())
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			p.logger.WarnContext(ctx, "failed to delete spooled upload",
				slog.String("file", path),
				slog.String("error", err.Error()))
			failed++
			continue
		}
		deleted++
	}

	p.logger.InfoContext(ctx, "spool directory cleaned",
		slog.String("dir", p.spoolDir),
		slog.Int("files_deleted", deleted),
		slog.Int("files_failed", failed))
	return nil
}

func isSpooledUpload(name string) bool {
	return slices.Contains(spoolExtensions, strings.ToLower(filepath.Ext(name)))
}
