// internal/handlers/reports.go
package handlers

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/voucher-ledger/internal/core/ports"
	"github.com/ammerola/voucher-ledger/internal/pkg/logger"
	"github.com/ammerola/voucher-ledger/internal/report"
	"github.com/ammerola/voucher-ledger/internal/workers"
)

// Report kinds accepted in the path.
const (
	ReportFull  = "full"
	ReportShort = "short"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// TaskEnqueuer is the part of *asynq.Client the handlers use.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ReportHandler serves reports, exports and archive requests
type ReportHandler struct {
	responder
	service  ports.InventoryService
	enqueuer TaskEnqueuer
	opts     report.Options
	now      func() time.Time
}

// NewReportHandler creates a new report handler. enqueuer may be nil, in
// which case archive and backup requests answer 503.
func NewReportHandler(service ports.InventoryService, enqueuer TaskEnqueuer, opts report.Options, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{
		responder: responder{logger: logger.With(slog.String("handler", "reports"))},
		service:   service,
		enqueuer:  enqueuer,
		opts:      opts,
		now:       time.Now,
	}
}

// WithClock overrides the print timestamp source.
func (h *ReportHandler) WithClock(now func() time.Time) *ReportHandler {
	h.now = now
	return h
}

// GetReport handles GET /api/v1/reports/{kind}
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	snap := h.service.Snapshot(r.Context())

	var body string
	switch r.PathValue("kind") {
	case ReportFull:
		body = report.RenderFull(snap, h.options())
	case ReportShort:
		body = report.RenderShort(snap, h.options())
	default:
		h.respondError(w, http.StatusNotFound, "Unknown report kind")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

// GetReceipt handles GET /api/v1/reports/{kind}/receipt, the printable
// 58 mm receipt.
func (h *ReportHandler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	snap := h.service.Snapshot(ctx)

	var (
		html string
		err  error
	)
	switch r.PathValue("kind") {
	case ReportFull:
		html, err = report.RenderFullReceipt(snap, h.options())
	case ReportShort:
		html, err = report.RenderShortReceipt(snap, h.options())
	default:
		h.respondError(w, http.StatusNotFound, "Unknown report kind")
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to render receipt",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to render receipt")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}

// ExportExcel handles GET /api/v1/export/excel. The workbook can be
// imported back unchanged.
func (h *ReportHandler) ExportExcel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	snap := h.service.Snapshot(ctx)

	// Render fully before writing headers so a failure can still be a 500.
	var buf bytes.Buffer
	if err := report.WriteWorkbook(&buf, snap); err != nil {
		h.logger.ErrorContext(ctx, "failed to generate Excel file",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to generate Excel file")
		return
	}

	filename := fmt.Sprintf("stok_voucher_%s.xlsx", h.options().PrintedAt.Format("20060102_150405"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprint(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)

	h.logger.InfoContext(ctx, "Excel export completed",
		slog.Int("vouchers", len(snap.Vouchers)),
		slog.Int("bytes", buf.Len()))
}

// ExportJSON handles GET /api/v1/export/json. The body holds the three
// collections under their persisted key names.
func (h *ReportHandler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	snap := h.service.Snapshot(ctx)

	filename := fmt.Sprintf("voucher_ledger_%s.json", h.options().PrintedAt.Format("20060102_150405"))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	h.respondJSON(w, http.StatusOK, map[string]any{
		ports.KeyProviders: snap.Providers,
		ports.KeyVouchers:  snap.Vouchers,
		ports.KeyActivity:  h.service.Activity(ctx),
	})
}

// ArchiveReports handles POST /api/v1/reports/archive
func (h *ReportHandler) ArchiveReports(w http.ResponseWriter, r *http.Request) {
	task, err := workers.NewArchiveTask(workers.ArchivePayload{
		RequestedBy: "api",
		RequestID:   logger.RequestIDFromContext(r.Context()),
	})
	h.enqueue(w, r, task, err)
}

// BackupLedger handles POST /api/v1/backups
func (h *ReportHandler) BackupLedger(w http.ResponseWriter, r *http.Request) {
	task, err := workers.NewBackupTask(workers.BackupPayload{Reason: "requested"})
	h.enqueue(w, r, task, err)
}

func (h *ReportHandler) enqueue(w http.ResponseWriter, r *http.Request, task *asynq.Task, err error) {
	ctx := r.Context()

	if h.enqueuer == nil {
		h.respondError(w, http.StatusServiceUnavailable, "Background jobs are not configured")
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to build task", slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to queue job")
		return
	}

	info, err := h.enqueuer.Enqueue(task)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to enqueue task",
			slog.String("type", task.Type()),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to queue job")
		return
	}

	h.logger.InfoContext(ctx, "task queued",
		slog.String("type", task.Type()),
		slog.String("task_id", info.ID))

	h.respondJSON(w, http.StatusAccepted, map[string]string{
		"task_id": info.ID,
		"type":    task.Type(),
		"status":  "queued",
	})
}

func (h *ReportHandler) options() report.Options {
	opts := h.opts
	opts.PrintedAt = h.now()
	return opts
}
