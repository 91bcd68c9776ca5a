// internal/handlers/import.go
package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/ammerola/voucher-ledger/internal/core/domain"
	"github.com/ammerola/voucher-ledger/internal/core/ports"
)

const multipartOverhead = 64 << 10

// ImportHandler handles bulk import uploads
type ImportHandler struct {
	responder
	service     ports.InventoryService
	excel       ports.RowReader
	pdf         ports.RowReader
	maxFileSize int64
	uploadDir   string
}

// NewImportHandler creates a new import handler. Uploads are spooled to
// uploadDir while they are parsed.
func NewImportHandler(
	service ports.InventoryService,
	excel, pdf ports.RowReader,
	maxFileSize int64,
	uploadDir string,
	logger *slog.Logger,
) *ImportHandler {
	return &ImportHandler{
		responder:   responder{logger: logger.With(slog.String("handler", "import"))},
		service:     service,
		excel:       excel,
		pdf:         pdf,
		maxFileSize: maxFileSize,
		uploadDir:   uploadDir,
	}
}

// ImportExcel handles POST /api/v1/import/excel
func (h *ImportHandler) ImportExcel(w http.ResponseWriter, r *http.Request) {
	h.importFile(w, r, domain.ImportSourceExcel, h.excel, ".xlsx")
}

// ImportPDF handles POST /api/v1/import/pdf
func (h *ImportHandler) ImportPDF(w http.ResponseWriter, r *http.Request) {
	h.importFile(w, r, domain.ImportSourcePDF, h.pdf, ".pdf")
}

func (h *ImportHandler) importFile(w http.ResponseWriter, r *http.Request, source domain.ImportSource, reader ports.RowReader, ext string) {
	ctx := r.Context()

	// Leave room for the multipart envelope around the file.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize+multipartOverhead)
	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.respondError(w, http.StatusRequestEntityTooLarge, "File is too large")
			return
		}
		h.respondError(w, http.StatusBadRequest, "Failed to parse form data")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "File is required")
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ext) {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("Only %s files are allowed", ext))
		return
	}

	data, spooled, err := h.spool(file, ext)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to save upload",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to save upload")
		return
	}
	defer os.Remove(spooled)

	rows, err := reader.ReadRows(ctx, data)
	if err != nil {
		h.logger.WarnContext(ctx, "unreadable import file",
			slog.String("source", string(source)),
			slog.String("file", header.Filename),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusUnprocessableEntity, "File could not be read")
		return
	}

	result, err := h.service.ImportRows(ctx, source, rows)
	if err != nil {
		h.respondServiceError(w, r, err, result)
		return
	}

	h.logger.InfoContext(ctx, "file imported",
		slog.String("source", string(source)),
		slog.String("file", header.Filename),
		slog.Int("rows", len(rows)),
		slog.Int("applied", result.Applied))

	h.respondJSON(w, http.StatusOK, result)
}

// spool copies the upload to a uniquely named file and returns its
// contents. The cleanup task removes files left behind by a crash.
func (h *ImportHandler) spool(src io.Reader, ext string) ([]byte, string, error) {
	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return nil, "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	path := filepath.Join(h.uploadDir, uuid.New().String()+ext)
	dst, err := os.Create(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return nil, "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return nil, "", fmt.Errorf("failed to close temp file: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		os.Remove(path)
		return nil, "", fmt.Errorf("failed to read temp file: %w", err)
	}
	return data, path, nil
}
