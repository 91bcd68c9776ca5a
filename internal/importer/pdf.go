// internal/importer/pdf.go
package importer

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/ammerola/voucher-ledger/internal/core/domain"
	"github.com/ammerola/voucher-ledger/internal/core/ports"
)

// PDFReader reads import rows from the text of a PDF price list. Each text
// line is one row with cells separated by ';', '|' or a tab. Lines whose
// first cell is not a number (titles, headers) are ignored.
type PDFReader struct {
	logger *slog.Logger
}

var _ ports.RowReader = (*PDFReader)(nil)

// NewPDFReader creates a new PDF row reader
func NewPDFReader(logger *slog.Logger) *PDFReader {
	return &PDFReader{logger: logger.With(slog.String("component", "pdf_reader"))}
}

// ReadRows implements ports.RowReader.
func (r *PDFReader) ReadRows(ctx context.Context, data []byte) ([]domain.ImportRow, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	var lines []string
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			r.logger.WarnContext(ctx, "failed to extract text from page",
				slog.Int("page", pageNum),
				slog.String("error", err.Error()))
			continue
		}
		lines = append(lines, strings.Split(text, "\n")...)
	}

	rows := ParseLines(lines)

	r.logger.DebugContext(ctx, "pdf rows read",
		slog.Int("pages", reader.NumPage()),
		slog.Int("lines", len(lines)),
		slog.Int("rows", len(rows)))

	return rows, nil
}

// ParseLines turns delimited text lines into import rows. Line numbers are
// 1-based positions in lines.
func ParseLines(lines []string) []domain.ImportRow {
	var rows []domain.ImportRow
	for i, line := range lines {
		cells := splitCells(line)
		if len(cells) < 2 {
			continue
		}
		if _, err := strconv.Atoi(strings.TrimSpace(cells[0])); err != nil {
			continue
		}
		rows = append(rows, domain.ImportRow{Line: i + 1, Cells: cells})
	}
	return rows
}

var cellSeparators = strings.NewReplacer("|", ";", "\t", ";")

func splitCells(line string) []string {
	line = strings.TrimSpace(line)
	// Table-style lines carry outer pipes.
	line = strings.TrimPrefix(line, "|")
	line = strings.TrimSuffix(line, "|")
	if line == "" {
		return nil
	}

	cells := strings.Split(cellSeparators.Replace(line), ";")
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	return cells
}
