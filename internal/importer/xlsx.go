// internal/importer/xlsx.go
package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tealeg/xlsx/v3"

	"github.com/ammerola/voucher-ledger/internal/core/domain"
	"github.com/ammerola/voucher-ledger/internal/core/ports"
)

// ErrNoSheet is returned for workbooks without any sheet.
var ErrNoSheet = errors.New("workbook has no sheets")

// XLSXReader reads import rows from the first sheet of a workbook. The
// first row is a header and is skipped.
type XLSXReader struct {
	logger *slog.Logger
}

var _ ports.RowReader = (*XLSXReader)(nil)

// NewXLSXReader creates a new workbook row reader
func NewXLSXReader(logger *slog.Logger) *XLSXReader {
	return &XLSXReader{logger: logger.With(slog.String("component", "xlsx_reader"))}
}

// ReadRows implements ports.RowReader.
func (r *XLSXReader) ReadRows(ctx context.Context, data []byte) ([]domain.ImportRow, error) {
	file, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	if len(file.Sheets) == 0 {
		return nil, ErrNoSheet
	}

	sheet := file.Sheets[0]
	var rows []domain.ImportRow

	err = sheet.ForEachRow(func(row *xlsx.Row) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := row.GetCoordinate() + 1
		if line == 1 {
			return nil
		}

		cells := make([]string, domain.ImportColumns)
		for i := range cells {
			cells[i] = cellText(row.GetCell(i))
		}
		rows = append(rows, domain.ImportRow{Line: line, Cells: cells})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to process Excel rows: %w", err)
	}

	r.logger.DebugContext(ctx, "workbook rows read",
		slog.String("sheet", sheet.Name),
		slog.Int("rows", len(rows)))

	return rows, nil
}

// cellText prefers the raw value of numeric cells so a thousands-separator
// number format does not leak into parsing.
func cellText(c *xlsx.Cell) string {
	if c == nil {
		return ""
	}
	if c.Type() == xlsx.CellTypeNumeric {
		return strings.TrimSpace(c.Value)
	}
	return strings.TrimSpace(c.String())
}
