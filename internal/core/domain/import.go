// internal/core/domain/import.go
package domain

import "strings"

// Column order of an import row.
const (
	ColProviderID = iota
	ColName
	ColTotalStock
	ColRemainingStock
	ColCostPrice
	ColSellPrice
	ColPlannedStock
	ImportColumns
)

// ImportRow is one row of a bulk import. Line is the 1-based row number in
// the source document, used only for error reporting.
type ImportRow struct {
	Line  int      `json:"line"`
	Cells []string `json:"cells"`
}

// Cell returns the trimmed cell at i, or "" when the row is shorter.
func (r ImportRow) Cell(i int) string {
	if i < 0 || i >= len(r.Cells) {
		return ""
	}
	return strings.TrimSpace(r.Cells[i])
}

// IsBlank reports whether every cell is empty.
func (r ImportRow) IsBlank() bool {
	for i := range r.Cells {
		if r.Cell(i) != "" {
			return false
		}
	}
	return true
}

// RowError describes why a single row was not applied.
type RowError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// ImportResult summarizes a bulk import.
type ImportResult struct {
	Applied          int        `json:"applied"`
	Created          int        `json:"created"`
	Updated          int        `json:"updated"`
	Errors           []RowError `json:"errors,omitempty"`
	CreatedProviders []Provider `json:"createdProviders,omitempty"`
}

// ImportSource names the kind of document rows were read from.
type ImportSource string

const (
	ImportSourceExcel ImportSource = "Excel"
	ImportSourcePDF   ImportSource = "PDF"
)
