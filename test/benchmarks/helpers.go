// test/benchmarks/helpers.go
package benchmarks

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/tealeg/xlsx/v3"

	"github.com/ammerola/voucher-ledger/internal/core/domain"
)

var voucherNames = []string{
	"Kuota Harian 1GB",
	"Freedom Internet 3GB",
	"Combo Sakti 10GB",
	"Unlimited Malam",
	"Paket Ketengan YouTube",
	"Voucher 5GB 30 Hari",
	"Flash 2GB",
}

// stockRows returns n import rows spread across the default providers.
func stockRows(n int) [][]string {
	rows := make([][]string, n)
	for i := range rows {
		providerID := i%len(domain.DefaultProviders()) + 1
		cost := 5000 + (i%20)*1000
		rows[i] = []string{
			fmt.Sprint(providerID),
			fmt.Sprintf("%s #%d", voucherNames[i%len(voucherNames)], i),
			"20", "",
			fmt.Sprint(cost), "", "2",
		}
	}
	return rows
}

// createLargeWorkbook renders stockRows(n) under a header row.
func createLargeWorkbook(n int) []byte {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Stok")
	if err != nil {
		panic(err)
	}

	header := sheet.AddRow()
	for _, title := range []string{"ID Provider", "Nama Voucher", "Total Stok", "Sisa Stok", "Harga Modal", "Harga Jual", "Rencana Stok"} {
		header.AddCell().SetString(title)
	}
	for _, values := range stockRows(n) {
		row := sheet.AddRow()
		for _, v := range values {
			row.AddCell().SetString(v)
		}
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// createPDFTextLines simulates text extracted from a printed stock table.
func createPDFTextLines(n int) []string {
	lines := []string{
		"LAPORAN STOK VOUCHER",
		"ID | Nama | Total | Sisa | Modal | Jual | Rencana",
		strings.Repeat("-", 48),
	}
	for _, cells := range stockRows(n) {
		lines = append(lines, "| "+strings.Join(cells, " | ")+" |")
	}
	return lines
}

// importRows converts stockRows(n) into domain rows.
func importRows(n int) []domain.ImportRow {
	raw := stockRows(n)
	rows := make([]domain.ImportRow, len(raw))
	for i, cells := range raw {
		rows[i] = domain.ImportRow{Line: i + 2, Cells: cells}
	}
	return rows
}
