// internal/report/workbook.go
package report

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx/v3"

	"github.com/ammerola/voucher-ledger/internal/core/domain"
)

// WorkbookSheet is the name of the exported sheet.
const WorkbookSheet = "Stok Voucher"

// The first seven columns follow the import layout so an export can be
// edited and imported back. For the same reason there is no totals row.
var workbookHeader = []string{
	"ID Provider", "Nama Voucher", "Total Stok", "Sisa Stok",
	"Harga Modal", "Harga Jual", "Rencana Tambah Stok",
	"Provider", "Terjual", "Total Penjualan", "Keuntungan", "Margin %",
}

var hundred = decimal.NewFromInt(100)

// MarginPercent is (sell - cost) / cost as a percentage rounded to two
// decimals. A zero cost yields zero.
func MarginPercent(cost, sell int64) decimal.Decimal {
	if cost <= 0 {
		return decimal.Zero
	}
	c := decimal.NewFromInt(cost)
	return decimal.NewFromInt(sell).Sub(c).Div(c).Mul(hundred).Round(2)
}

// Workbook builds the xlsx export of the snapshot.
func Workbook(snap domain.Snapshot) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(WorkbookSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to add sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, title := range workbookHeader {
		header.AddCell().SetString(title)
	}

	sum := Summarize(snap)
	for _, sec := range sum.Sections {
		for _, f := range sec.Vouchers {
			v := f.Voucher
			row := sheet.AddRow()
			row.AddCell().SetInt(v.ProviderID)
			row.AddCell().SetString(v.Name)
			row.AddCell().SetInt64(v.TotalStock)
			row.AddCell().SetInt64(v.RemainingStock)
			row.AddCell().SetInt64(v.CostPrice)
			row.AddCell().SetInt64(v.SellPrice)
			row.AddCell().SetInt64(v.PlannedStock)
			row.AddCell().SetString(sec.Provider.Name)
			row.AddCell().SetInt64(f.Sold)
			row.AddCell().SetInt64(f.Sales)
			row.AddCell().SetInt64(f.Profit)
			row.AddCell().SetFloatWithFormat(MarginPercent(v.CostPrice, v.SellPrice).InexactFloat64(), "0.00")
		}
	}

	return file, nil
}

// WriteWorkbook renders the export straight to w.
func WriteWorkbook(w io.Writer, snap domain.Snapshot) error {
	file, err := Workbook(snap)
	if err != nil {
		return err
	}
	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
