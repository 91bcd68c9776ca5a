// internal/report/text.go
package report

import (
	"fmt"
	"strings"

	"github.com/ammerola/voucher-ledger/internal/core/domain"
	"github.com/ammerola/voucher-ledger/internal/pkg/currency"
)

var (
	rp  = currency.FormatRupiah
	qty = currency.FormatNumber
)

// RenderFull renders the complete stock and profit report.
func RenderFull(snap domain.Snapshot, opts Options) string {
	sum := Summarize(snap)

	var b strings.Builder
	fmt.Fprintf(&b, "LAPORAN LENGKAP VOUCHER INTERNET %s\n\n", opts.ShopName)

	for _, sec := range sum.Sections {
		fmt.Fprintf(&b, "===== %s =====\n\n", strings.ToUpper(sec.Provider.Name))

		for _, f := range sec.Vouchers {
			v := f.Voucher
			fmt.Fprintf(&b, "- %s\n", v.Name)
			b.WriteString("=================\n")
			fmt.Fprintf(&b, "Harga Modal : %s\n", rp(v.CostPrice))
			fmt.Fprintf(&b, "Harga Jual  : %s\n", rp(v.SellPrice))
			b.WriteString("--- Rincian Stok ---\n")
			fmt.Fprintf(&b, "Total Stok  : %d pcs\n", v.TotalStock)
			fmt.Fprintf(&b, "Terjual     : %d pcs\n", f.Sold)
			fmt.Fprintf(&b, "Sisa        : %d pcs\n", v.RemainingStock)
			b.WriteString("--- Rincian Keuangan ---\n")
			fmt.Fprintf(&b, "Total Penjualan       : %s\n", rp(f.Sales))
			fmt.Fprintf(&b, "Total Modal (Terjual) : %s\n", rp(f.CostOfSold))
			fmt.Fprintf(&b, "Keuntungan            : %s\n\n", rp(f.Profit))
		}

		fmt.Fprintf(&b, "--- Sub-Total %s ---\n", sec.Provider.Name)
		fmt.Fprintf(&b, "Total Penjualan : %s\n", rp(sec.Sales))
		fmt.Fprintf(&b, "Total Keuntungan: %s\n", rp(sec.Profit))
		b.WriteString("------------------------\n\n")
	}

	b.WriteString("===== TOTAL KESELURUHAN =====\n")
	fmt.Fprintf(&b, "Total Seluruh Penjualan : %s\n", rp(sum.Sales))
	fmt.Fprintf(&b, "Total Seluruh Keuntungan: %s\n\n", rp(sum.Profit))
	fmt.Fprintf(&b, "Created by : %s", opts.Reporter)

	return b.String()
}

// RenderShort renders remaining stock and the planned restock cost.
func RenderShort(snap domain.Snapshot, opts Options) string {
	sum := Summarize(snap)

	var b strings.Builder
	b.WriteString("LAPORAN SISA & RENCANA TAMBAH STOK VOUCHER\n\n")

	for _, sec := range sum.Sections {
		fmt.Fprintf(&b, "===== %s =====\n\n", strings.ToUpper(sec.Provider.Name))

		for _, f := range sec.Vouchers {
			v := f.Voucher
			fmt.Fprintf(&b, "- %s\n", v.Name)
			fmt.Fprintf(&b, "Sisa Stok : %d pcs\n", v.RemainingStock)
			if v.PlannedStock > 0 {
				fmt.Fprintf(&b, "*Rencana Tambah Stok : %d Pcs x %s = %s*\n",
					v.PlannedStock, rp(v.CostPrice), rp(f.PlannedCost))
			}
			b.WriteString("\n")
		}

		fmt.Fprintf(&b, "--- *Sub-Total Modal %s* ---\n", sec.Provider.Name)
		fmt.Fprintf(&b, "Total Rencana Tambah Stok    : %s\n", rp(sec.PlannedCost))
		b.WriteString("---------------------------\n\n")
	}

	b.WriteString(" *••TOTAL KESELURUHAN MODAL••*\n")
	fmt.Fprintf(&b, "Total Harga Tambah Stok    : %s\n\n", rp(sum.PlannedCost))
	fmt.Fprintf(&b, "Dilaporkan Oleh : %s", opts.Reporter)

	return b.String()
}
