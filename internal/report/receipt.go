// internal/report/receipt.go
package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/ammerola/voucher-ledger/internal/core/domain"
)

//go:embed templates/receipt.html
var templateFS embed.FS

var receiptTmpl = template.Must(
	template.New("receipt.html").
		Funcs(template.FuncMap{"rp": rp, "qty": qty}).
		ParseFS(templateFS, "templates/receipt.html"),
)

// receiptTimeLayout mirrors the id-ID locale date string.
const receiptTimeLayout = "2/1/2006, 15.04.05"

type receiptData struct {
	ShopName  string
	PrintedAt string
	Title     string
	Footer    string
	Full      bool
	Summary   Summary
}

// RenderFullReceipt renders the complete report for a 58mm thermal printer.
func RenderFullReceipt(snap domain.Snapshot, opts Options) (string, error) {
	return renderReceipt(receiptData{
		ShopName:  opts.ShopName,
		PrintedAt: opts.printedAt().Format(receiptTimeLayout),
		Title:     "LAPORAN LENGKAP",
		Footer:    "Created by : " + opts.Reporter,
		Full:      true,
		Summary:   Summarize(snap),
	})
}

// RenderShortReceipt renders the restock report for a 58mm thermal printer.
func RenderShortReceipt(snap domain.Snapshot, opts Options) (string, error) {
	return renderReceipt(receiptData{
		ShopName:  opts.ShopName,
		PrintedAt: opts.printedAt().Format(receiptTimeLayout),
		Title:     "LAPORAN SINGKAT",
		Footer:    "Dilaporkan Oleh : " + opts.Reporter,
		Summary:   Summarize(snap),
	})
}

func renderReceipt(data receiptData) (string, error) {
	var buf bytes.Buffer
	if err := receiptTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render receipt: %w", err)
	}
	return buf.String(), nil
}
