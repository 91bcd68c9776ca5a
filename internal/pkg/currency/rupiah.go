// internal/pkg/currency/rupiah.go
package currency

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Indonesian)

// FormatRupiah renders an amount as "Rp 10.000" with Indonesian digit
// grouping. Negative amounts render as "-Rp 1.000".
func FormatRupiah(amount int64) string {
	if amount < 0 {
		return "-Rp " + printer.Sprintf("%d", -amount)
	}
	return "Rp " + printer.Sprintf("%d", amount)
}

// FormatNumber renders n with Indonesian digit grouping.
func FormatNumber(n int64) string {
	return printer.Sprintf("%d", n)
}
