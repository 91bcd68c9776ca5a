// internal/core/services/messages.go
package services

import (
	"fmt"
	"strings"

	"github.com/ammerola/voucher-ledger/internal/core/domain"
	"github.com/ammerola/voucher-ledger/internal/pkg/currency"
)

// Audit messages are written in Indonesian, matching the shop's reports.

func editMessage(name string, existed bool) string {
	if existed {
		return fmt.Sprintf(`Voucher "%s" diperbarui.`, name)
	}
	return fmt.Sprintf(`Voucher "%s" ditambahkan.`, name)
}

func deleteVoucherMessage(name string) string {
	return fmt.Sprintf(`Voucher "%s" dihapus.`, name)
}

func deleteProviderMessage(name string) string {
	return fmt.Sprintf(`Provider "%s" dan semua vouchernya dihapus.`, name)
}

func addStockMessage(quantity int64, name string) string {
	return fmt.Sprintf(`%d stok ditambahkan ke "%s".`, quantity, name)
}

func saleMessage(lines []domain.SaleLine, total int64) string {
	items := make([]string, 0, len(lines))
	for _, l := range lines {
		if l.Outcome.IsApplied() {
			items = append(items, fmt.Sprintf("%dx %s", l.Quantity, l.Name))
		}
	}
	return fmt.Sprintf("Penjualan: %s | Total: %s.", strings.Join(items, ", "), currency.FormatRupiah(total))
}

func importMessage(applied int, source domain.ImportSource) string {
	return fmt.Sprintf("Mengimpor/memperbarui %d voucher dari file %s.", applied, source)
}
