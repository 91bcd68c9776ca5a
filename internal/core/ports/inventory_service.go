// internal/core/ports/inventory_service.go
package ports

import (
	"context"

	"github.com/ammerola/voucher-ledger/internal/core/domain"
)

// InventoryService is the application service port used by the HTTP layer
// and the command line tools.
//
// Mutating calls return the Outcome of the operation. When the outcome is not
// applied the returned error wraps one of the domain sentinel errors.
type InventoryService interface {
	Providers(ctx context.Context) []domain.Provider
	Vouchers(ctx context.Context) []domain.Voucher
	VouchersByProvider(ctx context.Context, providerID int) ([]domain.Voucher, error)
	Voucher(ctx context.Context, key domain.VoucherKey) (domain.Voucher, error)
	Activity(ctx context.Context) []domain.ActivityEntry
	Snapshot(ctx context.Context) domain.Snapshot

	AddProvider(ctx context.Context, name, logoURL string) (domain.Provider, domain.Outcome, error)
	DeleteProvider(ctx context.Context, id int) (domain.Outcome, error)
	SaveVoucher(ctx context.Context, form domain.Voucher) (domain.Voucher, domain.Outcome, error)
	DeleteVoucher(ctx context.Context, key domain.VoucherKey) (domain.Outcome, error)
	AddStock(ctx context.Context, key domain.VoucherKey, quantity int64) (domain.Voucher, domain.Outcome, error)
	CompleteSale(ctx context.Context, cart []domain.CartLine) (*domain.SaleResult, error)
	ImportRows(ctx context.Context, source domain.ImportSource, rows []domain.ImportRow) (*domain.ImportResult, error)
}

// RowReader extracts import rows from an uploaded document.
type RowReader interface {
	ReadRows(ctx context.Context, data []byte) ([]domain.ImportRow, error)
}
