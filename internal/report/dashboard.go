// internal/report/dashboard.go
package report

import "github.com/ammerola/voucher-ledger/internal/core/domain"

// LowStockThreshold is the remaining stock at or below which a voucher is
// flagged as running low.
const LowStockThreshold = 2

// ProviderTile is the per-provider card of the dashboard. Unlike the text
// reports every provider appears, including those without vouchers.
type ProviderTile struct {
	Provider       domain.Provider `json:"provider"`
	VoucherCount   int             `json:"voucherCount"`
	RemainingStock int64           `json:"remainingStock"`
	SoldStock      int64           `json:"soldStock"`
	// StockValue is total stock at cost.
	StockValue int64 `json:"stockValue"`
	Sales      int64 `json:"sales"`
	Profit     int64 `json:"profit"`
}

// Dashboard is the overview shown on the landing page.
type Dashboard struct {
	Providers []ProviderTile   `json:"providers"`
	LowStock  []domain.Voucher `json:"lowStock"`
	Sales     int64            `json:"sales"`
	Profit    int64            `json:"profit"`
}

// BuildDashboard projects the snapshot into dashboard tiles.
func BuildDashboard(snap domain.Snapshot) Dashboard {
	d := Dashboard{
		Providers: make([]ProviderTile, 0, len(snap.Providers)),
		LowStock:  []domain.Voucher{},
	}

	for _, p := range snap.Providers {
		tile := ProviderTile{Provider: p}
		for _, v := range snap.ProviderVouchers(p.ID) {
			f := figures(v)
			tile.VoucherCount++
			tile.RemainingStock = domain.SaturatingAdd(tile.RemainingStock, v.RemainingStock)
			tile.SoldStock = domain.SaturatingAdd(tile.SoldStock, f.Sold)
			tile.StockValue = domain.SaturatingAdd(tile.StockValue, domain.SaturatingMul(v.TotalStock, v.CostPrice))
			tile.Sales = domain.SaturatingAdd(tile.Sales, f.Sales)
			tile.Profit = domain.SaturatingAdd(tile.Profit, f.Profit)

			if v.RemainingStock <= LowStockThreshold {
				d.LowStock = append(d.LowStock, v)
			}
		}
		d.Providers = append(d.Providers, tile)
		d.Sales = domain.SaturatingAdd(d.Sales, tile.Sales)
		d.Profit = domain.SaturatingAdd(d.Profit, tile.Profit)
	}
	return d
}
