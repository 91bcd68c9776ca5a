// internal/report/summary.go
package report

import (
	"time"

	"github.com/ammerola/voucher-ledger/internal/core/domain"
)

// Options carries the presentation details that are not part of the
// ledger itself.
type Options struct {
	ShopName  string
	Reporter  string
	PrintedAt time.Time
	Location  *time.Location
}

// DefaultOptions matches the shop the ledger was built for.
func DefaultOptions() Options {
	return Options{
		ShopName: "UNI BRILINK",
		Reporter: "Sangkot Halomoan",
		Location: time.UTC,
	}
}

func (o Options) printedAt() time.Time {
	t := o.PrintedAt
	if t.IsZero() {
		t = time.Now()
	}
	if o.Location != nil {
		t = t.In(o.Location)
	}
	return t
}

// VoucherFigures are the derived numbers for a single voucher.
type VoucherFigures struct {
	Voucher     domain.Voucher
	Sold        int64
	Sales       int64
	CostOfSold  int64
	Profit      int64
	PlannedCost int64
}

// Section groups a provider's vouchers with their subtotals.
type Section struct {
	Provider    domain.Provider
	Vouchers    []VoucherFigures
	Sales       int64
	Profit      int64
	PlannedCost int64
}

// Summary is the projection every report renders from.
type Summary struct {
	Sections    []Section
	Sales       int64
	Profit      int64
	PlannedCost int64
}

// Summarize walks providers in order and skips those without vouchers.
// Vouchers whose provider is missing do not appear.
func Summarize(snap domain.Snapshot) Summary {
	var s Summary
	for _, p := range snap.Providers {
		vouchers := snap.ProviderVouchers(p.ID)
		if len(vouchers) == 0 {
			continue
		}

		sec := Section{Provider: p, Vouchers: make([]VoucherFigures, 0, len(vouchers))}
		for _, v := range vouchers {
			f := figures(v)
			sec.Vouchers = append(sec.Vouchers, f)
			sec.Sales = domain.SaturatingAdd(sec.Sales, f.Sales)
			sec.Profit = domain.SaturatingAdd(sec.Profit, f.Profit)
			sec.PlannedCost = domain.SaturatingAdd(sec.PlannedCost, f.PlannedCost)
		}

		s.Sections = append(s.Sections, sec)
		s.Sales = domain.SaturatingAdd(s.Sales, sec.Sales)
		s.Profit = domain.SaturatingAdd(s.Profit, sec.Profit)
		s.PlannedCost = domain.SaturatingAdd(s.PlannedCost, sec.PlannedCost)
	}
	return s
}

func figures(v domain.Voucher) VoucherFigures {
	sold := v.Sold()
	f := VoucherFigures{
		Voucher:    v,
		Sold:       sold,
		Sales:      domain.SaturatingMul(sold, v.SellPrice),
		CostOfSold: domain.SaturatingMul(sold, v.CostPrice),
	}
	// both terms are non-negative, so the difference cannot overflow
	f.Profit = f.Sales - f.CostOfSold
	if v.PlannedStock > 0 {
		f.PlannedCost = domain.SaturatingMul(v.PlannedStock, v.CostPrice)
	}
	return f
}
