// internal/core/services/stock.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ammerola/voucher-ledger/internal/core/domain"
	"github.com/ammerola/voucher-ledger/internal/core/ports"
)

// ParseQuantity validates a raw quantity typed by an operator.
func ParseQuantity(raw string) (int64, error) {
	q, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || q <= 0 {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidQuantity, raw)
	}
	return q, nil
}

// AddStock records a restock. Total and remaining grow by quantity and the
// planned restock shrinks by the same amount, never below zero.
func (s *InventoryService) AddStock(ctx context.Context, key domain.VoucherKey, quantity int64) (domain.Voucher, domain.Outcome, error) {
	if quantity <= 0 {
		return domain.Voucher{}, domain.Rejected("quantity must be positive"),
			fmt.Errorf("%w: %d", domain.ErrInvalidQuantity, quantity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.ledger.FindVoucher(key)
	if !ok {
		return domain.Voucher{}, domain.Skipped("voucher not found"),
			fmt.Errorf("%w: %s", domain.ErrVoucherNotFound, key)
	}

	total, ok := domain.AddAmount(v.TotalStock, quantity)
	if !ok {
		return domain.Voucher{}, domain.Rejected("quantity too large"),
			fmt.Errorf("%w: %d would overflow total stock %d", domain.ErrInvalidQuantity, quantity, v.TotalStock)
	}

	v.TotalStock = total
	v.RemainingStock += quantity
	v.PlannedStock = max(0, v.PlannedStock-quantity)

	out := s.ledger.UpdateVoucher(v)
	s.log.Append(domain.ActivityAddStock, addStockMessage(quantity, v.Name))
	s.persist(ctx, ports.KeyVouchers, ports.KeyActivity)

	s.logger.InfoContext(ctx, "stock added",
		slog.String("voucher", key.String()),
		slog.Int64("quantity", quantity),
		slog.Int64("remaining", v.RemainingStock))

	return v, out, nil
}

// CompleteSale applies a cart line by line in order. Each line is checked
// against the stock left by the lines before it, so a repeated key sees the
// earlier decrement. Lines that cannot be applied are skipped. The sale fails
// as a whole only when no line applies, in which case nothing changes.
func (s *InventoryService) CompleteSale(ctx context.Context, cart []domain.CartLine) (*domain.SaleResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := &domain.SaleResult{Lines: make([]domain.SaleLine, 0, len(cart))}
	working := make(map[domain.VoucherKey]domain.Voucher)
	var touched []domain.VoucherKey

	for _, line := range cart {
		sl := domain.SaleLine{Key: line.Key, Quantity: line.Quantity}

		if line.Quantity <= 0 {
			sl.Outcome = domain.Skipped("quantity must be positive")
			result.Lines = append(result.Lines, sl)
			continue
		}

		v, seen := working[line.Key]
		if !seen {
			var ok bool
			if v, ok = s.ledger.FindVoucher(line.Key); !ok {
				sl.Outcome = domain.Skipped("voucher not found")
				result.Lines = append(result.Lines, sl)
				continue
			}
		}
		sl.Name = v.Name

		if v.RemainingStock < line.Quantity {
			sl.Outcome = domain.Skipped(fmt.Sprintf("%s: %d remaining", domain.ErrInsufficientStock, v.RemainingStock))
			result.Lines = append(result.Lines, sl)
			continue
		}

		subtotal, ok := domain.MulAmount(v.SellPrice, line.Quantity)
		total, fits := domain.AddAmount(result.Total, subtotal)
		if !ok || !fits {
			sl.Outcome = domain.Skipped("amount too large")
			result.Lines = append(result.Lines, sl)
			continue
		}

		v.RemainingStock -= line.Quantity
		working[line.Key] = v
		if !seen {
			touched = append(touched, line.Key)
		}

		sl.UnitPrice = v.SellPrice
		sl.Subtotal = subtotal
		sl.Outcome = domain.Applied("sold")
		result.Lines = append(result.Lines, sl)
		result.Applied++
		result.Total = total
	}

	if result.Applied == 0 {
		s.logger.WarnContext(ctx, "sale rejected", slog.Int("lines", len(cart)))
		return result, domain.ErrSaleRejected
	}

	for _, key := range touched {
		s.ledger.UpdateVoucher(working[key])
	}
	s.log.Append(domain.ActivitySale, saleMessage(result.Lines, result.Total))
	s.persist(ctx, ports.KeyVouchers, ports.KeyActivity)

	s.logger.InfoContext(ctx, "sale completed",
		slog.Int("lines_applied", result.Applied),
		slog.Int("lines_skipped", len(cart)-result.Applied),
		slog.Int64("total", result.Total))

	return result, nil
}
