// internal/core/services/import.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/ammerola/voucher-ledger/internal/core/domain"
	"github.com/ammerola/voucher-ledger/internal/core/ports"
)

var (
	errRequiredCells  = errors.New("ID Provider dan Nama Voucher wajib diisi")
	errProviderNotNum = errors.New("ID Provider harus berupa angka")
	errProviderNotPos = errors.New("ID Provider harus lebih dari 0")
	errNotWholeNumber = errors.New("harus berupa bilangan bulat")
	errBlankCell      = errors.New("blank")
)

// ImportRows applies bulk rows independently. Blank rows are ignored and a
// bad row never blocks the others. Unknown provider ids are created on the
// fly. One audit entry records the number of applied rows.
func (s *InventoryService) ImportRows(ctx context.Context, source domain.ImportSource, rows []domain.ImportRow) (*domain.ImportResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := &domain.ImportResult{}
	considered := 0

	for _, row := range rows {
		if row.IsBlank() {
			continue
		}
		considered++

		v, err := parseImportRow(row)
		if err != nil {
			result.Errors = append(result.Errors, domain.RowError{Line: row.Line, Reason: err.Error()})
			continue
		}

		if _, ok := s.ledger.FindProvider(v.ProviderID); !ok {
			p := domain.Provider{ID: v.ProviderID, Name: domain.AutoProviderName(v.ProviderID)}
			s.ledger.AddProvider(p)
			result.CreatedProviders = append(result.CreatedProviders, p)
		}

		_, out := s.ledger.UpsertVoucher(v)
		if out.Reason == "created" {
			result.Created++
		} else {
			result.Updated++
		}
		result.Applied++
	}

	if result.Applied == 0 {
		if considered == 0 {
			return result, nil
		}
		s.logger.WarnContext(ctx, "import rejected",
			slog.String("source", string(source)),
			slog.Int("rows", considered),
			slog.Int("errors", len(result.Errors)))
		return result, domain.ErrImportFailed
	}

	s.log.Append(domain.ActivityImport, importMessage(result.Applied, source))

	keys := []string{ports.KeyVouchers, ports.KeyActivity}
	if len(result.CreatedProviders) > 0 {
		keys = append(keys, ports.KeyProviders)
	}
	s.persist(ctx, keys...)

	s.logger.InfoContext(ctx, "import completed",
		slog.String("source", string(source)),
		slog.Int("applied", result.Applied),
		slog.Int("created", result.Created),
		slog.Int("updated", result.Updated),
		slog.Int("errors", len(result.Errors)),
		slog.Int("providers_created", len(result.CreatedProviders)))

	return result, nil
}

// parseImportRow turns cells into a voucher. Remaining stock defaults to the
// total when blank, and the sell price is derived unless the row carries a
// numeric one.
func parseImportRow(row domain.ImportRow) (domain.Voucher, error) {
	rawID, name := row.Cell(domain.ColProviderID), row.Cell(domain.ColName)
	if rawID == "" || name == "" {
		return domain.Voucher{}, errRequiredCells
	}

	providerID, err := parseWhole(rawID)
	if err != nil {
		return domain.Voucher{}, errProviderNotNum
	}
	if providerID <= 0 || providerID > math.MaxInt32 {
		return domain.Voucher{}, errProviderNotPos
	}

	v := domain.Voucher{ProviderID: int(providerID), Name: name}

	fields := []struct {
		col   int
		label string
		dest  *int64
	}{
		{domain.ColTotalStock, "Total Stok", &v.TotalStock},
		{domain.ColRemainingStock, "Sisa Stok", &v.RemainingStock},
		{domain.ColCostPrice, "Harga Modal", &v.CostPrice},
		{domain.ColSellPrice, "Harga Jual", &v.SellPrice},
		{domain.ColPlannedStock, "Rencana Stok", &v.PlannedStock},
	}

	blank := make(map[int]bool, len(fields))
	for _, f := range fields {
		n, err := parseOptionalWhole(row.Cell(f.col))
		switch {
		case errors.Is(err, errBlankCell):
			blank[f.col] = true
		case err != nil && f.col == domain.ColSellPrice:
			// a non-numeric sell price falls back to the derived price
			blank[f.col] = true
		case err != nil:
			return domain.Voucher{}, fmt.Errorf("%s %w", f.label, errNotWholeNumber)
		default:
			*f.dest = n
		}
	}

	if blank[domain.ColRemainingStock] {
		v.RemainingStock = v.TotalStock
	}
	if blank[domain.ColSellPrice] {
		v.SellPrice = domain.DeriveSellPrice(v.CostPrice)
	}

	if err := v.Validate(); err != nil {
		return domain.Voucher{}, err
	}
	return v, nil
}

func parseOptionalWhole(raw string) (int64, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, errBlankCell
	}
	return parseWhole(raw)
}

// parseWhole accepts integers and integral floats such as "5000.0", which is
// how spreadsheet cells often render whole numbers.
func parseWhole(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n, nil
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) || math.Abs(f) > math.MaxInt64/2 {
		return 0, errNotWholeNumber
	}
	return int64(f), nil
}
