// internal/core/domain/inventory.go
package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// VoucherKey identifies a voucher by provider and name. Names are compared
// after trimming surrounding whitespace.
type VoucherKey struct {
	ProviderID int
	Name       string
}

// NewVoucherKey builds a normalized key.
func NewVoucherKey(providerID int, name string) VoucherKey {
	return VoucherKey{ProviderID: providerID, Name: strings.TrimSpace(name)}
}

// String renders the key as "<providerId>-<name>".
func (k VoucherKey) String() string {
	return strconv.Itoa(k.ProviderID) + "-" + k.Name
}

// ParseVoucherKey parses the textual form produced by String. The provider id
// ends at the first '-', so names may themselves contain dashes.
func ParseVoucherKey(s string) (VoucherKey, error) {
	idPart, name, ok := strings.Cut(s, "-")
	if !ok {
		return VoucherKey{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}

	id, err := strconv.Atoi(idPart)
	if err != nil || id <= 0 {
		return VoucherKey{}, fmt.Errorf("%w: bad provider id in %q", ErrInvalidKey, s)
	}

	key := NewVoucherKey(id, name)
	if key.Name == "" {
		return VoucherKey{}, fmt.Errorf("%w: empty name in %q", ErrInvalidKey, s)
	}
	return key, nil
}

func (k VoucherKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *VoucherKey) UnmarshalText(text []byte) error {
	parsed, err := ParseVoucherKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Voucher is a stock-keeping unit. Amounts are whole Rupiah, stock is in
// pieces. At rest 0 <= RemainingStock <= TotalStock.
type Voucher struct {
	ProviderID     int
	Name           string
	TotalStock     int64
	RemainingStock int64
	CostPrice      int64
	SellPrice      int64
	PlannedStock   int64
}

// Key derives the voucher identity from its provider and name.
func (v Voucher) Key() VoucherKey {
	return NewVoucherKey(v.ProviderID, v.Name)
}

// Normalized returns a copy with the name trimmed.
func (v Voucher) Normalized() Voucher {
	v.Name = strings.TrimSpace(v.Name)
	return v
}

// Sold is the number of pieces sold since the stock was recorded.
func (v Voucher) Sold() int64 {
	return v.TotalStock - v.RemainingStock
}

// Validate checks the at-rest invariants.
func (v Voucher) Validate() error {
	if v.ProviderID <= 0 {
		return fmt.Errorf("%w: providerId must be positive", ErrInvalidVoucher)
	}
	if strings.TrimSpace(v.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidVoucher)
	}
	if v.TotalStock < 0 || v.RemainingStock < 0 || v.PlannedStock < 0 {
		return fmt.Errorf("%w: stock cannot be negative", ErrInvalidVoucher)
	}
	if v.CostPrice < 0 || v.SellPrice < 0 {
		return fmt.Errorf("%w: prices cannot be negative", ErrInvalidVoucher)
	}
	if v.RemainingStock > v.TotalStock {
		return fmt.Errorf("%w: remaining stock %d exceeds total stock %d",
			ErrInvalidVoucher, v.RemainingStock, v.TotalStock)
	}
	return nil
}

// voucherJSON is the persisted shape. The id is written for compatibility and
// ignored on read; the key is always derived.
type voucherJSON struct {
	ID             string `json:"id"`
	ProviderID     int    `json:"providerId"`
	Name           string `json:"name"`
	TotalStock     int64  `json:"totalStock"`
	RemainingStock int64  `json:"remainingStock"`
	CostPrice      int64  `json:"costPrice"`
	SellPrice      int64  `json:"sellPrice"`
	PlannedStock   int64  `json:"plannedStock"`
}

func (v Voucher) MarshalJSON() ([]byte, error) {
	return json.Marshal(voucherJSON{
		ID:             v.Key().String(),
		ProviderID:     v.ProviderID,
		Name:           v.Name,
		TotalStock:     v.TotalStock,
		RemainingStock: v.RemainingStock,
		CostPrice:      v.CostPrice,
		SellPrice:      v.SellPrice,
		PlannedStock:   v.PlannedStock,
	})
}

func (v *Voucher) UnmarshalJSON(data []byte) error {
	var raw voucherJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = Voucher{
		ProviderID:     raw.ProviderID,
		Name:           strings.TrimSpace(raw.Name),
		TotalStock:     raw.TotalStock,
		RemainingStock: raw.RemainingStock,
		CostPrice:      raw.CostPrice,
		SellPrice:      raw.SellPrice,
		PlannedStock:   raw.PlannedStock,
	}
	return nil
}

// Snapshot is a detached copy of the ledger collections.
type Snapshot struct {
	Providers []Provider `json:"providers"`
	Vouchers  []Voucher  `json:"vouchers"`
}

// ProviderVouchers returns the vouchers of providerID in snapshot order.
func (s Snapshot) ProviderVouchers(providerID int) []Voucher {
	var out []Voucher
	for _, v := range s.Vouchers {
		if v.ProviderID == providerID {
			out = append(out, v)
		}
	}
	return out
}
