// internal/core/domain/sale.go
package domain

// CartLine is one requested line of a sale. A cart is processed strictly in
// slice order and the same key may appear more than once.
type CartLine struct {
	Key      VoucherKey `json:"key"`
	Quantity int64      `json:"quantity"`
}

// SaleLine reports what happened to one cart line.
type SaleLine struct {
	Key       VoucherKey `json:"key"`
	Name      string     `json:"name,omitempty"`
	Quantity  int64      `json:"quantity"`
	UnitPrice int64      `json:"unitPrice"`
	Subtotal  int64      `json:"subtotal"`
	Outcome   Outcome    `json:"outcome"`
}

// SaleResult summarizes a completed sale.
type SaleResult struct {
	Lines   []SaleLine `json:"lines"`
	Applied int        `json:"applied"`
	Total   int64      `json:"total"`
}
