// internal/core/domain/activity.go
package domain

import "time"

// ActivityKind classifies an audit log entry.
type ActivityKind string

const (
	ActivitySale           ActivityKind = "SALE"
	ActivityEdit           ActivityKind = "EDIT"
	ActivityDeleteVoucher  ActivityKind = "DELETE_VOUCHER"
	ActivityDeleteProvider ActivityKind = "DELETE_PROVIDER"
	ActivityImport         ActivityKind = "IMPORT"
	ActivityAddStock       ActivityKind = "ADD_STOCK"
)

// IsValid reports whether k is a known kind.
func (k ActivityKind) IsValid() bool {
	switch k {
	case ActivitySale, ActivityEdit, ActivityDeleteVoucher,
		ActivityDeleteProvider, ActivityImport, ActivityAddStock:
		return true
	}
	return false
}

// ActivityEntry is one immutable audit record.
type ActivityEntry struct {
	ID        int64        `json:"id"`
	Timestamp time.Time    `json:"timestamp"`
	Kind      ActivityKind `json:"type"`
	Message   string       `json:"message"`
}
