// internal/core/domain/errors.go
package domain

import "errors"

var (
	ErrVoucherNotFound   = errors.New("voucher not found")
	ErrProviderNotFound  = errors.New("provider not found")
	ErrProviderExists    = errors.New("provider already exists")
	ErrInvalidProvider   = errors.New("invalid provider")
	ErrInvalidVoucher    = errors.New("invalid voucher")
	ErrInvalidKey        = errors.New("invalid voucher key")
	ErrInvalidQuantity   = errors.New("quantity must be a positive integer")
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrSaleRejected is returned when no line of a cart could be applied.
	ErrSaleRejected = errors.New("sale rejected: no line could be applied")
	// ErrImportFailed is returned when no row of an import could be applied.
	ErrImportFailed = errors.New("import failed: no row could be applied")
)
