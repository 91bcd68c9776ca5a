// internal/core/ports/store.go
package ports

import (
	"context"
	"errors"
)

// Persisted blob keys. The names match the blobs written by the browser
// version of the ledger so existing exports load unchanged.
const (
	KeyProviders = "voucherApp_providers"
	KeyVouchers  = "voucherApp_vouchers"
	KeyActivity  = "voucherApp_activityLogs"
)

// StoreKeys lists every key the ledger persists.
func StoreKeys() []string {
	return []string{KeyProviders, KeyVouchers, KeyActivity}
}

// Store persists JSON-encodable values under string keys.
type Store interface {
	// Load decodes the value stored under key into dest. It reports false
	// with a nil error when nothing is stored.
	Load(ctx context.Context, key string, dest any) (bool, error)
	Save(ctx context.Context, key string, value any) error
}

// ErrCorrupt is wrapped by Store implementations when a stored value exists
// but cannot be decoded into the destination.
var ErrCorrupt = errors.New("stored value is corrupt")
