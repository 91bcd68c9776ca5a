// internal/core/ports/cache.go
package ports

import "context"

// DocumentCache keeps whole JSON documents under string keys. Documents do
// not expire.
type DocumentCache interface {
	Get(ctx context.Context, key string, dest any) error
	Put(ctx context.Context, key string, value any) error
	Ping(ctx context.Context) error
}
