// internal/adapters/redis_adapter/store.go
package redis_a

import (
	"context"
	"errors"
	"fmt"

	"github.com/ammerola/voucher-ledger/internal/core/ports"
)

// Store persists ledger collections as JSON values without expiry.
type Store struct {
	cache  ports.DocumentCache
	prefix CacheKeyPrefix
}

var _ ports.Store = (*Store)(nil)

// NewStore wraps a cache. Keys are namespaced under prefix.
func NewStore(cache ports.DocumentCache, prefix CacheKeyPrefix) *Store {
	if prefix == "" {
		prefix = PrefixLedger
	}
	return &Store{cache: cache, prefix: prefix}
}

// Load implements ports.Store.
func (s *Store) Load(ctx context.Context, key string, dest any) (bool, error) {
	err := s.cache.Get(ctx, BuildKey(s.prefix, key), dest)
	switch {
	case errors.Is(err, ErrCacheMiss):
		return false, nil
	case errors.Is(err, ErrCacheDecode):
		return true, fmt.Errorf("%w: %v", ports.ErrCorrupt, err)
	case err != nil:
		return false, err
	}
	return true, nil
}

// Save implements ports.Store.
func (s *Store) Save(ctx context.Context, key string, value any) error {
	return s.cache.Put(ctx, BuildKey(s.prefix, key), value)
}
