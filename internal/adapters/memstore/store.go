// internal/adapters/memstore/store.go
package memstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/ammerola/voucher-ledger/internal/core/ports"
)

// Store keeps JSON blobs in process memory. Values are encoded on Save so a
// loaded value never aliases a saved one.
type Store struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

var _ ports.Store = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{blobs: make(map[string][]byte)}
}

// Load implements ports.Store.
func (s *Store) Load(ctx context.Context, key string, dest any) (bool, error) {
	s.mu.RLock()
	data, ok := s.blobs[key]
	s.mu.RUnlock()

	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return true, fmt.Errorf("%w: %s: %v", ports.ErrCorrupt, key, err)
	}
	return true, nil
}

// Save implements ports.Store.
func (s *Store) Save(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	s.mu.Lock()
	s.blobs[key] = data
	s.mu.Unlock()
	return nil
}

// Put stores raw bytes under key.
func (s *Store) Put(key string, raw []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = append([]byte(nil), raw...)
}

// Raw returns the bytes stored under key.
func (s *Store) Raw(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.blobs[key]
	return append([]byte(nil), data...), ok
}
