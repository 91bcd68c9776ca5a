// internal/adapters/storage/store.go
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"

	"github.com/ammerola/voucher-ledger/internal/core/ports"
)

// S3Store persists each ledger collection as <prefix>/<key>.json.
type S3Store struct {
	client StorageClient
	prefix string
}

var _ ports.Store = (*S3Store)(nil)

// NewS3Store wraps a storage client.
func NewS3Store(client StorageClient, prefix string) *S3Store {
	if prefix == "" {
		prefix = "ledger"
	}
	return &S3Store{client: client, prefix: prefix}
}

// ObjectKey maps a ledger key to its object name.
func (s *S3Store) ObjectKey(key string) string {
	return path.Join(s.prefix, key+".json")
}

// Load implements ports.Store.
func (s *S3Store) Load(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := s.client.Download(ctx, s.ObjectKey(key))
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return true, fmt.Errorf("%w: %s: %v", ports.ErrCorrupt, key, err)
	}
	return true, nil
}

// Save implements ports.Store.
func (s *S3Store) Save(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if _, err := s.client.Upload(ctx, s.ObjectKey(key), bytes.NewReader(raw), "application/json"); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}
