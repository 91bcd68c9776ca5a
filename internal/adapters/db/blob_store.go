// internal/adapters/db/blob_store.go
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Masterminds/squirrel"

	"github.com/ammerola/voucher-ledger/internal/core/ports"
)

// BlobTable is created by the embedded migrations.
const BlobTable = "ledger_blobs"

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// BlobStore keeps each ledger collection as one JSONB row keyed by name.
type BlobStore struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ ports.Store = (*BlobStore)(nil)

// NewBlobStore wraps a database/sql handle. Use Database.SQL to bridge a
// pgx pool.
func NewBlobStore(db *sql.DB, logger *slog.Logger) *BlobStore {
	return &BlobStore{
		db:     db,
		logger: logger.With(slog.String("repository", "ledger_blobs")),
	}
}

// Load implements ports.Store.
func (s *BlobStore) Load(ctx context.Context, key string, dest any) (bool, error) {
	query, args, err := psql.Select("value").
		From(BlobTable).
		Where(squirrel.Eq{"key": key}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build query: %w", err)
	}

	var raw []byte
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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
func (s *BlobStore) Save(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	query, args, err := psql.Insert(BlobTable).
		Columns("key", "value").
		Values(key, string(raw)).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}

	s.logger.DebugContext(ctx, "ledger blob saved",
		slog.String("key", key),
		slog.Int("bytes", len(raw)),
	)
	return nil
}
