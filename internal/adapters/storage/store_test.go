package storage_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/voucher-ledger/internal/adapters/storage"
	"github.com/ammerola/voucher-ledger/internal/core/domain"
	"github.com/ammerola/voucher-ledger/internal/core/ports"
)

// memClient is an in-memory StorageClient.
type memClient struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	err     error
}

func newMemClient() *memClient {
	return &memClient{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memClient) Upload(_ context.Context, key string, data io.Reader, contentType string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	raw, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = raw
	m.types[key] = contentType
	return "mem://" + key, nil
}

func (m *memClient) Download(_ context.Context, key string) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.objects[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrObjectNotFound, key)
	}
	return raw, nil
}

func TestS3Store_RoundTrip(t *testing.T) {
	ctx := context.Background()
	client := newMemClient()
	store := storage.NewS3Store(client, "")

	var none []domain.Provider
	found, err := store.Load(ctx, ports.KeyProviders, &none)
	require.NoError(t, err)
	assert.False(t, found)

	providers := domain.DefaultProviders()
	require.NoError(t, store.Save(ctx, ports.KeyProviders, providers))

	assert.Contains(t, client.objects, "ledger/voucherApp_providers.json")
	assert.Equal(t, "application/json", client.types["ledger/voucherApp_providers.json"])

	var got []domain.Provider
	found, err = store.Load(ctx, ports.KeyProviders, &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, providers, got)
}

func TestS3Store_Errors(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(c *memClient)
		wantFound bool
		wantErr   error
	}{
		{
			name: "corrupt_object",
			setup: func(c *memClient) {
				c.objects["shop/voucherApp_vouchers.json"] = []byte("not json")
			},
			wantFound: true,
			wantErr:   ports.ErrCorrupt,
		},
		{
			name: "backend_failure",
			setup: func(c *memClient) {
				c.err = errors.New("access denied")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newMemClient()
			tt.setup(client)
			store := storage.NewS3Store(client, "shop")

			var got []domain.Voucher
			found, err := store.Load(context.Background(), ports.KeyVouchers, &got)
			require.Error(t, err)
			assert.Equal(t, tt.wantFound, found)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NotErrorIs(t, err, ports.ErrCorrupt)
			}
		})
	}
}

func TestContentTypeFor(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"backups/x/voucherApp_vouchers.json", "application/json"},
		{"reports/laporan-lengkap.txt", "text/plain; charset=utf-8"},
		{"reports/voucher.xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
		{"noext", "application/octet-stream"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, storage.ContentTypeFor(tt.key))
		})
	}
}
