package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/voucher-ledger/internal/adapters/storage"
	"github.com/ammerola/voucher-ledger/internal/core/domain"
	"github.com/ammerola/voucher-ledger/internal/core/ports"
	"github.com/ammerola/voucher-ledger/test/helpers"
)

func TestLocalStorage_UploadDownload(t *testing.T) {
	dir := t.TempDir()
	local, err := storage.NewLocalStorage(dir, helpers.TestLogger())
	require.NoError(t, err)

	ctx := context.Background()
	loc, err := local.Upload(ctx, "backups/20250101/a.json", strings.NewReader(`{"ok":true}`), "")
	require.NoError(t, err)
	assert.Equal(t, "file://"+filepath.Join(dir, "backups", "20250101", "a.json"), loc)

	raw, err := local.Download(ctx, "backups/20250101/a.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(raw))

	_, err = local.Download(ctx, "missing.json")
	assert.ErrorIs(t, err, storage.ErrObjectNotFound)
}

func TestLocalStorage_RejectsEscapingKeys(t *testing.T) {
	local, err := storage.NewLocalStorage(t.TempDir(), helpers.TestLogger())
	require.NoError(t, err)

	for _, key := range []string{"../outside.json", "/etc/passwd", "."} {
		t.Run(key, func(t *testing.T) {
			_, err := local.Upload(context.Background(), key, strings.NewReader("x"), "")
			assert.Error(t, err)
		})
	}
}

func TestLocalStorage_BacksS3Store(t *testing.T) {
	dir := t.TempDir()
	local, err := storage.NewLocalStorage(dir, helpers.TestLogger())
	require.NoError(t, err)
	store := storage.NewS3Store(local, "ledger")

	entries := []domain.ActivityEntry{{ID: 1, Kind: domain.ActivitySale, Message: "Penjualan"}}
	require.NoError(t, store.Save(context.Background(), ports.KeyActivity, entries))

	_, err = os.Stat(filepath.Join(dir, "ledger", "voucherApp_activityLogs.json"))
	require.NoError(t, err)

	var got []domain.ActivityEntry
	found, err := store.Load(context.Background(), ports.KeyActivity, &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, entries, got)
}
