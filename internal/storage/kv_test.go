// internal/storage/kv_test.go
package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestKV(t *testing.T) *KV {
	t.Helper()
	kv, err := Open(context.Background(), DriverSQLite, filepath.Join(t.TempDir(), "storage.db"))
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })
	return kv
}

func TestKVRoundTrip(t *testing.T) {
	kv := openTestKV(t)
	ctx := context.Background()

	_, ok, err := kv.Get(ctx, "token")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set(ctx, "token", "T1"))
	v, ok, err := kv.Get(ctx, "token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "T1", v)

	require.NoError(t, kv.Set(ctx, "token", "T2"))
	v, _, err = kv.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "T2", v)

	require.NoError(t, kv.Delete(ctx, "token"))
	_, ok, err = kv.Get(ctx, "token")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, kv.Delete(ctx, "token"))
}

func TestKVSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.db")
	ctx := context.Background()

	kv, err := Open(ctx, DriverSQLite, path)
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, "token", "persisted"))
	require.NoError(t, kv.Close())

	kv, err = Open(ctx, DriverSQLite, path)
	require.NoError(t, err)
	defer kv.Close()

	v, ok, err := kv.Get(ctx, "token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "persisted", v)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "dsn")
	assert.ErrorIs(t, err, ErrUnknownDriver)
}

func TestPlaceholdersFollowDriver(t *testing.T) {
	pgDB, err := sqlx.Open(DriverPostgres, "postgres://localhost/kingdomseekers?sslmode=disable")
	require.NoError(t, err)
	t.Cleanup(func() { pgDB.Close() })
	pg := newKV(pgDB)
	assert.Equal(t, "DELETE FROM local_storage WHERE key = $1", pg.db.Rebind(deleteValue))
	assert.Contains(t, pg.db.Rebind(upsertValue), "VALUES ($1, $2, $3)")

	lite := openTestKV(t)
	assert.Equal(t, selectValue, lite.db.Rebind(selectValue))
}
