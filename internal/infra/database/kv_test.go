package database

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	raw, err := s.Load(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, raw)

	require.NoError(t, s.Save(ctx, LeadsKey, json.RawMessage(`[{"id":"1"}]`)))
	require.NoError(t, s.Save(ctx, LeadsKey, json.RawMessage(`[{"id":"2"}]`)))

	raw, err = s.Load(ctx, LeadsKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"2"}]`, string(raw))
	assert.NoError(t, s.Ping(ctx))
}

func TestFileStoreSanitizesKeyAndLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, s.Save(context.Background(), "../escape me", json.RawMessage(`{}`)))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ".._escape_me.json", entries[0].Name())
	_, err = os.Stat(filepath.Join(dir, "..", "escape me.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestStoresRejectEmptyKey(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	for _, s := range []Store{NewMemoryStore(), fs} {
		assert.Error(t, s.Save(context.Background(), " ", json.RawMessage(`{}`)))
	}
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	val := json.RawMessage(`{"a":1}`)
	require.NoError(t, s.Save(ctx, "k", val))
	val[2] = 'b'

	raw, err := s.Load(ctx, "k")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(raw))
}

func TestOpenMemoryAndUnknownDriver(t *testing.T) {
	s, err := Open(context.Background(), Options{Driver: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open(context.Background(), Options{Driver: "file", FileDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	_, err = Open(context.Background(), Options{Driver: "cassandra"})
	assert.ErrorContains(t, err, "cassandra")
}

func TestPostgresQueries(t *testing.T) {
	s := NewPostgresStore(nil)

	q, args, err := s.loadQuery(LeadsKey)
	require.NoError(t, err)
	assert.Equal(t, "SELECT value FROM kv_store WHERE key = $1", q)
	assert.Equal(t, []interface{}{LeadsKey}, args)

	q, args, err = s.saveQuery(ProfileKey, json.RawMessage(`{"name":"x"}`))
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO kv_store (key,value,updated_at) VALUES ($1,$2,NOW()) "+
		"ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()", q)
	assert.Equal(t, []interface{}{ProfileKey, `{"name":"x"}`}, args)
}
