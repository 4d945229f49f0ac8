package kvstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"console-core/app/port"
	"console-core/app/utils/logger"
)

func openStores(t *testing.T) map[string]port.KeyValueStore {
	t.Helper()

	log, err := logger.NewWithWriter("error", testWriter{t})
	require.NoError(t, err)

	sqlite, err := NewSQLite(filepath.Join(t.TempDir(), "state", "console.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	return map[string]port.KeyValueStore{
		"memory": NewMemory(),
		"sqlite": sqlite,
	}
}

func TestStore_SetGetRemove(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			_, ok := store.Get("access_token")
			assert.False(t, ok)

			require.NoError(t, store.Set("access_token", "tok-1"))
			value, ok := store.Get("access_token")
			assert.True(t, ok)
			assert.Equal(t, "tok-1", value)

			// Overwrite is unconditional
			require.NoError(t, store.Set("access_token", "tok-2"))
			value, _ = store.Get("access_token")
			assert.Equal(t, "tok-2", value)

			require.NoError(t, store.Remove("access_token"))
			_, ok = store.Get("access_token")
			assert.False(t, ok)

			// Removing an absent key is not an error
			assert.NoError(t, store.Remove("access_token"))
		})
	}
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	log, err := logger.NewWithWriter("error", testWriter{t})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "console.db")

	first, err := NewSQLite(path, log)
	require.NoError(t, err)
	require.NoError(t, first.Set("tenant_domain", "acme.example.com"))
	require.NoError(t, first.Close())

	second, err := NewSQLite(path, log)
	require.NoError(t, err)
	defer second.Close()

	value, ok := second.Get("tenant_domain")
	assert.True(t, ok)
	assert.Equal(t, "acme.example.com", value)
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}
