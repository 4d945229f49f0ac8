package setup

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"console-core/app/domain"
	"console-core/app/driver/kvstore"
)

func newTestCache(t *testing.T) *StatusCache {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewStatusCache(kvstore.NewMemory(), logger)
}

func TestStatusCache_WriteStampsTimestamp(t *testing.T) {
	cache := newTestCache(t)
	written := time.UnixMilli(1_700_000_000_000)
	cache.now = func() time.Time { return written }

	cache.Write(domain.SetupStatus{SetupNeeded: true, Step: "register_server"})

	got := cache.Read()
	require.NotNil(t, got)
	assert.Equal(t, written.UnixMilli(), got.Timestamp)
	assert.True(t, got.SetupNeeded)
	assert.Equal(t, "register_server", got.Step)
}

func TestStatusCache_ReadMissesOnAbsentAndMalformed(t *testing.T) {
	kv := kvstore.NewMemory()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cache := NewStatusCache(kv, logger)

	assert.Nil(t, cache.Read())

	require.NoError(t, kv.Set(KeySetupStatus, "{not json"))
	assert.Nil(t, cache.Read(), "a malformed entry is a miss, not an error")
}

func TestStatusCache_Clear(t *testing.T) {
	cache := newTestCache(t)
	cache.Write(domain.SetupStatus{SetupNeeded: false})
	require.NotNil(t, cache.Read())

	cache.Clear()
	assert.Nil(t, cache.Read())
}

func TestStatusCache_FreshnessWindows(t *testing.T) {
	base := time.UnixMilli(1_700_000_000_000)

	tests := []struct {
		name          string
		age           time.Duration
		authoritative bool
		fallback      bool
	}{
		{name: "just written", age: 0, authoritative: true, fallback: true},
		{name: "inside authoritative window", age: 9999 * time.Millisecond, authoritative: true, fallback: true},
		{name: "exactly at authoritative boundary", age: 10 * time.Second, authoritative: false, fallback: true},
		{name: "inside fallback window", age: 29 * time.Minute, authoritative: false, fallback: true},
		{name: "exactly at fallback boundary", age: 30 * time.Minute, authoritative: false, fallback: false},
		{name: "well past fallback", age: 2 * time.Hour, authoritative: false, fallback: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := newTestCache(t)
			cache.now = func() time.Time { return base }
			cache.Write(domain.SetupStatus{SetupNeeded: false})

			cache.now = func() time.Time { return base.Add(tt.age) }
			status := cache.Read()
			assert.Equal(t, tt.authoritative, cache.IsAuthoritative(status))
			assert.Equal(t, tt.fallback, cache.IsUsableFallback(status))
		})
	}
}

func TestStatusCache_NilAndUnstampedAreNeverFresh(t *testing.T) {
	cache := newTestCache(t)
	assert.False(t, cache.IsAuthoritative(nil))
	assert.False(t, cache.IsUsableFallback(nil))

	unstamped := &domain.SetupStatus{SetupNeeded: false}
	assert.False(t, cache.IsAuthoritative(unstamped))
	assert.False(t, cache.IsUsableFallback(unstamped))
}
