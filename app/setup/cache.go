package setup

import (
	"encoding/json"
	"log/slog"
	"time"

	"console-core/app/domain"
	"console-core/app/port"
)

// Cache key in the session-scoped key-value store.
const KeySetupStatus = "backrest_setup_status"

// Freshness windows for the cached setup status. Inside the authoritative
// window the cache answers without a backend round trip; inside the fallback
// window a stale entry may still serve when the backend is unreachable.
const (
	AuthoritativeWindow = 10 * time.Second
	FallbackWindow      = 30 * time.Minute
)

// StatusCache persists the last known setup status of the tenant. Entries are
// stamped with a write timestamp so readers can judge freshness themselves.
type StatusCache struct {
	kv     port.KeyValueStore
	logger *slog.Logger
	now    func() time.Time
}

// NewStatusCache creates a setup status cache on top of kv.
func NewStatusCache(kv port.KeyValueStore, logger *slog.Logger) *StatusCache {
	return &StatusCache{
		kv:     kv,
		logger: logger.With("component", "setup_cache"),
		now:    time.Now,
	}
}

// Read returns the cached status, or nil when absent. A malformed entry is a
// miss, not an error.
func (c *StatusCache) Read() *domain.SetupStatus {
	raw, ok := c.kv.Get(KeySetupStatus)
	if !ok {
		return nil
	}
	var status domain.SetupStatus
	if err := json.Unmarshal([]byte(raw), &status); err != nil {
		c.logger.Warn("discarding malformed cached setup status", "error", err)
		return nil
	}
	return &status
}

// Write stores status, stamping it with the current time.
func (c *StatusCache) Write(status domain.SetupStatus) {
	status.Timestamp = c.now().UnixMilli()
	raw, err := json.Marshal(status)
	if err != nil {
		c.logger.Error("encoding setup status", "error", err)
		return
	}
	if err := c.kv.Set(KeySetupStatus, string(raw)); err != nil {
		c.logger.Warn("persisting setup status failed", "error", err)
	}
}

// Clear drops the cached status.
func (c *StatusCache) Clear() {
	if err := c.kv.Remove(KeySetupStatus); err != nil {
		c.logger.Warn("clearing setup status failed", "error", err)
	}
}

// IsAuthoritative reports whether status is fresh enough to answer without a
// backend round trip.
func (c *StatusCache) IsAuthoritative(status *domain.SetupStatus) bool {
	return c.isWithin(status, AuthoritativeWindow)
}

// IsUsableFallback reports whether status may still serve when the backend
// cannot be reached.
func (c *StatusCache) IsUsableFallback(status *domain.SetupStatus) bool {
	return c.isWithin(status, FallbackWindow)
}

// The windows are strict: an entry aged exactly at the boundary is stale.
func (c *StatusCache) isWithin(status *domain.SetupStatus, window time.Duration) bool {
	if status == nil || status.Timestamp == 0 {
		return false
	}
	return status.Age(c.now()) < window
}
