package cache

import (
	"encoding/json"
	"errors"
	"time"
)

// ErrNotFound is returned by stores when a key has no record.
var ErrNotFound = errors.New("cache: key not found")

// Store is the persistent key-value medium underneath a Cache.
// Implementations must be safe for concurrent use.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
}

// entry is the serialized record kept in the store. A record older than
// its TTL is treated as absent and removed on read.
type entry struct {
	StoredAt time.Time       `json:"ts"`
	TTL      time.Duration   `json:"ttl"`
	Value    json.RawMessage `json:"value"`
}

// Cache is a TTL cache over a Store. It is a performance optimization,
// never a correctness dependency: every store fault is swallowed, so a
// failed Set behaves like a no-op and a failed Get like a miss.
type Cache[V any] struct {
	store Store
	now   func() time.Time
}

// New creates a Cache backed by store.
func New[V any](store Store) *Cache[V] {
	return &Cache[V]{
		store: store,
		now:   time.Now,
	}
}

// WithClock replaces the cache's time source. Used by tests.
func (c *Cache[V]) WithClock(now func() time.Time) *Cache[V] {
	c.now = now
	return c
}

// Set stores value under key for ttl. Store or serialization failures
// are discarded; a later Get simply misses.
func (c *Cache[V]) Set(key string, value V, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	buf, err := json.Marshal(entry{
		StoredAt: c.now(),
		TTL:      ttl,
		Value:    raw,
	})
	if err != nil {
		return
	}
	_ = c.store.Set(key, buf)
}

// Get returns the live value for key. An expired record is deleted from
// the store before reporting a miss, so stale metadata never survives a
// read.
func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V

	buf, err := c.store.Get(key)
	if err != nil {
		return zero, false
	}

	var e entry
	if err := json.Unmarshal(buf, &e); err != nil {
		return zero, false
	}

	if c.now().Sub(e.StoredAt) > e.TTL {
		_ = c.store.Delete(key)
		return zero, false
	}

	var v V
	if err := json.Unmarshal(e.Value, &v); err != nil {
		return zero, false
	}
	return v, true
}
