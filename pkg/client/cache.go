package client

import (
	"encoding/json"
	"sync"
	"time"
)

// Cache is a namespaced in-memory store of JSON-encoded entries with
// per-entry absolute expiry. Entries survive only for the process lifetime.
type Cache struct {
	namespace string

	mu      sync.Mutex
	entries map[string]string
	now     func() time.Time
}

// cacheEntry is the stored JSON envelope.
type cacheEntry struct {
	Data      json.RawMessage `json:"data"`
	Expiry    int64           `json:"expiry"`
	Timestamp int64           `json:"timestamp"`
}

// NewCache creates an empty cache under the given namespace.
func NewCache(namespace string) *Cache {
	return &Cache{
		namespace: namespace,
		entries:   make(map[string]string),
		now:       time.Now,
	}
}

func (c *Cache) fullKey(key string) string {
	return c.namespace + ":" + key
}

// Get unmarshals a live entry into dest. It returns false when the key is
// absent, expired or malformed; expired and malformed entries are evicted.
func (c *Cache) Get(key string, dest any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	raw, ok := c.entries[c.fullKey(key)]
	if !ok {
		return false
	}

	var entry cacheEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		delete(c.entries, c.fullKey(key))
		return false
	}
	if c.now().UnixMilli() > entry.Expiry {
		delete(c.entries, c.fullKey(key))
		return false
	}
	if err := json.Unmarshal(entry.Data, dest); err != nil {
		delete(c.entries, c.fullKey(key))
		return false
	}
	return true
}

// Set stores v with an absolute expiry of now + ttl.
func (c *Cache) Set(key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	now := c.now()
	raw, err := json.Marshal(cacheEntry{
		Data:      data,
		Expiry:    now.Add(ttl).UnixMilli(),
		Timestamp: now.UnixMilli(),
	})
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.entries[c.fullKey(key)] = string(raw)
	c.mu.Unlock()
	return nil
}

// Remove evicts one entry.
func (c *Cache) Remove(key string) {
	c.mu.Lock()
	delete(c.entries, c.fullKey(key))
	c.mu.Unlock()
}

// Clear evicts every entry under this cache's namespace.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]string)
	c.mu.Unlock()
}

// ClearExpired sweeps the namespace, evicting expired and malformed
// entries. It returns the number of evictions.
func (c *Cache) ClearExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	nowMs := c.now().UnixMilli()
	removed := 0
	for key, raw := range c.entries {
		var entry cacheEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil || nowMs > entry.Expiry {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// WithCache returns the cached value for key when live, otherwise invokes
// producer (which must write into dest) and stores the result with ttl.
func (c *Cache) WithCache(key string, dest any, ttl time.Duration, producer func() error) error {
	if c.Get(key, dest) {
		return nil
	}
	if err := producer(); err != nil {
		return err
	}
	return c.Set(key, dest, ttl)
}
