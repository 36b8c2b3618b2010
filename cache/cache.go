package cache

import (
	"strings"
	"sync"
	"time"
)

// Reference-data TTLs. Mutating handlers invalidate explicitly; expiry is
// only the backstop for forgotten invalidations.
const (
	TTLCities    = 300 * time.Second
	TTLTemplates = 300 * time.Second
	TTLPrices    = 120 * time.Second
	TTLCustomers = 60 * time.Second
	TTLStreets   = 30 * time.Second
)

type entry struct {
	value    interface{}
	storedAt time.Time
	ttl      time.Duration
}

// Cache is an expiring in-process key-value store for reference data.
// Expired entries are evicted lazily on Get; there is no background sweep.
// Construct one in main and pass it to every handler that needs it.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

func New() *Cache {
	return &Cache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the cached value for key. An entry older than its own TTL is
// a miss and gets removed.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.storedAt) > e.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

func (c *Cache) Set(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: value, storedAt: c.now(), ttl: ttl}
}

func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// InvalidatePattern removes every entry whose key contains the substring,
// e.g. "streets:" after any street mutation.
func (c *Cache) InvalidatePattern(substring string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if strings.Contains(key, substring) {
			delete(c.entries, key)
		}
	}
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
