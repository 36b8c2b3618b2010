package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_SetAndGet(t *testing.T) {
	c := New()
	c.Set("cities:all", []string{"Musterstadt"}, time.Minute)

	value, ok := c.Get("cities:all")
	require.True(t, ok)
	assert.Equal(t, []string{"Musterstadt"}, value)
}

func TestCache_MissOnUnknownKey(t *testing.T) {
	c := New()
	_, ok := c.Get("nope")
	assert.False(t, ok)
}

func TestCache_ExpiredEntryIsMissAndEvicted(t *testing.T) {
	c := New()
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Set("k", "v", 100*time.Millisecond)

	// Still fresh just before the TTL.
	now = now.Add(90 * time.Millisecond)
	_, ok := c.Get("k")
	assert.True(t, ok)

	// Past the TTL the read is a miss and removes the entry.
	now = now.Add(60 * time.Millisecond)
	_, ok = c.Get("k")
	assert.False(t, ok)
	assert.Zero(t, c.Len())
}

func TestCache_EntriesCarryTheirOwnTTL(t *testing.T) {
	c := New()
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Set("short", 1, 50*time.Millisecond)
	c.Set("long", 2, time.Hour)

	now = now.Add(time.Second)
	_, ok := c.Get("short")
	assert.False(t, ok)
	_, ok = c.Get("long")
	assert.True(t, ok)
}

func TestCache_Invalidate(t *testing.T) {
	c := New()
	c.Set("customers:all", "x", time.Hour)
	c.Invalidate("customers:all")

	_, ok := c.Get("customers:all")
	assert.False(t, ok)
}

func TestCache_InvalidatePattern(t *testing.T) {
	c := New()
	c.Set("streets:", "all", time.Hour)
	c.Set("streets:1", "area one", time.Hour)
	c.Set("streets:2", "area two", time.Hour)
	c.Set("cities:all", "keep", time.Hour)

	c.InvalidatePattern("streets:")

	_, ok := c.Get("streets:1")
	assert.False(t, ok)
	_, ok = c.Get("cities:all")
	assert.True(t, ok)
	assert.Equal(t, 1, c.Len())
}

func TestCache_SetOverwrites(t *testing.T) {
	c := New()
	c.Set("k", "old", time.Hour)
	c.Set("k", "new", time.Hour)

	value, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "new", value)
}
