package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheSetGet(t *testing.T) {
	c := NewCache(time.Minute)

	c.Set("key", []byte("payload"))

	got, found := c.Get("key")
	assert.True(t, found)
	assert.Equal(t, []byte("payload"), got)

	_, found = c.Get("absent")
	assert.False(t, found)
}

func TestCacheExpiry(t *testing.T) {
	c := NewCache(10 * time.Millisecond)

	c.Set("key", []byte("payload"))
	time.Sleep(20 * time.Millisecond)

	_, found := c.Get("key")
	assert.False(t, found)
}

func TestCacheClearAndSize(t *testing.T) {
	c := NewCache(time.Minute)

	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))
	assert.Equal(t, 2, c.Size())

	c.Clear()
	assert.Equal(t, 0, c.Size())
}

func TestCacheKeyIsDeterministic(t *testing.T) {
	c := NewCache(time.Minute)

	k1 := c.generateKey([]byte(`{"department":"eng"}`))
	k2 := c.generateKey([]byte(`{"department":"eng"}`))
	k3 := c.generateKey([]byte(`{"department":"ops"}`))

	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
}

func TestCacheStats(t *testing.T) {
	c := NewCache(time.Minute)
	c.Set("a", []byte("1"))

	stats := c.Stats()
	assert.Equal(t, 1, stats["total_items"])
	assert.Equal(t, 60.0, stats["ttl_seconds"])
}
