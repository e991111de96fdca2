package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheBasicOperations(t *testing.T) {
	c := New(5*time.Minute, 10*time.Minute)

	c.Set("tools:all", []string{"a"})
	v, ok := c.Get("tools:all")
	require.True(t, ok)
	assert.Equal(t, []string{"a"}, v)

	_, ok = c.Get("missing")
	assert.False(t, ok)

	c.Delete("tools:all")
	_, ok = c.Get("tools:all")
	assert.False(t, ok)

	stats := c.GetStats()
	assert.EqualValues(t, 1, stats.Hits)
	assert.EqualValues(t, 2, stats.Misses)
}

func TestCacheExpiration(t *testing.T) {
	c := New(5*time.Minute, time.Minute)
	c.SetWithTTL("short", 1, 20*time.Millisecond)
	c.Set("long", 2)

	time.Sleep(40 * time.Millisecond)

	_, ok := c.Get("short")
	assert.False(t, ok)
	_, ok = c.Get("long")
	assert.True(t, ok)
}

func TestCacheDeletePrefix(t *testing.T) {
	c := New(time.Minute, time.Minute)
	c.Set("tools:all", 1)
	c.Set("tools:count", 2)
	c.Set("guides:all", 3)

	assert.Equal(t, 2, c.DeletePrefix("tools:"))
	assert.Equal(t, 1, c.ItemCount())

	c.Clear()
	assert.Zero(t, c.ItemCount())
}

func TestTypedGet(t *testing.T) {
	c := New(time.Minute, time.Minute)
	c.Set("n", 42)

	n, ok := Get[int](c, "n")
	assert.True(t, ok)
	assert.Equal(t, 42, n)

	_, ok = Get[string](c, "n")
	assert.False(t, ok)

	_, ok = Get[int](c, "absent")
	assert.False(t, ok)
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := New(time.Minute, time.Minute)
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := range 50 {
				c.Set("k", n*j)
				c.Get("k")
				c.DeletePrefix("x")
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1, c.ItemCount())
}
