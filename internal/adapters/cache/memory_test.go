package cache_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"anjia-property-service/internal/adapters/cache"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func TestMemoryCache_GetSetExpiry(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	c := cache.NewMemoryCache(clock.Now)

	c.Set(ctx, "property:1", []byte(`{"id":"1"}`), 10*time.Minute)

	got, ok := c.Get(ctx, "property:1")
	assert.True(t, ok)
	assert.Equal(t, `{"id":"1"}`, string(got))

	clock.Advance(10*time.Minute - time.Second)
	_, ok = c.Get(ctx, "property:1")
	assert.True(t, ok)

	clock.Advance(time.Second)
	_, ok = c.Get(ctx, "property:1")
	assert.False(t, ok, "entry expires exactly at its TTL")
	assert.Equal(t, 0, c.Len(), "expired entry is dropped on read")
}

func TestMemoryCache_IndependentTTLs(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	c := cache.NewMemoryCache(clock.Now)

	c.Set(ctx, "property:1", []byte("item"), 10*time.Minute)
	c.Set(ctx, "listing:a", []byte("list"), 5*time.Minute)

	clock.Advance(6 * time.Minute)

	_, itemOK := c.Get(ctx, "property:1")
	_, listOK := c.Get(ctx, "listing:a")
	assert.True(t, itemOK)
	assert.False(t, listOK)
}

func TestMemoryCache_StoresACopy(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemoryCache(nil)

	value := []byte("abc")
	c.Set(ctx, "k", value, time.Minute)
	value[0] = 'x'

	got, ok := c.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, "abc", string(got))
}

func TestMemoryCache_NonPositiveTTLIsIgnored(t *testing.T) {
	c := cache.NewMemoryCache(nil)
	c.Set(context.Background(), "k", []byte("v"), 0)
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCache_DeletePrefix(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemoryCache(nil)

	c.Set(ctx, "property:1", []byte("1"), time.Minute)
	c.Set(ctx, "property:12", []byte("12"), time.Minute)
	c.Set(ctx, "listing:x", []byte("x"), time.Minute)
	c.Set(ctx, "listing:y", []byte("y"), time.Minute)

	assert.Equal(t, 2, c.DeletePrefix(ctx, "listing:"))
	assert.Equal(t, 2, c.Len())

	assert.Equal(t, 2, c.DeletePrefix(ctx, ""))
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCache_DeleteIsExact(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemoryCache(nil)

	c.Set(ctx, "property:1", []byte("1"), time.Minute)
	c.Set(ctx, "property:12", []byte("12"), time.Minute)

	assert.True(t, c.Delete(ctx, "property:1"))
	assert.False(t, c.Delete(ctx, "property:1"))
	_, ok := c.Get(ctx, "property:12")
	assert.True(t, ok)
}

func TestMemoryCache_Sweep(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	c := cache.NewMemoryCache(clock.Now)

	c.Set(ctx, "short", []byte("s"), time.Minute)
	c.Set(ctx, "long", []byte("l"), time.Hour)
	clock.Advance(2 * time.Minute)

	assert.Equal(t, 1, c.Sweep())
	assert.Equal(t, 1, c.Len())
}

func TestMemoryCache_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemoryCache(nil)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := "k"
			if i%2 == 0 {
				c.Set(ctx, key, []byte("v"), time.Minute)
			} else {
				c.Get(ctx, key)
			}
			c.DeletePrefix(ctx, "none:")
		}(i)
	}
	wg.Wait()

	_, ok := c.Get(ctx, "k")
	assert.True(t, ok)
}
