package cache

import (
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestCache(ttl time.Duration) (*TTLCache[string, int], *fakeClock) {
	clk := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewTTL[string, int](ttl)
	c.now = clk.now
	return c, clk
}

func TestGetSetExpiry(t *testing.T) {
	c, clk := newTestCache(time.Minute)

	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Set("a", 1)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	clk.advance(59 * time.Second)
	_, ok = c.Get("a")
	assert.True(t, ok)

	clk.advance(time.Second)
	_, ok = c.Get("a")
	assert.False(t, ok, "entries expire exactly at ttl")
	assert.Zero(t, c.Len(), "expired entry is dropped on read")
}

func TestSetRefreshesExpiry(t *testing.T) {
	c, clk := newTestCache(time.Minute)
	c.Set("a", 1)
	clk.advance(50 * time.Second)
	c.Set("a", 2)
	clk.advance(50 * time.Second)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestGetOrLoad(t *testing.T) {
	c, clk := newTestCache(time.Minute)
	calls := 0
	load := func() (int, error) {
		calls++
		return 42, nil
	}

	v, hit, err := c.GetOrLoad("k", load)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 42, v)

	v, hit, err = c.GetOrLoad("k", load)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 42, v)
	assert.Equal(t, 1, calls)

	clk.advance(time.Minute)
	_, hit, err = c.GetOrLoad("k", load)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, calls)
}

func TestGetOrLoad_ErrorsAreNotCached(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	boom := errors.New("upstream down")

	_, _, err := c.GetOrLoad("k", func() (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, c.Len())

	v, hit, err := c.GetOrLoad("k", func() (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 7, v)
}

func TestPurge(t *testing.T) {
	c, clk := newTestCache(time.Minute)
	c.Set("old1", 1)
	c.Set("old2", 2)
	clk.advance(30 * time.Second)
	c.Set("new", 3)
	clk.advance(30 * time.Second)

	assert.Equal(t, 2, c.Purge())
	assert.Equal(t, 1, c.Len())
	_, ok := c.Get("new")
	assert.True(t, ok)
}

func TestSet_SweepsExpiredKeys(t *testing.T) {
	c, clk := newTestCache(time.Minute)
	for i := 0; i < 1000; i++ {
		c.Set(strconv.Itoa(i), i)
	}
	require.Equal(t, 1000, c.Len())

	clk.advance(2 * time.Minute)
	c.Set("fresh", 1)
	assert.Equal(t, 1, c.Len(), "keys never read again are still evicted")
}

func TestSet_SweepKeepsLiveEntries(t *testing.T) {
	c, clk := newTestCache(time.Minute)
	c.Set("a", 1)
	clk.advance(30 * time.Second)
	c.Set("b", 2)
	assert.Equal(t, 2, c.Len())

	clk.advance(40 * time.Second)
	c.Set("c", 3)
	assert.Equal(t, 2, c.Len())
	_, ok := c.Get("b")
	assert.True(t, ok)
}

func TestConcurrentAccess(t *testing.T) {
	c := NewTTL[int, int](time.Millisecond)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				c.Set(j%10, i)
				c.Get(j % 10)
				if j%50 == 0 {
					c.Purge()
				}
			}
		}(i)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 10)
}
