package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func TestGetOrLoad_HitsBeforeTTL(t *testing.T) {
	clock := newClock()
	c := NewTTLCache[string, int](4, time.Minute, WithClock(clock.Now))

	calls := 0
	load := func() (int, error) {
		calls++
		return 42, nil
	}

	v, hit, err := c.GetOrLoad("k", load)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 42, v)

	clock.Advance(59 * time.Second)
	v, hit, err = c.GetOrLoad("k", load)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 42, v)
	assert.Equal(t, 1, calls)
}

func TestGetOrLoad_ReloadsExactlyOnceAfterTTL(t *testing.T) {
	clock := newClock()
	c := NewTTLCache[string, int](4, time.Minute, WithClock(clock.Now))

	calls := 0
	load := func() (int, error) {
		calls++
		return calls, nil
	}

	_, _, err := c.GetOrLoad("k", load)
	require.NoError(t, err)

	clock.Advance(time.Minute)
	v, hit, err := c.GetOrLoad("k", load)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, v)

	v, hit, err = c.GetOrLoad("k", load)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 2, v)
	assert.Equal(t, 2, calls)
}

func TestSet_EvictsOldestFetchedNotLeastRecentlyUsed(t *testing.T) {
	clock := newClock()
	c := NewTTLCache[string, string](2, time.Hour, WithClock(clock.Now))

	c.Set("a", "first")
	clock.Advance(time.Second)
	c.Set("b", "second")
	clock.Advance(time.Second)

	// reading "a" must not protect it
	_, ok := c.Get("a")
	require.True(t, ok)

	c.Set("c", "third")

	_, ok = c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("b")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
	assert.Equal(t, 2, c.Len())
}

func TestSet_OverwriteDoesNotEvict(t *testing.T) {
	c := NewTTLCache[string, int](1, time.Hour)
	c.Set("a", 1)
	c.Set("a", 2)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestGet_ExpiredEntryIsEvicted(t *testing.T) {
	clock := newClock()
	c := NewTTLCache[string, int](2, time.Second, WithClock(clock.Now))
	c.Set("a", 1)
	clock.Advance(2 * time.Second)

	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestGetOrLoad_ErrorIsNotCached(t *testing.T) {
	c := NewTTLCache[string, int](2, time.Hour)
	boom := errors.New("boom")

	_, _, err := c.GetOrLoad("k", func() (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())
}

func TestSetAt_ExpiresRelativeToFetchTime(t *testing.T) {
	clock := newClock()
	c := NewTTLCache[string, int](2, 10*time.Second, WithClock(clock.Now))

	c.SetAt("a", 1, clock.Now().Add(-9*time.Second))
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	clock.Advance(time.Second)
	_, ok = c.Get("a")
	assert.False(t, ok)
}

func TestSetAt_SkipsAlreadyExpiredValue(t *testing.T) {
	clock := newClock()
	c := NewTTLCache[string, int](2, 10*time.Second, WithClock(clock.Now))

	c.SetAt("a", 1, clock.Now().Add(-10*time.Second))
	assert.Equal(t, 0, c.Len())
}
