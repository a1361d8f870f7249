package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestMemoryCacheGetAssigns(t *testing.T) {
	c := NewMemoryCache()
	t.Cleanup(func() { _ = c.Close() })
	ctx := context.Background()

	in := &payload{Name: "nfp", Count: 3}
	require.NoError(t, c.Set(ctx, "p", in, time.Minute))

	var same *payload
	require.NoError(t, c.Get(ctx, "p", &same))
	assert.Same(t, in, same)

	var copied payload
	require.NoError(t, c.Get(ctx, "p", &copied))
	assert.Equal(t, *in, copied)

	assert.ErrorIs(t, c.Get(ctx, "missing", &copied), ErrCacheMiss)
	assert.Error(t, c.Get(ctx, "p", copied), "non-pointer destination")
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache()
	t.Cleanup(func() { _ = c.Close() })
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", 20*time.Millisecond))
	time.Sleep(40 * time.Millisecond)
	var s string
	assert.ErrorIs(t, c.Get(ctx, "k", &s), ErrCacheMiss)
}

func TestMemoryCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewMemoryCache(WithMemoryMaxSize(2))
	t.Cleanup(func() { _ = c.Close() })
	ctx := context.Background()
	var s string

	require.NoError(t, c.Set(ctx, "a", "1", 0))
	time.Sleep(2 * time.Millisecond)
	require.NoError(t, c.Set(ctx, "b", "2", 0))
	time.Sleep(2 * time.Millisecond)
	require.NoError(t, c.Get(ctx, "a", &s))
	require.NoError(t, c.Set(ctx, "c", "3", 0))

	assert.NoError(t, c.Get(ctx, "a", &s))
	assert.ErrorIs(t, c.Get(ctx, "b", &s), ErrCacheMiss)
	assert.NoError(t, c.Get(ctx, "c", &s))
}

func TestMemoryCacheLock(t *testing.T) {
	c := NewMemoryCache()
	t.Cleanup(func() { _ = c.Close() })
	ctx := context.Background()

	ok, err := c.TryLock(ctx, "run", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.TryLock(ctx, "run", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Unlock(ctx, "run"))
	ok, err = c.TryLock(ctx, "run", 10*time.Millisecond)
	require.NoError(t, err)
	assert.True(t, ok)

	time.Sleep(20 * time.Millisecond)
	ok, _ = c.TryLock(ctx, "run", time.Minute)
	assert.True(t, ok, "expired lock is free")
}

func TestGenerateKeyWithParams(t *testing.T) {
	assert.Equal(t, "calendar:query:42:USD|high", GenerateKeyWithParams("calendar:query", 42, "USD|high"))
	assert.Equal(t, "p", GenerateKeyWithParams("p"))
}
