package infra

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/Vovarama1992/newsroom/internal/ports"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisCacheFromClient(rdb, "newsroom:"), mr
}

func exerciseCache(t *testing.T, c ports.Cache) {
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "articles:list:1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "articles:list:1", []byte("one"), time.Minute))
	require.NoError(t, c.Set(ctx, "articles:list:2", []byte("two"), time.Minute))
	require.NoError(t, c.Set(ctx, "categories:all", []byte("cats"), time.Minute))

	v, ok, err := c.Get(ctx, "articles:list:1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "one", string(v))

	require.NoError(t, c.DeletePattern(ctx, "articles:*"))

	_, ok, _ = c.Get(ctx, "articles:list:1")
	assert.False(t, ok)
	_, ok, _ = c.Get(ctx, "articles:list:2")
	assert.False(t, ok)
	_, ok, _ = c.Get(ctx, "categories:all")
	assert.True(t, ok)
}

func TestMemoryCache(t *testing.T) {
	exerciseCache(t, NewMemoryCache())
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(context.Background(), "k", []byte("v"), 10*time.Second))
	_, ok, _ := c.Get(context.Background(), "k")
	assert.True(t, ok)

	now = now.Add(10 * time.Second)
	_, ok, _ = c.Get(context.Background(), "k")
	assert.False(t, ok)
}

func TestRedisCache(t *testing.T) {
	c, _ := newTestRedisCache(t)
	exerciseCache(t, c)
}

func TestRedisCache_TTLAndPrefix(t *testing.T) {
	c, mr := newTestRedisCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "unread:u1", []byte("3"), 10*time.Second))
	assert.True(t, mr.Exists("newsroom:unread:u1"))

	mr.FastForward(11 * time.Second)
	_, ok, err := c.Get(ctx, "unread:u1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCache_DeletePatternManyKeys(t *testing.T) {
	c, mr := newTestRedisCache(t)
	ctx := context.Background()

	for i := 0; i < 450; i++ {
		require.NoError(t, c.Set(ctx, "articles:"+strconv.Itoa(i), []byte("x"), time.Minute))
	}
	require.NoError(t, c.Set(ctx, "other", []byte("x"), time.Minute))

	require.NoError(t, c.DeletePattern(ctx, "articles:*"))
	assert.Len(t, mr.Keys(), 1)
}
