package cache_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/matchmaker/internal/cache"
)

func setupCache(t *testing.T) (*cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	return &cache.RedisCache{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}, mr
}

func TestLikeCountMissThenHit(t *testing.T) {
	ctx := context.Background()
	rc, _ := setupCache(t)

	count, hit, err := rc.GetLikeCount(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, int64(0), count)

	require.NoError(t, rc.SetLikeCount(ctx, "user-1", 5))

	count, hit, err = rc.GetLikeCount(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, int64(5), count)
}

func TestSetLikeCountAppliesTTL(t *testing.T) {
	ctx := context.Background()
	rc, mr := setupCache(t)

	require.NoError(t, rc.SetLikeCount(ctx, "user-1", 3))
	assert.Equal(t, cache.LikeCountTTL, mr.TTL(rc.KeyForLikeCount("user-1")))

	// expiry drops the key back to a miss
	mr.FastForward(cache.LikeCountTTL)
	_, hit, err := rc.GetLikeCount(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestGetLikeCountRefreshesTTL(t *testing.T) {
	ctx := context.Background()
	rc, mr := setupCache(t)

	require.NoError(t, rc.SetLikeCount(ctx, "user-1", 3))
	mr.FastForward(cache.LikeCountTTL / 2)

	_, hit, err := rc.GetLikeCount(ctx, "user-1")
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, cache.LikeCountTTL, mr.TTL(rc.KeyForLikeCount("user-1")))
}

func TestIncrLikeCountOnlyWhenWarm(t *testing.T) {
	ctx := context.Background()
	rc, _ := setupCache(t)

	// cold counter: the increment is skipped, not initialized to 1
	require.NoError(t, rc.IncrLikeCount(ctx, "user-1"))
	_, hit, err := rc.GetLikeCount(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, rc.SetLikeCount(ctx, "user-1", 2))
	require.NoError(t, rc.IncrLikeCount(ctx, "user-1"))

	count, hit, err := rc.GetLikeCount(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, int64(3), count)
}
