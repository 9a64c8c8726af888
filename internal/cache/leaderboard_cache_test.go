package cache_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"wouldrather/internal/cache"
)

func makeCache(t *testing.T) cache.LeaderboardCache {
	t.Helper()

	rs := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: rs.Addr()})
	require.NoError(t, rc.Ping(context.Background()).Err(), "should be able to ping redis")

	return cache.NewLeaderboardCache(rc)
}

func TestLeaderboardCache(t *testing.T) {
	c := makeCache(t)
	ctx := context.Background()

	require.NoError(t, c.UpdateScore(ctx, "123456", "Alice", 67))
	require.NoError(t, c.UpdateScore(ctx, "123456", "Bob", 33))
	require.NoError(t, c.UpdateScore(ctx, "123456", "Carol", 100))
	// Other sessions are fully isolated.
	require.NoError(t, c.UpdateScore(ctx, "654321", "Mallory", 999))

	entries, err := c.GetTop(ctx, "123456", 20)
	require.NoError(t, err)
	require.Equal(t, []cache.LeaderboardEntry{
		{Username: "Carol", Score: 100, Rank: 1},
		{Username: "Alice", Score: 67, Rank: 2},
		{Username: "Bob", Score: 33, Rank: 3},
	}, entries)
}

func TestLeaderboardCacheUpdateOverwrites(t *testing.T) {
	c := makeCache(t)
	ctx := context.Background()

	require.NoError(t, c.UpdateScore(ctx, "123456", "Alice", 33))
	require.NoError(t, c.UpdateScore(ctx, "123456", "Alice", 133))

	entries, err := c.GetTop(ctx, "123456", 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, 133, entries[0].Score)
}

func TestLeaderboardCacheDelete(t *testing.T) {
	c := makeCache(t)
	ctx := context.Background()

	require.NoError(t, c.UpdateScore(ctx, "123456", "Alice", 67))
	require.NoError(t, c.Delete(ctx, "123456"))

	entries, err := c.GetTop(ctx, "123456", 20)
	require.NoError(t, err)
	require.Empty(t, entries)
}
