package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// LeaderboardCache handles Redis ZSET operations for per-session leaderboards
type LeaderboardCache interface {
	UpdateScore(ctx context.Context, pin, username string, score int) error
	GetTop(ctx context.Context, pin string, limit int) ([]LeaderboardEntry, error)
	Delete(ctx context.Context, pin string) error
}

// LeaderboardEntry represents a single leaderboard entry
type LeaderboardEntry struct {
	Username string `json:"username"`
	Score    int    `json:"score"`
	Rank     int    `json:"rank"`
}

type leaderboardCache struct {
	client *redis.Client
}

// NewLeaderboardCache creates a new leaderboard cache
func NewLeaderboardCache(client *redis.Client) LeaderboardCache {
	return &leaderboardCache{
		client: client,
	}
}

func (c *leaderboardCache) key(pin string) string {
	return fmt.Sprintf("session:%s:lb", pin)
}

func (c *leaderboardCache) UpdateScore(ctx context.Context, pin, username string, score int) error {
	return c.client.ZAdd(ctx, c.key(pin), redis.Z{
		Score:  float64(score),
		Member: username,
	}).Err()
}

func (c *leaderboardCache) GetTop(ctx context.Context, pin string, limit int) ([]LeaderboardEntry, error) {
	results, err := c.client.ZRevRangeWithScores(ctx, c.key(pin), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, len(results))
	for i, z := range results {
		entries[i] = LeaderboardEntry{
			Username: z.Member.(string),
			Score:    int(z.Score),
			Rank:     i + 1,
		}
	}
	return entries, nil
}

func (c *leaderboardCache) Delete(ctx context.Context, pin string) error {
	return c.client.Del(ctx, c.key(pin)).Err()
}
