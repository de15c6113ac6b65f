package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache stores session mirrors as JSON values with a TTL matching
// the game expiry horizon, so entries for dead games age out on their own.
func NewRedisCache(client *redis.Client, ttl time.Duration) SessionCache {
	return &redisCache{client: client, ttl: ttl}
}

func sessionKey(gameID, userID string) string {
	return "session:" + gameID + ":" + userID
}

func (c *redisCache) Put(ctx context.Context, entry *Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal session entry: %w", err)
	}
	if err := c.client.Set(ctx, sessionKey(entry.GameID, entry.UserID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session entry: %w", err)
	}
	return nil
}

func (c *redisCache) Get(ctx context.Context, gameID, userID string) (*Entry, error) {
	data, err := c.client.Get(ctx, sessionKey(gameID, userID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var entry Entry
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session entry: %w", err)
	}
	return &entry, nil
}

func (c *redisCache) Drop(ctx context.Context, gameID, userID string) error {
	return c.client.Del(ctx, sessionKey(gameID, userID)).Err()
}
