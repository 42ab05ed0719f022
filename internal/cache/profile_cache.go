package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// ProfileCacheTTL is short on purpose: profiles are immutable today, but
// a stale entry must not outlive a future account change for long.
const ProfileCacheTTL = 5 * time.Minute

type ProfileCache struct {
	client *redis.Client
}

func NewProfileCache(client *redis.Client) *ProfileCache {
	return &ProfileCache{client: client}
}

// Get returns the cached profile bytes, or nil on a cache miss.
func (c *ProfileCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil // Cache miss
	}
	if err != nil {
		return nil, err
	}
	return []byte(val), nil
}

// Set stores a profile with TTL.
func (c *ProfileCache) Set(ctx context.Context, key string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, jsonData, ProfileCacheTTL).Err()
}

// Build cache key for a user profile
func ProfileKey(userID int) string {
	return fmt.Sprintf("profile:user:%d", userID)
}
