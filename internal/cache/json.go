package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is the subset of the Redis client the services use.
type Store interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

const (
	TokensKey     = "tokens:latest"
	newsKeyPrefix = "news:"
)

// NewsKey is the cache key of the article set for one news query.
func NewsKey(query string) string {
	return newsKeyPrefix + query
}

// SetJSON stores v as JSON under key.
func SetJSON(ctx context.Context, s Store, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Set(ctx, key, data, ttl).Err()
}

// GetJSON decodes the value under key into out. A missing key reports false
// with no error.
func GetJSON(ctx context.Context, s Store, key string, out any) (bool, error) {
	data, err := s.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, err
	}
	return true, nil
}
