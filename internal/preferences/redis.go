package preferences

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps one hash per user; each field holds a JSON-encoded scalar.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) userKey(userID string) string {
	return s.prefix + userID
}

func (s *RedisStore) Get(ctx context.Context, userID, key string) (interface{}, bool, error) {
	raw, err := s.client.HGet(ctx, s.userKey(userID), key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis hget %s: %w", key, err)
	}
	return decodeValue(raw), true, nil
}

func (s *RedisStore) Set(ctx context.Context, userID, key string, value interface{}) error {
	if err := validateKey(userID, key); err != nil {
		return err
	}
	raw, err := encodeValue(value)
	if err != nil {
		return err
	}
	if err := s.client.HSet(ctx, s.userKey(userID), key, raw).Err(); err != nil {
		return fmt.Errorf("redis hset %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
