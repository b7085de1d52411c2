package database

import (
	"errors"
	"time"

	"orianna-agent/internal/common/config"

	"github.com/redis/go-redis/v9"
)

var ErrNoRedisAddress = errors.New("REDIS_ADDRESS_EMPTY")

// OpenRedis builds a pooled client. It does not dial; callers ping through their store.
func OpenRedis(cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Address == "" {
		return nil, ErrNoRedisAddress
	}
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
		PoolSize:     4,
	}), nil
}
