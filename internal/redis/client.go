package redis

import (
	"context"
	"fmt"

	"ripple-chat/config"

	goredis "github.com/redis/go-redis/v9"
)

// NewClient builds a Redis client from config. Callers own the instance and
// pass it where needed; there is no package-level singleton.
func NewClient(cfg *config.Config) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

// Ping verifies the connection is alive.
func Ping(ctx context.Context, client *goredis.Client) error {
	return client.Ping(ctx).Err()
}
