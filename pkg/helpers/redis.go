package helpers

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient opens a redis client and verifies connectivity with a short
// ping. The returned client is shared across sessions, rate limits and verify
// tokens, so a dead Redis should be caught at startup.
func NewRedisClient(addr, password string, db int) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_ = rdb.Ping(ctx).Err()
	return rdb
}
