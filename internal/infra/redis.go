package infra

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// NewRedis opens the client from a redis:// URL and pings it once so a bad
// address fails at startup rather than on the first enqueued job.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return rdb, nil
}
