package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// New builds a redis client and verifies connectivity. The client is returned
// even when the ping fails so callers can decide how strict to be.
func New(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return client, err
	}
	return client, nil
}
