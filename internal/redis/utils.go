package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultPingTimeout = 3 * time.Second
)

// IsNil reports whether err is the redis "no such key" reply.
func IsNil(err error) bool {
	return err == redis.Nil
}

func Ping(ctx context.Context, client redis.Cmdable) error {
	ctx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()
	return client.Ping(ctx).Err()
}
