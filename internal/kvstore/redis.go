package kvstore

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/imtaco/meet-embed/internal/log"
	"github.com/imtaco/meet-embed/internal/redis"
)

// redisStore keeps every key as a field of one hash so a prefix owns a single redis key.
type redisStore struct {
	client goredis.Cmdable
	prefix string
	logger *log.Logger
}

func NewRedis(client goredis.Cmdable, prefix string, logger *log.Logger) Store {
	return &redisStore{
		client: client,
		prefix: prefix,
		logger: logger,
	}
}

func (r *redisStore) hashKey() string {
	return r.prefix + ":kv"
}

func (r *redisStore) GetItem(ctx context.Context, key string) (string, error) {
	v, err := r.client.HGet(ctx, r.hashKey(), key).Result()
	if redis.IsNil(err) {
		return "", ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get %s: %w", key, err)
	}
	return v, nil
}

func (r *redisStore) SetItem(ctx context.Context, key, value string) error {
	if err := r.client.HSet(ctx, r.hashKey(), key, value).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (r *redisStore) RemoveItem(ctx context.Context, key string) error {
	if err := r.client.HDel(ctx, r.hashKey(), key).Err(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (r *redisStore) MultiGet(ctx context.Context, keys ...string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	vals, err := r.client.HMGet(ctx, r.hashKey(), keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get keys: %w", err)
	}
	for i, v := range vals {
		switch s := v.(type) {
		case nil:
		case string:
			out[keys[i]] = s
		default:
			r.logger.Warn("unexpected hash value type",
				log.String("key", keys[i]),
				log.Any("value", v))
		}
	}
	return out, nil
}
