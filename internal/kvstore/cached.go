package kvstore

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type cachedStore struct {
	Store
	cache *expirable.LRU[string, string]
}

// NewCached puts a read-through LRU in front of inner. Writes made through the
// returned Store refresh entries at once; writes by other processes become
// visible once the entry expires after ttl. Misses are never cached.
func NewCached(inner Store, size int, ttl time.Duration) (Store, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid cache size %d", size)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("invalid cache ttl %s", ttl)
	}
	cache := expirable.NewLRU[string, string](size, nil, ttl)
	return &cachedStore{Store: inner, cache: cache}, nil
}

func (c *cachedStore) GetItem(ctx context.Context, key string) (string, error) {
	if v, ok := c.cache.Get(key); ok {
		return v, nil
	}
	v, err := c.Store.GetItem(ctx, key)
	if err != nil {
		return "", err
	}
	c.cache.Add(key, v)
	return v, nil
}

func (c *cachedStore) SetItem(ctx context.Context, key, value string) error {
	if err := c.Store.SetItem(ctx, key, value); err != nil {
		c.cache.Remove(key)
		return err
	}
	c.cache.Add(key, value)
	return nil
}

func (c *cachedStore) RemoveItem(ctx context.Context, key string) error {
	c.cache.Remove(key)
	return c.Store.RemoveItem(ctx, key)
}

func (c *cachedStore) MultiGet(ctx context.Context, keys ...string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	var missing []string
	for _, k := range keys {
		if v, ok := c.cache.Get(k); ok {
			out[k] = v
		} else {
			missing = append(missing, k)
		}
	}
	if len(missing) == 0 {
		return out, nil
	}
	fetched, err := c.Store.MultiGet(ctx, missing...)
	if err != nil {
		return nil, err
	}
	for k, v := range fetched {
		c.cache.Add(k, v)
		out[k] = v
	}
	return out, nil
}
