package kvstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/imtaco/meet-embed/internal/errors"
	"github.com/imtaco/meet-embed/internal/etcd"
	"github.com/imtaco/meet-embed/internal/log"
)

type etcdStore struct {
	client etcd.KV
	prefix string
	logger *log.Logger
}

// NewEtcd stores each key at <prefix>/kv/<key>.
func NewEtcd(client etcd.KV, prefix string, logger *log.Logger) Store {
	return &etcdStore{
		client: client,
		prefix: strings.TrimSuffix(prefix, "/"),
		logger: logger,
	}
}

func (e *etcdStore) itemKey(key string) string {
	return e.prefix + "/kv/" + key
}

func (e *etcdStore) GetItem(ctx context.Context, key string) (string, error) {
	resp, err := e.client.Get(ctx, e.itemKey(key))
	if err != nil {
		return "", fmt.Errorf("failed to get %s: %w", key, err)
	}
	if len(resp.Kvs) == 0 {
		return "", ErrKeyNotFound
	}
	return string(resp.Kvs[0].Value), nil
}

func (e *etcdStore) SetItem(ctx context.Context, key, value string) error {
	if _, err := e.client.Put(ctx, e.itemKey(key), value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (e *etcdStore) RemoveItem(ctx context.Context, key string) error {
	if _, err := e.client.Delete(ctx, e.itemKey(key)); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// MultiGet reads keys one by one; each read sees the latest revision at its own time.
func (e *etcdStore) MultiGet(ctx context.Context, keys ...string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		v, err := e.GetItem(ctx, k)
		if errors.Is(err, ErrKeyNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}
