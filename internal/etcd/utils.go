package etcd

import (
	"context"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"
)

const (
	defaultPingTimeout = 3 * time.Second
	pingKey            = "/health"
)

// Ping issues a count-only read; etcd answers it even when the key is absent.
func Ping(ctx context.Context, kv KV) error {
	ctx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()
	_, err := kv.Get(ctx, pingKey, clientv3.WithCountOnly())
	return err
}
