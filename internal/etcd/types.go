package etcd

import (
	"context"

	clientv3 "go.etcd.io/etcd/client/v3"
)

//go:generate mockgen -source=types.go -destination=mocks/mock_kv.go -package=mocks

// KV is the subset of the etcd client used by the key-value store backend.
type KV interface {
	Get(ctx context.Context, key string, opts ...clientv3.OpOption) (*clientv3.GetResponse, error)
	Put(ctx context.Context, key, val string, opts ...clientv3.OpOption) (*clientv3.PutResponse, error)
	Delete(ctx context.Context, key string, opts ...clientv3.OpOption) (*clientv3.DeleteResponse, error)
}
