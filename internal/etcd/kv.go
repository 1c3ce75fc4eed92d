package etcd

import (
	"context"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"
)

// NewKV bounds each call on kv by timeout; timeout <= 0 returns kv as is.
func NewKV(kv KV, timeout time.Duration) KV {
	if timeout <= 0 {
		return kv
	}
	return &timeoutKV{kv: kv, timeout: timeout}
}

type timeoutKV struct {
	kv      KV
	timeout time.Duration
}

func (t *timeoutKV) Get(ctx context.Context, key string, opts ...clientv3.OpOption) (*clientv3.GetResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.kv.Get(ctx, key, opts...)
}

func (t *timeoutKV) Put(ctx context.Context, key, val string, opts ...clientv3.OpOption) (*clientv3.PutResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.kv.Put(ctx, key, val, opts...)
}

func (t *timeoutKV) Delete(ctx context.Context, key string, opts ...clientv3.OpOption) (*clientv3.DeleteResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.kv.Delete(ctx, key, opts...)
}
