package kvstore

import (
	"context"

	"github.com/imtaco/meet-embed/internal/sync"
)

type memStore struct {
	data *sync.Map[string, string]
}

// NewMemory returns a process-local store, used by tests and single-process hosts.
func NewMemory() Store {
	return &memStore{data: sync.NewMap[string, string]()}
}

func (m *memStore) GetItem(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	v, ok := m.data.Load(key)
	if !ok {
		return "", ErrKeyNotFound
	}
	return v, nil
}

func (m *memStore) SetItem(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.data.Store(key, value)
	return nil
}

func (m *memStore) RemoveItem(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.data.Delete(key)
	return nil
}

func (m *memStore) MultiGet(ctx context.Context, keys ...string) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if v, ok := m.data.Load(k); ok {
			out[k] = v
		}
	}
	return out, nil
}
