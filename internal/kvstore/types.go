package kvstore

import (
	"context"

	"github.com/imtaco/meet-embed/internal/errors"
)

const ErrKeyNotFound errors.Code = "key not found"

//go:generate mockgen -source=types.go -destination=mocks/mock_store.go -package=mocks

// Store is a durable string-to-string store shared by writers and independent
// readers on fixed keys. There is no locking; the last writer wins.
type Store interface {
	// GetItem returns ErrKeyNotFound when key was never written or was removed.
	GetItem(ctx context.Context, key string) (string, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
	// MultiGet omits missing keys from the result. It is not a transactional read.
	MultiGet(ctx context.Context, keys ...string) (map[string]string, error)
}
