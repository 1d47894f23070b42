package storage

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by KV.Get when the key holds no value.
var ErrKeyNotFound = errors.New("key not found")

// KV is the durable key-value capability the history store persists into.
// Deleting an absent key is not an error.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
