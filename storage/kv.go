// Package storage provides the string key/value store the cache layer
// persists into. Implementations serialize their own internal access;
// callers must not assume atomicity across keys.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when a key has no value.
var ErrNotFound = errors.New("storage: key not found")

// KVStore is an asynchronous string-keyed, string-valued store.
type KVStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	MultiRemove(ctx context.Context, keys []string) error
	GetAllKeys(ctx context.Context) ([]string, error)
}
