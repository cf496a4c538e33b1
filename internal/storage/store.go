// internal/storage/store.go
package storage

import (
	"context"
	"errors"
)

var (
	ErrClosed   = errors.New("storage: store closed")
	ErrInjected = errors.New("storage: injected fault")
)

// Store is a string-valued key-value store local to one shopper.
type Store interface {
	// Get returns the value for key; ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}
