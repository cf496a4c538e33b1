// internal/cart/repository.go
package cart

import (
	"context"
	"fmt"

	"storefront/internal/storage"
)

// Repository loads and saves the whole cart.
type Repository interface {
	// Load returns ok=false when nothing has been persisted yet.
	Load(ctx context.Context) (c Cart, ok bool, err error)
	Save(ctx context.Context, c Cart) error
}

// KVRepository keeps the encoded cart under a single storage key.
type KVRepository struct {
	store storage.Store
	key   string
}

func NewKVRepository(store storage.Store, key string) *KVRepository {
	return &KVRepository{store: store, key: key}
}

func (r *KVRepository) Load(ctx context.Context) (Cart, bool, error) {
	value, ok, err := r.store.Get(ctx, r.key)
	if err != nil {
		return nil, false, fmt.Errorf("load cart: %w", err)
	}
	if !ok {
		return nil, false, nil
	}
	c, err := Decode([]byte(value))
	if err != nil {
		return nil, false, fmt.Errorf("load cart: %w", err)
	}
	return c, true, nil
}

func (r *KVRepository) Save(ctx context.Context, c Cart) error {
	data, err := Encode(c)
	if err != nil {
		return err
	}
	if err := r.store.Set(ctx, r.key, string(data)); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}
