// internal/cart/codec.go
package cart

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrCorrupt reports a persisted cart that cannot be restored.
var ErrCorrupt = errors.New("cart: corrupt persisted data")

// Encode serializes the cart as a JSON array of lines. An empty cart encodes as [].
func Encode(c Cart) ([]byte, error) {
	if c == nil {
		c = Cart{}
	}
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cart: %w", err)
	}
	return data, nil
}

// Decode parses data produced by Encode. Unknown fields are ignored; anything that would
// violate the cart invariants is ErrCorrupt.
func Decode(data []byte) (Cart, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty value", ErrCorrupt)
	}
	if bytes.Equal(trimmed, []byte("null")) {
		return Cart{}, nil
	}
	if trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: not an array", ErrCorrupt)
	}

	var c Cart
	if err := json.Unmarshal(trimmed, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	seen := make(map[int]bool, len(c))
	for i, l := range c {
		if l.Quantity < 1 {
			return nil, fmt.Errorf("%w: line %d has quantity %d", ErrCorrupt, i, l.Quantity)
		}
		if l.Price < 0 {
			return nil, fmt.Errorf("%w: line %d has a negative price", ErrCorrupt, i)
		}
		if seen[l.ID] {
			return nil, fmt.Errorf("%w: duplicate line for product %d", ErrCorrupt, l.ID)
		}
		seen[l.ID] = true
	}
	if _, _, err := c.Sum(); err != nil {
		return nil, fmt.Errorf("%w: totals do not fit: %v", ErrCorrupt, err)
	}
	if c == nil {
		c = Cart{}
	}
	return c, nil
}
