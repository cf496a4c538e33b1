// Package totals derives the order figures shown next to the cart. Nothing here is stored;
// every value is recomputed from the cart on each read.
package totals

import (
	"errors"
	"fmt"
	"math"

	"storefront/internal/cart"
	"storefront/internal/money"
)

// ErrOverflow is returned when a line or sum does not fit in an int64 of paise.
var ErrOverflow = fmt.Errorf("totals: %w", money.ErrOverflow)

var (
	// FreeShippingThreshold is the subtotal that must be exceeded for shipping to be free.
	FreeShippingThreshold = money.FromMajor(500)
	// FlatShippingFee applies to every order at or under the threshold, including an empty cart.
	FlatShippingFee = money.FromMajor(50)
)

type Totals struct {
	Subtotal    money.Amount `json:"subtotal"`
	ShippingFee money.Amount `json:"shipping_fee"`
	GrandTotal  money.Amount `json:"grand_total"`
	ItemCount   int          `json:"item_count"`
}

// FreeShipping reports whether the shipping line should read "FREE".
func (t Totals) FreeShipping() bool {
	return t.ShippingFee == 0
}

// Compute sums the cart.
func Compute(c cart.Cart) (Totals, error) {
	var t Totals
	for _, l := range c {
		line, err := l.Price.Mul(l.Quantity)
		if err != nil {
			return Totals{}, overflow(err, l.ID)
		}
		if t.Subtotal, err = t.Subtotal.Add(line); err != nil {
			return Totals{}, overflow(err, l.ID)
		}
		if l.Quantity > math.MaxInt-t.ItemCount {
			return Totals{}, fmt.Errorf("%w: item count at product %d", ErrOverflow, l.ID)
		}
		t.ItemCount += l.Quantity
	}

	t.ShippingFee = ShippingFee(t.Subtotal)
	grand, err := t.Subtotal.Add(t.ShippingFee)
	if err != nil {
		return Totals{}, ErrOverflow
	}
	t.GrandTotal = grand
	return t, nil
}

// ShippingFee applies the flat-fee policy to a subtotal.
func ShippingFee(subtotal money.Amount) money.Amount {
	if subtotal > FreeShippingThreshold {
		return 0
	}
	return FlatShippingFee
}

func overflow(err error, id int) error {
	if errors.Is(err, money.ErrOverflow) {
		return fmt.Errorf("%w at product %d", ErrOverflow, id)
	}
	return err
}
