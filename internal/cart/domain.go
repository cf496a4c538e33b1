// internal/cart/domain.go
package cart

import (
	"math"

	"storefront/internal/catalog"
	"storefront/internal/money"
)

// Line is one product's quantity entry. Product fields are copied at the time of the first add.
type Line struct {
	ID       int          `json:"id"`
	Name     string       `json:"name"`
	Price    money.Amount `json:"price"`
	Category string       `json:"category"`
	ImageURL string       `json:"imageUrl"`
	Quantity int          `json:"quantity"`
}

// Cart is ordered by first add. It holds at most one Line per ID, each with Quantity >= 1.
type Cart []Line

// NewLine copies the product fields into a line of quantity 1.
func NewLine(p catalog.Product) Line {
	return Line{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Category: p.Category,
		ImageURL: p.ImageURL,
		Quantity: 1,
	}
}

// Index returns the position of the line with id, or -1.
func (c Cart) Index(id int) int {
	for i, l := range c {
		if l.ID == id {
			return i
		}
	}
	return -1
}

// Clone returns an independent copy. A nil or empty cart clones to an empty, non-nil cart.
func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	copy(out, c)
	return out
}

// Quantity returns the quantity for id, or 0 when absent.
func (c Cart) Quantity(id int) int {
	if i := c.Index(id); i >= 0 {
		return c[i].Quantity
	}
	return 0
}

// Sum returns the subtotal and item count, or money.ErrOverflow when either does not fit.
// A cart whose Sum fits also has a grand total that fits, since shipping is only charged on
// subtotals at or under the free-shipping threshold.
func (c Cart) Sum() (money.Amount, int, error) {
	var subtotal money.Amount
	items := 0
	for _, l := range c {
		line, err := l.Price.Mul(l.Quantity)
		if err != nil {
			return 0, 0, err
		}
		if subtotal, err = subtotal.Add(line); err != nil {
			return 0, 0, err
		}
		if l.Quantity > math.MaxInt-items {
			return 0, 0, money.ErrOverflow
		}
		items += l.Quantity
	}
	return subtotal, items, nil
}

// maxQuantity returns the largest quantity line i can hold while Sum still fits.
// c without line i must already fit.
func (c Cart) maxQuantity(i int) int {
	others := make(Cart, 0, len(c)-1)
	others = append(others, c[:i]...)
	others = append(others, c[i+1:]...)
	subtotal, items, err := others.Sum()
	if err != nil {
		return 0
	}

	limit := math.MaxInt - items
	if price := c[i].Price.Minor(); price > 0 {
		if byPrice := (math.MaxInt64 - subtotal.Minor()) / price; byPrice < int64(limit) {
			limit = int(byPrice)
		}
	}
	return limit
}
