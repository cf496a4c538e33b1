// internal/storefront/domain.go
package storefront

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/checkout"
	"storefront/internal/totals"
	"storefront/internal/view"
)

var (
	ErrCheckoutInactive = errors.New("checkout is not the active view")
	ErrEmptyCart        = errors.New("cart is empty")
)

// Receipt records a placed order. It is captured before the cart is cleared.
type Receipt struct {
	ID       uuid.UUID     `json:"id"`
	PlacedAt time.Time     `json:"placed_at"`
	Lines    cart.Cart     `json:"lines"`
	Totals   totals.Totals `json:"totals"`
	ShipTo   checkout.Form `json:"ship_to"`
}

// Snapshot is the read-only state handed to a renderer. Exactly one of the view
// parameter fields is set, matching View.
type Snapshot struct {
	View      view.View `json:"view"`
	ItemCount int       `json:"item_count"`

	Home         *HomeParams         `json:"home,omitempty"`
	Cart         *CartParams         `json:"cart,omitempty"`
	Checkout     *CheckoutParams     `json:"checkout,omitempty"`
	OrderSuccess *OrderSuccessParams `json:"order_success,omitempty"`
}

type HomeParams struct {
	Products  []catalog.Product `json:"products"`
	ItemCount int               `json:"item_count"`
}

type CartParams struct {
	Lines  cart.Cart     `json:"lines"`
	Totals totals.Totals `json:"totals"`
	Empty  bool          `json:"empty"`
}

type CheckoutParams struct {
	Form   checkout.Form `json:"form"`
	Lines  cart.Cart     `json:"lines"`
	Totals totals.Totals `json:"totals"`
}

type OrderSuccessParams struct {
	Receipt *Receipt `json:"receipt,omitempty"`
}
