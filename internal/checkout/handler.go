// internal/checkout/handler.go
package checkout

import (
	"context"
	"fmt"
	"sync"

	"storefront/internal/view"
)

// Clearer empties the cart once an order is accepted.
type Clearer interface {
	Clear(ctx context.Context)
}

// Completer moves the router into the order confirmation.
type Completer interface {
	Current() view.View
	CompleteOrder() error
}

// Handler owns the transient checkout form.
type Handler struct {
	mu     sync.Mutex
	form   Form
	cart   Clearer
	router Completer
}

func NewHandler(cart Clearer, router Completer) *Handler {
	return &Handler{cart: cart, router: router}
}

// Set edits one field.
func (h *Handler) Set(field Field, value string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	form, err := h.form.With(field, value)
	if err != nil {
		return err
	}
	h.form = form
	return nil
}

// Fill replaces every field at once.
func (h *Handler) Fill(f Form) {
	h.mu.Lock()
	h.form = f
	h.mu.Unlock()
}

func (h *Handler) Form() Form {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.form
}

// Reset empties the form. It runs whenever the checkout view is entered or left.
func (h *Handler) Reset() {
	h.Fill(Form{})
}

// Submit places the order. An incomplete form changes nothing and returns ErrIncompleteForm.
// On success the cart is cleared before the router leaves checkout, so the confirmation
// never renders next to a stale cart.
func (h *Handler) Submit(ctx context.Context) error {
	h.mu.Lock()
	complete := h.form.Complete()
	h.mu.Unlock()

	if !complete {
		return ErrIncompleteForm
	}
	if h.router.Current() != view.Checkout {
		return ErrNotInCheckout
	}

	h.cart.Clear(ctx)
	if err := h.router.CompleteOrder(); err != nil {
		return fmt.Errorf("complete order: %w", err)
	}
	return nil
}
