// internal/storefront/service.go
package storefront

import (
	"context"

	"storefront/internal/catalog"
	"storefront/internal/checkout"
	"storefront/internal/view"
)

// Service is one shopper's session. Every intent a renderer can emit is a method here.
type Service interface {
	Products(ctx context.Context) []catalog.Product
	GenerateProduct(ctx context.Context, category string) (catalog.Product, error)

	AddToCart(ctx context.Context, productID int) error
	UpdateQuantity(ctx context.Context, id, quantity int)
	RemoveFromCart(ctx context.Context, id int)
	ClearCart(ctx context.Context)

	SetView(ctx context.Context, v view.View) error
	EditCheckout(ctx context.Context, field checkout.Field, value string) error
	// SubmitCheckout copies the non-empty fields of patch over the edited form, then places the order.
	SubmitCheckout(ctx context.Context, patch checkout.Form) (Receipt, error)

	Snapshot(ctx context.Context) (Snapshot, error)
}
