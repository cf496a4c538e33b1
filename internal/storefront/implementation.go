// internal/storefront/implementation.go
package storefront

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/checkout"
	"storefront/internal/totals"
	"storefront/internal/view"
)

// session implements Service. mu serializes intents so a renderer never observes a
// checkout that has cleared the cart but not yet switched views.
type session struct {
	mu       sync.Mutex
	catalog  catalog.Service
	cart     *cart.Store
	router   *view.Router
	checkout *checkout.Handler
	receipt  *Receipt
	now      func() time.Time

	logger       *zap.Logger
	tracer       trace.Tracer
	ordersPlaced metric.Int64Counter
}

// NewService wires a session around an existing catalog and cart store.
func NewService(products catalog.Service, store *cart.Store, logger *zap.Logger) Service {
	s := &session{
		catalog: products,
		cart:    store,
		router:  view.NewRouter(),
		now:     time.Now,
		logger:  logger.Named("session"),
		tracer:  otel.Tracer("storefront/session"),
	}
	s.checkout = checkout.NewHandler(store, s.router)
	s.router.OnTransition(s.onTransition)

	var err error
	if s.ordersPlaced, err = otel.Meter("storefront/session").Int64Counter("storefront.orders.placed",
		metric.WithDescription("Orders accepted at checkout")); err != nil {
		s.logger.Warn("failed to create orders counter", zap.Error(err))
	}
	return s
}

// onTransition runs with s.mu held by the intent that caused the transition.
func (s *session) onTransition(t view.Transition) {
	if t.Entered(view.Checkout) || t.Left(view.Checkout) {
		s.checkout.Reset()
	}
	if t.Left(view.OrderSuccess) {
		s.receipt = nil
	}
	s.logger.Debug("view changed", zap.Stringer("from", t.From), zap.Stringer("to", t.To))
}

func (s *session) Products(ctx context.Context) []catalog.Product {
	return s.catalog.List(ctx)
}

func (s *session) GenerateProduct(ctx context.Context, category string) (catalog.Product, error) {
	return s.catalog.Generate(ctx, category)
}

func (s *session) AddToCart(ctx context.Context, productID int) error {
	p, err := s.catalog.Get(ctx, productID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Add(ctx, p)
	return nil
}

func (s *session) UpdateQuantity(ctx context.Context, id, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.UpdateQuantity(ctx, id, quantity)
}

func (s *session) RemoveFromCart(ctx context.Context, id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Remove(ctx, id)
}

func (s *session) ClearCart(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Clear(ctx)
}

// SetView navigates on the shopper's behalf. Checkout is refused while the cart is empty.
func (s *session) SetView(ctx context.Context, v view.View) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v == view.Checkout && s.router.Current() != view.Checkout && len(s.cart.Lines()) == 0 {
		return ErrEmptyCart
	}
	return s.router.Navigate(v)
}

func (s *session) EditCheckout(ctx context.Context, field checkout.Field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.router.Current() != view.Checkout {
		return ErrCheckoutInactive
	}
	return s.checkout.Set(field, value)
}

// SubmitCheckout merges the non-empty fields of patch over the edited form and places the order.
func (s *session) SubmitCheckout(ctx context.Context, patch checkout.Form) (Receipt, error) {
	ctx, span := s.tracer.Start(ctx, "storefront.submit_checkout")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.router.Current() != view.Checkout {
		return Receipt{}, ErrCheckoutInactive
	}
	form := s.checkout.Form().Merge(patch)
	s.checkout.Fill(form)
	if !form.Complete() {
		span.SetAttributes(attribute.Bool("checkout.complete", false))
		return Receipt{}, checkout.ErrIncompleteForm
	}

	lines := s.cart.Lines()
	t, err := totals.Compute(lines)
	if err != nil {
		span.RecordError(err)
		return Receipt{}, err
	}
	receipt := Receipt{
		ID:       uuid.New(),
		PlacedAt: s.now().UTC(),
		Lines:    lines,
		Totals:   t,
		ShipTo:   form,
	}

	if err := s.checkout.Submit(ctx); err != nil {
		span.RecordError(err)
		return Receipt{}, fmt.Errorf("submit checkout: %w", err)
	}
	s.receipt = &receipt

	span.SetAttributes(
		attribute.String("order.id", receipt.ID.String()),
		attribute.Int("order.items", t.ItemCount),
	)
	if s.ordersPlaced != nil {
		s.ordersPlaced.Add(ctx, 1)
	}
	s.logger.Info("order placed",
		zap.Stringer("order_id", receipt.ID),
		zap.Int("items", t.ItemCount),
		zap.Stringer("grand_total", t.GrandTotal))
	return receipt, nil
}

func (s *session) Snapshot(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.cart.Lines()
	t, err := totals.Compute(lines)
	if err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{View: s.router.Current(), ItemCount: t.ItemCount}
	switch snap.View {
	case view.Home:
		snap.Home = &HomeParams{Products: s.catalog.List(ctx), ItemCount: t.ItemCount}
	case view.Cart:
		snap.Cart = &CartParams{Lines: lines, Totals: t, Empty: len(lines) == 0}
	case view.Checkout:
		snap.Checkout = &CheckoutParams{Form: s.checkout.Form(), Lines: lines, Totals: t}
	case view.OrderSuccess:
		snap.OrderSuccess = &OrderSuccessParams{Receipt: s.receipt}
	}
	return snap, nil
}
