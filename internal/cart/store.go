// internal/cart/store.go
package cart

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"storefront/internal/catalog"
)

// Store owns the cart. Every mutation is applied in memory first and then saved through
// the Repository; save and restore failures are logged and never returned, so the
// in-memory cart stays the source of truth for the session.
type Store struct {
	mu    sync.Mutex
	lines Cart

	repo            Repository
	logger          *zap.Logger
	tracer          trace.Tracer
	mutations       metric.Int64Counter
	persistFailures metric.Int64Counter
}

// NewStore restores the cart from repo, falling back to an empty cart on any failure.
func NewStore(ctx context.Context, repo Repository, logger *zap.Logger) *Store {
	s := &Store{
		lines:  Cart{},
		repo:   repo,
		logger: logger.Named("cart"),
		tracer: otel.Tracer("storefront/cart"),
	}

	meter := otel.Meter("storefront/cart")
	var err error
	if s.mutations, err = meter.Int64Counter("storefront.cart.mutations",
		metric.WithDescription("Cart mutation operations applied")); err != nil {
		s.logger.Warn("failed to create mutations counter", zap.Error(err))
	}
	if s.persistFailures, err = meter.Int64Counter("storefront.cart.persist.failures",
		metric.WithDescription("Cart save or restore attempts that failed")); err != nil {
		s.logger.Warn("failed to create persist failure counter", zap.Error(err))
	}

	s.restore(ctx)
	return s
}

func (s *Store) restore(ctx context.Context) {
	ctx, span := s.tracer.Start(ctx, "cart.restore")
	defer span.End()

	c, ok, err := s.repo.Load(ctx)
	if err != nil {
		span.RecordError(err)
		s.countFailure(ctx, "restore")
		s.logger.Warn("could not restore cart, starting empty", zap.Error(err))
		return
	}
	if !ok {
		s.logger.Debug("no persisted cart, starting empty")
		return
	}

	s.lines = c.Clone()
	span.SetAttributes(attribute.Int("cart.lines", len(c)))
	s.logger.Debug("cart restored", zap.Int("lines", len(c)))
}

// Add increments the line for p, or appends a new line of quantity 1. An add that would
// push the cart totals past what an Amount can hold leaves the cart unchanged.
func (s *Store) Add(ctx context.Context, p catalog.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.lines.Index(p.ID); i >= 0 {
		if s.lines[i].Quantity < s.lines.maxQuantity(i) {
			s.lines[i].Quantity++
		} else {
			s.logger.Warn("cart line at limit, add ignored", zap.Int("product_id", p.ID))
		}
	} else {
		next := append(s.lines.Clone(), NewLine(p))
		if _, _, err := next.Sum(); err != nil {
			s.logger.Warn("cart at limit, add ignored", zap.Int("product_id", p.ID), zap.Error(err))
		} else {
			s.lines = next
		}
	}
	s.persist(ctx, "add")
}

// UpdateQuantity sets the quantity of an existing line; quantity <= 0 removes it.
// Unknown ids are ignored. A quantity too large for the cart totals is clamped to the
// largest one that fits.
func (s *Store) UpdateQuantity(ctx context.Context, id, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		s.remove(id)
	} else if i := s.lines.Index(id); i >= 0 {
		if limit := s.lines.maxQuantity(i); quantity > limit {
			s.logger.Warn("quantity clamped",
				zap.Int("product_id", id), zap.Int("requested", quantity), zap.Int("quantity", limit))
			quantity = limit
		}
		s.lines[i].Quantity = quantity
	}
	s.persist(ctx, "update_quantity")
}

// Remove deletes the line for id if present.
func (s *Store) Remove(ctx context.Context, id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.remove(id)
	s.persist(ctx, "remove")
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = Cart{}
	s.persist(ctx, "clear")
}

// Lines returns a snapshot of the cart.
func (s *Store) Lines() Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lines.Clone()
}

// Contains reports whether the cart has a line for id.
func (s *Store) Contains(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lines.Index(id) >= 0
}

func (s *Store) remove(id int) {
	if i := s.lines.Index(id); i >= 0 {
		s.lines = append(s.lines[:i], s.lines[i+1:]...)
	}
}

// persist saves the current lines. Callers hold s.mu so saves follow mutation order.
func (s *Store) persist(ctx context.Context, op string) {
	if s.mutations != nil {
		s.mutations.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
	}

	ctx, span := s.tracer.Start(ctx, "cart.persist",
		trace.WithAttributes(
			attribute.String("cart.op", op),
			attribute.Int("cart.lines", len(s.lines)),
		),
	)
	defer span.End()

	if err := s.repo.Save(ctx, s.lines.Clone()); err != nil {
		span.RecordError(err)
		s.countFailure(ctx, "save")
		s.logger.Warn("could not save cart", zap.String("op", op), zap.Error(err))
	}
}

func (s *Store) countFailure(ctx context.Context, phase string) {
	if s.persistFailures != nil {
		s.persistFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("phase", phase)))
	}
}
