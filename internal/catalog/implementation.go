// internal/catalog/implementation.go
package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// service implements the Service interface over an in-memory, append-only list.
type service struct {
	mu        sync.RWMutex
	products  []Product
	nextID    int
	generator Generator
	logger    *zap.Logger
}

// NewService creates a catalog seeded with the given products.
func NewService(seed []Product, generator Generator, logger *zap.Logger) Service {
	s := &service{
		products:  make([]Product, 0, len(seed)),
		nextID:    1,
		generator: generator,
		logger:    logger.Named("catalog"),
	}
	for _, p := range seed {
		s.products = append(s.products, p)
		if p.ID >= s.nextID {
			s.nextID = p.ID + 1
		}
	}
	return s
}

// List returns the products in catalog order.
func (s *service) List(ctx context.Context) []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out
}

// Get retrieves a product by its ID.
func (s *service) Get(ctx context.Context, id int) (Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, fmt.Errorf("product with ID %d: %w", id, ErrProductNotFound)
}

// Append adds a product at the end of the catalog and assigns it the next ID.
func (s *service) Append(ctx context.Context, p Product) (Product, error) {
	if strings.TrimSpace(p.Name) == "" {
		return Product{}, fmt.Errorf("%w: name is required", ErrInvalidProduct)
	}
	if p.Price < 0 {
		return Product{}, fmt.Errorf("%w: negative price", ErrInvalidProduct)
	}

	s.mu.Lock()
	p.ID = s.nextID
	s.nextID++
	s.products = append(s.products, p)
	s.mu.Unlock()

	s.logger.Info("product appended",
		zap.Int("product_id", p.ID),
		zap.String("name", p.Name),
		zap.String("category", p.Category))
	return p, nil
}

// Generate asks the generator for a new product and appends it.
func (s *service) Generate(ctx context.Context, category string) (Product, error) {
	if s.generator == nil {
		return Product{}, fmt.Errorf("no product generator configured")
	}
	p, err := s.generator.Generate(ctx, category)
	if err != nil {
		return Product{}, fmt.Errorf("failed to generate product: %w", err)
	}
	return s.Append(ctx, p)
}
