// internal/catalog/service.go
package catalog

import "context"

// Service defines the interface for the product catalog.
type Service interface {
	List(ctx context.Context) []Product
	Get(ctx context.Context, id int) (Product, error)
	Append(ctx context.Context, p Product) (Product, error)
	Generate(ctx context.Context, category string) (Product, error)
}

// Generator invents a new product for a category. The returned ID is ignored.
type Generator interface {
	Generate(ctx context.Context, category string) (Product, error)
}
