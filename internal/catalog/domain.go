// internal/catalog/domain.go
package catalog

import (
	"errors"

	"storefront/internal/money"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidProduct  = errors.New("invalid product")
	ErrUnknownCategory = errors.New("unknown product category")
)

// Product is an immutable catalog entry.
type Product struct {
	ID          int          `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Price       money.Amount `json:"price"`
	ImageURL    string       `json:"imageUrl"`
	Category    string       `json:"category"`
}

// InitialProducts is the catalog a fresh provider starts with.
func InitialProducts() []Product {
	return []Product{
		{
			ID:          1,
			Name:        "Handcrafted Terracotta Vase",
			Description: "Elegant terracotta vase, handcrafted by local artisans. Perfect for a rustic home decor.",
			Price:       money.FromMajor(1299),
			ImageURL:    "https://picsum.photos/seed/terracotta/400/400",
			Category:    "Home Decor",
		},
		{
			ID:          2,
			Name:        "Jaipuri Block Print Kurta",
			Description: "Comfortable cotton kurta with traditional Jaipuri block printing. Ideal for casual wear.",
			Price:       money.FromMajor(1899),
			ImageURL:    "https://picsum.photos/seed/kurta/400/400",
			Category:    "Fashion",
		},
		{
			ID:          3,
			Name:        "Ayurvedic Wellness Tea",
			Description: "A calming blend of ashwagandha and tulsi to rejuvenate your senses.",
			Price:       money.FromMajor(499),
			ImageURL:    "https://picsum.photos/seed/tea/400/400",
			Category:    "Wellness",
		},
		{
			ID:          4,
			Name:        "Brass Diya Lamp Set",
			Description: "Set of two intricately designed brass diyas for your pooja room or festive decorations.",
			Price:       money.FromMajor(799),
			ImageURL:    "https://picsum.photos/seed/diya/400/400",
			Category:    "Home Decor",
		},
	}
}

// GeneratorCategories lists the categories the product generator can invent entries for.
var GeneratorCategories = []string{
	"Eco-friendly Kitchenware",
	"Handmade Jewelry",
	"Organic Skincare",
	"Smart Gadgets",
	"Artisanal Coffee",
}
