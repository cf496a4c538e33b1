// internal/catalog/generator.go
package catalog

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"storefront/internal/money"
)

type template struct {
	adjectives []string
	nouns      []string
	blurb      string
}

var templates = map[string]template{
	"Eco-friendly Kitchenware": {
		adjectives: []string{"Bamboo", "Coconut Shell", "Terracotta", "Recycled Steel"},
		nouns:      []string{"Serving Bowl", "Utensil Set", "Spice Box", "Cutting Board"},
		blurb:      "Sustainably made for a greener kitchen.",
	},
	"Handmade Jewelry": {
		adjectives: []string{"Oxidised Silver", "Kundan", "Beaded", "Meenakari"},
		nouns:      []string{"Jhumkas", "Bangle Set", "Pendant", "Anklet"},
		blurb:      "Crafted by hand by skilled artisans.",
	},
	"Organic Skincare": {
		adjectives: []string{"Saffron", "Neem", "Rose", "Sandalwood"},
		nouns:      []string{"Face Oil", "Ubtan", "Body Butter", "Toner"},
		blurb:      "Gentle botanicals, no harsh chemicals.",
	},
	"Smart Gadgets": {
		adjectives: []string{"Wireless", "Solar", "Compact", "Voice-Controlled"},
		nouns:      []string{"Charger", "Smart Plug", "Speaker", "Desk Lamp"},
		blurb:      "Everyday tech that simply works.",
	},
	"Artisanal Coffee": {
		adjectives: []string{"Chikmagalur", "Coorg", "Monsooned Malabar", "Araku Valley"},
		nouns:      []string{"Single Origin Beans", "Filter Blend", "Cold Brew Pack", "Espresso Roast"},
		blurb:      "Small-batch roasted in India.",
	},
}

const (
	minGeneratedPrice = 199
	maxGeneratedPrice = 2999
)

// TemplateGenerator invents products from per-category word lists.
type TemplateGenerator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewTemplateGenerator returns a generator with a deterministic seed.
func NewTemplateGenerator(seed uint64) *TemplateGenerator {
	return &TemplateGenerator{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Generate returns a product for category; an empty category picks one at random.
func (g *TemplateGenerator) Generate(ctx context.Context, category string) (Product, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if category == "" {
		category = GeneratorCategories[g.rnd.IntN(len(GeneratorCategories))]
	}
	t, ok := templates[category]
	if !ok {
		return Product{}, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	adjective := t.adjectives[g.rnd.IntN(len(t.adjectives))]
	noun := t.nouns[g.rnd.IntN(len(t.nouns))]
	name := adjective + " " + noun
	price := minGeneratedPrice + g.rnd.IntN(maxGeneratedPrice-minGeneratedPrice+1)
	seed := strings.ToLower(strings.ReplaceAll(name, " ", "-"))

	return Product{
		Name:        name,
		Description: fmt.Sprintf("%s. %s", name, t.blurb),
		Price:       money.FromMajor(int64(price)),
		ImageURL:    fmt.Sprintf("https://picsum.photos/seed/%s/400/400", seed),
		Category:    category,
	}, nil
}
