package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/storage"
	"storefront/internal/storefront"
	"storefront/internal/view"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	logger := zap.NewNop()
	products := catalog.NewService(catalog.InitialProducts(), catalog.NewTemplateGenerator(11), logger)
	carts := cart.NewStore(context.Background(), cart.NewKVRepository(storage.NewMemoryStore(), "shoppingCart"), logger)
	return NewModel(context.Background(), storefront.NewService(products, carts, logger))
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(Model)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	down  = tea.KeyMsg{Type: tea.KeyDown}
	tab   = tea.KeyMsg{Type: tea.KeyTab}
	ctrlO = tea.KeyMsg{Type: tea.KeyCtrlO}
)

func TestHomeAddsSelectedProduct(t *testing.T) {
	m := newTestModel(t)
	require.Equal(t, view.Home, m.Snapshot().View)

	m = press(t, m, down, down, enter, enter)

	assert.Equal(t, 2, m.Snapshot().ItemCount)
	assert.Contains(t, m.View(), "Cart 2")
	assert.Contains(t, m.View(), "Added Ayurvedic Wellness Tea")
}

func TestEmptyCartOffersStartShopping(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, runes("c"))
	require.Equal(t, view.Cart, m.Snapshot().View)
	assert.Contains(t, m.View(), "Your cart is empty.")

	m = press(t, m, enter)
	assert.Equal(t, view.Cart, m.Snapshot().View)
	assert.Contains(t, m.View(), "cart is empty")

	m = press(t, m, runes("s"))
	assert.Equal(t, view.Home, m.Snapshot().View)
}

func TestCartQuantityKeys(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, enter, runes("c"), runes("+"), runes("+"))
	assert.Equal(t, 3, m.Snapshot().ItemCount)
	assert.Contains(t, m.View(), "FREE")

	m = press(t, m, runes("-"), runes("-"), runes("-"))
	assert.Zero(t, m.Snapshot().ItemCount)
	assert.True(t, m.Snapshot().Cart.Empty)
}

func TestCheckoutThroughKeys(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, down, down, enter, runes("c"), enter)
	require.Equal(t, view.Checkout, m.Snapshot().View)

	m = press(t, m, runes("Asha"), tab, tab, tab, enter)
	assert.Equal(t, view.Checkout, m.Snapshot().View)
	assert.Contains(t, m.View(), "Please fill out all shipping details.")
	assert.Equal(t, 1, m.Snapshot().ItemCount)
	assert.Equal(t, "Asha", m.Snapshot().Checkout.Form.Name)

	// Focus is on pincode after the failed submit; wrap round to address.
	m = press(t, m, tab, tab, runes("12 MG Road"), tab, runes("Pune"), tab, runes("411001"), enter)
	snap := m.Snapshot()
	require.Equal(t, view.OrderSuccess, snap.View)
	assert.Zero(t, snap.ItemCount)
	require.NotNil(t, snap.OrderSuccess.Receipt)
	assert.Equal(t, "Pune", snap.OrderSuccess.Receipt.ShipTo.City)
	assert.Contains(t, m.View(), "Order placed successfully!")
	assert.Contains(t, m.View(), "₹549.00")

	m = press(t, m, enter)
	assert.Equal(t, view.Home, m.Snapshot().View)
}

func TestCtrlOOpensCartFromEveryScreen(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, enter, ctrlO)
	require.Equal(t, view.Cart, m.Snapshot().View)

	m = press(t, m, ctrlO)
	assert.Equal(t, view.Cart, m.Snapshot().View)
	assert.Empty(t, m.err)

	m = press(t, m, enter, runes("Asha"), ctrlO)
	require.Equal(t, view.Cart, m.Snapshot().View)
	assert.Equal(t, 1, m.Snapshot().ItemCount)

	m = press(t, m, enter)
	require.Equal(t, view.Checkout, m.Snapshot().View)
	assert.Empty(t, m.Snapshot().Checkout.Form.Name, "form resets on re-entering checkout")

	m = press(t, m, runes("Asha"), tab, runes("12 MG Road"), tab, runes("Pune"), tab, runes("411001"), enter)
	require.Equal(t, view.OrderSuccess, m.Snapshot().View)
	m = press(t, m, ctrlO)
	assert.Equal(t, view.Cart, m.Snapshot().View)
	assert.Contains(t, m.View(), "Your cart is empty.")
}

func TestQuit(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}
