// internal/tui/model.go
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"storefront/internal/checkout"
	"storefront/internal/storefront"
	"storefront/internal/view"
)

// Model is the bubbletea model. It holds no cart state of its own: every screen is drawn
// from the latest session snapshot, and every key press becomes a session intent.
type Model struct {
	ctx     context.Context
	service storefront.Service
	styles  Styles

	snap   storefront.Snapshot
	cursor int
	inputs []textinput.Model
	focus  int
	notice string
	err    string

	width int
}

func NewModel(ctx context.Context, service storefront.Service) Model {
	m := Model{
		ctx:     ctx,
		service: service,
		styles:  DefaultStyles(),
		inputs:  make([]textinput.Model, len(checkout.Fields)),
	}
	placeholders := []string{"Full name", "Street address", "City", "Pincode"}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 120
		ti.Width = 40
		m.inputs[i] = ti
	}
	m.refresh()
	return m
}

// Snapshot returns the state the model last rendered.
func (m Model) Snapshot() storefront.Snapshot {
	return m.snap
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		m.err = ""
		// ctrl+o is the header's cart button and works on every screen.
		if msg.Type == tea.KeyCtrlO {
			if m.snap.View != view.Cart {
				m.navigate(view.Cart)
			}
			m.refresh()
			return m, nil
		}
		switch m.snap.View {
		case view.Home:
			return m.updateHome(msg)
		case view.Cart:
			return m.updateCart(msg)
		case view.Checkout:
			return m.updateCheckout(msg)
		case view.OrderSuccess:
			return m.updateOrderSuccess(msg)
		}
	}
	return m, nil
}

func (m Model) updateHome(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	products := m.snap.Home.Products
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		m.moveCursor(-1, len(products))
	case "down", "j":
		m.moveCursor(1, len(products))
	case "enter", "a":
		if len(products) > 0 {
			p := products[m.cursor]
			if m.check(m.service.AddToCart(m.ctx, p.ID)) {
				m.notice = "Added " + p.Name
			}
		}
	case "g":
		if p, err := m.service.GenerateProduct(m.ctx, ""); m.check(err) {
			m.notice = "New arrival: " + p.Name
		}
	case "c":
		m.navigate(view.Cart)
	}
	m.refresh()
	return m, nil
}

func (m Model) updateCart(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	lines := m.snap.Cart.Lines
	var selected int
	if len(lines) > 0 {
		selected = lines[m.cursor].ID
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		m.moveCursor(-1, len(lines))
	case "down", "j":
		m.moveCursor(1, len(lines))
	case "+", "=":
		if len(lines) > 0 {
			m.service.UpdateQuantity(m.ctx, selected, lines[m.cursor].Quantity+1)
		}
	case "-":
		if len(lines) > 0 {
			m.service.UpdateQuantity(m.ctx, selected, lines[m.cursor].Quantity-1)
		}
	case "x", "delete":
		if len(lines) > 0 {
			m.service.RemoveFromCart(m.ctx, selected)
		}
	case "C":
		m.service.ClearCart(m.ctx)
	case "enter", "p":
		m.navigate(view.Checkout)
	case "esc", "h", "s":
		m.navigate(view.Home)
	}
	m.refresh()
	return m, nil
}

func (m Model) updateCheckout(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.navigate(view.Home)
		m.refresh()
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		return m, m.setFocus(m.focus + 1)
	case tea.KeyShiftTab, tea.KeyUp:
		return m, m.setFocus(m.focus - 1)
	case tea.KeyEnter:
		if m.focus < len(m.inputs)-1 {
			return m, m.setFocus(m.focus + 1)
		}
		if _, err := m.service.SubmitCheckout(m.ctx, m.form()); m.check(err) {
			m.notice = ""
		}
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	m.check(m.service.EditCheckout(m.ctx, checkout.Fields[m.focus], m.inputs[m.focus].Value()))
	return m, cmd
}

func (m Model) updateOrderSuccess(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "enter", "esc", "h":
		m.navigate(view.Home)
	case "c":
		m.navigate(view.Cart)
	}
	m.refresh()
	return m, nil
}

func (m *Model) navigate(v view.View) {
	if m.check(m.service.SetView(m.ctx, v)) {
		m.cursor = 0
		m.notice = ""
	}
}

// refresh pulls a new snapshot and keeps the cursor and form inputs in range of it.
func (m *Model) refresh() {
	snap, err := m.service.Snapshot(m.ctx)
	if !m.check(err) {
		return
	}
	entered := snap.View == view.Checkout && m.snap.View != view.Checkout
	m.snap = snap

	switch {
	case snap.Home != nil:
		m.clampCursor(len(snap.Home.Products))
	case snap.Cart != nil:
		m.clampCursor(len(snap.Cart.Lines))
	}
	if entered {
		for i := range m.inputs {
			m.inputs[i].SetValue("")
		}
		m.setFocus(0)
	}
}

func (m *Model) setFocus(i int) tea.Cmd {
	n := len(m.inputs)
	m.focus = (i%n + n) % n
	var cmd tea.Cmd
	for j := range m.inputs {
		if j == m.focus {
			cmd = m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
	return cmd
}

func (m *Model) moveCursor(delta, n int) {
	m.cursor += delta
	m.clampCursor(n)
}

func (m *Model) clampCursor(n int) {
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) form() checkout.Form {
	return checkout.Form{
		Name:    m.inputs[0].Value(),
		Address: m.inputs[1].Value(),
		City:    m.inputs[2].Value(),
		Pincode: m.inputs[3].Value(),
	}
}

// check records err for display and reports whether the intent succeeded.
func (m *Model) check(err error) bool {
	if err != nil {
		m.err = checkout.Message(err)
		return false
	}
	return true
}
