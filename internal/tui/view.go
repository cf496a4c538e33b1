// internal/tui/view.go
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"storefront/internal/checkout"
	"storefront/internal/totals"
)

func (m Model) View() string {
	var body string
	switch {
	case m.snap.Home != nil:
		body = m.viewHome()
	case m.snap.Cart != nil:
		body = m.viewCart()
	case m.snap.Checkout != nil:
		body = m.viewCheckout()
	case m.snap.OrderSuccess != nil:
		body = m.viewOrderSuccess()
	}

	parts := []string{m.viewHeader(), body}
	if m.err != "" {
		parts = append(parts, m.styles.Error.Render(m.err))
	} else if m.notice != "" {
		parts = append(parts, m.styles.Muted.Render(m.notice))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...) + "\n"
}

func (m Model) viewHeader() string {
	title := m.styles.Header.Render("Desi Bazaar")
	badge := m.styles.Badge.Render(fmt.Sprintf("Cart %d", m.snap.ItemCount))
	return lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", badge) + "\n"
}

func (m Model) viewHome() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("Our Products"))
	sb.WriteString("\n\n")
	for i, p := range m.snap.Home.Products {
		line := fmt.Sprintf("%-36s %-24s %12s", p.Name, m.styles.Muted.Render(p.Category), p.Price)
		sb.WriteString(m.row(i, line))
	}
	sb.WriteString("\n")
	sb.WriteString(m.styles.Help.Render("↑/↓ select • enter add to cart • g new arrival • c / ctrl+o cart • q quit"))
	return sb.String()
}

func (m Model) viewCart() string {
	params := m.snap.Cart
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("Your Cart"))
	sb.WriteString("\n\n")

	if params.Empty {
		sb.WriteString("Your cart is empty.\n\n")
		sb.WriteString(m.styles.Help.Render("s start shopping • q quit"))
		return sb.String()
	}

	for i, l := range params.Lines {
		line := fmt.Sprintf("%-36s %3d × %12s", l.Name, l.Quantity, l.Price)
		sb.WriteString(m.row(i, line))
	}
	sb.WriteString("\n")
	sb.WriteString(m.viewTotals(params.Totals))
	sb.WriteString("\n")
	sb.WriteString(m.styles.Help.Render("+/- quantity • x remove • C clear • enter checkout • esc home"))
	return sb.String()
}

func (m Model) viewCheckout() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("Shipping Details"))
	sb.WriteString("\n\n")
	labels := map[checkout.Field]string{
		checkout.FieldName:    "Name",
		checkout.FieldAddress: "Address",
		checkout.FieldCity:    "City",
		checkout.FieldPincode: "Pincode",
	}
	for i, f := range checkout.Fields {
		fmt.Fprintf(&sb, "%-8s %s\n", labels[f], m.inputs[i].View())
	}
	sb.WriteString("\n")
	sb.WriteString(m.viewTotals(m.snap.Checkout.Totals))
	sb.WriteString("\n")
	sb.WriteString(m.styles.Help.Render("tab next field • enter on pincode place order • ctrl+o cart • esc home"))
	return sb.String()
}

func (m Model) viewOrderSuccess() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Success.Render("Order placed successfully!"))
	sb.WriteString("\n\n")
	if r := m.snap.OrderSuccess.Receipt; r != nil {
		fmt.Fprintf(&sb, "Order %s\n", m.styles.Muted.Render(r.ID.String()))
		fmt.Fprintf(&sb, "Shipping to %s, %s, %s %s\n", r.ShipTo.Name, r.ShipTo.Address, r.ShipTo.City, r.ShipTo.Pincode)
		fmt.Fprintf(&sb, "Total paid %s for %d items\n", m.styles.Price.Render(r.Totals.GrandTotal.String()), r.Totals.ItemCount)
	}
	sb.WriteString("\n")
	sb.WriteString(m.styles.Help.Render("enter continue shopping • c / ctrl+o cart • q quit"))
	return sb.String()
}

func (m Model) viewTotals(t totals.Totals) string {
	shipping := t.ShippingFee.String()
	if t.FreeShipping() {
		shipping = m.styles.Free.Render("FREE")
	}
	return fmt.Sprintf("Subtotal  %12s\nShipping  %12s\nTotal     %12s\n",
		t.Subtotal, shipping, m.styles.Price.Render(t.GrandTotal.String()))
}

func (m Model) row(i int, line string) string {
	if i == m.cursor {
		return m.styles.Selected.Render("› "+line) + "\n"
	}
	return "  " + line + "\n"
}
