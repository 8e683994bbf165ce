package shop

import (
	"fmt"
	"strconv"
	"strings"

	"petshop/cmd/petshop/ui"
	"petshop/internal/catalog"
	"petshop/internal/checkout"
	"petshop/internal/session"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// View renders the current page.
func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(m.renderNavbar())
	sb.WriteString("\n\n")

	switch m.page {
	case session.PageHome:
		sb.WriteString(m.renderHome())
	case session.PageCart:
		sb.WriteString(m.renderCart())
	case session.PageCheckout:
		sb.WriteString(m.renderCheckout())
	case session.PageProfile:
		sb.WriteString(m.profile.View())
	}

	if m.page == session.PageHome {
		if strip := m.renderCartSummary(); strip != "" {
			sb.WriteString("\n")
			sb.WriteString(strip)
		}
	}

	if len(m.toasts) > 0 {
		sb.WriteString("\n")
		for _, t := range m.toasts {
			sb.WriteString(m.styles.SeverityStyle(t.event.Severity).Render(t.event.Message))
			sb.WriteString("\n")
		}
	}

	if m.lastErr != nil {
		sb.WriteString(m.styles.Error.Render("Error: " + m.lastErr.Error()))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(m.help.View(m.pageKeys()))
	return sb.String()
}

func (m Model) renderNavbar() string {
	tab := func(label string, p session.Page) string {
		if m.page == p {
			return m.styles.TabOn.Render(label)
		}
		return m.styles.Tab.Render(label)
	}

	cartLabel := "Cart"
	if n := m.sess.Cart().Len(); n > 0 {
		cartLabel += " " + m.styles.Badge.Render(strconv.Itoa(n))
	}

	return lipgloss.JoinHorizontal(lipgloss.Center,
		ui.Logo(m.styles), "  ",
		tab("1 Shop", session.PageHome),
		tab("2 "+cartLabel, session.PageCart),
		tab("3 Checkout", session.PageCheckout),
		tab("4 Profile", session.PageProfile),
	)
}

func (m Model) renderHome() string {
	var sb strings.Builder

	current := m.currentCategory()
	var bar []string
	for _, c := range m.sess.Categories() {
		label := c
		if c == current {
			bar = append(bar, m.styles.TabOn.Render(label))
		} else {
			bar = append(bar, m.styles.Tab.Render(label))
		}
	}
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, bar...))
	sb.WriteString("\n")

	if m.searching || m.search.Value() != "" {
		sb.WriteString(m.search.View())
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	visible := m.sess.Visible()
	if len(visible) == 0 {
		sb.WriteString(m.styles.Muted.Render("No products match your search."))
		sb.WriteString("\n")
		return sb.String()
	}

	favs := m.sess.Favorites()
	for i, p := range visible {
		heart := "♡"
		if favs.Contains(p.ID) {
			heart = m.styles.Favorite.Render("♥")
		}
		line := fmt.Sprintf("%s %s %-28s %s  %s",
			heart, p.Image, p.Name,
			m.styles.Price.Render(ui.FormatPrice(p.Price)),
			m.styles.Muted.Render(ui.Stars(p.Rating)))
		if i == m.cursor {
			sb.WriteString(m.styles.Selected.Render(line))
		} else {
			sb.WriteString("  " + line)
		}
		sb.WriteString("\n")
	}

	if m.showDetail {
		if p, ok := m.selected(visible); ok {
			sb.WriteString("\n")
			sb.WriteString(m.renderDetail(p))
		}
	}
	return sb.String()
}

// productMarkdown is the detail card source rendered through glamour.
func productMarkdown(p catalog.Product) string {
	return fmt.Sprintf("## %s %s\n\n*%s* · %s %.1f\n\n%s\n\n**%s** · %d in stock\n",
		p.Image, p.Name, p.Category, ui.Stars(p.Rating), p.Rating,
		p.Description, ui.FormatPrice(p.Price), p.Stock)
}

func (m Model) renderDetail(p catalog.Product) string {
	md := productMarkdown(p)
	if m.renderer == nil {
		return m.styles.Card.Render(md)
	}
	out, err := m.renderer.Render(md)
	if err != nil {
		return m.styles.Card.Render(md)
	}
	return out
}

func (m Model) renderCartSummary() string {
	c := m.sess.Cart()
	if c.IsEmpty() {
		return ""
	}
	return m.styles.Card.Render(fmt.Sprintf("🛒 %d item(s) · Total %s · press 2 to view your cart",
		c.Len(), m.styles.Price.Render(ui.FormatPrice(c.Total()))))
}

func (m Model) renderCart() string {
	c := m.sess.Cart()
	if c.IsEmpty() {
		return m.styles.Muted.Render("Your cart is empty. Press 1 to keep shopping.") + "\n"
	}

	table := ui.NewSimpleTable("Your cart", []string{"", "Product", "Unit", "Qty", "Subtotal"}).AlignRight(2, 3, 4)
	for i, it := range c.Items() {
		marker := ""
		if i == m.cartCursor {
			marker = "›"
		}
		table.AddRow(marker, it.Image+" "+it.Name, ui.FormatPrice(it.Price),
			strconv.Itoa(it.Quantity), ui.FormatPrice(it.Subtotal()))
	}

	var sb strings.Builder
	sb.WriteString(table.View(m.styles))
	sb.WriteString("\n")
	sb.WriteString(m.styles.Bold.Render("Total: "))
	sb.WriteString(m.styles.Price.Render(ui.FormatPrice(c.Total())))
	sb.WriteString("\n")
	return sb.String()
}

func (m Model) renderCheckout() string {
	c := m.sess.Cart()
	var sb strings.Builder

	if m.pending != nil {
		sb.WriteString(m.spinner.View())
		sb.WriteString(" Processing payment...\n")
		return sb.String()
	}
	if c.IsEmpty() {
		return m.styles.Muted.Render("Your cart is empty.") + "\n"
	}

	summary := ui.NewSimpleTable("Order summary", []string{"Product", "Qty", "Subtotal"}).AlignRight(1, 2)
	for _, it := range c.Items() {
		summary.AddRow(it.Name, strconv.Itoa(it.Quantity), ui.FormatPrice(it.Subtotal()))
	}
	sb.WriteString(summary.View(m.styles))
	sb.WriteString("\n")

	sb.WriteString(m.styles.Title.Render("Delivery"))
	sb.WriteString("\n")
	for i := fieldName; i <= fieldAddress; i++ {
		sb.WriteString(m.inputs[i].View())
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	payment := "Payment: "
	for _, pm := range []checkout.PaymentMethod{checkout.PaymentCard, checkout.PaymentPix} {
		if pm == m.payment {
			payment += m.styles.TabOn.Render(pm.Label())
		} else {
			payment += m.styles.Tab.Render(pm.Label())
		}
	}
	sb.WriteString(payment)
	sb.WriteString("\n")

	if m.form().RequiresCard() {
		for i := fieldCardNumber; i < fieldCount; i++ {
			sb.WriteString(m.inputs[i].View())
			sb.WriteString("\n")
		}
	} else {
		sb.WriteString(m.styles.Muted.Render("A PIX code will be generated after confirmation."))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(m.styles.Badge.Render("Confirm purchase · " + ui.FormatPrice(c.Total())))
	sb.WriteString("\n")
	return sb.String()
}

// refreshProfile rebuilds the profile viewport from favorites and orders.
func (m *Model) refreshProfile() {
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("My favorites"))
	sb.WriteString("\n")

	ids := m.sess.Favorites().IDs()
	if len(ids) == 0 {
		sb.WriteString(m.styles.Muted.Render("No favorites yet. Press f on a product to add one."))
		sb.WriteString("\n")
	}
	for _, id := range ids {
		if p, ok := m.sess.Catalog().Lookup(id); ok {
			sb.WriteString(fmt.Sprintf("%s %s %s  %s\n", m.styles.Favorite.Render("♥"), p.Image, p.Name, ui.FormatPrice(p.Price)))
		}
	}
	sb.WriteString("\n")

	table := ui.NewSimpleTable("Order history", []string{"Order", "Date", "Items", "Total", "Status"}).AlignRight(2, 3)
	table.Cell = func(row, col int, text string) lipgloss.Style {
		if col == 4 && row < len(m.orders) {
			return m.styles.StatusStyle(m.orders[row].Status)
		}
		return m.styles.Body
	}
	for _, o := range m.orders {
		table.AddRow(shortID(o.ID), o.Date.Format("2006-01-02"), strconv.Itoa(o.ItemCount),
			ui.FormatPrice(o.Total), o.Status.Label())
	}
	if v := table.View(m.styles); v != "" {
		sb.WriteString(v)
	} else {
		sb.WriteString(m.styles.Muted.Render("No orders yet."))
	}

	m.profile.SetContent(sb.String())
}

// shortID trims generated order ids for display.
func shortID(id string) string {
	if len(id) > 8 {
		return "#" + id[:8]
	}
	return "#" + id
}

func (m Model) pageKeys() pageKeys {
	k := m.keys
	nav := []key.Binding{k.Home, k.Cart, k.Pay, k.Profile}
	var short []key.Binding

	switch {
	case m.searching:
		short = []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "done")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
		}
		return pageKeys{short: short, full: [][]key.Binding{short}}
	case m.page == session.PageHome:
		short = []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Search, k.Add, k.Favorite, k.Detail}
	case m.page == session.PageCart:
		short = []key.Binding{k.Up, k.Down, k.Inc, k.Dec, k.Remove, k.Clear, k.Checkout}
	case m.page == session.PageCheckout:
		short = []key.Binding{k.NextFld, k.PrevFld, k.Payment, k.Confirm, k.Back}
		return pageKeys{short: short, full: [][]key.Binding{short}}
	case m.page == session.PageProfile:
		short = []key.Binding{k.Up, k.Down}
	}
	return pageKeys{
		short: append(short, k.Help, k.Quit),
		full:  [][]key.Binding{short, nav, {k.Help, k.Quit}},
	}
}
