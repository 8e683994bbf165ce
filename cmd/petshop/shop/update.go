package shop

import (
	"context"
	"errors"
	"time"

	"petshop/internal/catalog"
	"petshop/internal/checkout"
	"petshop/internal/filter"
	"petshop/internal/logging"
	"petshop/internal/notify"
	"petshop/internal/session"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.profile.Width = msg.Width
		m.profile.Height = max(msg.Height-8, 5)
		m.renderer = newRenderer(m.styles, msg.Width)
		m.refreshProfile()
		return m, nil

	case eventMsg:
		return m.pushToast(notify.Event(msg))

	case toastExpiredMsg:
		for i, t := range m.toasts {
			if t.id == msg.id {
				m.toasts = append(m.toasts[:i:i], m.toasts[i+1:]...)
				break
			}
		}
		return m, nil

	case navigateMsg:
		m.page = session.Page(msg)
		cmds := []tea.Cmd{m.bridge.nextPage()}
		if m.page == session.PageProfile {
			cmds = append(cmds, m.loadOrders())
		}
		return m, tea.Batch(cmds...)

	case checkoutDoneMsg:
		m.pending = nil
		if msg.err != nil {
			m.lastErr = msg.err
			logging.Get(logging.CategoryUI).Error("checkout failed: %v", msg.err)
			return m, nil
		}
		m.resetForm()
		return m, m.loadOrders()

	case ordersMsg:
		if msg.err != nil {
			m.lastErr = msg.err
			return m, nil
		}
		m.orders = msg.orders
		m.refreshProfile()
		return m, nil

	case spinner.TickMsg:
		if m.pending == nil {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	// Text entry owns the keyboard.
	if m.searching {
		return m.updateSearch(msg)
	}
	if m.page == session.PageCheckout {
		return m.updateCheckout(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Home):
		return m.goTo(session.PageHome)
	case key.Matches(msg, m.keys.Cart):
		return m.goTo(session.PageCart)
	case key.Matches(msg, m.keys.Pay):
		return m.goTo(session.PageCheckout)
	case key.Matches(msg, m.keys.Profile):
		return m.goTo(session.PageProfile)
	}

	switch m.page {
	case session.PageHome:
		return m.updateHome(msg)
	case session.PageCart:
		return m.updateCart(msg)
	case session.PageProfile:
		var cmd tea.Cmd
		m.profile, cmd = m.profile.Update(msg)
		return m, cmd
	}
	return m, nil
}

// goTo switches page locally and records the intent on the session.
// Checkout is refused while the cart is empty.
func (m Model) goTo(p session.Page) (tea.Model, tea.Cmd) {
	if p == session.PageCheckout && m.sess.Cart().IsEmpty() {
		m.sess.Navigate(session.PageCart)
		m.page = session.PageCart
		return m, nil
	}
	m.sess.Navigate(p)
	m.page = p
	if p == session.PageCheckout {
		m.focusField(m.focus)
	}
	if p == session.PageProfile {
		return m, m.loadOrders()
	}
	return m, nil
}

func (m Model) updateHome(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := m.sess.Visible()
	cats := m.sess.Categories()

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(visible)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Left):
		m.catIndex = (m.catIndex - 1 + len(cats)) % len(cats)
		m.sess.SetCategory(cats[m.catIndex])
		m.cursor = 0
	case key.Matches(msg, m.keys.Right):
		m.catIndex = (m.catIndex + 1) % len(cats)
		m.sess.SetCategory(cats[m.catIndex])
		m.cursor = 0
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.Detail):
		m.showDetail = !m.showDetail
	case key.Matches(msg, m.keys.Add):
		if p, ok := m.selected(visible); ok {
			_, _ = m.sess.AddToCart(p.ID, 1)
		}
	case key.Matches(msg, m.keys.Favorite):
		if p, ok := m.selected(visible); ok {
			m.sess.ToggleFavorite(p.ID)
		}
	case key.Matches(msg, m.keys.Back):
		m.showDetail = false
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		if msg.Type == tea.KeyEsc {
			m.search.SetValue("")
			m.sess.SetSearch("")
		}
		m.cursor = 0
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.sess.SetSearch(m.search.Value())
	m.cursor = 0
	return m, cmd
}

func (m Model) updateCart(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.sess.Cart().Items()
	var id int
	if m.cartCursor < len(items) {
		id = items[m.cartCursor].ID
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cartCursor > 0 {
			m.cartCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cartCursor < len(items)-1 {
			m.cartCursor++
		}
	case key.Matches(msg, m.keys.Inc):
		if id != 0 {
			_, _ = m.sess.StepQuantity(id, 1)
		}
	case key.Matches(msg, m.keys.Dec):
		if id != 0 {
			_, _ = m.sess.StepQuantity(id, -1)
		}
	case key.Matches(msg, m.keys.Remove):
		if id != 0 {
			m.sess.RemoveFromCart(id)
		}
	case key.Matches(msg, m.keys.Clear):
		m.sess.ClearCart()
	case key.Matches(msg, m.keys.Checkout):
		return m.goTo(session.PageCheckout)
	case key.Matches(msg, m.keys.Back):
		return m.goTo(session.PageHome)
	}

	if n := m.sess.Cart().Len(); m.cartCursor >= n {
		m.cartCursor = max(n-1, 0)
	}
	return m, nil
}

func (m Model) updateCheckout(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.pending != nil {
		// Inputs are frozen while payment is processing; a repeated
		// confirm joins the pending completion.
		if key.Matches(msg, m.keys.Confirm) {
			if p, err := m.sess.ConfirmCheckout(m.form()); err == nil {
				return m, waitCheckout(p)
			}
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Back):
		m.blurFields()
		return m.goTo(session.PageCart)
	case key.Matches(msg, m.keys.NextFld):
		m.focusField((m.focus + 1) % m.visibleFields())
		return m, nil
	case key.Matches(msg, m.keys.PrevFld):
		m.focusField((m.focus - 1 + m.visibleFields()) % m.visibleFields())
		return m, nil
	case key.Matches(msg, m.keys.Payment):
		if m.payment == checkout.PaymentPix {
			m.payment = checkout.PaymentCard
		} else {
			m.payment = checkout.PaymentPix
		}
		if m.focus >= m.visibleFields() {
			m.focusField(0)
		}
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		return m.confirm()
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) confirm() (tea.Model, tea.Cmd) {
	p, err := m.sess.ConfirmCheckout(m.form())
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		m.blurFields()
		m.page = session.PageHome
		return m, nil
	case err != nil:
		// Incomplete form: the session already notified; move to the
		// first missing field.
		var incomplete *checkout.IncompleteError
		if errors.As(err, &incomplete) && len(incomplete.Missing) > 0 {
			m.focusField(fieldIndex(incomplete.Missing[0]))
		}
		return m, nil
	}

	m.pending = p
	m.blurFields()
	return m, tea.Batch(m.spinner.Tick, waitCheckout(p))
}

func waitCheckout(p *checkout.Pending) tea.Cmd {
	return func() tea.Msg {
		r, err := p.Wait(context.Background())
		return checkoutDoneMsg{receipt: r, err: err}
	}
}

func (m Model) loadOrders() tea.Cmd {
	sess := m.sess
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		orders, err := sess.Orders(ctx)
		return ordersMsg{orders: orders, err: err}
	}
}

func (m Model) pushToast(e notify.Event) (tea.Model, tea.Cmd) {
	m.nextToast++
	id := m.nextToast
	m.toasts = append(m.toasts, toast{id: id, event: e})
	if len(m.toasts) > maxToasts {
		m.toasts = m.toasts[len(m.toasts)-maxToasts:]
	}
	expire := tea.Tick(m.toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
	return m, tea.Batch(m.bridge.nextEvent(), expire)
}

func (m *Model) focusField(i int) {
	m.focus = i
	for j := range m.inputs {
		if j == i {
			m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
}

func (m *Model) blurFields() {
	for j := range m.inputs {
		m.inputs[j].Blur()
	}
}

func (m *Model) resetForm() {
	for j := range m.inputs {
		m.inputs[j].Reset()
	}
	m.focus = 0
	m.blurFields()
}

func fieldIndex(name string) int {
	switch name {
	case checkout.FieldEmail:
		return fieldEmail
	case checkout.FieldAddress:
		return fieldAddress
	case checkout.FieldCardNumber:
		return fieldCardNumber
	case checkout.FieldCardExpiry:
		return fieldCardExpiry
	case checkout.FieldCardCVC:
		return fieldCardCVC
	}
	return fieldName
}

func (m Model) selected(visible []catalog.Product) (catalog.Product, bool) {
	if m.cursor < 0 || m.cursor >= len(visible) {
		return catalog.Product{}, false
	}
	return visible[m.cursor], true
}

// currentCategory is the category shown in the category bar.
func (m Model) currentCategory() string {
	sel := m.sess.Selection()
	if sel.Category == "" {
		return filter.AllCategories
	}
	return sel.Category
}
