// Package shop is the bubbletea storefront: one model rendering the home,
// cart, checkout and profile pages over a session.Session.
package shop

import (
	"time"

	"petshop/cmd/petshop/ui"
	"petshop/internal/catalog"
	"petshop/internal/checkout"
	"petshop/internal/config"
	"petshop/internal/notify"
	"petshop/internal/session"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

// maxToasts is how many notifications are shown at once.
const maxToasts = 3

// Options configures the storefront.
type Options struct {
	Styles         ui.Styles
	ToastDuration  time.Duration
	DefaultPayment checkout.PaymentMethod
}

// Form field indices into Model.inputs.
const (
	fieldName = iota
	fieldEmail
	fieldAddress
	fieldCardNumber
	fieldCardExpiry
	fieldCardCVC
	fieldCount
)

type toast struct {
	id    int
	event notify.Event
}

type toastExpiredMsg struct{ id int }

type checkoutDoneMsg struct {
	receipt checkout.Receipt
	err     error
}

type ordersMsg struct {
	orders []catalog.Order
	err    error
}

// Model is the root bubbletea model.
type Model struct {
	sess   *session.Session
	bridge *Bridge
	styles ui.Styles
	keys   keyMap
	help   help.Model

	width  int
	height int
	page   session.Page

	// home
	cursor     int
	catIndex   int
	search     textinput.Model
	searching  bool
	showDetail bool
	renderer   *glamour.TermRenderer

	// cart
	cartCursor int

	// checkout
	inputs  []textinput.Model
	focus   int
	payment checkout.PaymentMethod
	spinner spinner.Model
	pending *checkout.Pending

	// profile
	profile viewport.Model
	orders  []catalog.Order

	toasts        []toast
	nextToast     int
	toastDuration time.Duration
	lastErr       error
}

// New creates the storefront model. The bridge must be the session's sink
// and navigator.
func New(sess *session.Session, bridge *Bridge, opts Options) Model {
	styles := opts.Styles
	if opts.ToastDuration <= 0 {
		opts.ToastDuration = config.DefaultToastDuration
	}
	if opts.DefaultPayment == "" {
		opts.DefaultPayment = checkout.PaymentCard
	}

	search := textinput.New()
	search.Placeholder = "Search products..."
	search.Prompt = "🔍 "
	search.CharLimit = 64
	search.PromptStyle = styles.Prompt

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	m := Model{
		sess:          sess,
		bridge:        bridge,
		styles:        styles,
		keys:          defaultKeys(),
		help:          help.New(),
		page:          session.PageHome,
		search:        search,
		inputs:        newFormInputs(styles),
		payment:       opts.DefaultPayment,
		spinner:       sp,
		profile:       viewport.New(80, 20),
		toastDuration: opts.ToastDuration,
		width:         80,
		height:        24,
	}
	m.renderer = newRenderer(styles, 80)
	return m
}

func newFormInputs(styles ui.Styles) []textinput.Model {
	placeholders := [fieldCount]string{
		fieldName:       "Full name",
		fieldEmail:      "Email",
		fieldAddress:    "Delivery address",
		fieldCardNumber: "Card number",
		fieldCardExpiry: "MM/YY",
		fieldCardCVC:    "CVC",
	}
	limits := [fieldCount]int{
		fieldName:       80,
		fieldEmail:      120,
		fieldAddress:    160,
		fieldCardNumber: 19,
		fieldCardExpiry: 5,
		fieldCardCVC:    4,
	}

	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = limits[i]
		ti.Prompt = "› "
		ti.PromptStyle = styles.Prompt
		if i == fieldCardCVC {
			ti.EchoMode = textinput.EchoPassword
		}
		inputs[i] = ti
	}
	inputs[fieldName].Focus()
	return inputs
}

func newRenderer(styles ui.Styles, width int) *glamour.TermRenderer {
	style := "light"
	if styles.Theme.IsDark {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(max(width-8, 20)),
	)
	if err != nil {
		return nil
	}
	return r
}

// Init starts listening to the session and loads the order history.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.bridge.nextEvent(),
		m.bridge.nextPage(),
		m.loadOrders(),
	)
}

// Page returns the page being shown.
func (m Model) Page() session.Page {
	return m.page
}

// form collects the checkout inputs.
func (m Model) form() checkout.Form {
	return checkout.Form{
		Name:          m.inputs[fieldName].Value(),
		Email:         m.inputs[fieldEmail].Value(),
		Address:       m.inputs[fieldAddress].Value(),
		PaymentMethod: m.payment,
		CardNumber:    m.inputs[fieldCardNumber].Value(),
		CardExpiry:    m.inputs[fieldCardExpiry].Value(),
		CardCVC:       m.inputs[fieldCardCVC].Value(),
	}
}

// visibleFields is the number of form inputs shown for the payment method.
func (m Model) visibleFields() int {
	if m.form().RequiresCard() {
		return fieldCount
	}
	return fieldCardNumber
}
