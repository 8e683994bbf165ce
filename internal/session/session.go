// Package session holds the shopper's state: cart, favorites and catalog
// selection. A Session is the only place that state is mutated; every
// mutator takes the session lock and hands back immutable snapshots, so the
// TUI goroutine and the checkout completion timer can share one Session.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"petshop/internal/cart"
	"petshop/internal/catalog"
	"petshop/internal/checkout"
	"petshop/internal/favorites"
	"petshop/internal/filter"
	"petshop/internal/logging"
	"petshop/internal/notify"
	"petshop/internal/orders"

	"github.com/google/uuid"
)

// Page is a navigation target.
type Page int

const (
	PageHome Page = iota
	PageCart
	PageCheckout
	PageProfile
)

func (p Page) String() string {
	switch p {
	case PageHome:
		return "home"
	case PageCart:
		return "cart"
	case PageCheckout:
		return "checkout"
	case PageProfile:
		return "profile"
	}
	return fmt.Sprintf("page(%d)", int(p))
}

// Navigator receives navigation intents. The session never renders pages
// itself; it only says where the shopper should go next.
type Navigator interface {
	Navigate(Page)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(Page)

// Navigate calls f(p).
func (f NavigatorFunc) Navigate(p Page) { f(p) }

// Options configures New.
type Options struct {
	Catalog *catalog.Catalog

	// Orders is the order history. When nil, New opens an in-memory store
	// seeded from the catalog and Close releases it.
	Orders *orders.Store

	Sink      notify.Sink
	Navigator Navigator

	// CheckoutDelay is the simulated payment latency.
	CheckoutDelay time.Duration
}

// Session is the state holder for one shopper.
type Session struct {
	id        string
	catalog   *catalog.Catalog
	orders    *orders.Store
	ownOrders bool
	finalizer *checkout.Finalizer
	sink      notify.Sink
	nav       Navigator

	mu        sync.Mutex
	cart      cart.Cart
	favorites favorites.Set
	selection filter.Selection
	page      Page
}

// New creates a session with an empty cart and no favorites.
func New(ctx context.Context, opts Options) (*Session, error) {
	if opts.Catalog == nil {
		return nil, fmt.Errorf("session requires a catalog")
	}

	s := &Session{
		id:        uuid.NewString(),
		catalog:   opts.Catalog,
		orders:    opts.Orders,
		finalizer: checkout.NewFinalizer(opts.CheckoutDelay),
		sink:      opts.Sink,
		nav:       opts.Navigator,
		selection: filter.DefaultSelection(),
		page:      PageHome,
	}
	if s.sink == nil {
		s.sink = notify.Discard
	}
	if s.nav == nil {
		s.nav = NavigatorFunc(func(Page) {})
	}

	if s.orders == nil {
		store, err := orders.Open(ctx)
		if err != nil {
			return nil, err
		}
		if err := store.Seed(ctx, opts.Catalog.Orders()); err != nil {
			_ = store.Close()
			return nil, err
		}
		s.orders = store
		s.ownOrders = true
	}

	logging.Session("session %s started (%d products, checkout delay %s)",
		s.id, opts.Catalog.Len(), s.finalizer.Delay())
	return s, nil
}

// Close releases the order store if the session opened it. A pending
// checkout completion may still fire afterwards and will fail to record
// its order.
func (s *Session) Close() error {
	if s.ownOrders {
		return s.orders.Close()
	}
	return nil
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// Catalog returns the session's catalog.
func (s *Session) Catalog() *catalog.Catalog {
	return s.catalog
}

// Product looks up a catalog product.
func (s *Session) Product(id int) (catalog.Product, error) {
	return s.catalog.Get(id)
}

// Categories returns the category bar: "all" followed by the catalog's
// categories.
func (s *Session) Categories() []string {
	return filter.Categories(s.catalog.Categories())
}

// SetCategory selects a category. filter.AllCategories shows everything.
func (s *Session) SetCategory(category string) {
	s.mu.Lock()
	s.selection.Category = category
	s.mu.Unlock()
	logging.SessionDebug("category set to %q", category)
}

// SetSearch sets the free-text search term.
func (s *Session) SetSearch(term string) {
	s.mu.Lock()
	s.selection.Search = term
	s.mu.Unlock()
}

// Selection returns the current selection.
func (s *Session) Selection() filter.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection
}

// Visible returns the products matching the current selection.
func (s *Session) Visible() []catalog.Product {
	sel := s.Selection()
	return filter.Visible(s.catalog.Products(), sel)
}

// Page returns the last page navigated to.
func (s *Session) Page() Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// Navigate records p as the current page and forwards it to the navigator.
func (s *Session) Navigate(p Page) {
	s.mu.Lock()
	s.page = p
	s.mu.Unlock()
	s.nav.Navigate(p)
}

// Orders returns the order history, newest first.
func (s *Session) Orders(ctx context.Context) ([]catalog.Order, error) {
	return s.orders.List(ctx)
}

func (s *Session) emit(e notify.Event) {
	logging.Get(logging.CategoryNotify).Debug("%s: %s", e.Kind, e.Message)
	s.sink.Notify(e)
}
