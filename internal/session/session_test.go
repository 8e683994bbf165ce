package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"petshop/internal/cart"
	"petshop/internal/catalog"
	"petshop/internal/checkout"
	"petshop/internal/favorites"
	"petshop/internal/filter"
	"petshop/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// pageLog records navigation intents.
type pageLog struct {
	mu    sync.Mutex
	pages []Page
}

func (l *pageLog) Navigate(p Page) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pages = append(l.pages, p)
}

func (l *pageLog) Pages() []Page {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Page(nil), l.pages...)
}

type fixture struct {
	s   *Session
	rec *notify.Recorder
	nav *pageLog
}

func newFixture(t *testing.T, delay time.Duration) *fixture {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)

	f := &fixture{rec: notify.NewRecorder(0), nav: &pageLog{}}
	f.s, err = New(context.Background(), Options{
		Catalog:       c,
		Sink:          f.rec,
		Navigator:     f.nav,
		CheckoutDelay: delay,
	})
	require.NoError(t, err)
	return f
}

func completeForm() checkout.Form {
	return checkout.Form{
		Name:          "Ana",
		Email:         "ana@example.com",
		Address:       "Rua A, 1",
		PaymentMethod: checkout.PaymentPix,
	}
}

func TestNewRequiresCatalog(t *testing.T) {
	_, err := New(context.Background(), Options{})
	assert.Error(t, err)
}

func TestNewSeedsOrderHistory(t *testing.T) {
	f := newFixture(t, 0)
	defer f.s.Close()

	got, err := f.s.Orders(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.NotEmpty(t, f.s.ID())
	assert.Equal(t, PageHome, f.s.Page())
}

func TestAddStepScenario(t *testing.T) {
	f := newFixture(t, 0)
	defer f.s.Close()

	out, err := f.s.AddToCart(1, 1)
	require.NoError(t, err)
	assert.Equal(t, cart.OutcomeAdded, out)

	out, err = f.s.AddToCart(1, 20)
	assert.ErrorIs(t, err, cart.ErrInsufficientStock)
	assert.Equal(t, cart.OutcomeInsufficientStock, out)
	it, ok := f.s.Cart().Find(1)
	require.True(t, ok)
	assert.Equal(t, 1, it.Quantity)

	out, err = f.s.StepQuantity(1, -1)
	require.NoError(t, err)
	assert.Equal(t, cart.OutcomeRemoved, out)
	assert.True(t, f.s.Cart().IsEmpty())

	assert.Equal(t, []notify.Kind{notify.Added, notify.InsufficientStock, notify.Removed}, f.rec.Kinds())
	last, _ := f.rec.Last()
	assert.Contains(t, last.Message, "Sticky Invisibility Potion")
}

func TestAddMergesAndNamesProduct(t *testing.T) {
	f := newFixture(t, 0)
	defer f.s.Close()

	_, _ = f.s.AddToCart(5, 1)
	out, err := f.s.AddToCart(5, 2)
	require.NoError(t, err)
	assert.Equal(t, cart.OutcomeMerged, out)

	last, _ := f.rec.Last()
	assert.Equal(t, notify.Merged, last.Kind)
	assert.Equal(t, "More Silent Meow Drops added to cart!", last.Message)
	assert.Equal(t, 1, f.s.Cart().Len())
	assert.Equal(t, 3, f.s.Cart().Units())
}

func TestAddUnknownProduct(t *testing.T) {
	f := newFixture(t, 0)
	defer f.s.Close()

	_, err := f.s.AddToCart(999, 1)
	assert.ErrorIs(t, err, catalog.ErrProductNotFound)
	assert.Empty(t, f.rec.Events())
}

func TestAddInvalidQuantityEmitsNothing(t *testing.T) {
	f := newFixture(t, 0)
	defer f.s.Close()

	_, err := f.s.AddToCart(1, 0)
	assert.ErrorIs(t, err, cart.ErrInvalidQuantity)
	assert.Empty(t, f.rec.Events())
}

func TestStepUpAndStockBound(t *testing.T) {
	f := newFixture(t, 0)
	defer f.s.Close()

	// product 2 has stock 8
	_, err := f.s.AddToCart(2, 7)
	require.NoError(t, err)

	out, err := f.s.StepQuantity(2, 1)
	require.NoError(t, err)
	assert.Equal(t, cart.OutcomeUpdated, out)

	out, err = f.s.StepQuantity(2, 1)
	assert.ErrorIs(t, err, cart.ErrInsufficientStock)
	assert.Equal(t, cart.OutcomeInsufficientStock, out)

	it, _ := f.s.Cart().Find(2)
	assert.Equal(t, 8, it.Quantity)

	out, err = f.s.StepQuantity(3, 1)
	require.NoError(t, err)
	assert.Equal(t, cart.OutcomeNone, out)
}

func TestUpdateAndRemove(t *testing.T) {
	f := newFixture(t, 0)
	defer f.s.Close()

	_, _ = f.s.AddToCart(3, 1)
	f.s.UpdateQuantity(3, 4)
	it, _ := f.s.Cart().Find(3)
	assert.Equal(t, 4, it.Quantity)

	f.s.UpdateQuantity(42, 4)
	assert.Equal(t, 1, f.s.Cart().Len())

	f.rec.Reset()
	f.s.RemoveFromCart(3)
	f.s.RemoveFromCart(3)
	assert.True(t, f.s.Cart().IsEmpty())
	assert.Equal(t, []notify.Kind{notify.Removed}, f.rec.Kinds())
}

func TestTotalAndClear(t *testing.T) {
	f := newFixture(t, 0)
	defer f.s.Close()

	_, _ = f.s.AddToCart(1, 2) // 179.80
	_, _ = f.s.AddToCart(3, 1) // 45.90
	assert.Equal(t, "225.70", f.s.Total().StringFixed(2))

	f.s.ClearCart()
	assert.True(t, f.s.Total().IsZero())
}

func TestSnapshotsAreStable(t *testing.T) {
	f := newFixture(t, 0)
	defer f.s.Close()

	_, _ = f.s.AddToCart(1, 1)
	before := f.s.Cart()
	_, _ = f.s.AddToCart(2, 1)
	f.s.UpdateQuantity(1, 3)

	assert.Equal(t, 1, before.Len())
	it, _ := before.Find(1)
	assert.Equal(t, 1, it.Quantity)
}

func TestFavorites(t *testing.T) {
	f := newFixture(t, 0)
	defer f.s.Close()

	assert.Equal(t, favorites.Added, f.s.ToggleFavorite(4))
	assert.True(t, f.s.IsFavorite(4))
	assert.Equal(t, favorites.Removed, f.s.ToggleFavorite(4))
	assert.False(t, f.s.IsFavorite(4))

	// ids outside the catalog are accepted
	assert.Equal(t, favorites.Added, f.s.ToggleFavorite(999))
	assert.Equal(t, []int{999}, f.s.Favorites().IDs())

	assert.Equal(t, []notify.Kind{notify.FavoriteAdded, notify.FavoriteRemoved, notify.FavoriteAdded}, f.rec.Kinds())
}

func TestSelection(t *testing.T) {
	f := newFixture(t, 0)
	defer f.s.Close()

	assert.Equal(t, filter.DefaultSelection(), f.s.Selection())
	assert.Len(t, f.s.Visible(), 8)

	cats := f.s.Categories()
	require.NotEmpty(t, cats)
	assert.Equal(t, filter.AllCategories, cats[0])

	f.s.SetCategory("Drops")
	vis := f.s.Visible()
	require.Len(t, vis, 1)
	assert.Equal(t, 5, vis[0].ID)

	f.s.SetCategory(filter.AllCategories)
	// matches one name and one description
	f.s.SetSearch("SLEEP")
	vis = f.s.Visible()
	require.Len(t, vis, 2)
	assert.Equal(t, 2, vis[0].ID)
	assert.Equal(t, 8, vis[1].ID)

	f.s.SetSearch("no such thing")
	assert.Empty(t, f.s.Visible())
}

func TestNavigate(t *testing.T) {
	f := newFixture(t, 0)
	defer f.s.Close()

	f.s.Navigate(PageCart)
	assert.Equal(t, PageCart, f.s.Page())
	assert.Equal(t, []Page{PageCart}, f.nav.Pages())
	assert.Equal(t, "cart", PageCart.String())
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newFixture(t, 0)
	defer f.s.Close()

	p, err := f.s.ConfirmCheckout(completeForm())
	assert.Nil(t, p)
	assert.ErrorIs(t, err, checkout.ErrEmptyCart)
	assert.Equal(t, []notify.Kind{notify.EmptyCartCheckout}, f.rec.Kinds())
	assert.Equal(t, []Page{PageHome}, f.nav.Pages())
	assert.False(t, f.s.CheckoutPending())
}

func TestCheckoutIncompleteForm(t *testing.T) {
	f := newFixture(t, 0)
	defer f.s.Close()

	_, _ = f.s.AddToCart(1, 1)
	f.rec.Reset()

	form := completeForm()
	form.PaymentMethod = checkout.PaymentCard
	p, err := f.s.ConfirmCheckout(form)
	assert.Nil(t, p)
	assert.ErrorIs(t, err, checkout.ErrFormIncomplete)

	var incomplete *checkout.IncompleteError
	require.True(t, errors.As(err, &incomplete))
	assert.Contains(t, incomplete.Missing, checkout.FieldCardNumber)

	assert.Equal(t, []notify.Kind{notify.FormIncomplete}, f.rec.Kinds())
	assert.Empty(t, f.nav.Pages())
	assert.Equal(t, 1, f.s.Cart().Len())
}

func TestCheckoutPixCompletes(t *testing.T) {
	defer goleak.VerifyNone(t)
	f := newFixture(t, 20*time.Millisecond)
	defer f.s.Close()

	_, _ = f.s.AddToCart(1, 2)
	_, _ = f.s.AddToCart(3, 1)
	f.rec.Reset()

	p, err := f.s.ConfirmCheckout(completeForm())
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.True(t, f.s.CheckoutPending())
	assert.Equal(t, 2, f.s.Cart().Len(), "cart stays populated until completion")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	receipt, err := p.Wait(ctx)
	require.NoError(t, err)

	assert.Equal(t, "225.70", receipt.Total.StringFixed(2))
	assert.Equal(t, 2, receipt.Lines)
	assert.Equal(t, 3, receipt.Units)
	assert.True(t, f.s.Cart().IsEmpty())
	assert.False(t, f.s.CheckoutPending())
	assert.Equal(t, []notify.Kind{notify.CheckoutCompleted}, f.rec.Kinds())
	assert.Equal(t, []Page{PageProfile}, f.nav.Pages())

	history, err := f.s.Orders(context.Background())
	require.NoError(t, err)
	require.Len(t, history, 4)
	assert.Equal(t, receipt.OrderID, history[0].ID)
	assert.Equal(t, catalog.StatusProcessing, history[0].Status)
	assert.Equal(t, 3, history[0].ItemCount)
}

func TestCheckoutDoubleSubmitCompletesOnce(t *testing.T) {
	defer goleak.VerifyNone(t)
	f := newFixture(t, 50*time.Millisecond)
	defer f.s.Close()

	_, _ = f.s.AddToCart(1, 1)
	f.rec.Reset()

	first, err := f.s.ConfirmCheckout(completeForm())
	require.NoError(t, err)
	second, err := f.s.ConfirmCheckout(completeForm())
	require.NoError(t, err)
	assert.False(t, first.Joined())
	assert.True(t, second.Joined())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	r1, err := first.Wait(ctx)
	require.NoError(t, err)
	r2, err := second.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, r1.OrderID, r2.OrderID)

	assert.Equal(t, []notify.Kind{notify.CheckoutCompleted}, f.rec.Kinds())
	history, err := f.s.Orders(context.Background())
	require.NoError(t, err)
	assert.Len(t, history, 4)

	// After completion the cart is empty, so a further confirm is rejected.
	_, err = f.s.ConfirmCheckout(completeForm())
	assert.ErrorIs(t, err, checkout.ErrEmptyCart)
}

func TestConcurrentMutations(t *testing.T) {
	f := newFixture(t, 0)
	defer f.s.Close()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_, _ = f.s.AddToCart(id, 1)
				_, _ = f.s.StepQuantity(id, -1)
				f.s.ToggleFavorite(id)
			}
		}(i%8 + 1)
	}
	wg.Wait()

	for _, it := range f.s.Cart().Items() {
		assert.LessOrEqual(t, it.Quantity, it.Stock)
		assert.GreaterOrEqual(t, it.Quantity, 1)
	}
}
