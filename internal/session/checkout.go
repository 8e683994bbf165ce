package session

import (
	"context"
	"time"

	"petshop/internal/cart"
	"petshop/internal/catalog"
	"petshop/internal/checkout"
	"petshop/internal/logging"
	"petshop/internal/notify"

	"github.com/google/uuid"
)

// ConfirmCheckout validates the form against the current cart and schedules
// the simulated payment. An empty cart sends the shopper home; an incomplete
// form changes nothing. Confirming again while a completion is pending
// returns a handle on the same completion.
func (s *Session) ConfirmCheckout(form checkout.Form) (*checkout.Pending, error) {
	s.mu.Lock()
	if s.cart.IsEmpty() {
		s.mu.Unlock()
		logging.CheckoutWarn("checkout attempted with empty cart")
		s.emit(notify.New(notify.EmptyCartCheckout, 0, "Your cart is empty."))
		s.Navigate(PageHome)
		return nil, checkout.ErrEmptyCart
	}
	if err := form.Validate(); err != nil {
		s.mu.Unlock()
		logging.CheckoutWarn("checkout form incomplete: %v", err)
		s.emit(notify.New(notify.FormIncomplete, 0, "Fill in all required fields before continuing."))
		return nil, err
	}

	// Scheduling under the lock keeps the emptiness check and the
	// registration of the completion atomic with respect to complete().
	pending := s.finalizer.Schedule(s.id, func() (checkout.Receipt, error) {
		return s.complete(form.PaymentMethod)
	})
	s.mu.Unlock()

	if !pending.Joined() {
		logging.Checkout("checkout scheduled via %s, completes in %s", form.PaymentMethod.Label(), s.finalizer.Delay())
	}
	return pending, nil
}

// CheckoutPending reports whether a checkout completion is scheduled.
func (s *Session) CheckoutPending() bool {
	return s.finalizer.IsPending(s.id)
}

// complete runs on the finalizer's goroutine once the delay elapses. The
// order is recorded and the cart cleared in one critical section.
func (s *Session) complete(method checkout.PaymentMethod) (checkout.Receipt, error) {
	s.mu.Lock()
	snapshot := s.cart
	if snapshot.IsEmpty() {
		s.mu.Unlock()
		return checkout.Receipt{}, checkout.ErrEmptyCart
	}

	receipt := checkout.Receipt{
		OrderID:     uuid.NewString(),
		Total:       snapshot.Total(),
		Lines:       snapshot.Len(),
		Units:       snapshot.Units(),
		CompletedAt: time.Now(),
	}
	order := catalog.Order{
		ID:        receipt.OrderID,
		Date:      receipt.CompletedAt,
		Total:     receipt.Total,
		Status:    catalog.StatusProcessing,
		ItemCount: receipt.Units,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.orders.Add(ctx, order); err != nil {
		s.mu.Unlock()
		logging.Get(logging.CategoryCheckout).Error("failed to record order: %v", err)
		return checkout.Receipt{}, err
	}
	s.cart = cart.Clear(snapshot)
	s.mu.Unlock()

	logging.Checkout("checkout completed: order %s, %s total, %d units via %s",
		order.ID, order.Total.StringFixed(2), order.ItemCount, method.Label())
	s.emit(notify.New(notify.CheckoutCompleted, 0, "Purchase completed successfully!"))
	s.Navigate(PageProfile)
	return receipt, nil
}
