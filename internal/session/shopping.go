package session

import (
	"petshop/internal/cart"
	"petshop/internal/catalog"
	"petshop/internal/favorites"
	"petshop/internal/logging"
	"petshop/internal/notify"

	"github.com/shopspring/decimal"
)

// Cart returns the current cart snapshot.
func (s *Session) Cart() cart.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart
}

// Total returns the cart total.
func (s *Session) Total() decimal.Decimal {
	return s.Cart().Total()
}

// AddToCart adds quantity units of a catalog product. The returned outcome
// is also reported to the sink, except for unknown products and
// non-positive quantities which only return an error.
func (s *Session) AddToCart(productID, quantity int) (cart.Outcome, error) {
	p, err := s.catalog.Get(productID)
	if err != nil {
		return cart.OutcomeRejected, err
	}

	s.mu.Lock()
	next, outcome, err := cart.Add(s.cart, p, quantity)
	s.cart = next
	s.mu.Unlock()

	logging.CartDebug("add %d x %d: %s", quantity, productID, outcome)
	switch outcome {
	case cart.OutcomeAdded:
		s.emit(notify.New(notify.Added, p.ID, "%s added to cart!", p.Name))
	case cart.OutcomeMerged:
		s.emit(notify.New(notify.Merged, p.ID, "More %s added to cart!", p.Name))
	case cart.OutcomeInsufficientStock:
		s.emit(notify.New(notify.InsufficientStock, p.ID, "Insufficient stock! Could not add %s.", p.Name))
	}
	return outcome, err
}

// StepQuantity moves a line's quantity by delta (+1 or -1).
func (s *Session) StepQuantity(productID, delta int) (cart.Outcome, error) {
	s.mu.Lock()
	p, ok := s.productFor(productID)
	if !ok {
		s.mu.Unlock()
		return cart.OutcomeNone, nil
	}
	next, outcome, err := cart.Step(s.cart, productID, delta, p)
	s.cart = next
	qty := 0
	if it, found := next.Find(productID); found {
		qty = it.Quantity
	}
	s.mu.Unlock()

	switch outcome {
	case cart.OutcomeRemoved:
		s.emit(notify.New(notify.Removed, p.ID, "Removed %s from cart.", p.Name))
	case cart.OutcomeInsufficientStock:
		s.emit(notify.New(notify.InsufficientStock, p.ID, "Insufficient stock!"))
	case cart.OutcomeUpdated:
		s.emit(notify.New(notify.Updated, p.ID, "%s quantity set to %d.", p.Name, qty))
	}
	return outcome, err
}

// UpdateQuantity sets a line's quantity directly. As with cart.UpdateQuantity
// no stock check is made; a non-positive quantity removes the line.
func (s *Session) UpdateQuantity(productID, quantity int) {
	s.mu.Lock()
	p, inCart := s.cart.Find(productID)
	s.cart = cart.UpdateQuantity(s.cart, productID, quantity)
	s.mu.Unlock()

	if !inCart {
		return
	}
	if quantity <= 0 {
		s.emit(notify.New(notify.Removed, productID, "Removed %s from cart.", p.Name))
		return
	}
	s.emit(notify.New(notify.Updated, productID, "%s quantity set to %d.", p.Name, quantity))
}

// RemoveFromCart drops a line. Removing an absent product does nothing.
func (s *Session) RemoveFromCart(productID int) {
	s.mu.Lock()
	it, ok := s.cart.Find(productID)
	s.cart = cart.Remove(s.cart, productID)
	s.mu.Unlock()

	if ok {
		s.emit(notify.New(notify.Removed, productID, "Removed %s from cart.", it.Name))
	}
}

// ClearCart empties the cart.
func (s *Session) ClearCart() {
	s.mu.Lock()
	s.cart = cart.Clear(s.cart)
	s.mu.Unlock()
	logging.Cart("cart cleared")
}

// ToggleFavorite adds or removes a product id from the favorites.
func (s *Session) ToggleFavorite(productID int) favorites.Outcome {
	s.mu.Lock()
	next, outcome := favorites.Toggle(s.favorites, productID)
	s.favorites = next
	s.mu.Unlock()

	logging.Get(logging.CategoryFavorites).Debug("favorite %d: %s", productID, outcome)
	if outcome == favorites.Added {
		s.emit(notify.New(notify.FavoriteAdded, productID, "Added to favorites!"))
	} else {
		s.emit(notify.New(notify.FavoriteRemoved, productID, "Removed from favorites."))
	}
	return outcome
}

// Favorites returns the favorites snapshot.
func (s *Session) Favorites() favorites.Set {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.favorites
}

// IsFavorite reports whether a product is a favorite.
func (s *Session) IsFavorite(productID int) bool {
	return s.Favorites().Contains(productID)
}

// productFor resolves the stock bound for a line: the catalog entry, or
// the product carried by the line when the catalog no longer has it.
// Callers hold s.mu.
func (s *Session) productFor(productID int) (catalog.Product, bool) {
	if p, ok := s.catalog.Lookup(productID); ok {
		return p, true
	}
	if it, ok := s.cart.Find(productID); ok {
		return it.Product, true
	}
	return catalog.Product{}, false
}
