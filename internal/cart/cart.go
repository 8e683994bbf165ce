// Package cart implements the cart ledger: an ordered, immutable list of line
// items keyed by product id, with stock-bounded add and step operations.
//
// Every operation returns a new Cart and leaves its input untouched, so a
// snapshot handed to a reader never changes underneath it.
package cart

import (
	"errors"
	"fmt"

	"petshop/internal/catalog"

	"github.com/shopspring/decimal"
)

var (
	// ErrInsufficientStock is returned when a quantity would exceed the
	// product's stock.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInvalidQuantity is returned for non-positive add quantities.
	ErrInvalidQuantity = errors.New("quantity must be positive")

	// ErrInvalidDelta is returned when Step is called with a delta other
	// than +1 or -1.
	ErrInvalidDelta = errors.New("delta must be +1 or -1")
)

// Outcome tags why a ledger operation changed (or did not change) the cart.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeAdded
	OutcomeMerged
	OutcomeUpdated
	OutcomeRemoved
	OutcomeInsufficientStock
	OutcomeRejected
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeAdded:
		return "added"
	case OutcomeMerged:
		return "merged"
	case OutcomeUpdated:
		return "updated"
	case OutcomeRemoved:
		return "removed"
	case OutcomeInsufficientStock:
		return "insufficient_stock"
	case OutcomeRejected:
		return "rejected"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// LineItem is one cart entry.
type LineItem struct {
	catalog.Product
	Quantity int
}

// Subtotal is price times quantity.
func (l LineItem) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is an immutable snapshot of the ledger. The zero value is an empty cart.
type Cart struct {
	items []LineItem
}

// New builds a cart from line items, keeping the first occurrence of each
// product id and dropping non-positive quantities.
func New(items ...LineItem) Cart {
	out := make([]LineItem, 0, len(items))
	seen := make(map[int]bool, len(items))
	for _, it := range items {
		if it.Quantity <= 0 || seen[it.ID] {
			continue
		}
		seen[it.ID] = true
		out = append(out, it)
	}
	return Cart{items: out}
}

// Items returns a copy of the line items in cart order.
func (c Cart) Items() []LineItem {
	return append([]LineItem(nil), c.items...)
}

// Len is the number of distinct line items.
func (c Cart) Len() int {
	return len(c.items)
}

// IsEmpty reports whether the cart has no line items.
func (c Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// Units is the sum of all quantities.
func (c Cart) Units() int {
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

// Total is the sum of price times quantity, recomputed on every call.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// Find returns the line item for a product id.
func (c Cart) Find(productID int) (LineItem, bool) {
	if i := c.indexOf(productID); i >= 0 {
		return c.items[i], true
	}
	return LineItem{}, false
}

func (c Cart) indexOf(productID int) int {
	for i, it := range c.items {
		if it.ID == productID {
			return i
		}
	}
	return -1
}

// withQuantity returns a copy of c with item i set to qty.
func (c Cart) withQuantity(i, qty int) Cart {
	items := c.Items()
	items[i].Quantity = qty
	return Cart{items: items}
}

// Add puts quantity units of p into the cart. A new product is appended; an
// existing line item is merged in place. The cart is returned unchanged when
// the resulting quantity would exceed p.Stock or quantity is not positive.
func Add(c Cart, p catalog.Product, quantity int) (Cart, Outcome, error) {
	if quantity <= 0 {
		return c, OutcomeRejected, fmt.Errorf("%w: %d", ErrInvalidQuantity, quantity)
	}

	i := c.indexOf(p.ID)
	if i < 0 {
		if quantity > p.Stock {
			return c, OutcomeInsufficientStock, fmt.Errorf("%w: %d requested, %d available", ErrInsufficientStock, quantity, p.Stock)
		}
		items := make([]LineItem, len(c.items), len(c.items)+1)
		copy(items, c.items)
		return Cart{items: append(items, LineItem{Product: p, Quantity: quantity})}, OutcomeAdded, nil
	}

	proposed := c.items[i].Quantity + quantity
	if proposed > p.Stock {
		return c, OutcomeInsufficientStock, fmt.Errorf("%w: %d requested, %d available", ErrInsufficientStock, proposed, p.Stock)
	}
	return c.withQuantity(i, proposed), OutcomeMerged, nil
}

// UpdateQuantity sets a line item's quantity. A non-positive quantity removes
// the line; an absent product id is a no-op.
//
// Unlike Add and Step this does not check stock: callers are expected to have
// validated the quantity already. The asymmetry is kept deliberately since
// direct quantity edits may depend on it, but it allows a line to exceed
// stock if misused.
func UpdateQuantity(c Cart, productID, quantity int) Cart {
	if quantity <= 0 {
		return Remove(c, productID)
	}
	i := c.indexOf(productID)
	if i < 0 {
		return c
	}
	return c.withQuantity(i, quantity)
}

// Remove drops the line item for productID. Removing an absent id returns c.
func Remove(c Cart, productID int) Cart {
	i := c.indexOf(productID)
	if i < 0 {
		return c
	}
	items := make([]LineItem, 0, len(c.items)-1)
	items = append(items, c.items[:i]...)
	items = append(items, c.items[i+1:]...)
	return Cart{items: items}
}

// Clear returns an empty cart.
func Clear(Cart) Cart {
	return Cart{}
}

// Step moves a line item's quantity by one. Dropping below one removes the
// line; rising above p.Stock is rejected. Stepping a product that is not in
// the cart is a no-op.
func Step(c Cart, productID, delta int, p catalog.Product) (Cart, Outcome, error) {
	if delta != 1 && delta != -1 {
		return c, OutcomeRejected, fmt.Errorf("%w: %d", ErrInvalidDelta, delta)
	}
	it, ok := c.Find(productID)
	if !ok {
		return c, OutcomeNone, nil
	}

	next := it.Quantity + delta
	switch {
	case next < 1:
		return Remove(c, productID), OutcomeRemoved, nil
	case next > p.Stock:
		return c, OutcomeInsufficientStock, fmt.Errorf("%w: %d requested, %d available", ErrInsufficientStock, next, p.Stock)
	}
	return UpdateQuantity(c, productID, next), OutcomeUpdated, nil
}
