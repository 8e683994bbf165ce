// Package checkout validates the checkout form and schedules the simulated
// payment completion.
package checkout

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrFormIncomplete matches any *IncompleteError.
	ErrFormIncomplete = errors.New("checkout form incomplete")

	// ErrEmptyCart is returned when checkout is attempted with no line items.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrUnknownPayment is returned by ParsePaymentMethod.
	ErrUnknownPayment = errors.New("unknown payment method")
)

// PaymentMethod selects which form fields are required.
type PaymentMethod string

const (
	PaymentCard PaymentMethod = "card"
	PaymentPix  PaymentMethod = "pix"
)

// ParsePaymentMethod accepts "card" (also "creditcard") and "pix".
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "card", "creditcard", "credit_card":
		return PaymentCard, nil
	case "pix":
		return PaymentPix, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPayment, s)
}

// Label is the display name.
func (m PaymentMethod) Label() string {
	switch m {
	case PaymentCard:
		return "Credit card"
	case PaymentPix:
		return "PIX"
	}
	return string(m)
}

// Field names reported in IncompleteError.Missing.
const (
	FieldName       = "name"
	FieldEmail      = "email"
	FieldAddress    = "address"
	FieldCardNumber = "card_number"
	FieldCardExpiry = "card_expiry"
	FieldCardCVC    = "card_cvc"
)

// Form is the buyer and payment data. Validation is presence-only.
type Form struct {
	Name          string
	Email         string
	Address       string
	PaymentMethod PaymentMethod
	CardNumber    string
	CardExpiry    string
	CardCVC       string
}

// NewForm returns an empty form with the given payment method.
func NewForm(method PaymentMethod) Form {
	if method == "" {
		method = PaymentCard
	}
	return Form{PaymentMethod: method}
}

// RequiresCard reports whether the card fields are required. An unset
// method is treated as card, the form's default.
func (f Form) RequiresCard() bool {
	return f.PaymentMethod == PaymentCard || f.PaymentMethod == ""
}

// Missing lists required fields that are blank.
func (f Form) Missing() []string {
	var missing []string
	check := func(name, v string) {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	check(FieldName, f.Name)
	check(FieldEmail, f.Email)
	check(FieldAddress, f.Address)
	if f.RequiresCard() {
		check(FieldCardNumber, f.CardNumber)
		check(FieldCardExpiry, f.CardExpiry)
		check(FieldCardCVC, f.CardCVC)
	}
	return missing
}

// Validate returns an *IncompleteError when any required field is blank.
func (f Form) Validate() error {
	if missing := f.Missing(); len(missing) > 0 {
		return &IncompleteError{Missing: missing}
	}
	return nil
}

// IncompleteError lists the blank required fields.
type IncompleteError struct {
	Missing []string
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("%s: missing %s", ErrFormIncomplete, strings.Join(e.Missing, ", "))
}

// Is makes errors.Is(err, ErrFormIncomplete) true.
func (e *IncompleteError) Is(target error) bool {
	return target == ErrFormIncomplete
}
