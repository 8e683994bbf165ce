package checkout

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filledForm(method PaymentMethod) Form {
	return Form{
		Name:          "Ana",
		Email:         "ana@example.com",
		Address:       "Rua A, 1",
		PaymentMethod: method,
		CardNumber:    "4111111111111111",
		CardExpiry:    "12/30",
		CardCVC:       "123",
	}
}

func TestValidateComplete(t *testing.T) {
	assert.NoError(t, filledForm(PaymentCard).Validate())
	assert.NoError(t, filledForm(PaymentPix).Validate())
}

func TestPixDoesNotRequireCardFields(t *testing.T) {
	f := filledForm(PaymentPix)
	f.CardNumber, f.CardExpiry, f.CardCVC = "", "", ""
	assert.NoError(t, f.Validate())
}

func TestCardRequiresCardFields(t *testing.T) {
	f := filledForm(PaymentCard)
	f.CardCVC = ""
	f.CardExpiry = "   "

	err := f.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFormIncomplete))

	var inc *IncompleteError
	require.True(t, errors.As(err, &inc))
	assert.Equal(t, []string{FieldCardExpiry, FieldCardCVC}, inc.Missing)
	assert.Contains(t, err.Error(), "card_expiry, card_cvc")
}

func TestEmptyFormListsEverything(t *testing.T) {
	f := NewForm("")
	assert.Equal(t, PaymentCard, f.PaymentMethod)
	assert.Equal(t, []string{
		FieldName, FieldEmail, FieldAddress,
		FieldCardNumber, FieldCardExpiry, FieldCardCVC,
	}, f.Missing())

	assert.Equal(t, []string{FieldName, FieldEmail, FieldAddress}, NewForm(PaymentPix).Missing())
}

func TestParsePaymentMethod(t *testing.T) {
	m, err := ParsePaymentMethod("creditCard")
	require.NoError(t, err)
	assert.Equal(t, PaymentCard, m)

	m, err = ParsePaymentMethod(" PIX ")
	require.NoError(t, err)
	assert.Equal(t, PaymentPix, m)
	assert.Equal(t, "PIX", m.Label())

	_, err = ParsePaymentMethod("boleto")
	assert.ErrorIs(t, err, ErrUnknownPayment)
}
