package billing

import (
	"testing"

	"github.com/dentallab/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPayment(t *testing.T) {
	clientID := uuid.New()
	amount := valueobject.NewMoneyEUR(dec("150.00"))

	payment, err := NewPayment(clientID, amount, PaymentMethodBankTransfer, "stmt-2026-08-0042")
	require.NoError(t, err)

	assert.Equal(t, clientID, payment.ClientID)
	assert.True(t, payment.AmountTotal.Equal(dec("150.00")))
	assert.Equal(t, valueobject.EUR, payment.Currency)
	assert.Equal(t, PaymentStatusRegistered, payment.Status)
	assert.NotEqual(t, uuid.Nil, payment.ID)
}

func TestNewPayment_Validation(t *testing.T) {
	amount := valueobject.NewMoneyEUR(dec("10.00"))

	_, err := NewPayment(uuid.Nil, amount, PaymentMethodCash, "retry-key-001")
	assert.Error(t, err)

	_, err = NewPayment(uuid.New(), valueobject.ZeroEUR(), PaymentMethodCash, "retry-key-001")
	assert.Error(t, err)

	_, err = NewPayment(uuid.New(), amount, PaymentMethod("WIRE"), "retry-key-001")
	assert.Error(t, err)

	_, err = NewPayment(uuid.New(), amount, PaymentMethodCash, "short")
	assert.Error(t, err)
}

func TestNewPaymentAllocation(t *testing.T) {
	alloc, err := NewPaymentAllocation(uuid.New(), uuid.New(), dec("25.00"))
	require.NoError(t, err)
	assert.True(t, alloc.AmountApplied.Equal(dec("25.00")))

	// zero allocations are valid domain objects; the service layer simply
	// does not persist them
	_, err = NewPaymentAllocation(uuid.New(), uuid.New(), decimal.Zero)
	assert.NoError(t, err)

	_, err = NewPaymentAllocation(uuid.Nil, uuid.New(), dec("5.00"))
	assert.Error(t, err)

	_, err = NewPaymentAllocation(uuid.New(), uuid.New(), dec("-5.00"))
	assert.Error(t, err)
}
