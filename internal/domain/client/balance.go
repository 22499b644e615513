package client

import (
	"strings"

	"github.com/dentallab/backend/internal/domain/shared"
	"github.com/dentallab/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementType classifies a balance movement
type MovementType string

const (
	// MovementTypeCredit adds money to the balance (payment remainder).
	MovementTypeCredit MovementType = "CREDIT"
	// MovementTypeDebit spends balance money, typically against a work.
	MovementTypeDebit MovementType = "DEBIT"
	// MovementTypeAdjustment is a manual correction with a mandatory note.
	MovementTypeAdjustment MovementType = "ADJUSTMENT"
)

// IsValid returns true if the movement type is known
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeCredit, MovementTypeDebit, MovementTypeAdjustment:
		return true
	}
	return false
}

// BalanceMovement is one append-only row of a client's balance ledger.
// AmountChange is signed: positive for credits, negative for debits.
// Movements are never updated or deleted; corrections are new movements.
type BalanceMovement struct {
	shared.BaseEntity
	ClientID     uuid.UUID
	Type         MovementType
	AmountChange decimal.Decimal
	Currency     valueobject.Currency
	PaymentID    *uuid.UUID
	WorkID       *uuid.UUID
	Note         string
}

// NewCreditMovement records money added to the balance
func NewCreditMovement(clientID uuid.UUID, amount valueobject.Money, note string) (*BalanceMovement, error) {
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Credit amount must be positive")
	}
	return newMovement(clientID, MovementTypeCredit, amount.Amount(), amount.Currency(), note)
}

// NewDebitMovement records money spent from the balance. The amount is given
// positive and stored negated.
func NewDebitMovement(clientID uuid.UUID, amount valueobject.Money, note string) (*BalanceMovement, error) {
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Debit amount must be positive")
	}
	return newMovement(clientID, MovementTypeDebit, amount.Amount().Neg(), amount.Currency(), note)
}

// NewAdjustmentMovement records a manual signed correction. The note is
// mandatory: adjustments with no explanation are not auditable.
func NewAdjustmentMovement(clientID uuid.UUID, change decimal.Decimal, currency valueobject.Currency, note string) (*BalanceMovement, error) {
	if change.IsZero() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Adjustment cannot be zero")
	}
	if strings.TrimSpace(note) == "" {
		return nil, shared.NewDomainError("NOTE_REQUIRED", "Adjustment requires an explanatory note")
	}
	return newMovement(clientID, MovementTypeAdjustment, change, currency, note)
}

func newMovement(clientID uuid.UUID, mvType MovementType, change decimal.Decimal, currency valueobject.Currency, note string) (*BalanceMovement, error) {
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}
	return &BalanceMovement{
		BaseEntity:   shared.NewBaseEntity(),
		ClientID:     clientID,
		Type:         mvType,
		AmountChange: change,
		Currency:     currency,
		Note:         note,
	}, nil
}

// WithPayment links the movement to the payment that produced it
func (m *BalanceMovement) WithPayment(paymentID uuid.UUID) *BalanceMovement {
	m.PaymentID = &paymentID
	return m
}

// WithWork links the movement to the work it was applied to
func (m *BalanceMovement) WithWork(workID uuid.UUID) *BalanceMovement {
	m.WorkID = &workID
	return m
}

// ClientBalance is the cached current balance of one client. The row is a
// pure derivative of the movement ledger: at every commit boundary its Amount
// equals the sum of all AmountChange values for the client. It exists so
// reads do not scan the ledger, and its row is the lock target that
// serializes concurrent balance writes per client.
type ClientBalance struct {
	shared.BaseAggregateRoot
	ClientID uuid.UUID
	Amount   decimal.Decimal
	Currency valueobject.Currency
	Active   bool
}

// NewClientBalance creates a zero balance for a client
func NewClientBalance(clientID uuid.UUID) (*ClientBalance, error) {
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}
	return &ClientBalance{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ClientID:          clientID,
		Amount:            decimal.Zero,
		Currency:          valueobject.DefaultCurrency,
		Active:            true,
	}, nil
}

// Apply validates a movement against the cached balance and folds it in.
// A debit or negative adjustment that would drive the balance below zero
// fails with ErrInsufficientBalance and leaves the balance untouched.
func (b *ClientBalance) Apply(movement *BalanceMovement) error {
	if !b.Active {
		return shared.ErrBalanceInactive
	}
	if movement.ClientID != b.ClientID {
		return shared.NewDomainError("CLIENT_MISMATCH", "Movement belongs to another client")
	}
	if movement.Currency != b.Currency {
		return shared.NewDomainError("CURRENCY_MISMATCH", "Movement currency differs from balance currency")
	}
	next := b.Amount.Add(movement.AmountChange)
	if next.IsNegative() {
		return shared.ErrInsufficientBalance
	}
	b.Amount = next
	b.Touch()
	return nil
}

// Reconcile overwrites the cached amount with the recomputed ledger total.
// Only the cache repair path may use this; regular writes go through Apply.
func (b *ClientBalance) Reconcile(ledgerTotal decimal.Decimal) {
	b.Amount = ledgerTotal
	b.Touch()
}

// Deactivate disables the balance feature for the client. Existing movements
// stay readable; new movements are rejected.
func (b *ClientBalance) Deactivate() {
	b.Active = false
	b.Touch()
}

// Activate re-enables the balance feature
func (b *ClientBalance) Activate() {
	b.Active = true
	b.Touch()
}
