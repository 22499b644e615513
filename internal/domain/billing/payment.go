package billing

import (
	"time"

	"github.com/dentallab/backend/internal/domain/shared"
	"github.com/dentallab/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod represents how the money arrived
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCard         PaymentMethod = "CARD"
	PaymentMethodCheck        PaymentMethod = "CHECK"
)

// IsValid returns true if the payment method is known
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodCard, PaymentMethodCheck:
		return true
	}
	return false
}

// PaymentStatus represents the lifecycle state of a payment. Payments are
// created once at commit time and never edited; corrections are new payments.
type PaymentStatus string

const (
	PaymentStatusRegistered PaymentStatus = "REGISTERED"
)

// Payment is the immutable header of a registered incoming payment.
// IdempotencyKey is unique: a retry with the same key must not create a
// second row.
type Payment struct {
	shared.BaseEntity
	ClientID       uuid.UUID
	AmountTotal    decimal.Decimal
	Currency       valueobject.Currency
	Method         PaymentMethod
	Reference      string
	Notes          string
	ReceivedAt     time.Time
	Status         PaymentStatus
	IdempotencyKey string
}

// NewPayment creates a new payment header
func NewPayment(clientID uuid.UUID, amount valueobject.Money, method PaymentMethod, idempotencyKey string) (*Payment, error) {
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method")
	}
	if !shared.ValidIdempotencyKey(idempotencyKey) {
		return nil, shared.NewDomainError("INVALID_IDEMPOTENCY_KEY", "Idempotency key must be 8-64 characters")
	}
	return &Payment{
		BaseEntity:     shared.NewBaseEntity(),
		ClientID:       clientID,
		AmountTotal:    amount.Amount(),
		Currency:       amount.Currency(),
		Method:         method,
		ReceivedAt:     time.Now(),
		Status:         PaymentStatusRegistered,
		IdempotencyKey: idempotencyKey,
	}, nil
}

// WithReference sets an external reference (bank statement line, receipt no)
func (p *Payment) WithReference(reference string) *Payment {
	p.Reference = reference
	return p
}

// WithNotes sets free-form notes
func (p *Payment) WithNotes(notes string) *Payment {
	p.Notes = notes
	return p
}

// WithReceivedAt overrides the receive timestamp
func (p *Payment) WithReceivedAt(at time.Time) *Payment {
	p.ReceivedAt = at
	return p
}

// PaymentAllocation records money from one payment applied to one work.
// Allocations are written once at commit time, never mutated.
type PaymentAllocation struct {
	shared.BaseEntity
	PaymentID     uuid.UUID
	WorkID        uuid.UUID
	AmountApplied decimal.Decimal
}

// NewPaymentAllocation creates an allocation row
func NewPaymentAllocation(paymentID, workID uuid.UUID, amount decimal.Decimal) (*PaymentAllocation, error) {
	if paymentID == uuid.Nil || workID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ALLOCATION", "Payment and work IDs are required")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_ALLOCATION", "Allocated amount cannot be negative")
	}
	return &PaymentAllocation{
		BaseEntity:    shared.NewBaseEntity(),
		PaymentID:     paymentID,
		WorkID:        workID,
		AmountApplied: amount,
	}, nil
}
