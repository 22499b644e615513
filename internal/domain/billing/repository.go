package billing

import (
	"context"

	"github.com/dentallab/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentRepository persists payment headers.
type PaymentRepository interface {
	// Create inserts a payment. Returns shared.ErrAlreadyExists when the
	// idempotency key is already taken; the registration engine treats that
	// conflict as a successful replay.
	Create(ctx context.Context, payment *Payment) error

	// FindByID returns the payment or shared.ErrNotFound
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)

	// FindByIdempotencyKey returns the payment committed under the key, or
	// shared.ErrNotFound if the key has never been used.
	FindByIdempotencyKey(ctx context.Context, key string) (*Payment, error)

	// ListByClient returns a client's payments, most recent first.
	ListByClient(ctx context.Context, clientID uuid.UUID, filter shared.Filter) ([]*Payment, int64, error)
}

// AllocationRepository persists payment allocations.
type AllocationRepository interface {
	Create(ctx context.Context, allocation *PaymentAllocation) error

	// FindByPaymentID returns all allocations of one payment.
	FindByPaymentID(ctx context.Context, paymentID uuid.UUID) ([]*PaymentAllocation, error)

	// SumByWorkID returns the total cash applied to a work across all
	// payments.
	SumByWorkID(ctx context.Context, workID uuid.UUID) (decimal.Decimal, error)
}
