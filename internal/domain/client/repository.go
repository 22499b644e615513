package client

import (
	"context"

	"github.com/dentallab/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repository persists clients
type Repository interface {
	Create(ctx context.Context, client *Client) error
	FindByID(ctx context.Context, id uuid.UUID) (*Client, error)
	Update(ctx context.Context, client *Client) error
	List(ctx context.Context, filter shared.Filter) ([]*Client, int64, error)
}

// BalanceRepository persists the per-client cached balance rows.
type BalanceRepository interface {
	// GetForUpdate loads the client's balance row under an exclusive row
	// lock. The lock is held until the surrounding transaction commits, so
	// all balance writes for one client serialize on this call. If the row
	// does not exist yet it is created with a zero amount; when a concurrent
	// transaction creates it first, the existing row is locked and returned.
	// Must be called inside a transaction.
	GetForUpdate(ctx context.Context, clientID uuid.UUID) (*ClientBalance, error)

	// Get loads the balance row without locking, for reads.
	// Returns shared.ErrNotFound when the client never had a movement.
	Get(ctx context.Context, clientID uuid.UUID) (*ClientBalance, error)

	// Update writes the cached amount back. Must run in the same transaction
	// that holds the GetForUpdate lock.
	Update(ctx context.Context, balance *ClientBalance) error
}

// MovementRepository persists the append-only balance ledger.
type MovementRepository interface {
	Create(ctx context.Context, movement *BalanceMovement) error

	// ListByClient returns the client's movements, most recent first.
	ListByClient(ctx context.Context, clientID uuid.UUID, filter shared.Filter) ([]*BalanceMovement, int64, error)

	// SumByClient computes the ledger balance: Σ AmountChange over all of
	// the client's movements.
	SumByClient(ctx context.Context, clientID uuid.UUID) (decimal.Decimal, error)

	// SumDebitsByWorkID returns the balance money applied to a work, as a
	// positive figure.
	SumDebitsByWorkID(ctx context.Context, workID uuid.UUID) (decimal.Decimal, error)
}
