package work

import (
	"context"

	"github.com/google/uuid"
)

// Repository provides read access to works. The financial engine never
// writes works; creation and status management live elsewhere.
type Repository interface {
	// FindByID returns the work or shared.ErrNotFound
	FindByID(ctx context.Context, id uuid.UUID) (*Work, error)

	// FindByIDForClient returns the work only if it belongs to the client,
	// shared.ErrNotFound otherwise
	FindByIDForClient(ctx context.Context, clientID, id uuid.UUID) (*Work, error)

	// FindByIDsForClient returns all of the given works that belong to the
	// client. Ownership validation compares the returned count against the
	// requested distinct count.
	FindByIDsForClient(ctx context.Context, clientID uuid.UUID, ids []uuid.UUID) ([]*Work, error)
}
