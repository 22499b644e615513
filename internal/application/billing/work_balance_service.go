package billing

import (
	"context"

	"github.com/dentallab/backend/internal/domain/billing"
	"github.com/google/uuid"
)

// Work payment statuses as projected from prices and payments. The
// projection is derived on read, never stored.
const (
	WorkStatusUnpaid        = "UNPAID"
	WorkStatusPartiallyPaid = "PARTIALLY_PAID"
	WorkStatusPaid          = "PAID"
	// WorkStatusOverpaid surfaces works whose final price dropped below the
	// amount already applied, e.g. a negative override after full payment.
	WorkStatusOverpaid = "OVERPAID"
)

// WorkBalanceService projects the financial state of a work: its resolved
// price, everything paid against it and what remains.
type WorkBalanceService struct {
	repos RepoSet
}

// NewWorkBalanceService creates a new WorkBalanceService
func NewWorkBalanceService(repos RepoSet) *WorkBalanceService {
	return &WorkBalanceService{repos: repos}
}

// GetWorkBalance returns the current financial projection of a work. Paid
// money counts both direct payment allocations and balance debits applied to
// the work; remaining never goes below zero.
func (s *WorkBalanceService) GetWorkBalance(ctx context.Context, workID uuid.UUID) (*WorkBalanceResponse, error) {
	w, err := s.repos.Works.FindByID(ctx, workID)
	if err != nil {
		return nil, err
	}
	dues, err := LoadWorkDues(ctx, s.repos, w.ClientID, []uuid.UUID{w.ID})
	if err != nil {
		return nil, err
	}
	due := dues[0]
	return &WorkBalanceResponse{
		WorkID:    due.WorkID,
		Price:     due.Price,
		TotalPaid: due.AlreadyPaid,
		Remaining: due.Unpaid(),
		Status:    projectStatus(due),
	}, nil
}

func projectStatus(due billing.WorkDue) string {
	switch {
	case due.AlreadyPaid.IsZero():
		return WorkStatusUnpaid
	case due.AlreadyPaid.LessThan(due.Price):
		return WorkStatusPartiallyPaid
	case due.AlreadyPaid.Equal(due.Price):
		return WorkStatusPaid
	default:
		return WorkStatusOverpaid
	}
}
