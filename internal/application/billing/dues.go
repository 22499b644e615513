package billing

import (
	"context"

	"github.com/dentallab/backend/internal/domain/billing"
	"github.com/dentallab/backend/internal/domain/client"
	"github.com/dentallab/backend/internal/domain/pricing"
	"github.com/dentallab/backend/internal/domain/shared"
	"github.com/dentallab/backend/internal/domain/work"
	"github.com/google/uuid"
)

// DuesRepositories is the read surface needed to assemble a work's financial
// state. Both the ambient repositories and a TransactionalRepositories
// satisfy it, so the same assembly runs in preview and inside the commit
// transaction.
type DuesRepositories interface {
	WorkRepo() work.Repository
	FixedPriceRepo() pricing.FixedBasePriceRepository
	OverrideRepo() pricing.OverrideRepository
	AllocationRepo() billing.AllocationRepository
	MovementRepo() client.MovementRepository
}

// LoadWorkDues assembles the dues of the given works for allocation.
// Ownership is validated by count: if any requested work is missing or
// belongs to another client the whole call fails with ErrOwnershipViolation
// and nothing is disclosed about which id was the problem.
//
// A work's price is its resolved final price (fixed base plus overrides);
// works without a fixed base price fail with ErrNoBasePriceFixed. Already
// paid is the sum of payment allocations plus balance debits applied to the
// work.
func LoadWorkDues(ctx context.Context, repos DuesRepositories, clientID uuid.UUID, workIDs []uuid.UUID) ([]billing.WorkDue, error) {
	if len(workIDs) == 0 {
		return nil, shared.ErrInvalidInput
	}

	distinct := make([]uuid.UUID, 0, len(workIDs))
	seen := make(map[uuid.UUID]struct{}, len(workIDs))
	for _, id := range workIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		distinct = append(distinct, id)
	}

	works, err := repos.WorkRepo().FindByIDsForClient(ctx, clientID, distinct)
	if err != nil {
		return nil, err
	}
	if len(works) != len(distinct) {
		return nil, shared.ErrOwnershipViolation
	}

	dues := make([]billing.WorkDue, 0, len(works))
	for _, w := range works {
		fixed, err := repos.FixedPriceRepo().FindByWorkID(ctx, w.ID)
		if err != nil {
			return nil, err
		}
		overrides, err := repos.OverrideRepo().FindByFixedPriceID(ctx, fixed.ID)
		if err != nil {
			return nil, err
		}
		final := pricing.ComputeFinalPrice(fixed, overrides)

		allocated, err := repos.AllocationRepo().SumByWorkID(ctx, w.ID)
		if err != nil {
			return nil, err
		}
		fromBalance, err := repos.MovementRepo().SumDebitsByWorkID(ctx, w.ID)
		if err != nil {
			return nil, err
		}

		dues = append(dues, billing.WorkDue{
			WorkID:      w.ID,
			Price:       final.Amount.Amount(),
			AlreadyPaid: allocated.Add(fromBalance),
		})
	}
	return dues, nil
}
