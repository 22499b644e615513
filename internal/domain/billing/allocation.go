package billing

import (
	"sort"
	"strings"

	"github.com/dentallab/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WorkDue is a work's financial state as input to allocation: what it costs,
// what has been paid, and what remains.
type WorkDue struct {
	WorkID      uuid.UUID
	Price       decimal.Decimal
	AlreadyPaid decimal.Decimal
}

// Unpaid is the work's outstanding amount, never negative even when payments
// recorded against the work exceed its price.
func (d WorkDue) Unpaid() decimal.Decimal {
	unpaid := d.Price.Sub(d.AlreadyPaid)
	if unpaid.IsNegative() {
		return decimal.Zero
	}
	return unpaid
}

// PlanLine is the per-work breakdown of an allocation plan.
type PlanLine struct {
	WorkID         uuid.UUID
	Price          decimal.Decimal
	AlreadyPaid    decimal.Decimal
	Unpaid         decimal.Decimal
	MaxAllocatable decimal.Decimal
	Allocated      decimal.Decimal
}

// Plan is the full outcome of distributing a tendered amount across works.
// It is the contract between preview and commit: whatever a preview shows is
// exactly what a subsequent registration produces.
type Plan struct {
	Lines                       []PlanLine
	TotalAllocated              decimal.Decimal
	RemainingUnallocated        decimal.Decimal
	RequiresBalanceConfirmation bool
}

// BuildPlan distributes a tendered amount across the given works. Works are
// walked in ascending work-id order so the result is reproducible.
//
// In automatic mode (overrides nil) each work receives
// min(remainingDue, amountStillAvailable). With explicit overrides every
// allocation is validated, not clamped: an override above the work's
// remaining due fails with ErrAllocationExceedsDue, and an override total
// above the tendered amount fails with ErrAllocationExceedsTotal.
//
// Invariant on success: TotalAllocated + RemainingUnallocated == amount.
func BuildPlan(amount decimal.Decimal, dues []WorkDue, overrides map[uuid.UUID]decimal.Decimal) (*Plan, error) {
	if !amount.IsPositive() {
		return nil, shared.ErrInvalidInput
	}
	if len(dues) == 0 {
		return nil, shared.ErrInvalidInput
	}
	if overrides != nil {
		known := make(map[uuid.UUID]struct{}, len(dues))
		for _, due := range dues {
			known[due.WorkID] = struct{}{}
		}
		for workID := range overrides {
			if _, ok := known[workID]; !ok {
				return nil, shared.ErrInvalidAllocation
			}
		}
	}

	ordered := make([]WorkDue, len(dues))
	copy(ordered, dues)
	sort.Slice(ordered, func(i, j int) bool {
		return strings.Compare(ordered[i].WorkID.String(), ordered[j].WorkID.String()) < 0
	})

	plan := &Plan{
		Lines:          make([]PlanLine, 0, len(ordered)),
		TotalAllocated: decimal.Zero,
	}
	available := amount

	for _, due := range ordered {
		unpaid := due.Unpaid()
		maxAllocatable := decimal.Min(unpaid, available)

		var allocated decimal.Decimal
		if overrides != nil {
			requested, ok := overrides[due.WorkID]
			if !ok {
				requested = decimal.Zero
			}
			if requested.IsNegative() {
				return nil, shared.ErrInvalidAllocation
			}
			if requested.GreaterThan(unpaid) {
				return nil, shared.ErrAllocationExceedsDue
			}
			if requested.GreaterThan(available) {
				return nil, shared.ErrAllocationExceedsTotal
			}
			allocated = requested
		} else {
			allocated = maxAllocatable
		}

		available = available.Sub(allocated)
		plan.TotalAllocated = plan.TotalAllocated.Add(allocated)
		plan.Lines = append(plan.Lines, PlanLine{
			WorkID:         due.WorkID,
			Price:          due.Price,
			AlreadyPaid:    due.AlreadyPaid,
			Unpaid:         unpaid,
			MaxAllocatable: maxAllocatable,
			Allocated:      allocated,
		})
	}

	plan.RemainingUnallocated = available
	plan.RequiresBalanceConfirmation = available.IsPositive()
	return plan, nil
}
