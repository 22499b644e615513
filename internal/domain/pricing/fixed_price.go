package pricing

import (
	"github.com/dentallab/backend/internal/domain/shared"
	"github.com/dentallab/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FixedBasePrice is the one-time commitment of a previewed base price to a
// work. At most one exists per work (unique constraint on WorkID); fixing a
// second time is an error, never an overwrite.
type FixedBasePrice struct {
	shared.BaseEntity
	WorkID     uuid.UUID
	Amount     valueobject.Money
	PriceGroup string
	RuleID     uuid.UUID
}

// NewFixedBasePrice persists a previewed rule result verbatim. It must never
// re-run the resolver: the caller confirmed exactly this amount.
func NewFixedBasePrice(workID uuid.UUID, result RuleResult) (*FixedBasePrice, error) {
	if workID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WORK", "Work ID cannot be empty")
	}
	if result.BasePrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Base price cannot be negative")
	}
	return &FixedBasePrice{
		BaseEntity: shared.NewBaseEntity(),
		WorkID:     workID,
		Amount:     result.BasePrice,
		PriceGroup: result.PriceGroup,
		RuleID:     result.RuleID,
	}, nil
}

// FinalPrice is the resolved amount owed for a work: the fixed base plus the
// sum of all overrides, with the full override trace for audit.
type FinalPrice struct {
	WorkID         uuid.UUID
	BasePrice      valueobject.Money
	OverridesTotal decimal.Decimal
	Amount         valueobject.Money
	Overrides      []*PriceOverride
}

// ComputeFinalPrice derives the final price from a fixed base and its
// overrides. Safe to recompute anytime; reflects overrides added after the
// fact.
func ComputeFinalPrice(base *FixedBasePrice, overrides []*PriceOverride) *FinalPrice {
	total := decimal.Zero
	for _, o := range overrides {
		total = total.Add(o.Adjustment)
	}
	final, _ := valueobject.NewMoney(base.Amount.Amount().Add(total), base.Amount.Currency())
	return &FinalPrice{
		WorkID:         base.WorkID,
		BasePrice:      base.Amount,
		OverridesTotal: total,
		Amount:         final,
		Overrides:      overrides,
	}
}
