package pricing

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RuleRepository provides read access to the immutable price list.
type RuleRepository interface {
	// FindCandidates returns all rules for the mandatory dimensions that are
	// valid as of the given date. Optional-dimension filtering and best-match
	// selection happen in the RuleResolver.
	FindCandidates(ctx context.Context, family, workType, priceGroup string, asOf time.Time) ([]*PricingRule, error)

	// Create inserts a new rule. Rules are never updated.
	Create(ctx context.Context, rule *PricingRule) error
}

// FixedBasePriceRepository persists the one-time base price commitment.
type FixedBasePriceRepository interface {
	// Create inserts the fixed price. Returns shared.ErrBasePriceAlreadyFixed
	// when a price already exists for the work (unique constraint on work_id).
	Create(ctx context.Context, price *FixedBasePrice) error

	// FindByWorkID returns the fixed price or shared.ErrNoBasePriceFixed.
	FindByWorkID(ctx context.Context, workID uuid.UUID) (*FixedBasePrice, error)
}

// OverrideRepository persists the append-only manual adjustments.
type OverrideRepository interface {
	Create(ctx context.Context, override *PriceOverride) error

	// FindByFixedPriceID returns all overrides for a fixed base price,
	// oldest first.
	FindByFixedPriceID(ctx context.Context, fixedBasePriceID uuid.UUID) ([]*PriceOverride, error)
}
