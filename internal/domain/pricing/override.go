package pricing

import (
	"github.com/dentallab/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceOverride is a signed manual adjustment layered on top of a fixed base
// price. Overrides are append-only: never updated or deleted, corrections are
// new overrides in the opposite direction.
type PriceOverride struct {
	shared.BaseEntity
	FixedBasePriceID uuid.UUID
	Adjustment       decimal.Decimal
	Reason           string
	CreatedBy        *uuid.UUID
}

// NewPriceOverride creates a new override for a fixed base price
func NewPriceOverride(fixedBasePriceID uuid.UUID, adjustment decimal.Decimal, reason string) (*PriceOverride, error) {
	if fixedBasePriceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_FIXED_PRICE", "Fixed base price ID cannot be empty")
	}
	if adjustment.IsZero() {
		return nil, shared.NewDomainError("INVALID_ADJUSTMENT", "Adjustment cannot be zero")
	}
	if reason == "" {
		return nil, shared.NewDomainError("INVALID_ADJUSTMENT", "Adjustment reason is required")
	}
	return &PriceOverride{
		BaseEntity:       shared.NewBaseEntity(),
		FixedBasePriceID: fixedBasePriceID,
		Adjustment:       adjustment,
		Reason:           reason,
	}, nil
}

// WithCreatedBy records the user who entered the override
func (o *PriceOverride) WithCreatedBy(userID uuid.UUID) *PriceOverride {
	o.CreatedBy = &userID
	return o
}
