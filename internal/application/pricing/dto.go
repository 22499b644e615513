package pricing

import (
	"time"

	"github.com/dentallab/backend/internal/domain/pricing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PreviewBasePriceRequest optionally overrides the resolution context. By
// default the client's price group and the work's creation date apply.
type PreviewBasePriceRequest struct {
	PriceGroup  *string    `json:"price_group" binding:"omitempty,min=1,max=50"`
	PricingDate *time.Time `json:"pricing_date"`
}

// FixBasePriceRequest carries the previewed resolution the caller commits.
// The values are persisted verbatim; fixation never re-runs the resolver.
type FixBasePriceRequest struct {
	RuleID     uuid.UUID       `json:"rule_id" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	Currency   string          `json:"currency" binding:"omitempty,len=3"`
	PriceGroup string          `json:"price_group" binding:"required,min=1,max=50"`
}

// AddOverrideRequest represents a request to add a manual price adjustment
type AddOverrideRequest struct {
	Adjustment decimal.Decimal `json:"adjustment" binding:"required"`
	Reason     string          `json:"reason" binding:"required,min=1,max=500"`
	CreatedBy  *uuid.UUID      `json:"-"`
}

// BasePricePreviewResponse is the outcome of a non-binding price resolution
type BasePricePreviewResponse struct {
	WorkID     uuid.UUID       `json:"work_id"`
	RuleID     uuid.UUID       `json:"rule_id"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	PriceGroup string          `json:"price_group"`
}

// FixedBasePriceResponse represents a committed base price
type FixedBasePriceResponse struct {
	ID         uuid.UUID       `json:"id"`
	WorkID     uuid.UUID       `json:"work_id"`
	RuleID     uuid.UUID       `json:"rule_id"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	PriceGroup string          `json:"price_group"`
	FixedAt    time.Time       `json:"fixed_at"`
}

// OverrideResponse represents one manual adjustment
type OverrideResponse struct {
	ID         uuid.UUID       `json:"id"`
	Adjustment decimal.Decimal `json:"adjustment"`
	Reason     string          `json:"reason"`
	CreatedBy  *uuid.UUID      `json:"created_by,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// FinalPriceResponse is the resolved amount owed for a work
type FinalPriceResponse struct {
	WorkID         uuid.UUID          `json:"work_id"`
	BasePrice      decimal.Decimal    `json:"base_price"`
	OverridesTotal decimal.Decimal    `json:"overrides_total"`
	Amount         decimal.Decimal    `json:"amount"`
	Currency       string             `json:"currency"`
	Overrides      []OverrideResponse `json:"overrides"`
}

// ToFixedBasePriceResponse converts a domain fixed price to its API shape
func ToFixedBasePriceResponse(p *pricing.FixedBasePrice) FixedBasePriceResponse {
	return FixedBasePriceResponse{
		ID:         p.ID,
		WorkID:     p.WorkID,
		RuleID:     p.RuleID,
		Amount:     p.Amount.Amount(),
		Currency:   string(p.Amount.Currency()),
		PriceGroup: p.PriceGroup,
		FixedAt:    p.CreatedAt,
	}
}

// ToOverrideResponse converts a domain override to its API shape
func ToOverrideResponse(o *pricing.PriceOverride) OverrideResponse {
	return OverrideResponse{
		ID:         o.ID,
		Adjustment: o.Adjustment,
		Reason:     o.Reason,
		CreatedBy:  o.CreatedBy,
		CreatedAt:  o.CreatedAt,
	}
}

// ToFinalPriceResponse converts a resolved final price to its API shape
func ToFinalPriceResponse(f *pricing.FinalPrice) FinalPriceResponse {
	overrides := make([]OverrideResponse, 0, len(f.Overrides))
	for _, o := range f.Overrides {
		overrides = append(overrides, ToOverrideResponse(o))
	}
	return FinalPriceResponse{
		WorkID:         f.WorkID,
		BasePrice:      f.BasePrice.Amount(),
		OverridesTotal: f.OverridesTotal,
		Amount:         f.Amount.Amount(),
		Currency:       string(f.Amount.Currency()),
		Overrides:      overrides,
	}
}
