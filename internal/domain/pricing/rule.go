package pricing

import (
	"time"

	"github.com/dentallab/backend/internal/domain/shared"
	"github.com/dentallab/backend/internal/domain/work"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dentallab/backend/internal/domain/shared/valueobject"
)

// PricingRule is one immutable row of the price list. Rules are never edited
// in place; a new rule with a later ValidFrom supersedes an older one.
//
// Family, Type and PriceGroup are mandatory match dimensions. Constitution,
// Technique and CoreMaterialID are optional: an empty/nil value means the rule
// applies to any value of that dimension.
type PricingRule struct {
	shared.BaseEntity
	Family         string
	Type           string
	PriceGroup     string
	Constitution   string
	Technique      string
	CoreMaterialID *uuid.UUID
	BasePrice      *decimal.Decimal
	PricePerUnit   *decimal.Decimal
	Currency       valueobject.Currency
	ValidFrom      time.Time
}

// NewPricingRule creates a new pricing rule
func NewPricingRule(family, workType, priceGroup string, currency valueobject.Currency, validFrom time.Time) (*PricingRule, error) {
	if family == "" || workType == "" || priceGroup == "" {
		return nil, shared.NewDomainError("INVALID_RULE", "Family, type and price group are required")
	}
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	return &PricingRule{
		BaseEntity: shared.NewBaseEntity(),
		Family:     family,
		Type:       workType,
		PriceGroup: priceGroup,
		Currency:   currency,
		ValidFrom:  validFrom,
	}, nil
}

// WithBasePrice sets a flat base price
func (r *PricingRule) WithBasePrice(amount decimal.Decimal) *PricingRule {
	r.BasePrice = &amount
	return r
}

// WithPricePerUnit sets a per-unit price
func (r *PricingRule) WithPricePerUnit(amount decimal.Decimal) *PricingRule {
	r.PricePerUnit = &amount
	return r
}

// WithConstitution restricts the rule to a constitution
func (r *PricingRule) WithConstitution(constitution string) *PricingRule {
	r.Constitution = constitution
	return r
}

// WithTechnique restricts the rule to a technique
func (r *PricingRule) WithTechnique(technique string) *PricingRule {
	r.Technique = technique
	return r
}

// WithCoreMaterial restricts the rule to a core material
func (r *PricingRule) WithCoreMaterial(materialID uuid.UUID) *PricingRule {
	r.CoreMaterialID = &materialID
	return r
}

// AppliesTo reports whether the rule matches the pricing view within the
// given group as of the given date.
func (r *PricingRule) AppliesTo(view work.PricingView, priceGroup string, asOf time.Time) bool {
	if r.Family != view.Family() || r.Type != view.Type() || r.PriceGroup != priceGroup {
		return false
	}
	if r.ValidFrom.After(asOf) {
		return false
	}
	if r.Constitution != "" && r.Constitution != view.Constitution() {
		return false
	}
	if r.Technique != "" && r.Technique != view.Technique() {
		return false
	}
	if r.CoreMaterialID != nil {
		m := view.CoreMaterialID()
		if m == nil || *m != *r.CoreMaterialID {
			return false
		}
	}
	return true
}

// Specificity counts how many optional dimensions the rule pins down.
// A higher value means a more specific rule.
func (r *PricingRule) Specificity() int {
	n := 0
	if r.Constitution != "" {
		n++
	}
	if r.Technique != "" {
		n++
	}
	if r.CoreMaterialID != nil {
		n++
	}
	return n
}

// ComputeBase computes the base price this rule yields for the given view.
// Flat base price wins over per-unit; per-unit requires a positive unit count.
func (r *PricingRule) ComputeBase(view work.PricingView) (valueobject.Money, error) {
	if r.BasePrice != nil {
		return valueobject.NewMoney(*r.BasePrice, r.Currency)
	}
	if r.PricePerUnit == nil {
		return valueobject.Money{}, shared.ErrInvalidRuleDefinition
	}
	units := view.UnitCount()
	if units <= 0 {
		return valueobject.Money{}, shared.ErrInvalidRuleDefinition
	}
	total := r.PricePerUnit.Mul(decimal.NewFromInt(int64(units)))
	return valueobject.NewMoney(total, r.Currency)
}
