package pricing

import (
	"time"

	"github.com/dentallab/backend/internal/domain/shared"
	"github.com/dentallab/backend/internal/domain/shared/valueobject"
	"github.com/dentallab/backend/internal/domain/work"
	"github.com/google/uuid"
)

// ResolveContext carries the pricing-relevant context for rule resolution:
// the client's price group and the date the price is asked for.
type ResolveContext struct {
	PriceGroup  string
	PricingDate time.Time
}

// RuleResult is the outcome of resolving a rule for a work: the authoritative
// base price and the rule that produced it.
type RuleResult struct {
	RuleID     uuid.UUID
	BasePrice  valueobject.Money
	PriceGroup string
}

// RuleResolver selects the best matching pricing rule for a work's pricing
// view and computes the base price. It is pure: callable repeatedly for
// preview without side effects.
type RuleResolver struct{}

// NewRuleResolver creates a new RuleResolver
func NewRuleResolver() *RuleResolver {
	return &RuleResolver{}
}

// Resolve picks the single best match among candidates. Most specific rule
// wins; among equally specific rules the most recently valid one wins.
// Returns ErrNoMatchingRule when nothing applies.
func (r *RuleResolver) Resolve(view work.PricingView, rctx ResolveContext, candidates []*PricingRule) (*RuleResult, error) {
	var best *PricingRule
	for _, rule := range candidates {
		if !rule.AppliesTo(view, rctx.PriceGroup, rctx.PricingDate) {
			continue
		}
		if best == nil {
			best = rule
			continue
		}
		switch {
		case rule.Specificity() > best.Specificity():
			best = rule
		case rule.Specificity() == best.Specificity() && rule.ValidFrom.After(best.ValidFrom):
			best = rule
		}
	}
	if best == nil {
		return nil, shared.ErrNoMatchingRule
	}

	base, err := best.ComputeBase(view)
	if err != nil {
		return nil, err
	}
	return &RuleResult{
		RuleID:     best.ID,
		BasePrice:  base,
		PriceGroup: best.PriceGroup,
	}, nil
}
