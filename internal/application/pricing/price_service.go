package pricing

import (
	"context"

	"github.com/dentallab/backend/internal/domain/client"
	"github.com/dentallab/backend/internal/domain/pricing"
	"github.com/dentallab/backend/internal/domain/shared"
	"github.com/dentallab/backend/internal/domain/shared/valueobject"
	"github.com/dentallab/backend/internal/domain/work"
	"github.com/google/uuid"
)

// PriceService drives the base-price lifecycle of a work: preview the rule
// resolution, fix the base price once, layer manual overrides on top and
// resolve the final price.
type PriceService struct {
	ruleRepo     pricing.RuleRepository
	fixedRepo    pricing.FixedBasePriceRepository
	overrideRepo pricing.OverrideRepository
	workRepo     work.Repository
	clientRepo   client.Repository
	resolver     *pricing.RuleResolver
}

// NewPriceService creates a new PriceService
func NewPriceService(
	ruleRepo pricing.RuleRepository,
	fixedRepo pricing.FixedBasePriceRepository,
	overrideRepo pricing.OverrideRepository,
	workRepo work.Repository,
	clientRepo client.Repository,
) *PriceService {
	return &PriceService{
		ruleRepo:     ruleRepo,
		fixedRepo:    fixedRepo,
		overrideRepo: overrideRepo,
		workRepo:     workRepo,
		clientRepo:   clientRepo,
		resolver:     pricing.NewRuleResolver(),
	}
}

// resolve runs the rule resolution for a work without persisting anything.
// The context defaults to the client's price group and the work's creation
// date; req may override either.
func (s *PriceService) resolve(ctx context.Context, workID uuid.UUID, req PreviewBasePriceRequest) (*pricing.RuleResult, error) {
	w, err := s.workRepo.FindByID(ctx, workID)
	if err != nil {
		return nil, err
	}
	c, err := s.clientRepo.FindByID(ctx, w.ClientID)
	if err != nil {
		return nil, err
	}
	view, err := w.PricingView()
	if err != nil {
		return nil, err
	}
	rctx := pricing.ResolveContext{
		PriceGroup:  c.PriceGroup,
		PricingDate: w.CreatedAt,
	}
	if req.PriceGroup != nil {
		rctx.PriceGroup = *req.PriceGroup
	}
	if req.PricingDate != nil {
		rctx.PricingDate = *req.PricingDate
	}
	candidates, err := s.ruleRepo.FindCandidates(ctx, view.Family(), view.Type(), rctx.PriceGroup, rctx.PricingDate)
	if err != nil {
		return nil, err
	}
	return s.resolver.Resolve(view, rctx, candidates)
}

// PreviewBasePrice resolves the base price for a work without committing it.
// Repeatable: no state changes, results may differ as the price list evolves.
func (s *PriceService) PreviewBasePrice(ctx context.Context, workID uuid.UUID, req PreviewBasePriceRequest) (*BasePricePreviewResponse, error) {
	result, err := s.resolve(ctx, workID, req)
	if err != nil {
		return nil, err
	}
	return &BasePricePreviewResponse{
		WorkID:     workID,
		RuleID:     result.RuleID,
		Amount:     result.BasePrice.Amount(),
		Currency:   string(result.BasePrice.Currency()),
		PriceGroup: result.PriceGroup,
	}, nil
}

// FixBasePrice commits the previewed base price for a work verbatim. The
// resolver is never consulted here: the caller locks in exactly what the
// preview showed, even if the price list changed in between. At most one
// fixation can ever succeed per work; a second attempt fails with
// ErrBasePriceAlreadyFixed.
func (s *PriceService) FixBasePrice(ctx context.Context, workID uuid.UUID, req FixBasePriceRequest) (*FixedBasePriceResponse, error) {
	if _, err := s.workRepo.FindByID(ctx, workID); err != nil {
		return nil, err
	}
	if _, err := s.fixedRepo.FindByWorkID(ctx, workID); err == nil {
		return nil, shared.ErrBasePriceAlreadyFixed
	}

	currency := valueobject.Currency(req.Currency)
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	amount, err := valueobject.NewMoney(req.Amount, currency)
	if err != nil {
		return nil, err
	}
	fixed, err := pricing.NewFixedBasePrice(workID, pricing.RuleResult{
		RuleID:     req.RuleID,
		BasePrice:  amount,
		PriceGroup: req.PriceGroup,
	})
	if err != nil {
		return nil, err
	}
	// The unique constraint on work_id is the authority; a concurrent
	// fixation loses here even after the check above passed.
	if err := s.fixedRepo.Create(ctx, fixed); err != nil {
		return nil, err
	}
	response := ToFixedBasePriceResponse(fixed)
	return &response, nil
}

// GetFixedBasePrice returns the committed base price for a work
func (s *PriceService) GetFixedBasePrice(ctx context.Context, workID uuid.UUID) (*FixedBasePriceResponse, error) {
	fixed, err := s.fixedRepo.FindByWorkID(ctx, workID)
	if err != nil {
		return nil, err
	}
	response := ToFixedBasePriceResponse(fixed)
	return &response, nil
}

// AddOverride appends a manual adjustment to a work's fixed base price and
// returns the resulting final price.
func (s *PriceService) AddOverride(ctx context.Context, workID uuid.UUID, req AddOverrideRequest) (*FinalPriceResponse, error) {
	fixed, err := s.fixedRepo.FindByWorkID(ctx, workID)
	if err != nil {
		return nil, err
	}
	override, err := pricing.NewPriceOverride(fixed.ID, req.Adjustment, req.Reason)
	if err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		override.WithCreatedBy(*req.CreatedBy)
	}
	if err := s.overrideRepo.Create(ctx, override); err != nil {
		return nil, err
	}
	return s.ResolveFinalPrice(ctx, workID)
}

// ResolveFinalPrice computes the amount owed for a work: fixed base plus the
// sum of all overrides.
func (s *PriceService) ResolveFinalPrice(ctx context.Context, workID uuid.UUID) (*FinalPriceResponse, error) {
	fixed, err := s.fixedRepo.FindByWorkID(ctx, workID)
	if err != nil {
		return nil, err
	}
	overrides, err := s.overrideRepo.FindByFixedPriceID(ctx, fixed.ID)
	if err != nil {
		return nil, err
	}
	response := ToFinalPriceResponse(pricing.ComputeFinalPrice(fixed, overrides))
	return &response, nil
}
