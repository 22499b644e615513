package persistence

import (
	"context"
	"time"

	"github.com/dentallab/backend/internal/domain/pricing"
	"github.com/dentallab/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPricingRuleRepository implements pricing.RuleRepository using GORM
type GormPricingRuleRepository struct {
	db *gorm.DB
}

// NewGormPricingRuleRepository creates a new GormPricingRuleRepository
func NewGormPricingRuleRepository(db *gorm.DB) *GormPricingRuleRepository {
	return &GormPricingRuleRepository{db: db}
}

// FindCandidates returns all rules matching the mandatory dimensions that
// are valid as of the given date. Optional-dimension matching and best-match
// selection happen in the domain resolver.
func (r *GormPricingRuleRepository) FindCandidates(ctx context.Context, family, workType, priceGroup string, asOf time.Time) ([]*pricing.PricingRule, error) {
	var modelList []models.PricingRuleModel
	if err := r.db.WithContext(ctx).
		Where("family = ? AND type = ? AND price_group = ? AND valid_from <= ?", family, workType, priceGroup, asOf).
		Order("valid_from DESC").
		Find(&modelList).Error; err != nil {
		return nil, err
	}

	rules := make([]*pricing.PricingRule, len(modelList))
	for i := range modelList {
		rules[i] = modelList[i].ToDomain()
	}
	return rules, nil
}

// Create inserts a new rule. Rules are never updated or deleted.
func (r *GormPricingRuleRepository) Create(ctx context.Context, rule *pricing.PricingRule) error {
	model := models.PricingRuleModelFromDomain(rule)
	return r.db.WithContext(ctx).Create(model).Error
}

var _ pricing.RuleRepository = (*GormPricingRuleRepository)(nil)
