package persistence

import (
	"context"

	"github.com/dentallab/backend/internal/domain/pricing"
	"github.com/dentallab/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPriceOverrideRepository implements pricing.OverrideRepository using GORM
type GormPriceOverrideRepository struct {
	db *gorm.DB
}

// NewGormPriceOverrideRepository creates a new GormPriceOverrideRepository
func NewGormPriceOverrideRepository(db *gorm.DB) *GormPriceOverrideRepository {
	return &GormPriceOverrideRepository{db: db}
}

// Create appends an override. Overrides are never updated or deleted.
func (r *GormPriceOverrideRepository) Create(ctx context.Context, override *pricing.PriceOverride) error {
	model := models.PriceOverrideModelFromDomain(override)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByFixedPriceID returns all overrides for a fixed base price, oldest first
func (r *GormPriceOverrideRepository) FindByFixedPriceID(ctx context.Context, fixedBasePriceID uuid.UUID) ([]*pricing.PriceOverride, error) {
	var modelList []models.PriceOverrideModel
	if err := r.db.WithContext(ctx).
		Where("fixed_base_price_id = ?", fixedBasePriceID).
		Order("created_at ASC").
		Find(&modelList).Error; err != nil {
		return nil, err
	}

	overrides := make([]*pricing.PriceOverride, len(modelList))
	for i := range modelList {
		overrides[i] = modelList[i].ToDomain()
	}
	return overrides, nil
}

var _ pricing.OverrideRepository = (*GormPriceOverrideRepository)(nil)
