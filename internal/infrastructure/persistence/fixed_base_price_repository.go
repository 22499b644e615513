package persistence

import (
	"context"
	"errors"

	"github.com/dentallab/backend/internal/domain/pricing"
	"github.com/dentallab/backend/internal/domain/shared"
	"github.com/dentallab/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormFixedBasePriceRepository implements pricing.FixedBasePriceRepository using GORM
type GormFixedBasePriceRepository struct {
	db *gorm.DB
}

// NewGormFixedBasePriceRepository creates a new GormFixedBasePriceRepository
func NewGormFixedBasePriceRepository(db *gorm.DB) *GormFixedBasePriceRepository {
	return &GormFixedBasePriceRepository{db: db}
}

// Create inserts the fixed price. The unique index on work_id enforces the
// one-time fixation: a concurrent or repeated fix fails here regardless of
// what the caller read beforehand.
func (r *GormFixedBasePriceRepository) Create(ctx context.Context, price *pricing.FixedBasePrice) error {
	model := models.FixedBasePriceModelFromDomain(price)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrBasePriceAlreadyFixed
		}
		return err
	}
	return nil
}

// FindByWorkID returns the fixed price for a work
func (r *GormFixedBasePriceRepository) FindByWorkID(ctx context.Context, workID uuid.UUID) (*pricing.FixedBasePrice, error) {
	var model models.FixedBasePriceModel
	if err := r.db.WithContext(ctx).
		Where("work_id = ?", workID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNoBasePriceFixed
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

var _ pricing.FixedBasePriceRepository = (*GormFixedBasePriceRepository)(nil)
