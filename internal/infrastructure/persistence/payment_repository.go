package persistence

import (
	"context"
	"errors"

	"github.com/dentallab/backend/internal/domain/billing"
	"github.com/dentallab/backend/internal/domain/shared"
	"github.com/dentallab/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormPaymentRepository implements billing.PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// Create inserts a payment. A unique violation on the idempotency key maps
// to shared.ErrAlreadyExists; the registration engine treats that as a
// replay, not a failure.
func (r *GormPaymentRepository) Create(ctx context.Context, payment *billing.Payment) error {
	model := models.PaymentModelFromDomain(payment)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// FindByID finds a payment by its ID
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Payment, error) {
	var model models.PaymentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIdempotencyKey finds the payment committed under the key
func (r *GormPaymentRepository) FindByIdempotencyKey(ctx context.Context, key string) (*billing.Payment, error) {
	var model models.PaymentModel
	if err := r.db.WithContext(ctx).
		Where("idempotency_key = ?", key).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ListByClient returns a client's payments with pagination
func (r *GormPaymentRepository) ListByClient(ctx context.Context, clientID uuid.UUID, filter shared.Filter) ([]*billing.Payment, int64, error) {
	filter = filter.Normalize()

	query := r.db.WithContext(ctx).Model(&models.PaymentModel{}).Where("client_id = ?", clientID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := ValidateSortField(filter.OrderBy, PaymentSortFields, "received_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var modelList []models.PaymentModel
	if err := query.
		Order(orderBy + " " + orderDir).
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&modelList).Error; err != nil {
		return nil, 0, err
	}

	payments := make([]*billing.Payment, len(modelList))
	for i := range modelList {
		payments[i] = modelList[i].ToDomain()
	}
	return payments, total, nil
}

var _ billing.PaymentRepository = (*GormPaymentRepository)(nil)

// GormPaymentAllocationRepository implements billing.AllocationRepository using GORM
type GormPaymentAllocationRepository struct {
	db *gorm.DB
}

// NewGormPaymentAllocationRepository creates a new GormPaymentAllocationRepository
func NewGormPaymentAllocationRepository(db *gorm.DB) *GormPaymentAllocationRepository {
	return &GormPaymentAllocationRepository{db: db}
}

// Create inserts an allocation row
func (r *GormPaymentAllocationRepository) Create(ctx context.Context, allocation *billing.PaymentAllocation) error {
	model := models.PaymentAllocationModelFromDomain(allocation)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByPaymentID returns all allocations of one payment
func (r *GormPaymentAllocationRepository) FindByPaymentID(ctx context.Context, paymentID uuid.UUID) ([]*billing.PaymentAllocation, error) {
	var modelList []models.PaymentAllocationModel
	if err := r.db.WithContext(ctx).
		Where("payment_id = ?", paymentID).
		Order("created_at ASC").
		Find(&modelList).Error; err != nil {
		return nil, err
	}

	allocations := make([]*billing.PaymentAllocation, len(modelList))
	for i := range modelList {
		allocations[i] = modelList[i].ToDomain()
	}
	return allocations, nil
}

// SumByWorkID returns the total cash applied to a work across all payments
func (r *GormPaymentAllocationRepository) SumByWorkID(ctx context.Context, workID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.PaymentAllocationModel{}).
		Select("COALESCE(SUM(amount_applied), 0) AS total").
		Where("work_id = ?", workID).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

var _ billing.AllocationRepository = (*GormPaymentAllocationRepository)(nil)
