package persistence

import (
	"context"
	"errors"

	"github.com/dentallab/backend/internal/domain/client"
	"github.com/dentallab/backend/internal/domain/shared"
	"github.com/dentallab/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormClientBalanceRepository implements client.BalanceRepository using GORM
type GormClientBalanceRepository struct {
	db *gorm.DB
}

// NewGormClientBalanceRepository creates a new GormClientBalanceRepository
func NewGormClientBalanceRepository(db *gorm.DB) *GormClientBalanceRepository {
	return &GormClientBalanceRepository{db: db}
}

// GetForUpdate loads the client's balance row under a SELECT ... FOR UPDATE
// lock, creating it with a zero amount on first use. All balance writes for
// one client serialize on this lock until the surrounding transaction
// commits. Must be called inside a transaction.
func (r *GormClientBalanceRepository) GetForUpdate(ctx context.Context, clientID uuid.UUID) (*client.ClientBalance, error) {
	var model models.ClientBalanceModel
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("client_id = ?", clientID).
		First(&model).Error
	if err == nil {
		return model.ToDomain(), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// Lazy creation. If a concurrent transaction inserts the row first, the
	// unique index on client_id rejects ours and we lock the winner's row.
	fresh, err := client.NewClientBalance(clientID)
	if err != nil {
		return nil, err
	}
	if createErr := r.db.WithContext(ctx).Create(models.ClientBalanceModelFromDomain(fresh)).Error; createErr != nil {
		if !isUniqueViolation(createErr) {
			return nil, createErr
		}
		err = r.db.WithContext(ctx).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("client_id = ?", clientID).
			First(&model).Error
		if err != nil {
			return nil, err
		}
		return model.ToDomain(), nil
	}

	// Re-read under the lock so the returned row is protected like any other.
	err = r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("client_id = ?", clientID).
		First(&model).Error
	if err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// Get loads the balance row without locking, for reads
func (r *GormClientBalanceRepository) Get(ctx context.Context, clientID uuid.UUID) (*client.ClientBalance, error) {
	var model models.ClientBalanceModel
	if err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Update writes the cached amount back. Must run in the same transaction
// that holds the GetForUpdate lock.
func (r *GormClientBalanceRepository) Update(ctx context.Context, balance *client.ClientBalance) error {
	model := models.ClientBalanceModelFromDomain(balance)
	result := r.db.WithContext(ctx).Model(&models.ClientBalanceModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"amount":     model.Amount,
			"currency":   model.Currency,
			"active":     model.Active,
			"version":    model.Version,
			"updated_at": model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ client.BalanceRepository = (*GormClientBalanceRepository)(nil)

// GormBalanceMovementRepository implements client.MovementRepository using GORM
type GormBalanceMovementRepository struct {
	db *gorm.DB
}

// NewGormBalanceMovementRepository creates a new GormBalanceMovementRepository
func NewGormBalanceMovementRepository(db *gorm.DB) *GormBalanceMovementRepository {
	return &GormBalanceMovementRepository{db: db}
}

// Create appends a movement to the ledger
func (r *GormBalanceMovementRepository) Create(ctx context.Context, movement *client.BalanceMovement) error {
	model := models.BalanceMovementModelFromDomain(movement)
	return r.db.WithContext(ctx).Create(model).Error
}

// ListByClient returns the client's movements with pagination, most recent first
func (r *GormBalanceMovementRepository) ListByClient(ctx context.Context, clientID uuid.UUID, filter shared.Filter) ([]*client.BalanceMovement, int64, error) {
	filter = filter.Normalize()

	query := r.db.WithContext(ctx).Model(&models.BalanceMovementModel{}).Where("client_id = ?", clientID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := ValidateSortField(filter.OrderBy, MovementSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var modelList []models.BalanceMovementModel
	if err := query.
		Order(orderBy + " " + orderDir).
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&modelList).Error; err != nil {
		return nil, 0, err
	}

	movements := make([]*client.BalanceMovement, len(modelList))
	for i := range modelList {
		movements[i] = modelList[i].ToDomain()
	}
	return movements, total, nil
}

// SumByClient computes the ledger balance over all of the client's movements
func (r *GormBalanceMovementRepository) SumByClient(ctx context.Context, clientID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.BalanceMovementModel{}).
		Select("COALESCE(SUM(amount_change), 0) AS total").
		Where("client_id = ?", clientID).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// SumDebitsByWorkID returns the balance money applied to a work, as a
// positive figure. Debits store negative amount changes, hence the negation.
func (r *GormBalanceMovementRepository) SumDebitsByWorkID(ctx context.Context, workID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.BalanceMovementModel{}).
		Select("COALESCE(SUM(amount_change), 0) AS total").
		Where("work_id = ? AND type = ?", workID, client.MovementTypeDebit).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total.Neg(), nil
}

var _ client.MovementRepository = (*GormBalanceMovementRepository)(nil)
