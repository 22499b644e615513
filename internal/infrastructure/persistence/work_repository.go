package persistence

import (
	"context"
	"errors"

	"github.com/dentallab/backend/internal/domain/shared"
	"github.com/dentallab/backend/internal/domain/work"
	"github.com/dentallab/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormWorkRepository implements work.Repository using GORM
type GormWorkRepository struct {
	db *gorm.DB
}

// NewGormWorkRepository creates a new GormWorkRepository
func NewGormWorkRepository(db *gorm.DB) *GormWorkRepository {
	return &GormWorkRepository{db: db}
}

// FindByID finds a work by its ID
func (r *GormWorkRepository) FindByID(ctx context.Context, id uuid.UUID) (*work.Work, error) {
	var model models.WorkModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForClient finds a work by ID only if it belongs to the client
func (r *GormWorkRepository) FindByIDForClient(ctx context.Context, clientID, id uuid.UUID) (*work.Work, error) {
	var model models.WorkModel
	if err := r.db.WithContext(ctx).
		Where("client_id = ? AND id = ?", clientID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDsForClient finds the given works that belong to the client.
// Works that do not exist or belong to another client are simply absent
// from the result; callers compare counts to detect that.
func (r *GormWorkRepository) FindByIDsForClient(ctx context.Context, clientID uuid.UUID, ids []uuid.UUID) ([]*work.Work, error) {
	if len(ids) == 0 {
		return []*work.Work{}, nil
	}

	var modelList []models.WorkModel
	if err := r.db.WithContext(ctx).
		Where("client_id = ? AND id IN ?", clientID, ids).
		Find(&modelList).Error; err != nil {
		return nil, err
	}

	works := make([]*work.Work, len(modelList))
	for i := range modelList {
		works[i] = modelList[i].ToDomain()
	}
	return works, nil
}

// Create inserts a new work
func (r *GormWorkRepository) Create(ctx context.Context, w *work.Work) error {
	model := models.WorkModelFromDomain(w)
	return r.db.WithContext(ctx).Create(model).Error
}

var _ work.Repository = (*GormWorkRepository)(nil)
