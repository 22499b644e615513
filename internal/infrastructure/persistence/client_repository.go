package persistence

import (
	"context"
	"errors"

	"github.com/dentallab/backend/internal/domain/client"
	"github.com/dentallab/backend/internal/domain/shared"
	"github.com/dentallab/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormClientRepository implements client.Repository using GORM
type GormClientRepository struct {
	db *gorm.DB
}

// NewGormClientRepository creates a new GormClientRepository
func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

// Create inserts a new client
func (r *GormClientRepository) Create(ctx context.Context, c *client.Client) error {
	model := models.ClientModelFromDomain(c)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByID finds a client by its ID
func (r *GormClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*client.Client, error) {
	var model models.ClientModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Update saves changes to an existing client
func (r *GormClientRepository) Update(ctx context.Context, c *client.Client) error {
	model := models.ClientModelFromDomain(c)
	result := r.db.WithContext(ctx).Model(&models.ClientModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"name":        model.Name,
			"email":       model.Email,
			"phone":       model.Phone,
			"price_group": model.PriceGroup,
			"active":      model.Active,
			"version":     model.Version,
			"updated_at":  model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// List returns clients with pagination
func (r *GormClientRepository) List(ctx context.Context, filter shared.Filter) ([]*client.Client, int64, error) {
	filter = filter.Normalize()

	query := r.db.WithContext(ctx).Model(&models.ClientModel{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := ValidateSortField(filter.OrderBy, ClientSortFields, "name")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var modelList []models.ClientModel
	if err := query.
		Order(orderBy + " " + orderDir).
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&modelList).Error; err != nil {
		return nil, 0, err
	}

	clients := make([]*client.Client, len(modelList))
	for i := range modelList {
		clients[i] = modelList[i].ToDomain()
	}
	return clients, total, nil
}

var _ client.Repository = (*GormClientRepository)(nil)
