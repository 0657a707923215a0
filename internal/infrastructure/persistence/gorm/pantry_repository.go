package gorm

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sousa/mealplan/internal/domain/pantry"
	"github.com/sousa/mealplan/internal/ports/outbound"
	"gorm.io/gorm"
)

// PantryRepository implements outbound.PantryRepository
type PantryRepository struct {
	db *gorm.DB
}

// NewPantryRepository creates a new pantry repository
func NewPantryRepository(db *gorm.DB) outbound.PantryRepository {
	return &PantryRepository{db: db}
}

func (r *PantryRepository) Create(ctx context.Context, item *pantry.Item) error {
	if err := conn(ctx, r.db).Create(PantryItemToModel(item)).Error; err != nil {
		return fmt.Errorf("create pantry item: %w", err)
	}
	return nil
}

func (r *PantryRepository) Update(ctx context.Context, item *pantry.Item) error {
	model := PantryItemToModel(item)

	result := conn(ctx, r.db).
		Model(&PantryItemModel{}).
		Where("id = ? AND user_id = ?", model.ID, model.UserID).
		Select("name", "category", "status", "quantity", "expires_on", "cold_item", "purchased_at", "updated_at").
		Updates(model)
	if result.Error != nil {
		return fmt.Errorf("update pantry item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return pantry.ErrItemNotFound
	}
	return nil
}

func (r *PantryRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result := conn(ctx, r.db).Where("id = ? AND user_id = ?", id, userID).Delete(&PantryItemModel{})
	if result.Error != nil {
		return fmt.Errorf("delete pantry item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return pantry.ErrItemNotFound
	}
	return nil
}

func (r *PantryRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*pantry.Item, error) {
	var model PantryItemModel
	err := conn(ctx, r.db).Where("id = ? AND user_id = ?", id, userID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pantry.ErrItemNotFound
		}
		return nil, fmt.Errorf("find pantry item: %w", err)
	}
	return ModelToPantryItem(&model), nil
}

// FindByUser lists the pantry, newest first, narrowed by filter
func (r *PantryRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter outbound.PantryFilter) ([]*pantry.Item, error) {
	query := conn(ctx, r.db).Where("user_id = ?", userID)
	if filter.Category != "" {
		query = query.Where("category = ?", string(filter.Category))
	}
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}

	var models []PantryItemModel
	if err := query.Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list pantry items: %w", err)
	}

	items := make([]*pantry.Item, len(models))
	for i := range models {
		items[i] = ModelToPantryItem(&models[i])
	}
	return items, nil
}
