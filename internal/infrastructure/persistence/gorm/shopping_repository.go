package gorm

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sousa/mealplan/internal/domain/shopping"
	"github.com/sousa/mealplan/internal/ports/outbound"
	"gorm.io/gorm"
)

const shoppingBatchSize = 100

// ShoppingRepository implements outbound.ShoppingRepository
type ShoppingRepository struct {
	db *gorm.DB
}

// NewShoppingRepository creates a new shopping list repository
func NewShoppingRepository(db *gorm.DB) outbound.ShoppingRepository {
	return &ShoppingRepository{db: db}
}

func (r *ShoppingRepository) Create(ctx context.Context, item *shopping.Item) error {
	if err := conn(ctx, r.db).Create(ShoppingItemToModel(item)).Error; err != nil {
		return fmt.Errorf("create shopping item: %w", err)
	}
	return nil
}

// CreateBatch inserts all items in one statement per batch
func (r *ShoppingRepository) CreateBatch(ctx context.Context, items []*shopping.Item) error {
	if len(items) == 0 {
		return nil
	}
	models := make([]*ShoppingItemModel, len(items))
	for i, item := range items {
		models[i] = ShoppingItemToModel(item)
	}
	if err := conn(ctx, r.db).CreateInBatches(models, shoppingBatchSize).Error; err != nil {
		return fmt.Errorf("create shopping items: %w", err)
	}
	return nil
}

func (r *ShoppingRepository) Update(ctx context.Context, item *shopping.Item) error {
	model := ShoppingItemToModel(item)

	result := conn(ctx, r.db).
		Model(&ShoppingItemModel{}).
		Where("id = ? AND user_id = ?", model.ID, model.UserID).
		Select("ingredient", "purchased", "recipe_id", "item_type", "is_cold", "updated_at").
		Updates(model)
	if result.Error != nil {
		return fmt.Errorf("update shopping item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shopping.ErrItemNotFound
	}
	return nil
}

func (r *ShoppingRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result := conn(ctx, r.db).Where("id = ? AND user_id = ?", id, userID).Delete(&ShoppingItemModel{})
	if result.Error != nil {
		return fmt.Errorf("delete shopping item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shopping.ErrItemNotFound
	}
	return nil
}

// DeletePurchased removes every purchased row and reports how many went
func (r *ShoppingRepository) DeletePurchased(ctx context.Context, userID uuid.UUID) (int64, error) {
	result := conn(ctx, r.db).Where("user_id = ? AND purchased = ?", userID, true).Delete(&ShoppingItemModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("clear purchased items: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *ShoppingRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*shopping.Item, error) {
	var model ShoppingItemModel
	err := conn(ctx, r.db).Where("id = ? AND user_id = ?", id, userID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shopping.ErrItemNotFound
		}
		return nil, fmt.Errorf("find shopping item: %w", err)
	}
	return ModelToShoppingItem(&model), nil
}

// FindByUser lists open items first, newest first within each group
func (r *ShoppingRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*shopping.Item, error) {
	var models []ShoppingItemModel
	err := conn(ctx, r.db).
		Where("user_id = ?", userID).
		Order("purchased").
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("list shopping items: %w", err)
	}

	items := make([]*shopping.Item, len(models))
	for i := range models {
		items[i] = ModelToShoppingItem(&models[i])
	}
	return items, nil
}

// DetachRecipe clears the recipe link on every item that points at recipeID
func (r *ShoppingRepository) DetachRecipe(ctx context.Context, userID, recipeID uuid.UUID) error {
	err := conn(ctx, r.db).
		Model(&ShoppingItemModel{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Update("recipe_id", nil).Error
	if err != nil {
		return fmt.Errorf("detach recipe from shopping list: %w", err)
	}
	return nil
}
