// Package gorm provides GORM-based repository implementations
package gorm

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sousa/mealplan/internal/domain/recipe"
	"github.com/sousa/mealplan/internal/ports/outbound"
	"gorm.io/gorm"
)

// RecipeRepository implements the recipe repository interface using GORM
type RecipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a new recipe repository
func NewRecipeRepository(db *gorm.DB) outbound.RecipeRepository {
	return &RecipeRepository{db: db}
}

// Create creates a new recipe
func (r *RecipeRepository) Create(ctx context.Context, rec *recipe.Recipe) error {
	if err := conn(ctx, r.db).Create(RecipeToModel(rec)).Error; err != nil {
		return fmt.Errorf("create recipe: %w", err)
	}
	return nil
}

// Update overwrites the stored recipe
func (r *RecipeRepository) Update(ctx context.Context, rec *recipe.Recipe) error {
	model := RecipeToModel(rec)

	result := conn(ctx, r.db).
		Model(&RecipeModel{}).
		Where("id = ? AND user_id = ?", model.ID, model.UserID).
		Select("title", "ingredients", "instructions", "prep_time", "cuisine", "updated_at").
		Updates(model)
	if result.Error != nil {
		return fmt.Errorf("update recipe: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return recipe.ErrRecipeNotFound
	}
	return nil
}

// Delete removes a recipe permanently
func (r *RecipeRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result := conn(ctx, r.db).Where("id = ? AND user_id = ?", id, userID).Delete(&RecipeModel{})
	if result.Error != nil {
		return fmt.Errorf("delete recipe: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return recipe.ErrRecipeNotFound
	}
	return nil
}

// FindByID finds a recipe owned by userID
func (r *RecipeRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*recipe.Recipe, error) {
	var model RecipeModel

	err := conn(ctx, r.db).Where("id = ? AND user_id = ?", id, userID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, recipe.ErrRecipeNotFound
		}
		return nil, fmt.Errorf("find recipe: %w", err)
	}
	return ModelToRecipe(&model), nil
}

// FindByUser returns one page of recipes, newest first, and the total count
func (r *RecipeRepository) FindByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*recipe.Recipe, int, error) {
	var (
		models []RecipeModel
		total  int64
	)

	query := conn(ctx, r.db).Model(&RecipeModel{}).Where("user_id = ?", userID).Session(&gorm.Session{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count recipes: %w", err)
	}

	err := query.
		Order("created_at DESC").
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list recipes: %w", err)
	}

	recipes := make([]*recipe.Recipe, len(models))
	for i := range models {
		recipes[i] = ModelToRecipe(&models[i])
	}
	return recipes, int(total), nil
}
