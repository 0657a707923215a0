package gorm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sousa/mealplan/internal/domain/mealplan"
	"github.com/sousa/mealplan/internal/ports/outbound"
	"gorm.io/gorm"
)

// MealRepository implements outbound.MealRepository
type MealRepository struct {
	db *gorm.DB
}

// NewMealRepository creates a new scheduled meal repository
func NewMealRepository(db *gorm.DB) outbound.MealRepository {
	return &MealRepository{db: db}
}

func (r *MealRepository) Create(ctx context.Context, meal *mealplan.ScheduledMeal) error {
	if err := conn(ctx, r.db).Create(MealToModel(meal)).Error; err != nil {
		return fmt.Errorf("create meal: %w", err)
	}
	return nil
}

func (r *MealRepository) Update(ctx context.Context, meal *mealplan.ScheduledMeal) error {
	model := MealToModel(meal)

	result := conn(ctx, r.db).
		Model(&ScheduledMealModel{}).
		Where("id = ? AND user_id = ?", model.ID, model.UserID).
		Select("recipe_id", "meal_title", "meal_type", "scheduled_date", "scheduled_time", "notes", "position", "updated_at").
		Updates(model)
	if result.Error != nil {
		return fmt.Errorf("update meal: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return mealplan.ErrMealNotFound
	}
	return nil
}

// UpdatePositions writes only the position column of each meal
func (r *MealRepository) UpdatePositions(ctx context.Context, meals []*mealplan.ScheduledMeal) error {
	db := conn(ctx, r.db)
	for _, m := range meals {
		err := db.Model(&ScheduledMealModel{}).
			Where("id = ? AND user_id = ?", m.ID(), m.UserID()).
			Updates(map[string]interface{}{
				"position":   m.Position(),
				"updated_at": m.UpdatedAt(),
			}).Error
		if err != nil {
			return fmt.Errorf("update meal position: %w", err)
		}
	}
	return nil
}

func (r *MealRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result := conn(ctx, r.db).Where("id = ? AND user_id = ?", id, userID).Delete(&ScheduledMealModel{})
	if result.Error != nil {
		return fmt.Errorf("delete meal: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return mealplan.ErrMealNotFound
	}
	return nil
}

func (r *MealRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*mealplan.ScheduledMeal, error) {
	var model ScheduledMealModel
	err := conn(ctx, r.db).Where("id = ? AND user_id = ?", id, userID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, mealplan.ErrMealNotFound
		}
		return nil, fmt.Errorf("find meal: %w", err)
	}
	return ModelToMeal(&model), nil
}

// FindByUser lists meals inside the range ordered by date, then position
func (r *MealRepository) FindByUser(ctx context.Context, userID uuid.UUID, rng mealplan.Range) ([]*mealplan.ScheduledMeal, error) {
	query := conn(ctx, r.db).Where("user_id = ?", userID)
	if rng.Start != nil {
		query = query.Where("scheduled_date >= ?", *rng.Start)
	}
	if rng.End != nil {
		query = query.Where("scheduled_date <= ?", *rng.End)
	}

	var models []ScheduledMealModel
	if err := query.Order("scheduled_date").Order("position").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}

	meals := toMeals(models)
	mealplan.Sort(meals)
	return meals, nil
}

// FindBySlot lists the meals sharing one day and meal type, by position
func (r *MealRepository) FindBySlot(ctx context.Context, userID uuid.UUID, date time.Time, mealType mealplan.MealType) ([]*mealplan.ScheduledMeal, error) {
	var models []ScheduledMealModel
	err := conn(ctx, r.db).
		Where("user_id = ? AND scheduled_date = ? AND meal_type = ?", userID, mealplan.TruncateDate(date), string(mealType)).
		Order("position").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("list meal slot: %w", err)
	}
	return toMeals(models), nil
}

// NextPosition returns one past the highest position used in the slot
func (r *MealRepository) NextPosition(ctx context.Context, userID uuid.UUID, date time.Time, mealType mealplan.MealType) (int, error) {
	var next int
	err := conn(ctx, r.db).
		Model(&ScheduledMealModel{}).
		Select("COALESCE(MAX(position) + 1, 0)").
		Where("user_id = ? AND scheduled_date = ? AND meal_type = ?", userID, mealplan.TruncateDate(date), string(mealType)).
		Scan(&next).Error
	if err != nil {
		return 0, fmt.Errorf("next meal position: %w", err)
	}
	return next, nil
}

// DetachRecipe clears the recipe link on every meal that points at recipeID
func (r *MealRepository) DetachRecipe(ctx context.Context, userID, recipeID uuid.UUID) error {
	err := conn(ctx, r.db).
		Model(&ScheduledMealModel{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Update("recipe_id", nil).Error
	if err != nil {
		return fmt.Errorf("detach recipe from meals: %w", err)
	}
	return nil
}

func toMeals(models []ScheduledMealModel) []*mealplan.ScheduledMeal {
	meals := make([]*mealplan.ScheduledMeal, len(models))
	for i := range models {
		meals[i] = ModelToMeal(&models[i])
	}
	return meals
}
