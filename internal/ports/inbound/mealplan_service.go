package inbound

import (
	"context"

	"github.com/google/uuid"
	"github.com/sousa/mealplan/internal/domain/mealplan"
)

// MealPlanService manages the meal calendar
type MealPlanService interface {
	AddMeal(ctx context.Context, cmd AddMealCommand) (*MealDTO, error)
	UpdateMeal(ctx context.Context, cmd UpdateMealCommand) (*MealDTO, error)
	MoveMeal(ctx context.Context, cmd MoveMealCommand) (*MealDTO, error)
	DeleteMeal(ctx context.Context, userID, mealID uuid.UUID) error
	ListMeals(ctx context.Context, userID uuid.UUID, start, end string) ([]MealDTO, error)
	Week(ctx context.Context, userID uuid.UUID, start string) ([]DayDTO, error)
}

// AssistantService holds the two model-backed use cases
type AssistantService interface {
	GenerateRecipe(ctx context.Context, cmd GenerateRecipeCommand) (*RecipeDTO, error)
	PlanWeek(ctx context.Context, cmd PlanWeekCommand) (*mealplan.PlanResult, error)
}

// AddMealCommand puts a meal on the calendar
type AddMealCommand struct {
	UserID        uuid.UUID
	RecipeID      *uuid.UUID
	Title         string
	MealType      string
	Date          string
	ScheduledTime string
	Notes         string
}

// UpdateMealCommand is a partial change; nil fields are left alone.
// ClearRecipe unlinks the recipe.
type UpdateMealCommand struct {
	UserID        uuid.UUID
	MealID        uuid.UUID
	RecipeID      *uuid.UUID
	ClearRecipe   bool
	Title         *string
	MealType      *string
	Date          *string
	ScheduledTime *string
	Notes         *string
}

// MoveMealCommand re-slots a meal, as done by dragging its card
type MoveMealCommand struct {
	UserID   uuid.UUID
	MealID   uuid.UUID
	Date     string
	MealType string
	Position int
}

// GenerateRecipeCommand asks the assistant for one recipe
type GenerateRecipeCommand struct {
	UserID uuid.UUID
	Prompt string
}

// PlanWeekCommand asks the assistant for a week of meals
type PlanWeekCommand struct {
	UserID      uuid.UUID
	Preferences mealplan.Preferences
	WeekStart   string
}

// MealDTO is the wire form of a scheduled meal
type MealDTO struct {
	ID            uuid.UUID  `json:"id"`
	RecipeID      *uuid.UUID `json:"recipe_id,omitempty"`
	MealTitle     string     `json:"meal_title"`
	MealType      string     `json:"meal_type"`
	ScheduledDate string     `json:"scheduled_date"`
	ScheduledTime string     `json:"scheduled_time,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	Position      int        `json:"position"`
	CreatedAt     string     `json:"created_at"`
}

// DayDTO groups one calendar day by meal type
type DayDTO struct {
	Date      string    `json:"date"`
	Breakfast []MealDTO `json:"breakfast"`
	Lunch     []MealDTO `json:"lunch"`
	Dinner    []MealDTO `json:"dinner"`
}
