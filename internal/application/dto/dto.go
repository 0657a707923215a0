// Package dto converts domain objects into the wire types of the inbound ports
// and maps domain validation errors onto application errors.
package dto

import (
	stderrors "errors"
	"time"

	"github.com/sousa/mealplan/internal/domain/mealplan"
	"github.com/sousa/mealplan/internal/domain/pantry"
	"github.com/sousa/mealplan/internal/domain/profile"
	"github.com/sousa/mealplan/internal/domain/recipe"
	"github.com/sousa/mealplan/internal/domain/shopping"
	"github.com/sousa/mealplan/internal/ports/inbound"
	"github.com/sousa/mealplan/pkg/errors"
)

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// Recipe converts a recipe entity
func Recipe(r *recipe.Recipe) *inbound.RecipeDTO {
	return &inbound.RecipeDTO{
		ID:           r.ID(),
		UserID:       r.UserID(),
		Title:        r.Title(),
		Ingredients:  r.Ingredients(),
		Instructions: r.Instructions(),
		PrepTime:     r.PrepTime(),
		Cuisine:      r.Cuisine(),
		Source:       string(r.Source()),
		CreatedAt:    timestamp(r.CreatedAt()),
		UpdatedAt:    timestamp(r.UpdatedAt()),
	}
}

// PantryItem converts a pantry item
func PantryItem(i *pantry.Item) inbound.PantryItemDTO {
	out := inbound.PantryItemDTO{
		ID:        i.ID(),
		Name:      i.Name(),
		Category:  string(i.Category()),
		Status:    string(i.Status()),
		Quantity:  i.Quantity(),
		ColdItem:  i.Cold(),
		CreatedAt: timestamp(i.CreatedAt()),
		UpdatedAt: timestamp(i.UpdatedAt()),
	}
	if e := i.ExpiresOn(); e != nil {
		s := mealplan.FormatDate(*e)
		out.ExpiresOn = &s
	}
	if p := i.PurchasedAt(); p != nil {
		s := timestamp(*p)
		out.PurchasedAt = &s
	}
	return out
}

// PantryItems converts a slice
func PantryItems(items []*pantry.Item) []inbound.PantryItemDTO {
	out := make([]inbound.PantryItemDTO, len(items))
	for i, item := range items {
		out[i] = PantryItem(item)
	}
	return out
}

// ShoppingItem converts a shopping item
func ShoppingItem(i *shopping.Item) inbound.ShoppingItemDTO {
	return inbound.ShoppingItemDTO{
		ID:         i.ID(),
		Ingredient: i.Ingredient(),
		Purchased:  i.Purchased(),
		RecipeID:   i.RecipeID(),
		ItemType:   string(i.ItemType()),
		IsCold:     i.Cold(),
		CreatedAt:  timestamp(i.CreatedAt()),
	}
}

// ShoppingItems converts a slice
func ShoppingItems(items []*shopping.Item) []inbound.ShoppingItemDTO {
	out := make([]inbound.ShoppingItemDTO, len(items))
	for i, item := range items {
		out[i] = ShoppingItem(item)
	}
	return out
}

// Profile converts a profile
func Profile(p *profile.Profile) *inbound.ProfileDTO {
	return &inbound.ProfileDTO{
		UserID:       p.UserID(),
		IsVegetarian: p.IsVegetarian(),
		Cuisines:     p.Cuisines(),
		CreatedAt:    timestamp(p.CreatedAt()),
		UpdatedAt:    timestamp(p.UpdatedAt()),
	}
}

// Meal converts a scheduled meal
func Meal(m *mealplan.ScheduledMeal) inbound.MealDTO {
	return inbound.MealDTO{
		ID:            m.ID(),
		RecipeID:      m.RecipeID(),
		MealTitle:     m.Title(),
		MealType:      string(m.MealType()),
		ScheduledDate: mealplan.FormatDate(m.Date()),
		ScheduledTime: m.ScheduledTime(),
		Notes:         m.Notes(),
		Position:      m.Position(),
		CreatedAt:     timestamp(m.CreatedAt()),
	}
}

// Meals converts a slice
func Meals(meals []*mealplan.ScheduledMeal) []inbound.MealDTO {
	out := make([]inbound.MealDTO, len(meals))
	for i, m := range meals {
		out[i] = Meal(m)
	}
	return out
}

// Days converts the week view. Empty slots are rendered as empty arrays.
func Days(days []mealplan.Day) []inbound.DayDTO {
	out := make([]inbound.DayDTO, len(days))
	for i, d := range days {
		out[i] = inbound.DayDTO{
			Date:      mealplan.FormatDate(d.Date),
			Breakfast: Meals(d.Meals[mealplan.Breakfast]),
			Lunch:     Meals(d.Meals[mealplan.Lunch]),
			Dinner:    Meals(d.Meals[mealplan.Dinner]),
		}
	}
	return out
}

var validationErrors = []error{
	pantry.ErrNameRequired, pantry.ErrNameTooLong, pantry.ErrInvalidCategory, pantry.ErrInvalidStatus,
	recipe.ErrOwnerRequired, recipe.ErrTitleRequired, recipe.ErrTitleTooLong, recipe.ErrTooManyLines,
	profile.ErrCuisinesRequired, profile.ErrUserRequired,
	shopping.ErrIngredientRequired,
	mealplan.ErrTitleRequired, mealplan.ErrTitleTooLong, mealplan.ErrInvalidMealType,
	mealplan.ErrInvalidDate, mealplan.ErrInvalidTime, mealplan.ErrNotesTooLong,
	mealplan.ErrInvalidRange, mealplan.ErrInvalidPosition, mealplan.ErrInvalidNumMeals,
	mealplan.ErrInvalidNumPeople, mealplan.ErrInvalidEffort,
}

// ValidationError turns a domain validation sentinel into a 400. Other
// errors are wrapped as internal errors.
func ValidationError(err error) *errors.AppError {
	for _, target := range validationErrors {
		if stderrors.Is(err, target) {
			return errors.NewValidationError(err.Error()).WithCause(err)
		}
	}
	return errors.Wrap(err, "unexpected domain error")
}
