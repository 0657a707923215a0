// Package gorm provides mapping between domain entities and GORM models
package gorm

import (
	"github.com/sousa/mealplan/internal/domain/mealplan"
	"github.com/sousa/mealplan/internal/domain/pantry"
	"github.com/sousa/mealplan/internal/domain/profile"
	"github.com/sousa/mealplan/internal/domain/recipe"
	"github.com/sousa/mealplan/internal/domain/shopping"
)

// RecipeToModel converts a domain recipe to a GORM model
func RecipeToModel(r *recipe.Recipe) *RecipeModel {
	s := r.Snapshot()
	return &RecipeModel{
		ID:           s.ID,
		UserID:       s.UserID,
		Title:        s.Title,
		Ingredients:  StringSlice(s.Ingredients),
		Instructions: StringSlice(s.Instructions),
		PrepTime:     s.PrepTime,
		Cuisine:      s.Cuisine,
		Source:       string(s.Source),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

// ModelToRecipe converts a GORM model to a domain recipe
func ModelToRecipe(m *RecipeModel) *recipe.Recipe {
	return recipe.Restore(recipe.Snapshot{
		ID:           m.ID,
		UserID:       m.UserID,
		Title:        m.Title,
		Ingredients:  []string(m.Ingredients),
		Instructions: []string(m.Instructions),
		PrepTime:     m.PrepTime,
		Cuisine:      m.Cuisine,
		Source:       recipe.Source(m.Source),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	})
}

// PantryItemToModel converts a pantry item
func PantryItemToModel(i *pantry.Item) *PantryItemModel {
	s := i.Snapshot()
	return &PantryItemModel{
		ID:          s.ID,
		UserID:      s.UserID,
		Name:        s.Name,
		Category:    string(s.Category),
		Status:      string(s.Status),
		Quantity:    s.Quantity,
		ExpiresOn:   s.ExpiresOn,
		ColdItem:    s.Cold,
		PurchasedAt: s.PurchasedAt,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// ModelToPantryItem converts a pantry model
func ModelToPantryItem(m *PantryItemModel) *pantry.Item {
	return pantry.Restore(pantry.Snapshot{
		ID:          m.ID,
		UserID:      m.UserID,
		Name:        m.Name,
		Category:    pantry.Category(m.Category),
		Status:      pantry.Status(m.Status),
		Quantity:    m.Quantity,
		ExpiresOn:   m.ExpiresOn,
		Cold:        m.ColdItem,
		PurchasedAt: m.PurchasedAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	})
}

// MealToModel converts a scheduled meal
func MealToModel(m *mealplan.ScheduledMeal) *ScheduledMealModel {
	s := m.Snapshot()
	return &ScheduledMealModel{
		ID:            s.ID,
		UserID:        s.UserID,
		RecipeID:      s.RecipeID,
		MealTitle:     s.Title,
		MealType:      string(s.MealType),
		ScheduledDate: s.Date,
		ScheduledTime: s.ScheduledTime,
		Notes:         s.Notes,
		Position:      s.Position,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

// ModelToMeal converts a meal model
func ModelToMeal(m *ScheduledMealModel) *mealplan.ScheduledMeal {
	return mealplan.Restore(mealplan.Snapshot{
		ID:            m.ID,
		UserID:        m.UserID,
		RecipeID:      m.RecipeID,
		Title:         m.MealTitle,
		MealType:      mealplan.MealType(m.MealType),
		Date:          m.ScheduledDate,
		ScheduledTime: m.ScheduledTime,
		Notes:         m.Notes,
		Position:      m.Position,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	})
}

// ShoppingItemToModel converts a shopping item
func ShoppingItemToModel(i *shopping.Item) *ShoppingItemModel {
	s := i.Snapshot()
	return &ShoppingItemModel{
		ID:         s.ID,
		UserID:     s.UserID,
		Ingredient: s.Ingredient,
		Purchased:  s.Purchased,
		RecipeID:   s.RecipeID,
		ItemType:   string(s.ItemType),
		IsCold:     s.Cold,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

// ModelToShoppingItem converts a shopping model
func ModelToShoppingItem(m *ShoppingItemModel) *shopping.Item {
	return shopping.Restore(shopping.Snapshot{
		ID:         m.ID,
		UserID:     m.UserID,
		Ingredient: m.Ingredient,
		Purchased:  m.Purchased,
		RecipeID:   m.RecipeID,
		ItemType:   pantry.Category(m.ItemType),
		Cold:       m.IsCold,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	})
}

// ProfileToModel converts a profile
func ProfileToModel(p *profile.Profile) *ProfileModel {
	s := p.Snapshot()
	return &ProfileModel{
		UserID:       s.UserID,
		IsVegetarian: s.IsVegetarian,
		Cuisines:     StringSlice(s.Cuisines),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

// ModelToProfile converts a profile model
func ModelToProfile(m *ProfileModel) *profile.Profile {
	return profile.Restore(profile.Snapshot{
		UserID:       m.UserID,
		IsVegetarian: m.IsVegetarian,
		Cuisines:     []string(m.Cuisines),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	})
}
