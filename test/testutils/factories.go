// Package testutils provides test data factories for consistent test data generation
package testutils

import (
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/sousa/mealplan/internal/domain/mealplan"
	"github.com/sousa/mealplan/internal/domain/pantry"
	"github.com/sousa/mealplan/internal/domain/profile"
	"github.com/sousa/mealplan/internal/domain/recipe"
	"github.com/sousa/mealplan/internal/domain/shopping"
)

var kitchenIngredients = []string{
	"2 cups milk", "1 onion", "3 carrots", "500g chicken breast", "1 tbsp butter",
	"200g cheddar cheese", "2 tomatoes", "1 cup rice", "2 eggs", "olive oil",
	"salt", "1 can chickpeas", "fresh basil", "250g ground beef", "1 lemon",
}

var kitchenCuisines = []string{"Italian", "Mexican", "Thai", "Indian", "Japanese", "Greek", "French"}

// Factory builds valid domain objects with random content
type Factory struct {
	faker *gofakeit.Faker
}

// NewFactory creates a factory; the same seed yields the same data
func NewFactory(seed int64) *Factory {
	return &Factory{faker: gofakeit.New(seed)}
}

// Ingredients picks n ingredient lines
func (f *Factory) Ingredients(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = kitchenIngredients[f.faker.Number(0, len(kitchenIngredients)-1)]
	}
	return out
}

// RecipeContent returns valid recipe content
func (f *Factory) RecipeContent() recipe.Content {
	return recipe.Content{
		Title:        f.faker.Sentence(3),
		Ingredients:  f.Ingredients(f.faker.Number(2, 6)),
		Instructions: []string{f.faker.Sentence(6), f.faker.Sentence(8)},
		PrepTime:     f.faker.RandomString([]string{"15 minutes", "30 minutes", "1 hour"}),
		Cuisine:      f.faker.RandomString(kitchenCuisines),
	}
}

// Recipe builds a recipe owned by userID with its events drained
func (f *Factory) Recipe(userID uuid.UUID) *recipe.Recipe {
	r, err := recipe.NewRecipe(userID, f.RecipeContent(), recipe.SourceManual)
	if err != nil {
		panic(err)
	}
	r.Events()
	return r
}

// PantryItem builds a pantry item owned by userID
func (f *Factory) PantryItem(userID uuid.UUID) *pantry.Item {
	item, err := pantry.NewItem(userID, pantry.Details{
		Name:     f.faker.Noun(),
		Category: string(pantry.Categories[f.faker.Number(0, len(pantry.Categories)-1)]),
		Quantity: f.faker.Numerify("# units"),
	})
	if err != nil {
		panic(err)
	}
	return item
}

// ShoppingItem builds an unpurchased shopping item owned by userID
func (f *Factory) ShoppingItem(userID uuid.UUID) *shopping.Item {
	item, err := shopping.NewItem(userID, kitchenIngredients[f.faker.Number(0, len(kitchenIngredients)-1)], nil)
	if err != nil {
		panic(err)
	}
	return item
}

// Meal builds a meal on date in the given slot with its events drained
func (f *Factory) Meal(userID uuid.UUID, date time.Time, mealType mealplan.MealType) *mealplan.ScheduledMeal {
	m, err := mealplan.NewScheduledMeal(userID, mealplan.Schedule{
		Title:    f.faker.Sentence(2),
		MealType: string(mealType),
		Date:     mealplan.FormatDate(date),
	})
	if err != nil {
		panic(err)
	}
	m.Events()
	return m
}

// Profile builds a profile with one to three cuisines
func (f *Factory) Profile(userID uuid.UUID) *profile.Profile {
	n := f.faker.Number(1, 3)
	cuisines := make([]string, n)
	for i := range cuisines {
		cuisines[i] = kitchenCuisines[(i*2+f.faker.Number(0, 1))%len(kitchenCuisines)]
	}
	p, err := profile.NewProfile(userID, f.faker.Bool(), cuisines)
	if err != nil {
		panic(err)
	}
	return p
}
