package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sousa/mealplan/internal/domain/mealplan"
	"github.com/sousa/mealplan/internal/ports/inbound"
	"github.com/stretchr/testify/mock"
)

type mockRecipeService struct{ mock.Mock }

func (m *mockRecipeService) CreateRecipe(ctx context.Context, cmd inbound.CreateRecipeCommand) (*inbound.RecipeDTO, error) {
	args := m.Called(ctx, cmd)
	out, _ := args.Get(0).(*inbound.RecipeDTO)
	return out, args.Error(1)
}

func (m *mockRecipeService) UpdateRecipe(ctx context.Context, cmd inbound.UpdateRecipeCommand) (*inbound.RecipeDTO, error) {
	args := m.Called(ctx, cmd)
	out, _ := args.Get(0).(*inbound.RecipeDTO)
	return out, args.Error(1)
}

func (m *mockRecipeService) DeleteRecipe(ctx context.Context, userID, recipeID uuid.UUID) error {
	return m.Called(ctx, userID, recipeID).Error(0)
}

func (m *mockRecipeService) GetRecipe(ctx context.Context, userID, recipeID uuid.UUID) (*inbound.RecipeDTO, error) {
	args := m.Called(ctx, userID, recipeID)
	out, _ := args.Get(0).(*inbound.RecipeDTO)
	return out, args.Error(1)
}

func (m *mockRecipeService) ListRecipes(ctx context.Context, userID uuid.UUID, params inbound.PaginationParams) (*inbound.RecipeList, error) {
	args := m.Called(ctx, userID, params)
	out, _ := args.Get(0).(*inbound.RecipeList)
	return out, args.Error(1)
}

type mockPantryService struct{ mock.Mock }

func (m *mockPantryService) AddItem(ctx context.Context, cmd inbound.PantryItemCommand) (*inbound.PantryItemDTO, error) {
	args := m.Called(ctx, cmd)
	out, _ := args.Get(0).(*inbound.PantryItemDTO)
	return out, args.Error(1)
}

func (m *mockPantryService) UpdateItem(ctx context.Context, itemID uuid.UUID, cmd inbound.PantryItemCommand) (*inbound.PantryItemDTO, error) {
	args := m.Called(ctx, itemID, cmd)
	out, _ := args.Get(0).(*inbound.PantryItemDTO)
	return out, args.Error(1)
}

func (m *mockPantryService) DeleteItem(ctx context.Context, userID, itemID uuid.UUID) error {
	return m.Called(ctx, userID, itemID).Error(0)
}

func (m *mockPantryService) GetItem(ctx context.Context, userID, itemID uuid.UUID) (*inbound.PantryItemDTO, error) {
	args := m.Called(ctx, userID, itemID)
	out, _ := args.Get(0).(*inbound.PantryItemDTO)
	return out, args.Error(1)
}

func (m *mockPantryService) ListItems(ctx context.Context, userID uuid.UUID, category, status string) ([]inbound.PantryItemDTO, error) {
	args := m.Called(ctx, userID, category, status)
	out, _ := args.Get(0).([]inbound.PantryItemDTO)
	return out, args.Error(1)
}

func (m *mockPantryService) ExpiringSoon(ctx context.Context, userID uuid.UUID, within time.Duration) ([]inbound.PantryItemDTO, error) {
	args := m.Called(ctx, userID, within)
	out, _ := args.Get(0).([]inbound.PantryItemDTO)
	return out, args.Error(1)
}

type mockShoppingService struct{ mock.Mock }

func (m *mockShoppingService) AddItem(ctx context.Context, cmd inbound.AddShoppingItemCommand) (*inbound.ShoppingItemDTO, error) {
	args := m.Called(ctx, cmd)
	out, _ := args.Get(0).(*inbound.ShoppingItemDTO)
	return out, args.Error(1)
}

func (m *mockShoppingService) TogglePurchased(ctx context.Context, userID, itemID uuid.UUID) (*inbound.ShoppingItemDTO, error) {
	args := m.Called(ctx, userID, itemID)
	out, _ := args.Get(0).(*inbound.ShoppingItemDTO)
	return out, args.Error(1)
}

func (m *mockShoppingService) DeleteItem(ctx context.Context, userID, itemID uuid.UUID) error {
	return m.Called(ctx, userID, itemID).Error(0)
}

func (m *mockShoppingService) ClearPurchased(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockShoppingService) ListItems(ctx context.Context, userID uuid.UUID) ([]inbound.ShoppingItemDTO, error) {
	args := m.Called(ctx, userID)
	out, _ := args.Get(0).([]inbound.ShoppingItemDTO)
	return out, args.Error(1)
}

type mockProfileService struct{ mock.Mock }

func (m *mockProfileService) CreateProfile(ctx context.Context, cmd inbound.ProfileCommand) (*inbound.ProfileDTO, error) {
	args := m.Called(ctx, cmd)
	out, _ := args.Get(0).(*inbound.ProfileDTO)
	return out, args.Error(1)
}

func (m *mockProfileService) UpdateProfile(ctx context.Context, cmd inbound.ProfileCommand) (*inbound.ProfileDTO, error) {
	args := m.Called(ctx, cmd)
	out, _ := args.Get(0).(*inbound.ProfileDTO)
	return out, args.Error(1)
}

func (m *mockProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*inbound.ProfileDTO, error) {
	args := m.Called(ctx, userID)
	out, _ := args.Get(0).(*inbound.ProfileDTO)
	return out, args.Error(1)
}

type mockMealPlanService struct{ mock.Mock }

func (m *mockMealPlanService) AddMeal(ctx context.Context, cmd inbound.AddMealCommand) (*inbound.MealDTO, error) {
	args := m.Called(ctx, cmd)
	out, _ := args.Get(0).(*inbound.MealDTO)
	return out, args.Error(1)
}

func (m *mockMealPlanService) UpdateMeal(ctx context.Context, cmd inbound.UpdateMealCommand) (*inbound.MealDTO, error) {
	args := m.Called(ctx, cmd)
	out, _ := args.Get(0).(*inbound.MealDTO)
	return out, args.Error(1)
}

func (m *mockMealPlanService) MoveMeal(ctx context.Context, cmd inbound.MoveMealCommand) (*inbound.MealDTO, error) {
	args := m.Called(ctx, cmd)
	out, _ := args.Get(0).(*inbound.MealDTO)
	return out, args.Error(1)
}

func (m *mockMealPlanService) DeleteMeal(ctx context.Context, userID, mealID uuid.UUID) error {
	return m.Called(ctx, userID, mealID).Error(0)
}

func (m *mockMealPlanService) ListMeals(ctx context.Context, userID uuid.UUID, start, end string) ([]inbound.MealDTO, error) {
	args := m.Called(ctx, userID, start, end)
	out, _ := args.Get(0).([]inbound.MealDTO)
	return out, args.Error(1)
}

func (m *mockMealPlanService) Week(ctx context.Context, userID uuid.UUID, start string) ([]inbound.DayDTO, error) {
	args := m.Called(ctx, userID, start)
	out, _ := args.Get(0).([]inbound.DayDTO)
	return out, args.Error(1)
}

type mockAssistantService struct{ mock.Mock }

func (m *mockAssistantService) GenerateRecipe(ctx context.Context, cmd inbound.GenerateRecipeCommand) (*inbound.RecipeDTO, error) {
	args := m.Called(ctx, cmd)
	out, _ := args.Get(0).(*inbound.RecipeDTO)
	return out, args.Error(1)
}

func (m *mockAssistantService) PlanWeek(ctx context.Context, cmd inbound.PlanWeekCommand) (*mealplan.PlanResult, error) {
	args := m.Called(ctx, cmd)
	out, _ := args.Get(0).(*mealplan.PlanResult)
	return out, args.Error(1)
}
