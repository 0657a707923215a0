package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/sousa/mealplan/internal/domain/mealplan"
	"github.com/sousa/mealplan/internal/infrastructure/config"
	"github.com/sousa/mealplan/internal/infrastructure/http/middleware"
	"github.com/sousa/mealplan/internal/infrastructure/security"
	"github.com/sousa/mealplan/internal/ports/inbound"
	"github.com/sousa/mealplan/pkg/errors"
	"github.com/sousa/mealplan/test/testutils"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type APIHandlersTestSuite struct {
	suite.Suite
	recipes   *mockRecipeService
	pantry    *mockPantryService
	shopping  *mockShoppingService
	profiles  *mockProfileService
	meals     *mockMealPlanService
	assistant *mockAssistantService
	router    http.Handler
	userID    uuid.UUID
	token     string
}

func (s *APIHandlersTestSuite) SetupTest() {
	s.recipes = new(mockRecipeService)
	s.pantry = new(mockPantryService)
	s.shopping = new(mockShoppingService)
	s.profiles = new(mockProfileService)
	s.meals = new(mockMealPlanService)
	s.assistant = new(mockAssistantService)

	verifier := security.NewTokenVerifier(config.AuthConfig{JWTSecret: "handler-test-secret-0123456789abcdef"})
	s.userID = uuid.New()
	token, err := verifier.Issue(s.userID, "cook@example.test", time.Hour)
	s.Require().NoError(err)
	s.token = token

	h := NewAPIHandlers(Services{
		Recipes:   s.recipes,
		Pantry:    s.pantry,
		Shopping:  s.shopping,
		Profiles:  s.profiles,
		MealPlan:  s.meals,
		Assistant: s.assistant,
	}, security.NewValidator(), zap.NewNop())

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(verifier, zap.NewNop()))
			h.Routes(r)
		})
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuthenticate(verifier, zap.NewNop()))
			h.AssistantRoutes(r)
		})
	})
	s.router = r
}

func (s *APIHandlersTestSuite) TearDownTest() {
	s.recipes.AssertExpectations(s.T())
	s.pantry.AssertExpectations(s.T())
	s.shopping.AssertExpectations(s.T())
	s.profiles.AssertExpectations(s.T())
	s.meals.AssertExpectations(s.T())
	s.assistant.AssertExpectations(s.T())
}

func (s *APIHandlersTestSuite) do(method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			s.Require().NoError(json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var out map[string]interface{}
	if rec.Body.Len() > 0 {
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec, out
}

func (s *APIHandlersTestSuite) errorCode(body map[string]interface{}) string {
	e, ok := body["error"].(map[string]interface{})
	s.Require().True(ok, "expected structured error, got %v", body)
	return e["code"].(string)
}

func (s *APIHandlersTestSuite) TestRequiresBearerToken() {
	s.token = ""
	rec, body := s.do(http.MethodGet, "/api/v1/recipes", nil)

	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal(false, body["success"])
	s.Equal(string(errors.CodeUnauthorized), s.errorCode(body))
}

func (s *APIHandlersTestSuite) TestRejectsForgedToken() {
	s.token = s.token + "x"
	rec, _ := s.do(http.MethodGet, "/api/v1/profile", nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *APIHandlersTestSuite) TestListRecipesPassesPagination() {
	s.recipes.On("ListRecipes", mock.Anything, s.userID, inbound.PaginationParams{Page: 2, PageSize: 5}).
		Return(&inbound.RecipeList{Recipes: []inbound.RecipeDTO{}, Total: 7, Page: 2, PageSize: 5, TotalPages: 2}, nil)

	rec, body := s.do(http.MethodGet, "/api/v1/recipes?page=2&page_size=5", nil)

	s.Equal(http.StatusOK, rec.Code)
	s.Equal(true, body["success"])
	data := body["data"].(map[string]interface{})
	s.Equal(float64(7), data["total"])
}

func (s *APIHandlersTestSuite) TestCreateRecipeValidation() {
	rec, body := s.do(http.MethodPost, "/api/v1/recipes", map[string]interface{}{"title": "   "})

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal(string(errors.CodeValidationFailed), s.errorCode(body))
	s.recipes.AssertNotCalled(s.T(), "CreateRecipe", mock.Anything, mock.Anything)
}

func (s *APIHandlersTestSuite) TestCreateRecipe() {
	s.recipes.On("CreateRecipe", mock.Anything, inbound.CreateRecipeCommand{
		UserID:       s.userID,
		Title:        "Shakshuka",
		Ingredients:  []string{"6 eggs", "1 can tomatoes"},
		Instructions: []string{"Simmer sauce", "Poach eggs"},
		PrepTime:     "25 minutes",
	}).Return(&inbound.RecipeDTO{ID: uuid.New(), Title: "Shakshuka"}, nil)

	rec, body := s.do(http.MethodPost, "/api/v1/recipes", map[string]interface{}{
		"title":        "Shakshuka",
		"ingredients":  []string{"6 eggs", "1 can tomatoes"},
		"instructions": []string{"Simmer sauce", "Poach eggs"},
		"prep_time":    "25 minutes",
	})

	s.Equal(http.StatusCreated, rec.Code)
	s.Equal("Shakshuka", body["data"].(map[string]interface{})["title"])
}

func (s *APIHandlersTestSuite) TestUnknownFieldsRejected() {
	rec, _ := s.do(http.MethodPost, "/api/v1/recipes", `{"title":"Soup","servings":4}`)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *APIHandlersTestSuite) TestGetRecipeNotFound() {
	id := uuid.New()
	s.recipes.On("GetRecipe", mock.Anything, s.userID, id).Return(nil, errors.NewRecipeNotFoundError(id.String()))

	rec, body := s.do(http.MethodGet, "/api/v1/recipes/"+id.String(), nil)

	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal(string(errors.CodeRecipeNotFound), s.errorCode(body))
}

func (s *APIHandlersTestSuite) TestInvalidPathID() {
	rec, _ := s.do(http.MethodDelete, "/api/v1/pantry/not-a-uuid", nil)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *APIHandlersTestSuite) TestInternalErrorsAreMasked() {
	s.shopping.On("ListItems", mock.Anything, s.userID).Return(nil, fmt.Errorf("pq: connection refused"))

	rec, _ := s.do(http.MethodGet, "/api/v1/shopping", nil)

	s.NotContains(rec.Body.String(), "connection refused")
	detail := testutils.NewHTTPAssertions(s.T()).StructuredError(rec, http.StatusInternalServerError, errors.CodeInternal)
	s.NotEmpty(detail.RequestID)
}

func (s *APIHandlersTestSuite) TestCreateProfileConflict() {
	s.profiles.On("CreateProfile", mock.Anything, inbound.ProfileCommand{
		UserID: s.userID, IsVegetarian: true, Cuisines: []string{"Italian"},
	}).Return(nil, errors.NewProfileExistsError(s.userID.String()))

	rec, body := s.do(http.MethodPost, "/api/v1/profile", map[string]interface{}{
		"is_vegetarian": true,
		"cuisines":      []string{"Italian"},
	})

	s.Equal(http.StatusConflict, rec.Code)
	s.Equal(string(errors.CodeProfileExists), s.errorCode(body))
}

func (s *APIHandlersTestSuite) TestProfileRequiresCuisine() {
	rec, _ := s.do(http.MethodPut, "/api/v1/profile", map[string]interface{}{"cuisines": []string{}})
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *APIHandlersTestSuite) TestExpiringSoonDays() {
	s.pantry.On("ExpiringSoon", mock.Anything, s.userID, 72*time.Hour).Return([]inbound.PantryItemDTO{}, nil)

	rec, _ := s.do(http.MethodGet, "/api/v1/pantry/expiring", nil)
	s.Equal(http.StatusOK, rec.Code)

	rec, _ = s.do(http.MethodGet, "/api/v1/pantry/expiring?days=-1", nil)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *APIHandlersTestSuite) TestListPantryFilters() {
	s.pantry.On("ListItems", mock.Anything, s.userID, "Dairy", "low").Return([]inbound.PantryItemDTO{{Name: "Milk"}}, nil)

	rec, _ := s.do(http.MethodGet, "/api/v1/pantry?category=Dairy&status=low", nil)

	var items []inbound.PantryItemDTO
	testutils.NewHTTPAssertions(s.T()).Envelope(rec, http.StatusOK, &items)
	s.Require().Len(items, 1)
	s.Equal("Milk", items[0].Name)
}

func (s *APIHandlersTestSuite) TestMoveMeal() {
	mealID := uuid.New()
	s.meals.On("MoveMeal", mock.Anything, inbound.MoveMealCommand{
		UserID: s.userID, MealID: mealID, Date: "2025-06-05", MealType: "lunch", Position: 0,
	}).Return(&inbound.MealDTO{ID: mealID, MealType: "lunch", Position: 0}, nil)

	rec, body := s.do(http.MethodPost, "/api/v1/meals/"+mealID.String()+"/move", map[string]interface{}{
		"scheduled_date": "2025-06-05",
		"meal_type":      "lunch",
		"position":       0,
	})

	s.Equal(http.StatusOK, rec.Code)
	s.Equal("lunch", body["data"].(map[string]interface{})["meal_type"])
}

func (s *APIHandlersTestSuite) TestAddMealRejectsBadDate() {
	rec, _ := s.do(http.MethodPost, "/api/v1/meals", map[string]interface{}{
		"meal_title":     "Tacos",
		"meal_type":      "dinner",
		"scheduled_date": "June 5",
	})
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *APIHandlersTestSuite) TestUpdateMealPartial() {
	mealID := uuid.New()
	notes := "double the garlic"
	s.meals.On("UpdateMeal", mock.Anything, inbound.UpdateMealCommand{
		UserID: s.userID, MealID: mealID, Notes: &notes,
	}).Return(&inbound.MealDTO{ID: mealID, Notes: notes}, nil)

	rec, _ := s.do(http.MethodPut, "/api/v1/meals/"+mealID.String(), map[string]interface{}{"notes": notes})
	s.Equal(http.StatusOK, rec.Code)
}

func (s *APIHandlersTestSuite) TestClearPurchased() {
	s.shopping.On("ClearPurchased", mock.Anything, s.userID).Return(int64(3), nil)

	rec, body := s.do(http.MethodDelete, "/api/v1/shopping/purchased", nil)

	s.Equal(http.StatusOK, rec.Code)
	s.Equal(float64(3), body["data"].(map[string]interface{})["deleted"])
}

func (s *APIHandlersTestSuite) TestTogglePurchased() {
	itemID := uuid.New()
	s.shopping.On("TogglePurchased", mock.Anything, s.userID, itemID).
		Return(&inbound.ShoppingItemDTO{ID: itemID, Purchased: true}, nil)

	rec, body := s.do(http.MethodPost, "/api/v1/shopping/"+itemID.String()+"/toggle", nil)

	s.Equal(http.StatusOK, rec.Code)
	s.Equal(true, body["data"].(map[string]interface{})["purchased"])
}

func (s *APIHandlersTestSuite) TestPlanWeekFlatBody() {
	prefs := mealplan.Preferences{NumMeals: 5, EffortLevel: mealplan.EffortQuick, Cuisines: []string{"Thai"}, NumPeople: 2}
	s.assistant.On("PlanWeek", mock.Anything, inbound.PlanWeekCommand{
		UserID: s.userID, Preferences: prefs, WeekStart: "2025-06-02",
	}).Return(&mealplan.PlanResult{MealsCreated: 5, IngredientsAdded: 17}, nil)

	rec, body := s.do(http.MethodPost, "/api/v1/ai/plan-week", map[string]interface{}{
		"preferences": prefs,
		"weekStart":   "2025-06-02",
	})

	s.Equal(http.StatusOK, rec.Code)
	s.Equal(true, body["success"])
	s.Equal(float64(5), body["mealsCreated"])
	s.Equal(float64(17), body["ingredientsAdded"])
}

func (s *APIHandlersTestSuite) TestGenerateRecipeModelFailure() {
	appErr := errors.NewExternalServiceError("AI service", fmt.Errorf("gateway error 500"))
	appErr.Message = "AI service error"
	s.assistant.On("GenerateRecipe", mock.Anything, inbound.GenerateRecipeCommand{UserID: s.userID, Prompt: "quick pasta"}).
		Return(nil, appErr)

	rec, _ := s.do(http.MethodPost, "/api/v1/ai/generate-recipe", map[string]interface{}{"prompt": "quick pasta"})

	testutils.NewHTTPAssertions(s.T()).FlatError(rec, http.StatusBadGateway, "AI service error")
}

func (s *APIHandlersTestSuite) TestGenerateRecipeReturnsRecipe() {
	s.assistant.On("GenerateRecipe", mock.Anything, inbound.GenerateRecipeCommand{UserID: s.userID, Prompt: "soup"}).
		Return(&inbound.RecipeDTO{Title: "Miso Soup"}, nil)

	rec, body := s.do(http.MethodPost, "/api/v1/ai/generate-recipe", map[string]interface{}{
		"prompt": "soup",
		"userId": s.userID.String(),
	})

	s.Equal(http.StatusOK, rec.Code)
	s.Equal("Miso Soup", body["recipe"].(map[string]interface{})["title"])
}

func (s *APIHandlersTestSuite) TestGenerateRecipeUserMismatch() {
	rec, body := s.do(http.MethodPost, "/api/v1/ai/generate-recipe", map[string]interface{}{
		"prompt": "soup",
		"userId": uuid.NewString(),
	})

	s.Equal(http.StatusForbidden, rec.Code)
	s.IsType("", body["error"])
}

func (s *APIHandlersTestSuite) TestGenerateRecipeEmptyPrompt() {
	rec, body := s.do(http.MethodPost, "/api/v1/ai/generate-recipe", map[string]interface{}{"prompt": ""})

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("Validation failed", body["error"])
}

func (s *APIHandlersTestSuite) TestAssistantWithoutUser() {
	s.token = ""
	flat := testutils.NewHTTPAssertions(s.T())

	rec, _ := s.do(http.MethodPost, "/api/v1/ai/generate-recipe", map[string]interface{}{"prompt": "soup"})
	flat.FlatError(rec, http.StatusBadRequest, "User ID is required")

	rec, _ = s.do(http.MethodPost, "/api/v1/ai/plan-week", map[string]interface{}{
		"preferences": mealplan.Preferences{NumMeals: 3, NumPeople: 2},
		"userId":      uuid.NewString(),
	})
	flat.FlatError(rec, http.StatusBadRequest, "User ID is required")
}

func TestAPIHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(APIHandlersTestSuite))
}
