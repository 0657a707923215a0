// Package handlers provides HTTP handlers for the REST API
package handlers

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sousa/mealplan/internal/infrastructure/http/middleware"
	"github.com/sousa/mealplan/internal/infrastructure/http/response"
	"github.com/sousa/mealplan/internal/infrastructure/security"
	"github.com/sousa/mealplan/internal/ports/inbound"
	"github.com/sousa/mealplan/pkg/errors"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// Services groups the use cases the API exposes
type Services struct {
	Recipes   inbound.RecipeService
	Pantry    inbound.PantryService
	Shopping  inbound.ShoppingService
	Profiles  inbound.ProfileService
	MealPlan  inbound.MealPlanService
	Assistant inbound.AssistantService
}

// APIHandlers handles REST API requests
type APIHandlers struct {
	svc       Services
	validator *security.Validator
	logger    *zap.Logger
}

// NewAPIHandlers creates a new API handlers instance
func NewAPIHandlers(svc Services, validator *security.Validator, logger *zap.Logger) *APIHandlers {
	return &APIHandlers{
		svc:       svc,
		validator: validator,
		logger:    logger.Named("api"),
	}
}

// Routes mounts every authenticated endpoint on r
func (h *APIHandlers) Routes(r chi.Router) {
	r.Route("/profile", func(r chi.Router) {
		r.Get("/", h.GetProfile)
		r.Post("/", h.CreateProfile)
		r.Put("/", h.UpdateProfile)
	})

	r.Route("/pantry", func(r chi.Router) {
		r.Get("/", h.ListPantry)
		r.Post("/", h.AddPantryItem)
		r.Get("/expiring", h.ExpiringSoon)
		r.Get("/{id}", h.GetPantryItem)
		r.Put("/{id}", h.UpdatePantryItem)
		r.Delete("/{id}", h.DeletePantryItem)
	})

	r.Route("/recipes", func(r chi.Router) {
		r.Get("/", h.ListRecipes)
		r.Post("/", h.CreateRecipe)
		r.Get("/{id}", h.GetRecipe)
		r.Put("/{id}", h.UpdateRecipe)
		r.Delete("/{id}", h.DeleteRecipe)
	})

	r.Route("/meals", func(r chi.Router) {
		r.Get("/", h.ListMeals)
		r.Post("/", h.AddMeal)
		r.Get("/week", h.Week)
		r.Put("/{id}", h.UpdateMeal)
		r.Delete("/{id}", h.DeleteMeal)
		r.Post("/{id}/move", h.MoveMeal)
	})

	r.Route("/shopping", func(r chi.Router) {
		r.Get("/", h.ListShopping)
		r.Post("/", h.AddShoppingItem)
		r.Delete("/purchased", h.ClearPurchased)
		r.Post("/{id}/toggle", h.TogglePurchased)
		r.Delete("/{id}", h.DeleteShoppingItem)
	})
}

// AssistantRoutes mounts the assistant endpoints. They resolve the caller
// themselves, so they are mounted behind optional authentication.
func (h *APIHandlers) AssistantRoutes(r chi.Router) {
	r.Route("/ai", func(r chi.Router) {
		r.Post("/generate-recipe", h.GenerateRecipe)
		r.Post("/plan-week", h.PlanWeek)
	})
}

// decode reads a JSON body into dst and validates it
func (h *APIHandlers) decode(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if stderrors.Is(err, io.EOF) {
			return errors.NewBadRequestError("Request body is required")
		}
		return errors.NewBadRequestError("Invalid request body").WithCause(err)
	}
	return h.validator.Struct(dst)
}

func (h *APIHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	response.Error(w, r, h.logger, err)
}

func currentUser(r *http.Request) (uuid.UUID, error) {
	id, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, errors.NewUnauthorizedError("")
	}
	return id, nil
}

func pathID(r *http.Request, resource string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, errors.NewBadRequestError("Invalid " + resource + " id")
	}
	return id, nil
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.NewBadRequestError("Query parameter " + name + " must be a number")
	}
	return n, nil
}
