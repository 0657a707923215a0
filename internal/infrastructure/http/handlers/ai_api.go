package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/sousa/mealplan/internal/domain/mealplan"
	"github.com/sousa/mealplan/internal/infrastructure/http/response"
	"github.com/sousa/mealplan/internal/ports/inbound"
	"github.com/sousa/mealplan/pkg/errors"
)

type generateRecipeRequest struct {
	Prompt string `json:"prompt" validate:"notblank,max=2000"`
	UserID string `json:"userId"`
}

type planWeekRequest struct {
	Preferences mealplan.Preferences `json:"preferences"`
	WeekStart   string               `json:"weekStart" validate:"omitempty,isodate"`
	UserID      string               `json:"userId"`
}

type generateRecipeResponse struct {
	Success bool               `json:"success"`
	Recipe  *inbound.RecipeDTO `json:"recipe"`
}

type planWeekResponse struct {
	Success          bool `json:"success"`
	MealsCreated     int  `json:"mealsCreated"`
	IngredientsAdded int  `json:"ingredientsAdded"`
}

// assistantUser resolves the caller. A userId in the body is accepted for
// older clients but must match the token.
func assistantUser(r *http.Request, bodyUserID string) (uuid.UUID, error) {
	userID, err := currentUser(r)
	if err != nil {
		return uuid.Nil, errors.NewBadRequestError("User ID is required")
	}
	if bodyUserID != "" {
		claimed, err := uuid.Parse(bodyUserID)
		if err != nil || claimed != userID {
			return uuid.Nil, errors.NewAppError(errors.CodeForbidden, "User ID does not match the authenticated user", "")
		}
	}
	return userID, nil
}

// GenerateRecipe handles POST /ai/generate-recipe
func (h *APIHandlers) GenerateRecipe(w http.ResponseWriter, r *http.Request) {
	var req generateRecipeRequest
	if err := h.decode(r, &req); err != nil {
		response.FlatError(w, r, h.logger, err)
		return
	}
	userID, err := assistantUser(r, req.UserID)
	if err != nil {
		response.FlatError(w, r, h.logger, err)
		return
	}

	out, err := h.svc.Assistant.GenerateRecipe(r.Context(), inbound.GenerateRecipeCommand{
		UserID: userID,
		Prompt: req.Prompt,
	})
	if err != nil {
		response.FlatError(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, generateRecipeResponse{Success: true, Recipe: out})
}

// PlanWeek handles POST /ai/plan-week
func (h *APIHandlers) PlanWeek(w http.ResponseWriter, r *http.Request) {
	var req planWeekRequest
	if err := h.decode(r, &req); err != nil {
		response.FlatError(w, r, h.logger, err)
		return
	}
	userID, err := assistantUser(r, req.UserID)
	if err != nil {
		response.FlatError(w, r, h.logger, err)
		return
	}

	result, err := h.svc.Assistant.PlanWeek(r.Context(), inbound.PlanWeekCommand{
		UserID:      userID,
		Preferences: req.Preferences,
		WeekStart:   req.WeekStart,
	})
	if err != nil {
		response.FlatError(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, planWeekResponse{
		Success:          true,
		MealsCreated:     result.MealsCreated,
		IngredientsAdded: result.IngredientsAdded,
	})
}
