package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/sousa/mealplan/internal/infrastructure/http/response"
	"github.com/sousa/mealplan/internal/ports/inbound"
)

type addMealRequest struct {
	RecipeID      *uuid.UUID `json:"recipe_id"`
	MealTitle     string     `json:"meal_title" validate:"notblank,max=200"`
	MealType      string     `json:"meal_type" validate:"required"`
	ScheduledDate string     `json:"scheduled_date" validate:"required,isodate"`
	ScheduledTime string     `json:"scheduled_time" validate:"omitempty,clock"`
	Notes         string     `json:"notes" validate:"max=1000"`
}

type updateMealRequest struct {
	RecipeID      *uuid.UUID `json:"recipe_id"`
	ClearRecipe   bool       `json:"clear_recipe"`
	MealTitle     *string    `json:"meal_title" validate:"omitempty,notblank,max=200"`
	MealType      *string    `json:"meal_type"`
	ScheduledDate *string    `json:"scheduled_date" validate:"omitempty,isodate"`
	ScheduledTime *string    `json:"scheduled_time" validate:"omitempty,clock"`
	Notes         *string    `json:"notes" validate:"omitempty,max=1000"`
}

type moveMealRequest struct {
	ScheduledDate string `json:"scheduled_date" validate:"required,isodate"`
	MealType      string `json:"meal_type" validate:"required"`
	Position      int    `json:"position" validate:"min=0"`
}

// ListMeals handles GET /meals?start=&end=
func (h *APIHandlers) ListMeals(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	q := r.URL.Query()

	meals, err := h.svc.MealPlan.ListMeals(r.Context(), userID, q.Get("start"), q.Get("end"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, meals)
}

// Week handles GET /meals/week?start=
func (h *APIHandlers) Week(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	days, err := h.svc.MealPlan.Week(r.Context(), userID, r.URL.Query().Get("start"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, days)
}

// AddMeal handles POST /meals
func (h *APIHandlers) AddMeal(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req addMealRequest
	if err := h.decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	out, err := h.svc.MealPlan.AddMeal(r.Context(), inbound.AddMealCommand{
		UserID:        userID,
		RecipeID:      req.RecipeID,
		Title:         req.MealTitle,
		MealType:      req.MealType,
		Date:          req.ScheduledDate,
		ScheduledTime: req.ScheduledTime,
		Notes:         req.Notes,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Data(w, http.StatusCreated, out)
}

// UpdateMeal handles PUT /meals/{id}
func (h *APIHandlers) UpdateMeal(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	id, err := pathID(r, "meal")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req updateMealRequest
	if err := h.decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	out, err := h.svc.MealPlan.UpdateMeal(r.Context(), inbound.UpdateMealCommand{
		UserID:        userID,
		MealID:        id,
		RecipeID:      req.RecipeID,
		ClearRecipe:   req.ClearRecipe,
		Title:         req.MealTitle,
		MealType:      req.MealType,
		Date:          req.ScheduledDate,
		ScheduledTime: req.ScheduledTime,
		Notes:         req.Notes,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, out)
}

// MoveMeal handles POST /meals/{id}/move
func (h *APIHandlers) MoveMeal(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	id, err := pathID(r, "meal")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req moveMealRequest
	if err := h.decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	out, err := h.svc.MealPlan.MoveMeal(r.Context(), inbound.MoveMealCommand{
		UserID:   userID,
		MealID:   id,
		Date:     req.ScheduledDate,
		MealType: req.MealType,
		Position: req.Position,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, out)
}

// DeleteMeal handles DELETE /meals/{id}
func (h *APIHandlers) DeleteMeal(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	id, err := pathID(r, "meal")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.svc.MealPlan.DeleteMeal(r.Context(), userID, id); err != nil {
		h.fail(w, r, err)
		return
	}
	response.Message(w, http.StatusOK, "Meal removed")
}
