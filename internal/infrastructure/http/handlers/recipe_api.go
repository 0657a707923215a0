package handlers

import (
	"net/http"

	"github.com/sousa/mealplan/internal/infrastructure/http/response"
	"github.com/sousa/mealplan/internal/ports/inbound"
)

type recipeRequest struct {
	Title        string   `json:"title" validate:"notblank,max=200"`
	Ingredients  []string `json:"ingredients" validate:"max=100"`
	Instructions []string `json:"instructions" validate:"max=100"`
	PrepTime     string   `json:"prep_time" validate:"max=50"`
	Cuisine      string   `json:"cuisine" validate:"max=50"`
}

// ListRecipes handles GET /recipes
func (h *APIHandlers) ListRecipes(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	page, err := queryInt(r, "page", 1)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	size, err := queryInt(r, "page_size", 20)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	list, err := h.svc.Recipes.ListRecipes(r.Context(), userID, inbound.PaginationParams{Page: page, PageSize: size})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, list)
}

// CreateRecipe handles POST /recipes
func (h *APIHandlers) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req recipeRequest
	if err := h.decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	out, err := h.svc.Recipes.CreateRecipe(r.Context(), inbound.CreateRecipeCommand{
		UserID:       userID,
		Title:        req.Title,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
		PrepTime:     req.PrepTime,
		Cuisine:      req.Cuisine,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Data(w, http.StatusCreated, out)
}

// GetRecipe handles GET /recipes/{id}
func (h *APIHandlers) GetRecipe(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	id, err := pathID(r, "recipe")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	out, err := h.svc.Recipes.GetRecipe(r.Context(), userID, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, out)
}

// UpdateRecipe handles PUT /recipes/{id}
func (h *APIHandlers) UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	id, err := pathID(r, "recipe")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req recipeRequest
	if err := h.decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	out, err := h.svc.Recipes.UpdateRecipe(r.Context(), inbound.UpdateRecipeCommand{
		RecipeID:     id,
		UserID:       userID,
		Title:        req.Title,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
		PrepTime:     req.PrepTime,
		Cuisine:      req.Cuisine,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, out)
}

// DeleteRecipe handles DELETE /recipes/{id}
func (h *APIHandlers) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	id, err := pathID(r, "recipe")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.svc.Recipes.DeleteRecipe(r.Context(), userID, id); err != nil {
		h.fail(w, r, err)
		return
	}
	response.Message(w, http.StatusOK, "Recipe deleted")
}
