package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/sousa/mealplan/internal/infrastructure/http/response"
	"github.com/sousa/mealplan/internal/ports/inbound"
)

type shoppingItemRequest struct {
	Ingredient string     `json:"ingredient" validate:"notblank,max=500"`
	ItemType   string     `json:"item_type" validate:"max=50"`
	IsCold     *bool      `json:"is_cold"`
	RecipeID   *uuid.UUID `json:"recipe_id"`
}

// ListShopping handles GET /shopping
func (h *APIHandlers) ListShopping(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	items, err := h.svc.Shopping.ListItems(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, items)
}

// AddShoppingItem handles POST /shopping
func (h *APIHandlers) AddShoppingItem(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req shoppingItemRequest
	if err := h.decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	out, err := h.svc.Shopping.AddItem(r.Context(), inbound.AddShoppingItemCommand{
		UserID:     userID,
		Ingredient: req.Ingredient,
		ItemType:   req.ItemType,
		Cold:       req.IsCold,
		RecipeID:   req.RecipeID,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Data(w, http.StatusCreated, out)
}

// TogglePurchased handles POST /shopping/{id}/toggle
func (h *APIHandlers) TogglePurchased(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	id, err := pathID(r, "shopping item")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	out, err := h.svc.Shopping.TogglePurchased(r.Context(), userID, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, out)
}

// DeleteShoppingItem handles DELETE /shopping/{id}
func (h *APIHandlers) DeleteShoppingItem(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	id, err := pathID(r, "shopping item")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.svc.Shopping.DeleteItem(r.Context(), userID, id); err != nil {
		h.fail(w, r, err)
		return
	}
	response.Message(w, http.StatusOK, "Shopping item deleted")
}

// ClearPurchased handles DELETE /shopping/purchased
func (h *APIHandlers) ClearPurchased(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	n, err := h.svc.Shopping.ClearPurchased(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, map[string]int64{"deleted": n})
}
