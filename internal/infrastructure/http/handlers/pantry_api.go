package handlers

import (
	"net/http"
	"time"

	"github.com/sousa/mealplan/internal/infrastructure/http/response"
	"github.com/sousa/mealplan/internal/ports/inbound"
	"github.com/sousa/mealplan/pkg/errors"
)

type pantryItemRequest struct {
	Name      string `json:"name" validate:"notblank,max=200"`
	Category  string `json:"category" validate:"max=50"`
	Status    string `json:"status" validate:"omitempty,oneof=good low expiring"`
	Quantity  string `json:"quantity" validate:"max=100"`
	ExpiresOn string `json:"expires_on" validate:"omitempty,isodate"`
	ColdItem  bool   `json:"cold_item"`
}

func (req pantryItemRequest) command() inbound.PantryItemCommand {
	return inbound.PantryItemCommand{
		Name:      req.Name,
		Category:  req.Category,
		Status:    req.Status,
		Quantity:  req.Quantity,
		ExpiresOn: req.ExpiresOn,
		Cold:      req.ColdItem,
	}
}

// ListPantry handles GET /pantry?category=&status=
func (h *APIHandlers) ListPantry(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	q := r.URL.Query()

	items, err := h.svc.Pantry.ListItems(r.Context(), userID, q.Get("category"), q.Get("status"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, items)
}

// ExpiringSoon handles GET /pantry/expiring?days=3
func (h *APIHandlers) ExpiringSoon(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	days, err := queryInt(r, "days", 3)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if days < 0 || days > 90 {
		h.fail(w, r, errors.NewBadRequestError("days must be between 0 and 90"))
		return
	}

	items, err := h.svc.Pantry.ExpiringSoon(r.Context(), userID, time.Duration(days)*24*time.Hour)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, items)
}

// AddPantryItem handles POST /pantry
func (h *APIHandlers) AddPantryItem(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req pantryItemRequest
	if err := h.decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	cmd := req.command()
	cmd.UserID = userID
	out, err := h.svc.Pantry.AddItem(r.Context(), cmd)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Data(w, http.StatusCreated, out)
}

// GetPantryItem handles GET /pantry/{id}
func (h *APIHandlers) GetPantryItem(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	id, err := pathID(r, "pantry item")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	out, err := h.svc.Pantry.GetItem(r.Context(), userID, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, out)
}

// UpdatePantryItem handles PUT /pantry/{id}
func (h *APIHandlers) UpdatePantryItem(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	id, err := pathID(r, "pantry item")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req pantryItemRequest
	if err := h.decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	cmd := req.command()
	cmd.UserID = userID
	out, err := h.svc.Pantry.UpdateItem(r.Context(), id, cmd)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, out)
}

// DeletePantryItem handles DELETE /pantry/{id}
func (h *APIHandlers) DeletePantryItem(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	id, err := pathID(r, "pantry item")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.svc.Pantry.DeleteItem(r.Context(), userID, id); err != nil {
		h.fail(w, r, err)
		return
	}
	response.Message(w, http.StatusOK, "Pantry item deleted")
}
