package handlers

import (
	"net/http"

	"github.com/sousa/mealplan/internal/infrastructure/http/response"
	"github.com/sousa/mealplan/internal/ports/inbound"
)

type profileRequest struct {
	IsVegetarian bool     `json:"is_vegetarian"`
	Cuisines     []string `json:"cuisines" validate:"required,min=1,max=20"`
}

// GetProfile handles GET /profile
func (h *APIHandlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	out, err := h.svc.Profiles.GetProfile(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, out)
}

// CreateProfile handles POST /profile; onboarding happens once
func (h *APIHandlers) CreateProfile(w http.ResponseWriter, r *http.Request) {
	h.saveProfile(w, r, true)
}

// UpdateProfile handles PUT /profile
func (h *APIHandlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	h.saveProfile(w, r, false)
}

func (h *APIHandlers) saveProfile(w http.ResponseWriter, r *http.Request, create bool) {
	userID, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req profileRequest
	if err := h.decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	cmd := inbound.ProfileCommand{UserID: userID, IsVegetarian: req.IsVegetarian, Cuisines: req.Cuisines}
	if create {
		out, err := h.svc.Profiles.CreateProfile(r.Context(), cmd)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		response.Data(w, http.StatusCreated, out)
		return
	}

	out, err := h.svc.Profiles.UpdateProfile(r.Context(), cmd)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, out)
}
