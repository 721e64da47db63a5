package api

import (
	"net/http"

	"restogateway/internal/entities"
	"restogateway/internal/service"
)

type MenuHandler struct {
	Iiko *service.IikoService
}

func NewMenuHandler(iiko *service.IikoService) *MenuHandler {
	return &MenuHandler{Iiko: iiko}
}

func (h *MenuHandler) GetMenus(w http.ResponseWriter, r *http.Request) {
	var req MenuRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeBadRequest(w, "restaurant_ids must be a non-empty list")
		return
	}
	results := h.Iiko.GetMenuForRestaurants(r.Context(), req.RestaurantIDs)
	writeJSON(w, http.StatusOK, results)
}

// GetExternalMenus exposes what the POS has provisioned, for keeping the
// static restaurant mapping in sync.
func (h *MenuHandler) GetExternalMenus(w http.ResponseWriter, r *http.Request) {
	orgs, err := h.Iiko.GetOrganizations(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	menus, err := h.Iiko.GetExternalMenus(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entities.ExternalMenusOverview{
		Organizations: orgs,
		ExternalMenus: menus,
	})
}
