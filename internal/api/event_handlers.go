package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"restogateway/internal/service"
)

type EventHandler struct {
	Remarked *service.RemarkedService
}

func NewEventHandler(remarked *service.RemarkedService) *EventHandler {
	return &EventHandler{Remarked: remarked}
}

// GetEvents lists period events. The restaurant is routed through the
// Restaurant-Id header, not the query.
func (h *EventHandler) GetEvents(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		writeBadRequest(w, "from and to are required")
		return
	}

	var restaurantID *int
	if raw := r.Header.Get("Restaurant-Id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			writeBadRequest(w, "invalid Restaurant-Id header")
			return
		}
		restaurantID = &id
	}

	events, err := h.Remarked.GetEvents(r.Context(), from, to, restaurantID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeRaw(w, http.StatusOK, events)
}

func (h *EventHandler) HoldTickets(w http.ResponseWriter, r *http.Request) {
	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeBadRequest(w, "invalid request")
		return
	}
	result, err := h.Remarked.HoldTickets(r.Context(), body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeRaw(w, http.StatusOK, result)
}
