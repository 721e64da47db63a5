package api

import (
	"encoding/json"
	"net/http"

	"restogateway/internal/entities"
	"restogateway/internal/service"
)

type BookingHandler struct {
	Remarked *service.RemarkedService
	Bookings *service.BookingService
}

func NewBookingHandler(remarked *service.RemarkedService, bookings *service.BookingService) *BookingHandler {
	return &BookingHandler{Remarked: remarked, Bookings: bookings}
}

func (h *BookingHandler) GetSlots(w http.ResponseWriter, r *http.Request) {
	var req GetSlotsRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeBadRequest(w, "invalid request")
		return
	}
	resp, err := h.Remarked.GetSlots(r.Context(), req.RestaurantID, req.ReserveFrom, req.ReserveTo, req.GuestsCount, req.WithRooms)
	if err != nil {
		writeError(w, err)
		return
	}
	if req.WithRooms {
		writeJSON(w, http.StatusOK, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp.Slots)
}

func (h *BookingHandler) CreateReserve(w http.ResponseWriter, r *http.Request) {
	var order entities.ReservationOrder
	if err := decodeAndValidate(r, &order); err != nil {
		writeBadRequest(w, "invalid request")
		return
	}
	result, err := h.Bookings.Book(r.Context(), order)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *BookingHandler) CancelReserve(w http.ResponseWriter, r *http.Request) {
	var req CancelReserveRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeBadRequest(w, "invalid request")
		return
	}
	result, err := h.Remarked.RemoveReserve(r.Context(), req.RestaurantID, req.ReservationID, req.CancelReason, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *BookingHandler) BuyTicket(w http.ResponseWriter, r *http.Request) {
	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeBadRequest(w, "invalid request")
		return
	}
	result, err := h.Remarked.BuyTicket(r.Context(), body)
	if err != nil {
		writeError(w, err)
		return
	}
	if result == nil {
		writeBadRequest(w, "failed to buy ticket")
		return
	}
	writeRaw(w, http.StatusOK, result)
}

func (h *BookingHandler) CheckPayment(w http.ResponseWriter, r *http.Request) {
	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeBadRequest(w, "invalid request")
		return
	}
	result, err := h.Remarked.CheckPayment(r.Context(), body)
	if err != nil {
		writeError(w, err)
		return
	}
	if result == nil {
		writeBadRequest(w, "failed to check payment")
		return
	}
	writeRaw(w, http.StatusOK, result)
}
