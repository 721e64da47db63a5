package api

import (
	"net/http"

	"restogateway/internal/entities"
	"restogateway/internal/service"
)

type ReviewHandler struct {
	Reviews *service.RocketDataService
}

func NewReviewHandler(reviews *service.RocketDataService) *ReviewHandler {
	return &ReviewHandler{Reviews: reviews}
}

func (h *ReviewHandler) SendReview(w http.ResponseWriter, r *http.Request) {
	var req entities.ReviewRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeBadRequest(w, "invalid request")
		return
	}
	result, err := h.Reviews.SendReview(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
