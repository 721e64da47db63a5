package api

// Slots
type GetSlotsRequest struct {
	RestaurantID *int   `json:"restaurant_id,omitempty" validate:"omitempty,min=1"`
	ReserveFrom  string `json:"reserve_from" validate:"required,datetime=2006-01-02"`
	ReserveTo    string `json:"reserve_to" validate:"required,datetime=2006-01-02"`
	GuestsCount  int    `json:"guests_count" validate:"required,min=1"`
	WithRooms    bool   `json:"with_rooms,omitempty"`
}

// Cancellation
type CancelReserveRequest struct {
	RestaurantID  *int   `json:"restaurant_id,omitempty" validate:"omitempty,min=1"`
	ReservationID int64  `json:"reservation_id" validate:"required"`
	CancelReason  string `json:"cancel_reason,omitempty"`
	Status        string `json:"status,omitempty"`
}

// Menus
type MenuRequest struct {
	RestaurantIDs []int `json:"restaurant_ids" validate:"required,min=1,dive,min=1"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}
