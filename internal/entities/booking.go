package entities

import "encoding/json"

// TableBundle is a keyed group of tables meant to be reserved together for a
// given party size.
type TableBundle struct {
	Count  int   `json:"count"`
	Tables []int `json:"tables"`
}

// TimeSlot is one bookable interval as returned by the reservation platform.
type TimeSlot struct {
	StartStamp            int64                  `json:"start_stamp"`
	EndStamp              int64                  `json:"end_stamp"`
	Duration              int                    `json:"duration"`
	StartDatetime         string                 `json:"start_datetime"` // "YYYY-MM-DD HH:MM:SS"
	EndDatetime           string                 `json:"end_datetime"`
	IsFree                bool                   `json:"is_free"`
	TablesCount           int                    `json:"tables_count,omitempty"`
	TablesIDs             []int                  `json:"tables_ids,omitempty"`
	TableBundles          [][]int                `json:"table_bundles,omitempty"`
	TableBundlesWithCount map[string]TableBundle `json:"table_bundles_with_count,omitempty"`
	IsEvent               bool                   `json:"isEvent"`
}

// SlotsWithRooms is the unflattened GetSlots response, kept intact when the
// caller needs room and table-bundle detail.
type SlotsWithRooms struct {
	Slots []TimeSlot      `json:"slots"`
	Rooms json.RawMessage `json:"rooms,omitempty"`
}

// ReservationOrder is the inbound reservation request. Table ids are never
// accepted from the caller; the booking workflow computes them.
type ReservationOrder struct {
	RestaurantID  *int     `json:"restaurant_id,omitempty" validate:"omitempty,min=1"`
	Name          string   `json:"name" validate:"required"`
	Phone         string   `json:"phone" validate:"required"`
	Email         string   `json:"email,omitempty" validate:"omitempty,email"`
	Date          string   `json:"date" validate:"required,datetime=2006-01-02"`
	Time          string   `json:"time" validate:"required"` // "HH:MM" or "HH:MM:SS"
	GuestsCount   int      `json:"guests_count" validate:"required,min=1"`
	ChildrenCount int      `json:"children_count,omitempty"`
	Comment       string   `json:"comment,omitempty"`
	UTM           string   `json:"utm,omitempty"`
	DepositSum    float64  `json:"deposit_sum,omitempty"`
	DepositStatus string   `json:"deposit_status,omitempty"`
	EventTags     []string `json:"event_tags,omitempty"`
}

// ReserveResult reports a created reservation. SlotStart is the slot that was
// actually booked, which can differ from the requested time when the
// any-free-slot fallback kicked in.
type ReserveResult struct {
	RequestID     string `json:"request_id"`
	ReservationID int64  `json:"reservation_id"`
	TablesIDs     []int  `json:"tables_ids,omitempty"`
	SlotStart     string `json:"slot_start,omitempty"`
}

// CancelResult echoes the reservation the platform confirmed as canceled.
type CancelResult struct {
	RequestID     string `json:"request_id"`
	ReservationID int64  `json:"reservation_id"`
}
