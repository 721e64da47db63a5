package errors

import "errors"

// Business failures distinguishable from transport errors. Callers branch on
// these with errors.Is; anything not listed here is treated as fatal.
var (
	ErrCredentialNotFound = errors.New("no credential registered for restaurant")
	ErrSlotUnavailable    = errors.New("no bookable slot for the requested time")
	ErrNoTableAvailable   = errors.New("no table allocation fits the party")
	ErrReservationFailed  = errors.New("reservation platform rejected the request")
	ErrTicketHoldFailed   = errors.New("ticket hold rejected")
	ErrReviewRejected     = errors.New("review platform rejected the review")
	ErrUpstreamFormat     = errors.New("unexpected upstream response")
)
