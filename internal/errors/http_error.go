package errors

import (
	"errors"
	"net/http"
)

// HTTPError represents an error with an associated HTTP status code.
type HTTPError struct {
	Code    int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTPError with the given code and message.
func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{
		Code:    code,
		Message: message,
	}
}

// FromError maps business failures to client errors; everything else
// (transport failures, missing credentials, malformed upstream bodies on
// fatal paths) surfaces as a server error.
func FromError(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrSlotUnavailable),
		errors.Is(err, ErrNoTableAvailable),
		errors.Is(err, ErrReservationFailed),
		errors.Is(err, ErrTicketHoldFailed),
		errors.Is(err, ErrReviewRejected):
		return NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
