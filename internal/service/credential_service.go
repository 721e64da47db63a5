package service

import (
	"fmt"

	"restogateway/internal/config"
	gwerrors "restogateway/internal/errors"
)

// Purpose is the functional category a credential is scoped to. Booking and
// event tokens live in separate maps and must never be unified.
type Purpose int

const (
	PurposeBooking Purpose = iota
	PurposeEvent
)

// Event ticketing is only provisioned for one restaurant; everyone else gets
// this placeholder so the ticketing endpoints answer deterministically
// instead of failing. Intentional, pending the multi-tenant rollout.
const eventTokenPlaceholder = "event-not-provisioned"

// CredentialService resolves restaurant ids to upstream tokens. Pure lookup
// over tables loaded at startup; no I/O.
type CredentialService struct {
	bookingTokens       map[int]string
	defaultRestaurantID int
	eventRestaurantID   int
	eventToken          string
}

func NewCredentialService(cfg *config.Config) *CredentialService {
	return &CredentialService{
		bookingTokens:       cfg.BookingTokens,
		defaultRestaurantID: cfg.DefaultRestaurantID,
		eventRestaurantID:   cfg.EventRestaurantID,
		eventToken:          cfg.EventToken,
	}
}

// ResolveToken returns the token for the restaurant under the given purpose.
// A nil restaurant id resolves to the configured default restaurant.
func (s *CredentialService) ResolveToken(restaurantID *int, purpose Purpose) (string, error) {
	id := s.defaultRestaurantID
	if restaurantID != nil {
		id = *restaurantID
	}

	if purpose == PurposeEvent {
		if id != s.eventRestaurantID {
			return eventTokenPlaceholder, nil
		}
		if s.eventToken == "" {
			return "", fmt.Errorf("%w: event token for restaurant %d", gwerrors.ErrCredentialNotFound, id)
		}
		return s.eventToken, nil
	}

	token, ok := s.bookingTokens[id]
	if !ok || token == "" {
		return "", fmt.Errorf("%w: restaurant %d", gwerrors.ErrCredentialNotFound, id)
	}
	return token, nil
}
