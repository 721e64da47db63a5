package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restogateway/internal/config"
	gwerrors "restogateway/internal/errors"
)

func newCredentialsForTest() *CredentialService {
	return NewCredentialService(&config.Config{
		BookingTokens:       map[int]string{1: "tok-1", 6: "tok-6"},
		DefaultRestaurantID: 1,
		EventRestaurantID:   6,
		EventToken:          "event-tok",
	})
}

func TestResolveBookingToken(t *testing.T) {
	svc := newCredentialsForTest()

	token, err := svc.ResolveToken(intptr(6), PurposeBooking)
	require.NoError(t, err)
	assert.Equal(t, "tok-6", token)
}

func TestResolveBookingTokenDefaultsRestaurant(t *testing.T) {
	svc := newCredentialsForTest()

	token, err := svc.ResolveToken(nil, PurposeBooking)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
}

func TestResolveBookingTokenUnknownRestaurant(t *testing.T) {
	svc := newCredentialsForTest()

	_, err := svc.ResolveToken(intptr(42), PurposeBooking)
	require.ErrorIs(t, err, gwerrors.ErrCredentialNotFound)
}

func TestResolveEventToken(t *testing.T) {
	svc := newCredentialsForTest()

	// The designated restaurant gets the real event token.
	token, err := svc.ResolveToken(intptr(6), PurposeEvent)
	require.NoError(t, err)
	assert.Equal(t, "event-tok", token)

	// Everyone else gets the placeholder, never a booking token.
	token, err = svc.ResolveToken(intptr(1), PurposeEvent)
	require.NoError(t, err)
	assert.Equal(t, eventTokenPlaceholder, token)
}

func TestResolveEventTokenMissing(t *testing.T) {
	svc := NewCredentialService(&config.Config{
		BookingTokens:       map[int]string{6: "tok-6"},
		DefaultRestaurantID: 6,
		EventRestaurantID:   6,
	})

	_, err := svc.ResolveToken(intptr(6), PurposeEvent)
	require.ErrorIs(t, err, gwerrors.ErrCredentialNotFound)
}
