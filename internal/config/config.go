package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// IikoMenuRef ties a restaurant to its iiko organization and external menu.
type IikoMenuRef struct {
	OrganizationID string
	ExternalMenuID string
}

// Config holds everything the gateway needs, loaded once at startup and
// passed to the services by constructor injection. Immutable afterwards.
type Config struct {
	Port string `validate:"required"`

	RemarkedAPIURL       string `validate:"required,url"`
	RemarkedV2BookingURL string `validate:"required,url"`

	// Booking tokens keyed by restaurant id, loaded from REMARKED_TOKEN_<id>.
	BookingTokens map[int]string

	DefaultRestaurantID int `validate:"required,min=1"`

	// Event ticketing is provisioned for a single restaurant.
	EventRestaurantID int
	EventToken        string

	IikoAPIURL   string `validate:"required,url"`
	IikoAPILogin string

	RocketDataAPIURL string `validate:"required,url"`
	RocketDataToken  string

	// Restaurant to iiko organization/menu mapping. Static: restaurants not
	// listed here get a per-restaurant error instead of an upstream call.
	IikoMenus map[int]IikoMenuRef
}

const bookingTokenPrefix = "REMARKED_TOKEN_"

func Load() (*Config, error) {
	cfg := &Config{
		Port:                 getenv("PORT", "8080"),
		RemarkedAPIURL:       getenv("REMARKED_API_URL", "https://app.remarked.ru/api/v1/ApiReservesWidget"),
		RemarkedV2BookingURL: getenv("REMARKED_V2_BOOKING_URL", "https://app.remarked.ru/api/v2/eventBooking"),
		BookingTokens:        map[int]string{},
		EventToken:           os.Getenv("REMARKED_EVENT_TOKEN"),
		IikoAPIURL:           getenv("IIKO_API_URL", "https://api-ru.iiko.services"),
		IikoAPILogin:         os.Getenv("IIKO_API_LOGIN"),
		RocketDataAPIURL:     getenv("ROCKETDATA_API_URL", "https://api.rocketdata.io"),
		RocketDataToken:      os.Getenv("ROCKETDATA_TOKEN"),
		IikoMenus:            defaultIikoMenus(),
	}

	var err error
	if cfg.DefaultRestaurantID, err = intenv("DEFAULT_RESTAURANT_ID", 1); err != nil {
		return nil, err
	}
	if cfg.EventRestaurantID, err = intenv("EVENT_RESTAURANT_ID", 1); err != nil {
		return nil, err
	}

	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, bookingTokenPrefix) {
			continue
		}
		id, err := strconv.Atoi(strings.TrimPrefix(key, bookingTokenPrefix))
		if err != nil {
			return nil, fmt.Errorf("invalid restaurant id in %s", key)
		}
		cfg.BookingTokens[id] = value
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intenv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

// defaultIikoMenus mirrors the external menus currently provisioned in iiko.
// Every restaurant shares one organization; menu ids differ per venue.
func defaultIikoMenus() map[int]IikoMenuRef {
	const orgID = "21f5acd3-1db7-457d-b3cd-f0022a8001a9"
	menus := map[int]string{
		1:  "64705", // Blackchops
		2:  "62269", // Poly
		3:  "64677", // Trappist SPb
		4:  "64801", // Self Edge Japanese SPb
		5:  "64678", // Pame
		6:  "68647", // Smoke BBQ Rubinshteyna
		7:  "64691", // Self Edge Japanese Ekb
		9:  "65653", // Smoke BBQ Moscow
		10: "64719", // Self Edge Japanese Moscow
		11: "64690", // Smoke BBQ Lodeynopolskaya
	}
	out := make(map[int]IikoMenuRef, len(menus))
	for id, menuID := range menus {
		out[id] = IikoMenuRef{OrganizationID: orgID, ExternalMenuID: menuID}
	}
	return out
}
