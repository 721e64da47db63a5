package entities

import "encoding/json"

// MenuLookupResult carries one restaurant's menu or the reason it could not
// be fetched. Failures never abort sibling lookups.
type MenuLookupResult struct {
	RestaurantID int             `json:"restaurant_id"`
	Menu         json.RawMessage `json:"menu"`
	Error        string          `json:"error,omitempty"`
}

type IikoOrganization struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

type IikoExternalMenu struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ExternalMenusOverview lists what is provisioned in the POS so the static
// restaurant mapping can be kept up to date.
type ExternalMenusOverview struct {
	Organizations []IikoOrganization `json:"organizations"`
	ExternalMenus []IikoExternalMenu `json:"external_menus"`
}
