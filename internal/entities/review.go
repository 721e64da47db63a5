package entities

type ReviewTag struct {
	ID       int    `json:"id"`
	Title    string `json:"title,omitempty"`
	IsAspect bool   `json:"is_aspect,omitempty"`
}

type ReviewNote struct {
	ID   int    `json:"id,omitempty"`
	Text string `json:"text"`
}

// ReviewRequest is the inbound review payload. The restaurant id is only
// used for tenant routing and never reaches the reviews platform.
type ReviewRequest struct {
	Comment         string       `json:"comment" validate:"required"`
	Rating          int          `json:"rating" validate:"required,min=1,max=5"`
	Author          string       `json:"author" validate:"required"`
	CompanyID       int          `json:"company_id" validate:"required"`
	BrandID         int          `json:"brand_id,omitempty"`
	CatalogID       int          `json:"catalog_id,omitempty"`
	RestaurantID    *int         `json:"restaurant_id,omitempty"`
	OriginURL       string       `json:"origin_url,omitempty"`
	CreationTime    string       `json:"creation_time,omitempty"`
	Phone           string       `json:"phone,omitempty"`
	UserFieldsEmail string       `json:"user_fields_email,omitempty"`
	Tags            []ReviewTag  `json:"tags,omitempty"`
	Notes           []ReviewNote `json:"notes,omitempty"`
}

type ReviewResult struct {
	Status   string `json:"status"`
	ReviewID string `json:"review_id,omitempty"`
}
