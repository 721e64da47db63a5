package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"restogateway/internal/config"
	"restogateway/internal/entities"
	gwerrors "restogateway/internal/errors"
)

const reviewsPath = "/public/v4/reviews/custom_reviews/"

// Smoke BBQ Rubinshteyna lives in its own RocketData tenant; reviews routed
// there must carry these identifiers no matter what the caller sent.
const (
	overrideRestaurantID = 6
	overrideCompanyID    = 2611843
	overrideBrandID      = 10761
	overrideCatalogID    = 14326
)

// RocketDataService submits customer reviews to the reviews platform.
type RocketDataService struct {
	apiURL string
	token  string
	hc     *http.Client
	logger zerolog.Logger
}

func NewRocketDataService(cfg *config.Config, logger zerolog.Logger) *RocketDataService {
	return &RocketDataService{
		apiURL: cfg.RocketDataAPIURL,
		token:  cfg.RocketDataToken,
		hc:     &http.Client{},
		logger: logger,
	}
}

// SendReview submits one review. Optional fields are included only when
// present, except tags and notes which upstream wants as arrays even when
// empty. A 2xx answer without a review id counts as a failure: the caller
// needs that id.
func (s *RocketDataService) SendReview(ctx context.Context, review entities.ReviewRequest) (*entities.ReviewResult, error) {
	payload := map[string]interface{}{
		"comment":    review.Comment,
		"rating":     review.Rating,
		"author":     review.Author,
		"company_id": review.CompanyID,
	}
	if review.BrandID != 0 {
		payload["brand_id"] = review.BrandID
	}
	if review.CatalogID != 0 {
		payload["catalog_id"] = review.CatalogID
	}
	if review.OriginURL != "" {
		payload["origin_url"] = review.OriginURL
	}
	if review.CreationTime != "" {
		payload["creation_time"] = review.CreationTime
	}
	if review.Phone != "" {
		payload["phone"] = review.Phone
	}

	tags := review.Tags
	if tags == nil {
		tags = []entities.ReviewTag{}
	}
	payload["tags"] = tags

	notes := review.Notes
	if notes == nil {
		notes = []entities.ReviewNote{}
	}
	payload["notes"] = notes

	// user_fields is a JSON document embedded as a string, or empty.
	if review.UserFieldsEmail != "" {
		userFields, err := json.Marshal(map[string]string{"email": review.UserFieldsEmail})
		if err != nil {
			return nil, err
		}
		payload["user_fields"] = string(userFields)
	} else {
		payload["user_fields"] = ""
	}

	if review.RestaurantID != nil && *review.RestaurantID == overrideRestaurantID {
		payload["company_id"] = overrideCompanyID
		payload["brand_id"] = overrideBrandID
		payload["catalog_id"] = overrideCatalogID
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL+reviewsPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+s.token)

	resp, err := s.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.logger.Error().Int("status", resp.StatusCode).Str("body", string(raw)).Msg("review rejected")
		return nil, fmt.Errorf("%w: status %d", gwerrors.ErrReviewRejected, resp.StatusCode)
	}

	var parsed struct {
		ID json.Number `json:"id"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil || parsed.ID.String() == "" {
		s.logger.Error().Str("body", string(raw)).Msg("review accepted but no id in response")
		return nil, fmt.Errorf("%w: missing review id", gwerrors.ErrReviewRejected)
	}
	return &entities.ReviewResult{Status: "success", ReviewID: parsed.ID.String()}, nil
}
