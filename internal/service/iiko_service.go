package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"restogateway/internal/config"
	"restogateway/internal/entities"
	gwerrors "restogateway/internal/errors"
)

// iiko access tokens live for an hour; refresh early to stay clear of the
// expiry edge.
const (
	iikoTokenLifetime     = time.Hour
	iikoTokenSafetyMargin = 5 * time.Minute
)

type cachedToken struct {
	value     string
	expiresAt time.Time
}

// IikoService talks to the POS platform. The access token is cached across
// requests behind an atomic pointer: concurrent callers may both refresh an
// expired token, which is wasteful but harmless since the last write wins.
type IikoService struct {
	apiURL   string
	apiLogin string
	hc       *http.Client
	menus    map[int]config.IikoMenuRef
	token    atomic.Pointer[cachedToken]
	logger   zerolog.Logger
}

func NewIikoService(cfg *config.Config, logger zerolog.Logger) *IikoService {
	return &IikoService{
		apiURL:   cfg.IikoAPIURL,
		apiLogin: cfg.IikoAPILogin,
		hc:       &http.Client{},
		menus:    cfg.IikoMenus,
		logger:   logger,
	}
}

// GetMenuForRestaurants fetches menus for every id concurrently. Each result
// carries either a menu document or an error string; one restaurant's
// failure never aborts the others.
func (s *IikoService) GetMenuForRestaurants(ctx context.Context, ids []int) []entities.MenuLookupResult {
	results := make([]entities.MenuLookupResult, len(ids))

	g := new(errgroup.Group)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			results[i] = s.menuForRestaurant(ctx, id)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (s *IikoService) menuForRestaurant(ctx context.Context, id int) entities.MenuLookupResult {
	ref, ok := s.menus[id]
	if !ok {
		return entities.MenuLookupResult{
			RestaurantID: id,
			Error:        fmt.Sprintf("no menu mapping for restaurant %d", id),
		}
	}
	menu, err := s.menuByID(ctx, ref)
	if err != nil {
		s.logger.Warn().Err(err).Int("restaurant_id", id).Msg("menu fetch failed")
		return entities.MenuLookupResult{RestaurantID: id, Error: "failed to retrieve menu from POS"}
	}
	return entities.MenuLookupResult{RestaurantID: id, Menu: menu}
}

func (s *IikoService) menuByID(ctx context.Context, ref config.IikoMenuRef) (json.RawMessage, error) {
	token, err := s.accessToken(ctx)
	if err != nil {
		return nil, err
	}
	payload := map[string]interface{}{
		"externalMenuId":  ref.ExternalMenuID,
		"organizationIds": []string{ref.OrganizationID},
	}
	status, raw, err := s.post(ctx, "/api/2/menu/by_id", token, payload)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: menu status %d", gwerrors.ErrUpstreamFormat, status)
	}
	return json.RawMessage(raw), nil
}

// GetOrganizations lists the organizations provisioned for the api login.
func (s *IikoService) GetOrganizations(ctx context.Context) ([]entities.IikoOrganization, error) {
	token, err := s.accessToken(ctx)
	if err != nil {
		return nil, err
	}
	status, raw, err := s.post(ctx, "/api/1/organizations", token, map[string]string{"apiLogin": s.apiLogin})
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: organizations status %d", gwerrors.ErrUpstreamFormat, status)
	}
	var resp struct {
		Organizations []entities.IikoOrganization `json:"organizations"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", gwerrors.ErrUpstreamFormat, err)
	}
	if resp.Organizations == nil {
		return nil, fmt.Errorf("%w: missing organizations field", gwerrors.ErrUpstreamFormat)
	}
	return resp.Organizations, nil
}

// GetExternalMenus lists every external menu known to the POS.
func (s *IikoService) GetExternalMenus(ctx context.Context) ([]entities.IikoExternalMenu, error) {
	token, err := s.accessToken(ctx)
	if err != nil {
		return nil, err
	}
	status, raw, err := s.post(ctx, "/api/2/menu", token, struct{}{})
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: external menus status %d", gwerrors.ErrUpstreamFormat, status)
	}
	var resp struct {
		ExternalMenus []entities.IikoExternalMenu `json:"externalMenus"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", gwerrors.ErrUpstreamFormat, err)
	}
	if resp.ExternalMenus == nil {
		return nil, fmt.Errorf("%w: missing externalMenus field", gwerrors.ErrUpstreamFormat)
	}
	return resp.ExternalMenus, nil
}

func (s *IikoService) accessToken(ctx context.Context) (string, error) {
	if cached := s.token.Load(); cached != nil && time.Now().Before(cached.expiresAt) {
		return cached.value, nil
	}

	status, raw, err := s.post(ctx, "/api/1/access_token", "", map[string]string{"apiLogin": s.apiLogin})
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("%w: access token status %d", gwerrors.ErrUpstreamFormat, status)
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil || resp.Token == "" {
		return "", fmt.Errorf("%w: access token response", gwerrors.ErrUpstreamFormat)
	}

	s.token.Store(&cachedToken{
		value:     resp.Token,
		expiresAt: time.Now().Add(iikoTokenLifetime - iikoTokenSafetyMargin),
	})
	return resp.Token, nil
}

func (s *IikoService) post(ctx context.Context, path, token string, payload interface{}) (int, []byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL+path, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.hc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, raw, nil
}
