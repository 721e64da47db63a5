package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"restogateway/internal/config"
	"restogateway/internal/entities"
	gwerrors "restogateway/internal/errors"
)

const (
	methodGetSlots      = "GetSlots"
	methodCreateReserve = "CreateReserve"
	methodRemoveReserve = "RemoveReserve"

	reserveSource       = "widget"
	defaultCancelStatus = "canceled"
	depositUnpaid       = "unpaid"
)

// RemarkedService talks to the reservation platform: the v1 widget endpoint
// (single URL, method discriminator in the body) and the v2 booking endpoint
// (fixed paths under bearer auth).
type RemarkedService struct {
	apiURL      string
	bookingURL  string
	hc          *http.Client
	credentials *CredentialService
	logger      zerolog.Logger
}

func NewRemarkedService(cfg *config.Config, credentials *CredentialService, logger zerolog.Logger) *RemarkedService {
	return &RemarkedService{
		apiURL:      cfg.RemarkedAPIURL,
		bookingURL:  cfg.RemarkedV2BookingURL,
		hc:          &http.Client{},
		credentials: credentials,
		logger:      logger,
	}
}

type reserveDatePeriod struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type getSlotsRequest struct {
	Method            string            `json:"method"`
	Token             string            `json:"token"`
	ReserveDatePeriod reserveDatePeriod `json:"reserve_date_period"`
	GuestsCount       string            `json:"guests_count"`
	WithRooms         bool              `json:"with_rooms,omitempty"`
}

type slotsResponse struct {
	Status string              `json:"status"`
	Slots  []entities.TimeSlot `json:"slots"`
	Rooms  json.RawMessage     `json:"rooms"`
}

// GetSlots queries bookable slots for the date range. With withRooms the full
// upstream response is returned unfiltered so callers can inspect table
// bundles; otherwise only free slots come back, stamped as non-event. An
// upstream-reported error yields an empty slot list, not an error: callers
// cannot tell it apart from a genuinely empty day.
func (s *RemarkedService) GetSlots(ctx context.Context, restaurantID *int, from, to string, guests int, withRooms bool) (*entities.SlotsWithRooms, error) {
	token, err := s.credentials.ResolveToken(restaurantID, PurposeBooking)
	if err != nil {
		return nil, err
	}

	payload := getSlotsRequest{
		Method:            methodGetSlots,
		Token:             token,
		ReserveDatePeriod: reserveDatePeriod{From: from, To: to},
		// Upstream insists on a string here.
		GuestsCount: strconv.Itoa(guests),
		WithRooms:   withRooms,
	}

	var resp slotsResponse
	if _, err := s.postV1(ctx, payload, &resp); err != nil {
		return nil, err
	}
	if resp.Status == "error" {
		s.logger.Warn().Str("method", methodGetSlots).Msg("upstream reported error, returning no slots")
		return &entities.SlotsWithRooms{Slots: []entities.TimeSlot{}}, nil
	}

	if withRooms {
		return &entities.SlotsWithRooms{Slots: resp.Slots, Rooms: resp.Rooms}, nil
	}

	free := make([]entities.TimeSlot, 0, len(resp.Slots))
	for _, slot := range resp.Slots {
		if !slot.IsFree {
			continue
		}
		slot.IsEvent = false
		free = append(free, slot)
	}
	return &entities.SlotsWithRooms{Slots: free}, nil
}

type depositPayload struct {
	Sum    float64 `json:"sum"`
	Status string  `json:"status"`
}

type createReserveRequest struct {
	Method        string         `json:"method"`
	Token         string         `json:"token"`
	RequestID     string         `json:"request_id"`
	Source        string         `json:"source"`
	Name          string         `json:"name"`
	Phone         string         `json:"phone"`
	Email         string         `json:"email,omitempty"`
	Date          string         `json:"date"`
	Time          string         `json:"time"`
	GuestsCount   int            `json:"guests_count"`
	ChildrenCount int            `json:"children_count"`
	Comment       string         `json:"comment,omitempty"`
	UTM           string         `json:"utm,omitempty"`
	Tables        []int          `json:"tables"`
	Deposit       depositPayload `json:"deposit"`
	EventTags     []string       `json:"event_tags"`
}

type reserveResponse struct {
	Status    string `json:"status"`
	ReserveID int64  `json:"reserve_id"`
}

// CreateReserve submits the reservation with the chosen table allocation.
// Anything but an explicit success status fails the call.
func (s *RemarkedService) CreateReserve(ctx context.Context, order entities.ReservationOrder, tables []int, requestID string) (int64, error) {
	token, err := s.credentials.ResolveToken(order.RestaurantID, PurposeBooking)
	if err != nil {
		return 0, err
	}

	depositStatus := order.DepositStatus
	if depositStatus == "" {
		depositStatus = depositUnpaid
	}
	eventTags := order.EventTags
	if eventTags == nil {
		eventTags = []string{}
	}

	payload := createReserveRequest{
		Method:        methodCreateReserve,
		Token:         token,
		RequestID:     requestID,
		Source:        reserveSource,
		Name:          order.Name,
		Phone:         order.Phone,
		Email:         order.Email,
		Date:          order.Date,
		Time:          order.Time,
		GuestsCount:   order.GuestsCount,
		ChildrenCount: order.ChildrenCount,
		Comment:       order.Comment,
		UTM:           order.UTM,
		Tables:        tables,
		Deposit:       depositPayload{Sum: order.DepositSum, Status: depositStatus},
		EventTags:     eventTags,
	}

	var resp reserveResponse
	raw, err := s.postV1(ctx, payload, &resp)
	if err != nil {
		return 0, err
	}
	if resp.Status != "success" {
		s.logger.Error().
			Str("method", methodCreateReserve).
			Str("request_id", requestID).
			Str("body", string(raw)).
			Msg("reservation rejected")
		return 0, fmt.Errorf("%w: status %q", gwerrors.ErrReservationFailed, resp.Status)
	}
	return resp.ReserveID, nil
}

type removeReserveRequest struct {
	Method    string `json:"method"`
	Token     string `json:"token"`
	RequestID string `json:"request_id"`
	ReserveID int64  `json:"reserve_id"`
	Reason    string `json:"reason,omitempty"`
	Status    string `json:"status"`
}

// RemoveReserve cancels a reservation and echoes back the confirmed id.
func (s *RemarkedService) RemoveReserve(ctx context.Context, restaurantID *int, reserveID int64, reason, status string) (*entities.CancelResult, error) {
	token, err := s.credentials.ResolveToken(restaurantID, PurposeBooking)
	if err != nil {
		return nil, err
	}
	if status == "" {
		status = defaultCancelStatus
	}
	requestID := uuid.NewString()

	payload := removeReserveRequest{
		Method:    methodRemoveReserve,
		Token:     token,
		RequestID: requestID,
		ReserveID: reserveID,
		Reason:    reason,
		Status:    status,
	}

	var resp reserveResponse
	raw, err := s.postV1(ctx, payload, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Status != "success" {
		s.logger.Error().
			Str("method", methodRemoveReserve).
			Int64("reserve_id", reserveID).
			Str("body", string(raw)).
			Msg("cancellation rejected")
		return nil, fmt.Errorf("%w: status %q", gwerrors.ErrReservationFailed, resp.Status)
	}

	confirmed := resp.ReserveID
	if confirmed == 0 {
		confirmed = reserveID
	}
	return &entities.CancelResult{RequestID: requestID, ReservationID: confirmed}, nil
}

// BuyTicket forwards the purchase body untouched to the v2 booking endpoint.
// A non-200 answer degrades to a nil result; callers must treat nil as
// "nothing bought".
func (s *RemarkedService) BuyTicket(ctx context.Context, body map[string]interface{}) (json.RawMessage, error) {
	token, err := s.credentials.ResolveToken(restaurantIDFromPayload(body), PurposeBooking)
	if err != nil {
		return nil, err
	}
	status, raw, err := s.doV2(ctx, http.MethodPost, "/holdTickets", token, nil, body)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		s.logger.Warn().Int("status", status).Msg("buy ticket returned non-200, degrading to empty result")
		return nil, nil
	}
	return raw, nil
}

// CheckPayment checks a ticket payment. Same degrade-to-nil contract as
// BuyTicket.
func (s *RemarkedService) CheckPayment(ctx context.Context, body map[string]interface{}) (json.RawMessage, error) {
	token, err := s.credentials.ResolveToken(restaurantIDFromPayload(body), PurposeBooking)
	if err != nil {
		return nil, err
	}
	status, raw, err := s.doV2(ctx, http.MethodPost, "/checkPaid", token, nil, body)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		s.logger.Warn().Int("status", status).Msg("check payment returned non-200, degrading to empty result")
		return nil, nil
	}
	return raw, nil
}

// GetEvents lists period events under the event-purpose token. A payload
// without an events field is a hard failure.
func (s *RemarkedService) GetEvents(ctx context.Context, from, to string, restaurantID *int) (json.RawMessage, error) {
	token, err := s.credentials.ResolveToken(restaurantID, PurposeEvent)
	if err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("from", from)
	q.Set("to", to)

	status, raw, err := s.doV2(ctx, http.MethodGet, "/periodEvents", token, q, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: events status %d", gwerrors.ErrUpstreamFormat, status)
	}

	var resp struct {
		Events json.RawMessage `json:"events"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", gwerrors.ErrUpstreamFormat, err)
	}
	if resp.Events == nil {
		return nil, fmt.Errorf("%w: missing events field", gwerrors.ErrUpstreamFormat)
	}
	return resp.Events, nil
}

// HoldTickets places an event ticket hold. The restaurant id in the body is
// routing-only and is stripped before the payload goes upstream.
func (s *RemarkedService) HoldTickets(ctx context.Context, body map[string]interface{}) (json.RawMessage, error) {
	restaurantID := restaurantIDFromPayload(body)
	delete(body, "restaurant_id")

	token, err := s.credentials.ResolveToken(restaurantID, PurposeEvent)
	if err != nil {
		return nil, err
	}
	status, raw, err := s.doV2(ctx, http.MethodPost, "/holdTickets", token, nil, body)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		s.logger.Error().Int("status", status).Str("body", string(raw)).Msg("ticket hold rejected")
		return nil, fmt.Errorf("%w: status %d", gwerrors.ErrTicketHoldFailed, status)
	}
	return raw, nil
}

// postV1 does one exchange against the widget endpoint. The raw body is
// returned alongside the decoded value for diagnostics.
func (s *RemarkedService) postV1(ctx context.Context, payload, out interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return raw, fmt.Errorf("%w: %v", gwerrors.ErrUpstreamFormat, err)
	}
	return raw, nil
}

func (s *RemarkedService) doV2(ctx context.Context, method, path, token string, query url.Values, body interface{}) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		reader = bytes.NewReader(b)
	}

	u := s.bookingURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

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

func restaurantIDFromPayload(body map[string]interface{}) *int {
	v, ok := body["restaurant_id"]
	if !ok {
		return nil
	}
	switch n := v.(type) {
	case float64:
		id := int(n)
		return &id
	case string:
		if id, err := strconv.Atoi(n); err == nil {
			return &id
		}
	}
	return nil
}
