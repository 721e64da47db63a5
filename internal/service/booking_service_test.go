package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restogateway/internal/config"
	"restogateway/internal/entities"
	gwerrors "restogateway/internal/errors"
)

// remarkedRecorder fakes the v1 widget endpoint: answers GetSlots with the
// canned slot list and records every CreateReserve payload.
type remarkedRecorder struct {
	mu      sync.Mutex
	slots   []entities.TimeSlot
	creates []map[string]interface{}
}

func (f *remarkedRecorder) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		switch req["method"] {
		case "GetSlots":
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "success",
				"slots":  f.slots,
			})
		case "CreateReserve":
			f.mu.Lock()
			f.creates = append(f.creates, req)
			f.mu.Unlock()
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"status":     "success",
				"reserve_id": 555,
			})
		default:
			http.Error(w, "unknown method", http.StatusBadRequest)
		}
	}
}

func (f *remarkedRecorder) createCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.creates)
}

func newBookingFixture(t *testing.T, slots []entities.TimeSlot) (*BookingService, *remarkedRecorder) {
	t.Helper()
	rec := &remarkedRecorder{slots: slots}
	ts := httptest.NewServer(rec.handler(t))
	t.Cleanup(ts.Close)

	cfg := &config.Config{
		RemarkedAPIURL:      ts.URL,
		BookingTokens:       map[int]string{1: "tok-1"},
		DefaultRestaurantID: 1,
	}
	remarked := NewRemarkedService(cfg, NewCredentialService(cfg), zerolog.Nop())
	return NewBookingService(remarked, zerolog.Nop()), rec
}

func testOrder(t string) entities.ReservationOrder {
	return entities.ReservationOrder{
		Name:        "Test User",
		Phone:       "+79001234567",
		Date:        "2025-12-30",
		Time:        t,
		GuestsCount: 3,
	}
}

func TestBookExactTimeMatch(t *testing.T) {
	svc, rec := newBookingFixture(t, []entities.TimeSlot{
		{StartDatetime: "2025-12-30 18:00:00", IsFree: false},
		{
			StartDatetime: "2025-12-30 19:00:00",
			IsFree:        true,
			TableBundlesWithCount: map[string]entities.TableBundle{
				"b2": {Count: 2, Tables: []int{1, 2}},
				"b4": {Count: 4, Tables: []int{3, 4}},
				"b6": {Count: 6, Tables: []int{5, 6, 7}},
			},
		},
	})

	result, err := svc.Book(context.Background(), testOrder("19:00:00"))
	require.NoError(t, err)

	assert.Equal(t, int64(555), result.ReservationID)
	assert.Equal(t, "2025-12-30 19:00:00", result.SlotStart)
	// 3 guests: no exact bundle, smallest that fits is the 4-seater.
	assert.Equal(t, []int{3, 4}, result.TablesIDs)
	assert.NotEmpty(t, result.RequestID)

	require.Equal(t, 1, rec.createCount())
	create := rec.creates[0]
	assert.Equal(t, "widget", create["source"])
	assert.Equal(t, result.RequestID, create["request_id"])
	assert.Equal(t, []interface{}{float64(3), float64(4)}, create["tables"])
	assert.Equal(t, map[string]interface{}{"sum": float64(0), "status": "unpaid"}, create["deposit"])
	assert.Equal(t, []interface{}{}, create["event_tags"])
}

func TestBookOccupiedExactTimeFails(t *testing.T) {
	svc, rec := newBookingFixture(t, []entities.TimeSlot{
		{StartDatetime: "2025-12-30 19:00:00", IsFree: false, TablesIDs: []int{1}},
		{StartDatetime: "2025-12-30 20:00:00", IsFree: true, TablesIDs: []int{2}},
	})

	_, err := svc.Book(context.Background(), testOrder("19:00"))
	require.ErrorIs(t, err, gwerrors.ErrSlotUnavailable)
	// No substitution for an occupied time: upstream must not see a booking.
	assert.Equal(t, 0, rec.createCount())
}

func TestBookFallsBackToAnyFreeSlot(t *testing.T) {
	svc, rec := newBookingFixture(t, []entities.TimeSlot{
		{StartDatetime: "2025-12-30 18:30:00", IsFree: true, TablesIDs: []int{7}},
		{StartDatetime: "2025-12-30 20:00:00", IsFree: true, TablesIDs: []int{8}},
	})

	result, err := svc.Book(context.Background(), testOrder("21:00"))
	require.NoError(t, err)

	// The requested time has no slot at all, so the first free slot of the
	// day is booked even though its time differs.
	assert.Equal(t, "2025-12-30 18:30:00", result.SlotStart)
	assert.Equal(t, []int{7}, result.TablesIDs)
	assert.Equal(t, 1, rec.createCount())
}

func TestBookNoFreeSlotsAtAll(t *testing.T) {
	svc, rec := newBookingFixture(t, []entities.TimeSlot{
		{StartDatetime: "2025-12-30 18:00:00", IsFree: false},
		{StartDatetime: "2025-12-30 20:00:00", IsFree: false},
	})

	_, err := svc.Book(context.Background(), testOrder("21:00"))
	require.ErrorIs(t, err, gwerrors.ErrSlotUnavailable)
	assert.Equal(t, 0, rec.createCount())
}

func TestBookNoTableAvailable(t *testing.T) {
	svc, rec := newBookingFixture(t, []entities.TimeSlot{
		{StartDatetime: "2025-12-30 19:00:00", IsFree: true},
	})

	_, err := svc.Book(context.Background(), testOrder("19:00"))
	require.ErrorIs(t, err, gwerrors.ErrNoTableAvailable)
	assert.Equal(t, 0, rec.createCount())
}

func TestChooseTablesTierPriority(t *testing.T) {
	counted := map[string]entities.TableBundle{"b2": {Count: 2, Tables: []int{1, 2}}}

	tests := []struct {
		name   string
		slot   entities.TimeSlot
		guests int
		want   []int
		err    error
	}{
		{
			name: "counted bundles win over everything",
			slot: entities.TimeSlot{
				TableBundlesWithCount: counted,
				TableBundles:          [][]int{{9}},
				TablesIDs:             []int{10},
			},
			guests: 2,
			want:   []int{1, 2},
		},
		{
			name: "plain bundles beat flat ids, first non-empty wins",
			slot: entities.TimeSlot{
				TableBundles: [][]int{{}, {5, 6}, {7}},
				TablesIDs:    []int{10},
			},
			guests: 2,
			want:   []int{5, 6},
		},
		{
			name:   "flat ids as last resort",
			slot:   entities.TimeSlot{TablesIDs: []int{10, 11}},
			guests: 2,
			want:   []int{10, 11},
		},
		{
			name:   "nothing to allocate",
			slot:   entities.TimeSlot{},
			guests: 2,
			err:    gwerrors.ErrNoTableAvailable,
		},
		{
			name: "unsatisfiable counted tier does not fall through",
			slot: entities.TimeSlot{
				TableBundlesWithCount: counted,
				TablesIDs:             []int{10},
			},
			guests: 5,
			err:    gwerrors.ErrNoTableAvailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := chooseTables(tt.slot, tt.guests)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPickCountedBundle(t *testing.T) {
	bundles := map[string]entities.TableBundle{
		"b2": {Count: 2, Tables: []int{1, 2}},
		"b4": {Count: 4, Tables: []int{3, 4}},
		"b6": {Count: 6, Tables: []int{5, 6, 7}},
	}

	// Exact count beats a smaller-indexed larger bundle.
	assert.Equal(t, []int{3, 4}, pickCountedBundle(bundles, 4))
	// Smallest bundle that still fits.
	assert.Equal(t, []int{3, 4}, pickCountedBundle(bundles, 3))
	assert.Equal(t, []int{5, 6, 7}, pickCountedBundle(bundles, 5))
	// Party too big for every bundle.
	assert.Nil(t, pickCountedBundle(bundles, 7))
}

func TestMatchSlotPrefersLaterFreeExactMatch(t *testing.T) {
	slots := []entities.TimeSlot{
		{StartDatetime: "2025-12-30 19:00:00", IsFree: false},
		{StartDatetime: "2025-12-30 19:00:00", IsFree: true, TablesIDs: []int{3}},
	}
	slot, err := matchSlot(slots, "19:00")
	require.NoError(t, err)
	assert.True(t, slot.IsFree)
}

func TestNormalizeTime(t *testing.T) {
	assert.Equal(t, "19:00", normalizeTime("19:00:00"))
	assert.Equal(t, "19:00", normalizeTime("19:00"))
	assert.Equal(t, "", slotStartTime(entities.TimeSlot{StartDatetime: "garbage"}))
	assert.Equal(t, "19:30", slotStartTime(entities.TimeSlot{StartDatetime: "2025-12-30 19:30:00"}))
}
