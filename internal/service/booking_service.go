package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"restogateway/internal/entities"
	gwerrors "restogateway/internal/errors"
)

// BookingService drives the slot-matching and reservation workflow.
type BookingService struct {
	remarked *RemarkedService
	logger   zerolog.Logger
}

func NewBookingService(remarked *RemarkedService, logger zerolog.Logger) *BookingService {
	return &BookingService{remarked: remarked, logger: logger}
}

// Book finds a slot for the requested date and time, picks a table
// allocation for the party and submits the reservation.
//
// Slot policy: the first free slot starting exactly at the requested time
// wins. A slot at that time that is already taken fails the booking without
// contacting upstream again. When no slot exists at the requested time at
// all, the first free slot of the day is booked instead, whatever its time;
// the result reports which slot was actually used.
func (s *BookingService) Book(ctx context.Context, order entities.ReservationOrder) (*entities.ReserveResult, error) {
	resp, err := s.remarked.GetSlots(ctx, order.RestaurantID, order.Date, order.Date, order.GuestsCount, true)
	if err != nil {
		return nil, err
	}

	slot, err := matchSlot(resp.Slots, order.Time)
	if err != nil {
		return nil, err
	}

	tables, err := chooseTables(*slot, order.GuestsCount)
	if err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	reserveID, err := s.remarked.CreateReserve(ctx, order, tables, requestID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("request_id", requestID).
		Int64("reserve_id", reserveID).
		Str("slot", slot.StartDatetime).
		Ints("tables", tables).
		Msg("reservation created")

	return &entities.ReserveResult{
		RequestID:     requestID,
		ReservationID: reserveID,
		TablesIDs:     tables,
		SlotStart:     slot.StartDatetime,
	}, nil
}

// matchSlot applies the exact-time, first-found policy. An occupied slot at
// the requested time fails immediately; a time with no slot at all falls
// back to the first free slot of the day.
func matchSlot(slots []entities.TimeSlot, requested string) (*entities.TimeSlot, error) {
	want := normalizeTime(requested)

	timeExists := false
	for i := range slots {
		if slotStartTime(slots[i]) != want {
			continue
		}
		if slots[i].IsFree {
			return &slots[i], nil
		}
		timeExists = true
	}
	if timeExists {
		return nil, fmt.Errorf("%w: %s is already taken", gwerrors.ErrSlotUnavailable, want)
	}
	for i := range slots {
		if slots[i].IsFree {
			return &slots[i], nil
		}
	}
	return nil, fmt.Errorf("%w: no free slots for the day", gwerrors.ErrSlotUnavailable)
}

// chooseTables picks an allocation for the slot. Tier order: counted
// bundles, then plain bundles, then the flat table list. The first tier
// present is authoritative; an unsatisfiable tier does not fall through.
func chooseTables(slot entities.TimeSlot, guests int) ([]int, error) {
	switch {
	case len(slot.TableBundlesWithCount) > 0:
		if tables := pickCountedBundle(slot.TableBundlesWithCount, guests); len(tables) > 0 {
			return tables, nil
		}
	case len(slot.TableBundles) > 0:
		for _, bundle := range slot.TableBundles {
			if len(bundle) > 0 {
				return bundle, nil
			}
		}
	case len(slot.TablesIDs) > 0:
		return slot.TablesIDs, nil
	}
	return nil, fmt.Errorf("%w: %d guests at %s", gwerrors.ErrNoTableAvailable, guests, slot.StartDatetime)
}

// pickCountedBundle prefers an exact seat count, then the smallest bundle
// that still fits the party. Bundles are ordered by count and key so the
// choice does not depend on map iteration order.
func pickCountedBundle(bundles map[string]entities.TableBundle, guests int) []int {
	keys := make([]string, 0, len(bundles))
	for k := range bundles {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		bi, bj := bundles[keys[i]], bundles[keys[j]]
		if bi.Count != bj.Count {
			return bi.Count < bj.Count
		}
		return keys[i] < keys[j]
	})

	for _, k := range keys {
		if bundles[k].Count == guests {
			return bundles[k].Tables
		}
	}
	for _, k := range keys {
		if bundles[k].Count >= guests {
			return bundles[k].Tables
		}
	}
	return nil
}

// normalizeTime truncates "HH:MM:SS" to "HH:MM".
func normalizeTime(t string) string {
	if len(t) > 5 {
		return t[:5]
	}
	return t
}

func slotStartTime(slot entities.TimeSlot) string {
	_, tod, ok := strings.Cut(slot.StartDatetime, " ")
	if !ok {
		return ""
	}
	return normalizeTime(tod)
}
