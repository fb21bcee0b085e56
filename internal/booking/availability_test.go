package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muniyaraj/venue-booking/internal/model"
)

func TestAvailabilityPartitionsCatalog(t *testing.T) {
	store := newFakeStore()
	cat := seatCatalog("A1", "A2", "A3", "A4", "A5", "B1", "B2", "B3", "B4", "B5")
	svc := newTestService(store, cat, &fakeGateway{orderRef: "order_1"}, nil)

	// Confirmed booking holding A1 and A3.
	store.reservations[99] = &model.Reservation{
		ID: 99, CustomerID: 1, VenueKind: model.VenueScreen,
		Date: "2026-09-01", WindowRef: "1", Status: model.StatusSuccess,
		Units: []string{"A1", "A3"},
	}

	res, err := svc.Availability(context.Background(), model.VenueScreen, "2026-09-01", "1")
	require.NoError(t, err)

	wantFree := []string{"A2", "A4", "A5", "B1", "B2", "B3", "B4", "B5"}
	gotFree := make([]string, 0, len(res.Available))
	for _, u := range res.Available {
		gotFree = append(gotFree, u.Code)
	}
	assert.Equal(t, wantFree, gotFree, "available units keep catalog order")

	gotBooked := make([]string, 0, len(res.Booked))
	for _, u := range res.Booked {
		gotBooked = append(gotBooked, u.Code)
	}
	assert.Equal(t, []string{"A1", "A3"}, gotBooked)
	assert.Len(t, res.Available, 8)
	assert.Len(t, res.Booked, 2)
}

func TestAvailabilityIgnoresPendingHolds(t *testing.T) {
	store := newFakeStore()
	cat := seatCatalog("A1", "A2")
	svc := newTestService(store, cat, &fakeGateway{orderRef: "order_1"}, nil)

	store.reservations[5] = &model.Reservation{
		ID: 5, CustomerID: 1, VenueKind: model.VenueScreen,
		Date: "2026-09-01", WindowRef: "1", Status: model.StatusPending,
		Units: []string{"A1"},
	}

	res, err := svc.Availability(context.Background(), model.VenueScreen, "2026-09-01", "1")
	require.NoError(t, err)
	assert.Len(t, res.Available, 2, "pending holds do not block other customers")
	assert.Empty(t, res.Booked)
}

func TestAvailabilityDifferentWindowsAreIndependent(t *testing.T) {
	store := newFakeStore()
	cat := seatCatalog("A1", "A2")
	svc := newTestService(store, cat, &fakeGateway{orderRef: "order_1"}, nil)

	store.reservations[7] = &model.Reservation{
		ID: 7, CustomerID: 1, VenueKind: model.VenueScreen,
		Date: "2026-09-01", WindowRef: "1", Status: model.StatusSuccess,
		Units: []string{"A1"},
	}

	other, err := svc.Availability(context.Background(), model.VenueScreen, "2026-09-01", "2")
	require.NoError(t, err)
	assert.Len(t, other.Available, 2, "a booking in window 1 does not block window 2")

	otherDay, err := svc.Availability(context.Background(), model.VenueScreen, "2026-09-02", "1")
	require.NoError(t, err)
	assert.Len(t, otherDay.Available, 2)
}

func TestAvailabilityRejectsBadInput(t *testing.T) {
	svc := newTestService(newFakeStore(), seatCatalog("A1"), &fakeGateway{}, nil)

	_, err := svc.Availability(context.Background(), "garage", "2026-09-01", "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Availability(context.Background(), model.VenueScreen, "01-09-2026", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUnitsRejectsUnknownKind(t *testing.T) {
	svc := newTestService(newFakeStore(), seatCatalog("A1"), &fakeGateway{}, nil)
	_, err := svc.Units(context.Background(), "pool")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestShowtimeWindowsGraceOnCurrentDay(t *testing.T) {
	cat := seatCatalog("A1") // windows: 7:00 PM and 9:30 PM
	svc := newTestService(newFakeStore(), cat, &fakeGateway{}, nil)

	today := func(hour, min int) func() time.Time {
		return func() time.Time {
			return time.Date(2026, 9, 1, hour, min, 0, 0, testZone)
		}
	}

	// 9:10 PM: 7:00 PM started 130 minutes ago, still inside the grace.
	svc.WithClock(today(21, 10))
	windows, err := svc.ShowtimeWindows(context.Background(), "2026-09-01")
	require.NoError(t, err)
	require.Len(t, windows, 2)

	// 9:16 PM: 136 minutes past 7:00 PM, the early show drops off.
	svc.WithClock(today(21, 16))
	windows, err = svc.ShowtimeWindows(context.Background(), "2026-09-01")
	require.NoError(t, err)
	require.Len(t, windows, 1)
	assert.Equal(t, uint64(2), windows[0].ID)
}

func TestShowtimeWindowsFutureDateKeepsAll(t *testing.T) {
	cat := seatCatalog("A1")
	svc := newTestService(newFakeStore(), cat, &fakeGateway{}, nil)
	svc.WithClock(func() time.Time {
		return time.Date(2026, 9, 1, 23, 59, 0, 0, testZone)
	})

	windows, err := svc.ShowtimeWindows(context.Background(), "2026-09-02")
	require.NoError(t, err)
	assert.Len(t, windows, 2, "filtering applies only to the current day")
}

func TestShowtimeWindowsRejectsBadDate(t *testing.T) {
	svc := newTestService(newFakeStore(), seatCatalog("A1"), &fakeGateway{}, nil)
	_, err := svc.ShowtimeWindows(context.Background(), "tomorrow")
	assert.ErrorIs(t, err, ErrValidation)
}
