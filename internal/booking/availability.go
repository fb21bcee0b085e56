package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/muniyaraj/venue-booking/internal/model"
)

// JoinGraceMinutes is how long after a window's start time it is still
// considered joinable on the current day.  A customer can buy into a 7:00 PM
// showing until 9:15 PM; the business treats late entry within 2h15m of the
// start as acceptable.
const JoinGraceMinutes = 135

// DateLayout is the wire and storage format for booking dates.
const DateLayout = "2006-01-02"

// AvailabilityResult partitions a venue's catalog for one (date, window)
// key.  The two slices are disjoint and their union is the full catalog,
// catalog order preserved.
type AvailabilityResult struct {
	Available []model.Unit `json:"available"`
	Booked    []model.Unit `json:"booked"`
}

// Units returns the full ordered catalog for a venue kind.
func (s *Service) Units(ctx context.Context, kind model.VenueKind) ([]model.Unit, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown venue kind %q", ErrValidation, kind)
	}
	units, err := s.catalog.Units(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("%w: load catalog: %v", ErrDependency, err)
	}
	return units, nil
}

// Availability computes the free subset of the catalog for the key.  Only
// SUCCESS reservations count as booked; pending reservations are soft holds
// and do not block other customers.  This is a pure read over committed
// state, so no locking is needed.
func (s *Service) Availability(ctx context.Context, kind model.VenueKind, date, windowRef string) (*AvailabilityResult, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown venue kind %q", ErrValidation, kind)
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", ErrValidation, date)
	}
	units, err := s.catalog.Units(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("%w: load catalog: %v", ErrDependency, err)
	}
	codes, err := s.store.BookedUnits(ctx, kind, date, windowRef)
	if err != nil {
		return nil, fmt.Errorf("%w: load booked units: %v", ErrDependency, err)
	}
	taken := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		taken[c] = struct{}{}
	}
	res := &AvailabilityResult{
		Available: make([]model.Unit, 0, len(units)),
		Booked:    make([]model.Unit, 0, len(taken)),
	}
	for _, u := range units {
		if _, ok := taken[u.Code]; ok {
			res.Booked = append(res.Booked, u)
		} else {
			res.Available = append(res.Available, u)
		}
	}
	return res, nil
}

// ShowtimeWindows returns the screen's showtime windows for a date.  For any
// date other than "today" in the business timezone every window is returned;
// for today a window is kept only while the current time is within
// JoinGraceMinutes of its start.
func (s *Service) ShowtimeWindows(ctx context.Context, date string) ([]model.Window, error) {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", ErrValidation, date)
	}
	windows, err := s.catalog.Windows(ctx, model.VenueScreen)
	if err != nil {
		return nil, fmt.Errorf("%w: load showtimes: %v", ErrDependency, err)
	}
	now := s.now().In(s.loc)
	if date != now.Format(DateLayout) {
		return windows, nil
	}
	nowMinutes := now.Hour()*60 + now.Minute()
	upcoming := make([]model.Window, 0, len(windows))
	for _, w := range windows {
		if nowMinutes <= w.StartMinute+JoinGraceMinutes {
			upcoming = append(upcoming, w)
		}
	}
	return upcoming, nil
}
