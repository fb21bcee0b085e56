// Package catalog exposes the fixed inventory of bookable units per venue:
// the seat grid for the cinema screen and the hourly slot list for the turf.
// Both are immutable reference data; seats are built from configuration at
// startup and slots are read from seeded, append-only database rows.
package catalog

import (
	"context"
	"fmt"

	"github.com/muniyaraj/venue-booking/internal/model"
)

// SlotSource lists the turf's slot units in start-time order.
type SlotSource interface {
	List(ctx context.Context) ([]model.Unit, error)
}

// ShowtimeSource lists the screen's showtime windows in start-time order.
type ShowtimeSource interface {
	List(ctx context.Context) ([]model.Window, error)
}

// Catalog resolves the ordered unit list and the bookable time windows for a
// venue kind.  An empty catalog is a valid (degenerate) configuration.
type Catalog struct {
	seats     []model.Unit
	slots     SlotSource
	showtimes ShowtimeSource
}

// New builds a Catalog over the configured seat grid and the slot/showtime
// tables.
func New(seats []model.Unit, slots SlotSource, showtimes ShowtimeSource) *Catalog {
	return &Catalog{seats: seats, slots: slots, showtimes: showtimes}
}

// Units returns the full ordered catalog for the venue kind.  The seat grid
// is returned as a copy so callers cannot mutate the shared configuration.
func (c *Catalog) Units(ctx context.Context, kind model.VenueKind) ([]model.Unit, error) {
	switch kind {
	case model.VenueScreen:
		out := make([]model.Unit, len(c.seats))
		copy(out, c.seats)
		return out, nil
	case model.VenueTurf:
		return c.slots.List(ctx)
	default:
		return nil, fmt.Errorf("unknown venue kind %q", kind)
	}
}

// Windows returns the bookable time windows for the venue kind.  The turf is
// booked per day, so its window list is empty and the day itself acts as the
// window.
func (c *Catalog) Windows(ctx context.Context, kind model.VenueKind) ([]model.Window, error) {
	switch kind {
	case model.VenueScreen:
		return c.showtimes.List(ctx)
	case model.VenueTurf:
		return []model.Window{}, nil
	default:
		return nil, fmt.Errorf("unknown venue kind %q", kind)
	}
}

// SeatGrid enumerates seat codes row by row: rows "ABC" with 2 columns yields
// A1 A2 B1 B2 C1 C2.  The label equals the code.
func SeatGrid(rows string, cols int) []model.Unit {
	units := make([]model.Unit, 0, len(rows)*cols)
	for _, r := range rows {
		for n := 1; n <= cols; n++ {
			code := fmt.Sprintf("%c%d", r, n)
			units = append(units, model.Unit{Code: code, Label: code})
		}
	}
	return units
}
