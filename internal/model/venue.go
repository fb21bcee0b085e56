package model

// VenueKind identifies the category of bookable inventory.  The business
// operates exactly two venues: a cinema screen whose units are seats and a
// sports turf whose units are hourly slots.
type VenueKind string

const (
	VenueScreen VenueKind = "screen" // cinema screen, seats booked per showtime
	VenueTurf   VenueKind = "turf"   // sports turf, hourly slots booked per day
)

// Valid reports whether k names a known venue kind.
func (k VenueKind) Valid() bool {
	return k == VenueScreen || k == VenueTurf
}

// Unit is a single bookable inventory item: a seat code such as "A1" for the
// screen, or an hourly turf slot.  Units are immutable reference data; seats
// are defined by configuration and slots are seeded rows that may only be
// appended to.
//
// Fields:
//
//	Code        – stable identifier referenced by reservation line items.
//	Label       – human readable name ("A1", "06:00 AM - 07:00 AM").
//	StartMinute – minute of day the unit's period begins (slots only).
//	EndMinute   – minute of day the unit's period ends (slots only).
type Unit struct {
	Code        string `json:"code"`
	Label       string `json:"label"`
	StartMinute int    `json:"start_minute,omitempty"`
	EndMinute   int    `json:"end_minute,omitempty"`
}

// Window is a discrete bookable time period for a venue: a showtime for the
// screen, or the whole day for the turf.  Showtimes mirror the 'showtimes'
// table and are append-only.
type Window struct {
	ID          uint64 `json:"id"`          // showtimes.id
	Label       string `json:"label"`       // e.g. "07:00 PM - 08:00 PM"
	StartMinute int    `json:"start_minute"`
	EndMinute   int    `json:"end_minute"`
}
