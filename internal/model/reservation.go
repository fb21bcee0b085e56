package model

import "time"

// Reservation statuses.  These are the only two persisted states: a
// reservation is created PENDING and either becomes SUCCESS exactly once when
// its payment is verified, or is deleted outright while still pending.  No
// "failed" state is ever stored.
const (
	StatusPending = "pending"
	StatusSuccess = "success"
)

// Reservation records a customer's booking of one or more units for a
// specific venue, date and time window.  Units held by a PENDING reservation
// do not block availability for other customers (soft hold); only SUCCESS
// reservations count as booked.
//
// Fields:
//
//	ID          – primary key identifier.
//	CustomerID  – customer who made the reservation.
//	VenueKind   – which venue's inventory the line items belong to.
//	Date        – calendar date being booked, "2006-01-02".
//	WindowRef   – showtime ID for the screen, empty for the turf.
//	AmountMinor – total price in the currency's minor unit (paise).
//	Status      – StatusPending or StatusSuccess.
//	OrderRef    – opaque order reference issued by the payment gateway.
//	CreatedAt   – creation timestamp (UTC).
//	Units       – ordered line-item unit codes.
type Reservation struct {
	ID          uint64
	CustomerID  uint64
	VenueKind   VenueKind
	Date        string
	WindowRef   string
	AmountMinor int64
	Status      string
	OrderRef    string
	CreatedAt   time.Time
	Units       []string
}

// ConfirmedBooking is a SUCCESS reservation expanded for display: line items
// in insertion order plus window label and a calendar deep-link.  Returned by
// the confirmed-bookings listing, newest first.
type ConfirmedBooking struct {
	ID           uint64    `json:"id"`
	VenueKind    VenueKind `json:"venue_kind"`
	Date         string    `json:"date"`
	WindowRef    string    `json:"window_ref,omitempty"`
	WindowLabel  string    `json:"window_label,omitempty"`
	Units        []string  `json:"units"`
	AmountMinor  int64     `json:"amount_minor"`
	OrderRef     string    `json:"order_ref,omitempty"`
	CalendarLink string    `json:"calendar_link,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
