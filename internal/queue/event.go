// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published when a payment is verified and the
// reservation reaches SUCCESS.  It carries enough detail for downstream
// consumers to log, notify, or trigger analytics without querying the
// primary database.
type BookingConfirmedEvent struct {
	ReservationID uint64   `json:"reservation_id"`
	VenueKind     string   `json:"venue_kind"`
	Date          string   `json:"date"`
	WindowRef     string   `json:"window_ref,omitempty"`
	Units         []string `json:"units"`
	AmountMinor   int64    `json:"amount_minor"`
	Currency      string   `json:"currency"`
	OrderRef      string   `json:"order_ref"`
	PaymentRef    string   `json:"payment_ref"`
	ConfirmedAt   string   `json:"confirmed_at"`
}
