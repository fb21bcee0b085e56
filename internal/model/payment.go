package model

import "time"

// PaymentRecord mirrors the 'payments' table.  One row is inserted per
// successful verification as an append-only audit trail; rows are never
// updated.  Unconfirmed rows tied to a pending reservation are removed when
// the reservation is cancelled.
type PaymentRecord struct {
	ID            uint64    // payments.id
	ReservationID uint64    // payments.reservation_id
	OrderRef      string    // payments.gateway_order_ref
	PaymentRef    string    // payments.gateway_payment_ref
	AmountMinor   int64     // payments.amount_minor
	Currency      string    // payments.currency
	Status        string    // payments.status (always "captured" for audit rows)
	CreatedAt     time.Time // payments.created_at
}
