package booking

import (
	"context"

	"github.com/muniyaraj/venue-booking/internal/model"
)

// ConfirmOutcome describes the result of an atomic confirmation attempt.
type ConfirmOutcome int

const (
	// ConfirmApplied means the reservation transitioned pending → success
	// and exactly one payment record was inserted.
	ConfirmApplied ConfirmOutcome = iota
	// ConfirmAlreadyDone means the reservation was already SUCCESS; nothing
	// was written.  Callback redelivery lands here.
	ConfirmAlreadyDone
	// ConfirmConflict means another SUCCESS reservation claimed one of the
	// units first.  The reservation is left pending and no payment record is
	// written; the caller owes a compensating refund.
	ConfirmConflict
)

// Store is the persistence contract for the reservation engine.  Every
// multi-row mutation is transactional: either all invariant-preserving
// writes commit or none do.  Implementations return the package sentinel
// errors (wrapped) so callers can branch with errors.Is.
type Store interface {
	// ResolveCustomer fetches the customer with the given email or creates
	// one.  A concurrent create racing on the unique email constraint is
	// resolved by re-fetching the existing row, never surfaced as an error.
	ResolveCustomer(ctx context.Context, name, email, phone string) (model.Customer, error)

	// CustomerByEmail fetches an existing customer; ErrNotFound when absent.
	CustomerByEmail(ctx context.Context, email string) (model.Customer, error)

	// CreatePending inserts a pending reservation and its line items in one
	// transaction and populates res.ID and res.CreatedAt.
	CreatePending(ctx context.Context, res *model.Reservation) error

	// SetOrderRef stores the gateway order reference on a reservation.
	SetOrderRef(ctx context.Context, reservationID uint64, orderRef string) error

	// DeleteReservation removes a reservation and its line items while it is
	// still pending.  Used to roll back when the gateway order fails.
	DeleteReservation(ctx context.Context, reservationID uint64) error

	// DeletePendingByCustomer removes all pending reservations for a
	// customer, cascading to line items and unconfirmed payment rows.
	// Returns the number of reservations removed.  SUCCESS rows are never
	// touched.
	DeletePendingByCustomer(ctx context.Context, customerID uint64) (int64, error)

	// ListConfirmed returns SUCCESS reservations for a customer, newest
	// first, each with its ordered unit codes.
	ListConfirmed(ctx context.Context, customerID uint64) ([]model.Reservation, error)

	// BookedUnits returns the unit codes referenced by line items of every
	// SUCCESS reservation matching the key.
	BookedUnits(ctx context.Context, kind model.VenueKind, date, windowRef string) ([]string, error)

	// Confirm atomically transitions the reservation pending → success with
	// a conditional update, re-checks that none of its units are claimed by
	// another SUCCESS reservation, and inserts exactly one payment record.
	// The provided order reference must match the one stored on the
	// reservation (ErrValidation otherwise); ErrNotFound when the
	// reservation does not exist.  On ConfirmApplied and ConfirmAlreadyDone
	// the reservation is returned with its units loaded.
	Confirm(ctx context.Context, reservationID uint64, orderRef, paymentRef, currency string) (ConfirmOutcome, *model.Reservation, error)
}

// Catalog resolves immutable inventory definitions per venue kind.
type Catalog interface {
	Units(ctx context.Context, kind model.VenueKind) ([]model.Unit, error)
	Windows(ctx context.Context, kind model.VenueKind) ([]model.Window, error)
}

// Gateway creates orders with the external payment processor.  The returned
// order ID is opaque and stored verbatim on the reservation.
type Gateway interface {
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (string, error)
}
