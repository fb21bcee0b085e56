package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/muniyaraj/venue-booking/internal/model"
	"github.com/muniyaraj/venue-booking/internal/utils"
)

// Identity carries the customer fields supplied by the front end on a
// booking attempt.  Email is the customer key; Name is required on first
// contact, Phone is optional.
type Identity struct {
	Name  string
	Email string
	Phone string
}

// PaymentIntent describes how the customer completes payment after a
// reservation has been initiated: the opaque gateway order plus the public
// key id the front end needs to open the checkout.
type PaymentIntent struct {
	ReservationID uint64 `json:"reservation_id"`
	OrderRef      string `json:"order_ref"`
	KeyID         string `json:"key_id"`
	AmountMinor   int64  `json:"amount_minor"`
	Currency      string `json:"currency"`
}

// Initiate creates a pending reservation and a matching gateway order.
// Steps run strictly in order because each references identifiers produced
// by the previous one: customer resolution, reservation creation, gateway
// order creation.  If the gateway call fails the pending reservation is
// rolled back so no orphaned rows remain.
func (s *Service) Initiate(ctx context.Context, id Identity, kind model.VenueKind, date, windowRef string, units []string, amountMinor int64) (*PaymentIntent, error) {
	id.Email = strings.ToLower(strings.TrimSpace(id.Email))
	id.Name = strings.TrimSpace(id.Name)
	if id.Email == "" || id.Name == "" {
		return nil, fmt.Errorf("%w: name and email are required", ErrValidation)
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown venue kind %q", ErrValidation, kind)
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", ErrValidation, date)
	}
	if amountMinor <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	requested, err := s.normalizeUnits(ctx, kind, units)
	if err != nil {
		return nil, err
	}

	cust, err := s.store.ResolveCustomer(ctx, id.Name, id.Email, id.Phone)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve customer: %v", ErrDependency, err)
	}

	res := &model.Reservation{
		CustomerID:  cust.ID,
		VenueKind:   kind,
		Date:        date,
		WindowRef:   windowRef,
		AmountMinor: amountMinor,
		Status:      model.StatusPending,
		Units:       requested,
	}
	if err := s.store.CreatePending(ctx, res); err != nil {
		return nil, fmt.Errorf("%w: create reservation: %v", ErrDependency, err)
	}

	receipt := fmt.Sprintf("resv-%d-%s", res.ID, uuid.NewString()[:8])
	orderRef, err := s.gateway.CreateOrder(ctx, amountMinor, s.currency, receipt)
	if err != nil {
		// Deliberate rollback: a pending row without an order can never be
		// paid, so it must not linger.
		if delErr := s.store.DeleteReservation(ctx, res.ID); delErr != nil {
			return nil, fmt.Errorf("%w: gateway order failed (%v) and rollback failed: %v", ErrDependency, err, delErr)
		}
		return nil, fmt.Errorf("%w: create gateway order: %v", ErrDependency, err)
	}
	if err := s.store.SetOrderRef(ctx, res.ID, orderRef); err != nil {
		// Without the order ref on the row, verification can never match
		// it; the reservation is as unpayable as one with no order at all.
		if delErr := s.store.DeleteReservation(ctx, res.ID); delErr != nil {
			return nil, fmt.Errorf("%w: store order ref failed (%v) and rollback failed: %v", ErrDependency, err, delErr)
		}
		return nil, fmt.Errorf("%w: store order ref: %v", ErrDependency, err)
	}

	return &PaymentIntent{
		ReservationID: res.ID,
		OrderRef:      orderRef,
		KeyID:         s.keyID,
		AmountMinor:   amountMinor,
		Currency:      s.currency,
	}, nil
}

// normalizeUnits de-duplicates the requested unit codes preserving first
// occurrence and verifies every code exists in the venue's catalog.  An
// empty request or an unknown code is a validation error naming the
// offenders.
func (s *Service) normalizeUnits(ctx context.Context, kind model.VenueKind, units []string) ([]string, error) {
	seen := make(map[string]struct{}, len(units))
	cleaned := make([]string, 0, len(units))
	for _, u := range units {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		cleaned = append(cleaned, u)
	}
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("%w: at least one unit is required", ErrValidation)
	}
	catalogUnits, err := s.catalog.Units(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("%w: load catalog: %v", ErrDependency, err)
	}
	known := make(map[string]struct{}, len(catalogUnits))
	for _, u := range catalogUnits {
		known[u.Code] = struct{}{}
	}
	var unknown []string
	for _, u := range cleaned {
		if _, ok := known[u]; !ok {
			unknown = append(unknown, u)
		}
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("%w: unknown units %s", ErrValidation, strings.Join(unknown, ", "))
	}
	return cleaned, nil
}

// CancelPending deletes every pending reservation belonging to the customer
// with the given email, together with line items and unconfirmed payment
// rows.  SUCCESS reservations are never touched.  It reports whether
// anything was deleted, which makes repeated calls naturally idempotent.
func (s *Service) CancelPending(ctx context.Context, email string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false, fmt.Errorf("%w: email is required", ErrValidation)
	}
	cust, err := s.store.CustomerByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("%w: lookup customer: %v", ErrDependency, err)
	}
	n, err := s.store.DeletePendingByCustomer(ctx, cust.ID)
	if err != nil {
		return false, fmt.Errorf("%w: delete pending: %v", ErrDependency, err)
	}
	return n > 0, nil
}

// ListConfirmed returns the customer's SUCCESS reservations newest first,
// expanded with window labels and calendar deep-links.  An unknown email
// yields an empty list, not an error.
func (s *Service) ListConfirmed(ctx context.Context, email string) ([]model.ConfirmedBooking, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}
	cust, err := s.store.CustomerByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return []model.ConfirmedBooking{}, nil
		}
		return nil, fmt.Errorf("%w: lookup customer: %v", ErrDependency, err)
	}
	rows, err := s.store.ListConfirmed(ctx, cust.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: list reservations: %v", ErrDependency, err)
	}
	out := make([]model.ConfirmedBooking, 0, len(rows))
	for _, r := range rows {
		b := model.ConfirmedBooking{
			ID:          r.ID,
			VenueKind:   r.VenueKind,
			Date:        r.Date,
			WindowRef:   r.WindowRef,
			Units:       r.Units,
			AmountMinor: r.AmountMinor,
			OrderRef:    r.OrderRef,
			CreatedAt:   r.CreatedAt,
		}
		if start, end, label, ok := s.windowSpan(ctx, &r); ok {
			b.WindowLabel = label
			b.CalendarLink = utils.CalendarLink(s.eventTitle(r.VenueKind), r.Date, start, end, s.loc)
		}
		out = append(out, b)
	}
	return out, nil
}

// windowSpan resolves the display label and minute span of a reservation's
// time window: the showtime for the screen, or the range covered by the
// booked slots for the turf.
func (s *Service) windowSpan(ctx context.Context, r *model.Reservation) (start, end int, label string, ok bool) {
	switch r.VenueKind {
	case model.VenueScreen:
		windows, err := s.catalog.Windows(ctx, model.VenueScreen)
		if err != nil {
			return 0, 0, "", false
		}
		for _, w := range windows {
			if fmt.Sprintf("%d", w.ID) == r.WindowRef {
				return w.StartMinute, w.EndMinute, w.Label, true
			}
		}
	case model.VenueTurf:
		units, err := s.catalog.Units(ctx, model.VenueTurf)
		if err != nil {
			return 0, 0, "", false
		}
		booked := make(map[string]struct{}, len(r.Units))
		for _, c := range r.Units {
			booked[c] = struct{}{}
		}
		first := true
		for _, u := range units {
			if _, yes := booked[u.Code]; !yes {
				continue
			}
			if first || u.StartMinute < start {
				start = u.StartMinute
			}
			if first || u.EndMinute > end {
				end = u.EndMinute
			}
			if first {
				label = u.Label
				first = false
			}
		}
		if !first {
			return start, end, label, true
		}
	}
	return 0, 0, "", false
}

func (s *Service) eventTitle(kind model.VenueKind) string {
	if kind == model.VenueTurf {
		return "Turf Booking"
	}
	return "Movie Booking"
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
