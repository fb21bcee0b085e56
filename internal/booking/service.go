package booking

import (
	"context"
	"time"

	"github.com/muniyaraj/venue-booking/internal/queue"
)

// ConfirmedPublisher delivers a booking-confirmed event to the message
// broker.  Publish failures must not fail the request; the service logs and
// ignores them.
type ConfirmedPublisher func(ctx context.Context, ev queue.BookingConfirmedEvent) error

// Service orchestrates the reservation lifecycle over a Store, a Catalog and
// a payment Gateway.  All dependencies are injected at construction; the
// service holds no global state.
type Service struct {
	store    Store
	catalog  Catalog
	gateway  Gateway
	publish  ConfirmedPublisher
	secret   string         // gateway webhook/signature secret
	keyID    string         // gateway public key id handed to clients
	currency string         // e.g. "INR"
	loc      *time.Location // business civil timezone, never the host zone
	now      func() time.Time
}

// New constructs a Service.  loc is the fixed civil timezone the business
// operates in; "today" and "current time" comparisons are computed in it
// because date boundaries differ by zone.  publish may be nil to disable
// confirmation events.
func New(store Store, cat Catalog, gw Gateway, secret, keyID, currency string, loc *time.Location, publish ConfirmedPublisher) *Service {
	if store == nil || cat == nil || gw == nil {
		panic("nil dependency passed to booking.New")
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		store:    store,
		catalog:  cat,
		gateway:  gw,
		publish:  publish,
		secret:   secret,
		keyID:    keyID,
		currency: currency,
		loc:      loc,
		now:      time.Now,
	}
}

// WithClock overrides the service clock.  Tests use it to pin "now".
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}
