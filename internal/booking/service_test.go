package booking

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/muniyaraj/venue-booking/internal/model"
	"github.com/muniyaraj/venue-booking/internal/queue"
)

// fakeStore is an in-memory Store used by the service tests.  It mirrors
// the transactional semantics of the SQL implementation closely enough to
// exercise the lifecycle: conditional confirmation, conflict re-check and
// exactly-one payment insert.
type fakeStore struct {
	mu           sync.Mutex
	nextID       uint64
	customers    map[string]model.Customer
	reservations map[uint64]*model.Reservation
	payments     []model.PaymentRecord

	createErr   error // injected failure for CreatePending
	orderRefErr error // injected failure for SetOrderRef
	deleted     []uint64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		customers:    make(map[string]model.Customer),
		reservations: make(map[uint64]*model.Reservation),
	}
}

func (f *fakeStore) ResolveCustomer(_ context.Context, name, email, phone string) (model.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.customers[email]; ok {
		return c, nil
	}
	f.nextID++
	c := model.Customer{ID: f.nextID, Name: name, Email: email, Phone: phone}
	f.customers[email] = c
	return c, nil
}

func (f *fakeStore) CustomerByEmail(_ context.Context, email string) (model.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.customers[email]; ok {
		return c, nil
	}
	return model.Customer{}, fmt.Errorf("customer %q: %w", email, ErrNotFound)
}

func (f *fakeStore) CreatePending(_ context.Context, res *model.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	res.ID = f.nextID
	res.CreatedAt = time.Now().UTC()
	cp := *res
	cp.Units = append([]string(nil), res.Units...)
	f.reservations[res.ID] = &cp
	return nil
}

func (f *fakeStore) SetOrderRef(_ context.Context, id uint64, orderRef string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.orderRefErr != nil {
		return f.orderRefErr
	}
	r, ok := f.reservations[id]
	if !ok {
		return fmt.Errorf("reservation %d: %w", id, ErrNotFound)
	}
	r.OrderRef = orderRef
	return nil
}

func (f *fakeStore) DeleteReservation(_ context.Context, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.reservations[id]; ok && r.Status == model.StatusPending {
		delete(f.reservations, id)
		f.deleted = append(f.deleted, id)
	}
	return nil
}

func (f *fakeStore) DeletePendingByCustomer(_ context.Context, customerID uint64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for id, r := range f.reservations {
		if r.CustomerID == customerID && r.Status == model.StatusPending {
			delete(f.reservations, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) ListConfirmed(_ context.Context, customerID uint64) ([]model.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Reservation
	for _, r := range f.reservations {
		if r.CustomerID == customerID && r.Status == model.StatusSuccess {
			cp := *r
			cp.Units = append([]string(nil), r.Units...)
			out = append(out, cp)
		}
	}
	// Same ordering as the SQL store: created_at DESC, id DESC.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (f *fakeStore) BookedUnits(_ context.Context, kind model.VenueKind, date, windowRef string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var codes []string
	for _, r := range f.reservations {
		if r.Status == model.StatusSuccess && r.VenueKind == kind && r.Date == date && r.WindowRef == windowRef {
			codes = append(codes, r.Units...)
		}
	}
	return codes, nil
}

func (f *fakeStore) Confirm(_ context.Context, id uint64, orderRef, paymentRef, currency string) (ConfirmOutcome, *model.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reservations[id]
	if !ok {
		return 0, nil, fmt.Errorf("reservation %d: %w", id, ErrNotFound)
	}
	if r.OrderRef != orderRef {
		return 0, nil, fmt.Errorf("order ref mismatch: %w", ErrValidation)
	}
	if r.Status == model.StatusSuccess {
		cp := *r
		return ConfirmAlreadyDone, &cp, nil
	}
	for _, other := range f.reservations {
		if other.ID == id || other.Status != model.StatusSuccess {
			continue
		}
		if other.VenueKind != r.VenueKind || other.Date != r.Date || other.WindowRef != r.WindowRef {
			continue
		}
		for _, u := range other.Units {
			for _, mine := range r.Units {
				if u == mine {
					return ConfirmConflict, nil, nil
				}
			}
		}
	}
	r.Status = model.StatusSuccess
	f.payments = append(f.payments, model.PaymentRecord{
		ID:            uint64(len(f.payments) + 1),
		ReservationID: id,
		OrderRef:      orderRef,
		PaymentRef:    paymentRef,
		AmountMinor:   r.AmountMinor,
		Currency:      currency,
		Status:        "captured",
		CreatedAt:     time.Now().UTC(),
	})
	cp := *r
	cp.Units = append([]string(nil), r.Units...)
	return ConfirmApplied, &cp, nil
}

// fakeCatalog serves fixed units and windows per venue kind.
type fakeCatalog struct {
	units   map[model.VenueKind][]model.Unit
	windows []model.Window
}

func (f *fakeCatalog) Units(_ context.Context, kind model.VenueKind) ([]model.Unit, error) {
	return f.units[kind], nil
}

func (f *fakeCatalog) Windows(_ context.Context, kind model.VenueKind) ([]model.Window, error) {
	if kind != model.VenueScreen {
		return nil, nil
	}
	return f.windows, nil
}

// fakeGateway returns a canned order ref or a canned error.
type fakeGateway struct {
	orderRef string
	err      error
	calls    int
}

func (f *fakeGateway) CreateOrder(context.Context, int64, string, string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.orderRef, nil
}

const testSecret = "test-webhook-secret"

var testZone = time.FixedZone("IST", (5*60+30)*60)

func seatCatalog(codes ...string) *fakeCatalog {
	units := make([]model.Unit, 0, len(codes))
	for _, c := range codes {
		units = append(units, model.Unit{Code: c, Label: c})
	}
	return &fakeCatalog{
		units: map[model.VenueKind][]model.Unit{model.VenueScreen: units},
		windows: []model.Window{
			{ID: 1, Label: "07:00 PM - 08:00 PM", StartMinute: 19 * 60, EndMinute: 20 * 60},
			{ID: 2, Label: "09:30 PM - 10:30 PM", StartMinute: 21*60 + 30, EndMinute: 22*60 + 30},
		},
	}
}

func newTestService(store Store, cat Catalog, gw Gateway, publish ConfirmedPublisher) *Service {
	return New(store, cat, gw, testSecret, "key_test", "INR", testZone, publish)
}

// capturePublisher records every event it is handed.
type capturePublisher struct {
	mu     sync.Mutex
	events []queue.BookingConfirmedEvent
	err    error
}

func (p *capturePublisher) publish(_ context.Context, ev queue.BookingConfirmedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}
