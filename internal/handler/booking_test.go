package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muniyaraj/venue-booking/internal/booking"
	"github.com/muniyaraj/venue-booking/internal/gateway"
	"github.com/muniyaraj/venue-booking/internal/model"
)

const handlerTestSecret = "handler-test-secret"

// memStore is a minimal in-memory booking.Store for handler tests.
type memStore struct {
	nextID       uint64
	customers    map[string]model.Customer
	reservations map[uint64]*model.Reservation
	payments     int
}

func newMemStore() *memStore {
	return &memStore{
		customers:    make(map[string]model.Customer),
		reservations: make(map[uint64]*model.Reservation),
	}
}

func (m *memStore) ResolveCustomer(_ context.Context, name, email, phone string) (model.Customer, error) {
	if c, ok := m.customers[email]; ok {
		return c, nil
	}
	m.nextID++
	c := model.Customer{ID: m.nextID, Name: name, Email: email, Phone: phone}
	m.customers[email] = c
	return c, nil
}

func (m *memStore) CustomerByEmail(_ context.Context, email string) (model.Customer, error) {
	if c, ok := m.customers[email]; ok {
		return c, nil
	}
	return model.Customer{}, fmt.Errorf("customer: %w", booking.ErrNotFound)
}

func (m *memStore) CreatePending(_ context.Context, res *model.Reservation) error {
	m.nextID++
	res.ID = m.nextID
	res.CreatedAt = time.Now().UTC()
	cp := *res
	m.reservations[res.ID] = &cp
	return nil
}

func (m *memStore) SetOrderRef(_ context.Context, id uint64, ref string) error {
	m.reservations[id].OrderRef = ref
	return nil
}

func (m *memStore) DeleteReservation(_ context.Context, id uint64) error {
	delete(m.reservations, id)
	return nil
}

func (m *memStore) DeletePendingByCustomer(_ context.Context, customerID uint64) (int64, error) {
	var n int64
	for id, r := range m.reservations {
		if r.CustomerID == customerID && r.Status == model.StatusPending {
			delete(m.reservations, id)
			n++
		}
	}
	return n, nil
}

func (m *memStore) ListConfirmed(_ context.Context, customerID uint64) ([]model.Reservation, error) {
	var out []model.Reservation
	for _, r := range m.reservations {
		if r.CustomerID == customerID && r.Status == model.StatusSuccess {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *memStore) BookedUnits(_ context.Context, kind model.VenueKind, date, windowRef string) ([]string, error) {
	var codes []string
	for _, r := range m.reservations {
		if r.Status == model.StatusSuccess && r.VenueKind == kind && r.Date == date && r.WindowRef == windowRef {
			codes = append(codes, r.Units...)
		}
	}
	return codes, nil
}

func (m *memStore) Confirm(_ context.Context, id uint64, orderRef, paymentRef, currency string) (booking.ConfirmOutcome, *model.Reservation, error) {
	r, ok := m.reservations[id]
	if !ok {
		return 0, nil, fmt.Errorf("reservation: %w", booking.ErrNotFound)
	}
	if r.Status == model.StatusSuccess {
		return booking.ConfirmAlreadyDone, r, nil
	}
	r.Status = model.StatusSuccess
	m.payments++
	return booking.ConfirmApplied, r, nil
}

type memCatalog struct{ units []model.Unit }

func (m memCatalog) Units(_ context.Context, kind model.VenueKind) ([]model.Unit, error) {
	return m.units, nil
}

func (m memCatalog) Windows(_ context.Context, kind model.VenueKind) ([]model.Window, error) {
	if kind != model.VenueScreen {
		return nil, nil
	}
	return []model.Window{{ID: 1, Label: "07:00 PM - 08:00 PM", StartMinute: 1140, EndMinute: 1200}}, nil
}

type memGateway struct{}

func (memGateway) CreateOrder(context.Context, int64, string, string) (string, error) {
	return "order_test", nil
}

func newTestHandler(store *memStore) *BookingHandler {
	cat := memCatalog{units: []model.Unit{
		{Code: "A1", Label: "A1"}, {Code: "A2", Label: "A2"},
	}}
	svc := booking.New(store, cat, memGateway{}, handlerTestSecret, "key_test", "INR", time.UTC, nil)
	return NewBookingHandler(svc)
}

func doJSON(t *testing.T, h echo.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))
	return rec
}

func TestInitiateEndpoint(t *testing.T) {
	store := newMemStore()
	h := newTestHandler(store)

	rec := doJSON(t, h.Initiate, http.MethodPost, "/v1/bookings",
		`{"name":"Muni","email":"m@x.com","venue_kind":"screen","date":"2026-09-01","window_ref":"1","units":["A1","A2"],"amount":25000}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	var intent booking.PaymentIntent
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &intent))
	assert.Equal(t, "order_test", intent.OrderRef)
	assert.Equal(t, "key_test", intent.KeyID)
	assert.NotZero(t, intent.ReservationID)
}

func TestInitiateEndpointRejectsUnitsAsString(t *testing.T) {
	h := newTestHandler(newMemStore())
	rec := doJSON(t, h.Initiate, http.MethodPost, "/v1/bookings",
		`{"name":"Muni","email":"m@x.com","venue_kind":"screen","date":"2026-09-01","units":"A1,A2","amount":100}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "JSON array")
}

func TestInitiateEndpointValidation(t *testing.T) {
	h := newTestHandler(newMemStore())
	rec := doJSON(t, h.Initiate, http.MethodPost, "/v1/bookings",
		`{"name":"Muni","email":"m@x.com","venue_kind":"screen","date":"2026-09-01","units":["Z9"],"amount":100}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "validation")
}

func TestAvailabilityEndpoint(t *testing.T) {
	store := newMemStore()
	store.reservations[77] = &model.Reservation{
		ID: 77, CustomerID: 9, VenueKind: model.VenueScreen,
		Date: "2026-09-01", WindowRef: "1", Status: model.StatusSuccess,
		Units: []string{"A1"},
	}
	h := newTestHandler(store)

	rec := doJSON(t, h.Availability, http.MethodPost, "/v1/availability",
		`{"venue_kind":"screen","date":"2026-09-01","window_ref":"1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var out booking.AvailabilityResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out.Available, 1)
	assert.Equal(t, "A2", out.Available[0].Code)
	require.Len(t, out.Booked, 1)
	assert.Equal(t, "A1", out.Booked[0].Code)
}

func TestUnitsEndpointUnknownKind(t *testing.T) {
	h := newTestHandler(newMemStore())
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/venues/pool/units", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("kind")
	c.SetParamValues("pool")
	require.NoError(t, h.Units(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCancelPendingEndpoint(t *testing.T) {
	store := newMemStore()
	h := newTestHandler(store)

	doJSON(t, h.Initiate, http.MethodPost, "/v1/bookings",
		`{"name":"Muni","email":"m@x.com","venue_kind":"screen","date":"2026-09-01","window_ref":"1","units":["A1"],"amount":100}`)

	rec := doJSON(t, h.CancelPending, http.MethodDelete, "/v1/bookings/pending", `{"email":"m@x.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"deleted":true}`, rec.Body.String())

	rec = doJSON(t, h.CancelPending, http.MethodDelete, "/v1/bookings/pending", `{"email":"m@x.com"}`)
	assert.JSONEq(t, `{"deleted":false}`, rec.Body.String())
}

func TestListConfirmedEndpointUnknownEmail(t *testing.T) {
	h := newTestHandler(newMemStore())
	rec := doJSON(t, h.ListConfirmed, http.MethodGet, "/v1/bookings?email=nobody@x.com", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[]}`, rec.Body.String())
}

func TestVerifyEndpoint(t *testing.T) {
	store := newMemStore()
	h := newTestHandler(store)

	doJSON(t, h.Initiate, http.MethodPost, "/v1/bookings",
		`{"name":"Muni","email":"m@x.com","venue_kind":"screen","date":"2026-09-01","window_ref":"1","units":["A1"],"amount":100}`)

	var resID uint64
	for id := range store.reservations {
		resID = id
	}
	sig := gateway.Sign(handlerTestSecret, "order_test", "pay_1")

	body := fmt.Sprintf(`{"gateway_order_ref":"order_test","gateway_payment_ref":"pay_1","gateway_signature":"%s","reservation_id":%d}`, sig, resID)
	rec := doJSON(t, h.Verify, http.MethodPost, "/v1/payments/verify", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"verified":true}`, rec.Body.String())
	assert.Equal(t, 1, store.payments)
}

func TestVerifyEndpointBadSignature(t *testing.T) {
	store := newMemStore()
	h := newTestHandler(store)

	doJSON(t, h.Initiate, http.MethodPost, "/v1/bookings",
		`{"name":"Muni","email":"m@x.com","venue_kind":"screen","date":"2026-09-01","window_ref":"1","units":["A1"],"amount":100}`)
	var resID uint64
	for id := range store.reservations {
		resID = id
	}

	body := fmt.Sprintf(`{"gateway_order_ref":"order_test","gateway_payment_ref":"pay_1","gateway_signature":"deadbeef","reservation_id":%d}`, resID)
	rec := doJSON(t, h.Verify, http.MethodPost, "/v1/payments/verify", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"verified":false`)
	assert.Equal(t, 0, store.payments)
}

func TestVerifyEndpointUnknownReservation(t *testing.T) {
	h := newTestHandler(newMemStore())
	sig := gateway.Sign(handlerTestSecret, "order_x", "pay_x")
	body := fmt.Sprintf(`{"gateway_order_ref":"order_x","gateway_payment_ref":"pay_x","gateway_signature":"%s","reservation_id":404}`, sig)
	rec := doJSON(t, h.Verify, http.MethodPost, "/v1/payments/verify", body)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	rec := doJSON(t, Health, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
