package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/muniyaraj/venue-booking/internal/booking"
	"github.com/muniyaraj/venue-booking/internal/model"
)

// BookingHandler exposes the reservation engine over HTTP: availability
// reads, booking initiation, pending cancellation, confirmed listing and
// payment verification.  All business rules live in the booking service;
// the handler only binds, validates shape and maps errors to status codes.
type BookingHandler struct {
	Svc *booking.Service
}

// NewBookingHandler constructs a BookingHandler.  The service must be
// non-nil.
func NewBookingHandler(svc *booking.Service) *BookingHandler {
	if svc == nil {
		panic("nil service passed to NewBookingHandler")
	}
	return &BookingHandler{Svc: svc}
}

// ----- DTOs -----

type availabilityReq struct {
	VenueKind string `json:"venue_kind"`
	Date      string `json:"date"`
	WindowRef string `json:"window_ref"`
}

type showtimesReq struct {
	Date string `json:"date"`
}

type initiateReq struct {
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone"`
	VenueKind string   `json:"venue_kind"`
	Date      string   `json:"date"`
	WindowRef string   `json:"window_ref"`
	Units     []string `json:"units"` // must be a JSON array, never a joined string
	Amount    int64    `json:"amount"` // minor units
}

type cancelReq struct {
	Email string `json:"email"`
}

type verifyReq struct {
	OrderRef      string `json:"gateway_order_ref"`
	PaymentRef    string `json:"gateway_payment_ref"`
	Signature     string `json:"gateway_signature"`
	ReservationID uint64 `json:"reservation_id"`
}

// Availability handles POST /v1/availability.  It returns the free and
// booked unit partition for a (venue, date, window) key.
func (h *BookingHandler) Availability(c echo.Context) error {
	var req availabilityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	res, err := h.Svc.Availability(c.Request().Context(), model.VenueKind(req.VenueKind), req.Date, req.WindowRef)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// Units handles GET /v1/venues/:kind/units.  It returns the venue's full
// ordered catalog.
func (h *BookingHandler) Units(c echo.Context) error {
	kind := model.VenueKind(c.Param("kind"))
	if !kind.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown venue kind"})
	}
	units, err := h.Svc.Units(c.Request().Context(), kind)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"units": units})
}

// Showtimes handles POST /v1/showtimes.  For today it filters out windows
// whose join-grace period has passed; other dates return every window.
func (h *BookingHandler) Showtimes(c echo.Context) error {
	var req showtimesReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	windows, err := h.Svc.ShowtimeWindows(c.Request().Context(), req.Date)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"showtimes": windows})
}

// Initiate handles POST /v1/bookings.  On success the response carries the
// gateway order reference and public key id the front end needs to open
// checkout.
func (h *BookingHandler) Initiate(c echo.Context) error {
	var req initiateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body; units must be a JSON array"})
	}
	intent, err := h.Svc.Initiate(c.Request().Context(),
		booking.Identity{Name: req.Name, Email: req.Email, Phone: req.Phone},
		model.VenueKind(req.VenueKind), req.Date, req.WindowRef, req.Units, req.Amount)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusCreated, intent)
}

// CancelPending handles DELETE /v1/bookings/pending.  It removes every
// pending reservation for the customer and reports whether anything was
// deleted.
func (h *BookingHandler) CancelPending(c echo.Context) error {
	var req cancelReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	deleted, err := h.Svc.CancelPending(c.Request().Context(), req.Email)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": deleted})
}

// ListConfirmed handles GET /v1/bookings?email=...  It returns the
// customer's confirmed bookings newest first; an unknown email yields an
// empty list.
func (h *BookingHandler) ListConfirmed(c echo.Context) error {
	email := c.QueryParam("email")
	items, err := h.Svc.ListConfirmed(c.Request().Context(), email)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Verify handles POST /v1/payments/verify.  A tampered signature yields
// verified=false with no state change; a redelivered callback yields
// verified=true without duplicating the payment record.
func (h *BookingHandler) Verify(c echo.Context) error {
	var req verifyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	res, err := h.Svc.Verify(c.Request().Context(), booking.VerifyRequest{
		OrderRef:      req.OrderRef,
		PaymentRef:    req.PaymentRef,
		Signature:     req.Signature,
		ReservationID: req.ReservationID,
	})
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrBadSignature):
			return c.JSON(http.StatusOK, echo.Map{"verified": false, "error": "signature mismatch"})
		case errors.Is(err, booking.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"verified": false, "error": "unit already claimed; refund required"})
		case errors.Is(err, booking.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"verified": false, "error": "reservation not found"})
		case errors.Is(err, booking.ErrValidation):
			return c.JSON(http.StatusBadRequest, echo.Map{"verified": false, "error": err.Error()})
		default:
			return c.JSON(http.StatusBadGateway, echo.Map{"verified": false, "error": "verification unavailable"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"verified": res.Verified})
}

// bookingError translates booking sentinel errors into HTTP responses with
// a stable error kind and a human-readable message.
func bookingError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, booking.ErrValidation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error(), "kind": "validation"})
	case errors.Is(err, booking.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error(), "kind": "not_found"})
	case errors.Is(err, booking.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error(), "kind": "conflict"})
	default:
		// Dependency failures are retryable from the caller's side.
		c.Logger().Errorf("booking dependency failure: %v", err)
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "service temporarily unavailable", "kind": "dependency"})
	}
}
