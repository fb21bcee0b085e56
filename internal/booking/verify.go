package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/muniyaraj/venue-booking/internal/gateway"
	"github.com/muniyaraj/venue-booking/internal/model"
	"github.com/muniyaraj/venue-booking/internal/queue"
)

// VerifyRequest is a payment callback as delivered by the gateway or
// relayed by the front end after checkout.
type VerifyRequest struct {
	OrderRef      string
	PaymentRef    string
	Signature     string
	ReservationID uint64
}

// VerifyResult reports whether the callback was accepted.
type VerifyResult struct {
	Verified bool
}

// Verify authenticates a payment callback and finalizes the reservation
// exactly once.
//
// The signature is an HMAC-SHA256 over "orderRef|paymentRef" keyed with the
// gateway secret and is compared in constant time.  On mismatch nothing is
// mutated.  On match the confirmation is atomic: a conditional pending →
// success transition guards the payment-record insert, so redelivered
// callbacks observe the SUCCESS state and return verified without writing a
// duplicate audit row.  If another SUCCESS reservation claimed one of the
// units first, ErrConflict is returned, the reservation stays pending and
// the caller owes the customer a refund or cancellation.
func (s *Service) Verify(ctx context.Context, req VerifyRequest) (VerifyResult, error) {
	if req.OrderRef == "" || req.PaymentRef == "" || req.Signature == "" || req.ReservationID == 0 {
		return VerifyResult{}, fmt.Errorf("%w: order ref, payment ref, signature and reservation id are required", ErrValidation)
	}
	if !gateway.VerifySignature(s.secret, req.OrderRef, req.PaymentRef, req.Signature) {
		log.Printf("payment-verify: signature mismatch for reservation %d order %s (possible tampering)", req.ReservationID, req.OrderRef)
		return VerifyResult{Verified: false}, ErrBadSignature
	}

	outcome, res, err := s.store.Confirm(ctx, req.ReservationID, req.OrderRef, req.PaymentRef, s.currency)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrValidation) {
			return VerifyResult{Verified: false}, err
		}
		return VerifyResult{Verified: false}, fmt.Errorf("%w: confirm reservation: %v", ErrDependency, err)
	}
	switch outcome {
	case ConfirmConflict:
		return VerifyResult{Verified: false}, fmt.Errorf("%w: unit already claimed by another confirmed booking; refund required", ErrConflict)
	case ConfirmAlreadyDone:
		return VerifyResult{Verified: true}, nil
	}

	s.publishConfirmed(ctx, res, req.PaymentRef)
	return VerifyResult{Verified: true}, nil
}

// publishConfirmed emits a booking.confirmed event for downstream consumers.
// Failures are logged and ignored so the request flow is never interrupted.
func (s *Service) publishConfirmed(ctx context.Context, res *model.Reservation, paymentRef string) {
	if s.publish == nil || res == nil {
		return
	}
	ev := queue.BookingConfirmedEvent{
		ReservationID: res.ID,
		VenueKind:     string(res.VenueKind),
		Date:          res.Date,
		WindowRef:     res.WindowRef,
		Units:         res.Units,
		AmountMinor:   res.AmountMinor,
		Currency:      s.currency,
		OrderRef:      res.OrderRef,
		PaymentRef:    paymentRef,
		ConfirmedAt:   s.now().UTC().Format(time.RFC3339),
	}
	if err := s.publish(ctx, ev); err != nil {
		log.Printf("payment-verify: publish booking.confirmed failed: %v", err)
	}
}
