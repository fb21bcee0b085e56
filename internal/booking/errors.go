// Package booking implements the reservation engine: availability
// computation, the pending → success booking lifecycle, and idempotent
// payment verification.  It is persistence-agnostic; the Store interface is
// implemented by the repository package and by in-memory fakes in tests.
package booking

import "errors"

// ErrValidation is returned for malformed caller input: missing fields, an
// empty unit list, an unknown unit code or a bad date.  Handlers should
// translate this into an HTTP 400 response.
var ErrValidation = errors.New("validation failed")

// ErrConflict is returned when a unit has already been claimed by another
// SUCCESS reservation at confirmation time.  The reservation stays pending
// and the caller owes the customer a refund or cancellation.  Handlers
// should translate this into an HTTP 409 response.
var ErrConflict = errors.New("booking conflict")

// ErrNotFound is returned when a referenced reservation does not exist.
// It is never silently treated as success.
var ErrNotFound = errors.New("not found")

// ErrDependency is returned when the persistence store or the payment
// gateway is unavailable.  The failure is retryable from the caller's point
// of view and must be logged with context, never swallowed.
var ErrDependency = errors.New("dependency unavailable")

// ErrBadSignature is returned when a payment callback's signature does not
// match the recomputed HMAC.  No state is mutated; the attempt is logged as
// potential tampering.
var ErrBadSignature = errors.New("signature mismatch")
