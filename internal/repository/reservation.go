package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/muniyaraj/venue-booking/internal/booking"
	"github.com/muniyaraj/venue-booking/internal/model"
)

// CreatePending inserts a reservation in pending state together with its
// line items inside one transaction, then reads the row back to populate the
// generated ID and timestamps.
func (s *Store) CreatePending(ctx context.Context, res *model.Reservation) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO reservations (customer_id, venue_kind, date, window_ref, amount_minor, status)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		res.CustomerID, res.VenueKind, res.Date, res.WindowRef, res.AmountMinor, model.StatusPending)
	if err != nil {
		return fmt.Errorf("insert reservation: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	res.ID = uint64(id)
	res.Status = model.StatusPending

	if len(res.Units) > 0 {
		q := `INSERT INTO reservation_units (reservation_id, unit_code) VALUES `
		args := make([]interface{}, 0, len(res.Units)*2)
		for i, u := range res.Units {
			if i > 0 {
				q += ","
			}
			q += "(?, ?)"
			args = append(args, res.ID, u)
		}
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("insert line items: %w", err)
		}
	}

	if err := tx.QueryRowContext(ctx,
		`SELECT created_at FROM reservations WHERE id = ?`, res.ID).Scan(&res.CreatedAt); err != nil {
		return fmt.Errorf("read back reservation: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
	return nil
}

// SetOrderRef stores the gateway order reference issued for a reservation.
func (s *Store) SetOrderRef(ctx context.Context, reservationID uint64, orderRef string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE reservations SET gateway_order_ref = ? WHERE id = ?`, orderRef, reservationID)
	if err != nil {
		return fmt.Errorf("set order ref: %w", err)
	}
	return nil
}

// DeleteReservation removes a reservation while it is still pending.  Line
// items go with it via the ON DELETE CASCADE foreign key.  Deleting a
// SUCCESS reservation is refused silently by the status guard.
func (s *Store) DeleteReservation(ctx context.Context, reservationID uint64) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM reservations WHERE id = ? AND status = ?`, reservationID, model.StatusPending)
	if err != nil {
		return fmt.Errorf("delete reservation: %w", err)
	}
	return nil
}

// DeletePendingByCustomer removes all pending reservations for the customer
// in one transaction: unconfirmed payment rows first, then the reservations
// themselves (line items cascade).  Returns the number of reservations
// deleted; SUCCESS rows are never matched by the status guard.
func (s *Store) DeletePendingByCustomer(ctx context.Context, customerID uint64) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx,
		`DELETE p FROM payments p
		 JOIN reservations r ON r.id = p.reservation_id
		 WHERE r.customer_id = ? AND r.status = ?`,
		customerID, model.StatusPending); err != nil {
		return 0, fmt.Errorf("delete unconfirmed payments: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		`DELETE FROM reservations WHERE customer_id = ? AND status = ?`,
		customerID, model.StatusPending)
	if err != nil {
		return 0, fmt.Errorf("delete pending reservations: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	committed = true
	return n, nil
}

// BookedUnits returns the unit codes held by line items of every SUCCESS
// reservation for the (venue, date, window) key, in insertion order.
func (s *Store) BookedUnits(ctx context.Context, kind model.VenueKind, date, windowRef string) ([]string, error) {
	const q = `SELECT ru.unit_code
	           FROM reservation_units ru
	           JOIN reservations r ON r.id = ru.reservation_id
	           WHERE r.venue_kind = ? AND r.date = ? AND r.window_ref = ? AND r.status = ?
	           ORDER BY ru.id`
	rows, err := s.db.QueryContext(ctx, q, kind, date, windowRef, model.StatusSuccess)
	if err != nil {
		return nil, fmt.Errorf("select booked units: %w", err)
	}
	defer rows.Close()
	codes := make([]string, 0)
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan unit code: %w", err)
		}
		codes = append(codes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate units: %w", err)
	}
	return codes, nil
}

// ListConfirmed returns SUCCESS reservations for a customer ordered newest
// first, each populated with its unit codes.  Units for all reservations
// are fetched in a single parameterized IN query.
func (s *Store) ListConfirmed(ctx context.Context, customerID uint64) ([]model.Reservation, error) {
	const q = `SELECT id, customer_id, venue_kind, DATE_FORMAT(date, '%Y-%m-%d'), window_ref,
	                  amount_minor, status, COALESCE(gateway_order_ref, ''), created_at
	           FROM reservations
	           WHERE customer_id = ? AND status = ?
	           ORDER BY created_at DESC, id DESC`
	rows, err := s.db.QueryContext(ctx, q, customerID, model.StatusSuccess)
	if err != nil {
		return nil, fmt.Errorf("select reservations: %w", err)
	}
	defer rows.Close()

	out := make([]model.Reservation, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var r model.Reservation
		if err := rows.Scan(&r.ID, &r.CustomerID, &r.VenueKind, &r.Date, &r.WindowRef,
			&r.AmountMinor, &r.Status, &r.OrderRef, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		r.Units = []string{}
		index[r.ID] = len(out)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reservations: %w", err)
	}
	if len(out) == 0 {
		return out, nil
	}

	ids := make([]interface{}, 0, len(out))
	for _, r := range out {
		ids = append(ids, r.ID)
	}
	unitQ := `SELECT reservation_id, unit_code FROM reservation_units
	          WHERE reservation_id IN (` + placeholders(len(ids)) + `) ORDER BY reservation_id, id`
	urows, err := s.db.QueryContext(ctx, unitQ, ids...)
	if err != nil {
		return nil, fmt.Errorf("select line items: %w", err)
	}
	defer urows.Close()
	for urows.Next() {
		var rid uint64
		var code string
		if err := urows.Scan(&rid, &code); err != nil {
			return nil, fmt.Errorf("scan line item: %w", err)
		}
		if i, ok := index[rid]; ok {
			out[i].Units = append(out[i].Units, code)
		}
	}
	if err := urows.Err(); err != nil {
		return nil, fmt.Errorf("iterate line items: %w", err)
	}
	return out, nil
}

// Confirm finalizes a reservation exactly once.  Inside a single
// transaction it locks the row, verifies the order reference, re-checks that
// no other SUCCESS reservation claims any of the units, performs the
// conditional pending → success update and inserts one payment audit row.
func (s *Store) Confirm(ctx context.Context, reservationID uint64, orderRef, paymentRef, currency string) (booking.ConfirmOutcome, *model.Reservation, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("begin: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var r model.Reservation
	err = tx.QueryRowContext(ctx,
		`SELECT id, customer_id, venue_kind, DATE_FORMAT(date, '%Y-%m-%d'), window_ref,
		        amount_minor, status, COALESCE(gateway_order_ref, ''), created_at
		 FROM reservations WHERE id = ? FOR UPDATE`,
		reservationID).Scan(&r.ID, &r.CustomerID, &r.VenueKind, &r.Date, &r.WindowRef,
		&r.AmountMinor, &r.Status, &r.OrderRef, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil, fmt.Errorf("%w: reservation %d", booking.ErrNotFound, reservationID)
	}
	if err != nil {
		return 0, nil, fmt.Errorf("select reservation: %w", err)
	}
	if r.OrderRef != orderRef {
		return 0, nil, fmt.Errorf("%w: order reference does not match reservation", booking.ErrValidation)
	}

	r.Units, err = unitsTx(ctx, tx, r.ID)
	if err != nil {
		return 0, nil, err
	}

	if r.Status == model.StatusSuccess {
		// Redelivered callback: state already terminal, no second audit row.
		if err := tx.Commit(); err != nil {
			return 0, nil, fmt.Errorf("commit: %w", err)
		}
		committed = true
		return booking.ConfirmAlreadyDone, &r, nil
	}

	// A pending reservation is a soft hold, so a competing booking may have
	// reached SUCCESS first.  Re-validate before the transition.
	if len(r.Units) > 0 {
		args := make([]interface{}, 0, len(r.Units)+5)
		args = append(args, r.VenueKind, r.Date, r.WindowRef, model.StatusSuccess, r.ID)
		for _, u := range r.Units {
			args = append(args, u)
		}
		var clashes int
		err = tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM reservation_units ru
			 JOIN reservations r ON r.id = ru.reservation_id
			 WHERE r.venue_kind = ? AND r.date = ? AND r.window_ref = ? AND r.status = ?
			   AND r.id <> ? AND ru.unit_code IN (`+placeholders(len(r.Units))+`)`,
			args...).Scan(&clashes)
		if err != nil {
			return 0, nil, fmt.Errorf("conflict check: %w", err)
		}
		if clashes > 0 {
			// Leave the reservation pending; the caller owes a refund.
			return booking.ConfirmConflict, nil, nil
		}
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE reservations SET status = ? WHERE id = ? AND status = ?`,
		model.StatusSuccess, r.ID, model.StatusPending)
	if err != nil {
		return 0, nil, fmt.Errorf("update status: %w", err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return 0, nil, fmt.Errorf("rows affected: %w", err)
	} else if n == 0 {
		// Lost the conditional update despite the row lock; treat as an
		// already-confirmed redelivery.
		if err := tx.Commit(); err != nil {
			return 0, nil, fmt.Errorf("commit: %w", err)
		}
		committed = true
		return booking.ConfirmAlreadyDone, &r, nil
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO payments (reservation_id, gateway_order_ref, gateway_payment_ref, amount_minor, currency, status)
		 VALUES (?, ?, ?, ?, ?, 'captured')`,
		r.ID, orderRef, paymentRef, r.AmountMinor, currency); err != nil {
		return 0, nil, fmt.Errorf("insert payment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, nil, fmt.Errorf("commit: %w", err)
	}
	committed = true
	r.Status = model.StatusSuccess
	return booking.ConfirmApplied, &r, nil
}

// unitsTx loads a reservation's line-item codes within a transaction.
func unitsTx(ctx context.Context, tx *sql.Tx, reservationID uint64) ([]string, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT unit_code FROM reservation_units WHERE reservation_id = ? ORDER BY id`, reservationID)
	if err != nil {
		return nil, fmt.Errorf("select line items: %w", err)
	}
	defer rows.Close()
	units := make([]string, 0)
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan line item: %w", err)
		}
		units = append(units, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate line items: %w", err)
	}
	return units, nil
}
