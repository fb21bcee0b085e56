package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/muniyaraj/venue-booking/internal/booking"
	"github.com/muniyaraj/venue-booking/internal/model"
)

// Store is the MySQL-backed implementation of booking.Store.  It owns no
// connection state of its own; the *sql.DB is injected at construction and
// closed by the caller at shutdown.
type Store struct {
	db *sql.DB
}

// NewStore returns a Store bound to the given database handle.
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// DB exposes the underlying handle for liveness pings.
func (s *Store) DB() *sql.DB { return s.db }

// ResolveCustomer fetches the customer with the given email, creating the
// row on first contact.  A concurrent insert racing on the unique email
// constraint surfaces as a duplicate-key error, which is resolved by
// re-fetching the winner rather than failing the request.
func (s *Store) ResolveCustomer(ctx context.Context, name, email, phone string) (model.Customer, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if c, err := s.CustomerByEmail(ctx, email); err == nil {
		return c, nil
	} else if !errors.Is(err, booking.ErrNotFound) {
		return model.Customer{}, err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO customers (name, email, phone) VALUES (?, ?, ?)`,
		name, email, phone)
	if err != nil && !isDuplicateKey(err) {
		return model.Customer{}, fmt.Errorf("insert customer: %w", err)
	}
	// Re-fetch unconditionally: either we inserted the row or a concurrent
	// request did.
	return s.CustomerByEmail(ctx, email)
}

// CustomerByEmail fetches a customer by normalized email.  Returns
// booking.ErrNotFound when no such customer exists.
func (s *Store) CustomerByEmail(ctx context.Context, email string) (model.Customer, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var c model.Customer
	var phone sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, phone FROM customers WHERE email = ? LIMIT 1`,
		email).Scan(&c.ID, &c.Name, &c.Email, &phone)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Customer{}, fmt.Errorf("%w: customer %s", booking.ErrNotFound, email)
	}
	if err != nil {
		return model.Customer{}, fmt.Errorf("select customer: %w", err)
	}
	if phone.Valid {
		c.Phone = phone.String
	}
	return c, nil
}

// placeholders returns a comma-joined list of n `?` markers for IN clauses.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
