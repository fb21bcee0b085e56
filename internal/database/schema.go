package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema holds the CREATE TABLE statements for the booking tables, applied
// in dependency order at startup.  Reservations own their line items
// (cascade delete while pending); customers are referenced, never owned.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS customers (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		email VARCHAR(100) NOT NULL UNIQUE,
		phone VARCHAR(20) NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS showtimes (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		label VARCHAR(40) NOT NULL,
		start_minute INT NOT NULL,
		end_minute INT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS slots (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		label VARCHAR(40) NOT NULL,
		start_minute INT NOT NULL,
		end_minute INT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS reservations (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		customer_id BIGINT UNSIGNED NOT NULL,
		venue_kind VARCHAR(10) NOT NULL,
		date DATE NOT NULL,
		window_ref VARCHAR(20) NOT NULL DEFAULT '',
		amount_minor BIGINT NOT NULL,
		status VARCHAR(10) NOT NULL DEFAULT 'pending',
		gateway_order_ref VARCHAR(100) NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (customer_id) REFERENCES customers(id),
		INDEX idx_reservations_key (venue_kind, date, window_ref, status)
	)`,
	`CREATE TABLE IF NOT EXISTS reservation_units (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		reservation_id BIGINT UNSIGNED NOT NULL,
		unit_code VARCHAR(20) NOT NULL,
		FOREIGN KEY (reservation_id) REFERENCES reservations(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS payments (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		reservation_id BIGINT UNSIGNED NOT NULL,
		gateway_order_ref VARCHAR(100) NOT NULL,
		gateway_payment_ref VARCHAR(100) NOT NULL,
		amount_minor BIGINT NOT NULL,
		currency VARCHAR(10) NOT NULL,
		status VARCHAR(20) NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (reservation_id) REFERENCES reservations(id) ON DELETE CASCADE
	)`,
}

// EnsureSchema creates the booking tables when they do not exist yet.  Safe
// to run on every startup.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
