package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/muniyaraj/venue-booking/internal/model"
)

// ShowtimeRepo reads and appends the screen's showtime windows.  Like slots,
// showtimes are append-only reference data.
type ShowtimeRepo struct {
	db *sql.DB
}

// NewShowtimeRepo returns a ShowtimeRepo bound to the given database.
func NewShowtimeRepo(db *sql.DB) *ShowtimeRepo { return &ShowtimeRepo{db: db} }

// List returns all showtimes ordered by start time.
func (r *ShowtimeRepo) List(ctx context.Context) ([]model.Window, error) {
	const q = `SELECT id, label, start_minute, end_minute FROM showtimes ORDER BY start_minute, id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("select showtimes: %w", err)
	}
	defer rows.Close()
	windows := make([]model.Window, 0)
	for rows.Next() {
		var w model.Window
		if err := rows.Scan(&w.ID, &w.Label, &w.StartMinute, &w.EndMinute); err != nil {
			return nil, fmt.Errorf("scan showtime: %w", err)
		}
		windows = append(windows, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate showtimes: %w", err)
	}
	return windows, nil
}

// Append inserts a new showtime and returns its generated id.
func (r *ShowtimeRepo) Append(ctx context.Context, label string, startMinute, endMinute int) (uint64, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO showtimes (label, start_minute, end_minute) VALUES (?, ?, ?)`,
		label, startMinute, endMinute)
	if err != nil {
		return 0, fmt.Errorf("insert showtime: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return uint64(id), nil
}
