package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/muniyaraj/venue-booking/internal/model"
)

// SlotRepo reads and appends the turf's hourly slot units.  Slots are
// seeded reference data: the admin API may append new rows but existing
// rows are never modified or removed.
type SlotRepo struct {
	db *sql.DB
}

// NewSlotRepo returns a SlotRepo bound to the given database.
func NewSlotRepo(db *sql.DB) *SlotRepo { return &SlotRepo{db: db} }

// List returns all slots ordered by start time.  The unit code is the slot's
// numeric id rendered as a string so line items stay uniform across venues.
func (r *SlotRepo) List(ctx context.Context) ([]model.Unit, error) {
	const q = `SELECT id, label, start_minute, end_minute FROM slots ORDER BY start_minute, id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("select slots: %w", err)
	}
	defer rows.Close()
	units := make([]model.Unit, 0)
	for rows.Next() {
		var id uint64
		var u model.Unit
		if err := rows.Scan(&id, &u.Label, &u.StartMinute, &u.EndMinute); err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		u.Code = fmt.Sprintf("%d", id)
		units = append(units, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate slots: %w", err)
	}
	return units, nil
}

// Append inserts a new slot and returns its generated id.
func (r *SlotRepo) Append(ctx context.Context, label string, startMinute, endMinute int) (uint64, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO slots (label, start_minute, end_minute) VALUES (?, ?, ?)`,
		label, startMinute, endMinute)
	if err != nil {
		return 0, fmt.Errorf("insert slot: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return uint64(id), nil
}
