// Package repository contains data access logic for venue operations. This
// file defines repository methods for venues. A Venue is a bookable space
// with fixed operating hours; it must exist before any order may reference
// it, and its name is unique across the table.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/venuehub/venue-reservation/internal/booking"
	"github.com/venuehub/venue-reservation/internal/model"
)

// ErrVenueNameExists indicates an insert or update collided with the
// unique name constraint on the venues table.
var ErrVenueNameExists = errors.New("venue name already exists")

// VenueRepo manages persistence for venues.
type VenueRepo struct {
	db *sql.DB
}

// NewVenueRepo constructs a VenueRepo with the given DB handle.
func NewVenueRepo(db *sql.DB) *VenueRepo {
	return &VenueRepo{db: db}
}

// DB exposes the underlying sql.DB.  It allows callers to begin
// transactions spanning multiple repositories.
func (r *VenueRepo) DB() *sql.DB {
	return r.db
}

const venueColumns = `id, name, description, price, picture, address, open_time, close_time, created_at, updated_at`

func scanVenue(row interface{ Scan(...any) error }) (*model.Venue, error) {
	var v model.Venue
	err := row.Scan(&v.ID, &v.Name, &v.Description, &v.Price, &v.Picture,
		&v.Address, &v.OpenTime, &v.CloseTime, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Create inserts a new venue and assigns the generated ID back to the
// struct.  DB-default fields (created_at, updated_at) are populated by
// querying the fresh row.  A duplicate name yields ErrVenueNameExists.
func (r *VenueRepo) Create(ctx context.Context, v *model.Venue) error {
	const q = `INSERT INTO venues (name, description, price, picture, address, open_time, close_time)
               VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, v.Name, v.Description, v.Price, v.Picture, v.Address, v.OpenTime, v.CloseTime)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrVenueNameExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = uint64(id)
	const sel = `SELECT ` + venueColumns + ` FROM venues WHERE id = ?`
	full, err := scanVenue(r.db.QueryRowContext(ctx, sel, v.ID))
	if err != nil {
		return err
	}
	*v = *full
	return nil
}

// GetByID retrieves a venue by its ID.  It returns booking.ErrVenueNotFound
// when there is no matching row.
func (r *VenueRepo) GetByID(ctx context.Context, id uint64) (*model.Venue, error) {
	const q = `SELECT ` + venueColumns + ` FROM venues WHERE id = ?`
	v, err := scanVenue(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrVenueNotFound
		}
		return nil, err
	}
	return v, nil
}

// GetByName retrieves a venue by its unique name.  It returns
// booking.ErrVenueNotFound when there is no matching row, satisfying the
// booking.VenueLookup contract.
func (r *VenueRepo) GetByName(ctx context.Context, name string) (*model.Venue, error) {
	const q = `SELECT ` + venueColumns + ` FROM venues WHERE name = ?`
	v, err := scanVenue(r.db.QueryRowContext(ctx, q, strings.TrimSpace(name)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrVenueNotFound
		}
		return nil, err
	}
	return v, nil
}

// List returns one page of venues ordered by ID ascending, plus the total
// number of venues.  offset is a 0-based row offset resolved by the
// pagination policy.
func (r *VenueRepo) List(ctx context.Context, offset, limit int) ([]model.Venue, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM venues`).Scan(&total); err != nil {
		return nil, 0, err
	}
	const q = `SELECT ` + venueColumns + ` FROM venues ORDER BY id ASC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	result := make([]model.Venue, 0, limit)
	for rows.Next() {
		v, err := scanVenue(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

// Update rewrites a venue's attributes.  A rename that collides with an
// existing name yields ErrVenueNameExists; a missing row yields
// booking.ErrVenueNotFound.
func (r *VenueRepo) Update(ctx context.Context, v *model.Venue) error {
	const q = `UPDATE venues
               SET name = ?, description = ?, price = ?, picture = ?, address = ?, open_time = ?, close_time = ?,
                   updated_at = CURRENT_TIMESTAMP
               WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, v.Name, v.Description, v.Price, v.Picture, v.Address, v.OpenTime, v.CloseTime, v.ID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrVenueNameExists
		}
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	// Zero rows affected either means the row is absent or the values were
	// identical; distinguish by probing for existence.
	var one int
	if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM venues WHERE id = ? LIMIT 1`, v.ID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return booking.ErrVenueNotFound
		}
		return err
	}
	return nil
}

// DeleteByID removes a venue.  Deletion is refused with ErrConflict while
// any order still references the venue; the row is the anchor the orders
// table's foreign key points at.  A missing row yields
// booking.ErrVenueNotFound.
func (r *VenueRepo) DeleteByID(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()
	var one int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM venues WHERE id = ? LIMIT 1`, id).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return booking.ErrVenueNotFound
		}
		return err
	}
	var orderCount int
	if err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders WHERE venue_id = ?`, id).Scan(&orderCount); err != nil {
		return err
	}
	if orderCount > 0 {
		err = ErrConflict
		return err
	}
	_, err = tx.ExecContext(ctx, `DELETE FROM venues WHERE id = ?`, id)
	return err
}
