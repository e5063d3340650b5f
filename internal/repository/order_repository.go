package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/venuehub/venue-reservation/internal/model"
)

// ErrOrderNotFound indicates that an order was not located in the DB.
var ErrOrderNotFound = errors.New("order not found")

// OrderRepo provides CRUD operations and state transitions for orders.
// An order claims a half-open window [start_time, start_time + hours) on
// a venue.  All timestamp fields are stored in UTC.  The table carries an
// exclusion constraint on (venue_id, window) so concurrent submissions
// that slip past the validator's advisory scan still fail on commit.
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo returns a new OrderRepo bound to the given database.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

// DB exposes the underlying sql.DB for transactions spanning repositories.
func (r *OrderRepo) DB() *sql.DB { return r.db }

const orderColumns = `id, user_id, venue_id, start_time, hours, state, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (*model.Order, error) {
	var o model.Order
	err := row.Scan(&o.ID, &o.UserID, &o.VenueID, &o.StartTime, &o.Hours, &o.State, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.StartTime = o.StartTime.UTC()
	return &o, nil
}

// Create inserts a new order in the pending state and populates the
// generated ID and DB-default fields on the provided struct.
func (r *OrderRepo) Create(ctx context.Context, o *model.Order) error {
	const q = `INSERT INTO orders (user_id, venue_id, start_time, hours, state) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, o.UserID, o.VenueID, o.StartTime.UTC(), o.Hours, model.OrderStatePending)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	o.ID = uint64(id)
	const sel = `SELECT ` + orderColumns + ` FROM orders WHERE id = ?`
	full, err := scanOrder(r.db.QueryRowContext(ctx, sel, o.ID))
	if err != nil {
		return err
	}
	*o = *full
	return nil
}

// GetByID retrieves an order by its ID.  It returns ErrOrderNotFound when
// there is no matching row.
func (r *OrderRepo) GetByID(ctx context.Context, id uint64) (*model.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE id = ?`
	o, err := scanOrder(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return o, nil
}

// GetByIDForUser retrieves an order and enforces ownership.  It returns
// ErrOrderNotFound when the row is absent and ErrForbidden when the order
// belongs to a different user.
func (r *OrderRepo) GetByIDForUser(ctx context.Context, id, userID uint64) (*model.Order, error) {
	o, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, ErrForbidden
	}
	return o, nil
}

// OrderDetail pairs an order with the name of its venue for display in
// listings, sparing clients a second lookup.
type OrderDetail struct {
	ID        uint64    `json:"id"`
	VenueID   uint64    `json:"venue_id"`
	VenueName string    `json:"venue_name"`
	UserID    uint64    `json:"user_id"`
	StartTime time.Time `json:"start_time"`
	Hours     int       `json:"hours"`
	State     int       `json:"state"`
	CreatedAt time.Time `json:"created_at"`
}

func collectOrderDetails(rows *sql.Rows) ([]OrderDetail, error) {
	defer rows.Close()
	details := make([]OrderDetail, 0)
	for rows.Next() {
		var d OrderDetail
		if err := rows.Scan(&d.ID, &d.VenueID, &d.VenueName, &d.UserID, &d.StartTime, &d.Hours, &d.State, &d.CreatedAt); err != nil {
			return nil, err
		}
		d.StartTime = d.StartTime.UTC()
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

// ListByUser returns one page of the user's orders, newest first, along
// with the user's total order count.
func (r *OrderRepo) ListByUser(ctx context.Context, userID uint64, offset, limit int) ([]OrderDetail, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders WHERE user_id = ?`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	const q = `SELECT o.id, o.venue_id, v.name, o.user_id, o.start_time, o.hours, o.state, o.created_at
               FROM orders o
               JOIN venues v ON v.id = o.venue_id
               WHERE o.user_id = ?
               ORDER BY o.created_at DESC
               LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	details, err := collectOrderDetails(rows)
	if err != nil {
		return nil, 0, err
	}
	return details, total, nil
}

// ListByState returns one page of orders in the given lifecycle state,
// oldest first so the audit queue is worked in arrival order, along with
// the total count for that state.
func (r *OrderRepo) ListByState(ctx context.Context, state, offset, limit int) ([]OrderDetail, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders WHERE state = ?`, state).Scan(&total); err != nil {
		return nil, 0, err
	}
	const q = `SELECT o.id, o.venue_id, v.name, o.user_id, o.start_time, o.hours, o.state, o.created_at
               FROM orders o
               JOIN venues v ON v.id = o.venue_id
               WHERE o.state = ?
               ORDER BY o.created_at ASC
               LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, state, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	details, err := collectOrderDetails(rows)
	if err != nil {
		return nil, 0, err
	}
	return details, total, nil
}

// Overlapping returns pending and confirmed orders for the venue whose
// window intersects [start, end), excluding the given order ID so an
// order being edited does not collide with itself.  Two windows overlap
// when each starts before the other ends.  It satisfies the
// booking.OrderSource contract.
func (r *OrderRepo) Overlapping(ctx context.Context, venueID uint64, start, end time.Time, excludeOrderID uint64) ([]model.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders
               WHERE venue_id = ? AND id <> ? AND state IN (?, ?)
                 AND start_time < ?
                 AND DATE_ADD(start_time, INTERVAL hours HOUR) > ?`
	rows, err := r.db.QueryContext(ctx, q, venueID, excludeOrderID,
		model.OrderStatePending, model.OrderStateConfirmed, end.UTC(), start.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var overlaps []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		overlaps = append(overlaps, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return overlaps, nil
}

// UpdateBooking rewrites the venue, window and duration of an order and
// resets it to the pending state so the edit goes back through audit.
// The row must belong to the given user; a mismatch yields ErrForbidden
// and a missing row yields ErrOrderNotFound.
func (r *OrderRepo) UpdateBooking(ctx context.Context, o *model.Order, userID uint64) error {
	if _, err := r.GetByIDForUser(ctx, o.ID, userID); err != nil {
		return err
	}
	const q = `UPDATE orders
               SET venue_id = ?, start_time = ?, hours = ?, state = ?, updated_at = CURRENT_TIMESTAMP
               WHERE id = ? AND user_id = ?`
	_, err := r.db.ExecContext(ctx, q, o.VenueID, o.StartTime.UTC(), o.Hours, model.OrderStatePending, o.ID, userID)
	return err
}

// transition moves an order from one lifecycle state to another.  It
// returns ErrOrderNotFound for an absent row and ErrInvalidState when the
// row exists but is not in the expected source state.
func (r *OrderRepo) transition(ctx context.Context, id uint64, from, to int) error {
	const q = `UPDATE orders SET state = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND state = ?`
	res, err := r.db.ExecContext(ctx, q, to, id, from)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	var one int
	if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM orders WHERE id = ? LIMIT 1`, id).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrOrderNotFound
		}
		return err
	}
	return ErrInvalidState
}

// Confirm moves a pending order to confirmed (admin approval).
func (r *OrderRepo) Confirm(ctx context.Context, id uint64) error {
	return r.transition(ctx, id, model.OrderStatePending, model.OrderStateConfirmed)
}

// Reject moves a pending order to rejected (admin rejection, terminal).
func (r *OrderRepo) Reject(ctx context.Context, id uint64) error {
	return r.transition(ctx, id, model.OrderStatePending, model.OrderStateRejected)
}

// Finish moves a confirmed order to finished (terminal).
func (r *OrderRepo) Finish(ctx context.Context, id uint64) error {
	return r.transition(ctx, id, model.OrderStateConfirmed, model.OrderStateFinished)
}

// DeleteByIDAndUser removes an order owned by the given user.  It returns
// ErrOrderNotFound for an absent row and ErrForbidden when the order
// belongs to someone else.
func (r *OrderRepo) DeleteByIDAndUser(ctx context.Context, id, userID uint64) error {
	if _, err := r.GetByIDForUser(ctx, id, userID); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = ? AND user_id = ?`, id, userID)
	return err
}
