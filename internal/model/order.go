package model

import "time"

// Order lifecycle states.  A freshly placed order waits for an
// administrator to audit it.  Pending orders may be confirmed or
// rejected; confirmed orders are marked finished once the booking
// has taken place.  Rejected and finished are terminal.
const (
	OrderStatePending   = 1 // waiting for admin audit
	OrderStateConfirmed = 2 // approved by an admin
	OrderStateFinished  = 3 // completed after the booked window
	OrderStateRejected  = 4 // declined by an admin
)

// Order records a user's claim on a venue for a specific time
// window, subject to admin audit.  This struct corresponds to a
// row in the `orders` table.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – user who placed the order.
//  VenueID   – venue being booked.
//  StartTime – beginning of the booked window (UTC).
//  Hours     – length of the booked window in whole hours.
//  State     – lifecycle state (see OrderState* constants).
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Order struct {
	ID        uint64    // orders.id
	UserID    uint64    // orders.user_id
	VenueID   uint64    // orders.venue_id
	StartTime time.Time // orders.start_time
	Hours     int       // orders.hours
	State     int       // orders.state
	CreatedAt time.Time // orders.created_at
	UpdatedAt time.Time // orders.updated_at
}

// End returns the exclusive end of the booked window.  An order
// occupies the half-open interval [StartTime, End).
func (o Order) End() time.Time {
	return o.StartTime.Add(time.Duration(o.Hours) * time.Hour)
}
