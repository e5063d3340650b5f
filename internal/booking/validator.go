// Package booking implements the reservation validity and conflict rules
// shared by the order placement and order edit flows.  The validator is
// pure relative to its snapshot inputs (venue record, current order set,
// wall-clock now); the database exclusion constraint remains the race-safe
// authority for double bookings, so this check is a fast-path courtesy to
// the caller rather than the sole correctness mechanism.
package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/venuehub/venue-reservation/internal/model"
)

// ErrVenueNotFound indicates that no venue matches the requested name.
// VenueLookup implementations must return it for absent venues so the
// validator can report a missing venue distinctly from a malformed time.
var ErrVenueNotFound = errors.New("venue not found")

// ErrNegativeHours indicates a negative booking duration.
var ErrNegativeHours = errors.New("duration must not be negative")

// ErrPastStart indicates that the requested window precedes current time.
var ErrPastStart = errors.New("requested window precedes current time")

// ErrTimeConflict indicates the requested window overlaps an existing
// pending or confirmed order for the same venue.
var ErrTimeConflict = errors.New("venue already booked for the requested window")

// MalformedTimeError reports a start-time string that does not match the
// "YYYY-MM-DD HH:MM" pattern.  It carries the original text and the
// underlying parse error for diagnostics; callers have been observed to
// pass timestamps with trailing text or a missing time component.
type MalformedTimeError struct {
	Text string // the input exactly as received
	Err  error  // the underlying *time.ParseError
}

func (e *MalformedTimeError) Error() string {
	return fmt.Sprintf("malformed start time %q: %v", e.Text, e.Err)
}

func (e *MalformedTimeError) Unwrap() error { return e.Err }

// startLayout is the canonical layout after the seconds component has been
// appended to the caller-supplied minute-precision text.
const startLayout = "2006-01-02 15:04:05"

// ParseStartTime parses a strictly formatted "YYYY-MM-DD HH:MM" timestamp.
// A canonical ":00" seconds component is appended before parsing, matching
// how the persistence layer stores DATETIME values.  Any deviation from the
// pattern yields a *MalformedTimeError.  The result is in UTC.
func ParseStartTime(text string) (time.Time, error) {
	t, err := time.Parse(startLayout, text+":00")
	if err != nil {
		return time.Time{}, &MalformedTimeError{Text: text, Err: err}
	}
	return t.UTC(), nil
}

// ValidateWallClock checks that text is a valid 24-hour "HH:MM" wall-clock
// value, as used for venue opening and closing times.
func ValidateWallClock(text string) error {
	if _, err := time.Parse("15:04", text); err != nil {
		return &MalformedTimeError{Text: text, Err: err}
	}
	return nil
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) have a non-empty intersection.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// VenueLookup resolves a venue by its unique name.  Implementations
// return ErrVenueNotFound when no venue has the given name.
type VenueLookup interface {
	GetByName(ctx context.Context, name string) (*model.Venue, error)
}

// OrderSource yields existing orders able to conflict with a proposed
// window: pending and confirmed orders for the venue whose interval
// intersects [start, end).  excludeOrderID is skipped so an order being
// edited does not conflict with itself; pass zero for new orders.
type OrderSource interface {
	Overlapping(ctx context.Context, venueID uint64, start, end time.Time, excludeOrderID uint64) ([]model.Order, error)
}

// Request describes a proposed reservation prior to validation.
type Request struct {
	VenueName      string // unique name of the venue to book
	StartTime      string // "YYYY-MM-DD HH:MM"
	Hours          int    // whole hours; must not be negative
	ExcludeOrderID uint64 // order to ignore during the conflict scan (0 = none)
}

// Result is the validated tuple the caller persists as a new or updated
// order in the pending state.
type Result struct {
	Venue *model.Venue
	Start time.Time
	Hours int
}

// Validator enforces time/duration well-formedness and conflict-freedom
// for reservations against the supplied venue and order sources.
type Validator struct {
	Venues VenueLookup
	Orders OrderSource
}

// NewValidator constructs a Validator.  Both sources must be non-nil.
func NewValidator(venues VenueLookup, orders OrderSource) *Validator {
	if venues == nil || orders == nil {
		panic("nil source passed to NewValidator")
	}
	return &Validator{Venues: venues, Orders: orders}
}

// Validate checks a proposed reservation and returns the validated tuple.
// Checks run in a fixed order: venue resolution, time parsing, duration,
// future-time, then the conflict scan.  Re-running with identical inputs
// yields an identical result.
func (v *Validator) Validate(ctx context.Context, req Request, now time.Time) (Result, error) {
	venue, err := v.Venues.GetByName(ctx, req.VenueName)
	if err != nil {
		return Result{}, err
	}
	start, err := ParseStartTime(req.StartTime)
	if err != nil {
		return Result{}, err
	}
	if req.Hours < 0 {
		return Result{}, ErrNegativeHours
	}
	if !start.After(now) {
		return Result{}, ErrPastStart
	}
	// hours == 0 is a degenerate [start, start) interval; it can never
	// intersect anything, so the scan is skipped entirely.
	if req.Hours > 0 {
		end := start.Add(time.Duration(req.Hours) * time.Hour)
		existing, err := v.Orders.Overlapping(ctx, venue.ID, start, end, req.ExcludeOrderID)
		if err != nil {
			return Result{}, err
		}
		if len(existing) > 0 {
			return Result{}, ErrTimeConflict
		}
	}
	return Result{Venue: venue, Start: start, Hours: req.Hours}, nil
}
