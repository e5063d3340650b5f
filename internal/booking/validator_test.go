package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venuehub/venue-reservation/internal/model"
)

// fakeVenues resolves a single venue by name.
type fakeVenues struct {
	venue *model.Venue
	err   error
	calls int
}

func (f *fakeVenues) GetByName(ctx context.Context, name string) (*model.Venue, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.venue, nil
}

// fakeOrders mirrors the store contract: it returns the subset of its
// orders whose half-open window intersects [start, end), skipping the
// excluded id.
type fakeOrders struct {
	orders []model.Order
	err    error
}

func (f *fakeOrders) Overlapping(ctx context.Context, venueID uint64, start, end time.Time, excludeOrderID uint64) ([]model.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []model.Order
	for _, o := range f.orders {
		if o.VenueID != venueID || o.ID == excludeOrderID {
			continue
		}
		if Overlaps(o.StartTime, o.End(), start, end) {
			out = append(out, o)
		}
	}
	return out, nil
}

var courtA = &model.Venue{ID: 1, Name: "Court A", Price: 200}

// clock well before any requested window
var now = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

func newTestValidator(orders ...model.Order) *Validator {
	return NewValidator(&fakeVenues{venue: courtA}, &fakeOrders{orders: orders})
}

func TestParseStartTime(t *testing.T) {
	got, err := ParseStartTime("2024-06-01 10:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC), got)

	for _, bad := range []string{"", "2021-01-01", "2024-06-01T10:00", "2024-06-01 10:00:00", "soon"} {
		_, err := ParseStartTime(bad)
		var malformed *MalformedTimeError
		require.Error(t, err, bad)
		require.ErrorAs(t, err, &malformed, bad)
		assert.Equal(t, bad, malformed.Text)
	}
}

func TestOverlaps(t *testing.T) {
	at := func(h int) time.Time { return time.Date(2024, 6, 1, h, 0, 0, 0, time.UTC) }
	cases := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd time.Time
		want                       bool
	}{
		{"identical", at(10), at(12), at(10), at(12), true},
		{"contained", at(10), at(14), at(11), at(12), true},
		{"partial overlap", at(10), at(12), at(11), at(13), true},
		{"touching end to start", at(10), at(12), at(12), at(14), false},
		{"touching start to end", at(12), at(14), at(10), at(12), false},
		{"disjoint", at(8), at(9), at(12), at(14), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd))
		})
	}
}

func TestValidateVenueLookupBeforeTimeParse(t *testing.T) {
	venues := &fakeVenues{err: ErrVenueNotFound}
	v := NewValidator(venues, &fakeOrders{})

	// The start time is malformed too, but the venue failure wins because
	// resolution runs first.
	_, err := v.Validate(context.Background(), Request{VenueName: "nowhere", StartTime: "not a time", Hours: 1}, now)
	assert.ErrorIs(t, err, ErrVenueNotFound)
	assert.Equal(t, 1, venues.calls)
}

func TestValidateMalformedStartTime(t *testing.T) {
	v := newTestValidator()
	_, err := v.Validate(context.Background(), Request{VenueName: "Court A", StartTime: "2021-01-01", Hours: 1}, now)
	var malformed *MalformedTimeError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "2021-01-01", malformed.Text)
}

func TestValidateNegativeHours(t *testing.T) {
	v := newTestValidator()
	_, err := v.Validate(context.Background(), Request{VenueName: "Court A", StartTime: "2024-06-01 10:00", Hours: -1}, now)
	assert.ErrorIs(t, err, ErrNegativeHours)
}

func TestValidatePastStart(t *testing.T) {
	v := newTestValidator()

	_, err := v.Validate(context.Background(), Request{VenueName: "Court A", StartTime: "2024-04-30 10:00", Hours: 1}, now)
	assert.ErrorIs(t, err, ErrPastStart)

	// start == now is also rejected; only strictly future windows book.
	_, err = v.Validate(context.Background(), Request{VenueName: "Court A", StartTime: "2024-05-01 00:00", Hours: 1}, now)
	assert.ErrorIs(t, err, ErrPastStart)
}

func TestValidateConflict(t *testing.T) {
	existing := model.Order{
		ID: 9, VenueID: 1, State: model.OrderStateConfirmed,
		StartTime: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC), Hours: 2,
	}
	v := newTestValidator(existing)

	// 11:00 for one hour lands inside the existing 10:00-12:00 booking.
	_, err := v.Validate(context.Background(), Request{VenueName: "Court A", StartTime: "2024-06-01 11:00", Hours: 1}, now)
	assert.ErrorIs(t, err, ErrTimeConflict)

	// 12:00 starts exactly when the existing booking ends; no conflict.
	res, err := v.Validate(context.Background(), Request{VenueName: "Court A", StartTime: "2024-06-01 12:00", Hours: 1}, now)
	require.NoError(t, err)
	assert.Equal(t, courtA, res.Venue)
	assert.Equal(t, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), res.Start)
	assert.Equal(t, 1, res.Hours)
}

func TestValidateExcludesOwnOrder(t *testing.T) {
	existing := model.Order{
		ID: 9, VenueID: 1, State: model.OrderStatePending,
		StartTime: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC), Hours: 2,
	}
	v := newTestValidator(existing)

	// Editing order 9 onto its own window must not conflict with itself.
	_, err := v.Validate(context.Background(), Request{
		VenueName: "Court A", StartTime: "2024-06-01 10:00", Hours: 2, ExcludeOrderID: 9,
	}, now)
	assert.NoError(t, err)
}

func TestValidateZeroHours(t *testing.T) {
	existing := model.Order{
		ID: 9, VenueID: 1, State: model.OrderStateConfirmed,
		StartTime: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC), Hours: 2,
	}
	v := newTestValidator(existing)

	// A zero-hour window is degenerate and never conflicts, even when its
	// start lies inside an existing booking.
	res, err := v.Validate(context.Background(), Request{VenueName: "Court A", StartTime: "2024-06-01 11:00", Hours: 0}, now)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Hours)
}

func TestValidateIdempotent(t *testing.T) {
	v := newTestValidator()
	req := Request{VenueName: "Court A", StartTime: "2024-06-01 10:00", Hours: 2}

	first, err1 := v.Validate(context.Background(), req, now)
	second, err2 := v.Validate(context.Background(), req, now)
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, first, second)
}

func TestValidateSourceError(t *testing.T) {
	boom := errors.New("db down")
	v := NewValidator(&fakeVenues{venue: courtA}, &fakeOrders{err: boom})
	_, err := v.Validate(context.Background(), Request{VenueName: "Court A", StartTime: "2024-06-01 10:00", Hours: 1}, now)
	assert.ErrorIs(t, err, boom)
}

func TestValidateWallClock(t *testing.T) {
	assert.NoError(t, ValidateWallClock("08:00"))
	assert.NoError(t, ValidateWallClock("23:59"))
	assert.Error(t, ValidateWallClock("24:00"))
	assert.Error(t, ValidateWallClock("8am"))
	assert.Error(t, ValidateWallClock(""))
}

func TestNewValidatorPanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { NewValidator(nil, &fakeOrders{}) })
	assert.Panics(t, func() { NewValidator(&fakeVenues{}, nil) })
}
