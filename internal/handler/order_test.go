package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/venuehub/venue-reservation/internal/booking"
	"github.com/venuehub/venue-reservation/internal/model"
	"github.com/venuehub/venue-reservation/internal/queue"
	"github.com/venuehub/venue-reservation/internal/repository"
	"github.com/venuehub/venue-reservation/internal/session"
)

// ----- mocks -----

type mockOrderStore struct{ mock.Mock }

func (m *mockOrderStore) Create(ctx context.Context, o *model.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *mockOrderStore) GetByIDForUser(ctx context.Context, id, userID uint64) (*model.Order, error) {
	args := m.Called(ctx, id, userID)
	if o := args.Get(0); o != nil {
		return o.(*model.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockOrderStore) ListByUser(ctx context.Context, userID uint64, offset, limit int) ([]repository.OrderDetail, int64, error) {
	args := m.Called(ctx, userID, offset, limit)
	var items []repository.OrderDetail
	if v := args.Get(0); v != nil {
		items = v.([]repository.OrderDetail)
	}
	return items, int64(args.Int(1)), args.Error(2)
}

func (m *mockOrderStore) UpdateBooking(ctx context.Context, o *model.Order, userID uint64) error {
	return m.Called(ctx, o, userID).Error(0)
}

func (m *mockOrderStore) Finish(ctx context.Context, id uint64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockOrderStore) DeleteByIDAndUser(ctx context.Context, id, userID uint64) error {
	return m.Called(ctx, id, userID).Error(0)
}

type mockVenueLookup struct{ mock.Mock }

func (m *mockVenueLookup) GetByName(ctx context.Context, name string) (*model.Venue, error) {
	args := m.Called(ctx, name)
	if v := args.Get(0); v != nil {
		return v.(*model.Venue), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockOrderSource struct{ mock.Mock }

func (m *mockOrderSource) Overlapping(ctx context.Context, venueID uint64, start, end time.Time, excludeOrderID uint64) ([]model.Order, error) {
	args := m.Called(ctx, venueID, start, end, excludeOrderID)
	var orders []model.Order
	if v := args.Get(0); v != nil {
		orders = v.([]model.Order)
	}
	return orders, args.Error(1)
}

// stubPublisher records published events without touching a broker.
type stubPublisher struct {
	placed  []queue.OrderPlacedEvent
	audited []queue.OrderAuditedEvent
}

func (s *stubPublisher) OrderPlaced(ctx context.Context, ev queue.OrderPlacedEvent) error {
	s.placed = append(s.placed, ev)
	return nil
}

func (s *stubPublisher) OrderAudited(ctx context.Context, ev queue.OrderAuditedEvent) error {
	s.audited = append(s.audited, ev)
	return nil
}

// ----- helpers -----

func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func asUser(c echo.Context, id uint64) {
	c.Set("session", session.New(session.Principal{UserID: id, Handle: "user"}))
}

func asAdmin(c echo.Context) {
	c.Set("session", session.New(session.Principal{UserID: 1, Handle: "root", Admin: true}))
}

var testNow = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

func newOrderHandler(store *mockOrderStore, venues *mockVenueLookup, orders *mockOrderSource, pub *stubPublisher) *OrderHandler {
	h := NewOrderHandler(store, booking.NewValidator(venues, orders), pub)
	h.Now = func() time.Time { return testNow }
	return h
}

// ----- tests -----

func TestOrderListUnauthenticated(t *testing.T) {
	store := new(mockOrderStore)
	h := newOrderHandler(store, new(mockVenueLookup), new(mockOrderSource), &stubPublisher{})

	c, rec := newTestContext(http.MethodGet, "/v1/orders", "")
	// no session set: the context behaves like an anonymous request

	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	store.AssertNotCalled(t, "ListByUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderListStrictPage(t *testing.T) {
	store := new(mockOrderStore)
	h := newOrderHandler(store, new(mockVenueLookup), new(mockOrderSource), &stubPublisher{})

	c, rec := newTestContext(http.MethodGet, "/v1/orders?page=0", "")
	asUser(c, 5)

	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	store.AssertNotCalled(t, "ListByUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderListOK(t *testing.T) {
	store := new(mockOrderStore)
	details := []repository.OrderDetail{{ID: 3, VenueID: 1, VenueName: "Court A", UserID: 5, Hours: 2, State: model.OrderStatePending}}
	store.On("ListByUser", mock.Anything, uint64(5), 5, 5).Return(details, 6, nil)

	h := newOrderHandler(store, new(mockVenueLookup), new(mockOrderSource), &stubPublisher{})
	c, rec := newTestContext(http.MethodGet, "/v1/orders?page=2", "")
	asUser(c, 5)

	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_elements":6`)
	assert.Contains(t, rec.Body.String(), `"total_pages":2`)
	store.AssertExpectations(t)
}

func TestOrderPlaceUnauthenticated(t *testing.T) {
	store := new(mockOrderStore)
	venues := new(mockVenueLookup)
	h := newOrderHandler(store, venues, new(mockOrderSource), &stubPublisher{})

	c, rec := newTestContext(http.MethodPost, "/v1/orders", `{"venue_name":"Court A","start_time":"2024-06-01 10:00","hours":2}`)

	require.NoError(t, h.Place(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	// the guard runs before the validator, so no venue lookup happens
	venues.AssertNotCalled(t, "GetByName", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrderPlaceOK(t *testing.T) {
	store := new(mockOrderStore)
	venues := new(mockVenueLookup)
	source := new(mockOrderSource)
	pub := &stubPublisher{}

	courtA := &model.Venue{ID: 1, Name: "Court A", Price: 200}
	start := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	venues.On("GetByName", mock.Anything, "Court A").Return(courtA, nil)
	source.On("Overlapping", mock.Anything, uint64(1), start, start.Add(2*time.Hour), uint64(0)).Return(nil, nil)
	store.On("Create", mock.Anything, mock.AnythingOfType("*model.Order")).Run(func(args mock.Arguments) {
		o := args.Get(1).(*model.Order)
		o.ID = 7
		o.State = model.OrderStatePending
	}).Return(nil)

	h := newOrderHandler(store, venues, source, pub)
	c, rec := newTestContext(http.MethodPost, "/v1/orders", `{"venue_name":"Court A","start_time":"2024-06-01 10:00","hours":2}`)
	asUser(c, 5)

	require.NoError(t, h.Place(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":7`)

	require.Len(t, pub.placed, 1)
	assert.Equal(t, uint64(7), pub.placed[0].OrderID)
	assert.Equal(t, uint64(400), pub.placed[0].TotalPrice)
	store.AssertExpectations(t)
}

func TestOrderPlaceConflict(t *testing.T) {
	store := new(mockOrderStore)
	venues := new(mockVenueLookup)
	source := new(mockOrderSource)

	courtA := &model.Venue{ID: 1, Name: "Court A"}
	taken := []model.Order{{ID: 9, VenueID: 1, StartTime: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC), Hours: 2}}
	venues.On("GetByName", mock.Anything, "Court A").Return(courtA, nil)
	source.On("Overlapping", mock.Anything, uint64(1), mock.Anything, mock.Anything, uint64(0)).Return(taken, nil)

	h := newOrderHandler(store, venues, source, &stubPublisher{})
	c, rec := newTestContext(http.MethodPost, "/v1/orders", `{"venue_name":"Court A","start_time":"2024-06-01 11:00","hours":1}`)
	asUser(c, 5)

	require.NoError(t, h.Place(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrderPlaceVenueNotFound(t *testing.T) {
	store := new(mockOrderStore)
	venues := new(mockVenueLookup)
	venues.On("GetByName", mock.Anything, "nowhere").Return(nil, booking.ErrVenueNotFound)

	h := newOrderHandler(store, venues, new(mockOrderSource), &stubPublisher{})
	c, rec := newTestContext(http.MethodPost, "/v1/orders", `{"venue_name":"nowhere","start_time":"2024-06-01 10:00","hours":1}`)
	asUser(c, 5)

	require.NoError(t, h.Place(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrderPlaceMalformedTime(t *testing.T) {
	store := new(mockOrderStore)
	venues := new(mockVenueLookup)
	venues.On("GetByName", mock.Anything, "Court A").Return(&model.Venue{ID: 1, Name: "Court A"}, nil)

	h := newOrderHandler(store, venues, new(mockOrderSource), &stubPublisher{})
	c, rec := newTestContext(http.MethodPost, "/v1/orders", `{"venue_name":"Court A","start_time":"2021-01-01","hours":1}`)
	asUser(c, 5)

	require.NoError(t, h.Place(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrderUpdateExcludesSelf(t *testing.T) {
	store := new(mockOrderStore)
	venues := new(mockVenueLookup)
	source := new(mockOrderSource)

	courtA := &model.Venue{ID: 1, Name: "Court A"}
	start := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	venues.On("GetByName", mock.Anything, "Court A").Return(courtA, nil)
	// the edited order's own id is excluded from the scan
	source.On("Overlapping", mock.Anything, uint64(1), start, start.Add(2*time.Hour), uint64(9)).Return(nil, nil)
	store.On("UpdateBooking", mock.Anything, mock.AnythingOfType("*model.Order"), uint64(5)).Return(nil)

	h := newOrderHandler(store, venues, source, &stubPublisher{})
	c, rec := newTestContext(http.MethodPut, "/v1/orders/9", `{"venue_name":"Court A","start_time":"2024-06-01 10:00","hours":2}`)
	c.SetParamNames("id")
	c.SetParamValues("9")
	asUser(c, 5)

	require.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	source.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestOrderFinish(t *testing.T) {
	store := new(mockOrderStore)
	confirmed := &model.Order{ID: 3, UserID: 5, State: model.OrderStateConfirmed}
	store.On("GetByIDForUser", mock.Anything, uint64(3), uint64(5)).Return(confirmed, nil)
	store.On("Finish", mock.Anything, uint64(3)).Return(nil)

	h := newOrderHandler(store, new(mockVenueLookup), new(mockOrderSource), &stubPublisher{})
	c, rec := newTestContext(http.MethodPost, "/v1/orders/3/finish", "")
	c.SetParamNames("id")
	c.SetParamValues("3")
	asUser(c, 5)

	require.NoError(t, h.Finish(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	store.AssertExpectations(t)
}

func TestOrderFinishNotConfirmed(t *testing.T) {
	store := new(mockOrderStore)
	pending := &model.Order{ID: 3, UserID: 5, State: model.OrderStatePending}
	store.On("GetByIDForUser", mock.Anything, uint64(3), uint64(5)).Return(pending, nil)
	store.On("Finish", mock.Anything, uint64(3)).Return(repository.ErrInvalidState)

	h := newOrderHandler(store, new(mockVenueLookup), new(mockOrderSource), &stubPublisher{})
	c, rec := newTestContext(http.MethodPost, "/v1/orders/3/finish", "")
	c.SetParamNames("id")
	c.SetParamValues("3")
	asUser(c, 5)

	require.NoError(t, h.Finish(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestOrderDeleteForeign(t *testing.T) {
	store := new(mockOrderStore)
	store.On("DeleteByIDAndUser", mock.Anything, uint64(3), uint64(5)).Return(repository.ErrForbidden)

	h := newOrderHandler(store, new(mockVenueLookup), new(mockOrderSource), &stubPublisher{})
	c, rec := newTestContext(http.MethodDelete, "/v1/orders/3", "")
	c.SetParamNames("id")
	c.SetParamValues("3")
	asUser(c, 5)

	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
