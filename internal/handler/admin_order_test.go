package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/venuehub/venue-reservation/internal/model"
	"github.com/venuehub/venue-reservation/internal/repository"
)

type mockAuditStore struct{ mock.Mock }

func (m *mockAuditStore) GetByID(ctx context.Context, id uint64) (*model.Order, error) {
	args := m.Called(ctx, id)
	if o := args.Get(0); o != nil {
		return o.(*model.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuditStore) ListByState(ctx context.Context, state, offset, limit int) ([]repository.OrderDetail, int64, error) {
	args := m.Called(ctx, state, offset, limit)
	var items []repository.OrderDetail
	if v := args.Get(0); v != nil {
		items = v.([]repository.OrderDetail)
	}
	return items, int64(args.Int(1)), args.Error(2)
}

func (m *mockAuditStore) Confirm(ctx context.Context, id uint64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockAuditStore) Reject(ctx context.Context, id uint64) error {
	return m.Called(ctx, id).Error(0)
}

func TestAdminOrderListNonAdmin(t *testing.T) {
	store := new(mockAuditStore)
	h := NewAdminOrderHandler(store, &stubPublisher{})

	c, rec := newTestContext(http.MethodGet, "/v1/admin/orders", "")
	asUser(c, 5) // authenticated, but not an admin

	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	store.AssertNotCalled(t, "ListByState", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminOrderListAnonymous(t *testing.T) {
	store := new(mockAuditStore)
	h := NewAdminOrderHandler(store, &stubPublisher{})

	c, rec := newTestContext(http.MethodGet, "/v1/admin/orders", "")

	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	store.AssertNotCalled(t, "ListByState", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminOrderListPending(t *testing.T) {
	store := new(mockAuditStore)
	details := []repository.OrderDetail{{ID: 3, VenueName: "Court A", State: model.OrderStatePending}}
	store.On("ListByState", mock.Anything, model.OrderStatePending, 0, 10).Return(details, 1, nil)

	h := NewAdminOrderHandler(store, &stubPublisher{})
	c, rec := newTestContext(http.MethodGet, "/v1/admin/orders", "")
	asAdmin(c)

	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_elements":1`)
	store.AssertExpectations(t)
}

func TestAdminOrderConfirm(t *testing.T) {
	store := new(mockAuditStore)
	pub := &stubPublisher{}
	pending := &model.Order{ID: 3, UserID: 5, VenueID: 1, State: model.OrderStatePending}
	store.On("GetByID", mock.Anything, uint64(3)).Return(pending, nil)
	store.On("Confirm", mock.Anything, uint64(3)).Return(nil)

	h := NewAdminOrderHandler(store, pub)
	c, rec := newTestContext(http.MethodPost, "/v1/admin/orders/3/confirm", "")
	c.SetParamNames("id")
	c.SetParamValues("3")
	asAdmin(c)

	require.NoError(t, h.Confirm(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	require.Len(t, pub.audited, 1)
	assert.Equal(t, "confirmed", pub.audited[0].Outcome)
	assert.Equal(t, uint64(3), pub.audited[0].OrderID)
	store.AssertExpectations(t)
}

func TestAdminOrderRejectAlreadyAudited(t *testing.T) {
	store := new(mockAuditStore)
	pub := &stubPublisher{}
	confirmed := &model.Order{ID: 3, UserID: 5, VenueID: 1, State: model.OrderStateConfirmed}
	store.On("GetByID", mock.Anything, uint64(3)).Return(confirmed, nil)
	store.On("Reject", mock.Anything, uint64(3)).Return(repository.ErrInvalidState)

	h := NewAdminOrderHandler(store, pub)
	c, rec := newTestContext(http.MethodPost, "/v1/admin/orders/3/reject", "")
	c.SetParamNames("id")
	c.SetParamValues("3")
	asAdmin(c)

	require.NoError(t, h.Reject(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	// no event for a failed transition
	assert.Empty(t, pub.audited)
}

func TestAdminOrderConfirmNotFound(t *testing.T) {
	store := new(mockAuditStore)
	store.On("GetByID", mock.Anything, uint64(99)).Return(nil, repository.ErrOrderNotFound)

	h := NewAdminOrderHandler(store, &stubPublisher{})
	c, rec := newTestContext(http.MethodPost, "/v1/admin/orders/99/confirm", "")
	c.SetParamNames("id")
	c.SetParamValues("99")
	asAdmin(c)

	require.NoError(t, h.Confirm(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	store.AssertNotCalled(t, "Confirm", mock.Anything, mock.Anything)
}
