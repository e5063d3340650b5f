package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/venuehub/venue-reservation/internal/model"
	"github.com/venuehub/venue-reservation/internal/pagination"
	"github.com/venuehub/venue-reservation/internal/queue"
	"github.com/venuehub/venue-reservation/internal/repository"
	"github.com/venuehub/venue-reservation/internal/session"
)

// AuditStore is the persistence surface the order-audit endpoints need.
// *repository.OrderRepo satisfies it; tests provide a mock.
type AuditStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Order, error)
	ListByState(ctx context.Context, state, offset, limit int) ([]repository.OrderDetail, int64, error)
	Confirm(ctx context.Context, id uint64) error
	Reject(ctx context.Context, id uint64) error
}

// AdminOrderHandler audits pending reservation orders.
type AdminOrderHandler struct {
	Orders    AuditStore
	Publisher EventPublisher
}

func NewAdminOrderHandler(orders AuditStore, pub EventPublisher) *AdminOrderHandler {
	if orders == nil || pub == nil {
		panic("nil dependency passed to NewAdminOrderHandler")
	}
	return &AdminOrderHandler{Orders: orders, Publisher: pub}
}

// List returns one strict page of orders awaiting audit, oldest first.
func (h *AdminOrderHandler) List(c echo.Context) error {
	if _, ok := requirePrincipal(c, session.RoleAdmin); !ok {
		return nil
	}
	req := pageFromQuery(c, pagination.AdminPageSize)
	offset, err := pagination.Strict(req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid page"})
	}
	items, total, err := h.Orders.ListByState(c.Request().Context(), model.OrderStatePending, offset, req.Size)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, pageOf(items, req.Page, total, req.Size))
}

// Confirm approves a pending order.
func (h *AdminOrderHandler) Confirm(c echo.Context) error {
	return h.audit(c, "confirmed", h.Orders.Confirm)
}

// Reject declines a pending order.
func (h *AdminOrderHandler) Reject(c echo.Context) error {
	return h.audit(c, "rejected", h.Orders.Reject)
}

// audit applies a state transition to a pending order and publishes the
// order.audited event on success.  Publish failures are ignored; the
// transition is already persisted.
func (h *AdminOrderHandler) audit(c echo.Context, outcome string, apply func(context.Context, uint64) error) error {
	if _, ok := requirePrincipal(c, session.RoleAdmin); !ok {
		return nil
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	o, err := h.Orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := apply(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrOrderNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		case errors.Is(err, repository.ErrInvalidState):
			return c.JSON(http.StatusConflict, echo.Map{"error": "order is not pending"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "audit order failed"})
		}
	}
	_ = h.Publisher.OrderAudited(ctx, queue.OrderAuditedEvent{
		OrderID:   o.ID,
		UserID:    o.UserID,
		VenueID:   o.VenueID,
		Outcome:   outcome,
		AuditedAt: time.Now().UTC().Format(time.RFC3339),
	})
	return c.NoContent(http.StatusNoContent)
}
