package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/venuehub/venue-reservation/internal/booking"
	"github.com/venuehub/venue-reservation/internal/model"
	"github.com/venuehub/venue-reservation/internal/pagination"
	"github.com/venuehub/venue-reservation/internal/queue"
	"github.com/venuehub/venue-reservation/internal/repository"
	"github.com/venuehub/venue-reservation/internal/session"
)

// OrderStore is the persistence surface the order endpoints need.
// *repository.OrderRepo satisfies it; tests provide a mock.
type OrderStore interface {
	Create(ctx context.Context, o *model.Order) error
	GetByIDForUser(ctx context.Context, id, userID uint64) (*model.Order, error)
	ListByUser(ctx context.Context, userID uint64, offset, limit int) ([]repository.OrderDetail, int64, error)
	UpdateBooking(ctx context.Context, o *model.Order, userID uint64) error
	Finish(ctx context.Context, id uint64) error
	DeleteByIDAndUser(ctx context.Context, id, userID uint64) error
}

// OrderHandler serves the authenticated user's reservation orders.  Every
// endpoint resolves the session before touching the store or the validator.
type OrderHandler struct {
	Orders    OrderStore
	Validator *booking.Validator
	Publisher EventPublisher
	Now       func() time.Time // injectable clock, time.Now in production
}

func NewOrderHandler(orders OrderStore, validator *booking.Validator, pub EventPublisher) *OrderHandler {
	if orders == nil || validator == nil || pub == nil {
		panic("nil dependency passed to NewOrderHandler")
	}
	return &OrderHandler{Orders: orders, Validator: validator, Publisher: pub, Now: time.Now}
}

type bookingReq struct {
	VenueName string `json:"venue_name"`
	StartTime string `json:"start_time"` // "YYYY-MM-DD HH:MM"
	Hours     int    `json:"hours"`
}

// orderResp is an order as returned after create/update.
type orderResp struct {
	ID        uint64    `json:"id"`
	VenueID   uint64    `json:"venue_id"`
	VenueName string    `json:"venue_name"`
	StartTime time.Time `json:"start_time"`
	Hours     int       `json:"hours"`
	State     int       `json:"state"`
}

// validationError maps a validator failure to its HTTP response.
func validationError(c echo.Context, err error) error {
	var malformed *booking.MalformedTimeError
	switch {
	case errors.Is(err, booking.ErrVenueNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
	case errors.As(err, &malformed):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "malformed start time"})
	case errors.Is(err, booking.ErrNegativeHours):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "hours must not be negative"})
	case errors.Is(err, booking.ErrPastStart):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start time must be in the future"})
	case errors.Is(err, booking.ErrTimeConflict):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "venue already booked for that window"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "validation failed"})
	}
}

// List returns one page of the caller's orders, newest first.  The page
// number is strict: anything below 1 is rejected.
func (h *OrderHandler) List(c echo.Context) error {
	p, ok := requirePrincipal(c, session.RoleUser)
	if !ok {
		return nil
	}
	req := pageFromQuery(c, pagination.PublicPageSize)
	offset, err := pagination.Strict(req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid page"})
	}
	items, total, err := h.Orders.ListByUser(c.Request().Context(), p.UserID, offset, req.Size)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, pageOf(items, req.Page, total, req.Size))
}

// Place validates a proposed reservation and stores it in the pending
// state, then publishes an order.placed event.  Publish failures are
// ignored; the order is already persisted.
func (h *OrderHandler) Place(c echo.Context) error {
	p, ok := requirePrincipal(c, session.RoleUser)
	if !ok {
		return nil
	}
	var req bookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx := c.Request().Context()
	res, err := h.Validator.Validate(ctx, booking.Request{
		VenueName: req.VenueName,
		StartTime: req.StartTime,
		Hours:     req.Hours,
	}, h.Now())
	if err != nil {
		return validationError(c, err)
	}
	o := &model.Order{
		UserID:    p.UserID,
		VenueID:   res.Venue.ID,
		StartTime: res.Start,
		Hours:     res.Hours,
	}
	if err := h.Orders.Create(ctx, o); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create order failed"})
	}
	_ = h.Publisher.OrderPlaced(ctx, queue.OrderPlacedEvent{
		OrderID:    o.ID,
		UserID:     p.UserID,
		VenueID:    res.Venue.ID,
		VenueName:  res.Venue.Name,
		StartsAt:   res.Start.Format("2006-01-02 15:04:05"),
		Hours:      res.Hours,
		TotalPrice: uint64(res.Venue.Price) * uint64(res.Hours),
		PlacedAt:   h.Now().UTC().Format(time.RFC3339),
	})
	return c.JSON(http.StatusCreated, orderResp{
		ID: o.ID, VenueID: o.VenueID, VenueName: res.Venue.Name,
		StartTime: o.StartTime, Hours: o.Hours, State: o.State,
	})
}

// Update re-validates and rewrites one of the caller's orders.  The order
// itself is excluded from the conflict scan and its state resets to
// pending for a fresh audit.
func (h *OrderHandler) Update(c echo.Context) error {
	p, ok := requirePrincipal(c, session.RoleUser)
	if !ok {
		return nil
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req bookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx := c.Request().Context()
	res, err := h.Validator.Validate(ctx, booking.Request{
		VenueName:      req.VenueName,
		StartTime:      req.StartTime,
		Hours:          req.Hours,
		ExcludeOrderID: id,
	}, h.Now())
	if err != nil {
		return validationError(c, err)
	}
	o := &model.Order{
		ID:        id,
		VenueID:   res.Venue.ID,
		StartTime: res.Start,
		Hours:     res.Hours,
	}
	if err := h.Orders.UpdateBooking(ctx, o, p.UserID); err != nil {
		switch {
		case errors.Is(err, repository.ErrOrderNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update order failed"})
		}
	}
	return c.JSON(http.StatusOK, orderResp{
		ID: id, VenueID: res.Venue.ID, VenueName: res.Venue.Name,
		StartTime: res.Start, Hours: res.Hours, State: model.OrderStatePending,
	})
}

// Finish moves one of the caller's confirmed orders to the finished state.
func (h *OrderHandler) Finish(c echo.Context) error {
	p, ok := requirePrincipal(c, session.RoleUser)
	if !ok {
		return nil
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	if _, err := h.Orders.GetByIDForUser(ctx, id, p.UserID); err != nil {
		switch {
		case errors.Is(err, repository.ErrOrderNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
	}
	if err := h.Orders.Finish(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrOrderNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		case errors.Is(err, repository.ErrInvalidState):
			return c.JSON(http.StatusConflict, echo.Map{"error": "order is not confirmed"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "finish order failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes one of the caller's orders.
func (h *OrderHandler) Delete(c echo.Context) error {
	p, ok := requirePrincipal(c, session.RoleUser)
	if !ok {
		return nil
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Orders.DeleteByIDAndUser(c.Request().Context(), id, p.UserID); err != nil {
		switch {
		case errors.Is(err, repository.ErrOrderNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete order failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}
