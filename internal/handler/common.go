// Package handler exposes the HTTP handlers of the reservation service.
// Handlers resolve the request session first, then validate input, then
// touch the stores; errors surface as {"error": reason} JSON bodies.
package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/venuehub/venue-reservation/internal/middleware"
	"github.com/venuehub/venue-reservation/internal/pagination"
	"github.com/venuehub/venue-reservation/internal/queue"
	"github.com/venuehub/venue-reservation/internal/session"
	queue_publisher "github.com/venuehub/venue-reservation/internal/service"
)

// EventPublisher sends domain events to the message broker.  Handlers hold
// the interface so tests can substitute a stub; failures are logged by the
// implementation and never abort the request.
type EventPublisher interface {
	OrderPlaced(ctx context.Context, ev queue.OrderPlacedEvent) error
	OrderAudited(ctx context.Context, ev queue.OrderAuditedEvent) error
}

// AMQPPublisher is the RabbitMQ-backed EventPublisher used in production.
type AMQPPublisher struct{}

func (AMQPPublisher) OrderPlaced(ctx context.Context, ev queue.OrderPlacedEvent) error {
	return queue_publisher.PublishOrderPlaced(ctx, ev)
}

func (AMQPPublisher) OrderAudited(ctx context.Context, ev queue.OrderAuditedEvent) error {
	return queue_publisher.PublishOrderAudited(ctx, ev)
}

// requirePrincipal resolves the request session and enforces the given role.
// On failure it writes the guard response (401 when not logged in, 403 when
// the role is insufficient) and returns ok=false.
func requirePrincipal(c echo.Context, role session.Role) (session.Principal, bool) {
	p, err := session.Require(middleware.CurrentSession(c), role)
	if err == nil {
		return p, true
	}
	if err == session.ErrUnauthorized {
		_ = c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	} else {
		_ = c.JSON(http.StatusUnauthorized, echo.Map{"error": "not logged in"})
	}
	return session.Principal{}, false
}

// pathID parses the :id path parameter as an unsigned integer.
func pathID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// pageFromQuery reads the 1-based "page" query parameter.  A missing
// parameter means page 1; an unparsable one yields page 0 so that the
// strict policy rejects it and the clamped policy snaps it to 1.
func pageFromQuery(c echo.Context, size int) pagination.Request {
	raw := c.QueryParam("page")
	if raw == "" {
		return pagination.Request{Page: 1, Size: size}
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		page = 0
	}
	return pagination.Request{Page: page, Size: size}
}

// pageOf assembles a Page response from a listed slice and its totals.
func pageOf[T any](items []T, page int, total int64, size int) pagination.Page[T] {
	if items == nil {
		items = []T{}
	}
	return pagination.Page[T]{
		Items:         items,
		Page:          page,
		TotalPages:    pagination.TotalPages(total, size),
		TotalElements: total,
	}
}
