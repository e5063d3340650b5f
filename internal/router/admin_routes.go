package router

import (
	"github.com/labstack/echo/v4"

	"github.com/venuehub/venue-reservation/internal/handler"
	"github.com/venuehub/venue-reservation/internal/middleware"
)

// RegisterAdmin registers the management endpoints under /v1/admin.  The
// RequireAdmin middleware rejects anonymous callers with 401 and
// non-admin principals with 403 before any handler runs; the handlers
// repeat the check so they stay safe when mounted elsewhere.
func RegisterAdmin(
	e *echo.Echo,
	venues *handler.AdminVenueHandler,
	news *handler.AdminNewsHandler,
	users *handler.AdminUserHandler,
	messages *handler.AdminMessageHandler,
	orders *handler.AdminOrderHandler,
) {
	g := e.Group("/v1/admin", middleware.RequireAdmin())

	// Venue catalogue management.
	g.GET("/venues", venues.List)
	g.POST("/venues", venues.Create)
	g.PUT("/venues/:id", venues.Update)
	g.DELETE("/venues/:id", venues.Delete)

	// News management.
	g.GET("/news", news.List)
	g.POST("/news", news.Create)
	g.PUT("/news/:id", news.Update)
	g.DELETE("/news/:id", news.Delete)

	// User account management.
	g.GET("/users", users.List)
	g.POST("/users", users.Create)
	g.PUT("/users/:id", users.Update)
	g.DELETE("/users/:id", users.Delete)

	// Message moderation.
	g.GET("/messages", messages.List)
	g.POST("/messages/:id/pass", messages.Pass)
	g.POST("/messages/:id/reject", messages.Reject)
	g.DELETE("/messages/:id", messages.Delete)

	// Order audit.
	g.GET("/orders", orders.List)
	g.POST("/orders/:id/confirm", orders.Confirm)
	g.POST("/orders/:id/reject", orders.Reject)
}
