package router

import (
	"github.com/labstack/echo/v4"

	"github.com/venuehub/venue-reservation/internal/handler"
)

// RegisterAuth registers authentication and profile routes.  Register,
// login, refresh and logout live under /v1/auth; the profile endpoints
// live under /v1/me and rely on the session resolved by the global
// authentication middleware.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Refresh rotates the refresh token and returns a new pair.
	g.POST("/refresh", a.Refresh)
	// Logout accepts a refresh_token body for single-session logout, or an
	// authenticated session for revoking every session of the user.
	g.POST("/logout", a.Logout)

	e.GET("/v1/me", a.Me)
	e.PUT("/v1/me", a.UpdateMe)
}

// RegisterUser registers the endpoints an authenticated user operates:
// reservation orders and messages.  The handlers enforce the session
// themselves, so no role middleware is applied here.
func RegisterUser(e *echo.Echo, orders *handler.OrderHandler, messages *handler.MessageHandler) {
	g := e.Group("/v1")

	// Reservation orders.
	g.GET("/orders", orders.List)
	g.POST("/orders", orders.Place)
	g.PUT("/orders/:id", orders.Update)
	g.DELETE("/orders/:id", orders.Delete)
	// A user closes out a confirmed order once the booking is over.
	g.POST("/orders/:id/finish", orders.Finish)

	// Messages.  Listing one's own messages includes pending and rejected
	// ones, unlike the public listing.
	g.GET("/my-messages", messages.ListMine)
	g.POST("/messages", messages.Create)
	g.PUT("/messages/:id", messages.Update)
	g.DELETE("/messages/:id", messages.Delete)
}
