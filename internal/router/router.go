package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/venuehub/venue-reservation/internal/handler" // import the handlers that implement business logic
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterPublic registers unauthenticated browse endpoints on the provided
// Echo instance.  The PublicHandler returns sanitized venue, news and
// message data for guest users.  Any supplied middleware (response cache,
// rate limiter) is applied to these routes only.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, mws ...echo.MiddlewareFunc) {
	g := e.Group("/v1", mws...)
	// Venue catalogue: paged listing plus detail view.
	g.GET("/venues", p.ListVenues)
	g.GET("/venues/:id", p.GetVenue)
	// News feed, newest first.
	g.GET("/news", p.ListNews)
	g.GET("/news/:id", p.GetNews)
	// Moderated messages; only passed messages appear here.
	g.GET("/messages", p.ListMessages)
}
