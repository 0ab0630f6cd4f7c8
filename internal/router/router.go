package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/motohunt/motohunt-api/internal/handler"
	"github.com/motohunt/motohunt-api/internal/middleware"
	"github.com/motohunt/motohunt-api/internal/model"
)

// RegisterRoutes registers routes that need no session.  Only the health
// check lives here; the catalog has its own group so it can be cached.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/api/health", handler.Health)
}

// RegisterAuth registers the /api/auth endpoints.  limiter guards the two
// credential endpoints; session protects /me.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, session, limiter echo.MiddlewareFunc) {
	g := e.Group("/api/auth")
	g.POST("/register", a.Register, limiter)
	g.POST("/login", a.Login, limiter)
	// Logout only clears the cookie, so it works without a valid session.
	g.POST("/logout", a.Logout)
	g.GET("/me", a.Me, session)
}

// RegisterCatalog registers the public, read-only catalog endpoints behind
// the response cache.
func RegisterCatalog(e *echo.Echo, h *handler.CatalogHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/api", cache)
	g.GET("/brands", h.Brands)
	g.GET("/dealers", h.Dealers)
	g.GET("/bikes", h.Bikes)
	g.GET("/bikes/trending", h.Trending)
	g.GET("/bikes/compare/data", h.Compare)
	g.GET("/bikes/:id", h.Bike)
}

// RegisterTestRides registers the booking endpoints.  Every route needs a
// session; listing everything and confirming are admin only.
func RegisterTestRides(e *echo.Echo, h *handler.TestRideHandler, session echo.MiddlewareFunc) {
	g := e.Group("/api/test-rides", session)
	g.POST("", h.Create)
	g.GET("/user/:userId", h.ListForUser)
	g.PATCH("/:bookingId/cancel", h.Cancel)

	admin := middleware.RequireRole(model.RoleAdmin)
	g.GET("", h.ListAll, admin)
	g.PATCH("/:bookingId/confirm", h.Confirm, admin)
}
