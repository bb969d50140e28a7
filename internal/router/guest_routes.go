package router

import (
	"github.com/labstack/echo/v4"

	"github.com/homigo/booking-api/internal/handler"
	"github.com/homigo/booking-api/internal/middleware"
)

// RegisterGuest registers the guest booking endpoints. All of them
// require a valid access token with the GUEST role. Booking writes are
// deliberately outside any response cache.
func RegisterGuest(e *echo.Echo, b *handler.BookingHandler, rv *handler.ReviewHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(handler.RoleGuest))

	g.POST("/bookings", b.Create)
	g.GET("/my-bookings", b.ListMine)
	g.GET("/bookings/:id", b.Get)
	g.DELETE("/bookings/:id", b.Cancel)

	g.POST("/properties/:id/reviews", rv.Create)
}
