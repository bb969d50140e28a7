package router

import (
	"github.com/labstack/echo/v4"

	"github.com/homigo/booking-api/internal/handler"
	"github.com/homigo/booking-api/internal/middleware"
)

// RegisterHost registers the listing management endpoints. All of them
// require a valid access token with the HOST role and operate only on
// the caller's own properties.
func RegisterHost(e *echo.Echo, h *handler.HostPropertyHandler, jwtSecret string) {
	g := e.Group("/v1/host/properties")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(handler.RoleHost))

	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}
