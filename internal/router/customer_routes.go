package router

import (
    "github.com/iliyamo/restaurant-table-reservation/internal/handler"
    "github.com/iliyamo/restaurant-table-reservation/internal/middleware"
    "github.com/labstack/echo/v4"
)

// RegisterGuest registers guest-scoped reservation endpoints under /v1.
// All routes require a valid JWT; guests create and manage their own
// reservations, admins may act on any.
func RegisterGuest(e *echo.Echo, h *handler.ReservationHandler, jwtSecret string) {
    g := e.Group(
        "/v1",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole("GUEST", "ADMIN"),
    )
    // Note: restaurant browsing and availability preview live on the
    // public router; guest-specific endpoints begin here.  The literal
    // /upcoming and /past routes must be registered before the :id
    // parameter route.
    g.GET("/reservations/upcoming", h.UpcomingReservations)
    g.GET("/reservations/past", h.PastReservations)
    g.GET("/reservations", h.MyReservations)
    g.POST("/reservations", h.CreateReservation)
    g.GET("/reservations/:id", h.GetReservation)
    g.PATCH("/reservations/:id", h.UpdateReservation)
    g.PUT("/reservations/:id", h.UpdateReservation)
    g.POST("/reservations/:id/cancel", h.CancelReservation)
}
