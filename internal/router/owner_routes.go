package router // router defines how HTTP routes are registered for the API

import (
    "github.com/iliyamo/restaurant-table-reservation/internal/handler"    // owner handlers
    "github.com/iliyamo/restaurant-table-reservation/internal/middleware" // JWT + role middlewares
    "github.com/labstack/echo/v4"
)

// RegisterOwner registers OWNER-scoped endpoints under /v1/owner.
// All routes require a valid JWT and OWNER or ADMIN role.
func RegisterOwner(e *echo.Echo, o *handler.OwnerHandler, r *handler.OwnerReservationHandler, jwtSecret string) {
    // Attach middlewares at group construction time for clarity.
    g := e.Group(
        "/v1/owner",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole("OWNER", "ADMIN"),
    )

    // ---- Restaurants ----
    g.POST("/restaurants", o.CreateRestaurant)
    g.GET("/restaurants", o.ListRestaurants)
    g.PUT("/restaurants/:id", o.UpdateRestaurant)
    g.PATCH("/restaurants/:id", o.UpdateRestaurant) // allow partial/semantic updates via PATCH as well

    // ---- Tables ----
    g.POST("/restaurants/:id/tables", o.CreateTable)
    g.GET("/restaurants/:id/tables", o.ListTables)
    g.PUT("/tables/:id", o.UpdateTable)
    g.PATCH("/tables/:id", o.UpdateTable)

    // ---- Reservations ----
    g.GET("/reservations", r.ListAll)
    g.GET("/restaurants/:id/reservations", r.ListForRestaurant)
    g.PATCH("/reservations/:id/status", r.UpdateStatus)
}
