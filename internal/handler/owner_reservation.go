package handler

import (
    "net/http"
    "strings"
    "time"

    "github.com/iliyamo/restaurant-table-reservation/internal/booking"
    "github.com/iliyamo/restaurant-table-reservation/internal/model"
    "github.com/iliyamo/restaurant-table-reservation/internal/repository"
    "github.com/labstack/echo/v4"
)

// OwnerReservationHandler serves the restaurant-side reservation
// endpoints: listing bookings against the owner's restaurants and
// driving the status lifecycle (confirm, seat, complete, no-show).
type OwnerReservationHandler struct {
    Svc            *booking.Service
    Repo           *repository.ReservationRepo
    RestaurantRepo *repository.RestaurantRepo
}

// NewOwnerReservationHandler constructs an OwnerReservationHandler.
func NewOwnerReservationHandler(svc *booking.Service, repo *repository.ReservationRepo, restaurantRepo *repository.RestaurantRepo) *OwnerReservationHandler {
    if svc == nil || repo == nil || restaurantRepo == nil {
        panic("nil dependency passed to NewOwnerReservationHandler")
    }
    return &OwnerReservationHandler{Svc: svc, Repo: repo, RestaurantRepo: restaurantRepo}
}

// ownsReservation reports whether the user owns the restaurant the
// reservation is placed at.
func (h *OwnerReservationHandler) ownsReservation(c echo.Context, ownerID uint64, r model.Reservation) (bool, error) {
    rest, err := h.RestaurantRepo.GetByID(c.Request().Context(), r.RestaurantID)
    if err != nil {
        return false, err
    }
    return rest.OwnerID == ownerID, nil
}

// UpdateStatus handles PATCH /v1/owner/reservations/:id/status with a
// body of {"status": "..."}.  The transition table decides whether the
// move is legal from the reservation's current status.
func (h *OwnerReservationHandler) UpdateStatus(c echo.Context) error {
    ownerID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var body struct {
        Status string `json:"status"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    requested := strings.ToLower(strings.TrimSpace(body.Status))
    if !model.ValidStatus(requested) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
    }
    existing, err := h.Repo.GetByID(c.Request().Context(), id)
    if err != nil {
        return respondBookingError(c, err)
    }
    if getRole(c) != model.RoleAdmin {
        owns, err := h.ownsReservation(c, ownerID, existing)
        if err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
        }
        if !owns {
            return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
        }
    }
    r, err := h.Svc.ChangeStatus(c.Request().Context(), id, requested)
    if err != nil {
        return respondBookingError(c, err)
    }
    return c.JSON(http.StatusOK, toReservationJSON(r))
}

// ListForRestaurant handles GET /v1/owner/restaurants/:id/reservations.
// Optional query parameters: status, date (exact day).
func (h *OwnerReservationHandler) ListForRestaurant(c echo.Context) error {
    ownerID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    restaurantID, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    rest, err := h.RestaurantRepo.GetByID(c.Request().Context(), restaurantID)
    if err != nil {
        if err == repository.ErrRestaurantNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    if rest.OwnerID != ownerID && getRole(c) != model.RoleAdmin {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }
    filter := repository.ReservationFilter{RestaurantID: restaurantID}
    if s := c.QueryParam("status"); s != "" {
        if !model.ValidStatus(s) {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
        }
        filter.Status = s
    }
    if d := c.QueryParam("date"); d != "" {
        day, err := time.Parse("2006-01-02", d)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
        }
        next := day.AddDate(0, 0, 1)
        filter.DateFrom = &day
        filter.DateBefore = &next
        filter.OrderAsc = true
    }
    items, err := h.Repo.ListDetailed(c.Request().Context(), filter)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListAll handles GET /v1/owner/reservations: every reservation across
// all of the owner's restaurants, newest first.  Admins see every
// reservation in the system.
func (h *OwnerReservationHandler) ListAll(c echo.Context) error {
    ownerID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    filter := repository.ReservationFilter{}
    if getRole(c) != model.RoleAdmin {
        filter.OwnerID = ownerID
    }
    if s := c.QueryParam("status"); s != "" {
        if !model.ValidStatus(s) {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
        }
        filter.Status = s
    }
    items, err := h.Repo.ListDetailed(c.Request().Context(), filter)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}
