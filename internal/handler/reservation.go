package handler

import (
    "net/http"
    "time"

    "github.com/iliyamo/restaurant-table-reservation/internal/booking"
    "github.com/iliyamo/restaurant-table-reservation/internal/model"
    "github.com/iliyamo/restaurant-table-reservation/internal/repository"
    "github.com/labstack/echo/v4"
)

// ReservationHandler serves the guest-facing reservation endpoints.
// Every mutation goes through the booking service so the invariant
// checker and the status transition table are consulted on each path;
// the repository is used directly only for reads.
type ReservationHandler struct {
    Svc  *booking.Service
    Repo *repository.ReservationRepo
}

// NewReservationHandler constructs a ReservationHandler.
func NewReservationHandler(svc *booking.Service, repo *repository.ReservationRepo) *ReservationHandler {
    if svc == nil || repo == nil {
        panic("nil dependency passed to NewReservationHandler")
    }
    return &ReservationHandler{Svc: svc, Repo: repo}
}

// reservationJSON is the wire shape of a single reservation.
type reservationJSON struct {
    ID              uint64 `json:"id"`
    UserID          uint64 `json:"user_id"`
    RestaurantID    uint64 `json:"restaurant_id"`
    TableID         uint64 `json:"table_id"`
    Date            string `json:"date"`
    TimeSlot        string `json:"time_slot"`
    GuestsCount     uint16 `json:"guests_count"`
    Status          string `json:"status"`
    SpecialRequests string `json:"special_requests,omitempty"`
}

func toReservationJSON(r model.Reservation) reservationJSON {
    return reservationJSON{
        ID:              r.ID,
        UserID:          r.UserID,
        RestaurantID:    r.RestaurantID,
        TableID:         r.TableID,
        Date:            r.Date.Format("2006-01-02"),
        TimeSlot:        r.TimeSlot,
        GuestsCount:     r.GuestsCount,
        Status:          r.Status,
        SpecialRequests: r.SpecialRequests,
    }
}

type createReservationReq struct {
    RestaurantID    uint64 `json:"restaurant_id"`
    TableID         uint64 `json:"table_id"`
    Date            string `json:"date"`      // YYYY-MM-DD
    TimeSlot        string `json:"time_slot"` // HH:MM or HH:MM:SS
    GuestsCount     uint16 `json:"guests_count"`
    SpecialRequests string `json:"special_requests"`
}

type updateReservationReq struct {
    Date            *string `json:"date"`
    TimeSlot        *string `json:"time_slot"`
    GuestsCount     *uint16 `json:"guests_count"`
    SpecialRequests *string `json:"special_requests"`
}

// respondBookingError translates the booking and repository error
// vocabulary into HTTP responses.  Accumulated rule violations come
// back as a 400 with the full field->messages map; unknown referenced
// records are 404s; losing the commit-time slot race and illegal
// status transitions are conflicts.
func respondBookingError(c echo.Context, err error) error {
    switch e := err.(type) {
    case *booking.ValidationError:
        return c.JSON(http.StatusBadRequest, echo.Map{"errors": e.Fields})
    case *booking.TransitionError:
        return c.JSON(http.StatusConflict, echo.Map{"error": e.Error()})
    }
    switch err {
    case repository.ErrReservationNotFound:
        return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
    case repository.ErrRestaurantNotFound:
        return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
    case repository.ErrTableNotFound:
        return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
    case repository.ErrSlotTaken:
        return c.JSON(http.StatusConflict, echo.Map{"error": "slot no longer available"})
    case booking.ErrNotEditable:
        return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
    case booking.ErrAlreadyCancelled, booking.ErrCannotCancelTerminal:
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// CreateReservation handles POST /v1/reservations.
func (h *ReservationHandler) CreateReservation(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var body createReservationReq
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    problems := map[string]string{}
    if body.RestaurantID == 0 {
        problems["restaurant_id"] = "restaurant_id is required"
    }
    if body.TableID == 0 {
        problems["table_id"] = "table_id is required"
    }
    date, err := time.Parse("2006-01-02", body.Date)
    if err != nil {
        problems["date"] = "date must be YYYY-MM-DD"
    }
    slot, err := model.NormalizeTimeSlot(body.TimeSlot)
    if err != nil {
        problems["time_slot"] = "time_slot must be HH:MM"
    }
    if body.GuestsCount < model.MinGuests || body.GuestsCount > model.MaxGuests {
        problems["guests_count"] = "guests_count must be between 1 and 20"
    }
    if len(problems) > 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"errors": problems})
    }
    cand := booking.Candidate{
        RestaurantID: body.RestaurantID,
        TableID:      body.TableID,
        Date:         date,
        TimeSlot:     slot,
        GuestsCount:  body.GuestsCount,
    }
    r, err := h.Svc.Create(c.Request().Context(), userID, cand, body.SpecialRequests)
    if err != nil {
        return respondBookingError(c, err)
    }
    return c.JSON(http.StatusCreated, toReservationJSON(r))
}

// GetReservation handles GET /v1/reservations/:id.  Guests may only
// read their own reservations; admins may read any.
func (h *ReservationHandler) GetReservation(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    r, err := h.Repo.GetByID(c.Request().Context(), id)
    if err != nil {
        return respondBookingError(c, err)
    }
    if r.UserID != userID && getRole(c) != model.RoleAdmin {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }
    return c.JSON(http.StatusOK, toReservationJSON(r))
}

// UpdateReservation handles PATCH /v1/reservations/:id.  Only the
// reservation's own guest (or an admin) may edit, and only while the
// reservation is still pending or confirmed.
func (h *ReservationHandler) UpdateReservation(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    existing, err := h.Repo.GetByID(c.Request().Context(), id)
    if err != nil {
        return respondBookingError(c, err)
    }
    if existing.UserID != userID && getRole(c) != model.RoleAdmin {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }
    var body updateReservationReq
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    var upd booking.DetailsUpdate
    problems := map[string]string{}
    if body.Date != nil {
        date, err := time.Parse("2006-01-02", *body.Date)
        if err != nil {
            problems["date"] = "date must be YYYY-MM-DD"
        } else {
            upd.Date = &date
        }
    }
    if body.TimeSlot != nil {
        slot, err := model.NormalizeTimeSlot(*body.TimeSlot)
        if err != nil {
            problems["time_slot"] = "time_slot must be HH:MM"
        } else {
            upd.TimeSlot = &slot
        }
    }
    if body.GuestsCount != nil {
        if *body.GuestsCount < model.MinGuests || *body.GuestsCount > model.MaxGuests {
            problems["guests_count"] = "guests_count must be between 1 and 20"
        } else {
            upd.GuestsCount = body.GuestsCount
        }
    }
    upd.SpecialRequests = body.SpecialRequests
    if len(problems) > 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"errors": problems})
    }
    r, err := h.Svc.Update(c.Request().Context(), id, upd)
    if err != nil {
        return respondBookingError(c, err)
    }
    return c.JSON(http.StatusOK, toReservationJSON(r))
}

// CancelReservation handles POST /v1/reservations/:id/cancel.
func (h *ReservationHandler) CancelReservation(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    existing, err := h.Repo.GetByID(c.Request().Context(), id)
    if err != nil {
        return respondBookingError(c, err)
    }
    if existing.UserID != userID && getRole(c) != model.RoleAdmin {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }
    r, err := h.Svc.Cancel(c.Request().Context(), id)
    if err != nil {
        return respondBookingError(c, err)
    }
    return c.JSON(http.StatusOK, toReservationJSON(r))
}

// MyReservations handles GET /v1/reservations and returns all of the
// guest's reservations, newest first.
func (h *ReservationHandler) MyReservations(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    filter := repository.ReservationFilter{UserID: userID}
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

// UpcomingReservations handles GET /v1/reservations/upcoming: the
// guest's reservations from today onward that are not cancelled or
// swept, soonest first.
func (h *ReservationHandler) UpcomingReservations(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    today := model.DateOnly(time.Now().UTC())
    items, err := h.Repo.ListDetailed(c.Request().Context(), repository.ReservationFilter{
        UserID:          userID,
        DateFrom:        &today,
        ExcludeStatuses: []string{model.StatusCancelled, model.StatusNoShow, model.StatusCompleted},
        OrderAsc:        true,
    })
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// PastReservations handles GET /v1/reservations/past: reservations
// dated before today, newest first.
func (h *ReservationHandler) PastReservations(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    today := model.DateOnly(time.Now().UTC())
    items, err := h.Repo.ListDetailed(c.Request().Context(), repository.ReservationFilter{
        UserID:     userID,
        DateBefore: &today,
    })
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}
