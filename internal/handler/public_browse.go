package handler

import (
    "net/http"
    "time"

    "github.com/iliyamo/restaurant-table-reservation/internal/booking"
    "github.com/iliyamo/restaurant-table-reservation/internal/model"
    "github.com/iliyamo/restaurant-table-reservation/internal/repository"
    "github.com/labstack/echo/v4"
)

// PublicHandler serves unauthenticated browse endpoints: restaurant
// search, restaurant details and table listings.  Responses are
// sanitized so guests never see owner identifiers.
type PublicHandler struct {
    RestaurantRepo *repository.RestaurantRepo
    TableRepo      *repository.TableRepo
    Checker        *booking.Checker
}

// NewPublicHandler constructs a PublicHandler.
func NewPublicHandler(restaurantRepo *repository.RestaurantRepo, tableRepo *repository.TableRepo, checker *booking.Checker) *PublicHandler {
    if restaurantRepo == nil || tableRepo == nil {
        panic("nil repository passed to NewPublicHandler")
    }
    return &PublicHandler{RestaurantRepo: restaurantRepo, TableRepo: tableRepo, Checker: checker}
}

// publicRestaurantJSON is the guest-facing shape of a restaurant.
type publicRestaurantJSON struct {
    ID          uint64 `json:"id"`
    Name        string `json:"name"`
    Description string `json:"description,omitempty"`
    CuisineType string `json:"cuisine_type"`
    Phone       string `json:"phone"`
    Address     string `json:"address"`
    City        string `json:"city"`
    OpeningTime string `json:"opening_time"`
    ClosingTime string `json:"closing_time"`
}

func toPublicRestaurant(r model.Restaurant) publicRestaurantJSON {
    return publicRestaurantJSON{
        ID:          r.ID,
        Name:        r.Name,
        Description: r.Description,
        CuisineType: r.CuisineType,
        Phone:       r.Phone,
        Address:     r.Address,
        City:        r.City,
        OpeningTime: r.OpeningTime,
        ClosingTime: r.ClosingTime,
    }
}

// SearchRestaurants handles GET /v1/restaurants.  Optional query
// parameters `name`, `city` and `cuisine` narrow the result; only
// active restaurants are returned.
func (h *PublicHandler) SearchRestaurants(c echo.Context) error {
    items, err := h.RestaurantRepo.Search(c.Request().Context(),
        c.QueryParam("name"), c.QueryParam("city"), c.QueryParam("cuisine"))
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    out := make([]publicRestaurantJSON, 0, len(items))
    for _, r := range items {
        out = append(out, toPublicRestaurant(r))
    }
    return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetRestaurant handles GET /v1/restaurants/:id.
func (h *PublicHandler) GetRestaurant(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    rest, err := h.RestaurantRepo.GetByID(c.Request().Context(), id)
    if err != nil {
        if err == repository.ErrRestaurantNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    if !rest.IsActive {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
    }
    return c.JSON(http.StatusOK, toPublicRestaurant(rest))
}

// ListRestaurantTables handles GET /v1/restaurants/:id/tables and
// returns the available tables guests can pick from.
func (h *PublicHandler) ListRestaurantTables(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    rest, err := h.RestaurantRepo.GetByID(c.Request().Context(), id)
    if err != nil {
        if err == repository.ErrRestaurantNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    if !rest.IsActive {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
    }
    items, err := h.TableRepo.ListByRestaurant(c.Request().Context(), id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    out := make([]tableJSON, 0, len(items))
    for _, t := range items {
        if !t.IsAvailable {
            continue
        }
        out = append(out, toTableJSON(t))
    }
    return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// CheckAvailability handles GET /v1/restaurants/:id/availability.  It
// runs the same validation a reservation create would, without writing
// anything, so clients can preview whether a slot is bookable.  Query
// parameters: table_id, date (YYYY-MM-DD), time (HH:MM), guests.
func (h *PublicHandler) CheckAvailability(c echo.Context) error {
    restaurantID, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    cand, errs := bindCandidate(c, restaurantID)
    if len(errs) > 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
    }
    if err := h.Checker.Check(c.Request().Context(), cand); err != nil {
        if verr, ok := err.(*booking.ValidationError); ok {
            return c.JSON(http.StatusOK, echo.Map{"available": false, "reasons": verr.Fields})
        }
        switch err {
        case repository.ErrRestaurantNotFound:
            return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
        case repository.ErrTableNotFound:
            return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"available": true})
}

// bindCandidate assembles a booking.Candidate from availability query
// parameters, collecting per-field problems instead of failing fast.
func bindCandidate(c echo.Context, restaurantID uint64) (booking.Candidate, map[string]string) {
    problems := map[string]string{}
    cand := booking.Candidate{RestaurantID: restaurantID}

    tableID, err := parseUintParam(c.QueryParam("table_id"))
    if err != nil {
        problems["table_id"] = "table_id is required"
    }
    cand.TableID = tableID

    date, err := time.Parse("2006-01-02", c.QueryParam("date"))
    if err != nil {
        problems["date"] = "date must be YYYY-MM-DD"
    }
    cand.Date = date

    slot, err := model.NormalizeTimeSlot(c.QueryParam("time"))
    if err != nil {
        problems["time"] = "time must be HH:MM"
    }
    cand.TimeSlot = slot

    guests, err := parseUintParam(c.QueryParam("guests"))
    if err != nil || guests == 0 || guests > model.MaxGuests {
        problems["guests"] = "guests must be between 1 and 20"
    }
    cand.GuestsCount = uint16(guests)

    return cand, problems
}
