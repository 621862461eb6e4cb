package handler // handler package contains owner-specific table handlers

import (
    "net/http"
    "strings"

    "github.com/iliyamo/restaurant-table-reservation/internal/model"
    "github.com/iliyamo/restaurant-table-reservation/internal/repository"
    "github.com/labstack/echo/v4"
)

// tableJSON is the wire shape of a table in API responses.
type tableJSON struct {
    ID           uint64 `json:"id"`
    RestaurantID uint64 `json:"restaurant_id"`
    TableNumber  string `json:"table_number"`
    Capacity     uint16 `json:"capacity"`
    Location     string `json:"location"`
    IsAvailable  bool   `json:"is_available"`
}

func toTableJSON(t model.Table) tableJSON {
    return tableJSON{
        ID:           t.ID,
        RestaurantID: t.RestaurantID,
        TableNumber:  t.TableNumber,
        Capacity:     t.Capacity,
        Location:     t.Location,
        IsAvailable:  t.IsAvailable,
    }
}

type tableReq struct {
    TableNumber string `json:"table_number"`
    Capacity    uint16 `json:"capacity"`
    Location    string `json:"location"`
    IsAvailable *bool  `json:"is_available"`
}

func validateTableReq(body *tableReq) map[string]string {
    problems := map[string]string{}
    body.TableNumber = strings.TrimSpace(body.TableNumber)
    if body.TableNumber == "" {
        problems["table_number"] = "table_number is required"
    }
    if body.Capacity == 0 {
        problems["capacity"] = "capacity must be positive"
    }
    body.Location = strings.ToLower(strings.TrimSpace(body.Location))
    if !model.ValidTableLocation(body.Location) {
        problems["location"] = "unknown location"
    }
    return problems
}

// CreateTable handles POST /v1/owner/restaurants/:id/tables.  The
// restaurant must exist and belong to the authenticated owner.
func (h *OwnerHandler) CreateTable(c echo.Context) error {
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
    if rest.OwnerID != ownerID {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }
    var body tableReq
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if problems := validateTableReq(&body); len(problems) > 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"errors": problems})
    }
    t := model.Table{
        RestaurantID: restaurantID,
        TableNumber:  body.TableNumber,
        Capacity:     body.Capacity,
        Location:     body.Location,
    }
    if err := h.TableRepo.Create(c.Request().Context(), &t); err != nil {
        if strings.Contains(err.Error(), "1062") {
            return c.JSON(http.StatusConflict, echo.Map{"error": "table number already exists in this restaurant"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create table"})
    }
    return c.JSON(http.StatusCreated, toTableJSON(t))
}

// UpdateTable handles PUT /v1/owner/tables/:id.
func (h *OwnerHandler) UpdateTable(c echo.Context) error {
    ownerID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var body tableReq
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if problems := validateTableReq(&body); len(problems) > 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"errors": problems})
    }
    t := model.Table{
        ID:          id,
        TableNumber: body.TableNumber,
        Capacity:    body.Capacity,
        Location:    body.Location,
        IsAvailable: true,
    }
    if body.IsAvailable != nil {
        t.IsAvailable = *body.IsAvailable
    }
    if err := h.TableRepo.Update(c.Request().Context(), ownerID, &t); err != nil {
        switch err {
        case repository.ErrTableNotFound:
            return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
        case repository.ErrForbidden:
            return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
        }
        if strings.Contains(err.Error(), "1062") {
            return c.JSON(http.StatusConflict, echo.Map{"error": "table number already exists in this restaurant"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
    }
    return c.JSON(http.StatusOK, toTableJSON(t))
}

// ListTables handles GET /v1/owner/restaurants/:id/tables.
func (h *OwnerHandler) ListTables(c echo.Context) error {
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
    if rest.OwnerID != ownerID {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }
    items, err := h.TableRepo.ListByRestaurant(c.Request().Context(), restaurantID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    out := make([]tableJSON, 0, len(items))
    for _, t := range items {
        out = append(out, toTableJSON(t))
    }
    return c.JSON(http.StatusOK, echo.Map{"items": out})
}
