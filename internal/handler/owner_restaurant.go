package handler // handler package contains owner-specific restaurant handlers

import (
    "net/http" // http provides status code constants
    "strings"  // strings offers trimming utilities

    "github.com/iliyamo/restaurant-table-reservation/internal/model"      // model holds domain entities
    "github.com/iliyamo/restaurant-table-reservation/internal/repository" // repository holds data access layer
    "github.com/labstack/echo/v4"                                         // echo is the web framework used for handlers
)

// restaurantJSON is the wire shape of a restaurant in API responses.
type restaurantJSON struct {
    ID          uint64 `json:"id"`
    OwnerID     uint64 `json:"owner_id"`
    Name        string `json:"name"`
    Description string `json:"description,omitempty"`
    CuisineType string `json:"cuisine_type"`
    Phone       string `json:"phone"`
    Email       string `json:"email"`
    Address     string `json:"address"`
    City        string `json:"city"`
    OpeningTime string `json:"opening_time"`
    ClosingTime string `json:"closing_time"`
    IsActive    bool   `json:"is_active"`
}

func toRestaurantJSON(r model.Restaurant) restaurantJSON {
    return restaurantJSON{
        ID:          r.ID,
        OwnerID:     r.OwnerID,
        Name:        r.Name,
        Description: r.Description,
        CuisineType: r.CuisineType,
        Phone:       r.Phone,
        Email:       r.Email,
        Address:     r.Address,
        City:        r.City,
        OpeningTime: r.OpeningTime,
        ClosingTime: r.ClosingTime,
        IsActive:    r.IsActive,
    }
}

type restaurantReq struct {
    Name        string `json:"name"`
    Description string `json:"description"`
    CuisineType string `json:"cuisine_type"`
    Phone       string `json:"phone"`
    Email       string `json:"email"`
    Address     string `json:"address"`
    City        string `json:"city"`
    OpeningTime string `json:"opening_time"`
    ClosingTime string `json:"closing_time"`
    IsActive    *bool  `json:"is_active"`
}

// validateRestaurantReq trims and checks the writable fields, returning
// a field->message map for anything invalid.  Opening and closing times
// are normalized to "HH:MM:SS" so they compare as TIME strings.
func validateRestaurantReq(body *restaurantReq) map[string]string {
    problems := map[string]string{}
    body.Name = strings.TrimSpace(body.Name)
    if body.Name == "" {
        problems["name"] = "name is required"
    }
    body.CuisineType = strings.ToLower(strings.TrimSpace(body.CuisineType))
    if !model.ValidCuisine(body.CuisineType) {
        problems["cuisine_type"] = "unknown cuisine type"
    }
    open, err := model.NormalizeTimeSlot(body.OpeningTime)
    if err != nil {
        problems["opening_time"] = "invalid time, expected HH:MM"
    } else {
        body.OpeningTime = open
    }
    closing, err := model.NormalizeTimeSlot(body.ClosingTime)
    if err != nil {
        problems["closing_time"] = "invalid time, expected HH:MM"
    } else {
        body.ClosingTime = closing
    }
    if len(problems) == 0 && body.ClosingTime <= body.OpeningTime {
        problems["closing_time"] = "closing time must be after opening time"
    }
    return problems
}

// CreateRestaurant handles POST /v1/owner/restaurants.
func (h *OwnerHandler) CreateRestaurant(c echo.Context) error {
    ownerID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var body restaurantReq
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if problems := validateRestaurantReq(&body); len(problems) > 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"errors": problems})
    }
    rest := model.Restaurant{
        OwnerID:     ownerID,
        Name:        body.Name,
        Description: strings.TrimSpace(body.Description),
        CuisineType: body.CuisineType,
        Phone:       strings.TrimSpace(body.Phone),
        Email:       strings.TrimSpace(body.Email),
        Address:     strings.TrimSpace(body.Address),
        City:        strings.TrimSpace(body.City),
        OpeningTime: body.OpeningTime,
        ClosingTime: body.ClosingTime,
    }
    if err := h.RestaurantRepo.Create(c.Request().Context(), &rest); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create restaurant"})
    }
    return c.JSON(http.StatusCreated, toRestaurantJSON(rest))
}

// UpdateRestaurant handles PUT /v1/owner/restaurants/:id.
func (h *OwnerHandler) UpdateRestaurant(c echo.Context) error {
    ownerID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var body restaurantReq
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if problems := validateRestaurantReq(&body); len(problems) > 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"errors": problems})
    }
    rest := model.Restaurant{
        ID:          id,
        Name:        body.Name,
        Description: strings.TrimSpace(body.Description),
        CuisineType: body.CuisineType,
        Phone:       strings.TrimSpace(body.Phone),
        Email:       strings.TrimSpace(body.Email),
        Address:     strings.TrimSpace(body.Address),
        City:        strings.TrimSpace(body.City),
        OpeningTime: body.OpeningTime,
        ClosingTime: body.ClosingTime,
        IsActive:    true,
    }
    if body.IsActive != nil {
        rest.IsActive = *body.IsActive
    }
    if err := h.RestaurantRepo.Update(c.Request().Context(), ownerID, &rest); err != nil {
        switch err {
        case repository.ErrRestaurantNotFound:
            return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
        case repository.ErrForbidden:
            return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
    }
    return c.JSON(http.StatusOK, toRestaurantJSON(rest))
}

// ListRestaurants handles GET /v1/owner/restaurants and returns all
// restaurants owned by the authenticated user.
func (h *OwnerHandler) ListRestaurants(c echo.Context) error {
    ownerID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    items, err := h.RestaurantRepo.ListByOwner(c.Request().Context(), ownerID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    out := make([]restaurantJSON, 0, len(items))
    for _, r := range items {
        out = append(out, toRestaurantJSON(r))
    }
    return c.JSON(http.StatusOK, echo.Map{"items": out})
}
