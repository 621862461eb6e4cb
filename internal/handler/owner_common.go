package handler // handler defines http handlers

import (
    "errors"  // errors provides sentinel values used in getUserID
    "strconv" // strconv converts strings to numeric types

    "github.com/iliyamo/restaurant-table-reservation/internal/repository" // repository holds data access layer
    "github.com/labstack/echo/v4"                                         // echo defines request context types
)

// OwnerHandler bundles repositories for owners to manage their
// restaurants and tables.
type OwnerHandler struct {
    RestaurantRepo *repository.RestaurantRepo // RestaurantRepo provides restaurant persistence
    TableRepo      *repository.TableRepo      // TableRepo provides table persistence
}

// NewOwnerHandler constructs a new OwnerHandler and panics if any dependency is nil
func NewOwnerHandler(restaurantRepo *repository.RestaurantRepo, tableRepo *repository.TableRepo) *OwnerHandler {
    if restaurantRepo == nil || tableRepo == nil {
        panic("nil repository passed to NewOwnerHandler")
    }
    return &OwnerHandler{
        RestaurantRepo: restaurantRepo,
        TableRepo:      tableRepo,
    }
}

// getUserID extracts the user_id from echo.Context and converts it to uint64
func getUserID(c echo.Context) (uint64, error) {
    v := c.Get("user_id")
    switch t := v.(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64: // JWT numeric claims decode as float64
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// getRole returns the role claim stored by the JWT middleware, or ""
// when it is absent.
func getRole(c echo.Context) string {
    if role, ok := c.Get("role").(string); ok {
        return role
    }
    return ""
}

// pathID parses the numeric :id (or another named param) from the URL.
func pathID(c echo.Context, name string) (uint64, error) {
    id, err := strconv.ParseUint(c.Param(name), 10, 64)
    if err != nil || id == 0 {
        return 0, errors.New("invalid id")
    }
    return id, nil
}

// parseUintParam parses a non-zero unsigned query parameter.
func parseUintParam(s string) (uint64, error) {
    n, err := strconv.ParseUint(s, 10, 64)
    if err != nil || n == 0 {
        return 0, errors.New("invalid value")
    }
    return n, nil
}
