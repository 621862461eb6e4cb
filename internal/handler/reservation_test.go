package handler

import (
    "context"
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/restaurant-table-reservation/internal/booking"
    "github.com/iliyamo/restaurant-table-reservation/internal/model"
    "github.com/iliyamo/restaurant-table-reservation/internal/repository"
)

func newTestContext(t *testing.T, target string) (echo.Context, *httptest.ResponseRecorder) {
    t.Helper()
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, target, nil)
    rec := httptest.NewRecorder()
    return e.NewContext(req, rec), rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
    t.Helper()
    var body map[string]any
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
    return body
}

// Every error the booking paths can produce must map to a deliberate
// status code; in particular an unknown restaurant or table id is a
// 404, never a generic 500.
func TestRespondBookingErrorStatusCodes(t *testing.T) {
    cases := []struct {
        name       string
        err        error
        wantStatus int
        wantError  string
    }{
        {"reservation not found", repository.ErrReservationNotFound, http.StatusNotFound, "reservation not found"},
        {"restaurant not found", repository.ErrRestaurantNotFound, http.StatusNotFound, "restaurant not found"},
        {"table not found", repository.ErrTableNotFound, http.StatusNotFound, "table not found"},
        {"slot taken", repository.ErrSlotTaken, http.StatusConflict, "slot no longer available"},
        {"not editable", booking.ErrNotEditable, http.StatusConflict, booking.ErrNotEditable.Error()},
        {"already cancelled", booking.ErrAlreadyCancelled, http.StatusBadRequest, booking.ErrAlreadyCancelled.Error()},
        {"cannot cancel terminal", booking.ErrCannotCancelTerminal, http.StatusBadRequest, booking.ErrCannotCancelTerminal.Error()},
        {"transition rejected", &booking.TransitionError{Current: "cancelled", Requested: "no_show"}, http.StatusConflict, ""},
        {"unexpected", context.DeadlineExceeded, http.StatusInternalServerError, "internal error"},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            c, rec := newTestContext(t, "/")
            require.NoError(t, respondBookingError(c, tc.err))
            assert.Equal(t, tc.wantStatus, rec.Code)
            if tc.wantError != "" {
                body := decodeBody(t, rec)
                assert.Equal(t, tc.wantError, body["error"])
            }
        })
    }
}

func TestRespondBookingErrorValidation(t *testing.T) {
    c, rec := newTestContext(t, "/")
    verr := &booking.ValidationError{Fields: map[string][]string{
        "date": {"reservation date cannot be in the past"},
    }}
    require.NoError(t, respondBookingError(c, verr))
    assert.Equal(t, http.StatusBadRequest, rec.Code)
    body := decodeBody(t, rec)
    assert.Contains(t, body, "errors")
}

// stubDirectory feeds the availability checker fixed lookup results.
type stubDirectory struct {
    restaurant    model.Restaurant
    restaurantErr error
    table         model.Table
    tableErr      error
}

func (d stubDirectory) GetRestaurant(context.Context, uint64) (model.Restaurant, error) {
    return d.restaurant, d.restaurantErr
}

func (d stubDirectory) GetTable(context.Context, uint64) (model.Table, error) {
    return d.table, d.tableErr
}

type stubConflicts struct{}

func (stubConflicts) HasConflict(context.Context, uint64, time.Time, string, uint64) (bool, error) {
    return false, nil
}

func availabilityContext(t *testing.T, dir stubDirectory) (echo.Context, *httptest.ResponseRecorder, *PublicHandler) {
    t.Helper()
    c, rec := newTestContext(t, "/v1/restaurants/1/availability?table_id=99&date=2030-05-01&time=18:00&guests=2")
    c.SetParamNames("id")
    c.SetParamValues("1")
    h := &PublicHandler{Checker: &booking.Checker{
        Dir:       dir,
        Conflicts: stubConflicts{},
        Clock:     booking.SystemClock{},
    }}
    return c, rec, h
}

// An availability preview against an id that does not exist answers
// 404, not a database failure.
func TestCheckAvailabilityUnknownReferences(t *testing.T) {
    t.Run("unknown table", func(t *testing.T) {
        c, rec, h := availabilityContext(t, stubDirectory{
            restaurant: model.Restaurant{ID: 1, IsActive: true, OpeningTime: "10:00:00", ClosingTime: "22:00:00"},
            tableErr:   repository.ErrTableNotFound,
        })
        require.NoError(t, h.CheckAvailability(c))
        assert.Equal(t, http.StatusNotFound, rec.Code)
        assert.Equal(t, "table not found", decodeBody(t, rec)["error"])
    })

    t.Run("unknown restaurant", func(t *testing.T) {
        c, rec, h := availabilityContext(t, stubDirectory{
            restaurantErr: repository.ErrRestaurantNotFound,
        })
        require.NoError(t, h.CheckAvailability(c))
        assert.Equal(t, http.StatusNotFound, rec.Code)
        assert.Equal(t, "restaurant not found", decodeBody(t, rec)["error"])
    })
}
