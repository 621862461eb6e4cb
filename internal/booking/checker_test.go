package booking_test

import (
    "context"
    "fmt"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/restaurant-table-reservation/internal/booking"
    "github.com/iliyamo/restaurant-table-reservation/internal/model"
    "github.com/iliyamo/restaurant-table-reservation/internal/repository"
)

// fixedClock pins "now" for deterministic date checks.
type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

// fakeDirectory serves restaurants and tables from maps.
type fakeDirectory struct {
    restaurants map[uint64]model.Restaurant
    tables      map[uint64]model.Table
}

func (d *fakeDirectory) GetRestaurant(_ context.Context, id uint64) (model.Restaurant, error) {
    r, ok := d.restaurants[id]
    if !ok {
        return model.Restaurant{}, repository.ErrRestaurantNotFound
    }
    return r, nil
}

func (d *fakeDirectory) GetTable(_ context.Context, id uint64) (model.Table, error) {
    t, ok := d.tables[id]
    if !ok {
        return model.Table{}, repository.ErrTableNotFound
    }
    return t, nil
}

// fakeConflicts reports a conflict for every key in taken, keyed as
// tableID|date|slot, honoring excludeID.
type fakeConflicts struct {
    taken map[string]uint64 // key -> reservation id occupying it
}

func conflictKey(tableID uint64, date time.Time, slot string) string {
    return fmt.Sprintf("%d|%s|%s", tableID, date.Format("2006-01-02"), slot)
}

func (f *fakeConflicts) HasConflict(_ context.Context, tableID uint64, date time.Time, slot string, excludeID uint64) (bool, error) {
    id, ok := f.taken[conflictKey(tableID, date, slot)]
    if !ok {
        return false, nil
    }
    return id != excludeID, nil
}

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestChecker() (*booking.Checker, *fakeDirectory, *fakeConflicts) {
    dir := &fakeDirectory{
        restaurants: map[uint64]model.Restaurant{
            1: {
                ID: 1, OwnerID: 10, Name: "Trattoria", CuisineType: model.CuisineItalian,
                OpeningTime: "10:00:00", ClosingTime: "22:00:00", IsActive: true,
            },
        },
        tables: map[uint64]model.Table{
            5: {ID: 5, RestaurantID: 1, TableNumber: "T1", Capacity: 4, IsAvailable: true},
        },
    }
    conflicts := &fakeConflicts{taken: map[string]uint64{}}
    return &booking.Checker{Dir: dir, Conflicts: conflicts, Clock: fixedClock{testNow}}, dir, conflicts
}

func validCandidate() booking.Candidate {
    return booking.Candidate{
        RestaurantID: 1,
        TableID:      5,
        Date:         testNow.AddDate(0, 0, 1),
        TimeSlot:     "19:00:00",
        GuestsCount:  2,
    }
}

func TestCheckValidCandidate(t *testing.T) {
    ch, _, _ := newTestChecker()
    require.NoError(t, ch.Check(context.Background(), validCandidate()))
}

func TestCheckPastDate(t *testing.T) {
    ch, _, _ := newTestChecker()
    cand := validCandidate()
    cand.Date = testNow.AddDate(0, 0, -1)

    err := ch.Check(context.Background(), cand)
    verr := requireValidationError(t, err)
    assert.Equal(t, []string{"reservation date cannot be in the past"}, verr.Fields["date"])
}

func TestCheckSameDayIsAllowed(t *testing.T) {
    ch, _, _ := newTestChecker()
    cand := validCandidate()
    // Same calendar day, even though the wall clock is past midnight.
    cand.Date = testNow

    require.NoError(t, ch.Check(context.Background(), cand))
}

func TestCheckOutsideOperatingHours(t *testing.T) {
    ch, _, _ := newTestChecker()

    for _, slot := range []string{"09:59:59", "22:00:00", "23:30:00"} {
        cand := validCandidate()
        cand.TimeSlot = slot
        err := ch.Check(context.Background(), cand)
        verr := requireValidationError(t, err)
        assert.Equal(t,
            []string{"reservation time must be between 10:00:00 and 22:00:00"},
            verr.Fields["time_slot"], "slot %s", slot)
    }

    // The opening boundary itself is bookable.
    cand := validCandidate()
    cand.TimeSlot = "10:00:00"
    require.NoError(t, ch.Check(context.Background(), cand))
}

func TestCheckGuestsOverCapacity(t *testing.T) {
    ch, _, _ := newTestChecker()
    cand := validCandidate()
    cand.GuestsCount = 5

    err := ch.Check(context.Background(), cand)
    verr := requireValidationError(t, err)
    assert.Equal(t, []string{"number of guests (5) exceeds table capacity (4)"}, verr.Fields["guests_count"])
}

func TestCheckTableFromOtherRestaurant(t *testing.T) {
    ch, dir, _ := newTestChecker()
    dir.tables[6] = model.Table{ID: 6, RestaurantID: 2, TableNumber: "X1", Capacity: 4, IsAvailable: true}
    cand := validCandidate()
    cand.TableID = 6

    err := ch.Check(context.Background(), cand)
    verr := requireValidationError(t, err)
    assert.Contains(t, verr.Fields["table"], "selected table does not belong to this restaurant")
}

func TestCheckTableUnavailable(t *testing.T) {
    ch, dir, _ := newTestChecker()
    tbl := dir.tables[5]
    tbl.IsAvailable = false
    dir.tables[5] = tbl

    err := ch.Check(context.Background(), validCandidate())
    verr := requireValidationError(t, err)
    assert.Equal(t, []string{"selected table is not available"}, verr.Fields["table"])
}

func TestCheckInactiveRestaurant(t *testing.T) {
    ch, dir, _ := newTestChecker()
    rest := dir.restaurants[1]
    rest.IsActive = false
    dir.restaurants[1] = rest

    err := ch.Check(context.Background(), validCandidate())
    verr := requireValidationError(t, err)
    assert.Equal(t, []string{"this restaurant is not accepting reservations"}, verr.Fields["restaurant"])
}

func TestCheckSlotConflict(t *testing.T) {
    ch, _, conflicts := newTestChecker()
    cand := validCandidate()
    conflicts.taken[conflictKey(cand.TableID, model.DateOnly(cand.Date), cand.TimeSlot)] = 99

    err := ch.Check(context.Background(), cand)
    verr := requireValidationError(t, err)
    assert.Equal(t, []string{"this table is already reserved for this time slot"}, verr.Fields["time_slot"])
}

func TestCheckConflictExcludesOwnReservation(t *testing.T) {
    ch, _, conflicts := newTestChecker()
    cand := validCandidate()
    cand.ExcludeID = 99
    conflicts.taken[conflictKey(cand.TableID, model.DateOnly(cand.Date), cand.TimeSlot)] = 99

    require.NoError(t, ch.Check(context.Background(), cand))
}

// Every violated rule must be reported, not just the first one found.
func TestCheckAccumulatesAllViolations(t *testing.T) {
    ch, dir, conflicts := newTestChecker()
    rest := dir.restaurants[1]
    rest.IsActive = false
    dir.restaurants[1] = rest
    tbl := dir.tables[5]
    tbl.IsAvailable = false
    tbl.Capacity = 2
    dir.tables[5] = tbl

    cand := validCandidate()
    cand.Date = testNow.AddDate(0, 0, -2)
    cand.TimeSlot = "23:00:00"
    cand.GuestsCount = 3
    conflicts.taken[conflictKey(cand.TableID, model.DateOnly(cand.Date), cand.TimeSlot)] = 7

    err := ch.Check(context.Background(), cand)
    verr := requireValidationError(t, err)
    // date, hours, capacity, availability, inactive restaurant, conflict.
    assert.Equal(t, 6, verr.Count())
    assert.True(t, verr.Has("date"))
    assert.True(t, verr.Has("time_slot"))
    assert.True(t, verr.Has("guests_count"))
    assert.True(t, verr.Has("table"))
    assert.True(t, verr.Has("restaurant"))
    assert.Len(t, verr.Fields["time_slot"], 2)
}

func TestCheckUnknownReferences(t *testing.T) {
    ch, _, _ := newTestChecker()

    cand := validCandidate()
    cand.RestaurantID = 42
    assert.ErrorIs(t, ch.Check(context.Background(), cand), repository.ErrRestaurantNotFound)

    cand = validCandidate()
    cand.TableID = 42
    assert.ErrorIs(t, ch.Check(context.Background(), cand), repository.ErrTableNotFound)
}

func requireValidationError(t *testing.T, err error) *booking.ValidationError {
    t.Helper()
    require.Error(t, err)
    verr, ok := err.(*booking.ValidationError)
    require.True(t, ok, "expected *booking.ValidationError, got %T", err)
    return verr
}
