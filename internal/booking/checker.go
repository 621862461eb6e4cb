package booking

import (
    "context"
    "fmt"
    "time"

    "github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// Directory supplies the restaurant and table records a candidate
// reservation references.  Lookup failures for unknown ids must be the
// repository's not-found sentinels; any other error is infrastructural
// and aborts the check.
type Directory interface {
    GetRestaurant(ctx context.Context, id uint64) (model.Restaurant, error)
    GetTable(ctx context.Context, id uint64) (model.Table, error)
}

// DirectoryFuncs adapts two repository lookup functions into a
// Directory, so the restaurant and table repositories can be combined
// without a wrapper type.
type DirectoryFuncs struct {
    Restaurants func(ctx context.Context, id uint64) (model.Restaurant, error)
    Tables      func(ctx context.Context, id uint64) (model.Table, error)
}

func (d DirectoryFuncs) GetRestaurant(ctx context.Context, id uint64) (model.Restaurant, error) {
    return d.Restaurants(ctx, id)
}

func (d DirectoryFuncs) GetTable(ctx context.Context, id uint64) (model.Table, error) {
    return d.Tables(ctx, id)
}

// ConflictFinder answers whether a live reservation already occupies a
// (table, date, time_slot) triple.  excludeID is skipped so that a
// reservation being updated does not conflict with itself; pass 0 when
// validating a new reservation.
type ConflictFinder interface {
    HasConflict(ctx context.Context, tableID uint64, date time.Time, timeSlot string, excludeID uint64) (bool, error)
}

// Candidate is a fully-resolved reservation candidate submitted to the
// checker.  TimeSlot must already be in canonical "HH:MM:SS" form and
// Date a bare calendar date.  ExcludeID carries the reservation's own id
// during update validation and is 0 for creates.
type Candidate struct {
    RestaurantID uint64
    TableID      uint64
    Date         time.Time
    TimeSlot     string
    GuestsCount  uint16
    ExcludeID    uint64
}

// Checker validates candidates against the seven reservation invariants.
// All checks run and their violations accumulate; the checker never
// stops at the first failure, so a response can surface every field the
// client must fix at once.
type Checker struct {
    Dir       Directory
    Conflicts ConflictFinder
    Clock     Clock
}

// Check returns nil for a valid candidate, a *ValidationError carrying
// one message per violated invariant, or the directory's not-found error
// when the referenced restaurant or table does not exist.
func (ch *Checker) Check(ctx context.Context, cand Candidate) error {
    restaurant, err := ch.Dir.GetRestaurant(ctx, cand.RestaurantID)
    if err != nil {
        return err
    }
    table, err := ch.Dir.GetTable(ctx, cand.TableID)
    if err != nil {
        return err
    }

    verr := newValidationError()

    // 1. No past-dated reservations.
    today := model.DateOnly(ch.Clock.Now())
    if model.DateOnly(cand.Date).Before(today) {
        verr.add("date", "reservation date cannot be in the past")
    }

    // 2. Time slot within operating hours: opening <= slot < closing.
    if cand.TimeSlot < restaurant.OpeningTime || cand.TimeSlot >= restaurant.ClosingTime {
        verr.add("time_slot", fmt.Sprintf(
            "reservation time must be between %s and %s",
            restaurant.OpeningTime, restaurant.ClosingTime))
    }

    // 3. Guest count within the table's capacity.
    if cand.GuestsCount > table.Capacity {
        verr.add("guests_count", fmt.Sprintf(
            "number of guests (%d) exceeds table capacity (%d)",
            cand.GuestsCount, table.Capacity))
    }

    // 4. Table belongs to the referenced restaurant.
    if table.RestaurantID != restaurant.ID {
        verr.add("table", "selected table does not belong to this restaurant")
    }

    // 5. Table available for booking.
    if !table.IsAvailable {
        verr.add("table", "selected table is not available")
    }

    // 6. Restaurant accepting reservations.
    if !restaurant.IsActive {
        verr.add("restaurant", "this restaurant is not accepting reservations")
    }

    // 7. No other live reservation on the same slot.  This is a
    // pre-flight read; the unique index on the reservations table is the
    // authoritative guard against a concurrent create slipping through.
    conflict, err := ch.Conflicts.HasConflict(ctx, cand.TableID, model.DateOnly(cand.Date), cand.TimeSlot, cand.ExcludeID)
    if err != nil {
        return err
    }
    if conflict {
        verr.add("time_slot", "this table is already reserved for this time slot")
    }

    if verr.Count() > 0 {
        return verr
    }
    return nil
}
