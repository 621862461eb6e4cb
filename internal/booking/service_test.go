package booking_test

import (
    "context"
    "sync"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/restaurant-table-reservation/internal/booking"
    "github.com/iliyamo/restaurant-table-reservation/internal/model"
    "github.com/iliyamo/restaurant-table-reservation/internal/queue"
    "github.com/iliyamo/restaurant-table-reservation/internal/repository"
)

// fakeStore is an in-memory ReservationStore/JobStore.  It reproduces
// the two storage guarantees the service depends on: the live-slot
// uniqueness check at write time, and the guarded status update.  The
// hooks let tests interleave a "concurrent" writer at the exact point
// where the race matters.
type fakeStore struct {
    mu     sync.Mutex
    byID   map[uint64]model.Reservation
    nextID uint64

    beforeCreate        func() // runs after validation, before the write
    beforeUpdateDetails func() // runs before the guarded details write
    beforeUpdateStatus  func() // runs before the guarded status compare
}

func newFakeStore() *fakeStore {
    return &fakeStore{byID: map[uint64]model.Reservation{}}
}

func (s *fakeStore) put(r model.Reservation) model.Reservation {
    s.mu.Lock()
    defer s.mu.Unlock()
    if r.ID == 0 {
        s.nextID++
        r.ID = s.nextID
    } else if r.ID > s.nextID {
        s.nextID = r.ID
    }
    s.byID[r.ID] = r
    return r
}

func (s *fakeStore) slotOccupied(tableID uint64, date time.Time, slot string, excludeID uint64) bool {
    for _, r := range s.byID {
        if r.ID != excludeID && r.TableID == tableID && r.TimeSlot == slot &&
            r.Date.Equal(model.DateOnly(date)) && model.IsLiveStatus(r.Status) {
            return true
        }
    }
    return false
}

func (s *fakeStore) HasConflict(_ context.Context, tableID uint64, date time.Time, slot string, excludeID uint64) (bool, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    return s.slotOccupied(tableID, date, slot, excludeID), nil
}

func (s *fakeStore) Create(_ context.Context, r *model.Reservation) error {
    if s.beforeCreate != nil {
        s.beforeCreate()
    }
    s.mu.Lock()
    defer s.mu.Unlock()
    if s.slotOccupied(r.TableID, r.Date, r.TimeSlot, 0) {
        return repository.ErrSlotTaken
    }
    s.nextID++
    r.ID = s.nextID
    s.byID[r.ID] = *r
    return nil
}

func (s *fakeStore) GetByID(_ context.Context, id uint64) (model.Reservation, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    r, ok := s.byID[id]
    if !ok {
        return model.Reservation{}, repository.ErrReservationNotFound
    }
    return r, nil
}

func (s *fakeStore) UpdateDetails(_ context.Context, r *model.Reservation) (bool, error) {
    if s.beforeUpdateDetails != nil {
        s.beforeUpdateDetails()
    }
    s.mu.Lock()
    defer s.mu.Unlock()
    cur, ok := s.byID[r.ID]
    if !ok || (cur.Status != model.StatusPending && cur.Status != model.StatusConfirmed) {
        return false, nil
    }
    if s.slotOccupied(r.TableID, r.Date, r.TimeSlot, r.ID) {
        return false, repository.ErrSlotTaken
    }
    r.Status = cur.Status
    s.byID[r.ID] = *r
    return true, nil
}

func (s *fakeStore) UpdateStatus(_ context.Context, id uint64, from, to string) (bool, error) {
    if s.beforeUpdateStatus != nil {
        s.beforeUpdateStatus()
    }
    s.mu.Lock()
    defer s.mu.Unlock()
    r, ok := s.byID[id]
    if !ok || r.Status != from {
        return false, nil
    }
    r.Status = to
    s.byID[id] = r
    return true, nil
}

func (s *fakeStore) MarkReminderSent(_ context.Context, id uint64) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    r := s.byID[id]
    r.ReminderSent = true
    s.byID[id] = r
    return nil
}

func (s *fakeStore) ListForReminder(_ context.Context, date time.Time) ([]model.Reservation, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    var out []model.Reservation
    for _, r := range s.byID {
        if r.Date.Equal(date) && !r.ReminderSent &&
            (r.Status == model.StatusPending || r.Status == model.StatusConfirmed) {
            out = append(out, r)
        }
    }
    return out, nil
}

func (s *fakeStore) ListNoShowCandidates(_ context.Context, before time.Time) ([]model.Reservation, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    var out []model.Reservation
    for _, r := range s.byID {
        if r.Status == model.StatusConfirmed && r.Date.Before(before) {
            out = append(out, r)
        }
    }
    return out, nil
}

// eventRecorder collects published events.
type eventRecorder struct {
    mu     sync.Mutex
    events []queue.ReservationEvent
}

func (e *eventRecorder) sink(_ context.Context, ev queue.ReservationEvent) {
    e.mu.Lock()
    defer e.mu.Unlock()
    e.events = append(e.events, ev)
}

func (e *eventRecorder) types() []string {
    e.mu.Lock()
    defer e.mu.Unlock()
    out := make([]string, len(e.events))
    for i, ev := range e.events {
        out[i] = ev.Type
    }
    return out
}

func newTestService() (*booking.Service, *fakeStore, *fakeDirectory, *eventRecorder) {
    _, dir, _ := newTestChecker()
    store := newFakeStore()
    rec := &eventRecorder{}
    svc := booking.NewService(dir, store, fixedClock{testNow}, rec.sink)
    return svc, store, dir, rec
}

func TestServiceCreate(t *testing.T) {
    svc, store, _, rec := newTestService()

    r, err := svc.Create(context.Background(), 7, validCandidate(), "window please")
    require.NoError(t, err)
    assert.Equal(t, model.StatusPending, r.Status)
    assert.Equal(t, uint64(7), r.UserID)
    assert.Equal(t, "window please", r.SpecialRequests)
    assert.NotZero(t, r.ID)

    stored, err := store.GetByID(context.Background(), r.ID)
    require.NoError(t, err)
    assert.Equal(t, r.Status, stored.Status)
    assert.Equal(t, []string{queue.EventReservationCreated}, rec.types())
}

func TestServiceCreateRejectsInvalidCandidate(t *testing.T) {
    svc, store, _, rec := newTestService()

    cand := validCandidate()
    cand.GuestsCount = 99
    _, err := svc.Create(context.Background(), 7, cand, "")
    requireValidationError(t, err)
    assert.Empty(t, store.byID)
    assert.Empty(t, rec.types())
}

// A candidate that passes the pre-flight check can still lose the
// commit race; the conflict must surface as ErrSlotTaken.
func TestServiceCreateLosesCommitRace(t *testing.T) {
    svc, store, _, rec := newTestService()

    cand := validCandidate()
    store.beforeCreate = func() {
        store.beforeCreate = nil
        store.put(model.Reservation{
            UserID: 99, RestaurantID: cand.RestaurantID, TableID: cand.TableID,
            Date: model.DateOnly(cand.Date), TimeSlot: cand.TimeSlot,
            GuestsCount: 2, Status: model.StatusPending,
        })
    }

    _, err := svc.Create(context.Background(), 7, cand, "")
    assert.ErrorIs(t, err, repository.ErrSlotTaken)
    assert.Empty(t, rec.types())
}

func TestServiceUpdateOnlyPendingAndConfirmed(t *testing.T) {
    svc, store, _, _ := newTestService()

    slot := "18:00:00"
    for _, status := range []string{model.StatusSeated, model.StatusCompleted, model.StatusCancelled, model.StatusNoShow} {
        r := store.put(model.Reservation{
            UserID: 7, RestaurantID: 1, TableID: 5,
            Date: model.DateOnly(testNow.AddDate(0, 0, 2)), TimeSlot: slot,
            GuestsCount: 2, Status: status,
        })
        _, err := svc.Update(context.Background(), r.ID, booking.DetailsUpdate{TimeSlot: strPtr("19:00:00")})
        assert.ErrorIs(t, err, booking.ErrNotEditable, status)
    }
}

func TestServiceUpdateRevalidatesChangedSlot(t *testing.T) {
    svc, store, _, _ := newTestService()

    mine := store.put(model.Reservation{
        UserID: 7, RestaurantID: 1, TableID: 5,
        Date: model.DateOnly(testNow.AddDate(0, 0, 1)), TimeSlot: "18:00:00",
        GuestsCount: 2, Status: model.StatusConfirmed,
    })
    store.put(model.Reservation{
        UserID: 8, RestaurantID: 1, TableID: 5,
        Date: model.DateOnly(testNow.AddDate(0, 0, 1)), TimeSlot: "20:00:00",
        GuestsCount: 2, Status: model.StatusPending,
    })

    // Moving onto the other guest's slot is rejected.
    _, err := svc.Update(context.Background(), mine.ID, booking.DetailsUpdate{TimeSlot: strPtr("20:00:00")})
    verr := requireValidationError(t, err)
    assert.Contains(t, verr.Fields["time_slot"], "this table is already reserved for this time slot")

    // Moving to a free slot succeeds.
    updated, err := svc.Update(context.Background(), mine.ID, booking.DetailsUpdate{TimeSlot: strPtr("21:00:00")})
    require.NoError(t, err)
    assert.Equal(t, "21:00:00", updated.TimeSlot)
}

// Touching only the special requests must not re-run slot validation:
// a reservation whose date has meanwhile passed stays editable for the
// note field.
func TestServiceUpdateNoteOnlySkipsRevalidation(t *testing.T) {
    svc, store, _, _ := newTestService()

    r := store.put(model.Reservation{
        UserID: 7, RestaurantID: 1, TableID: 5,
        Date: model.DateOnly(testNow.AddDate(0, 0, -3)), TimeSlot: "18:00:00",
        GuestsCount: 2, Status: model.StatusConfirmed,
    })

    updated, err := svc.Update(context.Background(), r.ID, booking.DetailsUpdate{SpecialRequests: strPtr("allergies: nuts")})
    require.NoError(t, err)
    assert.Equal(t, "allergies: nuts", updated.SpecialRequests)
}

// A cancellation landing between the editability read and the details
// write must win: the edit is rejected and the cancelled row keeps its
// original details.
func TestServiceUpdateLosesCancelRace(t *testing.T) {
    svc, store, _, _ := newTestService()

    r := store.put(model.Reservation{
        UserID: 7, RestaurantID: 1, TableID: 5,
        Date: model.DateOnly(testNow.AddDate(0, 0, 1)), TimeSlot: "18:00:00",
        GuestsCount: 2, Status: model.StatusConfirmed,
    })
    store.beforeUpdateDetails = func() {
        store.beforeUpdateDetails = nil
        cancelled := store.byID[r.ID]
        cancelled.Status = model.StatusCancelled
        store.byID[r.ID] = cancelled
    }

    _, err := svc.Update(context.Background(), r.ID, booking.DetailsUpdate{SpecialRequests: strPtr("late arrival")})
    assert.ErrorIs(t, err, booking.ErrNotEditable)

    stored, _ := store.GetByID(context.Background(), r.ID)
    assert.Equal(t, model.StatusCancelled, stored.Status)
    assert.Empty(t, stored.SpecialRequests, "cancelled reservation must keep its original details")
}

func TestServiceChangeStatus(t *testing.T) {
    svc, store, _, rec := newTestService()

    r := store.put(model.Reservation{
        UserID: 7, RestaurantID: 1, TableID: 5,
        Date: model.DateOnly(testNow.AddDate(0, 0, 1)), TimeSlot: "18:00:00",
        GuestsCount: 2, Status: model.StatusPending,
    })

    updated, err := svc.ChangeStatus(context.Background(), r.ID, model.StatusConfirmed)
    require.NoError(t, err)
    assert.Equal(t, model.StatusConfirmed, updated.Status)
    assert.Equal(t, []string{queue.EventStatusChanged}, rec.types())

    // confirmed -> completed skips seating and is rejected.
    _, err = svc.ChangeStatus(context.Background(), r.ID, model.StatusCompleted)
    var terr *booking.TransitionError
    require.ErrorAs(t, err, &terr)
    assert.Equal(t, model.StatusConfirmed, terr.Current)
    assert.Equal(t, model.StatusCompleted, terr.Requested)
}

// A transition decided against a stale read must not be applied: when a
// concurrent writer cancels the reservation between the read and the
// write, the requested no_show is rejected against the fresh status.
func TestServiceChangeStatusLostRace(t *testing.T) {
    svc, store, _, _ := newTestService()

    r := store.put(model.Reservation{
        UserID: 7, RestaurantID: 1, TableID: 5,
        Date: model.DateOnly(testNow.AddDate(0, 0, 1)), TimeSlot: "18:00:00",
        GuestsCount: 2, Status: model.StatusConfirmed,
    })
    store.beforeUpdateStatus = func() {
        store.beforeUpdateStatus = nil
        cancelled := store.byID[r.ID]
        cancelled.Status = model.StatusCancelled
        store.byID[r.ID] = cancelled
    }

    _, err := svc.ChangeStatus(context.Background(), r.ID, model.StatusNoShow)
    var terr *booking.TransitionError
    require.ErrorAs(t, err, &terr)
    assert.Equal(t, model.StatusCancelled, terr.Current)

    stored, _ := store.GetByID(context.Background(), r.ID)
    assert.Equal(t, model.StatusCancelled, stored.Status, "cancelled reservation must not be revived")
}

func TestServiceCancel(t *testing.T) {
    svc, store, _, rec := newTestService()

    for _, status := range []string{model.StatusPending, model.StatusConfirmed, model.StatusSeated} {
        r := store.put(model.Reservation{
            UserID: 7, RestaurantID: 1, TableID: 5,
            Date: model.DateOnly(testNow.AddDate(0, 0, 1)), TimeSlot: "18:00:00",
            GuestsCount: 2, Status: status,
        })
        cancelled, err := svc.Cancel(context.Background(), r.ID)
        require.NoError(t, err, status)
        assert.Equal(t, model.StatusCancelled, cancelled.Status)
    }
    assert.Len(t, rec.types(), 3)
}

func TestServiceCancelErrorVocabulary(t *testing.T) {
    svc, store, _, _ := newTestService()

    cancelled := store.put(model.Reservation{Status: model.StatusCancelled, UserID: 7})
    _, err := svc.Cancel(context.Background(), cancelled.ID)
    assert.ErrorIs(t, err, booking.ErrAlreadyCancelled)

    for _, status := range []string{model.StatusCompleted, model.StatusNoShow} {
        r := store.put(model.Reservation{Status: status, UserID: 7})
        _, err := svc.Cancel(context.Background(), r.ID)
        assert.ErrorIs(t, err, booking.ErrCannotCancelTerminal, status)
    }

    _, err = svc.Cancel(context.Background(), 9999)
    assert.ErrorIs(t, err, repository.ErrReservationNotFound)
}

func TestServiceCancelLostRace(t *testing.T) {
    svc, store, _, _ := newTestService()

    r := store.put(model.Reservation{
        UserID: 7, RestaurantID: 1, TableID: 5,
        Date: model.DateOnly(testNow.AddDate(0, 0, 1)), TimeSlot: "18:00:00",
        GuestsCount: 2, Status: model.StatusConfirmed,
    })
    store.beforeUpdateStatus = func() {
        store.beforeUpdateStatus = nil
        swept := store.byID[r.ID]
        swept.Status = model.StatusNoShow
        store.byID[r.ID] = swept
    }

    _, err := svc.Cancel(context.Background(), r.ID)
    assert.ErrorIs(t, err, booking.ErrCannotCancelTerminal)
}

func strPtr(s string) *string { return &s }
