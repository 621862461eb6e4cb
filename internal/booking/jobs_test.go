package booking_test

import (
    "context"
    "errors"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/restaurant-table-reservation/internal/booking"
    "github.com/iliyamo/restaurant-table-reservation/internal/model"
    "github.com/iliyamo/restaurant-table-reservation/internal/notify"
)

// fakeUsers resolves guests from a map.
type fakeUsers struct {
    byID map[uint64]model.User
}

func (f *fakeUsers) GetUser(_ context.Context, id uint64) (model.User, error) {
    u, ok := f.byID[id]
    if !ok {
        return model.User{}, errors.New("user not found")
    }
    return u, nil
}

// fakeSender records reminders and fails for addresses in failFor.
type fakeSender struct {
    sent    []notify.Reminder
    failFor map[string]error
}

func (f *fakeSender) SendReminder(_ context.Context, r notify.Reminder) error {
    if err, ok := f.failFor[r.To]; ok {
        return err
    }
    f.sent = append(f.sent, r)
    return nil
}

func (f *fakeSender) SendConfirmation(_ context.Context, _ notify.Confirmation) error {
    return nil
}

func newTestJobs() (*booking.Jobs, *fakeStore, *fakeSender) {
    _, dir, _ := newTestChecker()
    store := newFakeStore()
    sender := &fakeSender{failFor: map[string]error{}}
    users := &fakeUsers{byID: map[uint64]model.User{
        7: {ID: 7, Email: "anna@example.com", FirstName: "Anna"},
        8: {ID: 8, Email: "boris@example.com"},
    }}
    return &booking.Jobs{
        Store:  store,
        Dir:    dir,
        Users:  users,
        Sender: sender,
        Clock:  fixedClock{testNow},
    }, store, sender
}

func seedReservation(store *fakeStore, userID uint64, daysFromNow int, status string, reminded bool) model.Reservation {
    return store.put(model.Reservation{
        UserID: userID, RestaurantID: 1, TableID: 5,
        Date:         model.DateOnly(testNow).AddDate(0, 0, daysFromNow),
        TimeSlot:     "19:00:00",
        GuestsCount:  2,
        Status:       status,
        ReminderSent: reminded,
    })
}

func TestRunRemindersSelectsTomorrowOnly(t *testing.T) {
    jobs, store, sender := newTestJobs()

    tomorrow1 := seedReservation(store, 7, 1, model.StatusPending, false)
    tomorrow2 := seedReservation(store, 8, 1, model.StatusConfirmed, false)
    seedReservation(store, 7, 0, model.StatusConfirmed, false) // today
    seedReservation(store, 7, 2, model.StatusConfirmed, false) // day after
    seedReservation(store, 8, 1, model.StatusCancelled, false) // not live
    seedReservation(store, 8, 1, model.StatusConfirmed, true)  // already reminded

    outcomes := jobs.RunReminders(context.Background())
    require.Len(t, outcomes, 2)
    for _, o := range outcomes {
        assert.Equal(t, "sent", o.Result)
    }
    assert.Len(t, sender.sent, 2)

    for _, id := range []uint64{tomorrow1.ID, tomorrow2.ID} {
        stored, _ := store.GetByID(context.Background(), id)
        assert.True(t, stored.ReminderSent, "reservation %d", id)
    }
}

func TestRunRemindersGreetingFallsBackToEmail(t *testing.T) {
    jobs, store, sender := newTestJobs()
    seedReservation(store, 8, 1, model.StatusConfirmed, false) // Boris has no first name

    jobs.RunReminders(context.Background())
    require.Len(t, sender.sent, 1)
    assert.Equal(t, "boris@example.com", sender.sent[0].GuestName)
    assert.Equal(t, "Trattoria", sender.sent[0].RestaurantName)
}

// One failed send must not stop the run, and only successful sends flip
// the flag, so a rerun retries exactly the failed reservation.
func TestRunRemindersPartialFailure(t *testing.T) {
    jobs, store, sender := newTestJobs()
    okRes := seedReservation(store, 7, 1, model.StatusConfirmed, false)
    failRes := seedReservation(store, 8, 1, model.StatusConfirmed, false)
    sender.failFor["boris@example.com"] = errors.New("smtp: connection refused")

    outcomes := jobs.RunReminders(context.Background())
    require.Len(t, outcomes, 2)
    byID := map[uint64]string{}
    for _, o := range outcomes {
        byID[o.ReservationID] = o.Result
    }
    assert.Equal(t, "sent", byID[okRes.ID])
    assert.Equal(t, "smtp: connection refused", byID[failRes.ID])

    stored, _ := store.GetByID(context.Background(), failRes.ID)
    assert.False(t, stored.ReminderSent)

    // Retry after the relay recovers: only the failed one goes out.
    delete(sender.failFor, "boris@example.com")
    outcomes = jobs.RunReminders(context.Background())
    require.Len(t, outcomes, 1)
    assert.Equal(t, failRes.ID, outcomes[0].ReservationID)
    assert.Equal(t, "sent", outcomes[0].Result)
}

func TestRunNoShowSweepDayAfterBoundary(t *testing.T) {
    jobs, store, _ := newTestJobs()

    yesterday := seedReservation(store, 7, -1, model.StatusConfirmed, true)
    lastWeek := seedReservation(store, 8, -7, model.StatusConfirmed, true)
    today := seedReservation(store, 7, 0, model.StatusConfirmed, false)
    pendingOld := seedReservation(store, 8, -2, model.StatusPending, false)
    cancelledOld := seedReservation(store, 8, -2, model.StatusCancelled, false)

    updated := jobs.RunNoShowSweep(context.Background())
    assert.ElementsMatch(t, []uint64{yesterday.ID, lastWeek.ID}, updated)

    for id, want := range map[uint64]string{
        yesterday.ID:    model.StatusNoShow,
        lastWeek.ID:     model.StatusNoShow,
        today.ID:        model.StatusConfirmed, // same-day stays untouched until tomorrow
        pendingOld.ID:   model.StatusPending,   // only confirmed reservations are swept
        cancelledOld.ID: model.StatusCancelled,
    } {
        stored, _ := store.GetByID(context.Background(), id)
        assert.Equal(t, want, stored.Status, "reservation %d", id)
    }
}

// A candidate that a concurrent writer moves out of confirmed between
// the list and the guarded update is skipped, not overwritten.
func TestRunNoShowSweepSkipsRacedCandidate(t *testing.T) {
    jobs, store, _ := newTestJobs()
    r := seedReservation(store, 7, -1, model.StatusConfirmed, true)

    store.beforeUpdateStatus = func() {
        store.beforeUpdateStatus = nil
        cancelled := store.byID[r.ID]
        cancelled.Status = model.StatusCancelled
        store.byID[r.ID] = cancelled
    }

    updated := jobs.RunNoShowSweep(context.Background())
    assert.Empty(t, updated)

    stored, _ := store.GetByID(context.Background(), r.ID)
    assert.Equal(t, model.StatusCancelled, stored.Status)
}

func TestRunNoShowSweepIdempotent(t *testing.T) {
    jobs, store, _ := newTestJobs()
    seedReservation(store, 7, -1, model.StatusConfirmed, true)

    first := jobs.RunNoShowSweep(context.Background())
    require.Len(t, first, 1)
    second := jobs.RunNoShowSweep(context.Background())
    assert.Empty(t, second, "already-swept reservations are no longer candidates")
}
