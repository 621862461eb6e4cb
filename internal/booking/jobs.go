package booking

import (
    "context"
    "log"
    "time"

    "github.com/iliyamo/restaurant-table-reservation/internal/model"
    "github.com/iliyamo/restaurant-table-reservation/internal/notify"
)

// JobStore is the slice of the reservation store the maintenance jobs
// read and mutate.  UpdateStatus has the same guarded contract as in
// ReservationStore: a sweep never overwrites a status that changed
// between its read and its write.
type JobStore interface {
    ListForReminder(ctx context.Context, date time.Time) ([]model.Reservation, error)
    MarkReminderSent(ctx context.Context, id uint64) error
    ListNoShowCandidates(ctx context.Context, before time.Time) ([]model.Reservation, error)
    UpdateStatus(ctx context.Context, id uint64, from, to string) (bool, error)
}

// UserDirectory resolves the guest a reminder goes to.
type UserDirectory interface {
    GetUser(ctx context.Context, id uint64) (model.User, error)
}

// ReminderOutcome records what happened to one reservation during a
// reminder run: Result is "sent" on success, otherwise the error text.
type ReminderOutcome struct {
    ReservationID uint64 `json:"reservation_id"`
    Result        string `json:"result"`
}

// Jobs bundles the dependencies of the two daily maintenance sweeps.
type Jobs struct {
    Store  JobStore
    Dir    Directory
    Users  UserDirectory
    Sender notify.Sender
    Clock  Clock
}

// RunReminders dispatches the day-before reminder for every reservation
// dated tomorrow that is still pending or confirmed and has not been
// reminded yet.  A failure for one reservation is recorded in its
// outcome and processing continues with the rest; the reminder_sent flag
// is only set after a successful send, so a rerun retries exactly the
// failed ones.
func (j *Jobs) RunReminders(ctx context.Context) []ReminderOutcome {
    tomorrow := model.DateOnly(j.Clock.Now()).AddDate(0, 0, 1)
    list, err := j.Store.ListForReminder(ctx, tomorrow)
    if err != nil {
        log.Printf("reminder job: list failed: %v", err)
        return nil
    }
    outcomes := make([]ReminderOutcome, 0, len(list))
    for _, r := range list {
        outcomes = append(outcomes, ReminderOutcome{
            ReservationID: r.ID,
            Result:        j.remind(ctx, r),
        })
    }
    return outcomes
}

// remind sends a single reminder and flips the flag; any failure is
// reported as the outcome text.
func (j *Jobs) remind(ctx context.Context, r model.Reservation) string {
    user, err := j.Users.GetUser(ctx, r.UserID)
    if err != nil {
        return err.Error()
    }
    restaurant, err := j.Dir.GetRestaurant(ctx, r.RestaurantID)
    if err != nil {
        return err.Error()
    }
    guestName := user.FirstName
    if guestName == "" {
        guestName = user.Email
    }
    err = j.Sender.SendReminder(ctx, notify.Reminder{
        To:             user.Email,
        GuestName:      guestName,
        RestaurantName: restaurant.Name,
        Date:           r.Date,
        TimeSlot:       r.TimeSlot,
    })
    if err != nil {
        log.Printf("reminder job: reservation %d: send failed: %v", r.ID, err)
        return err.Error()
    }
    if err := j.Store.MarkReminderSent(ctx, r.ID); err != nil {
        log.Printf("reminder job: reservation %d: flag update failed: %v", r.ID, err)
        return err.Error()
    }
    return "sent"
}

// RunNoShowSweep marks every confirmed reservation whose date has fully
// elapsed as no_show.  "Fully elapsed" means the date is strictly before
// today: a confirmed reservation is swept the day after its date, never
// intraday.  Per-reservation failures are logged and skipped; the
// returned slice holds the ids that were actually transitioned.
func (j *Jobs) RunNoShowSweep(ctx context.Context) []uint64 {
    today := model.DateOnly(j.Clock.Now())
    list, err := j.Store.ListNoShowCandidates(ctx, today)
    if err != nil {
        log.Printf("no-show job: list failed: %v", err)
        return nil
    }
    updated := make([]uint64, 0, len(list))
    for _, r := range list {
        if !CanTransition(r.Status, model.StatusNoShow) {
            // Candidate list should only hold confirmed rows; skip
            // anything that changed under us.
            continue
        }
        ok, err := j.Store.UpdateStatus(ctx, r.ID, r.Status, model.StatusNoShow)
        if err != nil {
            log.Printf("no-show job: reservation %d: update failed: %v", r.ID, err)
            continue
        }
        if ok {
            updated = append(updated, r.ID)
        }
    }
    return updated
}
