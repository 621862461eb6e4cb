package booking

import (
    "context"
    "time"

    "github.com/iliyamo/restaurant-table-reservation/internal/model"
    "github.com/iliyamo/restaurant-table-reservation/internal/queue"
)

// ReservationStore is the persistence surface the service mutates
// reservations through.  Create and UpdateDetails must translate the
// storage layer's duplicate-key rejection of the live-slot unique index
// into repository.ErrSlotTaken so the double-booking race surfaces as a
// conflict rather than a generic failure.  Both update methods are
// guarded and report whether they applied: UpdateDetails writes only
// while the row is still in an editable status, UpdateStatus only while
// the row still holds the expected current status.  A decision made on
// a stale read can therefore never be applied.
type ReservationStore interface {
    ConflictFinder
    Create(ctx context.Context, r *model.Reservation) error
    GetByID(ctx context.Context, id uint64) (model.Reservation, error)
    UpdateDetails(ctx context.Context, r *model.Reservation) (bool, error)
    UpdateStatus(ctx context.Context, id uint64, from, to string) (bool, error)
}

// EventSink receives reservation mutation events.  It must not block the
// request path for long and must never fail it; publishing errors are the
// sink's own concern.
type EventSink func(ctx context.Context, ev queue.ReservationEvent)

// Service orchestrates reservation mutations: every create, detail
// update and status change funnels through here so the invariant checker
// and the transition table are consulted on each path.
type Service struct {
    checker *Checker
    store   ReservationStore
    clock   Clock
    events  EventSink
}

// NewService wires a Service. events may be nil when no broker is
// configured.
func NewService(dir Directory, store ReservationStore, clock Clock, events EventSink) *Service {
    return &Service{
        checker: &Checker{Dir: dir, Conflicts: store, Clock: clock},
        store:   store,
        clock:   clock,
        events:  events,
    }
}

// Checker exposes the service's invariant checker for read-only
// availability queries (e.g. a "can I book this?" preview endpoint).
func (s *Service) Checker() *Checker { return s.checker }

// Create validates a candidate and persists a new pending reservation
// for the given user.  On a clean pre-flight check that still loses the
// commit race, the store's ErrSlotTaken is returned unchanged.
func (s *Service) Create(ctx context.Context, userID uint64, cand Candidate, specialRequests string) (model.Reservation, error) {
    if err := s.checker.Check(ctx, cand); err != nil {
        return model.Reservation{}, err
    }
    r := model.Reservation{
        UserID:          userID,
        RestaurantID:    cand.RestaurantID,
        TableID:         cand.TableID,
        Date:            model.DateOnly(cand.Date),
        TimeSlot:        cand.TimeSlot,
        GuestsCount:     cand.GuestsCount,
        Status:          model.StatusPending,
        SpecialRequests: specialRequests,
    }
    if err := s.store.Create(ctx, &r); err != nil {
        return model.Reservation{}, err
    }
    s.emit(ctx, queue.EventReservationCreated, &r)
    return r, nil
}

// DetailsUpdate carries the fields a guest may change on an existing
// reservation.  Nil pointers leave the current value untouched.
type DetailsUpdate struct {
    Date            *time.Time
    TimeSlot        *string
    GuestsCount     *uint16
    SpecialRequests *string
}

// Update applies a detail change to a reservation.  Only pending and
// confirmed reservations are editable.  When the date, time slot or
// guest count changes, the full invariant check runs again with the
// reservation's own id excluded from conflict detection.
func (s *Service) Update(ctx context.Context, id uint64, upd DetailsUpdate) (model.Reservation, error) {
    r, err := s.store.GetByID(ctx, id)
    if err != nil {
        return model.Reservation{}, err
    }
    if r.Status != model.StatusPending && r.Status != model.StatusConfirmed {
        return model.Reservation{}, ErrNotEditable
    }

    revalidate := false
    if upd.Date != nil && !model.DateOnly(*upd.Date).Equal(r.Date) {
        r.Date = model.DateOnly(*upd.Date)
        revalidate = true
    }
    if upd.TimeSlot != nil && *upd.TimeSlot != r.TimeSlot {
        r.TimeSlot = *upd.TimeSlot
        revalidate = true
    }
    if upd.GuestsCount != nil && *upd.GuestsCount != r.GuestsCount {
        r.GuestsCount = *upd.GuestsCount
        revalidate = true
    }
    if upd.SpecialRequests != nil {
        r.SpecialRequests = *upd.SpecialRequests
    }

    if revalidate {
        cand := Candidate{
            RestaurantID: r.RestaurantID,
            TableID:      r.TableID,
            Date:         r.Date,
            TimeSlot:     r.TimeSlot,
            GuestsCount:  r.GuestsCount,
            ExcludeID:    r.ID,
        }
        if err := s.checker.Check(ctx, cand); err != nil {
            return model.Reservation{}, err
        }
    }

    ok, err := s.store.UpdateDetails(ctx, &r)
    if err != nil {
        return model.Reservation{}, err
    }
    if !ok {
        // A concurrent writer moved the reservation out of an editable
        // status after our read; the row stays untouched.
        if _, err := s.store.GetByID(ctx, id); err != nil {
            return model.Reservation{}, err
        }
        return model.Reservation{}, ErrNotEditable
    }
    return r, nil
}

// ChangeStatus moves a reservation to the requested status when the
// transition table allows it.  The store applies the change only while
// the row still holds the status the decision was made against; when a
// concurrent writer got there first, the transition is re-evaluated on
// the fresh status so an illegal change (e.g. reviving a cancelled
// reservation to no_show) can never be applied.
func (s *Service) ChangeStatus(ctx context.Context, id uint64, requested string) (model.Reservation, error) {
    r, err := s.store.GetByID(ctx, id)
    if err != nil {
        return model.Reservation{}, err
    }
    if err := checkTransition(r.Status, requested); err != nil {
        return model.Reservation{}, err
    }
    ok, err := s.store.UpdateStatus(ctx, id, r.Status, requested)
    if err != nil {
        return model.Reservation{}, err
    }
    if !ok {
        // Lost a race; report against what the row holds now.
        fresh, err := s.store.GetByID(ctx, id)
        if err != nil {
            return model.Reservation{}, err
        }
        return model.Reservation{}, &TransitionError{Current: fresh.Status, Requested: requested}
    }
    r.Status = requested
    r.UpdatedAt = s.clock.Now()
    s.emit(ctx, queue.EventStatusChanged, &r)
    return r, nil
}

// Cancel performs the guest-facing cancellation with its dedicated error
// vocabulary: already-cancelled and terminal reservations get specific
// rejections instead of the generic transition error.
func (s *Service) Cancel(ctx context.Context, id uint64) (model.Reservation, error) {
    r, err := s.store.GetByID(ctx, id)
    if err != nil {
        return model.Reservation{}, err
    }
    switch r.Status {
    case model.StatusCancelled:
        return model.Reservation{}, ErrAlreadyCancelled
    case model.StatusCompleted, model.StatusNoShow:
        return model.Reservation{}, ErrCannotCancelTerminal
    }
    ok, err := s.store.UpdateStatus(ctx, id, r.Status, model.StatusCancelled)
    if err != nil {
        return model.Reservation{}, err
    }
    if !ok {
        fresh, err := s.store.GetByID(ctx, id)
        if err != nil {
            return model.Reservation{}, err
        }
        switch fresh.Status {
        case model.StatusCancelled:
            return model.Reservation{}, ErrAlreadyCancelled
        case model.StatusCompleted, model.StatusNoShow:
            return model.Reservation{}, ErrCannotCancelTerminal
        default:
            return model.Reservation{}, &TransitionError{Current: fresh.Status, Requested: model.StatusCancelled}
        }
    }
    r.Status = model.StatusCancelled
    r.UpdatedAt = s.clock.Now()
    s.emit(ctx, queue.EventStatusChanged, &r)
    return r, nil
}

func (s *Service) emit(ctx context.Context, eventType string, r *model.Reservation) {
    if s.events == nil {
        return
    }
    s.events(ctx, queue.ReservationEvent{
        Type:          eventType,
        ReservationID: r.ID,
        UserID:        r.UserID,
        RestaurantID:  r.RestaurantID,
        TableID:       r.TableID,
        Date:          r.Date.Format("2006-01-02"),
        TimeSlot:      r.TimeSlot,
        GuestsCount:   r.GuestsCount,
        Status:        r.Status,
        OccurredAt:    s.clock.Now().Format(time.RFC3339),
    })
}
