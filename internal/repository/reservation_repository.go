package repository

import (
    "context"
    "database/sql"
    "strings"
    "time"

    "github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// ReservationRepo provides persistence for reservations.  It implements
// the booking package's ReservationStore and JobStore contracts: writes
// that would put a second live reservation on the same (table, date,
// time_slot) are rejected by the uq_live_slot unique index and surface
// as ErrSlotTaken, and status updates are guarded by the expected
// current status so stale decisions are never applied.  All timestamp
// fields are stored in UTC.
type ReservationRepo struct {
    db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle for handlers that need transactions.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

const reservationColumns = `id, user_id, restaurant_id, table_id, date, time_slot,
    guests_count, status, special_requests, confirmation_sent, reminder_sent,
    created_at, updated_at`

func scanReservation(row interface{ Scan(...any) error }) (model.Reservation, error) {
    var (
        res model.Reservation
        sr  sql.NullString
    )
    err := row.Scan(
        &res.ID, &res.UserID, &res.RestaurantID, &res.TableID,
        &res.Date, &res.TimeSlot, &res.GuestsCount, &res.Status,
        &sr, &res.ConfirmationSent, &res.ReminderSent,
        &res.CreatedAt, &res.UpdatedAt,
    )
    if err != nil {
        return model.Reservation{}, err
    }
    if sr.Valid {
        res.SpecialRequests = sr.String
    }
    return res, nil
}

// isDuplicateKey reports whether err is MySQL's duplicate entry error
// (code 1062), which is how the live-slot index rejects a double booking.
func isDuplicateKey(err error) bool {
    return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}

// Create inserts a new reservation and populates the struct from the
// stored row.  When the live-slot unique index rejects the insert, the
// slot was claimed between the caller's conflict check and this commit
// and ErrSlotTaken is returned.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
    const q = `INSERT INTO reservations
        (user_id, restaurant_id, table_id, date, time_slot, guests_count, status, special_requests)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
    result, err := r.db.ExecContext(ctx, q,
        res.UserID, res.RestaurantID, res.TableID,
        res.Date.Format("2006-01-02"), res.TimeSlot,
        res.GuestsCount, res.Status, res.SpecialRequests)
    if err != nil {
        if isDuplicateKey(err) {
            return ErrSlotTaken
        }
        return err
    }
    id, err := result.LastInsertId()
    if err != nil {
        return err
    }
    stored, err := r.GetByID(ctx, uint64(id))
    if err != nil {
        return err
    }
    *res = stored
    return nil
}

// GetByID returns a reservation by id or ErrReservationNotFound.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (model.Reservation, error) {
    row := r.db.QueryRowContext(ctx,
        `SELECT `+reservationColumns+` FROM reservations WHERE id = ?`, id)
    res, err := scanReservation(row)
    if err == sql.ErrNoRows {
        return model.Reservation{}, ErrReservationNotFound
    }
    return res, err
}

// HasConflict reports whether a live reservation (pending, confirmed or
// seated) other than excludeID already occupies the slot.  Pass 0 as
// excludeID when checking a new reservation.
func (r *ReservationRepo) HasConflict(ctx context.Context, tableID uint64, date time.Time, timeSlot string, excludeID uint64) (bool, error) {
    const q = `SELECT EXISTS (
        SELECT 1 FROM reservations
        WHERE table_id = ? AND date = ? AND time_slot = ?
          AND status IN ('pending','confirmed','seated')
          AND id <> ?)`
    var exists bool
    err := r.db.QueryRowContext(ctx, q, tableID, date.Format("2006-01-02"), timeSlot, excludeID).Scan(&exists)
    return exists, err
}

// UpdateDetails rewrites a reservation's slot and detail columns while
// the row is still pending or confirmed.  The boolean reports whether
// the change was applied; false means the status moved on between the
// caller's read and this write, and the caller must re-read before
// deciding anything else.  The same live-slot index that guards Create
// guards the move to a new slot; losing that race returns ErrSlotTaken
// and leaves the row unchanged.
func (r *ReservationRepo) UpdateDetails(ctx context.Context, res *model.Reservation) (bool, error) {
    const q = `UPDATE reservations
        SET date = ?, time_slot = ?, guests_count = ?, special_requests = ?
        WHERE id = ? AND status IN ('pending','confirmed')`
    out, err := r.db.ExecContext(ctx, q,
        res.Date.Format("2006-01-02"), res.TimeSlot,
        res.GuestsCount, res.SpecialRequests, res.ID)
    if err != nil {
        if isDuplicateKey(err) {
            return false, ErrSlotTaken
        }
        return false, err
    }
    n, err := out.RowsAffected()
    if err != nil {
        return false, err
    }
    if n == 0 {
        return false, nil
    }
    stored, err := r.GetByID(ctx, res.ID)
    if err != nil {
        return false, err
    }
    *res = stored
    return true, nil
}

// UpdateStatus moves a reservation from one status to another in a
// single guarded statement: the row is touched only while it still
// holds the expected current status.  The boolean reports whether the
// change was applied; false means a concurrent writer changed the row
// first and the caller must re-read before deciding anything else.
func (r *ReservationRepo) UpdateStatus(ctx context.Context, id uint64, from, to string) (bool, error) {
    res, err := r.db.ExecContext(ctx,
        `UPDATE reservations SET status = ? WHERE id = ? AND status = ?`,
        to, id, from)
    if err != nil {
        if isDuplicateKey(err) {
            // Moving back into a live status can collide with a newer
            // live reservation on the same slot.
            return false, ErrSlotTaken
        }
        return false, err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return false, err
    }
    return n > 0, nil
}

// MarkReminderSent flips the reminder flag after a successful dispatch.
func (r *ReservationRepo) MarkReminderSent(ctx context.Context, id uint64) error {
    _, err := r.db.ExecContext(ctx,
        `UPDATE reservations SET reminder_sent = 1 WHERE id = ?`, id)
    return err
}

// MarkConfirmationSent flips the confirmation flag after the
// confirmation email goes out.
func (r *ReservationRepo) MarkConfirmationSent(ctx context.Context, id uint64) error {
    _, err := r.db.ExecContext(ctx,
        `UPDATE reservations SET confirmation_sent = 1 WHERE id = ?`, id)
    return err
}

// ListForReminder returns reservations on the given date that are still
// pending or confirmed and have not been reminded yet.  The reminder
// job calls this with tomorrow's date.
func (r *ReservationRepo) ListForReminder(ctx context.Context, date time.Time) ([]model.Reservation, error) {
    const q = `SELECT ` + reservationColumns + ` FROM reservations
        WHERE date = ? AND status IN ('pending','confirmed') AND reminder_sent = 0
        ORDER BY id`
    rows, err := r.db.QueryContext(ctx, q, date.Format("2006-01-02"))
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return collectReservations(rows)
}

// ListNoShowCandidates returns confirmed reservations dated strictly
// before the given day.  The no-show sweep calls this with today, so a
// reservation is only a candidate the day after its date.
func (r *ReservationRepo) ListNoShowCandidates(ctx context.Context, before time.Time) ([]model.Reservation, error) {
    const q = `SELECT ` + reservationColumns + ` FROM reservations
        WHERE status = 'confirmed' AND date < ?
        ORDER BY id`
    rows, err := r.db.QueryContext(ctx, q, before.Format("2006-01-02"))
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return collectReservations(rows)
}

func collectReservations(rows *sql.Rows) ([]model.Reservation, error) {
    out := make([]model.Reservation, 0)
    for rows.Next() {
        res, err := scanReservation(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, res)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// ReservationDetail is a reservation joined with the guest, restaurant
// and table it references, shaped for list and detail responses.
type ReservationDetail struct {
    ID              uint64    `json:"id"`
    UserID          uint64    `json:"user_id"`
    GuestName       string    `json:"guest_name"`
    GuestEmail      string    `json:"guest_email"`
    RestaurantID    uint64    `json:"restaurant_id"`
    RestaurantName  string    `json:"restaurant_name"`
    TableID         uint64    `json:"table_id"`
    TableNumber     string    `json:"table_number"`
    Date            string    `json:"date"`
    TimeSlot        string    `json:"time_slot"`
    GuestsCount     uint16    `json:"guests_count"`
    Status          string    `json:"status"`
    SpecialRequests string    `json:"special_requests,omitempty"`
    CreatedAt       time.Time `json:"created_at"`
}

// ReservationFilter narrows ListDetailed.  Zero values mean "no filter".
// UserID restricts to a guest's own reservations, OwnerID to
// reservations against restaurants the user owns; role-based scoping in
// the handlers sets exactly one of them (admins set neither).
type ReservationFilter struct {
    UserID          uint64
    OwnerID         uint64
    RestaurantID    uint64
    Status          string
    DateFrom        *time.Time // inclusive lower bound on date
    DateBefore      *time.Time // exclusive upper bound on date
    ExcludeStatuses []string
    OrderAsc        bool // soonest-first instead of the default newest-first
}

// ListDetailed returns reservations matching the filter joined with
// their guest, restaurant and table.  Default ordering is date and time
// descending, mirroring a "recent first" listing.
func (r *ReservationRepo) ListDetailed(ctx context.Context, f ReservationFilter) ([]ReservationDetail, error) {
    query := `SELECT rv.id, rv.user_id, CONCAT(u.first_name, ' ', u.last_name), u.email,
                     rv.restaurant_id, rst.name, rv.table_id, tb.table_number,
                     rv.date, rv.time_slot, rv.guests_count, rv.status,
                     rv.special_requests, rv.created_at
              FROM reservations rv
              JOIN users u ON u.id = rv.user_id
              JOIN restaurants rst ON rst.id = rv.restaurant_id
              JOIN tables_ tb ON tb.id = rv.table_id
              WHERE 1=1`
    args := make([]any, 0, 8)
    if f.UserID != 0 {
        query += ` AND rv.user_id = ?`
        args = append(args, f.UserID)
    }
    if f.OwnerID != 0 {
        query += ` AND rst.owner_id = ?`
        args = append(args, f.OwnerID)
    }
    if f.RestaurantID != 0 {
        query += ` AND rv.restaurant_id = ?`
        args = append(args, f.RestaurantID)
    }
    if f.Status != "" {
        query += ` AND rv.status = ?`
        args = append(args, f.Status)
    }
    if f.DateFrom != nil {
        query += ` AND rv.date >= ?`
        args = append(args, f.DateFrom.Format("2006-01-02"))
    }
    if f.DateBefore != nil {
        query += ` AND rv.date < ?`
        args = append(args, f.DateBefore.Format("2006-01-02"))
    }
    if len(f.ExcludeStatuses) > 0 {
        placeholders := strings.TrimSuffix(strings.Repeat("?,", len(f.ExcludeStatuses)), ",")
        query += ` AND rv.status NOT IN (` + placeholders + `)`
        for _, s := range f.ExcludeStatuses {
            args = append(args, s)
        }
    }
    if f.OrderAsc {
        query += ` ORDER BY rv.date, rv.time_slot`
    } else {
        query += ` ORDER BY rv.date DESC, rv.time_slot DESC`
    }

    rows, err := r.db.QueryContext(ctx, query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    details := make([]ReservationDetail, 0)
    for rows.Next() {
        var (
            d       ReservationDetail
            date    time.Time
            reqText sql.NullString
        )
        if err := rows.Scan(
            &d.ID, &d.UserID, &d.GuestName, &d.GuestEmail,
            &d.RestaurantID, &d.RestaurantName, &d.TableID, &d.TableNumber,
            &date, &d.TimeSlot, &d.GuestsCount, &d.Status,
            &reqText, &d.CreatedAt,
        ); err != nil {
            return nil, err
        }
        d.Date = date.Format("2006-01-02")
        if reqText.Valid {
            d.SpecialRequests = reqText.String
        }
        details = append(details, d)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return details, nil
}
