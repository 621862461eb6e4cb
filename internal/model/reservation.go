package model

import (
    "fmt"
    "time"
)

// Reservation statuses. A reservation starts in pending and moves through
// the lifecycle below; completed, cancelled and no_show are final.
const (
    StatusPending   = "pending"
    StatusConfirmed = "confirmed"
    StatusSeated    = "seated"
    StatusCompleted = "completed"
    StatusCancelled = "cancelled"
    StatusNoShow    = "no_show"
)

// LiveStatuses are the statuses that occupy a table slot and count toward
// conflict detection: at most one reservation in any of these statuses may
// exist for a given (table, date, time_slot).
var LiveStatuses = []string{StatusPending, StatusConfirmed, StatusSeated}

// Guest count bounds for a single reservation.
const (
    MinGuests = 1
    MaxGuests = 20
)

// Reservation records one guest's claim on one table for one date and
// time slot.  The date is a calendar date (time-of-day components are
// zero) and the time slot a "HH:MM:SS" string matching the TIME column.
//
// Fields:
//  ID              – primary key identifier.
//  UserID          – guest who made the reservation.
//  RestaurantID    – restaurant being booked.
//  TableID         – table being claimed; must belong to RestaurantID.
//  Date            – reservation calendar date.
//  TimeSlot        – reservation time of day ("HH:MM:SS").
//  GuestsCount     – number of guests, MinGuests..MaxGuests.
//  Status          – lifecycle status (see constants above).
//  SpecialRequests – optional free-form text from the guest.
//  ConfirmationSent – whether the confirmation email went out.
//  ReminderSent    – whether the day-before reminder went out.
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Reservation struct {
    ID               uint64    // reservations.id
    UserID           uint64    // reservations.user_id
    RestaurantID     uint64    // reservations.restaurant_id
    TableID          uint64    // reservations.table_id
    Date             time.Time // reservations.date (DATE)
    TimeSlot         string    // reservations.time_slot (TIME)
    GuestsCount      uint16    // reservations.guests_count
    Status           string    // reservations.status
    SpecialRequests  string    // reservations.special_requests
    ConfirmationSent bool      // reservations.confirmation_sent
    ReminderSent     bool      // reservations.reminder_sent
    CreatedAt        time.Time // reservations.created_at
    UpdatedAt        time.Time // reservations.updated_at
}

// IsLive reports whether the reservation currently occupies its slot.
func (r *Reservation) IsLive() bool { return IsLiveStatus(r.Status) }

// IsLiveStatus reports whether s is a slot-occupying status.
func IsLiveStatus(s string) bool {
    return s == StatusPending || s == StatusConfirmed || s == StatusSeated
}

// IsTerminalStatus reports whether s permits no further transitions.
func IsTerminalStatus(s string) bool {
    return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

// ValidStatus reports whether s is one of the six reservation statuses.
func ValidStatus(s string) bool {
    switch s {
    case StatusPending, StatusConfirmed, StatusSeated,
        StatusCompleted, StatusCancelled, StatusNoShow:
        return true
    }
    return false
}

// DateOnly truncates t to its calendar date in t's location. Reservation
// dates and "today" comparisons always go through this so that the
// time-of-day component can never influence date ordering.
func DateOnly(t time.Time) time.Time {
    return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// NormalizeTimeSlot parses a "HH:MM" or "HH:MM:SS" string and returns the
// canonical "HH:MM:SS" form used for storage and comparison.  TIME values
// in this form compare correctly as plain strings, which is how the
// checker tests a slot against opening hours.
func NormalizeTimeSlot(s string) (string, error) {
    var h, m, sec int
    if n, err := fmt.Sscanf(s, "%d:%d:%d", &h, &m, &sec); err != nil || n < 2 {
        if n2, err2 := fmt.Sscanf(s, "%d:%d", &h, &m); err2 != nil || n2 != 2 {
            return "", fmt.Errorf("invalid time %q", s)
        }
        sec = 0
    }
    if h < 0 || h > 23 || m < 0 || m > 59 || sec < 0 || sec > 59 {
        return "", fmt.Errorf("invalid time %q", s)
    }
    return fmt.Sprintf("%02d:%02d:%02d", h, m, sec), nil
}
