// Package queue defines message payloads exchanged over the message broker.
package queue

// Event types carried in ReservationEvent.Type.
const (
    EventReservationCreated = "reservation.created"
    EventStatusChanged      = "reservation.status_changed"
)

// ReservationEvent is published on every reservation mutation (creation
// and each status change, cancellation included).  It carries enough
// state for downstream consumers such as audit logging or analytics to
// act without querying the primary database.
type ReservationEvent struct {
    Type          string `json:"type"`
    ReservationID uint64 `json:"reservation_id"`
    UserID        uint64 `json:"user_id"`
    RestaurantID  uint64 `json:"restaurant_id"`
    TableID       uint64 `json:"table_id"`
    Date          string `json:"date"`
    TimeSlot      string `json:"time_slot"`
    GuestsCount   uint16 `json:"guests_count"`
    Status        string `json:"status"`
    OccurredAt    string `json:"occurred_at"`
}
