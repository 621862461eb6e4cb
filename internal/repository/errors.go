// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to perform an operation on a resource owned by
// someone else, while ErrSlotTaken signals that the live-slot unique
// index rejected a reservation write because another live reservation
// already occupies the same (table, date, time_slot).
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrSlotTaken is returned when an insert or update loses the commit
// race for a table slot: the application-level conflict check passed but
// the unique index found a live reservation at write time. Handlers
// should translate this into an HTTP 409 inviting a retry with a fresh
// availability query.
var ErrSlotTaken = errors.New("slot no longer available")

// ErrRestaurantNotFound is returned when a restaurant lookup fails.
var ErrRestaurantNotFound = errors.New("restaurant not found")

// ErrTableNotFound is returned when a table lookup fails.
var ErrTableNotFound = errors.New("table not found")

// ErrReservationNotFound is returned when a reservation lookup fails.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrEmailExists is returned when registering with an email that is
// already taken.
var ErrEmailExists = errors.New("email already exists")
