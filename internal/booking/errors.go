package booking

import (
    "errors"
    "fmt"
    "sort"
    "strings"
)

// ErrAlreadyCancelled is returned by Cancel when the reservation is
// already in the cancelled status.  It is distinct from the generic
// transition rejection so the API can answer with a precise message.
var ErrAlreadyCancelled = errors.New("reservation is already cancelled")

// ErrCannotCancelTerminal is returned by Cancel for reservations in the
// completed or no_show statuses.
var ErrCannotCancelTerminal = errors.New("cannot cancel completed or no-show reservations")

// ErrNotEditable is returned by Update when the reservation is no longer
// in a status that permits editing its details (only pending and
// confirmed reservations may be modified by the guest).
var ErrNotEditable = errors.New("reservation can no longer be modified")

// ValidationError carries every business-rule violation found in a
// candidate reservation, keyed by the offending field.  A field may
// accumulate more than one message (e.g. a table that both belongs to a
// different restaurant and is unavailable), so values are slices.  The
// checker never returns a ValidationError with zero messages.
type ValidationError struct {
    Fields map[string][]string
}

func newValidationError() *ValidationError {
    return &ValidationError{Fields: map[string][]string{}}
}

func (e *ValidationError) add(field, msg string) {
    e.Fields[field] = append(e.Fields[field], msg)
}

// Count returns the total number of violations across all fields.
func (e *ValidationError) Count() int {
    n := 0
    for _, msgs := range e.Fields {
        n += len(msgs)
    }
    return n
}

// Has reports whether any violation was recorded for the given field.
func (e *ValidationError) Has(field string) bool { return len(e.Fields[field]) > 0 }

func (e *ValidationError) Error() string {
    fields := make([]string, 0, len(e.Fields))
    for f := range e.Fields {
        fields = append(fields, f)
    }
    sort.Strings(fields)
    parts := make([]string, 0, len(fields))
    for _, f := range fields {
        parts = append(parts, f+": "+strings.Join(e.Fields[f], "; "))
    }
    return "validation failed: " + strings.Join(parts, " | ")
}

// TransitionError reports a status change that the transition table does
// not permit.  Current is the reservation's status at mutation time,
// Requested the status the caller asked for.
type TransitionError struct {
    Current   string
    Requested string
}

func (e *TransitionError) Error() string {
    return fmt.Sprintf("cannot change status from %s to %s", e.Current, e.Requested)
}
