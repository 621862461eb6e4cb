package booking

import "github.com/iliyamo/restaurant-table-reservation/internal/model"

// transitions is the static table of legal status changes.  Statuses
// absent from a source's list are rejected; completed, cancelled and
// no_show have empty lists and are therefore terminal.
var transitions = map[string][]string{
    model.StatusPending:   {model.StatusConfirmed, model.StatusCancelled},
    model.StatusConfirmed: {model.StatusSeated, model.StatusCancelled, model.StatusNoShow},
    model.StatusSeated:    {model.StatusCompleted, model.StatusCancelled},
    model.StatusCompleted: {},
    model.StatusCancelled: {},
    model.StatusNoShow:    {},
}

// AllowedTransitions returns the statuses reachable from the given one.
// The returned slice is a copy and safe for the caller to modify.
func AllowedTransitions(from string) []string {
    targets := transitions[from]
    out := make([]string, len(targets))
    copy(out, targets)
    return out
}

// CanTransition reports whether the transition table permits moving a
// reservation from one status to another.
func CanTransition(from, to string) bool {
    for _, t := range transitions[from] {
        if t == to {
            return true
        }
    }
    return false
}

// checkTransition returns a TransitionError when the requested change is
// not in the table, nil otherwise.
func checkTransition(from, to string) error {
    if !CanTransition(from, to) {
        return &TransitionError{Current: from, Requested: to}
    }
    return nil
}
