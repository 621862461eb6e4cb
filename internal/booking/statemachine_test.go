package booking_test

import (
    "testing"

    "github.com/stretchr/testify/assert"

    "github.com/iliyamo/restaurant-table-reservation/internal/booking"
    "github.com/iliyamo/restaurant-table-reservation/internal/model"
)

var allStatuses = []string{
    model.StatusPending, model.StatusConfirmed, model.StatusSeated,
    model.StatusCompleted, model.StatusCancelled, model.StatusNoShow,
}

func TestTransitionTable(t *testing.T) {
    allowed := map[string][]string{
        model.StatusPending:   {model.StatusConfirmed, model.StatusCancelled},
        model.StatusConfirmed: {model.StatusSeated, model.StatusCancelled, model.StatusNoShow},
        model.StatusSeated:    {model.StatusCompleted, model.StatusCancelled},
        model.StatusCompleted: {},
        model.StatusCancelled: {},
        model.StatusNoShow:    {},
    }
    // Exhaustive closure: every (from, to) pair answers exactly per table.
    for _, from := range allStatuses {
        for _, to := range allStatuses {
            want := false
            for _, a := range allowed[from] {
                if a == to {
                    want = true
                }
            }
            assert.Equal(t, want, booking.CanTransition(from, to), "%s -> %s", from, to)
        }
    }
}

func TestTerminalStatusesHaveNoExits(t *testing.T) {
    for _, s := range []string{model.StatusCompleted, model.StatusCancelled, model.StatusNoShow} {
        assert.Empty(t, booking.AllowedTransitions(s), s)
        assert.True(t, model.IsTerminalStatus(s), s)
    }
}

func TestSelfTransitionsRejected(t *testing.T) {
    for _, s := range allStatuses {
        assert.False(t, booking.CanTransition(s, s), s)
    }
}

func TestUnknownStatusHasNoTransitions(t *testing.T) {
    assert.False(t, booking.CanTransition("bogus", model.StatusConfirmed))
    assert.Empty(t, booking.AllowedTransitions("bogus"))
}

func TestAllowedTransitionsReturnsCopy(t *testing.T) {
    first := booking.AllowedTransitions(model.StatusPending)
    first[0] = "mutated"
    assert.NotContains(t, booking.AllowedTransitions(model.StatusPending), "mutated")
}
