package model_test

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/restaurant-table-reservation/internal/model"
)

func TestNormalizeTimeSlot(t *testing.T) {
    cases := map[string]string{
        "19:30":    "19:30:00",
        "19:30:15": "19:30:15",
        "9:05":     "09:05:00",
        "00:00":    "00:00:00",
        "23:59:59": "23:59:59",
    }
    for in, want := range cases {
        got, err := model.NormalizeTimeSlot(in)
        require.NoError(t, err, in)
        assert.Equal(t, want, got, in)
    }

    for _, in := range []string{"", "25:00", "19:60", "19:30:60", "half past", "-1:00"} {
        _, err := model.NormalizeTimeSlot(in)
        assert.Error(t, err, in)
    }
}

func TestNormalizedSlotsCompareLexically(t *testing.T) {
    early, err := model.NormalizeTimeSlot("9:00")
    require.NoError(t, err)
    late, err := model.NormalizeTimeSlot("10:00")
    require.NoError(t, err)
    // "9:00" > "10:00" as raw strings; normalization fixes the ordering.
    assert.True(t, early < late)
}

func TestDateOnly(t *testing.T) {
    ts := time.Date(2026, 3, 10, 18, 45, 12, 999, time.UTC)
    d := model.DateOnly(ts)
    assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), d)
    assert.Equal(t, d, model.DateOnly(d))
}

func TestStatusPredicates(t *testing.T) {
    assert.ElementsMatch(t,
        []string{model.StatusPending, model.StatusConfirmed, model.StatusSeated},
        model.LiveStatuses)

    for _, s := range model.LiveStatuses {
        assert.True(t, model.IsLiveStatus(s), s)
        assert.False(t, model.IsTerminalStatus(s), s)
    }
    for _, s := range []string{model.StatusCompleted, model.StatusCancelled, model.StatusNoShow} {
        assert.False(t, model.IsLiveStatus(s), s)
        assert.True(t, model.IsTerminalStatus(s), s)
    }

    assert.True(t, model.ValidStatus(model.StatusNoShow))
    assert.False(t, model.ValidStatus("unknown"))
    assert.False(t, model.ValidStatus(""))
}

func TestReservationIsLive(t *testing.T) {
    r := model.Reservation{Status: model.StatusSeated}
    assert.True(t, r.IsLive())
    r.Status = model.StatusCompleted
    assert.False(t, r.IsLive())
}
