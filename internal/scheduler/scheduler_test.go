package scheduler

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
)

func TestNextRun(t *testing.T) {
    now := time.Date(2026, 3, 10, 7, 15, 0, 0, time.UTC)

    // Firing time still ahead today.
    next := nextRun(now, 8, 0)
    assert.Equal(t, time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC), next)

    // Firing time already passed: tomorrow.
    next = nextRun(now, 7, 0)
    assert.Equal(t, time.Date(2026, 3, 11, 7, 0, 0, 0, time.UTC), next)

    // Exactly at the firing instant: strictly after now, so tomorrow.
    next = nextRun(now, 7, 15)
    assert.Equal(t, time.Date(2026, 3, 11, 7, 15, 0, 0, time.UTC), next)
}

func TestNextRunCrossesMonthBoundary(t *testing.T) {
    now := time.Date(2026, 3, 31, 23, 45, 0, 0, time.UTC)
    next := nextRun(now, 23, 30)
    assert.Equal(t, time.Date(2026, 4, 1, 23, 30, 0, 0, time.UTC), next)
}
