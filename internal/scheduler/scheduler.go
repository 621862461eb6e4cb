package scheduler // scheduler runs jobs once per day at fixed local times

import (
    "context"
    "log"
    "time"

    "github.com/iliyamo/restaurant-table-reservation/internal/booking"
)

// Job is a named task fired once per day at Hour:Minute.  Run receives
// a context cancelled when the scheduler stops.
type Job struct {
    Name   string
    Hour   int
    Minute int
    Run    func(ctx context.Context)
}

// Scheduler sleeps until each job's next firing time and invokes it.
// It is deliberately simple: one goroutine per job, firing times
// computed from the injected clock so tests can pin the day.
type Scheduler struct {
    Clock booking.Clock
    jobs  []Job
}

// New returns a scheduler using the given clock.  A nil clock falls
// back to the system clock.
func New(clock booking.Clock) *Scheduler {
    if clock == nil {
        clock = booking.SystemClock{}
    }
    return &Scheduler{Clock: clock}
}

// Add registers a job.  Must be called before Start.
func (s *Scheduler) Add(j Job) { s.jobs = append(s.jobs, j) }

// Start launches one goroutine per registered job.  Each goroutine
// loops: sleep until the next Hour:Minute, run, repeat.  Cancelling ctx
// stops all of them.
func (s *Scheduler) Start(ctx context.Context) {
    for _, j := range s.jobs {
        go s.loop(ctx, j)
    }
}

func (s *Scheduler) loop(ctx context.Context, j Job) {
    for {
        wait := time.Until(nextRun(s.Clock.Now(), j.Hour, j.Minute))
        timer := time.NewTimer(wait)
        select {
        case <-ctx.Done():
            timer.Stop()
            return
        case <-timer.C:
        }
        log.Printf("scheduler: running job %s", j.Name)
        j.Run(ctx)
    }
}

// nextRun returns the first instant strictly after now whose wall clock
// reads hour:minute.  If today's firing time has already passed, the
// result is tomorrow's.
func nextRun(now time.Time, hour, minute int) time.Time {
    next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
    if !next.After(now) {
        next = next.AddDate(0, 0, 1)
    }
    return next
}
