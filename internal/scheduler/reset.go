package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/crucial707/habitguard/internal/metrics"
	"github.com/crucial707/habitguard/internal/models"
	"github.com/crucial707/habitguard/internal/store"
)

const dayLayout = "2006-01-02"

// Reset clears every task's accomplished flag once per calendar day, after
// the configured day boundary has been crossed. Detection is
// boundary-crossing, not exact-minute matching: the day of the last completed
// reset is persisted, so a process that sleeps through the boundary still
// resets on its next tick, and a tick firing twice in the same minute is a
// no-op.
type Reset struct {
	Store    *store.Store
	Boundary int // minutes since midnight, e.g. 23*60+59

	// Now is the wall clock; overridable in tests.
	Now func() time.Time
}

// NewReset builds a Reset for an "HH:MM" boundary such as "23:59".
func NewReset(st *store.Store, boundary string) (*Reset, error) {
	minutes, err := models.ParseClock(boundary)
	if err != nil {
		return nil, err
	}
	return &Reset{Store: st, Boundary: minutes, Now: time.Now}, nil
}

// Run ticks once a minute until ctx is canceled. It checks immediately on
// start so a boundary missed while the process was down is caught right away.
func (r *Reset) Run(ctx context.Context) {
	r.tick()

	c := cron.New()
	if _, err := c.AddFunc("* * * * *", r.tick); err != nil {
		slog.Error("reset: schedule tick", "error", err)
		return
	}
	c.Start()
	slog.Info("reset: started", "boundary", r.boundaryClock())

	<-ctx.Done()
	<-c.Stop().Done()
	slog.Info("reset: stopped")
}

// NextBoundary returns the next instant the boundary will be crossed.
func (r *Reset) NextBoundary() time.Time {
	now := r.Now()
	next := time.Date(now.Year(), now.Month(), now.Day(), r.Boundary/60, r.Boundary%60, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// tick resets the schedule when the most recent boundary has not been
// handled yet. Failures are logged and retried on the next tick; nothing
// here may terminate the loop.
func (r *Reset) tick() {
	now := r.Now()
	nowMinutes := now.Hour()*60 + now.Minute()

	// The day whose boundary was crossed most recently. Before today's
	// boundary that is yesterday's.
	boundaryDay := now
	if nowMinutes < r.Boundary {
		boundaryDay = now.AddDate(0, 0, -1)
	}
	key := boundaryDay.Format(dayLayout)

	last, err := r.Store.LastResetDay()
	if err != nil {
		slog.Error("reset: read last reset day", "error", err)
		return
	}
	if last == key {
		return
	}

	err = r.Store.Mutate(func(sched models.Schedule) (models.Schedule, error) {
		for day, tasks := range sched {
			for i := range tasks {
				tasks[i].Accomplished = false
			}
			sched[day] = tasks
		}
		return sched, nil
	})
	if err != nil {
		slog.Error("reset: clear accomplished flags", "error", err)
		return
	}
	if err := r.Store.SetLastResetDay(key); err != nil {
		slog.Error("reset: record reset day", "error", err)
		return
	}

	metrics.ScheduleResets.Inc()
	slog.Info("reset: cleared accomplished flags", "boundary_day", key)
}

func (r *Reset) boundaryClock() string {
	return time.Date(0, 1, 1, r.Boundary/60, r.Boundary%60, 0, 0, time.UTC).Format("15:04")
}
