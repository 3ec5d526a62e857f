package recorder

import (
	"errors"
	"fmt"
	"time"

	"github.com/crucial707/habitguard/internal/models"
	"github.com/crucial707/habitguard/internal/store"
)

// ErrPremature is returned when a task is marked accomplished before its
// scheduled time. The schedule is left unchanged.
var ErrPremature = errors.New("task is not due yet")

// ErrTaskNotFound is returned when the day or index does not name a task.
var ErrTaskNotFound = errors.New("task not found")

// Recorder flips a single task's accomplished flag. The write goes through
// store.Mutate, so it serializes against the daily reset's bulk clear.
type Recorder struct {
	Store *store.Store

	// Now is the wall clock; overridable in tests. Defaults to time.Now.
	Now func() time.Time

	// OnRecorded, when set, is called after a successful write. The monitor
	// hooks this to resolve a pending block.
	OnRecorded func(day string, index int)
}

// New returns a Recorder over the given store.
func New(s *store.Store) *Recorder {
	return &Recorder{Store: s, Now: time.Now}
}

// RecordAccomplished marks the task at (day, index) accomplished. Marking is
// one-way within a day: an already-accomplished task is a no-op success, and
// only the daily reset clears flags. A task whose time is still in the future
// is rejected with ErrPremature; a task with a malformed time can never be
// due, so it is rejected the same way.
func (r *Recorder) RecordAccomplished(day string, index int) error {
	if !models.IsDay(day) {
		return fmt.Errorf("%w: unknown day %q", ErrTaskNotFound, day)
	}

	now := r.Now()
	nowMinutes := now.Hour()*60 + now.Minute()

	err := r.Store.Mutate(func(sched models.Schedule) (models.Schedule, error) {
		tasks := sched[day]
		if index < 0 || index >= len(tasks) {
			return nil, fmt.Errorf("%w: %s[%d]", ErrTaskNotFound, day, index)
		}
		if tasks[index].Accomplished {
			return sched, nil
		}
		due, perr := models.ParseClock(tasks[index].Time)
		if perr != nil || due > nowMinutes {
			return nil, ErrPremature
		}
		tasks[index].Accomplished = true
		return sched, nil
	})
	if err != nil {
		return err
	}

	if r.OnRecorded != nil {
		r.OnRecorded(day, index)
	}
	return nil
}
