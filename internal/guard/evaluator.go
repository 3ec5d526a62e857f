package guard

import (
	"time"

	"github.com/crucial707/habitguard/internal/models"
)

// Decision is the outcome of evaluating one foreground event.
type Decision int

const (
	Allow Decision = iota
	Block
)

func (d Decision) String() string {
	if d == Block {
		return "block"
	}
	return "allow"
}

// PackageSet is the static set of application identifiers that are candidates
// for blocking. Fixed at startup, not user-editable at runtime.
type PackageSet map[string]struct{}

// NewPackageSet builds a set from a list of package names.
func NewPackageSet(pkgs []string) PackageSet {
	set := make(PackageSet, len(pkgs))
	for _, p := range pkgs {
		if p != "" {
			set[p] = struct{}{}
		}
	}
	return set
}

// Contains reports membership.
func (s PackageSet) Contains(pkg string) bool {
	_, ok := s[pkg]
	return ok
}

// Snapshot is the read-only state the evaluator decides against.
type Snapshot struct {
	Schedule          models.Schedule
	MonitoringEnabled bool
}

// Evaluate decides whether the foreground application must be blocked right
// now. It is a pure function: no I/O, no side effects.
//
// Block requires all of: monitoring enabled, some task for the current day
// that is not accomplished and whose time is at or before now, and the
// foreground package in the blocked set. Task order is irrelevant; this is an
// existential check. A task with an unparsable time is skipped rather than
// failing the decision, and a day name outside the seven canonical ones has
// no tasks.
func Evaluate(snap Snapshot, day string, now time.Time, pkg string, blocked PackageSet) Decision {
	if !snap.MonitoringEnabled {
		return Allow
	}
	if !blocked.Contains(pkg) {
		return Allow
	}
	nowMinutes := now.Hour()*60 + now.Minute()
	for _, task := range snap.Schedule[day] {
		if task.Accomplished {
			continue
		}
		due, err := models.ParseClock(task.Time)
		if err != nil {
			continue // malformed time: never due
		}
		if due <= nowMinutes {
			return Block
		}
	}
	return Allow
}

// DayOf returns the canonical lowercase day key for t's local date.
func DayOf(t time.Time) string {
	return models.Days[int(t.Weekday())]
}
