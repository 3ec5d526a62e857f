package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Task is a single habit check-in: due time, display name, and whether it has
// been accomplished today. Flags are cleared schedule-wide by the daily reset.
type Task struct {
	Time         string `json:"time"`
	Accomplished bool   `json:"accomplished"`
	Name         string `json:"name"`
}

// Schedule maps a lowercase day name to that day's tasks, in insertion order.
// Absent days mean no tasks. Duplicate (day, time) pairs are allowed.
type Schedule map[string][]Task

// Days lists the seven canonical day keys.
var Days = []string{
	"sunday",
	"monday",
	"tuesday",
	"wednesday",
	"thursday",
	"friday",
	"saturday",
}

// IsDay reports whether s is one of the seven canonical day names.
func IsDay(s string) bool {
	for _, d := range Days {
		if s == d {
			return true
		}
	}
	return false
}

// ParseClock parses "HH:MM" (24h) into minutes since midnight.
func ParseClock(s string) (int, error) {
	h, m, ok := splitClock(s)
	if !ok {
		return 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	return h*60 + m, nil
}

// ValidClock reports whether s is a well-formed "HH:MM" value.
func ValidClock(s string) bool {
	_, _, ok := splitClock(s)
	return ok
}

func splitClock(s string) (h, m int, ok bool) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, false
	}
	m, err = strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, false
	}
	return h, m, true
}
