package models

import "time"

// EventWindowStateChanged is the only event kind the monitor acts on.
const EventWindowStateChanged = "WINDOW_STATE_CHANGED"

// ForegroundEvent is one foreground-application change reported by the
// device-side hook.
type ForegroundEvent struct {
	Package   string    `json:"package"`
	Event     string    `json:"event"`
	Timestamp time.Time `json:"timestamp"`
}
