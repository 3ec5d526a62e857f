package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/crucial707/habitguard/internal/models"
	"github.com/crucial707/habitguard/internal/monitor"
)

// EventsHandler ingests foreground-change events from the device-side hook
// and feeds them to the monitor's bounded queue.
type EventsHandler struct {
	Monitor *monitor.Monitor
}

// PostEvent handles POST /events. Body: {"package": "...", "event":
// "WINDOW_STATE_CHANGED", "timestamp": "..."}. Event defaults to
// WINDOW_STATE_CHANGED and timestamp to now. Returns 202 on enqueue and 503
// when the queue is full (the event is dropped; the monitor is unaffected).
func (h *EventsHandler) PostEvent(w http.ResponseWriter, r *http.Request) {
	var ev models.ForegroundEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if ev.Package == "" {
		JSONValidationError(w, "validation failed", map[string]string{"package": "required"}, http.StatusBadRequest)
		return
	}
	if ev.Event == "" {
		ev.Event = models.EventWindowStateChanged
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}

	if !h.Monitor.Offer(ev) {
		JSONError(w, "event queue full", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}
