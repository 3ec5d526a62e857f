package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/crucial707/habitguard/internal/monitor"
	"github.com/crucial707/habitguard/internal/scheduler"
	"github.com/crucial707/habitguard/internal/store"
)

// StatusHandler reports the monitor state and reset schedule.
type StatusHandler struct {
	Store   *store.Store
	Monitor *monitor.Monitor
	Reset   *scheduler.Reset
}

// GetStatus handles GET /status.
func (h *StatusHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	enabled, err := h.Store.IsMonitoringEnabled()
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	state, pkg := h.Monitor.Snapshot()

	out := map[string]interface{}{
		"monitoring_enabled": enabled,
		"monitor_state":      state.String(),
		"next_reset":         h.Reset.NextBoundary().Format(time.RFC3339),
	}
	if pkg != "" {
		out["blocking_package"] = pkg
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}
