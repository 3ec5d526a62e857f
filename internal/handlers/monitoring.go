package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/crucial707/habitguard/internal/store"
)

// MonitoringHandler exposes the monitoring-enabled flag.
type MonitoringHandler struct {
	Store *store.Store
}

type monitoringResponse struct {
	Enabled bool `json:"enabled"`
}

// GetMonitoring returns the current flag.
func (h *MonitoringHandler) GetMonitoring(w http.ResponseWriter, r *http.Request) {
	enabled, err := h.Store.IsMonitoringEnabled()
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(monitoringResponse{Enabled: enabled})
}

// SetMonitoring sets the flag. Body: {"enabled": true}. Responds with the new value.
func (h *MonitoringHandler) SetMonitoring(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Enabled *bool `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Enabled == nil {
		JSONError(w, "invalid JSON: enabled required", http.StatusBadRequest)
		return
	}

	enabled, err := h.Store.SetMonitoringEnabled(*input.Enabled)
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(monitoringResponse{Enabled: enabled})
}

// ToggleMonitoring flips the flag and responds with the new value.
func (h *MonitoringHandler) ToggleMonitoring(w http.ResponseWriter, r *http.Request) {
	enabled, err := h.Store.ToggleMonitoringEnabled()
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(monitoringResponse{Enabled: enabled})
}
