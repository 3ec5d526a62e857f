package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/crucial707/habitguard/internal/monitor"
	"github.com/crucial707/habitguard/internal/recorder"
)

// CompletionHandler marks a task accomplished after the capture collaborator
// produces a proof photo.
type CompletionHandler struct {
	Monitor *monitor.Monitor
}

// Complete handles POST /schedule/{day}/tasks/{index}/complete.
func (h *CompletionHandler) Complete(w http.ResponseWriter, r *http.Request) {
	day, index, ok := taskRef(w, r)
	if !ok {
		return
	}

	err := h.Monitor.ResolveWithProof(day, index)
	switch {
	case err == nil:
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"day":          day,
			"index":        index,
			"accomplished": true,
		})
	case errors.Is(err, recorder.ErrPremature):
		JSONCodeError(w, "task is not due yet", "premature", http.StatusConflict)
	case errors.Is(err, recorder.ErrTaskNotFound):
		JSONError(w, "task not found", http.StatusNotFound)
	case errors.Is(err, monitor.ErrCaptureCanceled):
		JSONCodeError(w, "capture canceled", "canceled", http.StatusConflict)
	case errors.Is(err, monitor.ErrPermissionDenied):
		JSONCodeError(w, "capture permission missing", "permission_denied", http.StatusForbidden)
	default:
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
	}
}
