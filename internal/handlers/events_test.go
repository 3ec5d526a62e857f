package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/crucial707/habitguard/internal/guard"
	"github.com/crucial707/habitguard/internal/monitor"
	"github.com/crucial707/habitguard/internal/recorder"
)

func eventsHandler(t *testing.T, queueSize int) *EventsHandler {
	t.Helper()
	st := newTestStore(t, nil)
	rec := recorder.New(st)
	m := monitor.New(st, guard.NewPackageSet(nil), monitor.NopOverlay{}, monitor.NopCapture{}, rec, queueSize)
	return &EventsHandler{Monitor: m}
}

func TestPostEvent_Accepted(t *testing.T) {
	h := eventsHandler(t, 8)

	body := []byte(`{"package":"com.instagram.android","event":"WINDOW_STATE_CHANGED","timestamp":"` +
		time.Now().Format(time.RFC3339) + `"}`)
	rr := httptest.NewRecorder()
	h.PostEvent(rr, requestWithChiURLParams(http.MethodPost, "/events", body, nil))

	if rr.Code != http.StatusAccepted {
		t.Errorf("status = %d, want 202: %s", rr.Code, rr.Body.String())
	}
}

func TestPostEvent_DefaultsEventAndTimestamp(t *testing.T) {
	h := eventsHandler(t, 8)

	rr := httptest.NewRecorder()
	h.PostEvent(rr, requestWithChiURLParams(http.MethodPost, "/events",
		[]byte(`{"package":"com.instagram.android"}`), nil))

	if rr.Code != http.StatusAccepted {
		t.Errorf("status = %d, want 202: %s", rr.Code, rr.Body.String())
	}
}

func TestPostEvent_RequiresPackage(t *testing.T) {
	h := eventsHandler(t, 8)

	for _, body := range []string{`{}`, `{"event":"WINDOW_STATE_CHANGED"}`, `not json`} {
		rr := httptest.NewRecorder()
		h.PostEvent(rr, requestWithChiURLParams(http.MethodPost, "/events", []byte(body), nil))
		if rr.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, rr.Code)
		}
	}
}

func TestPostEvent_QueueFull(t *testing.T) {
	// Queue of one with no consumer running.
	h := eventsHandler(t, 1)

	body := []byte(`{"package":"com.instagram.android"}`)
	rr := httptest.NewRecorder()
	h.PostEvent(rr, requestWithChiURLParams(http.MethodPost, "/events", body, nil))
	if rr.Code != http.StatusAccepted {
		t.Fatalf("first event: status = %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.PostEvent(rr, requestWithChiURLParams(http.MethodPost, "/events", body, nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("overflow event: status = %d, want 503", rr.Code)
	}
}
