package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/crucial707/habitguard/internal/guard"
	"github.com/crucial707/habitguard/internal/models"
	"github.com/crucial707/habitguard/internal/monitor"
	"github.com/crucial707/habitguard/internal/recorder"
	"github.com/crucial707/habitguard/internal/scheduler"
)

func TestGetStatus(t *testing.T) {
	st := newTestStore(t, models.Schedule{
		"monday": {{Time: "08:00", Name: "Read"}},
	})
	if _, err := st.SetMonitoringEnabled(true); err != nil {
		t.Fatalf("enable monitoring: %v", err)
	}

	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.Local) // Monday 09:00
	rec := recorder.New(st)
	rec.Now = func() time.Time { return now }
	m := monitor.New(st, guard.NewPackageSet([]string{"com.instagram.android"}),
		monitor.NopOverlay{}, monitor.NopCapture{}, rec, 8)
	m.Now = func() time.Time { return now }

	reset, err := scheduler.NewReset(st, "23:59")
	if err != nil {
		t.Fatalf("NewReset: %v", err)
	}
	reset.Now = func() time.Time { return now }

	h := &StatusHandler{Store: st, Monitor: m, Reset: reset}

	rr := httptest.NewRecorder()
	h.GetStatus(rr, httptest.NewRequest(http.MethodGet, "/status", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}

	var out map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out["monitoring_enabled"] != true {
		t.Errorf("monitoring_enabled = %v", out["monitoring_enabled"])
	}
	if out["monitor_state"] != "idle" {
		t.Errorf("monitor_state = %v", out["monitor_state"])
	}
	wantNext := time.Date(2024, 1, 1, 23, 59, 0, 0, time.Local).Format(time.RFC3339)
	if out["next_reset"] != wantNext {
		t.Errorf("next_reset = %v, want %v", out["next_reset"], wantNext)
	}
	if _, ok := out["blocking_package"]; ok {
		t.Error("idle status must not carry a blocking_package")
	}
}
