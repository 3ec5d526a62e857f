package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/crucial707/habitguard/internal/blob"
	"github.com/crucial707/habitguard/internal/config"
	"github.com/crucial707/habitguard/internal/guard"
	"github.com/crucial707/habitguard/internal/monitor"
	"github.com/crucial707/habitguard/internal/recorder"
	"github.com/crucial707/habitguard/internal/scheduler"
	"github.com/crucial707/habitguard/internal/store"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := config.Config{
		JWTSecret:      "test-secret-for-integration",
		JWTExpireHours: 1,
		AdminUser:      "integration",
		AdminPass:      "integration-pass",
	}

	st := store.New(blob.NewMemory())
	rec := recorder.New(st)
	mon := monitor.New(st, guard.NewPackageSet([]string{"com.instagram.android"}),
		monitor.NopOverlay{}, monitor.NopCapture{}, rec, 8)
	reset, err := scheduler.NewReset(st, "23:59")
	if err != nil {
		t.Fatalf("NewReset: %v", err)
	}

	srv := httptest.NewServer(newRouter(st, mon, reset, cfg))
	t.Cleanup(srv.Close)
	return srv
}

func login(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{
		"username": "integration",
		"password": "integration-pass",
	})
	resp, err := http.Post(srv.URL+"/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status: got %d, want 200", resp.StatusCode)
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil || out.Token == "" {
		t.Fatalf("login response: %v", err)
	}
	return out.Token
}

func authedDo(t *testing.T, srv *httptest.Server, token, method, path string, body []byte) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, bytes.NewReader(body))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

// TestAPI_LoginThenManageSchedule is an integration test: it builds the full
// router over an in-memory store, logs in to get a JWT, adds a task, reads the
// schedule back and toggles monitoring.
func TestAPI_LoginThenManageSchedule(t *testing.T) {
	srv := testServer(t)
	token := login(t, srv)

	// 1) Add a task
	resp := authedDo(t, srv, token, "POST", "/schedule/monday/tasks",
		[]byte(`{"time":"08:00","name":"Read"}`))
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST task status: got %d, want 201", resp.StatusCode)
	}

	// 2) Read the schedule back
	resp = authedDo(t, srv, token, "GET", "/schedule", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /schedule status: got %d, want 200", resp.StatusCode)
	}
	var sched map[string][]struct {
		Time         string `json:"time"`
		Accomplished bool   `json:"accomplished"`
		Name         string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&sched); err != nil {
		t.Fatalf("decode schedule: %v", err)
	}
	if len(sched["monday"]) != 1 || sched["monday"][0].Name != "Read" {
		t.Errorf("unexpected schedule: %+v", sched)
	}

	// 3) Toggle monitoring on
	resp = authedDo(t, srv, token, "POST", "/monitoring/toggle", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("toggle status: got %d, want 200", resp.StatusCode)
	}
	var mon struct {
		Enabled bool `json:"enabled"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&mon); err != nil || !mon.Enabled {
		t.Errorf("toggle response: enabled=%v err=%v, want enabled", mon.Enabled, err)
	}
}

// TestAPI_PostEvent checks that the event ingest endpoint accepts a foreground
// event behind the JWT.
func TestAPI_PostEvent(t *testing.T) {
	srv := testServer(t)
	token := login(t, srv)

	resp := authedDo(t, srv, token, "POST", "/events",
		[]byte(`{"package":"com.instagram.android","event":"WINDOW_STATE_CHANGED"}`))
	resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Errorf("POST /events status: got %d, want 202", resp.StatusCode)
	}
}

// TestAPI_RequiresToken checks that protected routes reject anonymous calls.
func TestAPI_RequiresToken(t *testing.T) {
	srv := testServer(t)

	resp, err := http.Get(srv.URL + "/schedule")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("GET /schedule without token: got %d, want 401", resp.StatusCode)
	}
}

// TestAPI_Health is a quick smoke test for the health endpoint.
func TestAPI_Health(t *testing.T) {
	srv := testServer(t)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("health request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /health status: got %d, want 200", resp.StatusCode)
	}
}

// TestAPI_Ready checks that /ready probes the store and returns 200 when it is
// reachable.
func TestAPI_Ready(t *testing.T) {
	srv := testServer(t)

	resp, err := http.Get(srv.URL + "/ready")
	if err != nil {
		t.Fatalf("ready request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /ready status: got %d, want 200", resp.StatusCode)
	}
}
