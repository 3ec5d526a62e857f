package habits

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/crucial707/habitguard/cmd/cli/config"
)

// captureOutput helps capture stdout during command execution.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	return buf.String()
}

// withAPI points the CLI at srv and stores a dummy token in a throwaway home.
func withAPI(t *testing.T, srv *httptest.Server) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("HABITGUARD_API_URL", srv.URL)
	if err := config.SaveToken("test-token"); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}
}

func TestListHabits_TableOutput(t *testing.T) {
	sched := map[string][]task{
		"monday":  {{Time: "08:00", Name: "Read", Accomplished: true}},
		"tuesday": {{Time: "07:30", Name: "Run"}},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/schedule" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Fatalf("unexpected auth header: %q", got)
		}
		_ = json.NewEncoder(w).Encode(sched)
	}))
	defer srv.Close()

	withAPI(t, srv)

	cmd := listCmd()
	out := captureOutput(t, func() {
		if err := cmd.RunE(cmd, nil); err != nil {
			t.Errorf("list: %v", err)
		}
	})

	if !strings.Contains(out, "Read") || !strings.Contains(out, "Run") {
		t.Fatalf("expected habit names in output, got: %s", out)
	}
	if !strings.Contains(out, "yes") {
		t.Fatalf("expected accomplished marker in output, got: %s", out)
	}
}

func TestAddHabit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/schedule/monday/tasks" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(task{Time: in["time"], Name: in["name"]})
	}))
	defer srv.Close()

	withAPI(t, srv)

	cmd := addCmd()
	_ = cmd.Flags().Set("day", "monday")
	_ = cmd.Flags().Set("time", "08:00")
	_ = cmd.Flags().Set("name", "Read")

	out := captureOutput(t, func() {
		if err := cmd.RunE(cmd, nil); err != nil {
			t.Errorf("add: %v", err)
		}
	})
	if !strings.Contains(out, "Read") {
		t.Fatalf("expected confirmation, got: %s", out)
	}
}

func TestDoneHabit_PrematureError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"error": "task is not due yet",
			"code":  "premature",
		})
	}))
	defer srv.Close()

	withAPI(t, srv)

	cmd := doneCmd()
	_ = cmd.Flags().Set("day", "monday")
	_ = cmd.Flags().Set("index", "0")

	err := cmd.RunE(cmd, nil)
	if err == nil || !strings.Contains(err.Error(), "not due yet") {
		t.Fatalf("expected the server's error message, got: %v", err)
	}
}

func TestHabits_RequireLogin(t *testing.T) {
	t.Setenv("HOME", t.TempDir()) // no token saved

	cmd := listCmd()
	if err := cmd.RunE(cmd, nil); err == nil {
		t.Fatal("expected an error without a stored token")
	}
}
