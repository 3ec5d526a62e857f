// Command agent bridges a device-side foreground-app hook to the habitguard
// API. It reads one event per line from stdin — either a bare package name or
// a JSON object {"package": "...", "event": "...", "timestamp": "..."} — and
// POSTs each to /events. The OS accessibility hook pipes into it.
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	defaultAPI  = "http://localhost:8080"
	envAPIURL   = "HABITGUARD_API_URL"
	envAPIToken = "HABITGUARD_TOKEN"
)

func main() {
	apiBase := getEnv(envAPIURL, defaultAPI)
	token := os.Getenv(envAPIToken)
	if token == "" {
		log.Fatalf("%s must be set (run `habitctl login` and copy the token)", envAPIToken)
	}

	log.Printf("agent: forwarding events to %s", apiBase)

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		ev := parseLine(line)
		status, body, err := postEvent(apiBase, token, ev)
		if err != nil {
			log.Printf("agent: post event: %v", err)
			continue
		}
		switch status {
		case http.StatusAccepted:
			// delivered
		case http.StatusServiceUnavailable:
			log.Printf("agent: event queue full, dropped %s", ev.Package)
		default:
			log.Printf("agent: unexpected status %d: %s", status, body)
		}
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("agent: read stdin: %v", err)
	}
}

type event struct {
	Package   string    `json:"package"`
	Event     string    `json:"event"`
	Timestamp time.Time `json:"timestamp"`
}

// parseLine accepts JSON objects or bare package names.
func parseLine(line string) event {
	var ev event
	if strings.HasPrefix(line, "{") {
		if err := json.Unmarshal([]byte(line), &ev); err == nil && ev.Package != "" {
			return fill(ev)
		}
	}
	return fill(event{Package: line})
}

func fill(ev event) event {
	if ev.Event == "" {
		ev.Event = "WINDOW_STATE_CHANGED"
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	return ev
}

// postEvent performs POST /events with the bearer token.
func postEvent(apiBase, token string, ev event) (int, string, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return 0, "", err
	}
	req, err := http.NewRequest("POST", apiBase+"/events", bytes.NewReader(payload))
	if err != nil {
		return 0, "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body), nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
