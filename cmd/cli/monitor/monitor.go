package monitor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/crucial707/habitguard/cmd/cli/config"
)

// InitMonitor registers the monitor command tree on the root command.
func InitMonitor(rootCmd *cobra.Command) {
	monitorCmd := &cobra.Command{
		Use:   "monitor",
		Short: "Control app-blocking monitoring",
	}

	monitorCmd.AddCommand(
		statusCmd(),
		setCmd("on", true),
		setCmd("off", false),
		toggleCmd(),
	)

	rootCmd.AddCommand(monitorCmd)
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show monitor status",
		RunE: func(cmd *cobra.Command, args []string) error {
			var out struct {
				MonitoringEnabled bool   `json:"monitoring_enabled"`
				MonitorState      string `json:"monitor_state"`
				BlockingPackage   string `json:"blocking_package"`
				NextReset         string `json:"next_reset"`
			}
			if err := apiDo("GET", "/status", nil, &out); err != nil {
				return err
			}
			fmt.Printf("monitoring: %v\nstate: %s\n", out.MonitoringEnabled, out.MonitorState)
			if out.BlockingPackage != "" {
				fmt.Printf("blocking: %s\n", out.BlockingPackage)
			}
			fmt.Printf("next reset: %s\n", out.NextReset)
			return nil
		},
	}
}

func setCmd(use string, enabled bool) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: fmt.Sprintf("Turn monitoring %s", use),
		RunE: func(cmd *cobra.Command, args []string) error {
			var out struct {
				Enabled bool `json:"enabled"`
			}
			if err := apiDo("PUT", "/monitoring", map[string]bool{"enabled": enabled}, &out); err != nil {
				return err
			}
			fmt.Printf("monitoring enabled: %v\n", out.Enabled)
			return nil
		},
	}
}

func toggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle",
		Short: "Toggle monitoring",
		RunE: func(cmd *cobra.Command, args []string) error {
			var out struct {
				Enabled bool `json:"enabled"`
			}
			if err := apiDo("POST", "/monitoring/toggle", nil, &out); err != nil {
				return err
			}
			fmt.Printf("monitoring enabled: %v\n", out.Enabled)
			return nil
		},
	}
}

func apiDo(method, path string, payload interface{}, out interface{}) error {
	token, err := config.ReadToken()
	if err != nil {
		return fmt.Errorf("please login first")
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, config.APIURL()+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(data))
	}
	if out != nil && len(data) > 0 {
		return json.Unmarshal(data, out)
	}
	return nil
}
