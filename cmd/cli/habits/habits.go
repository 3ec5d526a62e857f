package habits

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/crucial707/habitguard/cmd/cli/config"
	"github.com/crucial707/habitguard/cmd/cli/output"
)

// InitHabits registers the habits command tree on the root command.
func InitHabits(rootCmd *cobra.Command) {
	habitsCmd := &cobra.Command{
		Use:   "habits",
		Short: "Manage the weekly habit schedule",
	}

	habitsCmd.AddCommand(
		listCmd(),
		addCmd(),
		editCmd(),
		deleteCmd(),
		doneCmd(),
	)

	rootCmd.AddCommand(habitsCmd)
}

type task struct {
	Time         string `json:"time"`
	Accomplished bool   `json:"accomplished"`
	Name         string `json:"name"`
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the full schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			var sched map[string][]task
			if err := apiDo("GET", "/schedule", nil, &sched); err != nil {
				return err
			}

			days := []string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}
			rows := [][]interface{}{}
			for _, day := range days {
				for i, t := range sched[day] {
					rows = append(rows, []interface{}{day, i, t.Time, t.Name, output.Check(t.Accomplished)})
				}
			}
			output.RenderTable([]string{"Day", "#", "Time", "Habit", "Done"}, rows)
			return nil
		},
	}
}

func addCmd() *cobra.Command {
	var day, timeStr, name string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a habit check-in",
		RunE: func(cmd *cobra.Command, args []string) error {
			var created task
			payload := map[string]string{"time": timeStr, "name": name}
			if err := apiDo("POST", "/schedule/"+day+"/tasks", payload, &created); err != nil {
				return err
			}
			fmt.Printf("Added %q at %s on %s\n", created.Name, created.Time, day)
			return nil
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "Day of week (e.g. monday)")
	cmd.Flags().StringVar(&timeStr, "time", "", "Check-in time, HH:MM (24h)")
	cmd.Flags().StringVar(&name, "name", "", "Habit name")
	cmd.MarkFlagRequired("day")
	cmd.MarkFlagRequired("time")
	cmd.MarkFlagRequired("name")

	return cmd
}

func editCmd() *cobra.Command {
	var day, timeStr, name string
	var index int

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit a habit check-in",
		RunE: func(cmd *cobra.Command, args []string) error {
			var updated task
			payload := map[string]string{"time": timeStr, "name": name}
			path := "/schedule/" + day + "/tasks/" + strconv.Itoa(index)
			if err := apiDo("PUT", path, payload, &updated); err != nil {
				return err
			}
			fmt.Printf("Updated %s[%d] to %q at %s\n", day, index, updated.Name, updated.Time)
			return nil
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "Day of week")
	cmd.Flags().IntVar(&index, "index", -1, "Task index within the day")
	cmd.Flags().StringVar(&timeStr, "time", "", "Check-in time, HH:MM (24h)")
	cmd.Flags().StringVar(&name, "name", "", "Habit name")
	cmd.MarkFlagRequired("day")
	cmd.MarkFlagRequired("index")
	cmd.MarkFlagRequired("time")
	cmd.MarkFlagRequired("name")

	return cmd
}

func deleteCmd() *cobra.Command {
	var day string
	var index int

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a habit check-in",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/schedule/" + day + "/tasks/" + strconv.Itoa(index)
			if err := apiDo("DELETE", path, nil, nil); err != nil {
				return err
			}
			fmt.Printf("Deleted %s[%d]\n", day, index)
			return nil
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "Day of week")
	cmd.Flags().IntVar(&index, "index", -1, "Task index within the day")
	cmd.MarkFlagRequired("day")
	cmd.MarkFlagRequired("index")

	return cmd
}

func doneCmd() *cobra.Command {
	var day string
	var index int

	cmd := &cobra.Command{
		Use:   "done",
		Short: "Mark a habit check-in accomplished",
		Long:  "Mark a habit check-in accomplished. Rejected when the check-in is not due yet.",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/schedule/" + day + "/tasks/" + strconv.Itoa(index) + "/complete"
			if err := apiDo("POST", path, nil, nil); err != nil {
				return err
			}
			fmt.Printf("Marked %s[%d] accomplished\n", day, index)
			return nil
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "Day of week")
	cmd.Flags().IntVar(&index, "index", -1, "Task index within the day")
	cmd.MarkFlagRequired("day")
	cmd.MarkFlagRequired("index")

	return cmd
}

// apiDo performs an authenticated request against the API and decodes the
// JSON response into out when non-nil.
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
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &errResp) == nil && errResp.Error != "" {
			return fmt.Errorf("%s", errResp.Error)
		}
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(data))
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return err
		}
	}
	return nil
}
