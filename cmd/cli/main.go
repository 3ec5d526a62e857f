package main

import (
	"fmt"
	"os"

	"github.com/crucial707/habitguard/cmd/cli/auth"
	"github.com/crucial707/habitguard/cmd/cli/habits"
	"github.com/crucial707/habitguard/cmd/cli/monitor"
	"github.com/crucial707/habitguard/cmd/cli/root"
)

func main() {
	rootCmd := root.GetRoot()
	auth.InitAuth(rootCmd)
	habits.InitHabits(rootCmd)
	monitor.InitMonitor(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
