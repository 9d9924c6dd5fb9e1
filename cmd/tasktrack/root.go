package main

import (
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var rootCmd = &cobra.Command{
	Use:          "tasktrack",
	Short:        "Tasktrack task lifecycle tracker",
	Long:         "A task tracker with a fixed NEW -> IN_PROGRESS -> DONE lifecycle,\nserved over HTTP and as agent tools.",
	Version:      version,
	SilenceUsage: true,
}

// Global flags
var (
	jsonOutput bool
	configPath string
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default ~/.tasktrack/config.toml)")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitGeneralError)
	}
}
