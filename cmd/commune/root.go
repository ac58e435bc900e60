package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "commune",
	Short: "Commune - séance chat relay service",
	Long: `Commune relays séance chat messages between the ghost-hunting app and
a large-language-model chat completion endpoint.

It provides:
  - Payload validation and history sanitization
  - Per-caller sliding-window rate limiting (memory or redis backed)
  - Supabase-backed caller identity resolution
  - Prompt assembly with séance and location context hints`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
}
