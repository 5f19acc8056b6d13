package main

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "pauta",
	Short: "Meeting agenda planner",
	Long: `pauta plans meeting agendas from an organization's fact base.

It gathers facts from workstreams, full-text search and urgency scans,
ranks them, and assembles a time-boxed agenda shaped by the detected
meeting intent. Planning runs keep producing an agenda even when the
external reasoning service is unavailable.

Configuration comes from PAUTA_* environment variables or the YAML file
named by PAUTA_CONFIG_PATH.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
