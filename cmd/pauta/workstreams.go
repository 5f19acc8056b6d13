package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	workstreamsOrgID    string
	workstreamsStatuses []string
)

var workstreamsCmd = &cobra.Command{
	Use:   "workstreams",
	Short: "Inspect workstreams",
}

var workstreamsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the organization's workstreams",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		list, err := a.workstreams.ListByOrg(cmd.Context(), workstreamsOrgID, workstreamsStatuses)
		if err != nil {
			return fmt.Errorf("listing workstreams: %w", err)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	},
}

func init() {
	workstreamsListCmd.Flags().StringVar(&workstreamsOrgID, "org", "", "organization id (required)")
	workstreamsListCmd.Flags().StringSliceVar(&workstreamsStatuses, "statuses", nil, "filter by health status (green, yellow, red)")
	_ = workstreamsListCmd.MarkFlagRequired("org")

	workstreamsCmd.AddCommand(workstreamsListCmd)
	rootCmd.AddCommand(workstreamsCmd)
}
