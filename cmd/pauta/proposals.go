package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	proposalsOrgID string
	proposalsLimit int
)

var proposalsCmd = &cobra.Command{
	Use:   "proposals",
	Short: "Inspect stored agenda proposals",
}

var proposalsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored proposals, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		list, err := a.proposals.ListByOrg(cmd.Context(), proposalsOrgID, proposalsLimit)
		if err != nil {
			return fmt.Errorf("listing proposals: %w", err)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	},
}

func init() {
	proposalsListCmd.Flags().StringVar(&proposalsOrgID, "org", "", "organization id (required)")
	proposalsListCmd.Flags().IntVar(&proposalsLimit, "limit", 10, "maximum results")
	_ = proposalsListCmd.MarkFlagRequired("org")

	proposalsCmd.AddCommand(proposalsListCmd)
	rootCmd.AddCommand(proposalsCmd)
}
