package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pautahq/pauta/internal/domain/fact"
)

var (
	factsOrgID string
	factsTypes []string
	factsLimit int
)

var factsCmd = &cobra.Command{
	Use:   "facts",
	Short: "Inspect and curate the fact store",
}

var factsSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search over the organization's facts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		facts, err := a.facts.Search(cmd.Context(), factsOrgID, args[0], factsTypes, factsLimit)
		if err != nil {
			return fmt.Errorf("searching facts: %w", err)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(facts)
	},
}

var factsStatusCmd = &cobra.Command{
	Use:   "status <fact-id> <status>",
	Short: "Move a fact through its validation lifecycle",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, status := args[0], args[1]
		if !fact.AllowedStatuses[status] {
			statuses := make([]string, 0, len(fact.AllowedStatuses))
			for s := range fact.AllowedStatuses {
				statuses = append(statuses, s)
			}
			return fmt.Errorf("invalid status %q (expected one of %s)", status, strings.Join(statuses, ", "))
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.facts.UpdateStatus(cmd.Context(), id, status); err != nil {
			return fmt.Errorf("updating fact status: %w", err)
		}
		fmt.Printf("fact %s is now %s\n", id, status)
		return nil
	},
}

func init() {
	factsSearchCmd.Flags().StringVar(&factsOrgID, "org", "", "organization id (required)")
	factsSearchCmd.Flags().StringSliceVar(&factsTypes, "types", nil, "restrict to fact types")
	factsSearchCmd.Flags().IntVar(&factsLimit, "limit", 20, "maximum results")
	_ = factsSearchCmd.MarkFlagRequired("org")

	factsCmd.AddCommand(factsSearchCmd, factsStatusCmd)
	rootCmd.AddCommand(factsCmd)
}
