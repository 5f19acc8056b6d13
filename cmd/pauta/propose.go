package main

import (
	"encoding/json"
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pautahq/pauta/internal/planner"
)

var (
	proposeOrgID     string
	proposeMeetingID string
	proposeSubject   string
	proposeLanguage  string
	proposeMinutes   int
)

var proposeCmd = &cobra.Command{
	Use:   "propose [query]",
	Short: "Plan an agenda synchronously and print the stored proposal",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		if query == "" && proposeSubject == "" {
			return errors.New("a query argument or --subject is required")
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		proposal, state, err := a.planner.Plan(cmd.Context(), planner.Request{
			OrgID:           proposeOrgID,
			RawQuery:        query,
			MeetingID:       proposeMeetingID,
			Subject:         proposeSubject,
			Language:        proposeLanguage,
			DurationMinutes: proposeMinutes,
		})
		if err != nil {
			return err
		}

		for _, msg := range state.Errors {
			a.logger.Warn("stage degraded during planning", "detail", msg)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(proposal)
	},
}

func init() {
	proposeCmd.Flags().StringVar(&proposeOrgID, "org", "", "organization id (required)")
	proposeCmd.Flags().StringVar(&proposeMeetingID, "meeting", "", "meeting id for idempotent storage")
	proposeCmd.Flags().StringVar(&proposeSubject, "subject", "", "explicit meeting subject")
	proposeCmd.Flags().StringVar(&proposeLanguage, "lang", "", "agenda language (pt-BR or en-US)")
	proposeCmd.Flags().IntVar(&proposeMinutes, "minutes", 0, "meeting duration in minutes")
	_ = proposeCmd.MarkFlagRequired("org")
	rootCmd.AddCommand(proposeCmd)
}
