// Package reasoning defines the contract with the external structured
// reasoning service. The planner treats it as a black box: every task is a
// single request/response call, and every task has a deterministic fallback
// elsewhere in the codebase for when the service is unavailable.
package reasoning

import (
	"context"
	"errors"

	"github.com/pautahq/pauta/internal/domain/agenda"
	"github.com/pautahq/pauta/internal/domain/fact"
	"github.com/pautahq/pauta/internal/domain/plan"
	"github.com/pautahq/pauta/internal/domain/workstream"
)

// ErrUnavailable indicates the reasoning service could not be reached or did
// not return a usable response. Callers fall back to deterministic behavior.
var ErrUnavailable = errors.New("reasoning service unavailable")

// ParseResult is the structured reading of a natural-language request.
type ParseResult struct {
	Subject         string         `json:"subject"`
	Language        string         `json:"language"`
	DurationMinutes int            `json:"duration_minutes"`
	Constraints     map[string]any `json:"constraints"`
}

// ContextRequest carries recent meeting history for analysis.
type ContextRequest struct {
	OrgID          string            `json:"org_id"`
	RecentMeetings []agenda.Proposal `json:"recent_meetings"`
	OpenItems      []plan.OpenItem   `json:"open_items"`
}

// ContextAnalysis summarizes recent meeting patterns.
type ContextAnalysis struct {
	Summary   string   `json:"summary"`
	Themes    []string `json:"themes"`
	Frequency string   `json:"frequency"`
}

// IntentRequest carries everything needed to classify the meeting's purpose.
type IntentRequest struct {
	Subject              string                  `json:"subject"`
	ContextSummary       string                  `json:"context_summary"`
	Themes               []string                `json:"themes"`
	OpenItemCount        int                     `json:"open_item_count"`
	Language             string                  `json:"language"`
	AvailableWorkstreams []workstream.Workstream `json:"available_workstreams"`
}

// IntentResult is the classified purpose plus the workstream titles the
// service considered relevant.
type IntentResult struct {
	Intent      string   `json:"intent"`
	Confidence  float64  `json:"confidence"`
	Reasoning   string   `json:"reasoning"`
	Workstreams []string `json:"workstreams"`
	FocusAreas  []string `json:"focus_areas"`
}

// RankRequest asks the service to order candidate facts by relevance.
type RankRequest struct {
	Facts               []fact.Fact `json:"facts"`
	Intent              string      `json:"intent"`
	Subject             string      `json:"subject"`
	FocusAreas          []string    `json:"focus_areas"`
	Language            string      `json:"language"`
	SelectedWorkstreams []string    `json:"selected_workstreams"`
}

// RankResult is an ordered list of fact ids. Ids not present in the request
// must be discarded by the caller.
type RankResult struct {
	RankedFactIDs []string `json:"ranked_fact_ids"`
	Reasoning     string   `json:"reasoning"`
}

// StatusRequest asks for a synthesis of current workstream state.
type StatusRequest struct {
	Workstreams []workstream.Workstream `json:"workstreams"`
	RecentFacts []fact.Fact             `json:"recent_facts"`
	Language    string                  `json:"language"`
}

// SummaryRequest asks for the high-level meeting context summary.
type SummaryRequest struct {
	Workstreams     []workstream.Workstream `json:"workstreams"`
	TopFacts        []fact.Fact             `json:"top_facts"`
	ContextSummary  string                  `json:"context_summary"`
	Language        string                  `json:"language"`
	ExternalContext string                  `json:"external_context,omitempty"`
	StatusSummary   string                  `json:"status_summary,omitempty"`
}

// BuildRequest asks the service to draft a full agenda.
type BuildRequest struct {
	Intent          string          `json:"intent"`
	Template        agenda.Template `json:"template"`
	Facts           []fact.Fact     `json:"facts"`
	MacroSummary    string          `json:"macro_summary"`
	DurationMinutes int             `json:"duration_minutes"`
	Language        string          `json:"language"`
	ExternalContext string          `json:"external_context,omitempty"`
}

// ReviewRequest asks for a quality assessment of a draft agenda.
type ReviewRequest struct {
	Draft         agenda.Agenda `json:"draft"`
	Intent        string        `json:"intent"`
	Subject       string        `json:"subject"`
	OpenItemCount int           `json:"open_item_count"`
	Language      string        `json:"language"`
}

// Review is the service's quality verdict on a draft.
type Review struct {
	QualityScore float64  `json:"quality_score"`
	Issues       []string `json:"issues"`
	Suggestions  []string `json:"suggestions"`
}

// Client is the uniform request/response contract with the reasoning service.
type Client interface {
	Parse(ctx context.Context, rawQuery, orgID string) (*ParseResult, error)
	AnalyzeContext(ctx context.Context, req ContextRequest) (*ContextAnalysis, error)
	DetectIntent(ctx context.Context, req IntentRequest) (*IntentResult, error)
	RankFacts(ctx context.Context, req RankRequest) (*RankResult, error)
	SynthesizeWorkstreamStatus(ctx context.Context, req StatusRequest) (string, error)
	Summarize(ctx context.Context, req SummaryRequest) (string, error)
	BuildAgenda(ctx context.Context, req BuildRequest) (*agenda.Agenda, error)
	ReviewQuality(ctx context.Context, req ReviewRequest) (*Review, error)
}
