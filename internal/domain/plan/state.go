package plan

import (
	"fmt"

	"github.com/pautahq/pauta/internal/domain/agenda"
	"github.com/pautahq/pauta/internal/domain/fact"
	"github.com/pautahq/pauta/internal/domain/workstream"
)

// Meeting intents the planner can detect.
const (
	IntentDecisionMaking = "decision_making"
	IntentProblemSolving = "problem_solving"
	IntentPlanning       = "planning"
	IntentAlignment      = "alignment"
	IntentStatusUpdate   = "status_update"
	IntentKickoff        = "kickoff"
)

// ValidIntent reports whether s is one of the known intents.
func ValidIntent(s string) bool {
	switch s {
	case IntentDecisionMaking, IntentProblemSolving, IntentPlanning,
		IntentAlignment, IntentStatusUpdate, IntentKickoff:
		return true
	}
	return false
}

// MaxRefinements bounds the review → retrieve back-edge.
const MaxRefinements = 2

// QualityThreshold is the review score below which the planner refines.
const QualityThreshold = 0.7

// OpenItem is an unfinished bullet carried over from a previous meeting.
type OpenItem struct {
	Text        string `json:"text"`
	FromMeeting string `json:"from_meeting,omitempty"`
	Date        string `json:"date,omitempty"`
}

// State is the single mutable record threaded through every pipeline stage.
// One pipeline run owns one State; independent runs never share it.
type State struct {
	// Identity.
	SessionID string
	OrgID     string
	MeetingID string
	RawQuery  string

	// Derived inputs.
	Subject         string
	Language        string
	DurationMinutes int
	Constraints     map[string]any

	// Context.
	RecentMeetings []agenda.Proposal
	MeetingSummary string
	OpenItems      []OpenItem
	Themes         []string

	// Intent.
	Intent              string
	IntentConfidence    float64
	IntentReasoning     string
	SelectedWorkstreams []workstream.Workstream
	FocusAreas          []string

	// Retrieval.
	CandidateFacts      []fact.Fact
	RankedFacts         []fact.Fact
	RetrievalStats      map[string]int
	SupplementalContext string

	// Synthesis.
	WorkstreamStatusSummary string
	MacroSummary            string

	// Draft / result.
	DraftAgenda     agenda.Agenda
	QualityScore    float64
	QualityIssues   []string
	RefinementCount int
	FinalAgenda     agenda.Agenda
	ProposalID      string
	FinalProposal   *agenda.Proposal

	// Observability.
	StepTimings map[string]float64
	Errors      []string
}

// NewState seeds a State for a planning request.
func NewState(sessionID, orgID, rawQuery string) *State {
	return &State{
		SessionID:       sessionID,
		OrgID:           orgID,
		RawQuery:        rawQuery,
		Language:        "pt-BR",
		DurationMinutes: 30,
		Constraints:     map[string]any{},
		RetrievalStats:  map[string]int{},
		StepTimings:     map[string]float64{},
	}
}

// RecordError appends a stage-tagged error message. Errors only grow; no
// stage removes prior entries.
func (s *State) RecordError(stage string, err error) {
	if err == nil {
		return
	}
	s.Errors = append(s.Errors, fmt.Sprintf("%s: %v", stage, err))
}

// WorkstreamIDs returns the ids of the selected workstreams.
func (s *State) WorkstreamIDs() []string {
	ids := make([]string, 0, len(s.SelectedWorkstreams))
	for _, ws := range s.SelectedWorkstreams {
		ids = append(ids, ws.ID)
	}
	return ids
}

// WorkstreamTitles returns the titles of the selected workstreams.
func (s *State) WorkstreamTitles() []string {
	titles := make([]string, 0, len(s.SelectedWorkstreams))
	for _, ws := range s.SelectedWorkstreams {
		titles = append(titles, ws.Title)
	}
	return titles
}

// RankedFactIDs returns the ids of the ranked facts, in order.
func (s *State) RankedFactIDs() []string {
	ids := make([]string, 0, len(s.RankedFacts))
	for _, f := range s.RankedFacts {
		ids = append(ids, f.ID)
	}
	return ids
}

// Outcome is the explicit per-stage result. A degraded outcome means the
// stage hit a failure, recorded it, and wrote a deterministic fallback; the
// pipeline always proceeds.
type Outcome struct {
	Stage    string
	Degraded bool
	Err      error
}

// OK returns a successful outcome for a stage.
func OK(stage string) Outcome { return Outcome{Stage: stage} }

// Degraded returns a fail-open outcome carrying the recovered error.
func Degraded(stage string, err error) Outcome {
	return Outcome{Stage: stage, Degraded: true, Err: err}
}
