package planner

import (
	"context"
	"fmt"
	"strings"

	"github.com/pautahq/pauta/internal/domain/agenda"
	"github.com/pautahq/pauta/internal/domain/fact"
	"github.com/pautahq/pauta/internal/domain/plan"
	"github.com/pautahq/pauta/internal/domain/workstream"
	"github.com/pautahq/pauta/internal/reasoning"
	"github.com/pautahq/pauta/internal/retrieval"
)

const (
	recentProposalLimit = 5
	recentFactLimit     = 20
)

// parse derives subject, language and duration from the raw query. The
// reasoning service reads it properly; the heuristic parser covers outages.
// Explicit request fields always win.
func (p *Planner) parse(ctx context.Context, state *plan.State, req Request) plan.Outcome {
	var parsed *reasoning.ParseResult
	var degradedErr error

	if p.reasoner != nil {
		res, err := p.reasoner.Parse(ctx, state.RawQuery, state.OrgID)
		if err != nil {
			degradedErr = err
		} else {
			parsed = res
		}
	}
	if parsed == nil {
		fallback := ParseHeuristic(state.RawQuery)
		parsed = &fallback
	}

	if req.Subject == "" && parsed.Subject != "" {
		state.Subject = parsed.Subject
	}
	if req.Language == "" && parsed.Language != "" {
		state.Language = parsed.Language
	}
	if req.DurationMinutes <= 0 && parsed.DurationMinutes > 0 {
		state.DurationMinutes = clampDuration(parsed.DurationMinutes)
	}
	if parsed.Constraints != nil {
		state.Constraints = parsed.Constraints
	}

	if degradedErr != nil {
		return plan.Degraded(StageParse, degradedErr)
	}
	return plan.OK(StageParse)
}

// analyzeContext loads recent proposals, carries over their open items, and
// summarizes the recent meeting pattern. When the subject is still generic it
// is inferred from recent facts.
func (p *Planner) analyzeContext(ctx context.Context, state *plan.State, _ Request) plan.Outcome {
	var degradedErr error

	recent, err := p.proposals.ListByOrg(ctx, state.OrgID, recentProposalLimit)
	if err != nil {
		degradedErr = fmt.Errorf("loading recent proposals: %w", err)
	} else {
		state.RecentMeetings = recent
		state.OpenItems = extractOpenItems(recent)
	}

	if state.Subject == "" || retrieval.IsGenericSubject(state.Subject) {
		if inferred := p.inferSubject(ctx, state); inferred != "" {
			state.Subject = inferred
		}
	}

	if p.reasoner != nil && degradedErr == nil {
		analysis, err := p.reasoner.AnalyzeContext(ctx, reasoning.ContextRequest{
			OrgID:          state.OrgID,
			RecentMeetings: state.RecentMeetings,
			OpenItems:      state.OpenItems,
		})
		if err != nil {
			degradedErr = err
		} else {
			state.MeetingSummary = analysis.Summary
			state.Themes = analysis.Themes
		}
	}
	if state.MeetingSummary == "" {
		state.MeetingSummary = heuristicContextSummary(state)
	}

	if degradedErr != nil {
		return plan.Degraded(StageContext, degradedErr)
	}
	return plan.OK(StageContext)
}

// detectIntent classifies the meeting's purpose and selects workstreams.
// Fallback: alignment at low confidence, with every active workstream.
func (p *Planner) detectIntent(ctx context.Context, state *plan.State, _ Request) plan.Outcome {
	available, err := p.workstreams.ListByOrg(ctx, state.OrgID, nil)
	if err != nil {
		state.Intent = plan.IntentAlignment
		state.IntentConfidence = 0.3
		return plan.Degraded(StageIntent, fmt.Errorf("loading workstreams: %w", err))
	}

	var degradedErr error
	if p.reasoner != nil {
		res, err := p.reasoner.DetectIntent(ctx, reasoning.IntentRequest{
			Subject:              state.Subject,
			ContextSummary:       state.MeetingSummary,
			Themes:               state.Themes,
			OpenItemCount:        len(state.OpenItems),
			Language:             state.Language,
			AvailableWorkstreams: available,
		})
		if err != nil {
			degradedErr = err
		} else if plan.ValidIntent(res.Intent) {
			state.Intent = res.Intent
			state.IntentConfidence = res.Confidence
			state.IntentReasoning = res.Reasoning
			state.FocusAreas = res.FocusAreas
			state.SelectedWorkstreams = matchWorkstreams(available, res.Workstreams)
		} else {
			degradedErr = fmt.Errorf("unknown intent %q", res.Intent)
		}
	}

	if state.Intent == "" {
		state.Intent = plan.IntentAlignment
		state.IntentConfidence = 0.3
	}
	if len(state.SelectedWorkstreams) == 0 {
		state.SelectedWorkstreams = available
	}

	if degradedErr != nil {
		return plan.Degraded(StageIntent, degradedErr)
	}
	return plan.OK(StageIntent)
}

// retrieve gathers and ranks candidate facts. Refinement re-runs land here;
// ranking starts over from the freshly gathered candidates each time.
func (p *Planner) retrieve(ctx context.Context, state *plan.State, _ Request) plan.Outcome {
	result, err := p.engine.Gather(ctx, state.OrgID, state.WorkstreamIDs(), state.Subject)
	state.CandidateFacts = result.Facts
	state.RetrievalStats = result.Stats
	if result.Supplement != "" {
		state.SupplementalContext = result.Supplement
	}

	state.RankedFacts = p.engine.Rank(ctx, p.reasoner, reasoning.RankRequest{
		Facts:               state.CandidateFacts,
		Intent:              state.Intent,
		Subject:             state.Subject,
		FocusAreas:          state.FocusAreas,
		Language:            state.Language,
		SelectedWorkstreams: state.WorkstreamTitles(),
	})

	if err != nil {
		return plan.Degraded(StageRetrieve, err)
	}
	return plan.OK(StageRetrieve)
}

// synthesizeStatus produces the per-workstream status narrative.
func (p *Planner) synthesizeStatus(ctx context.Context, state *plan.State, _ Request) plan.Outcome {
	if len(state.SelectedWorkstreams) == 0 {
		return plan.OK(StageStatus)
	}

	var degradedErr error
	if p.reasoner != nil {
		text, err := p.reasoner.SynthesizeWorkstreamStatus(ctx, reasoning.StatusRequest{
			Workstreams: state.SelectedWorkstreams,
			RecentFacts: topFacts(state.RankedFacts, recentFactLimit),
			Language:    state.Language,
		})
		if err != nil {
			degradedErr = err
		} else {
			state.WorkstreamStatusSummary = text
		}
	}
	if state.WorkstreamStatusSummary == "" {
		state.WorkstreamStatusSummary = heuristicStatusSummary(state)
	}

	if degradedErr != nil {
		return plan.Degraded(StageStatus, degradedErr)
	}
	return plan.OK(StageStatus)
}

// summarize produces the macro summary that opens the agenda.
func (p *Planner) summarize(ctx context.Context, state *plan.State, _ Request) plan.Outcome {
	var degradedErr error
	if p.reasoner != nil {
		text, err := p.reasoner.Summarize(ctx, reasoning.SummaryRequest{
			Workstreams:     state.SelectedWorkstreams,
			TopFacts:        topFacts(state.RankedFacts, 10),
			ContextSummary:  state.MeetingSummary,
			Language:        state.Language,
			ExternalContext: state.SupplementalContext,
			StatusSummary:   state.WorkstreamStatusSummary,
		})
		if err != nil {
			degradedErr = err
		} else {
			state.MacroSummary = text
		}
	}
	if state.MacroSummary == "" {
		state.MacroSummary = heuristicMacroSummary(state)
	}

	if degradedErr != nil {
		return plan.Degraded(StageMacro, degradedErr)
	}
	return plan.OK(StageMacro)
}

// build drafts the agenda from the intent template and ranked facts, then
// reconciles section minutes to the meeting duration.
func (p *Planner) build(ctx context.Context, state *plan.State, _ Request) plan.Outcome {
	tpl := agenda.TemplateFor(state.Intent, state.Language)

	var draft *agenda.Agenda
	var degradedErr error
	if p.reasoner != nil {
		res, err := p.reasoner.BuildAgenda(ctx, reasoning.BuildRequest{
			Intent:          state.Intent,
			Template:        tpl,
			Facts:           state.RankedFacts,
			MacroSummary:    state.MacroSummary,
			DurationMinutes: state.DurationMinutes,
			Language:        state.Language,
			ExternalContext: state.SupplementalContext,
		})
		if err != nil {
			degradedErr = err
		} else if res == nil || len(res.Sections) == 0 {
			degradedErr = fmt.Errorf("reasoning returned empty agenda")
		} else {
			draft = res
		}
	}
	if draft == nil {
		fallback := buildHeuristicAgenda(state, tpl)
		draft = &fallback
	}

	if draft.Title == "" {
		draft.Title = defaultTitle(state.Subject, state.Language)
	}
	agenda.ReconcileMinutes(draft, state.DurationMinutes)
	state.DraftAgenda = *draft

	if degradedErr != nil {
		return plan.Degraded(StageBuild, degradedErr)
	}
	return plan.OK(StageBuild)
}

// review scores the draft. A failed review passes the draft at exactly the
// quality threshold so an outage never triggers refinement churn.
func (p *Planner) review(ctx context.Context, state *plan.State, _ Request) plan.Outcome {
	state.QualityIssues = nil

	if p.reasoner == nil {
		state.QualityScore = plan.QualityThreshold
		return plan.OK(StageReview)
	}

	res, err := p.reasoner.ReviewQuality(ctx, reasoning.ReviewRequest{
		Draft:         state.DraftAgenda,
		Intent:        state.Intent,
		Subject:       state.Subject,
		OpenItemCount: len(state.OpenItems),
		Language:      state.Language,
	})
	if err != nil {
		state.QualityScore = plan.QualityThreshold
		return plan.Degraded(StageReview, err)
	}

	state.QualityScore = res.QualityScore
	state.QualityIssues = res.Issues
	return plan.OK(StageReview)
}

// finalize stamps metadata, derives the idempotency key and stores the
// proposal. A storage failure is recorded and the draft becomes the final
// agenda anyway.
func (p *Planner) finalize(ctx context.Context, state *plan.State, _ Request) plan.Outcome {
	now := p.now().UTC()
	final := state.DraftAgenda
	final.Metadata = &agenda.RunMetadata{
		Intent:            state.Intent,
		IntentConfidence:  state.IntentConfidence,
		QualityScore:      state.QualityScore,
		RefinementCount:   state.RefinementCount,
		MacroSummary:      state.MacroSummary,
		Workstreams:       state.WorkstreamTitles(),
		RetrievalStats:    state.RetrievalStats,
		StageTimings:      state.StepTimings,
		SupportingFactIDs: state.RankedFactIDs(),
		Errors:            state.Errors,
		GeneratedAt:       now,
	}
	state.FinalAgenda = final

	proposal := &agenda.Proposal{
		ID:             p.newID(),
		OrgID:          state.OrgID,
		MeetingID:      state.MeetingID,
		Subject:        state.Subject,
		Agenda:         final,
		IdempotencyKey: agenda.IdempotencyKey(state.OrgID, state.MeetingID, state.Subject, final),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := p.proposals.Upsert(ctx, proposal); err != nil {
		return plan.Degraded(StageFinalize, fmt.Errorf("storing proposal: %w", err))
	}

	state.ProposalID = proposal.ID
	state.FinalProposal = proposal
	return plan.OK(StageFinalize)
}

// inferSubject looks at recent facts for a usable subject.
func (p *Planner) inferSubject(ctx context.Context, state *plan.State) string {
	recent, err := p.facts.Recent(ctx, state.OrgID, nil, recentFactLimit)
	if err != nil {
		p.logger.Warn("subject inference failed", "error", err)
		return ""
	}
	return retrieval.InferSubject(recent)
}

// extractOpenItems pulls unfinished bullets from the closing sections of
// recent agendas.
func extractOpenItems(proposals []agenda.Proposal) []plan.OpenItem {
	var items []plan.OpenItem
	for _, prop := range proposals {
		for _, sec := range prop.Agenda.Sections {
			if !isNextStepsSection(sec.Title) {
				continue
			}
			for _, item := range sec.Items {
				for _, b := range item.Bullets {
					if strings.TrimSpace(b.Text) == "" {
						continue
					}
					items = append(items, plan.OpenItem{
						Text:        b.Text,
						FromMeeting: prop.MeetingID,
						Date:        prop.CreatedAt.Format("2006-01-02"),
					})
				}
			}
		}
	}
	return items
}

var nextStepsTitles = []string{
	"próximos passos", "proximos passos", "ações", "acoes", "primeiros passos",
	"next steps", "action items", "actions", "first steps",
}

func isNextStepsSection(title string) bool {
	lower := strings.ToLower(strings.TrimSpace(title))
	for _, t := range nextStepsTitles {
		if lower == t {
			return true
		}
	}
	return false
}

// matchWorkstreams resolves service-returned titles against the available
// workstreams: exact match first, then substring, both case-insensitive.
func matchWorkstreams(available []workstream.Workstream, titles []string) []workstream.Workstream {
	var out []workstream.Workstream
	seen := map[string]bool{}
	for _, title := range titles {
		want := strings.ToLower(strings.TrimSpace(title))
		if want == "" {
			continue
		}
		matched := false
		for _, ws := range available {
			if strings.ToLower(ws.Title) == want {
				if !seen[ws.ID] {
					seen[ws.ID] = true
					out = append(out, ws)
				}
				matched = true
				break
			}
		}
		if matched {
			continue
		}
		for _, ws := range available {
			lower := strings.ToLower(ws.Title)
			if strings.Contains(lower, want) || strings.Contains(want, lower) {
				if !seen[ws.ID] {
					seen[ws.ID] = true
					out = append(out, ws)
				}
				break
			}
		}
	}
	return out
}

func topFacts(facts []fact.Fact, limit int) []fact.Fact {
	if len(facts) > limit {
		return facts[:limit]
	}
	return facts
}
