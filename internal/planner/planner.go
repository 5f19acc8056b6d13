// Package planner runs the staged agenda pipeline: parse, context, intent,
// retrieval, synthesis, drafting, review and finalization, with a bounded
// refinement loop between review and retrieval. Every stage is fail-open; a
// degraded run still produces an agenda.
package planner

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pautahq/pauta/internal/domain/agenda"
	"github.com/pautahq/pauta/internal/domain/plan"
	"github.com/pautahq/pauta/internal/progress"
	"github.com/pautahq/pauta/internal/reasoning"
	"github.com/pautahq/pauta/internal/repository"
	"github.com/pautahq/pauta/internal/retrieval"
)

// Stage names, in pipeline order. The progress registry and step timings key
// on these.
const (
	StageParse    = "parse"
	StageContext  = "context"
	StageIntent   = "intent"
	StageRetrieve = "retrieve"
	StageStatus   = "ws_status"
	StageMacro    = "macro"
	StageBuild    = "build"
	StageReview   = "review"
	StageFinalize = "finalize"
)

var stageOrder = []string{
	StageParse, StageContext, StageIntent, StageRetrieve,
	StageStatus, StageMacro, StageBuild, StageReview, StageFinalize,
}

// retrieveIndex is the back-edge target of the refinement loop.
var retrieveIndex = func() int {
	for i, s := range stageOrder {
		if s == StageRetrieve {
			return i
		}
	}
	panic("retrieve stage missing from order")
}()

// Request is one planning invocation. Explicit fields override whatever the
// natural-language query says.
type Request struct {
	OrgID           string
	RawQuery        string
	MeetingID       string
	Subject         string
	Language        string
	DurationMinutes int
}

// Planner owns the pipeline and its collaborators. The reasoning client may
// be nil; every stage then runs on its deterministic fallback.
type Planner struct {
	reasoner    reasoning.Client
	engine      *retrieval.Engine
	facts       repository.FactRepository
	workstreams repository.WorkstreamRepository
	proposals   repository.ProposalRepository
	registry    *progress.Registry
	logger      *slog.Logger
	now         func() time.Time
	newID       func() string
}

// New creates a planner.
func New(
	reasoner reasoning.Client,
	engine *retrieval.Engine,
	facts repository.FactRepository,
	workstreams repository.WorkstreamRepository,
	proposals repository.ProposalRepository,
	registry *progress.Registry,
	logger *slog.Logger,
) *Planner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Planner{
		reasoner:    reasoner,
		engine:      engine,
		facts:       facts,
		workstreams: workstreams,
		proposals:   proposals,
		registry:    registry,
		logger:      logger,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// Start launches a planning run in the background and returns its session id
// immediately. Progress is observable through the registry; the run outlives
// the caller's context.
func (p *Planner) Start(ctx context.Context, req Request) string {
	sessionID := p.newID()
	p.registry.Start(sessionID, requestLanguage(req))

	detached := context.WithoutCancel(ctx)
	go func() {
		if _, _, err := p.run(detached, sessionID, req); err != nil {
			p.logger.Error("planning run failed", "session_id", sessionID, "error", err)
		}
	}()
	return sessionID
}

// Plan runs the pipeline synchronously and returns the stored proposal along
// with the final pipeline state.
func (p *Planner) Plan(ctx context.Context, req Request) (*agenda.Proposal, *plan.State, error) {
	sessionID := p.newID()
	p.registry.Start(sessionID, requestLanguage(req))
	return p.run(ctx, sessionID, req)
}

func (p *Planner) run(ctx context.Context, sessionID string, req Request) (*agenda.Proposal, *plan.State, error) {
	state := plan.NewState(sessionID, req.OrgID, req.RawQuery)
	state.MeetingID = req.MeetingID
	if req.Language != "" {
		state.Language = req.Language
	}
	if req.DurationMinutes > 0 {
		state.DurationMinutes = clampDuration(req.DurationMinutes)
	}
	if req.Subject != "" {
		state.Subject = req.Subject
	}

	stages := map[string]func(context.Context, *plan.State, Request) plan.Outcome{
		StageParse:    p.parse,
		StageContext:  p.analyzeContext,
		StageIntent:   p.detectIntent,
		StageRetrieve: p.retrieve,
		StageStatus:   p.synthesizeStatus,
		StageMacro:    p.summarize,
		StageBuild:    p.build,
		StageReview:   p.review,
		StageFinalize: p.finalize,
	}

	var proposal *agenda.Proposal
	for i := 0; i < len(stageOrder); {
		if err := ctx.Err(); err != nil {
			p.registry.Fail(sessionID, "planning cancelled")
			return nil, state, err
		}

		name := stageOrder[i]
		p.registry.StepStarted(sessionID, name)

		start := p.now()
		outcome := stages[name](ctx, state, req)
		state.StepTimings[name] = p.now().Sub(start).Seconds()

		if outcome.Degraded {
			state.RecordError(name, outcome.Err)
			p.registry.RecordError(sessionID, name+": "+outcome.Err.Error())
			p.logger.Warn("stage degraded", "session_id", sessionID, "stage", name, "error", outcome.Err)
		}
		p.registry.StepCompleted(sessionID, name)

		if name == StageReview && state.QualityScore < plan.QualityThreshold && state.RefinementCount < plan.MaxRefinements {
			state.RefinementCount++
			p.logger.Info("refining agenda",
				"session_id", sessionID,
				"quality_score", state.QualityScore,
				"refinement", state.RefinementCount)
			i = retrieveIndex
			continue
		}
		i++
	}

	proposal = state.FinalProposal
	if proposal == nil {
		// Persistence failed during finalize; the draft still ships.
		now := p.now().UTC()
		proposal = &agenda.Proposal{
			OrgID:          state.OrgID,
			MeetingID:      state.MeetingID,
			Subject:        state.Subject,
			Agenda:         state.FinalAgenda,
			IdempotencyKey: agenda.IdempotencyKey(state.OrgID, state.MeetingID, state.Subject, state.FinalAgenda),
			CreatedAt:      now,
			UpdatedAt:      now,
		}
	}
	p.registry.SetResult(sessionID, proposal)
	p.logger.Info("planning run completed",
		"session_id", sessionID,
		"intent", state.Intent,
		"quality_score", state.QualityScore,
		"refinements", state.RefinementCount,
		"degraded_stages", len(state.Errors))
	return proposal, state, nil
}

func requestLanguage(req Request) string {
	if req.Language != "" {
		return req.Language
	}
	return DetectLanguage(req.RawQuery)
}
