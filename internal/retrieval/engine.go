// Package retrieval gathers candidate facts through multiple independent
// strategies, deduplicates them, and ranks them: with the reasoning service
// when available, deterministically when not.
package retrieval

import (
	"context"
	"log/slog"
	"time"

	"github.com/pautahq/pauta/internal/domain/fact"
	"github.com/pautahq/pauta/internal/reasoning"
	"github.com/pautahq/pauta/internal/repository"
	"github.com/pautahq/pauta/internal/research"
)

// Strategy caps and thresholds.
const (
	MaxPerWorkstream    = 15
	MaxSubjectResults   = 30
	MaxUrgentResults    = 20
	MaxRanked           = 40
	MinCandidatesForWeb = 5
)

// Result is the outcome of a gather pass: deduplicated candidates plus
// per-strategy observability counts.
type Result struct {
	Facts []fact.Fact
	// Stats holds raw per-strategy counts ("workstream", "subject",
	// "urgent") and the deduplicated "total".
	Stats map[string]int
	// Supplement carries best-effort external context when too few
	// internal facts were found. Empty when not attempted or failed.
	Supplement string
}

// Engine runs the multi-strategy retrieval pipeline against the fact store.
type Engine struct {
	facts    repository.FactRepository
	searcher research.Searcher
	logger   *slog.Logger
	now      func() time.Time
}

// NewEngine creates a retrieval engine. searcher may be nil.
func NewEngine(facts repository.FactRepository, searcher research.Searcher, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{facts: facts, searcher: searcher, logger: logger, now: time.Now}
}

// Gather runs all strategies independently, unions and deduplicates the
// results by fact identity (first-seen order wins), and reports stats. A
// failing strategy contributes nothing but never fails the gather; the
// returned error is the first strategy error, for the caller's error log.
func (e *Engine) Gather(ctx context.Context, orgID string, workstreamIDs []string, subject string) (Result, error) {
	var firstErr error

	var wsFacts []fact.Fact
	for _, wsID := range workstreamIDs {
		facts, err := e.facts.ListByWorkstream(ctx, orgID, wsID, MaxPerWorkstream)
		if err != nil {
			e.logger.Warn("workstream retrieval failed", "workstream_id", wsID, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		wsFacts = append(wsFacts, facts...)
	}

	var subjectFacts []fact.Fact
	if subject != "" {
		facts, err := e.facts.Search(ctx, orgID, subject, nil, MaxSubjectResults)
		if err != nil {
			e.logger.Warn("subject retrieval failed", "subject", subject, "error", err)
			if firstErr == nil {
				firstErr = err
			}
		} else {
			subjectFacts = facts
		}
	}

	urgentFacts, err := e.facts.ListUrgent(ctx, orgID, e.now(), MaxUrgentResults)
	if err != nil {
		e.logger.Warn("urgency retrieval failed", "error", err)
		if firstErr == nil {
			firstErr = err
		}
	}

	deduped := Dedupe(wsFacts, subjectFacts, urgentFacts)

	result := Result{
		Facts: deduped,
		Stats: map[string]int{
			"workstream": len(wsFacts),
			"subject":    len(subjectFacts),
			"urgent":     len(urgentFacts),
			"total":      len(deduped),
		},
	}

	if len(deduped) < MinCandidatesForWeb && subject != "" && e.searcher != nil {
		text, err := e.searcher.Search(ctx, subject, 3)
		if err != nil {
			e.logger.Warn("supplemental search failed", "error", err)
		} else {
			result.Supplement = text
		}
	}

	return result, firstErr
}

// Dedupe merges fact lists preserving first-seen order, keyed by fact id.
func Dedupe(lists ...[]fact.Fact) []fact.Fact {
	seen := map[string]bool{}
	var out []fact.Fact
	for _, list := range lists {
		for _, f := range list {
			if f.ID == "" || seen[f.ID] {
				continue
			}
			seen[f.ID] = true
			out = append(out, f)
		}
	}
	return out
}

// Rank orders candidates by relevance, capped at MaxRanked. The reasoning
// service is preferred when provided; ids it returns that were not in the
// candidate set are discarded, and candidates it omits are dropped. Whenever
// the service is unavailable or returns nothing usable, the deterministic
// cluster ranking takes over.
func (e *Engine) Rank(ctx context.Context, client reasoning.Client, req reasoning.RankRequest) []fact.Fact {
	if len(req.Facts) == 0 {
		return nil
	}

	if client != nil {
		if res, err := client.RankFacts(ctx, req); err != nil {
			e.logger.Warn("reasoning rank failed, using deterministic ranking", "error", err)
		} else if ranked := applyRanking(req.Facts, res.RankedFactIDs); len(ranked) > 0 {
			return capFacts(ranked, MaxRanked)
		}
	}

	return capFacts(RankDeterministic(req.Facts, e.now()), MaxRanked)
}

// applyRanking reorders facts by the id order the service returned. Unknown
// ids are discarded; omitted facts are dropped, not re-inserted.
func applyRanking(facts []fact.Fact, rankedIDs []string) []fact.Fact {
	byID := make(map[string]fact.Fact, len(facts))
	for _, f := range facts {
		byID[f.ID] = f
	}
	var out []fact.Fact
	seen := map[string]bool{}
	for _, id := range rankedIDs {
		if seen[id] {
			continue
		}
		if f, ok := byID[id]; ok {
			out = append(out, f)
			seen[id] = true
		}
	}
	return out
}

func capFacts(facts []fact.Fact, limit int) []fact.Fact {
	if len(facts) > limit {
		return facts[:limit]
	}
	return facts
}
