package retrieval

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pautahq/pauta/internal/domain/fact"
	"github.com/pautahq/pauta/internal/reasoning"
	reasoningmocks "github.com/pautahq/pauta/internal/reasoning/mocks"
	repomocks "github.com/pautahq/pauta/internal/repository/mocks"
)

type stubSearcher struct {
	text    string
	err     error
	queries []string
}

func (s *stubSearcher) Search(ctx context.Context, query string, maxResults int) (string, error) {
	s.queries = append(s.queries, query)
	return s.text, s.err
}

func TestGatherMergesAndDeduplicates(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	shared := textFact("f-shared", fact.TypeBlocker, "Dependência atrasada", 0.8, nil, now)
	wsOnly := textFact("f-ws", fact.TypeTopic, "Plano de migração", 0.5, nil, now)
	subjectOnly := textFact("f-subj", fact.TypeDecision, "Escolher fornecedor", 0.7, nil, now)
	urgentOnly := textFact("f-urgent", fact.TypeDecisionNeeded, "Aprovar orçamento", 0.9, nil, now)

	repo := &repomocks.FactRepository{}
	repo.On("ListByWorkstream", mock.Anything, "org-1", "ws-1", MaxPerWorkstream).
		Return([]fact.Fact{shared, wsOnly}, nil)
	repo.On("Search", mock.Anything, "org-1", "migração", []string(nil), MaxSubjectResults).
		Return([]fact.Fact{subjectOnly, shared}, nil)
	repo.On("ListUrgent", mock.Anything, "org-1", mock.Anything, MaxUrgentResults).
		Return([]fact.Fact{urgentOnly, shared}, nil)

	engine := NewEngine(repo, nil, nil)
	result, err := engine.Gather(context.Background(), "org-1", []string{"ws-1"}, "migração")

	require.NoError(t, err)
	require.Len(t, result.Facts, 4)
	require.Equal(t, "f-shared", result.Facts[0].ID)
	require.Equal(t, 2, result.Stats["workstream"])
	require.Equal(t, 2, result.Stats["subject"])
	require.Equal(t, 2, result.Stats["urgent"])
	require.Equal(t, 4, result.Stats["total"])
	repo.AssertExpectations(t)
}

func TestGatherSurvivesStrategyFailure(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	urgentOnly := textFact("f-urgent", fact.TypeBlocker, "API fora do ar", 0.9, nil, now)

	repo := &repomocks.FactRepository{}
	repo.On("ListByWorkstream", mock.Anything, "org-1", "ws-1", MaxPerWorkstream).
		Return(nil, errors.New("db locked"))
	repo.On("Search", mock.Anything, "org-1", "migração", []string(nil), MaxSubjectResults).
		Return(nil, errors.New("fts corrupted"))
	repo.On("ListUrgent", mock.Anything, "org-1", mock.Anything, MaxUrgentResults).
		Return([]fact.Fact{urgentOnly}, nil)

	engine := NewEngine(repo, nil, nil)
	result, err := engine.Gather(context.Background(), "org-1", []string{"ws-1"}, "migração")

	require.Error(t, err)
	require.Len(t, result.Facts, 1)
	require.Equal(t, 1, result.Stats["total"])
}

func TestGatherSupplementsWhenSparse(t *testing.T) {
	repo := &repomocks.FactRepository{}
	repo.On("Search", mock.Anything, "org-1", "migração", []string(nil), MaxSubjectResults).
		Return([]fact.Fact{}, nil)
	repo.On("ListUrgent", mock.Anything, "org-1", mock.Anything, MaxUrgentResults).
		Return([]fact.Fact{}, nil)

	searcher := &stubSearcher{text: "contexto externo"}
	engine := NewEngine(repo, searcher, nil)
	result, err := engine.Gather(context.Background(), "org-1", nil, "migração")

	require.NoError(t, err)
	require.Equal(t, "contexto externo", result.Supplement)
	require.Equal(t, []string{"migração"}, searcher.queries)
}

func TestGatherSupplementFailureIsIgnored(t *testing.T) {
	repo := &repomocks.FactRepository{}
	repo.On("Search", mock.Anything, "org-1", "migração", []string(nil), MaxSubjectResults).
		Return([]fact.Fact{}, nil)
	repo.On("ListUrgent", mock.Anything, "org-1", mock.Anything, MaxUrgentResults).
		Return([]fact.Fact{}, nil)

	searcher := &stubSearcher{err: errors.New("timeout")}
	engine := NewEngine(repo, searcher, nil)
	result, err := engine.Gather(context.Background(), "org-1", nil, "migração")

	require.NoError(t, err)
	require.Empty(t, result.Supplement)
}

func TestGatherSkipsSupplementWhenEnoughFacts(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	var facts []fact.Fact
	for _, id := range []string{"f-1", "f-2", "f-3", "f-4", "f-5"} {
		facts = append(facts, textFact(id, fact.TypeTopic, "assunto "+id, 0.5, nil, now))
	}

	repo := &repomocks.FactRepository{}
	repo.On("Search", mock.Anything, "org-1", "migração", []string(nil), MaxSubjectResults).
		Return(facts, nil)
	repo.On("ListUrgent", mock.Anything, "org-1", mock.Anything, MaxUrgentResults).
		Return([]fact.Fact{}, nil)

	searcher := &stubSearcher{text: "contexto externo"}
	engine := NewEngine(repo, searcher, nil)
	result, err := engine.Gather(context.Background(), "org-1", nil, "migração")

	require.NoError(t, err)
	require.Empty(t, result.Supplement)
	require.Empty(t, searcher.queries)
}

func TestRankUsesServiceOrdering(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	a := textFact("f-a", fact.TypeTopic, "Assunto alfa", 0.5, nil, now)
	b := textFact("f-b", fact.TypeTopic, "Assunto beta", 0.5, nil, now)

	client := &reasoningmocks.Client{}
	client.On("RankFacts", mock.Anything, mock.Anything).
		Return(&reasoning.RankResult{RankedFactIDs: []string{"f-b", "f-a", "f-ghost", "f-b"}}, nil)

	engine := NewEngine(&repomocks.FactRepository{}, nil, nil)
	ranked := engine.Rank(context.Background(), client, reasoning.RankRequest{Facts: []fact.Fact{a, b}})

	// Unknown ids and duplicates from the service are discarded.
	require.Len(t, ranked, 2)
	require.Equal(t, "f-b", ranked[0].ID)
	require.Equal(t, "f-a", ranked[1].ID)
}

func TestRankFallsBackWhenServiceFails(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	overdue := textFact("f-overdue", fact.TypeDecision, "Aprovar orçamento", 0.9, duePtr(now.Add(-24*time.Hour)), now.Add(-24*time.Hour))
	distant := textFact("f-distant", fact.TypeDecision, "Revisar plano", 0.9, duePtr(now.Add(20*24*time.Hour)), now.Add(-24*time.Hour))

	client := &reasoningmocks.Client{}
	client.On("RankFacts", mock.Anything, mock.Anything).
		Return(nil, reasoning.ErrUnavailable)

	engine := NewEngine(&repomocks.FactRepository{}, nil, nil)
	engine.now = func() time.Time { return now }
	ranked := engine.Rank(context.Background(), client, reasoning.RankRequest{Facts: []fact.Fact{distant, overdue}})

	require.Len(t, ranked, 2)
	require.Equal(t, "f-overdue", ranked[0].ID)
}

func TestRankFallsBackWhenServiceReturnsNothingUsable(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	a := textFact("f-a", fact.TypeTopic, "Assunto alfa", 0.5, nil, now)

	client := &reasoningmocks.Client{}
	client.On("RankFacts", mock.Anything, mock.Anything).
		Return(&reasoning.RankResult{RankedFactIDs: []string{"f-ghost"}}, nil)

	engine := NewEngine(&repomocks.FactRepository{}, nil, nil)
	engine.now = func() time.Time { return now }
	ranked := engine.Rank(context.Background(), client, reasoning.RankRequest{Facts: []fact.Fact{a}})

	require.Len(t, ranked, 1)
	require.Equal(t, "f-a", ranked[0].ID)
}

func TestRankCapsResult(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	var facts []fact.Fact
	for i := 0; i < MaxRanked+10; i++ {
		facts = append(facts, textFact(
			"f-"+string(rune('a'+i%26))+string(rune('a'+i/26)),
			fact.TypeTopic, "assunto único "+string(rune('a'+i%26))+string(rune('a'+i/26)), 0.5, nil, now))
	}

	engine := NewEngine(&repomocks.FactRepository{}, nil, nil)
	engine.now = func() time.Time { return now }
	ranked := engine.Rank(context.Background(), nil, reasoning.RankRequest{Facts: facts})

	require.Len(t, ranked, MaxRanked)
}
