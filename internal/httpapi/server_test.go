package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pautahq/pauta/internal/domain/agenda"
	"github.com/pautahq/pauta/internal/domain/fact"
	"github.com/pautahq/pauta/internal/domain/workstream"
	"github.com/pautahq/pauta/internal/planner"
	"github.com/pautahq/pauta/internal/progress"
	"github.com/pautahq/pauta/internal/repository"
	repomocks "github.com/pautahq/pauta/internal/repository/mocks"
	"github.com/pautahq/pauta/internal/retrieval"
)

type fixture struct {
	server      *Server
	registry    *progress.Registry
	facts       *repomocks.FactRepository
	workstreams *repomocks.WorkstreamRepository
	proposals   *repomocks.ProposalRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		registry:    progress.NewRegistry(0, nil),
		facts:       &repomocks.FactRepository{},
		workstreams: &repomocks.WorkstreamRepository{},
		proposals:   &repomocks.ProposalRepository{},
	}
	engine := retrieval.NewEngine(f.facts, nil, nil)
	p := planner.New(nil, engine, f.facts, f.workstreams, f.proposals, f.registry, nil)
	f.server = NewServer(p, f.registry, f.facts, f.workstreams, f.proposals, nil)
	return f
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestProposeValidatesInput(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/agenda/propose", `{"query":"pauta sobre migração"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/agenda/propose", `{"org_id":"org-1"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/agenda/propose", "not json")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProposeStartsSessionAndProgressIsPollable(t *testing.T) {
	f := newFixture(t)
	f.proposals.On("ListByOrg", mock.Anything, "org-1", mock.Anything).Return([]agenda.Proposal{}, nil)
	f.workstreams.On("ListByOrg", mock.Anything, "org-1", []string(nil)).Return([]workstream.Workstream{}, nil)
	f.facts.On("Search", mock.Anything, "org-1", mock.Anything, []string(nil), mock.Anything).Return([]fact.Fact{}, nil)
	f.facts.On("ListUrgent", mock.Anything, "org-1", mock.Anything, mock.Anything).Return([]fact.Fact{}, nil)
	f.proposals.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	rec := f.do(t, http.MethodPost, "/api/agenda/propose",
		`{"org_id":"org-1","query":"monte uma pauta sobre a migração com 30 minutos"}`)
	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	sessionID := resp["session_id"]
	require.NotEmpty(t, sessionID)

	require.Eventually(t, func() bool {
		rec := f.do(t, http.MethodGet, "/api/agenda/progress/"+sessionID, "")
		if rec.Code != http.StatusOK {
			return false
		}
		var snap progress.Snapshot
		if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
			return false
		}
		return snap.Status == progress.StatusCompleted && snap.Result != nil
	}, 5*time.Second, 10*time.Millisecond)
}

func TestProgressUnknownSessionIs404(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/api/agenda/progress/nope", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearchFacts(t *testing.T) {
	f := newFixture(t)
	facts := []fact.Fact{{ID: "f-1", OrgID: "org-1", Type: fact.TypeDecision, Status: fact.StatusValidated}}
	f.facts.On("Search", mock.Anything, "org-1", "migração", []string{"decision"}, 20).
		Return(facts, nil)

	rec := f.do(t, http.MethodGet, "/api/facts/search?org_id=org-1&q=migra%C3%A7%C3%A3o&types=decision", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Facts []fact.Fact `json:"facts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Facts, 1)
	require.Equal(t, "f-1", resp.Facts[0].ID)
}

func TestSearchFactsRequiresParams(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/api/facts/search?q=x", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	rec = f.do(t, http.MethodGet, "/api/facts/search?org_id=org-1", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateFactStatus(t *testing.T) {
	f := newFixture(t)
	f.facts.On("UpdateStatus", mock.Anything, "f-1", fact.StatusValidated).Return(nil)

	rec := f.do(t, http.MethodPost, "/api/facts/f-1/status", `{"status":"validated"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	f.facts.AssertExpectations(t)
}

func TestUpdateFactStatusRejectsUnknownStatus(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/api/facts/f-1/status", `{"status":"archived"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateFactStatusNotFound(t *testing.T) {
	f := newFixture(t)
	f.facts.On("UpdateStatus", mock.Anything, "missing", fact.StatusRejected).
		Return(repository.ErrNotFound)

	rec := f.do(t, http.MethodPost, "/api/facts/missing/status", `{"status":"rejected"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListProposals(t *testing.T) {
	f := newFixture(t)
	f.proposals.On("ListByOrg", mock.Anything, "org-1", 10).
		Return([]agenda.Proposal{{ID: "p-1", OrgID: "org-1"}}, nil)

	rec := f.do(t, http.MethodGet, "/api/agenda/proposals?org_id=org-1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Proposals []agenda.Proposal `json:"proposals"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Proposals, 1)
}

func TestListProposalsCapsLimit(t *testing.T) {
	f := newFixture(t)
	f.proposals.On("ListByOrg", mock.Anything, "org-1", 100).
		Return([]agenda.Proposal{}, nil)

	rec := f.do(t, http.MethodGet, "/api/agenda/proposals?org_id=org-1&limit=5000", "")
	require.Equal(t, http.StatusOK, rec.Code)
	f.proposals.AssertExpectations(t)
}

func TestListWorkstreams(t *testing.T) {
	f := newFixture(t)
	f.workstreams.On("ListByOrg", mock.Anything, "org-1", []string{"green", "yellow"}).
		Return([]workstream.Workstream{{ID: "ws-1", Title: "Plataforma"}}, nil)

	rec := f.do(t, http.MethodGet, "/api/workstreams?org_id=org-1&statuses=green,yellow", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRepositoryErrorIs500(t *testing.T) {
	f := newFixture(t)
	f.proposals.On("ListByOrg", mock.Anything, "org-1", mock.Anything).
		Return(nil, errors.New("db locked"))

	rec := f.do(t, http.MethodGet, "/api/agenda/proposals?org_id=org-1", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
