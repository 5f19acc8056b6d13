// Package mcp exposes the planner and the fact store as MCP tools.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pautahq/pauta/internal/domain/agenda"
	"github.com/pautahq/pauta/internal/domain/fact"
	"github.com/pautahq/pauta/internal/domain/workstream"
	"github.com/pautahq/pauta/internal/planner"
	"github.com/pautahq/pauta/internal/progress"
	"github.com/pautahq/pauta/internal/repository"
)

const (
	defaultSearchLimit   = 20
	defaultProposalLimit = 10
)

// Handler implements the tool operations behind the MCP server.
type Handler struct {
	planner     *planner.Planner
	registry    *progress.Registry
	facts       repository.FactRepository
	workstreams repository.WorkstreamRepository
	proposals   repository.ProposalRepository
	logger      *slog.Logger
}

// NewHandler creates the MCP tool handler.
func NewHandler(
	p *planner.Planner,
	registry *progress.Registry,
	facts repository.FactRepository,
	workstreams repository.WorkstreamRepository,
	proposals repository.ProposalRepository,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		planner:     p,
		registry:    registry,
		facts:       facts,
		workstreams: workstreams,
		proposals:   proposals,
		logger:      logger,
	}
}

// ProposeAgendaParams starts a planning run.
type ProposeAgendaParams struct {
	OrgID           string `json:"org_id" jsonschema:"organization whose facts feed the agenda"`
	Query           string `json:"query,omitempty" jsonschema:"natural-language planning request"`
	MeetingID       string `json:"meeting_id,omitempty" jsonschema:"meeting identifier for idempotent storage"`
	Subject         string `json:"subject,omitempty" jsonschema:"explicit meeting subject, overrides the query"`
	Language        string `json:"language,omitempty" jsonschema:"pt-BR or en-US"`
	DurationMinutes int    `json:"duration_minutes,omitempty" jsonschema:"meeting length in minutes"`
}

// ProposeAgendaResult carries the session id for progress polling.
type ProposeAgendaResult struct {
	SessionID string `json:"session_id"`
}

func (h *Handler) ProposeAgenda(ctx context.Context, params ProposeAgendaParams) (*ProposeAgendaResult, error) {
	if params.OrgID == "" {
		return nil, errors.New("org_id is required")
	}
	if params.Query == "" && params.Subject == "" {
		return nil, errors.New("query or subject is required")
	}
	sessionID := h.planner.Start(ctx, planner.Request{
		OrgID:           params.OrgID,
		RawQuery:        params.Query,
		MeetingID:       params.MeetingID,
		Subject:         params.Subject,
		Language:        params.Language,
		DurationMinutes: params.DurationMinutes,
	})
	return &ProposeAgendaResult{SessionID: sessionID}, nil
}

// PlanningProgressParams identifies a planning session.
type PlanningProgressParams struct {
	SessionID string `json:"session_id" jsonschema:"session id returned by propose_agenda"`
}

func (h *Handler) PlanningProgress(ctx context.Context, params PlanningProgressParams) (*progress.Snapshot, error) {
	snap, ok := h.registry.Get(params.SessionID)
	if !ok {
		return nil, fmt.Errorf("unknown session %q", params.SessionID)
	}
	return &snap, nil
}

// SearchFactsParams queries the fact store.
type SearchFactsParams struct {
	OrgID string   `json:"org_id"`
	Query string   `json:"query" jsonschema:"full-text search query"`
	Types []string `json:"types,omitempty" jsonschema:"restrict to these fact types"`
	Limit int      `json:"limit,omitempty"`
}

// SearchFactsResult is a page of matching facts.
type SearchFactsResult struct {
	Facts []fact.Fact `json:"facts"`
}

func (h *Handler) SearchFacts(ctx context.Context, params SearchFactsParams) (*SearchFactsResult, error) {
	if params.OrgID == "" || params.Query == "" {
		return nil, errors.New("org_id and query are required")
	}
	limit := params.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	facts, err := h.facts.Search(ctx, params.OrgID, params.Query, params.Types, limit)
	if err != nil {
		h.logger.Error("fact search failed", "org_id", params.OrgID, "error", err)
		return nil, fmt.Errorf("searching facts: %w", err)
	}
	return &SearchFactsResult{Facts: facts}, nil
}

// ListWorkstreamsParams lists an org's workstreams.
type ListWorkstreamsParams struct {
	OrgID    string   `json:"org_id"`
	Statuses []string `json:"statuses,omitempty" jsonschema:"filter by health status (green, yellow, red)"`
}

// ListWorkstreamsResult is the workstream listing.
type ListWorkstreamsResult struct {
	Workstreams []workstream.Workstream `json:"workstreams"`
}

func (h *Handler) ListWorkstreams(ctx context.Context, params ListWorkstreamsParams) (*ListWorkstreamsResult, error) {
	if params.OrgID == "" {
		return nil, errors.New("org_id is required")
	}
	list, err := h.workstreams.ListByOrg(ctx, params.OrgID, params.Statuses)
	if err != nil {
		return nil, fmt.Errorf("listing workstreams: %w", err)
	}
	return &ListWorkstreamsResult{Workstreams: list}, nil
}

// UpdateFactStatusParams moves a fact through its validation lifecycle.
type UpdateFactStatusParams struct {
	FactID string `json:"fact_id"`
	Status string `json:"status" jsonschema:"one of draft, proposed, validated, published, rejected"`
}

// UpdateFactStatusResult confirms the transition.
type UpdateFactStatusResult struct {
	FactID string `json:"fact_id"`
	Status string `json:"status"`
}

func (h *Handler) UpdateFactStatus(ctx context.Context, params UpdateFactStatusParams) (*UpdateFactStatusResult, error) {
	if !fact.AllowedStatuses[params.Status] {
		return nil, fmt.Errorf("%w: %q", fact.ErrInvalidStatus, params.Status)
	}
	if err := h.facts.UpdateStatus(ctx, params.FactID, params.Status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", fact.ErrFactNotFound, params.FactID)
		}
		return nil, fmt.Errorf("updating fact status: %w", err)
	}
	return &UpdateFactStatusResult{FactID: params.FactID, Status: params.Status}, nil
}

// ListProposalsParams lists stored agenda proposals.
type ListProposalsParams struct {
	OrgID string `json:"org_id"`
	Limit int    `json:"limit,omitempty"`
}

// ListProposalsResult is the proposal listing, newest first.
type ListProposalsResult struct {
	Proposals []agenda.Proposal `json:"proposals"`
}

func (h *Handler) ListProposals(ctx context.Context, params ListProposalsParams) (*ListProposalsResult, error) {
	if params.OrgID == "" {
		return nil, errors.New("org_id is required")
	}
	limit := params.Limit
	if limit <= 0 {
		limit = defaultProposalLimit
	}
	proposals, err := h.proposals.ListByOrg(ctx, params.OrgID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing proposals: %w", err)
	}
	return &ListProposalsResult{Proposals: proposals}, nil
}
