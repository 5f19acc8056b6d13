package repository

import (
	"context"
	"time"

	"github.com/pautahq/pauta/internal/domain/agenda"
	"github.com/pautahq/pauta/internal/domain/fact"
	"github.com/pautahq/pauta/internal/domain/workstream"
)

// FactRepository manages fact persistence. Results are newest-first unless
// the method documents a different order.
type FactRepository interface {
	Create(ctx context.Context, f *fact.Fact) error
	// Search performs a full-text (falling back to substring) search over
	// fact payloads, optionally filtered by type.
	Search(ctx context.Context, orgID, query string, types []string, limit int) ([]fact.Fact, error)
	// Recent returns the newest facts for an org, optionally filtered by type.
	Recent(ctx context.Context, orgID string, types []string, limit int) ([]fact.Fact, error)
	GetByIDs(ctx context.Context, ids []string) ([]fact.Fact, error)
	// ListByWorkstream returns facts linked to a workstream, newest-first.
	ListByWorkstream(ctx context.Context, orgID, workstreamID string, limit int) ([]fact.Fact, error)
	// ListUrgent returns overdue facts first, then high-priority types
	// (blocker, decision_needed, decision, risk), then recent action items.
	ListUrgent(ctx context.Context, orgID string, now time.Time, limit int) ([]fact.Fact, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

// WorkstreamRepository manages workstream persistence.
type WorkstreamRepository interface {
	Create(ctx context.Context, ws *workstream.Workstream) error
	ListByOrg(ctx context.Context, orgID string, statuses []string) ([]workstream.Workstream, error)
	LinkFact(ctx context.Context, workstreamID, factID string) error
}

// ProposalRepository stores finalized agenda proposals idempotently.
type ProposalRepository interface {
	// Upsert inserts the proposal or, when a row with the same idempotency
	// key exists, updates it in place and rewrites the proposal's ID and
	// CreatedAt from the stored row.
	Upsert(ctx context.Context, p *agenda.Proposal) error
	ListByOrg(ctx context.Context, orgID string, limit int) ([]agenda.Proposal, error)
}
