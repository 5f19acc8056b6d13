package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pautahq/pauta/internal/domain/agenda"
)

// ProposalRepository implements repository.ProposalRepository for SQLite
type ProposalRepository struct {
	db *DB
}

// NewProposalRepository creates a new ProposalRepository
func NewProposalRepository(db *DB) *ProposalRepository {
	return &ProposalRepository{db: db}
}

// Upsert inserts the proposal, or updates the existing row carrying the same
// idempotency key. After an update the proposal's ID and CreatedAt reflect
// the stored row so callers see the canonical identity. Zero timestamps are
// filled in so no row is ever stored without them.
func (r *ProposalRepository) Upsert(ctx context.Context, p *agenda.Proposal) error {
	body, err := json.Marshal(p.Agenda)
	if err != nil {
		return fmt.Errorf("failed to encode agenda: %w", err)
	}

	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = now
	}

	query := `
		INSERT INTO agenda_proposals (id, org_id, meeting_id, subject, agenda, idempotency_key, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(idempotency_key) DO UPDATE SET
		    agenda = excluded.agenda,
		    subject = excluded.subject,
		    updated_at = excluded.updated_at
	`

	_, err = r.db.ExecContext(ctx, query,
		p.ID,
		p.OrgID,
		nullString(p.MeetingID),
		p.Subject,
		string(body),
		p.IdempotencyKey,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert proposal: %w", err)
	}

	row := r.db.QueryRowContext(ctx,
		`SELECT id, created_at FROM agenda_proposals WHERE idempotency_key = ?`,
		p.IdempotencyKey,
	)
	if err := row.Scan(&p.ID, &p.CreatedAt); err != nil {
		return fmt.Errorf("failed to read stored proposal: %w", err)
	}

	return nil
}

// ListByOrg returns recent proposals for an org, newest-first
func (r *ProposalRepository) ListByOrg(ctx context.Context, orgID string, limit int) ([]agenda.Proposal, error) {
	query := `
		SELECT id, org_id, meeting_id, subject, agenda, idempotency_key, created_at, updated_at
		FROM agenda_proposals
		WHERE org_id = ?
		ORDER BY updated_at DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, orgID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list proposals: %w", err)
	}
	defer rows.Close()

	var list []agenda.Proposal
	for rows.Next() {
		var p agenda.Proposal
		var meetingID sql.NullString
		var body string
		err := rows.Scan(
			&p.ID,
			&p.OrgID,
			&meetingID,
			&p.Subject,
			&body,
			&p.IdempotencyKey,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan proposal: %w", err)
		}
		p.MeetingID = meetingID.String
		if err := json.Unmarshal([]byte(body), &p.Agenda); err != nil {
			return nil, fmt.Errorf("failed to decode agenda: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
