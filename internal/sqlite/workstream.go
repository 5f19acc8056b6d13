package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pautahq/pauta/internal/domain/workstream"
)

// WorkstreamRepository implements repository.WorkstreamRepository for SQLite
type WorkstreamRepository struct {
	db *DB
}

// NewWorkstreamRepository creates a new WorkstreamRepository
func NewWorkstreamRepository(db *DB) *WorkstreamRepository {
	return &WorkstreamRepository{db: db}
}

// Create inserts a new workstream
func (r *WorkstreamRepository) Create(ctx context.Context, ws *workstream.Workstream) error {
	query := `
		INSERT INTO workstreams (id, org_id, title, description, status, priority, owner, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		ws.ID,
		ws.OrgID,
		ws.Title,
		ws.Description,
		ws.Status,
		ws.Priority,
		ws.Owner,
		ws.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create workstream: %w", err)
	}

	return nil
}

// ListByOrg returns workstreams for an org, highest priority first,
// optionally filtered by status
func (r *WorkstreamRepository) ListByOrg(ctx context.Context, orgID string, statuses []string) ([]workstream.Workstream, error) {
	query := `
		SELECT id, org_id, title, description, status, priority, owner, created_at
		FROM workstreams
		WHERE org_id = ?
	`
	args := []any{orgID}

	if len(statuses) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(statuses)), ",")
		query += " AND status IN (" + placeholders + ")"
		for _, s := range statuses {
			args = append(args, s)
		}
	}
	query += " ORDER BY priority DESC, created_at ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list workstreams: %w", err)
	}
	defer rows.Close()

	var list []workstream.Workstream
	for rows.Next() {
		var ws workstream.Workstream
		var desc, owner sql.NullString
		err := rows.Scan(
			&ws.ID,
			&ws.OrgID,
			&ws.Title,
			&desc,
			&ws.Status,
			&ws.Priority,
			&owner,
			&ws.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workstream: %w", err)
		}
		ws.Description = desc.String
		ws.Owner = owner.String
		list = append(list, ws)
	}
	return list, rows.Err()
}

// LinkFact associates a fact with a workstream
func (r *WorkstreamRepository) LinkFact(ctx context.Context, workstreamID, factID string) error {
	query := `
		INSERT OR IGNORE INTO workstream_facts (workstream_id, fact_id)
		VALUES (?, ?)
	`
	if _, err := r.db.ExecContext(ctx, query, workstreamID, factID); err != nil {
		return fmt.Errorf("failed to link fact to workstream: %w", err)
	}
	return nil
}
