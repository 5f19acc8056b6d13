package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pautahq/pauta/internal/domain/fact"
	"github.com/pautahq/pauta/internal/repository"
)

// FactRepository implements repository.FactRepository for SQLite
type FactRepository struct {
	db *DB
}

// NewFactRepository creates a new FactRepository
func NewFactRepository(db *DB) *FactRepository {
	return &FactRepository{db: db}
}

const factColumns = `id, org_id, fact_type, status, payload, confidence, due_at, workstream_id, meeting_id, created_at, updated_at`

// Create inserts a new fact
func (r *FactRepository) Create(ctx context.Context, f *fact.Fact) error {
	query := `
		INSERT INTO facts (id, org_id, fact_type, status, payload, confidence, due_at, workstream_id, meeting_id, idempotency_key, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	payload := string(f.Payload)
	if payload == "" {
		payload = "{}"
	}

	_, err := r.db.ExecContext(ctx, query,
		f.ID,
		f.OrgID,
		f.Type,
		f.Status,
		payload,
		f.Confidence,
		nullTime(f.DueAt),
		nullString(f.WorkstreamID),
		nullString(f.MeetingID),
		nullString(f.IdempotencyKey),
		f.CreatedAt,
		f.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create fact: %w", err)
	}

	return nil
}

// Search performs a full-text search over fact payloads, falling back to a
// LIKE scan when the query isn't valid FTS5 syntax.
func (r *FactRepository) Search(ctx context.Context, orgID, query string, types []string, limit int) ([]fact.Fact, error) {
	ftsQuery := `
		SELECT ` + prefixed("f", factColumns) + `
		FROM facts_fts fts
		JOIN facts f ON f.rowid = fts.rowid
		WHERE facts_fts MATCH ? AND f.org_id = ?` + typeFilter("f", types, nil) + `
		ORDER BY f.created_at DESC
		LIMIT ?
	`
	args := []any{query, orgID}
	args = appendTypeArgs(args, types)
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, ftsQuery, args...)
	if err != nil {
		return r.searchLike(ctx, orgID, query, types, limit)
	}
	defer rows.Close()

	facts, err := scanFacts(rows)
	if err != nil {
		return nil, err
	}
	if len(facts) == 0 {
		return r.searchLike(ctx, orgID, query, types, limit)
	}
	return facts, nil
}

func (r *FactRepository) searchLike(ctx context.Context, orgID, query string, types []string, limit int) ([]fact.Fact, error) {
	likeQuery := `
		SELECT ` + factColumns + `
		FROM facts
		WHERE org_id = ? AND (payload LIKE ? OR fact_type LIKE ?)` + typeFilter("", types, nil) + `
		ORDER BY created_at DESC
		LIMIT ?
	`
	pattern := "%" + query + "%"
	args := []any{orgID, pattern, pattern}
	args = appendTypeArgs(args, types)
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, likeQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search facts: %w", err)
	}
	defer rows.Close()

	return scanFacts(rows)
}

// Recent returns the newest facts for an org
func (r *FactRepository) Recent(ctx context.Context, orgID string, types []string, limit int) ([]fact.Fact, error) {
	query := `
		SELECT ` + factColumns + `
		FROM facts
		WHERE org_id = ?` + typeFilter("", types, nil) + `
		ORDER BY created_at DESC
		LIMIT ?
	`
	args := []any{orgID}
	args = appendTypeArgs(args, types)
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent facts: %w", err)
	}
	defer rows.Close()

	return scanFacts(rows)
}

// GetByIDs fetches facts by id list, preserving no particular order
func (r *FactRepository) GetByIDs(ctx context.Context, ids []string) ([]fact.Fact, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	query := `
		SELECT ` + factColumns + `
		FROM facts
		WHERE id IN (` + strings.Join(placeholders, ",") + `)
	`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get facts by ids: %w", err)
	}
	defer rows.Close()

	return scanFacts(rows)
}

// ListByWorkstream returns facts linked to a workstream, newest-first
func (r *FactRepository) ListByWorkstream(ctx context.Context, orgID, workstreamID string, limit int) ([]fact.Fact, error) {
	query := `
		SELECT DISTINCT ` + prefixed("f", factColumns) + `
		FROM facts f
		JOIN workstream_facts wf ON f.id = wf.fact_id
		WHERE wf.workstream_id = ? AND f.org_id = ?
		ORDER BY f.created_at DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, workstreamID, orgID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list workstream facts: %w", err)
	}
	defer rows.Close()

	return scanFacts(rows)
}

// ListUrgent returns facts that deserve attention: overdue first, then
// high-priority types, then action items created in the last week.
func (r *FactRepository) ListUrgent(ctx context.Context, orgID string, now time.Time, limit int) ([]fact.Fact, error) {
	weekAgo := now.AddDate(0, 0, -7)
	query := `
		SELECT ` + factColumns + `
		FROM facts
		WHERE org_id = ?
		  AND (
		    (due_at IS NOT NULL AND due_at < ?) OR
		    fact_type IN ('blocker', 'decision_needed', 'risk', 'decision') OR
		    (fact_type = 'action_item' AND created_at > ?)
		  )
		ORDER BY
		    CASE
		        WHEN due_at IS NOT NULL AND due_at < ? THEN 0
		        WHEN fact_type = 'blocker' THEN 1
		        WHEN fact_type = 'decision_needed' THEN 2
		        WHEN fact_type = 'risk' THEN 3
		        ELSE 4
		    END,
		    created_at DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, orgID, now, weekAgo, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list urgent facts: %w", err)
	}
	defer rows.Close()

	return scanFacts(rows)
}

// UpdateStatus changes a fact's status
func (r *FactRepository) UpdateStatus(ctx context.Context, id, status string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE facts SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update fact status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanFacts(rows *sql.Rows) ([]fact.Fact, error) {
	var facts []fact.Fact
	for rows.Next() {
		var f fact.Fact
		var payload string
		var due sql.NullTime
		var wsID, meetingID sql.NullString
		err := rows.Scan(
			&f.ID,
			&f.OrgID,
			&f.Type,
			&f.Status,
			&payload,
			&f.Confidence,
			&due,
			&wsID,
			&meetingID,
			&f.CreatedAt,
			&f.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fact: %w", err)
		}
		f.Payload = []byte(payload)
		if due.Valid {
			t := due.Time
			f.DueAt = &t
		}
		f.WorkstreamID = wsID.String
		f.MeetingID = meetingID.String
		facts = append(facts, f)
	}
	return facts, rows.Err()
}

func prefixed(alias, columns string) string {
	parts := strings.Split(columns, ", ")
	for i, p := range parts {
		parts[i] = alias + "." + p
	}
	return strings.Join(parts, ", ")
}

func typeFilter(alias string, types []string, _ []any) string {
	if len(types) == 0 {
		return ""
	}
	col := "fact_type"
	if alias != "" {
		col = alias + ".fact_type"
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(types)), ",")
	return " AND " + col + " IN (" + placeholders + ")"
}

func appendTypeArgs(args []any, types []string) []any {
	for _, t := range types {
		args = append(args, t)
	}
	return args
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
