package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// RunMigrations creates the schema. Safe to call on a fresh database only.
func (db *DB) RunMigrations() error {
	migration := `
-- Facts table
CREATE TABLE facts (
    id TEXT PRIMARY KEY,
    org_id TEXT NOT NULL,
    fact_type TEXT NOT NULL,
    status TEXT NOT NULL CHECK(status IN ('draft', 'proposed', 'validated', 'published', 'rejected')),
    payload TEXT NOT NULL DEFAULT '{}',
    confidence REAL NOT NULL DEFAULT 0,
    due_at TIMESTAMP,
    workstream_id TEXT,
    meeting_id TEXT,
    idempotency_key TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX idx_org_facts ON facts(org_id);
CREATE INDEX idx_fact_type ON facts(fact_type);
CREATE INDEX idx_fact_status ON facts(status);
CREATE INDEX idx_fact_due ON facts(due_at);
CREATE INDEX idx_fact_workstream ON facts(workstream_id);
CREATE UNIQUE INDEX idx_fact_idem ON facts(idempotency_key) WHERE idempotency_key IS NOT NULL;

-- Workstreams table
CREATE TABLE workstreams (
    id TEXT PRIMARY KEY,
    org_id TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT,
    status TEXT NOT NULL CHECK(status IN ('green', 'yellow', 'red')),
    priority INTEGER NOT NULL DEFAULT 1,
    owner TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX idx_org_workstreams ON workstreams(org_id);

-- Workstream/fact links (many-to-many)
CREATE TABLE workstream_facts (
    workstream_id TEXT NOT NULL,
    fact_id TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (workstream_id, fact_id),
    FOREIGN KEY (workstream_id) REFERENCES workstreams(id),
    FOREIGN KEY (fact_id) REFERENCES facts(id)
);

-- Agenda proposals (idempotent artifacts)
CREATE TABLE agenda_proposals (
    id TEXT PRIMARY KEY,
    org_id TEXT NOT NULL,
    meeting_id TEXT,
    subject TEXT,
    agenda TEXT NOT NULL,
    idempotency_key TEXT NOT NULL UNIQUE,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX idx_org_proposals ON agenda_proposals(org_id);

-- Full-text search over fact payloads (SQLite FTS5)
CREATE VIRTUAL TABLE facts_fts USING fts5(
    payload,
    content='facts',
    content_rowid='rowid'
);

-- Triggers to keep FTS index synchronized
CREATE TRIGGER facts_ai AFTER INSERT ON facts BEGIN
    INSERT INTO facts_fts(rowid, payload) VALUES (new.rowid, new.payload);
END;

CREATE TRIGGER facts_ad AFTER DELETE ON facts BEGIN
    INSERT INTO facts_fts(facts_fts, rowid, payload) VALUES('delete', old.rowid, old.payload);
END;

CREATE TRIGGER facts_au AFTER UPDATE ON facts BEGIN
    INSERT INTO facts_fts(facts_fts, rowid, payload) VALUES('delete', old.rowid, old.payload);
    INSERT INTO facts_fts(rowid, payload) VALUES (new.rowid, new.payload);
END;
`

	_, err := db.Exec(migration)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
