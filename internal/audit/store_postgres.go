package audit

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// PostgresStore persists the audit trail in PostgreSQL.
//
// Schema:
//
//	CREATE TABLE audit_entries (
//	    id          UUID PRIMARY KEY,
//	    at          TIMESTAMPTZ NOT NULL,
//	    action      TEXT        NOT NULL,
//	    document_id TEXT        NOT NULL,
//	    actor_id    TEXT        NOT NULL DEFAULT '',
//	    detail      TEXT        NOT NULL DEFAULT ''
//	);
//	CREATE INDEX audit_entries_document_idx ON audit_entries (document_id, at);
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, entry Entry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_entries (id, at, action, document_id, actor_id, detail)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		entry.ID, entry.At, string(entry.Action), entry.DocumentID, entry.ActorID, entry.Detail,
	)
	if err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByDocument(ctx context.Context, documentID string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, at, action, document_id, actor_id, detail
		FROM audit_entries
		WHERE document_id = $1
		ORDER BY at ASC`,
		documentID,
	)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var action string
		if err := rows.Scan(&entry.ID, &entry.At, &action, &entry.DocumentID, &entry.ActorID, &entry.Detail); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entry.Action = Action(action)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit entries: %w", err)
	}
	return entries, nil
}
