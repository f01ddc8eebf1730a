package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"docgate/internal/document/models"
	"docgate/pkg/domain"
	"docgate/pkg/platform/sentinel"
)

// PostgresStore persists documents in PostgreSQL.
//
// Expected schema:
//
//	CREATE TABLE documents (
//	    id               UUID PRIMARY KEY,
//	    owner_id         UUID NOT NULL,
//	    service_id       UUID NOT NULL,
//	    department_id    UUID NOT NULL,
//	    doc_type         TEXT NOT NULL,
//	    category         TEXT NOT NULL,
//	    status           TEXT NOT NULL,
//	    rejection_reason TEXT NOT NULL DEFAULT '',
//	    document_number  TEXT NOT NULL DEFAULT '',
//	    submitted_at     TIMESTAMPTZ NOT NULL,
//	    expiry_date      TIMESTAMPTZ,
//	    approved_at      TIMESTAMPTZ,
//	    issued_at        TIMESTAMPTZ,
//	    history          JSONB NOT NULL,
//	    version          BIGINT NOT NULL,
//	    updated_at       TIMESTAMPTZ NOT NULL
//	);
//	CREATE INDEX documents_owner_idx ON documents (owner_id);
//	CREATE INDEX documents_status_idx ON documents (status);
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed document store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const documentColumns = `id, owner_id, service_id, department_id, doc_type, category, status,
	rejection_reason, document_number, submitted_at, expiry_date, approved_at, issued_at,
	history, version, updated_at`

func (s *PostgresStore) Create(ctx context.Context, doc *models.Document) error {
	historyBytes, err := json.Marshal(doc.History)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (`+documentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		uuid.UUID(doc.ID), uuid.UUID(doc.OwnerID), uuid.UUID(doc.ServiceID), uuid.UUID(doc.DepartmentID),
		doc.Type, string(doc.Category), string(doc.Status),
		doc.RejectionReason, doc.DocumentNumber, doc.SubmittedAt, doc.ExpiryDate,
		doc.ApprovedAt, doc.IssuedAt, historyBytes, doc.Version, doc.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.DocumentID) (*models.Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE id = $1`, uuid.UUID(id))
	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find document by id: %w", err)
	}
	return doc, nil
}

// Save applies the optimistic version check in a single UPDATE: a concurrent
// writer that already bumped the version leaves zero rows affected.
func (s *PostgresStore) Save(ctx context.Context, doc *models.Document, expectedVersion int64) (*models.Document, error) {
	historyBytes, err := json.Marshal(doc.History)
	if err != nil {
		return nil, fmt.Errorf("marshal history: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE documents SET
			status = $1, rejection_reason = $2, document_number = $3,
			approved_at = $4, issued_at = $5, history = $6,
			version = version + 1, updated_at = $7
		WHERE id = $8 AND version = $9`,
		string(doc.Status), doc.RejectionReason, doc.DocumentNumber,
		doc.ApprovedAt, doc.IssuedAt, historyBytes, doc.UpdatedAt,
		uuid.UUID(doc.ID), expectedVersion,
	)
	if err != nil {
		return nil, fmt.Errorf("update document: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update document rows affected: %w", err)
	}
	if affected == 0 {
		// Either the document vanished or another writer won the race.
		if _, findErr := s.FindByID(ctx, doc.ID); findErr != nil {
			return nil, findErr
		}
		return nil, sentinel.ErrConflict
	}
	return s.FindByID(ctx, doc.ID)
}

func (s *PostgresStore) List(ctx context.Context, filter Filter) ([]*models.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents`
	var args []any
	switch {
	case filter.OwnerID != nil && filter.Status != nil:
		query += ` WHERE owner_id = $1 AND status = $2`
		args = append(args, uuid.UUID(*filter.OwnerID), string(*filter.Status))
	case filter.OwnerID != nil:
		query += ` WHERE owner_id = $1`
		args = append(args, uuid.UUID(*filter.OwnerID))
	case filter.Status != nil:
		query += ` WHERE status = $1`
		args = append(args, string(*filter.Status))
	}
	query += ` ORDER BY submitted_at`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var result []*models.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		result = append(result, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (*models.Document, error) {
	var (
		doc          models.Document
		docID        uuid.UUID
		ownerID      uuid.UUID
		serviceID    uuid.UUID
		departmentID uuid.UUID
		category     string
		status       string
		expiry       sql.NullTime
		approvedAt   sql.NullTime
		issuedAt     sql.NullTime
		historyBytes []byte
	)
	err := row.Scan(
		&docID, &ownerID, &serviceID, &departmentID, &doc.Type, &category, &status,
		&doc.RejectionReason, &doc.DocumentNumber, &doc.SubmittedAt, &expiry,
		&approvedAt, &issuedAt, &historyBytes, &doc.Version, &doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	doc.ID = domain.DocumentID(docID)
	doc.OwnerID = domain.CitizenID(ownerID)
	doc.ServiceID = domain.ServiceID(serviceID)
	doc.DepartmentID = domain.DepartmentID(departmentID)
	doc.Category = models.Category(category)
	doc.Status = models.Status(status)
	doc.ExpiryDate = nullableTime(expiry)
	doc.ApprovedAt = nullableTime(approvedAt)
	doc.IssuedAt = nullableTime(issuedAt)
	if err := json.Unmarshal(historyBytes, &doc.History); err != nil {
		return nil, fmt.Errorf("unmarshal history: %w", err)
	}
	return &doc, nil
}

func nullableTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	value := t.Time
	return &value
}
