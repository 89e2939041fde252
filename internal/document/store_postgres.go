package document

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	id "covera/pkg/domain"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Add(ctx context.Context, doc *Document) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO documents (id, application_id, category, filename, object_key, size_bytes, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		doc.ID.String(), doc.ApplicationID.String(), string(doc.Category),
		doc.Filename, doc.ObjectKey, doc.SizeBytes, doc.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByApplication(ctx context.Context, applicationID id.ApplicationID) ([]*Document, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, application_id, category, filename, object_key, size_bytes, uploaded_at
		FROM documents WHERE application_id = $1 ORDER BY uploaded_at`,
		applicationID.String())
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var out []*Document
	for rows.Next() {
		var d Document
		var rawID, rawAppID, rawCategory string
		if err := rows.Scan(&rawID, &rawAppID, &rawCategory, &d.Filename,
			&d.ObjectKey, &d.SizeBytes, &d.UploadedAt); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docID, err := id.ParseDocumentID(rawID)
		if err != nil {
			return nil, err
		}
		appID, err := id.ParseApplicationID(rawAppID)
		if err != nil {
			return nil, err
		}
		d.ID = docID
		d.ApplicationID = appID
		d.Category = Category(rawCategory)
		out = append(out, &d)
	}
	return out, rows.Err()
}
