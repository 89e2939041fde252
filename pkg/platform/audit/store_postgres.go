package audit

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	txcontext "covera/pkg/platform/tx"
)

// PostgresStore persists audit events to an append-only table. When the
// caller carries a transaction in context the write joins it, so an audit
// row and the state transition that caused it commit together.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	var userID, applicationID any
	if !event.UserID.IsNil() {
		userID = event.UserID.String()
	}
	if !event.ApplicationID.IsNil() {
		applicationID = event.ApplicationID.String()
	}

	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO audit_events (
			id, occurred_at, action, user_id, application_id,
			decision, reason, request_id, client_ip, user_agent
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		uuid.New(), event.Timestamp, string(event.Action), userID, applicationID,
		nullable(event.Decision), nullable(event.Reason), nullable(event.RequestID),
		nullable(event.ClientIP), nullable(event.UserAgent),
	)
	return err
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
