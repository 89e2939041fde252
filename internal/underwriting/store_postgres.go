package underwriting

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"covera/internal/document"
	id "covera/pkg/domain"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Add(ctx context.Context, decision *Decision) error {
	docs := make([]string, 0, len(decision.RequiredDocuments))
	for _, c := range decision.RequiredDocuments {
		docs = append(docs, string(c))
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO underwriting_decisions
			(id, application_id, risk_level, risk_score, auto_approval_eligible,
			 requires_medical_exam, required_documents, quoted_premium, adjusted_premium, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		decision.ID.String(), decision.ApplicationID.String(),
		string(decision.RiskLevel), decision.RiskScore, decision.AutoApprovalEligible,
		decision.RequiresMedicalExam, docs,
		decision.QuotedPremium, decision.AdjustedPremium, decision.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert underwriting decision: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByApplication(ctx context.Context, applicationID id.ApplicationID) ([]*Decision, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, application_id, risk_level, risk_score, auto_approval_eligible,
		       requires_medical_exam, required_documents, quoted_premium, adjusted_premium, created_at
		FROM underwriting_decisions WHERE application_id = $1 ORDER BY created_at`,
		applicationID.String())
	if err != nil {
		return nil, fmt.Errorf("list underwriting decisions: %w", err)
	}
	defer rows.Close()

	var out []*Decision
	for rows.Next() {
		var d Decision
		var rawID, rawAppID, rawLevel string
		var docs []string
		if err := rows.Scan(&rawID, &rawAppID, &rawLevel, &d.RiskScore,
			&d.AutoApprovalEligible, &d.RequiresMedicalExam, &docs,
			&d.QuotedPremium, &d.AdjustedPremium, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan underwriting decision: %w", err)
		}
		decisionID, err := id.ParseDecisionID(rawID)
		if err != nil {
			return nil, err
		}
		appID, err := id.ParseApplicationID(rawAppID)
		if err != nil {
			return nil, err
		}
		d.ID = decisionID
		d.ApplicationID = appID
		d.RiskLevel = RiskLevel(rawLevel)
		d.RequiredDocuments = make([]document.Category, 0, len(docs))
		for _, c := range docs {
			d.RequiredDocuments = append(d.RequiredDocuments, document.Category(c))
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}
