package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"covera/internal/plan"
	id "covera/pkg/domain"
	"covera/pkg/platform/sentinel"
)

// PostgresStore persists applications with their owned children. Scalar and
// step-struct fields live on the applications row (steps as JSONB, matching
// their save-as-a-whole contract); beneficiaries get their own table and are
// replaced wholesale inside the update transaction.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Create(ctx context.Context, app *Application) error {
	personalInfo, healthDecl, err := marshalSteps(app)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO applications (
			id, user_id, status, version, product_id, plan_id,
			coverage_amount, term_years, payment_frequency, payment_method,
			premium_amount, total_premium_amount, personal_info, health_declaration,
			terms_accepted, declaration_accepted, kyc_completed,
			created_at, updated_at, submitted_at, reviewed_at,
			review_notes, reviewed_by, review_decision
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24)`,
		app.ID.String(), app.UserID.String(), string(app.Status), app.Version,
		nilIfEmptyID(app.ProductID.String(), app.ProductID.IsNil()),
		nilIfEmptyID(app.PlanID.String(), app.PlanID.IsNil()),
		app.CoverageAmount, app.TermYears, string(app.PaymentFrequency), app.PaymentMethod,
		app.PremiumAmount, app.TotalPremiumAmount, personalInfo, healthDecl,
		app.TermsAccepted, app.DeclarationAccepted, app.KYCCompleted,
		app.CreatedAt, app.UpdatedAt, app.SubmittedAt, app.ReviewedAt,
		app.ReviewNotes, app.ReviewedBy, app.ReviewDecision,
	)
	if err != nil {
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, applicationID id.ApplicationID) (*Application, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, user_id, status, version, product_id, plan_id,
			coverage_amount, term_years, payment_frequency, payment_method,
			premium_amount, total_premium_amount, personal_info, health_declaration,
			terms_accepted, declaration_accepted, kyc_completed,
			created_at, updated_at, submitted_at, reviewed_at,
			review_notes, reviewed_by, review_decision
		FROM applications WHERE id = $1`, applicationID.String())

	app, err := scanApplication(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	beneficiaries, err := s.loadBeneficiaries(ctx, app.ID)
	if err != nil {
		return nil, err
	}
	app.Beneficiaries = beneficiaries
	return app, nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID id.UserID) ([]*Application, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, status, version, product_id, plan_id,
			coverage_amount, term_years, payment_frequency, payment_method,
			premium_amount, total_premium_amount, personal_info, health_declaration,
			terms_accepted, declaration_accepted, kyc_completed,
			created_at, updated_at, submitted_at, reviewed_at,
			review_notes, reviewed_by, review_decision
		FROM applications WHERE user_id = $1 ORDER BY created_at DESC`, userID.String())
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	var out []*Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, app)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, app := range out {
		beneficiaries, err := s.loadBeneficiaries(ctx, app.ID)
		if err != nil {
			return nil, err
		}
		app.Beneficiaries = beneficiaries
	}
	return out, nil
}

func (s *PostgresStore) Update(ctx context.Context, app *Application) error {
	personalInfo, healthDecl, err := marshalSteps(app)
	if err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE applications SET
			status = $3, version = version + 1, product_id = $4, plan_id = $5,
			coverage_amount = $6, term_years = $7, payment_frequency = $8,
			payment_method = $9, premium_amount = $10, total_premium_amount = $11,
			personal_info = $12, health_declaration = $13,
			terms_accepted = $14, declaration_accepted = $15, kyc_completed = $16,
			updated_at = $17, submitted_at = $18, reviewed_at = $19,
			review_notes = $20, reviewed_by = $21, review_decision = $22
		WHERE id = $1 AND version = $2`,
		app.ID.String(), app.Version, string(app.Status),
		nilIfEmptyID(app.ProductID.String(), app.ProductID.IsNil()),
		nilIfEmptyID(app.PlanID.String(), app.PlanID.IsNil()),
		app.CoverageAmount, app.TermYears, string(app.PaymentFrequency),
		app.PaymentMethod, app.PremiumAmount, app.TotalPremiumAmount,
		personalInfo, healthDecl,
		app.TermsAccepted, app.DeclarationAccepted, app.KYCCompleted,
		app.UpdatedAt, app.SubmittedAt, app.ReviewedAt,
		app.ReviewNotes, app.ReviewedBy, app.ReviewDecision,
	)
	if err != nil {
		return fmt.Errorf("update application: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Either the row is gone or the version is stale; distinguish so the
		// caller can map to the right domain error.
		var exists bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM applications WHERE id = $1)`,
			app.ID.String()).Scan(&exists); err != nil {
			return fmt.Errorf("check application existence: %w", err)
		}
		if !exists {
			return sentinel.ErrNotFound
		}
		return sentinel.ErrConflict
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM beneficiaries WHERE application_id = $1`, app.ID.String()); err != nil {
		return fmt.Errorf("clear beneficiaries: %w", err)
	}
	for _, b := range app.Beneficiaries {
		if _, err := tx.Exec(ctx, `
			INSERT INTO beneficiaries (
				id, application_id, type, first_name, last_name,
				relationship, relationship_other, date_of_birth, gender,
				percentage, email, phone, is_minor,
				trustee_name, trustee_relationship, trustee_relation_other
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`,
			b.ID.String(), app.ID.String(), string(b.Type), b.FirstName, b.LastName,
			string(b.Relationship), b.RelationshipOther, b.DateOfBirth, string(b.Gender),
			b.Percentage, b.Email, b.Phone, b.IsMinor,
			b.TrusteeName, string(b.TrusteeRelationship), b.TrusteeRelationOther,
		); err != nil {
			return fmt.Errorf("insert beneficiary: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit update: %w", err)
	}
	app.Version++
	return nil
}

func (s *PostgresStore) loadBeneficiaries(ctx context.Context, applicationID id.ApplicationID) ([]Beneficiary, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, type, first_name, last_name, relationship, relationship_other,
			date_of_birth, gender, percentage, email, phone, is_minor,
			trustee_name, trustee_relationship, trustee_relation_other
		FROM beneficiaries WHERE application_id = $1`, applicationID.String())
	if err != nil {
		return nil, fmt.Errorf("list beneficiaries: %w", err)
	}
	defer rows.Close()

	var out []Beneficiary
	for rows.Next() {
		var b Beneficiary
		var rawID, rawType, rawRelationship, rawGender, rawTrusteeRel string
		if err := rows.Scan(&rawID, &rawType, &b.FirstName, &b.LastName,
			&rawRelationship, &b.RelationshipOther, &b.DateOfBirth, &rawGender,
			&b.Percentage, &b.Email, &b.Phone, &b.IsMinor,
			&b.TrusteeName, &rawTrusteeRel, &b.TrusteeRelationOther); err != nil {
			return nil, fmt.Errorf("scan beneficiary: %w", err)
		}
		beneficiaryID, err := id.ParseBeneficiaryID(rawID)
		if err != nil {
			return nil, err
		}
		b.ID = beneficiaryID
		b.ApplicationID = applicationID
		b.Type = BeneficiaryType(rawType)
		b.Relationship = Relationship(rawRelationship)
		b.Gender = id.Gender(rawGender)
		b.TrusteeRelationship = Relationship(rawTrusteeRel)
		out = append(out, b)
	}
	return out, rows.Err()
}

func marshalSteps(app *Application) (personalInfo, healthDecl []byte, err error) {
	if app.PersonalInfo != nil {
		personalInfo, err = json.Marshal(app.PersonalInfo)
		if err != nil {
			return nil, nil, fmt.Errorf("encode personal info: %w", err)
		}
	}
	if app.HealthDeclaration != nil {
		healthDecl, err = json.Marshal(app.HealthDeclaration)
		if err != nil {
			return nil, nil, fmt.Errorf("encode health declaration: %w", err)
		}
	}
	return personalInfo, healthDecl, nil
}

func scanApplication(row pgx.Row) (*Application, error) {
	var app Application
	var rawID, rawUserID, rawStatus, rawFrequency string
	var rawProductID, rawPlanID *string
	var personalInfo, healthDecl []byte
	var submittedAt, reviewedAt *time.Time

	if err := row.Scan(
		&rawID, &rawUserID, &rawStatus, &app.Version, &rawProductID, &rawPlanID,
		&app.CoverageAmount, &app.TermYears, &rawFrequency, &app.PaymentMethod,
		&app.PremiumAmount, &app.TotalPremiumAmount, &personalInfo, &healthDecl,
		&app.TermsAccepted, &app.DeclarationAccepted, &app.KYCCompleted,
		&app.CreatedAt, &app.UpdatedAt, &submittedAt, &reviewedAt,
		&app.ReviewNotes, &app.ReviewedBy, &app.ReviewDecision,
	); err != nil {
		return nil, err
	}

	applicationID, err := id.ParseApplicationID(rawID)
	if err != nil {
		return nil, err
	}
	userID, err := id.ParseUserID(rawUserID)
	if err != nil {
		return nil, err
	}
	app.ID = applicationID
	app.UserID = userID
	app.Status = Status(rawStatus)
	app.PaymentFrequency = plan.PaymentFrequency(rawFrequency)
	app.SubmittedAt = submittedAt
	app.ReviewedAt = reviewedAt

	if rawProductID != nil {
		productID, err := id.ParseProductID(*rawProductID)
		if err != nil {
			return nil, err
		}
		app.ProductID = productID
	}
	if rawPlanID != nil {
		planID, err := id.ParsePlanID(*rawPlanID)
		if err != nil {
			return nil, err
		}
		app.PlanID = planID
	}

	if len(personalInfo) > 0 {
		app.PersonalInfo = &PersonalInfo{}
		if err := json.Unmarshal(personalInfo, app.PersonalInfo); err != nil {
			return nil, fmt.Errorf("decode personal info: %w", err)
		}
	}
	if len(healthDecl) > 0 {
		app.HealthDeclaration = &HealthDeclaration{}
		if err := json.Unmarshal(healthDecl, app.HealthDeclaration); err != nil {
			return nil, fmt.Errorf("decode health declaration: %w", err)
		}
	}
	return &app, nil
}

func nilIfEmptyID(s string, isNil bool) any {
	if isNil {
		return nil
	}
	return s
}
