package plan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	id "covera/pkg/domain"
	"covera/pkg/platform/sentinel"
)

// PostgresStore reads the catalogue from Postgres. Catalogue writes happen
// through migrations and back-office tooling, not this service.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const planColumns = `id, product_id, name, min_age, max_age, coverage_amount,
	term_years, base_premiums, requires_medical_exam,
	accidental_death_rider, critical_illness_rider`

func (s *PostgresStore) GetPlan(ctx context.Context, planID id.PlanID) (*Plan, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+planColumns+` FROM plans WHERE id = $1`, planID.String())
	p, err := scanPlan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	return p, err
}

func (s *PostgresStore) ListProducts(ctx context.Context) ([]*Product, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, description, active FROM products WHERE active ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []*Product
	for rows.Next() {
		var p Product
		var rawID string
		if err := rows.Scan(&rawID, &p.Name, &p.Description, &p.Active); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		productID, err := id.ParseProductID(rawID)
		if err != nil {
			return nil, err
		}
		p.ID = productID
		out = append(out, &p)
	}
	return out, rows.Err()
}

func (s *PostgresStore) ListPlansByProduct(ctx context.Context, productID id.ProductID) ([]*Plan, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+planColumns+` FROM plans WHERE product_id = $1 ORDER BY coverage_amount`,
		productID.String())
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	var out []*Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPlan(row pgx.Row) (*Plan, error) {
	var p Plan
	var rawID, rawProductID string
	var rawPremiums []byte
	if err := row.Scan(
		&rawID, &rawProductID, &p.Name, &p.MinAge, &p.MaxAge, &p.CoverageAmount,
		&p.TermYears, &rawPremiums, &p.RequiresMedicalExam,
		&p.AccidentalDeathRider, &p.CriticalIllnessRider,
	); err != nil {
		return nil, err
	}

	planID, err := id.ParsePlanID(rawID)
	if err != nil {
		return nil, err
	}
	productID, err := id.ParseProductID(rawProductID)
	if err != nil {
		return nil, err
	}
	p.ID = planID
	p.ProductID = productID

	if len(rawPremiums) > 0 {
		if err := json.Unmarshal(rawPremiums, &p.BasePremiums); err != nil {
			return nil, fmt.Errorf("decode base premiums: %w", err)
		}
	}
	return &p, nil
}
