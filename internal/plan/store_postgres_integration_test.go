//go:build integration

package plan_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"covera/internal/plan"
	id "covera/pkg/domain"
	"covera/pkg/platform/sentinel"
	"covera/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *plan.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = plan.NewPostgresStore(s.postgres.Pool)
}

func (s *PostgresStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "products")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) seedProduct(name string, active bool) id.ProductID {
	productID := id.ProductID(uuid.New())
	_, err := s.postgres.Pool.Exec(context.Background(), `
		INSERT INTO products (id, name, description, active)
		VALUES ($1, $2, '', $3)`,
		productID.String(), name, active)
	s.Require().NoError(err)
	return productID
}

func (s *PostgresStoreSuite) seedPlan(productID id.ProductID, name string, coverage float64) id.PlanID {
	planID := id.PlanID(uuid.New())
	_, err := s.postgres.Pool.Exec(context.Background(), `
		INSERT INTO plans (id, product_id, name, min_age, max_age, coverage_amount,
			term_years, base_premiums, requires_medical_exam,
			accidental_death_rider, critical_illness_rider)
		VALUES ($1, $2, $3, 18, 65, $4, 20, $5, false, 50000, 0)`,
		planID.String(), productID.String(), name, coverage,
		[]byte(`{"annual": 1200}`))
	s.Require().NoError(err)
	return planID
}

func (s *PostgresStoreSuite) TestGetPlanRoundTrip() {
	ctx := context.Background()
	productID := s.seedProduct("Term Life", true)
	planID := s.seedPlan(productID, "Term Life 250K / 20yr", 250_000)

	got, err := s.store.GetPlan(ctx, planID)
	s.Require().NoError(err)

	s.Equal(planID, got.ID)
	s.Equal(productID, got.ProductID)
	s.Equal("Term Life 250K / 20yr", got.Name)
	s.Equal(18, got.MinAge)
	s.Equal(65, got.MaxAge)
	s.Equal(250_000.0, got.CoverageAmount)
	s.Equal(20, got.TermYears)
	s.Equal(1200.0, got.BasePremiums[plan.FrequencyAnnual])
	s.False(got.RequiresMedicalExam)
	s.Equal(50_000.0, got.AccidentalDeathRider)
}

func (s *PostgresStoreSuite) TestGetPlanMissing() {
	_, err := s.store.GetPlan(context.Background(), id.PlanID(uuid.New()))
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestListProductsSkipsInactive() {
	ctx := context.Background()
	activeID := s.seedProduct("Term Life", true)
	s.seedProduct("Legacy Endowment", false)

	products, err := s.store.ListProducts(ctx)
	s.Require().NoError(err)
	s.Require().Len(products, 1)
	s.Equal(activeID, products[0].ID)
	s.Equal("Term Life", products[0].Name)
}

func (s *PostgresStoreSuite) TestListPlansByProductOrdersByCoverage() {
	ctx := context.Background()
	productID := s.seedProduct("Term Life", true)
	other := s.seedProduct("Whole Life", true)

	large := s.seedPlan(productID, "Term Life 750K", 750_000)
	small := s.seedPlan(productID, "Term Life 250K", 250_000)
	s.seedPlan(other, "Whole Life 500K", 500_000)

	plans, err := s.store.ListPlansByProduct(ctx, productID)
	s.Require().NoError(err)
	s.Require().Len(plans, 2)
	s.Equal(small, plans[0].ID)
	s.Equal(large, plans[1].ID)
}
