//go:build integration

package application_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"covera/internal/application"
	"covera/internal/plan"
	id "covera/pkg/domain"
	"covera/pkg/platform/sentinel"
	"covera/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *application.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = application.NewPostgresStore(s.postgres.Pool)
}

func (s *PostgresStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "applications")
	s.Require().NoError(err)
}

func newStoredApplication(userID id.UserID) *application.Application {
	now := time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)
	return &application.Application{
		ID:        id.NewApplicationID(),
		UserID:    userID,
		Status:    application.StatusDraft,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *PostgresStoreSuite) TestCreateAndGetRoundTrip() {
	ctx := context.Background()
	userID := id.UserID(uuid.New())

	app := newStoredApplication(userID)
	app.PersonalInfo = &application.PersonalInfo{
		FirstName:                    "Ana",
		LastName:                     "Costa",
		Phone:                        "11987654321",
		Email:                        "ana.costa@example.com",
		DateOfBirth:                  time.Date(1990, 5, 20, 0, 0, 0, 0, time.UTC),
		Gender:                       id.GenderFemale,
		MaritalStatus:                id.MaritalMarried,
		EmergencyContactName:         "Rui Costa",
		EmergencyContactPhone:        "11987650000",
		EmergencyContactRelationship: application.RelationshipSpouse,
		OccupationRisk:               id.OccupationRiskLow,
		HealthStatus:                 id.HealthExcellent,
	}
	app.HealthDeclaration = &application.HealthDeclaration{
		IsSmoker: true,
		Medications: []application.HealthDetail{
			{Category: "medication", Description: "losartan 50mg"},
		},
	}

	s.Require().NoError(s.store.Create(ctx, app))

	got, err := s.store.Get(ctx, app.ID)
	s.Require().NoError(err)

	s.Equal(app.ID, got.ID)
	s.Equal(userID, got.UserID)
	s.Equal(application.StatusDraft, got.Status)
	s.Equal(int64(1), got.Version)
	s.Require().NotNil(got.PersonalInfo)
	s.Equal("Ana", got.PersonalInfo.FirstName)
	s.Equal(id.MaritalMarried, got.PersonalInfo.MaritalStatus)
	s.True(got.PersonalInfo.DateOfBirth.Equal(app.PersonalInfo.DateOfBirth))
	s.Require().NotNil(got.HealthDeclaration)
	s.True(got.HealthDeclaration.IsSmoker)
	s.Require().Len(got.HealthDeclaration.Medications, 1)
	s.Equal("losartan 50mg", got.HealthDeclaration.Medications[0].Description)
	s.Empty(got.Beneficiaries)
	s.WithinDuration(app.CreatedAt, got.CreatedAt, time.Second)
}

func (s *PostgresStoreSuite) TestGetMissingReturnsNotFound() {
	_, err := s.store.Get(context.Background(), id.NewApplicationID())
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestUpdateBumpsVersion() {
	ctx := context.Background()
	app := newStoredApplication(id.UserID(uuid.New()))
	s.Require().NoError(s.store.Create(ctx, app))

	app.PaymentFrequency = plan.FrequencyMonthly
	app.PaymentMethod = "credit_card"
	s.Require().NoError(s.store.Update(ctx, app))
	s.Equal(int64(2), app.Version)

	got, err := s.store.Get(ctx, app.ID)
	s.Require().NoError(err)
	s.Equal(int64(2), got.Version)
	s.Equal(plan.FrequencyMonthly, got.PaymentFrequency)
	s.Equal("credit_card", got.PaymentMethod)
}

func (s *PostgresStoreSuite) TestUpdateStaleVersionConflicts() {
	ctx := context.Background()
	app := newStoredApplication(id.UserID(uuid.New()))
	s.Require().NoError(s.store.Create(ctx, app))

	first := *app
	first.Version = 1
	s.Require().NoError(s.store.Update(ctx, &first))

	stale := *app
	stale.Version = 1
	stale.PaymentMethod = "boleto"
	err := s.store.Update(ctx, &stale)
	s.Require().ErrorIs(err, sentinel.ErrConflict)

	got, err := s.store.Get(ctx, app.ID)
	s.Require().NoError(err)
	s.Equal(int64(2), got.Version)
	s.NotEqual("boleto", got.PaymentMethod)
}

func (s *PostgresStoreSuite) TestUpdateMissingReturnsNotFound() {
	app := newStoredApplication(id.UserID(uuid.New()))
	err := s.store.Update(context.Background(), app)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestBeneficiariesReplacedWholesale() {
	ctx := context.Background()
	app := newStoredApplication(id.UserID(uuid.New()))
	s.Require().NoError(s.store.Create(ctx, app))

	app.Beneficiaries = []application.Beneficiary{
		{
			ID:            id.NewBeneficiaryID(),
			ApplicationID: app.ID,
			Type:          application.BeneficiaryPrimary,
			FirstName:     "Marta",
			LastName:      "Costa",
			Relationship:  application.RelationshipSpouse,
			DateOfBirth:   time.Date(1992, 8, 1, 0, 0, 0, 0, time.UTC),
			Percentage:    60,
		},
		{
			ID:            id.NewBeneficiaryID(),
			ApplicationID: app.ID,
			Type:          application.BeneficiaryPrimary,
			FirstName:     "Tiago",
			LastName:      "Costa",
			Relationship:  application.RelationshipChild,
			DateOfBirth:   time.Date(2015, 2, 10, 0, 0, 0, 0, time.UTC),
			Percentage:    40,
			IsMinor:       true,
			TrusteeName:   "Marta Costa",
			TrusteeRelationship: application.RelationshipParent,
		},
	}
	s.Require().NoError(s.store.Update(ctx, app))

	got, err := s.store.Get(ctx, app.ID)
	s.Require().NoError(err)
	s.Require().Len(got.Beneficiaries, 2)

	replacement := []application.Beneficiary{
		{
			ID:            id.NewBeneficiaryID(),
			ApplicationID: app.ID,
			Type:          application.BeneficiaryPrimary,
			FirstName:     "Rui",
			LastName:      "Costa",
			Relationship:  application.RelationshipParent,
			DateOfBirth:   time.Date(1961, 4, 4, 0, 0, 0, 0, time.UTC),
			Percentage:    100,
		},
	}
	got.Beneficiaries = replacement
	s.Require().NoError(s.store.Update(ctx, got))

	final, err := s.store.Get(ctx, app.ID)
	s.Require().NoError(err)
	s.Require().Len(final.Beneficiaries, 1)
	s.Equal("Rui", final.Beneficiaries[0].FirstName)
	s.Equal(replacement[0].ID, final.Beneficiaries[0].ID)
	s.True(final.Beneficiaries[0].DateOfBirth.Equal(replacement[0].DateOfBirth))
}

func (s *PostgresStoreSuite) TestListByUserFiltersAndOrders() {
	ctx := context.Background()
	userID := id.UserID(uuid.New())
	otherUser := id.UserID(uuid.New())

	older := newStoredApplication(userID)
	older.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := newStoredApplication(userID)
	newer.CreatedAt = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	foreign := newStoredApplication(otherUser)

	for _, app := range []*application.Application{older, newer, foreign} {
		s.Require().NoError(s.store.Create(ctx, app))
	}

	apps, err := s.store.ListByUser(ctx, userID)
	s.Require().NoError(err)
	s.Require().Len(apps, 2)
	s.Equal(newer.ID, apps[0].ID)
	s.Equal(older.ID, apps[1].ID)
}
