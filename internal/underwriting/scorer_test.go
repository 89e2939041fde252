package underwriting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"covera/internal/application"
	id "covera/pkg/domain"
)

func TestAssessCleanApplicantIsLowRisk(t *testing.T) {
	scorer := NewScorer(250_000)

	got := scorer.Assess(ScorerInput{
		Health:         &application.HealthDeclaration{},
		OccupationRisk: id.OccupationRiskLow,
		CoverageAmount: 100_000,
		ApplicantAge:   30,
		QuotedPremium:  1200,
	})

	require.Equal(t, RiskLow, got.RiskLevel)
	assert.Equal(t, 0, got.RiskScore)
	assert.True(t, got.AutoApprovalEligible)
	assert.Equal(t, 1200.0, got.AdjustedPremium)
}

func TestAssessRiskLevels(t *testing.T) {
	scorer := NewScorer(250_000)

	tests := []struct {
		name      string
		in        ScorerInput
		wantLevel RiskLevel
		wantScore int
	}{
		{
			name: "smoker only is medium",
			in: ScorerInput{
				Health:         &application.HealthDeclaration{IsSmoker: true},
				OccupationRisk: id.OccupationRiskMedium,
				CoverageAmount: 100_000,
				ApplicantAge:   30,
			},
			wantLevel: RiskMedium,
			wantScore: 20,
		},
		{
			name: "heart disease with medication is high",
			in: ScorerInput{
				Health: &application.HealthDeclaration{
					HasHeartDisease: true,
					TakesMedication: true,
					IsSmoker:        true,
				},
				OccupationRisk: id.OccupationRiskLow,
				CoverageAmount: 100_000,
				ApplicantAge:   30,
			},
			wantLevel: RiskHigh,
			wantScore: 45,
		},
		{
			name: "stacked disclosures and age are very high",
			in: ScorerInput{
				Health: &application.HealthDeclaration{
					HasHeartDisease:    true,
					HasDiabetes:        true,
					TakesMedication:    true,
					HasHospitalization: true,
				},
				OccupationRisk: id.OccupationRiskMedium,
				CoverageAmount: 600_000,
				ApplicantAge:   62,
			},
			wantLevel: RiskVeryHigh,
			wantScore: 95,
		},
		{
			name: "hazardous occupation alone stays medium",
			in: ScorerInput{
				Health:         &application.HealthDeclaration{},
				OccupationRisk: id.OccupationRiskVeryHigh,
				CoverageAmount: 100_000,
				ApplicantAge:   25,
			},
			wantLevel: RiskMedium,
			wantScore: 35,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scorer.Assess(tt.in)
			assert.Equal(t, tt.wantLevel, got.RiskLevel)
			assert.Equal(t, tt.wantScore, got.RiskScore)
		})
	}
}

func TestAssessAutoApprovalRequiresEverything(t *testing.T) {
	scorer := NewScorer(250_000)

	t.Run("exam blocks auto approval", func(t *testing.T) {
		got := scorer.Assess(ScorerInput{
			Health:              &application.HealthDeclaration{},
			OccupationRisk:      id.OccupationRiskLow,
			CoverageAmount:      100_000,
			ApplicantAge:        30,
			RequiresMedicalExam: true,
		})
		require.Equal(t, RiskLow, got.RiskLevel)
		assert.False(t, got.AutoApprovalEligible)
	})

	t.Run("coverage at ceiling blocks auto approval", func(t *testing.T) {
		got := scorer.Assess(ScorerInput{
			Health:         &application.HealthDeclaration{},
			OccupationRisk: id.OccupationRiskLow,
			CoverageAmount: 250_000,
			ApplicantAge:   30,
		})
		require.Equal(t, RiskLow, got.RiskLevel)
		assert.False(t, got.AutoApprovalEligible)
	})

	t.Run("non low risk blocks auto approval", func(t *testing.T) {
		got := scorer.Assess(ScorerInput{
			Health:         &application.HealthDeclaration{IsSmoker: true},
			OccupationRisk: id.OccupationRiskMedium,
			CoverageAmount: 100_000,
			ApplicantAge:   30,
		})
		require.Equal(t, RiskMedium, got.RiskLevel)
		assert.False(t, got.AutoApprovalEligible)
	})
}

func TestAssessAppliesRiskLoading(t *testing.T) {
	scorer := NewScorer(250_000)

	got := scorer.Assess(ScorerInput{
		Health:         &application.HealthDeclaration{IsSmoker: true},
		OccupationRisk: id.OccupationRiskMedium,
		CoverageAmount: 100_000,
		ApplicantAge:   30,
		QuotedPremium:  1333.33,
	})

	require.Equal(t, RiskMedium, got.RiskLevel)
	assert.Equal(t, 1466.66, got.AdjustedPremium)
}

func TestAssessNilHealthScoresZeroHealthComponent(t *testing.T) {
	scorer := NewScorer(250_000)

	got := scorer.Assess(ScorerInput{
		Health:         nil,
		OccupationRisk: id.OccupationRiskLow,
		CoverageAmount: 100_000,
		ApplicantAge:   30,
	})

	assert.Equal(t, 0, got.RiskScore)
}
