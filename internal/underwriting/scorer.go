package underwriting

import (
	"math"

	"covera/internal/application"
	id "covera/pkg/domain"
)

// Health flag weights. Conditions with the strongest mortality signal weigh
// the most; the sum with occupation, coverage, and age weights produces the
// risk score.
const (
	weightHeartDisease       = 25
	weightCancer             = 25
	weightDiabetes           = 15
	weightHospitalization    = 10
	weightMedicalCondition   = 10
	weightMedication         = 10
	weightSmoker             = 10
	weightHazardousHobby     = 10
	weightOccupationalHazard = 15
	weightFamilyHistory      = 5
	weightAlcohol            = 5
)

// Risk level score boundaries.
const (
	mediumRiskFloor   = 20
	highRiskFloor     = 45
	veryHighRiskFloor = 75
)

// Loadings applied to the quoted premium per risk level. The reviewer sees
// both the quoted and the loaded premium on the decision.
var riskLoadings = map[RiskLevel]float64{
	RiskLow:      1.00,
	RiskMedium:   1.10,
	RiskHigh:     1.25,
	RiskVeryHigh: 1.50,
}

// ScorerInput is everything Assess reads. The scorer never loads state
// itself so it stays a pure function over one submission snapshot.
type ScorerInput struct {
	Health              *application.HealthDeclaration
	OccupationRisk      id.OccupationRisk
	CoverageAmount      float64
	ApplicantAge        int
	RequiresMedicalExam bool
	QuotedPremium       float64
}

// Scorer classifies submission risk. The auto-approval ceiling comes from
// configuration so business can tune it without a deploy.
type Scorer struct {
	autoApprovalCeiling float64
}

func NewScorer(autoApprovalCeiling float64) *Scorer {
	return &Scorer{autoApprovalCeiling: autoApprovalCeiling}
}

// Assessment is the raw scoring output before it is wrapped into a Decision.
type Assessment struct {
	RiskLevel            RiskLevel
	RiskScore            int
	AutoApprovalEligible bool
	RequiresMedicalExam  bool
	AdjustedPremium      float64
}

// Assess computes the weighted risk score and classification for one
// submission snapshot.
func (s *Scorer) Assess(in ScorerInput) Assessment {
	score := healthScore(in.Health)
	score += occupationScore(in.OccupationRisk)
	score += coverageScore(in.CoverageAmount)
	score += ageScore(in.ApplicantAge)

	level := levelFor(score)

	return Assessment{
		RiskLevel: level,
		RiskScore: score,
		AutoApprovalEligible: level == RiskLow &&
			!in.RequiresMedicalExam &&
			in.CoverageAmount < s.autoApprovalCeiling,
		RequiresMedicalExam: in.RequiresMedicalExam,
		AdjustedPremium:     math.Round(in.QuotedPremium*riskLoadings[level]*100) / 100,
	}
}

func healthScore(h *application.HealthDeclaration) int {
	if h == nil {
		return 0
	}
	score := 0
	for _, entry := range []struct {
		set    bool
		weight int
	}{
		{h.HasHeartDisease, weightHeartDisease},
		{h.HasCancer, weightCancer},
		{h.HasDiabetes, weightDiabetes},
		{h.HasHospitalization, weightHospitalization},
		{h.HasMedicalCondition, weightMedicalCondition},
		{h.TakesMedication, weightMedication},
		{h.IsSmoker, weightSmoker},
		{h.HasHazardousHobby, weightHazardousHobby},
		{h.HasOccupationalHazard, weightOccupationalHazard},
		{h.HasFamilyHistory, weightFamilyHistory},
		{h.ConsumesAlcohol, weightAlcohol},
	} {
		if entry.set {
			score += entry.weight
		}
	}
	return score
}

func occupationScore(risk id.OccupationRisk) int {
	switch risk {
	case id.OccupationRiskMedium:
		return 10
	case id.OccupationRiskHigh:
		return 20
	case id.OccupationRiskVeryHigh:
		return 35
	default:
		return 0
	}
}

func coverageScore(amount float64) int {
	switch {
	case amount > 1_000_000:
		return 20
	case amount > 500_000:
		return 10
	default:
		return 0
	}
}

func ageScore(age int) int {
	switch {
	case age > 60:
		return 15
	case age > 50:
		return 10
	default:
		return 0
	}
}

func levelFor(score int) RiskLevel {
	switch {
	case score >= veryHighRiskFloor:
		return RiskVeryHigh
	case score >= highRiskFloor:
		return RiskHigh
	case score >= mediumRiskFloor:
		return RiskMedium
	default:
		return RiskLow
	}
}
