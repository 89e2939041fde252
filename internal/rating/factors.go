package rating

import (
	"covera/internal/plan"
	id "covera/pkg/domain"
)

// Rating factors. These are the deterministic multiplier tables the engine
// rates with; actuarial updates change these constants, nothing else.

func ageFactor(age int) float64 {
	switch {
	case age < 30:
		return 0.90
	case age < 40:
		return 1.00
	case age < 50:
		return 1.25
	case age < 60:
		return 1.60
	default:
		return 2.10
	}
}

func genderFactor(gender id.Gender) float64 {
	if gender == id.GenderFemale {
		return 0.95
	}
	return 1.00
}

func healthFactor(status id.HealthStatus) float64 {
	switch status {
	case id.HealthExcellent:
		return 0.85
	case id.HealthFair:
		return 1.25
	case id.HealthPoor:
		return 1.60
	default: // good, or unreported
		return 1.00
	}
}

func occupationFactor(risk id.OccupationRisk) float64 {
	switch risk {
	case id.OccupationRiskMedium:
		return 1.15
	case id.OccupationRiskHigh:
		return 1.40
	case id.OccupationRiskVeryHigh:
		return 1.75
	default: // low, or unreported
		return 1.00
	}
}

// frequencyAdjustment surcharges installment payment and discounts lump sum.
// Annual is the reference rate.
func frequencyAdjustment(freq plan.PaymentFrequency) float64 {
	switch freq {
	case plan.FrequencyMonthly:
		return 1.04
	case plan.FrequencyQuarterly:
		return 1.03
	case plan.FrequencySemiAnnual:
		return 1.02
	case plan.FrequencyLumpSum:
		return 0.95
	default: // annual
		return 1.00
	}
}
