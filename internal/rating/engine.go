// Package rating computes premium quotes. The calculation is a pure
// function of plan reference data and applicant attributes: identical inputs
// always produce the identical premium, so a "Recalculate" action is a
// confidence check, never a source of drift.
package rating

import (
	"fmt"
	"math"

	"covera/internal/plan"
	id "covera/pkg/domain"
	dErrors "covera/pkg/domain-errors"
)

// Quote is the premium plus its factor breakdown, as shown to the applicant.
type Quote struct {
	// Premium is the per-payment amount for the requested frequency.
	Premium float64 `json:"premium"`
	// TotalPremium is Premium across every payment of the full term.
	TotalPremium float64 `json:"total_premium"`

	BasePremium         float64 `json:"base_premium"`
	AgeFactor           float64 `json:"age_factor"`
	GenderFactor        float64 `json:"gender_factor"`
	HealthFactor        float64 `json:"health_factor"`
	OccupationFactor    float64 `json:"occupation_factor"`
	FrequencyAdjustment float64 `json:"frequency_adjustment"`
}

// Input carries the applicant attributes the engine rates on.
type Input struct {
	Age              int
	Gender           id.Gender
	HealthStatus     id.HealthStatus
	OccupationRisk   id.OccupationRisk
	PaymentFrequency plan.PaymentFrequency
}

// CalculatePremium rates the given plan for the applicant profile.
//
// The base rate for the requested frequency (stored or derived, see
// plan.BasePremium) is multiplied by independent factors for age bracket,
// gender, self-reported health, and occupation tier, then by a frequency
// adjustment: installment plans carry a surcharge scaling down from monthly
// to annual, annual is the reference rate, and lump sum earns a discount.
// The result is rounded to 2 decimal places.
//
// An age strictly outside the plan bounds refuses to quote with an
// eligibility error naming the violated bound; the engine never
// extrapolates a factor.
func CalculatePremium(p *plan.Plan, in Input) (*Quote, error) {
	if in.Age < p.MinAge {
		return nil, dErrors.New(dErrors.CodeEligibility,
			fmt.Sprintf("applicant age %d is below the plan minimum age %d", in.Age, p.MinAge))
	}
	if in.Age > p.MaxAge {
		return nil, dErrors.New(dErrors.CodeEligibility,
			fmt.Sprintf("applicant age %d exceeds the plan maximum age %d", in.Age, p.MaxAge))
	}
	if !in.PaymentFrequency.IsValid() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "unknown payment frequency")
	}

	base, ok := p.BasePremium(in.PaymentFrequency)
	if !ok {
		return nil, dErrors.New(dErrors.CodeInternal,
			fmt.Sprintf("plan %s has no base rate for frequency %s", p.ID, in.PaymentFrequency))
	}

	quote := &Quote{
		BasePremium:         round2(base),
		AgeFactor:           ageFactor(in.Age),
		GenderFactor:        genderFactor(in.Gender),
		HealthFactor:        healthFactor(in.HealthStatus),
		OccupationFactor:    occupationFactor(in.OccupationRisk),
		FrequencyAdjustment: frequencyAdjustment(in.PaymentFrequency),
	}

	premium := base *
		quote.AgeFactor *
		quote.GenderFactor *
		quote.HealthFactor *
		quote.OccupationFactor *
		quote.FrequencyAdjustment

	quote.Premium = round2(premium)
	quote.TotalPremium = round2(quote.Premium * float64(in.PaymentFrequency.PaymentsPerTerm(p.TermYears)))
	return quote, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
