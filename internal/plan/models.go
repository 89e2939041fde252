// Package plan holds the insurance product catalogue: read-only reference
// data the rest of the core keys premium rates and eligibility bounds off.
package plan

import (
	id "covera/pkg/domain"
)

// PaymentFrequency enumerates how often premium is paid.
type PaymentFrequency string

const (
	FrequencyMonthly    PaymentFrequency = "monthly"
	FrequencyQuarterly  PaymentFrequency = "quarterly"
	FrequencySemiAnnual PaymentFrequency = "semi_annual"
	FrequencyAnnual     PaymentFrequency = "annual"
	FrequencyLumpSum    PaymentFrequency = "lump_sum"
)

func (f PaymentFrequency) IsValid() bool {
	switch f {
	case FrequencyMonthly, FrequencyQuarterly, FrequencySemiAnnual, FrequencyAnnual, FrequencyLumpSum:
		return true
	}
	return false
}

// PaymentsPerTerm returns how many premium payments the full term requires.
func (f PaymentFrequency) PaymentsPerTerm(termYears int) int {
	switch f {
	case FrequencyMonthly:
		return 12 * termYears
	case FrequencyQuarterly:
		return 4 * termYears
	case FrequencySemiAnnual:
		return 2 * termYears
	case FrequencyAnnual:
		return termYears
	case FrequencyLumpSum:
		return 1
	default:
		return 0
	}
}

// Product groups plans under one marketable offering.
type Product struct {
	ID          id.ProductID
	Name        string
	Description string
	Active      bool
}

// Plan is a fixed, priced packaging of coverage under a product. The core
// treats plans as an immutable lookup table keyed by ID.
type Plan struct {
	ID                   id.PlanID
	ProductID            id.ProductID
	Name                 string
	MinAge               int
	MaxAge               int
	CoverageAmount       float64
	TermYears            int
	// BasePremiums holds explicitly priced per-frequency rates. Missing
	// frequencies are derived; see BasePremium.
	BasePremiums         map[PaymentFrequency]float64
	RequiresMedicalExam  bool
	AccidentalDeathRider float64
	CriticalIllnessRider float64
}

// BasePremium returns the base rate for the requested frequency, deriving it
// when no explicit rate is stored:
//
//	monthly     = annual / 12
//	quarterly   = monthly * 3
//	semi-annual = monthly * 6
//	annual      = monthly * 12
//	lump sum    = annual * termYears
//
// Returns false when neither an explicit nor a derivable rate exists.
func (p *Plan) BasePremium(freq PaymentFrequency) (float64, bool) {
	if rate, ok := p.BasePremiums[freq]; ok {
		return rate, true
	}

	annual, hasAnnual := p.BasePremiums[FrequencyAnnual]
	monthly, hasMonthly := p.BasePremiums[FrequencyMonthly]
	if !hasAnnual && hasMonthly {
		annual, hasAnnual = monthly*12, true
	}
	if !hasMonthly && hasAnnual {
		monthly, hasMonthly = annual/12, true
	}
	if !hasAnnual && !hasMonthly {
		return 0, false
	}

	switch freq {
	case FrequencyMonthly:
		return monthly, true
	case FrequencyQuarterly:
		return monthly * 3, true
	case FrequencySemiAnnual:
		return monthly * 6, true
	case FrequencyAnnual:
		return annual, true
	case FrequencyLumpSum:
		return annual * float64(p.TermYears), true
	default:
		return 0, false
	}
}

// AgeEligible reports whether the applicant age satisfies the plan bounds.
func (p *Plan) AgeEligible(age int) bool {
	return age >= p.MinAge && age <= p.MaxAge
}
