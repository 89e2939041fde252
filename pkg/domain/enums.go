package domain

// Applicant vocabulary shared by the application aggregate, the rating
// engine, and the underwriting scorer. Parsing helpers reject unknown values
// at the trust boundary so the core never branches on free-form strings.

// Gender is the applicant's or beneficiary's declared gender.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// HealthStatus is the applicant's self-reported overall health.
type HealthStatus string

const (
	HealthExcellent HealthStatus = "excellent"
	HealthGood      HealthStatus = "good"
	HealthFair      HealthStatus = "fair"
	HealthPoor      HealthStatus = "poor"
)

func (h HealthStatus) IsValid() bool {
	switch h {
	case HealthExcellent, HealthGood, HealthFair, HealthPoor:
		return true
	}
	return false
}

// OccupationRisk is the occupation hazard tier used by rating and
// underwriting.
type OccupationRisk string

const (
	OccupationRiskLow      OccupationRisk = "low"
	OccupationRiskMedium   OccupationRisk = "medium"
	OccupationRiskHigh     OccupationRisk = "high"
	OccupationRiskVeryHigh OccupationRisk = "very_high"
)

func (o OccupationRisk) IsValid() bool {
	switch o {
	case OccupationRiskLow, OccupationRiskMedium, OccupationRiskHigh, OccupationRiskVeryHigh:
		return true
	}
	return false
}

// MaritalStatus feeds the document requirement derivation (divorce decree).
type MaritalStatus string

const (
	MaritalSingle   MaritalStatus = "single"
	MaritalMarried  MaritalStatus = "married"
	MaritalDivorced MaritalStatus = "divorced"
	MaritalWidowed  MaritalStatus = "widowed"
)

func (m MaritalStatus) IsValid() bool {
	switch m {
	case MaritalSingle, MaritalMarried, MaritalDivorced, MaritalWidowed:
		return true
	}
	return false
}
