package application

import (
	"fmt"
	"math"
	"strings"
	"time"

	"covera/internal/document"
	"covera/internal/plan"
	dErrors "covera/pkg/domain-errors"
)

// allocationTolerance absorbs float drift when primary percentages are
// summed; 99.99 and 100.01 are still rejected.
const allocationTolerance = 0.01

// CheckSubmissionInvariants evaluates the cross-step rules that gate the
// Draft→Submitted transition. It runs every rule and returns all failures in
// rule order — submission feedback must let the applicant fix everything in
// one pass. Required documents are derived live by the caller at submission
// time, never replayed from an earlier snapshot.
func CheckSubmissionInvariants(
	app *Application,
	selected *plan.Plan,
	requiredDocs []document.Category,
	attached map[document.Category]bool,
	now time.Time,
) []dErrors.Violation {
	var violations []dErrors.Violation
	add := func(field, message string) {
		violations = append(violations, dErrors.Violation{Field: field, Message: message})
	}

	// 1. At least one primary beneficiary.
	hasPrimary := false
	for _, b := range app.Beneficiaries {
		if b.Type == BeneficiaryPrimary {
			hasPrimary = true
			break
		}
	}
	if !hasPrimary {
		add("beneficiaries", "At least one Primary beneficiary is required")
	}

	// 2. Primary allocation sums to 100% within tolerance. Only checked when
	// a primary exists; rule 1 already covers the empty case.
	if hasPrimary {
		total := app.PrimaryAllocation()
		if math.Abs(total-100) > allocationTolerance {
			add("beneficiaries", fmt.Sprintf("Total allocation must equal 100%% (currently %.2f%%)", total))
		}
	}

	// 3. Every minor beneficiary carries both trustee fields.
	for i, b := range app.Beneficiaries {
		if !b.IsMinor {
			continue
		}
		prefix := fmt.Sprintf("beneficiaries[%d].", i)
		if strings.TrimSpace(b.TrusteeName) == "" {
			add(prefix+"trusteeName", "Trustee Name required")
		}
		if !b.TrusteeRelationship.IsValid() {
			add(prefix+"trusteeRelationship", "Trustee Relationship required")
		}
	}

	// 4. Plan age bounds hold for the applicant's current age.
	if selected != nil && app.PersonalInfo != nil && !app.PersonalInfo.DateOfBirth.IsZero() {
		age := Age(app.PersonalInfo.DateOfBirth, now)
		switch {
		case age < selected.MinAge:
			add("planId", fmt.Sprintf("Applicant age %d is below the plan minimum age %d", age, selected.MinAge))
		case age > selected.MaxAge:
			add("planId", fmt.Sprintf("Applicant age %d exceeds the plan maximum age %d", age, selected.MaxAge))
		}
	}

	// 5. Every required document category has an attached document.
	for _, category := range requiredDocs {
		if !attached[category] {
			add("documents", fmt.Sprintf("Required document missing: %s", category))
		}
	}

	return violations
}
