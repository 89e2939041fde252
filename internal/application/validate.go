package application

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/asaskevich/govalidator"

	"covera/internal/plan"
	id "covera/pkg/domain"
	dErrors "covera/pkg/domain-errors"
)

// Per-step field validators. Each is a total function over its step's data
// and returns every violation it finds, in field order, never just the
// first. A step save is rejected whole when its validator returns anything.

const minPhoneDigits = 10

func digitCount(phone string) int {
	count := 0
	for _, r := range phone {
		if unicode.IsDigit(r) {
			count++
		}
	}
	return count
}

// ValidatePersonalInfo checks the personal-data step.
func ValidatePersonalInfo(p PersonalInfo, now time.Time) []dErrors.Violation {
	var violations []dErrors.Violation
	add := func(field, message string) {
		violations = append(violations, dErrors.Violation{Field: field, Message: message})
	}

	if strings.TrimSpace(p.FirstName) == "" {
		add("firstName", "First Name required")
	}
	if strings.TrimSpace(p.LastName) == "" {
		add("lastName", "Last Name required")
	}
	if digitCount(p.Phone) < minPhoneDigits {
		add("phone", fmt.Sprintf("Phone must contain at least %d digits", minPhoneDigits))
	}
	if p.Email != "" && !govalidator.IsEmail(p.Email) {
		add("email", "Email is not valid")
	}

	switch {
	case p.DateOfBirth.IsZero():
		add("dateOfBirth", "Date of Birth required")
	case p.DateOfBirth.After(now):
		add("dateOfBirth", "Date of Birth must not be in the future")
	}

	if !p.Gender.IsValid() {
		add("gender", "Gender required")
	}
	if !p.MaritalStatus.IsValid() {
		add("maritalStatus", "Marital Status required")
	}
	if !p.HealthStatus.IsValid() {
		add("healthStatus", "Health Status required")
	}
	if !p.OccupationRisk.IsValid() {
		add("occupationRisk", "Occupation Risk required")
	}

	if strings.TrimSpace(p.EmergencyContactName) == "" {
		add("emergencyContactName", "Emergency Contact Name required")
	}
	if digitCount(p.EmergencyContactPhone) < minPhoneDigits {
		add("emergencyContactPhone", fmt.Sprintf("Emergency Contact Phone must contain at least %d digits", minPhoneDigits))
	}
	if !p.EmergencyContactRelationship.IsValid() {
		add("emergencyContactRelationship", "Emergency Contact Relationship required")
	} else if p.EmergencyContactRelationship == RelationshipOther &&
		strings.TrimSpace(p.EmergencyContactRelationOther) == "" {
		add("emergencyContactRelationshipOther", "Relationship description required when relationship is Other")
	}

	return violations
}

// ValidateBeneficiaries checks the beneficiary step. Beneficiaries arrive
// with IsMinor already derived from DateOfBirth (see DeriveMinorStatus);
// trustee fields are required for minors.
func ValidateBeneficiaries(beneficiaries []Beneficiary, now time.Time) []dErrors.Violation {
	var violations []dErrors.Violation

	for i, b := range beneficiaries {
		prefix := fmt.Sprintf("beneficiaries[%d].", i)
		add := func(field, message string) {
			violations = append(violations, dErrors.Violation{Field: prefix + field, Message: message})
		}

		if !b.Type.IsValid() {
			add("type", "Beneficiary Type required")
		}
		if strings.TrimSpace(b.FirstName) == "" {
			add("firstName", "First Name required")
		}
		if strings.TrimSpace(b.LastName) == "" {
			add("lastName", "Last Name required")
		}

		if !b.Relationship.IsValid() {
			add("relationship", "Relationship required")
		} else if b.Relationship == RelationshipOther && strings.TrimSpace(b.RelationshipOther) == "" {
			add("relationshipOther", "Relationship description required when relationship is Other")
		}

		switch {
		case b.DateOfBirth.IsZero():
			add("dateOfBirth", "Date of Birth required")
		case b.DateOfBirth.After(now):
			add("dateOfBirth", "Date of Birth must not be in the future")
		}

		if !b.Gender.IsValid() {
			add("gender", "Gender required")
		}
		if b.Percentage < 0 || b.Percentage > 100 {
			add("percentage", "Percentage must be between 0 and 100")
		}
		if b.Email != "" && !govalidator.IsEmail(b.Email) {
			add("email", "Email is not valid")
		}
		if b.Phone != "" && digitCount(b.Phone) < minPhoneDigits {
			add("phone", fmt.Sprintf("Phone must contain at least %d digits", minPhoneDigits))
		}

		if b.IsMinor {
			if strings.TrimSpace(b.TrusteeName) == "" {
				add("trusteeName", "Trustee Name required")
			}
			if !b.TrusteeRelationship.IsValid() {
				add("trusteeRelationship", "Trustee Relationship required")
			} else if b.TrusteeRelationship == RelationshipOther &&
				strings.TrimSpace(b.TrusteeRelationOther) == "" {
				add("trusteeRelationshipOther", "Trustee relationship description required when relationship is Other")
			}
		}
	}

	return violations
}

// DeriveMinorStatus stamps IsMinor from DateOfBirth on every beneficiary.
// Client-supplied values are ignored.
func DeriveMinorStatus(beneficiaries []Beneficiary, now time.Time) {
	for i := range beneficiaries {
		if !beneficiaries[i].DateOfBirth.IsZero() {
			beneficiaries[i].IsMinor = IsMinorAt(beneficiaries[i].DateOfBirth, now)
		}
	}
}

// ValidateProductSelection checks the product step: the plan must belong to
// the application's product, the frequency must be known, and the applicant
// age must satisfy the plan bounds. The violation names the bound that
// failed so the client can surface a precise eligibility message.
//
// Steps save in any order, so the personal-info step may not exist yet when
// the product is chosen. Pass applicantAge < 0 to skip the age bounds here;
// the submission invariant checker re-runs them against the final aggregate.
func ValidateProductSelection(p *plan.Plan, productID id.ProductID, frequency plan.PaymentFrequency, applicantAge int) []dErrors.Violation {
	var violations []dErrors.Violation
	add := func(field, message string) {
		violations = append(violations, dErrors.Violation{Field: field, Message: message})
	}

	if !productID.IsNil() && p.ProductID != productID {
		add("planId", "Selected plan does not belong to the chosen product")
	}
	if !frequency.IsValid() {
		add("paymentFrequency", "Payment Frequency required")
	}

	if applicantAge >= 0 {
		switch {
		case applicantAge < p.MinAge:
			add("planId", fmt.Sprintf("Applicant age %d is below the plan minimum age %d", applicantAge, p.MinAge))
		case applicantAge > p.MaxAge:
			add("planId", fmt.Sprintf("Applicant age %d exceeds the plan maximum age %d", applicantAge, p.MaxAge))
		}
	}

	return violations
}
