package underwriting

import (
	"covera/internal/application"
	"covera/internal/document"
	id "covera/pkg/domain"
)

// Thresholds above which extra documentation is required.
const (
	healthDocsAgeThreshold      = 50
	healthDocsCoverageThreshold = 500_000
	financialDocsThreshold      = 250_000
)

// RequiredDocuments derives the document categories an application must
// attach before submission. Every rule is additive: a matching rule adds its
// category and can never remove one another rule added, so disclosing more
// never shrinks the requirement set. The caller re-derives on every input
// change; nothing here is cached.
func RequiredDocuments(
	health *application.HealthDeclaration,
	coverageAmount float64,
	beneficiaries []application.Beneficiary,
	applicantAge int,
	maritalStatus id.MaritalStatus,
) []document.Category {
	required := []document.Category{document.CategoryIdentity}

	needsHealth := applicantAge > healthDocsAgeThreshold ||
		coverageAmount > healthDocsCoverageThreshold
	if health != nil {
		needsHealth = needsHealth || health.AnyDisclosure() || health.HasOccupationalHazard
	}
	if needsHealth {
		required = append(required, document.CategoryHealth)
	}

	if coverageAmount > financialDocsThreshold {
		required = append(required, document.CategoryFinancial)
	}

	var hasSpouse, hasChild, hasTrust bool
	for _, b := range beneficiaries {
		switch b.Relationship {
		case application.RelationshipSpouse:
			hasSpouse = true
		case application.RelationshipChild:
			hasChild = true
		case application.RelationshipTrust:
			hasTrust = true
		}
	}
	if hasSpouse {
		required = append(required, document.CategoryMarriageCertificate)
	}
	if hasChild {
		required = append(required, document.CategoryBirthCertificate)
	}
	if maritalStatus == id.MaritalDivorced {
		required = append(required, document.CategoryDivorceDecree)
	}
	if hasTrust {
		required = append(required, document.CategoryTrustDocuments)
	}

	return required
}
