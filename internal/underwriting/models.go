// Package underwriting derives the document requirements for an application
// and scores submission risk into an append-only UnderwritingDecision for
// the human reviewer workflow. Nothing here mutates the application.
package underwriting

import (
	"time"

	"covera/internal/document"
	id "covera/pkg/domain"
)

// RiskLevel orders submissions for reviewer triage.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskVeryHigh RiskLevel = "very_high"
)

// Decision is the immutable assessment produced once per submission. A
// resubmission after rejection creates a new decision; old ones are never
// edited.
type Decision struct {
	ID            id.DecisionID
	ApplicationID id.ApplicationID

	RiskLevel            RiskLevel
	RiskScore            int
	AutoApprovalEligible bool
	RequiresMedicalExam  bool

	RequiredDocuments []document.Category

	// QuotedPremium is the rating engine's snapshot; AdjustedPremium applies
	// the risk loading the reviewer would charge at this level.
	QuotedPremium   float64
	AdjustedPremium float64

	CreatedAt time.Time
}
