// Package domain defines shared identifier types used across feature packages.
//
// Every aggregate gets its own UUID-backed ID type so the compiler rejects
// cross-entity mixups (passing a PlanID where an ApplicationID is expected
// fails to compile). Parsing happens once at trust boundaries; services and
// stores only ever see already-validated IDs.
package domain

import (
	"github.com/google/uuid"

	dErrors "covera/pkg/domain-errors"
)

type (
	// ApplicationID identifies one insurance application aggregate.
	ApplicationID uuid.UUID
	// UserID identifies the applicant that owns an application.
	UserID uuid.UUID
	// ProductID identifies an insurance product.
	ProductID uuid.UUID
	// PlanID identifies a priced plan under a product.
	PlanID uuid.UUID
	// BeneficiaryID identifies a beneficiary row owned by an application.
	BeneficiaryID uuid.UUID
	// DocumentID identifies uploaded-document metadata.
	DocumentID uuid.UUID
	// DecisionID identifies one underwriting decision record.
	DecisionID uuid.UUID
)

// NewApplicationID returns a fresh random ApplicationID.
func NewApplicationID() ApplicationID { return ApplicationID(uuid.New()) }

// NewBeneficiaryID returns a fresh random BeneficiaryID.
func NewBeneficiaryID() BeneficiaryID { return BeneficiaryID(uuid.New()) }

// NewDocumentID returns a fresh random DocumentID.
func NewDocumentID() DocumentID { return DocumentID(uuid.New()) }

// NewDecisionID returns a fresh random DecisionID.
func NewDecisionID() DecisionID { return DecisionID(uuid.New()) }

func (id ApplicationID) String() string { return uuid.UUID(id).String() }
func (id UserID) String() string        { return uuid.UUID(id).String() }
func (id ProductID) String() string     { return uuid.UUID(id).String() }
func (id PlanID) String() string        { return uuid.UUID(id).String() }
func (id BeneficiaryID) String() string { return uuid.UUID(id).String() }
func (id DocumentID) String() string    { return uuid.UUID(id).String() }
func (id DecisionID) String() string    { return uuid.UUID(id).String() }

func (id ApplicationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id UserID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }
func (id ProductID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id PlanID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }
func (id BeneficiaryID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id DocumentID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id DecisionID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

// parseUUID enforces the shared parsing invariant: IDs must be valid,
// non-empty, non-nil UUIDs. All exported Parse* helpers funnel through it.
func parseUUID(raw, kind string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeBadRequest, kind+" must not be empty")
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeBadRequest, kind+" is not a valid UUID")
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeBadRequest, kind+" must not be the nil UUID")
	}
	return parsed, nil
}

// ParseApplicationID parses and validates an application ID from its string form.
func ParseApplicationID(raw string) (ApplicationID, error) {
	u, err := parseUUID(raw, "application_id")
	return ApplicationID(u), err
}

// ParseUserID parses and validates a user ID from its string form.
func ParseUserID(raw string) (UserID, error) {
	u, err := parseUUID(raw, "user_id")
	return UserID(u), err
}

// ParseProductID parses and validates a product ID from its string form.
func ParseProductID(raw string) (ProductID, error) {
	u, err := parseUUID(raw, "product_id")
	return ProductID(u), err
}

// ParsePlanID parses and validates a plan ID from its string form.
func ParsePlanID(raw string) (PlanID, error) {
	u, err := parseUUID(raw, "plan_id")
	return PlanID(u), err
}

// ParseBeneficiaryID parses and validates a beneficiary ID from its string form.
func ParseBeneficiaryID(raw string) (BeneficiaryID, error) {
	u, err := parseUUID(raw, "beneficiary_id")
	return BeneficiaryID(u), err
}

// ParseDocumentID parses and validates a document ID from its string form.
func ParseDocumentID(raw string) (DocumentID, error) {
	u, err := parseUUID(raw, "document_id")
	return DocumentID(u), err
}

// ParseDecisionID parses and validates a decision ID from its string form.
func ParseDecisionID(raw string) (DecisionID, error) {
	u, err := parseUUID(raw, "decision_id")
	return DecisionID(u), err
}
