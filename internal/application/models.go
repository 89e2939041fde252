// Package application holds the insurance application aggregate: the root
// record of one purchase attempt, its owned beneficiary set and health
// declaration, the per-step field validators, and the cross-step invariant
// checker evaluated at submission.
package application

import (
	"time"

	id "covera/pkg/domain"
	"covera/internal/plan"
)

// Status is the application lifecycle state.
type Status string

const (
	StatusDraft       Status = "draft"
	StatusSubmitted   Status = "submitted"
	StatusUnderReview Status = "under_review"
	StatusApproved    Status = "approved"
	StatusRejected    Status = "rejected"
)

// Editable reports whether applicant-facing steps may still be rewritten.
// Once an application leaves Draft, only an external administrative reopen
// (out of scope here) can unfreeze it.
func (s Status) Editable() bool { return s == StatusDraft }

// Terminal reports whether no further transitions exist.
func (s Status) Terminal() bool { return s == StatusApproved || s == StatusRejected }

// Relationship enumerates how a contact or beneficiary relates to the
// applicant. RelationshipOther requires the paired free-text field.
type Relationship string

const (
	RelationshipSpouse  Relationship = "spouse"
	RelationshipChild   Relationship = "child"
	RelationshipParent  Relationship = "parent"
	RelationshipSibling Relationship = "sibling"
	RelationshipTrust   Relationship = "trust"
	RelationshipOther   Relationship = "other"
)

func (r Relationship) IsValid() bool {
	switch r {
	case RelationshipSpouse, RelationshipChild, RelationshipParent,
		RelationshipSibling, RelationshipTrust, RelationshipOther:
		return true
	}
	return false
}

// BeneficiaryType orders payout entitlement.
type BeneficiaryType string

const (
	BeneficiaryPrimary    BeneficiaryType = "primary"
	BeneficiaryContingent BeneficiaryType = "contingent"
)

func (t BeneficiaryType) IsValid() bool {
	return t == BeneficiaryPrimary || t == BeneficiaryContingent
}

// PersonalInfo is the personal-data step. Saved as a whole; a later save
// fully replaces an earlier one.
type PersonalInfo struct {
	FirstName     string
	LastName      string
	Phone         string
	Email         string
	DateOfBirth   time.Time
	Gender        id.Gender
	MaritalStatus id.MaritalStatus

	EmergencyContactName          string
	EmergencyContactPhone         string
	EmergencyContactRelationship  Relationship
	EmergencyContactRelationOther string

	OccupationRisk id.OccupationRisk
	HealthStatus   id.HealthStatus
}

// Beneficiary is owned exclusively by one application and replaced as a set
// on every beneficiary step save.
type Beneficiary struct {
	ID            id.BeneficiaryID
	ApplicationID id.ApplicationID

	Type              BeneficiaryType
	FirstName         string
	LastName          string
	Relationship      Relationship
	RelationshipOther string
	DateOfBirth       time.Time
	Gender            id.Gender
	Percentage        float64
	Email             string
	Phone             string

	// IsMinor is derived from DateOfBirth at save time, never user-settable.
	IsMinor bool

	// Trustee fields are required iff IsMinor.
	TrusteeName          string
	TrusteeRelationship  Relationship
	TrusteeRelationOther string
}

// HealthDetail is one tagged disclosure entry (medication, surgery, family
// history item) replacing the legacy free-text JSON blobs.
type HealthDetail struct {
	Category    string `json:"category"`
	Description string `json:"description"`
}

// HealthDeclaration is a flat set of boolean disclosure flags plus tagged
// detail lists. Flags are normalized once at the trust boundary
// (NormalizeHealthDeclaration); past that point they are plain bools.
type HealthDeclaration struct {
	HasMedicalCondition   bool
	TakesMedication       bool
	HasHospitalization    bool
	HasHeartDisease       bool
	HasCancer             bool
	HasDiabetes           bool
	IsSmoker              bool
	ConsumesAlcohol       bool
	HasFamilyHistory      bool
	IsPregnant            bool
	HasOccupationalHazard bool
	HasHazardousHobby     bool

	Conditions    []HealthDetail
	Medications   []HealthDetail
	Surgeries     []HealthDetail
	FamilyHistory []HealthDetail
}

// AnyDisclosure reports whether any health flag that triggers document or
// risk consequences is set.
func (h *HealthDeclaration) AnyDisclosure() bool {
	return h.HasMedicalCondition || h.TakesMedication || h.HasHospitalization ||
		h.HasHeartDisease || h.HasCancer || h.HasDiabetes || h.IsSmoker
}

// Application is the root aggregate.
type Application struct {
	ID     id.ApplicationID
	UserID id.UserID
	Status Status

	// Version is the optimistic-concurrency token: every successful write
	// bumps it, and writes carry the version they read.
	Version int64

	ProductID        id.ProductID
	PlanID           id.PlanID
	CoverageAmount   float64
	TermYears        int
	PaymentFrequency plan.PaymentFrequency
	PaymentMethod    string

	// PremiumAmount is 0 until a quote is snapshotted at submission, and is
	// reset to 0 whenever the plan or payment frequency changes.
	PremiumAmount      float64
	TotalPremiumAmount float64

	PersonalInfo      *PersonalInfo
	HealthDeclaration *HealthDeclaration
	Beneficiaries     []Beneficiary

	TermsAccepted       bool
	DeclarationAccepted bool

	// KYCCompleted is an optional extension flag carried for flows that run
	// an external KYC check before submission.
	KYCCompleted bool

	CreatedAt   time.Time
	UpdatedAt   time.Time
	SubmittedAt *time.Time
	ReviewedAt  *time.Time

	ReviewNotes    string
	ReviewedBy     string
	ReviewDecision string
}

// PrimaryAllocation sums the payout percentage across primary beneficiaries.
func (a *Application) PrimaryAllocation() float64 {
	var total float64
	for _, b := range a.Beneficiaries {
		if b.Type == BeneficiaryPrimary {
			total += b.Percentage
		}
	}
	return total
}

// Progress reports which steps have been completed, for the resumable UI.
type Progress struct {
	PersonalInfo      bool `json:"personal_info"`
	HealthDeclaration bool `json:"health_declaration"`
	Product           bool `json:"product"`
	Beneficiaries     bool `json:"beneficiaries"`
	Acceptance        bool `json:"acceptance"`
}

// StepProgress derives completion flags from the aggregate.
func (a *Application) StepProgress() Progress {
	return Progress{
		PersonalInfo:      a.PersonalInfo != nil,
		HealthDeclaration: a.HealthDeclaration != nil,
		Product:           !a.PlanID.IsNil(),
		Beneficiaries:     len(a.Beneficiaries) > 0,
		Acceptance:        a.TermsAccepted && a.DeclarationAccepted,
	}
}

// Age computes whole years between dob and now, decrementing when the
// birthday has not yet been reached this year.
func Age(dob, now time.Time) int {
	years := now.Year() - dob.Year()
	if now.Month() < dob.Month() ||
		(now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	return years
}

// IsMinorAt reports whether a person born at dob is under 18 at eval time.
func IsMinorAt(dob, now time.Time) bool {
	return Age(dob, now) < 18
}
