package handler

import (
	"time"

	"covera/internal/application"
	"covera/internal/document"
	"covera/internal/underwriting"
)

// Response shapes. Typed IDs and enums flatten to strings here; domain
// structs never cross the wire directly.

type personalInfoResponse struct {
	FirstName                     string `json:"firstName"`
	LastName                      string `json:"lastName"`
	Phone                         string `json:"phone"`
	Email                         string `json:"email,omitempty"`
	DateOfBirth                   string `json:"dateOfBirth"`
	Gender                        string `json:"gender"`
	MaritalStatus                 string `json:"maritalStatus"`
	HealthStatus                  string `json:"healthStatus"`
	OccupationRisk                string `json:"occupationRisk"`
	EmergencyContactName          string `json:"emergencyContactName"`
	EmergencyContactPhone         string `json:"emergencyContactPhone"`
	EmergencyContactRelationship  string `json:"emergencyContactRelationship"`
	EmergencyContactRelationOther string `json:"emergencyContactRelationshipOther,omitempty"`
}

type healthDeclarationResponse struct {
	HasMedicalCondition   bool `json:"hasMedicalCondition"`
	TakesMedication       bool `json:"takesMedication"`
	HasHospitalization    bool `json:"hasHospitalization"`
	HasHeartDisease       bool `json:"hasHeartDisease"`
	HasCancer             bool `json:"hasCancer"`
	HasDiabetes           bool `json:"hasDiabetes"`
	IsSmoker              bool `json:"isSmoker"`
	ConsumesAlcohol       bool `json:"consumesAlcohol"`
	HasFamilyHistory      bool `json:"hasFamilyHistory"`
	IsPregnant            bool `json:"isPregnant"`
	HasOccupationalHazard bool `json:"hasOccupationalHazard"`
	HasHazardousHobby     bool `json:"hasHazardousHobby"`

	Conditions    []application.HealthDetail `json:"conditions,omitempty"`
	Medications   []application.HealthDetail `json:"medications,omitempty"`
	Surgeries     []application.HealthDetail `json:"surgeries,omitempty"`
	FamilyHistory []application.HealthDetail `json:"familyHistory,omitempty"`
}

type beneficiaryResponse struct {
	ID                   string  `json:"id"`
	Type                 string  `json:"type"`
	FirstName            string  `json:"firstName"`
	LastName             string  `json:"lastName"`
	Relationship         string  `json:"relationship"`
	RelationshipOther    string  `json:"relationshipOther,omitempty"`
	DateOfBirth          string  `json:"dateOfBirth"`
	Gender               string  `json:"gender"`
	Percentage           float64 `json:"percentage"`
	Email                string  `json:"email,omitempty"`
	Phone                string  `json:"phone,omitempty"`
	IsMinor              bool    `json:"isMinor"`
	TrusteeName          string  `json:"trusteeName,omitempty"`
	TrusteeRelationship  string  `json:"trusteeRelationship,omitempty"`
	TrusteeRelationOther string  `json:"trusteeRelationshipOther,omitempty"`
}

type applicationResponse struct {
	ID      string `json:"id"`
	UserID  string `json:"userId"`
	Status  string `json:"status"`
	Version int64  `json:"version"`

	ProductID        string  `json:"productId,omitempty"`
	PlanID           string  `json:"planId,omitempty"`
	CoverageAmount   float64 `json:"coverageAmount,omitempty"`
	TermYears        int     `json:"termYears,omitempty"`
	PaymentFrequency string  `json:"paymentFrequency,omitempty"`
	PaymentMethod    string  `json:"paymentMethod,omitempty"`

	PremiumAmount      float64 `json:"premiumAmount"`
	TotalPremiumAmount float64 `json:"totalPremiumAmount"`

	PersonalInfo      *personalInfoResponse      `json:"personalInfo,omitempty"`
	HealthDeclaration *healthDeclarationResponse `json:"healthDeclaration,omitempty"`
	Beneficiaries     []beneficiaryResponse      `json:"beneficiaries,omitempty"`

	TermsAccepted       bool `json:"termsAccepted"`
	DeclarationAccepted bool `json:"declarationAccepted"`

	Progress application.Progress `json:"progress"`

	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	SubmittedAt *time.Time `json:"submittedAt,omitempty"`
	ReviewedAt  *time.Time `json:"reviewedAt,omitempty"`

	ReviewedBy     string `json:"reviewedBy,omitempty"`
	ReviewDecision string `json:"reviewDecision,omitempty"`
	ReviewNotes    string `json:"reviewNotes,omitempty"`
}

func toApplicationResponse(app *application.Application) *applicationResponse {
	out := &applicationResponse{
		ID:                  app.ID.String(),
		UserID:              app.UserID.String(),
		Status:              string(app.Status),
		Version:             app.Version,
		CoverageAmount:      app.CoverageAmount,
		TermYears:           app.TermYears,
		PaymentFrequency:    string(app.PaymentFrequency),
		PaymentMethod:       app.PaymentMethod,
		PremiumAmount:       app.PremiumAmount,
		TotalPremiumAmount:  app.TotalPremiumAmount,
		TermsAccepted:       app.TermsAccepted,
		DeclarationAccepted: app.DeclarationAccepted,
		Progress:            app.StepProgress(),
		CreatedAt:           app.CreatedAt,
		UpdatedAt:           app.UpdatedAt,
		SubmittedAt:         app.SubmittedAt,
		ReviewedAt:          app.ReviewedAt,
		ReviewedBy:          app.ReviewedBy,
		ReviewDecision:      app.ReviewDecision,
		ReviewNotes:         app.ReviewNotes,
	}
	if !app.ProductID.IsNil() {
		out.ProductID = app.ProductID.String()
	}
	if !app.PlanID.IsNil() {
		out.PlanID = app.PlanID.String()
	}
	if app.PersonalInfo != nil {
		out.PersonalInfo = toPersonalInfoResponse(app.PersonalInfo)
	}
	if app.HealthDeclaration != nil {
		out.HealthDeclaration = toHealthDeclarationResponse(app.HealthDeclaration)
	}
	for _, b := range app.Beneficiaries {
		out.Beneficiaries = append(out.Beneficiaries, toBeneficiaryResponse(b))
	}
	return out
}

func toPersonalInfoResponse(p *application.PersonalInfo) *personalInfoResponse {
	return &personalInfoResponse{
		FirstName:                     p.FirstName,
		LastName:                      p.LastName,
		Phone:                         p.Phone,
		Email:                         p.Email,
		DateOfBirth:                   p.DateOfBirth.Format(dateLayout),
		Gender:                        string(p.Gender),
		MaritalStatus:                 string(p.MaritalStatus),
		HealthStatus:                  string(p.HealthStatus),
		OccupationRisk:                string(p.OccupationRisk),
		EmergencyContactName:          p.EmergencyContactName,
		EmergencyContactPhone:         p.EmergencyContactPhone,
		EmergencyContactRelationship:  string(p.EmergencyContactRelationship),
		EmergencyContactRelationOther: p.EmergencyContactRelationOther,
	}
}

func toHealthDeclarationResponse(h *application.HealthDeclaration) *healthDeclarationResponse {
	return &healthDeclarationResponse{
		HasMedicalCondition:   h.HasMedicalCondition,
		TakesMedication:       h.TakesMedication,
		HasHospitalization:    h.HasHospitalization,
		HasHeartDisease:       h.HasHeartDisease,
		HasCancer:             h.HasCancer,
		HasDiabetes:           h.HasDiabetes,
		IsSmoker:              h.IsSmoker,
		ConsumesAlcohol:       h.ConsumesAlcohol,
		HasFamilyHistory:      h.HasFamilyHistory,
		IsPregnant:            h.IsPregnant,
		HasOccupationalHazard: h.HasOccupationalHazard,
		HasHazardousHobby:     h.HasHazardousHobby,
		Conditions:            h.Conditions,
		Medications:           h.Medications,
		Surgeries:             h.Surgeries,
		FamilyHistory:         h.FamilyHistory,
	}
}

func toBeneficiaryResponse(b application.Beneficiary) beneficiaryResponse {
	return beneficiaryResponse{
		ID:                   b.ID.String(),
		Type:                 string(b.Type),
		FirstName:            b.FirstName,
		LastName:             b.LastName,
		Relationship:         string(b.Relationship),
		RelationshipOther:    b.RelationshipOther,
		DateOfBirth:          b.DateOfBirth.Format(dateLayout),
		Gender:               string(b.Gender),
		Percentage:           b.Percentage,
		Email:                b.Email,
		Phone:                b.Phone,
		IsMinor:              b.IsMinor,
		TrusteeName:          b.TrusteeName,
		TrusteeRelationship:  string(b.TrusteeRelationship),
		TrusteeRelationOther: b.TrusteeRelationOther,
	}
}

type documentResponse struct {
	ID            string    `json:"id"`
	ApplicationID string    `json:"applicationId"`
	Category      string    `json:"category"`
	Filename      string    `json:"filename"`
	ObjectKey     string    `json:"objectKey"`
	SizeBytes     int64     `json:"sizeBytes"`
	UploadedAt    time.Time `json:"uploadedAt"`
}

func toDocumentResponse(d *document.Document) *documentResponse {
	return &documentResponse{
		ID:            d.ID.String(),
		ApplicationID: d.ApplicationID.String(),
		Category:      string(d.Category),
		Filename:      d.Filename,
		ObjectKey:     d.ObjectKey,
		SizeBytes:     d.SizeBytes,
		UploadedAt:    d.UploadedAt,
	}
}

type decisionResponse struct {
	ID                   string    `json:"id"`
	ApplicationID        string    `json:"applicationId"`
	RiskLevel            string    `json:"riskLevel"`
	RiskScore            int       `json:"riskScore"`
	AutoApprovalEligible bool      `json:"autoApprovalEligible"`
	RequiresMedicalExam  bool      `json:"requiresMedicalExam"`
	RequiredDocuments    []string  `json:"requiredDocuments"`
	QuotedPremium        float64   `json:"quotedPremium"`
	AdjustedPremium      float64   `json:"adjustedPremium"`
	CreatedAt            time.Time `json:"createdAt"`
}

func toDecisionResponse(d *underwriting.Decision) *decisionResponse {
	docs := make([]string, 0, len(d.RequiredDocuments))
	for _, c := range d.RequiredDocuments {
		docs = append(docs, string(c))
	}
	return &decisionResponse{
		ID:                   d.ID.String(),
		ApplicationID:        d.ApplicationID.String(),
		RiskLevel:            string(d.RiskLevel),
		RiskScore:            d.RiskScore,
		AutoApprovalEligible: d.AutoApprovalEligible,
		RequiresMedicalExam:  d.RequiresMedicalExam,
		RequiredDocuments:    docs,
		QuotedPremium:        d.QuotedPremium,
		AdjustedPremium:      d.AdjustedPremium,
		CreatedAt:            d.CreatedAt,
	}
}
