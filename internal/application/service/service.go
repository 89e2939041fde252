// Package service orchestrates the application workflow: step saves on the
// draft aggregate, the submission gate, and the review transitions. Handlers
// stay thin; stores stay dumb; every rule lives here or in the validators it
// calls.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"covera/internal/application"
	"covera/internal/document"
	"covera/internal/plan"
	"covera/internal/platform/metrics"
	"covera/internal/ratelimit"
	"covera/internal/rating"
	"covera/internal/underwriting"
	id "covera/pkg/domain"
	dErrors "covera/pkg/domain-errors"
	"covera/pkg/platform/audit"
	"covera/pkg/platform/sentinel"
	"covera/pkg/requestcontext"
)

var tracer = otel.Tracer("covera/internal/application/service")

// Review decisions accepted by Decide.
const (
	ReviewApprove = "approve"
	ReviewReject  = "reject"
)

type Service struct {
	apps      application.Store
	plans     plan.Store
	docs      document.Store
	decisions underwriting.Store
	scorer    *underwriting.Scorer

	limiter        ratelimit.Limiter
	auditPublisher audit.Publisher
	metrics        *metrics.Metrics
	logger         *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(publisher audit.Publisher) Option {
	return func(s *Service) { s.auditPublisher = publisher }
}

func WithSubmitLimiter(limiter ratelimit.Limiter) Option {
	return func(s *Service) { s.limiter = limiter }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func New(apps application.Store, plans plan.Store, docs document.Store,
	decisions underwriting.Store, scorer *underwriting.Scorer, opts ...Option) (*Service, error) {
	if apps == nil {
		return nil, errors.New("application store is required")
	}
	if plans == nil {
		return nil, errors.New("plan store is required")
	}
	if docs == nil {
		return nil, errors.New("document store is required")
	}
	if decisions == nil {
		return nil, errors.New("decision store is required")
	}
	if scorer == nil {
		return nil, errors.New("scorer is required")
	}

	svc := &Service{
		apps:      apps,
		plans:     plans,
		docs:      docs,
		decisions: decisions,
		scorer:    scorer,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc, nil
}

// CreateDraft opens a new empty application owned by the caller.
func (s *Service) CreateDraft(ctx context.Context, userID id.UserID) (*application.Application, error) {
	now := requestcontext.Now(ctx)
	app := &application.Application{
		ID:        id.NewApplicationID(),
		UserID:    userID,
		Status:    application.StatusDraft,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.apps.Create(ctx, app); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create application")
	}

	if s.metrics != nil {
		s.metrics.ApplicationsCreated.Inc()
	}
	s.emit(ctx, audit.Event{Action: audit.ActionApplicationCreated, UserID: userID, ApplicationID: app.ID})
	s.logger.InfoContext(ctx, "application draft created",
		"application_id", app.ID.String(), "user_id", userID.String())
	return app, nil
}

// Get loads one application owned by the caller.
func (s *Service) Get(ctx context.Context, userID id.UserID, appID id.ApplicationID) (*application.Application, error) {
	return s.loadOwned(ctx, userID, appID)
}

// ListByUser returns every application owned by the caller.
func (s *Service) ListByUser(ctx context.Context, userID id.UserID) ([]*application.Application, error) {
	apps, err := s.apps.ListByUser(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list applications")
	}
	return apps, nil
}

// UpdatePersonalInfo replaces the personal-data step as a whole.
func (s *Service) UpdatePersonalInfo(ctx context.Context, userID id.UserID, appID id.ApplicationID,
	version int64, info application.PersonalInfo) (*application.Application, error) {
	app, err := s.loadEditable(ctx, userID, appID)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	if violations := application.ValidatePersonalInfo(info, now); len(violations) > 0 {
		return nil, dErrors.NewWithViolations(dErrors.CodeValidation, "personal info is invalid", violations)
	}

	app.PersonalInfo = &info
	return s.save(ctx, app, version, now)
}

// UpdateHealthDeclaration normalizes and replaces the health step.
func (s *Service) UpdateHealthDeclaration(ctx context.Context, userID id.UserID, appID id.ApplicationID,
	version int64, input application.HealthDeclarationInput) (*application.Application, error) {
	app, err := s.loadEditable(ctx, userID, appID)
	if err != nil {
		return nil, err
	}

	app.HealthDeclaration = application.NormalizeHealthDeclaration(input)
	return s.save(ctx, app, version, requestcontext.Now(ctx))
}

// ProductSelection is the product step payload.
type ProductSelection struct {
	ProductID        id.ProductID
	PlanID           id.PlanID
	PaymentFrequency plan.PaymentFrequency
	PaymentMethod    string
}

// UpdateProduct replaces the product step. Coverage amount and term are
// snapshotted from the plan, never taken from the client. Changing the plan
// or the payment frequency clears any previously quoted premium.
func (s *Service) UpdateProduct(ctx context.Context, userID id.UserID, appID id.ApplicationID,
	version int64, sel ProductSelection) (*application.Application, error) {
	app, err := s.loadEditable(ctx, userID, appID)
	if err != nil {
		return nil, err
	}

	selected, err := s.loadPlan(ctx, sel.PlanID)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	age := -1
	if app.PersonalInfo != nil && !app.PersonalInfo.DateOfBirth.IsZero() {
		age = application.Age(app.PersonalInfo.DateOfBirth, now)
	}
	if violations := application.ValidateProductSelection(selected, sel.ProductID, sel.PaymentFrequency, age); len(violations) > 0 {
		return nil, dErrors.NewWithViolations(dErrors.CodeValidation, "product selection is invalid", violations)
	}

	if app.PlanID != sel.PlanID || app.PaymentFrequency != sel.PaymentFrequency {
		app.PremiumAmount = 0
		app.TotalPremiumAmount = 0
	}
	app.ProductID = selected.ProductID
	app.PlanID = selected.ID
	app.CoverageAmount = selected.CoverageAmount
	app.TermYears = selected.TermYears
	app.PaymentFrequency = sel.PaymentFrequency
	app.PaymentMethod = sel.PaymentMethod
	return s.save(ctx, app, version, now)
}

// SaveBeneficiaries replaces the beneficiary set as a whole. Minor status is
// derived here from each date of birth; client-sent values are ignored.
func (s *Service) SaveBeneficiaries(ctx context.Context, userID id.UserID, appID id.ApplicationID,
	version int64, beneficiaries []application.Beneficiary) (*application.Application, error) {
	app, err := s.loadEditable(ctx, userID, appID)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	application.DeriveMinorStatus(beneficiaries, now)
	if violations := application.ValidateBeneficiaries(beneficiaries, now); len(violations) > 0 {
		return nil, dErrors.NewWithViolations(dErrors.CodeValidation, "beneficiaries are invalid", violations)
	}

	for i := range beneficiaries {
		if beneficiaries[i].ID.IsNil() {
			beneficiaries[i].ID = id.NewBeneficiaryID()
		}
		beneficiaries[i].ApplicationID = app.ID
	}
	app.Beneficiaries = beneficiaries
	return s.save(ctx, app, version, now)
}

// RegisterDocument records metadata for an uploaded file. Bytes live in
// external object storage; only the category matters to submission.
func (s *Service) RegisterDocument(ctx context.Context, userID id.UserID, appID id.ApplicationID,
	category document.Category, filename, objectKey string, sizeBytes int64) (*document.Document, error) {
	app, err := s.loadEditable(ctx, userID, appID)
	if err != nil {
		return nil, err
	}
	if !category.IsValid() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "unknown document category: "+string(category))
	}

	doc := &document.Document{
		ID:            id.NewDocumentID(),
		ApplicationID: app.ID,
		Category:      category,
		Filename:      filename,
		ObjectKey:     objectKey,
		SizeBytes:     sizeBytes,
		UploadedAt:    requestcontext.Now(ctx),
	}
	if err := s.docs.Add(ctx, doc); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register document")
	}
	return doc, nil
}

// ListDocuments returns the registered document metadata for an application.
func (s *Service) ListDocuments(ctx context.Context, userID id.UserID, appID id.ApplicationID) ([]*document.Document, error) {
	if _, err := s.loadOwned(ctx, userID, appID); err != nil {
		return nil, err
	}
	docs, err := s.docs.ListByApplication(ctx, appID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list documents")
	}
	return docs, nil
}

// Requirements is the live document-requirement view for the client.
type Requirements struct {
	Required []document.Category `json:"required"`
	Attached []document.Category `json:"attached"`
	Missing  []document.Category `json:"missing"`
}

// Requirements derives the current document requirements from whatever steps
// exist so far. The derivation is recomputed on every call; it is never
// cached, so requirement changes track input changes immediately.
func (s *Service) Requirements(ctx context.Context, userID id.UserID, appID id.ApplicationID) (*Requirements, error) {
	app, err := s.loadOwned(ctx, userID, appID)
	if err != nil {
		return nil, err
	}
	docs, err := s.docs.ListByApplication(ctx, appID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list documents")
	}

	required := s.deriveRequirements(app, requestcontext.Now(ctx))
	attachedSet := document.Categories(docs)

	out := &Requirements{Required: required}
	for _, doc := range docs {
		if !containsCategory(out.Attached, doc.Category) {
			out.Attached = append(out.Attached, doc.Category)
		}
	}
	for _, category := range required {
		if !attachedSet[category] {
			out.Missing = append(out.Missing, category)
		}
	}
	return out, nil
}

// SubmissionInput carries the acceptance flags collected on the final step.
type SubmissionInput struct {
	Version             int64
	TermsAccepted       bool
	DeclarationAccepted bool
}

// Submit runs the full submission gate: rate limit, step presence, per-step
// re-validation, cross-step invariants, premium snapshot, risk assessment,
// and finally the Draft→Submitted transition. Validation failures are
// collected across every rule and returned together; nothing is persisted
// unless every check passes.
func (s *Service) Submit(ctx context.Context, userID id.UserID, appID id.ApplicationID,
	in SubmissionInput) (*application.Application, *underwriting.Decision, error) {
	ctx, span := tracer.Start(ctx, "application.Submit")
	defer span.End()
	span.SetAttributes(attribute.String("application.id", appID.String()))

	app, err := s.loadOwned(ctx, userID, appID)
	if err != nil {
		return nil, nil, err
	}
	if app.Status != application.StatusDraft {
		return nil, nil, dErrors.New(dErrors.CodeConflict,
			fmt.Sprintf("application is %s and cannot be submitted again", app.Status))
	}

	if err := s.checkSubmitLimit(ctx, userID); err != nil {
		return nil, nil, err
	}

	now := requestcontext.Now(ctx)
	violations := s.collectSubmissionViolations(app, in, now)

	var selected *plan.Plan
	if !app.PlanID.IsNil() {
		selected, err = s.loadPlan(ctx, app.PlanID)
		if err != nil {
			return nil, nil, err
		}
	}

	docs, err := s.docs.ListByApplication(ctx, appID)
	if err != nil {
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list documents")
	}
	required := s.deriveRequirements(app, now)
	violations = append(violations,
		application.CheckSubmissionInvariants(app, selected, required, document.Categories(docs), now)...)

	if len(violations) > 0 {
		if s.metrics != nil {
			s.metrics.SubmissionsRejected.Inc()
		}
		s.logger.InfoContext(ctx, "submission rejected",
			"application_id", appID.String(), "violations", len(violations))
		return nil, nil, dErrors.NewWithViolations(dErrors.CodeInvariant,
			"application is not ready for submission", violations)
	}

	quote, err := rating.CalculatePremium(selected, rating.Input{
		Age:              application.Age(app.PersonalInfo.DateOfBirth, now),
		Gender:           app.PersonalInfo.Gender,
		HealthStatus:     app.PersonalInfo.HealthStatus,
		OccupationRisk:   app.PersonalInfo.OccupationRisk,
		PaymentFrequency: app.PaymentFrequency,
	})
	if err != nil {
		return nil, nil, err
	}
	if s.metrics != nil {
		s.metrics.PremiumsQuoted.Inc()
	}

	assessment := s.scorer.Assess(underwriting.ScorerInput{
		Health:              app.HealthDeclaration,
		OccupationRisk:      app.PersonalInfo.OccupationRisk,
		CoverageAmount:      app.CoverageAmount,
		ApplicantAge:        application.Age(app.PersonalInfo.DateOfBirth, now),
		RequiresMedicalExam: selected.RequiresMedicalExam,
		QuotedPremium:       quote.Premium,
	})

	app.PremiumAmount = quote.Premium
	app.TotalPremiumAmount = quote.TotalPremium
	app.TermsAccepted = true
	app.DeclarationAccepted = true
	app.Status = application.StatusSubmitted
	app.SubmittedAt = &now
	if _, err := s.save(ctx, app, in.Version, now); err != nil {
		return nil, nil, err
	}

	decision := &underwriting.Decision{
		ID:                   id.NewDecisionID(),
		ApplicationID:        app.ID,
		RiskLevel:            assessment.RiskLevel,
		RiskScore:            assessment.RiskScore,
		AutoApprovalEligible: assessment.AutoApprovalEligible,
		RequiresMedicalExam:  assessment.RequiresMedicalExam,
		RequiredDocuments:    required,
		QuotedPremium:        quote.Premium,
		AdjustedPremium:      assessment.AdjustedPremium,
		CreatedAt:            now,
	}
	if err := s.decisions.Add(ctx, decision); err != nil {
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record underwriting decision")
	}

	if s.metrics != nil {
		s.metrics.ApplicationsSubmitted.Inc()
		s.metrics.DecisionsByRiskLevel.WithLabelValues(string(assessment.RiskLevel)).Inc()
	}
	s.emit(ctx, audit.Event{Action: audit.ActionApplicationSubmitted, UserID: userID, ApplicationID: app.ID})
	s.emit(ctx, audit.Event{
		Action:        audit.ActionDecisionProduced,
		UserID:        userID,
		ApplicationID: app.ID,
		Decision:      string(assessment.RiskLevel),
	})
	s.logger.InfoContext(ctx, "application submitted",
		"application_id", app.ID.String(),
		"risk_level", string(assessment.RiskLevel),
		"premium", quote.Premium)
	return app, decision, nil
}

// StartReview moves a submitted application into review.
func (s *Service) StartReview(ctx context.Context, reviewerID id.UserID, appID id.ApplicationID,
	version int64) (*application.Application, error) {
	app, err := s.load(ctx, appID)
	if err != nil {
		return nil, err
	}
	if app.Status != application.StatusSubmitted {
		return nil, dErrors.New(dErrors.CodeConflict,
			fmt.Sprintf("application is %s, review requires submitted", app.Status))
	}

	app.Status = application.StatusUnderReview
	app.ReviewedBy = reviewerID.String()
	saved, err := s.save(ctx, app, version, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	s.emit(ctx, audit.Event{Action: audit.ActionReviewStarted, UserID: reviewerID, ApplicationID: app.ID})
	return saved, nil
}

// ReviewInput carries the reviewer's verdict.
type ReviewInput struct {
	Version  int64
	Decision string
	Reason   string
	Notes    string
}

// Decide resolves a review with approve or reject. Rejection requires a
// reason; both outcomes are terminal.
func (s *Service) Decide(ctx context.Context, reviewerID id.UserID, appID id.ApplicationID,
	in ReviewInput) (*application.Application, error) {
	app, err := s.load(ctx, appID)
	if err != nil {
		return nil, err
	}
	if app.Status != application.StatusUnderReview {
		return nil, dErrors.New(dErrors.CodeConflict,
			fmt.Sprintf("application is %s, a decision requires under_review", app.Status))
	}

	var action audit.Action
	switch in.Decision {
	case ReviewApprove:
		app.Status = application.StatusApproved
		action = audit.ActionApplicationApproved
	case ReviewReject:
		if strings.TrimSpace(in.Reason) == "" {
			return nil, dErrors.NewWithViolations(dErrors.CodeValidation, "review decision is invalid",
				[]dErrors.Violation{{Field: "reason", Message: "Rejection reason required"}})
		}
		app.Status = application.StatusRejected
		action = audit.ActionApplicationRejected
	default:
		return nil, dErrors.New(dErrors.CodeBadRequest,
			fmt.Sprintf("decision must be %q or %q", ReviewApprove, ReviewReject))
	}

	now := requestcontext.Now(ctx)
	app.ReviewedAt = &now
	app.ReviewedBy = reviewerID.String()
	app.ReviewDecision = in.Decision
	app.ReviewNotes = in.Notes
	saved, err := s.save(ctx, app, in.Version, now)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, audit.Event{
		Action:        action,
		UserID:        reviewerID,
		ApplicationID: app.ID,
		Decision:      in.Decision,
		Reason:        in.Reason,
	})
	s.logger.InfoContext(ctx, "review decision recorded",
		"application_id", app.ID.String(), "decision", in.Decision)
	return saved, nil
}

// ListDecisions returns the underwriting decision history for an
// application owned by the caller.
func (s *Service) ListDecisions(ctx context.Context, userID id.UserID, appID id.ApplicationID) ([]*underwriting.Decision, error) {
	if _, err := s.loadOwned(ctx, userID, appID); err != nil {
		return nil, err
	}
	decisions, err := s.decisions.ListByApplication(ctx, appID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list decisions")
	}
	return decisions, nil
}

func (s *Service) load(ctx context.Context, appID id.ApplicationID) (*application.Application, error) {
	app, err := s.apps.Get(ctx, appID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "application not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load application")
	}
	return app, nil
}

func (s *Service) loadOwned(ctx context.Context, userID id.UserID, appID id.ApplicationID) (*application.Application, error) {
	app, err := s.load(ctx, appID)
	if err != nil {
		return nil, err
	}
	if app.UserID != userID {
		return nil, dErrors.New(dErrors.CodeForbidden, "application belongs to a different user")
	}
	return app, nil
}

func (s *Service) loadEditable(ctx context.Context, userID id.UserID, appID id.ApplicationID) (*application.Application, error) {
	app, err := s.loadOwned(ctx, userID, appID)
	if err != nil {
		return nil, err
	}
	if !app.Status.Editable() {
		return nil, dErrors.New(dErrors.CodeConflict,
			fmt.Sprintf("application is %s and can no longer be edited", app.Status))
	}
	return app, nil
}

func (s *Service) loadPlan(ctx context.Context, planID id.PlanID) (*plan.Plan, error) {
	selected, err := s.plans.GetPlan(ctx, planID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "plan not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load plan")
	}
	return selected, nil
}

// save writes the aggregate with the version the client read. A stale
// version surfaces as a conflict so concurrent edits are detected, never
// silently merged.
func (s *Service) save(ctx context.Context, app *application.Application, version int64, now time.Time) (*application.Application, error) {
	app.Version = version
	app.UpdatedAt = now
	err := s.apps.Update(ctx, app)
	if errors.Is(err, sentinel.ErrConflict) {
		return nil, dErrors.New(dErrors.CodeConflict,
			"application was modified concurrently, reload and retry")
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "application not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save application")
	}
	return app, nil
}

func (s *Service) checkSubmitLimit(ctx context.Context, userID id.UserID) error {
	if s.limiter == nil {
		return nil
	}
	res, err := s.limiter.Allow(ctx, userID.String())
	if err != nil {
		// Fail open: rate limiting protects capacity, it must not take the
		// submission path down with it.
		s.logger.WarnContext(ctx, "submit rate limiter unavailable", "error", err)
		return nil
	}
	if !res.Allowed {
		return dErrors.New(dErrors.CodeRateLimited,
			fmt.Sprintf("too many submission attempts, retry after %s", res.ResetAt.UTC().Format(time.RFC3339)))
	}
	return nil
}

// collectSubmissionViolations gathers acceptance and step-presence failures
// plus a re-run of the per-step validators over the stored aggregate. Step
// saves already validated this data once, but steps save in any order and
// validity can decay (an applicant ages past a plan bound), so submission
// trusts nothing.
func (s *Service) collectSubmissionViolations(app *application.Application, in SubmissionInput, now time.Time) []dErrors.Violation {
	var violations []dErrors.Violation
	add := func(field, message string) {
		violations = append(violations, dErrors.Violation{Field: field, Message: message})
	}

	if !in.TermsAccepted {
		add("termsAccepted", "Terms and Conditions must be accepted")
	}
	if !in.DeclarationAccepted {
		add("declarationAccepted", "Declaration must be accepted")
	}

	if app.PersonalInfo == nil {
		add("personalInfo", "Personal information step is incomplete")
	} else {
		violations = append(violations, application.ValidatePersonalInfo(*app.PersonalInfo, now)...)
	}
	if app.HealthDeclaration == nil {
		add("healthDeclaration", "Health declaration step is incomplete")
	}
	if app.PlanID.IsNil() {
		add("planId", "Product selection step is incomplete")
	}
	violations = append(violations, application.ValidateBeneficiaries(app.Beneficiaries, now)...)

	return violations
}

func (s *Service) deriveRequirements(app *application.Application, now time.Time) []document.Category {
	age := 0
	maritalStatus := id.MaritalStatus("")
	if app.PersonalInfo != nil {
		maritalStatus = app.PersonalInfo.MaritalStatus
		if !app.PersonalInfo.DateOfBirth.IsZero() {
			age = application.Age(app.PersonalInfo.DateOfBirth, now)
		}
	}
	return underwriting.RequiredDocuments(app.HealthDeclaration, app.CoverageAmount,
		app.Beneficiaries, age, maritalStatus)
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditPublisher == nil {
		return
	}
	event.Timestamp = requestcontext.Now(ctx)
	event.RequestID = requestcontext.RequestID(ctx)
	event.ClientIP = requestcontext.ClientIP(ctx)
	event.UserAgent = requestcontext.UserAgent(ctx)
	if err := s.auditPublisher.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed", "action", string(event.Action), "error", err)
	}
}

func containsCategory(categories []document.Category, target document.Category) bool {
	for _, c := range categories {
		if c == target {
			return true
		}
	}
	return false
}
