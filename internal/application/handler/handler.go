// Package handler exposes the application workflow over HTTP. Routes parse
// and map; every rule lives in the service.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"covera/internal/application"
	appservice "covera/internal/application/service"
	"covera/internal/document"
	"covera/internal/plan"
	"covera/internal/platform/metrics"
	"covera/internal/platform/middleware"
	"covera/internal/underwriting"
	id "covera/pkg/domain"
	dErrors "covera/pkg/domain-errors"
	"covera/pkg/platform/httputil"
	"covera/pkg/requestcontext"
)

const dateLayout = "2006-01-02"

// Service is the application workflow surface the handler depends on.
type Service interface {
	CreateDraft(ctx context.Context, userID id.UserID) (*application.Application, error)
	Get(ctx context.Context, userID id.UserID, appID id.ApplicationID) (*application.Application, error)
	ListByUser(ctx context.Context, userID id.UserID) ([]*application.Application, error)
	UpdatePersonalInfo(ctx context.Context, userID id.UserID, appID id.ApplicationID, version int64, info application.PersonalInfo) (*application.Application, error)
	UpdateHealthDeclaration(ctx context.Context, userID id.UserID, appID id.ApplicationID, version int64, input application.HealthDeclarationInput) (*application.Application, error)
	UpdateProduct(ctx context.Context, userID id.UserID, appID id.ApplicationID, version int64, sel appservice.ProductSelection) (*application.Application, error)
	SaveBeneficiaries(ctx context.Context, userID id.UserID, appID id.ApplicationID, version int64, beneficiaries []application.Beneficiary) (*application.Application, error)
	RegisterDocument(ctx context.Context, userID id.UserID, appID id.ApplicationID, category document.Category, filename, objectKey string, sizeBytes int64) (*document.Document, error)
	ListDocuments(ctx context.Context, userID id.UserID, appID id.ApplicationID) ([]*document.Document, error)
	Requirements(ctx context.Context, userID id.UserID, appID id.ApplicationID) (*appservice.Requirements, error)
	Submit(ctx context.Context, userID id.UserID, appID id.ApplicationID, in appservice.SubmissionInput) (*application.Application, *underwriting.Decision, error)
	StartReview(ctx context.Context, reviewerID id.UserID, appID id.ApplicationID, version int64) (*application.Application, error)
	Decide(ctx context.Context, reviewerID id.UserID, appID id.ApplicationID, in appservice.ReviewInput) (*application.Application, error)
	ListDecisions(ctx context.Context, userID id.UserID, appID id.ApplicationID) ([]*underwriting.Decision, error)
}

type Handler struct {
	service      Service
	logger       *slog.Logger
	metrics      *metrics.Metrics
	jwtValidator middleware.JWTValidator
}

func New(service Service, logger *slog.Logger, m *metrics.Metrics, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{service: service, logger: logger, metrics: m, jwtValidator: jwtValidator}
}

// Register mounts the application routes.
func (h *Handler) Register(r chi.Router) {
	router := chi.NewRouter()
	router.Use(middleware.Recovery(h.logger))
	router.Use(middleware.RequestID)
	router.Use(middleware.ClientMetadata)
	router.Use(middleware.Logger(h.logger))
	router.Use(middleware.Timeout(30 * time.Second))
	router.Use(middleware.ContentTypeJSON)
	router.Use(middleware.Latency(h.metrics))
	router.Use(middleware.RequireAuth(h.jwtValidator, h.logger))

	router.Post("/create-draft", h.handleCreateDraft)
	router.Get("/", h.handleList)
	router.Get("/{id}", h.handleGet)
	router.Put("/{id}/personal-info", h.handlePersonalInfo)
	router.Put("/{id}/health-declaration", h.handleHealthDeclaration)
	router.Put("/{id}/product", h.handleProduct)
	router.Post("/{id}/beneficiaries", h.handleBeneficiaries)
	router.Post("/{id}/documents", h.handleRegisterDocument)
	router.Get("/{id}/documents", h.handleListDocuments)
	router.Get("/{id}/requirements", h.handleRequirements)
	router.Post("/{id}/submit", h.handleSubmit)
	router.Post("/{id}/review", h.handleStartReview)
	router.Post("/{id}/decision", h.handleDecide)
	router.Get("/{id}/decisions", h.handleListDecisions)

	r.Mount("/applications", router)
}

func (h *Handler) handleCreateDraft(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	app, err := h.service.CreateDraft(ctx, requestcontext.UserID(ctx))
	if err != nil {
		h.writeError(ctx, w, err, "failed to create draft")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toApplicationResponse(app))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	apps, err := h.service.ListByUser(ctx, requestcontext.UserID(ctx))
	if err != nil {
		h.writeError(ctx, w, err, "failed to list applications")
		return
	}
	out := make([]*applicationResponse, 0, len(apps))
	for _, app := range apps {
		out = append(out, toApplicationResponse(app))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	appID, ok := h.pathID(w, r)
	if !ok {
		return
	}
	app, err := h.service.Get(ctx, requestcontext.UserID(ctx), appID)
	if err != nil {
		h.writeError(ctx, w, err, "failed to load application")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toApplicationResponse(app))
}

type personalInfoRequest struct {
	Version                       int64  `json:"version"`
	FirstName                     string `json:"firstName"`
	LastName                      string `json:"lastName"`
	Phone                         string `json:"phone"`
	Email                         string `json:"email"`
	DateOfBirth                   string `json:"dateOfBirth"`
	Gender                        string `json:"gender"`
	MaritalStatus                 string `json:"maritalStatus"`
	HealthStatus                  string `json:"healthStatus"`
	OccupationRisk                string `json:"occupationRisk"`
	EmergencyContactName          string `json:"emergencyContactName"`
	EmergencyContactPhone         string `json:"emergencyContactPhone"`
	EmergencyContactRelationship  string `json:"emergencyContactRelationship"`
	EmergencyContactRelationOther string `json:"emergencyContactRelationshipOther"`
}

func (h *Handler) handlePersonalInfo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	appID, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req personalInfoRequest
	if !h.decode(ctx, w, r, &req) {
		return
	}

	dob, err := parseDate(req.DateOfBirth)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	info := application.PersonalInfo{
		FirstName:                     req.FirstName,
		LastName:                      req.LastName,
		Phone:                         req.Phone,
		Email:                         req.Email,
		DateOfBirth:                   dob,
		Gender:                        id.Gender(req.Gender),
		MaritalStatus:                 id.MaritalStatus(req.MaritalStatus),
		HealthStatus:                  id.HealthStatus(req.HealthStatus),
		OccupationRisk:                id.OccupationRisk(req.OccupationRisk),
		EmergencyContactName:          req.EmergencyContactName,
		EmergencyContactPhone:         req.EmergencyContactPhone,
		EmergencyContactRelationship:  application.Relationship(req.EmergencyContactRelationship),
		EmergencyContactRelationOther: req.EmergencyContactRelationOther,
	}

	app, err := h.service.UpdatePersonalInfo(ctx, requestcontext.UserID(ctx), appID, req.Version, info)
	if err != nil {
		h.writeError(ctx, w, err, "failed to save personal info")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toApplicationResponse(app))
}

type healthDeclarationRequest struct {
	Version int64 `json:"version"`
	application.HealthDeclarationInput
}

func (h *Handler) handleHealthDeclaration(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	appID, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req healthDeclarationRequest
	if !h.decode(ctx, w, r, &req) {
		return
	}

	app, err := h.service.UpdateHealthDeclaration(ctx, requestcontext.UserID(ctx), appID,
		req.Version, req.HealthDeclarationInput)
	if err != nil {
		h.writeError(ctx, w, err, "failed to save health declaration")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toApplicationResponse(app))
}

type productRequest struct {
	Version          int64  `json:"version"`
	ProductID        string `json:"productId"`
	PlanID           string `json:"planId"`
	PaymentFrequency string `json:"paymentFrequency"`
	PaymentMethod    string `json:"paymentMethod"`
}

func (h *Handler) handleProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	appID, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req productRequest
	if !h.decode(ctx, w, r, &req) {
		return
	}

	planID, err := id.ParsePlanID(req.PlanID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	sel := appservice.ProductSelection{
		PlanID:           planID,
		PaymentFrequency: plan.PaymentFrequency(req.PaymentFrequency),
		PaymentMethod:    req.PaymentMethod,
	}
	if req.ProductID != "" {
		productID, err := id.ParseProductID(req.ProductID)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		sel.ProductID = productID
	}

	app, err := h.service.UpdateProduct(ctx, requestcontext.UserID(ctx), appID, req.Version, sel)
	if err != nil {
		h.writeError(ctx, w, err, "failed to save product selection")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toApplicationResponse(app))
}

type beneficiaryRequest struct {
	ID                   string  `json:"id"`
	Type                 string  `json:"type"`
	FirstName            string  `json:"firstName"`
	LastName             string  `json:"lastName"`
	Relationship         string  `json:"relationship"`
	RelationshipOther    string  `json:"relationshipOther"`
	DateOfBirth          string  `json:"dateOfBirth"`
	Gender               string  `json:"gender"`
	Percentage           float64 `json:"percentage"`
	Email                string  `json:"email"`
	Phone                string  `json:"phone"`
	TrusteeName          string  `json:"trusteeName"`
	TrusteeRelationship  string  `json:"trusteeRelationship"`
	TrusteeRelationOther string  `json:"trusteeRelationshipOther"`
}

type beneficiariesRequest struct {
	Version       int64                `json:"version"`
	Beneficiaries []beneficiaryRequest `json:"beneficiaries"`
}

func (h *Handler) handleBeneficiaries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	appID, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req beneficiariesRequest
	if !h.decode(ctx, w, r, &req) {
		return
	}

	beneficiaries := make([]application.Beneficiary, 0, len(req.Beneficiaries))
	for _, b := range req.Beneficiaries {
		dob, err := parseDate(b.DateOfBirth)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		entry := application.Beneficiary{
			Type:                 application.BeneficiaryType(b.Type),
			FirstName:            b.FirstName,
			LastName:             b.LastName,
			Relationship:         application.Relationship(b.Relationship),
			RelationshipOther:    b.RelationshipOther,
			DateOfBirth:          dob,
			Gender:               id.Gender(b.Gender),
			Percentage:           b.Percentage,
			Email:                b.Email,
			Phone:                b.Phone,
			TrusteeName:          b.TrusteeName,
			TrusteeRelationship:  application.Relationship(b.TrusteeRelationship),
			TrusteeRelationOther: b.TrusteeRelationOther,
		}
		if b.ID != "" {
			beneficiaryID, err := id.ParseBeneficiaryID(b.ID)
			if err != nil {
				httputil.WriteError(w, err)
				return
			}
			entry.ID = beneficiaryID
		}
		beneficiaries = append(beneficiaries, entry)
	}

	app, err := h.service.SaveBeneficiaries(ctx, requestcontext.UserID(ctx), appID, req.Version, beneficiaries)
	if err != nil {
		h.writeError(ctx, w, err, "failed to save beneficiaries")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toApplicationResponse(app))
}

type registerDocumentRequest struct {
	Category  string `json:"category"`
	Filename  string `json:"filename"`
	ObjectKey string `json:"objectKey"`
	SizeBytes int64  `json:"sizeBytes"`
}

func (h *Handler) handleRegisterDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	appID, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req registerDocumentRequest
	if !h.decode(ctx, w, r, &req) {
		return
	}

	doc, err := h.service.RegisterDocument(ctx, requestcontext.UserID(ctx), appID,
		document.Category(req.Category), req.Filename, req.ObjectKey, req.SizeBytes)
	if err != nil {
		h.writeError(ctx, w, err, "failed to register document")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toDocumentResponse(doc))
}

func (h *Handler) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	appID, ok := h.pathID(w, r)
	if !ok {
		return
	}
	docs, err := h.service.ListDocuments(ctx, requestcontext.UserID(ctx), appID)
	if err != nil {
		h.writeError(ctx, w, err, "failed to list documents")
		return
	}
	out := make([]*documentResponse, 0, len(docs))
	for _, doc := range docs {
		out = append(out, toDocumentResponse(doc))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleRequirements(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	appID, ok := h.pathID(w, r)
	if !ok {
		return
	}
	requirements, err := h.service.Requirements(ctx, requestcontext.UserID(ctx), appID)
	if err != nil {
		h.writeError(ctx, w, err, "failed to derive requirements")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, requirements)
}

type submitRequest struct {
	Version             int64 `json:"version"`
	TermsAccepted       bool  `json:"termsAccepted"`
	DeclarationAccepted bool  `json:"declarationAccepted"`
}

type submitResponse struct {
	Application *applicationResponse `json:"application"`
	Decision    *decisionResponse    `json:"decision"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	appID, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req submitRequest
	if !h.decode(ctx, w, r, &req) {
		return
	}

	app, decision, err := h.service.Submit(ctx, requestcontext.UserID(ctx), appID, appservice.SubmissionInput{
		Version:             req.Version,
		TermsAccepted:       req.TermsAccepted,
		DeclarationAccepted: req.DeclarationAccepted,
	})
	if err != nil {
		h.writeError(ctx, w, err, "failed to submit application")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, submitResponse{
		Application: toApplicationResponse(app),
		Decision:    toDecisionResponse(decision),
	})
}

type reviewRequest struct {
	Version int64 `json:"version"`
}

func (h *Handler) handleStartReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	appID, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req reviewRequest
	if !h.decode(ctx, w, r, &req) {
		return
	}

	app, err := h.service.StartReview(ctx, requestcontext.UserID(ctx), appID, req.Version)
	if err != nil {
		h.writeError(ctx, w, err, "failed to start review")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toApplicationResponse(app))
}

type decideRequest struct {
	Version  int64  `json:"version"`
	Decision string `json:"decision"`
	Reason   string `json:"reason"`
	Notes    string `json:"notes"`
}

func (h *Handler) handleDecide(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	appID, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req decideRequest
	if !h.decode(ctx, w, r, &req) {
		return
	}

	app, err := h.service.Decide(ctx, requestcontext.UserID(ctx), appID, appservice.ReviewInput{
		Version:  req.Version,
		Decision: req.Decision,
		Reason:   req.Reason,
		Notes:    req.Notes,
	})
	if err != nil {
		h.writeError(ctx, w, err, "failed to record decision")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toApplicationResponse(app))
}

func (h *Handler) handleListDecisions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	appID, ok := h.pathID(w, r)
	if !ok {
		return
	}
	decisions, err := h.service.ListDecisions(ctx, requestcontext.UserID(ctx), appID)
	if err != nil {
		h.writeError(ctx, w, err, "failed to list decisions")
		return
	}
	out := make([]*decisionResponse, 0, len(decisions))
	for _, d := range decisions {
		out = append(out, toDecisionResponse(d))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (id.ApplicationID, bool) {
	appID, err := id.ParseApplicationID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.ApplicationID{}, false
	}
	return appID, true
}

func (h *Handler) decode(ctx context.Context, w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.logger.WarnContext(ctx, "invalid request body", "error", err.Error())
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return false
	}
	return true
}

// writeError logs unexpected failures and renders the shared envelope.
// Coded domain errors pass through untouched so clients see the violation
// list the service built.
func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, err error, msg string) {
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, msg, "error", err.Error())
	}
	httputil.WriteError(w, err)
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, dErrors.New(dErrors.CodeBadRequest, "dates must use the YYYY-MM-DD format")
	}
	return t, nil
}
