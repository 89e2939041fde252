// Package handler exposes the quote calculator. Quoting reads nothing but
// the plan catalogue, so it lives apart from the application workflow.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"covera/internal/plan"
	"covera/internal/platform/metrics"
	"covera/internal/platform/middleware"
	"covera/internal/rating"
	id "covera/pkg/domain"
	dErrors "covera/pkg/domain-errors"
	"covera/pkg/platform/httputil"
	"covera/pkg/platform/sentinel"
)

var tracer = otel.Tracer("covera/internal/rating/handler")

type Handler struct {
	plans        plan.Store
	logger       *slog.Logger
	metrics      *metrics.Metrics
	jwtValidator middleware.JWTValidator
}

func New(plans plan.Store, logger *slog.Logger, m *metrics.Metrics, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{plans: plans, logger: logger, metrics: m, jwtValidator: jwtValidator}
}

// Register mounts the quote route.
func (h *Handler) Register(r chi.Router) {
	router := chi.NewRouter()
	router.Use(middleware.Recovery(h.logger))
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(h.logger))
	router.Use(middleware.Timeout(10 * time.Second))
	router.Use(middleware.ContentTypeJSON)
	router.Use(middleware.Latency(h.metrics))
	router.Use(middleware.RequireAuth(h.jwtValidator, h.logger))

	router.Post("/calculate", h.handleCalculate)

	r.Mount("/plans", router)
}

type calculateRequest struct {
	PlanID           string `json:"planId"`
	Age              int    `json:"age"`
	Gender           string `json:"gender"`
	HealthStatus     string `json:"healthStatus"`
	OccupationRisk   string `json:"occupationRisk"`
	PaymentFrequency string `json:"paymentFrequency"`
}

// handleCalculate quotes a plan for an arbitrary applicant profile. The
// calculation is deterministic, so clients may recalculate freely while the
// applicant tweaks frequency or plan without any state being written.
func (h *Handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "rating.Calculate")
	defer span.End()

	var req calculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	planID, err := id.ParsePlanID(req.PlanID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	span.SetAttributes(attribute.String("plan.id", req.PlanID))
	selected, err := h.loadPlan(ctx, planID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	quote, err := rating.CalculatePremium(selected, rating.Input{
		Age:              req.Age,
		Gender:           id.Gender(req.Gender),
		HealthStatus:     id.HealthStatus(req.HealthStatus),
		OccupationRisk:   id.OccupationRisk(req.OccupationRisk),
		PaymentFrequency: plan.PaymentFrequency(req.PaymentFrequency),
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.PremiumsQuoted.Inc()
	}
	httputil.WriteJSON(w, http.StatusOK, quote)
}

func (h *Handler) loadPlan(ctx context.Context, planID id.PlanID) (*plan.Plan, error) {
	selected, err := h.plans.GetPlan(ctx, planID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "plan not found")
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load plan", "error", err.Error())
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load plan")
	}
	return selected, nil
}
