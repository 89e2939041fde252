// Package handler serves the read-only plan catalogue.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"covera/internal/plan"
	"covera/internal/platform/metrics"
	"covera/internal/platform/middleware"
	id "covera/pkg/domain"
	dErrors "covera/pkg/domain-errors"
	"covera/pkg/platform/httputil"
)

type Handler struct {
	plans        plan.Store
	logger       *slog.Logger
	metrics      *metrics.Metrics
	jwtValidator middleware.JWTValidator
}

func New(plans plan.Store, logger *slog.Logger, m *metrics.Metrics, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{plans: plans, logger: logger, metrics: m, jwtValidator: jwtValidator}
}

// Register mounts the catalogue routes.
func (h *Handler) Register(r chi.Router) {
	router := chi.NewRouter()
	router.Use(middleware.Recovery(h.logger))
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(h.logger))
	router.Use(middleware.Timeout(10 * time.Second))
	router.Use(middleware.Latency(h.metrics))
	router.Use(middleware.RequireAuth(h.jwtValidator, h.logger))

	router.Get("/", h.handleListProducts)
	router.Get("/{id}/plans", h.handleListPlans)

	r.Mount("/products", router)
}

type productResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Active      bool   `json:"active"`
}

type planResponse struct {
	ID                   string             `json:"id"`
	ProductID            string             `json:"productId"`
	Name                 string             `json:"name"`
	MinAge               int                `json:"minAge"`
	MaxAge               int                `json:"maxAge"`
	CoverageAmount       float64            `json:"coverageAmount"`
	TermYears            int                `json:"termYears"`
	BasePremiums         map[string]float64 `json:"basePremiums"`
	RequiresMedicalExam  bool               `json:"requiresMedicalExam"`
	AccidentalDeathRider float64            `json:"accidentalDeathRider,omitempty"`
	CriticalIllnessRider float64            `json:"criticalIllnessRider,omitempty"`
}

func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	products, err := h.plans.ListProducts(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list products", "error", err.Error())
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list products"))
		return
	}

	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, productResponse{
			ID:          p.ID.String(),
			Name:        p.Name,
			Description: p.Description,
			Active:      p.Active,
		})
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleListPlans(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	productID, err := id.ParseProductID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	plans, err := h.plans.ListPlansByProduct(ctx, productID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list plans", "error", err.Error())
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list plans"))
		return
	}

	out := make([]planResponse, 0, len(plans))
	for _, p := range plans {
		rates := make(map[string]float64, len(p.BasePremiums))
		for freq, rate := range p.BasePremiums {
			rates[string(freq)] = rate
		}
		out = append(out, planResponse{
			ID:                   p.ID.String(),
			ProductID:            p.ProductID.String(),
			Name:                 p.Name,
			MinAge:               p.MinAge,
			MaxAge:               p.MaxAge,
			CoverageAmount:       p.CoverageAmount,
			TermYears:            p.TermYears,
			BasePremiums:         rates,
			RequiresMedicalExam:  p.RequiresMedicalExam,
			AccidentalDeathRider: p.AccidentalDeathRider,
			CriticalIllnessRider: p.CriticalIllnessRider,
		})
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}
