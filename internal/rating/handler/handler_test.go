package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"covera/internal/plan"
	"covera/internal/platform/logger"
	"covera/internal/platform/middleware"
)

const signingKey = "test-signing-key"

var seededPlanID = "b2e8d1ef-0001-4d72-8b21-3b5f7f2f5b01"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	plans := plan.NewInMemoryStore()
	plan.Seed(plans)

	router := chi.NewRouter()
	New(plans, logger.New(), nil, middleware.NewHMACValidator(signingKey)).Register(router)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func bearerToken(t *testing.T) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": uuid.NewString()})
	signed, err := token.SignedString([]byte(signingKey))
	require.NoError(t, err)
	return signed
}

func calculate(t *testing.T, srv *httptest.Server, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/plans/calculate", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		decoded = nil
	}
	return resp, decoded
}

func TestCalculateRequiresAuth(t *testing.T) {
	srv := newTestServer(t)

	resp, body := calculate(t, srv, "", map[string]any{"planId": seededPlanID})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "unauthorized", body["error"])
}

func TestCalculateBaselineQuote(t *testing.T) {
	srv := newTestServer(t)
	token := bearerToken(t)

	resp, body := calculate(t, srv, token, map[string]any{
		"planId":           seededPlanID,
		"age":              35,
		"gender":           "male",
		"healthStatus":     "good",
		"occupationRisk":   "low",
		"paymentFrequency": "annual",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, 1200.0, body["premium"])
	assert.Equal(t, 24000.0, body["total_premium"])
	assert.Equal(t, 1.0, body["age_factor"])
	assert.Equal(t, 1.0, body["frequency_adjustment"])
}

func TestCalculateAppliesFactors(t *testing.T) {
	srv := newTestServer(t)
	token := bearerToken(t)

	// 1200 derived to monthly (1200/12 * 1.04 surcharge) with the female
	// discount: 100 * 0.95 * 1.04 = 98.80.
	resp, body := calculate(t, srv, token, map[string]any{
		"planId":           seededPlanID,
		"age":              35,
		"gender":           "female",
		"healthStatus":     "good",
		"occupationRisk":   "low",
		"paymentFrequency": "monthly",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 98.8, body["premium"])
	assert.Equal(t, 0.95, body["gender_factor"])
	assert.Equal(t, 1.04, body["frequency_adjustment"])
}

func TestCalculateAgeOutOfBounds(t *testing.T) {
	srv := newTestServer(t)
	token := bearerToken(t)

	resp, body := calculate(t, srv, token, map[string]any{
		"planId":           seededPlanID,
		"age":              70,
		"gender":           "male",
		"healthStatus":     "good",
		"occupationRisk":   "low",
		"paymentFrequency": "annual",
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "not_eligible", body["error"])
}

func TestCalculateUnknownPlan(t *testing.T) {
	srv := newTestServer(t)
	token := bearerToken(t)

	resp, body := calculate(t, srv, token, map[string]any{
		"planId":           uuid.NewString(),
		"age":              35,
		"gender":           "male",
		"healthStatus":     "good",
		"occupationRisk":   "low",
		"paymentFrequency": "annual",
	})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not_found", body["error"])
}

func TestCalculateMalformedPlanID(t *testing.T) {
	srv := newTestServer(t)
	token := bearerToken(t)

	resp, _ := calculate(t, srv, token, map[string]any{
		"planId": "not-a-uuid",
		"age":    35,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
