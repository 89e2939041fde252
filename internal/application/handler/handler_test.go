package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"covera/internal/application"
	appservice "covera/internal/application/service"
	"covera/internal/document"
	"covera/internal/plan"
	"covera/internal/platform/logger"
	"covera/internal/platform/middleware"
	"covera/internal/underwriting"
	id "covera/pkg/domain"
)

const signingKey = "test-signing-key"

var testPlanID = "b2e8d1ef-0001-4d72-8b21-3b5f7f2f5b01"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	plans := plan.NewInMemoryStore()
	plan.Seed(plans)
	svc, err := appservice.New(
		application.NewInMemoryStore(),
		plans,
		document.NewInMemoryStore(),
		underwriting.NewInMemoryStore(),
		underwriting.NewScorer(300_000),
	)
	require.NoError(t, err)

	router := chi.NewRouter()
	New(svc, logger.New(), nil, middleware.NewHMACValidator(signingKey)).Register(router)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func bearerToken(t *testing.T, userID id.UserID) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": userID.String()})
	signed, err := token.SignedString([]byte(signingKey))
	require.NoError(t, err)
	return signed
}

func doJSON(t *testing.T, srv *httptest.Server, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
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

func createDraft(t *testing.T, srv *httptest.Server, token string) (string, float64) {
	t.Helper()
	resp, body := doJSON(t, srv, http.MethodPost, "/applications/create-draft", token, map[string]any{})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return body["id"].(string), body["version"].(float64)
}

func TestCreateDraftRequiresAuth(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, srv, http.MethodPost, "/applications/create-draft", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "unauthorized", body["error"])
}

func TestCreateDraftReturnsApplication(t *testing.T) {
	srv := newTestServer(t)
	userID := id.UserID(uuid.New())

	resp, body := doJSON(t, srv, http.MethodPost, "/applications/create-draft",
		bearerToken(t, userID), map[string]any{})

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "draft", body["status"])
	assert.Equal(t, userID.String(), body["userId"])
	assert.Equal(t, float64(1), body["version"])
	assert.NotEmpty(t, body["id"])
}

func TestPersonalInfoRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	token := bearerToken(t, id.UserID(uuid.New()))
	appID, version := createDraft(t, srv, token)

	resp, body := doJSON(t, srv, http.MethodPut, "/applications/"+appID+"/personal-info", token, map[string]any{
		"version":                      version,
		"firstName":                    "Maria",
		"lastName":                     "Santos",
		"phone":                        "0917 123 4567",
		"dateOfBirth":                  "1996-01-10",
		"gender":                       "female",
		"maritalStatus":                "single",
		"healthStatus":                 "good",
		"occupationRisk":               "low",
		"emergencyContactName":         "Jose Santos",
		"emergencyContactPhone":        "0917 765 4321",
		"emergencyContactRelationship": "parent",
	})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	info := body["personalInfo"].(map[string]any)
	assert.Equal(t, "Maria", info["firstName"])
	assert.Equal(t, "1996-01-10", info["dateOfBirth"])
	progress := body["progress"].(map[string]any)
	assert.Equal(t, true, progress["personal_info"])
}

func TestPersonalInfoValidationEnvelope(t *testing.T) {
	srv := newTestServer(t)
	token := bearerToken(t, id.UserID(uuid.New()))
	appID, version := createDraft(t, srv, token)

	resp, body := doJSON(t, srv, http.MethodPut, "/applications/"+appID+"/personal-info", token, map[string]any{
		"version": version,
		"phone":   "123",
	})

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "validation_failed", body["error"])
	violations := body["violations"].([]any)
	assert.Greater(t, len(violations), 3)
}

func TestHealthDeclarationNormalizesLegacyBooleans(t *testing.T) {
	srv := newTestServer(t)
	token := bearerToken(t, id.UserID(uuid.New()))
	appID, version := createDraft(t, srv, token)

	resp, body := doJSON(t, srv, http.MethodPut, "/applications/"+appID+"/health-declaration", token, map[string]any{
		"version":         version,
		"isSmoker":        "True",
		"takesMedication": true,
		"hasCancer":       "no",
	})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	decl := body["healthDeclaration"].(map[string]any)
	assert.Equal(t, true, decl["isSmoker"])
	assert.Equal(t, true, decl["takesMedication"])
	assert.Equal(t, false, decl["hasCancer"])
}

func TestSubmitReturnsApplicationAndDecision(t *testing.T) {
	srv := newTestServer(t)
	token := bearerToken(t, id.UserID(uuid.New()))
	appID, version := createDraft(t, srv, token)

	steps := []struct {
		method string
		path   string
		body   map[string]any
	}{
		{http.MethodPut, "/personal-info", map[string]any{
			"firstName": "Maria", "lastName": "Santos", "phone": "0917 123 4567",
			"dateOfBirth": "1996-01-10", "gender": "male", "maritalStatus": "single",
			"healthStatus": "good", "occupationRisk": "low",
			"emergencyContactName": "Jose Santos", "emergencyContactPhone": "0917 765 4321",
			"emergencyContactRelationship": "parent",
		}},
		{http.MethodPut, "/health-declaration", map[string]any{}},
		{http.MethodPut, "/product", map[string]any{
			"planId": testPlanID, "paymentFrequency": "annual", "paymentMethod": "bank_transfer",
		}},
		{http.MethodPost, "/beneficiaries", map[string]any{
			"beneficiaries": []map[string]any{{
				"type": "primary", "firstName": "Luis", "lastName": "Santos",
				"relationship": "parent", "dateOfBirth": "1970-05-02",
				"gender": "male", "percentage": 100,
			}},
		}},
	}
	for _, step := range steps {
		step.body["version"] = version
		resp, body := doJSON(t, srv, step.method, "/applications/"+appID+step.path, token, step.body)
		require.Equal(t, http.StatusOK, resp.StatusCode, step.path)
		version = body["version"].(float64)
	}

	resp, _ := doJSON(t, srv, http.MethodPost, "/applications/"+appID+"/documents", token, map[string]any{
		"category": "identity", "filename": "passport.pdf", "objectKey": "uploads/passport.pdf", "sizeBytes": 120000,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, srv, http.MethodPost, "/applications/"+appID+"/submit", token, map[string]any{
		"version": version, "termsAccepted": true, "declarationAccepted": true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	app := body["application"].(map[string]any)
	assert.Equal(t, "submitted", app["status"])
	assert.Equal(t, 1200.0, app["premiumAmount"])

	decision := body["decision"].(map[string]any)
	assert.Equal(t, "low", decision["riskLevel"])
	assert.Equal(t, true, decision["autoApprovalEligible"])
}

func TestSubmitViolationsAre422(t *testing.T) {
	srv := newTestServer(t)
	token := bearerToken(t, id.UserID(uuid.New()))
	appID, version := createDraft(t, srv, token)

	resp, body := doJSON(t, srv, http.MethodPost, "/applications/"+appID+"/submit", token, map[string]any{
		"version": version,
	})

	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "invariant_violation", body["error"])
	assert.NotEmpty(t, body["violations"])
}

func TestGetRejectsForeignApplication(t *testing.T) {
	srv := newTestServer(t)
	ownerToken := bearerToken(t, id.UserID(uuid.New()))
	appID, _ := createDraft(t, srv, ownerToken)

	strangerToken := bearerToken(t, id.UserID(uuid.New()))
	resp, _ := doJSON(t, srv, http.MethodGet, "/applications/"+appID, strangerToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestGetUnknownApplicationIs404(t *testing.T) {
	srv := newTestServer(t)
	token := bearerToken(t, id.UserID(uuid.New()))

	resp, _ := doJSON(t, srv, http.MethodGet, "/applications/"+uuid.NewString(), token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMalformedApplicationIDIs400(t *testing.T) {
	srv := newTestServer(t)
	token := bearerToken(t, id.UserID(uuid.New()))

	resp, _ := doJSON(t, srv, http.MethodGet, "/applications/not-a-uuid", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRequirementsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	token := bearerToken(t, id.UserID(uuid.New()))
	appID, _ := createDraft(t, srv, token)

	resp, body := doJSON(t, srv, http.MethodGet, fmt.Sprintf("/applications/%s/requirements", appID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	required := body["required"].([]any)
	assert.Contains(t, required, "identity")
	assert.Contains(t, body["missing"].([]any), "identity")
}
