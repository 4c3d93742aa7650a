package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexus/internal/config"
	"nexus/internal/database"
	"nexus/internal/domain"
	"nexus/internal/services"
	"nexus/internal/util"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type brokenTransport struct{}

func (brokenTransport) Mode() string { return services.ModeSES }
func (brokenTransport) Deliver(context.Context, services.Message) (string, error) {
	return "", errors.New("MessageRejected: Email address is not verified")
}

type testEnv struct {
	handler http.Handler
}

func newTestEnv(t *testing.T, authRequired bool, transport services.Transport) *testEnv {
	t.Helper()
	gateway := database.NewGateway(nil, database.NewMemoryStore(), domain.NotificationConfig{
		Email:    "admin@nexus.com",
		Domain:   "nexus.com",
		IsActive: true,
	})
	if transport == nil {
		transport = services.NewLogTransport()
	}
	email := services.NewEmailService(transport)
	authCfg := config.AuthConfig{
		Admin:  config.Credential{Email: "admin@nexus.com", Password: "admin-pass"},
		Viewer: config.Credential{Email: "viewer@nexus.com", Password: "viewer-pass"},
	}
	srv := New(Services{
		Health:    services.NewHealthService("Nexus API", gateway, email),
		Auth:      services.NewAuthService(authCfg, util.NewTokenManager(testSecret, time.Hour)),
		Inquiries: services.NewInquiryService(gateway, email, services.InquiryOptions{}),
		Config:    services.NewConfigService(gateway),
		Email:     email,
	}, authRequired)
	return &testEnv{handler: srv.Handler()}
}

func (e *testEnv) do(t *testing.T, method, path, body, token string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec, out
}

func (e *testEnv) login(t *testing.T, email, password string) string {
	t.Helper()
	rec, body := e.do(t, http.MethodPost, "/api/auth/login", `{"email":"`+email+`","password":"`+password+`"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, false, nil)
	rec, body := env.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "memory", body["store_mode"])
	assert.Equal(t, "log", body["mail_mode"])
}

func TestInquiryLifecycle(t *testing.T) {
	env := newTestEnv(t, false, nil)

	rec, body := env.do(t, http.MethodPost, "/api/inquiries", `{"name":"Rahim","email":"rahim@test.com","message":"Need help"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]any)
	id := data["id"].(string)
	assert.Equal(t, "new", data["status"])
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, data["date"])

	rec, body = env.do(t, http.MethodGet, "/api/inquiries", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := body["data"].([]any)
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].(map[string]any)["id"])

	rec, body = env.do(t, http.MethodPatch, "/api/inquiries/"+id+"/status", `{"status":"archived"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"success": true}, body)

	_, body = env.do(t, http.MethodGet, "/api/inquiries", "", "")
	assert.Equal(t, "archived", body["data"].([]any)[0].(map[string]any)["status"])

	rec, _ = env.do(t, http.MethodDelete, "/api/inquiries/"+id, "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	_, body = env.do(t, http.MethodGet, "/api/inquiries", "", "")
	assert.Empty(t, body["data"])
}

func TestEmptyListIsArray(t *testing.T) {
	env := newTestEnv(t, false, nil)
	rec, _ := env.do(t, http.MethodGet, "/api/inquiries", "", "")
	assert.JSONEq(t, `{"success":true,"data":[]}`, rec.Body.String())
}

func TestCreateInquiryValidation(t *testing.T) {
	env := newTestEnv(t, false, nil)

	rec, body := env.do(t, http.MethodPost, "/api/inquiries", `{"name":"Rahim","message":"hi"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body["error"], "email")

	rec, _ = env.do(t, http.MethodPost, "/api/inquiries", `{not json`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = env.do(t, http.MethodPost, "/api/inquiries", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnknownIDIsLenient(t *testing.T) {
	env := newTestEnv(t, false, nil)
	rec, _ := env.do(t, http.MethodDelete, "/api/inquiries/does-not-exist", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t, false, nil)

	rec, body := env.do(t, http.MethodPost, "/api/auth/login", `{"email":"admin@nexus.com","password":"admin-pass"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "admin", user["role"])
	assert.Equal(t, "2", user["id"])

	rec, body = env.do(t, http.MethodPost, "/api/auth/login", `{"email":"admin@nexus.com","password":"nope"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid email or password", body["error"])

	rec, _ = env.do(t, http.MethodPost, "/api/auth/login", `{"email":"admin@nexus.com"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhookConfig(t *testing.T) {
	env := newTestEnv(t, false, nil)

	rec, body := env.do(t, http.MethodGet, "/api/webhook-config", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"email": "admin@nexus.com", "domain": "nexus.com", "isActive": true}, body["data"])

	rec, _ = env.do(t, http.MethodPost, "/api/webhook-config", `{"email":"ops@nexus.com","domain":"ops.nexus.com","isActive":false}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	_, body = env.do(t, http.MethodGet, "/api/webhook-config", "", "")
	assert.Equal(t, map[string]any{"email": "ops@nexus.com", "domain": "ops.nexus.com", "isActive": false}, body["data"])
}

func TestSendEmail(t *testing.T) {
	env := newTestEnv(t, false, nil)
	rec, body := env.do(t, http.MethodPost, "/api/send-email", `{"recipientEmail":"a@b.com","subject":"Hi","html":"<p>x</p>"}`, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])

	rec, _ = env.do(t, http.MethodPost, "/api/send-email", `{"subject":"Hi","html":"<p>x</p>"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendEmailTransportFailure(t *testing.T) {
	env := newTestEnv(t, false, brokenTransport{})
	rec, body := env.do(t, http.MethodPost, "/api/send-email", `{"recipientEmail":"a@b.com","subject":"Hi","html":"<p>x</p>"}`, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to send email", body["error"])
}

func TestSubmitSurvivesTransportFailure(t *testing.T) {
	env := newTestEnv(t, false, brokenTransport{})
	rec, _ := env.do(t, http.MethodPost, "/api/inquiries", `{"name":"Rahim","email":"rahim@test.com","message":"hi"}`, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGuard(t *testing.T) {
	env := newTestEnv(t, true, nil)

	// public routes stay open
	rec, _ := env.do(t, http.MethodPost, "/api/inquiries", `{"name":"Rahim","email":"rahim@test.com","message":"hi"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body := env.do(t, http.MethodGet, "/api/inquiries", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotEmpty(t, body["error"])

	rec, _ = env.do(t, http.MethodGet, "/api/inquiries", "", "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	viewer := env.login(t, "viewer@nexus.com", "viewer-pass")
	rec, _ = env.do(t, http.MethodGet, "/api/inquiries", "", viewer)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, body = env.do(t, http.MethodDelete, "/api/inquiries/x", "", viewer)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Insufficient permissions", body["error"])

	admin := env.login(t, "admin@nexus.com", "admin-pass")
	rec, _ = env.do(t, http.MethodDelete, "/api/inquiries/x", "", admin)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, false, nil)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "store_primary_up")
}

func TestCreateInquiryWithFreeTextEmail(t *testing.T) {
	env := newTestEnv(t, false, nil)
	rec, body := env.do(t, http.MethodPost, "/api/inquiries", `{"name":"Karim","email":"call me on 555-1234","message":"hi"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	data := body["data"].(map[string]any)
	assert.Equal(t, "call me on 555-1234", data["email"])
	assert.Equal(t, "new", data["status"])
}
