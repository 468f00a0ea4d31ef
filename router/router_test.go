package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/NomadCrew/portfolio-backend/config"
	"github.com/NomadCrew/portfolio-backend/handlers"
	"github.com/NomadCrew/portfolio-backend/internal/auth"
	"github.com/NomadCrew/portfolio-backend/internal/session"
	"github.com/NomadCrew/portfolio-backend/logger"
	"github.com/NomadCrew/portfolio-backend/models/contact"
	"github.com/NomadCrew/portfolio-backend/models/portfolio"
	"github.com/NomadCrew/portfolio-backend/services"
	"github.com/NomadCrew/portfolio-backend/types"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "router-test-secret-key-0123456789abcdef"

func init() {
	logger.IsTest = true
	gin.SetMode(gin.TestMode)
}

type emptyArchive struct{}

func (emptyArchive) SaveMessage(context.Context, *types.ArchivedMessage) (int64, error) {
	return 1, nil
}

func (emptyArchive) ListMessages(context.Context, int, int) ([]types.ArchivedMessage, error) {
	return []types.ArchivedMessage{}, nil
}

func (emptyArchive) CountMessages(context.Context) (int, error) { return 0, nil }

func (emptyArchive) Ping(context.Context) error { return nil }

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Environment:    config.EnvDevelopment,
			Port:           "8080",
			AllowedOrigins: []string{"*"},
			Version:        "test",
		},
		RateLimit: config.RateLimitConfig{
			ContactRequestsPerMinute: 2,
			FormRequestsPerMinute:    3,
			WindowSeconds:            60,
		},
	}
}

func setupTestRouter(t *testing.T, cfg *config.Config, withArchive bool) *gin.Engine {
	t.Helper()

	catalog, err := portfolio.Default()
	require.NoError(t, err)

	deliverer := contact.DelivererFunc(func(context.Context, contact.Submission) error { return nil })
	identity := contact.DeliveryIdentity{ServiceID: "service_x", TemplateID: "template_y", PublicKey: "pk_z"}
	contactService := services.NewContactService(deliverer, identity, contact.DefaultMessages("owner@example.com"), nil)

	sessions := session.NewStore(func() *contact.Form { return contactService.NewForm() })
	t.Cleanup(sessions.Close)

	deps := Dependencies{
		Config:           cfg,
		ContactHandler:   handlers.NewContactHandler(contactService, sessions),
		PortfolioHandler: handlers.NewPortfolioHandler(catalog),
		HealthHandler:    handlers.NewHealthHandler(services.NewHealthService(nil, nil, "emailjs", true, "test")),
		RateLimiter:      services.NewRateLimitService(nil),
		Gatherer:         prometheus.NewRegistry(),
		Logger:           logger.GetLogger(),
	}
	if withArchive {
		deps.AdminHandler = handlers.NewAdminHandler(emptyArchive{})
	}
	return SetupRouter(deps)
}

func serve(r *gin.Engine, method, path, body string, header http.Header) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSetupRouter_PublicRoutes(t *testing.T) {
	r := setupTestRouter(t, testConfig(), false)

	tests := []struct {
		name   string
		method string
		path   string
		status int
	}{
		{"health", http.MethodGet, "/health", http.StatusOK},
		{"liveness", http.MethodGet, "/health/liveness", http.StatusOK},
		{"readiness", http.MethodGet, "/health/readiness", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", http.StatusOK},
		{"profile", http.MethodGet, "/v1/portfolio/profile", http.StatusOK},
		{"projects", http.MethodGet, "/v1/portfolio/projects", http.StatusOK},
		{"featured", http.MethodGet, "/v1/portfolio/projects/featured", http.StatusOK},
		{"categories", http.MethodGet, "/v1/portfolio/categories", http.StatusOK},
		{"services", http.MethodGet, "/v1/portfolio/services", http.StatusOK},
		{"create form", http.MethodPost, "/v1/contact/forms", http.StatusCreated},
		{"unknown form", http.MethodGet, "/v1/contact/forms/missing", http.StatusNotFound},
		{"admin disabled", http.MethodGet, "/v1/admin/messages", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, tt.method, tt.path, "", nil)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}
}

func TestSetupRouter_HealthReport(t *testing.T) {
	r := setupTestRouter(t, testConfig(), false)

	w := serve(r, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var health types.HealthCheck
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, types.HealthStatusUp, health.Status)
	assert.Equal(t, "test", health.Version)
	assert.Contains(t, health.Components, "delivery")
}

func TestSetupRouter_ContactSubmitIsRateLimited(t *testing.T) {
	r := setupTestRouter(t, testConfig(), false)
	body := `{"name":"John Doe","email":"john@example.com","subject":"Web Development Project","message":"I would like to discuss a new portfolio website."}`

	for i := 0; i < 2; i++ {
		w := serve(r, http.MethodPost, "/v1/contact", body, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}

	w := serve(r, http.MethodPost, "/v1/contact", body, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestSetupRouter_FormCreationIsRateLimited(t *testing.T) {
	r := setupTestRouter(t, testConfig(), false)

	codes := map[int]int{}
	for i := 0; i < 20; i++ {
		w := serve(r, http.MethodPost, "/v1/contact/forms", "", nil)
		codes[w.Code]++
	}
	assert.Equal(t, map[int]int{http.StatusCreated: 3, http.StatusTooManyRequests: 17}, codes)

	// submissions are counted separately
	body := `{"name":"John Doe","email":"john@example.com","subject":"Web Development Project","message":"I would like to discuss a new portfolio website."}`
	w := serve(r, http.MethodPost, "/v1/contact", body, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestSetupRouter_AdminRoutes(t *testing.T) {
	t.Run("archive without secret stays disabled", func(t *testing.T) {
		r := setupTestRouter(t, testConfig(), true)
		w := serve(r, http.MethodGet, "/v1/admin/messages", "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	cfg := testConfig()
	cfg.Server.JwtSecretKey = testSecret
	r := setupTestRouter(t, cfg, true)

	t.Run("missing token", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/v1/admin/messages", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := auth.GenerateOperatorToken("operator@example.com", testSecret, time.Minute)
		require.NoError(t, err)

		w := serve(r, http.MethodGet, "/v1/admin/messages", "", http.Header{
			"Authorization": []string{"Bearer " + token},
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var list types.ArchivedMessageList
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		assert.Empty(t, list.Messages)
		assert.Equal(t, 20, list.Pagination.Limit)
	})
}
