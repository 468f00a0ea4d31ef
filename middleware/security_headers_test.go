package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/NomadCrew/portfolio-backend/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestSecurityHeadersMiddleware(t *testing.T) {
	tests := []struct {
		name         string
		environment  config.Environment
		path         string
		expectedHSTS string
		cspContains  string
	}{
		{"development api route", config.EnvDevelopment, "/v1/portfolio/profile", "", "default-src 'none'"},
		{"production api route", config.EnvProduction, "/v1/portfolio/profile", "max-age=31536000; includeSubDomains", "default-src 'none'"},
		{"swagger ui", config.EnvDevelopment, "/swagger/index.html", "", "'unsafe-inline'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{Server: config.ServerConfig{Environment: tt.environment}}
			router := gin.New()
			router.Use(SecurityHeadersMiddleware(cfg))
			router.GET("/*path", func(c *gin.Context) { c.Status(http.StatusOK) })

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, tt.path, nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
			assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
			assert.Equal(t, "strict-origin-when-cross-origin", w.Header().Get("Referrer-Policy"))
			assert.Equal(t, tt.expectedHSTS, w.Header().Get("Strict-Transport-Security"))
			assert.Contains(t, w.Header().Get("Content-Security-Policy"), tt.cspContains)
		})
	}
}
