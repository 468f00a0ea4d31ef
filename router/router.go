package router

import (
	"time"

	"github.com/NomadCrew/portfolio-backend/config"
	"github.com/NomadCrew/portfolio-backend/handlers"
	"github.com/NomadCrew/portfolio-backend/middleware"
	"github.com/NomadCrew/portfolio-backend/services"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/NomadCrew/portfolio-backend/docs"
)

// Dependencies struct holds all dependencies required for setting up routes.
type Dependencies struct {
	Config           *config.Config
	ContactHandler   *handlers.ContactHandler
	PortfolioHandler *handlers.PortfolioHandler
	HealthHandler    *handlers.HealthHandler
	// AdminHandler is nil when the message archive is disabled.
	AdminHandler *handlers.AdminHandler
	RateLimiter  services.RateLimiterInterface
	// Gatherer serves /metrics; prometheus.DefaultGatherer when nil.
	Gatherer prometheus.Gatherer
	Logger   *zap.SugaredLogger
}

// SetupRouter configures and returns the main Gin engine with all routes defined.
func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if err := r.SetTrustedProxies(deps.Config.Server.TrustedProxies); err != nil && deps.Logger != nil {
		deps.Logger.Warnw("Invalid trusted proxies, trusting none", "error", err)
		_ = r.SetTrustedProxies(nil)
	}

	// Global Middleware
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.SecurityHeadersMiddleware(deps.Config))
	r.Use(middleware.CORSMiddleware(&deps.Config.Server))

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// Health and Metrics Routes
	r.GET("/health", deps.HealthHandler.DetailedHealth)
	r.GET("/health/liveness", deps.HealthHandler.LivenessCheck)
	r.GET("/health/readiness", deps.HealthHandler.ReadinessCheck)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/v1")
	{
		portfolioRoutes := v1.Group("/portfolio")
		{
			portfolioRoutes.GET("/profile", deps.PortfolioHandler.GetProfileHandler)
			portfolioRoutes.GET("/projects", deps.PortfolioHandler.ListProjectsHandler)
			portfolioRoutes.GET("/projects/featured", deps.PortfolioHandler.ListFeaturedHandler)
			portfolioRoutes.GET("/categories", deps.PortfolioHandler.ListCategoriesHandler)
			portfolioRoutes.GET("/services", deps.PortfolioHandler.ListServicesHandler)
		}

		submitLimit := middleware.RateLimiter(deps.RateLimiter, middleware.RateLimitConfig{
			Scope:    "contact",
			Requests: deps.Config.RateLimit.ContactRequestsPerMinute,
			Window:   time.Duration(deps.Config.RateLimit.WindowSeconds) * time.Second,
		})
		formLimit := middleware.RateLimiter(deps.RateLimiter, middleware.RateLimitConfig{
			Scope:    "forms",
			Requests: deps.Config.RateLimit.FormRequestsPerMinute,
			Window:   time.Duration(deps.Config.RateLimit.WindowSeconds) * time.Second,
		})

		contactRoutes := v1.Group("/contact")
		{
			contactRoutes.POST("/validate", deps.ContactHandler.ValidateFieldHandler)
			contactRoutes.POST("", submitLimit, deps.ContactHandler.SubmitHandler)

			formRoutes := contactRoutes.Group("/forms")
			formRoutes.POST("", formLimit, deps.ContactHandler.CreateFormHandler)
			formRoutes.GET("/:id", deps.ContactHandler.GetFormHandler)
			formRoutes.PUT("/:id/fields/:field", deps.ContactHandler.ChangeFieldHandler)
			formRoutes.POST("/:id/fields/:field/blur", deps.ContactHandler.BlurFieldHandler)
			formRoutes.POST("/:id/reveal", deps.ContactHandler.RevealHandler)
			formRoutes.POST("/:id/submit", submitLimit, deps.ContactHandler.SubmitFormHandler)
		}

		if deps.AdminHandler != nil && deps.Config.Server.JwtSecretKey != "" {
			adminRoutes := v1.Group("/admin")
			adminRoutes.Use(middleware.OperatorAuth(deps.Config.Server.JwtSecretKey))
			adminRoutes.GET("/messages", deps.AdminHandler.ListMessagesHandler)
		}
	}

	return r
}
