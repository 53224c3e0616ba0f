package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/spendsense/spendsense-backend/internal/handlers"
	"github.com/spendsense/spendsense-backend/internal/middleware"
)

type RouterConfig struct {
	AllowedOrigins     []string
	HealthcheckHandler *handlers.HealthcheckHandler
	PlanHandler        *handlers.PlanHandler
	AssessmentHandler  *handlers.AssessmentHandler
	OnboardingHandler  *handlers.OnboardingHandler
	CheckoutHandler    *handlers.CheckoutHandler
	UploadHandler      *handlers.UploadHandler
	AuthHandler        *handlers.AuthHandler
	AdminHandler       *handlers.AdminHandler
	AuthMiddleware     *middleware.AuthMiddleware
	SessionMiddleware  *middleware.SessionMiddleware
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", "Stripe-Signature"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", cfg.HealthcheckHandler.Healthcheck)

	api := router.Group("/api")
	api.Use(cfg.SessionMiddleware.EnsureSession())
	{
		api.GET("/plans", cfg.PlanHandler.List)

		// Assessment
		api.GET("/assessment", cfg.AssessmentHandler.Snapshot)
		api.POST("/assessment/answers", cfg.AssessmentHandler.SubmitAnswer)
		api.POST("/assessment/back", cfg.AssessmentHandler.Back)
		api.POST("/assessment/goto", cfg.AssessmentHandler.Goto)
		api.POST("/assessment/reset", cfg.AssessmentHandler.Reset)
		api.GET("/assessment/results", cfg.AssessmentHandler.Results)

		// Onboarding
		api.GET("/onboarding", cfg.OnboardingHandler.Snapshot)
		api.POST("/onboarding/data", cfg.OnboardingHandler.SetData)
		api.POST("/onboarding/next", cfg.OnboardingHandler.Next)
		api.POST("/onboarding/back", cfg.OnboardingHandler.Back)
		api.POST("/onboarding/goto", cfg.OnboardingHandler.Goto)
		api.POST("/onboarding/reset", cfg.OnboardingHandler.Reset)

		// Checkout + uploads
		api.POST("/checkout/session", cfg.CheckoutHandler.CreateSession)
		api.POST("/stripe/webhook", cfg.CheckoutHandler.Webhook)
		api.POST("/uploads/sign", cfg.UploadHandler.Sign)
		api.POST("/uploads/confirm", cfg.UploadHandler.Confirm)
		api.POST("/uploads/abandon", cfg.UploadHandler.Abandon)

		api.POST("/admin/login", cfg.AuthHandler.Login)
	}

	// ===============
	// || Admin     ||
	// ===============
	admin := router.Group("/api/admin")
	admin.Use(cfg.AuthMiddleware.RequireAuth())
	admin.POST("/refresh", cfg.AuthHandler.Refresh)
	admin.POST("/logout", cfg.AuthHandler.Logout)
	admin.GET("/submissions", cfg.AdminHandler.ListSubmissions)
	admin.GET("/submissions/export", cfg.AdminHandler.ExportSubmissions)
	admin.GET("/submissions/:id", cfg.AdminHandler.GetSubmission)
	admin.PATCH("/submissions/:id/status", cfg.AdminHandler.UpdateSubmissionStatus)

	return router
}

// ParseOrigins splits a comma-separated origin list from config.
func ParseOrigins(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
