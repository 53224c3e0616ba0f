package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spendsense/spendsense-backend/internal/assessment"
	"github.com/spendsense/spendsense-backend/internal/cache"
	"github.com/spendsense/spendsense-backend/internal/db"
	"github.com/spendsense/spendsense-backend/internal/handlers"
	"github.com/spendsense/spendsense-backend/internal/logger"
	"github.com/spendsense/spendsense-backend/internal/middleware"
	"github.com/spendsense/spendsense-backend/internal/repos"
	"github.com/spendsense/spendsense-backend/internal/server"
	"github.com/spendsense/spendsense-backend/internal/services"
	"github.com/spendsense/spendsense-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	adminEmail := utils.GetEnv("ADMIN_EMAIL", "", nil)
	adminPassword := utils.GetEnv("ADMIN_PASSWORD", "", nil)
	allowedOrigins := utils.GetEnv("CORS_ORIGINS", "http://localhost:3000", log)
	cookieSecure := utils.GetEnv("COOKIE_SECURE", "false", log) == "true"
	flowConfigPath := utils.GetEnv("ASSESSMENT_CONFIG", "", log)
	stripeCfg := services.CheckoutConfig{
		SecretKey:     utils.GetEnv("STRIPE_SECRET_KEY", "", nil),
		WebhookSecret: utils.GetEnv("STRIPE_WEBHOOK_SECRET", "", nil),
		SuccessURL:    utils.GetEnv("CHECKOUT_SUCCESS_URL", "http://localhost:3000/onboarding/success", log),
		CancelURL:     utils.GetEnv("CHECKOUT_CANCEL_URL", "http://localhost:3000/onboarding/plan", log),
		PriceIDs: map[int]string{
			1: utils.GetEnv("STRIPE_PRICE_TIER_1", "", nil),
			2: utils.GetEnv("STRIPE_PRICE_TIER_2", "", nil),
			3: utils.GetEnv("STRIPE_PRICE_TIER_3", "", nil),
		},
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	submissionRepo := repos.NewSubmissionRepo(thePG, log)
	submissionFileRepo := repos.NewSubmissionFileRepo(thePG, log)

	// Session store
	log.Info("Setting up session store from main...")
	sessionStore, err := cache.NewRedisSessionStore(log)
	if err != nil {
		log.Warn("Redis unavailable, falling back to in-memory sessions", "error", err)
		sessionStore = cache.NewMemorySessionStore()
	}

	// Assessment flow
	flow, err := assessment.DefaultFlow()
	if err != nil {
		log.Error("Failed to build default assessment flow", "error", err)
		os.Exit(1)
	}
	if flowConfigPath != "" {
		cfg, cfgErr := assessment.LoadFlowConfig(flowConfigPath)
		if cfgErr != nil {
			log.Error("Failed to load assessment config", "path", flowConfigPath, "error", cfgErr)
			os.Exit(1)
		}
		flow, err = cfg.Flow()
		if err != nil {
			log.Error("Invalid assessment config", "path", flowConfigPath, "error", err)
			os.Exit(1)
		}
	}

	// Services
	log.Info("Setting up Services from main...")
	bucketService, err := services.NewBucketService(log)
	if err != nil {
		log.Warn("Could not init BucketService, uploads disabled", "error", err)
		bucketService = nil
	}
	authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, jwtSecretKey,
		time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
	if adminEmail != "" {
		if seedErr := authService.EnsureAdmin(context.Background(), adminEmail, adminPassword); seedErr != nil {
			log.Warn("Failed to seed admin account", "error", seedErr)
		}
	}
	planService := services.NewPlanService(log)
	assessmentService := services.NewAssessmentService(log, flow, sessionStore)
	onboardingService := services.NewOnboardingService(log, sessionStore)
	checkoutService := services.NewCheckoutService(thePG, log, stripeCfg, planService,
		assessmentService, onboardingService, submissionRepo)
	fileService := services.NewFileService(thePG, log, bucketService, submissionRepo, submissionFileRepo)
	submissionService := services.NewSubmissionService(thePG, log, submissionRepo)

	// Handlers
	log.Info("Setting up handlers from main...")
	healthcheckHandler := handlers.NewHealthcheckHandler()
	planHandler := handlers.NewPlanHandler(planService)
	assessmentHandler := handlers.NewAssessmentHandler(assessmentService)
	onboardingHandler := handlers.NewOnboardingHandler(onboardingService)
	checkoutHandler := handlers.NewCheckoutHandler(log, checkoutService)
	uploadHandler := handlers.NewUploadHandler(fileService)
	authHandler := handlers.NewAuthHandler(authService)
	adminHandler := handlers.NewAdminHandler(submissionService)

	// Middleware
	log.Info("Setting up middleware from main...")
	authMiddleware := middleware.NewAuthMiddleware(log, authService)
	sessionMiddleware := middleware.NewSessionMiddleware(log, cookieSecure)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		AllowedOrigins:     server.ParseOrigins(allowedOrigins),
		HealthcheckHandler: healthcheckHandler,
		PlanHandler:        planHandler,
		AssessmentHandler:  assessmentHandler,
		OnboardingHandler:  onboardingHandler,
		CheckoutHandler:    checkoutHandler,
		UploadHandler:      uploadHandler,
		AuthHandler:        authHandler,
		AdminHandler:       adminHandler,
		AuthMiddleware:     authMiddleware,
		SessionMiddleware:  sessionMiddleware,
	})

	port := utils.GetEnv("PORT", "8080", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
