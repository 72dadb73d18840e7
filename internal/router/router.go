package router

import (
	"time"

	"github.com/farmmitra/farmmitra-api/internal/ai"
	"github.com/farmmitra/farmmitra-api/internal/config"
	"github.com/farmmitra/farmmitra-api/internal/handlers"
	"github.com/farmmitra/farmmitra-api/internal/logger"
	"github.com/farmmitra/farmmitra-api/internal/middleware"
	"github.com/farmmitra/farmmitra-api/internal/repository"
	"github.com/farmmitra/farmmitra-api/internal/service"
	"github.com/farmmitra/farmmitra-api/internal/voice"
	"github.com/farmmitra/farmmitra-api/internal/ws"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter sets up the Gin router.
func SetupRouter(cfg *config.Config, database *gorm.DB) *gin.Engine {
	// Create default Gin router
	r := gin.Default()

	config := cors.DefaultConfig()
	config.AllowCredentials = true
	config.AllowOrigins = []string{
		"https://api.farmmitra.in",
		"https://www.api.farmmitra.in",
		"https://farmmitra.in",
		"https://www.farmmitra.in",
	}
	r.Use(cors.New(config))

	// Add request ID middleware for request correlation
	r.Use(logger.RequestIDMiddleware())

	// Ping route for testing
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// User-related routes setup
	userRepo := repository.NewUserRepository(database)
	userService := service.NewUserService(cfg, userRepo)
	userHandler := handlers.NewUserHandler(userService)

	// AI provider setup
	anthropicProvider := ai.NewAnthropicProvider(cfg.EnvVars.AnthropicAPIKey, cfg.Prompts)
	speechProvider := ai.NewOpenAISpeechProvider(cfg.EnvVars.OpenAIAPIKey)

	// Voice pipeline setup. DEMO_MODE pins the availability cache to
	// unavailable so every query takes the mock path.
	avail := voice.NewAvailability()
	if cfg.EnvVars.DemoMode {
		avail.Set(false)
	}
	orchestrator := voice.NewOrchestrator(speechProvider, speechProvider, anthropicProvider, nil, nil, avail)

	convoRepo := repository.NewConversationRepository(database)
	voiceService := service.NewVoiceService(cfg, orchestrator, convoRepo, userRepo)
	voiceHandler := handlers.NewVoiceHandler(voiceService)

	// Chat routes setup
	chatService := service.NewChatService(cfg, anthropicProvider, convoRepo, userRepo)
	chatHandler := handlers.NewChatHandler(chatService)

	// Crop diagnosis routes setup
	diagnosisRepo := repository.NewDiagnosisRepository(database)
	diagnosisService := service.NewDiagnosisService(cfg, anthropicProvider, diagnosisRepo, userRepo)
	diagnosisHandler := handlers.NewDiagnosisHandler(diagnosisService)

	// Mandi price routes setup
	priceRepo := repository.NewPriceRepository(database)
	priceProvider := ai.NewAgmarknetPriceProvider(cfg.EnvVars.MandiPriceAPIKey)
	priceService := service.NewPriceService(cfg, priceProvider, anthropicProvider, priceRepo)
	priceHandler := handlers.NewPriceHandler(priceService)

	// Group for API routes that don't require token verification
	apiPublic := r.Group("/v1")
	{
		// The mobile app identifies itself with a shared header
		apiPublic.Use(middleware.CheckIDHeader(cfg.EnvVars.IDHeader))
		// Signup and login are brute-force targets
		apiPublic.Use(middleware.RateLimitByIP(5, 5*time.Minute, 15*time.Minute))

		// User-related routes

		// Create a new user
		apiPublic.POST("/users", userHandler.CreateUser)
		// Login a user
		apiPublic.POST("/auth/login", userHandler.LoginUser)
		// Refresh an access token
		apiPublic.POST("/auth/refresh", userHandler.RefreshToken)

		// Supported advisory languages
		apiPublic.GET("/voice/languages", voiceHandler.GetLanguages)
	}

	// Group for API routes that require token verification
	apiProtected := r.Group("/v1")
	{
		apiProtected.Use(middleware.CheckIDHeader(cfg.EnvVars.IDHeader))
		apiProtected.Use(middleware.VerifyTokenMiddleware(cfg))

		// User-related routes

		// Verify a user's token
		apiProtected.GET("/users/verify", middleware.AttachUserToContext(userService), userHandler.VerifyToken)
		// Get a user by their ID
		apiProtected.GET("/users/me", middleware.AttachUserToContext(userService), userHandler.GetUserByID)
		// Get a user's settings
		apiProtected.GET("/users/me/settings", middleware.AttachUserToContext(userService), userHandler.GetUserSettings)
		// User update routes
		apiProtected.PUT("/users/me", middleware.AttachUserToContext(userService), userHandler.UpdateUser)
		apiProtected.PUT("/users/me/settings", middleware.AttachUserToContext(userService), userHandler.UpdateSettings)
		apiProtected.PUT("/users/me/farm-profile", middleware.AttachUserToContext(userService), userHandler.UpdateFarmProfile)

		// Voice query routes
		apiProtected.POST("/voice/query", middleware.AttachUserToContext(userService), voiceHandler.ProcessVoiceQuery)
		apiProtected.POST("/voice/transcribe", middleware.AttachUserToContext(userService), voiceHandler.Transcribe)
		apiProtected.POST("/voice/synthesize", middleware.AttachUserToContext(userService), voiceHandler.Synthesize)
		apiProtected.GET("/voice/status", middleware.AttachUserToContext(userService), voiceHandler.GetStatus)
		apiProtected.POST("/voice/status/reset", middleware.AttachUserToContext(userService), voiceHandler.ResetStatus)

		// Advisor chat routes
		apiProtected.POST("/chat/messages", middleware.AttachUserToContext(userService), chatHandler.SendMessage)
		apiProtected.GET("/chat/conversations", middleware.AttachUserToContext(userService), chatHandler.ListConversations)
		apiProtected.GET("/chat/conversations/:conversation_id", middleware.AttachUserToContext(userService), chatHandler.GetConversation)
		apiProtected.DELETE("/chat/conversations/:conversation_id", middleware.AttachUserToContext(userService), chatHandler.DeleteConversation)

		// Crop diagnosis routes
		apiProtected.POST("/diagnoses", middleware.AttachUserToContext(userService), diagnosisHandler.DiagnoseCrop)
		apiProtected.GET("/diagnoses", middleware.AttachUserToContext(userService), diagnosisHandler.ListDiagnoses)
		apiProtected.GET("/diagnoses/:diagnosis_id", middleware.AttachUserToContext(userService), diagnosisHandler.GetDiagnosis)

		// Mandi price routes
		apiProtected.GET("/prices", middleware.AttachUserToContext(userService), priceHandler.GetPrices)
	}

	// Subscription routes
	subService := service.NewSubscriptionService(cfg, userRepo)
	subHandler := handlers.NewSubscriptionHandler(subService)
	apiProtected.GET("/subscription", middleware.AttachUserToContext(userService), subHandler.GetSubscription)
	apiProtected.POST("/subscription/upgrade", middleware.AttachUserToContext(userService), subHandler.UpgradeSubscription)

	// WebSocket routes (authenticated via query param token)
	hub := ws.NewHub()
	go hub.Run()
	communityHandler := ws.NewCommunityHandler(hub, cfg.EnvVars.JwtSecretKey)
	r.GET("/v1/ws/community/:district", communityHandler.HandleCommunityRoom)

	return r
}
