package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"hireflow/internal/apperr"
	"hireflow/internal/auth"
	"hireflow/internal/config"
	"hireflow/internal/handlers"
	"hireflow/internal/middleware"
	"hireflow/internal/repositories"
	"hireflow/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize repositories
	jobRepo := repositories.NewJobRepository(db)
	appRepo := repositories.NewApplicationRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.UploadPath, cfg.Server.BaseURL)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}

	pdfParser := services.NewPDFParserService()
	log.Println("✅ Services initialized successfully")

	// Initialize Gemini AI
	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}
	log.Println("✅ Gemini AI initialized successfully")

	// Initialize Qdrant-backed candidate search
	searchService, err := services.NewCandidateSearchService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
		geminiService,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	if err := searchService.InitCollection(); err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant collection: %v", err)
	}
	log.Println("✅ Qdrant initialized successfully")

	// Initialize domain services
	analyzerService := services.NewResumeAnalyzerService(
		appRepo,
		storageService,
		pdfParser,
		geminiService,
		searchService,
	)
	interviewService := services.NewInterviewService(geminiService, cfg.Worker.RetryMaxAttempts)
	speechService := services.NewSpeechService(geminiService)
	sessionManager := services.NewSessionManager(appRepo, interviewService, speechService, services.SessionConfig{
		AnswerTimeLimit:  cfg.Interview.AnswerTimeLimit,
		NarrationEnabled: cfg.Interview.NarrationEnabled,
	})
	log.Println("✅ Interview services initialized")

	// Initialize worker
	worker := services.NewWorker(
		appRepo,
		analyzerService,
		cfg.Worker.Concurrency,
		cfg.Worker.PollInterval,
	)
	worker.Start(context.Background())

	// Initialize auth
	jwtService := auth.NewHMACService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	secureCookie := cfg.Server.Env == "production"

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(jwtService, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword, cfg.Auth.TokenTTL, secureCookie)
	jobHandler := handlers.NewJobHandler(jobRepo)
	applicationHandler := handlers.NewApplicationHandler(appRepo, jobRepo)
	uploadHandler := handlers.NewUploadHandler(storageService, pdfParser, cfg.Storage.MaxFileSize)
	analyzeHandler := handlers.NewAnalyzeHandler(analyzerService)
	interviewHandler := handlers.NewInterviewHandler(interviewService, appRepo)
	sessionHandler := handlers.NewSessionHandler(sessionManager, speechService)
	speechHandler := handlers.NewSpeechHandler(speechService)
	searchHandler := handlers.NewSearchHandler(searchService)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "HireFlow API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.BaseURL,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowCredentials: true,
	}))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// Auth
	api.Post("/auth/login", authHandler.HandleLogin)
	api.Post("/auth/logout", authHandler.HandleLogout)

	// Public candidate surface
	api.Get("/jobs", jobHandler.HandleList)
	api.Get("/jobs/:id", jobHandler.HandleGet)
	api.Post("/upload/resume", uploadHandler.HandleUpload)
	api.Get("/resumes/:filename", uploadHandler.HandleDownload)
	api.Post("/applications", applicationHandler.HandleCreate)
	api.Get("/applications/:id", applicationHandler.HandleGet)
	api.Post("/analyze-resume", analyzeHandler.HandleAnalyze)

	// Interview gateway and sessions
	api.Post("/interview", interviewHandler.HandleInterview)
	api.Post("/interview/sessions", sessionHandler.HandleStart)
	api.Get("/interview/sessions/:id", sessionHandler.HandleGet)
	api.Post("/interview/sessions/:id/answer", sessionHandler.HandleAnswer)
	api.Post("/interview/sessions/:id/transcript", sessionHandler.HandleTranscript)
	api.Post("/interview/sessions/:id/submit", sessionHandler.HandleSubmit)
	api.Post("/interview/sessions/:id/retry", sessionHandler.HandleRetry)
	api.Get("/interview/sessions/:id/narration", sessionHandler.HandleNarration)
	api.Post("/interview/sessions/:id/narration/stop", sessionHandler.HandleStopNarration)
	api.Delete("/interview/sessions/:id", sessionHandler.HandleClose)

	// Speech I/O
	api.Post("/transcribe", speechHandler.HandleTranscribe)
	api.Post("/synthesize", speechHandler.HandleSynthesize)

	// Admin surface
	admin := api.Group("/admin", authMiddleware.Middleware())
	admin.Get("/me", authHandler.HandleMe)
	admin.Post("/jobs", jobHandler.HandleCreate)
	admin.Delete("/jobs/:id", jobHandler.HandleDelete)
	admin.Get("/applications", applicationHandler.HandleList)
	admin.Patch("/applications/:id", applicationHandler.HandleShortlist)
	admin.Get("/candidates/search", searchHandler.HandleSearch)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "HireFlow API",
			"version": "1.0.0",
			"endpoints": []string{
				"GET /api/v1/jobs",
				"POST /api/v1/upload/resume",
				"POST /api/v1/applications",
				"POST /api/v1/analyze-resume",
				"POST /api/v1/interview",
				"POST /api/v1/interview/sessions",
				"POST /api/v1/transcribe",
				"POST /api/v1/synthesize",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		worker.Stop()
		sessionManager.Shutdown()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"error": fiberErr.Message,
			"code":  fiberErr.Code,
		})
	}

	code := apperr.StatusCode(err)
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"type":  apperr.Code(err),
		"code":  code,
	})
}
