package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/callguardhq/callguard/pkg/validator"

	"github.com/callguardhq/callguard/internal/adapter/handler"
	"github.com/callguardhq/callguard/internal/adapter/repository"
	"github.com/callguardhq/callguard/internal/infrastructure/cache"
	"github.com/callguardhq/callguard/internal/infrastructure/database"
	"github.com/callguardhq/callguard/internal/infrastructure/storage"
	calluse "github.com/callguardhq/callguard/internal/usecase/call"
	"github.com/callguardhq/callguard/internal/usecase/compliance"
	"github.com/callguardhq/callguard/internal/usecase/pipeline"
	"github.com/callguardhq/callguard/internal/usecase/report"
	pkgai "github.com/callguardhq/callguard/pkg/ai"
	"github.com/callguardhq/callguard/pkg/config"
	"github.com/callguardhq/callguard/pkg/jwt"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	// Run migrations only when explicitly enabled in config.
	// Production deployments should manage schema via sql-migrate.
	if cfg.Database.AutoMigrate {
		if cfg.Server.Environment == "production" {
			log.Fatalf("AutoMigrate is enabled in production. Disable DB_AUTO_MIGRATE or manage schema with sql-migrate.")
		}
		log.Println("🔄 Applying migrations (development only) ...")
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	} else {
		log.Println("🔄 Skipping migrations; use sql-migrate for schema migrations in CI/CD/production")
	}

	// Initialize Redis
	log.Println("📦 Connecting to Redis...")
	redisStore, err := cache.NewRedisStore(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisStore.Close()
	resultCache := cache.NewAnalysisCache(redisStore)

	// Initialize object storage for call recordings
	log.Println("🗄️  Connecting to recording storage...")
	minioClient, err := storage.NewMinIOClient(&cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to connect to storage: %v", err)
	}

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	callRepo := repository.NewCallRepository(db)
	transcriptRepo := repository.NewTranscriptRepository(db)
	issueRepo := repository.NewIssueRepository(db)
	jobRepo := repository.NewAnalysisJobRepository(db)

	// Load the rule catalog. Catalog errors are fatal: a service with a
	// broken rule set must not start.
	log.Println("📋 Loading compliance rule catalog...")
	var catalog *compliance.Catalog
	if cfg.Compliance.RulesFile != "" {
		catalog, err = compliance.LoadCatalogFile(cfg.Compliance.RulesFile)
	} else {
		catalog, err = compliance.LoadDefaultCatalog()
	}
	if err != nil {
		log.Fatalf("Failed to load rule catalog: %v", err)
	}
	log.Printf("✅ Rule catalog loaded: %d rules", len(catalog.Rules()))

	// Initialize the external analyzer. Without an agent ID the engine
	// runs deterministic-only.
	var analyzer compliance.Analyzer
	if cfg.Toolhouse.AgentID != "" {
		log.Println("🤖 Initializing external compliance analyzer...")
		analyzer = pkgai.NewToolhouseClient(&cfg.Toolhouse)
	} else {
		log.Println("⚠️  No Toolhouse agent configured; escalation disabled")
	}

	engine := compliance.NewEngine(catalog, analyzer, compliance.EngineConfig{
		EscalationThreshold: cfg.Compliance.EscalationThreshold,
		ContextWindow:       cfg.Compliance.ContextWindow,
		AnalyzerTimeout:     cfg.Compliance.AnalyzerTimeout,
	}, logger)

	// Initialize services
	log.Println("✨ Initializing services...")
	callService := calluse.NewService(callRepo, transcriptRepo, issueRepo, engine, resultCache, logger)
	pipelineService := pipeline.NewService(jobRepo, transcriptRepo, callRepo, issueRepo, engine, resultCache, cfg, logger)
	reportGenerator := report.NewGenerator()

	// Start the background analysis worker pool
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	if err := pipelineService.StartWorkerPool(workerCtx, cfg.Compliance.WorkerCount); err != nil {
		log.Fatalf("Failed to start worker pool: %v", err)
	}

	// Initialize JWT manager
	log.Println("🔑 Initializing JWT manager...")
	jwtManager := jwt.NewManager(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	// Initialize handlers
	log.Println("🚀 Initializing handlers...")
	callHandler := handler.NewCallHandler(callService, pipelineService, minioClient, logger)
	issueHandler := handler.NewIssueHandler(callService, logger)
	reportHandler := handler.NewReportHandler(callService, reportGenerator, logger)
	webhookHandler := handler.NewTranscriptionWebhookHandler(pipelineService, logger)
	pipelineCtrl := handler.NewPipelineController(pipelineService, logger)
	storageHandler := handler.NewStorageHandler(minioClient, logger)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(cfg, jwtManager, callHandler, issueHandler, reportHandler, webhookHandler, pipelineCtrl, storageHandler)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	if err := pipelineService.StopWorkerPool(); err != nil {
		log.Printf("⚠️  Worker pool shutdown: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
