package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"reqwire/internal/auth"
	"reqwire/internal/changefeed"
	"reqwire/internal/config"
	"reqwire/internal/handler"
	"reqwire/internal/handler/sse"
	"reqwire/internal/middleware"
	"reqwire/internal/migrate"
	"reqwire/internal/pipeline"
	"reqwire/internal/ratelimit"
	"reqwire/internal/repository/postgres"
	"reqwire/internal/service"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	ctx := context.Background()

	// Apply pending migrations before anything touches the tables
	if err := migrate.Up(ctx, cfg.DatabaseURL, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("migrations applied")

	// Create JWT verifier against the auth provider's JWKS
	jwtVerifier, err := auth.NewJWTVerifier(cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Create pgx connection pool
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected")

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	projectRepo := postgres.NewProjectRepository(repoConfig)
	reqRepo := postgres.NewRequirementRepository(repoConfig)
	collRepo := postgres.NewCollectionRepository(repoConfig)
	docRepo := postgres.NewExternalDocRepository(repoConfig)
	profileRepo := postgres.NewUserProfileRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Create services
	projectService := service.NewProjectService(projectRepo, reqRepo, txManager, logger)
	reqService := service.NewRequirementService(reqRepo, projectRepo, logger)
	collService := service.NewCollectionService(collRepo, logger)
	docService := service.NewExternalDocService(docRepo, collRepo, logger)
	profileService := service.NewProfileService(profileRepo, projectRepo, reqRepo, txManager, logger)

	// Change feed: one LISTEN connection fanned out by the broker. A lost
	// feed closes every subscriber stream; clients resubscribe and refetch.
	broker := changefeed.NewBroker(logger)
	listener := changefeed.NewListener(pool, cfg.NotifyChannel, broker, logger)
	listenerCtx, stopListener := context.WithCancel(ctx)
	defer stopListener()
	go func() {
		if err := listener.Run(listenerCtx); err != nil && listenerCtx.Err() == nil {
			logger.Error("change feed stopped", "error", err)
		}
	}()

	// Rate limiter with per-family rules
	defaultRule, familyRules, err := ratelimit.LoadRules(cfg.RateLimitConfigPath)
	if err != nil {
		log.Fatalf("Failed to load rate limit rules: %v", err)
	}
	limiter := ratelimit.New(defaultRule, familyRules)
	defer limiter.Close()

	// Pipeline client (proxied; the API key never reaches browsers)
	pipelineClient := pipeline.New(cfg.PipelineBaseURL, cfg.PipelineAPIKey, cfg.PipelineUserID, cfg.PipelineWorkflowID)

	// Create handlers
	projectHandler := handler.NewProjectHandler(projectService, logger)
	reqHandler := handler.NewRequirementHandler(reqService, logger)
	collHandler := handler.NewCollectionHandler(collService, logger)
	docHandler := handler.NewExternalDocHandler(docService, logger)
	profileHandler := handler.NewProfileHandler(profileService, logger)
	eventsHandler := handler.NewEventsHandler(broker, tables, sse.DefaultConfig(), logger)
	pipelineHandler := handler.NewPipelineHandler(pipelineClient, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", projectHandler.HealthCheck)

	// Project routes
	mux.HandleFunc("GET /api/projects", projectHandler.ListProjects)
	mux.HandleFunc("POST /api/projects", projectHandler.CreateProject)
	mux.HandleFunc("GET /api/projects/{id}", projectHandler.GetProject)
	mux.HandleFunc("PATCH /api/projects/{id}", projectHandler.UpdateProject)
	mux.HandleFunc("DELETE /api/projects/{id}", projectHandler.DeleteProject)

	// Requirement routes
	mux.HandleFunc("GET /api/requirements", reqHandler.ListRequirements)
	mux.HandleFunc("POST /api/requirements", reqHandler.CreateRequirement)
	mux.HandleFunc("GET /api/requirements/events", eventsHandler.StreamRequirements) // Must come before {id} route
	mux.HandleFunc("GET /api/requirements/{id}", reqHandler.GetRequirement)
	mux.HandleFunc("PATCH /api/requirements/{id}", reqHandler.UpdateRequirement)
	mux.HandleFunc("DELETE /api/requirements/{id}", reqHandler.DeleteRequirement)
	mux.HandleFunc("POST /api/requirements/{id}/analysis", reqHandler.ApplyAnalysis)

	// Collection routes
	mux.HandleFunc("GET /api/collections", collHandler.ListCollections)
	mux.HandleFunc("POST /api/collections", collHandler.CreateCollection)
	mux.HandleFunc("GET /api/collections/{id}", collHandler.GetCollection)
	mux.HandleFunc("PATCH /api/collections/{id}", collHandler.UpdateCollection)
	mux.HandleFunc("DELETE /api/collections/{id}", collHandler.DeleteCollection)

	// External doc routes
	mux.HandleFunc("GET /api/docs", docHandler.ListExternalDocs)
	mux.HandleFunc("POST /api/docs", docHandler.CreateExternalDoc)
	mux.HandleFunc("GET /api/docs/{id}", docHandler.GetExternalDoc)
	mux.HandleFunc("PATCH /api/docs/{id}", docHandler.UpdateExternalDoc)
	mux.HandleFunc("DELETE /api/docs/{id}", docHandler.DeleteExternalDoc)

	// Profile and onboarding routes
	mux.HandleFunc("GET /api/users/me/profile", profileHandler.GetProfile)
	mux.HandleFunc("PATCH /api/users/me/profile", profileHandler.UpdateProfile)
	mux.HandleFunc("POST /api/users/me/onboarding", profileHandler.Onboard)

	// Pipeline proxy routes (stricter rate limit family)
	mux.HandleFunc("POST /api/pipeline/upload", pipelineHandler.UploadDocument)
	mux.HandleFunc("POST /api/pipeline/runs", pipelineHandler.StartRun)
	mux.HandleFunc("GET /api/pipeline/runs/{id}", pipelineHandler.RunStatus)

	// Build middleware chain
	var root http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → RateLimit → Routes
	root = middleware.RateLimit(limiter, logger)(root)
	root = middleware.Auth(jwtVerifier, logger)(root)
	root = middleware.Recovery(logger)(root)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", "Last-Event-ID"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // Disabled to allow long-lived SSE streams
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	logger.Info("listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
