package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	database "github.com/roamerhq/roamer/app/db"
	appLogger "github.com/roamerhq/roamer/app/logger"
	"github.com/roamerhq/roamer/app/observability/metrics"
	"github.com/roamerhq/roamer/app/tracer"
	"github.com/roamerhq/roamer/config"
	"github.com/roamerhq/roamer/internal/api/attractions"
	"github.com/roamerhq/roamer/internal/api/conversation"
	generativeAI "github.com/roamerhq/roamer/internal/api/generative_ai"
	"github.com/roamerhq/roamer/internal/api/interactions"
	"github.com/roamerhq/roamer/internal/api/logistics"
	"github.com/roamerhq/roamer/internal/api/planner"
	apiRouter "github.com/roamerhq/roamer/internal/router"
)

func main() {
	// Use standard log until slog is configured, in case godotenv fails.
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	logger := setupLogger()
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := tracer.InitTracingAndMetrics(cfg.Metrics.Port, logger); err != nil {
		logger.Error("Failed to initialize tracing and metrics", slog.Any("error", err))
		os.Exit(1)
	}
	metrics.InitAppMetrics()

	// The interaction log is optional: without Postgres every model call is
	// simply not audited.
	var recorder generativeAI.Recorder = interactions.NoopRecorder{}
	if cfg.InteractionLogEnabled() {
		dbConfig, err := database.NewDatabaseConfig(&cfg, logger)
		if err != nil {
			logger.Error("Failed to generate database config", slog.Any("error", err))
			os.Exit(1)
		}
		if err := database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
			logger.Error("Failed to run database migrations", slog.Any("error", err))
			os.Exit(1)
		}
		pool, err := database.Init(dbConfig.ConnectionURL, logger)
		if err != nil {
			logger.Error("Failed to initialize database pool", slog.Any("error", err))
			os.Exit(1)
		}
		defer pool.Close()
		if !database.WaitForDB(ctx, pool, logger) {
			logger.Error("Database not ready after waiting, exiting.")
			os.Exit(1)
		}
		interactionRepo := interactions.NewPostgresInteractionRepo(pool, logger)
		recorder = interactions.NewRepositoryRecorder(interactionRepo, logger)
	}

	aiClient, err := generativeAI.NewAIClient(ctx, cfg.LLM.Model, recorder)
	if err != nil {
		logger.Error("Failed to create AI client", slog.Any("error", err))
		os.Exit(1)
	}

	// --- Dependency injection ---
	conversationSvc := conversation.NewConversationService(aiClient, cfg.LLM.TokensParsing, logger)
	attractionSvc := attractions.NewAttractionService(aiClient, cfg.LLM.TokensAttraction, logger)
	logisticSvc := logistics.NewLogisticService(aiClient, cfg.LLM.TokensItinerary, cfg.LLM.TokensTransport, logger)
	sessionStore := planner.NewSessionStore(cfg.Session.TTL, cfg.Session.CleanupInterval)
	plannerSvc := planner.NewPlannerService(conversationSvc, attractionSvc, logisticSvc, sessionStore, logger)
	plannerHandler := planner.NewPlannerHandler(plannerSvc, logger)

	mainRouter := apiRouter.SetupRouter(&apiRouter.Config{
		PlannerHandler: plannerHandler,
	})

	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(appLogger.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.StripSlashes)
	router.Use(middleware.Timeout(cfg.Server.Timeout))
	router.Use(middleware.Compress(5, "application/json"))
	router.Mount("/", mainRouter)

	serverAddress := fmt.Sprintf(":%s", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddress,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 2 * time.Minute, // planning turns make several model calls
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	go func() {
		logger.Info("Starting HTTP server", slog.String("address", serverAddress))
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server ListenAndServe error", slog.Any("error", err))
			cancel()
		}
	}()

	<-ctx.Done()

	logger.Info("Shutdown signal received, starting graceful shutdown...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", slog.Any("error", err))
	} else {
		logger.Info("HTTP server gracefully stopped")
	}
	logger.Info("Application shut down complete.")
}

// setupLogger configures and returns the application logger.
func setupLogger() *slog.Logger {
	var logger *slog.Logger
	env := os.Getenv("APP_ENV")

	if env == "development" || env == "" {
		tintOpts := &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}
		logger = slog.New(tint.NewHandler(os.Stdout, tintOpts))
		log.Println("Initialized development logger (tint)")
	} else {
		jsonOpts := &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}
		logger = slog.New(slog.NewJSONHandler(os.Stdout, jsonOpts))
		log.Println("Initialized production logger (JSON)")
	}
	return logger
}
