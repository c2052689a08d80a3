package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/riya23dhim/task-management-ai/internal/config"
	"github.com/riya23dhim/task-management-ai/internal/platform/gemini"
	"github.com/riya23dhim/task-management-ai/internal/platform/postgres"
	"github.com/riya23dhim/task-management-ai/internal/service"
	"github.com/riya23dhim/task-management-ai/internal/service/auth"
	"github.com/riya23dhim/task-management-ai/internal/store"
	"github.com/riya23dhim/task-management-ai/internal/summarize"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	userStore store.UserStore
	taskStore store.TaskStore

	// Service interfaces
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	summarizer       summarize.Summarizer
	taskService      service.TaskService
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before application
// initialization.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordVerifier = auth.NewBcryptVerifier()

	app.userStore = postgres.NewPostgresUserStore(db, cfg.Auth.BcryptCost, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db, logger)

	app.summarizer, err = gemini.NewSummarizer(
		ctx,
		logger.With("component", "llm_summarizer"),
		cfg.LLM,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize summarizer: %w", err)
	}
	logger.Info("LLM summarizer initialized", "model", cfg.LLM.ModelName)

	app.taskService, err = service.NewTaskService(
		db,
		app.taskStore,
		app.summarizer,
		cfg.LLM.RequestTimeout(),
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
