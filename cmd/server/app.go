package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/Jorik-creator/microvolunteer/internal/config"
	"github.com/Jorik-creator/microvolunteer/internal/platform/postgres"
	"github.com/Jorik-creator/microvolunteer/internal/service"
	"github.com/Jorik-creator/microvolunteer/internal/service/auth"
	"github.com/Jorik-creator/microvolunteer/internal/service/participation"
	"github.com/Jorik-creator/microvolunteer/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	userStore          store.UserStore
	taskStore          store.TaskStore
	categoryStore      store.CategoryStore
	participationStore store.ParticipationStore

	// Services
	jwtService           auth.JWTService
	passwordVerifier     auth.PasswordVerifier
	taskService          service.TaskService
	categoryService      service.CategoryService
	participationService participation.ParticipationService
}

// newApplication creates a new application instance with all dependencies
// initialized. Configuration, logging, and the database connection must be
// established before calling it.
func newApplication(cfg *config.Config, log *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: log,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	log.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordVerifier = auth.NewBcryptVerifier()

	app.userStore = postgres.NewPostgresUserStore(db, cfg.Auth.BcryptCost, log)
	app.taskStore = postgres.NewPostgresTaskStore(db, log)
	app.categoryStore = postgres.NewPostgresCategoryStore(db, log)
	app.participationStore = postgres.NewPostgresParticipationStore(db, log)

	authz := service.NewStoreAuthorizationPolicy(app.userStore, app.taskStore)

	app.participationService = participation.NewParticipationService(
		participation.NewTaskRepositoryAdapter(app.taskStore, db),
		participation.NewParticipationRepositoryAdapter(app.participationStore),
		authz,
		log,
	)

	app.taskService, err = service.NewTaskService(
		db,
		app.taskStore,
		app.participationStore,
		authz,
		log,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	app.categoryService, err = service.NewCategoryService(app.categoryStore, authz, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create category service: %w", err)
	}

	log.Info("Application initialized successfully")
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
