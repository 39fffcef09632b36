package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/mcplanning/backend/internal/api/http"
	"github.com/mcplanning/backend/internal/api/mail"
	"github.com/mcplanning/backend/internal/api/service"
	"github.com/mcplanning/backend/internal/api/store"
	"github.com/mcplanning/backend/internal/api/store/drivers/sqlite"
	"github.com/mcplanning/backend/pkg/cryptox"
	"github.com/mcplanning/backend/pkg/jwtx"
	"github.com/mcplanning/backend/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the API server with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db            store.Store
	accessSigner  *jwtx.Signer
	refreshSigner *jwtx.Signer

	// Services
	authService       *service.AuthService
	invitationService *service.InvitationService
	employeeService   *service.EmployeeService
	planningService   *service.PlanningService
	requestService    *service.RequestService
	adminService      *service.AdminService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "mcplanning-api",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	cryptox.SetCost(cfg.BcryptCost)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	if err := app.initSigners(); err != nil {
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("api starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down api...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("api stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initSigners builds the two token signers. Separate secrets keep the
// access and refresh token spaces disjoint.
func (app *Application) initSigners() error {
	accessSigner, err := jwtx.NewSigner([]byte(app.cfg.JWTSecret), app.cfg.Issuer, app.cfg.JWTExpiresIn)
	if err != nil {
		return fmt.Errorf("failed to initialize access signer: %w", err)
	}
	refreshSigner, err := jwtx.NewSigner([]byte(app.cfg.RefreshSecret), app.cfg.Issuer, app.cfg.RefreshExpiresIn)
	if err != nil {
		return fmt.Errorf("failed to initialize refresh signer: %w", err)
	}

	app.accessSigner = accessSigner
	app.refreshSigner = refreshSigner
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.authService = &service.AuthService{
		Store:         app.db,
		AccessSigner:  app.accessSigner,
		RefreshSigner: app.refreshSigner,
	}

	var notifier service.Notifier
	if app.cfg.ResendAPIKey != "" {
		notifier = mail.NewResendNotifier(app.cfg.ResendAPIKey, app.cfg.ResendFrom)
	} else {
		app.logger.Warn("no RESEND_API_KEY configured, invitation emails disabled")
		notifier = mail.NoopNotifier{}
	}

	app.invitationService = &service.InvitationService{
		Store:       app.db,
		Notifier:    notifier,
		FrontendURL: app.cfg.FrontendURL,
	}
	app.employeeService = &service.EmployeeService{Store: app.db}
	app.planningService = &service.PlanningService{Store: app.db}
	app.requestService = &service.RequestService{Store: app.db}
	app.adminService = &service.AdminService{Store: app.db}
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.accessSigner,
		BuildVersion,
		app.db,
		app.logger,
	)

	// Wire services to router
	router.AuthService = app.authService
	router.InvitationService = app.invitationService
	router.EmployeeService = app.employeeService
	router.PlanningService = app.planningService
	router.RequestService = app.requestService
	router.AdminService = app.adminService
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
