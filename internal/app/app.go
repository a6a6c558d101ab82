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

	"github.com/getsentry/sentry-go"

	httpapi "github.com/bookvault/server/internal/http"
	"github.com/bookvault/server/internal/service"
	"github.com/bookvault/server/internal/store"
	"github.com/bookvault/server/internal/store/drivers/sqlite"
	"github.com/bookvault/server/pkg/cryptox"
	"github.com/bookvault/server/pkg/jwtx"
	"github.com/bookvault/server/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application wires the store, services and HTTP server together.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db     store.Store
	signer *jwtx.Signer

	tokenService        *service.TokenService
	authService         *service.AuthService
	mfaService          *service.MFAService
	bookService         *service.BookService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "bookvault",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if cfg.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.Env,
			Release:          BuildVersion,
			AttachStacktrace: true,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize sentry: %w", err)
		}
	}

	// Set pepper path for password hashing
	cryptox.SetPepperPath(app.cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initSigner(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("bookvault starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

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

// Shutdown gracefully stops the server, the housekeeping worker and the
// database.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down bookvault...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if app.cfg.SentryDSN != "" {
		sentry.Flush(2 * time.Second)
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("bookvault stopped")
	return nil
}

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

// initSigner loads the Ed25519 signing key from TOKEN_KEY_FILE, or generates
// an ephemeral one. Ephemeral keys invalidate all tokens on restart.
func (app *Application) initSigner() error {
	var pemKey []byte

	if app.cfg.TokenKeyFile != "" {
		data, err := os.ReadFile(app.cfg.TokenKeyFile)
		if err != nil {
			return fmt.Errorf("failed to read signing key: %w", err)
		}
		pemKey = data
	} else {
		data, err := cryptox.GenerateEd25519Key()
		if err != nil {
			return fmt.Errorf("failed to generate signing key: %w", err)
		}
		pemKey = data
		app.logger.Warn("using ephemeral signing key; tokens will not survive restart")
	}

	signer, err := jwtx.NewSigner(pemKey)
	if err != nil {
		return fmt.Errorf("failed to load signing key: %w", err)
	}
	if err := signer.Validate(); err != nil {
		return fmt.Errorf("signing key failed validation: %w", err)
	}
	app.signer = signer
	return nil
}

func (app *Application) initServices() {
	app.tokenService = &service.TokenService{
		Signer:   app.signer,
		Verifier: jwtx.NewVerifier(app.signer.PublicKey(), app.cfg.Issuer),
		Issuer:   app.cfg.Issuer,
		TTL:      app.cfg.TokenTTL,
	}

	totpEngine := &service.TOTPEngine{Issuer: app.cfg.Issuer}
	throttle := service.NewLoginThrottle(app.cfg.LockoutThreshold, app.cfg.LockoutWindow)

	app.authService = &service.AuthService{
		Store:    app.db,
		Tokens:   app.tokenService,
		TOTP:     totpEngine,
		Throttle: throttle,
	}
	app.mfaService = &service.MFAService{
		Store: app.db,
		TOTP:  totpEngine,
	}
	app.bookService = &service.BookService{Store: app.db}

	app.housekeepingService = service.NewHousekeepingService(
		throttle,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.tokenService,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.AuthService = app.authService
	router.MFAService = app.mfaService
	router.BookService = app.bookService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
