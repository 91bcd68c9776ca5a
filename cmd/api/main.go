// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/ammerola/voucher-ledger/internal/app"
	"github.com/ammerola/voucher-ledger/internal/core/services"
	"github.com/ammerola/voucher-ledger/internal/handlers"
	"github.com/ammerola/voucher-ledger/internal/handlers/middleware"
	"github.com/ammerola/voucher-ledger/internal/importer"
	"github.com/ammerola/voucher-ledger/internal/pkg/config"
	"github.com/ammerola/voucher-ledger/internal/pkg/logger"
)

// Build information injected at compile time
var (
	Version   = "dev"
	BuildTime = "unknown"
	GoVersion = "unknown"
)

func main() {
	slogger := logger.SetupLogger(logger.LogConfig{Level: "debug", Format: "json", Output: "stdout"})

	slogger.Info("starting voucher ledger API",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
		slog.String("go_version", GoVersion),
	)

	cfg, err := config.Load(slogger.Logger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Reconfigure logger with loaded settings
	slogger = logger.SetupLogger(logger.LogConfig{
		Level:          cfg.App.LogLevel,
		Format:         cfg.App.LogFormat,
		Output:         "stdout",
		AddSource:      cfg.App.Debug,
		Environment:    cfg.App.Environment,
		ServiceName:    cfg.App.Name,
		ServiceVersion: Version,
	})
	slogger.Info("configuration loaded",
		slog.String("environment", cfg.App.Environment),
		slog.String("store", cfg.Store.Backend),
		slog.String("log_level", cfg.App.LogLevel),
	)

	if err := run(cfg, slogger.Logger); err != nil {
		slogger.Error("server stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx := context.Background()

	sm, err := config.NewSecretsManager(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if err := config.ApplySecrets(ctx, cfg, sm); err != nil {
		return err
	}

	deps, err := initializeDependencies(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer deps.cleanup()

	server := setupHTTPServer(cfg, deps, logger)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-shutdown:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
			server.Close()
		}

		// Mutations persist as they happen; this final write covers a store
		// that was unreachable at the time.
		if err := deps.service.Persist(shutdownCtx); err != nil {
			logger.Error("failed to persist ledger on shutdown", slog.String("error", err.Error()))
		}

		logger.Info("server shutdown complete")
	}

	return nil
}

// dependencies holds all application dependencies
type dependencies struct {
	backend        *app.Backend
	asynqClient    *asynq.Client
	asynqInspector *asynq.Inspector
	service        *services.InventoryService
	routes         *handlers.Routes
}

func (d *dependencies) cleanup() {
	if d.asynqClient != nil {
		d.asynqClient.Close()
	}
	if d.asynqInspector != nil {
		d.asynqInspector.Close()
	}
	if d.backend != nil {
		d.backend.Close()
	}
}

func initializeDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*dependencies, error) {
	deps := &dependencies{}

	backend, err := app.OpenBackend(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	deps.backend = backend

	deps.service = services.NewInventoryService(backend.Store, logger)
	if err := deps.service.Load(ctx); err != nil {
		deps.cleanup()
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	// The job queue is optional; without it archive and backup requests
	// answer 503 and everything else works.
	var enqueuer handlers.TaskEnqueuer
	if cfg.Asynq.RedisAddr != "" {
		logger.Info("initializing Asynq client", slog.String("addr", cfg.Asynq.RedisAddr))
		deps.asynqClient = asynq.NewClient(app.AsynqRedis(cfg))
		deps.asynqInspector = asynq.NewInspector(app.AsynqRedis(cfg))
		enqueuer = deps.asynqClient
	}

	deps.routes = &handlers.Routes{
		Providers: handlers.NewProviderHandler(deps.service, logger),
		Vouchers:  handlers.NewVoucherHandler(deps.service, logger),
		Sales:     handlers.NewSaleHandler(deps.service, logger),
		Import: handlers.NewImportHandler(
			deps.service,
			importer.NewXLSXReader(logger),
			importer.NewPDFReader(logger),
			cfg.Import.MaxUploadBytes(),
			cfg.Import.UploadDir(),
			logger,
		),
		Reports:   handlers.NewReportHandler(deps.service, enqueuer, app.ReportOptions(cfg), logger),
		Activity:  handlers.NewActivityHandler(deps.service, logger),
		Dashboard: handlers.NewDashboardHandler(deps.service, logger),
		Health: handlers.NewHealthHandler(
			deps.service,
			backend.HealthDatabase(),
			backend.Redis,
			deps.asynqInspector,
			cfg,
			logger,
		),
	}

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

func setupHTTPServer(cfg *config.Config, deps *dependencies, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	deps.routes.Register(mux)

	mws := []middleware.Middleware{
		middleware.RequestID(cfg.Security.RequestIDHeader),
		middleware.Logger(logger),
		middleware.Recovery(logger),
	}
	if cfg.Security.RateLimitRequests > 0 {
		mws = append(mws, middleware.RateLimit(cfg.Security.RateLimitRequests, cfg.Security.RateLimitDuration))
	}
	if len(cfg.Security.AllowedOrigins) > 0 {
		mws = append(mws, middleware.CORS(cfg.Security.AllowedOrigins, cfg.Security.RequestIDHeader))
	}
	if cfg.Security.SecureHeaders {
		mws = append(mws, middleware.SecureHeaders)
	}
	mws = append(mws, middleware.Timeout(cfg.Server.RequestTimeout))

	return &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        middleware.Chain(mux, mws...),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}
}
