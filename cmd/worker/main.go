// cmd/worker/main.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/voucher-ledger/internal/app"
	"github.com/ammerola/voucher-ledger/internal/pkg/config"
	"github.com/ammerola/voucher-ledger/internal/pkg/logger"
	"github.com/ammerola/voucher-ledger/internal/workers"
)

func main() {
	slogger := logger.SetupLogger(logger.LogConfig{Level: "info", Format: "json", Output: "stdout"})

	cfg, err := config.Load(slogger.Logger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Reconfigure logger with loaded settings
	slogger = logger.SetupLogger(logger.LogConfig{
		Level:       cfg.App.LogLevel,
		Format:      cfg.App.LogFormat,
		Output:      "stdout",
		Environment: cfg.App.Environment,
		ServiceName: cfg.App.Name + "-worker",
	})
	slogger.Info("starting worker",
		slog.String("environment", cfg.App.Environment),
		slog.String("store", cfg.Store.Backend),
		slog.String("redis_addr", cfg.Asynq.RedisAddr))

	if err := run(cfg, slogger.Logger); err != nil {
		slogger.Error("worker stopped with error", slog.String("error", err.Error()))
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

	if cfg.Store.Backend == config.BackendMemory {
		logger.Warn("memory store is private to each process; backups and archives will be empty")
	}

	backend, err := app.OpenBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer backend.Close()

	objects, err := app.OpenObjectStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}

	redisOpt := app.AsynqRedis(cfg)
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency:     cfg.Asynq.Concurrency,
		Queues:          cfg.Asynq.Queues,
		StrictPriority:  cfg.Asynq.StrictPriority,
		ErrorHandler:    asynq.ErrorHandlerFunc(handleError),
		RetryDelayFunc:  exponentialBackoff,
		ShutdownTimeout: cfg.Asynq.ShutdownTimeout,
		HealthCheckFunc: healthCheck,
		Logger:          newAsynqLogger(logger),
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(workers.TypeLedgerBackup,
		workers.NewBackupProcessor(backend.Store, objects, logger).ProcessBackup)
	mux.HandleFunc(workers.TypeReportArchive,
		workers.NewArchiveProcessor(backend.Store, objects, app.ReportOptions(cfg), logger).ProcessArchive)
	mux.HandleFunc(workers.TypeCleanupTempFiles,
		workers.NewCleanupProcessor(cfg.Import.UploadDir(), cfg.Import.TempFileMaxAge, logger).CleanupTempFiles)

	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{
		Location: cfg.Business.Location(),
		Logger:   newAsynqLogger(logger),
		PostEnqueueFunc: func(info *asynq.TaskInfo, err error) {
			if err != nil {
				logger.Error("failed to enqueue scheduled task", slog.String("error", err.Error()))
				return
			}
			logger.Info("scheduled task enqueued",
				slog.String("type", info.Type),
				slog.String("task_id", info.ID))
		},
	})
	if err := registerSchedules(scheduler, cfg); err != nil {
		return err
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	if err := srv.Start(mux); err != nil {
		return fmt.Errorf("failed to start worker server: %w", err)
	}
	if err := scheduler.Start(); err != nil {
		srv.Shutdown()
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	logger.Info("worker started successfully",
		slog.Int("concurrency", cfg.Asynq.Concurrency),
		slog.Any("queues", cfg.Asynq.Queues))

	sig := <-shutdown
	logger.Info("shutdown signal received", slog.String("signal", sig.String()))

	scheduler.Shutdown()
	srv.Shutdown()
	logger.Info("worker shutdown complete")
	return nil
}

// registerSchedules adds the periodic tasks. An empty cron spec disables
// the matching task.
func registerSchedules(scheduler *asynq.Scheduler, cfg *config.Config) error {
	if cfg.Asynq.BackupCron != "" {
		task, err := workers.NewBackupTask(workers.BackupPayload{Reason: "scheduled"})
		if err != nil {
			return err
		}
		if _, err := scheduler.Register(cfg.Asynq.BackupCron, task); err != nil {
			return fmt.Errorf("failed to schedule backup: %w", err)
		}
	}

	if cfg.Asynq.ArchiveCron != "" {
		task, err := workers.NewArchiveTask(workers.ArchivePayload{RequestedBy: "scheduler"})
		if err != nil {
			return err
		}
		if _, err := scheduler.Register(cfg.Asynq.ArchiveCron, task); err != nil {
			return fmt.Errorf("failed to schedule archive: %w", err)
		}
	}

	if cfg.Import.CleanupInterval > 0 {
		spec := "@every " + cfg.Import.CleanupInterval.String()
		if _, err := scheduler.Register(spec, workers.NewCleanupTask()); err != nil {
			return fmt.Errorf("failed to schedule cleanup: %w", err)
		}
	}

	return nil
}

func handleError(ctx context.Context, task *asynq.Task, err error) {
	slog.ErrorContext(ctx, "task processing failed",
		slog.String("type", task.Type()),
		slog.String("payload", string(task.Payload())),
		slog.String("error", err.Error()))
}

func exponentialBackoff(n int, e error, t *asynq.Task) time.Duration {
	baseDelay := time.Second
	maxDelay := 10 * time.Minute
	delay := baseDelay * time.Duration(1<<uint(n))
	if delay > maxDelay {
		delay = maxDelay
	}
	return delay
}

func healthCheck(err error) {
	if err != nil {
		slog.Error("worker health check failed", slog.String("error", err.Error()))
	}
}

// asynqLogger adapts slog for Asynq
type asynqLogger struct {
	logger *slog.Logger
}

func newAsynqLogger(logger *slog.Logger) *asynqLogger {
	return &asynqLogger{
		logger: logger.With(slog.String("component", "asynq")),
	}
}

func (l *asynqLogger) Debug(args ...interface{}) {
	l.logger.Debug(fmt.Sprint(args...))
}

func (l *asynqLogger) Info(args ...interface{}) {
	l.logger.Info(fmt.Sprint(args...))
}

func (l *asynqLogger) Warn(args ...interface{}) {
	l.logger.Warn(fmt.Sprint(args...))
}

func (l *asynqLogger) Error(args ...interface{}) {
	l.logger.Error(fmt.Sprint(args...))
}

func (l *asynqLogger) Fatal(args ...interface{}) {
	l.logger.Error(fmt.Sprint(args...))
	os.Exit(1)
}
