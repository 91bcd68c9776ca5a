// internal/app/backend.go
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/ammerola/voucher-ledger/internal/adapters/db"
	"github.com/ammerola/voucher-ledger/internal/adapters/memstore"
	redis_a "github.com/ammerola/voucher-ledger/internal/adapters/redis_adapter"
	"github.com/ammerola/voucher-ledger/internal/adapters/storage"
	"github.com/ammerola/voucher-ledger/internal/core/ports"
	"github.com/ammerola/voucher-ledger/internal/pkg/config"
	"github.com/ammerola/voucher-ledger/internal/report"
)

// Backend is the opened ledger store together with the connections it
// holds. Database and Redis are nil unless the backend uses them.
type Backend struct {
	Store    ports.Store
	Database *db.Database
	Redis    *redis.Client
	closers  []func()
}

// HealthDatabase returns the database as a port, or a nil interface when
// the backend has none.
func (b *Backend) HealthDatabase() ports.Database {
	if b.Database == nil {
		return nil
	}
	return b.Database
}

// Close releases every connection in reverse order of opening.
func (b *Backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
	b.closers = nil
}

// OpenBackend connects the store selected by cfg.Store.Backend.
func OpenBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Backend, error) {
	b := &Backend{}

	logger.Info("opening ledger store", slog.String("backend", cfg.Store.Backend))

	switch cfg.Store.Backend {
	case config.BackendMemory:
		b.Store = memstore.New()

	case config.BackendRedis:
		client := NewRedisClient(cfg)
		cache := redis_a.NewCache(client, logger)
		if err := cache.Ping(ctx); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		b.Redis = client
		b.closers = append(b.closers, func() { client.Close() })

		b.Store = redis_a.NewStore(cache, redis_a.CacheKeyPrefix(cfg.Store.RedisPrefix))

	case config.BackendPostgres:
		logger.Info("connecting to database",
			slog.String("host", cfg.Database.Host),
			slog.String("database", cfg.Database.Name))

		database, err := db.NewDatabase(ctx, DatabaseConfig(cfg), logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		b.Database = database
		b.closers = append(b.closers, database.Close)

		migrationConfig := db.MigrationConfig{DatabaseURL: cfg.GetDatabaseURL()}
		if err := db.MigrateSchema(ctx, migrationConfig, logger, 3); err != nil {
			b.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		b.Store = db.NewBlobStore(database.SQL(), logger)

	case config.BackendS3:
		client, err := OpenObjectStorage(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		b.Store = storage.NewS3Store(client, cfg.Store.S3Prefix)

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	return b, nil
}

// OpenObjectStorage returns the S3 bucket client, or a local directory when
// no bucket is configured.
func OpenObjectStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.StorageClient, error) {
	if cfg.AWS.S3Bucket == "" {
		logger.Warn("no S3 bucket configured, using local storage",
			slog.String("dir", cfg.Store.LocalDir))
		client, err := storage.NewLocalStorage(cfg.Store.LocalDir, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local storage: %w", err)
		}
		return client, nil
	}

	client, err := storage.NewS3Storage(ctx, &storage.S3Config{
		Region:          cfg.AWS.Region,
		Bucket:          cfg.AWS.S3Bucket,
		AccessKeyID:     cfg.AWS.AccessKeyID,
		SecretAccessKey: cfg.AWS.SecretAccessKey,
		Endpoint:        cfg.AWS.S3Endpoint,
		UsePathStyle:    cfg.AWS.UsePathStyle,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize S3 storage: %w", err)
	}
	return client, nil
}

// NewRedisClient builds a client from the Redis section.
func NewRedisClient(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		MaxRetries:   cfg.Redis.MaxRetries,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		PoolTimeout:  cfg.Redis.PoolTimeout,
	})
}

// DatabaseConfig maps the Database section onto the pool configuration.
func DatabaseConfig(cfg *config.Config) *db.Config {
	return &db.Config{
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		User:               cfg.Database.User,
		Password:           cfg.Database.Password,
		Database:           cfg.Database.Name,
		SSLMode:            cfg.Database.SSLMode,
		MaxConnections:     cfg.Database.MaxConnections,
		MinConnections:     cfg.Database.MinConnections,
		MaxConnLifetime:    cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:    cfg.Database.MaxConnIdleTime,
		HealthCheckPeriod:  cfg.Database.HealthCheckPeriod,
		ConnectTimeout:     cfg.Database.ConnectTimeout,
		StatementCacheMode: cfg.Database.StatementCacheMode,
		EnableQueryLogging: cfg.Database.EnableQueryLogging,
	}
}

// AsynqRedis returns the connection options of the job queue.
func AsynqRedis(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Asynq.RedisAddr,
		Password: cfg.Asynq.RedisPassword,
		DB:       cfg.Asynq.RedisDB,
	}
}

// ReportOptions carries the shop details from the Business section.
func ReportOptions(cfg *config.Config) report.Options {
	opts := report.DefaultOptions()
	if cfg.Business.ShopName != "" {
		opts.ShopName = cfg.Business.ShopName
	}
	if cfg.Business.Reporter != "" {
		opts.Reporter = cfg.Business.Reporter
	}
	opts.Location = cfg.Business.Location()
	return opts
}
