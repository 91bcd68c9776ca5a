// internal/pkg/config/config.go
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingRequiredConfig is returned when a required value is unset.
var ErrMissingRequiredConfig = errors.New("missing required configuration")

// Store backends.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendS3       = "s3"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Asynq    AsynqConfig
	AWS      AWSConfig
	Import   ImportConfig
	Security SecurityConfig
	Server   ServerConfig
	Business BusinessConfig
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Name        string `required:"true"`
	Environment string // development, staging, production
	Version     string
	LogLevel    string
	LogFormat   string // json, text
	Debug       bool
	// SecretsProvider selects where passwords come from: env or aws.
	SecretsProvider string
	SecretName      string
}

// StoreConfig selects where the ledger is persisted
type StoreConfig struct {
	Backend     string `required:"true"`
	RedisPrefix string
	S3Prefix    string
	// LocalDir stands in for the bucket when AWS_S3_BUCKET is empty.
	LocalDir string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxConnections     int32
	MinConnections     int32
	MaxConnLifetime    time.Duration
	MaxConnIdleTime    time.Duration
	HealthCheckPeriod  time.Duration
	ConnectTimeout     time.Duration
	StatementCacheMode string
	EnableQueryLogging bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host         string
	Port         string
	Password     string
	DB           int
	MaxRetries   int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
	MinIdleConns int
	PoolTimeout  time.Duration
}

// Addr returns host:port.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

// AsynqConfig holds Asynq configuration
type AsynqConfig struct {
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	Concurrency     int
	Queues          map[string]int // queue name -> priority
	StrictPriority  bool
	RetryMax        int
	ShutdownTimeout time.Duration
	// BackupCron schedules the ledger backup task; empty disables it.
	BackupCron string
	// ArchiveCron schedules report archiving; empty disables it.
	ArchiveCron string
}

// AWSConfig holds AWS configuration
type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	S3Bucket        string
	S3Endpoint      string // For MinIO in development
	UsePathStyle    bool   // For MinIO compatibility
}

// ImportConfig holds upload handling configuration
type ImportConfig struct {
	MaxUploadMB     int
	TempDir         string
	CleanupInterval time.Duration
	TempFileMaxAge  time.Duration
}

// MaxUploadBytes converts the upload limit to bytes.
func (i ImportConfig) MaxUploadBytes() int64 {
	return int64(i.MaxUploadMB) << 20
}

// UploadDir is where uploaded import files are spooled. The cleanup task
// only ever walks this folder.
func (i ImportConfig) UploadDir() string {
	return filepath.Join(i.TempDir, "uploads")
}

// SecurityConfig holds security configuration
type SecurityConfig struct {
	RateLimitRequests int
	RateLimitDuration time.Duration
	AllowedOrigins    []string
	SecureHeaders     bool
	RequestIDHeader   string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string `required:"true"`
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	MaxHeaderBytes  int
	GracefulTimeout time.Duration
	RequestTimeout  time.Duration
}

// BusinessConfig holds the shop details printed on reports
type BusinessConfig struct {
	ShopName string
	Reporter string
	Timezone string
}

// Location resolves the configured timezone, falling back to UTC.
func (b BusinessConfig) Location() *time.Location {
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load loads configuration from environment variables
func Load(logger *slog.Logger) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	env := v.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Load .env file in development
	if env == "development" || env == "local" {
		if err := godotenv.Load(); err != nil {
			logger.Warn("no .env file found, using environment variables",
				slog.String("error", err.Error()))
		} else {
			logger.Info(".env file loaded successfully")
		}
	}

	l := loader{v: v}
	redisHost := l.str("REDIS_HOST", "localhost")
	redisPort := l.str("REDIS_PORT", "6379")

	cfg := &Config{
		App: AppConfig{
			Name:            l.str("APP_NAME", "voucher-ledger"),
			Environment:     env,
			Version:         l.str("APP_VERSION", "dev"),
			LogLevel:        l.str("LOG_LEVEL", "debug"),
			LogFormat:       l.str("LOG_FORMAT", "json"),
			Debug:           l.boolean("APP_DEBUG", env == "development"),
			SecretsProvider: l.str("SECRETS_PROVIDER", "env"),
			SecretName:      l.str("SECRETS_NAME", "voucher-ledger"),
		},
		Store: StoreConfig{
			Backend:     strings.ToLower(l.str("STORE_BACKEND", BackendMemory)),
			RedisPrefix: l.str("STORE_REDIS_PREFIX", "ledger"),
			S3Prefix:    l.str("STORE_S3_PREFIX", "ledger"),
			LocalDir:    l.str("STORE_LOCAL_DIR", "./data"),
		},
		Database: DatabaseConfig{
			Host:               l.str("DB_HOST", "localhost"),
			Port:               l.str("DB_PORT", "5432"),
			User:               l.str("DB_USER", "ledger"),
			Password:           l.str("DB_PASSWORD", "ledger_dev"),
			Name:               l.str("DB_NAME", "voucher_ledger"),
			SSLMode:            l.str("DB_SSL_MODE", "disable"),
			MaxConnections:     int32(l.integer("DB_MAX_CONNECTIONS", 10)),
			MinConnections:     int32(l.integer("DB_MIN_CONNECTIONS", 1)),
			MaxConnLifetime:    l.duration("DB_CONNECTION_LIFETIME", time.Hour),
			MaxConnIdleTime:    l.duration("DB_IDLE_TIME", 30*time.Minute),
			HealthCheckPeriod:  l.duration("DB_HEALTH_CHECK_PERIOD", time.Minute),
			ConnectTimeout:     l.duration("DB_CONNECT_TIMEOUT", 10*time.Second),
			StatementCacheMode: l.str("DB_STATEMENT_CACHE_MODE", "describe"),
			EnableQueryLogging: l.boolean("DB_QUERY_LOGGING", env == "development"),
		},
		Redis: RedisConfig{
			Host:         redisHost,
			Port:         redisPort,
			Password:     l.str("REDIS_PASSWORD", ""),
			DB:           l.integer("REDIS_DB", 0),
			MaxRetries:   l.integer("REDIS_MAX_RETRIES", 3),
			DialTimeout:  l.duration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  l.duration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: l.duration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			PoolSize:     l.integer("REDIS_POOL_SIZE", 10),
			MinIdleConns: l.integer("REDIS_MIN_IDLE_CONNS", 2),
			PoolTimeout:  l.duration("REDIS_POOL_TIMEOUT", 4*time.Second),
		},
		Asynq: AsynqConfig{
			RedisAddr:       fmt.Sprintf("%s:%s", redisHost, redisPort),
			RedisPassword:   l.str("REDIS_PASSWORD", ""),
			RedisDB:         l.integer("ASYNQ_REDIS_DB", 1),
			Concurrency:     l.integer("ASYNQ_CONCURRENCY", 4),
			Queues:          parseQueues(l.str("ASYNQ_QUEUES", "critical:6,default:3,low:1")),
			StrictPriority:  l.boolean("ASYNQ_STRICT_PRIORITY", false),
			RetryMax:        l.integer("ASYNQ_RETRY_MAX", 3),
			ShutdownTimeout: l.duration("ASYNQ_SHUTDOWN_TIMEOUT", 30*time.Second),
			BackupCron:      l.str("BACKUP_CRON", "0 23 * * *"),
			ArchiveCron:     l.str("ARCHIVE_CRON", ""),
		},
		AWS: AWSConfig{
			Region:          l.str("AWS_REGION", "ap-southeast-3"),
			AccessKeyID:     l.str("AWS_ACCESS_KEY_ID", "minioadmin"),
			SecretAccessKey: l.str("AWS_SECRET_ACCESS_KEY", "minioadmin123"),
			S3Bucket:        l.str("AWS_S3_BUCKET", ""),
			S3Endpoint:      l.str("AWS_S3_ENDPOINT", ""),
			UsePathStyle:    l.boolean("AWS_S3_PATH_STYLE", env == "development"),
		},
		Import: ImportConfig{
			MaxUploadMB:     l.integer("IMPORT_MAX_UPLOAD_MB", 10),
			TempDir:         l.str("TEMP_DIR", "/tmp/voucher-ledger"),
			CleanupInterval: l.duration("CLEANUP_INTERVAL", time.Hour),
			TempFileMaxAge:  l.duration("TEMP_FILE_MAX_AGE", 24*time.Hour),
		},
		Security: SecurityConfig{
			RateLimitRequests: l.integer("RATE_LIMIT_REQUESTS", 100),
			RateLimitDuration: l.duration("RATE_LIMIT_DURATION", time.Minute),
			AllowedOrigins:    l.slice("ALLOWED_ORIGINS", []string{"*"}),
			SecureHeaders:     l.boolean("SECURE_HEADERS", env == "production"),
			RequestIDHeader:   l.str("REQUEST_ID_HEADER", "X-Request-ID"),
		},
		Server: ServerConfig{
			Host:            l.str("SERVER_HOST", "0.0.0.0"),
			Port:            l.str("SERVER_PORT", "8080"),
			ReadTimeout:     l.duration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    l.duration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:     l.duration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			MaxHeaderBytes:  l.integer("SERVER_MAX_HEADER_BYTES", 1<<20), // 1 MB
			GracefulTimeout: l.duration("SERVER_GRACEFUL_TIMEOUT", 30*time.Second),
			RequestTimeout:  l.duration("SERVER_REQUEST_TIMEOUT", 20*time.Second),
		},
		Business: BusinessConfig{
			ShopName: l.str("SHOP_NAME", "UNI BRILINK"),
			Reporter: l.str("REPORTER_NAME", "Sangkot Halomoan"),
			Timezone: l.str("SHOP_TIMEZONE", "Asia/Jakarta"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate runs the validators that apply to the environment.
func (c *Config) Validate() error {
	validators := []Validator{&BasicValidator{}}
	if c.IsProduction() {
		validators = append(validators, &ProductionValidator{})
	}

	for _, v := range validators {
		if err := v.Validate(c); err != nil {
			return err
		}
	}
	return nil
}

// GetDatabaseURL returns the formatted database connection string
func (c *Config) GetDatabaseURL() string {
	return fmt.Sprintf(
		"postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the formatted server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true if running in development
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development" || c.App.Environment == "local"
}

// loader reads typed values through viper, falling back to a default when a
// variable is unset or unparsable.
type loader struct {
	v *viper.Viper
}

func (l loader) str(key, defaultValue string) string {
	if value := l.v.GetString(key); value != "" {
		return value
	}
	return defaultValue
}

func (l loader) boolean(key string, defaultValue bool) bool {
	if value := l.v.GetString(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func (l loader) integer(key string, defaultValue int) int {
	if value := l.v.GetString(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func (l loader) duration(key string, defaultValue time.Duration) time.Duration {
	if value := l.v.GetString(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func (l loader) slice(key string, defaultValue []string) []string {
	if value := l.v.GetString(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}

func parseQueues(queuesStr string) map[string]int {
	queues := make(map[string]int)
	pairs := strings.Split(queuesStr, ",")
	for _, pair := range pairs {
		parts := strings.Split(pair, ":")
		if len(parts) == 2 {
			name := strings.TrimSpace(parts[0])
			priority, err := strconv.Atoi(strings.TrimSpace(parts[1]))
			if err == nil {
				queues[name] = priority
			}
		}
	}
	if len(queues) == 0 {
		queues["default"] = 1
	}
	return queues
}
