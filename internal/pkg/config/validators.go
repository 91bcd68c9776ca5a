// internal/pkg/config/validators.go
package config

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// Validator checks one aspect of the configuration.
type Validator interface {
	Validate(cfg *Config) error
}

// BasicValidator performs basic configuration validation
type BasicValidator struct{}

// Validate performs basic validation
func (v *BasicValidator) Validate(cfg *Config) error {
	if err := validateRequiredFields(cfg); err != nil {
		return err
	}

	backends := []string{BackendMemory, BackendRedis, BackendPostgres, BackendS3}
	if !slices.Contains(backends, cfg.Store.Backend) {
		return fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	if cfg.Store.Backend == BackendPostgres {
		if cfg.Database.Host == "" || cfg.Database.Name == "" {
			return fmt.Errorf("%w: database host and name", ErrMissingRequiredConfig)
		}
		if cfg.Database.MaxConnections < cfg.Database.MinConnections {
			return fmt.Errorf("database max_connections must be >= min_connections")
		}
	}

	if cfg.Store.Backend == BackendS3 && cfg.AWS.S3Bucket == "" && cfg.Store.LocalDir == "" {
		return fmt.Errorf("%w: s3 bucket or local store dir", ErrMissingRequiredConfig)
	}

	if cfg.Redis.PoolSize <= 0 {
		return fmt.Errorf("redis pool_size must be positive")
	}

	if cfg.Security.RateLimitRequests <= 0 {
		return fmt.Errorf("rate_limit_requests must be positive")
	}

	if cfg.Import.MaxUploadMB <= 0 {
		return fmt.Errorf("import max upload size must be positive")
	}

	return nil
}

// ProductionValidator performs strict validation for production environments
type ProductionValidator struct{}

// Validate performs production-specific validation
func (v *ProductionValidator) Validate(cfg *Config) error {
	if cfg.Store.Backend == BackendMemory {
		return fmt.Errorf("memory store backend loses data on restart and cannot be used in production")
	}

	if cfg.Store.Backend == BackendPostgres {
		if strings.Contains(cfg.Database.Password, "MISSING_") {
			return fmt.Errorf("%w: database password", ErrMissingRequiredConfig)
		}
		if cfg.Database.SSLMode == "disable" {
			return fmt.Errorf("database SSL must be enabled in production")
		}
	}

	if cfg.Store.Backend == BackendS3 && cfg.AWS.S3Bucket == "" {
		return fmt.Errorf("%w: s3 bucket", ErrMissingRequiredConfig)
	}

	if !cfg.Security.SecureHeaders {
		return fmt.Errorf("secure headers must be enabled in production")
	}

	if slices.Contains(cfg.Security.AllowedOrigins, "*") {
		return fmt.Errorf("wildcard origin (*) not allowed in production")
	}

	return nil
}

// validateRequiredFields walks cfg and reports the first field tagged
// `required:"true"` that is empty or still carries a MISSING_ placeholder.
func validateRequiredFields(cfg *Config) error {
	return walkRequired(reflect.ValueOf(cfg).Elem(), "")
}

func walkRequired(v reflect.Value, path string) error {
	t := v.Type()
	for i := range t.NumField() {
		field := t.Field(i)
		name := field.Name
		if path != "" {
			name = path + "." + name
		}
		value := v.Field(i)

		if field.Tag.Get("required") == "true" && unset(value) {
			return fmt.Errorf("%w: %s", ErrMissingRequiredConfig, name)
		}
		if value.Kind() == reflect.Struct {
			if err := walkRequired(value, name); err != nil {
				return err
			}
		}
	}
	return nil
}

func unset(v reflect.Value) bool {
	if v.Kind() == reflect.String {
		return v.String() == "" || strings.HasPrefix(v.String(), "MISSING_")
	}
	return v.IsZero()
}
