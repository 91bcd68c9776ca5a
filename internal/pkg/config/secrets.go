// internal/pkg/config/secrets.go
package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// SecretsManager resolves credentials once at startup. Keys it does not
// know are left out of the result.
type SecretsManager interface {
	GetSecrets(ctx context.Context, keys []string) (map[string]string, error)
}

// Secret keys overlaid onto the configuration.
const (
	SecretDatabasePassword = "DB_PASSWORD"
	SecretRedisPassword    = "REDIS_PASSWORD"
	SecretAWSAccessKeyID   = "AWS_ACCESS_KEY_ID"
	SecretAWSSecretKey     = "AWS_SECRET_ACCESS_KEY"
)

var (
	_ SecretsManager = (*AWSSecretsManager)(nil)
	_ SecretsManager = EnvSecretsManager{}
)

// NewSecretsManager picks the provider named by SECRETS_PROVIDER.
func NewSecretsManager(ctx context.Context, cfg *Config, logger *slog.Logger) (SecretsManager, error) {
	switch cfg.App.SecretsProvider {
	case "", "env":
		return EnvSecretsManager{}, nil
	case "aws":
		return NewAWSSecretsManager(ctx, cfg.AWS.Region, cfg.App.SecretName, logger)
	default:
		return nil, fmt.Errorf("unknown secrets provider %q", cfg.App.SecretsProvider)
	}
}

// ApplySecrets overwrites credentials in cfg with the values the manager
// knows about. Keys the manager does not have keep their current value.
func ApplySecrets(ctx context.Context, cfg *Config, sm SecretsManager) error {
	keys := []string{SecretDatabasePassword, SecretRedisPassword, SecretAWSAccessKeyID, SecretAWSSecretKey}
	secrets, err := sm.GetSecrets(ctx, keys)
	if err != nil {
		return fmt.Errorf("failed to resolve secrets: %w", err)
	}

	if v, ok := secrets[SecretDatabasePassword]; ok {
		cfg.Database.Password = v
	}
	if v, ok := secrets[SecretRedisPassword]; ok {
		cfg.Redis.Password = v
		cfg.Asynq.RedisPassword = v
	}
	if v, ok := secrets[SecretAWSAccessKeyID]; ok {
		cfg.AWS.AccessKeyID = v
	}
	if v, ok := secrets[SecretAWSSecretKey]; ok {
		cfg.AWS.SecretAccessKey = v
	}
	return nil
}

// AWSSecretsManager reads one JSON secret whose fields are the secret keys,
// e.g. {"DB_PASSWORD": "..."}.
type AWSSecretsManager struct {
	client     *secretsmanager.Client
	secretName string
	logger     *slog.Logger
}

// NewAWSSecretsManager creates a Secrets Manager client for region.
func NewAWSSecretsManager(ctx context.Context, region, secretName string, logger *slog.Logger) (*AWSSecretsManager, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &AWSSecretsManager{
		client:     secretsmanager.NewFromConfig(awsCfg),
		secretName: secretName,
		logger:     logger.With(slog.String("component", "secrets")),
	}, nil
}

// GetSecrets fetches the current version of the secret and picks keys.
func (sm *AWSSecretsManager) GetSecrets(ctx context.Context, keys []string) (map[string]string, error) {
	sm.logger.InfoContext(ctx, "fetching secrets", slog.String("secret_name", sm.secretName))

	result, err := sm.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId:     aws.String(sm.secretName),
		VersionStage: aws.String("AWSCURRENT"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get secret value: %w", err)
	}
	if result.SecretString == nil {
		return nil, errors.New("secret has no string value")
	}

	return pickSecrets(*result.SecretString, keys, sm.logger)
}

func pickSecrets(raw string, keys []string, logger *slog.Logger) (map[string]string, error) {
	var all map[string]string
	if err := json.Unmarshal([]byte(raw), &all); err != nil {
		return nil, fmt.Errorf("failed to parse secret JSON: %w", err)
	}

	picked := make(map[string]string, len(keys))
	for _, key := range keys {
		if v, ok := all[key]; ok {
			picked[key] = v
			continue
		}
		logger.Warn("secret key not set", slog.String("key", key))
	}
	return picked, nil
}

// EnvSecretsManager reads secrets from the process environment.
type EnvSecretsManager struct{}

// GetSecrets returns the non-empty variables among keys.
func (EnvSecretsManager) GetSecrets(ctx context.Context, keys []string) (map[string]string, error) {
	secrets := make(map[string]string)
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			secrets[key] = v
		}
	}
	return secrets, nil
}
