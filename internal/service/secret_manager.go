package service

import (
	"context"
	"fmt"

	"repurpose/internal/config"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
)

// Secret names looked up in Secret Manager when the matching env var is empty.
const (
	SecretAnthropicAPIKey = "anthropic-api-key"
	SecretOpenAIAPIKey    = "openai-api-key"
	SecretStripeSecretKey = "stripe-secret-key"
)

type SecretManagerService interface {
	// GetSecret returns the latest version of the named secret.
	GetSecret(ctx context.Context, name string) (string, error)
	Close() error
}

type secretManagerService struct {
	client    *secretmanager.Client
	projectID string
}

func NewSecretManagerService(ctx context.Context, projectID string, opts ...option.ClientOption) (SecretManagerService, error) {
	if projectID == "" {
		return nil, fmt.Errorf("GCP Project ID is not set for the current environment")
	}

	client, err := secretmanager.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Secret Manager client: %w", err)
	}

	return &secretManagerService{
		client:    client,
		projectID: projectID,
	}, nil
}

func (s *secretManagerService) GetSecret(ctx context.Context, name string) (string, error) {
	req := &secretmanagerpb.AccessSecretVersionRequest{
		Name: fmt.Sprintf("projects/%s/secrets/%s/versions/latest", s.projectID, name),
	}

	result, err := s.client.AccessSecretVersion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to access secret version: %w", err)
	}

	return string(result.Payload.Data), nil
}

func (s *secretManagerService) Close() error {
	return s.client.Close()
}

// ResolveCredentials fills empty provider credentials in cfg from secrets.
// A missing secret is logged and left empty so the affected endpoint answers
// with a configuration error instead of blocking startup.
func ResolveCredentials(ctx context.Context, cfg *config.Config, secrets SecretManagerService, logger zerolog.Logger) {
	targets := []struct {
		name  string
		value *string
	}{
		{SecretAnthropicAPIKey, &cfg.AnthropicAPIKey},
		{SecretOpenAIAPIKey, &cfg.OpenAIAPIKey},
		{SecretStripeSecretKey, &cfg.StripeSecretKey},
	}
	for _, t := range targets {
		if *t.value != "" {
			continue
		}
		v, err := secrets.GetSecret(ctx, t.name)
		if err != nil {
			logger.Warn().Err(err).Str("secret", t.name).Msg("Secret not resolved")
			continue
		}
		*t.value = v
		logger.Info().Str("secret", t.name).Msg("Resolved credential from Secret Manager")
	}
}
