package sms

import (
	"fmt"
	"log/slog"

	"github.com/templui/smsgoals/internal/config"
)

// NewProvider creates an SMS provider based on configuration
func NewProvider(cfg *config.Config) (Provider, error) {
	provider := cfg.SMSProvider

	slog.Info("initializing sms provider", "provider", provider)

	switch provider {
	case config.SMSProviderTextbelt:
		if cfg.TextbeltAPIKey == "" {
			return nil, fmt.Errorf("TEXTBELT_API_KEY is required when using TextBelt provider")
		}
		return NewTextbeltProvider(TextbeltConfig{
			APIKey:          cfg.TextbeltAPIKey,
			URL:             cfg.TextbeltURL,
			Sender:          cfg.SMSSender,
			ReplyWebhookURL: cfg.ReplyWebhookURL(),
			Timeout:         cfg.SMSTimeout,
		}), nil

	case config.SMSProviderLog:
		return NewLogProvider(), nil

	default:
		return nil, fmt.Errorf("unknown sms provider: %s (supported: textbelt, log)", provider)
	}
}

// NewVerifier creates the inbound webhook verifier based on configuration
func NewVerifier(cfg *config.Config) (Verifier, error) {
	switch cfg.WebhookScheme {
	case config.WebhookSchemeTextbelt:
		if cfg.WebhookSecret == "" {
			slog.Warn("textbelt webhook secret not configured, skipping signature verification")
			return NoopVerifier{}, nil
		}
		return NewTextbeltVerifier(cfg.WebhookSecret), nil

	case config.WebhookSchemeStandard:
		if cfg.WebhookSecret == "" {
			return nil, fmt.Errorf("WEBHOOK_SECRET is required for the standard webhook scheme")
		}
		return NewStandardVerifier(cfg.WebhookSecret)

	case config.WebhookSchemeNone:
		slog.Warn("inbound webhook verification disabled")
		return NoopVerifier{}, nil

	default:
		return nil, fmt.Errorf("unknown webhook scheme: %s (supported: textbelt, standard, none)", cfg.WebhookScheme)
	}
}
