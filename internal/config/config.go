package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/templui/smsgoals/internal/validation"
)

const (
	SMSProviderTextbelt = "textbelt"
	SMSProviderLog      = "log"

	WebhookSchemeTextbelt = "textbelt"
	WebhookSchemeStandard = "standard"
	WebhookSchemeNone     = "none"

	AssistantProviderGemini = "gemini"
	AssistantProviderNone   = "none"
)

type Config struct {
	// Application
	AppName  string
	AppEnv   string
	AppURL   string
	Port     string
	LogLevel string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// SMS transport
	SMSProvider    string // "textbelt" or "log"
	TextbeltAPIKey string
	TextbeltURL    string
	SMSSender      string
	SMSTimeout     time.Duration

	// Inbound webhook verification
	WebhookScheme string // "textbelt", "standard" or "none"
	WebhookSecret string // Defaults to TextbeltAPIKey for the textbelt scheme

	// Assistant (optional language model for freeform replies)
	AssistantProvider string // "gemini" or "none"
	GeminiAPIKey      string
	GeminiModel       string
	AssistantTimeout  time.Duration
	HistoryDays       int
	MaxReplyLength    int

	// Scheduling
	Timezone             string
	DailyPromptAt        string // HH:MM in Timezone
	EveningFollowupAt    string
	InactivitySweepAt    string
	InactivitySweepEvery time.Duration // Optional: overrides InactivitySweepAt
	EscalationThreshold  int
	SchedulerEnabled     bool

	// Admin (on-demand job triggers)
	AdminJWTSecret string

	// Email (optional copy of escalations to an operator inbox)
	EmailFrom       string
	ResendAPIKey    string
	EscalationEmail string

	// Observability (optional)
	SentryDSN string

	// Sweep report archive (S3-compatible, optional: empty bucket logs reports instead)
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	textbeltKey := envString("TEXTBELT_API_KEY", "")

	cfg := &Config{
		// Application
		AppName:  envString("APP_NAME", "SMS Goal Tracker"),
		AppEnv:   envRequired("APP_ENV"), // Required: 'development' or 'production'
		AppURL:   envRequired("APP_URL"), // Required: public base URL for the reply webhook
		Port:     envString("PORT", "8090"),
		LogLevel: envString("LOG_LEVEL", ""),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/goals.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		// SMS
		SMSProvider:    envString("SMS_PROVIDER", defaultSMSProvider()),
		TextbeltAPIKey: textbeltKey,
		TextbeltURL:    envString("TEXTBELT_URL", "https://textbelt.com/text"),
		SMSSender:      envString("SMS_SENDER", "GoalTracker"),
		SMSTimeout:     envDuration("SMS_TIMEOUT", 10*time.Second),

		// Webhook
		WebhookScheme: envString("WEBHOOK_SCHEME", WebhookSchemeTextbelt),
		WebhookSecret: envString("WEBHOOK_SECRET", textbeltKey),

		// Assistant
		AssistantProvider: envString("ASSISTANT_PROVIDER", AssistantProviderNone),
		GeminiAPIKey:      envString("GEMINI_API_KEY", ""),
		GeminiModel:       envString("GEMINI_MODEL", "gemini-2.5-flash"),
		AssistantTimeout:  envDuration("ASSISTANT_TIMEOUT", 8*time.Second),
		HistoryDays:       envInt("HISTORY_DAYS", 7),
		MaxReplyLength:    envInt("MAX_REPLY_LENGTH", 480),

		// Scheduling (wall-clock times in TIMEZONE)
		Timezone:             envString("TIMEZONE", "US/Eastern"),
		DailyPromptAt:        envString("DAILY_PROMPT_AT", "09:00"),
		EveningFollowupAt:    envString("EVENING_FOLLOWUP_AT", "20:00"),
		InactivitySweepAt:    envString("INACTIVITY_SWEEP_AT", "00:00"),
		InactivitySweepEvery: envDuration("INACTIVITY_SWEEP_EVERY", 0),
		EscalationThreshold:  envInt("ESCALATION_THRESHOLD", 2),
		SchedulerEnabled:     envBool("SCHEDULER_ENABLED", true),

		// Admin
		AdminJWTSecret: envString("ADMIN_JWT_SECRET", ""),

		// Email
		EmailFrom:       envString("EMAIL_FROM", "noreply@example.com"),
		ResendAPIKey:    envString("RESEND_API_KEY", ""),
		EscalationEmail: envString("ESCALATION_EMAIL", ""),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),

		// Storage
		S3Region:    envString("S3_REGION", "us-east-1"),
		S3Bucket:    envString("S3_BUCKET", ""),
		S3AccessKey: envString("S3_ACCESS_KEY", ""),
		S3SecretKey: envString("S3_SECRET_KEY", ""),
		S3Endpoint:  envString("S3_ENDPOINT", ""),
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Production: validate required services
	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// Validate checks values that have no sensible fallback.
func (c *Config) Validate() error {
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	for key, value := range map[string]string{
		"DAILY_PROMPT_AT":     c.DailyPromptAt,
		"EVENING_FOLLOWUP_AT": c.EveningFollowupAt,
		"INACTIVITY_SWEEP_AT": c.InactivitySweepAt,
	} {
		if _, _, err := ParseClock(value); err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
	}
	if c.EscalationThreshold < 1 {
		return fmt.Errorf("ESCALATION_THRESHOLD must be at least 1, got %d", c.EscalationThreshold)
	}
	if c.HistoryDays < 1 {
		return fmt.Errorf("HISTORY_DAYS must be at least 1, got %d", c.HistoryDays)
	}
	if c.EscalationEmail != "" {
		if err := validation.ValidateEmail(c.EscalationEmail); err != nil {
			return fmt.Errorf("invalid ESCALATION_EMAIL: %w", err)
		}
	}
	return nil
}

// validateProduction ensures all required services are configured for production deployments.
// Development allows the SMS transport to run in log mode for easier local testing.
func validateProduction(cfg *Config) {
	if cfg.SMSProvider == SMSProviderTextbelt && cfg.TextbeltAPIKey == "" {
		slog.Error("production deployment requires TEXTBELT_API_KEY",
			"hint", "set SMS_PROVIDER=log or APP_ENV=development for local testing")
		os.Exit(1)
	}
	if cfg.WebhookScheme != WebhookSchemeNone && cfg.WebhookSecret == "" {
		slog.Error("production deployment requires WEBHOOK_SECRET for inbound verification",
			"scheme", cfg.WebhookScheme)
		os.Exit(1)
	}
}

// ParseClock parses an HH:MM wall-clock time.
func ParseClock(value string) (hour, minute int, err error) {
	h, m, ok := strings.Cut(strings.TrimSpace(value), ":")
	if !ok {
		return 0, 0, fmt.Errorf("expected HH:MM, got %q", value)
	}
	hour, err = strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", value)
	}
	minute, err = strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", value)
	}
	return hour, minute, nil
}

func defaultSMSProvider() string {
	if envString("APP_ENV", "development") == "development" {
		return SMSProviderLog
	}
	return SMSProviderTextbelt
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return i
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Location returns the configured scheduling timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ReplyWebhookURL is where the SMS gateway delivers replies.
func (c *Config) ReplyWebhookURL() string {
	return strings.TrimRight(c.AppURL, "/") + "/sms_reply"
}

// Sanitized returns a copy of the config with only public/safe fields.
// All secrets, credentials, and API keys are excluded.
// Safe to expose in ctx and templates.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName: c.AppName,
		AppEnv:  c.AppEnv,
		AppURL:  c.AppURL,
		Port:    c.Port,

		Timezone:            c.Timezone,
		DailyPromptAt:       c.DailyPromptAt,
		EveningFollowupAt:   c.EveningFollowupAt,
		EscalationThreshold: c.EscalationThreshold,
	}
}
