package ctxkeys

import (
	"context"

	"github.com/templui/smsgoals/internal/config"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	ConfigKey       contextKey = "config"
	CSRFTokenKey    contextKey = "csrf_token"
	RequestIDKey    contextKey = "request_id"
	AdminSubjectKey contextKey = "admin_subject"
)

func Config(ctx context.Context) *config.Config {
	cfg, _ := ctx.Value(ConfigKey).(*config.Config)
	return cfg
}

func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, ConfigKey, cfg)
}

func CSRFToken(ctx context.Context) string {
	token, _ := ctx.Value(CSRFTokenKey).(string)
	return token
}

func WithCSRFToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, CSRFTokenKey, token)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// AdminSubject is the subject of a verified admin token, empty otherwise.
func AdminSubject(ctx context.Context) string {
	subject, _ := ctx.Value(AdminSubjectKey).(string)
	return subject
}

func WithAdminSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, AdminSubjectKey, subject)
}
