package sms

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// LogProvider only logs outbound messages. Used in development, like the
// email service's dev mode.
type LogProvider struct{}

func NewLogProvider() *LogProvider {
	return &LogProvider{}
}

func (p *LogProvider) Name() string {
	return "log"
}

func (p *LogProvider) Send(ctx context.Context, to, body string) (*Result, error) {
	id := uuid.New().String()
	slog.InfoContext(ctx, "sms sent (dev mode)", "to", to, "text_id", id, "body", body)
	return &Result{Success: true, TextID: id}, nil
}
