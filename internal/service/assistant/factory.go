package assistant

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/templui/smsgoals/internal/config"
)

// New creates the assistant based on configuration. A missing provider is
// not an error: the service runs with static replies.
func New(ctx context.Context, cfg *config.Config) (Assistant, error) {
	slog.Info("initializing assistant", "provider", cfg.AssistantProvider)

	switch cfg.AssistantProvider {
	case config.AssistantProviderGemini:
		return NewGeminiAssistant(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.AssistantTimeout)
	case config.AssistantProviderNone, "":
		return Disabled{}, nil
	default:
		return nil, fmt.Errorf("unknown assistant provider: %s (supported: gemini, none)", cfg.AssistantProvider)
	}
}
