package service

import (
	"context"
	"log/slog"

	"github.com/templui/smsgoals/internal/service/sms"
)

// Notifier sends outbound texts. Delivery is best effort: failures are
// logged and reported to the caller but never roll back stored state.
type Notifier struct {
	provider sms.Provider
}

func NewNotifier(provider sms.Provider) *Notifier {
	return &Notifier{provider: provider}
}

func (n *Notifier) Notify(ctx context.Context, to, body string) error {
	result, err := n.provider.Send(ctx, to, body)
	if err != nil {
		slog.Warn("sms delivery failed", "provider", n.provider.Name(), "to", to, "error", err)
		return err
	}
	slog.Debug("sms delivered", "provider", n.provider.Name(), "to", to, "text_id", result.TextID)
	return nil
}
