// Package assistant wraps the optional language model used to answer
// messages that are neither goal lists nor completion reports.
package assistant

import (
	"context"
	"errors"
)

var ErrUnavailable = errors.New("assistant unavailable")

// Assistant returns free text for a prompt. Implementations must honour ctx
// cancellation so callers can bound the wait.
type Assistant interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Name() string
}

// Disabled is used when no provider is configured. Every call fails with
// ErrUnavailable so callers take their static fallback path.
type Disabled struct{}

func (Disabled) Complete(context.Context, string) (string, error) {
	return "", ErrUnavailable
}

func (Disabled) Name() string {
	return "none"
}
