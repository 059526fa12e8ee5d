package sms

import (
	"context"
	"errors"
	"net/http"
)

var (
	ErrSendFailed       = errors.New("sms send failed")
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

// Result is the gateway's answer to one outbound message.
type Result struct {
	Success        bool   `json:"success"`
	TextID         string `json:"textId,omitempty"`
	QuotaRemaining int    `json:"quotaRemaining,omitempty"`
	Error          string `json:"error,omitempty"`
}

// Provider defines the interface that all SMS transports must implement
type Provider interface {
	// Send delivers body to the phone number. A gateway-level rejection is
	// returned as an error wrapping ErrSendFailed.
	Send(ctx context.Context, to, body string) (*Result, error)

	// Name returns the provider name (e.g., "textbelt", "log")
	Name() string
}

// Verifier authenticates inbound reply webhooks.
type Verifier interface {
	Verify(payload []byte, headers http.Header) error
}

// InboundMessage is the reply payload posted by the gateway.
type InboundMessage struct {
	FromNumber string `json:"fromNumber"`
	Text       string `json:"text"`
}
