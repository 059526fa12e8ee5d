package sms

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"

	standardwebhooks "github.com/standard-webhooks/standard-webhooks/libraries/go"
)

const (
	HeaderTextbeltTimestamp = "X-textbelt-timestamp"
	HeaderTextbeltSignature = "X-textbelt-signature"
)

// TextbeltVerifier checks hex(HMAC-SHA256(secret, timestamp + body)).
type TextbeltVerifier struct {
	secret []byte
}

func NewTextbeltVerifier(secret string) *TextbeltVerifier {
	return &TextbeltVerifier{secret: []byte(secret)}
}

func (v *TextbeltVerifier) Verify(payload []byte, headers http.Header) error {
	timestamp := headers.Get(HeaderTextbeltTimestamp)
	signature := headers.Get(HeaderTextbeltSignature)
	if timestamp == "" || signature == "" {
		return fmt.Errorf("%w: missing signature headers", ErrInvalidSignature)
	}

	expected := v.Sign(timestamp, payload)
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return ErrInvalidSignature
	}
	return nil
}

// Sign computes the signature the gateway is expected to send.
func (v *TextbeltVerifier) Sign(timestamp string, payload []byte) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(timestamp))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// StandardVerifier checks Standard Webhooks signatures (webhook-id,
// webhook-timestamp, webhook-signature).
type StandardVerifier struct {
	wh *standardwebhooks.Webhook
}

func NewStandardVerifier(secret string) (*StandardVerifier, error) {
	wh, err := standardwebhooks.NewWebhookRaw([]byte(secret))
	if err != nil {
		return nil, fmt.Errorf("failed to create webhook verifier: %w", err)
	}
	return &StandardVerifier{wh: wh}, nil
}

func (v *StandardVerifier) Verify(payload []byte, headers http.Header) error {
	httpHeaders := http.Header{}
	httpHeaders.Set("webhook-id", headers.Get("webhook-id"))
	httpHeaders.Set("webhook-timestamp", headers.Get("webhook-timestamp"))
	httpHeaders.Set("webhook-signature", headers.Get("webhook-signature"))

	err := v.wh.Verify(payload, httpHeaders)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return nil
}

// NoopVerifier accepts every request.
type NoopVerifier struct{}

func (NoopVerifier) Verify([]byte, http.Header) error {
	return nil
}
