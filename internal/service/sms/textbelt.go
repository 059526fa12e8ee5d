package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type TextbeltConfig struct {
	APIKey          string
	URL             string
	Sender          string
	ReplyWebhookURL string
	Timeout         time.Duration
}

// TextbeltProvider sends messages through the TextBelt HTTP API and asks it
// to post replies back to ReplyWebhookURL.
type TextbeltProvider struct {
	cfg        TextbeltConfig
	httpClient *http.Client
}

func NewTextbeltProvider(cfg TextbeltConfig) *TextbeltProvider {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &TextbeltProvider{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

func (p *TextbeltProvider) Name() string {
	return "textbelt"
}

func (p *TextbeltProvider) Send(ctx context.Context, to, body string) (*Result, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.Timeout)
		defer cancel()
	}

	form := url.Values{}
	form.Set("phone", to)
	form.Set("message", body)
	form.Set("key", p.cfg.APIKey)
	form.Set("sender", p.cfg.Sender)
	if p.cfg.ReplyWebhookURL != "" {
		form.Set("replyWebhookUrl", p.cfg.ReplyWebhookURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.URL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build textbelt request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	defer func() {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			slog.Error("failed to close textbelt response body", "error", closeErr)
		}
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrSendFailed, err)
	}

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: textbelt status %d", ErrSendFailed, resp.StatusCode)
	}

	var payload struct {
		Success        bool            `json:"success"`
		TextID         json.RawMessage `json:"textId"`
		QuotaRemaining int             `json:"quotaRemaining"`
		Error          string          `json:"error"`
	}
	err = json.Unmarshal(raw, &payload)
	if err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrSendFailed, err)
	}

	result := &Result{
		Success:        payload.Success,
		TextID:         rawID(payload.TextID),
		QuotaRemaining: payload.QuotaRemaining,
		Error:          payload.Error,
	}
	if !result.Success {
		return result, fmt.Errorf("%w: %s", ErrSendFailed, result.Error)
	}

	slog.Debug("sms sent", "provider", p.Name(), "to", to, "text_id", result.TextID, "quota_remaining", result.QuotaRemaining)
	return result, nil
}

// rawID accepts textId as either a JSON string or number.
func rawID(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return strconv.FormatInt(n, 10)
	}
	return string(raw)
}
