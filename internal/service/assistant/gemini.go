package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

// GeminiAssistant generates replies with Google's Gemini API.
type GeminiAssistant struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

func NewGeminiAssistant(ctx context.Context, apiKey, model string, timeout time.Duration) (*GeminiAssistant, error) {
	return newGeminiAssistant(ctx, apiKey, "", model, timeout)
}

func newGeminiAssistant(ctx context.Context, apiKey, baseURL, model string, timeout time.Duration) (*GeminiAssistant, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	if timeout <= 0 {
		timeout = 8 * time.Second
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiAssistant{
		client:  client,
		model:   model,
		timeout: timeout,
	}, nil
}

func (a *GeminiAssistant) Name() string {
	return "gemini:" + a.model
}

func (a *GeminiAssistant) Complete(ctx context.Context, prompt string) (string, error) {
	// Auto-apply timeout if context has no deadline
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	result, err := a.client.Models.GenerateContent(ctx,
		a.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
			Temperature:       genai.Ptr[float32](0.6),
			MaxOutputTokens:   256,
		},
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", fmt.Errorf("%w: empty response", ErrUnavailable)
	}
	return text, nil
}

const systemInstruction = `You are a friendly SMS accountability coach.
Replies are sent as text messages: keep them under 300 characters, plain text, no markdown.
Encourage the user, refer to their recent goals when relevant, and remind them that they can
reply with a comma-separated list of goals or with yes/no for each of yesterday's goals.`
