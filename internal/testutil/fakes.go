package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/templui/smsgoals/internal/service/assistant"
	"github.com/templui/smsgoals/internal/service/sms"
)

// SentMessage is one text captured by FakeSMS.
type SentMessage struct {
	To   string
	Body string
}

// FakeSMS records outbound texts. Numbers listed in Fail are rejected.
type FakeSMS struct {
	mu   sync.Mutex
	sent []SentMessage
	Fail map[string]bool
}

func NewFakeSMS() *FakeSMS {
	return &FakeSMS{Fail: map[string]bool{}}
}

func (f *FakeSMS) Name() string { return "fake" }

func (f *FakeSMS) Send(_ context.Context, to, body string) (*sms.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Fail[to] {
		return &sms.Result{Error: "rejected"}, fmt.Errorf("%w: rejected", sms.ErrSendFailed)
	}
	f.sent = append(f.sent, SentMessage{To: to, Body: body})
	return &sms.Result{Success: true, TextID: fmt.Sprint(len(f.sent))}, nil
}

func (f *FakeSMS) Sent() []SentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]SentMessage(nil), f.sent...)
}

// To returns the bodies sent to one number.
func (f *FakeSMS) To(number string) []string {
	var bodies []string
	for _, m := range f.Sent() {
		if m.To == number {
			bodies = append(bodies, m.Body)
		}
	}
	return bodies
}

func (f *FakeSMS) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = nil
}

// FakeAssistant returns Reply, or fails when Err is set. With Hang set it
// blocks until ctx is done. Prompts are kept for inspection.
type FakeAssistant struct {
	mu      sync.Mutex
	Reply   string
	Err     error
	Hang    bool
	prompts []string
}

func (f *FakeAssistant) Name() string { return "fake" }

func (f *FakeAssistant) Complete(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()

	if f.Hang {
		<-ctx.Done()
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", assistant.ErrUnavailable, err)
	}
	if f.Err != nil {
		return "", f.Err
	}
	return f.Reply, nil
}

func (f *FakeAssistant) Prompts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.prompts...)
}
