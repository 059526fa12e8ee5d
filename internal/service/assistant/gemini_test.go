package assistant

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeminiAssistantRequiresKey(t *testing.T) {
	_, err := NewGeminiAssistant(context.Background(), "", "", time.Second)
	assert.Error(t, err)
}

func TestGeminiCompleteTimesOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	a, err := newGeminiAssistant(context.Background(), "key", srv.URL, "", 50*time.Millisecond)
	require.NoError(t, err)

	start := time.Now()
	_, err = a.Complete(context.Background(), "hello")

	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Less(t, time.Since(start), 3*time.Second)
}
