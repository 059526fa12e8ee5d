package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/smsgoals/internal/config"
)

func TestNewWithoutBucketLogs(t *testing.T) {
	s, err := New(context.Background(), &config.Config{})
	require.NoError(t, err)

	_, isLog := s.(*LogStorage)
	assert.True(t, isLog)
}

func TestLogStorage(t *testing.T) {
	s := NewLogStorage()

	err := s.Save(context.Background(), "reports/daily-prompt/2025-06-10/run.json", strings.NewReader(`{"sent":1}`))
	require.NoError(t, err)
	assert.Equal(t, "log://reports/daily-prompt/2025-06-10/run.json", s.URL("reports/daily-prompt/2025-06-10/run.json"))
}
