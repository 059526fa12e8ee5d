package config

import (
	"testing"
	"time"

	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	hour, minute, err := ParseClock("09:30")
	require.NoError(t, err)
	assert.Equal(t, 9, hour)
	assert.Equal(t, 30, minute)

	hour, minute, err = ParseClock(" 0:05 ")
	require.NoError(t, err)
	assert.Equal(t, 0, hour)
	assert.Equal(t, 5, minute)

	for _, bad := range []string{"", "0930", "24:00", "23:60", "-1:00", "ab:cd"} {
		_, _, err := ParseClock(bad)
		assert.Error(t, err, bad)
	}
}

func validConfig() *Config {
	return &Config{
		Timezone:            "US/Eastern",
		DailyPromptAt:       "09:00",
		EveningFollowupAt:   "20:00",
		InactivitySweepAt:   "00:00",
		EscalationThreshold: 2,
		HistoryDays:         7,
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, validConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }},
		{"bad prompt time", func(c *Config) { c.DailyPromptAt = "9am" }},
		{"bad sweep time", func(c *Config) { c.InactivitySweepAt = "25:00" }},
		{"zero threshold", func(c *Config) { c.EscalationThreshold = 0 }},
		{"zero history", func(c *Config) { c.HistoryDays = 0 }},
		{"bad escalation email", func(c *Config) { c.EscalationEmail = "ops at example" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("APP_URL", "https://goals.example.com/")

	cfg := Load()

	assert.Equal(t, SMSProviderLog, cfg.SMSProvider)
	assert.Equal(t, "https://goals.example.com/sms_reply", cfg.ReplyWebhookURL())
	assert.Equal(t, 2, cfg.EscalationThreshold)
	assert.Equal(t, 8*time.Second, cfg.AssistantTimeout)
	assert.Equal(t, "US/Eastern", cfg.Location().String())
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("APP_URL", "https://goals.example.com")
	t.Setenv("ESCALATION_THRESHOLD", "3")
	t.Setenv("INACTIVITY_SWEEP_EVERY", "6h")
	t.Setenv("SCHEDULER_ENABLED", "false")
	t.Setenv("HISTORY_DAYS", "not-a-number")

	cfg := Load()

	assert.Equal(t, 3, cfg.EscalationThreshold)
	assert.Equal(t, 6*time.Hour, cfg.InactivitySweepEvery)
	assert.False(t, cfg.SchedulerEnabled)
	assert.Equal(t, 7, cfg.HistoryDays)
}

func TestSanitizedDropsSecrets(t *testing.T) {
	cfg := validConfig()
	cfg.AppName = "Goals"
	cfg.TextbeltAPIKey = "key"
	cfg.AdminJWTSecret = "secret"
	cfg.S3SecretKey = "s3"

	safe := cfg.Sanitized()

	assert.Equal(t, "Goals", safe.AppName)
	assert.Empty(t, safe.TextbeltAPIKey)
	assert.Empty(t, safe.AdminJWTSecret)
	assert.Empty(t, safe.S3SecretKey)
}
