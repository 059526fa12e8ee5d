package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	valid := map[string]string{
		"+15551234567":      "+15551234567",
		"5551234567":        "+15551234567",
		"15551234567":       "+15551234567",
		"(555) 123-4567":    "+15551234567",
		"555.123.4567":      "+15551234567",
		" +44 20 7946 0958": "+442079460958",
		"+1 (555) 123-4567": "+15551234567",
	}
	for in, want := range valid {
		got, err := NormalizePhone(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	invalid := []string{
		"",
		"   ",
		"call me",
		"555-1234",
		"25551234567",
		"+0123456789",
		"+1234567",
		"+1234567890123456",
		"555+1234567",
	}
	for _, in := range invalid {
		_, err := NormalizePhone(in)
		assert.Error(t, err, in)
	}
}
