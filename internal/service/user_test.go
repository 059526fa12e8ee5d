package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/smsgoals/internal/repository"
)

func TestRegister(t *testing.T) {
	h := newHarness(t)

	user, err := h.signup.Register(context.Background(), " 555-123-4567 ", "(555) 987-6543")
	require.NoError(t, err)

	assert.Equal(t, alice, user.PhoneNumber)
	assert.Equal(t, contact, user.EmergencyContact)
	assert.Nil(t, user.LastResponse)
	assert.Zero(t, user.ConsecutiveMisses)
	assert.Equal(t, []string{welcomeMessage()}, h.sms.To(alice))
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name    string
		phone   string
		contact string
		want    error
	}{
		{"missing phone", "", contact, ErrMissingField},
		{"missing contact", alice, "  ", ErrMissingField},
		{"bad phone", "call me", contact, ErrInvalidPhone},
		{"bad contact", alice, "12345", ErrInvalidPhone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			_, err := h.signup.Register(context.Background(), tt.phone, tt.contact)
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, h.sms.Sent())
		})
	}
}

func TestRegisterDuplicate(t *testing.T) {
	h := newHarness(t)
	h.register(t, alice)

	_, err := h.signup.Register(context.Background(), alice, "+15550000000")
	assert.ErrorIs(t, err, repository.ErrDuplicateUser)
	assert.Equal(t, contact, h.user(t, alice).EmergencyContact)
}

func TestRegisterSurvivesWelcomeFailure(t *testing.T) {
	h := newHarness(t)
	h.sms.Fail[alice] = true

	_, err := h.signup.Register(context.Background(), alice, contact)
	require.NoError(t, err)
	assert.Equal(t, alice, h.user(t, alice).PhoneNumber)
}
