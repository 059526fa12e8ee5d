package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/smsgoals/internal/intent"
	"github.com/templui/smsgoals/internal/repository"
	"github.com/templui/smsgoals/internal/service/sms"
)

func TestHandleInboundDayOneAndDayTwo(t *testing.T) {
	h := newHarness(t)
	h.register(t, alice)
	ctx := context.Background()

	out, err := h.messages.HandleInbound(ctx, sms.InboundMessage{FromNumber: alice, Text: "Grocery shopping, call mom, gym"})
	require.NoError(t, err)
	assert.Equal(t, intent.SetGoals, out.Intent.Kind)

	h.advance(1)
	out, err = h.messages.HandleInbound(ctx, sms.InboundMessage{FromNumber: alice, Text: "yes,no,yes"})
	require.NoError(t, err)
	assert.Equal(t, intent.ReportCompletion, out.Intent.Kind)
	assert.Equal(t, 3, out.Intent.PriorGoals)
	assert.False(t, out.Intent.Mismatch())

	replies := h.sms.To(alice)
	require.Len(t, replies, 2)
	assert.Contains(t, replies[1], "2 of 3")
}

func TestHandleInboundCompletionMismatch(t *testing.T) {
	h := newHarness(t)
	h.register(t, alice)
	ctx := context.Background()

	_, err := h.messages.HandleInbound(ctx, sms.InboundMessage{FromNumber: alice, Text: "a, b, c"})
	require.NoError(t, err)
	h.advance(1)

	out, err := h.messages.HandleInbound(ctx, sms.InboundMessage{FromNumber: alice, Text: "yes,no"})
	require.NoError(t, err)

	assert.True(t, out.Intent.Mismatch())
	assert.ErrorIs(t, out.Anomaly, ErrGoalCountMismatch)
	assert.EqualValues(t, 1, h.goals.Mismatches())
}

func TestHandleInboundNormalizesSender(t *testing.T) {
	h := newHarness(t)
	h.register(t, alice)

	out, err := h.messages.HandleInbound(context.Background(), sms.InboundMessage{FromNumber: "(555) 123-4567", Text: "gym, read"})
	require.NoError(t, err)

	assert.Equal(t, intent.SetGoals, out.Intent.Kind)
	assert.Len(t, h.sms.To(alice), 1)
}

func TestHandleInboundUnregistered(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	out, err := h.messages.HandleInbound(ctx, sms.InboundMessage{FromNumber: alice, Text: "gym, read"})
	require.NoError(t, err)

	assert.ErrorIs(t, out.Anomaly, repository.ErrUserNotFound)
	assert.Equal(t, []string{replyNotRegistered}, h.sms.To(alice))

	_, err = h.records.ByDate(ctx, alice, h.today())
	assert.ErrorIs(t, err, repository.ErrGoalRecordNotFound)
	_, err = h.users.ByPhone(ctx, alice)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestHandleInboundRegisterBySMS(t *testing.T) {
	h := newHarness(t)

	out, err := h.messages.HandleInbound(context.Background(), sms.InboundMessage{FromNumber: alice, Text: "Register +1 555 987 6543"})
	require.NoError(t, err)
	assert.Nil(t, out.Anomaly)

	user := h.user(t, alice)
	assert.Equal(t, contact, user.EmergencyContact)
	assert.Equal(t, []string{welcomeMessage()}, h.sms.To(alice))
}

func TestHandleInboundRegisterBySMSBadContact(t *testing.T) {
	h := newHarness(t)

	out, err := h.messages.HandleInbound(context.Background(), sms.InboundMessage{FromNumber: alice, Text: "register my mom"})
	require.NoError(t, err)

	assert.ErrorIs(t, out.Anomaly, ErrInvalidPhone)
	assert.Equal(t, []string{replyBadContact}, h.sms.To(alice))
}

func TestHandleInboundReplyFailureIsNotFatal(t *testing.T) {
	h := newHarness(t)
	h.register(t, alice)
	h.sms.Fail[alice] = true

	_, err := h.messages.HandleInbound(context.Background(), sms.InboundMessage{FromNumber: alice, Text: "gym, read"})
	require.NoError(t, err)

	_, err = h.records.ByDate(context.Background(), alice, h.today())
	assert.NoError(t, err)
}
