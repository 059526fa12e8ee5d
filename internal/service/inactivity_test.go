package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/smsgoals/internal/model"
	"github.com/templui/smsgoals/internal/repository"
	"github.com/templui/smsgoals/internal/service/sms"
)

func runSweep(t *testing.T, h *harness) *model.SweepReport {
	t.Helper()
	report, err := h.monitor.RunInactivitySweep(context.Background())
	require.NoError(t, err)
	return report
}

func TestInactivitySweepEscalatesEveryTwoSilentDays(t *testing.T) {
	h := newHarness(t)
	h.register(t, alice)

	var escalations int
	for day := 0; day < 4; day++ {
		escalations += runSweep(t, h).Escalated
		h.advance(1)
	}

	assert.Equal(t, 2, escalations)
	assert.Len(t, h.sms.To(contact), 2)
	assert.Equal(t, escalationMessage(alice, 2), h.sms.To(contact)[0])
	assert.Zero(t, h.user(t, alice).ConsecutiveMisses)
}

func TestInactivitySweepTwoDaysEscalatesOnce(t *testing.T) {
	h := newHarness(t)
	h.register(t, alice)

	first := runSweep(t, h)
	assert.Equal(t, 0, first.Escalated)
	assert.Equal(t, 1, h.user(t, alice).ConsecutiveMisses)

	h.advance(1)
	second := runSweep(t, h)
	assert.Equal(t, 1, second.Escalated)
	assert.Equal(t, 1, second.Sent)
	assert.Len(t, h.sms.To(contact), 1)
}

func TestInactivitySweepSkipsRecentResponders(t *testing.T) {
	h := newHarness(t)
	h.register(t, alice)
	ctx := context.Background()

	_, err := h.messages.HandleInbound(ctx, sms.InboundMessage{FromNumber: alice, Text: "gym, read"})
	require.NoError(t, err)

	// Replied today and yesterday both count as active.
	report := runSweep(t, h)
	assert.Zero(t, report.Scanned)

	h.advance(1)
	report = runSweep(t, h)
	assert.Zero(t, report.Scanned)

	h.advance(1)
	report = runSweep(t, h)
	assert.Equal(t, 1, report.Scanned)
	assert.Equal(t, 1, h.user(t, alice).ConsecutiveMisses)
}

func TestInactivitySweepReplyResetsDebounce(t *testing.T) {
	h := newHarness(t)
	h.register(t, alice)

	runSweep(t, h)
	assert.Equal(t, 1, h.user(t, alice).ConsecutiveMisses)

	_, err := h.messages.HandleInbound(context.Background(), sms.InboundMessage{FromNumber: alice, Text: "gym, read"})
	require.NoError(t, err)
	assert.Zero(t, h.user(t, alice).ConsecutiveMisses)

	h.advance(2)
	report := runSweep(t, h)
	assert.Zero(t, report.Escalated)
	assert.Empty(t, h.sms.To(contact))
}

func TestInactivitySweepRecordsDeliveryFailure(t *testing.T) {
	h := newHarness(t)
	h.register(t, alice)
	h.sms.Fail[contact] = true

	runSweep(t, h)
	h.advance(1)
	report := runSweep(t, h)

	assert.Equal(t, 1, report.Escalated)
	assert.Zero(t, report.Sent)
	assert.Len(t, report.Failures, 1)
	// The counter is reset even though the alert bounced.
	assert.Zero(t, h.user(t, alice).ConsecutiveMisses)
}

func TestInactivitySweepReport(t *testing.T) {
	h := newHarness(t)
	h.register(t, alice)

	report := runSweep(t, h)

	assert.Equal(t, model.JobInactivitySweep, report.Job)
	assert.Equal(t, "2025-06-10", report.Date)
	assert.NotEmpty(t, report.RunID)
	assert.False(t, report.FinishedAt.Before(report.StartedAt))
}

func TestInactivitySweepTwiceSameDayCountsOneMiss(t *testing.T) {
	h := newHarness(t)
	h.register(t, alice)

	first := runSweep(t, h)
	second := runSweep(t, h)

	assert.Zero(t, first.Skipped)
	assert.Equal(t, 1, second.Skipped)
	assert.Zero(t, second.Escalated)
	assert.Empty(t, h.sms.To(contact))
	assert.Equal(t, 1, h.user(t, alice).ConsecutiveMisses)

	h.advance(1)
	third := runSweep(t, h)
	assert.Equal(t, 1, third.Escalated)
	assert.Len(t, h.sms.To(contact), 1)
}

type failingUsers struct {
	repository.UserRepository
	err error
}

func (f failingUsers) Inactive(context.Context, model.Date) ([]*model.User, error) {
	return nil, f.err
}

func TestInactivitySweepStoreFailure(t *testing.T) {
	h := newHarness(t)
	h.register(t, alice)

	storeErr := errors.New("database is closed")
	monitor := NewInactivityMonitor(failingUsers{UserRepository: h.users, err: storeErr}, NewNotifier(h.sms),
		NewEmailService("", "noreply@example.com", "", "SMS Goal Tracker", true), h.clock, 2)

	report, err := monitor.RunInactivitySweep(context.Background())
	require.ErrorIs(t, err, storeErr)
	require.NotNil(t, report)
	assert.Zero(t, report.Scanned)
	assert.Empty(t, h.sms.Sent())
	assert.Zero(t, h.user(t, alice).ConsecutiveMisses)
}
