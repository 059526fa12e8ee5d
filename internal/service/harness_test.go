package service

import (
	"context"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/require"
	"github.com/templui/smsgoals/internal/model"
	"github.com/templui/smsgoals/internal/repository"
	"github.com/templui/smsgoals/internal/testutil"
)

const (
	alice   = "+15551234567"
	contact = "+15559876543"
)

type harness struct {
	mu  sync.Mutex
	now time.Time

	users     repository.UserRepository
	records   repository.GoalRecordRepository
	sms       *testutil.FakeSMS
	assistant *testutil.FakeAssistant
	clock     Clock

	goals    *GoalService
	signup   *UserService
	messages *MessageService
	prompts  *PromptService
	monitor  *InactivityMonitor
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	eastern, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	database := testutil.NewDB(t)
	h := &harness{
		now:       time.Date(2025, time.June, 10, 10, 0, 0, 0, eastern),
		users:     repository.NewUserRepository(database),
		records:   repository.NewGoalRecordRepository(database),
		sms:       testutil.NewFakeSMS(),
		assistant: &testutil.FakeAssistant{Reply: "Keep going, you're doing great!"},
	}
	h.clock = NewClock(eastern, h.Now)

	notifier := NewNotifier(h.sms)
	email := NewEmailService("", "noreply@example.com", "", "SMS Goal Tracker", true)

	h.goals = NewGoalService(h.users, h.records, h.assistant, GoalServiceConfig{HistoryDays: 7, MaxReplyLength: 160})
	h.signup = NewUserService(h.users, notifier, h.clock)
	h.messages = NewMessageService(h.users, h.signup, h.records, h.goals, notifier, h.clock)
	h.prompts = NewPromptService(h.users, h.records, notifier, h.clock, 7)
	h.monitor = NewInactivityMonitor(h.users, notifier, email, h.clock, 2)
	return h
}

func (h *harness) Now() time.Time {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.now
}

// advance moves the clock forward by whole days.
func (h *harness) advance(days int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.now = h.now.AddDate(0, 0, days)
}

func (h *harness) today() model.Date {
	return h.clock.Today()
}

func (h *harness) register(t *testing.T, phone string) {
	t.Helper()
	_, err := h.signup.Register(context.Background(), phone, contact)
	require.NoError(t, err)
	h.sms.Reset()
}

func (h *harness) user(t *testing.T, phone string) *model.User {
	t.Helper()
	user, err := h.users.ByPhone(context.Background(), phone)
	require.NoError(t, err)
	return user
}
