package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/templui/smsgoals/internal/intent"
	"github.com/templui/smsgoals/internal/repository"
	"github.com/templui/smsgoals/internal/service/sms"
)

// MessageService handles one inbound text end to end: sender lookup,
// classification, reconciliation and the reply.
type MessageService struct {
	users    repository.UserRepository
	signup   *UserService
	records  repository.GoalRecordRepository
	goals    *GoalService
	notifier *Notifier
	clock    Clock
}

func NewMessageService(
	users repository.UserRepository,
	signup *UserService,
	records repository.GoalRecordRepository,
	goals *GoalService,
	notifier *Notifier,
	clock Clock,
) *MessageService {
	return &MessageService{
		users:    users,
		signup:   signup,
		records:  records,
		goals:    goals,
		notifier: notifier,
		clock:    clock,
	}
}

// HandleInbound returns an error only when the store is unavailable, in which
// case no reply is sent and the gateway may retry.
func (s *MessageService) HandleInbound(ctx context.Context, msg sms.InboundMessage) (*Outcome, error) {
	phone := canonicalPhone(msg.FromNumber)

	_, err := s.users.ByPhone(ctx, phone)
	if errors.Is(err, repository.ErrUserNotFound) {
		return s.handleUnregistered(ctx, phone, msg.Text)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load sender: %w", err)
	}

	today := s.clock.Today()

	prior, err := s.records.ByDate(ctx, phone, today.AddDays(-1))
	if errors.Is(err, repository.ErrGoalRecordNotFound) {
		prior = nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to load previous goals: %w", err)
	}

	in := intent.Classify(msg.Text, prior)

	out, err := s.goals.Reconcile(ctx, phone, in, today)
	if err != nil {
		return nil, err
	}

	slog.Info("inbound message handled",
		"phone", phone,
		"intent", in.Kind.String(),
		"mismatch", in.Mismatch(),
		"date", today.String(),
		"anomaly", anomalyName(out.Anomaly),
	)

	_ = s.notifier.Notify(ctx, phone, out.Reply)
	return out, nil
}

var registerRe = regexp.MustCompile(`(?i)^\s*register\s+(.+?)\s*$`)

// handleUnregistered lets an unknown number sign up with
// "register <emergency contact>". Anything else gets instructions.
func (s *MessageService) handleUnregistered(ctx context.Context, phone, text string) (*Outcome, error) {
	m := registerRe.FindStringSubmatch(text)
	if m == nil {
		slog.Info("message from unregistered number", "phone", phone)
		out := &Outcome{Reply: replyNotRegistered, Anomaly: repository.ErrUserNotFound}
		_ = s.notifier.Notify(ctx, phone, out.Reply)
		return out, nil
	}

	// Register sends the welcome text itself.
	_, err := s.signup.Register(ctx, phone, m[1])
	switch {
	case err == nil:
		return &Outcome{Reply: welcomeMessage()}, nil
	case errors.Is(err, ErrInvalidPhone), errors.Is(err, ErrMissingField):
		out := &Outcome{Reply: replyBadContact, Anomaly: err}
		_ = s.notifier.Notify(ctx, phone, out.Reply)
		return out, nil
	case errors.Is(err, repository.ErrDuplicateUser):
		return &Outcome{Reply: welcomeMessage(), Anomaly: err}, nil
	default:
		return nil, fmt.Errorf("failed to register sender: %w", err)
	}
}

func anomalyName(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

