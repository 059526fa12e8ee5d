package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/templui/smsgoals/internal/intent"
	"github.com/templui/smsgoals/internal/model"
	"github.com/templui/smsgoals/internal/repository"
	"github.com/templui/smsgoals/internal/service/assistant"
)

var (
	ErrNoPriorGoals      = errors.New("no goal record for the previous day")
	ErrGoalCountMismatch = errors.New("completion answers do not match goal count")
)

// Outcome is the result of reconciling one inbound message. Reply is always
// set. Anomaly records a recovered condition the reply already explains.
type Outcome struct {
	Intent  intent.Intent
	Reply   string
	Record  *model.GoalRecord
	Anomaly error
}

type GoalServiceConfig struct {
	HistoryDays      int
	MaxReplyLength   int
	AssistantTimeout time.Duration
}

// GoalService applies classified messages to the goal store and produces the
// reply text.
type GoalService struct {
	users      repository.UserRepository
	records    repository.GoalRecordRepository
	assistant  assistant.Assistant
	cfg        GoalServiceConfig
	mismatches atomic.Int64
}

func NewGoalService(
	users repository.UserRepository,
	records repository.GoalRecordRepository,
	asst assistant.Assistant,
	cfg GoalServiceConfig,
) *GoalService {
	if asst == nil {
		asst = assistant.Disabled{}
	}
	if cfg.HistoryDays < 1 {
		cfg.HistoryDays = 7
	}
	if cfg.MaxReplyLength < 1 {
		cfg.MaxReplyLength = 480
	}
	if cfg.AssistantTimeout <= 0 {
		cfg.AssistantTimeout = 8 * time.Second
	}
	return &GoalService{
		users:     users,
		records:   records,
		assistant: asst,
		cfg:       cfg,
	}
}

// Mismatches returns how many completion reports disagreed with their
// record's goal count since start.
func (s *GoalService) Mismatches() int64 {
	return s.mismatches.Load()
}

// Reconcile applies in on behalf of phoneNumber. Exactly one user update is
// written per call. A non-nil error means the store was unavailable and
// nothing should be sent.
func (s *GoalService) Reconcile(ctx context.Context, phoneNumber string, in intent.Intent, today model.Date) (*Outcome, error) {
	out := &Outcome{Intent: in}

	switch in.Kind {
	case intent.SetGoals:
		record, err := s.records.ReplaceGoals(ctx, phoneNumber, today, in.Goals)
		if err != nil {
			return nil, fmt.Errorf("failed to store goals: %w", err)
		}
		out.Record = record
		out.Reply = goalsSetMessage(record.Goals)

	case intent.ReportCompletion:
		record, matched, err := s.records.ApplyCompletion(ctx, phoneNumber, today.AddDays(-1), in.Flags)
		switch {
		case errors.Is(err, repository.ErrGoalRecordNotFound):
			out.Reply = replyNoPriorGoals
			out.Anomaly = ErrNoPriorGoals
		case err != nil:
			return nil, fmt.Errorf("failed to store completion: %w", err)
		case !matched:
			s.mismatches.Add(1)
			slog.Warn("completion count mismatch",
				"phone", phoneNumber,
				"answers", len(in.Flags),
				"goals", len(record.Goals),
				"date", record.Date.String(),
			)
			out.Record = record
			out.Reply = mismatchMessage(len(in.Flags), len(record.Goals))
			out.Anomaly = ErrGoalCountMismatch
		default:
			out.Record = record
			out.Reply = completionMessage(record.CompletedCount(), len(record.Goals))
		}
	}

	err := s.users.RecordResponse(ctx, phoneNumber, today)
	if err != nil {
		return nil, fmt.Errorf("failed to record response: %w", err)
	}

	if in.Kind == intent.Freeform {
		out.Reply, out.Anomaly = s.freeformReply(ctx, phoneNumber, in.Text, today)
	}

	return out, nil
}

func (s *GoalService) freeformReply(ctx context.Context, phoneNumber, text string, today model.Date) (string, error) {
	history, err := s.records.Since(ctx, phoneNumber, today.AddDays(-s.cfg.HistoryDays))
	if err != nil {
		slog.Warn("failed to load goal history", "phone", phoneNumber, "error", err)
		history = nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.AssistantTimeout)
	defer cancel()

	reply, err := s.assistant.Complete(ctx, buildFreeformPrompt(history, text))
	if err != nil {
		slog.Warn("assistant unavailable, using fallback reply", "assistant", s.assistant.Name(), "error", err)
		return replyFallback, assistant.ErrUnavailable
	}
	return truncateReply(reply, s.cfg.MaxReplyLength), nil
}

// buildFreeformPrompt lists recent goals one day per line, oldest first,
// followed by the message being answered.
func buildFreeformPrompt(history []*model.GoalRecord, message string) string {
	var b strings.Builder

	b.WriteString("recent_goals:\n")
	if len(history) == 0 {
		b.WriteString("(none)\n")
	}
	for _, record := range history {
		b.WriteString(record.Date.String())
		b.WriteString(": ")
		for i, goal := range record.Goals {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(goal)
			if i < len(record.CompletionStatus) && record.CompletionStatus[i] {
				b.WriteString(" [done]")
			} else {
				b.WriteString(" [open]")
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("message: ")
	b.WriteString(message)
	b.WriteString("\n")

	return b.String()
}
