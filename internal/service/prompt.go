package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/templui/smsgoals/internal/model"
	"github.com/templui/smsgoals/internal/repository"
	"golang.org/x/text/cases"
)

// PromptService sends the scheduled morning prompt and evening follow-up.
type PromptService struct {
	users       repository.UserRepository
	records     repository.GoalRecordRepository
	notifier    *Notifier
	clock       Clock
	historyDays int
}

func NewPromptService(
	users repository.UserRepository,
	records repository.GoalRecordRepository,
	notifier *Notifier,
	clock Clock,
	historyDays int,
) *PromptService {
	if historyDays < 1 {
		historyDays = 7
	}
	return &PromptService{
		users:       users,
		records:     records,
		notifier:    notifier,
		clock:       clock,
		historyDays: historyDays,
	}
}

// RunDailyPrompt asks every user for today's goals and for a yes/no on each
// of yesterday's. A failed history read still sends the plain prompt.
func (s *PromptService) RunDailyPrompt(ctx context.Context) (*model.SweepReport, error) {
	report := newReport(model.JobDailyPrompt, s.clock)
	defer func() { report.FinishedAt = s.clock.Now().UTC() }()

	today := s.clock.Today()
	yesterday := today.AddDays(-1)

	users, err := s.users.All(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to list users: %w", err)
	}
	report.Scanned = len(users)

	for _, user := range users {
		if err := ctx.Err(); err != nil {
			report.Fail(fmt.Sprintf("sweep interrupted: %v", err))
			return report, err
		}

		history, err := s.records.Since(ctx, user.PhoneNumber, today.AddDays(-s.historyDays))
		if err != nil {
			slog.Warn("failed to load goal history for prompt", "phone", user.PhoneNumber, "error", err)
			history = nil
		}

		var yesterdayGoals []string
		for _, record := range history {
			if record.Date == yesterday {
				yesterdayGoals = record.Goals
			}
		}

		body := dailyPromptMessage(yesterdayGoals, carriedGoals(history, yesterday))
		if err := s.notifier.Notify(ctx, user.PhoneNumber, body); err != nil {
			report.Fail(fmt.Sprintf("%s: %v", user.PhoneNumber, err))
			continue
		}
		report.Sent++
	}

	slog.Info("daily prompt sent", "date", today.String(), "sent", report.Sent, "failed", len(report.Failures))
	return report, nil
}

// RunEveningFollowup reminds users of today's open goals, or nudges those who
// set none. Users with everything done are left alone.
func (s *PromptService) RunEveningFollowup(ctx context.Context) (*model.SweepReport, error) {
	report := newReport(model.JobEveningFollowup, s.clock)
	defer func() { report.FinishedAt = s.clock.Now().UTC() }()

	today := s.clock.Today()

	users, err := s.users.All(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to list users: %w", err)
	}
	report.Scanned = len(users)

	for _, user := range users {
		if err := ctx.Err(); err != nil {
			report.Fail(fmt.Sprintf("sweep interrupted: %v", err))
			return report, err
		}

		var body string
		record, err := s.records.ByDate(ctx, user.PhoneNumber, today)
		switch {
		case errors.Is(err, repository.ErrGoalRecordNotFound):
			body = replyNoGoalsToday
		case err != nil:
			report.Fail(fmt.Sprintf("%s: load goals: %v", user.PhoneNumber, err))
			continue
		default:
			open := record.Incomplete()
			if len(open) == 0 {
				report.Skipped++
				continue
			}
			body = eveningFollowupMessage(open)
		}

		if err := s.notifier.Notify(ctx, user.PhoneNumber, body); err != nil {
			report.Fail(fmt.Sprintf("%s: %v", user.PhoneNumber, err))
			continue
		}
		report.Sent++
	}

	slog.Info("evening follow-up sent", "date", today.String(), "sent", report.Sent, "skipped", report.Skipped)
	return report, nil
}

// carriedGoals returns goals left incomplete on days before yesterday, in the
// order first seen and without duplicates. A goal completed on a later day,
// or listed again yesterday, is not carried.
func carriedGoals(history []*model.GoalRecord, yesterday model.Date) []string {
	var order []string
	pending := map[string]string{}

	for _, record := range history {
		if !record.Date.Before(yesterday) {
			for _, goal := range record.Goals {
				delete(pending, goalKey(goal))
			}
			continue
		}
		for i, goal := range record.Goals {
			key := goalKey(goal)
			if i < len(record.CompletionStatus) && record.CompletionStatus[i] {
				delete(pending, key)
				continue
			}
			if _, ok := pending[key]; !ok {
				order = append(order, key)
			}
			pending[key] = goal
		}
	}

	var out []string
	seen := map[string]bool{}
	for _, key := range order {
		goal, ok := pending[key]
		if !ok || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, goal)
	}
	return out
}

func goalKey(goal string) string {
	return cases.Fold().String(strings.Join(strings.Fields(goal), " "))
}
