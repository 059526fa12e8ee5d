package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/templui/smsgoals/internal/model"
	"github.com/templui/smsgoals/internal/repository"
)

// InactivityMonitor counts missed days and alerts emergency contacts once a
// user has been silent for threshold consecutive sweeps.
type InactivityMonitor struct {
	users     repository.UserRepository
	notifier  *Notifier
	email     *EmailService
	clock     Clock
	threshold int
}

func NewInactivityMonitor(
	users repository.UserRepository,
	notifier *Notifier,
	email *EmailService,
	clock Clock,
	threshold int,
) *InactivityMonitor {
	if threshold < 1 {
		threshold = 2
	}
	return &InactivityMonitor{
		users:     users,
		notifier:  notifier,
		email:     email,
		clock:     clock,
		threshold: threshold,
	}
}

// RunInactivitySweep increments the miss counter of every user who has not
// replied since the day before today. Each counter update is atomic with its
// activity check, so a reply racing the sweep is never lost. Reaching the
// threshold resets the counter and texts the emergency contact.
func (m *InactivityMonitor) RunInactivitySweep(ctx context.Context) (*model.SweepReport, error) {
	report := newReport(model.JobInactivitySweep, m.clock)
	defer func() { report.FinishedAt = m.clock.Now().UTC() }()

	ref := m.clock.Today()

	users, err := m.users.Inactive(ctx, ref)
	if err != nil {
		return report, fmt.Errorf("failed to list inactive users: %w", err)
	}
	report.Scanned = len(users)

	for _, user := range users {
		if err := ctx.Err(); err != nil {
			report.Fail(fmt.Sprintf("sweep interrupted: %v", err))
			return report, err
		}

		result, err := m.users.RecordMiss(ctx, user.PhoneNumber, ref, m.threshold)
		if errors.Is(err, repository.ErrUserActive) {
			slog.Debug("user replied during sweep", "phone", user.PhoneNumber)
			report.Skipped++
			continue
		}
		if errors.Is(err, repository.ErrMissRecorded) {
			slog.Debug("miss already counted today", "phone", user.PhoneNumber)
			report.Skipped++
			continue
		}
		if err != nil {
			slog.Error("failed to record miss", "phone", user.PhoneNumber, "error", err)
			report.Fail(fmt.Sprintf("%s: record miss: %v", user.PhoneNumber, err))
			continue
		}

		if !result.Escalated {
			slog.Info("missed day recorded", "phone", user.PhoneNumber, "misses", result.Misses)
			continue
		}

		report.Escalated++
		slog.Warn("escalating to emergency contact",
			"phone", user.PhoneNumber,
			"contact", user.EmergencyContact,
			"misses", result.Misses,
		)

		err = m.notifier.Notify(ctx, user.EmergencyContact, escalationMessage(user.PhoneNumber, m.threshold))
		if err != nil {
			report.Fail(fmt.Sprintf("%s: escalation sms: %v", user.PhoneNumber, err))
		} else {
			report.Sent++
		}

		err = m.email.SendEscalationCopy(ctx, user.PhoneNumber, user.EmergencyContact, result.Misses)
		if err != nil {
			slog.Warn("escalation email not delivered", "phone", user.PhoneNumber, "error", err)
		}
	}

	return report, nil
}
