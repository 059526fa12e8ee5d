package model

import (
	"time"
)

const (
	JobDailyPrompt     = "daily-prompt"
	JobInactivitySweep = "inactivity-sweep"
	JobEveningFollowup = "evening-followup"
)

// SweepReport summarises one pass of a scheduled job over all users.
type SweepReport struct {
	RunID      string    `json:"run_id"`
	Job        string    `json:"job"`
	Date       string    `json:"date"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Scanned    int       `json:"scanned"`
	Sent       int       `json:"sent"`
	Skipped    int       `json:"skipped"`
	Escalated  int       `json:"escalated"`
	Failures   []string  `json:"failures,omitempty"`
}

func (r *SweepReport) Fail(msg string) {
	r.Failures = append(r.Failures, msg)
}
