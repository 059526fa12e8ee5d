// Package scheduler runs the periodic sweeps. Each job is non-reentrant: a
// run that is still in flight blocks the next one, whether it was started by
// the clock or on demand.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/templui/smsgoals/internal/model"
)

var (
	ErrJobRunning = errors.New("job is already running")
	ErrUnknownJob = errors.New("unknown job")
)

// RunFunc executes one pass of a job.
type RunFunc func(ctx context.Context) (*model.SweepReport, error)

// Archiver stores finished reports.
type Archiver interface {
	Archive(ctx context.Context, report *model.SweepReport) (string, error)
}

type job struct {
	name     string
	schedule Schedule
	run      RunFunc
	running  atomic.Bool
	next     time.Time
}

type Scheduler struct {
	now      func() time.Time
	interval time.Duration
	archiver Archiver

	mu   sync.Mutex
	jobs map[string]*job
	wg   sync.WaitGroup
}

type Option func(*Scheduler)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// WithInterval sets how often due jobs are checked. Defaults to a minute.
func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) { s.interval = d }
}

func WithArchiver(a Archiver) Option {
	return func(s *Scheduler) { s.archiver = a }
}

func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		now:      time.Now,
		interval: time.Minute,
		jobs:     map[string]*job{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scheduler) Register(name string, schedule Schedule, run RunFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %q already registered", name)
	}
	s.jobs[name] = &job{
		name:     name,
		schedule: schedule,
		run:      run,
		next:     schedule.Next(s.now()),
	}
	return nil
}

// Jobs lists registered job names in order.
func (s *Scheduler) Jobs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NextRun returns when name is next due.
func (s *Scheduler) NextRun(name string) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[name]
	if !ok {
		return time.Time{}, ErrUnknownJob
	}
	return j.next, nil
}

// Start checks for due jobs until ctx is cancelled, then waits for in-flight
// runs to finish. Runs missed while the process was down are not caught up.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	for _, j := range s.jobs {
		j.next = j.schedule.Next(s.now())
		slog.Info("job scheduled", "job", j.name, "schedule", j.schedule.String(), "next", j.next)
	}
	s.mu.Unlock()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.wg.Wait()
			return nil
		case <-ticker.C:
			s.Tick(ctx, s.now())
		}
	}
}

// Tick launches every job due at now. Launched runs are tracked and can be
// awaited with Wait.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) {
	s.mu.Lock()
	var due []*job
	for _, j := range s.jobs {
		if !now.Before(j.next) {
			j.next = j.schedule.Next(now)
			due = append(due, j)
		}
	}
	s.mu.Unlock()

	for _, j := range due {
		err := s.launch(ctx, j)
		if errors.Is(err, ErrJobRunning) {
			slog.Warn("skipping job, previous run still in progress", "job", j.name)
		}
	}
}

// RunNow runs name synchronously and returns its report.
func (s *Scheduler) RunNow(ctx context.Context, name string) (*model.SweepReport, error) {
	j, err := s.job(name)
	if err != nil {
		return nil, err
	}
	if !j.running.CompareAndSwap(false, true) {
		return nil, ErrJobRunning
	}
	defer j.running.Store(false)

	return s.execute(ctx, j)
}

// Wait blocks until all launched runs have finished.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

func (s *Scheduler) job(name string) (*job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}
	return j, nil
}

func (s *Scheduler) launch(ctx context.Context, j *job) error {
	if !j.running.CompareAndSwap(false, true) {
		return ErrJobRunning
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer j.running.Store(false)

		_, _ = s.execute(ctx, j)
	}()
	return nil
}

func (s *Scheduler) execute(ctx context.Context, j *job) (report *model.SweepReport, err error) {
	start := s.now()
	slog.Info("job started", "job", j.name)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %s panicked: %v", j.name, r)
			slog.Error("job panicked", "job", j.name, "panic", r)
		}
	}()

	report, err = j.run(ctx)
	duration := s.now().Sub(start)

	if err != nil {
		slog.Error("job failed", "job", j.name, "duration", duration, "error", err)
	} else {
		slog.Info("job finished", "job", j.name, "duration", duration)
	}

	if report != nil {
		attrs := []any{
			"job", j.name,
			"run_id", report.RunID,
			"scanned", report.Scanned,
			"sent", report.Sent,
			"skipped", report.Skipped,
			"escalated", report.Escalated,
			"failures", len(report.Failures),
		}
		slog.Info("job report", attrs...)

		if s.archiver != nil {
			// A sweep cut short by shutdown still gets archived.
			if _, archErr := s.archiver.Archive(context.WithoutCancel(ctx), report); archErr != nil {
				slog.Warn("failed to archive report", "job", j.name, "error", archErr)
			}
		}
	}

	return report, err
}
