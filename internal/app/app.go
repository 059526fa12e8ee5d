package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/smsgoals/internal/config"
	"github.com/templui/smsgoals/internal/db"
	"github.com/templui/smsgoals/internal/model"
	"github.com/templui/smsgoals/internal/repository"
	"github.com/templui/smsgoals/internal/scheduler"
	"github.com/templui/smsgoals/internal/service"
	"github.com/templui/smsgoals/internal/service/assistant"
	"github.com/templui/smsgoals/internal/service/sms"
	"github.com/templui/smsgoals/internal/storage"
)

type App struct {
	Cfg               *config.Config
	DB                *sqlx.DB
	Clock             service.Clock
	AuthService       *service.AuthService
	UserService       *service.UserService
	GoalService       *service.GoalService
	MessageService    *service.MessageService
	PromptService     *service.PromptService
	InactivityMonitor *service.InactivityMonitor
	EmailService      *service.EmailService
	ReportService     *service.ReportService
	SMSVerifier       sms.Verifier
	Scheduler         *scheduler.Scheduler
}

// Deps overrides the external collaborators, mainly for tests. Nil fields
// are built from config.
type Deps struct {
	DB        *sqlx.DB
	SMS       sms.Provider
	Assistant assistant.Assistant
	Storage   storage.Storage
	Now       func() time.Time
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	return NewWithDeps(ctx, cfg, Deps{})
}

func NewWithDeps(ctx context.Context, cfg *config.Config, deps Deps) (*App, error) {
	var err error

	// Initialize database
	database := deps.DB
	if database == nil {
		database, err = db.Init(cfg.DBDriver, cfg.DBConnection)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %v", err)
		}
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	goalRecordRepository := repository.NewGoalRecordRepository(database)

	// External collaborators
	smsProvider := deps.SMS
	if smsProvider == nil {
		smsProvider, err = sms.NewProvider(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize sms provider: %v", err)
		}
	}

	verifier, err := sms.NewVerifier(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize webhook verifier: %v", err)
	}

	asst := deps.Assistant
	if asst == nil {
		asst, err = assistant.New(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize assistant: %v", err)
		}
	}

	reportStorage := deps.Storage
	if reportStorage == nil {
		reportStorage, err = storage.New(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %v", err)
		}
	}

	// Services
	clock := service.NewClock(cfg.Location(), deps.Now)
	notifier := service.NewNotifier(smsProvider)
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.EscalationEmail,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	authService := service.NewAuthService(cfg.AdminJWTSecret)
	userService := service.NewUserService(userRepository, notifier, clock)
	goalService := service.NewGoalService(userRepository, goalRecordRepository, asst, service.GoalServiceConfig{
		HistoryDays:      cfg.HistoryDays,
		MaxReplyLength:   cfg.MaxReplyLength,
		AssistantTimeout: cfg.AssistantTimeout,
	})
	messageService := service.NewMessageService(userRepository, userService, goalRecordRepository, goalService, notifier, clock)
	promptService := service.NewPromptService(userRepository, goalRecordRepository, notifier, clock, cfg.HistoryDays)
	inactivityMonitor := service.NewInactivityMonitor(userRepository, notifier, emailService, clock, cfg.EscalationThreshold)
	reportService := service.NewReportService(reportStorage)

	sched, err := newScheduler(cfg, clock, reportService, promptService, inactivityMonitor)
	if err != nil {
		return nil, err
	}

	return &App{
		Cfg:               cfg,
		DB:                database,
		Clock:             clock,
		AuthService:       authService,
		UserService:       userService,
		GoalService:       goalService,
		MessageService:    messageService,
		PromptService:     promptService,
		InactivityMonitor: inactivityMonitor,
		EmailService:      emailService,
		ReportService:     reportService,
		SMSVerifier:       verifier,
		Scheduler:         sched,
	}, nil
}

func newScheduler(
	cfg *config.Config,
	clock service.Clock,
	reports *service.ReportService,
	prompts *service.PromptService,
	monitor *service.InactivityMonitor,
) (*scheduler.Scheduler, error) {
	loc := clock.Location()
	sched := scheduler.New(scheduler.WithClock(clock.Now), scheduler.WithArchiver(reports))

	daily, err := scheduler.ParseDaily(cfg.DailyPromptAt, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid DAILY_PROMPT_AT: %v", err)
	}
	evening, err := scheduler.ParseDaily(cfg.EveningFollowupAt, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid EVENING_FOLLOWUP_AT: %v", err)
	}

	var sweep scheduler.Schedule
	if cfg.InactivitySweepEvery > 0 {
		sweep = scheduler.Every(cfg.InactivitySweepEvery)
	} else {
		sweep, err = scheduler.ParseDaily(cfg.InactivitySweepAt, loc)
		if err != nil {
			return nil, fmt.Errorf("invalid INACTIVITY_SWEEP_AT: %v", err)
		}
	}

	jobs := []struct {
		name     string
		schedule scheduler.Schedule
		run      scheduler.RunFunc
	}{
		{model.JobDailyPrompt, daily, prompts.RunDailyPrompt},
		{model.JobInactivitySweep, sweep, monitor.RunInactivitySweep},
		{model.JobEveningFollowup, evening, prompts.RunEveningFollowup},
	}
	for _, j := range jobs {
		err := sched.Register(j.name, j.schedule, j.run)
		if err != nil {
			return nil, err
		}
	}

	return sched, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
