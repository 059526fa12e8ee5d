package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/templui/smsgoals/internal/app"
	"github.com/templui/smsgoals/internal/config"
	"github.com/templui/smsgoals/internal/logger"
	"github.com/templui/smsgoals/internal/model"
)

var jobNames = []string{model.JobDailyPrompt, model.JobInactivitySweep, model.JobEveningFollowup}

func RunCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "run <job>",
		Short:     "Run one scheduled job now and print its report",
		Long:      "Jobs: " + strings.Join(jobNames, ", "),
		Args:      cobra.ExactArgs(1),
		ValidArgs: jobNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logger.Init(cfg.IsDevelopment(), cfg.LogLevel, cfg.SentryDSN)

			a, err := app.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.Scheduler.RunNow(cmd.Context(), args[0])
			if report != nil {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				if encErr := enc.Encode(report); encErr != nil {
					return encErr
				}
			}
			if err != nil {
				return fmt.Errorf("job %s: %w", args[0], err)
			}
			return nil
		},
	}
}
