package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/voixlab/portier/internal/config"
	"github.com/voixlab/portier/internal/repository"
)

const publishTimeout = 30 * time.Second

// StartScheduler registers the weekly and monthly report jobs and
// starts the cron loop on its own goroutine. Schedule expressions carry
// a seconds field.
func StartScheduler(cfg *config.Config, reporter *Reporter) (*cron.Cron, error) {
	c := cron.New(cron.WithSeconds())
	if _, err := c.AddFunc(cfg.WeeklySchedule, runPeriod(reporter, repository.PeriodWeekly)); err != nil {
		return nil, fmt.Errorf("weekly schedule %q is invalid: %w", cfg.WeeklySchedule, err)
	}
	if _, err := c.AddFunc(cfg.MonthlySchedule, runPeriod(reporter, repository.PeriodMonthly)); err != nil {
		return nil, fmt.Errorf("monthly schedule %q is invalid: %w", cfg.MonthlySchedule, err)
	}
	c.Start()
	slog.Info("report scheduler started",
		"weekly_schedule", cfg.WeeklySchedule,
		"monthly_schedule", cfg.MonthlySchedule)
	return c, nil
}

func runPeriod(reporter *Reporter, period repository.Period) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := reporter.Publish(ctx, period); err != nil {
			slog.Error("report cycle skipped", "period", string(period), "error", err)
			return
		}
		slog.Info("report published", "period", string(period))
	}
}
