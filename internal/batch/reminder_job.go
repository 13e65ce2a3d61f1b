package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"rotrack/internal/domain/reminder"
	"rotrack/internal/infrastructure/monitoring"
)

// DailyReminderJob regenerates the consolidated reminder list once per day.
// It runs on a cron schedule and forces a fresh generation so the cache and
// the published reminder events always reflect the current date.
type DailyReminderJob struct {
	reminderService reminder.Service
	logger          *slog.Logger
}

func NewDailyReminderJob(reminderSvc reminder.Service, logger *slog.Logger) *DailyReminderJob {
	if reminderSvc == nil || logger == nil {
		panic("DailyReminderJob dependencies cannot be nil")
	}
	return &DailyReminderJob{
		reminderService: reminderSvc,
		logger:          logger.With("job", "DailyReminder"),
	}
}

func (j *DailyReminderJob) Run(ctx context.Context) error {
	startTime := time.Now()
	j.logger.InfoContext(ctx, "Starting daily reminder generation job.")

	reminders, err := j.reminderService.Regenerate(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Daily reminder generation job failed.", slog.Any("error", err))
		return fmt.Errorf("cannot regenerate daily reminders: %w", err)
	}

	duration := time.Since(startTime)
	monitoring.Business.ReminderJobDuration.Observe(duration.Seconds())

	overdueCount := 0
	monthlyCount := 0
	for _, r := range reminders {
		switch r.Type {
		case reminder.TypeOverdue:
			overdueCount++
		case reminder.TypeMonthly:
			monthlyCount++
		}
	}

	j.logger.InfoContext(ctx, "Daily reminder generation job finished.",
		slog.Duration("duration", duration),
		slog.Int("reminders_generated", len(reminders)),
		slog.Int("overdue_reminders", overdueCount),
		slog.Int("monthly_reminders", monthlyCount),
	)
	return nil
}
