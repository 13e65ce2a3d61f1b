package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"rotrack/internal/domain/customer"
	"rotrack/internal/domain/settings"
	"rotrack/internal/event"
	"rotrack/internal/infrastructure/monitoring"
	"rotrack/internal/pkg/timeutil"
)

// Cache stores one day's generated reminder list so repeated reads within the
// same day do not regenerate. A cache miss is never an error; generation is
// cheap and the cache is purely an optimization.
type Cache interface {
	GetDaily(ctx context.Context, day string) ([]Reminder, bool, error)
	SetDaily(ctx context.Context, day string, reminders []Reminder) error
}

type Service interface {
	// DailyReminders returns today's consolidated reminders, generating and
	// caching them on first call of the day.
	DailyReminders(ctx context.Context) ([]Reminder, error)

	// Regenerate bypasses the cache, regenerates today's reminders, caches
	// the result and publishes one event per reminder. Used by the daily
	// batch job.
	Regenerate(ctx context.Context) ([]Reminder, error)
}

var _ Service = (*reminderService)(nil)

type reminderService struct {
	customers    customer.Repository
	settingsRepo settings.Repository
	cache        Cache
	pub          event.Publisher
	logger       *slog.Logger
	now          func() time.Time
}

func NewService(customers customer.Repository, settingsRepo settings.Repository, cache Cache, pub event.Publisher, logger *slog.Logger) Service {
	if customers == nil {
		panic("customer repository cannot be nil")
	}
	if settingsRepo == nil {
		panic("settings repository cannot be nil")
	}
	if pub == nil {
		pub = event.NoopPublisher{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}

	return &reminderService{
		customers:    customers,
		settingsRepo: settingsRepo,
		cache:        cache,
		pub:          pub,
		logger:       logger.With(slog.String("component", "reminderService")),
		now:          timeutil.Now,
	}
}

func (s *reminderService) DailyReminders(ctx context.Context) ([]Reminder, error) {
	day := timeutil.DateKey(s.now())

	if s.cache != nil {
		cached, ok, err := s.cache.GetDaily(ctx, day)
		if err != nil {
			s.logger.WarnContext(ctx, "Reminder cache read failed, regenerating", slog.Any("error", err))
		} else if ok {
			s.logger.DebugContext(ctx, "Serving cached daily reminders", slog.String("day", day), slog.Int("count", len(cached)))
			return cached, nil
		}
	}

	reminders, err := s.generate(ctx)
	if err != nil {
		return nil, err
	}
	s.storeInCache(ctx, day, reminders)
	return reminders, nil
}

func (s *reminderService) Regenerate(ctx context.Context) ([]Reminder, error) {
	reminders, err := s.generate(ctx)
	if err != nil {
		return nil, err
	}
	s.storeInCache(ctx, timeutil.DateKey(s.now()), reminders)

	for _, r := range reminders {
		evt := event.ReminderGeneratedEvent{
			Timestamp:      s.now(),
			ReminderID:     r.ID,
			CustomerID:     r.CustomerID,
			CustomerMobile: r.CustomerMobile,
			Type:           string(r.Type),
			Message:        r.Message,
			MessageHi:      r.MessageHi,
		}
		if err := s.pub.PublishReminderGenerated(ctx, evt); err != nil {
			s.logger.ErrorContext(ctx, "Failed to publish reminder event",
				slog.String("reminderID", r.ID), slog.Any("error", err))
		}
	}
	return reminders, nil
}

func (s *reminderService) generate(ctx context.Context) ([]Reminder, error) {
	s.logger.InfoContext(ctx, "Generating daily reminders")

	customers, err := s.customers.FindAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load customers for reminder generation", slog.Any("error", err))
		return nil, fmt.Errorf("failed to load customers: %w", err)
	}

	appSettings, err := s.settingsRepo.Load(ctx)
	if err != nil {
		// Reminders still render with the placeholder link.
		s.logger.WarnContext(ctx, "Failed to load app settings, using defaults", slog.Any("error", err))
		appSettings = settings.AppSettings{}
	}

	reminders := GenerateDaily(customers, appSettings, s.now())
	for _, r := range reminders {
		monitoring.RecordReminder(string(r.Type))
	}

	s.logger.InfoContext(ctx, "Daily reminders generated",
		slog.Int("customers", len(customers)), slog.Int("reminders", len(reminders)))
	return reminders, nil
}

func (s *reminderService) storeInCache(ctx context.Context, day string, reminders []Reminder) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetDaily(ctx, day, reminders); err != nil {
		s.logger.WarnContext(ctx, "Failed to cache daily reminders", slog.Any("error", err))
	}
}
