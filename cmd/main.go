package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "rotrack/docs"
	"rotrack/internal/api"
	"rotrack/internal/batch"
	"rotrack/internal/config"
	"rotrack/internal/domain/customer"
	"rotrack/internal/domain/reminder"
	"rotrack/internal/domain/settings"
	"rotrack/internal/event"
	"rotrack/internal/infrastructure/cache"
	"rotrack/internal/infrastructure/database/memory"
	"rotrack/internal/infrastructure/database/postgres"
	"rotrack/internal/infrastructure/logging"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// @title RO Track API
// @version 1.0
// @description Business records API for RO water purifier rentals: customers, monthly payment schedules and consolidated payment reminders.

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, logger := initializeApp()

	customerRepo, settingsRepo, closeStorage := initializeStorage(cfg, logger)
	defer closeStorage()

	publisher, closePublisher := initializePublisher(cfg, logger)
	defer closePublisher()

	reminderCache, closeCache := initializeReminderCache(cfg, logger)
	defer closeCache()

	customerService := customer.NewService(customerRepo, publisher, cfg.Reminder.HorizonYears, logger)
	reminderService := reminder.NewService(customerRepo, settingsRepo, reminderCache, publisher, logger)

	reminderJob := batch.NewDailyReminderJob(reminderService, logger)

	cronScheduler := startBatchJobs(cfg, logger, reminderJob)
	router := api.SetupRouter(customerService, reminderService, settingsRepo, cfg, logger)

	srv, serverErrors, shutdownChan := startServer(cfg, router, logger)
	handleShutdown(srv, cronScheduler, shutdownChan, serverErrors, logger)
}

func initializeApp() (*config.Config, *slog.Logger) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.Logger)
	slog.SetDefault(logger)
	logger.Info("Application starting...", "config_source", viper.ConfigFileUsed())

	return cfg, logger
}

// initializeStorage wires the customer and settings repositories for the
// configured mode. Postgres is the durable default; memory mode keeps
// everything in-process for guest or demo use.
func initializeStorage(cfg *config.Config, logger *slog.Logger) (customer.Repository, settings.Repository, func()) {
	switch cfg.Storage.Mode {
	case config.StorageModeMemory:
		logger.Info("Using in-memory storage (guest mode); data will not survive a restart.")
		store := memory.NewRepository()
		return store, store, func() {}
	case config.StorageModePostgres, "":
		logger.Info("Initializing database connection pool...")
		dbPool, err := postgres.NewConnectionPool(context.Background(), cfg.Database, logger)
		if err != nil {
			logger.Error("Failed to initialize database connection pool", "error", err)
			os.Exit(1)
		}
		customerRepo := postgres.NewCustomerRepository(dbPool, logger)
		settingsRepo := postgres.NewSettingsRepository(dbPool, logger)
		return customerRepo, settingsRepo, func() {
			logger.Info("Closing database connection pool...")
			dbPool.Close()
		}
	default:
		logger.Error("Unknown storage mode", "mode", cfg.Storage.Mode)
		os.Exit(1)
		return nil, nil, nil
	}
}

func initializePublisher(cfg *config.Config, logger *slog.Logger) (event.Publisher, func()) {
	if !cfg.RabbitMQ.Enabled {
		logger.Info("RabbitMQ disabled; events will not be published.")
		return event.NoopPublisher{}, func() {}
	}

	url := fmt.Sprintf("amqp://%s:%s@%s:%d/", cfg.RabbitMQ.Username, cfg.RabbitMQ.Password, cfg.RabbitMQ.Host, cfg.RabbitMQ.Port)
	conn, err := amqp.Dial(url)
	if err != nil {
		logger.Error("Failed to connect to RabbitMQ", "host", cfg.RabbitMQ.Host, "error", err)
		os.Exit(1)
	}

	publisher, err := event.NewRabbitMQPublisher(conn, cfg.RabbitMQ.ExchangeName, logger)
	if err != nil {
		logger.Error("Failed to initialize RabbitMQ publisher", "error", err)
		os.Exit(1)
	}
	logger.Info("RabbitMQ publisher initialized", "exchange", cfg.RabbitMQ.ExchangeName)
	return publisher, func() {
		logger.Info("Closing RabbitMQ connection...")
		if err := conn.Close(); err != nil {
			logger.Warn("Failed to close RabbitMQ connection", "error", err)
		}
	}
}

func initializeReminderCache(cfg *config.Config, logger *slog.Logger) (reminder.Cache, func()) {
	if !cfg.Redis.Enabled {
		logger.Info("Redis disabled; daily reminders will be regenerated on every read.")
		return nil, func() {}
	}

	reminderCache, err := cache.NewRedisReminderCache(context.Background(), cfg.Redis, logger)
	if err != nil {
		logger.Error("Failed to initialize Redis reminder cache", "error", err)
		os.Exit(1)
	}
	logger.Info("Redis reminder cache initialized", "addr", cfg.Redis.Addr)
	return reminderCache, func() {
		logger.Info("Closing Redis connection...")
		if err := reminderCache.Close(); err != nil {
			logger.Warn("Failed to close Redis connection", "error", err)
		}
	}
}

func startServer(cfg *config.Config, router http.Handler, logger *slog.Logger) (*http.Server, <-chan error, <-chan os.Signal) {
	logger.Info("Setting up HTTP server...", "port", cfg.Server.Port)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("Server listening on port %d", cfg.Server.Port))
		err := srv.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			serverErrors <- err
		} else {
			logger.Info("Server closed gracefully.")
			serverErrors <- nil
		}
	}()
	return srv, serverErrors, shutdownChan
}

func handleShutdown(srv *http.Server, cronScheduler *cron.Cron, shutdownChan <-chan os.Signal, serverErrors <-chan error, logger *slog.Logger) {
	logger.Info("Shutdown handler started. Waiting for signal or server error...")

	var triggerReason string
	select {
	case sig := <-shutdownChan:
		triggerReason = "signal: " + sig.String()
		logger.Info("Shutdown signal received.", "signal", sig.String())
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server exited unexpectedly before signal", "error", err)
			os.Exit(1)
		}
		triggerReason = "server exited"
		logger.Info("Server goroutine finished before signal.", "error", err)
	}

	logger.Info("Starting graceful shutdown...", "trigger", triggerReason)

	logger.Info("Stopping cron scheduler...")
	cronCtx := cronScheduler.Stop()
	select {
	case <-cronCtx.Done():
		logger.Info("Cron scheduler stopped gracefully.")
	case <-time.After(15 * time.Second):
		logger.Warn("Cron scheduler shutdown timed out.")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	logger.Info("Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server graceful shutdown failed", "error", err)
		} else {
			logger.Info("HTTP server shutdown initiated.")
		}
		if err := srv.Close(); err != nil {
			logger.Error("HTTP server forced close failed", "error", err)
		}
	} else {
		logger.Info("HTTP server gracefully stopped.")
	}
	logger.Info("Waiting for server goroutine to confirm exit...")
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("Server goroutine exited with unexpected error after shutdown", "error", err)
		} else {
			logger.Info("Server goroutine confirmed exit.")
		}
	case <-time.After(5 * time.Second):
		logger.Warn("Timed out waiting for server goroutine confirmation.")
	}

	logger.Info("Application shutdown process complete.")
}

func startBatchJobs(cfg *config.Config, logger *slog.Logger, reminderJob *batch.DailyReminderJob) *cron.Cron {
	logger.Info("Initializing batch job scheduler...")
	c := cron.New()

	scheduleSpec := cfg.Reminder.Schedule
	if scheduleSpec == "" {
		scheduleSpec = "0 6 * * *"
		logger.Warn("Reminder schedule not configured, using default", "schedule", scheduleSpec)
	}
	jobTimeout := cfg.Reminder.JobTimeout
	if jobTimeout <= 0 {
		jobTimeout = 2 * time.Minute
	}

	jobID, err := c.AddJob(scheduleSpec, cron.FuncJob(func() {
		jobLogger := logger.With("job_name", "DailyReminder")
		jobLogger.Info("Cron triggered: Running daily reminder job.")

		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		if runErr := reminderJob.Run(ctx); runErr != nil {
			jobLogger.Error("Daily reminder job finished with error", slog.Any("error", runErr))
		} else {
			jobLogger.Info("Daily reminder job finished successfully.")
		}
	}))

	if err != nil {
		logger.Error("Failed to schedule daily reminder job", "schedule", scheduleSpec, slog.Any("error", err))

	} else {
		logger.Info("Scheduled daily reminder job", "schedule", scheduleSpec, "job_id", jobID)
	}

	c.Start()
	logger.Info("Cron scheduler started.")
	return c
}
