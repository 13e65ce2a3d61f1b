package api

import (
	"log/slog"
	"net/http"
	"time"

	_ "rotrack/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/traceid"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"rotrack/internal/api/handler"
	mw "rotrack/internal/api/middleware"
	"rotrack/internal/config"
	"rotrack/internal/domain/customer"
	"rotrack/internal/domain/reminder"
	"rotrack/internal/domain/settings"
)

func SetupRouter(customerService customer.Service, reminderService reminder.Service, settingsRepo settings.Repository, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	router := chi.NewRouter()

	setupMiddleware(router, cfg, logger)
	setupMetricsEndpoint(router, cfg, logger)
	setupAuthRoutes(router, cfg, logger)
	setupCustomerRoutes(router, cfg, customerService, logger)
	setupReminderRoutes(router, cfg, reminderService, logger)
	setupSettingsRoutes(router, cfg, settingsRepo, logger)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	setupSwaggerEndpoint(router, logger)

	return router
}

func setupMiddleware(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(traceid.Middleware)
	router.Use(mw.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(middleware.Timeout(60 * time.Second))
	router.Use(mw.NewRateLimiterMiddleware(cfg.Server.RateLimit, logger).Middleware)
	router.Use(mw.MetricsMiddleware())
}

func setupMetricsEndpoint(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	metricsPath := cfg.Metrics.Path
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	logger.Info("Setting up Prometheus metrics endpoint", "path", metricsPath)
	router.Handle(metricsPath, promhttp.Handler())
}

func setupSwaggerEndpoint(router *chi.Mux, logger *slog.Logger) {
	logger.Info("Setting up Swagger UI endpoint", "path", "/swagger/")
	router.Get("/swagger/*", httpSwagger.WrapHandler)
	router.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
	})
}

func setupAuthRoutes(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	authHandler := handler.NewAuthHandler(*cfg, logger)
	router.Route("/auth", func(r chi.Router) {
		r.Post("/token", authHandler.GenerateBearerToken)
	})
}

func setupCustomerRoutes(router chi.Router, cfg *config.Config, svc customer.Service, logger *slog.Logger) {
	h := handler.NewCustomerHandler(svc, logger)

	router.Route("/customers", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Post("/", h.CreateCustomer)
		r.Get("/", h.ListCustomers)
		r.Post("/import", h.ImportCustomers)
		r.Get("/export", h.ExportCustomers)
		r.Route("/{customerID}", func(r chi.Router) {
			r.Get("/", h.GetCustomer)
			r.Put("/", h.UpdateCustomer)
			r.Delete("/", h.DeleteCustomer)
			r.Put("/payments", h.RecordPayments)
		})
	})

	router.Route("/dashboard", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Get("/stats", h.DashboardStats)
	})
}

func setupReminderRoutes(router chi.Router, cfg *config.Config, svc reminder.Service, logger *slog.Logger) {
	h := handler.NewReminderHandler(svc, logger)

	router.Route("/reminders", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Get("/", h.GetDailyReminders)
		r.Post("/regenerate", h.RegenerateReminders)
	})
}

func setupSettingsRoutes(router chi.Router, cfg *config.Config, repo settings.Repository, logger *slog.Logger) {
	h := handler.NewSettingsHandler(repo, logger)

	router.Route("/settings", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Get("/", h.GetSettings)
		r.Put("/", h.UpdateSettings)
	})
}
