package api

import (
	"log/slog"
	"net/http"
	"time"

	"swiftremind/internal/api/handler"
	mw "swiftremind/internal/api/middleware"
	"swiftremind/internal/config"
	"swiftremind/internal/domain/audit"
	"swiftremind/internal/domain/customer"
	"swiftremind/internal/domain/notification"
	"swiftremind/internal/domain/organisation"
	"swiftremind/internal/domain/reminder"
	"swiftremind/internal/domain/user"
	"swiftremind/internal/pkg/authz"

	_ "swiftremind/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/traceid"
	"github.com/redis/go-redis/v9"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// Services bundles the domain services the router mounts handlers for.
type Services struct {
	Customers     customer.CustomerService
	Organisations organisation.OrganisationService
	Reminders     reminder.ReminderService
	Notifications notification.NotificationService
	Users         user.UserService
	AuditLog      audit.Repository
}

func SetupRouter(services Services, cfg *config.Config, redisClient *redis.Client, logger *slog.Logger) *chi.Mux {
	router := chi.NewRouter()

	setupMiddleware(router, cfg, redisClient, logger)
	setupMetricsEndpoint(router, cfg, logger)
	setupAuthRoutes(router, cfg, services.Users, logger)
	setupCustomerRoutes(router, cfg, services.Customers, logger)
	setupOrganisationRoutes(router, cfg, services.Organisations, logger)
	setupReminderRoutes(router, cfg, services.Reminders, logger)
	setupNotificationRoutes(router, cfg, services.Notifications, logger)
	setupUserRoutes(router, cfg, services.Users, logger)
	setupAuditRoutes(router, cfg, services.AuditLog, logger)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	setupSwaggerEndpoint(router, logger)

	return router
}

func setupMiddleware(router *chi.Mux, cfg *config.Config, redisClient *redis.Client, logger *slog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(traceid.Middleware)
	router.Use(mw.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(middleware.Timeout(60 * time.Second))
	router.Use(mw.NewRateLimiterMiddleware(cfg.Server.RateLimit, redisClient, logger).Middleware)
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

func setupAuthRoutes(router *chi.Mux, cfg *config.Config, svc user.UserService, logger *slog.Logger) {
	h := handler.NewAuthHandler(svc, cfg.Server.Auth, logger)

	router.Route("/auth", func(r chi.Router) {
		r.Post("/signup", h.Signup)
		r.Post("/login", h.Login)
		r.Group(func(r chi.Router) {
			r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
			r.Get("/profile", h.Profile)
		})
	})
}

func setupCustomerRoutes(router *chi.Mux, cfg *config.Config, svc customer.CustomerService, logger *slog.Logger) {
	h := handler.NewCustomerHandler(svc, logger)

	router.Route("/customers", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Post("/", h.CreateCustomer)
		r.Get("/", h.ListCustomers)
		r.Route("/{customerID}", func(r chi.Router) {
			r.Get("/", h.GetCustomer)
			r.Patch("/", h.UpdateCustomer)
			r.Delete("/", h.DeleteCustomer)
		})
	})
}

func setupOrganisationRoutes(router *chi.Mux, cfg *config.Config, svc organisation.OrganisationService, logger *slog.Logger) {
	h := handler.NewOrganisationHandler(svc, logger)

	router.Route("/organisations", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Use(mw.RequireRole(logger, authz.RoleSuperadmin))
		r.Post("/", h.CreateOrganisation)
		r.Get("/", h.ListOrganisations)
		r.Route("/{organisationID}", func(r chi.Router) {
			r.Get("/", h.GetOrganisation)
			r.Patch("/", h.UpdateOrganisation)
			r.Delete("/", h.DeleteOrganisation)
		})
	})
}

func setupReminderRoutes(router *chi.Mux, cfg *config.Config, svc reminder.ReminderService, logger *slog.Logger) {
	h := handler.NewReminderHandler(svc, logger)

	router.Route("/reminders", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Post("/", h.CreateReminder)
		r.Get("/", h.ListReminders)
		r.Route("/{reminderID}", func(r chi.Router) {
			r.Get("/", h.GetReminder)
			r.Patch("/", h.UpdateReminder)
			r.Delete("/", h.DeleteReminder)
		})
	})
}

func setupNotificationRoutes(router *chi.Mux, cfg *config.Config, svc notification.NotificationService, logger *slog.Logger) {
	h := handler.NewNotificationHandler(svc, logger)

	router.Route("/notifications", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Get("/", h.ListNotifications)
	})
}

func setupUserRoutes(router *chi.Mux, cfg *config.Config, svc user.UserService, logger *slog.Logger) {
	h := handler.NewUserHandler(svc, logger)

	router.Route("/users", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Use(mw.RequireRole(logger, authz.RoleSuperadmin))
		r.Get("/", h.ListUsers)
		r.Delete("/{userID}", h.DeleteUser)
	})
}

func setupAuditRoutes(router *chi.Mux, cfg *config.Config, repo audit.Repository, logger *slog.Logger) {
	h := handler.NewAuditHandler(repo, logger)

	router.Route("/audit-logs", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Use(mw.RequireRole(logger, authz.RoleAdmin, authz.RoleSuperadmin))
		r.Get("/", h.ListAuditLogs)
	})
}
