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

	_ "swiftremind/docs"
	"swiftremind/internal/api"
	"swiftremind/internal/batch"
	"swiftremind/internal/config"
	"swiftremind/internal/domain/customer"
	"swiftremind/internal/domain/notification"
	"swiftremind/internal/domain/organisation"
	"swiftremind/internal/domain/reminder"
	"swiftremind/internal/domain/user"
	"swiftremind/internal/event"
	"swiftremind/internal/infrastructure/database/postgres"
	"swiftremind/internal/infrastructure/logging"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// @title SwiftRemind API
// @version 1.0
// @description Multi-tenant customer and payment reminder service.

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, logger := initializeApp()

	dbPool := initializeDatabase(cfg, logger)
	defer closeDatabase(dbPool, logger)
	rabbitMQConn := setupRabbitMQ(cfg, logger)
	redisClient := initializeRedisClient(cfg, logger)

	services, jobs := initializeServices(cfg, rabbitMQConn, dbPool, logger)

	cronScheduler := startBatchJobs(cfg, logger, jobs)
	router := api.SetupRouter(services, cfg, redisClient, logger)

	srv, serverErrors, shutdownChan := startServer(cfg, router, logger)
	handleShutdown(srv, cronScheduler, rabbitMQConn, redisClient, shutdownChan, serverErrors, logger)
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

func initializeDatabase(cfg *config.Config, logger *slog.Logger) *pgxpool.Pool {
	logger.Info("Initializing database connection pool...")
	dbPool, err := postgres.NewConnectionPool(context.Background(), cfg.Database, logger)
	if err != nil {
		logger.Error("Failed to initialize database connection pool", "error", err)
		os.Exit(1)
	}
	return dbPool
}

func closeDatabase(dbPool *pgxpool.Pool, logger *slog.Logger) {
	logger.Info("Closing database connection pool...")
	dbPool.Close()
}

// batchJobs carries the scheduled jobs from wiring to the cron setup.
type batchJobs struct {
	paymentStatus    *batch.PaymentStatusRefreshJob
	reminderDispatch *batch.ReminderDispatchJob
}

func initializeServices(cfg *config.Config, rabbitConn *amqp.Connection, dbPool *pgxpool.Pool, logger *slog.Logger) (api.Services, batchJobs) {
	logger.Info("Initializing application components...")

	customerRepo := postgres.NewCustomerRepository(dbPool, logger)
	organisationRepo := postgres.NewOrganisationRepository(dbPool, logger)
	reminderRepo := postgres.NewReminderRepository(dbPool, logger)
	notificationRepo := postgres.NewNotificationRepository(dbPool, logger)
	userRepo := postgres.NewUserRepository(dbPool, logger)
	auditRepo := postgres.NewAuditRepository(dbPool, logger)

	var publisher event.Publisher = event.NoopPublisher{}
	if rabbitConn != nil {
		p, err := event.NewRabbitMQEventPublisher(rabbitConn, cfg.RabbitMQ.ExchangeName, logger)
		if err != nil {
			logger.Error("Failed to initialize RabbitMQ publisher, falling back to noop", "error", err)
		} else {
			publisher = p
		}
	}

	services := api.Services{
		Customers:     customer.NewCustomerService(customerRepo, auditRepo, publisher, logger),
		Organisations: organisation.NewOrganisationService(organisationRepo, logger),
		Reminders:     reminder.NewReminderService(reminderRepo, logger),
		Notifications: notification.NewNotificationService(notificationRepo, logger),
		Users:         user.NewUserService(userRepo, logger),
		AuditLog:      auditRepo,
	}
	jobs := batchJobs{
		paymentStatus:    batch.NewPaymentStatusRefreshJob(customerRepo, publisher, logger),
		reminderDispatch: batch.NewReminderDispatchJob(reminderRepo, notificationRepo, publisher, logger),
	}
	return services, jobs
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

func handleShutdown(srv *http.Server, cronScheduler *cron.Cron, rabbitConn *amqp.Connection, redisClient *redis.Client,
	shutdownChan <-chan os.Signal, serverErrors <-chan error, logger *slog.Logger) {
	logger.Info("Shutdown handler started. Waiting for signal or server error...")

	triggerReason := waitForShutdownTrigger(shutdownChan, serverErrors, logger)

	logger.Info("Starting graceful shutdown...", "trigger", triggerReason)

	stopCronScheduler(cronScheduler, logger)
	closeRabbitMQConnection(rabbitConn, logger)
	closeRedisClient(redisClient, logger)
	shutdownHTTPServer(srv, serverErrors, logger)

	logger.Info("Application shutdown process complete.")
}

func waitForShutdownTrigger(shutdownChan <-chan os.Signal, serverErrors <-chan error, logger *slog.Logger) string {
	select {
	case sig := <-shutdownChan:
		logger.Info("Shutdown signal received.", "signal", sig.String())
		return "signal: " + sig.String()
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server exited unexpectedly before signal", "error", err)
			os.Exit(1)
		}
		logger.Info("Server goroutine finished before signal.", "error", err)
		return "server exited"
	}
}

func stopCronScheduler(cronScheduler *cron.Cron, logger *slog.Logger) {
	logger.Info("Stopping cron scheduler...")
	cronCtx := cronScheduler.Stop()
	select {
	case <-cronCtx.Done():
		logger.Info("Cron scheduler stopped gracefully.")
	case <-time.After(15 * time.Second):
		logger.Warn("Cron scheduler shutdown timed out.")
	}
}

func closeRabbitMQConnection(rabbitConn *amqp.Connection, logger *slog.Logger) {
	if rabbitConn != nil && !rabbitConn.IsClosed() {
		logger.Info("Closing RabbitMQ connection...")
		if err := rabbitConn.Close(); err != nil {
			logger.Error("Failed to close RabbitMQ connection gracefully", slog.Any("error", err))
		} else {
			logger.Info("RabbitMQ connection closed.")
		}
	} else if rabbitConn == nil {
		logger.Info("RabbitMQ connection was not established, skipping close.")
	} else {
		logger.Info("RabbitMQ connection already closed, skipping close.")
	}
}

func shutdownHTTPServer(srv *http.Server, serverErrors <-chan error, logger *slog.Logger) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
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
}

func initializeRedisClient(cfg *config.Config, logger *slog.Logger) *redis.Client {
	if !cfg.Redis.Enabled {
		logger.Info("Redis is disabled in configuration; rate limiting will be off.")
		return nil
	}

	logger.Info("Initializing Redis client...", "addr", cfg.Redis.Addr)
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if status := rdb.Ping(ctx); status.Err() != nil {
		logger.Error("Failed to connect to Redis", "error", status.Err(), "addr", cfg.Redis.Addr)
		_ = rdb.Close()
		os.Exit(1)
		return nil
	}

	logger.Info("Redis client connected successfully.", "addr", cfg.Redis.Addr, "db", cfg.Redis.DB)
	return rdb
}

func closeRedisClient(redisClient *redis.Client, logger *slog.Logger) {
	if redisClient != nil {
		logger.Info("Closing Redis client connection...")
		if err := redisClient.Close(); err != nil {
			logger.Error("Failed to close Redis client connection gracefully", "error", err)
		} else {
			logger.Info("Redis client connection closed.")
		}
	} else {
		logger.Info("Redis client was not initialized, skipping close.")
	}
}

func startBatchJobs(cfg *config.Config, logger *slog.Logger, jobs batchJobs) *cron.Cron {
	logger.Info("Initializing batch job scheduler...")
	c := cron.New()

	jobTimeout := cfg.Batch.JobTimeout
	if jobTimeout <= 0 {
		jobTimeout = 30 * time.Minute
	}

	scheduleJob(c, logger, "PaymentStatusRefresh", cfg.Batch.PaymentStatusSchedule, "0 2 * * *", jobTimeout, jobs.paymentStatus.Run)
	scheduleJob(c, logger, "ReminderDispatch", cfg.Batch.ReminderDispatchSchedule, "0 8 * * *", jobTimeout, jobs.reminderDispatch.Run)

	c.Start()
	logger.Info("Cron scheduler started.")
	return c
}

func scheduleJob(c *cron.Cron, logger *slog.Logger, name, scheduleSpec, defaultSpec string, timeout time.Duration, run func(context.Context) error) {
	if scheduleSpec == "" {
		scheduleSpec = defaultSpec
		logger.Warn("Batch schedule not configured, using default", "job_name", name, "schedule", scheduleSpec)
	}

	jobID, err := c.AddJob(scheduleSpec, cron.FuncJob(func() {
		jobLogger := logger.With("job_name", name)
		jobLogger.Info("Cron triggered: running batch job.")

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if runErr := run(ctx); runErr != nil {
			jobLogger.Error("Batch job finished with error", slog.Any("error", runErr))
		} else {
			jobLogger.Info("Batch job finished successfully.")
		}
	}))
	if err != nil {
		logger.Error("Failed to schedule batch job", "job_name", name, "schedule", scheduleSpec, slog.Any("error", err))
		return
	}
	logger.Info("Scheduled batch job", "job_name", name, "schedule", scheduleSpec, "job_id", jobID)
}

func connectRabbitMQ(uri string, logger *slog.Logger) (*amqp.Connection, error) {
	var conn *amqp.Connection
	var err error
	retryCount := 5
	for i := 1; i <= retryCount; i++ {
		conn, err = amqp.Dial(uri)
		if err == nil {
			logger.Info("Successfully connected to RabbitMQ")

			go func() {
				blockChan := conn.NotifyBlocked(make(chan amqp.Blocking))
				closeChan := conn.NotifyClose(make(chan *amqp.Error))

				select {
				case b := <-blockChan:
					logger.Warn("RabbitMQ Connection Blocked", "reason", b.Reason)
				case e := <-closeChan:
					logger.Error("RabbitMQ Connection Closed", slog.Any("error", e))
				}
			}()

			return conn, nil
		}
		logger.Warn("Failed to connect to RabbitMQ, retrying...",
			slog.Int("attempt", i),
			slog.Int("max_attempts", retryCount),
			slog.Any("error", err),
		)
		time.Sleep(time.Duration(i*2) * time.Second)
	}
	return nil, fmt.Errorf("failed to connect to RabbitMQ after %d attempts: %w", retryCount, err)
}

func setupRabbitMQ(cfg *config.Config, logger *slog.Logger) *amqp.Connection {
	if !cfg.RabbitMQ.Enabled {
		logger.Info("RabbitMQ is disabled in configuration; events will not be published.")
		return nil
	}
	if cfg.RabbitMQ.URL == "" {
		logger.Error("RabbitMQ is enabled but no URL is configured.")
		os.Exit(1)
		return nil
	}

	conn, err := connectRabbitMQ(cfg.RabbitMQ.URL, logger)
	if err != nil {
		logger.Error("Failed to connect to RabbitMQ", "error", err)
		os.Exit(1)
		return nil
	}
	return conn
}
