package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"lunchly/internal/api"
	"lunchly/internal/config"
	"lunchly/internal/domain/customer"
	"lunchly/internal/domain/reservation"
	"lunchly/internal/event"
	"lunchly/internal/infrastructure/database/postgres"
	"lunchly/internal/infrastructure/logging"
	"lunchly/internal/web"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultShutdownTimeout = 20 * time.Second
	redisPingTimeout       = 3 * time.Second
)

func main() {
	cfg, logger := initializeApp()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbPool := initializeDatabase(ctx, cfg, logger)
	defer closeDatabase(dbPool, logger)

	rabbitMQConn := setupRabbitMQ(cfg, logger)
	publisher := initializePublisher(cfg, rabbitMQConn, logger)

	redisClient := initializeRedisClient(ctx, cfg.Redis, logger)
	defer closeRedisClient(redisClient, logger)

	renderer, err := web.NewTemplateRenderer(logger)
	if err != nil {
		logger.Error("Failed to load templates", "error", err)
		os.Exit(1)
	}

	deps := initializeServices(dbPool, publisher, logger)
	deps.Renderer = renderer
	deps.Redis = redisClient
	router := api.SetupRouter(ctx, deps, cfg, logger)

	srv, serverErrors, shutdownChan := startServer(cfg, router, logger)
	handleShutdown(srv, rabbitMQConn, shutdownChan, serverErrors, cfg.Server.ShutdownTimeout, logger)
}

func initializeApp() (*config.Config, *slog.Logger) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.Logger)
	logger.Info("Application starting...", "port", cfg.Server.Port, "log_level", cfg.Logger.Level)

	return cfg, logger
}

func initializeDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) *pgxpool.Pool {
	logger.Info("Initializing database connection pool...")
	dbPool, err := postgres.NewConnectionPool(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("Failed to initialize database connection pool", "error", err)
		os.Exit(1)
	}

	if cfg.Database.Migrate {
		if err := postgres.RunMigrations(ctx, dbPool, logger); err != nil {
			logger.Error("Failed to apply database schema", "error", err)
			dbPool.Close()
			os.Exit(1)
		}
	}
	return dbPool
}

func closeDatabase(dbPool *pgxpool.Pool, logger *slog.Logger) {
	logger.Info("Closing database connection pool...")
	dbPool.Close()
}

// setupRabbitMQ returns nil when publishing is disabled or the broker is
// unreachable. The app keeps serving pages without events in both cases.
func setupRabbitMQ(cfg *config.Config, logger *slog.Logger) *amqp.Connection {
	if !cfg.RabbitMQ.Enabled {
		logger.Info("RabbitMQ publishing disabled, domain events will be dropped.")
		return nil
	}

	logger.Info("Connecting to RabbitMQ...")
	conn, err := amqp.DialConfig(cfg.RabbitMQ.URL, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Properties: amqp.Table{
			"connection_name": "lunchly",
		},
	})
	if err != nil {
		logger.Error("Failed to connect to RabbitMQ, continuing without events", slog.Any("error", err))
		return nil
	}
	logger.Info("Connected to RabbitMQ.")
	return conn
}

func initializePublisher(cfg *config.Config, conn *amqp.Connection, logger *slog.Logger) event.Publisher {
	if conn == nil {
		return event.NoopPublisher{}
	}
	publisher, err := event.NewRabbitMQEventPublisher(conn, cfg.RabbitMQ.ExchangeName, logger)
	if err != nil {
		logger.Error("Failed to initialize event publisher, continuing without events", slog.Any("error", err))
		return event.NoopPublisher{}
	}
	return publisher
}

// initializeRedisClient returns nil when Redis is disabled or does not answer
// a ping, which leaves the rate limiter on in-process counters.
func initializeRedisClient(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) *redis.Client {
	if !cfg.Enabled {
		logger.Info("Redis disabled, rate limiter will count requests per process.")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Error("Failed to reach Redis, continuing with in-process rate limiting", "addr", cfg.Addr, slog.Any("error", err))
		_ = client.Close()
		return nil
	}

	logger.Info("Connected to Redis.", "addr", cfg.Addr)
	return client
}

func closeRedisClient(client *redis.Client, logger *slog.Logger) {
	if client == nil {
		return
	}
	if err := client.Close(); err != nil {
		logger.Error("Failed to close Redis client", slog.Any("error", err))
	}
}

func initializeServices(dbPool *pgxpool.Pool, publisher event.Publisher, logger *slog.Logger) api.Dependencies {
	logger.Info("Initializing application components...")
	customerRepo := postgres.NewCustomerRepository(dbPool, logger)
	reservationRepo := postgres.NewReservationRepository(dbPool, logger)

	reservationService := reservation.NewReservationService(reservationRepo, publisher, logger)

	return api.Dependencies{
		Customers:    customer.NewCustomerService(customerRepo, reservationService, publisher, logger),
		Reservations: reservationService,
		DB:           dbPool,
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

func handleShutdown(srv *http.Server, rabbitConn *amqp.Connection, shutdownChan <-chan os.Signal,
	serverErrors <-chan error, timeout time.Duration, logger *slog.Logger) {
	logger.Info("Shutdown handler started. Waiting for signal or server error...")

	triggerReason := waitForShutdownTrigger(shutdownChan, serverErrors, logger)

	logger.Info("Starting graceful shutdown...", "trigger", triggerReason)

	shutdownHTTPServer(srv, serverErrors, timeout, logger)
	closeRabbitMQConnection(rabbitConn, logger)

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

func closeRabbitMQConnection(rabbitConn *amqp.Connection, logger *slog.Logger) {
	switch {
	case rabbitConn == nil:
		logger.Info("RabbitMQ connection was not established, skipping close.")
	case rabbitConn.IsClosed():
		logger.Info("RabbitMQ connection already closed, skipping close.")
	default:
		logger.Info("Closing RabbitMQ connection...")
		if err := rabbitConn.Close(); err != nil {
			logger.Error("Failed to close RabbitMQ connection gracefully", slog.Any("error", err))
			return
		}
		logger.Info("RabbitMQ connection closed.")
	}
}

func shutdownHTTPServer(srv *http.Server, serverErrors <-chan error, timeout time.Duration, logger *slog.Logger) {
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	logger.Info("Shutting down HTTP server...", "timeout", timeout)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", "error", err)
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
