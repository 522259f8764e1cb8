package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/studyway/coursegate/internal/auth"
	"github.com/studyway/coursegate/internal/config"
	"github.com/studyway/coursegate/internal/event"
	handler "github.com/studyway/coursegate/internal/handler/http"
	"github.com/studyway/coursegate/internal/otp"
	"github.com/studyway/coursegate/internal/repository/postgres"
	"github.com/studyway/coursegate/internal/service"
	"github.com/studyway/coursegate/migrations"
	"github.com/studyway/coursegate/pkg/database"
	"github.com/studyway/coursegate/pkg/kafka"
)

// App holds the assembled service and its external connections.
type App struct {
	cfg      *config.Config
	logger   *slog.Logger
	pool     *pgxpool.Pool
	redis    *redis.Client
	producer *kafka.Producer
	server   *http.Server
}

// New connects to the backing stores, runs migrations, and wires every
// layer together.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	pool, err := database.NewPostgresPool(ctx, cfg.Postgres.Pool())
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	redisClient, err := database.NewRedisClient(ctx, cfg.Redis.Client())
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	producer := kafka.NewProducer(cfg.Kafka.Producer(), logger)

	// Repositories.
	accounts := postgres.NewAccountRepository(pool)
	courses := postgres.NewCourseRepository(pool)
	requests := postgres.NewAccessRequestRepository(pool)
	enrollments := postgres.NewEnrollmentRepository(pool)
	progress := postgres.NewProgressRepository(pool)

	// Supporting infrastructure.
	events := event.NewProducer(producer, logger)
	tokens := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.TTL, cfg.JWT.Issuer)
	limiter := otp.NewRateLimiter(redisClient)
	dispatcher := buildDispatcher(cfg, logger)

	// Services.
	verification := service.NewVerificationService(accounts, dispatcher, limiter, tokens, events, cfg.OTP.Expiry, logger)
	gate := service.NewGate(enrollments)
	courseSvc := service.NewCourseService(courses, gate, logger)
	accessSvc := service.NewAccessService(accounts, courses, requests, enrollments, events, logger)
	progressSvc := service.NewProgressService(courses, enrollments, progress, logger)

	router := handler.NewRouter(handler.Handlers{
		Auth:     handler.NewAuthHandler(verification),
		Course:   handler.NewCourseHandler(courseSvc),
		Access:   handler.NewAccessHandler(accessSvc),
		Progress: handler.NewProgressHandler(progressSvc),
	}, handler.CORSConfig{
		AllowedOrigins: cfg.Server.CORSAllowedOrigins,
		Environment:    cfg.Environment,
	}, tokens.ValidateAccessToken, logger)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return &App{
		cfg:      cfg,
		logger:   logger,
		pool:     pool,
		redis:    redisClient,
		producer: producer,
		server:   server,
	}, nil
}

// buildDispatcher assembles the delivery channels. Production requires a
// configured gateway; elsewhere the console sender keeps development
// working without one.
func buildDispatcher(cfg *config.Config, logger *slog.Logger) *otp.Dispatcher {
	var senders []otp.Sender
	if cfg.OTP.GatewayURL != "" {
		senders = append(senders, otp.NewWebhookSender(
			"sms-gateway", cfg.OTP.GatewayURL, cfg.OTP.GatewayAPIKey,
			"Your verification code is %s", cfg.OTP.GatewayTimeout,
		))
	}
	if !cfg.IsProduction() {
		senders = append(senders, otp.NewConsoleSender(logger))
	}
	return otp.NewDispatcher(logger, senders...)
}

// Run starts the HTTP server and blocks until it stops.
func (a *App) Run() error {
	a.logger.Info("server starting", slog.String("addr", a.server.Addr))
	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and closes every connection.
func (a *App) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()

	err := a.server.Shutdown(shutdownCtx)

	if cerr := a.producer.Close(); cerr != nil {
		a.logger.Error("failed to close kafka producer", slog.String("error", cerr.Error()))
	}
	if cerr := a.redis.Close(); cerr != nil {
		a.logger.Error("failed to close redis client", slog.String("error", cerr.Error()))
	}
	a.pool.Close()
	return err
}
