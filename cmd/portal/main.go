package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-portal/internal/backend"
	"github.com/noah-isme/campus-portal/internal/config"
	"github.com/noah-isme/campus-portal/internal/database"
	"github.com/noah-isme/campus-portal/internal/events"
	"github.com/noah-isme/campus-portal/internal/handler"
	"github.com/noah-isme/campus-portal/internal/middleware"
	"github.com/noah-isme/campus-portal/internal/observability"
	"github.com/noah-isme/campus-portal/internal/repository"
	"github.com/noah-isme/campus-portal/internal/router"
	"github.com/noah-isme/campus-portal/internal/service"
	"github.com/noah-isme/campus-portal/internal/session"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "campus-portal").Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}
	if !cfg.IsProduction() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	observability.RegisterMetrics()

	api, err := backend.New(backend.Config{BaseURL: cfg.BackendURL, Timeout: cfg.BackendTimeout}, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure backend client")
	}

	var probes []handler.HealthProbe

	var activity service.ActivityService
	if cfg.DatabaseURL != "" {
		db, err := database.ConnectPostgres(cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to database")
		}
		if err := database.Migrate(db); err != nil {
			logger.Fatal().Err(err).Msg("failed to migrate database")
		}
		activity = service.NewActivityService(repository.NewActivityLogRepository(db), logger)
		probes = append(probes, handler.HealthProbe{Name: "database", Check: func(ctx context.Context) error {
			return database.Ping(ctx, db)
		}})
	} else {
		logger.Warn().Msg("database url not set; activity log disabled")
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
		probes = append(probes, handler.HealthProbe{Name: "redis", Check: func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}})
	}

	var publisher events.Publisher = events.Nop{}
	if cfg.NATSURL != "" {
		natsPublisher, err := events.Connect(cfg.NATSURL, cfg.EventSubject, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to nats")
		}
		defer natsPublisher.Close()
		publisher = natsPublisher
	}
	publisher = service.NewDashboardCacheInvalidator(publisher, redisClient, logger)

	validate := validator.New(validator.WithRequiredStructEnabled())

	var recorder service.ActivityRecorder = activity

	authService := service.NewAuthService(api, validate, logger)
	resultService := service.NewResultService(api, logger)
	dashboardService := service.NewDashboardService(api, resultService, redisClient, cfg.DashboardCacheTTL, logger)
	announcementService := service.NewAnnouncementService(api, validate, recorder, publisher, logger)
	studentService := service.NewStudentService(api, validate, recorder, publisher, logger)
	teacherService := service.NewTeacherService(api, validate, recorder, publisher, logger)
	attendanceService := service.NewAttendanceService(api, validate, recorder, publisher, logger)
	marksService := service.NewMarksService(api, validate, recorder, publisher, cfg.MaxUploadMB, logger)

	deps := router.Dependencies{
		AuthHandler: handler.NewAuthHandler(authService, session.CookieOptions{
			Domain:     cfg.CookieDomain,
			Secure:     cfg.CookieSecure,
			DefaultTTL: cfg.SessionTTL,
		}, logger),
		ResultHandler:       handler.NewResultHandler(resultService, logger),
		DashboardHandler:    handler.NewDashboardHandler(dashboardService, logger),
		AnnouncementHandler: handler.NewAnnouncementHandler(announcementService, logger),
		StudentHandler:      handler.NewStudentHandler(studentService, logger),
		TeacherHandler:      handler.NewTeacherHandler(teacherService, logger),
		AttendanceHandler:   handler.NewAttendanceHandler(attendanceService, logger),
		MarksHandler:        handler.NewMarksHandler(marksService, logger),
		HealthProbes:        probes,
		SessionMiddleware:   middleware.Session(middleware.SessionOptions{}),
		LoginLimiter:        middleware.RateLimit("login", cfg.LoginRateLimit, cfg.LoginRateWindow),
		ImportLimiter:       middleware.RateLimit("marks_import", 5, time.Minute),
	}
	if activity != nil {
		deps.ActivityHandler = handler.NewActivityHandler(activity, logger)
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    (cfg.MaxUploadMB + 1) * 1024 * 1024,
	})

	middleware.Register(app, middleware.Config{Logger: &logger, AllowedOrigins: cfg.AllowedOrigins})
	router.Register(app, cfg, deps)

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddress()).Str("backend", cfg.BackendURL).Msg("portal listening")
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	waitForShutdown(app, logger)
}

func waitForShutdown(app *fiber.App, logger zerolog.Logger) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("server stopped")
}
