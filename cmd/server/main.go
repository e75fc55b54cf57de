package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ahmetcoskunkizilkaya/mutualaid-backend/internal/achievements"
	"github.com/ahmetcoskunkizilkaya/mutualaid-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/mutualaid-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/mutualaid-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/mutualaid-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/mutualaid-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/mutualaid-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/mutualaid-backend/internal/repository"
	"github.com/ahmetcoskunkizilkaya/mutualaid-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/mutualaid-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/mutualaid-backend/internal/trust"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to read .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Structured logging (JSON to stdout)
	baseLogger := logging.Setup(cfg.AppEnv)

	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(db, 5*time.Second)
	logger := logging.WithDatabase(baseLogger, pgLogHandler)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	retention := logging.NewRetention(db, cfg.LogRetentionDays)
	if err := retention.Start(ctx); err != nil {
		slog.Error("log retention schedule failed", "error", err)
		os.Exit(1)
	}

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	collector := metrics.NewCollector("mutualaid")
	collector.Registry().MustRegister(
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)

	activityRepo := repository.NewActivityRepository(db)
	grantRepo := repository.NewGrantRepository(db)

	engine := achievements.NewEngine(
		achievements.DefaultCatalog(),
		achievements.NewMetricRegistry(),
		activityRepo,
		grantRepo,
		achievements.Options{
			Timeout:  cfg.AchievementTimeout,
			Recorder: collector,
			Logger:   logger.With("component", "achievements"),
		},
	)
	calculator := trust.NewCalculator(cfg.TrustTiers, activityRepo, cfg.TrustTimeout, logger.With("component", "trust"), collector)

	// Services
	requestService := services.NewRequestService(db, calculator, engine)
	socialService := services.NewSocialService(db, engine)
	activityService := services.NewActivityService(db, engine)

	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		return c.Next()
	})

	routes.Setup(app, cfg, db, routes.Handlers{
		Health:       handlers.NewHealthHandler(db, engine.Catalog().Version()),
		Achievements: handlers.NewAchievementHandler(engine),
		Progress:     handlers.NewProgressHandler(engine, calculator),
		Requests:     handlers.NewRequestHandler(requestService),
		Social:       handlers.NewSocialHandler(socialService),
		Activity:     handlers.NewActivityHandler(activityService),
		Metrics:      collector.Handler(),
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "catalog_version", engine.Catalog().Version())
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	// Evaluations fired by the last requests still need the database.
	engine.Wait()
	stop()
	retention.Stop()
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}
