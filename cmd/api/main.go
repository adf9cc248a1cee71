package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"docverify/docs"
	"docverify/internal/artifact"
	"docverify/internal/config"
	"docverify/internal/database"
	"docverify/internal/database/migration"
	handlers "docverify/internal/http/handler"
	"docverify/internal/http/middleware"
	"docverify/internal/metrics"
	"docverify/internal/notify"
	appotel "docverify/internal/otel"
	"docverify/internal/repository/postgres"
	"docverify/internal/service"
	"docverify/internal/storage"
	"docverify/internal/viewer"
)

// @title Document Verification API
// @version 1.0
// @description Operator sessions for reviewing enrollment documents.
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := cfg.Location()

	logger := newLogger(cfg.LogLevel, loc)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := appotel.Init(ctx, logger)
	if err != nil {
		fatal(logger, "failed to initialize tracing", err)
	}

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		fatal(logger, "failed to connect to database", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, loc, cfg.Database.Host); err != nil {
		fatal(logger, "failed to migrate database", err)
	}

	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		fatal(logger, "failed to initialize object storage", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	workflow, err := metrics.NewWorkflow(reg)
	if err != nil {
		fatal(logger, "failed to register workflow metrics", err)
	}
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg, "/health", "/healthz", "/swagger/")
	if err != nil {
		fatal(logger, "failed to register http metrics", err)
	}

	// Persistence sinks: the database always, Kafka when enabled
	studentRepo := postgres.NewStudentPostgres(db)
	sinks := notify.Multi{notify.NewStoreSink(studentRepo)}
	if cfg.Kafka.Enabled {
		kafkaSink, err := notify.NewKafkaSink(cfg.Kafka)
		if err != nil {
			fatal(logger, "failed to initialize kafka publisher", err)
		}
		defer kafkaSink.Close()
		sinks = append(sinks, kafkaSink)
	}
	notifier := notify.NewAsync(sinks, cfg.NotifyTimeout, logger)

	verifySvc := service.NewVerificationService(studentRepo, service.Options{
		Viewer: viewer.Options{
			ZoomMin:  cfg.Viewer.ZoomMin,
			ZoomMax:  cfg.Viewer.ZoomMax,
			ZoomStep: cfg.Viewer.ZoomStep,
		},
		Fetcher:     artifact.New(objStore, cfg.Artifact),
		Notifier:    notifier,
		Transitions: workflow,
		Loads:       workflow,
		Logger:      logger,
		SessionTTL:  cfg.SessionTTL,
	})
	if err := verifySvc.Load(ctx); err != nil {
		fatal(logger, "failed to load students", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(),
		DisableStartupMessage: true,
	})

	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger(loc))
	app.Use(promMiddleware.Handler())

	handlers.RegisterRoutes(app, db, reg, verifySvc)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	go func() {
		<-ctx.Done()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error("server_shutdown_failed", slog.String("error", err.Error()))
		}
	}()

	addr := ":" + cfg.Port
	logger.Info("server_starting", slog.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		fatal(logger, "failed to start server", err)
	}

	// Drain sessions and pending persistence before exit
	verifySvc.Close()
	notifier.Wait()

	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracing(flushCtx); err != nil {
		logger.Error("tracing_shutdown_failed", slog.String("error", err.Error()))
	}
	logger.Info("server_stopped")
}

// newLogger builds the JSON logger. Timestamps go out as "ts" in the configured timezone.
func newLogger(level string, loc *time.Location) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.String("ts", a.Value.Time().In(loc).Format(time.RFC3339Nano))
			}
			return a
		},
	}))
}

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, slog.String("error", err.Error()))
	os.Exit(1)
}
