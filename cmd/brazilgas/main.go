package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpapi "github.com/nievasdev/brazilgas/internal/api/http"
	"github.com/nievasdev/brazilgas/internal/config"
	"github.com/nievasdev/brazilgas/internal/fuel"
	"github.com/nievasdev/brazilgas/internal/fuel/sources"
	"github.com/nievasdev/brazilgas/internal/logger"
	"github.com/nievasdev/brazilgas/internal/metrics"
	"github.com/nievasdev/brazilgas/internal/scheduler"
	"github.com/nievasdev/brazilgas/internal/store"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Options{}).WithError(err).Fatal("failed to load config")
	}

	log := logger.New(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	mainLog := log.WithComponent("main")

	// The dataset download can legitimately take long; it is bounded by the
	// load context instead of a client timeout.
	datasetClient := &http.Client{}
	geoClient := &http.Client{Timeout: cfg.HTTPTimeout}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	source, err := sources.FromConfig(ctx, cfg, datasetClient)
	if err != nil {
		mainLog.WithError(err).Fatal("failed to configure data source")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// In-memory store with configured history retention.
	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)

	service := fuel.NewService(memStore, source,
		fuel.WithBoundaries(sources.NewGeoJSONFetcher(geoClient, cfg.GeoURL)),
		fuel.WithMetrics(metrics.New(reg)),
		fuel.WithLogger(log),
	)

	// A failed initial load is not fatal: views answer 503 until a reload
	// succeeds.
	if _, err := service.Refresh(ctx); err != nil {
		mainLog.WithError(err).Warn("initial dataset load failed")
	}

	sched := scheduler.New(cfg.RefreshInterval, service, log)
	if err := sched.Start(); err != nil {
		mainLog.WithError(err).Fatal("failed to start scheduler")
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "brazilgas",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(fiberlogger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		status := "ok"
		if _, err := service.Dataset(); err != nil {
			status = "loading"
		}
		return c.JSON(fiber.Map{
			"status":  status,
			"service": "brazilgas",
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	httpapi.RegisterRoutes(app, service, log)

	go func() {
		mainLog.WithFields(logger.Fields{"port": cfg.Port, "source": source.Name()}).Info("listening")
		if err := app.Listen(":" + cfg.Port); err != nil {
			mainLog.WithError(err).Error("fiber server stopped")
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		mainLog.WithError(err).Error("error during shutdown")
	}
	mainLog.Info("shutdown complete")
}
