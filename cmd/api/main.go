package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jwoopark/trailhead/internal/adapters/http"
	"github.com/jwoopark/trailhead/internal/adapters/openweather"
	"github.com/jwoopark/trailhead/internal/adapters/ors"
	"github.com/jwoopark/trailhead/internal/adapters/overpass"
	"github.com/jwoopark/trailhead/internal/adapters/valkey"
	"github.com/jwoopark/trailhead/internal/core/usecases"
	"github.com/jwoopark/trailhead/internal/pkg/config"
	"github.com/jwoopark/trailhead/internal/pkg/logging"
	"github.com/jwoopark/trailhead/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("trailhead-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Cache
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable, serving uncached", "error", err)
		cache = nil
	} else {
		defer cache.Close()
	}

	// Data sources
	overpassClient := overpass.NewClient(cfg.Overpass.Endpoints, &stdhttp.Client{
		Timeout: time.Duration(cfg.Overpass.TimeoutSec) * time.Second,
	}).WithMaxRetries(cfg.Overpass.MaxRetries)
	trailSource := overpass.NewTrails(overpassClient)
	placeSource := overpass.NewPlaces(overpassClient)
	elevationSource := ors.NewElevation(cfg.ORS.BaseURL, cfg.ORS.APIKey, cfg.ORS.Dataset, nil)
	weatherSource := openweather.NewClient(cfg.OpenWeather.BaseURL, cfg.OpenWeather.APIKey, nil)

	// Use cases
	courseSvc := usecases.NewCourseService(trailSource)
	placeSvc := usecases.NewPlaceService(placeSource)
	elevationSvc := usecases.NewElevationService(elevationSource)
	weatherSvc := usecases.NewWeatherService(weatherSource)

	deps := &http.Dependencies{
		Courses:       courseSvc,
		Places:        placeSvc,
		Elevation:     elevationSvc,
		Weather:       weatherSvc,
		MaxCandidates: cfg.Courses.MaxCandidates,
	}
	if cache != nil {
		deps.Cache = cache
		deps.Pinger = cache
		deps.Courses = http.NewCachedCourses(courseSvc, cache)
		deps.Places = http.NewCachedPlaces(placeSvc, cache)
		deps.Elevation = http.NewCachedElevation(elevationSvc, cache)
		deps.Weather = http.NewCachedWeather(weatherSvc, cache)
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "Trailhead API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	slog.Info("server stopped")
}
