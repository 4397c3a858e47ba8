package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"caixa/internal/ai"
	"caixa/internal/amqp"
	"caixa/internal/auth"
	"caixa/internal/backend"
	"caixa/internal/cache"
	"caixa/internal/config"
	"caixa/internal/core"
	"caixa/internal/export"
	apphttp "caixa/internal/http"
	"caixa/internal/log"
	"caixa/internal/middleware/ratelimit"
	"caixa/internal/services"
)

func main() {
	// Load .env for local development; production relies on real env vars.
	_ = godotenv.Load()

	logger := log.New(log.Config{
		Level:     slog.LevelInfo,
		Component: log.ComponentApp,
	})
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}
	result, err := backend.NewFactory(logger.Logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize store", log.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer func() {
		if err := result.Cleanup(); err != nil {
			logger.Error("Store cleanup failed", log.FieldError, err)
		}
	}()
	st := result.Store

	// Report jobs go through AMQP when a broker is configured; otherwise
	// generation runs inline on the request.
	var queue *amqp.Client
	if cfg.AMQPURL != "" {
		queue, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", log.FieldError, err)
			os.Exit(1)
		}
		defer queue.Close()
		logger.Info("Report queue initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled, reports generate inline")
	}

	var generator ai.TextGenerator
	if cfg.GeminiAPIKey != "" {
		gemini, err := ai.NewGeminiClient(ctx, cfg.GeminiAPIKey, ai.WithModel(cfg.GeminiModel))
		if err != nil {
			logger.Error("Failed to initialize Gemini client", log.FieldError, err)
			os.Exit(1)
		}
		generator = gemini
		logger.Info("Gemini client initialized", "model", cfg.GeminiModel)
	} else {
		logger.Warn("GEMINI_API_KEY not set, report generation unavailable")
	}

	var exporter export.MonthExporter
	if cfg.GoogleSpreadsheetID != "" {
		exporter, err = export.NewGoogleClient(ctx, export.GoogleConfig{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			SheetName:       cfg.GoogleSheetName,
			OAuthClientFile: cfg.GoogleOAuthClientFile,
			OAuthTokenFile:  cfg.GoogleOAuthTokenFile,
			OAuthClientJSON: cfg.GoogleOAuthClientJSON,
			OAuthTokenJSON:  cfg.GoogleOAuthTokenJSON,
		})
		if err != nil {
			logger.Error("Failed to initialize sheets exporter", log.FieldError, err)
			os.Exit(1)
		}
		logger.Info("Sheets exporter initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Sheets export disabled, no GOOGLE_SPREADSHEET_ID provided")
	}

	views := cache.NewLRUCache[services.MonthView](cfg.CacheMaxSize, cfg.CacheTTL)
	target := core.NewAmount(cfg.DefaultRevenueTarget)

	months := services.NewMonthService(st, views, target, logger)
	duplications := services.NewDuplicationService(st, views, services.UUIDGenerator, target, logger)
	reports := services.NewReportService(st, generator, services.UUIDGenerator, target, logger)

	var exports *services.ExportService
	if exporter != nil {
		exports = services.NewExportService(months, exporter, logger)
	}

	srv := apphttp.NewServer(apphttp.Options{
		Addr:         ":" + cfg.Port,
		Auth:         auth.NewManager(cfg.JWTSecret, 24*time.Hour),
		Months:       months,
		Duplications: duplications,
		Reports:      reports,
		Exports:      exports,
		Partners:     st,
		Queue:        queue,
		Views:        views,
		RateLimit:    ratelimit.DefaultConfig(),
		Logger:       logger,
	})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		cancel()
	}()

	logger.Info("Starting caixa server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
