package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"caixa/internal/ai"
	"caixa/internal/amqp"
	"caixa/internal/backend"
	"caixa/internal/config"
	"caixa/internal/core"
	"caixa/internal/log"
	"caixa/internal/services"
	"caixa/internal/worker"
)

func main() {
	// Load .env for local development; production relies on real env vars.
	_ = godotenv.Load()

	logger := log.New(log.Config{
		Level:     slog.LevelInfo,
		Component: log.ComponentWorker,
	})
	log.SetDefault(logger)

	logger.Info("Starting report-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the report worker")
		os.Exit(1)
	}
	if cfg.GeminiAPIKey == "" {
		logger.Error("GEMINI_API_KEY is required for the report worker")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

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

	generator, err := ai.NewGeminiClient(ctx, cfg.GeminiAPIKey, ai.WithModel(cfg.GeminiModel))
	if err != nil {
		logger.Error("Failed to initialize Gemini client", log.FieldError, err)
		os.Exit(1)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	target := core.NewAmount(cfg.DefaultRevenueTarget)
	reports := services.NewReportService(result.Store, generator, services.UUIDGenerator, target, logger)
	reportWorker := worker.NewReportWorker(reports, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return amqpClient.ConsumeReportJobs(gctx, func(msg *amqp.ReportJobMessage) error {
			return reportWorker.HandleReportJob(gctx, msg)
		})
	})

	logger.Info("Consuming report jobs", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Report job consumption failed", log.FieldError, err)
		os.Exit(1)
	}

	logger.Info("Worker shutdown complete")
}
