package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"resumeline/internal/common"
	"resumeline/internal/enrich"
	"resumeline/internal/llm"
	"resumeline/internal/llm/openai"
	"resumeline/internal/repository"
	"resumeline/internal/worker"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := common.LoadConfig()
	if err != nil {
		logger.Error("loading config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repository.Open(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
		DialTimeout:     cfg.Database.DialTimeout,
	}, logger)
	if err != nil {
		logger.Error("opening DB", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.HealthCheck(ctx, 3*time.Second); err != nil {
		logger.Error("DB health failed", "error", err)
		os.Exit(1)
	}
	if err := db.EnsureSchema(ctx); err != nil {
		logger.Error("ensuring schema", "error", err)
		os.Exit(1)
	}

	jobs := repository.NewJobRepository(db, logger)
	roles := repository.NewRoleRepository(db, logger)

	var enricher llm.Enricher
	if cfg.LLM.APIKey == "" {
		logger.Warn("OPENAI_API_KEY not set, using deterministic stub enricher")
		enricher = llm.NewStubEnricher(logger)
	} else {
		enricher = openai.NewClient(openai.Config{
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout,
		}, logger)
	}
	gateway := enrich.NewGateway(enricher, cfg.LLM.Timeout, logger)

	w := worker.New(jobs, roles, gateway, worker.Config{
		PollInterval: cfg.Worker.PollInterval,
		RolePacing:   cfg.Worker.RolePacing,
	}, logger)

	logger.Info("enrich worker starting",
		"poll_interval", cfg.Worker.PollInterval.String(),
		"role_pacing", cfg.Worker.RolePacing.String(),
	)
	if err := w.Run(ctx); err != nil {
		logger.Error("worker run", "error", err)
		os.Exit(1)
	}
	logger.Info("stopped")
}
