package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"resumeline/internal/common"
	"resumeline/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := common.LoadConfig()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	db, err := repository.Open(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
		DialTimeout:     cfg.Database.DialTimeout,
	}, nil)
	if err != nil {
		log.Fatalf("opening DB: %v", err)
	}
	defer db.Close()

	if err := db.HealthCheck(ctx, 1*time.Second); err != nil {
		log.Fatalf("DB health: FAIL (%v)", err)
	}
	log.Println("DB health: OK")

	if err := db.EnsureSchema(ctx); err != nil {
		log.Fatalf("ensuring schema: %v", err)
	}

	jobs := repository.NewJobRepository(db, nil)
	counts, err := jobs.CountByStatus(ctx)
	if err != nil {
		log.Fatalf("counting jobs: %v", err)
	}
	if len(counts) == 0 {
		log.Println("jobs: none")
		return
	}
	for status, n := range counts {
		log.Printf("jobs %s: %d", status, n)
	}
}
