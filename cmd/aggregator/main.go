package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"EconPull/internal/di"
	"EconPull/internal/domain/repository"
	"EconPull/pkg/config"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "config file path")
	once := flag.Bool("once", false, "run one refresh, print the run report and exit")
	date := flag.String("date", "", "reference date (YYYY-MM-DD) for -once; defaults to now")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	if *once {
		os.Exit(runOnce(cfg, *date))
	}

	app, cleanup, err := di.InitializeWorker(cfg)
	if err != nil {
		log.Fatalf("worker initialization failed: %v", err)
	}
	defer cleanup()

	if err := app.Run(context.Background()); err != nil {
		log.Printf("worker error: %v", err)
		cleanup()
		os.Exit(1)
	}
}

func runOnce(cfg *config.Config, date string) int {
	var ref time.Time
	if date != "" {
		t, err := time.Parse(time.DateOnly, date)
		if err != nil {
			log.Printf("invalid -date: %v", err)
			return 2
		}
		ref = t
	}

	job, cleanup, err := di.InitializeRefreshJob(cfg)
	if err != nil {
		log.Printf("refresh initialization failed: %v", err)
		return 1
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := job.Run(ctx, ref)
	if report != nil {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(report)
	}
	switch {
	case errors.Is(err, repository.ErrRefreshInProgress):
		log.Printf("another refresh is running")
		return 3
	case err != nil:
		log.Printf("refresh failed: %v", err)
		return 1
	}
	return 0
}
