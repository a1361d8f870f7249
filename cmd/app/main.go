package main

import (
	"context"
	"flag"
	"log"
	"os"

	"EconPull/internal/di"
	"EconPull/pkg/config"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "config file path")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	log.Printf("env=%s snapshot=%s kafka=%v", cfg.Environment, cfg.Snapshot.Backend, cfg.KafkaEnabled())

	app, cleanup, err := di.InitializeAPI(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}
	defer cleanup()

	if err := app.Run(context.Background()); err != nil {
		log.Printf("app error: %v", err)
		cleanup()
		os.Exit(1)
	}
}
