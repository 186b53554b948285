package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"tasktracker/internal/config"
	"tasktracker/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := logger.New(cfg.Log.Level, cfg.Log.Format)

	app, err := newApplication(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to start")
	}

	if err := app.run(ctx); err != nil {
		logger.WithError(err).Fatal("server stopped with error")
	}
	logger.Info("server stopped")
}
