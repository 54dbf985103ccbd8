package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"blog_publisher/internal/config"
	"blog_publisher/internal/logger"
	"blog_publisher/internal/scheduler"
	"blog_publisher/internal/service"
	"blog_publisher/internal/source/hackernews"
	"blog_publisher/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	log := logger.New("info")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log = logger.New(cfg.LogLevel)

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("connected to database")

	source := hackernews.New(hackernews.Config{
		BaseURL:        cfg.Mirror.SourceURL,
		Timeout:        cfg.Mirror.Timeout,
		MaxAttempts:    cfg.Mirror.Retry.MaxAttempts,
		InitialBackoff: cfg.Mirror.Retry.InitialBackoff,
		MaxBackoff:     cfg.Mirror.Retry.MaxBackoff,
	}, log)

	newsStore := postgres.NewNewsStore(db)
	mirrorService := service.NewMirrorService(source, newsStore, log)

	sched := scheduler.NewScheduler(mirrorService, cfg.Mirror.Interval, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		log.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	log.Info("starting news mirror",
		"source", source.Name(),
		"interval", cfg.Mirror.Interval,
	)

	if err := sched.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("scheduler error", "error", err)
		os.Exit(1)
	}
}
