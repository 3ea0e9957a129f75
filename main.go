package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/sljivkov/pythkeeper/config"
	"github.com/sljivkov/pythkeeper/handler"
	"github.com/sljivkov/pythkeeper/logging"
	"github.com/sljivkov/pythkeeper/metrics"
)

const runTimeout = 45 * time.Second

var (
	envFile = flag.String("env", "", "Path to a .env file")
	once    = flag.Bool("once", false, "Run a single invocation, print the outcome and exit")
	dryRun  = flag.Bool("dry-run", false, "Build update transactions but never submit them")
)

func main() {
	flag.Parse()

	opts := []config.Option{config.WithDryRun(*dryRun)}
	if *envFile != "" {
		opts = append(opts, config.WithEnvFile(*envFile))
	}

	cfg, err := config.NewConfig(opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.Init(cfg.LogLevel, cfg.LogFormat, cfg.LogOutput)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v\n", err)
		os.Exit(1)
	}

	metrics.Init()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	if *once {
		outcome := app.keeper.Run(ctx)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		if err := enc.Encode(outcome); err != nil {
			logger.Error("failed to print outcome", "error", err)
		}

		return
	}

	run := func() {
		runCtx, cancel := context.WithTimeout(ctx, runTimeout)
		defer cancel()

		app.keeper.Run(runCtx)
	}

	scheduler := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := scheduler.AddFunc(cfg.Schedule, run); err != nil {
		logger.Error("invalid schedule", "schedule", cfg.Schedule, "error", err)
		os.Exit(1)
	}

	scheduler.Start()
	logger.Info("keeper scheduled", "schedule", cfg.Schedule)

	// First run right away instead of waiting for the schedule
	go run()

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler.New(app.keeper).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("starting status server", "addr", cfg.HTTPAddr)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("status server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	<-scheduler.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("status server shutdown failed", "error", err)
	}
}
