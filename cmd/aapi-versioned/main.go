// Command aapi-versioned mirrors datasets of the Amsterdam data API into
// versioned PostgreSQL tables.
//
// Usage:
//
//	aapi-versioned [run|serve]
//
// run performs one synchronization pass and writes the export directory.
// serve repeats the pass every SYNC_INTERVAL and serves the job history
// over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wpk-/aapi-versioned/internal/bootstrap"
	"github.com/wpk-/aapi-versioned/internal/config"
	"github.com/wpk-/aapi-versioned/internal/scheduler"
	"github.com/wpk-/aapi-versioned/internal/server"
	"github.com/wpk-/aapi-versioned/internal/syncer"
	"github.com/wpk-/aapi-versioned/internal/worker"
)

const (
	modeRun   = "run"
	modeServe = "serve"

	shutdownTimeout = 30 * time.Second
)

// @title aapi-versioned API
// @version 1.0
// @description Job history and manual synchronization of the versioned dataset mirror.
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [%s|%s]\n", os.Args[0], modeRun, modeServe)
		flag.PrintDefaults()
	}
	flag.Parse()

	mode := modeRun
	if flag.NArg() > 0 {
		mode = flag.Arg(0)
	}
	if mode != modeRun && mode != modeServe {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logFile, err := bootstrap.SetupLogger(cfg, time.Now())
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if mode == modeServe {
		err = serve(ctx, cfg)
	} else {
		err = run(ctx, cfg)
	}
	if err != nil {
		slog.Error("Exiting with error", "mode", mode, "error", err)
		stop()
		if logFile != nil {
			logFile.Close()
		}
		os.Exit(1)
	}
}

// run performs one pass. Any failed task makes the process exit non-zero.
func run(ctx context.Context, cfg *config.Config) error {
	app, err := bootstrap.NewApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	results, err := app.RunOnce(ctx)
	if err != nil {
		return err
	}

	failed := 0
	for _, res := range results {
		slog.Info("Task finished",
			"target", res.Target,
			"outcome", res.Outcome.String(),
			"created", res.Created,
			"deleted", res.Deleted)
		if res.Outcome == syncer.Failed {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d tasks failed", failed, len(results))
	}
	return nil
}

// serve runs scheduled passes and the HTTP server until ctx is cancelled.
func serve(ctx context.Context, cfg *config.Config) error {
	app, err := bootstrap.NewApp(ctx, cfg)
	if err != nil {
		return err
	}

	pool := worker.NewPool(ctx, bootstrap.SyncWorkers, bootstrap.SyncQueueSize)
	pool.Start()

	job := app.SyncJob()
	sched := scheduler.New(pool)
	sched.Schedule(cfg.SyncInterval, job, true)

	srv := server.NewServer(
		server.Options{
			Port:           cfg.Port,
			Version:        cfg.Version,
			AdminAPIKey:    cfg.AdminAPIKey,
			TrustedProxies: cfg.TrustedProxies,
		},
		server.Deps{
			DB:        app.DB,
			Documents: app.Exporter,
			Queue:     pool,
			SyncJob:   job,
		},
	)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server:    srv,
		Scheduler: sched,
		Pool:      pool,
		App:       app,
	})
	return serveErr
}
