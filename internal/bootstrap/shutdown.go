package bootstrap

import (
	"context"
	"log/slog"

	"github.com/wpk-/aapi-versioned/internal/scheduler"
	"github.com/wpk-/aapi-versioned/internal/server"
	"github.com/wpk-/aapi-versioned/internal/worker"
)

// ShutdownComponents holds all components that need graceful shutdown.
type ShutdownComponents struct {
	Server    *server.Server
	Scheduler *scheduler.Scheduler
	Pool      *worker.Pool
	App       *App
}

// GracefulShutdown stops the components in order: the HTTP server stops
// accepting requests, the scheduler stops queueing passes, the worker pool
// cancels and waits for a running pass, and the database pool closes last.
//
// Errors during shutdown are logged but do not stop the shutdown sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if components.Server != nil {
		if err := components.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if components.Scheduler != nil {
		slog.Info(LogMsgStoppingScheduler)
		components.Scheduler.Stop()
	}

	if components.Pool != nil {
		slog.Info(LogMsgStoppingWorkers)
		components.Pool.Stop()
	}

	if components.App != nil {
		components.App.Close()
	}

	slog.Info(LogMsgServerStopped)
}
