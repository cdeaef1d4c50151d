// Package bootstrap wires configuration, storage, the remote client and the
// datasets into a runnable application.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wpk-/aapi-versioned/internal/aapi"
	"github.com/wpk-/aapi-versioned/internal/config"
	"github.com/wpk-/aapi-versioned/internal/database"
	"github.com/wpk-/aapi-versioned/internal/database/postgres"
	"github.com/wpk-/aapi-versioned/internal/datasets"
	"github.com/wpk-/aapi-versioned/internal/export"
	"github.com/wpk-/aapi-versioned/internal/joblog"
	"github.com/wpk-/aapi-versioned/internal/syncer"
)

// App holds the long-lived collaborators of both run modes.
type App struct {
	DB        *pgxpool.Pool
	Jobs      joblog.Repository
	Registry  datasets.Registry
	Exporter  *export.Exporter
	ExportDir string

	historyDays int
}

// NewApp connects to the database, prepares the job log and builds the
// remote client. The caller closes the returned app.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	pool, err := database.NewPool(ctx, cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxConnIdleTime, cfg.DBMaxConnLifetime)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgConnectDatabase, err)
	}

	jobs := postgres.NewJobLogRepository(pool, cfg.HistoryDays)
	if err := jobs.CreateTable(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: %w", ErrMsgCreateJobLog, err)
	}

	client, err := aapi.NewClient(cfg.APIBaseURL,
		aapi.WithHTTPClient(&http.Client{Timeout: cfg.APITimeout}),
		aapi.WithRateLimit(cfg.APIRateLimit),
		aapi.WithPageSize(cfg.APIPageSize),
		aapi.WithAPIKey(cfg.APIKey),
	)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: %w", ErrMsgCreateClient, err)
	}

	app := &App{
		DB:          pool,
		Jobs:        jobs,
		Registry:    datasets.Registry{DB: pool, Fetcher: client, Jobs: jobs},
		ExportDir:   cfg.ExportDir,
		historyDays: cfg.HistoryDays,
	}

	// Fields and recent changes do not depend on the window, so one
	// orchestrator serves every export.
	orch, err := app.Orchestrator(time.Now())
	if err != nil {
		pool.Close()
		return nil, err
	}
	app.Exporter = export.NewExporter(jobs, orch)
	return app, nil
}

// Orchestrator returns the tasks of all datasets with windows ending at now.
func (a *App) Orchestrator(now time.Time) (*syncer.Orchestrator, error) {
	runners, err := a.Registry.Runners(now, a.historyDays)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgCreateDatasets, err)
	}
	return syncer.NewOrchestrator(runners...), nil
}

// RunOnce performs one synchronization pass and exports the results.
func (a *App) RunOnce(ctx context.Context) ([]syncer.Result, error) {
	orch, err := a.Orchestrator(time.Now())
	if err != nil {
		return nil, err
	}
	results := orch.RunAll(ctx)
	return results, a.Export(ctx)
}

// Export writes the export directory, if one is configured.
func (a *App) Export(ctx context.Context) error {
	if a.ExportDir == "" {
		slog.Debug(LogMsgExportSkipped)
		return nil
	}
	return a.Exporter.WriteDir(ctx, a.ExportDir)
}

// SyncJob returns the job queued by the scheduler and by manual triggers.
func (a *App) SyncJob() *SyncPass {
	return &SyncPass{app: a}
}

// Close releases the database pool.
func (a *App) Close() {
	a.DB.Close()
}

// SyncPass runs one synchronization pass with a window ending at the time it
// starts, then refreshes the export.
type SyncPass struct {
	app *App
}

// Process implements worker.Job.
func (p *SyncPass) Process(ctx context.Context) error {
	orch, err := p.app.Orchestrator(time.Now())
	if err != nil {
		return err
	}
	job := &syncer.Job{
		Orchestrator: orch,
		OnDone: func([]syncer.Result) {
			if err := p.app.Export(ctx); err != nil {
				slog.Error(LogMsgExportFailed, "error", err)
			}
		},
	}
	return job.Process(ctx)
}
