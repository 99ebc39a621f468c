// Package setup sequences the llamaspace provisioning pipeline: container
// orchestration followed by the three store initializers, with per-store
// outcomes aggregated into an exit status.
package setup

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/llamasearchai/llamaspace/internal/document"
	"github.com/llamasearchai/llamaspace/internal/engine"
	"github.com/llamasearchai/llamaspace/internal/kvstore"
	"github.com/llamasearchai/llamaspace/internal/timescale"
)

// Runner executes the provisioning pipeline.
type Runner struct {
	logger *slog.Logger
	cfg    *Config
}

// NewRunner creates a Runner, defaulting the network name, data directory
// and readiness wait, and propagating the pipeline logger into any store
// config that does not carry its own.
func NewRunner(cfg *Config) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("setup config cannot be nil")
	}
	if cfg.Logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.Network == "" {
		cfg.Network = DefaultNetwork
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if cfg.ReadinessWait == 0 {
		cfg.ReadinessWait = engine.DefaultReadinessWait
	}
	if cfg.Timescale.Logger == nil {
		cfg.Timescale.Logger = cfg.Logger
	}
	if cfg.Document.Logger == nil {
		cfg.Document.Logger = cfg.Logger
	}
	if cfg.KV.Logger == nil {
		cfg.KV.Logger = cfg.Logger
	}
	if cfg.Document.DataDir == "" {
		cfg.Document.DataDir = cfg.DataDir
	}
	return &Runner{logger: cfg.Logger, cfg: cfg}, nil
}

// Run executes the pipeline: ensure containers, ensure data directories,
// then initialize each store in a fixed order. Stages are isolated; one
// store's failure never prevents the remaining stores from being
// attempted. The returned report carries the aggregate exit status.
func (r *Runner) Run(ctx context.Context) *Report {
	r.ensureEngine(ctx)
	r.ensureDataDirs()

	report := &Report{}
	report.Results = append(report.Results, r.runStage(ctx, "timescaledb", r.initTimescale))
	report.Results = append(report.Results, r.runStage(ctx, "mongodb", r.initDocument))
	report.Results = append(report.Results, r.runStage(ctx, "redis", r.initKV))
	return report
}

// ensureEngine brings the datastore containers up. Engine problems are
// never fatal: the stores may be running outside Docker entirely.
func (r *Runner) ensureEngine(ctx context.Context) {
	if r.cfg.SkipEngine {
		r.logger.Info("container orchestration skipped, assuming datastores are running")
		return
	}

	orch, err := engine.NewOrchestrator(&engine.Config{
		Logger:        r.logger,
		Network:       r.cfg.Network,
		ReadinessWait: r.cfg.ReadinessWait,
	})
	if err != nil {
		r.logger.Warn("container orchestration unavailable", "error", err)
		return
	}
	orch.EnsureRunning(ctx, ContainerSpecs(r.cfg))
}

// ensureDataDirs creates the local data directory tree the seed loader
// reads from.
func (r *Runner) ensureDataDirs() {
	for _, dir := range []string{
		r.cfg.DataDir,
		filepath.Join(r.cfg.DataDir, "db"),
		filepath.Join(r.cfg.DataDir, "samples"),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			r.logger.Warn("failed to create data directory", "dir", dir, "error", err)
		}
	}
}

func (r *Runner) runStage(ctx context.Context, name string, fn func(context.Context) error) StageResult {
	r.logger.Info("initializing store", "store", name)
	start := time.Now()
	err := fn(ctx)
	return StageResult{Name: name, Err: err, Duration: time.Since(start)}
}

func (r *Runner) initTimescale(ctx context.Context) error {
	init, err := timescale.NewInitializer(&r.cfg.Timescale)
	if err != nil {
		return err
	}
	return init.Initialize(ctx)
}

func (r *Runner) initDocument(ctx context.Context) error {
	init, err := document.NewInitializer(&r.cfg.Document)
	if err != nil {
		return err
	}
	return init.Initialize(ctx)
}

func (r *Runner) initKV(ctx context.Context) error {
	init, err := kvstore.NewInitializer(&r.cfg.KV)
	if err != nil {
		return err
	}
	return init.Initialize(ctx)
}
