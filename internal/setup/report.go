package setup

import (
	"log/slog"
	"time"
)

// StageResult records the outcome of one initialization stage.
type StageResult struct {
	Err      error
	Name     string
	Duration time.Duration
}

// OK reports whether the stage completed without error.
func (s StageResult) OK() bool {
	return s.Err == nil
}

// Report aggregates the per-store outcomes of a provisioning run.
type Report struct {
	Results []StageResult
}

// AllOK reports whether every stage succeeded.
func (r *Report) AllOK() bool {
	for _, res := range r.Results {
		if !res.OK() {
			return false
		}
	}
	return true
}

// Failed returns the number of failed stages.
func (r *Report) Failed() int {
	failed := 0
	for _, res := range r.Results {
		if !res.OK() {
			failed++
		}
	}
	return failed
}

// ExitCode returns the process exit status: 0 when every store was
// initialized, 1 otherwise.
func (r *Report) ExitCode() int {
	if r.AllOK() {
		return 0
	}
	return 1
}

// Log writes one summary line per store plus an aggregate line.
func (r *Report) Log(logger *slog.Logger) {
	for _, res := range r.Results {
		if res.OK() {
			logger.Info("store initialized", "store", res.Name, "duration", res.Duration.String())
			continue
		}
		logger.Error("store initialization failed",
			"store", res.Name,
			"duration", res.Duration.String(),
			"error", res.Err,
		)
	}

	if r.AllOK() {
		logger.Info("all datastores initialized", "stores", len(r.Results))
		return
	}
	logger.Error("setup incomplete", "failed", r.Failed(), "stores", len(r.Results))
}
