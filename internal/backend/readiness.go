package backend

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"mcqforge/internal/common"
)

// Readiness verifies the generation backend is installed, serving, and has
// the required models loaded. Readiness is a precondition, not a retryable
// operation: transient slowness gets one bounded wait, structural
// unavailability fails immediately.
type Readiness struct {
	Client Client
	Runner Runner
	Cfg    common.BackendConfig
	Logger *slog.Logger

	sleep func(time.Duration)
}

func NewReadiness(client Client, runner Runner, cfg common.BackendConfig, logger *slog.Logger) *Readiness {
	if logger == nil {
		logger = slog.Default()
	}
	return &Readiness{
		Client: client,
		Runner: runner,
		Cfg:    cfg,
		Logger: logger,
		sleep:  time.Sleep,
	}
}

// EnsureReady runs the full readiness sequence and returns the model the
// pipeline should generate with: the custom model when present or built,
// the base model otherwise.
func (r *Readiness) EnsureReady(ctx context.Context) (string, error) {
	if err := r.CheckInstalled(); err != nil {
		return "", err
	}
	if err := r.CheckServing(ctx); err != nil {
		return "", err
	}
	return r.CheckModels(ctx)
}

// CheckInstalled verifies the backend executable is resolvable. A missing
// install is fatal; starting a service cannot fix it.
func (r *Readiness) CheckInstalled() error {
	path, err := r.Runner.LookPath(r.Cfg.Binary)
	if err != nil {
		return common.NewAppError("BACKEND_UNAVAILABLE",
			fmt.Sprintf("not installed: %q not found on PATH", r.Cfg.Binary),
			common.ErrBackendUnavailable)
	}
	r.Logger.Info("backend.installed", "binary", path)
	return nil
}

// CheckServing probes the backend over its API rather than scanning the
// process table. If it is down, the serving process is started and the probe
// re-checked once within the start timeout.
func (r *Readiness) CheckServing(ctx context.Context) error {
	if err := r.Client.Heartbeat(ctx); err == nil {
		r.Logger.Info("backend.serving")
		return nil
	}

	r.Logger.Info("backend.starting", "binary", r.Cfg.Binary, "timeout", r.Cfg.StartTimeout)
	if err := r.Runner.StartDetached(r.Cfg.Binary, "serve"); err != nil {
		return common.NewAppError("BACKEND_UNAVAILABLE",
			fmt.Sprintf("failed to start: %v", err),
			common.ErrBackendUnavailable)
	}

	r.sleep(r.Cfg.StartTimeout)
	if err := r.Client.Heartbeat(ctx); err != nil {
		return common.NewAppError("BACKEND_UNAVAILABLE",
			fmt.Sprintf("failed to start: no heartbeat after %s", r.Cfg.StartTimeout),
			common.ErrBackendUnavailable)
	}
	r.Logger.Info("backend.serving")
	return nil
}

// CheckModels queries the model registry. The base model is a hard
// requirement (manual provisioning, never auto-fetched). A missing custom
// model is built from the model-definition file when one exists; otherwise
// the run proceeds degraded on the base model.
func (r *Readiness) CheckModels(ctx context.Context) (string, error) {
	models, err := r.Client.ListModels(ctx)
	if err != nil {
		return "", common.NewAppError("BACKEND_UNAVAILABLE",
			fmt.Sprintf("model registry unreachable: %v", err),
			common.ErrBackendUnavailable)
	}

	if !hasModel(models, r.Cfg.BaseModel) {
		return "", common.NewAppError("BACKEND_UNAVAILABLE",
			fmt.Sprintf("base model missing: %q not installed; pull it manually", r.Cfg.BaseModel),
			common.ErrBackendUnavailable)
	}

	if hasModel(models, r.Cfg.CustomModel) {
		r.Logger.Info("backend.model.ready", "model", r.Cfg.CustomModel)
		return r.Cfg.CustomModel, nil
	}

	modelfile, err := os.ReadFile(r.Cfg.ModelfilePath)
	if err != nil {
		r.Logger.Warn("backend.model.degraded",
			"missing", r.Cfg.CustomModel,
			"modelfile", r.Cfg.ModelfilePath,
			"using", r.Cfg.BaseModel,
		)
		return r.Cfg.BaseModel, nil
	}

	r.Logger.Info("backend.model.building", "model", r.Cfg.CustomModel, "modelfile", r.Cfg.ModelfilePath)
	if err := r.Client.CreateModel(ctx, r.Cfg.CustomModel, string(modelfile)); err != nil {
		return "", common.NewAppError("BACKEND_UNAVAILABLE",
			fmt.Sprintf("failed to build model %q: %v", r.Cfg.CustomModel, err),
			common.ErrBackendUnavailable)
	}
	r.Logger.Info("backend.model.ready", "model", r.Cfg.CustomModel)
	return r.Cfg.CustomModel, nil
}

// hasModel matches registry names that may carry a tag suffix, e.g.
// "llama2:latest" matches "llama2".
func hasModel(models []string, name string) bool {
	for _, m := range models {
		if m == name || strings.HasPrefix(m, name+":") {
			return true
		}
	}
	return false
}
