package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"mcqforge/internal/backend"
	"mcqforge/internal/common"
	"mcqforge/internal/sysinfo"
)

// preflight runs the named environment checks, individually or composed in
// the fixed order resources -> backend -> models, exiting non-zero on the
// first failure.
func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	client := backend.NewHTTPClient(cfg.Backend.BaseURL, logger)
	ready := backend.NewReadiness(client, backend.NewExecRunner(logger), cfg.Backend, logger)
	monitor := sysinfo.NewMonitor(cfg.Resources, logger)
	ctx := context.Background()

	checks := os.Args[1:]
	if len(checks) == 0 {
		checks = []string{"resources", "backend", "models"}
	}

	for _, name := range checks {
		switch name {
		case "resources":
			warnings := monitor.Check(cfg.Pipeline.WorkDir)
			logger.Info("check.resources.done", "warnings", len(warnings))
		case "backend":
			if err := ready.CheckInstalled(); err != nil {
				logger.Error("check.backend.failed", "error", err)
				os.Exit(common.ExitCode(err))
			}
			if err := ready.CheckServing(ctx); err != nil {
				logger.Error("check.backend.failed", "error", err)
				os.Exit(common.ExitCode(err))
			}
			logger.Info("check.backend.done")
		case "models":
			model, err := ready.CheckModels(ctx)
			if err != nil {
				logger.Error("check.models.failed", "error", err)
				os.Exit(common.ExitCode(err))
			}
			logger.Info("check.models.done", "model", model)
		default:
			logger.Error("unknown check", "name", name, "known", []string{"resources", "backend", "models"})
			os.Exit(2)
		}
	}
}
