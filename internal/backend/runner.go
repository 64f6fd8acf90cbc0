package backend

import (
	"log/slog"
	"os/exec"
)

// Runner lets us stub the backend binary in tests.
type Runner interface {
	// LookPath resolves the backend executable on PATH.
	LookPath(file string) (string, error)
	// StartDetached launches a long-lived process without waiting for it.
	// The serving process is a shared external resource; the pipeline does
	// not own its lifecycle beyond starting it if absent.
	StartDetached(name string, args ...string) error
}

type execRunner struct {
	logger *slog.Logger
}

func NewExecRunner(logger *slog.Logger) Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return execRunner{logger: logger}
}

func (r execRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (r execRunner) StartDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		r.logger.Error("exec start failed", "cmd", name, "error", err)
		return err
	}
	r.logger.Info("exec started", "cmd", name, "pid", cmd.Process.Pid)
	// Let the service outlive this run.
	return cmd.Process.Release()
}
