package backend

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"mcqforge/internal/common"
)

type stubClient struct {
	heartbeatErrs []error // consumed in order; empty means always healthy
	heartbeats    int

	models    []string
	listErr   error
	listCalls int

	created   map[string]string
	createErr error
}

func (c *stubClient) Heartbeat(context.Context) error {
	c.heartbeats++
	if len(c.heartbeatErrs) == 0 {
		return nil
	}
	err := c.heartbeatErrs[0]
	c.heartbeatErrs = c.heartbeatErrs[1:]
	return err
}

func (c *stubClient) ListModels(context.Context) ([]string, error) {
	c.listCalls++
	return c.models, c.listErr
}

func (c *stubClient) CreateModel(_ context.Context, name, modelfile string) error {
	if c.createErr != nil {
		return c.createErr
	}
	if c.created == nil {
		c.created = map[string]string{}
	}
	c.created[name] = modelfile
	return nil
}

func (c *stubClient) Generate(context.Context, string, string) (string, error) {
	return "", errors.New("not used")
}

type stubRunner struct {
	lookErr  error
	started  []string
	startErr error
}

func (r *stubRunner) LookPath(file string) (string, error) {
	if r.lookErr != nil {
		return "", r.lookErr
	}
	return "/usr/local/bin/" + file, nil
}

func (r *stubRunner) StartDetached(name string, args ...string) error {
	r.started = append(r.started, name)
	return r.startErr
}

func newTestReadiness(client *stubClient, runner *stubRunner, cfg common.BackendConfig) *Readiness {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := NewReadiness(client, runner, cfg, logger)
	r.sleep = func(time.Duration) {}
	return r
}

func testCfg() common.BackendConfig {
	return common.BackendConfig{
		Binary:        "ollama",
		BaseURL:       "http://localhost:11434",
		BaseModel:     "llama2",
		CustomModel:   "mcq-generator",
		ModelfilePath: filepath.Join(os.TempDir(), "no-such-modelfile"),
		StartTimeout:  5 * time.Second,
	}
}

func TestEnsureReadyNotInstalled(t *testing.T) {
	client := &stubClient{}
	runner := &stubRunner{lookErr: errors.New("executable file not found in $PATH")}

	_, err := newTestReadiness(client, runner, testCfg()).EnsureReady(context.Background())
	require.ErrorIs(t, err, common.ErrBackendUnavailable)
	require.Contains(t, err.Error(), "not installed")
	require.Empty(t, runner.started, "no service start is attempted")
	require.Zero(t, client.heartbeats, "no probe runs after the install check fails")
}

func TestEnsureReadyAlreadyServing(t *testing.T) {
	client := &stubClient{models: []string{"llama2:latest", "mcq-generator:latest"}}
	runner := &stubRunner{}

	model, err := newTestReadiness(client, runner, testCfg()).EnsureReady(context.Background())
	require.NoError(t, err)
	require.Equal(t, "mcq-generator", model)
	require.Empty(t, runner.started)
}

func TestEnsureReadyStartsAndRechecks(t *testing.T) {
	client := &stubClient{
		heartbeatErrs: []error{errors.New("connection refused")}, // healthy on re-check
		models:        []string{"llama2"},
	}
	runner := &stubRunner{}

	cfg := testCfg()
	model, err := newTestReadiness(client, runner, cfg).EnsureReady(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"ollama"}, runner.started)
	require.Equal(t, 2, client.heartbeats, "one probe, one bounded re-check")
	require.Equal(t, "llama2", model, "degraded to base model without a Modelfile")
}

func TestEnsureReadyFailedToStart(t *testing.T) {
	client := &stubClient{
		heartbeatErrs: []error{errors.New("connection refused"), errors.New("connection refused")},
	}
	runner := &stubRunner{}

	_, err := newTestReadiness(client, runner, testCfg()).EnsureReady(context.Background())
	require.ErrorIs(t, err, common.ErrBackendUnavailable)
	require.Contains(t, err.Error(), "failed to start")
	require.Zero(t, client.listCalls, "model registry is never queried")
}

func TestEnsureReadyBaseModelMissing(t *testing.T) {
	client := &stubClient{models: []string{"mistral:latest"}}
	runner := &stubRunner{}

	_, err := newTestReadiness(client, runner, testCfg()).EnsureReady(context.Background())
	require.ErrorIs(t, err, common.ErrBackendUnavailable)
	require.Contains(t, err.Error(), "base model missing")
}

func TestEnsureReadyBuildsCustomModel(t *testing.T) {
	modelfile := filepath.Join(t.TempDir(), "Modelfile")
	require.NoError(t, os.WriteFile(modelfile, []byte("FROM llama2\nSYSTEM You write exam questions.\n"), 0o644))

	client := &stubClient{models: []string{"llama2:latest"}}
	runner := &stubRunner{}
	cfg := testCfg()
	cfg.ModelfilePath = modelfile

	model, err := newTestReadiness(client, runner, cfg).EnsureReady(context.Background())
	require.NoError(t, err)
	require.Equal(t, "mcq-generator", model)
	require.Contains(t, client.created["mcq-generator"], "FROM llama2")
}

func TestEnsureReadyRegistryUnreachable(t *testing.T) {
	client := &stubClient{listErr: errors.New("boom")}
	runner := &stubRunner{}

	_, err := newTestReadiness(client, runner, testCfg()).EnsureReady(context.Background())
	require.ErrorIs(t, err, common.ErrBackendUnavailable)
}

func TestHasModelTagSuffix(t *testing.T) {
	models := []string{"llama2:7b", "mcq-generator:latest"}
	require.True(t, hasModel(models, "llama2"))
	require.True(t, hasModel(models, "mcq-generator"))
	require.False(t, hasModel(models, "llama"))
	require.False(t, hasModel(models, "mistral"))
}
