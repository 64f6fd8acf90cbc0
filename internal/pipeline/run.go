package pipeline

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"mcqforge/constants"
	"mcqforge/internal/common"
	"mcqforge/internal/mcq"
	"mcqforge/internal/store"
	"mcqforge/internal/sysinfo"
	"mcqforge/internal/validate"
)

// ResourceChecker inspects host resources; warnings only, never blocks.
type ResourceChecker interface {
	Check(workDir string) []sysinfo.Warning
}

// ReadinessChecker verifies the backend precondition and returns the model
// the run should generate with.
type ReadinessChecker interface {
	EnsureReady(ctx context.Context) (string, error)
}

// TextExtractor produces the extracted-text artifact for an input document.
type TextExtractor interface {
	ExtractToFile(ctx context.Context, inputPath, outPath string) error
}

// Generator performs one synchronous backend generation.
type Generator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// Attempt is one try of the generation step within a run.
type Attempt struct {
	Number int
	OK     bool
	Error  string
}

// Run is one end-to-end execution for one input document. Artifacts are
// run-scoped within the working directory; callers must not point two
// concurrent runs at the same workspace.
type Run struct {
	ID        uuid.UUID
	InputPath string
	Ext       string
	Stage     constants.Stage
	Attempts  []Attempt
	Model     string

	TextPath     string
	PromptPath   string
	OutputPath   string
	ErrorLogPath string
}

// Params are the caller-supplied generation parameters.
type Params struct {
	Difficulty   string
	NumQuestions int
}

// Pipeline composes the stages around the generation backend in fixed order:
// resources, backend readiness, input validation, extraction, extracted-text
// validation, bounded generation retries, output validation. All stages run
// sequentially; there is no concurrency within a run.
type Pipeline struct {
	Logger    *slog.Logger
	Cfg       common.PipelineConfig
	Resources ResourceChecker
	Readiness ReadinessChecker
	Extractor TextExtractor
	Generator Generator
	History   *store.Store

	sleep func(time.Duration)
}

func New(logger *slog.Logger, cfg common.PipelineConfig, res ResourceChecker, ready ReadinessChecker, ex TextExtractor, gen Generator, history *store.Store) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		Logger:    logger,
		Cfg:       cfg,
		Resources: res,
		Readiness: ready,
		Extractor: ex,
		Generator: gen,
		History:   history,
		sleep:     time.Sleep,
	}
}

// Execute runs the whole pipeline for one document. It is the single
// aggregation point for failures: the first stage error triggers recovery
// (transient-artifact cleanup plus diagnostics) exactly once, and the
// original tagged error is propagated unchanged.
func (p *Pipeline) Execute(ctx context.Context, inputPath string, params Params) (mcq.Set, *Run, error) {
	run := p.newRun(inputPath)
	start := time.Now()

	if err := p.History.StartRun(run.ID.String(), inputPath, run.Ext, string(run.Stage)); err != nil {
		p.Logger.Warn("history.start_failed", "run_id", run.ID, "error", err)
	}

	set, err := p.execute(ctx, run, params)
	if err != nil {
		p.recover(run, err)
		if herr := p.History.FinishRun(run.ID.String(), string(constants.RunStatusFailed), string(run.Stage), err.Error(), time.Since(start)); herr != nil {
			p.Logger.Warn("history.finish_failed", "run_id", run.ID, "error", herr)
		}
		return nil, run, err
	}

	if herr := p.History.FinishRun(run.ID.String(), string(constants.RunStatusSucceeded), string(run.Stage), "", time.Since(start)); herr != nil {
		p.Logger.Warn("history.finish_failed", "run_id", run.ID, "error", herr)
	}
	p.Logger.Info("pipeline.ok",
		"run_id", run.ID,
		"input", inputPath,
		"questions", len(set),
		"attempts", len(run.Attempts),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return set, run, nil
}

func (p *Pipeline) newRun(inputPath string) *Run {
	return &Run{
		ID:           uuid.New(),
		InputPath:    inputPath,
		Ext:          filepath.Ext(inputPath),
		Stage:        constants.StageResources,
		TextPath:     filepath.Join(p.Cfg.WorkDir, p.Cfg.TextArtifact),
		PromptPath:   filepath.Join(p.Cfg.WorkDir, p.Cfg.PromptArtifact),
		OutputPath:   filepath.Join(p.Cfg.WorkDir, p.Cfg.OutputArtifact),
		ErrorLogPath: filepath.Join(p.Cfg.WorkDir, p.Cfg.ErrorLogArtifact),
	}
}

func (p *Pipeline) enter(run *Run, stage constants.Stage) {
	run.Stage = stage
	if err := p.History.UpdateStage(run.ID.String(), string(stage)); err != nil {
		p.Logger.Warn("history.stage_failed", "run_id", run.ID, "error", err)
	}
	p.Logger.Info("pipeline.stage", "run_id", run.ID, "stage", stage)
}

func (p *Pipeline) execute(ctx context.Context, run *Run, params Params) (mcq.Set, error) {
	p.enter(run, constants.StageResources)
	p.Resources.Check(p.Cfg.WorkDir)

	p.enter(run, constants.StageBackend)
	model, err := p.Readiness.EnsureReady(ctx)
	if err != nil {
		return nil, err
	}
	run.Model = model

	p.enter(run, constants.StageInput)
	if err := validate.Input(run.InputPath, p.Cfg.MaxInputBytes); err != nil {
		return nil, err
	}

	p.enter(run, constants.StageExtract)
	if err := p.Extractor.ExtractToFile(ctx, run.InputPath, run.TextPath); err != nil {
		return nil, common.WrapError(err, "text extraction")
	}

	p.enter(run, constants.StageText)
	if err := validate.ExtractedText(run.TextPath, p.Cfg.MinTextBytes); err != nil {
		return nil, err
	}

	text, err := os.ReadFile(run.TextPath)
	if err != nil {
		return nil, common.WrapError(err, "read text artifact")
	}
	prompt := mcq.BuildPrompt(string(text), params.Difficulty, params.NumQuestions)
	if err := os.WriteFile(run.PromptPath, []byte(prompt), 0o644); err != nil {
		return nil, common.WrapError(err, "write prompt artifact")
	}

	p.enter(run, constants.StageGenerate)
	if err := p.generate(ctx, run, prompt); err != nil {
		return nil, err
	}

	// Output content is validated once, after the retry loop: a backend
	// that reports success but emits bad content is reported, not retried.
	p.enter(run, constants.StageOutput)
	return validate.Output(run.OutputPath)
}

// recover is the failure recovery controller: best-effort removal of
// transient artifacts, then a diagnostic dump. An output artifact that
// exists but failed validation is preserved for inspection, not deleted.
func (p *Pipeline) recover(run *Run, cause error) {
	p.Logger.Error("pipeline.failed", "run_id", run.ID, "stage", run.Stage, "error", cause)

	for _, path := range []string{run.PromptPath, run.ErrorLogPath, run.TextPath} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			p.Logger.Warn("cleanup.remove_failed", "run_id", run.ID, "artifact", path, "error", err)
		}
	}

	if entries, err := os.ReadDir(p.Cfg.WorkDir); err == nil {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		p.Logger.Info("diagnostics.workspace", "run_id", run.ID, "dir", p.Cfg.WorkDir, "entries", names)
	}

	if raw, err := os.ReadFile(run.OutputPath); err == nil {
		p.Logger.Info("diagnostics.output_head", "run_id", run.ID, "artifact", run.OutputPath, "head", headLines(string(raw), 20))
	}

	if n := len(run.Attempts); n > 0 && !run.Attempts[n-1].OK {
		last := run.Attempts[n-1]
		p.Logger.Info("diagnostics.last_attempt", "run_id", run.ID, "attempt", last.Number, "error", last.Error)
	}
}

func headLines(s string, n int) string {
	lines := strings.SplitN(s, "\n", n+1)
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}
