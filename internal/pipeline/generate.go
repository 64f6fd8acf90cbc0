package pipeline

import (
	"context"
	"fmt"
	"os"

	"mcqforge/internal/common"
)

// generate is the bounded retry loop around the backend call. Attempts are
// strictly sequential; success is judged purely on the backend's own signal,
// never on output content. Each attempt overwrites the previous attempt's
// output and error-log artifacts. There is no per-attempt timeout: a hung
// backend call blocks its attempt until ctx is cancelled.
func (p *Pipeline) generate(ctx context.Context, run *Run, prompt string) error {
	for n := 1; n <= p.Cfg.MaxAttempts; n++ {
		if n > 1 {
			p.Logger.Info("generate.backoff", "run_id", run.ID, "delay", p.Cfg.RetryBackoff)
			p.sleep(p.Cfg.RetryBackoff)
		}

		p.Logger.Info("generate.attempt", "run_id", run.ID, "attempt", n, "max", p.Cfg.MaxAttempts, "model", run.Model)
		response, err := p.Generator.Generate(ctx, run.Model, prompt)
		if err != nil {
			run.Attempts = append(run.Attempts, Attempt{Number: n, Error: err.Error()})
			p.recordAttempt(run, n, false, err.Error())

			if werr := os.WriteFile(run.ErrorLogPath, []byte(err.Error()+"\n"), 0o644); werr != nil {
				p.Logger.Warn("generate.error_log_write_failed", "run_id", run.ID, "error", werr)
			}
			// Surface the captured error before the next attempt or final failure.
			p.Logger.Error("generate.attempt.failed", "run_id", run.ID, "attempt", n, "error", err)
			continue
		}

		if werr := os.WriteFile(run.OutputPath, []byte(response), 0o644); werr != nil {
			return common.WrapError(werr, "write output artifact")
		}
		run.Attempts = append(run.Attempts, Attempt{Number: n, OK: true})
		p.recordAttempt(run, n, true, "")
		p.Logger.Info("generate.attempt.ok", "run_id", run.ID, "attempt", n, "bytes", len(response))
		return nil
	}

	return common.NewAppError("GENERATION_FAILED",
		fmt.Sprintf("all %d generation attempts failed", p.Cfg.MaxAttempts),
		common.ErrGenerationFailed)
}

func (p *Pipeline) recordAttempt(run *Run, n int, ok bool, errMsg string) {
	if err := p.History.RecordAttempt(run.ID.String(), n, ok, errMsg); err != nil {
		p.Logger.Warn("history.attempt_failed", "run_id", run.ID, "attempt", n, "error", err)
	}
}
