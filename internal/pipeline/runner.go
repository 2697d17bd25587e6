package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Runner executes steps strictly in order, one at a time.
type Runner struct {
	exec   Executor
	out    io.Writer
	logger *slog.Logger
}

// NewRunner constructs a Runner. Command traces are printed to out.
func NewRunner(exec Executor, out io.Writer, logger *slog.Logger) *Runner {
	if out == nil {
		out = os.Stdout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{exec: exec, out: out, logger: logger}
}

// Run executes the steps in order. A failed fatal step stops the pipeline and
// is returned as *StepFailedError; failed best-effort steps are logged and skipped.
// The returned results cover every step that was attempted.
func (r *Runner) Run(ctx context.Context, steps ...Step) ([]ExecutionResult, error) {
	results := make([]ExecutionResult, 0, len(steps))
	for _, step := range steps {
		res := r.runStep(ctx, step)
		results = append(results, res)
		if !res.Failed() {
			continue
		}

		if !res.Fatal {
			r.logger.Warn("best-effort step failed, continuing", "step", step.Name, "exit_code", res.ExitCode, "error", res.Err)
			continue
		}

		r.logger.Error("step failed, aborting pipeline", "step", step.Name, "exit_code", res.ExitCode)
		return results, &StepFailedError{
			Step:     step.Name,
			Command:  step.String(),
			ExitCode: res.ExitCode,
			Err:      res.Err,
		}
	}
	return results, nil
}

func (r *Runner) runStep(ctx context.Context, step Step) ExecutionResult {
	line := step.String()
	_, _ = fmt.Fprintf(r.out, "\n$ %s\n", line)
	r.logger.Info("running step", "step", step.Name, "command", line, "dir", step.Dir, "best_effort", step.BestEffort)

	code, err := r.exec.Run(ctx, step)
	if err != nil && code == 0 {
		code = ExitCodeNotStarted
	}

	return ExecutionResult{
		Step:     step,
		ExitCode: code,
		Fatal:    !step.BestEffort,
		Err:      err,
	}
}
