package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// ExitCodeNotStarted is reported for steps whose program could not be launched.
const ExitCodeNotStarted = 127

// Executor runs a single step to completion and reports its exit status.
// A non-nil error means the process could not be started at all.
type Executor interface {
	Run(ctx context.Context, step Step) (int, error)
}

// TranscriptFunc opens an extra sink that receives a copy of one output stream
// ("stdout" or "stderr") of a step. The sink is closed when the step finishes.
type TranscriptFunc func(step Step, stream string) io.WriteCloser

// ExecExecutor runs steps as child processes via os/exec, streaming their
// output straight to the operator's terminal.
type ExecExecutor struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// Transcript optionally tees process output into another sink.
	Transcript TranscriptFunc
}

// NewExecExecutor constructs an executor bound to the process standard streams.
func NewExecExecutor() *ExecExecutor {
	return &ExecExecutor{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Run executes the step and waits for it to exit. There is no timeout.
func (e *ExecExecutor) Run(ctx context.Context, step Step) (int, error) {
	cmd := exec.CommandContext(ctx, step.Program, step.Args...)
	cmd.Dir = step.Dir
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr

	if e.Transcript != nil {
		stdout := e.Transcript(step, "stdout")
		stderr := e.Transcript(step, "stderr")
		defer func() {
			_ = stdout.Close()
			_ = stderr.Close()
		}()
		cmd.Stdout = teeWriter(cmd.Stdout, stdout)
		cmd.Stderr = teeWriter(cmd.Stderr, stderr)
	}

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if code <= 0 {
			// killed by a signal
			code = 1
		}
		return code, nil
	}
	return ExitCodeNotStarted, fmt.Errorf("start %s: %w", step.Program, err)
}

func teeWriter(primary, extra io.Writer) io.Writer {
	if primary == nil {
		return extra
	}
	return io.MultiWriter(primary, extra)
}
