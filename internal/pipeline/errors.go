package pipeline

import "fmt"

// StepFailedError is returned when a fatal step exits non-zero.
type StepFailedError struct {
	// Step is the name of the failed step.
	Step string
	// Command is the redacted command line of the failed step.
	Command string
	// ExitCode is the exit status reported by the process.
	ExitCode int
	// Err is the underlying start error, if any.
	Err error
}

func (e *StepFailedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("step %q failed (exit code %d): %v", e.Step, e.ExitCode, e.Err)
	}
	return fmt.Sprintf("step %q failed (exit code %d): %s", e.Step, e.ExitCode, e.Command)
}

func (e *StepFailedError) Unwrap() error {
	return e.Err
}
