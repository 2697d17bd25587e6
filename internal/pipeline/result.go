package pipeline

// ExecutionResult is the outcome of running a single Step.
type ExecutionResult struct {
	// Step is the step that produced this result.
	Step Step
	// ExitCode is the process exit status; ExitCodeNotStarted when the process never ran.
	ExitCode int
	// Fatal is true when a failure of this step aborts the pipeline.
	Fatal bool
	// Err holds the start error when the program could not be launched.
	Err error
}

// Failed reports whether the step exited non-zero or could not be started.
func (r ExecutionResult) Failed() bool {
	return r.ExitCode != 0 || r.Err != nil
}
