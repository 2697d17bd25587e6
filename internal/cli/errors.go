package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/codex-k8s/deployctl/internal/pipeline"
)

// ExitUsage is the exit status for invalid invocations and non-step failures.
const ExitUsage = 1

// UsageError reports an invalid command line. No pipeline step runs.
type UsageError struct {
	Reason string
}

func (e *UsageError) Error() string {
	return "usage: " + e.Reason
}

// ExitCode maps an error returned by Execute to a process exit status.
// A failed step propagates the tool's own exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var stepErr *pipeline.StepFailedError
	if errors.As(err, &stepErr) && stepErr.ExitCode > 0 {
		return stepErr.ExitCode
	}
	return ExitUsage
}

func printUsage(w io.Writer) {
	_, _ = fmt.Fprint(w, `Usage:
  deployctl deploy
  deployctl destroy

Tip: set DB_PASSWORD in your shell to avoid prompts:
  export DB_PASSWORD='yourpassword'
`)
}
