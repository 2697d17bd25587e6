package main

import (
	"errors"
	"os"

	"github.com/codex-k8s/deployctl/internal/cli"
	"github.com/codex-k8s/deployctl/internal/logging"
)

// main is the entry point for the deployctl CLI binary.
func main() {
	logger := logging.NewLogger(os.Stderr, logging.LevelInfo)
	if err := cli.Execute(os.Args[1:], logger); err != nil {
		var usageErr *cli.UsageError
		if !errors.As(err, &usageErr) {
			logger.Error("command failed", "error", err)
		}
		os.Exit(cli.ExitCode(err))
	}
}
