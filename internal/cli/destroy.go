package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/codex-k8s/deployctl/internal/orchestrator"
)

// newDestroyCommand creates the "destroy" subcommand: remove containers, then tear down infrastructure.
func newDestroyCommand(a *app) *cobra.Command {
	return newAction(a, "destroy", "Remove the service containers and destroy the infrastructure",
		func(ctx context.Context, o *orchestrator.Orchestrator) error {
			LoggerFromContext(ctx).Debug("starting destroy")
			return o.Destroy(ctx)
		})
}
