package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/codex-k8s/deployctl/internal/orchestrator"
)

// newDeployCommand creates the "deploy" subcommand: provision, then configure.
func newDeployCommand(a *app) *cobra.Command {
	return newAction(a, "deploy", "Provision infrastructure and configure the services",
		func(ctx context.Context, o *orchestrator.Orchestrator) error {
			LoggerFromContext(ctx).Debug("starting deploy")
			return o.Deploy(ctx)
		})
}
