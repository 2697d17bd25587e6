// Package orchestrator defines the deploy and destroy pipelines and runs them.
package orchestrator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/codex-k8s/deployctl/internal/config"
	"github.com/codex-k8s/deployctl/internal/logging"
	"github.com/codex-k8s/deployctl/internal/pipeline"
	"github.com/codex-k8s/deployctl/internal/secret"
	"github.com/codex-k8s/deployctl/internal/tools"
)

// dbPasswordVar is the Ansible variable carrying the database password.
const dbPasswordVar = "db_password"

// Orchestrator sequences provisioning, secret resolution and configuration.
type Orchestrator struct {
	settings *config.Settings
	runner   *pipeline.Runner
	sources  []secret.Source
	redactor *logging.Redactor
	out      io.Writer
	logger   *slog.Logger

	terraform *tools.Terraform
	ansible   *tools.Ansible
	docker    *tools.Docker
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithRedactor registers the resolved secret with r so log sinks mask it.
func WithRedactor(r *logging.Redactor) Option {
	return func(o *Orchestrator) { o.redactor = r }
}

// WithOutput sets where summaries are printed. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(o *Orchestrator) { o.out = w }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// New constructs an Orchestrator. sources are consulted in order for the DB password.
func New(settings *config.Settings, runner *pipeline.Runner, sources []secret.Source, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		settings:  settings,
		runner:    runner,
		sources:   sources,
		out:       os.Stdout,
		logger:    slog.Default(),
		terraform: tools.NewTerraform(settings.Tools.Terraform, settings.InfraDir),
		ansible:   tools.NewAnsible(settings.Tools.Ansible, settings.Root, settings.Inventory),
		docker:    tools.NewDocker(settings.Tools.Docker, settings.Root),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ProvisionSteps returns the infrastructure part of the deploy pipeline.
// validate runs before apply so broken definitions never mutate anything.
func (o *Orchestrator) ProvisionSteps() []pipeline.Step {
	return []pipeline.Step{
		o.terraform.Init(),
		o.terraform.Fmt(),
		o.terraform.Validate(),
		o.terraform.Apply(),
	}
}

// ConfigureStep returns the configuration step carrying the DB password.
func (o *Orchestrator) ConfigureStep(password string) pipeline.Step {
	return o.ansible.Playbook(o.settings.Playbook, tools.Var{Key: dbPasswordVar, Value: password, Secret: true})
}

// DestroySteps returns the destroy pipeline: best-effort container cleanup,
// then the authoritative infrastructure teardown.
func (o *Orchestrator) DestroySteps() []pipeline.Step {
	var steps []pipeline.Step
	if len(o.settings.Containers) > 0 {
		steps = append(steps, o.docker.RemoveContainers(o.settings.Containers...))
	}
	return append(steps, o.terraform.Destroy())
}

// Deploy provisions infrastructure, resolves the DB password and runs the playbook.
func (o *Orchestrator) Deploy(ctx context.Context) error {
	o.logger.Info("provisioning infrastructure", "dir", o.settings.InfraDir)
	if _, err := o.runner.Run(ctx, o.ProvisionSteps()...); err != nil {
		return fmt.Errorf("deploy: %w", err)
	}

	password, err := secret.Resolve(ctx, o.sources...)
	if err != nil {
		o.logger.Warn("infrastructure is applied but not configured; rerun deploy once the DB password is available",
			"hint", "export "+config.SecretVar+"=...")
		return fmt.Errorf("deploy: resolve DB password: %w", err)
	}
	if o.redactor != nil {
		o.redactor.Add(password)
	}

	o.logger.Info("configuring services", "playbook", o.settings.Playbook)
	if _, err := o.runner.Run(ctx, o.ConfigureStep(password)); err != nil {
		return fmt.Errorf("deploy: %w", err)
	}

	_, _ = fmt.Fprintln(o.out, "\nDeploy complete.")
	for _, ep := range o.settings.Endpoints {
		_, _ = fmt.Fprintf(o.out, "%-9s%s\n", ep.Name+":", ep.URL)
	}
	o.logger.Info("deploy finished")
	return nil
}

// Destroy removes the service containers and tears down the infrastructure.
func (o *Orchestrator) Destroy(ctx context.Context) error {
	o.logger.Info("destroying deployment", "dir", o.settings.InfraDir)
	if _, err := o.runner.Run(ctx, o.DestroySteps()...); err != nil {
		return fmt.Errorf("destroy: %w", err)
	}

	_, _ = fmt.Fprintln(o.out, "\nDestroy complete.")
	o.logger.Info("destroy finished")
	return nil
}
