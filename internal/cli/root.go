// Package cli defines the command-line interface for deployctl.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/codex-k8s/deployctl/internal/config"
	"github.com/codex-k8s/deployctl/internal/env"
	"github.com/codex-k8s/deployctl/internal/logging"
	"github.com/codex-k8s/deployctl/internal/orchestrator"
	"github.com/codex-k8s/deployctl/internal/pipeline"
	"github.com/codex-k8s/deployctl/internal/secret"
)

const passwordPrompt = "Enter DB password (will not be shown): "

// Deps are the process-level collaborators of the CLI. Zero values select
// the real terminal, environment and os/exec.
type Deps struct {
	Stdout io.Writer
	Stderr io.Writer
	// Environ replaces the process environment for settings and the secret.
	Environ env.Vars
	// Executor replaces the os/exec based step executor.
	Executor pipeline.Executor
	// Secrets replaces the DB password sources (environment, then prompt).
	Secrets []secret.Source
}

func (d Deps) withDefaults() Deps {
	if d.Stdout == nil {
		d.Stdout = os.Stdout
	}
	if d.Stderr == nil {
		d.Stderr = os.Stderr
	}
	if d.Environ == nil {
		d.Environ = env.FromOS()
	}
	return d
}

// app carries state shared by the subcommands of one invocation.
type app struct {
	deps     Deps
	logger   *slog.Logger
	sinks    *logging.Sinks
	redactor *logging.Redactor
	// ran is set once an action command has been dispatched.
	ran bool
}

// Execute builds the root command, runs it with the provided args and logger, and returns any error.
func Execute(args []string, logger *slog.Logger) error {
	return ExecuteWith(args, logger, Deps{})
}

// ExecuteWith is Execute with explicit collaborators.
func ExecuteWith(args []string, logger *slog.Logger, deps Deps) error {
	deps = deps.withDefaults()
	if logger == nil {
		logger = logging.NewLogger(deps.Stderr, logging.LevelInfo)
	}

	a := &app{deps: deps, logger: logger, redactor: logging.NewRedactor()}
	defer func() { _ = a.sinks.Close() }()

	rootCmd := newRootCommand(a)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(deps.Stdout)
	rootCmd.SetErr(deps.Stderr)

	err := rootCmd.Execute()
	if err == nil {
		return nil
	}

	var usageErr *UsageError
	if !errors.As(err, &usageErr) && !a.ran {
		// cobra rejected the arguments before any action ran
		usageErr = &UsageError{Reason: err.Error()}
		err = usageErr
	}
	if usageErr != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "error: %s\n\n", usageErr.Reason)
		printUsage(deps.Stderr)
	}
	return err
}

// newRootCommand constructs the root cobra.Command and its two actions.
// Flag parsing is disabled everywhere: the only accepted input is one action word.
func newRootCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:                "deployctl <deploy|destroy>",
		Short:              "deployctl provisions and configures the demo services",
		Long:               "deployctl runs Terraform to provision infrastructure and Ansible to configure the auth and catalog services.",
		Args:               cobra.NoArgs,
		DisableFlagParsing: true,
		SilenceErrors:      true,
		SilenceUsage:       true,
		CompletionOptions:  cobra.CompletionOptions{DisableDefaultCmd: true},
		RunE: func(*cobra.Command, []string) error {
			return &UsageError{Reason: "missing action"}
		},
	}

	cmd.SetHelpCommand(&cobra.Command{
		Use:                "help",
		Hidden:             true,
		DisableFlagParsing: true,
		RunE: func(*cobra.Command, []string) error {
			return &UsageError{Reason: "help requested"}
		},
	})

	cmd.AddCommand(
		newDeployCommand(a),
		newDestroyCommand(a),
	)

	return cmd
}

// newAction builds an action subcommand that loads settings and logging
// before handing an Orchestrator to run.
func newAction(a *app, use, short string, run func(context.Context, *orchestrator.Orchestrator) error) *cobra.Command {
	return &cobra.Command{
		Use:                use,
		Short:              short,
		Args:               cobra.NoArgs,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.ran = true
			orch, err := a.prepare()
			if err != nil {
				return err
			}
			ctx := context.WithValue(cmd.Context(), loggerKey{}, a.logger)
			return run(ctx, orch)
		},
	}
}

// prepare loads settings, rebuilds the logger and wires the orchestrator.
func (a *app) prepare() (*orchestrator.Orchestrator, error) {
	settings, err := config.Load(config.LoadOptions{Environ: a.deps.Environ})
	if err != nil {
		return nil, err
	}

	a.sinks = logging.New(a.deps.Stderr, logging.Options{
		Level:    logging.ParseLevel(settings.Log.Level),
		File:     settings.Log.File,
		Redactor: a.redactor,
	})
	a.logger = a.sinks.Logger
	a.logger.Debug("settings loaded", "root", settings.Root, "infra_dir", settings.InfraDir, "log_file", settings.Log.File)

	runner := pipeline.NewRunner(a.executor(), a.deps.Stdout, a.logger)
	return orchestrator.New(settings, runner, a.secretSources(),
		orchestrator.WithRedactor(a.redactor),
		orchestrator.WithOutput(a.deps.Stdout),
		orchestrator.WithLogger(a.logger),
	), nil
}

func (a *app) executor() pipeline.Executor {
	if a.deps.Executor != nil {
		return a.deps.Executor
	}
	exec := pipeline.NewExecExecutor()
	exec.Stdout = a.deps.Stdout
	exec.Stderr = a.deps.Stderr
	if fileLog := a.sinks.File; fileLog != nil {
		exec.Transcript = func(step pipeline.Step, stream string) io.WriteCloser {
			return logging.NewWriter(fileLog, "step", step.Name, "stream", stream)
		}
	}
	return exec
}

func (a *app) secretSources() []secret.Source {
	if a.deps.Secrets != nil {
		return a.deps.Secrets
	}
	return []secret.Source{
		&secret.EnvSource{Key: config.SecretVar, LookupEnv: a.deps.Environ.Lookup},
		secret.NewPromptSource(passwordPrompt, os.Stdin, a.deps.Stderr),
	}
}

// loggerKey is a private context key used to store a logger in command contexts.
type loggerKey struct{}

// LoggerFromContext extracts a logger from the context or falls back to a default logger.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return logging.NewLogger(os.Stderr, logging.LevelInfo)
	}
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return logging.NewLogger(os.Stderr, logging.LevelInfo)
}
