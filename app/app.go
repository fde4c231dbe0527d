// Package app wires configuration, the Docker client, the command runners and
// the operator interface into the srvmaint commands.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/syrm/srvmaint/config"
	"github.com/syrm/srvmaint/docker"
	"github.com/syrm/srvmaint/dto"
	"github.com/syrm/srvmaint/fleet"
	"github.com/syrm/srvmaint/maintenance"
	"github.com/syrm/srvmaint/system"
	"github.com/syrm/srvmaint/tui"
)

// StackOptions selects how update-stacks picks its plan.
type StackOptions struct {
	All         bool
	Project     string
	UseTUI      bool
	Interactive bool
	Quiet       bool
}

type App struct {
	config  config.Config
	docker  *docker.Docker
	compose *docker.Compose
	host    *maintenance.Host
	tui     *tui.Tui
	in      io.Reader
	out     io.Writer
	logger  *slog.Logger
}

// NewApp builds the application. runtime is usually a *client.Client from
// docker.NewClient.
func NewApp(ctx context.Context, cfg config.Config, runtime docker.Runtime, in io.Reader, out io.Writer, logger *slog.Logger) *App {
	var streaming, quiet system.Runner
	if cfg.DryRun {
		streaming = system.NewDryRunRunner(out, logger)
		quiet = streaming
	} else {
		streaming = system.NewExecRunner(out, logger)
		quiet = system.NewExecRunner(nil, logger)
	}

	d := docker.NewDocker(runtime, logger)
	compose := docker.NewCompose(quiet, cfg.ComposeCommand, logger)
	if !cfg.DryRun {
		compose.ResolveCommand(ctx)
	}

	return &App{
		config:  cfg,
		docker:  d,
		compose: compose,
		host:    maintenance.NewHost(streaming, d, compose, cfg, out, logger),
		tui:     tui.NewTui(in, out, logger),
		in:      in,
		out:     out,
		logger:  logger,
	}
}

func (a *App) Close() error {
	return a.docker.Close()
}

// UpdateStacks runs the compose fleet updater.
func (a *App) UpdateStacks(ctx context.Context, opts StackOptions) (dto.UpdateReport, error) {
	var reporter fleet.Reporter = tui.NewConsoleReporter(a.tui)
	if opts.Quiet {
		reporter = fleet.NopReporter{}
	}

	updater := fleet.NewUpdater(a.docker, a.compose, reporter, a.logger)

	return updater.Run(ctx, a.selector(opts))
}

func (a *App) selector(opts StackOptions) fleet.Selector {
	switch {
	case opts.All || opts.Project != "":
		return fleet.StaticSelector{All: opts.All, Project: opts.Project}
	case opts.UseTUI && opts.Interactive:
		return tui.NewPickerSelector(a.in, a.out)
	default:
		if opts.UseTUI {
			a.logger.Warn("stdin is not a terminal, using line prompts")
		}
		return tui.NewProjectSelector(a.tui)
	}
}

// Preflight prints the host checks and reports whether all passed.
func (a *App) Preflight(ctx context.Context) bool {
	a.tui.Header("Preflight")

	passed := true
	for _, r := range a.host.Preflight(ctx) {
		if r.Passed {
			a.tui.Success("%-14s %s", r.Name, r.Details)
			continue
		}

		passed = false
		a.tui.Failure("%-14s %s", r.Name, r.Details)
	}

	return passed
}

// CheckReport returns an error when any project failed to update.
func CheckReport(report dto.UpdateReport) error {
	if report.Failed() > 0 {
		return fmt.Errorf("%d of %d projects failed to update", report.Failed(), len(report.Outcomes))
	}

	return nil
}
