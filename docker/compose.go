package docker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/syrm/srvmaint/dto"
	"github.com/syrm/srvmaint/system"
)

const (
	ComposePlugin     = "docker compose"
	ComposeStandalone = "docker-compose"
)

// StepError is a per-project failure. It matches the sentinel for its step
// with errors.Is and keeps the tool's output as the diagnostic.
type StepError struct {
	Step   dto.Step
	Dir    string
	Output string
	Err    error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Step, e.Dir, e.Err)
}

func (e *StepError) Unwrap() []error {
	return []error{stepSentinel(e.Step), e.Err}
}

func stepSentinel(step dto.Step) error {
	switch step {
	case dto.StepLocate:
		return ErrProjectNotFound
	case dto.StepPull:
		return ErrPullFailed
	default:
		return ErrRecreateFailed
	}
}

// Compose runs compose CLI commands inside a project's working directory.
type Compose struct {
	runner  system.Runner
	command string
	logger  *slog.Logger
}

func NewCompose(runner system.Runner, command string, logger *slog.Logger) *Compose {
	if command == "" {
		command = ComposePlugin
	}

	return &Compose{
		runner:  runner,
		command: command,
		logger:  logger,
	}
}

// ResolveCommand falls back to docker-compose when the compose plugin is
// configured but not installed.
func (c *Compose) ResolveCommand(ctx context.Context) string {
	if c.command != ComposePlugin {
		return c.command
	}

	if _, err := c.runner.Run(ctx, system.ParseCommand(c.command, "version")); err != nil {
		c.logger.InfoContext(ctx, "compose plugin unavailable, falling back", slog.String("command", ComposeStandalone), slog.Any("error", err))
		c.command = ComposeStandalone
	}

	return c.command
}

func (c *Compose) Command() string {
	return c.command
}

func (c *Compose) composeCommand(project dto.ManagedProject, args ...string) system.Command {
	var argv []string
	if project.ComposeName != "" {
		argv = append(argv, "-p", project.ComposeName)
	}
	for _, file := range project.ConfigFiles {
		argv = append(argv, "-f", file)
	}
	argv = append(argv, args...)

	return system.ParseCommand(c.command, argv...).InDir(project.WorkingDirectory)
}

func (c *Compose) Locate(ctx context.Context, project dto.ManagedProject) error {
	services, err := Locate(project)
	if err != nil {
		c.logger.WarnContext(ctx, "project not found", slog.String("working_dir", project.WorkingDirectory), slog.Any("error", err))
		return err
	}

	c.logger.DebugContext(ctx, "project located", slog.String("working_dir", project.WorkingDirectory), slog.Any("services", services))

	return nil
}

// Pull fetches the latest images of every declared service.
func (c *Compose) Pull(ctx context.Context, project dto.ManagedProject) error {
	return c.run(ctx, dto.StepPull, project, "pull")
}

// Recreate recreates the project's containers and removes containers of
// services no longer declared. Volumes and networks are left alone.
func (c *Compose) Recreate(ctx context.Context, project dto.ManagedProject) error {
	return c.run(ctx, dto.StepRecreate, project, "up", "-d", "--remove-orphans")
}

// Up starts the project without removing orphans.
func (c *Compose) Up(ctx context.Context, project dto.ManagedProject) error {
	return c.run(ctx, dto.StepRecreate, project, "up", "-d")
}

func (c *Compose) run(ctx context.Context, step dto.Step, project dto.ManagedProject, args ...string) error {
	cmd := c.composeCommand(project, args...)

	c.logger.InfoContext(ctx, "compose",
		slog.String("step", string(step)),
		slog.String("working_dir", project.WorkingDirectory),
		slog.String("command", cmd.String()),
	)

	output, err := c.runner.Run(ctx, cmd)
	if err != nil {
		var cmdErr *system.CommandError
		if errors.As(err, &cmdErr) && output == "" {
			output = cmdErr.Output
		}

		return &StepError{Step: step, Dir: project.WorkingDirectory, Output: output, Err: err}
	}

	return nil
}
