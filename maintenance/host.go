// Package maintenance holds the linear server maintenance actions: package
// updates, users and keys, Docker/Dockge, cleanup and Tailscale. Each action
// is a fixed sequence of external commands run through a system.Runner.
package maintenance

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/user"

	"github.com/syrm/srvmaint/config"
	"github.com/syrm/srvmaint/docker"
	"github.com/syrm/srvmaint/dto"
	"github.com/syrm/srvmaint/system"
)

// Engine is the Docker daemon access the actions need.
type Engine interface {
	Ping(ctx context.Context) error
	Prune(ctx context.Context) (docker.PruneReport, error)
}

// Composer runs compose in a project directory.
type Composer interface {
	Command() string
	Locate(ctx context.Context, project dto.ManagedProject) error
	Pull(ctx context.Context, project dto.ManagedProject) error
	Recreate(ctx context.Context, project dto.ManagedProject) error
	Up(ctx context.Context, project dto.ManagedProject) error
}

type Host struct {
	runner  system.Runner
	engine  Engine
	compose Composer
	config  config.Config
	out     io.Writer
	logger  *slog.Logger

	lookupUser func(name string) (*user.User, error)
	chown      func(path string, uid, gid int) error
	geteuid    func() int
}

func NewHost(runner system.Runner, engine Engine, compose Composer, cfg config.Config, out io.Writer, logger *slog.Logger) *Host {
	return &Host{
		runner:     runner,
		engine:     engine,
		compose:    compose,
		config:     cfg,
		out:        out,
		logger:     logger,
		lookupUser: user.Lookup,
		chown:      os.Chown,
		geteuid:    os.Geteuid,
	}
}

func (h *Host) say(format string, args ...any) {
	fmt.Fprintf(h.out, format+"\n", args...)
}

// runSteps runs cmds in order and stops at the first failure.
func (h *Host) runSteps(ctx context.Context, action string, cmds ...system.Command) error {
	for i, cmd := range cmds {
		h.logger.InfoContext(ctx, "maintenance step",
			slog.String("action", action),
			slog.Int("step", i+1),
			slog.String("command", cmd.String()),
		)

		if _, err := h.runner.Run(ctx, cmd); err != nil {
			return fmt.Errorf("%s: %w", action, err)
		}
	}

	return nil
}

func (h *Host) writeFile(ctx context.Context, path string, content []byte, perm os.FileMode) error {
	if h.config.DryRun {
		h.say("[dry-run] write %s", path)
		return nil
	}

	h.logger.InfoContext(ctx, "writing file", slog.String("path", path))

	return os.WriteFile(path, content, perm)
}

func (h *Host) mkdirAll(ctx context.Context, dir string) error {
	if h.config.DryRun {
		h.say("[dry-run] mkdir -p %s", dir)
		return nil
	}

	h.logger.InfoContext(ctx, "creating directory", slog.String("path", dir))

	return os.MkdirAll(dir, 0o755)
}

func (h *Host) installed(name string) bool {
	_, err := h.runner.LookPath(name)
	return err == nil
}

func systemctl(args ...string) system.Command {
	return system.NewCommand("systemctl", args...)
}
