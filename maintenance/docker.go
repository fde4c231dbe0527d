package maintenance

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/syrm/srvmaint/docker"
	"github.com/syrm/srvmaint/dto"
	"github.com/syrm/srvmaint/system"
)

const dockerInstallScript = "curl -fsSL https://get.docker.com | sh"

// InstallDocker installs Docker Engine with the upstream convenience script.
func (h *Host) InstallDocker(ctx context.Context) error {
	if h.installed("docker") {
		h.say("docker is already installed")
		return nil
	}

	return h.runSteps(ctx, "install docker",
		aptGet("update"),
		aptGet("install", "-y", "ca-certificates", "curl"),
		system.NewCommand("sh", "-c", dockerInstallScript),
		systemctl("enable", "--now", "docker"),
	)
}

func (h *Host) dockgeProject() dto.ManagedProject {
	return dto.NewManagedProject(h.config.DockgeDir)
}

// InstallDockge fetches Dockge's compose file and starts it.
func (h *Host) InstallDockge(ctx context.Context) error {
	for _, dir := range []string{h.config.StacksDir, h.config.DockgeDir} {
		if err := h.mkdirAll(ctx, dir); err != nil {
			return fmt.Errorf("install dockge: %w", err)
		}
	}

	composePath := filepath.Join(h.config.DockgeDir, "compose.yaml")
	if err := h.runSteps(ctx, "download dockge",
		system.NewCommand("curl", "-fsSL", h.config.DockgeComposeURL, "-o", composePath),
	); err != nil {
		return err
	}

	if err := h.compose.Up(ctx, h.dockgeProject()); err != nil {
		return fmt.Errorf("start dockge: %w", err)
	}

	return nil
}

// UpdateDockge pulls the latest Dockge image and recreates it.
func (h *Host) UpdateDockge(ctx context.Context) error {
	project := h.dockgeProject()

	if !h.config.DryRun {
		if err := h.compose.Locate(ctx, project); err != nil {
			return fmt.Errorf("dockge is not installed in %s: %w", project.WorkingDirectory, err)
		}
	}

	if err := h.compose.Pull(ctx, project); err != nil {
		return err
	}

	return h.compose.Recreate(ctx, project)
}

// Cleanup prunes stopped containers, unused images and unused networks.
func (h *Host) Cleanup(ctx context.Context) (docker.PruneReport, error) {
	if h.config.DryRun {
		h.say("[dry-run] prune stopped containers, unused images and networks")
		return docker.PruneReport{}, nil
	}

	report, err := h.engine.Prune(ctx)
	if err != nil {
		return report, fmt.Errorf("cleanup: %w", err)
	}

	h.logger.InfoContext(ctx, "cleanup done", slog.String("report", report.String()))
	h.say("%s", report)

	return report, nil
}
