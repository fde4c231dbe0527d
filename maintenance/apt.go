package maintenance

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/syrm/srvmaint/system"
)

const autoUpgradesFile = "20auto-upgrades"

const autoUpgradesContent = `APT::Periodic::Update-Package-Lists "1";
APT::Periodic::Unattended-Upgrade "1";
`

func aptGet(args ...string) system.Command {
	return system.NewCommand("apt-get", args...).WithEnv("DEBIAN_FRONTEND=noninteractive")
}

// UpdateOS refreshes the package lists, upgrades and removes unused packages.
func (h *Host) UpdateOS(ctx context.Context) error {
	return h.runSteps(ctx, "update os",
		aptGet("update"),
		aptGet("-y", "upgrade"),
		aptGet("-y", "autoremove"),
	)
}

func (h *Host) ConfigureUnattendedUpgrades(ctx context.Context) error {
	if err := h.runSteps(ctx, "install unattended-upgrades",
		aptGet("update"),
		aptGet("install", "-y", "unattended-upgrades"),
	); err != nil {
		return err
	}

	path := filepath.Join(h.config.AptConfDir, autoUpgradesFile)
	if err := h.writeFile(ctx, path, []byte(autoUpgradesContent), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return h.runSteps(ctx, "enable unattended-upgrades",
		systemctl("enable", "unattended-upgrades"),
		systemctl("restart", "unattended-upgrades"),
	)
}
