package maintenance

import (
	"context"

	"github.com/syrm/srvmaint/system"
)

const tailscaleInstallScript = "curl -fsSL https://tailscale.com/install.sh | sh"

// SetupTailscale installs Tailscale if needed and brings the node up. Without
// an auth key, tailscale prints a login URL and waits for it.
func (h *Host) SetupTailscale(ctx context.Context, authKey string) error {
	var cmds []system.Command
	if h.installed("tailscale") {
		h.say("tailscale is already installed")
	} else {
		cmds = append(cmds, system.NewCommand("sh", "-c", tailscaleInstallScript))
	}

	cmds = append(cmds, systemctl("enable", "--now", "tailscaled"))

	up := system.NewCommand("tailscale", "up")
	if authKey != "" {
		up.Args = append(up.Args, "--auth-key="+authKey)
		up.Sensitive = true
	}
	cmds = append(cmds, up)

	return h.runSteps(ctx, "setup tailscale", cmds...)
}
