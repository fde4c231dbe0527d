package maintenance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupTailscale(t *testing.T) {
	th := newTestHost(t)

	require.NoError(t, th.SetupTailscale(context.Background(), ""))

	assert.Equal(t, []string{
		"sh -c " + tailscaleInstallScript,
		"systemctl enable --now tailscaled",
		"tailscale up",
	}, th.runner.Lines())
}

func TestSetupTailscaleWithAuthKey(t *testing.T) {
	th := newTestHost(t)
	th.runner.Paths["tailscale"] = "/usr/bin/tailscale"

	require.NoError(t, th.SetupTailscale(context.Background(), "tskey-auth-secret"))

	cmds := th.runner.Commands()
	require.Len(t, cmds, 2)
	up := cmds[1]
	assert.Equal(t, []string{"up", "--auth-key=tskey-auth-secret"}, up.Args)
	assert.NotContains(t, up.String(), "tskey")
}
