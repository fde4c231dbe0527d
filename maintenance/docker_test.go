package maintenance

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syrm/srvmaint/docker"
)

func TestInstallDocker(t *testing.T) {
	th := newTestHost(t)

	require.NoError(t, th.InstallDocker(context.Background()))

	assert.Equal(t, []string{
		"apt-get update",
		"apt-get install -y ca-certificates curl",
		"sh -c " + dockerInstallScript,
		"systemctl enable --now docker",
	}, th.runner.Lines())
}

func TestInstallDockerSkipsWhenPresent(t *testing.T) {
	th := newTestHost(t)
	th.runner.Paths["docker"] = "/usr/bin/docker"

	require.NoError(t, th.InstallDocker(context.Background()))
	assert.Empty(t, th.runner.Commands())
	assert.Contains(t, th.out.String(), "already installed")
}

func TestInstallDockge(t *testing.T) {
	th := newTestHost(t)

	require.NoError(t, th.InstallDockge(context.Background()))

	assert.DirExists(t, th.config.StacksDir)
	assert.DirExists(t, th.config.DockgeDir)
	assert.Equal(t, []string{
		"curl -fsSL " + th.config.DockgeComposeURL + " -o " + filepath.Join(th.config.DockgeDir, "compose.yaml"),
	}, th.runner.Lines())
	assert.Equal(t, []string{"up " + th.config.DockgeDir}, th.composer.calls)
}

func TestUpdateDockge(t *testing.T) {
	th := newTestHost(t)

	require.NoError(t, th.UpdateDockge(context.Background()))

	dir := th.config.DockgeDir
	assert.Equal(t, []string{"locate " + dir, "pull " + dir, "recreate " + dir}, th.composer.calls)
}

func TestUpdateDockgeNotInstalled(t *testing.T) {
	th := newTestHost(t)
	th.composer.locateErr = &docker.StepError{Step: "locate", Dir: th.config.DockgeDir, Err: os.ErrNotExist}

	err := th.UpdateDockge(context.Background())
	require.ErrorIs(t, err, docker.ErrProjectNotFound)
	assert.Equal(t, []string{"locate " + th.config.DockgeDir}, th.composer.calls)
}

func TestCleanup(t *testing.T) {
	th := newTestHost(t)
	th.engine.report = docker.PruneReport{ContainersDeleted: 3, SpaceReclaimed: 1 << 20}

	report, err := th.Cleanup(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, report.ContainersDeleted)
	assert.Equal(t, 1, th.engine.pruned)
	assert.Contains(t, th.out.String(), "3 containers")
}

func TestCleanupDryRun(t *testing.T) {
	th := newTestHost(t)
	th.config.DryRun = true

	_, err := th.Cleanup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, th.engine.pruned)
}
