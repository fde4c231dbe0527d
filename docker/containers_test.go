package docker

import (
	"context"
	"testing"

	apiContainer "github.com/docker/docker/api/types/container"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syrm/srvmaint/dto"
)

func TestDiscoverProjectsCollapsesContainersOfTheSameProject(t *testing.T) {
	runtime := &fakeRuntime{containers: []apiContainer.Summary{
		composeContainer("app1-web", "/opt/stacks/app1", "web"),
		composeContainer("app1-db", "/opt/stacks/app1", "db"),
		composeContainer("app2-web", "/opt/stacks/app2", "web"),
	}}

	projects, err := NewDocker(runtime, discardLogger()).DiscoverProjects(context.Background())
	require.NoError(t, err)

	require.Len(t, projects, 2)
	assert.Equal(t, "app1", projects[0].Name)
	assert.Equal(t, "/opt/stacks/app1", projects[0].WorkingDirectory)
	assert.Equal(t, 2, projects[0].ContainersRunning)
	assert.Equal(t, []string{"db", "web"}, projects[0].Services)
	assert.Equal(t, "app2", projects[1].Name)
	assert.Equal(t, 1, projects[1].ContainersRunning)
}

func TestDiscoverProjectsExcludesUnmanagedContainers(t *testing.T) {
	tests := []struct {
		name   string
		labels map[string]string
		state  apiContainer.ContainerState
	}{
		{"no labels", nil, apiContainer.StateRunning},
		{"project label only", map[string]string{LabelProject: "app"}, apiContainer.StateRunning},
		{"empty working dir", map[string]string{LabelWorkingDir: "  "}, apiContainer.StateRunning},
		{"not running", map[string]string{LabelWorkingDir: "/opt/stacks/app"}, apiContainer.StateExited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runtime := &fakeRuntime{containers: []apiContainer.Summary{
				{ID: "c1", Names: []string{"/c1"}, State: tt.state, Labels: tt.labels},
			}}

			projects, err := NewDocker(runtime, discardLogger()).DiscoverProjects(context.Background())
			require.NoError(t, err)
			assert.Empty(t, projects)
		})
	}
}

func TestDiscoverProjectsNormalizesWorkingDirectories(t *testing.T) {
	runtime := &fakeRuntime{containers: []apiContainer.Summary{
		composeContainer("a", "/opt/stacks/app1/", "web"),
		composeContainer("b", "/opt/stacks/app1", "db"),
		composeContainer("c", "/opt/stacks/./app1", "cache"),
	}}

	projects, err := NewDocker(runtime, discardLogger()).DiscoverProjects(context.Background())
	require.NoError(t, err)

	require.Len(t, projects, 1)
	assert.Equal(t, "/opt/stacks/app1", projects[0].WorkingDirectory)
	assert.Equal(t, 3, projects[0].ContainersRunning)
}

func TestDiscoverProjectsKeepsSameNameInDifferentDirectories(t *testing.T) {
	runtime := &fakeRuntime{containers: []apiContainer.Summary{
		composeContainer("b", "/srv/b/app", "web"),
		composeContainer("a", "/srv/a/app", "web"),
	}}

	projects, err := NewDocker(runtime, discardLogger()).DiscoverProjects(context.Background())
	require.NoError(t, err)

	require.Len(t, projects, 2)
	assert.Equal(t, "/srv/a/app", projects[0].WorkingDirectory)
	assert.Equal(t, "/srv/b/app", projects[1].WorkingDirectory)
}

func TestDiscoverProjectsKeepsComposeMetadata(t *testing.T) {
	c := composeContainer("a", "/opt/stacks/app1", "web")
	c.Labels[LabelProject] = "custom"
	c.Labels[LabelConfigFiles] = "/opt/stacks/app1/compose.yaml, /opt/stacks/app1/compose.prod.yaml"
	runtime := &fakeRuntime{containers: []apiContainer.Summary{c}}

	projects, err := NewDocker(runtime, discardLogger()).DiscoverProjects(context.Background())
	require.NoError(t, err)

	require.Len(t, projects, 1)
	assert.Equal(t, "custom", projects[0].ComposeName)
	assert.Equal(t, []string{"/opt/stacks/app1/compose.yaml", "/opt/stacks/app1/compose.prod.yaml"}, projects[0].ConfigFiles)
}

func TestDiscoverProjectsFiltersOnTheDaemon(t *testing.T) {
	runtime := &fakeRuntime{}

	_, err := NewDocker(runtime, discardLogger()).DiscoverProjects(context.Background())
	require.NoError(t, err)

	require.Len(t, runtime.listOpts, 1)
	assert.True(t, runtime.listOpts[0].Filters.ExactMatch("status", "running"))
	assert.Equal(t, []string{LabelWorkingDir}, runtime.listOpts[0].Filters.Get("label"))
}

func TestDiscoverProjectsEmpty(t *testing.T) {
	projects, err := NewDocker(&fakeRuntime{}, discardLogger()).DiscoverProjects(context.Background())
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestDiscoverProjectsRuntimeUnavailable(t *testing.T) {
	runtime := &fakeRuntime{listErr: errDaemonDown}

	projects, err := NewDocker(runtime, discardLogger()).DiscoverProjects(context.Background())
	require.ErrorIs(t, err, ErrRuntimeUnavailable)
	require.ErrorIs(t, err, errDaemonDown)
	assert.Nil(t, projects)
}

func TestPing(t *testing.T) {
	d := NewDocker(&fakeRuntime{}, discardLogger())
	require.NoError(t, d.Ping(context.Background()))

	d = NewDocker(&fakeRuntime{pingErr: errDaemonDown}, discardLogger())
	require.ErrorIs(t, d.Ping(context.Background()), ErrRuntimeUnavailable)
}

func TestNewManagedProjectName(t *testing.T) {
	p := dto.NewManagedProject("/opt/stacks/app2/")
	assert.Equal(t, "app2", p.Name)
	assert.Equal(t, "/opt/stacks/app2", p.WorkingDirectory)
}
