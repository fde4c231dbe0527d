package docker

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/docker/docker/api/types"
	apiContainer "github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
)

type fakeRuntime struct {
	containers []apiContainer.Summary
	listErr    error
	pingErr    error
	listOpts   []apiContainer.ListOptions

	containersPrune apiContainer.PruneReport
	imagesPrune     image.PruneReport
	networksPrune   network.PruneReport
	imageFilters    filters.Args
	closed          bool
}

func (f *fakeRuntime) ContainerList(_ context.Context, options apiContainer.ListOptions) ([]apiContainer.Summary, error) {
	f.listOpts = append(f.listOpts, options)
	return f.containers, f.listErr
}

func (f *fakeRuntime) Ping(context.Context) (types.Ping, error) {
	return types.Ping{APIVersion: "1.47"}, f.pingErr
}

func (f *fakeRuntime) ContainersPrune(context.Context, filters.Args) (apiContainer.PruneReport, error) {
	return f.containersPrune, nil
}

func (f *fakeRuntime) ImagesPrune(_ context.Context, pruneFilters filters.Args) (image.PruneReport, error) {
	f.imageFilters = pruneFilters
	return f.imagesPrune, nil
}

func (f *fakeRuntime) NetworksPrune(context.Context, filters.Args) (network.PruneReport, error) {
	return f.networksPrune, nil
}

func (f *fakeRuntime) Close() error {
	f.closed = true
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func composeContainer(id, dir, service string) apiContainer.Summary {
	return apiContainer.Summary{
		ID:    id,
		Names: []string{"/" + id},
		State: apiContainer.StateRunning,
		Labels: map[string]string{
			LabelWorkingDir: dir,
			LabelService:    service,
			LabelProject:    "proj-" + service,
		},
	}
}

var errDaemonDown = errors.New("Cannot connect to the Docker daemon at unix:///var/run/docker.sock")
