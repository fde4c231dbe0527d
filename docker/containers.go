package docker

import (
	"context"
	"fmt"
	"log/slog"

	apiContainer "github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"

	"github.com/syrm/srvmaint/dto"
)

// DiscoverProjects returns one ManagedProject per distinct working directory
// among the running compose containers. An empty result is not an error.
func (d *Docker) DiscoverProjects(ctx context.Context) ([]dto.ManagedProject, error) {
	dockerContainers, err := d.client.ContainerList(ctx, apiContainer.ListOptions{
		Filters: filters.NewArgs(
			filters.Arg("label", LabelWorkingDir),
			filters.Arg("status", string(apiContainer.StateRunning)),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRuntimeUnavailable, err)
	}

	containers := make([]dto.Container, 0, len(dockerContainers))
	for _, dockerContainer := range dockerContainers {
		c, isProject := NewContainer(dockerContainer)
		if !isProject {
			d.logger.DebugContext(ctx, "skipping container", slog.String("container_id", dockerContainer.ID))
			continue
		}

		containers = append(containers, c)
	}

	projects := groupProjects(containers)

	d.logger.InfoContext(ctx, "projects discovered",
		slog.Int("containers", len(dockerContainers)),
		slog.Int("projects", len(projects)),
	)

	return projects, nil
}
