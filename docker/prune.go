package docker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/docker/docker/api/types/filters"
	"github.com/docker/go-units"
)

type PruneReport struct {
	ContainersDeleted int
	ImagesDeleted     int
	NetworksDeleted   int
	SpaceReclaimed    uint64
}

func (r PruneReport) String() string {
	return fmt.Sprintf("%d containers, %d images, %d networks removed, %s reclaimed",
		r.ContainersDeleted,
		r.ImagesDeleted,
		r.NetworksDeleted,
		units.HumanSize(float64(r.SpaceReclaimed)),
	)
}

// Prune removes stopped containers, unused images and unused networks.
// Volumes are never pruned.
func (d *Docker) Prune(ctx context.Context) (PruneReport, error) {
	var report PruneReport

	containers, err := d.client.ContainersPrune(ctx, filters.NewArgs())
	if err != nil {
		return report, fmt.Errorf("prune containers: %w", err)
	}
	report.ContainersDeleted = len(containers.ContainersDeleted)
	report.SpaceReclaimed += containers.SpaceReclaimed

	images, err := d.client.ImagesPrune(ctx, filters.NewArgs(filters.Arg("dangling", "false")))
	if err != nil {
		return report, fmt.Errorf("prune images: %w", err)
	}
	report.ImagesDeleted = len(images.ImagesDeleted)
	report.SpaceReclaimed += images.SpaceReclaimed

	networks, err := d.client.NetworksPrune(ctx, filters.NewArgs())
	if err != nil {
		return report, fmt.Errorf("prune networks: %w", err)
	}
	report.NetworksDeleted = len(networks.NetworksDeleted)

	d.logger.InfoContext(ctx, "prune done",
		slog.Int("containers", report.ContainersDeleted),
		slog.Int("images", report.ImagesDeleted),
		slog.Int("networks", report.NetworksDeleted),
		slog.Uint64("space_reclaimed", report.SpaceReclaimed),
	)

	return report, nil
}
