package docker

import (
	"strings"

	apiContainer "github.com/docker/docker/api/types/container"
	"github.com/samber/lo"

	"github.com/syrm/srvmaint/dto"
)

// NewContainer maps a running, compose-managed container. The second return is
// false for containers that are not running or carry no working directory label.
func NewContainer(dockerContainer apiContainer.Summary) (dto.Container, bool) {
	if dockerContainer.State != apiContainer.StateRunning {
		return dto.Container{}, false
	}

	workingDir := dto.NormalizeDir(strings.TrimSpace(dockerContainer.Labels[LabelWorkingDir]))
	if workingDir == "" {
		return dto.Container{}, false
	}

	name := dockerContainer.ID
	if len(dockerContainer.Names) > 0 {
		name = strings.TrimLeft(dockerContainer.Names[0], "/")
	}

	return dto.Container{
		ID:          dto.ContainerID(dockerContainer.ID),
		Name:        name,
		Service:     dockerContainer.Labels[LabelService],
		ProjectDir:  workingDir,
		ComposeName: dockerContainer.Labels[LabelProject],
		ConfigFiles: splitConfigFiles(dockerContainer.Labels[LabelConfigFiles]),
		OneOff:      dockerContainer.Labels[LabelOneOff] == "True",
	}, true
}

func splitConfigFiles(label string) []string {
	files := lo.Map(strings.Split(label, ","), func(file string, _ int) string {
		return strings.TrimSpace(file)
	})

	return lo.Filter(files, func(file string, _ int) bool {
		return file != ""
	})
}
