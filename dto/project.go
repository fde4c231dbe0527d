package dto

import "path/filepath"

// ManagedProject is a compose project known to the container runtime, keyed by
// its working directory.
type ManagedProject struct {
	WorkingDirectory  string   `json:"working_dir"`
	Name              string   `json:"name"`
	ComposeName       string   `json:"compose_name,omitempty"`
	ConfigFiles       []string `json:"config_files,omitempty"`
	Services          []string `json:"services,omitempty"`
	ContainersRunning int      `json:"containers_running"`
}

// NormalizeDir cleans a working directory so that "/opt/stacks/app/" and
// "/opt/stacks/app" are the same project.
func NormalizeDir(dir string) string {
	if dir == "" {
		return ""
	}

	return filepath.Clean(dir)
}

func NewManagedProject(workingDirectory string) ManagedProject {
	dir := NormalizeDir(workingDirectory)

	return ManagedProject{
		WorkingDirectory: dir,
		Name:             filepath.Base(dir),
	}
}
