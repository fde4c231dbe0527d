package dto

type ContainerID string

// Container is the part of a running container the fleet updater cares about.
type Container struct {
	ID          ContainerID
	Name        string
	Service     string
	ProjectDir  string
	ComposeName string
	ConfigFiles []string
	OneOff      bool
}
