package docker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/docker/docker/api/types"
	apiContainer "github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	dockerClient "github.com/docker/docker/client"

	cliconfig "github.com/docker/cli/cli/config"
	ddocker "github.com/docker/cli/cli/context/docker"
	ctxstore "github.com/docker/cli/cli/context/store"
)

const (
	LabelWorkingDir  = "com.docker.compose.project.working_dir"
	LabelProject     = "com.docker.compose.project"
	LabelConfigFiles = "com.docker.compose.project.config_files"
	LabelService     = "com.docker.compose.service"
	LabelOneOff      = "com.docker.compose.oneoff"
)

var (
	ErrRuntimeUnavailable = errors.New("container runtime unavailable")
	ErrProjectNotFound    = errors.New("project not found")
	ErrPullFailed         = errors.New("pull failed")
	ErrRecreateFailed     = errors.New("recreate failed")
)

// Runtime is the part of the Engine API used here. *client.Client satisfies it.
type Runtime interface {
	ContainerList(ctx context.Context, options apiContainer.ListOptions) ([]apiContainer.Summary, error)
	Ping(ctx context.Context) (types.Ping, error)
	ContainersPrune(ctx context.Context, pruneFilters filters.Args) (apiContainer.PruneReport, error)
	ImagesPrune(ctx context.Context, pruneFilters filters.Args) (image.PruneReport, error)
	NetworksPrune(ctx context.Context, pruneFilters filters.Args) (network.PruneReport, error)
	Close() error
}

type Docker struct {
	client Runtime
	logger *slog.Logger
}

func NewDocker(client Runtime, logger *slog.Logger) *Docker {
	return &Docker{
		client: client,
		logger: logger,
	}
}

// NewClient connects to host, or to the host resolved from the environment
// and the docker CLI context when host is empty.
func NewClient(ctx context.Context, host string, logger *slog.Logger) (*dockerClient.Client, error) {
	if host == "" {
		resolved, err := determineDockerHost()
		if err != nil {
			logger.WarnContext(ctx, "could not determine docker host, using default", slog.Any("error", err))
			resolved = dockerClient.DefaultDockerHost
		}
		host = resolved
	}

	logger.DebugContext(ctx, "docker host", slog.String("host", host))

	cli, err := dockerClient.NewClientWithOpts(
		dockerClient.WithTLSClientConfigFromEnv(),
		dockerClient.WithAPIVersionNegotiation(),
		dockerClient.WithHost(host),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRuntimeUnavailable, err)
	}

	return cli, nil
}

func (d *Docker) Ping(ctx context.Context) error {
	ping, err := d.client.Ping(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRuntimeUnavailable, err)
	}

	d.logger.DebugContext(ctx, "docker ping", slog.String("api_version", ping.APIVersion), slog.String("os_type", ping.OSType))

	return nil
}

func (d *Docker) Close() error {
	return d.client.Close()
}

// determineDockerHost resolves the docker host in decreasing precedence:
//   - the DOCKER_HOST environment variable
//   - the host of the current context (DOCKER_CONTEXT or the CLI config)
//   - the default host for the operating system
func determineDockerHost() (string, error) {
	if host := os.Getenv(dockerClient.EnvOverrideHost); host != "" {
		return host, nil
	}

	currentContext := os.Getenv("DOCKER_CONTEXT")
	if currentContext == "" {
		cf, err := cliconfig.Load(cliconfig.Dir())
		if err != nil {
			return "", err
		}
		currentContext = cf.CurrentContext
	}

	if currentContext == "" || currentContext == "default" {
		return dockerClient.DefaultDockerHost, nil
	}

	storeConfig := ctxstore.NewConfig(
		func() interface{} { return &ddocker.EndpointMeta{} },
		ctxstore.EndpointTypeGetter(ddocker.DockerEndpoint, func() interface{} { return &ddocker.EndpointMeta{} }),
	)

	st := ctxstore.New(cliconfig.ContextStoreDir(), storeConfig)
	md, err := st.GetMetadata(currentContext)
	if err != nil {
		return "", err
	}

	dockerEP, ok := md.Endpoints[ddocker.DockerEndpoint]
	if !ok {
		return dockerClient.DefaultDockerHost, nil
	}

	dockerEPMeta, ok := dockerEP.(ddocker.EndpointMeta)
	if !ok {
		return "", fmt.Errorf("expected docker.EndpointMeta, got %T", dockerEP)
	}

	if dockerEPMeta.Host != "" {
		return dockerEPMeta.Host, nil
	}

	return dockerClient.DefaultDockerHost, nil
}
