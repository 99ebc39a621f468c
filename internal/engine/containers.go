package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/errdefs"
)

// DefaultReadinessWait is the pause applied after any container was created
// or started, giving the datastore processes time to accept connections.
const DefaultReadinessWait = 5 * time.Second

// Config holds the container orchestration settings.
type Config struct {
	Logger *slog.Logger
	// Network is the bridge network shared by the datastore containers.
	Network string
	// ReadinessWait is how long to pause after starting any container.
	// Zero means no pause.
	ReadinessWait time.Duration
}

// ContainerSpec describes one desired datastore container.
type ContainerSpec struct {
	// Name is the container name, also used to detect existing instances.
	Name string
	// Image is the image reference passed to docker run.
	Image string
	// Env holds KEY=value pairs passed with -e.
	Env []string
	// Ports holds host:container mappings passed with -p.
	Ports []string
	// Volumes holds name:path mounts passed with -v.
	Volumes []string
	// Cmd holds arguments appended after the image, e.g. --requirepass.
	Cmd []string
}

// RunArgs returns the docker run arguments for the spec, excluding the
// leading "run" subcommand.
func (s ContainerSpec) RunArgs(networkName string) []string {
	args := []string{"-d", "--name", s.Name}
	if networkName != "" {
		args = append(args, "--network", networkName)
	}
	for _, e := range s.Env {
		args = append(args, "-e", e)
	}
	for _, p := range s.Ports {
		args = append(args, "-p", p)
	}
	for _, v := range s.Volumes {
		args = append(args, "-v", v)
	}
	args = append(args, s.Image)
	args = append(args, s.Cmd...)
	return args
}

// Orchestrator reconciles a desired set of datastore containers against the
// local Docker daemon.
type Orchestrator struct {
	logger *slog.Logger
	cfg    *Config
}

// NewOrchestrator creates an Orchestrator from the given configuration.
func NewOrchestrator(cfg *Config) (*Orchestrator, error) {
	if cfg == nil {
		return nil, errors.New("engine config cannot be nil")
	}
	if cfg.Logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.Network == "" {
		return nil, errors.New("network name cannot be empty")
	}
	return &Orchestrator{logger: cfg.Logger, cfg: cfg}, nil
}

// EnsureRunning brings every container in specs up: running containers are
// left alone, stopped ones are started, and missing ones are created with
// docker run. Engine absence is not fatal; the method logs a warning and
// returns, assuming the datastores are reachable by other means. Individual
// command failures are logged but not retried.
func (o *Orchestrator) EnsureRunning(ctx context.Context, specs []ContainerSpec) {
	cli, err := NewClient()
	if err != nil {
		o.logger.Warn("docker not available, assuming datastores are already running", "error", err)
		return
	}
	defer cli.Close()

	if err := cli.Ping(ctx); err != nil {
		o.logger.Warn("docker not available, assuming datastores are already running", "error", err)
		return
	}

	o.ensureNetwork(ctx, cli)

	existing, err := o.existingContainers(ctx, cli, specs)
	if err != nil {
		o.logger.Warn("failed to list containers", "error", err)
		existing = map[string]types.Container{}
	}

	started := false
	for _, spec := range specs {
		c, ok := existing[spec.Name]
		switch {
		case ok && c.State == "running":
			o.logger.Info("container already running", "container", spec.Name)
		case ok:
			o.logger.Info("starting existing container", "container", spec.Name, "state", c.State)
			if err := cli.Inner().ContainerStart(ctx, c.ID, container.StartOptions{}); err != nil {
				o.logger.Error("failed to start container", "container", spec.Name, "error", err)
				continue
			}
			started = true
		default:
			o.logger.Info("creating container", "container", spec.Name, "image", spec.Image)
			if err := o.runContainer(ctx, spec); err != nil {
				o.logger.Error("failed to create container", "container", spec.Name, "error", err)
				continue
			}
			started = true
		}
	}

	if started && o.cfg.ReadinessWait > 0 {
		o.logger.Info("waiting for datastores to become ready", "wait", o.cfg.ReadinessWait.String())
		select {
		case <-ctx.Done():
		case <-time.After(o.cfg.ReadinessWait):
		}
	}
}

// ensureNetwork creates the shared bridge network, tolerating the case
// where it already exists.
func (o *Orchestrator) ensureNetwork(ctx context.Context, cli *Client) {
	_, err := cli.Inner().NetworkCreate(ctx, o.cfg.Network, network.CreateOptions{
		Driver: "bridge",
	})
	switch {
	case err == nil:
		o.logger.Info("created docker network", "network", o.cfg.Network)
	case errdefs.IsConflict(err):
		o.logger.Debug("docker network already exists", "network", o.cfg.Network)
	default:
		o.logger.Warn("failed to create docker network", "network", o.cfg.Network, "error", err)
	}
}

// existingContainers returns the containers matching the spec names,
// including stopped ones, keyed by exact container name.
func (o *Orchestrator) existingContainers(ctx context.Context, cli *Client, specs []ContainerSpec) (map[string]types.Container, error) {
	filterArgs := filters.NewArgs()
	for _, s := range specs {
		filterArgs.Add("name", s.Name)
	}

	containers, err := cli.Inner().ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filterArgs,
	})
	if err != nil {
		return nil, err
	}

	// The name filter matches substrings, so key the result map by the
	// exact name with the API's leading slash stripped.
	existing := make(map[string]types.Container, len(containers))
	for _, c := range containers {
		for _, n := range c.Names {
			existing[strings.TrimPrefix(n, "/")] = c
		}
	}
	return existing, nil
}

// runContainer creates a container with docker run. The CLI is used here
// instead of the SDK's ContainerCreate so that image pulling, port
// publishing and volume creation behave exactly as they do when operators
// run the same command by hand.
func (o *Orchestrator) runContainer(ctx context.Context, spec ContainerSpec) error {
	args := append([]string{"run"}, spec.RunArgs(o.cfg.Network)...)
	cmd := exec.CommandContext(ctx, "docker", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if msg := strings.TrimSpace(string(output)); msg != "" {
			return fmt.Errorf("docker run: %s", msg)
		}
		return fmt.Errorf("docker run: %w", err)
	}
	return nil
}
