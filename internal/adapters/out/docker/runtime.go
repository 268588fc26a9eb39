// Package docker implements the container runtime adapter using Docker API.
package docker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/zerowrap"
	cerrdefs "github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"

	"github.com/johnmschoonover/multi-llm-hosting/internal/boundaries/out"
)

// Ensure Runtime implements out.ContainerRuntime.
var _ out.ContainerRuntime = (*Runtime)(nil)

// DefaultStopTimeout is how long Docker waits for a backend to exit before killing it.
const DefaultStopTimeout = 30 * time.Second

// Runtime implements the ContainerRuntime interface using Docker API.
type Runtime struct {
	client      *client.Client
	stopTimeout time.Duration
}

// NewRuntime creates a new Docker runtime instance from the environment
// (DOCKER_HOST and friends).
func NewRuntime(stopTimeout time.Duration) (*Runtime, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create Docker client: %w", err)
	}

	return NewRuntimeWithClient(cli, stopTimeout), nil
}

// NewRuntimeWithClient creates a new Docker runtime instance with a custom client (for testing).
func NewRuntimeWithClient(cli *client.Client, stopTimeout time.Duration) *Runtime {
	if stopTimeout <= 0 {
		stopTimeout = DefaultStopTimeout
	}
	return &Runtime{
		client:      cli,
		stopTimeout: stopTimeout,
	}
}

// Close releases the underlying client.
func (r *Runtime) Close() error {
	return r.client.Close()
}

// ListRunning returns the names of running containers.
func (r *Runtime) ListRunning(ctx context.Context) ([]string, error) {
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:   "adapter",
		zerowrap.FieldAdapter: "docker",
		zerowrap.FieldAction:  "ListRunning",
	})
	log := zerowrap.FromCtx(ctx)

	containers, err := r.client.ContainerList(ctx, container.ListOptions{
		Filters: filters.NewArgs(filters.Arg("status", "running")),
	})
	if err != nil {
		return nil, log.WrapErr(err, "failed to list containers")
	}

	var names []string
	for _, c := range containers {
		for _, n := range c.Names {
			n = strings.TrimPrefix(n, "/")
			// Legacy link aliases look like "other/alias".
			if n == "" || strings.Contains(n, "/") {
				continue
			}
			names = append(names, n)
		}
	}

	log.Debug().Strs("running", names).Msg("listed running containers")
	return names, nil
}

// StartContainer starts a container by name.
func (r *Runtime) StartContainer(ctx context.Context, name string) error {
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:    "adapter",
		zerowrap.FieldAdapter:  "docker",
		zerowrap.FieldAction:   "StartContainer",
		zerowrap.FieldEntityID: name,
	})
	log := zerowrap.FromCtx(ctx)

	err := r.client.ContainerStart(ctx, name, container.StartOptions{})
	if err != nil {
		if cerrdefs.IsNotModified(err) {
			log.Debug().Msg("container already running")
			return nil
		}
		return log.WrapErr(err, "failed to start container")
	}

	log.Info().Msg("container started")
	return nil
}

// StopContainer stops a container by name. A container that is already
// stopped or no longer exists counts as stopped.
func (r *Runtime) StopContainer(ctx context.Context, name string) error {
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:    "adapter",
		zerowrap.FieldAdapter:  "docker",
		zerowrap.FieldAction:   "StopContainer",
		zerowrap.FieldEntityID: name,
	})
	log := zerowrap.FromCtx(ctx)

	timeout := int(r.stopTimeout.Seconds())
	err := r.client.ContainerStop(ctx, name, container.StopOptions{Timeout: &timeout})
	if err != nil {
		if cerrdefs.IsNotModified(err) {
			log.Debug().Msg("container already stopped")
			return nil
		}
		if cerrdefs.IsNotFound(err) {
			log.Warn().Msg("container not found, nothing to stop")
			return nil
		}
		return log.WrapErr(err, "failed to stop container")
	}

	log.Info().Msg("container stopped")
	return nil
}

// Ping checks if Docker is responsive.
func (r *Runtime) Ping(ctx context.Context) error {
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:   "adapter",
		zerowrap.FieldAdapter: "docker",
		zerowrap.FieldAction:  "Ping",
	})
	log := zerowrap.FromCtx(ctx)

	_, err := r.client.Ping(ctx)
	if err != nil {
		return log.WrapErr(err, "Docker ping failed")
	}
	return nil
}

// Version returns Docker version.
func (r *Runtime) Version(ctx context.Context) (string, error) {
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:   "adapter",
		zerowrap.FieldAdapter: "docker",
		zerowrap.FieldAction:  "Version",
	})
	log := zerowrap.FromCtx(ctx)

	version, err := r.client.ServerVersion(ctx)
	if err != nil {
		return "", log.WrapErr(err, "failed to get Docker version")
	}
	return version.Version, nil
}
