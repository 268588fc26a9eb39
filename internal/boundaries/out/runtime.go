// Package out defines output ports (interfaces) for infrastructure.
// These interfaces define the contract between use cases and driven adapters
// (Docker, HTTP probes, in-memory state, etc.).
package out

import (
	"context"
)

// ContainerRuntime defines the contract for the container operations the
// scheduler needs. Containers are addressed by name.
type ContainerRuntime interface {
	// ListRunning returns the names of all running containers.
	ListRunning(ctx context.Context) ([]string, error)

	// StartContainer starts a stopped container. Starting a running one is not an error.
	StartContainer(ctx context.Context, name string) error

	// StopContainer stops a running container. Stopping a stopped one is not an error.
	StopContainer(ctx context.Context, name string) error

	// Runtime information
	Ping(ctx context.Context) error
	Version(ctx context.Context) (string, error)
}
