package domain

import "errors"

// Domain errors represent business-level errors that can occur in the system.
// Adapters translate them into transport-level responses.
var (
	// Routing errors
	ErrRouteNotFound = errors.New("route not found")
	ErrUnknownModel  = errors.New("unknown model")
	ErrInvalidRoute  = errors.New("invalid route configuration")

	// Container errors
	ErrContainerListFailed  = errors.New("failed to list running containers")
	ErrContainerStopFailed  = errors.New("failed to stop container")
	ErrContainerStartFailed = errors.New("failed to start container")
	ErrBackendUnhealthy     = errors.New("backend did not become healthy")

	// Request body errors
	ErrBodyTooLarge    = errors.New("request body too large")
	ErrBodyTimeout     = errors.New("timed out reading request body")
	ErrRequestAborted  = errors.New("client aborted request")
	ErrBodyReadFailed  = errors.New("failed to read request body")
	ErrInvalidJSON     = errors.New("request body is not valid JSON")
	ErrMissingModel    = errors.New("request body has no string model field")
	ErrForwardFailed   = errors.New("failed to forward request to backend")
	ErrInvalidConfig   = errors.New("invalid configuration")
	ErrLockUnavailable = errors.New("exclusive lock not acquired")
)

// IsContainerOperationError reports whether err came from a container runtime call.
func IsContainerOperationError(err error) bool {
	return errors.Is(err, ErrContainerListFailed) ||
		errors.Is(err, ErrContainerStopFailed) ||
		errors.Is(err, ErrContainerStartFailed)
}
