package out

import "time"

// Metrics records scheduler and proxy telemetry.
type Metrics interface {
	ObserveColdStart(container string, d time.Duration, err error)
	IncContainerStop(container, reason string)
	SetRunning(container string, running bool)
	IncForward(mode, route string, status int)
	IncRejected(reason string)
}
