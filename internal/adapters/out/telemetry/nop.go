package telemetry

import (
	"time"

	"github.com/johnmschoonover/multi-llm-hosting/internal/boundaries/out"
)

// Nop discards every measurement.
type Nop struct{}

var _ out.Metrics = Nop{}

func (Nop) ObserveColdStart(string, time.Duration, error) {}
func (Nop) IncContainerStop(string, string)               {}
func (Nop) SetRunning(string, bool)                       {}
func (Nop) IncForward(string, string, int)                {}
func (Nop) IncRejected(string)                            {}
