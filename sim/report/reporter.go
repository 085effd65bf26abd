// Package report holds the collaborators that consume cycle snapshots: the
// terminal visualizer, the rotating file exporter, the RPC reporter and the
// storage sinks. None of them can influence the simulation; a Dispatcher fans
// each snapshot out to them and contains their failures.
package report

import (
	"context"

	"github.com/highway-sim/highway-sim/sim"
)

// Reporter consumes the snapshot of a completed cycle.
type Reporter interface {
	// Name identifies the reporter in logs.
	Name() string
	// Report handles one snapshot. Errors are logged by the caller and never
	// stop the simulation.
	Report(ctx context.Context, snap *sim.Snapshot) error
}
