package report

import (
	"fmt"
	"time"

	"github.com/highway-sim/highway-sim/sim"
)

var fixtureTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// fixtureSnapshot is a two-lane highway of size 6 at cycle 7 with a pair of
// vehicles sharing a cell, a wreck and ten vehicles crowding one cell.
func fixtureSnapshot() *sim.Snapshot {
	snap := &sim.Snapshot{
		Cycle:     7,
		Timestamp: fixtureTime,
		Highway:   sim.HighwayInfo{Name: "BR-101", Lanes: 2, Size: 6, SpeedLimit: 2},
		Vehicles: []sim.VehicleRecord{
			{ID: "a", Direction: sim.Incoming, Lane: 0, Distance: 1, Speed: 1},
			{ID: "b", Direction: sim.Incoming, Lane: 0, Distance: 1, Speed: 3},
			{ID: "c", Direction: sim.Incoming, Lane: 1, Distance: 4, Collided: true, CollisionCycle: 5},
			{ID: "d", Direction: sim.Outgoing, Lane: 1, Distance: 0, Speed: 2},
		},
	}
	for i := 0; i < 10; i++ {
		snap.Vehicles = append(snap.Vehicles, sim.VehicleRecord{
			ID: fmt.Sprintf("p%d", i), Direction: sim.Outgoing, Lane: 0, Distance: 5, Speed: 1,
		})
	}
	return snap
}

// atCycle returns a copy of the fixture stamped with another cycle.
func atCycle(cycle int64) *sim.Snapshot {
	snap := fixtureSnapshot()
	snap.Cycle = cycle
	snap.Timestamp = fixtureTime.Add(time.Duration(cycle) * time.Second)
	return snap
}
