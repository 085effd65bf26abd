package sim

import (
	"time"

	"github.com/samber/lo"
)

// HighwayInfo is the static description of the highway carried in snapshots.
type HighwayInfo struct {
	Name       string
	Lanes      int
	Size       int
	SpeedLimit int
}

// VehicleRecord is a copy of one vehicle's state at the end of a cycle.
type VehicleRecord struct {
	ID        string
	Direction Direction
	Lane      int
	Distance  int
	Speed     int
	Collided  bool
	// CollisionCycle is meaningful only when Collided is true.
	CollisionCycle int64
}

// Snapshot is the immutable view of the highway after a completed cycle.
// It shares no memory with the simulator.
type Snapshot struct {
	Cycle     int64
	Timestamp time.Time
	Highway   HighwayInfo
	Vehicles  []VehicleRecord // incoming first, then outgoing
}

// CycleStats counts vehicles in a snapshot.
type CycleStats struct {
	Vehicles        int
	Moving          int
	Collisions      int // wrecked vehicles still on the road
	AboveSpeedLimit int
	Incoming        int
	Outgoing        int
}

func newSnapshot(cycle int64, ts time.Time, h *Highway) *Snapshot {
	snap := &Snapshot{
		Cycle:     cycle,
		Timestamp: ts,
		Highway: HighwayInfo{
			Name:       h.Name,
			Lanes:      h.Lanes,
			Size:       h.Size,
			SpeedLimit: h.SpeedLimit,
		},
		Vehicles: make([]VehicleRecord, 0, h.Len()),
	}
	for _, dir := range Directions {
		for _, v := range h.Pool(dir).vehicles {
			rec := VehicleRecord{
				ID:        v.ID,
				Direction: dir,
				Lane:      v.Lane,
				Distance:  v.Distance,
				Speed:     v.Speed,
				Collided:  v.Collided(),
			}
			if rec.Collided {
				rec.CollisionCycle = *v.CollisionCycle
			}
			snap.Vehicles = append(snap.Vehicles, rec)
		}
	}
	return snap
}

// Stats counts the vehicles of the snapshot.
func (s *Snapshot) Stats() CycleStats {
	collided := lo.CountBy(s.Vehicles, func(v VehicleRecord) bool { return v.Collided })
	incoming := lo.CountBy(s.Vehicles, func(v VehicleRecord) bool { return v.Direction == Incoming })
	return CycleStats{
		Vehicles:   len(s.Vehicles),
		Moving:     len(s.Vehicles) - collided,
		Collisions: collided,
		AboveSpeedLimit: lo.CountBy(s.Vehicles, func(v VehicleRecord) bool {
			return !v.Collided && v.Speed > s.Highway.SpeedLimit
		}),
		Incoming: incoming,
		Outgoing: len(s.Vehicles) - incoming,
	}
}

// Occupancy returns, for one direction, the number of vehicles in every
// lane/cell, indexed [lane][distance].
func (s *Snapshot) Occupancy(dir Direction) [][]int {
	grid := make([][]int, s.Highway.Lanes)
	for lane := range grid {
		grid[lane] = make([]int, s.Highway.Size)
	}
	for _, v := range s.Vehicles {
		if v.Direction != dir || v.Lane < 0 || v.Lane >= s.Highway.Lanes ||
			v.Distance < 0 || v.Distance >= s.Highway.Size {
			continue
		}
		grid[v.Lane][v.Distance]++
	}
	return grid
}
