// Package trace provides per-cycle event recording for post-run analysis.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// SpawnRecord captures a vehicle entering the highway.
type SpawnRecord struct {
	VehicleID string
	Direction string
	Cycle     int64
	Lane      int
	Speed     int
}

// LaneChangeRecord captures a committed lane change.
type LaneChangeRecord struct {
	VehicleID string
	Direction string
	Cycle     int64
	FromLane  int
	ToLane    int
	Distance  int
}

// CollisionRecord captures two vehicles wrecked together.
type CollisionRecord struct {
	StrikerID string
	StruckID  string
	Direction string
	Cycle     int64
	Lane      int
	Distance  int
}

// BlockedRecord captures a vehicle that avoided a collision but found no
// free lane and fell in behind the obstruction.
type BlockedRecord struct {
	VehicleID string
	Direction string
	Cycle     int64
	Lane      int
	Distance  int
	Speed     int
}

// ExitRecord captures a vehicle leaving at the end of the highway.
type ExitRecord struct {
	VehicleID string
	Direction string
	Cycle     int64
	Lane      int
}

// ReapRecord captures a wreck being cleared.
type ReapRecord struct {
	VehicleID      string
	Direction      string
	Cycle          int64
	CollisionCycle int64
}
