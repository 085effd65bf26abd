package sim

import (
	"math/rand"
	"time"
)

// fixedParams returns parameters under which motion is fully predictable:
// acceleration is pinned to 0, no lane changes, no spawns, certain collisions.
func fixedParams() SimulationParams {
	return SimulationParams{
		NewVehicleProbability: 0,
		ChangeLaneProbability: 0,
		CollisionProbability:  1,
		CollisionDuration:     3,
		MinSpeed:              0,
		MaxSpeed:              5,
		MinAcceleration:       0,
		MaxAcceleration:       0,
	}
}

// busyConfig returns a dense, collision-prone configuration for property tests.
func busyConfig() Config {
	return Config{
		Highway: NewHighwayConfig("test", 3, 60, 2),
		Params: SimulationParams{
			NewVehicleProbability: 0.5,
			ChangeLaneProbability: 0.2,
			CollisionProbability:  0.3,
			CollisionDuration:     4,
			MinSpeed:              0,
			MaxSpeed:              3,
			MinAcceleration:       -1,
			MaxAcceleration:       1,
		},
	}
}

func testRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// fixedClock returns a clock that always reports the same instant.
func fixedClock() func() time.Time {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time { return t0 }
}

func vehicleAt(id string, lane, distance, speed int) *Vehicle {
	return &Vehicle{ID: id, Lane: lane, Distance: distance, Speed: speed}
}

func wreckAt(id string, lane, distance int, cycle int64) *Vehicle {
	v := vehicleAt(id, lane, distance, 0)
	v.Collide(cycle)
	return v
}

func poolOf(dir Direction, vs ...*Vehicle) *Pool {
	p := NewPool(dir)
	for _, v := range vs {
		p.Add(v)
	}
	return p
}
