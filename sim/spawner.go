package sim

import "math/rand"

// Spawn injects new vehicles at the entrance of every lane of the pool.
// A lane whose entrance is occupied (distance <= 1) is skipped without a draw;
// otherwise a vehicle appears with probability NewVehicleProbability, with a
// speed uniform in [MinSpeed, MaxSpeed] and zero acceleration.
// Returns the vehicles spawned this call.
func Spawn(pool *Pool, lanes int, params SimulationParams, rng *rand.Rand) []*Vehicle {
	var spawned []*Vehicle
	for lane := 0; lane < lanes; lane++ {
		if pool.EntranceBlocked(lane) {
			continue
		}
		if rng.Float64() >= params.NewVehicleProbability {
			continue
		}
		v := &Vehicle{
			ID:    pool.newVehicleID(rng),
			Lane:  lane,
			Speed: params.MinSpeed + rng.Intn(params.MaxSpeed-params.MinSpeed+1),
		}
		pool.Add(v)
		spawned = append(spawned, v)
	}
	return spawned
}
