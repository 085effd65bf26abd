// Package sim provides the core cellular-automaton engine of the highway
// simulator.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - vehicle.go, pool.go: Vehicle state and the per-direction pool that owns it
//   - motion.go: the front-to-back motion and collision pass (the heart of the model)
//   - simulator.go: the cycle driver (spawn → move → reap → snapshot)
//
// # Cycle
//
// Every cycle runs the same fixed sequence on each direction pool:
//   - Spawn: at most one new vehicle per lane, guarded by entrance clearance
//   - Advance: vehicles sorted front-most first; each reacts to the already-moved
//     vehicles ahead of it (local speed estimate, acceleration, lane change,
//     collision probe and resolution, exit)
//   - Reap: wrecks older than the collision duration are cleared
//
// The incoming and outgoing pools never interact, so the driver processes them
// concurrently, each with its own RNG streams derived from one seed
// (see rng.go). Within a pool the pass is strictly sequential.
//
// # Outputs
//
// After each cycle the driver builds an immutable Snapshot and hands it to an
// Observer. Sub-packages consume it:
//   - sim/report/: terminal visualizer, file exporter, RPC and storage sinks
//   - sim/trace/: event trace recording and summary
package sim
