// sim/simulator.go
package sim

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/highway-sim/highway-sim/sim/trace"
)

// Observer receives the snapshot of every completed cycle. Observers run
// between cycles and cannot affect the simulation.
type Observer interface {
	Observe(ctx context.Context, snap *Snapshot)
}

// poolStreams are the RNG streams owned by one direction pool.
type poolStreams struct {
	spawn  *rand.Rand
	motion *rand.Rand
}

// poolCycle is what happened to one pool during one cycle.
type poolCycle struct {
	spawned []*Vehicle
	outcome Outcome
	reaped  []*Vehicle
}

// Simulator is the cycle driver: it owns the highway, its two pools and the
// cycle counter, and runs the fixed per-cycle sequence spawn, move, reap.
type Simulator struct {
	config  Config
	highway *Highway
	cycle   int64
	rng     *PartitionedRNG
	streams map[Direction]poolStreams
	now     func() time.Time
	last    *Snapshot

	Metrics *Metrics
	// Trace is nil unless tracing was enabled.
	Trace *trace.SimulationTrace
}

// Option customises a Simulator.
type Option func(*Simulator)

// WithTrace enables event tracing at the given level.
func WithTrace(cfg trace.TraceConfig) Option {
	return func(s *Simulator) {
		if cfg.Level != "" && cfg.Level != trace.TraceLevelNone {
			s.Trace = trace.NewSimulationTrace(cfg)
		}
	}
}

// WithClock overrides the wall clock used to timestamp snapshots.
func WithClock(now func() time.Time) Option {
	return func(s *Simulator) {
		s.now = now
	}
}

// NewSimulator validates the configuration and creates a simulator over an
// empty highway. All randomness derives from seed.
func NewSimulator(cfg Config, seed int64, opts ...Option) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Simulator{
		config:  cfg,
		highway: NewHighway(cfg.Highway),
		rng:     NewPartitionedRNG(NewSimulationKey(seed)),
		streams: make(map[Direction]poolStreams, len(Directions)),
		now:     time.Now,
		Metrics: NewMetrics(),
	}
	// Streams are resolved here so that Step never touches the
	// PartitionedRNG map from more than one goroutine.
	for _, dir := range Directions {
		s.streams[dir] = poolStreams{
			spawn:  s.rng.ForSubsystem(SubsystemFor(SubsystemSpawn, dir)),
			motion: s.rng.ForSubsystem(SubsystemFor(SubsystemMotion, dir)),
		}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Cycle returns the number of completed cycles, which is also the number of
// the next cycle to run.
func (s *Simulator) Cycle() int64 {
	return s.cycle
}

// Config returns the configuration the simulator was built with.
func (s *Simulator) Config() Config {
	return s.config
}

// Snapshot returns the snapshot of the last completed cycle, or nil before
// the first one.
func (s *Simulator) Snapshot() *Snapshot {
	return s.last
}

// Step runs one full cycle and returns its snapshot. The two direction pools
// are processed concurrently; each only touches its own vehicles and streams.
// A cycle is atomic: it cannot be cancelled once started.
func (s *Simulator) Step() *Snapshot {
	cycle := s.cycle
	results := make([]poolCycle, len(Directions))

	var g errgroup.Group
	for i, dir := range Directions {
		i, dir := i, dir
		g.Go(func() error {
			results[i] = s.runPool(dir, cycle)
			return s.checkPool(s.highway.Pool(dir))
		})
	}
	if err := g.Wait(); err != nil {
		panic(fmt.Sprintf("[cycle %07d] invariant violated: %v", cycle, err))
	}

	for i, dir := range Directions {
		r := results[i]
		s.Metrics.recordPool(dir, len(r.spawned), r.outcome, len(r.reaped))
		s.recordTrace(dir, cycle, r)
	}
	s.Metrics.Cycles++
	s.Metrics.PeakVehicles = max(s.Metrics.PeakVehicles, s.highway.Len())

	s.last = newSnapshot(cycle, s.now(), s.highway)
	logrus.Debugf("[cycle %07d] vehicles=%d incoming=%d outgoing=%d",
		cycle, s.highway.Len(), s.highway.Incoming.Len(), s.highway.Outgoing.Len())

	s.cycle++
	return s.last
}

func (s *Simulator) runPool(dir Direction, cycle int64) poolCycle {
	pool := s.highway.Pool(dir)
	streams := s.streams[dir]
	p := s.config.Params

	var r poolCycle
	r.spawned = Spawn(pool, s.config.Highway.Lanes, p, streams.spawn)
	r.outcome = Advance(pool, s.config.Highway, p, cycle, streams.motion)
	r.reaped = Reap(pool, cycle, p.CollisionDuration)
	return r
}

// checkPool verifies the state invariants of a pool after a cycle.
func (s *Simulator) checkPool(pool *Pool) error {
	p := s.config.Params
	h := s.config.Highway
	for _, v := range pool.vehicles {
		if v.Lane < 0 || v.Lane >= h.Lanes {
			return fmt.Errorf("%s vehicle %s in lane %d outside [0, %d)", pool.Direction(), v.ID, v.Lane, h.Lanes)
		}
		if v.Distance < 0 || v.Distance >= h.Size {
			return fmt.Errorf("%s vehicle %s at distance %d outside [0, %d)", pool.Direction(), v.ID, v.Distance, h.Size)
		}
		if v.Collided() {
			if v.Speed != 0 || v.Acceleration != 0 {
				return fmt.Errorf("%s wreck %s has speed %d acceleration %d", pool.Direction(), v.ID, v.Speed, v.Acceleration)
			}
			continue
		}
		if v.Speed < p.MinSpeed || v.Speed > p.MaxSpeed {
			return fmt.Errorf("%s vehicle %s speed %d outside [%d, %d]", pool.Direction(), v.ID, v.Speed, p.MinSpeed, p.MaxSpeed)
		}
		if v.Acceleration < p.MinAcceleration || v.Acceleration > p.MaxAcceleration {
			return fmt.Errorf("%s vehicle %s acceleration %d outside [%d, %d]", pool.Direction(), v.ID, v.Acceleration, p.MinAcceleration, p.MaxAcceleration)
		}
	}
	return nil
}

func (s *Simulator) recordTrace(dir Direction, cycle int64, r poolCycle) {
	if s.Trace == nil {
		return
	}
	d := dir.String()
	for _, v := range r.spawned {
		s.Trace.RecordSpawn(trace.SpawnRecord{VehicleID: v.ID, Direction: d, Cycle: cycle, Lane: v.Lane, Speed: v.Speed})
	}
	for _, lc := range r.outcome.LaneChanges {
		s.Trace.RecordLaneChange(trace.LaneChangeRecord{
			VehicleID: lc.Vehicle.ID, Direction: d, Cycle: cycle,
			FromLane: lc.From, ToLane: lc.To, Distance: lc.Vehicle.Distance,
		})
	}
	for _, c := range r.outcome.Collisions {
		s.Trace.RecordCollision(trace.CollisionRecord{
			StrikerID: c.Striker.ID, StruckID: c.Struck.ID, Direction: d, Cycle: cycle,
			Lane: c.Struck.Lane, Distance: c.Struck.Distance,
		})
	}
	for _, v := range r.outcome.Blocked {
		s.Trace.RecordBlocked(trace.BlockedRecord{
			VehicleID: v.ID, Direction: d, Cycle: cycle, Lane: v.Lane, Distance: v.Distance, Speed: v.Speed,
		})
	}
	for _, v := range r.outcome.Exited {
		s.Trace.RecordExit(trace.ExitRecord{VehicleID: v.ID, Direction: d, Cycle: cycle, Lane: v.Lane})
	}
	for _, v := range r.reaped {
		s.Trace.RecordReap(trace.ReapRecord{VehicleID: v.ID, Direction: d, Cycle: cycle, CollisionCycle: *v.CollisionCycle})
	}
}

// Run steps the simulation until horizon cycles have completed (0 means no
// limit) or ctx is cancelled. Cancellation is only observed between cycles.
// Each snapshot is handed to obs (may be nil) before pacing.
func (s *Simulator) Run(ctx context.Context, horizon int64, obs Observer) {
	pacing := s.config.Params.CycleDuration
	logrus.Infof("[cycle %07d] Simulation started on %q (%d lanes, size %d)",
		s.cycle, s.config.Highway.Name, s.config.Highway.Lanes, s.config.Highway.Size)
	for horizon <= 0 || s.cycle < horizon {
		if ctx.Err() != nil {
			break
		}
		snap := s.Step()
		if obs != nil {
			obs.Observe(ctx, snap)
		}
		if pacing <= 0 {
			continue
		}
		timer := time.NewTimer(pacing)
		select {
		case <-ctx.Done():
			timer.Stop()
		case <-timer.C:
		}
	}
	logrus.Infof("[cycle %07d] Simulation ended", s.cycle)
}
