package sim

import (
	"cmp"
	"math/rand"
	"slices"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"
)

// Acceleration deltas are drawn uniformly from these multisets. A vehicle
// running faster than the traffic ahead of it leans towards braking.
var (
	hotAccelerationDeltas  = []int{-1, -1, 0, 0, 1}
	calmAccelerationDeltas = []int{-1, 0, 0, 1}
	laneShifts             = []int{-1, 0, 1}
)

// Collision records two vehicles wrecked together in one cycle.
type Collision struct {
	Striker *Vehicle // the vehicle whose move caused the impact
	Struck  *Vehicle // the vehicle ahead it ran into
}

// LaneChange records a committed lane change.
type LaneChange struct {
	Vehicle *Vehicle
	From    int
	To      int
}

// Outcome summarises one Advance call on one pool.
type Outcome struct {
	Direction   Direction
	Moved       int        // vehicles that took a motion step
	Exited      []*Vehicle // vehicles that reached the end of the highway
	Collisions  []Collision
	Blocked     []*Vehicle // vehicles that avoided a collision but found no free lane
	LaneChanges []LaneChange
}

// motion carries the state of one front-to-back pass over a pool.
type motion struct {
	highway HighwayConfig
	params  SimulationParams
	cycle   int64
	rng     *rand.Rand

	// moved is the append-only buffer of vehicles already processed this
	// cycle, front-most first, holding their updated state.
	moved  []*Vehicle
	exited map[*Vehicle]bool
	out    *Outcome
}

// Advance moves every vehicle of the pool by one cycle.
//
// Vehicles are processed in order of distance, front-most first, over a
// snapshot of the pool taken before any move. Each vehicle reacts to where the
// vehicles ahead of it ended up this cycle, never to vehicles behind it.
// Wrecks are not moved but remain obstacles. Vehicles reaching the end of the
// highway are removed once the pass is complete.
//
// Advance touches only the given pool and draws only from rng.
func Advance(pool *Pool, highway HighwayConfig, params SimulationParams, cycle int64, rng *rand.Rand) Outcome {
	order := pool.Vehicles()
	slices.SortStableFunc(order, func(a, b *Vehicle) int {
		return cmp.Compare(b.Distance, a.Distance)
	})

	out := Outcome{Direction: pool.Direction()}
	m := &motion{
		highway: highway,
		params:  params,
		cycle:   cycle,
		rng:     rng,
		moved:   make([]*Vehicle, 0, len(order)),
		exited:  make(map[*Vehicle]bool),
		out:     &out,
	}
	for _, v := range order {
		if !v.Collided() {
			m.step(v)
			out.Moved++
		}
		m.moved = append(m.moved, v)
	}

	if len(m.exited) > 0 {
		pool.Retain(func(v *Vehicle) bool { return !m.exited[v] })
	}
	return out
}

func (m *motion) step(v *Vehicle) {
	deltas := calmAccelerationDeltas
	if float64(v.Speed) > m.localSpeed(v) {
		deltas = hotAccelerationDeltas
	}
	v.Acceleration = clamp(v.Acceleration+deltas[m.rng.Intn(len(deltas))],
		m.params.MinAcceleration, m.params.MaxAcceleration)
	v.Speed = clamp(v.Speed+v.Acceleration, m.params.MinSpeed, m.params.MaxSpeed)
	v.Distance += v.Speed

	// Leaving the highway takes precedence over anything in the way.
	if v.Distance >= m.highway.Size {
		m.exited[v] = true
		m.out.Exited = append(m.out.Exited, v)
		return
	}

	lane := v.Lane
	desired := lane
	if m.rng.Float64() < m.params.ChangeLaneProbability {
		desired = m.clampLane(lane + laneShifts[m.rng.Intn(len(laneShifts))])
	}

	if obstacle := m.probe(v.Distance, desired); obstacle != nil {
		if m.rng.Float64() < m.collisionChance(v.Speed) {
			v.Distance = obstacle.Distance
			v.Collide(m.cycle)
			obstacle.Collide(m.cycle)
			m.out.Collisions = append(m.out.Collisions, Collision{Striker: v, Struck: obstacle})
			return
		}

		candidates := lo.Uniq([]int{
			m.clampLane(desired - 1),
			m.clampLane(desired),
			m.clampLane(desired + 1),
		})
		free := lo.Filter(candidates, func(l int, _ int) bool {
			return m.probe(v.Distance, l) == nil
		})
		if len(free) == 0 {
			// Follow the obstruction one cell behind it, staying in its lane.
			v.Distance = max(obstacle.Distance-1, 0)
			v.Speed = clamp(obstacle.Speed, m.params.MinSpeed, m.params.MaxSpeed)
			v.Acceleration = 0
			m.out.Blocked = append(m.out.Blocked, v)
			return
		}
		desired = free[m.rng.Intn(len(free))]
	}

	if desired != lane {
		m.out.LaneChanges = append(m.out.LaneChanges, LaneChange{Vehicle: v, From: lane, To: desired})
	}
	v.Lane = desired
}

// localSpeed is the inverse-square distance-weighted mean speed of v and the
// vehicles already processed ahead of it.
func (m *motion) localSpeed(v *Vehicle) float64 {
	speeds := make([]float64, 0, len(m.moved)+1)
	weights := make([]float64, 0, len(m.moved)+1)
	for _, o := range m.moved {
		gap := float64(o.Distance - v.Distance)
		speeds = append(speeds, float64(o.Speed))
		weights = append(weights, 1/(1+gap*gap))
	}
	speeds = append(speeds, float64(v.Speed))
	weights = append(weights, 1)
	return stat.Mean(speeds, weights)
}

// probe returns the nearest already-processed vehicle in lane that a vehicle
// at dist has reached or passed. Only vehicles still on the highway probe, so
// vehicles that exited (distance >= size) are never returned.
func (m *motion) probe(dist, lane int) *Vehicle {
	for j := len(m.moved) - 1; j >= 0; j-- {
		o := m.moved[j]
		if o.Lane == lane && o.Distance <= dist {
			return o
		}
	}
	return nil
}

// collisionChance grows with the square of the speed fraction.
func (m *motion) collisionChance(speed int) float64 {
	frac := float64(speed) / float64(m.params.MaxSpeed)
	return m.params.CollisionProbability * frac * frac
}

func (m *motion) clampLane(lane int) int {
	return clamp(lane, 0, m.highway.Lanes-1)
}
