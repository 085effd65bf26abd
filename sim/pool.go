package sim

import (
	"math/rand"

	"github.com/samber/lo"
)

// Vehicle ids are 7-character plates over [0-9a-zA-Z]. The first character
// of a plate is drawn from a half of the alphabet owned by the pool's
// direction, so the two pools never issue the same plate.
const (
	plateLength   = 7
	plateAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// Pool holds the vehicles travelling in one direction. Pools never share
// vehicles, and nothing outside the owning Simulator mutates them.
type Pool struct {
	direction Direction
	vehicles  []*Vehicle
	issued    map[string]struct{} // every id ever added; ids are never reused
}

// NewPool creates an empty pool for a direction.
func NewPool(dir Direction) *Pool {
	return &Pool{direction: dir, vehicles: make([]*Vehicle, 0), issued: make(map[string]struct{})}
}

// Direction returns the direction tag of the pool.
func (p *Pool) Direction() Direction {
	return p.direction
}

// Len returns the number of vehicles in the pool.
func (p *Pool) Len() int {
	return len(p.vehicles)
}

// Vehicles returns a copy of the pool's vehicle slice in insertion order.
// The vehicles themselves are shared.
func (p *Pool) Vehicles() []*Vehicle {
	out := make([]*Vehicle, len(p.vehicles))
	copy(out, p.vehicles)
	return out
}

// Add inserts a vehicle into the pool.
func (p *Pool) Add(v *Vehicle) {
	p.issued[v.ID] = struct{}{}
	p.vehicles = append(p.vehicles, v)
}

// EntranceBlocked reports whether any vehicle occupies the lane within
// one cell of the entrance.
func (p *Pool) EntranceBlocked(lane int) bool {
	return lo.ContainsBy(p.vehicles, func(v *Vehicle) bool {
		return v.Lane == lane && v.Distance <= 1
	})
}

// Retain keeps only the vehicles for which keep returns true and returns the
// removed ones. Used as the post-pass filter; never call it mid-scan.
func (p *Pool) Retain(keep func(v *Vehicle) bool) []*Vehicle {
	kept, removed := lo.FilterReject(p.vehicles, func(v *Vehicle, _ int) bool {
		return keep(v)
	})
	p.vehicles = kept
	return removed
}

// newVehicleID draws a plate from rng that this pool has never issued.
// Ids replay with the seed.
func (p *Pool) newVehicleID(rng *rand.Rand) string {
	lead := plateAlphabet[:len(plateAlphabet)/2]
	if p.direction == Outgoing {
		lead = plateAlphabet[len(plateAlphabet)/2:]
	}
	plate := make([]byte, plateLength)
	for {
		plate[0] = lead[rng.Intn(len(lead))]
		for i := 1; i < plateLength; i++ {
			plate[i] = plateAlphabet[rng.Intn(len(plateAlphabet))]
		}
		id := string(plate)
		if _, taken := p.issued[id]; !taken {
			return id
		}
	}
}
