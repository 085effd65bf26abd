package sim

// Direction tags the pool a vehicle travels in.
type Direction int

const (
	Incoming Direction = iota
	Outgoing
)

// Directions lists both directions in processing order.
var Directions = []Direction{Incoming, Outgoing}

func (d Direction) String() string {
	switch d {
	case Incoming:
		return "incoming"
	case Outgoing:
		return "outgoing"
	default:
		return "unknown"
	}
}

// Vehicle is one car on the highway. It is owned by exactly one Pool.
type Vehicle struct {
	ID           string
	Lane         int
	Distance     int
	Speed        int
	Acceleration int
	// CollisionCycle is set iff the vehicle has collided and not been reaped.
	// A wreck at cycle 0 is still a wreck.
	CollisionCycle *int64
}

// Collided reports whether the vehicle is a wreck.
func (v *Vehicle) Collided() bool {
	return v.CollisionCycle != nil
}

// Collide freezes the vehicle as a wreck at the given cycle.
func (v *Vehicle) Collide(cycle int64) {
	c := cycle
	v.CollisionCycle = &c
	v.Speed = 0
	v.Acceleration = 0
}

func clamp(x, lo, hi int) int {
	return max(lo, min(x, hi))
}
