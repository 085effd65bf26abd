package sim

// Reap removes wrecks older than duration cycles and returns them. A vehicle
// wrecked at cycle c survives through c+duration and is removed at c+duration+1.
func Reap(pool *Pool, cycle, duration int64) []*Vehicle {
	return pool.Retain(func(v *Vehicle) bool {
		return !v.Collided() || cycle-*v.CollisionCycle <= duration
	})
}
