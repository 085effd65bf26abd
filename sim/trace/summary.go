package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	Spawns           int
	LaneChanges      int
	Collisions       int
	Blocked          int
	Exits            int
	Reaps            int
	MeanWreckCycles  float64        // mean cycles between collision and reap
	CollisionsByLane map[int]int    // lane → collisions in that lane
	ExitsByDirection map[string]int // direction → exits
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		CollisionsByLane: make(map[int]int),
		ExitsByDirection: make(map[string]int),
	}
	if st == nil {
		return summary
	}

	summary.Spawns = len(st.Spawns)
	summary.LaneChanges = len(st.LaneChanges)
	summary.Collisions = len(st.Collisions)
	summary.Blocked = len(st.Blocked)
	summary.Exits = len(st.Exits)
	summary.Reaps = len(st.Reaps)

	for _, c := range st.Collisions {
		summary.CollisionsByLane[c.Lane]++
	}
	for _, e := range st.Exits {
		summary.ExitsByDirection[e.Direction]++
	}

	if len(st.Reaps) > 0 {
		var total int64
		for _, r := range st.Reaps {
			total += r.Cycle - r.CollisionCycle
		}
		summary.MeanWreckCycles = float64(total) / float64(len(st.Reaps))
	}

	return summary
}
