package trace

// TraceLevel controls the verbosity of event tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelEvents captures collisions, blocked vehicles, exits and reaps.
	TraceLevelEvents TraceLevel = "events"
	// TraceLevelAll additionally captures spawns and lane changes.
	TraceLevelAll TraceLevel = "all"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:   true,
	TraceLevelEvents: true,
	TraceLevelAll:    true,
	"":               true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// SimulationTrace collects event records during a simulation run.
type SimulationTrace struct {
	Config      TraceConfig
	Spawns      []SpawnRecord
	LaneChanges []LaneChangeRecord
	Collisions  []CollisionRecord
	Blocked     []BlockedRecord
	Exits       []ExitRecord
	Reaps       []ReapRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config:      config,
		Spawns:      make([]SpawnRecord, 0),
		LaneChanges: make([]LaneChangeRecord, 0),
		Collisions:  make([]CollisionRecord, 0),
		Blocked:     make([]BlockedRecord, 0),
		Exits:       make([]ExitRecord, 0),
		Reaps:       make([]ReapRecord, 0),
	}
}

// Detailed reports whether spawns and lane changes are recorded.
func (st *SimulationTrace) Detailed() bool {
	return st.Config.Level == TraceLevelAll
}

// RecordSpawn appends a spawn record when the level is "all".
func (st *SimulationTrace) RecordSpawn(record SpawnRecord) {
	if st.Detailed() {
		st.Spawns = append(st.Spawns, record)
	}
}

// RecordLaneChange appends a lane change record when the level is "all".
func (st *SimulationTrace) RecordLaneChange(record LaneChangeRecord) {
	if st.Detailed() {
		st.LaneChanges = append(st.LaneChanges, record)
	}
}

// RecordCollision appends a collision record.
func (st *SimulationTrace) RecordCollision(record CollisionRecord) {
	st.Collisions = append(st.Collisions, record)
}

// RecordBlocked appends a blocked record.
func (st *SimulationTrace) RecordBlocked(record BlockedRecord) {
	st.Blocked = append(st.Blocked, record)
}

// RecordExit appends an exit record.
func (st *SimulationTrace) RecordExit(record ExitRecord) {
	st.Exits = append(st.Exits, record)
}

// RecordReap appends a reap record.
func (st *SimulationTrace) RecordReap(record ReapRecord) {
	st.Reaps = append(st.Reaps, record)
}
