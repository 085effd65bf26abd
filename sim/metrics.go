// Tracks simulation-wide traffic metrics such as spawns, exits and collisions.

package sim

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// Metrics aggregates statistics about the simulation
// for final reporting.
type Metrics struct {
	Cycles       int64 // completed cycles
	Spawned      int   // vehicles that entered the highway
	Exited       int   // vehicles that reached the end
	Collisions   int   // collision events (each wrecks two vehicles)
	WrecksReaped int   // wrecked vehicles cleared from the road
	Blocked      int   // avoided collisions that ended behind the obstruction
	LaneChanges  int   // committed lane changes
	PeakVehicles int   // max vehicles on the highway at the end of a cycle

	ExitsByDirection map[string]int // direction -> exits
}

// MetricsOutput is the JSON form of Metrics written at the end of a run.
type MetricsOutput struct {
	Highway            string         `json:"highway"`
	Cycles             int64          `json:"cycles"`
	Spawned            int            `json:"spawned"`
	Exited             int            `json:"exited"`
	Collisions         int            `json:"collisions"`
	WrecksReaped       int            `json:"wrecks_reaped"`
	Blocked            int            `json:"blocked"`
	LaneChanges        int            `json:"lane_changes"`
	PeakVehicles       int            `json:"peak_vehicles"`
	ExitsByDirection   map[string]int `json:"exits_by_direction"`
	ThroughputPerCycle float64        `json:"throughput_per_cycle"`
	WallTimeS          float64        `json:"simulation_duration_s"`
}

// NewMetrics creates an empty Metrics.
func NewMetrics() *Metrics {
	return &Metrics{ExitsByDirection: make(map[string]int)}
}

// recordPool folds one pool's cycle into the totals.
func (m *Metrics) recordPool(dir Direction, spawned int, out Outcome, reaped int) {
	m.Spawned += spawned
	m.Exited += len(out.Exited)
	m.Collisions += len(out.Collisions)
	m.Blocked += len(out.Blocked)
	m.LaneChanges += len(out.LaneChanges)
	m.WrecksReaped += reaped
	if len(out.Exited) > 0 {
		m.ExitsByDirection[dir.String()] += len(out.Exited)
	}
}

// Output converts the metrics to their JSON form.
func (m *Metrics) Output(highway string, startTime time.Time) MetricsOutput {
	out := MetricsOutput{
		Highway:          highway,
		Cycles:           m.Cycles,
		Spawned:          m.Spawned,
		Exited:           m.Exited,
		Collisions:       m.Collisions,
		WrecksReaped:     m.WrecksReaped,
		Blocked:          m.Blocked,
		LaneChanges:      m.LaneChanges,
		PeakVehicles:     m.PeakVehicles,
		ExitsByDirection: m.ExitsByDirection,
		WallTimeS:        time.Since(startTime).Seconds(),
	}
	if m.Cycles > 0 {
		out.ThroughputPerCycle = float64(m.Exited) / float64(m.Cycles)
	}
	return out
}

// SaveResults prints the metrics JSON to stdout and, when outputPath is
// non-empty, also writes it to that file.
func (m *Metrics) SaveResults(highway string, startTime time.Time, outputPath string) {
	data, err := json.MarshalIndent(m.Output(highway, startTime), "", "  ")
	if err != nil {
		logrus.Errorf("Error marshalling metrics: %v", err)
		return
	}
	fmt.Println("=== Simulation Metrics ===")
	fmt.Println(string(data))

	if outputPath == "" {
		return
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		logrus.Errorf("Error writing metrics file %s: %v", outputPath, err)
		return
	}
	logrus.Infof("Metrics written to: %s", outputPath)
}
