package report

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/highway-sim/highway-sim/sim"
)

var (
	exportHeader = regexp.MustCompile(`^\d+ \d+\.\d{6} \d+ \d+ \d+$`)
	// a 7-character plate and one separator, then single-digit direction and lane
	exportRow = regexp.MustCompile(`^[0-9a-zA-Z]{7} [01] \d \d+$`)
)

func TestNewFileExporter_RejectsBadArguments(t *testing.T) {
	_, err := NewFileExporter(t.TempDir(), 0, 5)
	assert.Error(t, err)
	_, err = NewFileExporter(t.TempDir(), 1, 0)
	assert.Error(t, err)
}

func TestFileExporter_WritesDataThenMarker(t *testing.T) {
	dir := t.TempDir()
	e, err := NewFileExporter(dir, 1, DefaultExportFiles)
	require.NoError(t, err)

	require.NoError(t, e.Report(context.Background(), fixtureSnapshot()))

	data, err := os.ReadFile(filepath.Join(dir, "0.csv"))
	require.NoError(t, err)
	want := "7 1704067200.000000 2 6 2\n" +
		"a 0 0 1\n" +
		"b 0 0 1\n" +
		"c 0 1 4\n" +
		"d 1 1 0\n" +
		"p0 1 0 5\np1 1 0 5\np2 1 0 5\np3 1 0 5\np4 1 0 5\n" +
		"p5 1 0 5\np6 1 0 5\np7 1 0 5\np8 1 0 5\np9 1 0 5\n"
	assert.Equal(t, want, string(data))

	marker, err := os.Stat(filepath.Join(dir, "0.tmp"))
	require.NoError(t, err)
	assert.Zero(t, marker.Size())
}

func TestFileExporter_RotationAndBackpressure(t *testing.T) {
	// GIVEN an exporter writing every 2 cycles into 2 slots
	dir := t.TempDir()
	e, err := NewFileExporter(dir, 2, 2)
	require.NoError(t, err)
	ctx := context.Background()
	firstLine := func(slot string) string {
		data, err := os.ReadFile(filepath.Join(dir, slot+".csv"))
		require.NoError(t, err)
		line, _, _ := strings.Cut(string(data), "\n")
		return line
	}

	// WHEN cycles 0..4 are reported
	for c := int64(0); c <= 4; c++ {
		require.NoError(t, e.Report(ctx, atCycle(c)))
	}

	// THEN cycles 0 and 2 filled both slots; cycle 4 found slot 0 unconsumed
	assert.Equal(t, "0 1704067200.000000 2 6 2", firstLine("0"))
	assert.Equal(t, "2 1704067202.000000 2 6 2", firstLine("1"))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 4)

	// WHEN the consumer releases slot 0
	require.NoError(t, os.Remove(filepath.Join(dir, "0.tmp")))
	require.NoError(t, e.Report(ctx, atCycle(6)))

	// THEN the next due cycle lands in slot 0
	assert.Equal(t, "6 1704067206.000000 2 6 2", firstLine("0"))
	assert.FileExists(t, filepath.Join(dir, "0.tmp"))
}

func TestFileExporter_SimulatedRowsHaveFixedWidthPlates(t *testing.T) {
	// GIVEN a busy simulation exporting every cycle
	cfg := sim.Config{
		Highway: sim.NewHighwayConfig("BR-101", 3, 40, 2),
		Params: sim.SimulationParams{
			NewVehicleProbability: 0.8,
			ChangeLaneProbability: 0.1,
			CollisionProbability:  0.2,
			CollisionDuration:     3,
			MinSpeed:              1,
			MaxSpeed:              3,
			MinAcceleration:       -1,
			MaxAcceleration:       1,
		},
	}
	s, err := sim.NewSimulator(cfg, 17)
	require.NoError(t, err)
	dir := t.TempDir()
	e, err := NewFileExporter(dir, 1, 1)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		s.Step()
	}

	// WHEN the current cycle is exported
	require.NoError(t, e.Report(context.Background(), s.Snapshot()))

	// THEN every line matches the layout the ETL reader expects
	data, err := os.ReadFile(filepath.Join(dir, "0.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Greater(t, len(lines), 1, "expected vehicles on the road")
	assert.Regexp(t, exportHeader, lines[0])
	for _, line := range lines[1:] {
		assert.Regexp(t, exportRow, line)
	}
}
