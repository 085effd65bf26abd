package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/highway-sim/highway-sim/sim"
)

// HighwayFile is the highway section of the configuration file.
type HighwayFile struct {
	Name       string `yaml:"name"`
	Lanes      int    `yaml:"lanes"`
	Size       int    `yaml:"size"`
	SpeedLimit int    `yaml:"speed_limit"`
}

// SimulationFile is the simulation section of the configuration file.
type SimulationFile struct {
	NewVehicleProbability float64       `yaml:"new_vehicle_probability"`
	ChangeLaneProbability float64       `yaml:"change_lane_probability"`
	CollisionProbability  float64       `yaml:"collision_probability"`
	CollisionDuration     int64         `yaml:"collision_duration"`
	MinSpeed              int           `yaml:"min_speed"`
	MaxSpeed              int           `yaml:"max_speed"`
	MinAcceleration       int           `yaml:"min_acceleration"`
	MaxAcceleration       int           `yaml:"max_acceleration"`
	CycleDuration         time.Duration `yaml:"cycle_duration"`
}

// FileConfig represents the full configuration file.
// Every key is optional and falls back to its default; unknown keys are
// rejected by KnownFields(true) strict parsing so typos cannot go unnoticed.
type FileConfig struct {
	Seed       int64          `yaml:"seed"`
	Highway    HighwayFile    `yaml:"highway"`
	Simulation SimulationFile `yaml:"simulation"`
}

// DefaultFileConfig returns the built-in configuration.
func DefaultFileConfig() FileConfig {
	return FileConfig{
		Seed: 42,
		Highway: HighwayFile{
			Name:       "Highway Simulator",
			Lanes:      5,
			Size:       200,
			SpeedLimit: 5,
		},
		Simulation: SimulationFile{
			NewVehicleProbability: 0.05,
			ChangeLaneProbability: 0.01,
			CollisionProbability:  0.05,
			CollisionDuration:     20,
			MinSpeed:              0,
			MaxSpeed:              3,
			MinAcceleration:       -1,
			MaxAcceleration:       1,
			CycleDuration:         time.Millisecond,
		},
	}
}

// LoadFileConfig reads the configuration file at path over the defaults.
func LoadFileConfig(path string) (FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := DefaultFileConfig()
	if err := decodeFileConfig(bytes.NewReader(data), &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

func decodeFileConfig(r io.Reader, cfg *FileConfig) error {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// WriteFileConfig writes cfg as YAML.
func WriteFileConfig(w io.Writer, cfg FileConfig) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}

// SimConfig converts the file form into the simulator configuration.
func (f FileConfig) SimConfig() sim.Config {
	s := f.Simulation
	return sim.Config{
		Highway: sim.NewHighwayConfig(f.Highway.Name, f.Highway.Lanes, f.Highway.Size, f.Highway.SpeedLimit),
		Params: sim.SimulationParams{
			NewVehicleProbability: s.NewVehicleProbability,
			ChangeLaneProbability: s.ChangeLaneProbability,
			CollisionProbability:  s.CollisionProbability,
			CollisionDuration:     s.CollisionDuration,
			MinSpeed:              s.MinSpeed,
			MaxSpeed:              s.MaxSpeed,
			MinAcceleration:       s.MinAcceleration,
			MaxAcceleration:       s.MaxAcceleration,
			CycleDuration:         s.CycleDuration,
		},
	}
}
