package sim

import (
	"fmt"
	"math"
	"time"
)

// HighwayConfig groups the highway geometry.
type HighwayConfig struct {
	Name       string // display name, carried into every snapshot
	Lanes      int    // lanes per direction (must be > 0)
	Size       int    // track length in cells (must be > 0)
	SpeedLimit int    // advisory only; reported, never enforced on motion
}

// SimulationParams groups the stochastic model parameters.
type SimulationParams struct {
	NewVehicleProbability float64       // per lane, per pool, per cycle
	ChangeLaneProbability float64       // per moving vehicle, per cycle
	CollisionProbability  float64       // scaled by (speed/MaxSpeed)^2
	CollisionDuration     int64         // cycles a wreck stays before removal
	MinSpeed              int           // cells/cycle
	MaxSpeed              int           // cells/cycle (must be > 0)
	MinAcceleration       int           // cells/cycle^2
	MaxAcceleration       int           // cells/cycle^2
	CycleDuration         time.Duration // pacing between cycles; not used by the core
}

// Config is the full startup configuration of a Simulator.
type Config struct {
	Highway HighwayConfig
	Params  SimulationParams
}

// ConfigError reports an invalid configuration value.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s %s", e.Field, e.Reason)
}

// NewHighwayConfig creates a HighwayConfig. No defaults are injected.
func NewHighwayConfig(name string, lanes, size, speedLimit int) HighwayConfig {
	return HighwayConfig{Name: name, Lanes: lanes, Size: size, SpeedLimit: speedLimit}
}

// Validate checks the highway geometry.
func (h HighwayConfig) Validate() error {
	if h.Lanes <= 0 {
		return &ConfigError{Field: "lanes", Reason: fmt.Sprintf("must be positive, got %d", h.Lanes)}
	}
	if h.Size <= 0 {
		return &ConfigError{Field: "size", Reason: fmt.Sprintf("must be positive, got %d", h.Size)}
	}
	if h.SpeedLimit < 0 {
		return &ConfigError{Field: "speed_limit", Reason: fmt.Sprintf("must be non-negative, got %d", h.SpeedLimit)}
	}
	return nil
}

// Validate checks the model parameters.
func (p SimulationParams) Validate() error {
	probabilities := []struct {
		name string
		val  float64
	}{
		{"new_vehicle_probability", p.NewVehicleProbability},
		{"change_lane_probability", p.ChangeLaneProbability},
		{"collision_probability", p.CollisionProbability},
	}
	for _, pr := range probabilities {
		if err := validateProbability(pr.name, pr.val); err != nil {
			return err
		}
	}
	if p.CollisionDuration < 0 {
		return &ConfigError{Field: "collision_duration", Reason: fmt.Sprintf("must be non-negative, got %d", p.CollisionDuration)}
	}
	if p.MaxSpeed <= 0 {
		return &ConfigError{Field: "max_speed", Reason: fmt.Sprintf("must be positive, got %d", p.MaxSpeed)}
	}
	if p.MinSpeed < 0 {
		return &ConfigError{Field: "min_speed", Reason: fmt.Sprintf("must be non-negative, got %d", p.MinSpeed)}
	}
	if p.MinSpeed > p.MaxSpeed {
		return &ConfigError{Field: "min_speed", Reason: fmt.Sprintf("must be <= max_speed (%d), got %d", p.MaxSpeed, p.MinSpeed)}
	}
	if p.MinAcceleration > p.MaxAcceleration {
		return &ConfigError{Field: "min_acceleration", Reason: fmt.Sprintf("must be <= max_acceleration (%d), got %d", p.MaxAcceleration, p.MinAcceleration)}
	}
	if p.CycleDuration < 0 {
		return &ConfigError{Field: "cycle_duration", Reason: fmt.Sprintf("must be non-negative, got %s", p.CycleDuration)}
	}
	return nil
}

// Validate checks the highway and the model parameters.
func (c Config) Validate() error {
	if err := c.Highway.Validate(); err != nil {
		return err
	}
	return c.Params.Validate()
}

func validateProbability(name string, val float64) error {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return &ConfigError{Field: name, Reason: fmt.Sprintf("must be a finite number, got %f", val)}
	}
	if val < 0 || val > 1 {
		return &ConfigError{Field: name, Reason: fmt.Sprintf("must be in [0, 1], got %f", val)}
	}
	return nil
}
