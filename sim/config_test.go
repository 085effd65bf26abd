package sim

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Highway: NewHighwayConfig("BR-101", 5, 200, 5),
		Params: SimulationParams{
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

func TestNewHighwayConfig_FieldEquivalence(t *testing.T) {
	got := NewHighwayConfig("BR-101", 5, 200, 5)
	want := HighwayConfig{Name: "BR-101", Lanes: 5, Size: 200, SpeedLimit: 5}
	assert.Equal(t, want, got)
}

func TestConfig_Validate_AcceptsDefaults(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestConfig_Validate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"zero lanes", func(c *Config) { c.Highway.Lanes = 0 }, "lanes"},
		{"negative lanes", func(c *Config) { c.Highway.Lanes = -2 }, "lanes"},
		{"zero size", func(c *Config) { c.Highway.Size = 0 }, "size"},
		{"negative speed limit", func(c *Config) { c.Highway.SpeedLimit = -1 }, "speed_limit"},
		{"spawn probability above one", func(c *Config) { c.Params.NewVehicleProbability = 1.5 }, "new_vehicle_probability"},
		{"negative lane change probability", func(c *Config) { c.Params.ChangeLaneProbability = -0.1 }, "change_lane_probability"},
		{"NaN collision probability", func(c *Config) { c.Params.CollisionProbability = math.NaN() }, "collision_probability"},
		{"negative collision duration", func(c *Config) { c.Params.CollisionDuration = -1 }, "collision_duration"},
		{"zero max speed", func(c *Config) { c.Params.MaxSpeed = 0 }, "max_speed"},
		{"min speed above max", func(c *Config) { c.Params.MinSpeed = 4 }, "min_speed"},
		{"negative min speed", func(c *Config) { c.Params.MinSpeed = -3 }, "min_speed"},
		{"min acceleration above max", func(c *Config) { c.Params.MinAcceleration = 2 }, "min_acceleration"},
		{"negative cycle duration", func(c *Config) { c.Params.CycleDuration = -time.Second }, "cycle_duration"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()

			require.Error(t, err)
			var cerr *ConfigError
			require.True(t, errors.As(err, &cerr), "expected *ConfigError, got %T", err)
			assert.Equal(t, tt.field, cerr.Field)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestSimulationParams_Validate_EqualBoundsAllowed(t *testing.T) {
	// GIVEN min == max for speed and acceleration
	p := validConfig().Params
	p.MinSpeed, p.MaxSpeed = 2, 2
	p.MinAcceleration, p.MaxAcceleration = 0, 0

	// THEN the pairs are valid
	assert.NoError(t, p.Validate())
}
