package config

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/san-kum/accretion/internal/dynamo"
	"github.com/san-kum/accretion/internal/integrators"
	"github.com/san-kum/accretion/internal/physics"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt          = 0.05
	DefaultSteps       = 1000
	DefaultSpeed       = 1.0
	DefaultSpeedFactor = 1.2
	DefaultTrailLength = 15
	DefaultMaxSpeed    = 10.0
	DefaultSeed        = 1
)

type Config struct {
	Name        string           `yaml:"name"`
	Dimensions  int              `yaml:"dimensions"`
	Integrator  string           `yaml:"integrator"`
	Seed        int64            `yaml:"seed"`
	Dt          float64          `yaml:"dt"`
	Steps       int              `yaml:"steps"`
	Speed       float64          `yaml:"speed"`
	SpeedFactor float64          `yaml:"speed_factor"`
	Lensing     bool             `yaml:"lensing"`
	TrailLength int              `yaml:"trail_length"`
	MaxSpeed    float64          `yaml:"max_speed"`
	Force       physics.ForceLaw `yaml:"force"`
	Noise       physics.Noise    `yaml:"noise"`
	Disk        DiskConfig       `yaml:"disk"`
	Orbital     OrbitalConfig    `yaml:"orbital"`
}

type DiskConfig struct {
	Count              int `yaml:"count"`
	physics.DiskPolicy `yaml:",inline"`
}

type OrbitalConfig struct {
	Count                 int `yaml:"count"`
	physics.OrbitalPolicy `yaml:",inline"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:        "default",
		Dimensions:  3,
		Integrator:  integrators.Default,
		Seed:        DefaultSeed,
		Dt:          DefaultDt,
		Steps:       DefaultSteps,
		Speed:       DefaultSpeed,
		SpeedFactor: DefaultSpeedFactor,
		Lensing:     true,
		TrailLength: DefaultTrailLength,
		MaxSpeed:    DefaultMaxSpeed,
		Force:       physics.ForceLaw{K: 0.2, Exponent: 2, CaptureRadius: 1},
		Noise:       physics.Noise{Every: 20, Chance: 0.05, Amplitude: 0.01},
		Disk: DiskConfig{
			Count: 60,
			DiskPolicy: physics.DiskPolicy{
				InitialBand:   physics.Band{Min: 1.5, Max: 4},
				RespawnBand:   physics.Band{Min: 3, Max: 4},
				Jitter:        0.1,
				OrbitConstant: 0.5,
				Velocity:      physics.VelocityCircular,
			},
		},
		Orbital: OrbitalConfig{
			Count: 40,
			OrbitalPolicy: physics.OrbitalPolicy{
				InitialBand:        physics.Band{Min: 3, Max: 10},
				SpawnBand:          physics.Band{Min: 6, Max: 12},
				OrbitConstant:      0.3,
				SpeedJitter:        physics.Band{Min: 0.8, Max: 1.2},
				OutOfPlane:         0.1,
				RespawnProbability: 0.05,
			},
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Encode writes cfg as YAML to w.
func Encode(w io.Writer, cfg *Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}

// Clone returns an independent copy of c.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// Respawner builds the capture and respawn rules described by c.
func (c *Config) Respawner() *physics.Respawner {
	return &physics.Respawner{
		Law:     c.Force,
		Dim:     c.Dimensions,
		Disk:    c.Disk.DiskPolicy,
		Orbital: c.Orbital.OrbitalPolicy,
	}
}

// Population is the fixed number of particles the configuration creates.
func (c *Config) Population() int {
	return c.Disk.Count + c.Orbital.Count
}

// Validate fails fast on configurations that cannot run.
func (c *Config) Validate() error {
	if err := c.validate(); err != nil {
		return fmt.Errorf("%w: %w", dynamo.ErrInvalidConfig, err)
	}
	return nil
}

func (c *Config) validate() error {
	if c.Dt <= 0 || math.IsNaN(c.Dt) || math.IsInf(c.Dt, 0) {
		return fmt.Errorf("dt must be positive, got %f", c.Dt)
	}
	if c.Speed <= 0 {
		return fmt.Errorf("speed must be positive, got %f", c.Speed)
	}
	if c.SpeedFactor <= 1 {
		return fmt.Errorf("speed factor must be greater than 1, got %f", c.SpeedFactor)
	}
	if c.TrailLength < 1 {
		return fmt.Errorf("trail length must be at least 1, got %d", c.TrailLength)
	}
	if c.MaxSpeed <= 0 {
		return fmt.Errorf("max speed must be positive, got %f", c.MaxSpeed)
	}
	if c.Steps < 0 {
		return fmt.Errorf("steps must be non-negative, got %d", c.Steps)
	}
	if c.Disk.Count < 0 || c.Orbital.Count < 0 {
		return fmt.Errorf("particle counts must be non-negative")
	}
	if c.Population() == 0 {
		return fmt.Errorf("population is empty")
	}
	if _, err := integrators.Get(c.Integrator); err != nil {
		return err
	}
	if c.Noise.Every < 0 || c.Noise.Amplitude < 0 {
		return fmt.Errorf("noise period and amplitude must be non-negative")
	}
	if err := physics.ValidateProbability(c.Noise.Chance); err != nil {
		return fmt.Errorf("noise chance: %w", err)
	}
	return c.Respawner().Validate(c.Disk.Count, c.Orbital.Count)
}
