package config

import (
	"sort"

	"github.com/san-kum/accretion/internal/physics"
)

// Presets are named starting configurations. Use GetPreset to obtain a
// copy that is safe to modify.
var Presets = map[string]*Config{
	"default": DefaultConfig(),

	// Flat view: one population that reappears on a fixed ring with a
	// random velocity, plus occasional noise kicks.
	"classic": {
		Name: "classic", Dimensions: 2, Integrator: "symplectic", Seed: DefaultSeed,
		Dt: 1, Steps: 200, Speed: 1, SpeedFactor: DefaultSpeedFactor, TrailLength: 20, MaxSpeed: 5,
		Force: physics.ForceLaw{K: 0.2, Exponent: 1.5, CaptureRadius: 0.5},
		Noise: physics.Noise{Every: 10, Chance: 0.1, Amplitude: 0.05},
		Disk: DiskConfig{Count: 300, DiskPolicy: physics.DiskPolicy{
			InitialBand: physics.Band{Min: 1, Max: 10},
			RespawnBand: physics.Band{Min: 8, Max: 8},
			Velocity:    physics.VelocityRandom, RandomSpeed: 0.5,
		}},
	},

	// Minimal gravity well.
	"basic": {
		Name: "basic", Dimensions: 2, Integrator: "symplectic", Seed: DefaultSeed,
		Dt: 1, Steps: 100, Speed: 1, SpeedFactor: DefaultSpeedFactor, TrailLength: 5, MaxSpeed: 5,
		Force: physics.ForceLaw{K: 0.01, Exponent: 2, CaptureRadius: 0.1},
		Disk: DiskConfig{Count: 100, DiskPolicy: physics.DiskPolicy{
			InitialBand:   physics.Band{Min: 0.5, Max: 5},
			RespawnBand:   physics.Band{Min: 10, Max: 10},
			OrbitConstant: 0.9, Velocity: physics.VelocityCircular,
		}},
	},

	"disk3d": {
		Name: "disk3d", Dimensions: 3, Integrator: "symplectic", Seed: DefaultSeed,
		Dt: 0.05, Steps: 2000, Speed: 1, SpeedFactor: DefaultSpeedFactor, Lensing: true, TrailLength: 15, MaxSpeed: DefaultMaxSpeed,
		Force: physics.ForceLaw{K: 0.2, Exponent: 2, CaptureRadius: 1},
		Disk: DiskConfig{Count: 300, DiskPolicy: physics.DiskPolicy{
			InitialBand:   physics.Band{Min: 1.5, Max: 4},
			RespawnBand:   physics.Band{Min: 3, Max: 4},
			Jitter:        0.1,
			OrbitConstant: 0.5, Velocity: physics.VelocityCircular,
		}},
		Orbital: OrbitalConfig{Count: 200, OrbitalPolicy: physics.OrbitalPolicy{
			InitialBand:        physics.Band{Min: 3, Max: 10},
			SpawnBand:          physics.Band{Min: 6, Max: 12},
			OrbitConstant:      0.3,
			SpeedJitter:        physics.Band{Min: 1, Max: 1},
			OutOfPlane:         0.1,
			RespawnProbability: 0.05,
		}},
	},

	// Lighter population with jittered orbital speeds.
	"optimized": {
		Name: "optimized", Dimensions: 3, Integrator: "symplectic", Seed: DefaultSeed,
		Dt: 0.05, Steps: 2000, Speed: 1, SpeedFactor: DefaultSpeedFactor, Lensing: true, TrailLength: 10, MaxSpeed: DefaultMaxSpeed,
		Force: physics.ForceLaw{K: 0.2, Exponent: 2, CaptureRadius: 1},
		Disk: DiskConfig{Count: 150, DiskPolicy: physics.DiskPolicy{
			InitialBand:   physics.Band{Min: 1.8, Max: 4.3},
			OutwardBias:   true,
			RespawnBand:   physics.Band{Min: 2.5, Max: 4},
			Jitter:        0.08,
			OrbitConstant: 0.5, Velocity: physics.VelocityCircular,
		}},
		Orbital: OrbitalConfig{Count: 75, OrbitalPolicy: physics.OrbitalPolicy{
			InitialBand:        physics.Band{Min: 4, Max: 12},
			SpawnBand:          physics.Band{Min: 6, Max: 12},
			OrbitConstant:      0.4,
			SpeedJitter:        physics.Band{Min: 0.8, Max: 1.2},
			InitialSpeedJitter: physics.Band{Min: 0.7, Max: 1.3},
			OutOfPlane:         0.2,
			RespawnProbability: 0.03,
		}},
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
