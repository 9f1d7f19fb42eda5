// Package config holds the simulation tunables snapshot
// A Config is immutable for the duration of a tick; the controller replaces it wholesale between ticks
package config

import (
	"time"

	"github.com/lixenwraith/arena/parameter"
	"github.com/lixenwraith/arena/roster"
)

// Backend selects the execution strategy and with it the per-agent mutation discipline
type Backend string

const (
	// BackendSequential runs every phase on the calling goroutine, contacts mutate both agents
	BackendSequential Backend = "sequential"
	// BackendParallel runs phases as data-parallel passes, each task mutates only its own agent
	BackendParallel Backend = "parallel"
)

type Config struct {
	Population  int     `yaml:"population"`
	ArenaWidth  float64 `yaml:"arena_width"`
	ArenaHeight float64 `yaml:"arena_height"`

	Radius         float64 `yaml:"radius"`
	RadiusVariance float64 `yaml:"radius_variance"`
	MaxHealth      float64 `yaml:"max_health"`

	BaseSpeed float64 `yaml:"base_speed"`
	MinSpeed  float64 `yaml:"min_speed"`
	MaxSpeed  float64 `yaml:"max_speed"`
	Jitter    float64 `yaml:"jitter"`
	Damping   float64 `yaml:"damping"`
	WallBoost float64 `yaml:"wall_boost"`

	Elasticity       float64 `yaml:"elasticity"`
	HitBoost         float64 `yaml:"hit_boost"`
	DamageMin        float64 `yaml:"damage_min"`
	DamageMax        float64 `yaml:"damage_max"`
	DeathFadeSec     float64 `yaml:"death_fade_sec"`
	SparseHitsPerSec float64 `yaml:"sparse_hits_per_sec"`

	GrowthStartSurvivors float64 `yaml:"growth_start_survivors"`
	GrowthFullSurvivors  float64 `yaml:"growth_full_survivors"`
	GrowthExponent       float64 `yaml:"growth_exponent"`
	GrowthMaxScale       float64 `yaml:"growth_max_scale"`
	GrowthSmoothSec      float64 `yaml:"growth_smooth_sec"`

	Collisions   bool `yaml:"collisions"`
	Endless      bool `yaml:"endless"`
	DyingCollide bool `yaml:"dying_collide"`

	// MaxPairsPerCell bounds broad phase work per cell neighborhood, pairs past the cap wait for a later tick
	MaxPairsPerCell int     `yaml:"max_pairs_per_cell"`
	MinCellSize     float64 `yaml:"min_cell_size"`

	TickRate          int           `yaml:"tick_rate"`
	MaxStepSec        float64       `yaml:"max_step_sec"`
	TelemetryInterval time.Duration `yaml:"telemetry_interval"`

	Backend Backend `yaml:"backend"`
	Workers int     `yaml:"workers"`

	Seed uint64 `yaml:"seed"`

	Participants []roster.Participant `yaml:"participants,omitempty"`
}

// Default returns the stock tunables
func Default() Config {
	return Config{
		Population:  parameter.DefaultPopulation,
		ArenaWidth:  parameter.DefaultArenaWidth,
		ArenaHeight: parameter.DefaultArenaHeight,

		Radius:         parameter.DefaultRadius,
		RadiusVariance: parameter.DefaultRadiusVariance,
		MaxHealth:      parameter.DefaultMaxHealth,

		BaseSpeed: parameter.DefaultBaseSpeed,
		MinSpeed:  parameter.DefaultMinSpeed,
		MaxSpeed:  parameter.DefaultMaxSpeed,
		Jitter:    parameter.DefaultJitter,
		Damping:   parameter.DefaultDamping,
		WallBoost: parameter.DefaultWallBoost,

		Elasticity:       parameter.DefaultElasticity,
		HitBoost:         parameter.DefaultHitBoost,
		DamageMin:        parameter.DefaultDamageMin,
		DamageMax:        parameter.DefaultDamageMax,
		DeathFadeSec:     parameter.DefaultDeathFadeSec,
		SparseHitsPerSec: parameter.DefaultSparseHitsPerSec,

		GrowthStartSurvivors: parameter.DefaultGrowthStartSurvivors,
		GrowthFullSurvivors:  parameter.DefaultGrowthFullSurvivors,
		GrowthExponent:       parameter.DefaultGrowthExponent,
		GrowthMaxScale:       parameter.DefaultGrowthMaxScale,
		GrowthSmoothSec:      parameter.DefaultGrowthSmoothSec,

		Collisions:   true,
		Endless:      false,
		DyingCollide: true,

		MaxPairsPerCell: parameter.DefaultMaxPairsPerCell,
		MinCellSize:     parameter.DefaultMinCellSize,

		TickRate:          parameter.DefaultTickRate,
		MaxStepSec:        parameter.DefaultMaxStepSec,
		TelemetryInterval: parameter.DefaultTelemetryInterval,

		Backend: BackendSequential,
		Workers: 0,

		Seed: 1,
	}
}

// DamageRange returns the ordered damage roll bounds
func (c *Config) DamageRange() (lo, hi float64) {
	if c.DamageMin > c.DamageMax {
		return c.DamageMax, c.DamageMin
	}
	return c.DamageMin, c.DamageMax
}

// TickInterval returns the runner tick period for the capped rate
func (c *Config) TickInterval() time.Duration {
	rate := c.TickRate
	if rate < 1 {
		rate = 1
	}
	return time.Second / time.Duration(rate)
}
