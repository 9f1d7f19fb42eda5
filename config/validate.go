package config

import (
	"errors"
	"fmt"
	"math"
	"runtime"

	"github.com/lixenwraith/arena/parameter"
)

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("invalid config")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// Validate reports every problem found, joined
// Used at the command boundary; the core itself never rejects a config
func (c *Config) Validate() error {
	var errs []error

	if c.Population <= 0 {
		errs = append(errs, invalid("population %d must be positive", c.Population))
	}
	if !(c.ArenaWidth > 0) || !(c.ArenaHeight > 0) {
		errs = append(errs, invalid("arena %vx%v must be positive", c.ArenaWidth, c.ArenaHeight))
	}
	if !(c.Radius > 0) {
		errs = append(errs, invalid("radius %v must be positive", c.Radius))
	}
	if c.RadiusVariance < 0 || c.RadiusVariance >= 1 {
		errs = append(errs, invalid("radius_variance %v outside [0,1)", c.RadiusVariance))
	}
	if !(c.MaxHealth > 0) {
		errs = append(errs, invalid("max_health %v must be positive", c.MaxHealth))
	}
	if c.MinSpeed < 0 {
		errs = append(errs, invalid("min_speed %v must not be negative", c.MinSpeed))
	}
	if c.MaxSpeed < c.MinSpeed {
		errs = append(errs, invalid("max_speed %v below min_speed %v", c.MaxSpeed, c.MinSpeed))
	}
	if c.Damping <= 0 || c.Damping > 1 {
		errs = append(errs, invalid("damping %v outside (0,1]", c.Damping))
	}
	if c.Elasticity < 0 || c.Elasticity > 1 {
		errs = append(errs, invalid("elasticity %v outside [0,1]", c.Elasticity))
	}
	if c.WallBoost <= 0 || c.HitBoost <= 0 {
		errs = append(errs, invalid("boost multipliers must be positive (wall %v, hit %v)", c.WallBoost, c.HitBoost))
	}
	if c.DamageMin < 0 || c.DamageMax < 0 {
		errs = append(errs, invalid("damage range [%v,%v] must not be negative", c.DamageMin, c.DamageMax))
	}
	if c.DeathFadeSec < 0 {
		errs = append(errs, invalid("death_fade_sec %v must not be negative", c.DeathFadeSec))
	}
	if !inUnit(c.GrowthStartSurvivors) || !inUnit(c.GrowthFullSurvivors) {
		errs = append(errs, invalid("growth survivor thresholds [%v,%v] outside [0,1]", c.GrowthStartSurvivors, c.GrowthFullSurvivors))
	}
	if c.GrowthMaxScale < 1 {
		errs = append(errs, invalid("growth_max_scale %v below 1", c.GrowthMaxScale))
	}
	if c.GrowthExponent <= 0 {
		errs = append(errs, invalid("growth_exponent %v must be positive", c.GrowthExponent))
	}
	if c.MaxPairsPerCell < 0 {
		errs = append(errs, invalid("max_pairs_per_cell %d must not be negative", c.MaxPairsPerCell))
	}
	if c.TickRate <= 0 {
		errs = append(errs, invalid("tick_rate %d must be positive", c.TickRate))
	}
	switch c.Backend {
	case BackendSequential, BackendParallel, "":
	default:
		errs = append(errs, invalid("unknown backend %q", c.Backend))
	}

	return errors.Join(errs...)
}

// Sanitized returns a copy with degenerate values clamped to safe defaults
// Never fails; values that would divide by zero or invert a range are recovered silently
func (c Config) Sanitized() Config {
	c.Population = max(1, c.Population)
	c.ArenaWidth = positiveOr(c.ArenaWidth, 1)
	c.ArenaHeight = positiveOr(c.ArenaHeight, 1)
	c.Radius = positiveOr(c.Radius, 1)
	c.RadiusVariance = clampFinite(c.RadiusVariance, 0, 0.95)
	c.MaxHealth = positiveOr(c.MaxHealth, 1)

	c.MinSpeed = math.Max(0, finiteOr(c.MinSpeed, 0))
	c.MaxSpeed = math.Max(c.MinSpeed, finiteOr(c.MaxSpeed, c.MinSpeed))
	c.BaseSpeed = clampFinite(c.BaseSpeed, c.MinSpeed, c.MaxSpeed)
	c.Jitter = math.Max(0, finiteOr(c.Jitter, 0))
	c.Damping = clampFinite(c.Damping, 0, 1)
	if c.Damping == 0 {
		c.Damping = 1
	}
	c.WallBoost = positiveOr(c.WallBoost, 1)
	c.HitBoost = positiveOr(c.HitBoost, 1)

	c.Elasticity = clampFinite(c.Elasticity, 0, 1)
	c.DamageMin = math.Max(0, finiteOr(c.DamageMin, 0))
	c.DamageMax = math.Max(0, finiteOr(c.DamageMax, 0))
	c.DeathFadeSec = math.Max(0, finiteOr(c.DeathFadeSec, 0))
	c.SparseHitsPerSec = math.Max(0, finiteOr(c.SparseHitsPerSec, 0))

	c.GrowthStartSurvivors = clampFinite(c.GrowthStartSurvivors, 0, 1)
	c.GrowthFullSurvivors = clampFinite(c.GrowthFullSurvivors, 0, 1)
	c.GrowthExponent = positiveOr(c.GrowthExponent, 1)
	c.GrowthMaxScale = math.Max(1, finiteOr(c.GrowthMaxScale, 1))
	c.GrowthSmoothSec = math.Max(0, finiteOr(c.GrowthSmoothSec, 0))

	c.MaxPairsPerCell = max(0, c.MaxPairsPerCell)
	c.MinCellSize = positiveOr(c.MinCellSize, parameter.DefaultMinCellSize)

	c.TickRate = max(1, c.TickRate)
	c.MaxStepSec = positiveOr(c.MaxStepSec, parameter.DefaultMaxStepSec)
	if c.TelemetryInterval <= 0 {
		c.TelemetryInterval = parameter.DefaultTelemetryInterval
	}

	if c.Backend != BackendParallel {
		c.Backend = BackendSequential
	}
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	return c
}

func inUnit(v float64) bool { return v >= 0 && v <= 1 }

func finiteOr(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

func positiveOr(v, fallback float64) float64 {
	v = finiteOr(v, fallback)
	if v <= 0 {
		return fallback
	}
	return v
}

func clampFinite(v, lo, hi float64) float64 {
	v = finiteOr(v, lo)
	return math.Min(hi, math.Max(lo, v))
}
