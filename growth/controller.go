// Package growth drives the global radius scale from the elimination ratio
package growth

import (
	"math"

	"github.com/lixenwraith/arena/config"
	"github.com/lixenwraith/arena/vmath"
)

// Controller holds the smoothed scale; target is recomputed every update
type Controller struct {
	scale  float64
	target float64
}

func New() *Controller {
	return &Controller{scale: 1, target: 1}
}

// Reset snaps back to unit scale for a new fight
func (c *Controller) Reset() {
	c.scale = 1
	c.target = 1
}

func (c *Controller) Scale() float64  { return c.scale }
func (c *Controller) Target() float64 { return c.target }

// TargetScale maps the dead fraction through smoothstep between the survivor thresholds,
// shapes it by the exponent and interpolates between 1 and GrowthMaxScale
func TargetScale(alive, initial int, cfg *config.Config) float64 {
	dead := 1 - float64(alive)/float64(max(1, initial))
	dead = vmath.Clamp(dead, 0, 1)

	start := 1 - cfg.GrowthStartSurvivors
	full := 1 - cfg.GrowthFullSurvivors
	t := vmath.Smoothstep(start, full, dead)

	exp := cfg.GrowthExponent
	if exp <= 0 {
		exp = 1
	}
	t = math.Pow(t, exp)

	return vmath.Lerp(1, math.Max(1, cfg.GrowthMaxScale), t)
}

// Update recomputes the target and moves the scale toward it with time constant GrowthSmoothSec
// A non-positive time constant snaps to the target
func (c *Controller) Update(dt float64, alive, initial int, cfg *config.Config) float64 {
	c.target = TargetScale(alive, initial, cfg)

	tau := cfg.GrowthSmoothSec
	if tau <= 0 {
		c.scale = c.target
		return c.scale
	}
	if dt <= 0 {
		return c.scale
	}
	alpha := 1 - math.Exp(-dt/tau)
	c.scale += (c.target - c.scale) * alpha
	return c.scale
}
