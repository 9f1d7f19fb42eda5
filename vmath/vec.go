package vmath

import "math"

// Epsilon is the floor below which lengths are treated as degenerate
const Epsilon = 1e-6

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Smoothstep is the cubic Hermite ramp between edges e0 and e1
// e1 <= e0 degenerates to a step at e0
func Smoothstep(e0, e1, x float64) float64 {
	if e1 <= e0 {
		if x < e0 {
			return 0
		}
		return 1
	}
	t := Clamp((x-e0)/(e1-e0), 0, 1)
	return t * t * (3 - 2*t)
}

func Length(x, y float64) float64 {
	return math.Sqrt(x*x + y*y)
}

// Normalize returns the unit vector and the original length
// Degenerate input returns ok=false and a zero vector
func Normalize(x, y float64) (nx, ny, length float64, ok bool) {
	length = Length(x, y)
	if length < Epsilon {
		return 0, 0, length, false
	}
	return x / length, y / length, length, true
}

// ClampSpeed rescales (vx, vy) so its magnitude lies in [minSpeed, maxSpeed]
// A degenerate vector gets a fresh random heading at minSpeed
func ClampSpeed(vx, vy, minSpeed, maxSpeed float64, rng *FastRand) (float64, float64) {
	nx, ny, speed, ok := Normalize(vx, vy)
	if !ok {
		hx, hy := rng.Heading()
		return hx * minSpeed, hy * minSpeed
	}
	switch {
	case speed < minSpeed:
		return nx * minSpeed, ny * minSpeed
	case speed > maxSpeed:
		return nx * maxSpeed, ny * maxSpeed
	}
	return vx, vy
}
