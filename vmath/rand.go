package vmath

import "math"

// FastRand is a xorshift64 generator
// Not safe for concurrent use; parallel passes derive one stream per agent
type FastRand struct {
	state uint64
}

// NewFastRand creates a generator; zero seed is remapped since xorshift sticks at zero
func NewFastRand(seed uint64) *FastRand {
	if seed == 0 {
		seed = 1
	}
	return &FastRand{state: seed}
}

// Seed resets the generator state in place
func (r *FastRand) Seed(seed uint64) {
	if seed == 0 {
		seed = 1
	}
	r.state = seed
}

func (r *FastRand) Next() uint64 {
	x := r.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	r.state = x
	return x
}

func (r *FastRand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Next() % uint64(n))
}

// Float64 returns a uniform value in [0, 1) built from the top 53 bits
func (r *FastRand) Float64() float64 {
	return float64(r.Next()>>11) / (1 << 53)
}

// Range returns a uniform value in [min(a,b), max(a,b)]
func (r *FastRand) Range(a, b float64) float64 {
	if a > b {
		a, b = b, a
	}
	if a == b {
		return a
	}
	return a + (b-a)*r.Float64()
}

// Heading returns a random unit vector
func (r *FastRand) Heading() (float64, float64) {
	angle := r.Float64() * 2 * math.Pi
	return math.Cos(angle), math.Sin(angle)
}

// splitmix64 finalizer, spreads correlated inputs across the state space
func mix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// Derive returns a seed for an independent stream keyed by (seed, a, b)
// Same inputs always yield the same stream regardless of scheduling order
func Derive(seed, a, b uint64) uint64 {
	return mix64(mix64(mix64(seed)^a) ^ b)
}

// HashHeading returns a unit vector that is a pure function of key
func HashHeading(key uint64) (float64, float64) {
	angle := float64(mix64(key)>>11) / (1 << 53) * 2 * math.Pi
	return math.Cos(angle), math.Sin(angle)
}
