package status

import (
	"math"
	"sync/atomic"
)

// Gauge is an atomic float64 stored as bits, zero value reads 0.0
type Gauge struct {
	bits atomic.Uint64
}

func (g *Gauge) Set(v float64) {
	g.bits.Store(math.Float64bits(v))
}

func (g *Gauge) Get() float64 {
	return math.Float64frombits(g.bits.Load())
}
