package agent

// Frame is a read-only copy of the mutable kinematic columns
// Parallel passes read neighbors from a Frame while each task writes only its own row of the Store
type Frame struct {
	X, Y      []float64
	VX, VY    []float64
	Remaining []float64
	State     []State
}

// Capture copies the store into f, reusing f's buffers when large enough
func (f *Frame) Capture(s *Store) {
	n := s.Len()
	f.X = grow(f.X, n)
	f.Y = grow(f.Y, n)
	f.VX = grow(f.VX, n)
	f.VY = grow(f.VY, n)
	f.Remaining = grow(f.Remaining, n)
	if cap(f.State) < n {
		f.State = make([]State, n)
	}
	f.State = f.State[:n]

	copy(f.X, s.X)
	copy(f.Y, s.Y)
	copy(f.VX, s.VX)
	copy(f.VY, s.VY)
	copy(f.Remaining, s.Remaining)
	copy(f.State, s.State)
}

// Shrink mirrors Store.Shrink against the captured state
func (f *Frame) Shrink(i int, fadeSec float64) float64 {
	switch f.State[i] {
	case Alive:
		return 1
	case Dying:
		if fadeSec <= 0 {
			return 0
		}
		return min(1, max(0, f.Remaining[i]/fadeSec))
	}
	return 0
}

func grow(b []float64, n int) []float64 {
	if cap(b) < n {
		return make([]float64, n)
	}
	return b[:n]
}
