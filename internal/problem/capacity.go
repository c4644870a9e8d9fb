package problem

import "gonum.org/v1/gonum/floats"

// Capacity is an ordered vector of non-negative reals: vehicle capacity,
// job demand, or a route's cumulative load. All arithmetic is
// componentwise; vectors of mismatched length are a programmer error
// (callers derive every Capacity from the same problem-wide dimension).
type Capacity []float64

// NewCapacity returns a zero vector of the given dimension.
func NewCapacity(dim int) Capacity {
	return make(Capacity, dim)
}

// Add returns a new vector, the componentwise sum of c and o.
func (c Capacity) Add(o Capacity) Capacity {
	out := make(Capacity, len(c))
	copy(out, c)
	floats.Add(out, o)
	return out
}

// Sub returns a new vector, the componentwise difference c - o.
func (c Capacity) Sub(o Capacity) Capacity {
	out := make(Capacity, len(c))
	copy(out, c)
	floats.Sub(out, o)
	return out
}

// LessEqual reports whether every component of c is <= the corresponding
// component of o (the partial order from spec §3).
func (c Capacity) LessEqual(o Capacity) bool {
	for i := range c {
		if c[i] > o[i] {
			return false
		}
	}
	return true
}

// Max returns the componentwise maximum of c and o.
func (c Capacity) Max(o Capacity) Capacity {
	out := make(Capacity, len(c))
	for i := range c {
		out[i] = max(c[i], o[i])
	}
	return out
}

// Clone returns an independent copy.
func (c Capacity) Clone() Capacity {
	out := make(Capacity, len(c))
	copy(out, c)
	return out
}

// Sum returns the sum of all components, a scalar demand magnitude.
func (c Capacity) Sum() float64 {
	return floats.Sum(c)
}

// OverCapacity returns, componentwise, max(0, c[i]-capacity[i]) summed —
// the scalar hard-score contribution of exceeding capacity at one point in
// a route.
func (c Capacity) OverCapacity(capacity Capacity) float64 {
	var total float64
	for i := range c {
		if d := c[i] - capacity[i]; d > 0 {
			total += d
		}
	}
	return total
}
