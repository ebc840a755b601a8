package editor

// Default thickness settings in display pixels.
const (
	DefaultThickness    = 10
	DefaultMinThickness = 1
	DefaultMaxThickness = 50
)

// Thickness is the user-chosen stroke width in display pixels, bounded by an
// inclusive range.
type Thickness struct {
	value int
	min   int
	max   int
}

// NewThickness returns a Thickness clamped to [lo, hi]. The bounds are
// swapped when given in the wrong order.
func NewThickness(value, lo, hi int) *Thickness {
	if lo > hi {
		lo, hi = hi, lo
	}
	t := &Thickness{min: lo, max: hi}
	t.Set(value)
	return t
}

// Value returns the current thickness.
func (t *Thickness) Value() int { return t.value }

// Min returns the lower bound.
func (t *Thickness) Min() int { return t.min }

// Max returns the upper bound.
func (t *Thickness) Max() int { return t.max }

// Set stores v clamped to the allowed range and returns the stored value.
func (t *Thickness) Set(v int) int {
	if v < t.min {
		v = t.min
	} else if v > t.max {
		v = t.max
	}
	t.value = v
	return v
}

// Step adjusts the thickness by one unit in the direction of delta, the way
// a wheel notch does. Zero leaves it unchanged.
func (t *Thickness) Step(delta int) int {
	switch {
	case delta > 0:
		return t.Set(t.value + 1)
	case delta < 0:
		return t.Set(t.value - 1)
	}
	return t.value
}
