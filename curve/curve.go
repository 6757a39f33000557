// Package curve implements monotone 1-D lookup tables on load_ratio ∈ [0,1]
// used for efficiency, BSFC and emission-rate curves. Interpolation is
// piecewise-linear with the value clamped to the nearest endpoint outside
// the curve's domain, delegating the actual fit/predict math to
// gonum.org/v1/gonum/interp.
package curve

import (
	"encoding/json"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/interp"
)

// EfficiencyFloor is the minimum efficiency any efficiency curve may report.
const EfficiencyFloor = 0.01

// EfficiencyCeiling is the maximum efficiency any efficiency curve may report.
const EfficiencyCeiling = 1.0

// Curve is a sorted set of (x, y) points with x strictly increasing. Lookup
// is piecewise-linear with clamped extrapolation at the endpoints.
type Curve struct {
	xs []float64
	ys []float64

	floor, ceiling float64
	hasFloorCeil   bool

	fit interp.PiecewiseLinear
}

// New builds a Curve from parallel x/y slices. x must be strictly
// increasing and non-empty, otherwise an error of kind CurveDomain-shaped
// (callers should wrap with ferror.CurveDomain) is returned.
func New(xs, ys []float64) (*Curve, error) {
	if len(xs) == 0 || len(xs) != len(ys) {
		return nil, fmt.Errorf("curve: empty or mismatched-length x/y (len(x)=%d, len(y)=%d)", len(xs), len(ys))
	}
	if !sort.Float64sAreSorted(xs) {
		return nil, fmt.Errorf("curve: x values must be strictly increasing")
	}
	for i := 1; i < len(xs); i++ {
		if xs[i] <= xs[i-1] {
			return nil, fmt.Errorf("curve: x values must be strictly increasing, got %v at index %d", xs[i], i)
		}
	}
	c := &Curve{xs: append([]float64(nil), xs...), ys: append([]float64(nil), ys...)}
	if err := c.fit.Fit(c.xs, c.ys); err != nil {
		return nil, fmt.Errorf("curve: fitting piecewise-linear interpolant: %w", err)
	}
	return c, nil
}

// NewEfficiencyCurve builds a Curve for efficiency lookups, which additionally
// enforces the floor/ceiling invariants on every Lookup.
func NewEfficiencyCurve(xs, ys []float64) (*Curve, error) {
	c, err := New(xs, ys)
	if err != nil {
		return nil, err
	}
	c.floor, c.ceiling = EfficiencyFloor, EfficiencyCeiling
	c.hasFloorCeil = true
	return c, nil
}

// Lookup evaluates the curve at x, clamping x to the curve's domain before
// interpolating, and clamping the result to [floor, ceiling] when this is an
// efficiency curve.
func (c *Curve) Lookup(x float64) float64 {
	clampedX := x
	if clampedX < c.xs[0] {
		clampedX = c.xs[0]
	} else if clampedX > c.xs[len(c.xs)-1] {
		clampedX = c.xs[len(c.xs)-1]
	}
	y := c.fit.Predict(clampedX)
	if c.hasFloorCeil {
		if y < c.floor {
			y = c.floor
		} else if y > c.ceiling {
			y = c.ceiling
		}
	}
	return y
}

// Len returns the number of points backing the curve.
func (c *Curve) Len() int { return len(c.xs) }

// Flat returns a single-segment curve with constant value y over [0,1],
// a convenience used throughout tests and by components configured with a
// single flat BSFC/efficiency rating rather than a full curve.
func Flat(y float64) *Curve {
	c, err := New([]float64{0, 1}, []float64{y, y})
	if err != nil {
		// Unreachable: the two points above are always valid.
		panic(err)
	}
	return c
}

// FlatEfficiency is Flat with the efficiency floor/ceiling applied.
func FlatEfficiency(y float64) *Curve {
	c, err := NewEfficiencyCurve([]float64{0, 1}, []float64{y, y})
	if err != nil {
		panic(err)
	}
	return c
}

// curveJSON is the on-the-wire shape of a Curve: the backing (x, y) points
// plus whether the floor/ceiling clamp is active, since the fitted
// interp.PiecewiseLinear itself is unexported and rebuilt on decode.
type curveJSON struct {
	Xs           []float64 `json:"xs"`
	Ys           []float64 `json:"ys"`
	HasFloorCeil bool      `json:"has_floor_ceil,omitempty"`
}

// MarshalJSON encodes the curve's backing points, not the fitted
// interpolant, which is rebuilt from them on decode.
func (c *Curve) MarshalJSON() ([]byte, error) {
	return json.Marshal(curveJSON{Xs: c.xs, Ys: c.ys, HasFloorCeil: c.hasFloorCeil})
}

// UnmarshalJSON rebuilds the curve (and its fitted interpolant) from
// encoded (x, y) points.
func (c *Curve) UnmarshalJSON(data []byte) error {
	var raw curveJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var built *Curve
	var err error
	if raw.HasFloorCeil {
		built, err = NewEfficiencyCurve(raw.Xs, raw.Ys)
	} else {
		built, err = New(raw.Xs, raw.Ys)
	}
	if err != nil {
		return fmt.Errorf("curve: decoding JSON: %w", err)
	}
	*c = *built
	return nil
}
