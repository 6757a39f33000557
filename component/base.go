package component

import (
	"math"

	"github.com/sintef/feems/curve"
	"github.com/sintef/feems/units"
)

// LoadTolerance is the fractional overshoot allowed on rated power before a
// component is considered to exceed its rating.
const LoadTolerance = 1.01

// maxFixedPointIterations bounds the implicit load solve described in
// Rating's doc comment below.
const maxFixedPointIterations = 50

// fixedPointTolerance is the convergence criterion (absolute, on load
// ratio) for the implicit solve.
const fixedPointTolerance = 1e-9

// Rating is the shared load/efficiency contract: a rated power and an
// efficiency curve indexed by load ratio in [0,1]. It
// implements both of the contract's pure functions:
//
//	set_power_output_from_input(P_in) -> (P_out, load)   (ForwardFromInput)
//	set_power_input_from_output(P_out) -> (P_in, load)   (ReverseFromOutput)
//
// Sign convention: when the known power is non-negative the
// component is in "forward" flow (load anchored on P_out, η=P_out/P_in);
// when negative it is in "reverse" flow (load anchored on P_in,
// η=P_in/P_out). Whichever of ForwardFromInput/ReverseFromOutput is asked
// to produce the *anchor* side's power resolves directly from a single
// curve lookup; the other direction requires solving the implicit
// load = curve(load)·(known/rated) equation, since the curve argument and
// the unknown power are mutually dependent. The fixed-point iteration
// below converges quickly because efficiency curves are bounded in
// [0.01, 1.0] and slowly varying with load.
type Rating struct {
	RatedPowerKW units.PowerKW
	EffCurve     *curve.Curve
}

// Efficiency looks up the curve at the given (already-clamped) load ratio.
func (r Rating) Efficiency(load units.LoadRatio) float64 {
	return r.EffCurve.Lookup(float64(load))
}

func clampLoad(load float64) float64 {
	if load < 0 {
		return 0
	}
	if load > LoadTolerance {
		return LoadTolerance
	}
	return load
}

// ForwardFromInput computes (P_out, load, efficiency) from a known P_in.
func (r Rating) ForwardFromInput(pIn units.PowerKW) (units.PowerKW, units.LoadRatio, float64) {
	rated := float64(r.RatedPowerKW)
	known := float64(pIn)
	if known >= 0 {
		// forward-sign flow, data-forward: anchor (P_out) is unknown -> implicit.
		load := r.solveImplicit(math.Abs(known)/rated, math.Abs(known)/rated, true)
		eff := r.Efficiency(units.LoadRatio(load))
		pOut := eff * known
		return units.PowerKW(pOut), units.LoadRatio(load), eff
	}
	// reverse-sign flow, data-forward: anchor (P_in) is known -> direct.
	load := clampLoad(math.Abs(known) / rated)
	eff := r.Efficiency(units.LoadRatio(load))
	pOut := known * eff
	return units.PowerKW(pOut), units.LoadRatio(load), eff
}

// ReverseFromOutput computes (P_in, load, efficiency) from a known P_out.
func (r Rating) ReverseFromOutput(pOut units.PowerKW) (units.PowerKW, units.LoadRatio, float64) {
	rated := float64(r.RatedPowerKW)
	known := float64(pOut)
	if known >= 0 {
		// forward-sign flow, data-reverse: anchor (P_out) is known -> direct.
		load := clampLoad(math.Abs(known) / rated)
		eff := r.Efficiency(units.LoadRatio(load))
		pIn := known / eff
		return units.PowerKW(pIn), units.LoadRatio(load), eff
	}
	// reverse-sign flow, data-reverse: anchor (P_in) is unknown -> implicit.
	load := r.solveImplicit(math.Abs(known)/rated, math.Abs(known)/rated, false)
	eff := r.Efficiency(units.LoadRatio(load))
	pIn := known / eff
	return units.PowerKW(pIn), units.LoadRatio(load), eff
}

// solveImplicit finds load such that:
//   - forwardAnchorIsOutput==true:  load = curve(load) * knownOverRated
//   - forwardAnchorIsOutput==false: load = knownOverRated / curve(load)
//
// via fixed-point iteration seeded at start, clamping each iterate into
// [0, LoadTolerance].
func (r Rating) solveImplicit(knownOverRated, start float64, forwardAnchorIsOutput bool) float64 {
	load := clampLoad(start)
	for i := 0; i < maxFixedPointIterations; i++ {
		eff := r.Efficiency(units.LoadRatio(load))
		var next float64
		if forwardAnchorIsOutput {
			next = eff * knownOverRated
		} else {
			next = knownOverRated / eff
		}
		next = clampLoad(next)
		if math.Abs(next-load) < fixedPointTolerance {
			load = next
			break
		}
		load = next
	}
	return load
}

// Base holds the fields shared by every atomic component: identity, topology placement, rating, and the
// per-timestep state arrays written once by the solver.
type Base struct {
	UID  string
	Name string
	Kind Kind
	Role Role

	Rating Rating
	// RatedSpeedRPM is used by engines selecting an IMO NOx tier band and
	// is otherwise advisory.
	RatedSpeedRPM units.SpeedRPM

	// SwitchboardOrShaftlineID is the id of the node this component is
	// attached to.
	SwitchboardOrShaftlineID string

	// BaseLoadOrder promotes priority sources; 0 means none.
	BaseLoadOrder int

	// RampUpLimitPercentPerSecond/RampDownLimitPercentPerSecond are
	// advisory metadata only. The solver does not read these fields.
	RampUpLimitPercentPerSecond   float64
	RampDownLimitPercentPerSecond float64

	// Per-timestep state, written exactly once by the solver. T = timestep count.
	Status         []bool
	PowerInputKW   []units.PowerKW
	PowerOutputKW  []units.PowerKW
	LoadRatio      []units.LoadRatio
	Efficiency     []float64
	LoadSharingMode []float64
}

// EnsureTimesteps grows every per-timestep slice to length T, a helper used
// by input staging.
func (b *Base) EnsureTimesteps(t int) {
	grow := func(s []bool) []bool {
		if len(s) >= t {
			return s
		}
		out := make([]bool, t)
		copy(out, s)
		return out
	}
	growF := func(s []float64) []float64 {
		if len(s) >= t {
			return s
		}
		out := make([]float64, t)
		copy(out, s)
		return out
	}
	b.Status = grow(b.Status)
	if len(b.PowerInputKW) < t {
		out := make([]units.PowerKW, t)
		copy(out, b.PowerInputKW)
		b.PowerInputKW = out
	}
	if len(b.PowerOutputKW) < t {
		out := make([]units.PowerKW, t)
		copy(out, b.PowerOutputKW)
		b.PowerOutputKW = out
	}
	if len(b.LoadRatio) < t {
		out := make([]units.LoadRatio, t)
		copy(out, b.LoadRatio)
		b.LoadRatio = out
	}
	b.Efficiency = growF(b.Efficiency)
	b.LoadSharingMode = growF(b.LoadSharingMode)
}

// RunningHoursHr returns Σ status[t]·Δt/3600.
func (b *Base) RunningHoursHr(dtSeconds float64) float64 {
	hrs := 0.0
	for _, on := range b.Status {
		if on {
			hrs += dtSeconds / 3600.0
		}
	}
	return hrs
}
