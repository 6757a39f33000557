package fuel

import "fmt"

// Fuel is a single fuel value: kind, origin, accounting regime, optional
// user-defined name, a mass (or mass-fraction, for USER blends), lower
// heating value, well-to-tank factor, and one or more tank-to-wake GHG
// factor rows.
type Fuel struct {
	Kind    Kind
	Origin  Origin
	Regime  Regime
	Name    string // required, non-empty, for USER regime only
	MassKg  float64
	LHVMJPerG       float64
	WTTFactorGCO2eqPerMJ float64
	TTWFactors      []GhgFactorTTW

	// CarbonFractionOfFuel is the mass fraction of carbon in the fuel,
	// used by GhgFactorTTW.Co2eq's slip term.
	CarbonFractionOfFuel float64
}

// Validate checks the Fuel invariants: USER regime requires a
// non-empty name, a set LHV, and at least one TTW factor entry.
func (f Fuel) Validate() error {
	if f.Regime == USER {
		if f.Name == "" {
			return fmt.Errorf("fuel: USER regime fuel requires a non-empty name")
		}
		if f.LHVMJPerG <= 0 {
			return fmt.Errorf("fuel: USER regime fuel %q requires a positive LHV", f.Name)
		}
		if len(f.TTWFactors) == 0 {
			return fmt.Errorf("fuel: USER regime fuel %q requires at least one TTW factor entry", f.Name)
		}
	}
	return nil
}

// aggregationKey is the unordered-multiset aggregation key:
// (kind, origin, regime) for non-USER fuels, (kind, origin, regime, name)
// for USER fuels.
type aggregationKey struct {
	kind   Kind
	origin Origin
	regime Regime
	name   string
}

func (f Fuel) key() aggregationKey {
	k := aggregationKey{kind: f.Kind, origin: f.Origin, regime: f.Regime}
	if f.Regime == USER {
		k.name = f.Name
	}
	return k
}

// WithMass returns a copy of f with MassKg replaced.
func (f Fuel) WithMass(massKg float64) Fuel {
	out := f
	out.MassKg = massKg
	return out
}

// cloneTTWFactors returns a deep copy of f's TTWFactors slice.
func cloneTTWFactors(in []GhgFactorTTW) []GhgFactorTTW {
	if in == nil {
		return nil
	}
	out := make([]GhgFactorTTW, len(in))
	for i, g := range in {
		out[i] = g.clone()
	}
	return out
}

// WithEmissionCurveGHGOverrides returns a new Fuel whose TTW factor entries
// have CH4 and/or N2O replaced by per-timestep arrays derived from engine
// emission curves. ch4FactorGPerG and n2oFactorGPerG are per-timestep
// slices of g-gas-per-g-fuel (computed by the engine kernel as
// curve(load)/bsfc). Passing nil for either leaves that species untouched.
// The receiver is never mutated: a new Fuel is returned that shares the
// unmodified parts and replaces only the TTW list.
//
// Applying WithEmissionCurveGHGOverrides(nil, nil) returns a Fuel that is
// value-equal to the receiver.
func (f Fuel) WithEmissionCurveGHGOverrides(ch4FactorGPerG, n2oFactorGPerG []float64) Fuel {
	if ch4FactorGPerG == nil && n2oFactorGPerG == nil {
		return f
	}
	out := f
	out.TTWFactors = cloneTTWFactors(f.TTWFactors)
	for i := range out.TTWFactors {
		row := &out.TTWFactors[i]
		if ch4FactorGPerG != nil {
			row.ArrayCh4 = append([]float64(nil), ch4FactorGPerG...)
			row.Ch4 = 0
		}
		if n2oFactorGPerG != nil {
			row.ArrayN2o = append([]float64(nil), n2oFactorGPerG...)
			row.N2o = 0
		}
		if ch4FactorGPerG != nil || n2oFactorGPerG != nil {
			// The curve captures total methane/N2O including slip, so
			// c_slip_percent MUST be zeroed to prevent double-counting.
			row.CSlipPercent = 0
		}
	}
	return out
}
