package component

import (
	"math"

	"github.com/sintef/feems/curve"
	"github.com/sintef/feems/ferror"
	"github.com/sintef/feems/fuel"
	"github.com/sintef/feems/units"
)

// Engine is a single-fuel internal combustion engine, the core
// numeric subsystem of the component layer.
type Engine struct {
	Base

	BSFCCurve  *curve.Curve // g/kWh vs load ratio
	FuelKind   fuel.Kind
	FuelOrigin fuel.Origin
	Cycle      Cycle
	NOxMethod  NOxMethod

	// EmissionCurves maps species to a g/kWh-vs-load curve. NOX is read
	// only when NOxMethod==NOxCurve; CH4/N2O, when present, trigger the
	// per-timestep GHG curve override on the fuel's TTW factors.
	EmissionCurves map[fuel.EmissionSpecies]*curve.Curve
}

// EngineRunPoint is the result of evaluating an engine at one operating
// point: fuel consumption (possibly multi-fuel, for dual/multi
// fuel engines), per-species emission rates in g/s, and the resolved load
// ratio.
type EngineRunPoint struct {
	Load               units.LoadRatio
	FuelMassFlowKgPerS float64
	Fuel               fuel.Fuel // TTW factors already override'd when curves are present
	EmissionGPerS      map[fuel.EmissionSpecies]float64
}

// imoNOxTierGPerKWh approximates the IMO Tier 1/2/3 g/kWh bands as a
// function of rated speed (rpm). Real IMO Annex VI bands are piecewise in
// rated rpm; we reproduce the three canonical breakpoints (<130, 130-1999,
// >=2000 rpm).
func imoNOxTierGPerKWh(tier NOxMethod, ratedRPM units.SpeedRPM) float64 {
	n := float64(ratedRPM)
	var band int
	switch {
	case n < 130:
		band = 0
	case n < 2000:
		band = 1
	default:
		band = 2
	}
	// [Tier1, Tier2, Tier3] g/kWh limits by rpm band.
	tier1 := [3]float64{17.0, 45.0 * math.Pow(n, -0.2), 9.8}
	tier2 := [3]float64{14.4, 44.0 * math.Pow(n, -0.23), 7.7}
	tier3 := [3]float64{3.4, 9.0 * math.Pow(n, -0.2), 1.96}
	switch tier {
	case NOxTier1:
		return tier1[band]
	case NOxTier2:
		return tier2[band]
	case NOxTier3:
		return tier3[band]
	default:
		return tier2[band]
	}
}

// resolveFuel returns userFuel's first entry verbatim when present (a
// component pinned to a named USER fuel, bypassing the regime table
// entirely), otherwise looks the fuel up in the regime's static table.
func resolveFuel(regime fuel.Regime, kind fuel.Kind, origin fuel.Origin, class fuel.ConsumerClass, userFuel ...*fuel.Fuel) (fuel.Fuel, error) {
	if len(userFuel) > 0 && userFuel[0] != nil {
		return *userFuel[0], nil
	}
	return fuel.Lookup(regime, kind, origin, class)
}

// RunPoint evaluates the engine kernel at absolute output power pOutKW
// under the given fuel accounting regime. The returned Fuel carries MassKg
// for one second of operation (FuelMassFlowKgPerS); callers integrate over
// time separately. userFuel, when supplied, pins the component to that exact
// fuel definition instead of the regime table (the USER regime's only valid
// source, since fuel.Lookup has no static table for it).
func (e *Engine) RunPoint(pOutKW units.PowerKW, regime fuel.Regime, userFuel ...*fuel.Fuel) (EngineRunPoint, error) {
	if e.BSFCCurve == nil || e.BSFCCurve.Len() == 0 {
		return EngineRunPoint{}, ferror.New(ferror.CurveDomain, "engine %s: missing BSFC curve", e.Name)
	}
	rated := float64(e.Rating.RatedPowerKW)
	if rated <= 0 {
		return EngineRunPoint{}, ferror.New(ferror.ConfigurationError, "engine %s: non-positive rated power", e.Name)
	}
	absOut := math.Abs(float64(pOutKW))
	load := clampLoad(absOut / rated)

	bsfc := e.BSFCCurve.Lookup(load) // g/kWh
	if math.IsNaN(bsfc) {
		return EngineRunPoint{}, ferror.New(ferror.CurveDomain, "engine %s: BSFC curve returned NaN at load %.4f", e.Name, load)
	}
	// fuel_mass_flow_kg_per_s = bsfc * |P_out| / 3.6e6.
	massFlowKgPerS := bsfc * absOut / 3.6e6

	emissions := make(map[fuel.EmissionSpecies]float64, len(e.EmissionCurves))
	for species, c := range e.EmissionCurves {
		if species == fuel.CH4 || species == fuel.N2O {
			continue // handled via the GHG override below, not as a direct rate.
		}
		rate := c.Lookup(load)
		if math.IsNaN(rate) {
			return EngineRunPoint{}, ferror.New(ferror.CurveDomain, "engine %s: %v curve returned NaN at load %.4f", e.Name, species, load)
		}
		emissions[species] = rate * absOut / 3600.0
	}

	// NOx.
	var noxGPerS float64
	if e.NOxMethod == NOxCurve {
		if c, ok := e.EmissionCurves[fuel.NOX]; ok {
			noxGPerS = c.Lookup(load) * absOut / 3600.0
		}
	} else {
		gPerKWh := imoNOxTierGPerKWh(e.NOxMethod, e.RatedSpeedRPM)
		noxGPerS = gPerKWh * absOut / 3600.0
	}
	emissions[fuel.NOX] = noxGPerS

	f, err := resolveFuel(regime, e.FuelKind, e.FuelOrigin, "", userFuel...)
	if err != nil {
		return EngineRunPoint{}, ferror.Wrap(ferror.ConfigurationError, err, "engine %s", e.Name)
	}
	f = f.WithMass(massFlowKgPerS)

	// GHG override: replace CH4/N2O TTW factors with
	// curve-derived per-fuel-mass factors and zero the slip term.
	var ch4Factors, n2oFactors []float64
	if c, ok := e.EmissionCurves[fuel.CH4]; ok && bsfc > 0 {
		ch4Factors = []float64{c.Lookup(load) / bsfc}
	}
	if c, ok := e.EmissionCurves[fuel.N2O]; ok && bsfc > 0 {
		n2oFactors = []float64{c.Lookup(load) / bsfc}
	}
	f = f.WithEmissionCurveGHGOverrides(ch4Factors, n2oFactors)

	return EngineRunPoint{
		Load:               units.LoadRatio(load),
		FuelMassFlowKgPerS: massFlowKgPerS,
		Fuel:               f,
		EmissionGPerS:      emissions,
	}, nil
}
