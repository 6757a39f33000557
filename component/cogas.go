package component

import (
	"math"

	"github.com/sintef/feems/curve"
	"github.com/sintef/feems/ferror"
	"github.com/sintef/feems/fuel"
	"github.com/sintef/feems/units"
)

// COGAS models a combined gas-and-steam turbine: unlike Engine,
// it is efficiency-curve-based rather than BSFC-based. Fuel mass is derived
// from P_out/(η(load)·LHV), and an equivalent BSFC is back-computed so the
// same CH4/N2O curve override machinery as Engine
// applies identically.
type COGAS struct {
	Base // Base.Rating.EffCurve is the efficiency-vs-load curve

	FuelKind       fuel.Kind
	FuelOrigin     fuel.Origin
	EmissionCurves map[fuel.EmissionSpecies]*curve.Curve
}

// RunPoint evaluates the COGAS kernel at absolute output power pOutKW under
// the given fuel accounting regime. userFuel, when supplied, pins the
// component to that fuel instead of the regime table.
func (g *COGAS) RunPoint(pOutKW units.PowerKW, regime fuel.Regime, userFuel ...*fuel.Fuel) (EngineRunPoint, error) {
	if g.Rating.EffCurve == nil || g.Rating.EffCurve.Len() == 0 {
		return EngineRunPoint{}, ferror.New(ferror.CurveDomain, "cogas %s: missing efficiency curve", g.Name)
	}
	rated := float64(g.Rating.RatedPowerKW)
	if rated <= 0 {
		return EngineRunPoint{}, ferror.New(ferror.ConfigurationError, "cogas %s: non-positive rated power", g.Name)
	}
	absOut := math.Abs(float64(pOutKW))
	load := clampLoad(absOut / rated)

	eta := g.Rating.Efficiency(units.LoadRatio(load))

	f, err := resolveFuel(regime, g.FuelKind, g.FuelOrigin, "", userFuel...)
	if err != nil {
		return EngineRunPoint{}, ferror.Wrap(ferror.ConfigurationError, err, "cogas %s", g.Name)
	}
	if f.LHVMJPerG <= 0 {
		return EngineRunPoint{}, ferror.New(ferror.ConfigurationError, "cogas %s: fuel has non-positive LHV", g.Name)
	}
	// fuel_kg_per_s = P_out_kW / (eta * LHV_MJ_per_g) converted consistently:
	// P_out [kW] = P_out*1000 [J/s]; LHV is MJ/g = 1e6 J/g = 1e9 J/kg.
	fuelKgPerS := (absOut * 1000.0) / (eta * f.LHVMJPerG * 1e9)
	// equivalent BSFC (g/kWh) = fuel_kg_per_s * 3.6e6 / |P_out|.
	var bsfcEquivalent float64
	if absOut > 0 {
		bsfcEquivalent = fuelKgPerS * 3.6e6 / absOut
	}
	f = f.WithMass(fuelKgPerS)

	emissions := make(map[fuel.EmissionSpecies]float64, len(g.EmissionCurves))
	for species, c := range g.EmissionCurves {
		if species == fuel.CH4 || species == fuel.N2O {
			continue
		}
		emissions[species] = c.Lookup(load) * absOut / 3600.0
	}

	var ch4Factors, n2oFactors []float64
	if c, ok := g.EmissionCurves[fuel.CH4]; ok && bsfcEquivalent > 0 {
		ch4Factors = []float64{c.Lookup(load) / bsfcEquivalent}
	}
	if c, ok := g.EmissionCurves[fuel.N2O]; ok && bsfcEquivalent > 0 {
		n2oFactors = []float64{c.Lookup(load) / bsfcEquivalent}
	}
	f = f.WithEmissionCurveGHGOverrides(ch4Factors, n2oFactors)

	return EngineRunPoint{
		Load:               units.LoadRatio(load),
		FuelMassFlowKgPerS: fuelKgPerS,
		Fuel:               f,
		EmissionGPerS:      emissions,
	}, nil
}
