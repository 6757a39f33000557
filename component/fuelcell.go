package component

import (
	"math"

	"github.com/sintef/feems/ferror"
	"github.com/sintef/feems/fuel"
	"github.com/sintef/feems/units"
)

// FuelCell models a fuel-cell power source: an efficiency
// curve over load ratio, a fuel type, a minimum specific power below which
// the cell cannot usefully operate, and a start delay (advisory metadata,
// same treatment as the ramp-limit fields).
type FuelCell struct {
	Base // Base.Rating.EffCurve is efficiency-vs-load

	FuelKind            fuel.Kind
	FuelOrigin          fuel.Origin
	MinimumSpecificPowerKW units.PowerKW
	StartDelaySeconds   float64
}

// RunPoint evaluates fuel consumption at absolute output power pOutKW using
// the same efficiency/LHV formula as COGAS, since fuel cells
// are likewise efficiency-curve-based rather than BSFC-based. Fuel cells
// have no emission curves in this model (their combustion species are nil
// by construction upstream).
func (fc *FuelCell) RunPoint(pOutKW units.PowerKW, regime fuel.Regime, userFuel ...*fuel.Fuel) (EngineRunPoint, error) {
	if fc.Rating.EffCurve == nil || fc.Rating.EffCurve.Len() == 0 {
		return EngineRunPoint{}, ferror.New(ferror.CurveDomain, "fuel cell %s: missing efficiency curve", fc.Name)
	}
	rated := float64(fc.Rating.RatedPowerKW)
	if rated <= 0 {
		return EngineRunPoint{}, ferror.New(ferror.ConfigurationError, "fuel cell %s: non-positive rated power", fc.Name)
	}
	absOut := math.Abs(float64(pOutKW))
	if absOut > 0 && absOut < float64(fc.MinimumSpecificPowerKW) {
		return EngineRunPoint{}, ferror.New(ferror.ConfigurationError, "fuel cell %s: requested power %.4f kW below minimum specific power %.4f kW", fc.Name, absOut, float64(fc.MinimumSpecificPowerKW))
	}
	load := clampLoad(absOut / rated)
	eta := fc.Rating.Efficiency(units.LoadRatio(load))

	f, err := resolveFuel(regime, fc.FuelKind, fc.FuelOrigin, "", userFuel...)
	if err != nil {
		return EngineRunPoint{}, ferror.Wrap(ferror.ConfigurationError, err, "fuel cell %s", fc.Name)
	}
	if f.LHVMJPerG <= 0 {
		return EngineRunPoint{}, ferror.New(ferror.ConfigurationError, "fuel cell %s: fuel has non-positive LHV", fc.Name)
	}
	fuelKgPerS := (absOut * 1000.0) / (eta * f.LHVMJPerG * 1e9)
	f = f.WithMass(fuelKgPerS)

	return EngineRunPoint{
		Load:               units.LoadRatio(load),
		FuelMassFlowKgPerS: fuelKgPerS,
		Fuel:               f,
		EmissionGPerS:      map[fuel.EmissionSpecies]float64{},
	}, nil
}
