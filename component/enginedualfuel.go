package component

import (
	"math"

	"github.com/sintef/feems/curve"
	"github.com/sintef/feems/ferror"
	"github.com/sintef/feems/fuel"
	"github.com/sintef/feems/units"
)

// EngineDualFuel is an engine that burns a main fuel plus a pilot fuel.
// Pilot fuel has no CH4/N2O curve attached; the per-cylinder GHG curve
// override applies to the main fuel only.
type EngineDualFuel struct {
	Engine // main fuel + main BSFC/emission curves, embedded

	PilotBSFCCurve  *curve.Curve
	PilotFuelKind   fuel.Kind
	PilotFuelOrigin fuel.Origin
}

// DualFuelRunPoint is the dual-fuel extension of EngineRunPoint: two Fuel
// entries (main + pilot), each with its own BSFC-derived mass flow.
type DualFuelRunPoint struct {
	Load          units.LoadRatio
	MainFuel      fuel.Fuel
	PilotFuel     fuel.Fuel
	EmissionGPerS map[fuel.EmissionSpecies]float64
}

// RunPoint evaluates both the main and pilot fuel consumption at pOutKW,
// applying the GHG override (from the main engine's CH4/N2O curves, if
// any) to the main fuel entry only. userFuel, when supplied, pins the main
// fuel only; the pilot fuel always comes from the regime table.
func (e *EngineDualFuel) RunPoint(pOutKW units.PowerKW, regime fuel.Regime, userFuel ...*fuel.Fuel) (DualFuelRunPoint, error) {
	main, err := e.Engine.RunPoint(pOutKW, regime, userFuel...)
	if err != nil {
		return DualFuelRunPoint{}, err
	}
	if e.PilotBSFCCurve == nil || e.PilotBSFCCurve.Len() == 0 {
		return DualFuelRunPoint{}, ferror.New(ferror.CurveDomain, "engine %s: missing pilot BSFC curve", e.Name)
	}
	rated := float64(e.Rating.RatedPowerKW)
	absOut := math.Abs(float64(pOutKW))
	load := clampLoad(absOut / rated)
	pilotBSFC := e.PilotBSFCCurve.Lookup(load)
	if math.IsNaN(pilotBSFC) {
		return DualFuelRunPoint{}, ferror.New(ferror.CurveDomain, "engine %s: pilot BSFC curve returned NaN at load %.4f", e.Name, load)
	}
	pilotMassFlow := pilotBSFC * absOut / 3.6e6

	pilotFuel, err := fuel.Lookup(regime, e.PilotFuelKind, e.PilotFuelOrigin, "")
	if err != nil {
		return DualFuelRunPoint{}, ferror.Wrap(ferror.ConfigurationError, err, "engine %s pilot fuel", e.Name)
	}
	pilotFuel = pilotFuel.WithMass(pilotMassFlow)

	return DualFuelRunPoint{
		Load:          main.Load,
		MainFuel:      main.Fuel,
		PilotFuel:     pilotFuel,
		EmissionGPerS: main.EmissionGPerS,
	}, nil
}

// Consumption returns the two fuel entries as a fuel.Consumption bag, the
// shape most callers (nodes, integration) want.
func (r DualFuelRunPoint) Consumption() *fuel.Consumption {
	c := fuel.NewConsumption()
	c.Add(r.MainFuel)
	c.Add(r.PilotFuel)
	return c
}
