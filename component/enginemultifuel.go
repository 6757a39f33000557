package component

import (
	"fmt"

	"github.com/sintef/feems/curve"
	"github.com/sintef/feems/ferror"
	"github.com/sintef/feems/fuel"
	"github.com/sintef/feems/units"
)

// FuelConfig is one switchable fuel mode of an EngineMultiFuel.
type FuelConfig struct {
	FuelKind       fuel.Kind
	FuelOrigin     fuel.Origin
	BSFCCurve      *curve.Curve
	EmissionCurves map[fuel.EmissionSpecies]*curve.Curve
}

// EngineMultiFuel is an engine with several switchable fuel configurations,
// exactly one of which is "in use" for a given run. The active fuel is a
// read-only field set at construction; switching fuels produces a new,
// independent EngineMultiFuel rather than mutating the receiver.
type EngineMultiFuel struct {
	Base

	Configs     []FuelConfig
	ActiveIndex int
}

// Active returns an *Engine delegate configured with the currently active
// fuel, used to run the fuel/emission kernel.
func (e *EngineMultiFuel) Active() (*Engine, error) {
	if e.ActiveIndex < 0 || e.ActiveIndex >= len(e.Configs) {
		return nil, ferror.New(ferror.ConfigurationError, "engine %s: active fuel index %d out of range (have %d configs)", e.Name, e.ActiveIndex, len(e.Configs))
	}
	cfg := e.Configs[e.ActiveIndex]
	return &Engine{
		Base:           e.Base,
		BSFCCurve:      cfg.BSFCCurve,
		FuelKind:       cfg.FuelKind,
		FuelOrigin:     cfg.FuelOrigin,
		NOxMethod:      NOxTier2,
		EmissionCurves: cfg.EmissionCurves,
	}, nil
}

// WithActiveFuel returns a copy of e with a different fuel config selected,
// leaving e unmodified.
func (e *EngineMultiFuel) WithActiveFuel(index int) (*EngineMultiFuel, error) {
	if index < 0 || index >= len(e.Configs) {
		return nil, fmt.Errorf("engine %s: cannot select fuel config %d (have %d)", e.Name, index, len(e.Configs))
	}
	out := *e
	out.ActiveIndex = index
	return &out, nil
}

// RunPoint delegates to the active fuel configuration's engine kernel.
func (e *EngineMultiFuel) RunPoint(pOutKW units.PowerKW, regime fuel.Regime, userFuel ...*fuel.Fuel) (EngineRunPoint, error) {
	active, err := e.Active()
	if err != nil {
		return EngineRunPoint{}, err
	}
	return active.RunPoint(pOutKW, regime, userFuel...)
}
