package component

import (
	"fmt"

	"github.com/sintef/feems/fuel"
	"github.com/sintef/feems/units"
)

// Variant is the closed tagged union over atomic component kinds. Exactly
// one of the pointer fields is non-nil, selected by Tag. SerialChain and
// the node solvers hold homogeneous []Variant slices and dispatch shared
// behavior through the methods below, which switch on Tag rather than
// relying on interface virtual dispatch.
type Variant struct {
	Tag Kind

	Engine          *Engine
	DualFuelEngine  *EngineDualFuel
	MultiFuelEngine *EngineMultiFuel
	ElectricMachine *ElectricMachine
	Converter       *Converter
	Mechanical      *Mechanical
	ShorePower      *ShorePower
	COGAS           *COGAS
	FuelCell        *FuelCell
	Battery         *Battery // also used for Supercapacitor (Tag distinguishes)
}

// FromEngine, FromDualFuelEngine, ... construct a Variant from a concrete
// component.
func FromEngine(e *Engine) Variant          { return Variant{Tag: e.Kind, Engine: e} }
func FromDualFuelEngine(e *EngineDualFuel) Variant {
	return Variant{Tag: e.Kind, DualFuelEngine: e}
}
func FromMultiFuelEngine(e *EngineMultiFuel) Variant {
	return Variant{Tag: e.Kind, MultiFuelEngine: e}
}
func FromElectricMachine(m *ElectricMachine) Variant { return Variant{Tag: m.Kind, ElectricMachine: m} }
func FromConverter(c *Converter) Variant             { return Variant{Tag: c.Kind, Converter: c} }
func FromMechanical(m *Mechanical) Variant           { return Variant{Tag: m.Kind, Mechanical: m} }
func FromShorePower(s *ShorePower) Variant           { return Variant{Tag: s.Kind, ShorePower: s} }
func FromCOGAS(g *COGAS) Variant                     { return Variant{Tag: g.Kind, COGAS: g} }
func FromFuelCell(fc *FuelCell) Variant              { return Variant{Tag: fc.Kind, FuelCell: fc} }
func FromBattery(b *Battery) Variant                 { return Variant{Tag: b.Kind, Battery: b} }

// Base returns the shared Base struct of whichever concrete component the
// variant wraps: a capability-oriented free function instead of an
// inherited base-class field.
func (v Variant) Base() (*Base, error) {
	switch v.Tag {
	case MainEngine, AuxEngine, Genset:
		if v.Engine != nil {
			return &v.Engine.Base, nil
		}
		if v.DualFuelEngine != nil {
			return &v.DualFuelEngine.Base, nil
		}
		if v.MultiFuelEngine != nil {
			return &v.MultiFuelEngine.Base, nil
		}
	case Generator, ElectricMotor, PTIPTO, SynchronousMachine, InductionMachine:
		if v.ElectricMachine != nil {
			return &v.ElectricMachine.Base, nil
		}
	case Rectifier, Transformer, Inverter, ActiveFrontEnd, PowerConverter, CircuitBreaker:
		if v.Converter != nil {
			return &v.Converter.Base, nil
		}
	case PropellerLoad, OtherMechanicalLoad, Gearbox, MainEngineWithGearbox, OtherLoad:
		if v.Mechanical != nil {
			return &v.Mechanical.Base, nil
		}
	case ShorePowerKind:
		if v.ShorePower != nil {
			return &v.ShorePower.Base, nil
		}
	case COGASKind, COGES:
		if v.COGAS != nil {
			return &v.COGAS.Base, nil
		}
	case FuelCellKind, FuelCellSystem:
		if v.FuelCell != nil {
			return &v.FuelCell.Base, nil
		}
	case BatteryKind, BatterySystem, SupercapacitorKind, SupercapacitorSystem:
		if v.Battery != nil {
			return &v.Battery.Base, nil
		}
	}
	return nil, fmt.Errorf("component: variant with tag %v has no populated concrete component", v.Tag)
}

// ForwardFromInput dispatches set_power_output_from_input to
// whichever concrete component the variant wraps, via its Rating contract.
func (v Variant) ForwardFromInput(pIn units.PowerKW) (units.PowerKW, units.LoadRatio, float64, error) {
	b, err := v.Base()
	if err != nil {
		return 0, 0, 0, err
	}
	out, load, eff := b.Rating.ForwardFromInput(pIn)
	return out, load, eff, nil
}

// ReverseFromOutput dispatches set_power_input_from_output.
func (v Variant) ReverseFromOutput(pOut units.PowerKW) (units.PowerKW, units.LoadRatio, float64, error) {
	b, err := v.Base()
	if err != nil {
		return 0, 0, 0, err
	}
	in, load, eff := b.Rating.ReverseFromOutput(pOut)
	return in, load, eff, nil
}

// RunFuelKernel dispatches the fuel/emission kernel for
// variants that burn fuel, given the resolved output power. Variants with
// no fuel kernel (electric machines, converters, mechanical links, shore
// power, batteries) return a zero EngineRunPoint with Fuel.Kind==KindNone-
// equivalent and no error, so callers can call this uniformly across a
// node's source list and simply skip zero-mass results. userFuel, when
// supplied, pins the component to a specific fuel definition instead of
// looking one up in regime's static table — the only way a USER-regime
// component resolves, since fuel.Lookup has no table for USER.
func (v Variant) RunFuelKernel(pOutKW units.PowerKW, regime fuel.Regime, userFuel ...*fuel.Fuel) (EngineRunPoint, error) {
	switch v.Tag {
	case MainEngine, AuxEngine, Genset:
		if v.Engine != nil {
			return v.Engine.RunPoint(pOutKW, regime, userFuel...)
		}
		if v.DualFuelEngine != nil {
			dual, err := v.DualFuelEngine.RunPoint(pOutKW, regime, userFuel...)
			if err != nil {
				return EngineRunPoint{}, err
			}
			return EngineRunPoint{
				Load:               dual.Load,
				FuelMassFlowKgPerS: dual.MainFuel.MassKg + dual.PilotFuel.MassKg,
				Fuel:               dual.MainFuel,
				EmissionGPerS:      dual.EmissionGPerS,
			}, nil
		}
		if v.MultiFuelEngine != nil {
			return v.MultiFuelEngine.RunPoint(pOutKW, regime, userFuel...)
		}
	case COGASKind, COGES:
		if v.COGAS != nil {
			return v.COGAS.RunPoint(pOutKW, regime, userFuel...)
		}
	case FuelCellKind, FuelCellSystem:
		if v.FuelCell != nil {
			return v.FuelCell.RunPoint(pOutKW, regime, userFuel...)
		}
	}
	return EngineRunPoint{Fuel: fuel.Fuel{}}, nil
}

// DualFuelConsumption returns the full two-entry fuel.Consumption for a
// dual-fuel engine variant, used by callers that need both main and pilot
// masses rather than the RunFuelKernel summary.
func (v Variant) DualFuelConsumption(pOutKW units.PowerKW, regime fuel.Regime) (*fuel.Consumption, error) {
	if v.DualFuelEngine == nil {
		return nil, fmt.Errorf("component: variant is not a dual-fuel engine")
	}
	r, err := v.DualFuelEngine.RunPoint(pOutKW, regime)
	if err != nil {
		return nil, err
	}
	return r.Consumption(), nil
}
