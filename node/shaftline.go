package node

import (
	"github.com/sintef/feems/chain"
	"github.com/sintef/feems/component"
	"github.com/sintef/feems/ferror"
	"github.com/sintef/feems/fuel"
	"github.com/sintef/feems/units"
)

// ShaftlineMode selects how mechanical propulsion demand is split between
// the main engine and a PTI/PTO electric machine on the same shaft.
type ShaftlineMode int

const (
	// MechanicalOnly: the main engine alone drives the propeller; any
	// PTI/PTO machine present is idle.
	MechanicalOnly ShaftlineMode = iota
	// PTIAssist: the main engine is filled to its rated capacity first,
	// and the PTI/PTO machine (drawing from the switchboard) supplies the
	// remainder.
	PTIAssist
	// FullPTI: the main engine is off; the PTI/PTO machine alone drives
	// the propeller from electrical power.
	FullPTI
	// PTOExport: the main engine covers propeller demand and any surplus
	// rated capacity is exported as electrical power via the PTO machine
	// running in reverse (generating).
	PTOExport
)

// Shaftline is a mechanical bus: a propeller (or other mechanical load), a
// main engine (optionally behind a gearbox chain), and an optional PTI/PTO
// electric machine sharing the same shaft.
type Shaftline struct {
	UID    string
	Name   string
	Mode   ShaftlineMode
	Engine *chain.SerialChain // nil only in FullPTI
	PTIPTO *component.Variant // nil when no PTI/PTO machine is fitted
}

// ShaftlineResult is the outcome of balancing one timestep's mechanical demand.
type ShaftlineResult struct {
	DemandKW      units.PowerKW
	EnginePowerKW units.PowerKW // mechanical power delivered by the main engine leg
	PTIPTOPowerKW units.PowerKW // signed: positive = PTI (electric drives shaft), negative = PTO (shaft exports electrically)
	EngineLoad    units.LoadRatio
	FuelPoint     component.EngineRunPoint

	// Links is one entry per registered component on the shaftline: every
	// link of the main engine chain, plus the PTI/PTO machine when it
	// resolved power this timestep.
	Links []LinkDetail
}

// Solve resolves demandKW (mechanical power at the propeller, >=0) under the
// shaftline's configured mode. regime selects the fuel accounting table for
// the main engine, unless fuelFor (optional) overrides it per component.
func (s *Shaftline) Solve(demandKW units.PowerKW, regime fuel.Regime, fuelFor ...FuelFor) (ShaftlineResult, error) {
	regimeFor := defaultFuelFor(regime, fuelFor)
	switch s.Mode {
	case FullPTI:
		return s.solveFullPTI(demandKW)
	case PTIAssist:
		return s.solvePTIAssist(demandKW, regimeFor)
	case PTOExport:
		return s.solvePTOExport(demandKW, regimeFor)
	default:
		return s.solveMechanicalOnly(demandKW, regimeFor)
	}
}

// engineLinkDetails resolves the main engine chain's per-link operating
// points, returning the chain result, the engine (link 0) fuel point and the
// assembled LinkDetail slice.
func engineLinkDetails(c *chain.SerialChain, r chain.Result, regimeFor FuelFor, on bool) ([]LinkDetail, component.EngineRunPoint, error) {
	links := make([]LinkDetail, len(c.Links))
	var enginefp component.EngineRunPoint
	for i, link := range c.Links {
		b, err := link.Base()
		if err != nil {
			return nil, component.EngineRunPoint{}, err
		}
		regime, userFuel := regimeFor(b.UID)
		fp, err := link.RunFuelKernel(r.LinkPowerOutKW[i], regime, userFuel)
		if err != nil {
			return nil, component.EngineRunPoint{}, err
		}
		ld, err := newLinkDetail(link, r.LinkPowerInKW[i], r.LinkPowerOutKW[i], r.LinkLoads[i], r.LinkEffs[i], fp, on, 0)
		if err != nil {
			return nil, component.EngineRunPoint{}, err
		}
		links[i] = ld
		if fp.Fuel.Kind != fuel.KindNone {
			enginefp = fp
		}
	}
	return links, enginefp, nil
}

func (s *Shaftline) solveMechanicalOnly(demandKW units.PowerKW, regimeFor FuelFor) (ShaftlineResult, error) {
	if s.Engine == nil {
		return ShaftlineResult{}, ferror.New(ferror.ConfigurationError, "shaftline %s: mechanical-only mode requires a main engine", s.Name)
	}
	r, err := s.Engine.ReverseFromOutput(demandKW)
	if err != nil {
		return ShaftlineResult{}, err
	}
	links, fp, err := engineLinkDetails(s.Engine, r, regimeFor, demandKW != 0)
	if err != nil {
		return ShaftlineResult{}, err
	}
	return ShaftlineResult{
		DemandKW:      demandKW,
		EnginePowerKW: demandKW,
		EngineLoad:    r.LinkLoads[len(r.LinkLoads)-1],
		FuelPoint:     fp,
		Links:         links,
	}, nil
}

func (s *Shaftline) solveFullPTI(demandKW units.PowerKW) (ShaftlineResult, error) {
	if s.PTIPTO == nil {
		return ShaftlineResult{}, ferror.New(ferror.ConfigurationError, "shaftline %s: full-PTI mode requires a PTI/PTO machine", s.Name)
	}
	electricKW, load, eff, err := s.PTIPTO.ReverseFromOutput(demandKW)
	if err != nil {
		return ShaftlineResult{}, err
	}
	ld, err := newLinkDetail(*s.PTIPTO, electricKW, demandKW, load, eff, component.EngineRunPoint{}, demandKW != 0, 0)
	if err != nil {
		return ShaftlineResult{}, err
	}
	return ShaftlineResult{
		DemandKW:      demandKW,
		PTIPTOPowerKW: electricKW,
		EngineLoad:    load,
		Links:         []LinkDetail{ld},
	}, nil
}

func (s *Shaftline) solvePTIAssist(demandKW units.PowerKW, regimeFor FuelFor) (ShaftlineResult, error) {
	if s.Engine == nil || s.PTIPTO == nil {
		return ShaftlineResult{}, ferror.New(ferror.ConfigurationError, "shaftline %s: PTI-assist mode requires both a main engine and a PTI/PTO machine", s.Name)
	}
	engineBase, err := s.Engine.Links[len(s.Engine.Links)-1].Base()
	if err != nil {
		return ShaftlineResult{}, err
	}
	enginePortion := demandKW
	if enginePortion > engineBase.Rating.RatedPowerKW {
		enginePortion = engineBase.Rating.RatedPowerKW
	}
	ptiPortion := demandKW - enginePortion

	r, err := s.Engine.ReverseFromOutput(enginePortion)
	if err != nil {
		return ShaftlineResult{}, err
	}
	links, fp, err := engineLinkDetails(s.Engine, r, regimeFor, enginePortion != 0)
	if err != nil {
		return ShaftlineResult{}, err
	}
	var ptiElectricKW units.PowerKW
	if ptiPortion > 0 {
		electricKW, load, eff, err := s.PTIPTO.ReverseFromOutput(ptiPortion)
		if err != nil {
			return ShaftlineResult{}, err
		}
		ptiElectricKW = electricKW
		ld, err := newLinkDetail(*s.PTIPTO, electricKW, ptiPortion, load, eff, component.EngineRunPoint{}, true, 0)
		if err != nil {
			return ShaftlineResult{}, err
		}
		links = append(links, ld)
	}
	return ShaftlineResult{
		DemandKW:      demandKW,
		EnginePowerKW: enginePortion,
		PTIPTOPowerKW: ptiElectricKW,
		EngineLoad:    r.LinkLoads[len(r.LinkLoads)-1],
		FuelPoint:     fp,
		Links:         links,
	}, nil
}

func (s *Shaftline) solvePTOExport(demandKW units.PowerKW, regimeFor FuelFor) (ShaftlineResult, error) {
	if s.Engine == nil || s.PTIPTO == nil {
		return ShaftlineResult{}, ferror.New(ferror.ConfigurationError, "shaftline %s: PTO-export mode requires both a main engine and a PTI/PTO machine", s.Name)
	}
	engineBase, err := s.Engine.Links[len(s.Engine.Links)-1].Base()
	if err != nil {
		return ShaftlineResult{}, err
	}
	surplus := engineBase.Rating.RatedPowerKW - demandKW
	if surplus < 0 {
		surplus = 0
	}
	enginePortion := demandKW + surplus

	r, err := s.Engine.ReverseFromOutput(enginePortion)
	if err != nil {
		return ShaftlineResult{}, err
	}
	links, fp, err := engineLinkDetails(s.Engine, r, regimeFor, enginePortion != 0)
	if err != nil {
		return ShaftlineResult{}, err
	}
	// surplus exported as negative PTIPTO power (shaft -> electrical).
	var ptiElectricKW units.PowerKW
	if surplus > 0 {
		electricKW, load, eff, err := s.PTIPTO.ReverseFromOutput(-surplus)
		if err != nil {
			return ShaftlineResult{}, err
		}
		ptiElectricKW = electricKW
		ld, err := newLinkDetail(*s.PTIPTO, electricKW, -surplus, load, eff, component.EngineRunPoint{}, true, 0)
		if err != nil {
			return ShaftlineResult{}, err
		}
		links = append(links, ld)
	}
	return ShaftlineResult{
		DemandKW:      demandKW,
		EnginePowerKW: enginePortion,
		PTIPTOPowerKW: ptiElectricKW,
		EngineLoad:    r.LinkLoads[len(r.LinkLoads)-1],
		FuelPoint:     fp,
		Links:         links,
	}, nil
}
