// Package system composes the node-level balance solvers (switchboards,
// shaftlines) into the four system topologies a vessel's power plant can
// take, and runs them timestep by timestep over a staged input set,
// integrating fuel, emissions and running hours into a result.Result.
package system

import (
	"github.com/sintef/feems/component"
	"github.com/sintef/feems/config"
	"github.com/sintef/feems/ferror"
	"github.com/sintef/feems/fuel"
	"github.com/sintef/feems/integrate"
	"github.com/sintef/feems/node"
	"github.com/sintef/feems/result"
	"github.com/sintef/feems/units"
)

// Kind is the closed enumeration of system topologies.
type Kind int

const (
	// ElectricPowerSystem: an electrical bus only (gensets, batteries,
	// shore power, electric propulsion loads all behind one switchboard
	// pool).
	ElectricPowerSystem Kind = iota
	// MechanicalPropulsionSystem: one or more mechanical shaftlines only,
	// each with its own main engine, no electrical coupling.
	MechanicalPropulsionSystem
	// MechanicalPropulsionSystemWithElectricPowerSystem: independent
	// mechanical shaftlines and an electrical bus (e.g. hotel load
	// gensets), with no PTI/PTO power transfer between them.
	MechanicalPropulsionSystemWithElectricPowerSystem
	// HybridPropulsionSystem: shaftlines whose PTI/PTO machines draw from
	// or feed into the electrical bus.
	HybridPropulsionSystem
)

// System is a fully wired vessel power plant.
type System struct {
	Kind        Kind
	Switchboard *node.Switchboard // nil for MechanicalPropulsionSystem
	Shaftlines  []*node.Shaftline // nil for ElectricPowerSystem
	Storages    []node.Source     // SourceStorage entries on the switchboard
	Options     config.Options
}

// Inputs is one run's staged per-timestep demand.
type Inputs struct {
	Timesteps int
	// TimePointOffset is added to each local timestep index to produce
	// result.DetailRow.TimePoint, letting an orchestrator that calls Run once
	// per timestep report the correct absolute time point.
	TimePointOffset    int
	ElectricDemandKW   []float64            // hotel/base electrical load, length Timesteps
	MechanicalDemandKW map[string][]float64 // keyed by shaftline UID, each length Timesteps
	StorageRequestKW   map[string][]float64 // keyed by storage UID; positive=charge, negative=discharge
	SoC0ByStorage      map[string]units.SoC
}

// Run executes the system over every timestep in inputs, returning the
// aggregated result.
func (s *System) Run(inputs Inputs) (*result.Result, error) {
	if inputs.Timesteps <= 0 {
		return nil, ferror.New(ferror.ConfigurationError, "system: timesteps must be positive")
	}
	dt := s.Options.TimestepSeconds
	res := result.New()
	fuelFor := s.fuelForResolver()
	baseByUID := s.baseComponentsByUID()

	fuelSeriesByKey := map[fuelKey]*fuelSeries{}
	emissionSeries := map[fuel.EmissionSpecies][]float64{}
	statusByUID := map[string][]bool{}

	soc := map[string]units.SoC{}
	for uid, s0 := range inputs.SoC0ByStorage {
		soc[uid] = s0
	}

	for t := 0; t < inputs.Timesteps; t++ {
		timePoint := t + inputs.TimePointOffset
		var electricDemand units.PowerKW
		if len(inputs.ElectricDemandKW) > 0 {
			electricDemand = units.PowerKW(inputs.ElectricDemandKW[t])
		}

		for _, sl := range s.Shaftlines {
			series, ok := inputs.MechanicalDemandKW[sl.UID]
			if !ok {
				return nil, ferror.New(ferror.InputShape, "system: no mechanical demand supplied for shaftline %s", sl.UID)
			}
			sr, err := sl.Solve(units.PowerKW(series[t]), s.Options.FuelRegime, fuelFor)
			if err != nil {
				return nil, err
			}
			statusByUID[sl.UID] = append(statusByUID[sl.UID], sr.EnginePowerKW != 0)
			recordLinks(res, sr.Links, timePoint, dt, baseByUID, fuelSeriesByKey, emissionSeries)

			if s.Kind == HybridPropulsionSystem {
				// Positive PTI power is electrical load; negative (PTO) is
				// electrical generation, reducing switchboard demand.
				electricDemand += sr.PTIPTOPowerKW
			}
		}

		for _, st := range s.Storages {
			requestSeries, ok := inputs.StorageRequestKW[st.UID]
			if !ok {
				continue
			}
			requested := units.PowerKW(requestSeries[t])
			before := soc[st.UID]
			stepRes, err := node.DispatchStorage(st, before, requested, dt, !s.Options.IgnorePowerBalance)
			if err != nil {
				return nil, err
			}
			soc[st.UID] = stepRes.SoCAfter
			// Discharging (negative achieved power) offsets demand;
			// charging adds to it.
			electricDemand += stepRes.AchievedPowerKW
			statusByUID[st.UID] = append(statusByUID[st.UID], stepRes.AchievedPowerKW != 0)
			res.Detail = append(res.Detail, storageDetailRow(st, stepRes, timePoint, dt))
			if b, ok := baseByUID[st.UID]; ok {
				writeBaseState(b, timePoint, stepRes.AchievedPowerKW != 0, stepRes.AchievedPowerKW, 0, 0, 0, 0)
			}
		}

		if s.Switchboard != nil {
			if electricDemand < 0 {
				electricDemand = 0
			}
			sbRes, err := s.Switchboard.Solve(electricDemand, s.Options.FuelRegime, s.Options.IgnorePowerBalance, fuelFor)
			if err != nil {
				return nil, err
			}
			for _, sr := range sbRes.Sources {
				statusByUID[sr.UID] = append(statusByUID[sr.UID], sr.PowerKW != 0)
				recordLinks(res, sr.Links, timePoint, dt, baseByUID, fuelSeriesByKey, emissionSeries)
			}
		}
	}

	if err := finalizeFuelTotals(res, fuelSeriesByKey, dt, s.Options.IntegrationRule); err != nil {
		return nil, err
	}
	if err := finalizeEmissions(res, emissionSeries, dt, s.Options.IntegrationRule); err != nil {
		return nil, err
	}
	for uid, status := range statusByUID {
		res.RunningHoursHrByComponent[uid] = integrate.RunningHoursHr(status, dt)
	}
	for uid, endingSoC := range soc {
		res.EndingSoCByStorage[uid] = endingSoC
	}
	return res, nil
}

// fuelForResolver builds a node.FuelFor closure from s.Options, letting a
// component pinned to fuel.USER by RegimeForComponent resolve to its pinned
// fuel.Fuel instead of hitting fuel.Lookup's "no static table" error.
func (s *System) fuelForResolver() node.FuelFor {
	return func(uid string) (fuel.Regime, *fuel.Fuel) {
		regime := s.Options.RegimeForComponent(uid)
		if regime == fuel.USER {
			if f, ok := s.Options.UserFuelForComponent(uid); ok {
				return regime, &f
			}
		}
		return regime, nil
	}
}

// baseComponentsByUID walks every registered shaftline, switchboard source
// and storage device and indexes their *component.Base by UID, so Run can
// write each timestep's resolved operating point back into the component's
// own per-timestep state arrays.
func (s *System) baseComponentsByUID() map[string]*component.Base {
	out := map[string]*component.Base{}
	add := func(v component.Variant) {
		b, err := v.Base()
		if err != nil {
			return
		}
		out[b.UID] = b
	}
	for _, sl := range s.Shaftlines {
		if sl.Engine != nil {
			for _, link := range sl.Engine.Links {
				add(link)
			}
		}
		if sl.PTIPTO != nil {
			add(*sl.PTIPTO)
		}
	}
	if s.Switchboard != nil {
		for _, src := range s.Switchboard.Sources {
			if src.Chain != nil {
				for _, link := range src.Chain.Links {
					add(link)
				}
			}
			if src.Component != nil {
				add(*src.Component)
			}
		}
	}
	for _, st := range s.Storages {
		if st.Component != nil {
			add(*st.Component)
		}
	}
	return out
}

// writeBaseState records one timestep's resolved operating point into b's
// per-timestep arrays, growing them first. sharingWeight is the w_k a
// Switchboard peer-tier share was computed with this timestep (0 for
// components that never go through weighted sharing).
func writeBaseState(b *component.Base, t int, on bool, pOutKW, pInKW units.PowerKW, load units.LoadRatio, eff, sharingWeight float64) {
	b.EnsureTimesteps(t + 1)
	b.Status[t] = on
	b.PowerOutputKW[t] = pOutKW
	b.PowerInputKW[t] = pInKW
	b.LoadRatio[t] = load
	b.Efficiency[t] = eff
	b.LoadSharingMode[t] = sharingWeight
}

// recordLinks turns one node's resolved LinkDetail slice into per-timestep
// result.DetailRow entries, feeds the fleet-wide fuel/emission aggregation
// series, and writes each backing component's per-timestep state.
func recordLinks(res *result.Result, links []node.LinkDetail, timePoint int, dt float64, baseByUID map[string]*component.Base, fuelSeriesByKey map[fuelKey]*fuelSeries, emissionSeries map[fuel.EmissionSpecies][]float64) {
	for _, ld := range links {
		recordFuelPoint(ld.FuelPoint, dt, fuelSeriesByKey, emissionSeries)
		res.Detail = append(res.Detail, result.DetailRow{
			ComponentUID:      ld.UID,
			Name:              ld.Name,
			Kind:              ld.Kind,
			SwitchboardID:     ld.SwitchboardOrShaftlineID,
			TimePoint:         timePoint,
			PowerOutputKW:     ld.PowerOutKW,
			PowerInputKW:      ld.PowerInKW,
			LoadRatio:         ld.LoadRatio,
			Efficiency:        ld.Efficiency,
			FuelConsumptionKg: fuelMassKg(ld.FuelPoint, dt),
			Co2EmissionKg:     co2EmissionKg(ld.FuelPoint, dt),
			NoxEmissionKg:     speciesEmissionKg(ld.FuelPoint, fuel.NOX, dt),
			RunningHoursHr:    runningHoursHr(ld.On, dt),
			Status:            ld.On,
		})
		if b, ok := baseByUID[ld.UID]; ok {
			writeBaseState(b, timePoint, ld.On, ld.PowerOutKW, ld.PowerInKW, ld.LoadRatio, ld.Efficiency, ld.SharingWeight)
		}
	}
}

// storageDetailRow builds the per-timestep detail row for a storage device,
// which resolves through node.DispatchStorage rather than a LinkDetail.
func storageDetailRow(st node.Source, stepRes component.StepResult, timePoint int, dt float64) result.DetailRow {
	b, err := st.Component.Base()
	name, kind, switchboardID := st.UID, component.Kind(0), ""
	if err == nil {
		name, kind, switchboardID = b.Name, b.Kind, b.SwitchboardOrShaftlineID
	}
	on := stepRes.AchievedPowerKW != 0
	powerOut, powerIn := units.PowerKW(0), units.PowerKW(0)
	if stepRes.AchievedPowerKW < 0 {
		powerOut = -stepRes.AchievedPowerKW
	} else {
		powerIn = stepRes.AchievedPowerKW
	}
	return result.DetailRow{
		ComponentUID:   st.UID,
		Name:           name,
		Kind:           kind,
		SwitchboardID:  switchboardID,
		TimePoint:      timePoint,
		PowerOutputKW:  powerOut,
		PowerInputKW:   powerIn,
		RunningHoursHr: runningHoursHr(on, dt),
		Status:         on,
	}
}

// runningHoursHr is one timestep's own contribution to running hours: dt/3600
// if the component was on, else zero. Unlike RunningHoursHrByComponent this
// is never a cumulative total.
func runningHoursHr(on bool, dt float64) float64 {
	if !on {
		return 0
	}
	return dt / 3600.0
}

// fuelMassKg returns the fuel mass a component burned this single timestep.
func fuelMassKg(fp component.EngineRunPoint, dt float64) float64 {
	if fp.Fuel.Kind == fuel.KindNone {
		return 0
	}
	return fp.FuelMassFlowKgPerS * dt
}

// co2EmissionKg returns the CO2-equivalent mass emitted this single timestep,
// summing every TTW factor row the same way recordFuelPoint's fleet-wide
// aggregation does.
func co2EmissionKg(fp component.EngineRunPoint, dt float64) float64 {
	if fp.Fuel.Kind == fuel.KindNone {
		return 0
	}
	massGPerS := fp.FuelMassFlowKgPerS * 1000.0
	co2eqRate := 0.0
	for _, row := range fp.Fuel.TTWFactors {
		co2eqRate += row.Co2eqAt(0, fp.Fuel.CarbonFractionOfFuel) * massGPerS
	}
	return co2eqRate * dt / 1000.0
}

// speciesEmissionKg returns one pollutant species' emitted mass this single
// timestep, converting the kernel's g/s rate to kg.
func speciesEmissionKg(fp component.EngineRunPoint, species fuel.EmissionSpecies, dt float64) float64 {
	rate, ok := fp.EmissionGPerS[species]
	if !ok {
		return 0
	}
	return rate * dt / 1000.0
}

// fuelKey is the aggregation key used to bucket per-timestep fuel samples
// before integrating, mirroring fuel.Fuel's own (kind, origin, regime[,
// name]) aggregation rule.
type fuelKey struct {
	kind   fuel.Kind
	origin fuel.Origin
	regime fuel.Regime
	name   string
}

// fuelSeries accumulates one bucket's per-timestep mass-flow and CO2eq-rate
// samples, ready for end-of-run integration.
type fuelSeries struct {
	massRateKgPerS []float64
	co2eqRateGPerS []float64
}

// recordFuelPoint appends one timestep's fuel mass flow, CO2-equivalent
// rate and pollutant emission rates into the per-key running series used
// for end-of-run integration.
func recordFuelPoint(fp component.EngineRunPoint, dt float64, fuelSeriesByKey map[fuelKey]*fuelSeries, emissionSeries map[fuel.EmissionSpecies][]float64) {
	if fp.Fuel.Kind != fuel.KindNone {
		k := fuelKey{kind: fp.Fuel.Kind, origin: fp.Fuel.Origin, regime: fp.Fuel.Regime, name: fp.Fuel.Name}
		bucket, ok := fuelSeriesByKey[k]
		if !ok {
			bucket = &fuelSeries{}
			fuelSeriesByKey[k] = bucket
		}
		bucket.massRateKgPerS = append(bucket.massRateKgPerS, fp.FuelMassFlowKgPerS)

		massGPerS := fp.FuelMassFlowKgPerS * 1000.0
		co2eqRate := 0.0
		for _, row := range fp.Fuel.TTWFactors {
			co2eqRate += row.Co2eqAt(0, fp.Fuel.CarbonFractionOfFuel) * massGPerS
		}
		bucket.co2eqRateGPerS = append(bucket.co2eqRateGPerS, co2eqRate)
	}
	for species, rate := range fp.EmissionGPerS {
		emissionSeries[species] = append(emissionSeries[species], rate)
	}
}

func finalizeFuelTotals(res *result.Result, fuelSeriesByKey map[fuelKey]*fuelSeries, dt float64, rule config.IntegrationRule) error {
	for k, bucket := range fuelSeriesByKey {
		massKg, err := integrate.Series(bucket.massRateKgPerS, dt, rule)
		if err != nil {
			return err
		}
		co2eqG, err := integrate.Series(bucket.co2eqRateGPerS, dt, rule)
		if err != nil {
			return err
		}
		res.AddFuelTotal(result.FuelTotal{
			Kind: k.kind, Origin: k.origin, Regime: k.regime, Name: k.name,
			MassKg: massKg, Co2eqKg: co2eqG / 1000.0,
		})
	}
	return nil
}

func finalizeEmissions(res *result.Result, emissionSeries map[fuel.EmissionSpecies][]float64, dt float64, rule config.IntegrationRule) error {
	for species, rateGPerS := range emissionSeries {
		totalG, err := integrate.Series(rateGPerS, dt, rule)
		if err != nil {
			return err
		}
		res.TotalEmissionKg[species] += totalG / 1000.0
	}
	return nil
}

