// Package result defines the output shape of a completed simulation run:
// aggregated fuel and GHG totals, energy totals by power role, running
// hours per source, and a per-component detail table.
package result

import (
	"github.com/sintef/feems/component"
	"github.com/sintef/feems/fuel"
	"github.com/sintef/feems/units"
)

// FuelTotal is one aggregated fuel-consumption row, keyed the same way
// fuel.Consumption aggregates (kind, origin, regime[, name]).
type FuelTotal struct {
	Kind     fuel.Kind
	Origin   fuel.Origin
	Regime   fuel.Regime
	Name     string
	MassKg   float64
	Co2eqKg  float64
}

// DetailRow is one registered component's operating point at one timestep.
// ComponentUID is carried in addition to the external schema fields to let a
// caller join back to the component that produced the row.
type DetailRow struct {
	ComponentUID      string
	Name              string
	Kind              component.Kind
	SwitchboardID     string
	TimePoint         int
	PowerOutputKW     units.PowerKW
	PowerInputKW      units.PowerKW
	LoadRatio         units.LoadRatio
	Efficiency        float64
	FuelConsumptionKg float64
	Co2EmissionKg     float64
	NoxEmissionKg     float64
	// RunningHoursHr is this timestep's own contribution (dt/3600 if
	// Status, else 0), not a running cumulative total.
	RunningHoursHr float64
	Status         bool
}

// Result is the complete output of a simulation run.
type Result struct {
	// MultiFuelConsumptionTotalKg is the total fuel mass burned, broken
	// down per aggregation key, each row carrying its own CO2eq total.
	MultiFuelConsumptionTotalKg []FuelTotal

	// TotalEmissionKg sums non-GHG pollutant species (NOx, SOx, CO, PM,
	// HC) across every fuel-burning component.
	TotalEmissionKg map[fuel.EmissionSpecies]float64

	// EnergyOutputMJByRole and EnergyInputMJByRole sum component energy
	// by component.Role (source, consumer, PTI/PTO, storage, transmission).
	EnergyOutputMJByRole map[int]units.EnergyMJ
	EnergyInputMJByRole  map[int]units.EnergyMJ

	// RunningHoursHrByComponent is running hours keyed by component UID.
	RunningHoursHrByComponent map[string]float64

	// EndingSoCByStorage is the state of charge each storage device ended
	// the run at, keyed by component UID, letting an orchestrator chain
	// successive runs without re-deriving SoC from the detail rows.
	EndingSoCByStorage map[string]units.SoC

	Detail []DetailRow
}

// New returns an empty, ready-to-populate Result.
func New() *Result {
	return &Result{
		TotalEmissionKg:           make(map[fuel.EmissionSpecies]float64),
		EnergyOutputMJByRole:      make(map[int]units.EnergyMJ),
		EnergyInputMJByRole:       make(map[int]units.EnergyMJ),
		RunningHoursHrByComponent: make(map[string]float64),
		EndingSoCByStorage:        make(map[string]units.SoC),
	}
}

// AddFuelTotal accumulates mass and CO2eq into the matching aggregation
// bucket of MultiFuelConsumptionTotalKg, appending a new row if none matches
// yet.
func (r *Result) AddFuelTotal(f FuelTotal) {
	for i := range r.MultiFuelConsumptionTotalKg {
		row := &r.MultiFuelConsumptionTotalKg[i]
		if row.Kind == f.Kind && row.Origin == f.Origin && row.Regime == f.Regime && row.Name == f.Name {
			row.MassKg += f.MassKg
			row.Co2eqKg += f.Co2eqKg
			return
		}
	}
	r.MultiFuelConsumptionTotalKg = append(r.MultiFuelConsumptionTotalKg, f)
}

// TotalFuelMassKg sums MultiFuelConsumptionTotalKg across every bucket.
func (r *Result) TotalFuelMassKg() float64 {
	total := 0.0
	for _, row := range r.MultiFuelConsumptionTotalKg {
		total += row.MassKg
	}
	return total
}

// TotalCo2eqKg sums the CO2-equivalent across every bucket.
func (r *Result) TotalCo2eqKg() float64 {
	total := 0.0
	for _, row := range r.MultiFuelConsumptionTotalKg {
		total += row.Co2eqKg
	}
	return total
}

// Merge folds other into r in place: fuel totals accumulate by bucket,
// emission/energy/running-hour maps sum by key, and detail rows concatenate.
// Used by an orchestrator that runs a system one timestep at a time and
// needs to accumulate a single run-long Result.
func (r *Result) Merge(other *Result) {
	if other == nil {
		return
	}
	for _, f := range other.MultiFuelConsumptionTotalKg {
		r.AddFuelTotal(f)
	}
	for species, kg := range other.TotalEmissionKg {
		r.TotalEmissionKg[species] += kg
	}
	for role, mj := range other.EnergyOutputMJByRole {
		r.EnergyOutputMJByRole[role] += mj
	}
	for role, mj := range other.EnergyInputMJByRole {
		r.EnergyInputMJByRole[role] += mj
	}
	for uid, hrs := range other.RunningHoursHrByComponent {
		r.RunningHoursHrByComponent[uid] += hrs
	}
	for uid, s := range other.EndingSoCByStorage {
		r.EndingSoCByStorage[uid] = s
	}
	r.Detail = append(r.Detail, other.Detail...)
}
