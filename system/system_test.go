package system

import (
	"math"
	"testing"

	"github.com/sintef/feems/chain"
	"github.com/sintef/feems/component"
	"github.com/sintef/feems/config"
	"github.com/sintef/feems/curve"
	"github.com/sintef/feems/fuel"
	"github.com/sintef/feems/node"
	"github.com/sintef/feems/units"
)

func testGensetSource(uid string, ratedKW float64) node.Source {
	e := &component.Engine{
		Base: component.Base{
			UID: uid, Name: uid, Kind: component.Genset,
			Rating: component.Rating{RatedPowerKW: units.PowerKW(ratedKW), EffCurve: curve.FlatEfficiency(0.4)},
		},
		BSFCCurve:  curve.Flat(200),
		FuelKind:   fuel.Diesel,
		FuelOrigin: fuel.Fossil,
	}
	gen := &component.ElectricMachine{Base: component.Base{
		UID: uid + "-gen", Name: uid + "-gen", Kind: component.Generator,
		Rating: component.Rating{RatedPowerKW: units.PowerKW(ratedKW), EffCurve: curve.FlatEfficiency(0.95)},
	}}
	c := &chain.SerialChain{UID: uid, Name: uid, Links: []component.Variant{
		component.FromEngine(e), component.FromElectricMachine(gen),
	}}
	return node.Source{UID: uid, Kind: node.SourceGenset, Chain: c, On: true}
}

func TestRunSingleGensetConstantLoad(t *testing.T) {
	sb := &node.Switchboard{UID: "sb1", Sources: []node.Source{testGensetSource("dg1", 1000)}}
	sys := &System{
		Kind:        ElectricPowerSystem,
		Switchboard: sb,
		Options:     config.Options{TimestepSeconds: 1, FuelRegime: fuel.IMO, IntegrationRule: config.SumWithInterval},
	}
	demand := make([]float64, 3600)
	for i := range demand {
		demand[i] = 475
	}
	res, err := sys.Run(Inputs{Timesteps: len(demand), ElectricDemandKW: demand})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := res.TotalFuelMassKg(); got <= 0 {
		t.Errorf("TotalFuelMassKg() = %v, want > 0", got)
	}
	wantHrs := 1.0 // 3600 timesteps of 1s, always on
	if got := res.RunningHoursHrByComponent["dg1"]; math.Abs(got-wantHrs) > 1e-6 {
		t.Errorf("RunningHoursHrByComponent[dg1] = %v, want %v", got, wantHrs)
	}

	// Expected fuel mass for one hour at 475kW electrical load: the 0.95
	// generator puts the engine at 500kW shaft output, and BSFC=200g/kWh
	// applies to that output, so fuel_kg = 200*500/1000 = 100 kg/hr.
	wantMassKg := 100.0
	if got := res.TotalFuelMassKg(); math.Abs(got-wantMassKg) > 1e-3 {
		t.Errorf("TotalFuelMassKg() = %v, want %v", got, wantMassKg)
	}
	if _, ok := res.TotalEmissionKg[fuel.NOX]; !ok {
		t.Error("TotalEmissionKg missing NOX entry")
	}

	// Detail carries one row per component per timestep: dg1's engine row
	// followed by its generator (dg1-gen) row, 2*3600 rows in all; summing
	// FuelConsumptionKg/Co2EmissionKg across the run must match the
	// fleet-wide totals above.
	if len(res.Detail) != 2*3600 {
		t.Fatalf("len(Detail) = %d, want 7200 (engine + generator row per timestep)", len(res.Detail))
	}
	var fuelSum, co2Sum float64
	for i, d := range res.Detail {
		wantUID := "dg1"
		if i%2 == 1 {
			wantUID = "dg1-gen"
		}
		if d.ComponentUID != wantUID {
			t.Fatalf("Detail[%d].ComponentUID = %q, want %s", i, d.ComponentUID, wantUID)
		}
		if d.TimePoint != i/2 {
			t.Errorf("Detail[%d].TimePoint = %d, want %d", i, d.TimePoint, i/2)
		}
		if !d.Status {
			t.Errorf("Detail[%d].Status = false, want true (genset always on)", i)
		}
		fuelSum += d.FuelConsumptionKg
		co2Sum += d.Co2EmissionKg
	}
	if math.Abs(fuelSum-wantMassKg) > 1e-2 {
		t.Errorf("sum(Detail[*].FuelConsumptionKg) = %v, want %v", fuelSum, wantMassKg)
	}
	// Diesel/Fossil: co2=3.206, ch4=0.00006, n2o=0.00015 g/g fuel, GWP100 29.8/273, no slip.
	wantCo2eqKg := wantMassKg * (3.206 + 29.8*0.00006 + 273*0.00015)
	if math.Abs(co2Sum-wantCo2eqKg) > 1e-1 {
		t.Errorf("sum(Detail[*].Co2EmissionKg) = %v, want %v", co2Sum, wantCo2eqKg)
	}
}

func TestRunRejectsNonPositiveTimesteps(t *testing.T) {
	sys := &System{Kind: ElectricPowerSystem}
	if _, err := sys.Run(Inputs{Timesteps: 0}); err == nil {
		t.Error("Run with Timesteps=0: expected error, got nil")
	}
}

func TestRunRequiresMechanicalDemandForEveryShaftline(t *testing.T) {
	sl := &node.Shaftline{UID: "shaft1", Mode: node.MechanicalOnly, Engine: &chain.SerialChain{
		Name: "shaft1", Links: []component.Variant{},
	}}
	sys := &System{Kind: MechanicalPropulsionSystem, Shaftlines: []*node.Shaftline{sl}}
	_, err := sys.Run(Inputs{Timesteps: 1, MechanicalDemandKW: map[string][]float64{}})
	if err == nil {
		t.Error("Run with a shaftline missing from MechanicalDemandKW: expected error, got nil")
	}
}

func TestRunPopulatesDetailRowPerComponentPerTimestep(t *testing.T) {
	sb := &node.Switchboard{UID: "sb1", Sources: []node.Source{testGensetSource("dg1", 1000)}}
	sys := &System{
		Kind: ElectricPowerSystem, Switchboard: sb,
		Options: config.Options{TimestepSeconds: 1, FuelRegime: fuel.IMO, IntegrationRule: config.SumWithInterval},
	}
	res, err := sys.Run(Inputs{Timesteps: 2, ElectricDemandKW: []float64{500, 500}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// Each timestep resolves both the genset's engine link and its electric
	// machine link, so 2 timesteps * 2 links = 4 rows.
	if len(res.Detail) != 4 {
		t.Fatalf("len(Detail) = %d, want 4", len(res.Detail))
	}
	timePoints := map[int]bool{}
	foundEngine := false
	for _, d := range res.Detail {
		timePoints[d.TimePoint] = true
		if d.ComponentUID == "dg1" {
			foundEngine = true
			if d.Name != "dg1" {
				t.Errorf("Name = %q, want %q", d.Name, "dg1")
			}
			if d.SwitchboardID != "sb1" && d.SwitchboardID != "" {
				t.Errorf("SwitchboardID = %q, want sb1 or empty", d.SwitchboardID)
			}
		}
	}
	if !foundEngine {
		t.Fatal("Detail missing a row for dg1's engine link")
	}
	if len(timePoints) != 2 || !timePoints[0] || !timePoints[1] {
		t.Errorf("TimePoint values = %v, want {0, 1}", timePoints)
	}
}
