package serialize

import (
	"testing"

	"github.com/sintef/feems/component"
	"github.com/sintef/feems/curve"
	"github.com/sintef/feems/fuel"
	"github.com/sintef/feems/node"
	"github.com/sintef/feems/result"
	"github.com/sintef/feems/topology"
	"github.com/sintef/feems/units"
)

func testFleet() *topology.Fleet {
	e := &component.Engine{
		Base: component.Base{
			UID: "dg1", Name: "Diesel Generator 1", Kind: component.Genset,
			Rating:                   component.Rating{RatedPowerKW: units.PowerKW(1000), EffCurve: curve.FlatEfficiency(0.4)},
			SwitchboardOrShaftlineID: "sb1",
		},
		BSFCCurve:  curve.Flat(200),
		FuelKind:   fuel.Diesel,
		FuelOrigin: fuel.Fossil,
	}
	return &topology.Fleet{
		Components: []component.Variant{component.FromEngine(e)},
		Nodes: []topology.NodeEntry{
			{UID: "sb1", Kind: topology.SubsystemElectric, Switchboard: &node.Switchboard{UID: "sb1"}},
		},
	}
}

func TestMarshalUnmarshalFleetRoundTrips(t *testing.T) {
	f := testFleet()
	data, err := MarshalFleet(f)
	if err != nil {
		t.Fatalf("MarshalFleet: %v", err)
	}

	got, err := UnmarshalFleet(data)
	if err != nil {
		t.Fatalf("UnmarshalFleet: %v", err)
	}
	if len(got.Components) != 1 {
		t.Fatalf("len(Components) = %d, want 1", len(got.Components))
	}
	b, err := got.Components[0].Base()
	if err != nil {
		t.Fatalf("Base: %v", err)
	}
	if b.UID != "dg1" || b.Name != "Diesel Generator 1" {
		t.Errorf("round-tripped component = %+v, want UID=dg1 Name=%q", b, "Diesel Generator 1")
	}
	if got.Components[0].Engine == nil {
		t.Fatal("round-tripped variant lost its Engine payload")
	}
	if got.Components[0].Engine.FuelKind != fuel.Diesel {
		t.Errorf("FuelKind = %v, want Diesel", got.Components[0].Engine.FuelKind)
	}
	if _, ok := got.Node("sb1"); !ok {
		t.Error("round-tripped fleet lost its sb1 node entry")
	}
}

func TestUnmarshalFleetRejectsInvalidFleet(t *testing.T) {
	// A fleet whose component references a node that doesn't exist.
	data := []byte(`{
		"Components": [{"Tag": 12, "Engine": {"UID":"dg1","Name":"dg1","Kind":12,"SwitchboardOrShaftlineID":"no-such-node"}}],
		"Nodes": []
	}`)
	if _, err := UnmarshalFleet(data); err == nil {
		t.Error("UnmarshalFleet with an unresolvable node reference: expected error, got nil")
	}
}

func TestMarshalUnmarshalResultRoundTrips(t *testing.T) {
	r := result.New()
	r.AddFuelTotal(result.FuelTotal{Kind: fuel.Diesel, Origin: fuel.Fossil, Regime: fuel.IMO, MassKg: 100, Co2eqKg: 310})
	r.TotalEmissionKg[fuel.NOX] = 12.5
	r.RunningHoursHrByComponent["dg1"] = 1.0
	r.Detail = append(r.Detail, result.DetailRow{ComponentUID: "dg1", Name: "Diesel Generator 1", TimePoint: 0})

	data, err := MarshalResult(r)
	if err != nil {
		t.Fatalf("MarshalResult: %v", err)
	}
	got, err := UnmarshalResult(data)
	if err != nil {
		t.Fatalf("UnmarshalResult: %v", err)
	}
	if got.TotalFuelMassKg() != 100 {
		t.Errorf("TotalFuelMassKg() = %v, want 100", got.TotalFuelMassKg())
	}
	if got.TotalCo2eqKg() != 310 {
		t.Errorf("TotalCo2eqKg() = %v, want 310", got.TotalCo2eqKg())
	}
	if got.TotalEmissionKg[fuel.NOX] != 12.5 {
		t.Errorf("TotalEmissionKg[NOX] = %v, want 12.5", got.TotalEmissionKg[fuel.NOX])
	}
	if len(got.Detail) != 1 || got.Detail[0].Name != "Diesel Generator 1" {
		t.Errorf("Detail round-trip mismatch: %+v", got.Detail)
	}
}
