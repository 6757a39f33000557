package topology

import (
	"testing"

	"github.com/sintef/feems/component"
	"github.com/sintef/feems/curve"
	"github.com/sintef/feems/fuel"
	"github.com/sintef/feems/node"
	"github.com/sintef/feems/units"
)

func testGensetVariant(uid, nodeUID string) component.Variant {
	e := &component.Engine{
		Base: component.Base{
			UID: uid, Name: uid, Kind: component.Genset,
			Rating:                   component.Rating{RatedPowerKW: units.PowerKW(1000), EffCurve: curve.FlatEfficiency(0.4)},
			SwitchboardOrShaftlineID: nodeUID,
		},
		BSFCCurve:  curve.Flat(200),
		FuelKind:   fuel.Diesel,
		FuelOrigin: fuel.Fossil,
	}
	return component.FromEngine(e)
}

func testFleet() *Fleet {
	return &Fleet{
		Components: []component.Variant{testGensetVariant("dg1", "sb1")},
		Nodes: []NodeEntry{
			{UID: "sb1", Kind: SubsystemElectric, Switchboard: &node.Switchboard{UID: "sb1"}},
		},
	}
}

func TestFleetValidateAcceptsWellFormedFleet(t *testing.T) {
	f := testFleet()
	if err := f.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestFleetValidateRejectsDuplicateUID(t *testing.T) {
	f := testFleet()
	f.Components = append(f.Components, testGensetVariant("dg1", "sb1"))
	if err := f.Validate(); err == nil {
		t.Error("Validate with two components sharing UID dg1: expected error, got nil")
	}
}

func TestFleetValidateRejectsUnknownNodeReference(t *testing.T) {
	f := testFleet()
	f.Components = append(f.Components, testGensetVariant("dg2", "no-such-node"))
	if err := f.Validate(); err == nil {
		t.Error("Validate with a component referencing an unknown node: expected error, got nil")
	}
}

func TestFleetValidateRejectsMissingNodeAssignment(t *testing.T) {
	f := testFleet()
	f.Components = append(f.Components, testGensetVariant("dg2", ""))
	if err := f.Validate(); err == nil {
		t.Error("Validate with a component assigned to no node: expected error, got nil")
	}
}

func TestComponentsOnNode(t *testing.T) {
	f := testFleet()
	f.Components = append(f.Components, testGensetVariant("dg2", "sb1"), testGensetVariant("dg3", "sb-other"))

	got := f.ComponentsOnNode("sb1")
	if len(got) != 2 {
		t.Fatalf("ComponentsOnNode(sb1): %d components, want 2", len(got))
	}
	for _, v := range got {
		b, err := v.Base()
		if err != nil {
			t.Fatalf("Base: %v", err)
		}
		if b.UID != "dg1" && b.UID != "dg2" {
			t.Errorf("unexpected component %q on sb1", b.UID)
		}
	}
}

func TestNodeLookup(t *testing.T) {
	f := testFleet()
	n, ok := f.Node("sb1")
	if !ok {
		t.Fatal("Node(sb1): not found")
	}
	if n.Kind != SubsystemElectric {
		t.Errorf("Node(sb1).Kind = %v, want SubsystemElectric", n.Kind)
	}
	if _, ok := f.Node("no-such-node"); ok {
		t.Error("Node(no-such-node): expected not found, got ok=true")
	}
}
