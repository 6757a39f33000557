package topology

import (
	"testing"

	"github.com/sintef/feems/component"
	"github.com/sintef/feems/config"
	"github.com/sintef/feems/curve"
	"github.com/sintef/feems/node"
	"github.com/sintef/feems/system"
	"github.com/sintef/feems/units"
)

func testBattery(uid, nodeUID string) component.Variant {
	b := &component.Battery{Base: component.Base{
		UID: uid, Name: uid, Kind: component.BatteryKind,
		Rating:                   component.Rating{RatedPowerKW: units.PowerKW(500), EffCurve: curve.FlatEfficiency(1.0)},
		SwitchboardOrShaftlineID: nodeUID,
	},
		RatedCapacityKWh: 100, ChargingRateC: 1, DischargeRateC: 1,
		EffCharging: 0.95, EffDischarging: 0.95, SoeMin: 0.1, SoeMax: 0.9,
	}
	return component.FromBattery(b)
}

func TestBuildSystemInfersElectricPowerSystem(t *testing.T) {
	f := &Fleet{
		Components: []component.Variant{testGensetVariant("dg1", "sb1")},
		Nodes: []NodeEntry{
			{UID: "sb1", Kind: SubsystemElectric, Switchboard: &node.Switchboard{UID: "sb1"}},
		},
	}
	if err := f.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	sys, err := BuildSystem(f, config.Options{})
	if err != nil {
		t.Fatalf("BuildSystem: %v", err)
	}
	if sys.Kind != system.ElectricPowerSystem {
		t.Errorf("Kind = %v, want ElectricPowerSystem", sys.Kind)
	}
	if sys.Switchboard == nil || sys.Switchboard.UID != "sb1" {
		t.Error("Switchboard not wired from the electric node")
	}
}

func TestBuildSystemCollectsStorageAsSources(t *testing.T) {
	f := &Fleet{
		Components: []component.Variant{testGensetVariant("dg1", "sb1"), testBattery("bess1", "sb1")},
		Nodes: []NodeEntry{
			{UID: "sb1", Kind: SubsystemElectric, Switchboard: &node.Switchboard{UID: "sb1"}},
		},
	}
	sys, err := BuildSystem(f, config.Options{})
	if err != nil {
		t.Fatalf("BuildSystem: %v", err)
	}
	if len(sys.Storages) != 1 {
		t.Fatalf("len(Storages) = %d, want 1", len(sys.Storages))
	}
	if sys.Storages[0].UID != "bess1" || sys.Storages[0].Kind != node.SourceStorage {
		t.Errorf("Storages[0] = %+v, want UID=bess1 Kind=SourceStorage", sys.Storages[0])
	}
}

func TestBuildSystemRejectsMultipleElectricNodes(t *testing.T) {
	f := &Fleet{
		Nodes: []NodeEntry{
			{UID: "sb1", Kind: SubsystemElectric, Switchboard: &node.Switchboard{UID: "sb1"}},
			{UID: "sb2", Kind: SubsystemElectric, Switchboard: &node.Switchboard{UID: "sb2"}},
		},
	}
	if _, err := BuildSystem(f, config.Options{}); err == nil {
		t.Error("BuildSystem with two electric nodes: expected error, got nil")
	}
}

func TestBuildSystemRejectsElectricNodeWithoutSwitchboard(t *testing.T) {
	f := &Fleet{Nodes: []NodeEntry{{UID: "sb1", Kind: SubsystemElectric}}}
	if _, err := BuildSystem(f, config.Options{}); err == nil {
		t.Error("BuildSystem with an electric node missing its switchboard: expected error, got nil")
	}
}

func TestBuildSystemInfersMechanicalPropulsionSystem(t *testing.T) {
	sl := &node.Shaftline{UID: "shaft1", Mode: node.MechanicalOnly}
	f := &Fleet{Nodes: []NodeEntry{{UID: "shaft1", Kind: SubsystemMechanical, Shaftline: sl}}}
	sys, err := BuildSystem(f, config.Options{})
	if err != nil {
		t.Fatalf("BuildSystem: %v", err)
	}
	if sys.Kind != system.MechanicalPropulsionSystem {
		t.Errorf("Kind = %v, want MechanicalPropulsionSystem", sys.Kind)
	}
}

func TestBuildSystemInfersHybridPropulsionSystem(t *testing.T) {
	sl := &node.Shaftline{UID: "shaft1", Mode: node.PTIAssist}
	f := &Fleet{
		Nodes: []NodeEntry{
			{UID: "sb1", Kind: SubsystemElectric, Switchboard: &node.Switchboard{UID: "sb1"}},
			{UID: "shaft1", Kind: SubsystemMechanical, Shaftline: sl},
		},
	}
	sys, err := BuildSystem(f, config.Options{})
	if err != nil {
		t.Fatalf("BuildSystem: %v", err)
	}
	if sys.Kind != system.HybridPropulsionSystem {
		t.Errorf("Kind = %v, want HybridPropulsionSystem (shaftline has a PTI/PTO mode)", sys.Kind)
	}
}

func TestBuildSystemInfersMechanicalWithElectricWhenAllShaftlinesMechanicalOnly(t *testing.T) {
	sl := &node.Shaftline{UID: "shaft1", Mode: node.MechanicalOnly}
	f := &Fleet{
		Nodes: []NodeEntry{
			{UID: "sb1", Kind: SubsystemElectric, Switchboard: &node.Switchboard{UID: "sb1"}},
			{UID: "shaft1", Kind: SubsystemMechanical, Shaftline: sl},
		},
	}
	sys, err := BuildSystem(f, config.Options{})
	if err != nil {
		t.Fatalf("BuildSystem: %v", err)
	}
	if sys.Kind != system.MechanicalPropulsionSystemWithElectricPowerSystem {
		t.Errorf("Kind = %v, want MechanicalPropulsionSystemWithElectricPowerSystem", sys.Kind)
	}
}
