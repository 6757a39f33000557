package pms

import (
	"testing"

	"github.com/sintef/feems/chain"
	"github.com/sintef/feems/component"
	"github.com/sintef/feems/curve"
	"github.com/sintef/feems/node"
	"github.com/sintef/feems/units"
)

func gensetSource(uid string, ratedKW float64) node.Source {
	e := &component.Engine{Base: component.Base{
		UID: uid, Name: uid, Kind: component.Genset,
		Rating: component.Rating{RatedPowerKW: units.PowerKW(ratedKW), EffCurve: curve.FlatEfficiency(0.4)},
	}}
	c := &chain.SerialChain{UID: uid, Links: []component.Variant{component.FromEngine(e)}}
	return node.Source{UID: uid, Kind: node.SourceGenset, Chain: c}
}

func TestDecideStartsOneGensetForLowDemand(t *testing.T) {
	sources := []node.Source{gensetSource("dg1", 1000), gensetSource("dg2", 1000)}
	p := LoadDependentStartStop{StartThreshold: 0.85, StopThreshold: 0.4}
	on := p.Decide(sources, 500, nil)
	onCount := 0
	for _, b := range on {
		if b {
			onCount++
		}
	}
	if onCount != 1 {
		t.Errorf("Decide(500kW demand, 2x1000kW units): %d online, want 1", onCount)
	}
}

func TestDecideStartsSecondGensetAboveThreshold(t *testing.T) {
	sources := []node.Source{gensetSource("dg1", 1000), gensetSource("dg2", 1000)}
	p := LoadDependentStartStop{StartThreshold: 0.85, StopThreshold: 0.4}
	on := p.Decide(sources, 900, nil) // 900/1000 = 0.9 > 0.85 startThreshold
	onCount := 0
	for _, b := range on {
		if b {
			onCount++
		}
	}
	if onCount != 2 {
		t.Errorf("Decide(900kW demand, 2x1000kW units): %d online, want 2 (exceeds start threshold on one unit)", onCount)
	}
}

func TestDecideShedsUnitBelowStopThreshold(t *testing.T) {
	sources := []node.Source{gensetSource("dg1", 1000), gensetSource("dg2", 1000)}
	p := LoadDependentStartStop{StartThreshold: 0.85, StopThreshold: 0.4}
	previousOn := []bool{true, true}
	on := p.Decide(sources, 200, previousOn) // 200/2000=0.1 well below stop threshold
	onCount := 0
	for _, b := range on {
		if b {
			onCount++
		}
	}
	if onCount != 1 {
		t.Errorf("Decide(200kW demand, both previously on): %d online, want 1 (shed down to stop threshold)", onCount)
	}
}

func TestDecideNeverShedsLastUnit(t *testing.T) {
	sources := []node.Source{gensetSource("dg1", 1000)}
	p := LoadDependentStartStop{StartThreshold: 0.85, StopThreshold: 0.4}
	on := p.Decide(sources, 0, []bool{true})
	if !on[0] {
		t.Error("Decide must never shed the last online unit, even at zero demand")
	}
}

func TestDecidePrefersPriorityOrderFirst(t *testing.T) {
	priority := gensetSource("shore", 200)
	priority.BaseLoadOrder = 1
	peer := gensetSource("dg1", 1000)
	sources := []node.Source{peer, priority}
	p := LoadDependentStartStop{StartThreshold: 0.85, StopThreshold: 0.4}
	on := p.Decide(sources, 100, nil)
	// priority (index 1) should be engaged before the peer (index 0).
	if !on[1] {
		t.Error("Decide should engage the BaseLoadOrder>0 priority source before any peer")
	}
}
