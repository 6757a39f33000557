package component

import (
	"math"
	"testing"

	"github.com/sintef/feems/curve"
	"github.com/sintef/feems/units"
)

func flatRating(ratedKW, eff float64) Rating {
	return Rating{RatedPowerKW: units.PowerKW(ratedKW), EffCurve: curve.FlatEfficiency(eff)}
}

func TestForwardFromInputForwardSignFlow(t *testing.T) {
	r := flatRating(1000, 0.9)
	pOut, load, eff := r.ForwardFromInput(500)
	if math.Abs(eff-0.9) > 1e-9 {
		t.Errorf("eff = %v, want 0.9", eff)
	}
	// Forward flow anchors load on P_out: 450 kW / 1000 kW.
	if math.Abs(float64(load)-0.45) > 1e-6 {
		t.Errorf("load = %v, want ~0.45", load)
	}
	wantPOut := 500 * 0.9
	if math.Abs(float64(pOut)-wantPOut) > 1e-6 {
		t.Errorf("pOut = %v, want %v", pOut, wantPOut)
	}
}

func TestReverseFromOutputForwardSignFlow(t *testing.T) {
	r := flatRating(1000, 0.9)
	pIn, load, eff := r.ReverseFromOutput(450)
	if math.Abs(eff-0.9) > 1e-9 {
		t.Errorf("eff = %v, want 0.9", eff)
	}
	if math.Abs(float64(load)-0.45) > 1e-6 {
		t.Errorf("load = %v, want ~0.45", load)
	}
	wantPIn := 450 / 0.9
	if math.Abs(float64(pIn)-wantPIn) > 1e-6 {
		t.Errorf("pIn = %v, want %v", pIn, wantPIn)
	}
}

func TestForwardAndReverseAreInversesOnFlatCurve(t *testing.T) {
	r := flatRating(1000, 0.8)
	pOut, _, _ := r.ForwardFromInput(600)
	pIn, _, _ := r.ReverseFromOutput(pOut)
	if math.Abs(float64(pIn)-600) > 1e-6 {
		t.Errorf("round trip ForwardFromInput->ReverseFromOutput: got pIn=%v, want 600", pIn)
	}
}

func TestReverseSignFlowUsesDirectLookupOnForwardFromInput(t *testing.T) {
	// Negative P_in means reverse flow: P_in is the known anchor, so this
	// resolves directly without the fixed-point solve.
	r := flatRating(1000, 0.9)
	pOut, load, eff := r.ForwardFromInput(-500)
	if math.Abs(float64(load)-0.5) > 1e-9 {
		t.Errorf("load = %v, want 0.5", load)
	}
	want := -500 * 0.9
	if math.Abs(float64(pOut)-want) > 1e-9 {
		t.Errorf("pOut = %v, want %v", pOut, want)
	}
	_ = eff
}

func TestClampLoadBoundsToZeroAndTolerance(t *testing.T) {
	if got := clampLoad(-5); got != 0 {
		t.Errorf("clampLoad(-5) = %v, want 0", got)
	}
	if got := clampLoad(5); got != LoadTolerance {
		t.Errorf("clampLoad(5) = %v, want %v", got, LoadTolerance)
	}
}

func TestEnsureTimestepsGrowsAllSlicesToLength(t *testing.T) {
	b := &Base{}
	b.EnsureTimesteps(3)
	if len(b.Status) != 3 || len(b.PowerInputKW) != 3 || len(b.PowerOutputKW) != 3 ||
		len(b.LoadRatio) != 3 || len(b.Efficiency) != 3 || len(b.LoadSharingMode) != 3 {
		t.Fatalf("EnsureTimesteps(3) did not grow every slice to length 3: %+v", b)
	}
	b.Status[1] = true
	b.EnsureTimesteps(5)
	if len(b.Status) != 5 {
		t.Fatalf("EnsureTimesteps(5) len(Status) = %d, want 5", len(b.Status))
	}
	if !b.Status[1] {
		t.Error("EnsureTimesteps must preserve existing values when growing")
	}
	// Shrinking (growing to a smaller T) must be a no-op.
	b.EnsureTimesteps(2)
	if len(b.Status) != 5 {
		t.Errorf("EnsureTimesteps(2) on a length-5 slice should be a no-op, got len=%d", len(b.Status))
	}
}

func TestRunningHoursHr(t *testing.T) {
	b := &Base{Status: []bool{true, false, true, true}}
	got := b.RunningHoursHr(3600)
	if math.Abs(got-3) > 1e-9 {
		t.Errorf("RunningHoursHr(3600) = %v, want 3", got)
	}
}
