package units

import "testing"

func TestLoadRatioClip(t *testing.T) {
	cases := []struct {
		in, lo, hi, want float64
	}{
		{0.5, 0, 1, 0.5},
		{-0.1, 0, 1, 0},
		{1.5, 0, 1.01, 1.01},
	}
	for _, c := range cases {
		if got := LoadRatio(c.in).Clip(c.lo, c.hi); float64(got) != c.want {
			t.Errorf("LoadRatio(%v).Clip(%v,%v) = %v, want %v", c.in, c.lo, c.hi, got, c.want)
		}
	}
}

func TestSoCClip(t *testing.T) {
	if got := SoC(1.2).Clip(0.1, 0.9); got != 0.9 {
		t.Errorf("SoC(1.2).Clip(0.1,0.9) = %v, want 0.9", got)
	}
	if got := SoC(-0.2).Clip(0.1, 0.9); got != 0.1 {
		t.Errorf("SoC(-0.2).Clip(0.1,0.9) = %v, want 0.1", got)
	}
}

func TestPowerKWAbs(t *testing.T) {
	if got := PowerKW(-42).Abs(); got != 42 {
		t.Errorf("PowerKW(-42).Abs() = %v, want 42", got)
	}
}

func TestEnergyOverInterval(t *testing.T) {
	// 1000 kW for 3600 s = 3600 MJ.
	got := EnergyOverInterval(1000, 3600)
	if got != 3600 {
		t.Errorf("EnergyOverInterval(1000,3600) = %v, want 3600", got)
	}
}

func TestEnergyKWhToMJ(t *testing.T) {
	if got := EnergyKWhToMJ(1); got != 3.6 {
		t.Errorf("EnergyKWhToMJ(1) = %v, want 3.6", got)
	}
}
