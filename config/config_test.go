package config

import (
	"testing"

	"github.com/sintef/feems/fuel"
)

func TestParseDefaultsToIMOAndTrapezoid(t *testing.T) {
	opts, err := Parse([]byte(``))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if opts.FuelRegime != fuel.IMO {
		t.Errorf("FuelRegime = %v, want IMO", opts.FuelRegime)
	}
	if opts.IntegrationRule != Trapezoid {
		t.Errorf("IntegrationRule = %v, want Trapezoid", opts.IntegrationRule)
	}
	if opts.TimestepSeconds != 1.0 {
		t.Errorf("TimestepSeconds = %v, want default 1.0", opts.TimestepSeconds)
	}
}

func TestParseRejectsUnknownRegime(t *testing.T) {
	if _, err := Parse([]byte(`fuel_regime = "bogus"`)); err == nil {
		t.Error("Parse with unknown fuel_regime: expected error, got nil")
	}
}

func TestParseRejectsUnknownIntegrationRule(t *testing.T) {
	if _, err := Parse([]byte(`integration_rule = "bogus"`)); err == nil {
		t.Error("Parse with unknown integration_rule: expected error, got nil")
	}
}

func TestParseUserDefinedFuelResolvesKindAndOrigin(t *testing.T) {
	toml := `
fuel_regime = "USER"

[user_defined_fuels.blend_a]
kind = "methanol"
origin = "bio"
lhv_mj_per_g = 0.02
co2 = 1.0
`
	opts, err := Parse([]byte(toml))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	f, ok := opts.UserDefinedFuels["blend_a"]
	if !ok {
		t.Fatal("UserDefinedFuels[blend_a] missing")
	}
	if f.Kind != fuel.Methanol {
		t.Errorf("UserDefinedFuels[blend_a].Kind = %v, want Methanol", f.Kind)
	}
	if f.Origin != fuel.Bio {
		t.Errorf("UserDefinedFuels[blend_a].Origin = %v, want Bio", f.Origin)
	}
}

func TestParseUserDefinedFuelRejectsUnknownKind(t *testing.T) {
	toml := `
[user_defined_fuels.blend_a]
kind = "unobtainium"
lhv_mj_per_g = 0.02
co2 = 1.0
`
	if _, err := Parse([]byte(toml)); err == nil {
		t.Error("Parse with unknown user fuel kind: expected error, got nil")
	}
}

func TestParseUserDefinedFuelValidatesAgainstFuelInvariants(t *testing.T) {
	// Missing LHV should be rejected by fuel.Fuel.Validate.
	toml := `
[user_defined_fuels.blend_a]
kind = "diesel"
co2 = 1.0
`
	if _, err := Parse([]byte(toml)); err == nil {
		t.Error("Parse with a USER fuel missing LHV: expected validation error, got nil")
	}
}

func TestRegimeForComponentHonorsPin(t *testing.T) {
	opts := Options{
		FuelRegime: fuel.IMO,
		UserDefinedFuelsByComponent: map[string]string{
			"dg1": "blend_a",
		},
	}
	if got := opts.RegimeForComponent("dg1"); got != fuel.USER {
		t.Errorf("RegimeForComponent(dg1) = %v, want USER (pinned)", got)
	}
	if got := opts.RegimeForComponent("dg2"); got != fuel.IMO {
		t.Errorf("RegimeForComponent(dg2) = %v, want IMO (unpinned, falls back to run regime)", got)
	}
}

func TestUserFuelForComponent(t *testing.T) {
	blend := fuel.Fuel{Name: "blend_a", Regime: fuel.USER}
	opts := Options{
		UserDefinedFuels:            map[string]fuel.Fuel{"blend_a": blend},
		UserDefinedFuelsByComponent: map[string]string{"dg1": "blend_a"},
	}
	f, ok := opts.UserFuelForComponent("dg1")
	if !ok || f.Name != "blend_a" {
		t.Errorf("UserFuelForComponent(dg1) = (%+v, %v), want (blend_a, true)", f, ok)
	}
	if _, ok := opts.UserFuelForComponent("dg2"); ok {
		t.Error("UserFuelForComponent(dg2) = true, want false (not pinned)")
	}
}
