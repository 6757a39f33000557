// Package config holds the run-level options that parameterize a
// simulation: which fuel accounting regime to resolve factors under, the
// numerical integration rule, the fixed timestep, whether a PowerBalance
// violation is fatal or tolerated, and any user-supplied fuel definitions.
// Options are loaded from TOML.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/sintef/feems/fuel"
)

// IntegrationRule selects the numerical rule used to turn per-timestep
// power/fuel rates into totals.
type IntegrationRule int

const (
	Trapezoid IntegrationRule = iota
	Simpson
	SumWithInterval
)

func (r IntegrationRule) String() string {
	switch r {
	case Trapezoid:
		return "trapezoid"
	case Simpson:
		return "simpson"
	case SumWithInterval:
		return "sum_with_interval"
	default:
		return "trapezoid"
	}
}

func parseIntegrationRule(s string) (IntegrationRule, error) {
	switch s {
	case "", "trapezoid":
		return Trapezoid, nil
	case "simpson":
		return Simpson, nil
	case "sum_with_interval":
		return SumWithInterval, nil
	default:
		return Trapezoid, fmt.Errorf("config: unknown integration_rule %q", s)
	}
}

func parseFuelRegime(s string) (fuel.Regime, error) {
	switch s {
	case "", "IMO":
		return fuel.IMO, nil
	case "FuelEU_Maritime":
		return fuel.FuelEUMaritime, nil
	case "USER":
		return fuel.USER, nil
	default:
		return fuel.RegimeNone, fmt.Errorf("config: unknown fuel_regime %q", s)
	}
}

func parseFuelKind(s string) (fuel.Kind, error) {
	switch s {
	case "":
		return fuel.KindNone, nil
	case "diesel":
		return fuel.Diesel, nil
	case "HFO":
		return fuel.HFO, nil
	case "natural_gas":
		return fuel.NaturalGas, nil
	case "hydrogen":
		return fuel.Hydrogen, nil
	case "ammonia":
		return fuel.Ammonia, nil
	case "LPG-propane":
		return fuel.LPGPropane, nil
	case "LPG-butane":
		return fuel.LPGButane, nil
	case "ethanol":
		return fuel.Ethanol, nil
	case "methanol":
		return fuel.Methanol, nil
	case "LFO":
		return fuel.LFO, nil
	case "LSFO_crude":
		return fuel.LSFOCrude, nil
	case "LSFO_blend":
		return fuel.LSFOBlend, nil
	case "ULSFO":
		return fuel.ULSFO, nil
	case "VLSFO":
		return fuel.VLSFO, nil
	default:
		return fuel.KindNone, fmt.Errorf("config: unknown fuel kind %q", s)
	}
}

func parseFuelOrigin(s string) (fuel.Origin, error) {
	switch s {
	case "":
		return fuel.OriginNone, nil
	case "fossil":
		return fuel.Fossil, nil
	case "bio":
		return fuel.Bio, nil
	case "renewable_non_bio":
		return fuel.RenewableNonBio, nil
	default:
		return fuel.OriginNone, fmt.Errorf("config: unknown fuel origin %q", s)
	}
}

// UserFuel is a TOML-friendly mirror of fuel.Fuel for the USER regime,
// keyed by name in Options.UserDefinedFuels.
type UserFuel struct {
	Kind                 string  `toml:"kind"`
	Origin               string  `toml:"origin"`
	LHVMJPerG            float64 `toml:"lhv_mj_per_g"`
	WTTFactorGCO2eqPerMJ float64 `toml:"wtt_factor_gco2eq_per_mj"`
	CarbonFractionOfFuel float64 `toml:"carbon_fraction_of_fuel"`
	Co2                  float64 `toml:"co2"`
	Ch4                  float64 `toml:"ch4"`
	N2o                  float64 `toml:"n2o"`
	CSlipPercent         float64 `toml:"c_slip_percent"`
}

// rawOptions is the literal TOML shape; Options adds parsed enum fields.
type rawOptions struct {
	FuelRegime                string              `toml:"fuel_regime"`
	IntegrationRule           string              `toml:"integration_rule"`
	TimestepSeconds           float64             `toml:"timestep_seconds"`
	IgnorePowerBalance        bool                `toml:"ignore_power_balance"`
	UserDefinedFuels          map[string]UserFuel `toml:"user_defined_fuels"`
	UserDefinedFuelsByComponent map[string]string `toml:"user_defined_fuels_by_component"`
}

// Options is a fully parsed, ready-to-use run configuration.
type Options struct {
	FuelRegime         fuel.Regime
	IntegrationRule    IntegrationRule
	TimestepSeconds    float64
	IgnorePowerBalance bool

	// UserDefinedFuels maps a user fuel name to its full definition, used
	// when FuelRegime==USER or when a specific component is pinned to a
	// named user fuel via UserDefinedFuelsByComponent.
	UserDefinedFuels map[string]fuel.Fuel

	// UserDefinedFuelsByComponent pins individual component UIDs to a
	// specific named entry of UserDefinedFuels, overriding the run-wide
	// regime for that component only.
	UserDefinedFuelsByComponent map[string]string
}

// Load reads and parses a TOML options file.
func Load(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	return Parse(data)
}

// Parse parses TOML-encoded options from an in-memory buffer.
func Parse(data []byte) (Options, error) {
	var raw rawOptions
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Options{}, fmt.Errorf("config: parsing options: %w", err)
	}
	regime, err := parseFuelRegime(raw.FuelRegime)
	if err != nil {
		return Options{}, err
	}
	rule, err := parseIntegrationRule(raw.IntegrationRule)
	if err != nil {
		return Options{}, err
	}
	dt := raw.TimestepSeconds
	if dt <= 0 {
		dt = 1.0
	}

	opts := Options{
		FuelRegime:                  regime,
		IntegrationRule:             rule,
		TimestepSeconds:             dt,
		IgnorePowerBalance:          raw.IgnorePowerBalance,
		UserDefinedFuels:            make(map[string]fuel.Fuel, len(raw.UserDefinedFuels)),
		UserDefinedFuelsByComponent: raw.UserDefinedFuelsByComponent,
	}
	for name, uf := range raw.UserDefinedFuels {
		kind, err := parseFuelKind(uf.Kind)
		if err != nil {
			return Options{}, fmt.Errorf("config: user_defined_fuels[%q]: %w", name, err)
		}
		origin, err := parseFuelOrigin(uf.Origin)
		if err != nil {
			return Options{}, fmt.Errorf("config: user_defined_fuels[%q]: %w", name, err)
		}
		f := fuel.Fuel{
			Kind:                 kind,
			Origin:               origin,
			Regime:               fuel.USER,
			Name:                 name,
			LHVMJPerG:            uf.LHVMJPerG,
			WTTFactorGCO2eqPerMJ: uf.WTTFactorGCO2eqPerMJ,
			CarbonFractionOfFuel: uf.CarbonFractionOfFuel,
			TTWFactors: []fuel.GhgFactorTTW{{
				Co2:          uf.Co2,
				Ch4:          uf.Ch4,
				N2o:          uf.N2o,
				CSlipPercent: uf.CSlipPercent,
			}},
		}
		if err := f.Validate(); err != nil {
			return Options{}, fmt.Errorf("config: user_defined_fuels[%q]: %w", name, err)
		}
		opts.UserDefinedFuels[name] = f
	}
	return opts, nil
}

// RegimeForComponent resolves the effective fuel.Regime for a component,
// honoring a per-component USER-fuel pin over the run-wide regime.
func (o Options) RegimeForComponent(componentUID string) fuel.Regime {
	if _, ok := o.UserDefinedFuelsByComponent[componentUID]; ok {
		return fuel.USER
	}
	return o.FuelRegime
}

// UserFuelForComponent returns the pinned user fuel for a component, if any.
func (o Options) UserFuelForComponent(componentUID string) (fuel.Fuel, bool) {
	name, ok := o.UserDefinedFuelsByComponent[componentUID]
	if !ok {
		return fuel.Fuel{}, false
	}
	f, ok := o.UserDefinedFuels[name]
	return f, ok
}
