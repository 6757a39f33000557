package component

import (
	"github.com/sintef/feems/ferror"
	"github.com/sintef/feems/fuel"
)

// Validate checks the configuration invariants that can be verified on a
// single component in isolation: a populated efficiency curve with a
// monotone-non-decreasing-then-any shape is not required (curves may dip),
// but the curve must be non-empty and rated power must be positive. Storage
// components additionally require SoeMin < SoeMax and a positive rated
// capacity. Cross-component invariants (unknown node reference, duplicate
// UID) are checked by the topology package once the full fleet is known.
func (v Variant) Validate() error {
	b, err := v.Base()
	if err != nil {
		return err
	}
	if b.UID == "" {
		return ferror.New(ferror.ConfigurationError, "component %q: missing uid", b.Name)
	}
	if float64(b.Rating.RatedPowerKW) <= 0 {
		return ferror.New(ferror.ConfigurationError, "component %s: rated_power must be positive", b.Name)
	}
	if b.Rating.EffCurve == nil || b.Rating.EffCurve.Len() == 0 {
		return ferror.New(ferror.ConfigurationError, "component %s: missing efficiency/bsfc curve", b.Name)
	}

	switch v.Tag {
	case MainEngine, AuxEngine, Genset:
		if err := requireFuelKind(b.Name, engineFuelKind(v)); err != nil {
			return err
		}
	case COGASKind, COGES:
		if v.COGAS != nil {
			if err := requireFuelKind(b.Name, v.COGAS.FuelKind); err != nil {
				return err
			}
		}
	case FuelCellKind, FuelCellSystem:
		if v.FuelCell != nil {
			if err := requireFuelKind(b.Name, v.FuelCell.FuelKind); err != nil {
				return err
			}
		}
	case BatteryKind, BatterySystem, SupercapacitorKind, SupercapacitorSystem:
		if v.Battery != nil {
			if v.Battery.RatedCapacityKWh <= 0 {
				return ferror.New(ferror.ConfigurationError, "storage %s: rated_capacity_kwh must be positive", b.Name)
			}
			if err := clampSoCRange(v.Battery.SoeMin, v.Battery.SoeMax); err != nil {
				return err
			}
			if v.Battery.SoC0 < v.Battery.SoeMin || v.Battery.SoC0 > v.Battery.SoeMax {
				return ferror.New(ferror.ConfigurationError, "storage %s: soc0 %.4f outside [soe_min,soe_max]", b.Name, float64(v.Battery.SoC0))
			}
		}
	}
	return nil
}

func engineFuelKind(v Variant) fuel.Kind {
	switch {
	case v.Engine != nil:
		return v.Engine.FuelKind
	case v.DualFuelEngine != nil:
		return v.DualFuelEngine.FuelKind
	case v.MultiFuelEngine != nil:
		if len(v.MultiFuelEngine.Configs) > 0 {
			return v.MultiFuelEngine.Configs[0].FuelKind
		}
	}
	return fuel.Kind(0)
}

// requireFuelKind rejects a fuel-burning component left with the zero Kind,
// the one fuel-related check that belongs at single-component validation
// time; regime-specific checks (USER fuel needs a name) are Fuel-level and
// run in fuel.Fuel.Validate once a run's regime is known.
func requireFuelKind(componentName string, k fuel.Kind) error {
	if k == fuel.KindNone {
		return ferror.New(ferror.ConfigurationError, "component %s: missing fuel kind", componentName)
	}
	return nil
}
