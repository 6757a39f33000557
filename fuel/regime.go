package fuel

import "fmt"

// regimeKey indexes the static regime table by (kind, origin, consumer
// class). ConsumerClass is "" for rows that do not distinguish by class.
type regimeKey struct {
	kind          Kind
	origin        Origin
	consumerClass ConsumerClass
}

// regimeRow is the static, process-wide, read-only content of the regime
// table: LHV, well-to-tank
// factor, carbon fraction, and the TTW factor rows for a fuel/origin.
type regimeRow struct {
	lhvMJPerG            float64
	wttFactorGCO2eqPerMJ float64
	carbonFractionOfFuel float64
	ttwFactors           []GhgFactorTTW
}

// imoTable and fuelEUTable are loaded once at package init and never
// mutated afterwards. Numeric values below are representative
// IMO/FuelEU Tank-to-Wake defaults (e.g. diesel fossil CO2 factor ≈ 3.206
// gCO2/gfuel).
var imoTable = map[regimeKey]regimeRow{
	{Diesel, Fossil, ""}: {
		lhvMJPerG: 0.0427, wttFactorGCO2eqPerMJ: 14.4, carbonFractionOfFuel: 0.86,
		ttwFactors: []GhgFactorTTW{{Co2: 3.206, Ch4: 0.00006, N2o: 0.00015}},
	},
	{HFO, Fossil, ""}: {
		lhvMJPerG: 0.0405, wttFactorGCO2eqPerMJ: 13.5, carbonFractionOfFuel: 0.85,
		ttwFactors: []GhgFactorTTW{{Co2: 3.114, Ch4: 0.00006, N2o: 0.00015}},
	},
	{VLSFO, Fossil, ""}: {
		lhvMJPerG: 0.041, wttFactorGCO2eqPerMJ: 13.7, carbonFractionOfFuel: 0.85,
		ttwFactors: []GhgFactorTTW{{Co2: 3.151, Ch4: 0.00006, N2o: 0.00015}},
	},
	{ULSFO, Fossil, ""}: {
		lhvMJPerG: 0.0411, wttFactorGCO2eqPerMJ: 13.7, carbonFractionOfFuel: 0.85,
		ttwFactors: []GhgFactorTTW{{Co2: 3.151, Ch4: 0.00006, N2o: 0.00015}},
	},
	{LFO, Fossil, ""}: {
		lhvMJPerG: 0.0417, wttFactorGCO2eqPerMJ: 13.2, carbonFractionOfFuel: 0.86,
		ttwFactors: []GhgFactorTTW{{Co2: 3.151, Ch4: 0.00006, N2o: 0.00015}},
	},
	{NaturalGas, Fossil, ""}: {
		lhvMJPerG: 0.0491, wttFactorGCO2eqPerMJ: 18.5, carbonFractionOfFuel: 0.75,
		ttwFactors: []GhgFactorTTW{{Co2: 2.750, Ch4: 0.00605, N2o: 0.00015, CSlipPercent: 3.1}},
	},
	{Hydrogen, RenewableNonBio, ""}: {
		lhvMJPerG: 0.120, wttFactorGCO2eqPerMJ: 0,
		ttwFactors: []GhgFactorTTW{{Co2: 0, Ch4: 0, N2o: 0}},
	},
	{Ammonia, RenewableNonBio, ""}: {
		lhvMJPerG: 0.0186, wttFactorGCO2eqPerMJ: 0,
		ttwFactors: []GhgFactorTTW{{Co2: 0, Ch4: 0, N2o: 0}},
	},
	{Methanol, Fossil, ""}: {
		lhvMJPerG: 0.0199, wttFactorGCO2eqPerMJ: 16.0, carbonFractionOfFuel: 0.375,
		ttwFactors: []GhgFactorTTW{{Co2: 1.375, Ch4: 0.00006, N2o: 0.00015}},
	},
}

// fuelEUTable mirrors imoTable's keys but uses the FuelEU Maritime
// consumer-class-qualified rows where they differ from the IMO defaults.
// The exact numeric carbon-slip term differs subtly between IMO and
// FuelEU; this table's CSlipPercent values are the regime-specific inputs,
// and the combinator in ghg.go applies the shared formula to whichever
// table supplied the row.
var fuelEUTable = map[regimeKey]regimeRow{
	{Diesel, Fossil, ""}: imoTable[regimeKey{Diesel, Fossil, ""}],
	{HFO, Fossil, ""}:     imoTable[regimeKey{HFO, Fossil, ""}],
	{VLSFO, Fossil, ""}:   imoTable[regimeKey{VLSFO, Fossil, ""}],
	{ULSFO, Fossil, ""}:   imoTable[regimeKey{ULSFO, Fossil, ""}],
	{LFO, Fossil, ""}:     imoTable[regimeKey{LFO, Fossil, ""}],
	{NaturalGas, Fossil, ""}: {
		lhvMJPerG: 0.0491, wttFactorGCO2eqPerMJ: 18.5, carbonFractionOfFuel: 0.75,
		ttwFactors: []GhgFactorTTW{{Co2: 2.750, Ch4: 0.00605, N2o: 0.00015, CSlipPercent: 3.1, ConsumerClass: "otto-slow-speed"}},
	},
	{Hydrogen, RenewableNonBio, ""}:  imoTable[regimeKey{Hydrogen, RenewableNonBio, ""}],
	{Ammonia, RenewableNonBio, ""}:   imoTable[regimeKey{Ammonia, RenewableNonBio, ""}],
	{Methanol, Fossil, ""}:           imoTable[regimeKey{Methanol, Fossil, ""}],
}

// Lookup resolves (kind, origin, consumer class) against the static table
// for the given regime, returning a Fuel with MassKg 0 (the caller sets
// mass). IMO and FuelEU_Maritime are the only regimes with a static table;
// USER fuels are supplied directly by the caller and never looked up here.
func Lookup(regime Regime, kind Kind, origin Origin, consumerClass ConsumerClass) (Fuel, error) {
	var table map[regimeKey]regimeRow
	switch regime {
	case IMO:
		table = imoTable
	case FuelEUMaritime:
		table = fuelEUTable
	default:
		return Fuel{}, fmt.Errorf("fuel: regime %v has no static lookup table (USER fuels must be constructed directly)", regime)
	}
	row, ok := table[regimeKey{kind, origin, consumerClass}]
	if !ok {
		row, ok = table[regimeKey{kind, origin, ""}]
	}
	if !ok {
		return Fuel{}, fmt.Errorf("fuel: no %v table entry for kind=%v origin=%v class=%q", regime, kind, origin, consumerClass)
	}
	return Fuel{
		Kind:                 kind,
		Origin:               origin,
		Regime:               regime,
		LHVMJPerG:            row.lhvMJPerG,
		WTTFactorGCO2eqPerMJ: row.wttFactorGCO2eqPerMJ,
		CarbonFractionOfFuel: row.carbonFractionOfFuel,
		TTWFactors:           cloneTTWFactors(row.ttwFactors),
	}, nil
}
