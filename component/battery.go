package component

import (
	"github.com/sintef/feems/ferror"
	"github.com/sintef/feems/units"
)

// Battery models an electrochemical energy storage. Unlike the
// other atomic components, its per-timestep behavior depends on the prior
// timestep's SoC, the sole temporal dependency in the core.
type Battery struct {
	Base

	RatedCapacityKWh   float64
	ChargingRateC      float64 // C-rate: max charge power = C * capacity
	DischargeRateC     float64
	SoC0               units.SoC
	EffCharging        float64
	EffDischarging     float64
	SoeMin             units.SoC
	SoeMax             units.SoC
	SelfDischargePerDay float64

	// SoC holds the state of charge at the END of each timestep; SoC[t]
	// is the state after processing timestep t, with the initial SoC0 the
	// implicit state before timestep 0.
	SoC []units.SoC
}

// StepResult is the outcome of charging/discharging a battery for one
// timestep.
type StepResult struct {
	AchievedPowerKW units.PowerKW
	SoCAfter        units.SoC
	Saturated       bool
}

// Step advances the battery by one timestep given a requested signed power
// pInKW (positive = charging, negative = discharging) over dtSeconds,
// starting from socBefore. When strict is true and the
// requested power cannot be served without leaving [SoeMin, SoeMax], Step
// returns a StorageSaturation error; otherwise it returns the clipped
// achievable power with Saturated=true.
func (b *Battery) Step(socBefore units.SoC, pInKW units.PowerKW, dtSeconds float64, strict bool) (StepResult, error) {
	if b.RatedCapacityKWh <= 0 {
		return StepResult{}, ferror.New(ferror.ConfigurationError, "battery %s: non-positive rated capacity", b.Name)
	}
	// Power clipped to ±rated_c_rate · rated_capacity.
	maxCharge := b.ChargingRateC * b.RatedCapacityKWh
	maxDischarge := b.DischargeRateC * b.RatedCapacityKWh
	clipped := float64(pInKW)
	saturatedByRate := false
	if clipped > maxCharge {
		clipped = maxCharge
		saturatedByRate = true
	} else if clipped < -maxDischarge {
		clipped = -maxDischarge
		saturatedByRate = true
	}

	deltaEnergyKWh := deltaEnergy(clipped, dtSeconds, b.EffCharging, b.EffDischarging)
	capacityKWs := b.RatedCapacityKWh * 3600.0
	deltaSoC := deltaEnergyKWh * 3600.0 / capacityKWs
	socRaw := float64(socBefore) + deltaSoC
	socRaw -= b.SelfDischargePerDay * dtSeconds / 86400.0

	saturatedBySoC := socRaw < float64(b.SoeMin) || socRaw > float64(b.SoeMax)
	if saturatedBySoC && strict {
		return StepResult{}, ferror.New(ferror.StorageSaturation, "battery %s: requested power %.4f kW would leave SoC bounds [%.4f,%.4f] (computed %.6f)", b.Name, float64(pInKW), float64(b.SoeMin), float64(b.SoeMax), socRaw)
	}

	socAfter := units.SoC(socRaw).Clip(float64(b.SoeMin), float64(b.SoeMax))

	return StepResult{
		AchievedPowerKW: units.PowerKW(clipped),
		SoCAfter:        socAfter,
		Saturated:       saturatedByRate || saturatedBySoC,
	}, nil
}

// deltaEnergy computes ΔE (kWh) for one timestep: charging uses
// η_charging, discharging divides by η_discharging.
func deltaEnergy(pInKW float64, dtSeconds, effCharging, effDischarging float64) float64 {
	energyKWs := pInKW * dtSeconds // kW * s
	energyKWh := energyKWs / 3600.0
	if pInKW >= 0 {
		return energyKWh * effCharging
	}
	if effDischarging == 0 {
		return 0
	}
	return energyKWh / effDischarging
}

// Supercapacitor is structurally identical to Battery but typically has much higher C-rates and
// near-unity round-trip efficiency; it is kept as a distinct Go type so the
// tagged union in variant.go can report the correct Kind.
type Supercapacitor struct {
	Battery
}

// clampSoCRange is a small helper ensuring SoeMin < SoeMax at construction
// time; Variant.Validate uses it (see validate.go).
func clampSoCRange(min, max units.SoC) error {
	if min >= max {
		return ferror.New(ferror.ConfigurationError, "storage: soe_min (%.4f) must be < soe_max (%.4f)", float64(min), float64(max))
	}
	return nil
}
