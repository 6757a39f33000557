// Package units defines the strongly-typed scalar quantities used throughout
// FEEMS so that power, energy, speed, mass flow and time cannot be mixed up
// by accident. Each type is a distinct float64 wrapper rather than a bare
// float64, in the spirit of github.com/ctessum/unit's dimensioned
// quantities.
package units

import "math"

// PowerKW is electrical or mechanical power in kilowatts. Positive is
// forward (consuming/driving) flow; negative is reverse flow (see the sign
// convention in component contracts).
type PowerKW float64

// SpeedRPM is rotational speed in revolutions per minute.
type SpeedRPM float64

// EnergyMJ is energy in megajoules.
type EnergyMJ float64

// EnergyKWhToMJ converts an energy in kilowatt-hours (the unit of battery
// capacity) to megajoules.
func EnergyKWhToMJ(kwh float64) EnergyMJ { return EnergyMJ(kwh * 3.6) }

// MassKg is mass in kilograms.
type MassKg float64

// MassFlowKgPerS is a mass flow rate in kilograms per second.
type MassFlowKgPerS float64

// TimeS is a duration in seconds.
type TimeS float64

// LoadRatio is a dimensionless load fraction, nominally in [0,1] but may
// exceed 1 briefly under the solver's tolerance (see component package).
type LoadRatio float64

// SoC is a state of charge fraction in [0,1].
type SoC float64

// Clip returns l clamped to [lo, hi].
func (l LoadRatio) Clip(lo, hi float64) LoadRatio {
	v := float64(l)
	if v < lo {
		return LoadRatio(lo)
	}
	if v > hi {
		return LoadRatio(hi)
	}
	return LoadRatio(v)
}

// Abs returns the absolute value of p.
func (p PowerKW) Abs() PowerKW {
	return PowerKW(math.Abs(float64(p)))
}

// Clip returns s clamped to [lo, hi].
func (s SoC) Clip(lo, hi float64) SoC {
	v := float64(s)
	if v < lo {
		return SoC(lo)
	}
	if v > hi {
		return SoC(hi)
	}
	return SoC(v)
}

// kWToMJPerS converts kilowatts (kJ/s) to megajoules per second.
func kWToMJPerS(p float64) float64 { return p / 1000.0 }

// EnergyOverInterval integrates a constant power p over duration dt
// (seconds), returning megajoules.
func EnergyOverInterval(p PowerKW, dt TimeS) EnergyMJ {
	return EnergyMJ(kWToMJPerS(float64(p)) * float64(dt))
}
