// Package sim implements an external simulation orchestrator: a loop that
// steps a system.System one timestep at a time, applying a power
// management policy (package pms) to the switchboard's genset mask before
// each step and carrying storage state of charge forward, accumulating a
// single run-long result.Result.
//
// This sits outside the deterministic core by design: the core
// (component/chain/node/system) takes status and demand as given inputs
// and never decides policy itself.
package sim

import (
	"context"

	"github.com/sintef/feems/pms"
	"github.com/sintef/feems/result"
	"github.com/sintef/feems/system"
	"github.com/sintef/feems/units"
)

// Orchestrator drives one System through a voyage profile.
type Orchestrator struct {
	System *system.System
	Policy pms.LoadDependentStartStop
}

// VoyageProfile is the full per-timestep demand a voyage simulation
// supplies, one entry per timestep.
type VoyageProfile struct {
	DtSeconds          float64
	ElectricDemandKW   []float64
	MechanicalDemandKW map[string][]float64
	StorageRequestKW   map[string][]float64
	SoC0ByStorage      map[string]units.SoC
}

// Run steps through every timestep of profile, applying the power
// management policy to the switchboard's source mask before each step. ctx
// cancellation is checked once per timestep so long voyages can be
// interrupted between steps.
func (o *Orchestrator) Run(ctx context.Context, profile VoyageProfile) (*result.Result, error) {
	total := result.New()
	n := len(profile.ElectricDemandKW)
	if o.System.Switchboard == nil {
		n = maxMechanicalLen(profile.MechanicalDemandKW)
	}

	var previousOn []bool
	if o.System.Switchboard != nil {
		previousOn = make([]bool, len(o.System.Switchboard.Sources))
	}
	soc := make(map[string]units.SoC, len(profile.SoC0ByStorage))
	for uid, s0 := range profile.SoC0ByStorage {
		soc[uid] = s0
	}

	for t := 0; t < n; t++ {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		if o.System.Switchboard != nil {
			demand := units.PowerKW(profile.ElectricDemandKW[t])
			onMask := o.Policy.Decide(o.System.Switchboard.Sources, demand, previousOn)
			for i := range o.System.Switchboard.Sources {
				o.System.Switchboard.Sources[i].On = onMask[i]
			}
			previousOn = onMask
		}

		step := system.Inputs{
			Timesteps:          1,
			TimePointOffset:    t,
			ElectricDemandKW:   sliceAt(profile.ElectricDemandKW, t),
			MechanicalDemandKW: sliceAtAll(profile.MechanicalDemandKW, t),
			StorageRequestKW:   sliceAtAll(profile.StorageRequestKW, t),
			SoC0ByStorage:      soc,
		}
		stepResult, err := o.System.Run(step)
		if err != nil {
			return total, err
		}
		total.Merge(stepResult)
		for uid, s := range stepResult.EndingSoCByStorage {
			soc[uid] = s
		}
	}
	return total, nil
}

func sliceAt(series []float64, t int) []float64 {
	if t >= len(series) {
		return nil
	}
	return series[t : t+1]
}

func sliceAtAll(byKey map[string][]float64, t int) map[string][]float64 {
	out := make(map[string][]float64, len(byKey))
	for k, series := range byKey {
		out[k] = sliceAt(series, t)
	}
	return out
}

func maxMechanicalLen(byKey map[string][]float64) int {
	max := 0
	for _, series := range byKey {
		if len(series) > max {
			max = len(series)
		}
	}
	return max
}

