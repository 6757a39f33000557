// Package pms implements a load-dependent power management policy: which
// gensets to start or stop given present demand, run independently of the
// node balance solvers so that alternative dispatch strategies can be
// substituted without touching node or system.
package pms

import (
	"sort"

	"github.com/sintef/feems/node"
	"github.com/sintef/feems/units"
)

// LoadDependentStartStop decides genset on/off status from total demand
// using a simple two-threshold hysteresis: engage the next genset (by
// ascending BaseLoadOrder, then rated capacity) once the currently-online
// fleet would exceed startThreshold of its combined capacity, and take one
// offline once the fleet would run below stopThreshold even with one fewer
// unit online. Both thresholds are fractions of combined online capacity,
// 0 < stopThreshold < startThreshold <= 1.
type LoadDependentStartStop struct {
	StartThreshold float64
	StopThreshold  float64
}

// Decide returns the on/off mask for sources (in the same order given),
// given a prior mask (the previous timestep's status, used only to prefer
// keeping already-running units online when candidates tie) and the
// present demand.
func (p LoadDependentStartStop) Decide(sources []node.Source, demandKW units.PowerKW, previousOn []bool) []bool {
	order := rankedIndices(sources, previousOn)
	on := make([]bool, len(sources))

	onlineCapacity := 0.0
	count := 0
	for _, i := range order {
		if count == 0 {
			on[i] = true
			onlineCapacity += float64(sources[i].RatedPowerKW())
			count++
			continue
		}
		loadFraction := float64(demandKW) / onlineCapacity
		if loadFraction <= p.StartThreshold {
			break
		}
		on[i] = true
		onlineCapacity += float64(sources[i].RatedPowerKW())
		count++
	}

	// Shed from the top of the ranking while the fleet would still run
	// below stopThreshold even without that unit, to avoid oscillating
	// units on/off at the boundary.
	for count > 1 {
		last := order[count-1]
		withoutLast := onlineCapacity - float64(sources[last].RatedPowerKW())
		if withoutLast <= 0 {
			break
		}
		if float64(demandKW)/withoutLast >= p.StopThreshold {
			break
		}
		on[last] = false
		onlineCapacity = withoutLast
		count--
	}
	return on
}

// rankedIndices orders source indices by BaseLoadOrder ascending (priority
// sources first), then by previously-on status (already-running units
// preferred, to damp churn), then by descending rated capacity.
func rankedIndices(sources []node.Source, previousOn []bool) []int {
	idx := make([]int, len(sources))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		i, j := idx[a], idx[b]
		oi, oj := sources[i].BaseLoadOrder, sources[j].BaseLoadOrder
		if oi != oj {
			if oi == 0 {
				return false
			}
			if oj == 0 {
				return true
			}
			return oi < oj
		}
		wasOnI := i < len(previousOn) && previousOn[i]
		wasOnJ := j < len(previousOn) && previousOn[j]
		if wasOnI != wasOnJ {
			return wasOnI
		}
		return sources[i].RatedPowerKW() > sources[j].RatedPowerKW()
	})
	return idx
}
