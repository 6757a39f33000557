// Package topology assembles a configured fleet of components and nodes
// into a runnable system graph, and stages per-timestep input arrays
// (demand profiles, on/off status) against the run's timestep count.
package topology

import (
	"github.com/sintef/feems/ferror"
)

// BroadcastFloat64 resolves a user-supplied input array against t
// timesteps: a length-1 array is broadcast to every timestep, a length-t
// array is used as-is, and any other length is an InputShape error.
func BroadcastFloat64(values []float64, t int) ([]float64, error) {
	switch len(values) {
	case 0:
		return nil, ferror.New(ferror.InputShape, "input array is empty, expected length 1 or %d", t)
	case 1:
		out := make([]float64, t)
		for i := range out {
			out[i] = values[0]
		}
		return out, nil
	case t:
		return values, nil
	default:
		return nil, ferror.New(ferror.InputShape, "input array has length %d, expected length 1 or %d", len(values), t)
	}
}

// BroadcastBool is BroadcastFloat64's boolean counterpart, used for status
// (on/off) input arrays.
func BroadcastBool(values []bool, t int) ([]bool, error) {
	switch len(values) {
	case 0:
		return nil, ferror.New(ferror.InputShape, "input array is empty, expected length 1 or %d", t)
	case 1:
		out := make([]bool, t)
		for i := range out {
			out[i] = values[0]
		}
		return out, nil
	case t:
		return values, nil
	default:
		return nil, ferror.New(ferror.InputShape, "input array has length %d, expected length 1 or %d", len(values), t)
	}
}

// StageInputs broadcasts every named input array in raw against t
// timesteps, returning an error naming the first array whose shape cannot
// be resolved.
func StageInputs(raw map[string][]float64, t int) (map[string][]float64, error) {
	staged := make(map[string][]float64, len(raw))
	for name, values := range raw {
		resolved, err := BroadcastFloat64(values, t)
		if err != nil {
			return nil, ferror.Wrap(ferror.InputShape, err, "staging input %q", name)
		}
		staged[name] = resolved
	}
	return staged, nil
}
