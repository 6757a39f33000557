// Package integrate turns dense per-timestep rate arrays (power, fuel mass
// flow, emission rate) into run totals, using one of three numerical rules,
// and accumulates running hours from boolean status arrays.
package integrate

import (
	"github.com/sintef/feems/config"
	"github.com/sintef/feems/ferror"
)

// Series integrates y (a rate, sampled at the start of each timestep) over
// a fixed timestep dtSeconds, using rule. A single sample is integrated as
// that rate held for one dtSeconds under every rule; SumWithInterval
// treats every sample as the rate held constant for dtSeconds (a left
// Riemann sum), which is what the solver's own per-timestep model assumes,
// and is the right choice whenever y is not being resampled from a denser
// source.
func Series(y []float64, dtSeconds float64, rule config.IntegrationRule) (float64, error) {
	n := len(y)
	if n == 0 {
		return 0, nil
	}
	switch rule {
	case config.Trapezoid:
		if n == 1 {
			return y[0] * dtSeconds, nil
		}
		sum := 0.0
		for i := 0; i < n-1; i++ {
			sum += 0.5 * (y[i] + y[i+1]) * dtSeconds
		}
		return sum, nil
	case config.Simpson:
		if n == 1 {
			return y[0] * dtSeconds, nil
		}
		if n%2 == 0 {
			// Simpson's rule needs an odd sample count (even interval
			// count); fall back to trapezoid on the trailing interval.
			if n == 2 {
				return 0.5 * (y[0] + y[1]) * dtSeconds, nil
			}
			sum, err := Series(y[:n-1], dtSeconds, config.Simpson)
			if err != nil {
				return 0, err
			}
			sum += 0.5 * (y[n-2] + y[n-1]) * dtSeconds
			return sum, nil
		}
		sum := y[0] + y[n-1]
		for i := 1; i < n-1; i++ {
			if i%2 == 1 {
				sum += 4 * y[i]
			} else {
				sum += 2 * y[i]
			}
		}
		return sum * dtSeconds / 3.0, nil
	case config.SumWithInterval:
		sum := 0.0
		for _, v := range y {
			sum += v * dtSeconds
		}
		return sum, nil
	default:
		return 0, ferror.New(ferror.ConfigurationError, "integrate: unknown rule %v", rule)
	}
}

// RunningHoursHr returns Σ status[t]·Δt/3600, the component-level running
// hours total.
func RunningHoursHr(status []bool, dtSeconds float64) float64 {
	hrs := 0.0
	for _, on := range status {
		if on {
			hrs += dtSeconds / 3600.0
		}
	}
	return hrs
}
