// Package chain implements serial composition of atomic components: a
// genset (engine + electric machine), a shaftline drivetrain (gearbox +
// propeller), or any other fixed sequence of links that share a single
// power path. A chain resolves power end-to-end by propagating the
// load/efficiency contract link by link.
package chain

import (
	"github.com/sintef/feems/component"
	"github.com/sintef/feems/ferror"
	"github.com/sintef/feems/units"
)

// SerialChain is an ordered sequence of components sharing one power path,
// conventionally ordered from the source-facing end to the load-facing end
// (e.g. [Engine, ElectricMachine] for a genset, [Gearbox, PropellerLoad] for
// a shaftline leg).
type SerialChain struct {
	UID   string
	Name  string
	Links []component.Variant
}

// Result is the outcome of resolving a chain at one operating point: the
// power at each end, the per-link load ratios, and the overall chain
// efficiency (output/input magnitude ratio).
type Result struct {
	PowerInKW  units.PowerKW
	PowerOutKW units.PowerKW
	LinkLoads  []units.LoadRatio
	LinkEffs   []float64
	OverallEff float64

	// LinkPowerInKW and LinkPowerOutKW are each link's own input/output
	// power, in link order, so a caller can report per-component detail
	// instead of only the chain's end-to-end power.
	LinkPowerInKW  []units.PowerKW
	LinkPowerOutKW []units.PowerKW
}

// ForwardFromInput propagates a known input power through the chain in
// link order, each link's output feeding the next link's input.
func (c *SerialChain) ForwardFromInput(pIn units.PowerKW) (Result, error) {
	if len(c.Links) == 0 {
		return Result{}, ferror.New(ferror.ConfigurationError, "chain %s: no links", c.Name)
	}
	res := Result{PowerInKW: pIn}
	res.LinkLoads = make([]units.LoadRatio, len(c.Links))
	res.LinkEffs = make([]float64, len(c.Links))
	res.LinkPowerInKW = make([]units.PowerKW, len(c.Links))
	res.LinkPowerOutKW = make([]units.PowerKW, len(c.Links))

	current := pIn
	for i, link := range c.Links {
		out, load, eff, err := link.ForwardFromInput(current)
		if err != nil {
			return Result{}, ferror.Wrap(ferror.ConfigurationError, err, "chain %s: link %d", c.Name, i)
		}
		if eff <= 0 {
			return Result{}, ferror.New(ferror.PowerBalance, "chain %s: link %d resolved to zero efficiency, chain is infeasible", c.Name, i)
		}
		res.LinkLoads[i] = load
		res.LinkEffs[i] = eff
		res.LinkPowerInKW[i] = current
		res.LinkPowerOutKW[i] = out
		current = out
	}
	res.PowerOutKW = current
	res.OverallEff = overallEfficiency(pIn, current)
	return res, nil
}

// ReverseFromOutput propagates a known output power backward through the
// chain in reverse link order.
func (c *SerialChain) ReverseFromOutput(pOut units.PowerKW) (Result, error) {
	if len(c.Links) == 0 {
		return Result{}, ferror.New(ferror.ConfigurationError, "chain %s: no links", c.Name)
	}
	res := Result{PowerOutKW: pOut}
	res.LinkLoads = make([]units.LoadRatio, len(c.Links))
	res.LinkEffs = make([]float64, len(c.Links))
	res.LinkPowerInKW = make([]units.PowerKW, len(c.Links))
	res.LinkPowerOutKW = make([]units.PowerKW, len(c.Links))

	current := pOut
	for i := len(c.Links) - 1; i >= 0; i-- {
		in, load, eff, err := c.Links[i].ReverseFromOutput(current)
		if err != nil {
			return Result{}, ferror.Wrap(ferror.ConfigurationError, err, "chain %s: link %d", c.Name, i)
		}
		if eff <= 0 {
			return Result{}, ferror.New(ferror.PowerBalance, "chain %s: link %d resolved to zero efficiency, chain is infeasible", c.Name, i)
		}
		res.LinkLoads[i] = load
		res.LinkEffs[i] = eff
		res.LinkPowerOutKW[i] = current
		res.LinkPowerInKW[i] = in
		current = in
	}
	res.PowerInKW = current
	res.OverallEff = overallEfficiency(current, pOut)
	return res, nil
}

// overallEfficiency is |out|/|in|, 1.0 when input is exactly zero (no load
// to account for).
func overallEfficiency(pIn, pOut units.PowerKW) float64 {
	in := float64(pIn)
	if in == 0 {
		return 1.0
	}
	out := float64(pOut)
	if out < 0 {
		out = -out
	}
	if in < 0 {
		in = -in
	}
	return out / in
}
