// Package node implements the two kinds of power-balancing node a ship's
// electrical/mechanical topology is built from: Switchboard (electrical bus
// balancing with symmetric load sharing across gensets, shore power and
// storage) and Shaftline (mechanical bus balancing, including PTI/PTO
// cross-coupling and full-PTI operation).
package node

import (
	"sort"

	"github.com/sintef/feems/chain"
	"github.com/sintef/feems/component"
	"github.com/sintef/feems/ferror"
	"github.com/sintef/feems/fuel"
	"github.com/sintef/feems/units"
)

// FuelFor resolves the effective fuel regime and any pinned user fuel for a
// specific component, overriding the flat regime a Solve call is otherwise
// given. A nil *fuel.Fuel means "use the regime table normally"; a non-nil
// one pins the component to that exact fuel (the only way a component whose
// resolved regime is fuel.USER can resolve, since fuel.Lookup has no table
// for USER).
type FuelFor func(componentUID string) (fuel.Regime, *fuel.Fuel)

// SourceKind distinguishes how a Source resolves power.
type SourceKind int

const (
	SourceGenset  SourceKind = iota // chain.SerialChain, e.g. Engine+ElectricMachine
	SourceDirect                    // single component.Variant (COGAS, FuelCell, ElectricMachine, ShorePower)
	SourceStorage                   // component.Variant wrapping a Battery/Supercapacitor
)

// Source is one electrical power source attached to a Switchboard.
type Source struct {
	UID           string
	Kind          SourceKind
	Chain         *chain.SerialChain
	Component     *component.Variant
	BaseLoadOrder int // 0 = normal/peer priority; >0 services demand first, in ascending order
	On            bool

	// LoadSharingMode is the peer tier's static sharing weight: if positive,
	// it is used directly as w_k in the weighted share w_k/Σw_j; if zero or
	// negative, the source falls back to equal-ratio sharing weighted by its
	// own rated power. This is the source's configured dispatch weight, not
	// the per-timestep value recorded in component.Base's history array of
	// the same name.
	LoadSharingMode float64
}

// RatedPowerKW returns the source's nameplate capacity.
func (s Source) RatedPowerKW() units.PowerKW {
	switch s.Kind {
	case SourceGenset:
		if len(s.Chain.Links) == 0 {
			return 0
		}
		b, err := s.Chain.Links[len(s.Chain.Links)-1].Base()
		if err != nil {
			return 0
		}
		return b.Rating.RatedPowerKW
	default:
		b, err := s.Component.Base()
		if err != nil {
			return 0
		}
		return b.Rating.RatedPowerKW
	}
}

// Switchboard balances electrical demand across its attached sources:
// priority (BaseLoadOrder) sources are loaded first, in ascending order, to
// at least AverageBaseLoadFraction of their rated power (less only when
// overall demand itself falls short of that floor); the remaining demand is
// shared across the peer tier by weight (LoadSharingMode if configured,
// else rated power — equal-ratio sharing), with a capacity-redistribution
// pass capping any source above its max-allowed-load fraction and spreading
// the excess across peers with headroom. Bus-tie pooling is modeled by
// constructing a single Switchboard over the union of two tied boards'
// sources.
type Switchboard struct {
	UID     string
	Name    string
	Sources []Source

	// MaxGensetLoadFraction/MaxFuelCellLoadFraction cap an individual
	// source's assigned share, as a fraction of its rated power, during
	// capacity redistribution. Zero means "unset" and defaults to 1.0.
	MaxGensetLoadFraction   float64
	MaxFuelCellLoadFraction float64

	// AverageBaseLoadFraction is the minimum fraction of rated power a
	// BaseLoadOrder source is loaded to before the peer tier is asked to
	// cover the rest. Zero means "unset" and defaults to 1.0, i.e. priority
	// sources are filled to capacity before peers see any load.
	AverageBaseLoadFraction float64
}

// SourceResult is the per-source outcome of one Solve call.
type SourceResult struct {
	UID        string
	PowerKW    units.PowerKW
	LoadRatio  units.LoadRatio
	Efficiency float64
	FuelPoint  component.EngineRunPoint

	// Links is one entry per registered component backing this source: the
	// engine and electric machine of a genset chain, or the single
	// component of a direct/storage source. Callers report per-component
	// detail from this rather than from the source's aggregate fields.
	Links []LinkDetail
}

// LinkDetail is one registered component's resolved operating point at one
// timestep, carrying enough identity and power-flow data for a caller to
// report per-component detail without re-deriving it from the chain.
type LinkDetail struct {
	UID                      string
	Name                     string
	Kind                     component.Kind
	SwitchboardOrShaftlineID string
	PowerInKW                units.PowerKW
	PowerOutKW               units.PowerKW
	LoadRatio                units.LoadRatio
	Efficiency               float64
	FuelPoint                component.EngineRunPoint
	On                       bool

	// SharingWeight is the w_k this source's peer-tier share was computed
	// with this timestep (LoadSharingMode if configured, else rated power);
	// zero for priority-tier and non-Switchboard sources, which don't
	// participate in weighted sharing.
	SharingWeight float64
}

// newLinkDetail resolves v's identity via Base() and packages it alongside
// its resolved operating point.
func newLinkDetail(v component.Variant, powerInKW, powerOutKW units.PowerKW, load units.LoadRatio, eff float64, fp component.EngineRunPoint, on bool, sharingWeight float64) (LinkDetail, error) {
	b, err := v.Base()
	if err != nil {
		return LinkDetail{}, err
	}
	return LinkDetail{
		UID: b.UID, Name: b.Name, Kind: b.Kind, SwitchboardOrShaftlineID: b.SwitchboardOrShaftlineID,
		PowerInKW: powerInKW, PowerOutKW: powerOutKW, LoadRatio: load, Efficiency: eff,
		FuelPoint: fp, On: on, SharingWeight: sharingWeight,
	}, nil
}

// Result is the outcome of balancing one timestep's demand.
type Result struct {
	DemandKW  units.PowerKW
	ServedKW  units.PowerKW
	ResidualKW units.PowerKW // unmet demand; non-zero only when ignorePowerBalance
	Sources   []SourceResult
}

// Solve balances demandKW (total electrical load, always >=0) across the
// switchboard's on sources. regime selects the fuel accounting table used
// for any genset/direct fuel-burning source, unless fuelFor (optional)
// overrides it per component; ignorePowerBalance controls whether an
// unserviceable residual is a hard error or a recorded shortfall.
func (sb *Switchboard) Solve(demandKW units.PowerKW, regime fuel.Regime, ignorePowerBalance bool, fuelFor ...FuelFor) (Result, error) {
	regimeFor := defaultFuelFor(regime, fuelFor)
	res := Result{DemandKW: demandKW}
	remaining := float64(demandKW)

	priority, peers := partitionByPriority(sb.Sources)

	baseLoadFraction := sb.AverageBaseLoadFraction
	if baseLoadFraction <= 0 {
		baseLoadFraction = 1.0
	}
	for _, src := range priority {
		if !src.On {
			continue
		}
		rated := float64(src.RatedPowerKW())
		// A priority source is loaded to its average_base_load floor,
		// leaving the rest of the demand for the peer tier; it is only
		// demoted below that floor when overall demand can't reach it.
		take := rated * baseLoadFraction
		if take > remaining {
			take = remaining
		}
		if take < 0 {
			take = 0
		}
		sr, err := resolveSource(src, units.PowerKW(take), regimeFor, 0)
		if err != nil {
			return Result{}, err
		}
		res.Sources = append(res.Sources, sr)
		remaining -= take
	}

	onPeers := make([]Source, 0, len(peers))
	for _, src := range peers {
		if src.On {
			onPeers = append(onPeers, src)
		}
	}

	if remaining > 1e-9 {
		if len(onPeers) == 0 {
			if ignorePowerBalance {
				res.ResidualKW = units.PowerKW(remaining)
				remaining = 0
			} else {
				return Result{}, ferror.PowerBalanceErr(sb.UID, remaining, "switchboard %s: demand %.4f kW with no available peer capacity", sb.Name, remaining)
			}
		} else {
			shares := sb.shareAmongPeers(onPeers, remaining)
			served := 0.0
			for _, sh := range shares {
				served += sh.kW
			}
			if shortfall := remaining - served; shortfall > 1e-6 {
				if !ignorePowerBalance {
					return Result{}, ferror.PowerBalanceErr(sb.UID, shortfall, "switchboard %s: demand %.4f kW exceeds peer capacity after capacity redistribution", sb.Name, remaining)
				}
				res.ResidualKW += units.PowerKW(shortfall)
			}
			for _, sh := range shares {
				sr, err := resolveSource(sh.src, units.PowerKW(sh.kW), regimeFor, sh.weight)
				if err != nil {
					return Result{}, err
				}
				res.Sources = append(res.Sources, sr)
				remaining -= sh.kW
			}
		}
	}

	servedKW := 0.0
	for _, sr := range res.Sources {
		servedKW += float64(sr.PowerKW)
	}
	res.ServedKW = units.PowerKW(servedKW)
	return res, nil
}

// partitionByPriority splits sources into the ascending-BaseLoadOrder
// priority tier and the zero-order peer tier.
func partitionByPriority(sources []Source) (priority, peers []Source) {
	for _, s := range sources {
		if s.BaseLoadOrder > 0 {
			priority = append(priority, s)
		} else {
			peers = append(peers, s)
		}
	}
	sort.SliceStable(priority, func(i, j int) bool {
		return priority[i].BaseLoadOrder < priority[j].BaseLoadOrder
	})
	return priority, peers
}

// peerShare is one peer source's assigned output during weighted load
// sharing, before it is driven through resolveSource.
type peerShare struct {
	src    Source
	weight float64
	capKW  float64
	kW     float64
	fixed  bool
}

// capFractionFor returns the maximum fraction of rated power src may be
// loaded to during capacity redistribution. Defaults to 1.0 when the
// switchboard's corresponding max-allowed-fraction field is unset.
func (sb *Switchboard) capFractionFor(src Source) float64 {
	switch {
	case src.Kind == SourceGenset:
		if sb.MaxGensetLoadFraction > 0 {
			return sb.MaxGensetLoadFraction
		}
	case src.Kind == SourceDirect && src.Component != nil && src.Component.FuelCell != nil:
		if sb.MaxFuelCellLoadFraction > 0 {
			return sb.MaxFuelCellLoadFraction
		}
	}
	return 1.0
}

// shareAmongPeers distributes demandKW across onPeers by weight — w_k is
// LoadSharingMode if positive, else rated power, so an all-default peer
// tier lands at equal load ratio. It then runs capacity redistribution: any
// share exceeding its source's rated*capFraction is clipped there, and the
// excess is spread across peers with remaining headroom proportional to
// their own weight, iterating until every share fits or no peer has
// headroom left. A residual shortfall (possible only when headroom runs
// out before demandKW is fully placed) is reported by summing the returned
// shares against demandKW; it is never treated as an error here.
func (sb *Switchboard) shareAmongPeers(onPeers []Source, demandKW float64) []peerShare {
	shares := make([]peerShare, len(onPeers))
	totalWeight := 0.0
	for i, src := range onPeers {
		w := src.LoadSharingMode
		if w <= 0 {
			w = float64(src.RatedPowerKW())
		}
		shares[i] = peerShare{src: src, weight: w, capKW: float64(src.RatedPowerKW()) * sb.capFractionFor(src)}
		totalWeight += w
	}
	if totalWeight <= 0 {
		return shares
	}
	for i := range shares {
		shares[i].kW = shares[i].weight / totalWeight * demandKW
	}

	for iter := 0; iter < len(shares); iter++ {
		overflow := 0.0
		freeWeight := 0.0
		for i := range shares {
			if shares[i].fixed {
				continue
			}
			if shares[i].kW > shares[i].capKW+1e-9 {
				overflow += shares[i].kW - shares[i].capKW
				shares[i].kW = shares[i].capKW
				shares[i].fixed = true
			} else {
				freeWeight += shares[i].weight
			}
		}
		if overflow <= 1e-9 {
			break
		}
		if freeWeight <= 0 {
			break
		}
		for i := range shares {
			if !shares[i].fixed {
				shares[i].kW += overflow * shares[i].weight / freeWeight
			}
		}
	}
	return shares
}

// defaultFuelFor returns fuelFor's first entry if present, else a resolver
// that always returns the flat regime with no pin — so a caller that never
// needs per-component overrides can keep passing a single regime.
func defaultFuelFor(regime fuel.Regime, fuelFor []FuelFor) FuelFor {
	if len(fuelFor) > 0 && fuelFor[0] != nil {
		return fuelFor[0]
	}
	return func(string) (fuel.Regime, *fuel.Fuel) { return regime, nil }
}

// resolveSource drives a single source to produce powerKW, via its chain's
// reverse-pass (for gensets) or directly (for shore power, COGAS, fuel
// cells, electric machines). Storage sources are resolved by the caller via
// Battery.Step, since they additionally carry SoC state across timesteps;
// Solve does not check the kind, so a SourceStorage placed in Sources is
// resolved here like a direct source (topology.BuildSystem puts storage in
// system.System.Storages instead). sharingWeight is the w_k the
// peer-tier share was computed with (0 for priority-tier sources, which
// don't participate in weighted sharing) and is only recorded onto the
// resulting LinkDetails, not used in the power solve itself.
func resolveSource(src Source, powerKW units.PowerKW, regimeFor FuelFor, sharingWeight float64) (SourceResult, error) {
	on := powerKW != 0
	switch src.Kind {
	case SourceGenset:
		r, err := src.Chain.ReverseFromOutput(powerKW)
		if err != nil {
			return SourceResult{}, err
		}
		links := make([]LinkDetail, len(src.Chain.Links))
		var fp component.EngineRunPoint
		for i, link := range src.Chain.Links {
			b, err := link.Base()
			if err != nil {
				return SourceResult{}, err
			}
			regime, userFuel := regimeFor(b.UID)
			linkFP, err := link.RunFuelKernel(r.LinkPowerOutKW[i], regime, userFuel)
			if err != nil {
				return SourceResult{}, err
			}
			ld, err := newLinkDetail(link, r.LinkPowerInKW[i], r.LinkPowerOutKW[i], r.LinkLoads[i], r.LinkEffs[i], linkFP, on, sharingWeight)
			if err != nil {
				return SourceResult{}, err
			}
			links[i] = ld
			if linkFP.Fuel.Kind != fuel.KindNone {
				fp = linkFP
			}
		}
		return SourceResult{
			UID:        src.UID,
			PowerKW:    powerKW,
			LoadRatio:  r.LinkLoads[len(r.LinkLoads)-1],
			Efficiency: r.OverallEff,
			FuelPoint:  fp,
			Links:      links,
		}, nil
	default:
		in, load, eff, err := src.Component.ReverseFromOutput(powerKW)
		if err != nil {
			return SourceResult{}, err
		}
		b, err := src.Component.Base()
		if err != nil {
			return SourceResult{}, err
		}
		regime, userFuel := regimeFor(b.UID)
		fp, err := src.Component.RunFuelKernel(powerKW, regime, userFuel)
		if err != nil {
			return SourceResult{}, err
		}
		ld, err := newLinkDetail(*src.Component, in, powerKW, load, eff, fp, on, sharingWeight)
		if err != nil {
			return SourceResult{}, err
		}
		return SourceResult{UID: src.UID, PowerKW: powerKW, LoadRatio: load, Efficiency: eff, FuelPoint: fp, Links: []LinkDetail{ld}}, nil
	}
}

// DispatchStorage charges or discharges a SourceStorage source for one
// timestep, given the power the rest of the switchboard's balance requests
// of it (positive = charging, negative = discharging). It is called
// separately from Solve because storage is the one component with state
// that carries across timesteps.
func DispatchStorage(src Source, socBefore units.SoC, requestedPowerKW units.PowerKW, dtSeconds float64, strict bool) (component.StepResult, error) {
	if src.Kind != SourceStorage || src.Component == nil || src.Component.Battery == nil {
		return component.StepResult{}, ferror.New(ferror.ConfigurationError, "dispatch_storage: source %s is not a storage device", src.UID)
	}
	return src.Component.Battery.Step(socBefore, requestedPowerKW, dtSeconds, strict)
}
