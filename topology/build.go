package topology

import (
	"github.com/sintef/feems/component"
	"github.com/sintef/feems/config"
	"github.com/sintef/feems/ferror"
	"github.com/sintef/feems/node"
	"github.com/sintef/feems/system"
)

// BuildSystem assembles a runnable system.System from a validated Fleet: it
// locates the (at most one) electric node's Switchboard, collects every
// mechanical node's Shaftline, pulls storage components out as
// system.System.Storages, and infers the system.Kind from what is present.
//
// Call Fleet.Validate before BuildSystem; BuildSystem does not repeat those
// checks.
func BuildSystem(f *Fleet, opts config.Options) (*system.System, error) {
	var switchboard *node.Switchboard
	var shaftlines []*node.Shaftline

	for _, n := range f.Nodes {
		switch n.Kind {
		case SubsystemElectric:
			if switchboard != nil {
				return nil, ferror.New(ferror.ConfigurationError, "topology: more than one electric node (%s, %s) is not supported", switchboard.UID, n.UID)
			}
			if n.Switchboard == nil {
				return nil, ferror.New(ferror.ConfigurationError, "topology: electric node %s has no switchboard", n.UID)
			}
			switchboard = n.Switchboard
		case SubsystemMechanical:
			if n.Shaftline == nil {
				return nil, ferror.New(ferror.ConfigurationError, "topology: mechanical node %s has no shaftline", n.UID)
			}
			shaftlines = append(shaftlines, n.Shaftline)
		}
	}

	var storages []node.Source
	for i := range f.Components {
		v := f.Components[i]
		if isStorageKind(v.Tag) {
			b, err := v.Base()
			if err != nil {
				return nil, err
			}
			storages = append(storages, node.Source{
				UID:       b.UID,
				Kind:      node.SourceStorage,
				Component: &f.Components[i],
			})
		}
	}

	return &system.System{
		Kind:        inferKind(switchboard, shaftlines),
		Switchboard: switchboard,
		Shaftlines:  shaftlines,
		Storages:    storages,
		Options:     opts,
	}, nil
}

func isStorageKind(k component.Kind) bool {
	switch k {
	case component.BatteryKind, component.BatterySystem, component.SupercapacitorKind, component.SupercapacitorSystem:
		return true
	default:
		return false
	}
}

func inferKind(sb *node.Switchboard, shaftlines []*node.Shaftline) system.Kind {
	hasElectric := sb != nil
	hasMechanical := len(shaftlines) > 0

	switch {
	case hasMechanical && hasElectric:
		for _, sl := range shaftlines {
			if sl.Mode != node.MechanicalOnly {
				return system.HybridPropulsionSystem
			}
		}
		return system.MechanicalPropulsionSystemWithElectricPowerSystem
	case hasMechanical:
		return system.MechanicalPropulsionSystem
	default:
		return system.ElectricPowerSystem
	}
}
