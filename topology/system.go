package topology

import (
	"github.com/sintef/feems/component"
	"github.com/sintef/feems/ferror"
	"github.com/sintef/feems/node"
)

// SubsystemKind tags which bus kind a node entry is.
type SubsystemKind int

const (
	SubsystemElectric SubsystemKind = iota
	SubsystemMechanical
)

// NodeEntry is one bus in the topology graph.
type NodeEntry struct {
	UID         string
	Kind        SubsystemKind
	Switchboard *node.Switchboard // set when Kind==SubsystemElectric
	Shaftline   *node.Shaftline   // set when Kind==SubsystemMechanical
}

// Fleet is the full configured topology: every component, every bus node,
// and the placement of each component on a node (mirrored from each
// component's Base.SwitchboardOrShaftlineID, but indexed here for fast
// lookup and validation).
type Fleet struct {
	Components []component.Variant
	Nodes      []NodeEntry
}

// Validate checks the cross-component invariants that single-component
// Validate cannot see: every component's node reference resolves to a known
// node, and no two components share a UID.
func (f *Fleet) Validate() error {
	nodeIDs := make(map[string]bool, len(f.Nodes))
	for _, n := range f.Nodes {
		nodeIDs[n.UID] = true
	}

	seenUID := make(map[string]bool, len(f.Components))
	for _, v := range f.Components {
		if err := v.Validate(); err != nil {
			return err
		}
		b, err := v.Base()
		if err != nil {
			return err
		}
		if seenUID[b.UID] {
			return ferror.New(ferror.ConfigurationError, "component %s: duplicate uid %q", b.Name, b.UID)
		}
		seenUID[b.UID] = true

		if b.SwitchboardOrShaftlineID == "" {
			return ferror.New(ferror.ConfigurationError, "component %s: no switchboard/shaftline assigned", b.Name)
		}
		if !nodeIDs[b.SwitchboardOrShaftlineID] {
			return ferror.New(ferror.ConfigurationError, "component %s: references unknown node %q", b.Name, b.SwitchboardOrShaftlineID)
		}
	}
	return nil
}

// ComponentsOnNode returns every component placed on the given node UID.
func (f *Fleet) ComponentsOnNode(nodeUID string) []component.Variant {
	var out []component.Variant
	for _, v := range f.Components {
		b, err := v.Base()
		if err != nil {
			continue
		}
		if b.SwitchboardOrShaftlineID == nodeUID {
			out = append(out, v)
		}
	}
	return out
}

// Node looks up a node entry by UID.
func (f *Fleet) Node(uid string) (NodeEntry, bool) {
	for _, n := range f.Nodes {
		if n.UID == uid {
			return n, true
		}
	}
	return NodeEntry{}, false
}
