// Package ferror defines FEEMS's closed error taxonomy. The core
// never logs or prints; it returns these typed errors so that an
// orchestrator can branch on Kind without parsing strings.
package ferror

import "fmt"

// Kind is a closed enumeration of FEEMS error categories.
type Kind int

const (
	// Unknown is never returned; it exists so the zero Kind is invalid.
	Unknown Kind = iota

	// ConfigurationError indicates the topology violates an invariant:
	// unknown node reference, source with no curve, USER fuel without a
	// name, a non-monotone efficiency curve, and so on.
	ConfigurationError

	// PowerBalance indicates the solver could not satisfy demand under the
	// given status/load-sharing/capacity assignment.
	PowerBalance

	// StorageSaturation indicates a storage request would leave
	// [soe_min, soe_max].
	StorageSaturation

	// CurveDomain indicates a lookup on an empty or malformed curve, or a
	// NaN result from an otherwise well-formed curve.
	CurveDomain

	// InputShape indicates per-timestep array lengths disagree in a way
	// that cannot be resolved by broadcasting a length-1 array.
	InputShape
)

func (k Kind) String() string {
	switch k {
	case ConfigurationError:
		return "ConfigurationError"
	case PowerBalance:
		return "PowerBalance"
	case StorageSaturation:
		return "StorageSaturation"
	case CurveDomain:
		return "CurveDomain"
	case InputShape:
		return "InputShape"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type returned by FEEMS core operations.
type Error struct {
	Kind Kind
	// NodeID identifies the switchboard/shaftline a PowerBalance error
	// originated at, if applicable.
	NodeID string
	// ResidualKW is the unresolved demand, in kW, for a PowerBalance error.
	ResidualKW float64
	Msg        string
	Err        error
}

func (e *Error) Error() string {
	if e.NodeID != "" {
		return fmt.Sprintf("feems: %s: %s (node=%s, residual=%.6g kW)", e.Kind, e.Msg, e.NodeID, e.ResidualKW)
	}
	return fmt.Sprintf("feems: %s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error of the given kind, wrapping an underlying error.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// PowerBalanceErr builds a PowerBalance error carrying the offending node
// and residual demand.
func PowerBalanceErr(nodeID string, residualKW float64, format string, args ...any) *Error {
	return &Error{Kind: PowerBalance, NodeID: nodeID, ResidualKW: residualKW, Msg: fmt.Sprintf(format, args...)}
}

// Is allows errors.Is(err, ferror.ConfigurationError) style matching against
// a Kind sentinel wrapped as an *Error with no message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinel returns an *Error usable as an errors.Is target for a Kind, e.g.
// errors.Is(err, ferror.Sentinel(ferror.PowerBalance)).
func Sentinel(k Kind) *Error { return &Error{Kind: k} }
