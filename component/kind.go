// Package component implements the atomic component model: the sign
// convention and load/efficiency contract, per-kind fuel and emission
// kernels (engine, dual-fuel, multi-fuel, COGAS, fuel cell), and
// battery/supercapacitor storage.
//
// Components are modeled as a closed tagged union (Variant) over per-kind
// structs, dispatched by explicit switch on the Kind tag rather than by an
// open interface hierarchy. Shared behavior (the load/efficiency contract)
// is expressed as methods on Variant that switch on the tag and delegate to
// small, capability-oriented functions operating on the concrete per-kind
// struct.
package component

// Kind is the closed enumeration of component kinds.
type Kind int

const (
	KindNone Kind = iota
	MainEngine
	AuxEngine
	Generator
	PropulsionDrive
	OtherLoad
	PTIPTO
	BatterySystem
	FuelCellSystem
	Rectifier
	MainEngineWithGearbox
	ElectricMotor
	Genset
	Transformer
	Inverter
	CircuitBreaker
	ActiveFrontEnd
	PowerConverter
	SynchronousMachine
	InductionMachine
	Gearbox
	FuelCellKind
	PropellerLoad
	OtherMechanicalLoad
	BatteryKind
	SupercapacitorKind
	SupercapacitorSystem
	ShorePowerKind
	COGASKind
	COGES
)

func (k Kind) String() string {
	switch k {
	case MainEngine:
		return "main_engine"
	case AuxEngine:
		return "aux_engine"
	case Generator:
		return "generator"
	case PropulsionDrive:
		return "propulsion_drive"
	case OtherLoad:
		return "other_load"
	case PTIPTO:
		return "pti_pto"
	case BatterySystem:
		return "battery_system"
	case FuelCellSystem:
		return "fuel_cell_system"
	case Rectifier:
		return "rectifier"
	case MainEngineWithGearbox:
		return "main_engine_with_gearbox"
	case ElectricMotor:
		return "electric_motor"
	case Genset:
		return "genset"
	case Transformer:
		return "transformer"
	case Inverter:
		return "inverter"
	case CircuitBreaker:
		return "circuit_breaker"
	case ActiveFrontEnd:
		return "active_front_end"
	case PowerConverter:
		return "power_converter"
	case SynchronousMachine:
		return "synchronous_machine"
	case InductionMachine:
		return "induction_machine"
	case Gearbox:
		return "gearbox"
	case FuelCellKind:
		return "fuel_cell"
	case PropellerLoad:
		return "propeller_load"
	case OtherMechanicalLoad:
		return "other_mechanical_load"
	case BatteryKind:
		return "battery"
	case SupercapacitorKind:
		return "supercapacitor"
	case SupercapacitorSystem:
		return "supercapacitor_system"
	case ShorePowerKind:
		return "shore_power"
	case COGASKind:
		return "COGAS"
	case COGES:
		return "COGES"
	default:
		return "none"
	}
}

// Role is the closed enumeration of power roles.
type Role int

const (
	RoleNone Role = iota
	RoleSource
	RoleConsumer
	RolePTIPTO
	RoleEnergyStorage
	RoleTransmission
)

// NOxMethod selects how NOx emissions are computed.
type NOxMethod int

const (
	NOxTier1 NOxMethod = iota
	NOxTier2
	NOxTier3
	NOxCurve
)

// Cycle is the engine thermodynamic cycle. It is descriptive metadata: the
// IMO NOx Tier lookup selects its band from rated speed alone and does not
// read it.
type Cycle int

const (
	CycleDiesel Cycle = iota
	CycleOtto
	CycleDual
)
