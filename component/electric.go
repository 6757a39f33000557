package component

// ElectricMachine models a generator or motor: a pure Rating-contract
// component converting between electrical and mechanical (or electrical
// and electrical, for a PTI/PTO machine) power.
// It carries no behavior beyond the embedded Base/Rating contract.
type ElectricMachine struct {
	Base
}

// Converter models an electric converter or transformer in a serial chain.
type Converter struct {
	Base
}

// Mechanical models a purely mechanical drivetrain element: propeller load,
// gearbox, or clutch. Propeller/other mechanical loads
// have Role==RoleConsumer; gearbox/clutch are transmission elements
// (Role==RoleTransmission) used inside a shaftline's SerialChain.
type Mechanical struct {
	Base
}

// ShorePower models a shore-power connection: an always-ideal, priority
// source with no fuel consumption. Its Rating.EffCurve is typically flat at 1.0 (cabling losses
// aside), and it never calls an engine kernel.
type ShorePower struct {
	Base
}
