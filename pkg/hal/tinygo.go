//go:build tinygo

package hal

import (
	"machine"
	"runtime/interrupt"
)

// MachinePin is a GPIO output.
type MachinePin struct {
	machine.Pin
}

// NewMachinePin configures pin as an output at mark level.
func NewMachinePin(pin machine.Pin) MachinePin {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pin.High()
	return MachinePin{Pin: pin}
}

// Set implements Pin.
func (p MachinePin) Set(high bool) {
	p.Pin.Set(high)
}

// InterruptMask masks all interrupts on the core.
type InterruptMask struct{}

// Disable implements Mask.
func (InterruptMask) Disable() State {
	return State(interrupt.Disable())
}

// Restore implements Mask.
func (InterruptMask) Restore(s State) {
	interrupt.Restore(interrupt.State(s))
}
