// Package hal defines the hardware boundary the transmitter runs against.
package hal

// Pin is a single logic-level output.
type Pin interface {
	// Set drives the pin high (true) or low (false).
	Set(high bool)
}

// State is the interrupt-enable state saved by Mask.Disable.
type State uintptr

// Mask masks the tick interrupt for a critical section.
// Restore must receive the State returned by the matching Disable so
// that a region nested in an already masked region stays masked.
type Mask interface {
	Disable() State
	Restore(State)
}

// TickSource is the periodic timer invoking the tick handler once per
// bit period while enabled (armed).
type TickSource interface {
	// Enable arms the tick interrupt.
	Enable()
	// Disable disarms the tick interrupt.
	Disable()
	// Enabled reports whether the tick interrupt is armed.
	Enabled() bool
	// ClearPending drops a compare-match flag raised while disarmed.
	ClearPending()
}

// MultiPin drives several pins with the same level.
type MultiPin []Pin

// Set implements Pin.
func (p MultiPin) Set(high bool) {
	for _, pin := range p {
		pin.Set(high)
	}
}
