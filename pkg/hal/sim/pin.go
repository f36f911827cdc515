package sim

import "sync/atomic"

// Pin is an output pin remembering its level.
type Pin struct {
	level       atomic.Bool
	transitions atomic.Uint64
}

// NewPin creates a Pin driven low.
func NewPin() *Pin {
	return &Pin{}
}

// Set implements hal.Pin.
func (p *Pin) Set(high bool) {
	if p.level.Swap(high) != high {
		p.transitions.Add(1)
	}
}

// Level reads the current level.
func (p *Pin) Level() bool {
	return p.level.Load()
}

// Transitions counts level changes since creation.
func (p *Pin) Transitions() uint64 {
	return p.transitions.Load()
}
