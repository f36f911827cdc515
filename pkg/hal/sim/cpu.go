// Package sim simulates the hardware boundary on the host: an interrupt
// controller, a compare-match timer and an output pin.
package sim

import (
	"sync"

	"github.com/robotalks/softuart/pkg/hal"
)

const (
	stateMasked  hal.State = 0
	stateEnabled hal.State = 1
)

// CPU models a single core with one mainline context and non-reentrant
// interrupt handlers. Only the mainline context may call Disable/Restore.
type CPU struct {
	// exec is held while mainline is masked or a handler runs.
	exec sync.Mutex

	lock     sync.Mutex
	masked   bool
	deferred []func()
}

// NewCPU creates a CPU with interrupts enabled.
func NewCPU() *CPU {
	return &CPU{}
}

// Disable implements hal.Mask.
func (c *CPU) Disable() hal.State {
	c.lock.Lock()
	masked := c.masked
	c.lock.Unlock()
	if masked {
		return stateMasked
	}
	c.exec.Lock()
	c.lock.Lock()
	c.masked = true
	c.lock.Unlock()
	return stateEnabled
}

// Restore implements hal.Mask. Interrupts raised while masked run here,
// in order, before mainline resumes.
func (c *CPU) Restore(s hal.State) {
	if s == stateMasked {
		return
	}
	c.lock.Lock()
	c.masked = false
	deferred := c.deferred
	c.deferred = nil
	c.lock.Unlock()
	for _, fn := range deferred {
		fn()
	}
	c.exec.Unlock()
}

// Masked reports whether mainline currently masks interrupts.
func (c *CPU) Masked() bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.masked
}

// Interrupt delivers an interrupt. The handler runs exclusively of
// mainline critical sections and other handlers; while mainline is
// masked it is queued until Restore.
func (c *CPU) Interrupt(handler func()) {
	c.lock.Lock()
	if c.masked {
		c.deferred = append(c.deferred, handler)
		c.lock.Unlock()
		return
	}
	c.lock.Unlock()
	c.exec.Lock()
	handler()
	c.exec.Unlock()
}
