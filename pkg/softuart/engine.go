package softuart

import "github.com/robotalks/softuart/pkg/hal"

// State is the state of the frame engine.
type State int

// Engine states.
const (
	// StateIdle means no frame is in progress.
	StateIdle State = iota
	// StateSending means a frame has bits left to shift out.
	StateSending
)

// String returns the state name.
func (s State) String() string {
	if s == StateSending {
		return "sending"
	}
	return "idle"
}

// Engine shifts one frame onto the pin, one bit per tick.
// All methods except Reset run in tick context.
type Engine struct {
	Pin    hal.Pin
	Ticks  hal.TickSource
	Queue  *Queue
	Format Format

	state     State
	bits      uint16
	remaining uint8
}

// Reset drops any frame in progress. Callers must hold the mask.
func (e *Engine) Reset() {
	e.state, e.bits, e.remaining = StateIdle, 0, 0
}

// State returns the current state.
func (e *Engine) State() State {
	return e.state
}

// Tick advances the engine by one bit period.
// A frame is loaded on one tick and its start bit is driven on the next.
func (e *Engine) Tick() {
	switch {
	case e.state == StateSending:
		e.Pin.Set(e.bits&1 != 0)
		e.bits >>= 1
		if e.remaining--; e.remaining == 0 {
			e.state = StateIdle
			if e.Queue.empty() {
				e.Ticks.Disable()
			}
		}
	case !e.Queue.empty():
		f := e.Format.Frame(e.Queue.dequeue())
		e.state, e.bits, e.remaining = StateSending, f.Bits, f.Width
	default:
		// an arm raced with the end of the last frame.
		e.Ticks.Disable()
	}
}
