package softuart

import (
	"runtime"

	"github.com/robotalks/softuart/pkg/hal"
)

// Transmitter is the public face of the soft UART.
type Transmitter struct {
	Config Config

	pin    hal.Pin
	ticks  hal.TickSource
	mask   hal.Mask
	queue  *Queue
	engine Engine
}

// Status is a consistent snapshot of the transmitter.
type Status struct {
	Queued   int
	Capacity int
	State    State
	Armed    bool
}

// New creates a Transmitter. Init must be called before use, and Tick
// must be installed as the handler of ticks.
func New(conf Config, pin hal.Pin, ticks hal.TickSource, mask hal.Mask) (*Transmitter, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	t := &Transmitter{
		Config: conf,
		pin:    pin,
		ticks:  ticks,
		mask:   mask,
		queue:  NewQueue(conf.BufferSize, mask),
	}
	t.engine = Engine{
		Pin:    pin,
		Ticks:  ticks,
		Queue:  t.queue,
		Format: conf.Format(),
	}
	return t, nil
}

// Init drives the pin to mark, empties the queue and disarms the ticks.
func (t *Transmitter) Init() {
	s := t.mask.Disable()
	t.ticks.Disable()
	t.ticks.ClearPending()
	t.pin.Set(true)
	t.queue.Reset()
	t.engine.Reset()
	t.mask.Restore(s)
}

// Tick is the tick interrupt handler.
func (t *Transmitter) Tick() {
	t.engine.Tick()
}

// Queue exposes the transmit queue.
func (t *Transmitter) Queue() *Queue {
	return t.queue
}

// Put queues b, waiting for a free slot, and arms the ticks.
// It returns once b is queued, not once it is sent.
func (t *Transmitter) Put(b byte) {
	t.queue.Enqueue(b)
	t.arm(true)
}

// TryPut queues b and arms the ticks, or returns ErrBusy leaving
// everything unchanged.
func (t *Transmitter) TryPut(b byte) error {
	if err := t.queue.TryEnqueue(b); err != nil {
		return err
	}
	t.arm(false)
	return nil
}

// PutString waits until p fits in the queue, queues it and arms the
// ticks. Inputs longer than the queue are sent in queue-sized chunks.
func (t *Transmitter) PutString(p []byte) {
	for len(p) > 0 {
		chunk := p
		if n := t.queue.Cap(); len(chunk) > n {
			chunk = chunk[:n]
		}
		t.queue.EnqueueAll(chunk)
		t.arm(true)
		p = p[len(chunk):]
	}
}

// TryPutString queues all of p and arms the ticks, or returns ErrBusy
// queueing nothing.
func (t *Transmitter) TryPutString(p []byte) error {
	if len(p) == 0 {
		return nil
	}
	if err := t.queue.TryEnqueueAll(p); err != nil {
		return err
	}
	t.arm(false)
	return nil
}

// Write implements io.Writer using PutString.
func (t *Transmitter) Write(p []byte) (int, error) {
	t.PutString(p)
	return len(p), nil
}

// Idle reports whether everything queued has been shifted out.
func (t *Transmitter) Idle() bool {
	st := t.Status()
	return st.Queued == 0 && st.State == StateIdle && !st.Armed
}

// Flush spins until Idle. It needs a running tick source.
func (t *Transmitter) Flush() {
	for !t.Idle() {
		runtime.Gosched()
	}
}

// Status takes a snapshot with ticks masked.
func (t *Transmitter) Status() Status {
	s := t.mask.Disable()
	defer t.mask.Restore(s)
	return Status{
		Queued:   t.queue.Len(),
		Capacity: t.queue.Cap(),
		State:    t.engine.State(),
		Armed:    t.ticks.Enabled(),
	}
}

// arm enables the ticks. The blocking paths also drop a stale pending
// flag so the first tick comes one full period later.
func (t *Transmitter) arm(clearPending bool) {
	s := t.mask.Disable()
	if clearPending {
		t.ticks.ClearPending()
	}
	t.ticks.Enable()
	t.mask.Restore(s)
}
