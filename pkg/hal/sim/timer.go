package sim

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	fx "github.com/robotalks/softuart/pkg/framework"
)

// Probe is called after every tick with the tick number, in tick context.
type Probe func(tick uint64)

// Timer is a compare-match timer firing once per Period.
// A match while disarmed raises the pending flag; arming with the flag
// raised fires the handler immediately.
type Timer struct {
	CPU    *CPU
	Period time.Duration

	handler func()
	enabled atomic.Bool
	pending atomic.Bool
	ticks   atomic.Uint64

	probesLock sync.RWMutex
	probes     []Probe
}

// NewTimer creates a disarmed Timer.
func NewTimer(cpu *CPU, period time.Duration) *Timer {
	return &Timer{CPU: cpu, Period: period}
}

// Attach installs the tick handler. Must be called before ticking.
func (t *Timer) Attach(handler func()) {
	t.handler = handler
}

// AddProbe registers a probe.
func (t *Timer) AddProbe(p Probe) {
	t.probesLock.Lock()
	t.probes = append(t.probes, p)
	t.probesLock.Unlock()
}

// Enable implements hal.TickSource.
func (t *Timer) Enable() {
	t.enabled.Store(true)
	if t.pending.Swap(false) {
		t.CPU.Interrupt(t.fire)
	}
}

// Disable implements hal.TickSource.
func (t *Timer) Disable() {
	t.enabled.Store(false)
}

// Enabled implements hal.TickSource.
func (t *Timer) Enabled() bool {
	return t.enabled.Load()
}

// ClearPending implements hal.TickSource.
func (t *Timer) ClearPending() {
	t.pending.Store(false)
}

// Pending reports the compare-match flag.
func (t *Timer) Pending() bool {
	return t.pending.Load()
}

// Ticks returns the number of elapsed ticks.
func (t *Timer) Ticks() uint64 {
	return t.ticks.Load()
}

// Step advances the timer by one period.
func (t *Timer) Step() {
	t.CPU.Interrupt(t.tick)
}

// Run implements Runnable, stepping once per Period until ctx is done.
func (t *Timer) Run(ctx context.Context) error {
	return fx.Every(t.Period, func(context.Context) error {
		t.Step()
		return nil
	}).Run(ctx)
}

func (t *Timer) tick() {
	n := t.ticks.Add(1)
	if t.enabled.Load() {
		t.pending.Store(false)
		t.handler()
	} else {
		t.pending.Store(true)
	}
	t.probesLock.RLock()
	probes := t.probes
	t.probesLock.RUnlock()
	for _, p := range probes {
		p(n)
	}
}

func (t *Timer) fire() {
	if t.enabled.Load() {
		t.handler()
	}
}
