// Package bench wires a transmitter to simulated hardware and a line
// monitor, giving a complete device on the host.
package bench

import (
	"context"
	"errors"
	"sync"
	"time"

	fx "github.com/robotalks/softuart/pkg/framework"
	"github.com/robotalks/softuart/pkg/hal"
	"github.com/robotalks/softuart/pkg/hal/sim"
	"github.com/robotalks/softuart/pkg/monitor"
	"github.com/robotalks/softuart/pkg/softuart"
	"github.com/robotalks/softuart/pkg/timing"
)

// ErrNotIdle indicates the transmitter is still busy after the steps allowed.
var ErrNotIdle = errors.New("transmitter not idle")

// DefaultSampleLimit bounds the recorded line trace.
const DefaultSampleLimit = 4096

// Option configures a Bench.
type Option func(*Bench)

// WithPins mirrors the line on extra pins.
func WithPins(pins ...hal.Pin) Option {
	return func(b *Bench) {
		b.extraPins = append(b.extraPins, pins...)
	}
}

// WithPeriod overrides the tick period derived from the baud rate.
func WithPeriod(period time.Duration) Option {
	return func(b *Bench) {
		b.period = period
	}
}

// WithSampleLimit sets how many samples Samples keeps.
func WithSampleLimit(n int) Option {
	return func(b *Bench) {
		b.sampleLimit = n
	}
}

// WithReporters adds monitor reporters.
func WithReporters(reporters ...monitor.Reporter) Option {
	return func(b *Bench) {
		b.reporters = append(b.reporters, reporters...)
	}
}

// Bench is a simulated device.
type Bench struct {
	CPU     *sim.CPU
	Timer   *sim.Timer
	Pin     *sim.Pin
	Tx      *softuart.Transmitter
	Monitor *monitor.Monitor

	extraPins   []hal.Pin
	period      time.Duration
	sampleLimit int
	reporters   []monitor.Reporter

	lock     sync.Mutex
	samples  []bool
	received []byte
}

// New creates a Bench with an initialized transmitter.
func New(conf softuart.Config, opts ...Option) (*Bench, error) {
	b := &Bench{
		period:      timing.BitPeriod(conf.BaudRate),
		sampleLimit: DefaultSampleLimit,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.CPU = sim.NewCPU()
	b.Timer = sim.NewTimer(b.CPU, b.period)
	b.Pin = sim.NewPin()
	var pin hal.Pin = b.Pin
	if len(b.extraPins) > 0 {
		pin = append(hal.MultiPin{b.Pin}, b.extraPins...)
	}
	tx, err := softuart.New(conf, pin, b.Timer, b.CPU)
	if err != nil {
		return nil, err
	}
	b.Tx = tx
	b.Monitor = monitor.New(b.Pin, conf.Parity).AddReporter(b.reporters...)
	b.Monitor.Handler = monitor.HandleByteFunc(b.handleByte)
	b.Timer.Attach(tx.Tick)
	b.Timer.AddProbe(b.probe)
	tx.Init()
	return b, nil
}

// Step delivers n ticks.
func (b *Bench) Step(n int) {
	for ; n > 0; n-- {
		b.Timer.Step()
	}
}

// StepUntilIdle ticks until everything queued is on the line, at most max
// ticks. It returns the number of ticks delivered.
func (b *Bench) StepUntilIdle(max int) (int, error) {
	for n := 0; n < max; n++ {
		if b.Tx.Idle() {
			return n, nil
		}
		b.Timer.Step()
	}
	if b.Tx.Idle() {
		return max, nil
	}
	return max, ErrNotIdle
}

// Feed queues p without blocking, ticking whenever the queue is full.
// It returns the number of ticks delivered.
func (b *Bench) Feed(p []byte) int {
	var ticks int
	for _, c := range p {
		for b.Tx.TryPut(c) == softuart.ErrBusy {
			b.Timer.Step()
			ticks++
		}
	}
	return ticks
}

// Received flushes the monitor and returns the bytes decoded since the
// last call.
func (b *Bench) Received() []byte {
	b.Monitor.Flush(context.Background())
	b.lock.Lock()
	defer b.lock.Unlock()
	out := b.received
	b.received = nil
	return out
}

// Samples returns the most recent line samples, oldest first.
func (b *Bench) Samples() []bool {
	b.lock.Lock()
	defer b.lock.Unlock()
	return append([]bool(nil), b.samples...)
}

// Run implements Runnable, ticking in real time and flushing the monitor.
func (b *Bench) Run(ctx context.Context) error {
	return fx.NewRunnerWith(ctx).Run(
		fx.NamedRun("timer", b.Timer),
		fx.NamedRun("monitor", b.Monitor),
	)
}

func (b *Bench) probe(tick uint64) {
	b.lock.Lock()
	b.samples = append(b.samples, b.Pin.Level())
	if over := len(b.samples) - b.sampleLimit; over > 0 && b.sampleLimit > 0 {
		b.samples = append(b.samples[:0], b.samples[over:]...)
	}
	b.lock.Unlock()
	b.Monitor.Probe(tick)
}

func (b *Bench) handleByte(_ context.Context, c byte) {
	b.lock.Lock()
	b.received = append(b.received, c)
	b.lock.Unlock()
}
