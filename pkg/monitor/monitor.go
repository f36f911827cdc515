// Package monitor watches the transmit pin and decodes what it carries.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/softuart/pkg/framework"
	"github.com/robotalks/softuart/pkg/msgs"
	"github.com/robotalks/softuart/pkg/softuart"
	"github.com/robotalks/softuart/pkg/wire"
)

// LevelReader reads the level of a pin.
type LevelReader interface {
	Level() bool
}

// ByteHandler is called when a byte is decoded.
type ByteHandler interface {
	HandleByte(context.Context, byte)
}

// HandleByteFunc is func type of ByteHandler.
type HandleByteFunc func(context.Context, byte)

// HandleByte implements ByteHandler.
func (f HandleByteFunc) HandleByte(ctx context.Context, b byte) {
	f(ctx, b)
}

// StateNotifier is called when the line state changed.
type StateNotifier interface {
	StateChanged(context.Context, wire.LineState)
}

// StateChangedFunc is func type of StateNotifier.
type StateChangedFunc func(context.Context, wire.LineState)

// StateChanged implements StateNotifier.
func (f StateChangedFunc) StateChanged(ctx context.Context, state wire.LineState) {
	f(ctx, state)
}

// Reporter receives a WireReport on every flush.
type Reporter interface {
	Report(context.Context, *msgs.WireReport) error
}

// ReportFunc is func type of Reporter.
type ReportFunc func(context.Context, *msgs.WireReport) error

// Report implements Reporter.
func (f ReportFunc) Report(ctx context.Context, r *msgs.WireReport) error {
	return f(ctx, r)
}

// DefaultInterval is the default flush interval of Run.
const DefaultInterval = 100 * time.Millisecond

// Stats are the totals since the monitor was created.
type Stats struct {
	Frames        uint64
	FramingErrors uint64
	ParityErrors  uint64
	Ticks         uint64
}

type event struct {
	state   wire.LineState
	changed bool
	result  wire.ParseResult
}

// Monitor samples a pin once per tick and decodes it. Probe runs in tick
// context and only records; everything else happens in Flush.
type Monitor struct {
	Pin       LevelReader
	Handler   ByteHandler
	Notifier  StateNotifier
	Reporters []Reporter
	Interval  time.Duration
	// ReportEmpty sends reports even when nothing was decoded.
	ReportEmpty bool

	lock   sync.Mutex
	parser wire.Parser
	state  wire.LineState
	events []event
	report msgs.WireReport
	stats  Stats
}

// New creates a Monitor.
func New(pin LevelReader, parity softuart.Parity) *Monitor {
	return &Monitor{
		Pin:      pin,
		Interval: DefaultInterval,
		parser:   wire.Parser{Parity: parity},
	}
}

// AddReporter adds reporters.
func (m *Monitor) AddReporter(reporters ...Reporter) *Monitor {
	m.Reporters = append(m.Reporters, reporters...)
	return m
}

// Probe samples the pin. It matches sim.Probe.
func (m *Monitor) Probe(tick uint64) {
	level := m.Pin.Level()
	m.lock.Lock()
	pr := m.parser.Parse(level)
	m.report.Ticks++
	m.stats.Ticks = tick
	var ev event
	if pr.State != m.state {
		m.state = pr.State
		ev.state, ev.changed = pr.State, true
	}
	switch {
	case pr.Ready:
		m.report.Frames++
		m.report.Data = append(m.report.Data, pr.Byte)
		ev.result = pr
	case pr.Err == nil:
	case errors.Is(pr.Err, wire.ErrParity):
		m.report.ParityErrors++
		ev.result = pr
	default:
		m.report.FramingErrors++
		ev.result = pr
	}
	if ev.changed || ev.result.Ready || ev.result.Err != nil {
		m.events = append(m.events, ev)
	}
	m.lock.Unlock()
}

// State gets the last line state seen.
func (m *Monitor) State() wire.LineState {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.state
}

// Stats returns the totals, including what is not flushed yet.
func (m *Monitor) Stats() Stats {
	m.lock.Lock()
	defer m.lock.Unlock()
	st := m.stats
	st.Frames += m.report.Frames
	st.FramingErrors += m.report.FramingErrors
	st.ParityErrors += m.report.ParityErrors
	return st
}

// Flush dispatches everything recorded since the last flush.
func (m *Monitor) Flush(ctx context.Context) error {
	m.lock.Lock()
	events := m.events
	m.events = nil
	report := m.report
	m.report = msgs.WireReport{}
	m.stats.Frames += report.Frames
	m.stats.FramingErrors += report.FramingErrors
	m.stats.ParityErrors += report.ParityErrors
	m.lock.Unlock()

	for _, ev := range events {
		if ev.changed {
			if n := m.Notifier; n != nil {
				n.StateChanged(ctx, ev.state)
			}
		}
		if ev.result.Err != nil {
			glog.V(1).Infof("line: %v", ev.result.Err)
		} else if ev.result.Ready {
			if h := m.Handler; h != nil {
				h.HandleByte(ctx, ev.result.Byte)
			}
		}
	}

	if report.Empty() && !m.ReportEmpty {
		return nil
	}
	var errs fx.AggregatedError
	for _, r := range m.Reporters {
		errs.Add(r.Report(ctx, &report))
	}
	return errs.Aggregate()
}

// Run implements Runnable, flushing every Interval.
func (m *Monitor) Run(ctx context.Context) error {
	interval := m.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	err := fx.Every(interval, func(ctx context.Context) error {
		if err := m.Flush(ctx); err != nil {
			return fmt.Errorf("report: %w", err)
		}
		return nil
	}).Run(ctx)
	m.Flush(context.Background())
	return err
}
