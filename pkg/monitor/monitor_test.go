package monitor

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/softuart/pkg/msgs"
	"github.com/robotalks/softuart/pkg/softuart"
	"github.com/robotalks/softuart/pkg/wire"
)

type testLine struct {
	level bool
}

func (l *testLine) Level() bool {
	return l.level
}

type testBed struct {
	line    testLine
	mon     *Monitor
	tick    uint64
	bytes   []byte
	states  []wire.LineState
	reports []msgs.WireReport
}

func newTestBed(parity softuart.Parity) *testBed {
	b := &testBed{line: testLine{level: true}}
	b.mon = New(&b.line, parity)
	b.mon.Handler = HandleByteFunc(func(_ context.Context, c byte) {
		b.bytes = append(b.bytes, c)
	})
	b.mon.Notifier = StateChangedFunc(func(_ context.Context, s wire.LineState) {
		b.states = append(b.states, s)
	})
	b.mon.AddReporter(ReportFunc(func(_ context.Context, r *msgs.WireReport) error {
		b.reports = append(b.reports, *r)
		return nil
	}))
	return b
}

func (b *testBed) feed(levels ...bool) {
	for _, level := range levels {
		b.line.level = level
		b.tick++
		b.mon.Probe(b.tick)
	}
}

func TestMonitorFlush(t *testing.T) {
	b := newTestBed(softuart.ParityNone)
	format := softuart.Format{}
	b.feed(true)
	b.feed(format.Frame('h').Levels()...)
	b.feed(format.Frame('i').Levels()...)
	require.Empty(t, b.bytes)

	require.NoError(t, b.mon.Flush(context.Background()))
	require.Equal(t, []byte("hi"), b.bytes)
	require.Equal(t, []wire.LineState{
		wire.LineReceiving, wire.LineIdle,
		wire.LineReceiving, wire.LineIdle,
	}, b.states)
	require.Len(t, b.reports, 1)
	require.Equal(t, []byte("hi"), b.reports[0].Data)
	require.Equal(t, uint64(2), b.reports[0].Frames)
	require.Equal(t, uint64(23), b.reports[0].Ticks)

	// nothing new, nothing reported
	require.NoError(t, b.mon.Flush(context.Background()))
	require.Len(t, b.reports, 1)
	b.mon.ReportEmpty = true
	require.NoError(t, b.mon.Flush(context.Background()))
	require.Len(t, b.reports, 2)

	st := b.mon.Stats()
	require.Equal(t, uint64(2), st.Frames)
	require.Equal(t, uint64(23), st.Ticks)
}

func TestMonitorErrors(t *testing.T) {
	b := newTestBed(softuart.ParityEven)
	format := softuart.Format{Parity: softuart.ParityEven}
	bad := format.Frame(0x41).Levels()
	bad[9] = !bad[9]
	b.feed(bad...)
	// a frame ending low is a framing error followed by a break
	b.feed(format.Frame(0x42).Levels()[:10]...)
	b.feed(false, false, true)
	require.Equal(t, wire.LineIdle, b.mon.State())

	require.NoError(t, b.mon.Flush(context.Background()))
	require.Empty(t, b.bytes)
	require.Len(t, b.reports, 1)
	require.Equal(t, uint64(1), b.reports[0].ParityErrors)
	require.Equal(t, uint64(1), b.reports[0].FramingErrors)
	require.Contains(t, b.states, wire.LineBreak)
}

func TestMonitorReporterError(t *testing.T) {
	b := newTestBed(softuart.ParityNone)
	errFail := errors.New("fail")
	b.mon.AddReporter(ReportFunc(func(context.Context, *msgs.WireReport) error {
		return errFail
	}))
	b.feed(softuart.Format{}.Frame(1).Levels()...)
	err := b.mon.Flush(context.Background())
	require.Error(t, err)
	require.True(t, errors.Is(err, errFail))
	require.Len(t, b.reports, 1)
}

func TestWriterReporter(t *testing.T) {
	var buf bytes.Buffer
	r := &WriterReporter{W: &buf}
	require.NoError(t, r.Report(context.Background(), &msgs.WireReport{}))
	require.NoError(t, r.Report(context.Background(), &msgs.WireReport{WireReportPb: msgs.WireReportPb{Data: []byte("ok")}}))
	require.Equal(t, "ok", buf.String())
	require.NoError(t, LogReporter{}.Report(context.Background(), &msgs.WireReport{}))
}
