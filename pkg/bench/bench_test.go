package bench

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/softuart/pkg/hal/sim"
	"github.com/robotalks/softuart/pkg/msgs"
	"github.com/robotalks/softuart/pkg/monitor"
	"github.com/robotalks/softuart/pkg/softuart"
	"github.com/robotalks/softuart/pkg/wire"
)

func testConfig() softuart.Config {
	return softuart.Config{BaudRate: 9600, Parity: softuart.ParityOdd, StopBits: 2, BufferSize: 4}
}

func TestBenchStep(t *testing.T) {
	mirror := sim.NewPin()
	b, err := New(testConfig(), WithPins(mirror))
	require.NoError(t, err)
	require.Equal(t, time.Second/9600, b.Timer.Period)
	require.True(t, mirror.Level())

	require.NoError(t, b.Tx.TryPutString([]byte("ok")))
	n, err := b.StepUntilIdle(100)
	require.NoError(t, err)
	require.Equal(t, 2*13, n)
	require.Equal(t, []byte("ok"), b.Received())
	require.Empty(t, b.Received())
	require.Equal(t, b.Pin.Transitions(), mirror.Transitions())

	out, err := wire.Decode(softuart.ParityOdd, b.Samples())
	require.NoError(t, err)
	require.Equal(t, []byte("ok"), out)
}

func TestBenchFeed(t *testing.T) {
	b, err := New(testConfig(), WithSampleLimit(20))
	require.NoError(t, err)
	in := []byte("a longer line than the queue")
	ticks := b.Feed(in)
	require.True(t, ticks > 0)
	_, err = b.StepUntilIdle(1000)
	require.NoError(t, err)
	require.Equal(t, in, b.Received())
	require.Len(t, b.Samples(), 20)
}

func TestBenchNotIdle(t *testing.T) {
	b, err := New(testConfig())
	require.NoError(t, err)
	b.Tx.Put('x')
	_, err = b.StepUntilIdle(5)
	require.Equal(t, ErrNotIdle, err)
}

func TestBenchInvalid(t *testing.T) {
	_, err := New(softuart.Config{})
	require.Error(t, err)
}

func TestBenchRun(t *testing.T) {
	reports := make(chan *msgs.WireReport, 16)
	conf := testConfig()
	conf.BufferSize = 64
	b, err := New(conf,
		WithPeriod(20*time.Microsecond),
		WithReporters(monitor.ReportFunc(func(_ context.Context, r *msgs.WireReport) error {
			reports <- r
			return nil
		})))
	require.NoError(t, err)
	b.Monitor.Interval = 5 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- b.Run(ctx)
	}()
	b.Tx.PutString([]byte("hello"))
	b.Tx.Flush()

	var got []byte
	for len(got) < 5 {
		select {
		case r := <-reports:
			got = append(got, r.Data...)
		case <-time.After(5 * time.Second):
			t.Fatal("no report")
		}
	}
	cancel()
	require.NoError(t, <-done)
	require.Equal(t, []byte("hello"), got)
}
