package softuart_test

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/softuart/pkg/hal/sim"
	"github.com/robotalks/softuart/pkg/softuart"
	"github.com/robotalks/softuart/pkg/wire"
)

type testRig struct {
	cpu     *sim.CPU
	timer   *sim.Timer
	pin     *sim.Pin
	tx      *softuart.Transmitter
	samples []bool
}

func newTestRig(t *testing.T, conf softuart.Config) *testRig {
	r := &testRig{
		cpu: sim.NewCPU(),
		pin: sim.NewPin(),
	}
	r.timer = sim.NewTimer(r.cpu, 20*time.Microsecond)
	tx, err := softuart.New(conf, r.pin, r.timer, r.cpu)
	require.NoError(t, err)
	r.tx = tx
	r.timer.Attach(tx.Tick)
	r.timer.AddProbe(func(uint64) {
		r.samples = append(r.samples, r.pin.Level())
	})
	tx.Init()
	return r
}

func testConfig(bufferSize int) softuart.Config {
	return softuart.Config{BaudRate: 9600, StopBits: 2, BufferSize: bufferSize}
}

func (r *testRig) step(n int) {
	for ; n > 0; n-- {
		r.timer.Step()
	}
}

func (r *testRig) drain(t *testing.T) {
	for n := 0; !r.tx.Idle(); n++ {
		require.True(t, n < 100000, "transmitter never idles")
		r.timer.Step()
	}
}

// put queues p with TryPut, ticking whenever the queue is full.
func (r *testRig) put(t *testing.T, p []byte) {
	for _, b := range p {
		for n := 0; r.tx.TryPut(b) == softuart.ErrBusy; n++ {
			require.True(t, n < 100, "queue never drains")
			r.timer.Step()
		}
	}
}

func TestNewInvalidConfig(t *testing.T) {
	cpu := sim.NewCPU()
	_, err := softuart.New(testConfig(0), sim.NewPin(), sim.NewTimer(cpu, time.Millisecond), cpu)
	require.Error(t, err)
}

func TestInit(t *testing.T) {
	r := newTestRig(t, testConfig(4))
	require.True(t, r.pin.Level())
	st := r.tx.Status()
	require.Equal(t, softuart.Status{Capacity: 4, State: softuart.StateIdle}, st)
	require.True(t, r.tx.Idle())

	// ticks while disarmed leave the line at mark
	r.step(3)
	require.Equal(t, []bool{true, true, true}, r.samples)
	require.True(t, r.timer.Pending())
	r.tx.Init()
	require.False(t, r.timer.Pending())
}

func TestPutStringTwoBytes(t *testing.T) {
	r := newTestRig(t, testConfig(4))
	r.tx.PutString([]byte{0x41, 0x42})
	st := r.tx.Status()
	require.Equal(t, 2, st.Queued)
	require.True(t, st.Armed)

	r.step(1)
	require.True(t, r.pin.Level(), "start bit is not driven on the load tick")
	require.Equal(t, 1, r.tx.Queue().Len())
	require.Equal(t, softuart.StateSending, r.tx.Status().State)

	r.step(11)
	require.Equal(t, softuart.Format{}.Frame(0x41).Levels(), r.samples[1:12])
	require.True(t, r.tx.Status().Armed)

	r.step(12)
	require.Equal(t, softuart.Format{}.Frame(0x42).Levels(), r.samples[13:24])
	st = r.tx.Status()
	require.False(t, st.Armed)
	require.Equal(t, softuart.StateIdle, st.State)
	require.Equal(t, 0, st.Queued)

	out, err := wire.Decode(softuart.ParityNone, r.samples)
	require.NoError(t, err)
	require.Equal(t, []byte{0x41, 0x42}, out)
}

func TestTryPutFull(t *testing.T) {
	r := newTestRig(t, testConfig(4))
	for _, b := range []byte{1, 2, 3, 4} {
		require.NoError(t, r.tx.TryPut(b))
	}
	require.Equal(t, softuart.ErrBusy, r.tx.TryPut(5))
	require.Equal(t, 4, r.tx.Queue().Len())

	r.step(1)
	require.Equal(t, 3, r.tx.Queue().Len())
	require.NoError(t, r.tx.TryPut(5))

	r.drain(t)
	out, err := wire.Decode(softuart.ParityNone, r.samples)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3, 4, 5}, out)
}

func TestTryPutStringAllOrNothing(t *testing.T) {
	r := newTestRig(t, testConfig(4))
	require.NoError(t, r.tx.TryPutString(nil))
	require.False(t, r.tx.Status().Armed)

	require.NoError(t, r.tx.TryPutString([]byte{1, 2, 3}))
	require.Equal(t, softuart.ErrBusy, r.tx.TryPutString([]byte{4, 5}))
	require.Equal(t, 3, r.tx.Queue().Len())
	require.Equal(t, softuart.ErrBusy, r.tx.TryPutString([]byte{1, 2, 3, 4, 5}))
	require.NoError(t, r.tx.TryPutString([]byte{4}))

	r.drain(t)
	out, err := wire.Decode(softuart.ParityNone, r.samples)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3, 4}, out)
}

func TestFirstStartBitLatency(t *testing.T) {
	r := newTestRig(t, testConfig(4))
	r.tx.Put(0)
	r.step(1)
	require.True(t, r.pin.Level())
	r.step(1)
	require.False(t, r.pin.Level())
	require.Equal(t, []bool{true, false}, r.samples)
}

func TestDisarmIdempotent(t *testing.T) {
	r := newTestRig(t, testConfig(4))
	r.tx.Put(0x55)
	r.drain(t)
	require.False(t, r.timer.Enabled())
	r.tx.Tick()
	r.tx.Tick()
	require.False(t, r.timer.Enabled())
	require.True(t, r.pin.Level())

	// an arm racing with the end of the last frame is undone by one tick
	r.timer.Enable()
	r.step(1)
	require.False(t, r.timer.Enabled())
	require.True(t, r.pin.Level())
	require.Equal(t, softuart.StateIdle, r.tx.Status().State)
}

func TestStalePending(t *testing.T) {
	r := newTestRig(t, testConfig(4))
	r.step(1)
	require.True(t, r.timer.Pending())
	require.NoError(t, r.tx.TryPut(0x55))
	// the stale compare flag fires the handler at once
	st := r.tx.Status()
	require.Equal(t, softuart.StateSending, st.State)
	require.Equal(t, 0, st.Queued)

	r = newTestRig(t, testConfig(4))
	r.step(1)
	require.True(t, r.timer.Pending())
	r.tx.Put(0x55)
	st = r.tx.Status()
	require.Equal(t, softuart.StateIdle, st.State)
	require.Equal(t, 1, st.Queued)
	require.False(t, r.timer.Pending())
}

func TestFIFOOrder(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	in := make([]byte, 300)
	rnd.Read(in)
	for _, parity := range []softuart.Parity{softuart.ParityNone, softuart.ParityEven, softuart.ParityOdd} {
		for _, stopBits := range []uint{1, 2} {
			t.Run(fmt.Sprintf("%s/%d", parity, stopBits), func(t *testing.T) {
				conf := testConfig(8)
				conf.Parity, conf.StopBits = parity, stopBits
				r := newTestRig(t, conf)
				r.put(t, in)
				r.drain(t)
				out, err := wire.Decode(parity, r.samples)
				require.NoError(t, err)
				require.Equal(t, in, out)
				require.Equal(t, len(in)*(1+int(conf.Format().Width())), len(r.samples))
			})
		}
	}
}

func TestConcurrentProducer(t *testing.T) {
	r := newTestRig(t, testConfig(16))
	in := []byte("The quick brown fox jumps over the lazy dog. 0123456789")

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		r.timer.Run(ctx)
	}()

	r.tx.Put(in[0])
	r.tx.PutString(in[1:20])
	n, err := r.tx.Write(in[20:])
	require.NoError(t, err)
	require.Equal(t, len(in)-20, n)
	r.tx.Flush()
	cancel()
	wg.Wait()

	out, err := wire.Decode(softuart.ParityNone, r.samples)
	require.NoError(t, err)
	require.Equal(t, in, out)
}
