package softuart

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/softuart/pkg/hal/sim"
)

func TestQueueTryEnqueue(t *testing.T) {
	q := NewQueue(4, sim.NewCPU())
	for n := 0; n < 4; n++ {
		require.NoError(t, q.TryEnqueue(byte(n)))
		require.Equal(t, n+1, q.Len())
	}
	r, w := q.r, q.w
	require.Equal(t, ErrBusy, q.TryEnqueue(0xff))
	require.Equal(t, 4, q.Len())
	require.Equal(t, 0, q.Free())
	require.Equal(t, r, q.r)
	require.Equal(t, w, q.w)

	for n := 0; n < 4; n++ {
		require.False(t, q.empty())
		require.Equal(t, byte(n), q.dequeue())
	}
	require.True(t, q.empty())
}

func TestQueueWrapAround(t *testing.T) {
	q := NewQueue(3, sim.NewCPU())
	var out []byte
	for n := 0; n < 10; n++ {
		require.NoError(t, q.TryEnqueue(byte(n)))
		require.NoError(t, q.TryEnqueue(byte(n+100)))
		out = append(out, q.dequeue(), q.dequeue())
		require.True(t, q.r >= 0 && q.r < 3)
		require.True(t, q.w >= 0 && q.w < 3)
	}
	require.Len(t, out, 20)
	for n := 0; n < 10; n++ {
		require.Equal(t, byte(n), out[2*n])
		require.Equal(t, byte(n+100), out[2*n+1])
	}
}

func TestQueueTryEnqueueAll(t *testing.T) {
	q := NewQueue(4, sim.NewCPU())
	require.NoError(t, q.TryEnqueueAll([]byte{1, 2, 3}))
	require.Equal(t, ErrBusy, q.TryEnqueueAll([]byte{4, 5}))
	require.Equal(t, 3, q.Len())
	require.NoError(t, q.TryEnqueueAll([]byte{4}))
	require.Equal(t, 4, q.Len())
	require.NoError(t, q.TryEnqueueAll(nil))
}

func TestQueueEnqueueAll(t *testing.T) {
	q := NewQueue(4, sim.NewCPU())
	q.EnqueueAll([]byte{1, 2, 3, 4})
	require.Equal(t, 4, q.Len())
	require.Equal(t, byte(1), q.dequeue())
	q.Enqueue(5)
	for _, b := range []byte{2, 3, 4, 5} {
		require.Equal(t, b, q.dequeue())
	}
	require.True(t, q.empty())
}

func TestQueueReset(t *testing.T) {
	q := NewQueue(2, sim.NewCPU())
	q.Enqueue(1)
	q.dequeue()
	q.Enqueue(2)
	q.Reset()
	require.Equal(t, 0, q.Len())
	require.Equal(t, 2, q.Free())
	require.Equal(t, 2, q.Cap())
}

func TestQueueNestedMask(t *testing.T) {
	cpu := sim.NewCPU()
	q := NewQueue(2, cpu)
	s := cpu.Disable()
	require.NoError(t, q.TryEnqueue(1))
	require.True(t, cpu.Masked())
	cpu.Restore(s)
	require.False(t, cpu.Masked())
}
