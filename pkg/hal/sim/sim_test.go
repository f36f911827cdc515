package sim

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCPUDefersInterruptsWhileMasked(t *testing.T) {
	cpu := NewCPU()
	var order []string
	outer := cpu.Disable()
	require.True(t, cpu.Masked())
	inner := cpu.Disable()
	cpu.Interrupt(func() { order = append(order, "irq") })
	order = append(order, "masked")
	cpu.Restore(inner)
	require.True(t, cpu.Masked())
	require.Equal(t, []string{"masked"}, order)
	cpu.Restore(outer)
	require.False(t, cpu.Masked())
	require.Equal(t, []string{"masked", "irq"}, order)

	cpu.Interrupt(func() { order = append(order, "direct") })
	require.Equal(t, []string{"masked", "irq", "direct"}, order)
}

func TestTimerPendingFlag(t *testing.T) {
	cpu := NewCPU()
	timer := NewTimer(cpu, 0)
	var fired int
	var probed []uint64
	timer.Attach(func() { fired++ })
	timer.AddProbe(func(n uint64) { probed = append(probed, n) })

	timer.Step()
	require.Equal(t, 0, fired)
	require.True(t, timer.Pending())

	timer.Enable()
	require.Equal(t, 1, fired)
	require.False(t, timer.Pending())

	timer.Step()
	require.Equal(t, 2, fired)
	require.EqualValues(t, 2, timer.Ticks())
	require.Equal(t, []uint64{1, 2}, probed)

	timer.Disable()
	timer.Step()
	timer.ClearPending()
	timer.Enable()
	require.Equal(t, 2, fired)
}

func TestTimerEnableWhileMasked(t *testing.T) {
	cpu := NewCPU()
	timer := NewTimer(cpu, 0)
	var fired int
	timer.Attach(func() { fired++ })
	timer.Step()

	s := cpu.Disable()
	timer.Enable()
	require.Equal(t, 0, fired)
	cpu.Restore(s)
	require.Equal(t, 1, fired)
}

func TestPinTransitions(t *testing.T) {
	p := NewPin()
	require.False(t, p.Level())
	p.Set(true)
	p.Set(true)
	p.Set(false)
	require.False(t, p.Level())
	require.EqualValues(t, 2, p.Transitions())
}
