package serialpin

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeLines struct {
	dtr, rts []bool
	err      error
}

func (l *fakeLines) SetDTR(v bool) error {
	l.dtr = append(l.dtr, v)
	return l.err
}

func (l *fakeLines) SetRTS(v bool) error {
	l.rts = append(l.rts, v)
	return l.err
}

func TestPin(t *testing.T) {
	lines := &fakeLines{}
	pin := New(lines, LineDTR)
	pin.Set(true)
	pin.Set(false)
	require.Equal(t, []bool{true, false}, lines.dtr)
	require.Empty(t, lines.rts)

	pin.Line, pin.Invert = LineRTS, true
	pin.Set(true)
	require.Equal(t, []bool{false}, lines.rts)
	require.NoError(t, pin.Err())
}

func TestPinError(t *testing.T) {
	lines := &fakeLines{err: errors.New("gone")}
	pin := New(lines, LineRTS)
	pin.Set(true)
	lines.err = errors.New("still gone")
	pin.Set(false)
	require.EqualError(t, pin.Err(), "gone")
}

func TestLineFlag(t *testing.T) {
	var l Line
	require.NoError(t, l.Set("RTS"))
	require.Equal(t, LineRTS, l)
	require.Equal(t, "rts", l.String())
	require.Error(t, l.Set("cts"))
}
