package msgs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/softuart/pkg/framework"
)

func TestTypedRoundTrip(t *testing.T) {
	testCases := []struct {
		name    string
		msg     SerializableMessage
		command bool
		event   bool
		reply   bool
	}{
		{"write", NewWriteRequest([]byte("AB"), true), true, false, false},
		{"result", &WriteResult{WriteResultPb{Queued: 2, Busy: true, Message: "busy"}}, true, false, true},
		{"status query", &StatusQuery{}, true, false, false},
		{"status", &Status{StatusPb: StatusPb{Queued: 1, Capacity: 64, Armed: true}}, true, false, true},
		{"status event", NewStatusEvent(StatusPb{Capacity: 64, Sending: true}), false, true, false},
		{"report", &WireReport{WireReportPb{Data: []byte{0x41}, Frames: 1, Ticks: 12}}, false, true, false},
		{"error", NewCommandErr(errors.New("oops")), true, false, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := Encode(tc.msg, 7)
			require.NoError(t, err)
			msg, typed, err := Decode(data)
			require.NoError(t, err)
			require.Equal(t, uint32(7), typed.Sequence)
			require.Equal(t, tc.msg.TypeID(), typed.TypeId)
			require.Equal(t, tc.command, typed.IsCommand())
			require.Equal(t, tc.event, typed.IsEvent())
			require.Equal(t, tc.reply, typed.IsReply())
			decoded, ok := msg.(SerializableMessage)
			require.True(t, ok)
			require.Equal(t, tc.msg.TypeID(), decoded.TypeID())
			require.Equal(t, tc.msg.Serializable().String(), decoded.Serializable().String())
		})
	}
}

type notSerializable struct{}

func (notSerializable) NewMessage() fx.Message { return notSerializable{} }

func TestTypedErrors(t *testing.T) {
	_, err := TypedFrom(notSerializable{})
	require.Equal(t, ErrNotSerializable, err)

	data, err := (Typed{TypedPb{TypeId: 0x1234}}).Encode()
	require.NoError(t, err)
	_, _, err = Decode(data)
	require.Error(t, err)
	_, ok := err.(*ErrUnknownType)
	require.True(t, ok)

	_, err = DecodeTyped([]byte{0xff})
	require.Error(t, err)
}

func TestWireReportEmpty(t *testing.T) {
	require.True(t, (&WireReport{}).Empty())
	require.False(t, (&WireReport{WireReportPb{ParityErrors: 1}}).Empty())
	require.True(t, (&WireReport{WireReportPb{Ticks: 100}}).Empty())
}
