package websocket

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/softuart/pkg/bench"
	"github.com/robotalks/softuart/pkg/feed"
	"github.com/robotalks/softuart/pkg/msgs"
	"github.com/robotalks/softuart/pkg/softuart"
)

func TestServer(t *testing.T) {
	b, err := bench.New(softuart.Config{BaudRate: 9600, StopBits: 2, BufferSize: 8})
	require.NoError(t, err)
	s := NewServer("", feed.NewSink(b.Tx))
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	rw, err := Dial("ws"+strings.TrimPrefix(ts.URL, "http"), ts.URL)
	require.NoError(t, err)
	defer rw.Close()

	pkt, err := msgs.Encode(msgs.NewWriteRequest([]byte("ws"), true), 9)
	require.NoError(t, err)
	require.NoError(t, rw.WritePacket(pkt))
	pkt, err = rw.ReadPacket()
	require.NoError(t, err)
	msg, typed, err := msgs.Decode(pkt)
	require.NoError(t, err)
	require.Equal(t, uint32(9), typed.Sequence)
	require.Equal(t, uint32(2), msg.(*msgs.WriteResult).Queued)

	require.NoError(t, s.Report(context.Background(), &msgs.WireReport{WireReportPb: msgs.WireReportPb{Frames: 2}}))
	pkt, err = rw.ReadPacket()
	require.NoError(t, err)
	msg, typed, err = msgs.Decode(pkt)
	require.NoError(t, err)
	require.True(t, typed.IsEvent())
	require.Equal(t, uint64(2), msg.(*msgs.WireReport).Frames)

	_, err = b.StepUntilIdle(100)
	require.NoError(t, err)
	require.Equal(t, []byte("ws"), b.Received())
}
