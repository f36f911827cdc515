package feed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/softuart/pkg/msgs"
)

// pipeEnd is one end of an in-memory packet pipe.
type pipeEnd struct {
	in  <-chan []byte
	out chan<- []byte
}

func (p *pipeEnd) ReadPacket() ([]byte, error) {
	return <-p.in, nil
}

func (p *pipeEnd) WritePacket(pkt []byte) error {
	p.out <- pkt
	return nil
}

func newPipe() (*chanReadWriter, *pipeEnd) {
	server := newChanReadWriter()
	return server, &pipeEnd{in: server.out, out: server.in}
}

func TestClientWithPump(t *testing.T) {
	b := newTestBench(t)
	server, clientEnd := newPipe()
	pump := NewPump(server, NewSink(b.Tx))
	client := NewClient(clientEnd)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go pump.Run(ctx)
	go client.Run(ctx)

	res, err := client.Write(ctx, []byte("abcd"), true)
	require.NoError(t, err)
	require.Equal(t, uint32(4), res.Queued)
	res, err = client.Write(ctx, []byte("e"), true)
	require.NoError(t, err)
	require.True(t, res.Busy)

	st, err := client.Status(ctx)
	require.NoError(t, err)
	require.Equal(t, uint32(4), st.Queued)

	require.NoError(t, pump.Report(ctx, &msgs.WireReport{WireReportPb: msgs.WireReportPb{Frames: 1}}))
	select {
	case ev := <-client.EventChan():
		require.Equal(t, uint64(1), ev.(*msgs.WireReport).Frames)
	case <-time.After(5 * time.Second):
		t.Fatal("no event")
	}
}

func TestClientNoReply(t *testing.T) {
	server, clientEnd := newPipe()
	client := NewClient(clientEnd)
	cmd1 := client.Do(&msgs.StatusQuery{})
	cmd2 := client.Do(&msgs.StatusQuery{})
	cmd3 := client.Do(&msgs.StatusQuery{})
	require.Equal(t, uint32(2), cmd2.Sequence())
	for n := 0; n < 3; n++ {
		<-server.in
	}

	client.handleReply(cmd2.Sequence(), msgs.NewCommandErr(msgs.ErrUnknownCommand))
	res := <-cmd1.ResultChan()
	require.Equal(t, ErrNoReply, res.Err)
	res = <-cmd2.ResultChan()
	require.EqualError(t, res.Err, msgs.ErrUnknownCommand.Error())

	client.handleReply(99, &msgs.Status{})
	client.failAll(ErrClosed)
	res = <-cmd3.ResultChan()
	require.Equal(t, ErrClosed, res.Err)
}
