package feed

import (
	"context"
	"io"
	"sync"

	"github.com/golang/glog"

	fx "github.com/robotalks/softuart/pkg/framework"
	"github.com/robotalks/softuart/pkg/msgs"
)

// Pump moves packets from a PacketReadWriter into a Sink.
// In Raw mode every packet is data to transmit and nothing is replied.
// Otherwise packets are Typed messages and commands get replies.
type Pump struct {
	ReadWriter PacketReadWriter
	Sink       *Sink
	Raw        bool

	sendLock sync.Mutex
}

// NewPump creates a Pump.
func NewPump(rw PacketReadWriter, sink *Sink) *Pump {
	return &Pump{ReadWriter: rw, Sink: sink}
}

// NewRawPump creates a Pump in Raw mode.
func NewRawPump(rw PacketReadWriter, sink *Sink) *Pump {
	return &Pump{ReadWriter: rw, Sink: sink, Raw: true}
}

// SendMsg sends a message.
func (p *Pump) SendMsg(msg fx.Message, seq uint32) error {
	pkt, err := msgs.Encode(msg, seq)
	if err != nil {
		return err
	}
	p.sendLock.Lock()
	defer p.sendLock.Unlock()
	return p.ReadWriter.WritePacket(pkt)
}

// Report implements monitor.Reporter by sending the report as an event.
func (p *Pump) Report(ctx context.Context, r *msgs.WireReport) error {
	if p.Raw {
		return nil
	}
	return p.SendMsg(r, 0)
}

// Run implements Runnable.
func (p *Pump) Run(ctx context.Context) error {
	defer p.Close()
	for {
		pkt, err := p.ReadWriter.ReadPacket()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if p.Raw {
			p.Sink.Write(pkt)
			continue
		}
		if err := p.handlePacket(pkt); err != nil {
			return err
		}
	}
}

func (p *Pump) handlePacket(pkt []byte) error {
	msg, typed, err := msgs.Decode(pkt)
	if typed == nil {
		glog.Warningf("drop malformed packet: %v", err)
		return nil
	}
	if !typed.IsCommand() || typed.IsReply() {
		return nil
	}
	if err != nil {
		return p.SendMsg(msgs.NewCommandErr(err), typed.Sequence)
	}
	switch m := msg.(type) {
	case *msgs.WriteRequest:
		return p.SendMsg(p.Sink.Handle(m), typed.Sequence)
	case *msgs.StatusQuery:
		return p.SendMsg(&msgs.Status{StatusPb: p.Sink.Status()}, typed.Sequence)
	default:
		return p.SendMsg(msgs.NewCommandErr(msgs.ErrUnknownCommand), typed.Sequence)
	}
}

// Close implements Closer.
func (p *Pump) Close() error {
	if closer, ok := p.ReadWriter.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
