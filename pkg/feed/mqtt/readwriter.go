package mqtt

import (
	"context"
	"io"
	"sync"
	"time"
)

// PublishTimeout bounds how long a packet write waits for the broker.
const PublishTimeout = 5 * time.Second

// ReadWriter implements feed.PacketReadWriter on a pair of topics.
type ReadWriter struct {
	Queue    *Queue
	SubTopic string
	PubTopic string

	packetCh  chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

// NewPacketReadWriter creates the ReadWriter.
func NewPacketReadWriter(q *Queue) *ReadWriter {
	return &ReadWriter{
		Queue:    q,
		packetCh: make(chan []byte, 16),
		done:     make(chan struct{}),
	}
}

// WithTopics specifies the topics.
func (p *ReadWriter) WithTopics(sub, pub string) *ReadWriter {
	p.SubTopic, p.PubTopic = sub, pub
	return p
}

// ForDevice sets topics for the daemon side: commands in, replies out.
func (p *ReadWriter) ForDevice(id string) *ReadWriter {
	t := DeviceTopics(id)
	return p.WithTopics(t.Tx, t.Rx)
}

// ForRaw sets topics for the raw feed of the daemon. Nothing is replied.
func (p *ReadWriter) ForRaw(id string) *ReadWriter {
	return p.WithTopics(DeviceTopics(id).Raw, "")
}

// ForClient sets topics for a client of the device.
func (p *ReadWriter) ForClient(id string) *ReadWriter {
	t := DeviceTopics(id)
	return p.WithTopics(t.Rx, t.Tx)
}

// ReadPacket implements PacketReader.
func (p *ReadWriter) ReadPacket() ([]byte, error) {
	select {
	case pkt := <-p.packetCh:
		return pkt, nil
	case <-p.done:
		return nil, io.EOF
	}
}

// WritePacket implements PacketWriter.
func (p *ReadWriter) WritePacket(pkt []byte) error {
	if p.PubTopic == "" {
		return nil
	}
	token := p.Queue.Pub(p.PubTopic, pkt)
	if !token.WaitTimeout(PublishTimeout) {
		return context.DeadlineExceeded
	}
	return token.Error()
}

// Run implements Runnable. It subscribes until ctx is done.
func (p *ReadWriter) Run(ctx context.Context) error {
	sub := p.Queue.Sub(p.SubTopic, Handler(p.handleMsg))
	defer sub.Close()
	defer p.Close()
	<-ctx.Done()
	return ctx.Err()
}

// Close implements io.Closer. Pending and further packets are dropped.
func (p *ReadWriter) Close() error {
	p.closeOnce.Do(func() { close(p.done) })
	return nil
}

func (p *ReadWriter) handleMsg(_ string, payload []byte) {
	select {
	case p.packetCh <- payload:
	case <-p.done:
	}
}
