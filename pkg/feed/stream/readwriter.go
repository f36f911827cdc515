// Package stream frames packets on a byte stream such as stdin or TCP.
package stream

import (
	"encoding/binary"
	"errors"
	"io"
)

// MaxPacketSize bounds the length prefix accepted by ReadPacket.
const MaxPacketSize = 1 << 16

// ErrPacketTooLarge indicates a length prefix above MaxPacketSize.
var ErrPacketTooLarge = errors.New("packet too large")

// ReadWriter implements feed.PacketReadWriter.
// Each packet is prefixed by 4-byte (little-endian) indicate the length.
type ReadWriter struct {
	R io.Reader
	W io.Writer

	// shared is set when R and W are the same stream, closed once.
	shared bool
}

// New creates a ReadWriter with io.ReadWriter.
func New(s io.ReadWriter) *ReadWriter {
	return &ReadWriter{R: s, W: s, shared: true}
}

// NewPair creates a ReadWriter on separate streams, e.g. stdin/stdout.
func NewPair(r io.Reader, w io.Writer) *ReadWriter {
	return &ReadWriter{R: r, W: w}
}

// ReadPacket implements PacketReader.
func (p *ReadWriter) ReadPacket() ([]byte, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(p.R, hdr[:]); err != nil {
		return nil, err
	}
	size := binary.LittleEndian.Uint32(hdr[:])
	if size > MaxPacketSize {
		return nil, ErrPacketTooLarge
	}
	pkt := make([]byte, size)
	if _, err := io.ReadFull(p.R, pkt); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return pkt, nil
}

// WritePacket implements PacketWriter.
func (p *ReadWriter) WritePacket(pkt []byte) error {
	if len(pkt) > MaxPacketSize {
		return ErrPacketTooLarge
	}
	buf := make([]byte, 4+len(pkt))
	binary.LittleEndian.PutUint32(buf, uint32(len(pkt)))
	copy(buf[4:], pkt)
	_, err := p.W.Write(buf)
	return err
}

// Close closes both ends that are io.Closer.
func (p *ReadWriter) Close() error {
	var err error
	if c, ok := p.R.(io.Closer); ok {
		err = c.Close()
	}
	if c, ok := p.W.(io.Closer); ok && !p.shared {
		if e := c.Close(); err == nil {
			err = e
		}
	}
	return err
}
