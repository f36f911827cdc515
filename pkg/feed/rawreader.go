package feed

import "io"

// DefaultChunkSize is the largest packet RawReader returns.
const DefaultChunkSize = 256

// RawReader turns a byte stream into packets of whatever each Read
// returns. WritePacket discards, so it can back a Raw Pump.
type RawReader struct {
	Reader    io.Reader
	ChunkSize int
}

// NewRawReader creates a RawReader.
func NewRawReader(r io.Reader) *RawReader {
	return &RawReader{Reader: r, ChunkSize: DefaultChunkSize}
}

// ReadPacket implements PacketReader.
func (r *RawReader) ReadPacket() ([]byte, error) {
	size := r.ChunkSize
	if size <= 0 {
		size = DefaultChunkSize
	}
	buf := make([]byte, size)
	for {
		n, err := r.Reader.Read(buf)
		if n > 0 {
			return buf[:n], nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// WritePacket implements PacketWriter.
func (r *RawReader) WritePacket([]byte) error {
	return nil
}

// Close implements io.Closer when the reader does.
func (r *RawReader) Close() error {
	if closer, ok := r.Reader.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
