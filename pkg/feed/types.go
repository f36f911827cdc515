// Package feed carries byte strings from outside sources into a
// transmitter.
package feed

import "github.com/robotalks/softuart/pkg/softuart"

// PacketReader reads packets in bytes.
type PacketReader interface {
	ReadPacket() ([]byte, error)
}

// PacketWriter writes packets in bytes.
type PacketWriter interface {
	WritePacket([]byte) error
}

// PacketReadWriter reads/writes packets in bytes.
type PacketReadWriter interface {
	PacketReader
	PacketWriter
}

// Transmitter is what feeds write into.
type Transmitter interface {
	PutString([]byte)
	TryPutString([]byte) error
	Status() softuart.Status
}
