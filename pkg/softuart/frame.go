package softuart

import (
	"fmt"
	"strings"
)

// Parity selects the optional parity bit.
type Parity int

// Parity modes.
const (
	ParityNone Parity = iota
	ParityEven
	ParityOdd
)

// String implements flag.Value.
func (p Parity) String() string {
	switch p {
	case ParityEven:
		return "even"
	case ParityOdd:
		return "odd"
	default:
		return "none"
	}
}

// Set implements flag.Value.
func (p *Parity) Set(s string) error {
	switch strings.ToLower(s) {
	case "", "none", "n":
		*p = ParityNone
	case "even", "e":
		*p = ParityEven
	case "odd", "o":
		*p = ParityOdd
	default:
		return fmt.Errorf("invalid parity %q", s)
	}
	return nil
}

// Bits returns the number of parity bits in a frame.
func (p Parity) Bits() uint {
	if p == ParityNone {
		return 0
	}
	return 1
}

// ParityBit computes the parity bit of c. The accumulator is seeded with 1
// for odd parity and 0 for even parity, then toggled by every set bit.
func ParityBit(c byte, p Parity) uint16 {
	var acc uint16
	if p == ParityOdd {
		acc = 1
	}
	for ; c != 0; c >>= 1 {
		acc ^= uint16(c & 1)
	}
	return acc
}

// Format describes the frame layout. The data width is always 8 bits.
type Format struct {
	Parity   Parity
	StopBits uint
}

// DefaultStopBits is the number of mark bits closing a frame.
const DefaultStopBits = 2

// Width returns the number of bits in a frame.
func (f Format) Width() uint {
	return 1 + 8 + f.Parity.Bits() + f.stopBits()
}

// Frame packs c into a frame, least significant bit first:
// start(0) | data bit0..bit7 | parity | stop(1)...
func (f Format) Frame(c byte) Frame {
	bits := uint16(c) << 1
	offset := 9 + f.Parity.Bits()
	if f.Parity != ParityNone {
		bits |= ParityBit(c, f.Parity) << 9
	}
	bits |= (1<<f.stopBits() - 1) << offset
	return Frame{Bits: bits, Width: uint8(f.Width())}
}

func (f Format) stopBits() uint {
	if f.StopBits == 0 {
		return DefaultStopBits
	}
	return f.StopBits
}

// Frame is a serialized byte ready to be shifted out.
type Frame struct {
	Bits  uint16
	Width uint8
}

// Levels expands the frame into line levels in transmission order.
func (f Frame) Levels() []bool {
	levels := make([]bool, f.Width)
	for n := range levels {
		levels[n] = f.Bits&(1<<uint(n)) != 0
	}
	return levels
}
