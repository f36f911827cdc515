// Package wire decodes an asynchronous serial line sampled once per bit.
package wire

import "github.com/robotalks/softuart/pkg/softuart"

// LineState indicates the state of the line.
type LineState int

const (
	// LineIdle means the line is at mark, waiting for a start bit.
	LineIdle LineState = iota
	// LineReceiving means a frame is in progress.
	LineReceiving
	// LineBreak means the line is held low after a framing error.
	LineBreak
)

// String returns the state name.
func (s LineState) String() string {
	switch s {
	case LineReceiving:
		return "receiving"
	case LineBreak:
		return "break"
	default:
		return "idle"
	}
}

// ParseResult indicates the result after one sample.
type ParseResult struct {
	State LineState
	Byte  byte
	// Ready is set when Byte was received without error.
	Ready bool
	Err   error
}

type parseState int

const (
	stateIdle   parseState = iota // waiting for start bit
	stateData                     // waiting for data bits
	stateParity                   // waiting for parity bit
	stateStop                     // waiting for stop bit
	stateBreak                    // waiting for mark after framing error
)

// Parser parses line samples. Only the first stop bit is checked; any
// further stop bits are indistinguishable from idle.
type Parser struct {
	Parity softuart.Parity

	state  parseState
	data   byte
	nbits  uint
	parity uint16
}

// NewParser creates a Parser.
func NewParser(parity softuart.Parity) *Parser {
	return &Parser{Parity: parity}
}

// State gets the current line state.
func (p *Parser) State() LineState {
	switch p.state {
	case stateIdle:
		return LineIdle
	case stateBreak:
		return LineBreak
	default:
		return LineReceiving
	}
}

// Reset waits for the next start bit.
func (p *Parser) Reset() {
	p.state, p.data, p.nbits, p.parity = stateIdle, 0, 0, 0
}

// Parse consumes one sample, true being mark.
func (p *Parser) Parse(level bool) (pr ParseResult) {
	var bit uint16
	if level {
		bit = 1
	}
	switch p.state {
	case stateIdle:
		if !level {
			p.state, p.data, p.nbits = stateData, 0, 0
		}
	case stateData:
		p.data |= byte(bit) << p.nbits
		if p.nbits++; p.nbits == 8 {
			if p.Parity == softuart.ParityNone {
				p.state = stateStop
			} else {
				p.state = stateParity
			}
		}
	case stateParity:
		p.parity = bit
		p.state = stateStop
	case stateStop:
		pr.Byte = p.data
		switch {
		case !level:
			p.state = stateBreak
			pr.Err = &FrameError{Byte: p.data, Err: ErrFraming}
		case p.Parity != softuart.ParityNone && p.parity != softuart.ParityBit(p.data, p.Parity):
			p.state = stateIdle
			pr.Err = &FrameError{Byte: p.data, Err: ErrParity}
		default:
			p.state = stateIdle
			pr.Ready = true
		}
	case stateBreak:
		if level {
			p.state = stateIdle
		}
	}
	pr.State = p.State()
	return
}

// Decode parses all samples and returns the bytes received plus the first
// error encountered. Bad frames are skipped.
func Decode(parity softuart.Parity, samples []bool) ([]byte, error) {
	var (
		out []byte
		err error
	)
	p := NewParser(parity)
	for _, level := range samples {
		pr := p.Parse(level)
		if pr.Ready {
			out = append(out, pr.Byte)
		} else if pr.Err != nil && err == nil {
			err = pr.Err
		}
	}
	return out, err
}
