// Package serialpin drives a modem control line of a host serial port as
// the transmit pin, so the bit stream can be watched on a scope or fed to
// another UART's RX.
package serialpin

import (
	"fmt"
	"sync"

	"github.com/golang/glog"
	"go.bug.st/serial"
)

// Line selects the modem control line.
type Line int

// Lines
const (
	LineDTR Line = iota
	LineRTS
)

// String implements flag.Value.
func (l Line) String() string {
	if l == LineRTS {
		return "rts"
	}
	return "dtr"
}

// Set implements flag.Value.
func (l *Line) Set(s string) error {
	switch s {
	case "dtr", "DTR":
		*l = LineDTR
	case "rts", "RTS":
		*l = LineRTS
	default:
		return fmt.Errorf("unknown modem line %q", s)
	}
	return nil
}

// ModemLines is the part of serial.Port the pin needs.
type ModemLines interface {
	SetDTR(bool) error
	SetRTS(bool) error
}

// Pin implements hal.Pin on a modem control line. RS-232 drivers invert,
// so an asserted line reads as space; set Invert to compensate.
type Pin struct {
	Lines  ModemLines
	Line   Line
	Invert bool

	lock sync.Mutex
	err  error
}

// New creates a Pin on lines.
func New(lines ModemLines, line Line) *Pin {
	return &Pin{Lines: lines, Line: line}
}

// Set implements hal.Pin. Only the first failure is kept and logged.
func (p *Pin) Set(high bool) {
	level := high != p.Invert
	var err error
	if p.Line == LineRTS {
		err = p.Lines.SetRTS(level)
	} else {
		err = p.Lines.SetDTR(level)
	}
	if err != nil {
		p.lock.Lock()
		if p.err == nil {
			p.err = err
			glog.Errorf("set %s: %v", p.Line, err)
		}
		p.lock.Unlock()
	}
}

// Err returns the first error from the port.
func (p *Pin) Err() error {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.err
}

// Port is a Pin owning the serial port.
type Port struct {
	*Pin
	port serial.Port
}

// Open opens the named serial port and drives line at mark.
func Open(name string, line Line) (*Port, error) {
	port, err := serial.Open(name, &serial.Mode{BaudRate: 9600})
	if err != nil {
		return nil, fmt.Errorf("open %s: %v", name, err)
	}
	p := &Port{Pin: New(port, line), port: port}
	p.Set(true)
	return p, p.Err()
}

// Close implements io.Closer.
func (p *Port) Close() error {
	return p.port.Close()
}
