// Package timing derives tick timer settings from the CPU clock and baud.
package timing

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidBaud indicates a zero baud rate.
	ErrInvalidBaud = errors.New("invalid baud rate")
	// ErrBaudTooLow indicates no prescaler fits the 8-bit compare register.
	ErrBaudTooLow = errors.New("baud rate too low")
	// ErrBaudTooHigh indicates the bit period is shorter than one clock.
	ErrBaudTooHigh = errors.New("baud rate too high")
)

type prescaler struct {
	div uint32
	cs  uint8
}

// Timer1 prescalers in increasing order with their clock-select bits.
var prescalers = []prescaler{
	{1, 1}, {2, 2}, {4, 3}, {8, 4}, {16, 5}, {32, 6},
}

// Setting is the Timer1 configuration in CTC mode.
type Setting struct {
	CPUHz       uint32
	Divisor     uint32
	ClockSelect uint8
	Compare     uint8
}

// Timer1 picks the smallest prescaler for which one bit period fits in
// the compare register.
func Timer1(cpuHz, baud uint32) (Setting, error) {
	if baud == 0 {
		return Setting{}, ErrInvalidBaud
	}
	if cpuHz < baud {
		return Setting{}, ErrBaudTooHigh
	}
	for _, p := range prescalers {
		clk := cpuHz / p.div
		if clk/baud < 256 {
			return Setting{
				CPUHz:       cpuHz,
				Divisor:     p.div,
				ClockSelect: p.cs,
				Compare:     uint8(clk/baud - 1),
			}, nil
		}
	}
	return Setting{}, ErrBaudTooLow
}

// ActualBaud returns the baud rate the setting produces.
func (s Setting) ActualBaud() float64 {
	return float64(s.CPUHz) / float64(s.Divisor) / float64(uint32(s.Compare)+1)
}

// Error returns the relative deviation from baud.
func (s Setting) Error(baud uint32) float64 {
	return (s.ActualBaud() - float64(baud)) / float64(baud)
}

// Period returns the actual bit period.
func (s Setting) Period() time.Duration {
	return time.Duration(float64(time.Second) / s.ActualBaud())
}

// String returns a register dump.
func (s Setting) String() string {
	return fmt.Sprintf("CS1=%d OCR1C=%d (clk/%d, %.1f baud)", s.ClockSelect, s.Compare, s.Divisor, s.ActualBaud())
}

// BitPeriod returns the nominal period of one bit.
func BitPeriod(baud uint) time.Duration {
	if baud == 0 {
		return 0
	}
	return time.Second / time.Duration(baud)
}
